package tl2stm

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGlobalClockInitIsZero(t *testing.T) {
	var c globalClock
	c.init()
	require.Equal(t, Version(0), c.read())
	require.Equal(t, Version(0), c.relaxedGet())
}

func TestGlobalClockIncrementAndFetch(t *testing.T) {
	var c globalClock
	c.init()
	require.Equal(t, Version(1), c.incrementAndFetch())
	require.Equal(t, Version(2), c.incrementAndFetch())
	require.Equal(t, Version(2), c.read())
}

// TestGlobalClockMonotonic exercises spec.md §8: "GVC is strictly
// non-decreasing across all observations."
func TestGlobalClockMonotonic(t *testing.T) {
	var c globalClock
	c.init()

	const goroutines = 16
	const perGoroutine = 2000

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				c.incrementAndFetch()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, Version(goroutines*perGoroutine), c.read())
}
