package tl2stm

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestBloomNoFalseNegatives(t *testing.T) {
	var b addressBloom
	var xs [64]int
	for i := range xs {
		b.add(unsafe.Pointer(&xs[i]))
	}
	for i := range xs {
		require.True(t, b.mayContain(unsafe.Pointer(&xs[i])), "bloom filter must never reject a present address")
	}
}

func TestBloomAbsentOftenRejected(t *testing.T) {
	var b addressBloom
	var present [8]int
	for i := range present {
		b.add(unsafe.Pointer(&present[i]))
	}

	var absent [256]int
	rejected := 0
	for i := range absent {
		if !b.mayContain(unsafe.Pointer(&absent[i])) {
			rejected++
		}
	}
	require.Greater(t, rejected, 0, "a mostly-empty filter should reject at least some absent addresses")
}
