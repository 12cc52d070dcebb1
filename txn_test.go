package tl2stm

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestReadYourOwnWrites(t *testing.T) {
	core := NewCore()
	defer core.Shutdown()

	var x int
	err := core.Atomically(func(tx *Tx) error {
		WriteVar(tx, &x, 7)
		got, err := ReadVar(tx, &x)
		require.NoError(t, err)
		require.Equal(t, 7, got)
		return nil
	})
	require.NoError(t, err)

	err = core.Atomically(func(tx *Tx) error {
		got, err := ReadVar(tx, &x)
		require.NoError(t, err)
		require.Equal(t, 7, got)
		return nil
	})
	require.NoError(t, err)
}

func TestReadOnlyCommitDoesNotAdvanceClock(t *testing.T) {
	core := NewCore()
	defer core.Shutdown()

	var x int
	before := core.clock.relaxedGet()
	for i := 0; i < 100; i++ {
		err := core.Atomically(func(tx *Tx) error {
			_, err := ReadVar(tx, &x)
			return err
		})
		require.NoError(t, err)
	}
	require.Equal(t, before, core.clock.relaxedGet(), "a commit whose write set is empty must not touch the GVC")
}

func TestEmptyTransactionCommitIsIdempotent(t *testing.T) {
	core := NewCore()
	defer core.Shutdown()

	for i := 0; i < 10; i++ {
		err := core.Atomically(func(tx *Tx) error { return nil })
		require.NoError(t, err)
	}
	require.Equal(t, Version(0), core.clock.relaxedGet())
}

func TestWriteThenCommitAdvancesClockByOne(t *testing.T) {
	core := NewCore()
	defer core.Shutdown()
	var x int

	before := core.clock.relaxedGet()
	err := core.Atomically(func(tx *Tx) error {
		WriteVar(tx, &x, 1)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, before+1, core.clock.relaxedGet())
}

func TestCommitOnNonActiveTransactionPanics(t *testing.T) {
	core := NewCore()
	defer core.Shutdown()
	tx := core.NewTx()
	tx.Begin()
	_, err := tx.Commit()
	require.NoError(t, err)

	require.Panics(t, func() {
		tx.Commit()
	})
}

func TestWriteBeforeBeginPanics(t *testing.T) {
	core := NewCore()
	defer core.Shutdown()
	tx := core.NewTx()
	var x int
	require.Panics(t, func() {
		WriteVar(tx, &x, 1)
	})
}

func TestReadNilAddressPanics(t *testing.T) {
	core := NewCore()
	defer core.Shutdown()
	tx := core.NewTx()
	tx.Begin()
	var dst int
	require.Panics(t, func() {
		tx.Read(unsafe.Pointer(&dst), nil, 8)
	})
}
