package tl2stm

import (
	"unsafe"

	"github.com/google/uuid"
)

// Status is a transaction's position in the TL2 state diagram:
// Initial -> Active -> {Aborted | Committed}.
type Status int32

const (
	StatusInitial Status = iota
	StatusActive
	StatusAborted
	StatusCommitted
)

func newTxID() uuid.UUID {
	return uuid.New()
}

// Tx is a transaction context: read-timestamp, write-timestamp,
// read-only flag, status, and the owned read/write logs. A Tx
// exclusively owns its logs and any overflow buffers they hold; they
// live no longer than the Tx. Only one goroutine may drive a given Tx
// at a time, and that goroutine owns it for the lifetime of one
// transaction attempt.
type Tx struct {
	core *Core

	// id is a thread-affine diagnostic identifier, never consulted for
	// correctness.
	id uuid.UUID

	readTS   Version
	writeTS  Version
	readOnly bool
	status   Status

	// lockedPrefix is the number of leading writes.entries slots this
	// Tx currently holds locked, i.e. how far the commit path's lock
	// phase (step 1) got before either succeeding completely or
	// failing. It is 0 whenever Tx is not in the middle of a commit
	// attempt, so Abort called outside Commit never touches a lock it
	// never acquired.
	lockedPrefix int

	reads  readLog
	writes writeSet
}

// ID returns the transaction's diagnostic identifier.
func (tx *Tx) ID() uuid.UUID { return tx.id }

// Status returns the transaction's current state.
func (tx *Tx) Status() Status { return tx.status }

// Begin transitions Tx from Initial (or a just-aborted state) to
// Active: it samples the read-timestamp from the Core's global clock
// and clears both logs.
func (tx *Tx) Begin() {
	tx.readTS = tx.core.clock.read()
	tx.writeTS = 0
	tx.readOnly = true
	tx.status = StatusActive
	tx.lockedPrefix = 0
	tx.reads.reset()
	tx.writes.reset()
}

// Read copies size bytes from the transactable location src into dst,
// following the TL2 speculative-read protocol: check the write set
// first (read-your-own-writes), then take a pre-snapshot of src's VLT
// slot, read the value, take a post-snapshot, and compare. src must
// not be nil and must outlive the transaction.
//
// Read returns ErrConflict if the location's version lock was found
// locked or too new at either snapshot, or if the two snapshots
// disagree. On conflict the transaction is aborted before Read
// returns; the caller's only valid next step is to retry from a fresh
// Begin.
func (tx *Tx) Read(dst, src unsafe.Pointer, size uintptr) error {
	tx.requireActive()
	if src == nil || dst == nil {
		panicInvalidUse("read with nil address")
	}

	if e := tx.writes.lookup(src); e != nil {
		copy(unsafe.Slice((*byte)(dst), size), e.bytes())
		return nil
	}

	slot := tx.core.locks.slot(uintptr(src))

	preLocked, preVersion := slot.snapshot()
	if preLocked || preVersion > tx.readTS {
		return tx.signalConflict()
	}

	copy(unsafe.Slice((*byte)(dst), size), unsafe.Slice((*byte)(src), size))

	postLocked, postVersion := slot.snapshot()
	if postLocked != preLocked || postVersion != preVersion || postVersion > tx.readTS || postLocked {
		return tx.signalConflict()
	}

	tx.reads.append(src, slot)
	return nil
}

// Write buffers size bytes from bytes as the transaction's speculative
// new value for dst. The value is not visible outside the transaction
// until a successful Commit. Write never itself aborts.
func (tx *Tx) Write(dst, bytes unsafe.Pointer, size uintptr) {
	tx.requireActive()
	if dst == nil {
		panicInvalidUse("write with nil address")
	}
	tx.readOnly = false
	slot := tx.core.locks.slot(uintptr(dst))
	tx.writes.add(dst, slot, size, bytes)
}

// Commit attempts to publish the transaction. A read-only transaction
// (no writes) commits trivially without touching the global clock. A
// read-write transaction locks its write set, samples a write-
// timestamp, validates its read set against its read-timestamp (unless
// the global-clock elision optimization applies), applies its buffered
// writes, and releases the write-set locks stamped with the new
// version.
//
// Commit returns (true, nil) on success and (false, nil) on a detected
// conflict (the transaction has already been aborted; the caller
// should retry from a fresh Begin). The error result is always nil:
// invalid use, such as committing a transaction that is not Active,
// panics with an InvalidUseError instead.
func (tx *Tx) Commit() (bool, error) {
	tx.requireActive()

	if tx.readOnly {
		tx.status = StatusCommitted
		tx.reads.reset()
		tx.writes.reset()
		tx.core.cfg.stats.IncCommit()
		return true, nil
	}

	tx.lockedPrefix = 0
	for i := range tx.writes.entries {
		e := &tx.writes.entries[i]
		acquired := false
		for attempt := 0; attempt < tx.core.cfg.commitLockRetryBudget; attempt++ {
			if e.slot.tryAcquire() {
				acquired = true
				break
			}
		}
		if !acquired {
			tx.abortLocked()
			return false, nil
		}
		tx.lockedPrefix++
	}

	writeTS := tx.core.clock.incrementAndFetch()
	tx.writeTS = writeTS

	if writeTS != tx.readTS+1 {
		for i := range tx.reads.entries {
			re := &tx.reads.entries[i]
			slotLocked, slotVersion := re.slot.snapshot()
			if (slotLocked && !tx.holdsSlot(re.slot)) || slotVersion > tx.readTS {
				tx.abortLocked()
				return false, nil
			}
		}
	}

	for i := range tx.writes.entries {
		e := &tx.writes.entries[i]
		copy(unsafe.Slice((*byte)(e.addr), e.size), e.bytes())
	}
	for i := range tx.writes.entries {
		tx.writes.entries[i].slot.release(writeTS)
	}
	tx.lockedPrefix = 0

	tx.status = StatusCommitted
	tx.reads.reset()
	tx.writes.reset()
	tx.core.cfg.stats.IncCommit()
	return true, nil
}

// Abort releases any locks still held by tx (only non-zero in the
// middle of a Commit's lock phase), resets its logs, and sets its
// status to Aborted.
func (tx *Tx) Abort() {
	tx.abortLocked()
}

// Restart is Abort followed by Begin.
func (tx *Tx) Restart() {
	tx.Abort()
	tx.Begin()
}

// signalConflict aborts tx (no locks are ever held outside commit, so
// this only resets the logs and status) and returns ErrConflict.
func (tx *Tx) signalConflict() error {
	tx.abortLocked()
	return ErrConflict
}

// abortLocked releases any locks tx currently holds (tracked by
// lockedPrefix), transitions to Aborted, and clears the logs.
func (tx *Tx) abortLocked() {
	tx.releaseHeld(tx.lockedPrefix)
	tx.lockedPrefix = 0
	tx.status = StatusAborted
	tx.reads.reset()
	tx.writes.reset()
	tx.core.cfg.stats.IncAbort()
}

// releaseHeld unlocks the first n entries of the write set without
// changing their version, undoing a partially successful lock phase.
func (tx *Tx) releaseHeld(n int) {
	for i := 0; i < n; i++ {
		tx.writes.entries[i].slot.unlock()
	}
}

// holdsSlot reports whether slot belongs to one of tx's own write-set
// entries, i.e. whether tx itself is the lock holder a validation step
// observed.
func (tx *Tx) holdsSlot(slot *lockWord) bool {
	for i := range tx.writes.entries {
		if tx.writes.entries[i].slot == slot {
			return true
		}
	}
	return false
}

// requireActive panics with InvalidUseError if tx is not Active: this
// catches reads/writes before Begin or after a prior Abort/Commit, and
// a second Commit on an already-resolved transaction.
func (tx *Tx) requireActive() {
	if tx.status != StatusActive {
		panicInvalidUse("operation on a transaction that is not Active")
	}
}
