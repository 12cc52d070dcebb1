package tl2stm

import "unsafe"

// inlineCap is the largest value size stored directly inside a
// writeEntry. Larger values allocate an overflow buffer sized to the
// value.
const inlineCap = 32

// readSetInitCap and writeSetInitCap are the initial capacities of a
// transaction's logs. Both grow by doubling, which in Go is simply
// append's own growth policy on a slice preallocated with make(...,
// 0, cap).
const (
	readSetInitCap  = 16
	writeSetInitCap = 32
)

// readEntry records one speculative read that was not satisfied from
// the write set. Duplicates are permitted; correctness only requires a
// bounded size proportional to the transaction's distinct reads.
type readEntry struct {
	addr unsafe.Pointer
	slot *lockWord
}

// readLog is the per-transaction read set: a dynamically grown,
// ordered append log. All entries belong to the owning transaction;
// it is cleared on begin, abort, and commit-completion.
type readLog struct {
	entries []readEntry
}

func (r *readLog) init() {
	r.entries = make([]readEntry, 0, readSetInitCap)
}

func (r *readLog) append(addr unsafe.Pointer, slot *lockWord) {
	r.entries = append(r.entries, readEntry{addr: addr, slot: slot})
}

func (r *readLog) reset() {
	r.entries = r.entries[:0]
}

// writeEntry buffers one transaction's speculative write to addr.
// Values up to inlineCap bytes live in inline; larger values live in
// an overflow buffer owned by the entry.
type writeEntry struct {
	addr     unsafe.Pointer
	slot     *lockWord
	size     uintptr
	inline   [inlineCap]byte
	overflow []byte
}

// bytes returns the entry's buffered value, whichever buffer holds it.
func (e *writeEntry) bytes() []byte {
	if e.size <= inlineCap {
		return e.inline[:e.size]
	}
	return e.overflow[:e.size]
}

// store copies size bytes from src into the entry's buffer, choosing
// inline or overflow storage based on size.
func (e *writeEntry) store(size uintptr, src unsafe.Pointer) {
	e.size = size
	if size <= inlineCap {
		copy(e.inline[:size], unsafe.Slice((*byte)(src), size))
		e.overflow = nil
		return
	}
	if uintptr(len(e.overflow)) < size {
		e.overflow = make([]byte, size)
	} else {
		e.overflow = e.overflow[:size]
	}
	copy(e.overflow, unsafe.Slice((*byte)(src), size))
}

// writeSet is the per-transaction write set: at most one entry per
// address, plus a Bloom filter over the addresses present so a lookup
// that is "definitely absent" never touches the entry slice.
type writeSet struct {
	entries []writeEntry
	filter  addressBloom
}

func (w *writeSet) init() {
	w.entries = make([]writeEntry, 0, writeSetInitCap)
	w.filter.reset()
}

func (w *writeSet) reset() {
	w.entries = w.entries[:0]
	w.filter.reset()
}

// lookup returns the entry for addr, or nil if absent. The Bloom
// filter's negative answer is authoritative; a positive answer still
// requires the linear scan because of possible false positives.
func (w *writeSet) lookup(addr unsafe.Pointer) *writeEntry {
	if !w.filter.mayContain(addr) {
		return nil
	}
	for i := range w.entries {
		if w.entries[i].addr == addr {
			return &w.entries[i]
		}
	}
	return nil
}

// add buffers size bytes from src as the speculative new value at
// addr, served by slot. A second write to the same address overwrites
// the previous entry in place; otherwise a new entry is appended and
// addr is inserted into the Bloom filter.
func (w *writeSet) add(addr unsafe.Pointer, slot *lockWord, size uintptr, src unsafe.Pointer) {
	if e := w.lookup(addr); e != nil {
		e.store(size, src)
		return
	}
	w.entries = append(w.entries, writeEntry{addr: addr, slot: slot})
	w.entries[len(w.entries)-1].store(size, src)
	w.filter.add(addr)
}
