package tl2stm

import "sync/atomic"

// Version is a point on the global version clock. The GVC itself is a
// Version; a LockWord packs a Version into its upper 63 bits.
type Version uint64

// globalClock is the single monotonic version counter shared by every
// transaction that runs through one Core. It supplies read-timestamps
// at begin and write-timestamps at commit.
//
// read and relaxedGet are both implemented with atomic.Uint64.Load:
// the Go memory model already gives every atomic load synchronizes-
// before ordering at least as strong as "acquire," so there is no
// weaker primitive to reach for relaxedGet with. The two names exist
// to document caller intent (relaxedGet is for stats/debugging, never
// for a correctness decision), not because the underlying load
// differs.
type globalClock struct {
	v atomic.Uint64
}

// init sets the clock to 0. Callers must ensure no transaction is in
// flight when this runs.
func (c *globalClock) init() {
	c.v.Store(0)
}

// read returns the current clock value. Any write that happened
// before the most recent increment is visible to the caller after
// this call returns.
func (c *globalClock) read() Version {
	return Version(c.v.Load())
}

// relaxedGet returns the current clock value with no ordering
// guarantee beyond what read provides. Intended for statistics and
// debugging only; never use it to make a correctness decision.
func (c *globalClock) relaxedGet() Version {
	return Version(c.v.Load())
}

// incrementAndFetch atomically advances the clock by one and returns
// the new value. Every speculative write the caller buffered before
// this call is visible to any goroutine that subsequently observes the
// returned value (or greater) via read.
func (c *globalClock) incrementAndFetch() Version {
	return Version(c.v.Add(1))
}
