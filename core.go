package tl2stm

import "errors"

// Core is the process-wide state a TL2 transaction runs against: the
// global version clock and the versioned lock table. It is allocated
// once at startup and freed at shutdown; no transaction may be in
// flight during either.
type Core struct {
	clock globalClock
	locks lockTable
	cfg   Config
}

// NewCore allocates and initializes a Core: the global version clock
// at 0 and a versioned lock table of cfg.numStripes slots (default
// 2^20). Construction itself does not run any transaction.
func NewCore(opts ...Option) *Core {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	c := &Core{cfg: cfg}
	c.clock.init()
	c.locks.init(cfg.numStripes)
	c.cfg.stats.IncInit()
	c.cfg.logger.Info("tl2stm core initialized", "num_stripes", cfg.numStripes)
	return c
}

// Shutdown clears every lock table slot and resets the clock to 0.
// Callers must ensure no transaction is in flight.
func (c *Core) Shutdown() {
	c.locks.clearAll()
	c.clock.init()
	c.cfg.logger.Info("tl2stm core shut down")
}

// NewTx constructs a fresh, Initial-state transaction context bound to
// this Core. Construction does not sample the clock; call Begin for
// that.
func (c *Core) NewTx() *Tx {
	tx := &Tx{core: c, id: newTxID()}
	tx.reads.init()
	tx.writes.init()
	return tx
}

// Atomically is the begin/try-commit/restart retry-loop convenience
// of spec.md §6 item 6. body is invoked from scratch, with a freshly
// begun transaction, on every attempt, until it returns nil and the
// commit succeeds, or body returns a non-conflict error.
//
// This is a closure-based helper, not "macro sugar" for begin/end
// transaction blocks (spec.md §1 rules the latter out of scope): it
// adds no syntax, only a loop around the same Begin/Commit/Abort calls
// a caller could make by hand.
func (c *Core) Atomically(body func(tx *Tx) error) error {
	defer func() {
		if r := recover(); r != nil {
			var iu *InvalidUseError
			if err, ok := r.(error); ok && errors.As(err, &iu) {
				c.cfg.logger.Error("tl2stm invalid use inside Atomically", "err", err)
			}
			panic(r)
		}
	}()
	tx := c.NewTx()
	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			c.cfg.stats.IncRestart()
		}
		tx.Begin()
		if err := body(tx); err != nil {
			if tx.status == StatusAborted {
				continue
			}
			return err
		}
		ok, err := tx.Commit()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
}
