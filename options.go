package tl2stm

import (
	"log/slog"
	"os"
)

// defaultNumStripes is the reference VLT size from spec.md §3: 2^20
// slots.
const defaultNumStripes = 1 << 20

// defaultCommitLockRetryBudget bounds the commit path's write-lock
// acquisition, per spec.md §4.4 step 1 ("reference: spin up to ~128
// attempts per slot").
const defaultCommitLockRetryBudget = 128

// Config holds the tunables a Core is built with. There is no
// exported constructor for Config; build one with NewCore and Option
// values instead.
type Config struct {
	numStripes            int
	commitLockRetryBudget int
	stats                 StatsSink
	logger                *slog.Logger
}

func defaultConfig() Config {
	return Config{
		numStripes:            defaultNumStripes,
		commitLockRetryBudget: defaultCommitLockRetryBudget,
		stats:                 noopStats{},
		logger:                slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})),
	}
}

// Option configures a Core at construction time.
type Option func(*Config)

// WithNumStripes overrides the VLT's slot count. n must be a power of
// two; it is not validated here, since Core construction is a one-time
// startup cost where a caller-supplied constant should fail loudly in
// review, not be silently rounded.
func WithNumStripes(n int) Option {
	return func(c *Config) { c.numStripes = n }
}

// WithCommitLockRetryBudget overrides the number of tryAcquire
// attempts the commit path makes per write-set slot before aborting.
func WithCommitLockRetryBudget(n int) Option {
	return func(c *Config) { c.commitLockRetryBudget = n }
}

// WithStats installs a StatsSink observing commit/abort/restart/init
// events. The default is a no-op sink.
func WithStats(s StatsSink) Option {
	return func(c *Config) { c.stats = s }
}

// WithLogger installs a custom *slog.Logger for the two lifecycle
// transitions (NewCore, Shutdown) and for invalid-use panics captured
// by Atomically. The default logs warnings and above to stderr.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.logger = l }
}
