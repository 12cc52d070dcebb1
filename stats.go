package tl2stm

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// StatsSink observes transaction lifecycle events. It carries no
// correctness load: the core never consults a sink's return value or
// state, and a nil-safe no-op implementation is the default.
type StatsSink interface {
	IncInit()
	IncCommit()
	IncAbort()
	IncRestart()
}

// noopStats is the default StatsSink: every method is a no-op.
type noopStats struct{}

func (noopStats) IncInit()    {}
func (noopStats) IncCommit()  {}
func (noopStats) IncAbort()   {}
func (noopStats) IncRestart() {}

// AtomicStats is an in-process StatsSink backed by atomic counters,
// for callers that want the tallies without a metrics system.
type AtomicStats struct {
	Inits    atomic.Uint64
	Commits  atomic.Uint64
	Aborts   atomic.Uint64
	Restarts atomic.Uint64
}

func (s *AtomicStats) IncInit()    { s.Inits.Add(1) }
func (s *AtomicStats) IncCommit()  { s.Commits.Add(1) }
func (s *AtomicStats) IncAbort()   { s.Aborts.Add(1) }
func (s *AtomicStats) IncRestart() { s.Restarts.Add(1) }

// PrometheusStats adapts the four lifecycle counters to Prometheus
// counters, for callers that already run a Prometheus registry.
type PrometheusStats struct {
	inits    prometheus.Counter
	commits  prometheus.Counter
	aborts   prometheus.Counter
	restarts prometheus.Counter
}

// NewPrometheusStats registers four counters under namespace in reg
// and returns a StatsSink backed by them.
func NewPrometheusStats(reg prometheus.Registerer, namespace string) *PrometheusStats {
	mk := func(name, help string) prometheus.Counter {
		c := prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tl2stm",
			Name:      name,
			Help:      help,
		})
		reg.MustRegister(c)
		return c
	}
	return &PrometheusStats{
		inits:    mk("tx_inits_total", "Number of Core initializations."),
		commits:  mk("tx_commits_total", "Number of committed transactions."),
		aborts:   mk("tx_aborts_total", "Number of aborted transactions."),
		restarts: mk("tx_restarts_total", "Number of transaction restarts after a conflict."),
	}
}

func (s *PrometheusStats) IncInit()    { s.inits.Inc() }
func (s *PrometheusStats) IncCommit()  { s.commits.Inc() }
func (s *PrometheusStats) IncAbort()   { s.aborts.Inc() }
func (s *PrometheusStats) IncRestart() { s.restarts.Inc() }
