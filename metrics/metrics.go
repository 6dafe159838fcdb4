package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/smallnest/transpilegraph/graph"
	"github.com/smallnest/transpilegraph/transpile"
)

// Run outcomes used as the outcome label of transpile_runs_total.
const (
	OutcomeAccepted  = "accepted"
	OutcomeExhausted = "exhausted"
	OutcomeFailed    = "failed"
)

// Collector records transpiler runs on its own registry.
type Collector struct {
	registry *prometheus.Registry

	runs          *prometheus.CounterVec
	generations   *prometheus.HistogramVec
	stageDuration *prometheus.HistogramVec
	stageErrors   *prometheus.CounterVec
}

// NewCollector creates a collector with a fresh registry.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		runs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transpile_runs_total",
				Help: "Total number of transpiler runs by outcome",
			},
			[]string{"outcome"},
		),
		generations: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "transpile_generations",
				Help:    "Number of candidates generated per finished run",
				Buckets: []float64{1, 2, 3, 4, 5, 6, 8, 10},
			},
			[]string{"outcome"},
		),
		stageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "transpile_stage_duration_seconds",
				Help:    "Stage execution duration in seconds",
				Buckets: []float64{0.01, 0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
			},
			[]string{"stage"},
		),
		stageErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transpile_stage_errors_total",
				Help: "Total number of stages that failed",
			},
			[]string{"stage"},
		),
	}
}

// Registry exposes the registry the collector writes to.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Hook returns a trace hook that times every finished stage.
func (c *Collector) Hook() graph.TraceHook {
	return graph.TraceHookFunc(func(_ context.Context, span *graph.TraceSpan) {
		switch span.Event {
		case graph.TraceEventNodeEnd:
			c.stageDuration.WithLabelValues(span.NodeName).Observe(span.Duration.Seconds())
		case graph.TraceEventNodeError:
			c.stageDuration.WithLabelValues(span.NodeName).Observe(span.Duration.Seconds())
			c.stageErrors.WithLabelValues(span.NodeName).Inc()
		}
	})
}

// ObserveRun counts a finished run. It has the shape of transpile.RunObserver.
func (c *Collector) ObserveRun(_ context.Context, res transpile.Result, err error) {
	outcome := Outcome(res, err)
	c.runs.WithLabelValues(outcome).Inc()
	if err == nil {
		c.generations.WithLabelValues(outcome).Observe(float64(res.Iterations))
	}
}

// Options returns the transpiler options that feed this collector.
func (c *Collector) Options() []transpile.Option {
	return []transpile.Option{
		transpile.WithTraceHook(c.Hook()),
		transpile.WithRunObserver(c.ObserveRun),
	}
}

// WriteTextfile writes the current values in the node-exporter textfile format.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}

// Outcome classifies a run.
func Outcome(res transpile.Result, err error) string {
	switch {
	case err != nil:
		return OutcomeFailed
	case res.Accepted():
		return OutcomeAccepted
	default:
		return OutcomeExhausted
	}
}
