// Package metrics holds the Prometheus instruments for the processing pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Result labels for the processed counter.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Pipeline aggregates the domain metrics recorded by the worker and the
// recovery sweep.
type Pipeline struct {
	ReceiptsProcessed *prometheus.CounterVec
	ReceiptsRecovered prometheus.Counter
	RunDuration       *prometheus.HistogramVec
}

// NewPipeline creates and registers the pipeline metrics.
func NewPipeline(reg prometheus.Registerer) (*Pipeline, error) {
	p := &Pipeline{
		ReceiptsProcessed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "receipts_processed_total",
				Help: "Total receipts whose analysis finished, by result.",
			},
			[]string{"result"},
		),
		ReceiptsRecovered: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "receipts_recovered_total",
				Help: "Total stale active receipts reset to pending by the recovery sweep.",
			},
		),
		RunDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pipeline_run_duration_seconds",
				Help:    "Duration of scheduled pipeline runs, by task.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"task"},
		),
	}

	for _, c := range []prometheus.Collector{p.ReceiptsProcessed, p.ReceiptsRecovered, p.RunDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}
