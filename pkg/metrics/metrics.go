package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	DocumentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docpipe_documents_total",
			Help: "Total number of documents run through a pipeline (count)",
		},
		[]string{"status"},
	)

	ProcessorFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docpipe_processor_failures_total",
			Help: "Total number of processor failures by processor type (count)",
		},
		[]string{"type"},
	)

	PipelineDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "docpipe_pipeline_duration_ms",
			Help:    "Pipeline execution duration per document in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		},
		[]string{"status"},
	)

	LookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docpipe_lookups_total",
			Help: "Total number of lookup provider fetches (count)",
		},
		[]string{"provider", "status"},
	)
)

func Register() {
	prometheus.MustRegister(
		DocumentsTotal,
		ProcessorFailuresTotal,
		PipelineDuration,
		LookupsTotal,
	)
}

func ObservePipelineDuration(duration time.Duration, status string) {
	PipelineDuration.WithLabelValues(status).Observe(float64(duration.Milliseconds()))
}
