package api

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gotrs-io/gotrs-insights/internal/ingest"
)

var (
	recordsAccepted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "insights",
		Name:      "records_accepted_total",
		Help:      "Records accepted across all ingestion runs.",
	})
	recordsRejected = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "insights",
		Name:      "records_rejected_total",
		Help:      "Records rejected across all ingestion runs.",
	})
	aggregationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "insights",
		Name:      "aggregation_duration_seconds",
		Help:      "Wall time of one aggregation engine invocation.",
		Buckets:   prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(recordsAccepted, recordsRejected, aggregationSeconds)
}

// observeImport feeds an import report into the ingestion counters.
func observeImport(report *ingest.ImportReport) {
	if report == nil {
		return
	}
	recordsAccepted.Add(float64(report.Accepted))
	recordsRejected.Add(float64(report.Rejected))
}
