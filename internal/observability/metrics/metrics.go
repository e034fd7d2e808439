package metrics

import (
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "carbon_"

	// ResultSuccess labels a successful operation.
	ResultSuccess = "success"
	// ResultError labels a failed operation.
	ResultError = "error"
)

var (
	registerOnce sync.Once

	uploadRequests *prometheus.CounterVec
	uploadLatency  *prometheus.HistogramVec
	uploadRows     *prometheus.CounterVec

	summaryTotal   *prometheus.CounterVec
	summaryLatency *prometheus.HistogramVec

	exportTotal   *prometheus.CounterVec
	exportLatency *prometheus.HistogramVec

	matchTotal   *prometheus.CounterVec
	matchLatency *prometheus.HistogramVec

	windowsSubmitted prometheus.Counter
)

// Init registers observability metrics and DB-backed gauges.
func Init(db *sql.DB, logger *log.Logger) {
	registerOnce.Do(func() {
		uploadRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "upload_requests_total",
				Help: "Spreadsheet upload batches by result",
			},
			[]string{"result"},
		)
		uploadLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "upload_duration_seconds",
				Help:    "Upload batch duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		uploadRows = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "upload_rows_total",
				Help: "Upserted rows by outcome (inserted, replaced, unchanged)",
			},
			[]string{"outcome"},
		)

		summaryTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_summary_total",
				Help: "Report window summaries by result",
			},
			[]string{"result"},
		)
		summaryLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "report_summary_duration_seconds",
				Help:    "Report summary duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_export_total",
				Help: "Report exports by format and result",
			},
			[]string{"format", "result"},
		)
		exportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "report_export_duration_seconds",
				Help:    "Report export duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		matchTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "matching_total",
				Help: "Allowance matching runs by result",
			},
			[]string{"result"},
		)
		matchLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "matching_duration_seconds",
				Help:    "Allowance matching duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		windowsSubmitted = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_windows_submitted_total",
				Help: "Report window submissions",
			},
		)

		prometheus.MustRegister(
			uploadRequests,
			uploadLatency,
			uploadRows,
			summaryTotal,
			summaryLatency,
			exportTotal,
			exportLatency,
			matchTotal,
			matchLatency,
			windowsSubmitted,
		)

		if db != nil {
			registerDBMetrics(db, logger)
		}
	})
}

// ObserveUpload records upload batch duration and result.
func ObserveUpload(result string, duration time.Duration) {
	if result == "" {
		result = ResultSuccess
	}
	if uploadRequests != nil {
		uploadRequests.WithLabelValues(result).Inc()
	}
	if uploadLatency != nil {
		uploadLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// IncUploadRow counts one upserted row by outcome.
func IncUploadRow(outcome string) {
	if outcome == "" {
		outcome = "unknown"
	}
	if uploadRows != nil {
		uploadRows.WithLabelValues(outcome).Inc()
	}
}

// ObserveSummary records summarize latency and result.
func ObserveSummary(result string, duration time.Duration) {
	if result == "" {
		result = ResultSuccess
	}
	if summaryTotal != nil {
		summaryTotal.WithLabelValues(result).Inc()
	}
	if summaryLatency != nil {
		summaryLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// ObserveExport records export latency by format and result.
func ObserveExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = ResultSuccess
	}
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
	if exportLatency != nil {
		exportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// ObserveMatch records matching latency and result.
func ObserveMatch(result string, duration time.Duration) {
	if result == "" {
		result = ResultSuccess
	}
	if matchTotal != nil {
		matchTotal.WithLabelValues(result).Inc()
	}
	if matchLatency != nil {
		matchLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// IncWindowSubmitted counts one report window submission.
func IncWindowSubmitted() {
	if windowsSubmitted != nil {
		windowsSubmitted.Inc()
	}
}
