package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(jobRunsTotal, jobDurationSeconds, jobRecordsTotal) }

var jobRunsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "billing_job_runs_total",
		Help: "Total billing job runs, labeled by job and status.",
	},
	[]string{"job", "status"}, // 'completed', 'failed'
)

var jobDurationSeconds = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "billing_job_duration_seconds",
		Help:    "Billing job run duration distribution in seconds.",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
	},
	[]string{"job"},
)

var jobRecordsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "billing_job_records_total",
		Help: "Per-record outcomes within billing job runs.",
	},
	[]string{"job", "outcome"}, // 'ok', 'skip', 'retryable', 'fatal'
)

func IncJobRun(job, status string) {
	jobRunsTotal.WithLabelValues(norm(job), norm(status)).Inc()
}

func ObserveJobDuration(job string, seconds float64) {
	jobDurationSeconds.WithLabelValues(norm(job)).Observe(seconds)
}

func AddJobRecords(job, outcome string, n int) {
	jobRecordsTotal.WithLabelValues(norm(job), norm(outcome)).Add(float64(n))
}
