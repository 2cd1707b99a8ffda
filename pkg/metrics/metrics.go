package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	articleEngine = "article_engine"

	stageDurationName = "pipeline_stage_duration_seconds"
	stageFailuresName = "pipeline_stage_failures_total"
	stageSkipsName    = "pipeline_stage_skips_total"
	jobsTotalName     = "jobs_total"

	stageLabel  = "stage"
	statusLabel = "status"
)

/**
* Metrics definition
**/
var stageDurationMetric = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Subsystem: articleEngine,
		Name:      stageDurationName,
		Help:      "time spent executing each pipeline stage",
		Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120},
	},
	[]string{stageLabel},
)

var stageFailuresMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: articleEngine,
		Name:      stageFailuresName,
		Help:      "number of pipeline stage executions that ended in error",
	},
	[]string{stageLabel},
)

var stageSkipsMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: articleEngine,
		Name:      stageSkipsName,
		Help:      "number of stage executions skipped because the owned field was already populated",
	},
	[]string{stageLabel},
)

var jobsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: articleEngine,
		Name:      jobsTotalName,
		Help:      "number of orchestrator runs partitioned by terminal status",
	},
	[]string{statusLabel},
)

func ObserveStageDuration(stage string, d time.Duration) {
	stageDurationMetric.With(prometheus.Labels{stageLabel: stage}).Observe(d.Seconds())
}

func IncreaseStageFailures(stage string) {
	stageFailuresMetric.With(prometheus.Labels{stageLabel: stage}).Inc()
}

func IncreaseStageSkips(stage string) {
	stageSkipsMetric.With(prometheus.Labels{stageLabel: stage}).Inc()
}

func IncreaseJobsTotal(status string) {
	jobsTotalMetric.With(prometheus.Labels{statusLabel: status}).Inc()
}

func init() {
	registerMetrics()
}

func registerMetrics() {
	prometheus.MustRegister(stageDurationMetric)
	prometheus.MustRegister(stageFailuresMetric)
	prometheus.MustRegister(stageSkipsMetric)
	prometheus.MustRegister(jobsTotalMetric)
}
