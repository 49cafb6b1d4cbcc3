package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	pushTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "model_loader_push_total",
		Help: "Total number of artifact push operations",
	}, []string{"class", "result"})

	rollbackTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "model_loader_rollback_total",
		Help: "Total number of compensating deletes attempted during rollback",
	}, []string{"class", "result"})

	deployTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "model_loader_deploy_total",
		Help: "Total number of distribution deployments",
	}, []string{"result"})

	deployDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "model_loader_deploy_duration_seconds",
		Help:    "Duration of distribution deployments",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
	})

	sourceConnected = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "model_loader_source_connected",
		Help: "1 while registered with the distribution source",
	})
)

func init() {
	prometheus.MustRegister(
		pushTotal,
		rollbackTotal,
		deployTotal,
		deployDuration,
		sourceConnected,
	)
}

// RecordPush records one artifact push.
// class: "model" or "catalog"
// result: a domain.PushResult string or "failure"
func RecordPush(class, result string) {
	pushTotal.WithLabelValues(class, result).Inc()
}

// RecordRollback records one compensating delete.
// result: "deleted", "skipped" or "failure"
func RecordRollback(class, result string) {
	rollbackTotal.WithLabelValues(class, result).Inc()
}

// RecordDeploy records a finished deployment.
// result: "success", "cycle" or "failure"
func RecordDeploy(result string, durationSeconds float64) {
	deployTotal.WithLabelValues(result).Inc()
	deployDuration.Observe(durationSeconds)
}

func SetSourceConnected(connected bool) {
	if connected {
		sourceConnected.Set(1)
		return
	}
	sourceConnected.Set(0)
}
