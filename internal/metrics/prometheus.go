// Package metrics exposes geogate's sync counters to Prometheus.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once     sync.Once
	registry *Registry
)

// Registry holds all geogate metrics.
type Registry struct {
	SyncRuns       *prometheus.CounterVec
	SyncDuration   prometheus.Histogram
	RulesAdded     *prometheus.CounterVec
	RulesDeleted   *prometheus.CounterVec
	SkippedEntries *prometheus.CounterVec
	FetchFailures  prometheus.Counter
	TaggedRules    *prometheus.GaugeVec
	LastSync       prometheus.Gauge
}

// Get returns the global metrics registry, creating it if necessary.
func Get() *Registry {
	once.Do(func() {
		registry = newRegistry()
	})
	return registry
}

func newRegistry() *Registry {
	r := &Registry{}

	r.SyncRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "geogate_sync_runs_total",
		Help: "Total reconciliation runs",
	}, []string{"mode", "status"})

	r.SyncDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "geogate_sync_duration_seconds",
		Help:    "Duration of reconciliation runs",
		Buckets: prometheus.DefBuckets,
	})

	r.RulesAdded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "geogate_rules_added_total",
		Help: "Firewall rules added, by tag",
	}, []string{"tag"})

	r.RulesDeleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "geogate_rules_deleted_total",
		Help: "Firewall rules deleted, by tag",
	}, []string{"tag"})

	r.SkippedEntries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "geogate_skipped_entries_total",
		Help: "Range list entries skipped, by reason",
	}, []string{"reason"})

	r.FetchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "geogate_fetch_failures_total",
		Help: "Failed range list downloads",
	})

	r.TaggedRules = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "geogate_tagged_rules",
		Help: "Live managed rules, by tag",
	}, []string{"tag"})

	r.LastSync = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "geogate_last_sync_timestamp",
		Help: "Unix timestamp of the last completed run",
	})

	return r
}

// RecordRun records the outcome of one reconciliation run.
func (r *Registry) RecordRun(mode string, fetchFailed bool, duration time.Duration) {
	status := "ok"
	if fetchFailed {
		status = "fetch_failed"
		r.FetchFailures.Inc()
	}
	r.SyncRuns.WithLabelValues(mode, status).Inc()
	r.SyncDuration.Observe(duration.Seconds())
	r.LastSync.SetToCurrentTime()
}
