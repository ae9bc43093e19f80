package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the engine.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	RecomputeRuns      prometheus.Counter
	FightersScored     prometheus.Counter
	ScoreFailures      prometheus.Counter
	SnapshotCommits    prometheus.Counter
	VersionConflicts   prometheus.Counter
	RecomputeDuration  prometheus.Histogram
	CacheHits          prometheus.Counter
	CacheMisses        prometheus.Counter
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}
