package metrics

// Metrics defines the interface for collecting engine metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncRecomputeRuns()
	IncFightersScored()
	IncScoreFailures()
	IncSnapshotCommits()
	IncVersionConflicts()
	ObserveRecomputeDuration(seconds float64)
	IncCacheHits()
	IncCacheMisses()
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}
