package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		RecomputeRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ranking_recompute_runs_total",
			Help: "The total number of group recompute runs.",
		}),
		FightersScored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ranking_fighters_scored_total",
			Help: "The total number of fighters scored during recomputes.",
		}),
		ScoreFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ranking_score_failures_total",
			Help: "The total number of per-fighter scoring failures.",
		}),
		SnapshotCommits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ranking_snapshot_commits_total",
			Help: "The total number of committed ranking snapshots.",
		}),
		VersionConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ranking_version_conflicts_total",
			Help: "The total number of snapshot commit version conflicts.",
		}),
		RecomputeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ranking_recompute_duration_seconds",
			Help:    "The duration of individual group recomputes.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ranking_cache_hits_total",
			Help: "The total number of ranking cache hits.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ranking_cache_misses_total",
			Help: "The total number of ranking cache misses.",
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ranking_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ranking_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ranking_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.RecomputeRuns,
		s.FightersScored,
		s.ScoreFailures,
		s.SnapshotCommits,
		s.VersionConflicts,
		s.RecomputeDuration,
		s.CacheHits,
		s.CacheMisses,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncRecomputeRuns() {
	s.RecomputeRuns.Inc()
}

func (s *Service) IncFightersScored() {
	s.FightersScored.Inc()
}

func (s *Service) IncScoreFailures() {
	s.ScoreFailures.Inc()
}

func (s *Service) IncSnapshotCommits() {
	s.SnapshotCommits.Inc()
}

func (s *Service) IncVersionConflicts() {
	s.VersionConflicts.Inc()
}

func (s *Service) ObserveRecomputeDuration(seconds float64) {
	s.RecomputeDuration.Observe(seconds)
}

func (s *Service) IncCacheHits() {
	s.CacheHits.Inc()
}

func (s *Service) IncCacheMisses() {
	s.CacheMisses.Inc()
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
