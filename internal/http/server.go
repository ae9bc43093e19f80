package http

import (
	"net/http"

	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/cache"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/config"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/engine"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/fight"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/metrics"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/pubsub"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/snapshot"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/stats"
)

func NewServer(
	fights fight.Store,
	statsStore stats.Store,
	snapshots snapshot.Store,
	rankCache *cache.Cache,
	eng *engine.Engine,
	ps pubsub.PubSubClient,
	metricsSvc metrics.Metrics,
	metricsStore metrics.MetricsStore,
	metricsHandler http.Handler,
	cfg config.Config,
) *Server {
	server := &Server{
		Fights:         fights,
		Stats:          statsStore,
		Snapshots:      snapshots,
		Cache:          rankCache,
		Engine:         eng,
		PubSub:         ps,
		Metrics:        metricsSvc,
		MetricsStore:   metricsStore,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper so
	// adding e.g. an authentication middleware later is a one-liner.
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))

	// Read API
	s.Router.Handle("/rankings", Chain(s.RankingsHandler(), paramsMiddleware))
	s.Router.Handle("/rankings/history", Chain(s.RankingHistoryHandler(), paramsMiddleware))
	s.Router.Handle("/stats", Chain(s.FighterStatsHandler(), paramsMiddleware))
	s.Router.Handle("/compare", Chain(s.CompareHandler(), paramsMiddleware))
	s.Router.Handle("/p4p", Chain(s.PoundForPoundHandler(), paramsMiddleware))
	s.Router.Handle("/champions", Chain(s.ChampionsHandler(), paramsMiddleware))

	// Pub/Sub push subscription
	s.Router.Handle("/fight-committed", Chain(s.FightCommittedHandler(), paramsMiddleware))

	// Administrative surface
	s.Router.Handle("/fights", Chain(s.IngestFightsHandler(), paramsMiddleware))
	s.Router.Handle("/recalculate", Chain(s.RecalculateHandler(), paramsMiddleware))
	s.Router.Handle("/recalculate-fighter", Chain(s.RecalculateFighterHandler(), paramsMiddleware))
	s.Router.Handle("/champion", Chain(s.ChampionOverrideHandler(), paramsMiddleware))
	s.Router.Handle("/flush-cache", Chain(s.FlushCacheHandler(), paramsMiddleware))
	s.Router.Handle("/engine-counters", Chain(s.EngineCountersHandler(), paramsMiddleware))
	s.Router.Handle("/clear", Chain(s.ClearStoreHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
