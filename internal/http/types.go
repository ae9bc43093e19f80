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

type Server struct {
	Fights         fight.Store
	Stats          stats.Store
	Snapshots      snapshot.Store
	Cache          *cache.Cache
	Engine         *engine.Engine
	PubSub         pubsub.PubSubClient
	Metrics        metrics.Metrics
	MetricsStore   metrics.MetricsStore
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         *http.ServeMux
}
