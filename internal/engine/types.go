package engine

import (
	"sync"
	"time"

	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/cache"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/fight"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/metrics"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/notifier"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/pubsub"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/scoring"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/snapshot"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/stats"
)

// Default engine configuration.
const (
	defaultWorkerCount      = 8
	defaultDebounceWindow   = 2 * time.Second
	defaultCommitRetries    = 3
	poundForPoundSize       = 15
	derivedKeyPoundForPound = "p4p"
	derivedKeyChampions     = "champions"
)

// Engine orchestrates the two-phase recompute: parallel per-fighter
// scoring, then serialized per-group rank assignment and commit.
type Engine struct {
	fights     fight.Store
	stats      stats.Store
	aggregator *stats.Aggregator
	scorer     *scoring.Scorer
	snapshots  snapshot.Store
	cache      *cache.Cache
	pubsub     pubsub.PubSubClient
	notifier   notifier.Notifier
	metrics    metrics.Metrics
	durable    metrics.MetricsStore

	workers       int
	debounceWin   time.Duration
	commitRetries int
	now           func() time.Time

	// Per-group serialization: rank assignment and commit for one group
	// never run concurrently with themselves.
	lockMu     sync.Mutex
	groupLocks map[string]*sync.Mutex

	// Reactive trigger coalescing.
	debounceMu sync.Mutex
	pending    map[string]*pendingRecompute
}

type pendingRecompute struct {
	timer   *time.Timer
	trigger string
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkerCount sets the Phase-1 scoring concurrency.
func WithWorkerCount(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithDebounceWindow sets the coalescing window for reactive triggers.
func WithDebounceWindow(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.debounceWin = d
		}
	}
}

// WithClock injects a clock for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// GroupResult reports one group's recompute outcome.
type GroupResult struct {
	Group          fight.Group `json:"group"`
	SnapshotID     string      `json:"snapshot_id,omitempty"`
	SetSize        int         `json:"set_size"`
	Succeeded      int         `json:"succeeded"`
	Failed         int         `json:"failed"`
	FailedFighters []string    `json:"failed_fighters,omitempty"`
	Committed      bool        `json:"committed"`
}

// RunSummary reports a bulk recompute across groups. It always lists
// failures; the engine never reports overall success while silently
// skipping fighters.
type RunSummary struct {
	Groups         int           `json:"groups"`
	FailedGroups   int           `json:"failed_groups"`
	Succeeded      int           `json:"succeeded"`
	Failed         int           `json:"failed"`
	FailedFighters []string      `json:"failed_fighters,omitempty"`
	Canceled       bool          `json:"canceled"`
	Results        []GroupResult `json:"results"`
}
