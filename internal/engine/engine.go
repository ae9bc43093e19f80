package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/cache"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/fight"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/metrics"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/notifier"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/pubsub"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/ranking"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/scoring"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/snapshot"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/stats"
)

// New creates an Engine.
func New(
	fights fight.Store,
	statsStore stats.Store,
	aggregator *stats.Aggregator,
	scorer *scoring.Scorer,
	snapshots snapshot.Store,
	rankCache *cache.Cache,
	ps pubsub.PubSubClient,
	n notifier.Notifier,
	m metrics.Metrics,
	durable metrics.MetricsStore,
	opts ...Option,
) *Engine {
	e := &Engine{
		fights:        fights,
		stats:         statsStore,
		aggregator:    aggregator,
		scorer:        scorer,
		snapshots:     snapshots,
		cache:         rankCache,
		pubsub:        ps,
		notifier:      n,
		metrics:       m,
		durable:       durable,
		workers:       defaultWorkerCount,
		debounceWin:   defaultDebounceWindow,
		commitRetries: defaultCommitRetries,
		now:           time.Now,
		groupLocks:    make(map[string]*sync.Mutex),
		pending:       make(map[string]*pendingRecompute),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// scoreOutcome is the Phase-1 result for one fighter.
type scoreOutcome struct {
	scored scoring.ScoredFighter
	err    error
	id     string
}

// RecomputeGroup recomputes and commits the ranking set for one group.
// Phase 1 scores fighters concurrently; Phase 2 waits for every score,
// then ranks and commits. A per-fighter failure is isolated: the fighter
// keeps its last committed ranking and the failure is reported in the
// result. On a version conflict the whole computation retries with
// fresh input. Cancellation mid-group aborts before the commit; the
// previous committed set stays in place.
func (e *Engine) RecomputeGroup(ctx context.Context, g fight.Group, triggerRef string, dryRun bool) (GroupResult, error) {
	lock := e.groupLock(g.Key())
	lock.Lock()
	defer lock.Unlock()

	start := e.now()
	e.metrics.IncRecomputeRuns()
	defer func() {
		e.metrics.ObserveRecomputeDuration(e.now().Sub(start).Seconds())
	}()

	var result GroupResult
	var err error
	for attempt := 0; attempt < e.commitRetries; attempt++ {
		result, err = e.recomputeGroupOnce(ctx, g, triggerRef, dryRun)
		if errors.Is(err, snapshot.ErrVersionConflict) {
			e.metrics.IncVersionConflicts()
			log.Warn("Ranking set version conflict, retrying with fresh input", "group", g.Key(), "attempt", attempt+1)
			continue
		}
		break
	}
	return result, err
}

func (e *Engine) recomputeGroupOnce(ctx context.Context, g fight.Group, triggerRef string, dryRun bool) (GroupResult, error) {
	result := GroupResult{Group: g}

	version, err := e.snapshots.CurrentVersion(g)
	if err != nil {
		return result, fmt.Errorf("failed to read group version: %w", err)
	}
	previousSet, err := e.snapshots.CurrentGroup(g)
	if err != nil {
		return result, fmt.Errorf("failed to read previous ranking set: %w", err)
	}
	previous := make(map[string]ranking.FighterRanking, len(previousSet))
	for _, r := range previousSet {
		previous[r.FighterID] = r
	}

	fighters, err := e.fights.FightersInGroup(g)
	if err != nil {
		return result, fmt.Errorf("failed to list fighters for group: %w", err)
	}
	if len(fighters) == 0 {
		log.Info("No fighters in group, nothing to rank", "group", g.Key())
		return result, nil
	}

	asOf := e.now().UTC()
	outcomes := e.scoreAll(ctx, fighters, asOf, dryRun)

	// A canceled fan-out scored only part of the pool. Committing that
	// would shrink the group's current set, so the run aborts and the
	// previous set stands.
	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("recompute canceled mid-group, nothing committed: %w", err)
	}

	// Phase 2: the barrier. Every Phase-1 outcome is in hand before any
	// rank is assigned.
	var scored []scoring.ScoredFighter
	for _, out := range outcomes {
		if out.err == nil {
			scored = append(scored, out.scored)
			result.Succeeded++
			continue
		}

		e.metrics.IncScoreFailures()
		result.Failed++
		result.FailedFighters = append(result.FailedFighters, out.id)
		log.Error("Failed to score fighter, keeping last good ranking", "error", out.err, "fighterID", out.id, "group", g.Key())

		// Carry the last committed score forward so the fighter does not
		// vanish from the rankings over a transient failure.
		if p, ok := previous[out.id]; ok {
			scored = append(scored, scoring.ScoredFighter{
				Fighter: fight.Fighter{ID: p.FighterID, Name: p.FighterName},
				Score:   p.Score,
				Sub:     p.Sub,
			})
		}
	}

	snapshotID := uuid.NewString()
	set := ranking.Rank(g, scored, previous, snapshotID, asOf)
	result.SetSize = len(set)
	result.SnapshotID = snapshotID

	if dryRun {
		log.Info("[Dry Run] Would commit ranking set", "group", g.Key(), "size", len(set))
		return result, nil
	}

	if err := e.snapshots.CommitGroup(g, set, version, triggerRef); err != nil {
		return result, err
	}
	result.Committed = true
	e.metrics.IncSnapshotCommits()
	if e.durable != nil {
		e.durable.Increment(metrics.RecomputeKey(g.Key()))
	}

	// Invalidation is synchronous and unconditional: no reader observes
	// pre-commit data once CommitGroup has returned.
	e.cache.Invalidate(g)

	if e.pubsub != nil {
		event := pubsub.RankingUpdatedEvent{
			WeightClass:  g.WeightClass,
			Organization: g.Organization,
			RankingType:  string(g.RankingType),
			SnapshotID:   snapshotID,
			SnapshotDate: asOf,
			TriggerRef:   triggerRef,
			SetSize:      len(set),
		}
		if err := e.pubsub.SendMessage(pubsub.EventRankingUpdated, event); err != nil {
			log.Error("Failed to publish ranking update event", "error", err, "group", g.Key())
		}
	}

	if e.notifier != nil {
		if err := e.notifier.SendRankingUpdate(g, set, dryRun); err != nil {
			log.Error("Failed to send ranking update notification", "error", err, "group", g.Key())
		}
	}

	return result, nil
}

// scoreAll runs Phase 1: independent per-fighter scoring fanned out over
// a bounded worker pool. Workers only read bout records, statistics and
// the snapshot log, so there is no shared mutable state between them.
func (e *Engine) scoreAll(ctx context.Context, fighters []fight.Fighter, asOf time.Time, dryRun bool) []scoreOutcome {
	jobs := make(chan fight.Fighter)
	results := make(chan scoreOutcome, len(fighters))

	workerCount := e.workers
	if workerCount > len(fighters) {
		workerCount = len(fighters)
	}

	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for f := range jobs {
				results <- e.scoreOne(f, asOf, dryRun)
			}
		}()
	}

	for _, f := range fighters {
		select {
		case jobs <- f:
		case <-ctx.Done():
			// Stop feeding, but drain what was already submitted so the
			// barrier below stays correct.
		}
		if ctx.Err() != nil {
			break
		}
	}
	close(jobs)
	wg.Wait()
	close(results)

	var outcomes []scoreOutcome
	for out := range results {
		outcomes = append(outcomes, out)
	}
	return outcomes
}

func (e *Engine) scoreOne(f fight.Fighter, asOf time.Time, dryRun bool) scoreOutcome {
	fights, err := e.fights.FightsForFighter(f.ID, asOf)
	if err != nil {
		return scoreOutcome{id: f.ID, err: fmt.Errorf("failed to load fights: %w", err)}
	}

	st := e.aggregator.Compute(f.ID, fights, asOf)
	if !dryRun {
		if err := e.stats.Save(st); err != nil {
			// Statistics persistence failing does not invalidate the score;
			// the fighter keeps its last stored aggregate.
			log.Error("Failed to persist fighter statistics", "error", err, "fighterID", f.ID)
		}
	}

	score, sub := e.scorer.ComputeScore(st, fights, asOf)
	e.metrics.IncFightersScored()
	return scoreOutcome{
		id: f.ID,
		scored: scoring.ScoredFighter{
			Fighter: f,
			Stats:   st,
			Score:   score,
			Sub:     sub,
		},
	}
}

// RecomputeAll runs a bulk recompute over every known group. Cancellation
// is honored between groups, never mid-group, so no group is ever left
// partially committed.
func (e *Engine) RecomputeAll(ctx context.Context, triggerRef string, dryRun bool) (RunSummary, error) {
	groups, err := e.fights.Groups()
	if err != nil {
		return RunSummary{}, fmt.Errorf("failed to enumerate groups: %w", err)
	}

	summary := RunSummary{}
	for _, g := range groups {
		if ctx.Err() != nil {
			summary.Canceled = true
			log.Warn("Bulk recompute canceled between groups", "completed", len(summary.Results), "remaining", len(groups)-len(summary.Results))
			break
		}

		res, err := e.RecomputeGroup(ctx, g, triggerRef, dryRun)
		if err != nil {
			summary.FailedGroups++
			log.Error("Group recompute failed", "error", err, "group", g.Key())
		}
		summary.Results = append(summary.Results, res)
		summary.Succeeded += res.Succeeded
		summary.Failed += res.Failed
		summary.FailedFighters = append(summary.FailedFighters, res.FailedFighters...)
	}
	summary.Groups = len(summary.Results)

	if e.notifier != nil {
		if err := e.notifier.SendRecomputeSummary(summary.Groups, summary.Succeeded, summary.Failed, summary.FailedFighters, dryRun); err != nil {
			log.Error("Failed to send recompute summary", "error", err)
		}
	}
	return summary, nil
}

// RecomputeFighterStats recalculates and persists one fighter's
// statistics outside a group recompute, for the administrative surface.
func (e *Engine) RecomputeFighterStats(ctx context.Context, fighterID string) (stats.FighterStatistics, error) {
	asOf := e.now().UTC()
	fights, err := e.fights.FightsForFighter(fighterID, asOf)
	if err != nil {
		return stats.FighterStatistics{}, fmt.Errorf("failed to load fights for fighter %s: %w", fighterID, err)
	}

	st := e.aggregator.Compute(fighterID, fights, asOf)
	if err := e.stats.Save(st); err != nil {
		return stats.FighterStatistics{}, fmt.Errorf("failed to persist statistics for fighter %s: %w", fighterID, err)
	}

	if e.pubsub != nil {
		if err := e.pubsub.SendMessage(pubsub.EventStatsRecomputed, st); err != nil {
			log.Error("Failed to publish stats recomputed event", "error", err, "fighterID", fighterID)
		}
	}
	return st, nil
}

// OnFightCommitted reacts to a new bout record: the two fighters involved
// share the fight's divisional group and the weight class's
// cross-organization pool, so exactly those groups are scheduled.
// Triggers arriving within the debounce window coalesce into one run;
// recomputing is idempotent so coalescing loses nothing.
func (e *Engine) OnFightCommitted(f fight.Fight) {
	groups := []fight.Group{
		{WeightClass: f.WeightClass, Organization: f.Organization, RankingType: fight.RankingDivisional},
		{WeightClass: f.WeightClass, RankingType: fight.RankingDivisional},
	}
	seen := make(map[string]bool, len(groups))
	for _, g := range groups {
		if seen[g.Key()] {
			continue
		}
		seen[g.Key()] = true
		e.scheduleRecompute(g, "fight:"+f.ID)
	}
}

func (e *Engine) scheduleRecompute(g fight.Group, triggerRef string) {
	e.debounceMu.Lock()
	defer e.debounceMu.Unlock()

	key := g.Key()
	if p, ok := e.pending[key]; ok {
		// Coalesce: latest trigger wins, the timer keeps running.
		p.trigger = triggerRef
		log.Debug("Coalesced recompute trigger", "group", key, "trigger", triggerRef)
		return
	}

	p := &pendingRecompute{trigger: triggerRef}
	p.timer = time.AfterFunc(e.debounceWin, func() {
		e.debounceMu.Lock()
		trigger := p.trigger
		delete(e.pending, key)
		e.debounceMu.Unlock()

		if _, err := e.RecomputeGroup(context.Background(), g, trigger, false); err != nil {
			log.Error("Reactive recompute failed", "error", err, "group", key, "trigger", trigger)
		}
	})
	e.pending[key] = p
	log.Debug("Scheduled reactive recompute", "group", key, "trigger", triggerRef, "window", e.debounceWin)
}

func (e *Engine) groupLock(key string) *sync.Mutex {
	e.lockMu.Lock()
	defer e.lockMu.Unlock()
	if l, ok := e.groupLocks[key]; ok {
		return l
	}
	l := &sync.Mutex{}
	e.groupLocks[key] = l
	return l
}
