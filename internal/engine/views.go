package engine

import (
	"fmt"
	"sort"

	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/fight"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/ranking"
)

// CurrentRankings is the cache-aside read path for one group.
func (e *Engine) CurrentRankings(g fight.Group) ([]ranking.FighterRanking, error) {
	if set, ok := e.cache.Get(g); ok {
		e.metrics.IncCacheHits()
		return set, nil
	}
	e.metrics.IncCacheMisses()

	set, err := e.snapshots.CurrentGroup(g)
	if err != nil {
		return nil, fmt.Errorf("failed to read current rankings: %w", err)
	}
	e.cache.Set(g, set)
	return set, nil
}

// PoundForPound builds the cross-division aggregate: each fighter's best
// composite score across the cross-organization pools, ordered
// descending. The view is cached as a derived entry and therefore
// dropped whenever any constituent group commits.
func (e *Engine) PoundForPound() ([]ranking.FighterRanking, error) {
	if set, ok := e.cache.GetDerived(derivedKeyPoundForPound); ok {
		e.metrics.IncCacheHits()
		return set, nil
	}
	e.metrics.IncCacheMisses()

	groups, err := e.fights.Groups()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate groups: %w", err)
	}

	best := make(map[string]ranking.FighterRanking)
	for _, g := range groups {
		if g.Organization != "" {
			continue
		}
		set, err := e.snapshots.CurrentGroup(g)
		if err != nil {
			return nil, fmt.Errorf("failed to read group %s: %w", g.Key(), err)
		}
		for _, r := range set {
			if cur, ok := best[r.FighterID]; !ok || r.Score > cur.Score {
				best[r.FighterID] = r
			}
		}
	}

	pool := make([]ranking.FighterRanking, 0, len(best))
	for _, r := range best {
		pool = append(pool, r)
	}
	sort.Slice(pool, func(i, j int) bool {
		if pool[i].Score != pool[j].Score {
			return pool[i].Score > pool[j].Score
		}
		return pool[i].FighterID < pool[j].FighterID
	})
	if len(pool) > poundForPoundSize {
		pool = pool[:poundForPoundSize]
	}
	for i := range pool {
		pool[i].Group = fight.Group{RankingType: fight.RankingPoundForPound}
		pool[i].Rank = i + 1
		pool[i].PreviousRank = 0
		pool[i].RankChange = 0
		pool[i].NewlyRanked = false
	}

	e.cache.SetDerived(derivedKeyPoundForPound, pool)
	return pool, nil
}

// Champions lists the current and interim champions across every
// organization-specific group, ordered by group.
func (e *Engine) Champions() ([]ranking.FighterRanking, error) {
	if set, ok := e.cache.GetDerived(derivedKeyChampions); ok {
		e.metrics.IncCacheHits()
		return set, nil
	}
	e.metrics.IncCacheMisses()

	groups, err := e.fights.Groups()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate groups: %w", err)
	}

	var champions []ranking.FighterRanking
	for _, g := range groups {
		if g.Organization == "" {
			continue
		}
		set, err := e.snapshots.CurrentGroup(g)
		if err != nil {
			return nil, fmt.Errorf("failed to read group %s: %w", g.Key(), err)
		}
		for _, r := range set {
			if r.Champion || r.Interim {
				champions = append(champions, r)
			}
		}
	}
	sort.Slice(champions, func(i, j int) bool {
		if champions[i].Group.Key() != champions[j].Group.Key() {
			return champions[i].Group.Key() < champions[j].Group.Key()
		}
		return champions[i].Rank < champions[j].Rank
	})

	e.cache.SetDerived(derivedKeyChampions, champions)
	return champions, nil
}
