// Package ranking turns a pool of scored fighters into a totally
// ordered, dense rank assignment with deltas against the previous
// committed snapshot.
package ranking

import (
	"sort"
	"time"

	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/fight"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/scoring"
)

// unrankedSentinel sorts previously unranked fighters after any ranked
// fighter when breaking score ties.
const unrankedSentinel = 1 << 30

// Rank orders one group's scored fighters descending by composite score
// and assigns dense ranks 1..N. Equal scores are broken by previous rank
// ascending (unranked last), then fighter id ascending, so two runs over
// identical input always produce the same order.
//
// previous holds the prior committed set for the group keyed by fighter
// id; fighters absent from it are marked newly ranked with zero deltas.
func Rank(g fight.Group, scored []scoring.ScoredFighter, previous map[string]FighterRanking, snapshotID string, snapshotDate time.Time) []FighterRanking {
	ordered := make([]scoring.ScoredFighter, len(scored))
	copy(ordered, scored)

	prevRank := func(fighterID string) int {
		if p, ok := previous[fighterID]; ok && p.Rank > 0 {
			return p.Rank
		}
		return unrankedSentinel
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Score != ordered[j].Score {
			return ordered[i].Score > ordered[j].Score
		}
		pi, pj := prevRank(ordered[i].Fighter.ID), prevRank(ordered[j].Fighter.ID)
		if pi != pj {
			return pi < pj
		}
		return ordered[i].Fighter.ID < ordered[j].Fighter.ID
	})

	out := make([]FighterRanking, 0, len(ordered))
	for i, sf := range ordered {
		r := FighterRanking{
			FighterID:    sf.Fighter.ID,
			FighterName:  sf.Fighter.Name,
			Group:        g,
			Rank:         i + 1,
			Score:        sf.Score,
			Sub:          sf.Sub,
			Champion:     sf.Fighter.Champion,
			Interim:      sf.Fighter.InterimChampion,
			SnapshotID:   snapshotID,
			SnapshotDate: snapshotDate,
		}

		if p, ok := previous[sf.Fighter.ID]; ok {
			r.PreviousRank = p.Rank
			r.RankChange = p.Rank - r.Rank
			r.ScoreChange = sf.Score - p.Score
		} else {
			r.NewlyRanked = true
		}

		out = append(out, r)
	}
	return out
}
