package scoring

import (
	"time"

	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/fight"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/stats"
)

// SubScores are the four components that produce the composite score.
// They are persisted alongside the rank so a ranking is explainable
// after the fact.
type SubScores struct {
	Record           float64 `json:"record"`
	OpponentQuality  float64 `json:"opponent_quality"`
	Activity         float64 `json:"activity"`
	PerformanceBonus float64 `json:"performance_bonus"`
}

// ScoredFighter pairs a fighter with its computed score, the eagerly
// materialized input to the division ranker.
type ScoredFighter struct {
	Fighter fight.Fighter           `json:"fighter"`
	Stats   stats.FighterStatistics `json:"stats"`
	Score   float64                 `json:"score"`
	Sub     SubScores               `json:"sub_scores"`
}

// RankHistory resolves historical ranks for the opponent quality
// component. Satisfied by the snapshot store.
type RankHistory interface {
	RankAt(fighterID string, g fight.Group, date time.Time) (int, bool, error)
}
