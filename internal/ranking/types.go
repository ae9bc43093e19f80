package ranking

import (
	"time"

	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/fight"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/scoring"
)

// FighterRanking is one row of a committed ranking set. Rows for a group
// are always replaced as a whole set so readers see a consistent
// snapshot, never a mix of old and new ranks.
type FighterRanking struct {
	FighterID    string            `json:"fighter_id"`
	FighterName  string            `json:"fighter_name"`
	Group        fight.Group       `json:"group"`
	Rank         int               `json:"rank"`
	PreviousRank int               `json:"previous_rank,omitempty"` // 0 = previously unranked
	Score        float64           `json:"score"`
	Sub          scoring.SubScores `json:"sub_scores"`
	RankChange   int               `json:"rank_change"`
	ScoreChange  float64           `json:"score_change"`
	NewlyRanked  bool              `json:"newly_ranked"`
	Champion     bool              `json:"champion"`
	Interim      bool              `json:"interim_champion"`
	SnapshotID   string            `json:"snapshot_id"`
	SnapshotDate time.Time         `json:"snapshot_date"`
}
