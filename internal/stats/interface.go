package stats

import (
	"time"

	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/fight"
)

// RankHistory resolves a fighter's rank as it stood on a given date,
// from the committed snapshot log. The boolean is false when no snapshot
// at or before the date covers the fighter.
type RankHistory interface {
	RankAt(fighterID string, g fight.Group, date time.Time) (int, bool, error)
}

// Store persists computed statistics, one row per fighter, replaced
// atomically on every recomputation.
type Store interface {
	Save(s FighterStatistics) error
	Get(fighterID string) (*FighterStatistics, error)
	GetMany(fighterIDs []string) ([]FighterStatistics, error)
	Clear()
}
