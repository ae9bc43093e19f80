package snapshot

import (
	"errors"
	"time"

	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/fight"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/ranking"
)

// ErrVersionConflict is returned when a commit's expected version no
// longer matches the stored one, meaning another writer committed the
// group first. The caller retries with fresh input; sets are never merged.
var ErrVersionConflict = errors.New("ranking set version conflict")

// Store owns the current-vs-history distinction for ranking sets.
type Store interface {
	// CurrentGroup returns the committed current set for the group,
	// ordered by rank.
	CurrentGroup(g fight.Group) ([]ranking.FighterRanking, error)
	// CurrentVersion returns the group's commit sequence number, 0 when
	// the group has never been committed.
	CurrentVersion(g fight.Group) (int64, error)
	// CommitGroup atomically replaces the group's current set and appends
	// it to the history log. expectedVersion guards against concurrent
	// writers.
	CommitGroup(g fight.Group, set []ranking.FighterRanking, expectedVersion int64, triggerRef string) error
	// RankAt resolves a fighter's rank as of the given date from the
	// history log: the newest snapshot dated at or before the date. A
	// later snapshot is never used, it would leak future information.
	RankAt(fighterID string, g fight.Group, date time.Time) (int, bool, error)
	// History returns history entries for the group within [from, to].
	History(g fight.Group, from, to time.Time) ([]HistoryEntry, error)
	Clear()
}

// HistoryEntry is one archived ranking row plus the commit's trigger.
type HistoryEntry struct {
	ranking.FighterRanking
	TriggerRef string `json:"trigger_ref,omitempty"`
}
