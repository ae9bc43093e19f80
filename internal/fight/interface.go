package fight

import (
	"errors"
	"time"
)

// ErrFighterNotFound is returned by fighter lookups for unknown ids.
var ErrFighterNotFound = errors.New("fighter not found")

// Store defines the read-side interface over the bout record feed plus
// the upsert operations used by the seeder and the ingest endpoint.
type Store interface {
	UpsertFighter(f Fighter) error
	UpsertFighters(fighters []Fighter) error
	UpsertFights(fights []Fight) error
	GetFighter(fighterID string) (*Fighter, error)
	FightersInGroup(g Group) ([]Fighter, error)
	AllFighters() ([]Fighter, error)
	Groups() ([]Group, error)
	FightsForFighter(fighterID string, asOf time.Time) ([]Fight, error)
	SetChampionFlags(fighterID string, champion, interim bool) error
	Clear()
}
