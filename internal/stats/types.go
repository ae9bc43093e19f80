package stats

import (
	"database/sql"
	"sync"
	"time"
)

// store handles persistence of fighter statistics.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// StreakKind is the state of the streak machine.
type StreakKind string

const (
	StreakNone    StreakKind = "NONE"
	StreakWinning StreakKind = "WINNING"
	StreakLosing  StreakKind = "LOSING"
)

// Streak is the fighter's current run of consecutive results.
type Streak struct {
	Kind   StreakKind `json:"kind"`
	Length int        `json:"length"`
}

// FighterStatistics is the full career aggregate for one fighter as of a
// given date. It is derivable from the bout record set alone (plus the
// historical snapshot log for the ranked-win counters) and is always
// replaced as a whole, never partially updated.
type FighterStatistics struct {
	FighterID  string `json:"fighter_id"`
	Wins       int    `json:"wins"`
	Losses     int    `json:"losses"`
	Draws      int    `json:"draws"`
	NoContests int    `json:"no_contests"`

	KOWins         int `json:"ko_wins"`
	TKOWins        int `json:"tko_wins"`
	SubmissionWins int `json:"submission_wins"`
	DecisionWins   int `json:"decision_wins"`
	OtherWins      int `json:"other_wins"`

	// FinishRate is a percentage rounded half-up to 2 decimal places.
	FinishRate float64 `json:"finish_rate"`

	CurrentStreak    Streak `json:"current_streak"`
	LongestWinStreak int    `json:"longest_win_streak"`

	FightsLast12Months int       `json:"fights_last_12_months"`
	FightsLast24Months int       `json:"fights_last_24_months"`
	LastFightDate      time.Time `json:"last_fight_date"`

	TitleWins     int `json:"title_wins"`
	TitleLosses   int `json:"title_losses"`
	TitleDefenses int `json:"title_defenses"`

	Top5Wins  int `json:"top5_wins"`
	Top10Wins int `json:"top10_wins"`

	// DataComplete is false when the aggregate was built from an empty or
	// partially resolvable bout set. Callers treat it as a completeness
	// signal, not an error.
	DataComplete bool      `json:"data_complete"`
	AsOf         time.Time `json:"as_of"`
}
