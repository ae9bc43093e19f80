package fight

import (
	"database/sql"
	"fmt"
	"sync"
	"time"
)

// store handles all database operations for fighters and fight records.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Result is the outcome of a fight from the perspective of the fighter
// the record belongs to.
type Result string

const (
	ResultWin       Result = "WIN"
	ResultLoss      Result = "LOSS"
	ResultDraw      Result = "DRAW"
	ResultNoContest Result = "NO_CONTEST"
)

// Method describes how a fight ended.
type Method string

const (
	MethodKO         Method = "KO"
	MethodTKO        Method = "TKO"
	MethodSubmission Method = "SUBMISSION"
	MethodDecision   Method = "DECISION"
	MethodDQ         Method = "DQ"
	MethodOther      Method = "OTHER"
)

// IsFinish reports whether the method counts as a finish (stoppage).
func (m Method) IsFinish() bool {
	return m == MethodKO || m == MethodTKO || m == MethodSubmission
}

// RankingType distinguishes the divisional rankings from derived pools.
type RankingType string

const (
	RankingDivisional    RankingType = "DIVISIONAL"
	RankingPoundForPound RankingType = "P4P"
)

// Group identifies one ranking pool. An empty Organization means the
// cross-organization pool for the weight class.
type Group struct {
	WeightClass  string      `json:"weight_class"`
	Organization string      `json:"organization,omitempty"`
	RankingType  RankingType `json:"ranking_type"`
}

// Key returns a stable string identity for the group, used for locks,
// cache keys and debounce coalescing.
func (g Group) Key() string {
	return fmt.Sprintf("%s|%s|%s", g.WeightClass, g.Organization, g.RankingType)
}

// Fighter is read-only reference data owned by the external record system.
// Champion flags are administrative inputs, never derived by the engine.
type Fighter struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	WeightClass     string `json:"weight_class"`
	Organization    string `json:"organization,omitempty"`
	Champion        bool   `json:"champion"`
	InterimChampion bool   `json:"interim_champion"`
}

// Fight is an immutable bout record. Corrections are modeled as new
// records, never as edits to an existing one.
type Fight struct {
	ID           string    `json:"id"`
	FighterID    string    `json:"fighter_id"`
	OpponentID   string    `json:"opponent_id"`
	Date         time.Time `json:"date"`
	Result       Result    `json:"result"`
	Method       Method    `json:"method"`
	WeightClass  string    `json:"weight_class"`
	Organization string    `json:"organization,omitempty"`
	TitleFight   bool      `json:"title_fight"`
}
