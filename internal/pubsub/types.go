package pubsub

import (
	"time"

	"cloud.google.com/go/pubsub"
)

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	// EventRankingUpdated is emitted by the commit path immediately after
	// a group's ranking set is committed, carrying the invalidation signal
	// for external read consumers.
	EventRankingUpdated EventType = "ranking-updated"
	// EventFightCommitted is consumed to trigger reactive recomputes for
	// the two fighters' groups involved in a new bout record.
	EventFightCommitted EventType = "fight-committed"
	// EventStatsRecomputed is emitted after a single fighter's statistics
	// are recalculated administratively.
	EventStatsRecomputed EventType = "stats-recomputed"
)

// RankingUpdatedEvent is the payload for EventRankingUpdated.
type RankingUpdatedEvent struct {
	WeightClass  string    `msgpack:"weight_class"`
	Organization string    `msgpack:"organization"`
	RankingType  string    `msgpack:"ranking_type"`
	SnapshotID   string    `msgpack:"snapshot_id"`
	SnapshotDate time.Time `msgpack:"snapshot_date"`
	TriggerRef   string    `msgpack:"trigger_ref"`
	SetSize      int       `msgpack:"set_size"`
}

// FightCommittedEvent is the payload for EventFightCommitted.
type FightCommittedEvent struct {
	FightID      string    `msgpack:"fight_id"`
	FighterID    string    `msgpack:"fighter_id"`
	OpponentID   string    `msgpack:"opponent_id"`
	WeightClass  string    `msgpack:"weight_class"`
	Organization string    `msgpack:"organization"`
	Date         time.Time `msgpack:"date"`
}
