package snapshot

import (
	"testing"
	"time"

	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/database"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/fight"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/ranking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testGroup = fight.Group{WeightClass: "LIGHTWEIGHT", Organization: "UFC", RankingType: fight.RankingDivisional}

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (Store, func()) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	return New(db), teardown
}

func rankingSet(snapshotID string, date time.Time, fighters ...string) []ranking.FighterRanking {
	set := make([]ranking.FighterRanking, 0, len(fighters))
	for i, id := range fighters {
		set = append(set, ranking.FighterRanking{
			FighterID:    id,
			FighterName:  "Fighter " + id,
			Group:        testGroup,
			Rank:         i + 1,
			Score:        1000 - float64(i)*50,
			SnapshotID:   snapshotID,
			SnapshotDate: date,
		})
	}
	return set
}

func TestCommitGroupAndCurrentGroup(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	date := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	// A fresh group starts at version zero with no current set.
	version, err := store.CurrentVersion(testGroup)
	require.NoError(t, err)
	assert.Equal(t, int64(0), version)

	set, err := store.CurrentGroup(testGroup)
	require.NoError(t, err)
	assert.Empty(t, set)

	require.NoError(t, store.CommitGroup(testGroup, rankingSet("snap-1", date, "f1", "f2", "f3"), 0, "manual"))

	version, err = store.CurrentVersion(testGroup)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	set, err = store.CurrentGroup(testGroup)
	require.NoError(t, err)
	require.Len(t, set, 3)
	assert.Equal(t, "f1", set[0].FighterID)
	assert.Equal(t, 1, set[0].Rank)
	assert.Equal(t, "snap-1", set[0].SnapshotID)
	assert.Equal(t, testGroup, set[0].Group)

	// A second commit replaces the current set entirely.
	require.NoError(t, store.CommitGroup(testGroup, rankingSet("snap-2", date.AddDate(0, 1, 0), "f2", "f1"), 1, "manual"))

	set, err = store.CurrentGroup(testGroup)
	require.NoError(t, err)
	require.Len(t, set, 2)
	assert.Equal(t, "f2", set[0].FighterID)
	assert.Equal(t, "snap-2", set[0].SnapshotID)
}

func TestCommitGroup_VersionConflict(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	date := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.CommitGroup(testGroup, rankingSet("snap-1", date, "f1"), 0, "manual"))

	// A writer holding the stale version must be rejected, not merged.
	err := store.CommitGroup(testGroup, rankingSet("snap-2", date, "f2"), 0, "manual")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrVersionConflict)

	// The rejected set left no trace.
	set, err := store.CurrentGroup(testGroup)
	require.NoError(t, err)
	require.Len(t, set, 1)
	assert.Equal(t, "f1", set[0].FighterID)

	version, err := store.CurrentVersion(testGroup)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
}

func TestCommitGroup_VersionsArePerGroup(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	other := fight.Group{WeightClass: "HEAVYWEIGHT", Organization: "UFC", RankingType: fight.RankingDivisional}
	date := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.CommitGroup(testGroup, rankingSet("snap-1", date, "f1"), 0, "manual"))

	// The other group is still at version zero.
	require.NoError(t, store.CommitGroup(other, rankingSet("snap-2", date, "h1"), 0, "manual"))
}

func TestRankAt(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	jan := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	// January snapshot: f1 is #1. March snapshot: f1 drops to #2.
	require.NoError(t, store.CommitGroup(testGroup, rankingSet("snap-jan", jan, "f1", "f2"), 0, "manual"))
	require.NoError(t, store.CommitGroup(testGroup, rankingSet("snap-mar", mar, "f2", "f1"), 1, "manual"))

	t.Run("resolves the newest snapshot at or before the date", func(t *testing.T) {
		rank, ok, err := store.RankAt("f1", testGroup, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 1, rank)

		rank, ok, err = store.RankAt("f1", testGroup, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 2, rank)
	})

	t.Run("the snapshot date itself counts", func(t *testing.T) {
		rank, ok, err := store.RankAt("f1", testGroup, mar)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 2, rank)
	})

	t.Run("never resolves a later snapshot", func(t *testing.T) {
		_, ok, err := store.RankAt("f1", testGroup, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.False(t, ok, "a snapshot after the date would leak future information")
	})

	t.Run("unknown fighter resolves to unranked without error", func(t *testing.T) {
		_, ok, err := store.RankAt("nobody", testGroup, mar)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestHistory(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	jan := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.CommitGroup(testGroup, rankingSet("snap-jan", jan, "f1", "f2"), 0, "manual"))
	require.NoError(t, store.CommitGroup(testGroup, rankingSet("snap-mar", mar, "f2", "f1"), 1, "fight:b9"))

	t.Run("returns entries inside the range oldest first", func(t *testing.T) {
		entries, err := store.History(testGroup, time.Time{}, time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.Len(t, entries, 4)
		assert.Equal(t, "snap-jan", entries[0].SnapshotID)
		assert.Equal(t, "manual", entries[0].TriggerRef)
		assert.Equal(t, "snap-mar", entries[2].SnapshotID)
		assert.Equal(t, "fight:b9", entries[2].TriggerRef)
	})

	t.Run("range bounds are inclusive", func(t *testing.T) {
		entries, err := store.History(testGroup, mar, mar)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "snap-mar", entries[0].SnapshotID)
	})

	t.Run("commits never delete earlier history", func(t *testing.T) {
		entries, err := store.History(testGroup, time.Time{}, time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Len(t, entries, 4, "history is append-only")
	})
}

func TestSnapshotStoreClear(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	date := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.CommitGroup(testGroup, rankingSet("snap-1", date, "f1"), 0, "manual"))

	store.Clear()

	set, err := store.CurrentGroup(testGroup)
	require.NoError(t, err)
	assert.Empty(t, set)

	version, err := store.CurrentVersion(testGroup)
	require.NoError(t, err)
	assert.Equal(t, int64(0), version)
}
