package snapshot

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/fight"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/ranking"
)

// store persists ranking sets in sqlite: a current table replaced per
// group and an append-only history table.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new snapshot Store.
func New(db *sql.DB) Store {
	return &store{
		db: db,
	}
}

func (s *store) CurrentGroup(g fight.Group) ([]ranking.FighterRanking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT fighter_id, fighter_name, rank, previous_rank, score,
			record_score, quality_score, activity_score, bonus_score,
			rank_change, score_change, newly_ranked, champion, interim_champion,
			snapshot_id, snapshot_date
		FROM rankings
		WHERE weight_class = ? AND organization = ? AND ranking_type = ?
		ORDER BY rank ASC`, g.WeightClass, g.Organization, string(g.RankingType))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var set []ranking.FighterRanking
	for rows.Next() {
		r, err := scanRanking(rows, g)
		if err != nil {
			log.Error("Failed to scan ranking row", "error", err, "group", g.Key())
			continue
		}
		set = append(set, *r)
	}
	return set, rows.Err()
}

func (s *store) CurrentVersion(g fight.Group) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentVersionLocked(s.db, g)
}

type querier interface {
	QueryRow(query string, args ...any) *sql.Row
}

func (s *store) currentVersionLocked(q querier, g fight.Group) (int64, error) {
	var version int64
	err := q.QueryRow(`
		SELECT version FROM ranking_versions
		WHERE weight_class = ? AND organization = ? AND ranking_type = ?`,
		g.WeightClass, g.Organization, string(g.RankingType)).Scan(&version)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("database error: %w", err)
	}
	return version, nil
}

// CommitGroup replaces the group's current set and archives it to the
// history log in one transaction. Readers never observe a partially
// replaced set.
func (s *store) CommitGroup(g fight.Group, set []ranking.FighterRanking, expectedVersion int64, triggerRef string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	version, err := s.currentVersionLocked(tx, g)
	if err != nil {
		tx.Rollback()
		return err
	}
	if version != expectedVersion {
		tx.Rollback()
		return fmt.Errorf("group %s at version %d, expected %d: %w", g.Key(), version, expectedVersion, ErrVersionConflict)
	}

	_, err = tx.Exec(`
		INSERT INTO ranking_versions (weight_class, organization, ranking_type, version)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(weight_class, organization, ranking_type) DO UPDATE SET version = excluded.version`,
		g.WeightClass, g.Organization, string(g.RankingType), version+1)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to bump version for group %s: %w", g.Key(), err)
	}

	_, err = tx.Exec(`
		DELETE FROM rankings WHERE weight_class = ? AND organization = ? AND ranking_type = ?`,
		g.WeightClass, g.Organization, string(g.RankingType))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to clear current set for group %s: %w", g.Key(), err)
	}

	insertCurrent, err := tx.Prepare(`
		INSERT INTO rankings (
			fighter_id, weight_class, organization, ranking_type,
			fighter_name, rank, previous_rank, score,
			record_score, quality_score, activity_score, bonus_score,
			rank_change, score_change, newly_ranked, champion, interim_champion,
			snapshot_id, snapshot_date
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer insertCurrent.Close()

	insertHistory, err := tx.Prepare(`
		INSERT INTO ranking_history (
			snapshot_id, fighter_id, weight_class, organization, ranking_type,
			fighter_name, rank, previous_rank, score,
			record_score, quality_score, activity_score, bonus_score,
			rank_change, score_change, newly_ranked, champion, interim_champion,
			snapshot_date, trigger_ref
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer insertHistory.Close()

	for _, r := range set {
		args := []any{
			r.FighterID, g.WeightClass, g.Organization, string(g.RankingType),
			r.FighterName, r.Rank, r.PreviousRank, r.Score,
			r.Sub.Record, r.Sub.OpponentQuality, r.Sub.Activity, r.Sub.PerformanceBonus,
			r.RankChange, r.ScoreChange, r.NewlyRanked, r.Champion, r.Interim,
			r.SnapshotID, r.SnapshotDate.Unix(),
		}
		if _, err := insertCurrent.Exec(args...); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert ranking for fighter %s: %w", r.FighterID, err)
		}

		histArgs := append([]any{r.SnapshotID}, args[:len(args)-2]...)
		histArgs = append(histArgs, r.SnapshotDate.Unix(), triggerRef)
		if _, err := insertHistory.Exec(histArgs...); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to archive ranking for fighter %s: %w", r.FighterID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ranking set for group %s: %w", g.Key(), err)
	}
	log.Info("Committed ranking set", "group", g.Key(), "size", len(set), "version", version+1, "trigger", triggerRef)
	return nil
}

func (s *store) RankAt(fighterID string, g fight.Group, date time.Time) (int, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rank int
	err := s.db.QueryRow(`
		SELECT rank FROM ranking_history
		WHERE fighter_id = ? AND weight_class = ? AND organization = ? AND ranking_type = ?
			AND snapshot_date <= ?
		ORDER BY snapshot_date DESC, id DESC
		LIMIT 1`,
		fighterID, g.WeightClass, g.Organization, string(g.RankingType), date.Unix()).Scan(&rank)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("database error: %w", err)
	}
	return rank, true, nil
}

func (s *store) History(g fight.Group, from, to time.Time) ([]HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT fighter_id, fighter_name, rank, previous_rank, score,
			record_score, quality_score, activity_score, bonus_score,
			rank_change, score_change, newly_ranked, champion, interim_champion,
			snapshot_id, snapshot_date, trigger_ref
		FROM ranking_history
		WHERE weight_class = ? AND organization = ? AND ranking_type = ?
			AND snapshot_date >= ? AND snapshot_date <= ?
		ORDER BY snapshot_date ASC, rank ASC`,
		g.WeightClass, g.Organization, string(g.RankingType), from.Unix(), to.Unix())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var snapshotDate int64
		var trigger sql.NullString
		err := rows.Scan(
			&e.FighterID, &e.FighterName, &e.Rank, &e.PreviousRank, &e.Score,
			&e.Sub.Record, &e.Sub.OpponentQuality, &e.Sub.Activity, &e.Sub.PerformanceBonus,
			&e.RankChange, &e.ScoreChange, &e.NewlyRanked, &e.Champion, &e.Interim,
			&e.SnapshotID, &snapshotDate, &trigger,
		)
		if err != nil {
			log.Error("Failed to scan history row", "error", err, "group", g.Key())
			continue
		}
		e.Group = g
		e.SnapshotDate = time.Unix(snapshotDate, 0).UTC()
		e.TriggerRef = trigger.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		log.Error("Failed to begin transaction for clearing snapshot store", "error", err)
		return
	}
	for _, table := range []string{"rankings", "ranking_history", "ranking_versions"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			log.Error("Failed to clear table", "error", err, "table", table)
			tx.Rollback()
			return
		}
	}
	if err := tx.Commit(); err != nil {
		log.Error("Failed to commit transaction for clearing snapshot store", "error", err)
	}
}

func scanRanking(rows *sql.Rows, g fight.Group) (*ranking.FighterRanking, error) {
	var r ranking.FighterRanking
	var snapshotDate int64
	err := rows.Scan(
		&r.FighterID, &r.FighterName, &r.Rank, &r.PreviousRank, &r.Score,
		&r.Sub.Record, &r.Sub.OpponentQuality, &r.Sub.Activity, &r.Sub.PerformanceBonus,
		&r.RankChange, &r.ScoreChange, &r.NewlyRanked, &r.Champion, &r.Interim,
		&r.SnapshotID, &snapshotDate,
	)
	if err != nil {
		return nil, err
	}
	r.Group = g
	r.SnapshotDate = time.Unix(snapshotDate, 0).UTC()
	return &r, nil
}
