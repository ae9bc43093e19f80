package stats

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// ErrNoStatistics is returned by Get for fighters that have never been
// aggregated.
var ErrNoStatistics = errors.New("no statistics for fighter")

// NewStore creates a new statistics Store.
func NewStore(db *sql.DB) Store {
	return &store{
		db: db,
	}
}

// Save replaces the fighter's whole statistics row atomically. Partial
// field updates are never performed.
func (s *store) Save(stat FighterStatistics) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO fighter_stats (
			fighter_id, wins, losses, draws, no_contests,
			ko_wins, tko_wins, submission_wins, decision_wins, other_wins,
			finish_rate, streak_kind, streak_length, longest_win_streak,
			fights_last_12_months, fights_last_24_months, last_fight_date,
			title_wins, title_losses, title_defenses,
			top5_wins, top10_wins, data_complete, as_of
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(fighter_id) DO UPDATE SET
			wins = excluded.wins,
			losses = excluded.losses,
			draws = excluded.draws,
			no_contests = excluded.no_contests,
			ko_wins = excluded.ko_wins,
			tko_wins = excluded.tko_wins,
			submission_wins = excluded.submission_wins,
			decision_wins = excluded.decision_wins,
			other_wins = excluded.other_wins,
			finish_rate = excluded.finish_rate,
			streak_kind = excluded.streak_kind,
			streak_length = excluded.streak_length,
			longest_win_streak = excluded.longest_win_streak,
			fights_last_12_months = excluded.fights_last_12_months,
			fights_last_24_months = excluded.fights_last_24_months,
			last_fight_date = excluded.last_fight_date,
			title_wins = excluded.title_wins,
			title_losses = excluded.title_losses,
			title_defenses = excluded.title_defenses,
			top5_wins = excluded.top5_wins,
			top10_wins = excluded.top10_wins,
			data_complete = excluded.data_complete,
			as_of = excluded.as_of;
	`,
		stat.FighterID, stat.Wins, stat.Losses, stat.Draws, stat.NoContests,
		stat.KOWins, stat.TKOWins, stat.SubmissionWins, stat.DecisionWins, stat.OtherWins,
		stat.FinishRate, string(stat.CurrentStreak.Kind), stat.CurrentStreak.Length, stat.LongestWinStreak,
		stat.FightsLast12Months, stat.FightsLast24Months, lastFightUnix(stat.LastFightDate),
		stat.TitleWins, stat.TitleLosses, stat.TitleDefenses,
		stat.Top5Wins, stat.Top10Wins, stat.DataComplete, stat.AsOf.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save statistics for fighter %s: %w", stat.FighterID, err)
	}
	return nil
}

func (s *store) Get(fighterID string) (*FighterStatistics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(selectColumns+" FROM fighter_stats WHERE fighter_id = ?", fighterID)
	stat, err := scanStats(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("fighter %s: %w", fighterID, ErrNoStatistics)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return stat, nil
}

func (s *store) GetMany(fighterIDs []string) ([]FighterStatistics, error) {
	if len(fighterIDs) == 0 {
		return []FighterStatistics{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	placeholders := strings.Repeat("?,", len(fighterIDs))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(fighterIDs))
	for i, id := range fighterIDs {
		args[i] = id
	}

	rows, err := s.db.Query(selectColumns+" FROM fighter_stats WHERE fighter_id IN ("+placeholders+") ORDER BY fighter_id", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FighterStatistics
	for rows.Next() {
		stat, err := scanStats(rows)
		if err != nil {
			log.Error("Failed to scan statistics row", "error", err)
			continue
		}
		out = append(out, *stat)
	}
	return out, rows.Err()
}

func (s *store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec("DELETE FROM fighter_stats"); err != nil {
		log.Error("Failed to clear fighter_stats table", "error", err)
	}
}

const selectColumns = `
	SELECT fighter_id, wins, losses, draws, no_contests,
		ko_wins, tko_wins, submission_wins, decision_wins, other_wins,
		finish_rate, streak_kind, streak_length, longest_win_streak,
		fights_last_12_months, fights_last_24_months, last_fight_date,
		title_wins, title_losses, title_defenses,
		top5_wins, top10_wins, data_complete, as_of`

func scanStats(scanner interface{ Scan(...any) error }) (*FighterStatistics, error) {
	var stat FighterStatistics
	var streakKind string
	var lastFight, asOf int64

	err := scanner.Scan(
		&stat.FighterID, &stat.Wins, &stat.Losses, &stat.Draws, &stat.NoContests,
		&stat.KOWins, &stat.TKOWins, &stat.SubmissionWins, &stat.DecisionWins, &stat.OtherWins,
		&stat.FinishRate, &streakKind, &stat.CurrentStreak.Length, &stat.LongestWinStreak,
		&stat.FightsLast12Months, &stat.FightsLast24Months, &lastFight,
		&stat.TitleWins, &stat.TitleLosses, &stat.TitleDefenses,
		&stat.Top5Wins, &stat.Top10Wins, &stat.DataComplete, &asOf,
	)
	if err != nil {
		return nil, err
	}

	stat.CurrentStreak.Kind = StreakKind(streakKind)
	if lastFight > 0 {
		stat.LastFightDate = time.Unix(lastFight, 0).UTC()
	}
	stat.AsOf = time.Unix(asOf, 0).UTC()
	return &stat, nil
}

func lastFightUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}
