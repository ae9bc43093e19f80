package fight

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// New creates a new fight Store backed by the given database.
func New(db *sql.DB) Store {
	return &store{
		db: db,
	}
}

func (s *store) UpsertFighter(f Fighter) error {
	return s.UpsertFighters([]Fighter{f})
}

func (s *store) UpsertFighters(fighters []Fighter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO fighters (id, name, weight_class, organization, champion, interim_champion)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			weight_class = excluded.weight_class,
			organization = excluded.organization;
	`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, f := range fighters {
		if _, err := stmt.Exec(f.ID, f.Name, f.WeightClass, f.Organization, f.Champion, f.InterimChampion); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to upsert fighter %s: %w", f.ID, err)
		}
	}

	return tx.Commit()
}

// UpsertFights inserts bout records. Existing rows are left untouched:
// fight records are immutable facts and corrections arrive as new rows.
func (s *store) UpsertFights(fights []Fight) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO fights (id, fighter_id, opponent_id, date, result, method, weight_class, organization, title_fight)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING;
	`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, f := range fights {
		if _, err := stmt.Exec(f.ID, f.FighterID, f.OpponentID, f.Date.Unix(), f.Result, f.Method, f.WeightClass, f.Organization, f.TitleFight); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert fight %s: %w", f.ID, err)
		}
	}

	return tx.Commit()
}

func (s *store) GetFighter(fighterID string) (*Fighter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var f Fighter
	row := s.db.QueryRow(`
		SELECT id, name, weight_class, organization, champion, interim_champion
		FROM fighters WHERE id = ?`, fighterID)
	err := row.Scan(&f.ID, &f.Name, &f.WeightClass, &f.Organization, &f.Champion, &f.InterimChampion)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("fighter %s: %w", fighterID, ErrFighterNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &f, nil
}

// FightersInGroup returns the fighters belonging to the group's pool.
// For the cross-organization pool (empty Organization) every fighter of
// the weight class qualifies regardless of affiliation.
func (s *store) FightersInGroup(g Group) ([]Fighter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, name, weight_class, organization, champion, interim_champion
		FROM fighters WHERE weight_class = ? ORDER BY id`
	args := []any{g.WeightClass}
	if g.Organization != "" {
		query = `
		SELECT id, name, weight_class, organization, champion, interim_champion
		FROM fighters WHERE weight_class = ? AND organization = ? ORDER BY id`
		args = append(args, g.Organization)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanFighters(rows)
}

func (s *store) AllFighters() ([]Fighter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, name, weight_class, organization, champion, interim_champion
		FROM fighters ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanFighters(rows)
}

// Groups enumerates every divisional ranking pool present in the fighter
// table: one per (weight class, organization) pair plus the
// cross-organization pool per weight class.
func (s *store) Groups() ([]Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT DISTINCT weight_class, organization FROM fighters ORDER BY weight_class, organization`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []Group
	seenClass := make(map[string]bool)
	for rows.Next() {
		var wc, org string
		if err := rows.Scan(&wc, &org); err != nil {
			return nil, err
		}
		if org != "" {
			groups = append(groups, Group{WeightClass: wc, Organization: org, RankingType: RankingDivisional})
		}
		if !seenClass[wc] {
			seenClass[wc] = true
			groups = append(groups, Group{WeightClass: wc, RankingType: RankingDivisional})
		}
	}
	return groups, rows.Err()
}

// FightsForFighter returns the fighter's bout records dated at or before
// asOf, oldest first. Chronological order matters for streak computation.
func (s *store) FightsForFighter(fighterID string, asOf time.Time) ([]Fight, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, fighter_id, opponent_id, date, result, method, weight_class, organization, title_fight
		FROM fights
		WHERE fighter_id = ? AND date <= ?
		ORDER BY date ASC, id ASC`, fighterID, asOf.Unix())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fights []Fight
	for rows.Next() {
		var f Fight
		var unix int64
		if err := rows.Scan(&f.ID, &f.FighterID, &f.OpponentID, &unix, &f.Result, &f.Method, &f.WeightClass, &f.Organization, &f.TitleFight); err != nil {
			log.Error("Failed to scan fight row", "error", err, "fighterID", fighterID)
			continue
		}
		f.Date = time.Unix(unix, 0).UTC()
		fights = append(fights, f)
	}
	return fights, rows.Err()
}

// SetChampionFlags is the administrative override for championship status.
func (s *store) SetChampionFlags(fighterID string, champion, interim bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("UPDATE fighters SET champion = ?, interim_champion = ? WHERE id = ?", champion, interim, fighterID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("fighter %s: %w", fighterID, ErrFighterNotFound)
	}
	log.Info("Updated champion flags", "fighterID", fighterID, "champion", champion, "interim", interim)
	return nil
}

func (s *store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		log.Error("Failed to begin transaction for clearing fight store", "error", err)
		return
	}

	for _, table := range []string{"fights", "fighters"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			log.Error("Failed to clear table", "error", err, "table", table)
			tx.Rollback()
			return
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("Failed to commit transaction for clearing fight store", "error", err)
	}
}

func scanFighters(rows *sql.Rows) ([]Fighter, error) {
	var fighters []Fighter
	for rows.Next() {
		var f Fighter
		var name sql.NullString
		if err := rows.Scan(&f.ID, &name, &f.WeightClass, &f.Organization, &f.Champion, &f.InterimChampion); err != nil {
			log.Error("Failed to scan fighter row", "error", err)
			continue
		}
		f.Name = name.String
		fighters = append(fighters, f)
	}
	return fighters, rows.Err()
}
