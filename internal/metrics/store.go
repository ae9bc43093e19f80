package metrics

import (
	"database/sql"
	"sync"

	"github.com/charmbracelet/log"
)

// MetricsStore persists durable counters that must survive restarts,
// unlike the in-process Prometheus registry. Used for per-group
// recompute counts surfaced by the admin API.
type MetricsStore interface {
	Increment(key string)
	GetAll() (map[string]int, error)
	Clear()
}

// store handles metric-related database operations.
type store struct {
	db *sql.DB
	mu sync.Mutex
}

// New creates a new metrics Store.
func New(db *sql.DB) MetricsStore {
	return &store{
		db: db,
	}
}

// RecomputeKey builds the durable counter key for a group's recomputes.
func RecomputeKey(groupKey string) string {
	return "recompute:" + groupKey
}

// Increment upserts a metric key and increments its value by one.
func (s *store) Increment(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO metrics (key, value) VALUES (?, 1)
		ON CONFLICT(key) DO UPDATE SET value = value + 1;
	`, key)
	if err != nil {
		log.Error("Failed to increment metric", "error", err, "key", key)
		return
	}
	log.Debug("Incremented metric", "key", key)
}

// GetAll returns all durable metrics.
func (s *store) GetAll() (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query("SELECT key, value FROM metrics")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	metrics := make(map[string]int)
	for rows.Next() {
		var key string
		var value int
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		metrics[key] = value
	}
	return metrics, rows.Err()
}

func (s *store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec("DELETE FROM metrics"); err != nil {
		log.Error("Failed to clear metrics table", "error", err)
	}
}
