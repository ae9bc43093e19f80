package fight

import (
	"sync"
	"time"
)

// MockStore is an in-memory implementation of Store for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu       sync.RWMutex
	fighters map[string]Fighter
	fights   map[string][]Fight

	// Optional spies
	FightsForFighterFunc func(fighterID string, asOf time.Time) ([]Fight, error)
}

// NewMock creates a new mock fight store.
func NewMock() *MockStore {
	return &MockStore{
		fighters: make(map[string]Fighter),
		fights:   make(map[string][]Fight),
	}
}

func (m *MockStore) UpsertFighter(f Fighter) error {
	return m.UpsertFighters([]Fighter{f})
}

func (m *MockStore) UpsertFighters(fighters []Fighter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range fighters {
		m.fighters[f.ID] = f
	}
	return nil
}

func (m *MockStore) UpsertFights(fights []Fight) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range fights {
		m.fights[f.FighterID] = append(m.fights[f.FighterID], f)
	}
	return nil
}

func (m *MockStore) GetFighter(fighterID string) (*Fighter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if f, ok := m.fighters[fighterID]; ok {
		return &f, nil
	}
	return nil, ErrFighterNotFound
}

func (m *MockStore) FightersInGroup(g Group) ([]Fighter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Fighter
	for _, f := range m.fighters {
		if f.WeightClass != g.WeightClass {
			continue
		}
		if g.Organization != "" && f.Organization != g.Organization {
			continue
		}
		out = append(out, f)
	}
	sortFightersByID(out)
	return out, nil
}

func (m *MockStore) AllFighters() ([]Fighter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Fighter, 0, len(m.fighters))
	for _, f := range m.fighters {
		out = append(out, f)
	}
	sortFightersByID(out)
	return out, nil
}

func (m *MockStore) Groups() ([]Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := make(map[Group]bool)
	var groups []Group
	for _, f := range m.fighters {
		for _, g := range []Group{
			{WeightClass: f.WeightClass, Organization: f.Organization, RankingType: RankingDivisional},
			{WeightClass: f.WeightClass, RankingType: RankingDivisional},
		} {
			if g.Organization == "" && f.Organization == "" && seen[g] {
				continue
			}
			if !seen[g] {
				seen[g] = true
				groups = append(groups, g)
			}
		}
	}
	return groups, nil
}

func (m *MockStore) FightsForFighter(fighterID string, asOf time.Time) ([]Fight, error) {
	if m.FightsForFighterFunc != nil {
		return m.FightsForFighterFunc(fighterID, asOf)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Fight
	for _, f := range m.fights[fighterID] {
		if !f.Date.After(asOf) {
			out = append(out, f)
		}
	}
	sortFightsByDate(out)
	return out, nil
}

func (m *MockStore) SetChampionFlags(fighterID string, champion, interim bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.fighters[fighterID]
	if !ok {
		return ErrFighterNotFound
	}
	f.Champion = champion
	f.InterimChampion = interim
	m.fighters[fighterID] = f
	return nil
}

func (m *MockStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fighters = make(map[string]Fighter)
	m.fights = make(map[string][]Fight)
}
