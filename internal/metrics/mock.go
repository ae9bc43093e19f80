package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                 sync.Mutex
	recomputeRuns      int
	fightersScored     int
	scoreFailures      int
	snapshotCommits    int
	versionConflicts   int
	recomputeDurations []float64
	cacheHits          int
	cacheMisses        int
	slackNotifSent     int
	slackNotifFailed   int
	startupTime        float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		recomputeDurations: make([]float64, 0),
	}
}

func (m *Mock) IncRecomputeRuns() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recomputeRuns++
}

func (m *Mock) IncFightersScored() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fightersScored++
}

func (m *Mock) IncScoreFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scoreFailures++
}

func (m *Mock) IncSnapshotCommits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshotCommits++
}

func (m *Mock) IncVersionConflicts() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.versionConflicts++
}

func (m *Mock) ObserveRecomputeDuration(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recomputeDurations = append(m.recomputeDurations, seconds)
}

func (m *Mock) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cacheHits++
}

func (m *Mock) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cacheMisses++
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// RecomputeRuns returns the number of times IncRecomputeRuns was called.
func (m *Mock) RecomputeRuns() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recomputeRuns
}

// FightersScored returns the number of times IncFightersScored was called.
func (m *Mock) FightersScored() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fightersScored
}

// ScoreFailures returns the number of times IncScoreFailures was called.
func (m *Mock) ScoreFailures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scoreFailures
}

// SnapshotCommits returns the number of times IncSnapshotCommits was called.
func (m *Mock) SnapshotCommits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotCommits
}

// VersionConflicts returns the number of times IncVersionConflicts was called.
func (m *Mock) VersionConflicts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.versionConflicts
}

// CacheHits returns the number of times IncCacheHits was called.
func (m *Mock) CacheHits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cacheHits
}

// CacheMisses returns the number of times IncCacheMisses was called.
func (m *Mock) CacheMisses() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cacheMisses
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}
