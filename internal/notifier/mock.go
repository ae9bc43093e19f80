package notifier

import (
	"sync"

	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/fight"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/ranking"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Call records
	RankingUpdateCalls []RankingUpdateCall
	SummaryCalls       []SummaryCall

	// Spies
	SendRankingUpdateFunc    func(g fight.Group, set []ranking.FighterRanking, dryRun bool) error
	SendRecomputeSummaryFunc func(groups, succeeded, failed int, failedFighters []string, dryRun bool) error
}

// RankingUpdateCall holds the arguments for a call to SendRankingUpdate.
type RankingUpdateCall struct {
	Group fight.Group
	Set   []ranking.FighterRanking
}

// SummaryCall holds the arguments for a call to SendRecomputeSummary.
type SummaryCall struct {
	Groups         int
	Succeeded      int
	Failed         int
	FailedFighters []string
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RankingUpdateCalls = nil
	m.SummaryCalls = nil
}

func (m *Mock) SendRankingUpdate(g fight.Group, set []ranking.FighterRanking, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RankingUpdateCalls = append(m.RankingUpdateCalls, RankingUpdateCall{Group: g, Set: set})
	if m.SendRankingUpdateFunc != nil {
		return m.SendRankingUpdateFunc(g, set, dryRun)
	}
	return nil
}

func (m *Mock) SendRecomputeSummary(groups, succeeded, failed int, failedFighters []string, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SummaryCalls = append(m.SummaryCalls, SummaryCall{Groups: groups, Succeeded: succeeded, Failed: failed, FailedFighters: failedFighters})
	if m.SendRecomputeSummaryFunc != nil {
		return m.SendRecomputeSummaryFunc(groups, succeeded, failed, failedFighters, dryRun)
	}
	return nil
}
