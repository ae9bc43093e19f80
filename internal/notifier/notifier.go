package notifier

import (
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/fight"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/ranking"
)

// Notifier defines a high-level interface for announcing ranking events.
// This decouples the engine from the specific notification provider (e.g., Slack).
type Notifier interface {
	// SendRankingUpdate announces a freshly committed ranking set. The
	// implementation decides what is noteworthy (new #1, big climbs).
	SendRankingUpdate(g fight.Group, set []ranking.FighterRanking, dryRun bool) error
	// SendRecomputeSummary reports the outcome of a bulk recompute,
	// including the fighters that failed. Failures are never silent.
	SendRecomputeSummary(groups, succeeded, failed int, failedFighters []string, dryRun bool) error
}
