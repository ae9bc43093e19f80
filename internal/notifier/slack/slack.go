package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/fight"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/metrics"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/notifier"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/ranking"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier announces ranking events to a Slack channel.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// SendRankingUpdate announces a committed ranking set: the top of the
// division plus the notable movers.
func (s *Notifier) SendRankingUpdate(g fight.Group, set []ranking.FighterRanking, dryRun bool) error {
	msg := s.formatRankingUpdate(g, set)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// SendRecomputeSummary reports a bulk recompute outcome, listing failed
// fighters explicitly.
func (s *Notifier) SendRecomputeSummary(groups, succeeded, failed int, failedFighters []string, dryRun bool) error {
	msg := s.formatRecomputeSummary(groups, succeeded, failed, failedFighters)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) formatRankingUpdate(g fight.Group, set []ranking.FighterRanking) slack.Message {
	blocks := make([]slack.Block, 0)

	title := g.WeightClass
	if g.Organization != "" {
		title = fmt.Sprintf("%s (%s)", g.WeightClass, g.Organization)
	}
	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("🥊 Rankings updated: %s 🥊", title), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	var lines []string
	for _, r := range set {
		if r.Rank > 10 {
			break
		}
		marker := ""
		switch {
		case r.NewlyRanked:
			marker = " (NR)"
		case r.RankChange > 0:
			marker = fmt.Sprintf(" (▲%d)", r.RankChange)
		case r.RankChange < 0:
			marker = fmt.Sprintf(" (▼%d)", -r.RankChange)
		}
		belt := ""
		if r.Champion {
			belt = " 🏆"
		}
		lines = append(lines, fmt.Sprintf("%d. %s%s%s", r.Rank, r.FighterName, belt, marker))
	}
	if len(lines) > 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", strings.Join(lines, "\n"), true, false), nil, nil))
	}

	var movers []string
	for _, r := range set {
		if r.RankChange >= 3 {
			movers = append(movers, fmt.Sprintf("🔥 %s climbed %d spots", r.FighterName, r.RankChange))
		}
	}
	if len(movers) > 0 {
		var elements []slack.MixedElement
		for _, m := range movers {
			elements = append(elements, slack.NewTextBlockObject("plain_text", m, true, false))
		}
		blocks = append(blocks, slack.NewContextBlock("", elements...))
	}

	return slack.NewBlockMessage(blocks...)
}

func (s *Notifier) formatRecomputeSummary(groups, succeeded, failed int, failedFighters []string) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "Ranking recompute finished", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	summary := fmt.Sprintf("Groups: %d\nFighters scored: %d\nFailures: %d", groups, succeeded, failed)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", summary, true, false), nil, nil))

	if len(failedFighters) > 0 {
		failText := "Failed fighters:\n• " + strings.Join(failedFighters, "\n• ")
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", failText, true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}
