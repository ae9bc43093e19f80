package stats

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/fight"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubHistory answers rank lookups from a fixed map keyed by opponent id.
type stubHistory struct {
	ranks map[string]int
	err   error
}

func (s *stubHistory) RankAt(fighterID string, g fight.Group, date time.Time) (int, bool, error) {
	if s.err != nil {
		return 0, false, s.err
	}
	rank, ok := s.ranks[fighterID]
	return rank, ok, nil
}

func boutAt(id string, date time.Time, result fight.Result, method fight.Method) fight.Fight {
	return fight.Fight{
		ID:           id,
		FighterID:    "f1",
		OpponentID:   "opp-" + id,
		Date:         date,
		Result:       result,
		Method:       method,
		WeightClass:  "LIGHTWEIGHT",
		Organization: "UFC",
	}
}

func TestCompute_EmptyBoutSet(t *testing.T) {
	agg := NewAggregator(&stubHistory{})
	asOf := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	s := agg.Compute("f1", nil, asOf)

	assert.Equal(t, "f1", s.FighterID)
	assert.Equal(t, 0, s.Wins)
	assert.Equal(t, Streak{Kind: StreakNone, Length: 0}, s.CurrentStreak)
	assert.False(t, s.DataComplete, "an empty bout set is an incomplete aggregate")
	assert.Equal(t, asOf, s.AsOf)
}

func TestCompute_WinCountersAndFinishRate(t *testing.T) {
	agg := NewAggregator(&stubHistory{})
	asOf := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	fights := []fight.Fight{
		boutAt("b1", base, fight.ResultWin, fight.MethodKO),
		boutAt("b2", base.AddDate(0, 6, 0), fight.ResultWin, fight.MethodTKO),
		boutAt("b3", base.AddDate(1, 0, 0), fight.ResultWin, fight.MethodSubmission),
		boutAt("b4", base.AddDate(1, 6, 0), fight.ResultWin, fight.MethodDecision),
		boutAt("b5", base.AddDate(2, 0, 0), fight.ResultWin, fight.MethodDQ),
		boutAt("b6", base.AddDate(2, 6, 0), fight.ResultLoss, fight.MethodDecision),
		boutAt("b7", base.AddDate(3, 0, 0), fight.ResultDraw, fight.MethodDecision),
		boutAt("b8", base.AddDate(3, 6, 0), fight.ResultNoContest, fight.MethodOther),
	}

	s := agg.Compute("f1", fights, asOf)

	assert.Equal(t, 5, s.Wins)
	assert.Equal(t, 1, s.Losses)
	assert.Equal(t, 1, s.Draws)
	assert.Equal(t, 1, s.NoContests)
	assert.Equal(t, 1, s.KOWins)
	assert.Equal(t, 1, s.TKOWins)
	assert.Equal(t, 1, s.SubmissionWins)
	assert.Equal(t, 1, s.DecisionWins)
	assert.Equal(t, 1, s.OtherWins)
	// 3 finishes out of 5 wins.
	assert.Equal(t, 60.0, s.FinishRate)
	assert.True(t, s.DataComplete)
	assert.Equal(t, base.AddDate(3, 6, 0), s.LastFightDate)
}

func TestCompute_FinishRateRoundsHalfUp(t *testing.T) {
	agg := NewAggregator(nil)
	asOf := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	// 1 finish out of 3 wins: 33.333... rounds to 33.33.
	fights := []fight.Fight{
		boutAt("b1", base, fight.ResultWin, fight.MethodKO),
		boutAt("b2", base.AddDate(0, 6, 0), fight.ResultWin, fight.MethodDecision),
		boutAt("b3", base.AddDate(1, 0, 0), fight.ResultWin, fight.MethodDecision),
	}
	s := agg.Compute("f1", fights, asOf)
	assert.Equal(t, 33.33, s.FinishRate)

	// 2 finishes out of 3 wins: 66.666... rounds to 66.67.
	fights[1].Method = fight.MethodTKO
	s = agg.Compute("f1", fights, asOf)
	assert.Equal(t, 66.67, s.FinishRate)
}

func TestCompute_FinishRateTenWinGrid(t *testing.T) {
	agg := NewAggregator(nil)
	asOf := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	base := time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC)

	methods := []fight.Method{
		fight.MethodKO, fight.MethodKO, fight.MethodKO,
		fight.MethodTKO, fight.MethodTKO,
		fight.MethodSubmission, fight.MethodSubmission,
		fight.MethodDecision, fight.MethodDecision, fight.MethodDecision,
	}
	fights := make([]fight.Fight, 0, len(methods))
	for i, m := range methods {
		fights = append(fights, boutAt(fmt.Sprintf("b%d", i+1), base.AddDate(0, i*6, 0), fight.ResultWin, m))
	}

	s := agg.Compute("f1", fights, asOf)
	assert.Equal(t, 10, s.Wins)
	// 7 finishes out of 10 wins, exactly.
	assert.Equal(t, 70.00, s.FinishRate)
}

func TestCompute_StreakMachine(t *testing.T) {
	agg := NewAggregator(nil)
	asOf := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	base := time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("draw resets to none, not losing", func(t *testing.T) {
		fights := []fight.Fight{
			boutAt("b1", base, fight.ResultWin, fight.MethodKO),
			boutAt("b2", base.AddDate(0, 6, 0), fight.ResultWin, fight.MethodKO),
			boutAt("b3", base.AddDate(1, 0, 0), fight.ResultDraw, fight.MethodDecision),
		}
		s := agg.Compute("f1", fights, asOf)
		assert.Equal(t, Streak{Kind: StreakNone, Length: 0}, s.CurrentStreak)
		assert.Equal(t, 2, s.LongestWinStreak)
	})

	t.Run("no contest resets a losing streak", func(t *testing.T) {
		fights := []fight.Fight{
			boutAt("b1", base, fight.ResultLoss, fight.MethodDecision),
			boutAt("b2", base.AddDate(0, 6, 0), fight.ResultLoss, fight.MethodKO),
			boutAt("b3", base.AddDate(1, 0, 0), fight.ResultNoContest, fight.MethodOther),
		}
		s := agg.Compute("f1", fights, asOf)
		assert.Equal(t, Streak{Kind: StreakNone, Length: 0}, s.CurrentStreak)
	})

	t.Run("longest win streak survives later losses", func(t *testing.T) {
		fights := []fight.Fight{
			boutAt("b1", base, fight.ResultWin, fight.MethodKO),
			boutAt("b2", base.AddDate(0, 4, 0), fight.ResultWin, fight.MethodKO),
			boutAt("b3", base.AddDate(0, 8, 0), fight.ResultWin, fight.MethodDecision),
			boutAt("b4", base.AddDate(1, 0, 0), fight.ResultLoss, fight.MethodKO),
			boutAt("b5", base.AddDate(1, 4, 0), fight.ResultWin, fight.MethodKO),
		}
		s := agg.Compute("f1", fights, asOf)
		assert.Equal(t, 3, s.LongestWinStreak)
		assert.Equal(t, Streak{Kind: StreakWinning, Length: 1}, s.CurrentStreak)
	})

	t.Run("streaks follow chronological order regardless of input order", func(t *testing.T) {
		ordered := []fight.Fight{
			boutAt("b1", base, fight.ResultLoss, fight.MethodDecision),
			boutAt("b2", base.AddDate(0, 6, 0), fight.ResultWin, fight.MethodKO),
			boutAt("b3", base.AddDate(1, 0, 0), fight.ResultWin, fight.MethodKO),
		}
		shuffled := []fight.Fight{ordered[2], ordered[0], ordered[1]}

		s1 := agg.Compute("f1", ordered, asOf)
		s2 := agg.Compute("f1", shuffled, asOf)
		assert.Equal(t, s1, s2)
		assert.Equal(t, Streak{Kind: StreakWinning, Length: 2}, s1.CurrentStreak)
	})
}

func TestCompute_ActivityWindows(t *testing.T) {
	agg := NewAggregator(nil)
	asOf := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	fights := []fight.Fight{
		// Exactly on the 24-month boundary: counts.
		boutAt("b1", asOf.AddDate(-2, 0, 0), fight.ResultWin, fight.MethodKO),
		// Exactly on the 12-month boundary: counts for both windows.
		boutAt("b2", asOf.AddDate(-1, 0, 0), fight.ResultWin, fight.MethodKO),
		// One day outside the 24-month window.
		boutAt("b3", asOf.AddDate(-2, 0, -1), fight.ResultWin, fight.MethodKO),
		// Recent.
		boutAt("b4", asOf.AddDate(0, -3, 0), fight.ResultLoss, fight.MethodDecision),
	}

	s := agg.Compute("f1", fights, asOf)
	assert.Equal(t, 2, s.FightsLast12Months)
	assert.Equal(t, 3, s.FightsLast24Months)
}

func TestCompute_TitleReigns(t *testing.T) {
	agg := NewAggregator(nil)
	asOf := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	base := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)

	title := func(id string, months int, result fight.Result) fight.Fight {
		f := boutAt(id, base.AddDate(0, months, 0), result, fight.MethodDecision)
		f.TitleFight = true
		return f
	}

	fights := []fight.Fight{
		title("b1", 0, fight.ResultWin),  // wins the belt
		title("b2", 6, fight.ResultWin),  // first defense
		title("b3", 12, fight.ResultWin), // second defense
		title("b4", 18, fight.ResultLoss), // loses the belt
		title("b5", 24, fight.ResultWin), // wins it back, not a defense
	}

	s := agg.Compute("f1", fights, asOf)
	assert.Equal(t, 4, s.TitleWins)
	assert.Equal(t, 1, s.TitleLosses)
	assert.Equal(t, 2, s.TitleDefenses, "the reign-opening win is not a defense")
}

func TestCompute_RankedWins(t *testing.T) {
	asOf := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	history := &stubHistory{ranks: map[string]int{
		"opp-b1": 3,  // top 5 and top 10
		"opp-b2": 8,  // top 10 only
		"opp-b3": 14, // ranked but outside both
	}}
	agg := NewAggregator(history)

	fights := []fight.Fight{
		boutAt("b1", base, fight.ResultWin, fight.MethodKO),
		boutAt("b2", base.AddDate(0, 3, 0), fight.ResultWin, fight.MethodKO),
		boutAt("b3", base.AddDate(0, 6, 0), fight.ResultWin, fight.MethodKO),
		boutAt("b4", base.AddDate(0, 9, 0), fight.ResultWin, fight.MethodKO), // unranked opponent
		boutAt("b5", base.AddDate(1, 0, 0), fight.ResultLoss, fight.MethodKO), // losses never count
	}

	s := agg.Compute("f1", fights, asOf)
	assert.Equal(t, 1, s.Top5Wins)
	assert.Equal(t, 2, s.Top10Wins)
	assert.True(t, s.DataComplete)
}

func TestCompute_RankLookupFailureFlagsIncomplete(t *testing.T) {
	asOf := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	agg := NewAggregator(&stubHistory{err: errors.New("history unavailable")})

	fights := []fight.Fight{
		boutAt("b1", asOf.AddDate(-1, 0, 0), fight.ResultWin, fight.MethodKO),
	}

	s := agg.Compute("f1", fights, asOf)
	require.Equal(t, 1, s.Wins)
	assert.False(t, s.DataComplete, "a failed rank lookup must not be reported as complete")
	assert.Equal(t, 0, s.Top10Wins)
}

func TestCompute_Determinism(t *testing.T) {
	asOf := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	base := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	agg := NewAggregator(&stubHistory{ranks: map[string]int{"opp-b2": 4}})

	fights := []fight.Fight{
		boutAt("b1", base, fight.ResultWin, fight.MethodKO),
		boutAt("b2", base.AddDate(1, 0, 0), fight.ResultWin, fight.MethodSubmission),
		boutAt("b3", base.AddDate(2, 0, 0), fight.ResultLoss, fight.MethodDecision),
	}

	first := agg.Compute("f1", fights, asOf)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, agg.Compute("f1", fights, asOf))
	}
}
