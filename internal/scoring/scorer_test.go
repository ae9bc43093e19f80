package scoring

import (
	"testing"
	"time"

	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/fight"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubHistory answers rank lookups from a fixed map keyed by opponent id.
type stubHistory struct {
	ranks map[string]int
}

func (s *stubHistory) RankAt(fighterID string, g fight.Group, date time.Time) (int, bool, error) {
	rank, ok := s.ranks[fighterID]
	return rank, ok, nil
}

var asOf = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

func winAgainst(id, opponent string, monthsAgo int) fight.Fight {
	return fight.Fight{
		ID:           id,
		FighterID:    "f1",
		OpponentID:   opponent,
		Date:         asOf.AddDate(0, -monthsAgo, 0),
		Result:       fight.ResultWin,
		Method:       fight.MethodKO,
		WeightClass:  "LIGHTWEIGHT",
		Organization: "UFC",
	}
}

func TestComputeScore_ZeroBoutDefaults(t *testing.T) {
	sc := NewScorer(&stubHistory{})

	st := stats.FighterStatistics{
		FighterID:     "f1",
		CurrentStreak: stats.Streak{Kind: stats.StreakNone},
	}
	score, sub := sc.ComputeScore(st, nil, asOf)

	assert.Equal(t, 0.0, sub.Record)
	assert.Equal(t, QualityNeutral, sub.OpponentQuality, "no resolvable opponents yields the neutral baseline")
	assert.Equal(t, ActivityBase*MultiplierInactive, sub.Activity, "no fights means maximally inactive")
	assert.Equal(t, 0.0, sub.PerformanceBonus)

	expected := WeightOpponentQuality*QualityNeutral + WeightActivity*ActivityBase*MultiplierInactive
	assert.InDelta(t, expected, score, 0.0001)
}

func TestRecordScore(t *testing.T) {
	sc := NewScorer(nil)

	t.Run("pure win rate", func(t *testing.T) {
		st := stats.FighterStatistics{Wins: 3, Losses: 1, CurrentStreak: stats.Streak{Kind: stats.StreakNone}}
		assert.InDelta(t, 750.0, sc.recordScore(st), 0.0001)
	})

	t.Run("win streak adjustment caps at five wins", func(t *testing.T) {
		base := stats.FighterStatistics{Wins: 10, Losses: 0}

		st4 := base
		st4.CurrentStreak = stats.Streak{Kind: stats.StreakWinning, Length: 4}
		st5 := base
		st5.CurrentStreak = stats.Streak{Kind: stats.StreakWinning, Length: 5}
		st9 := base
		st9.CurrentStreak = stats.Streak{Kind: stats.StreakWinning, Length: 9}

		assert.Less(t, sc.recordScore(st4), sc.recordScore(st5))
		assert.Equal(t, sc.recordScore(st5), sc.recordScore(st9), "the streak bonus is capped")
		assert.InDelta(t, (1.0+0.25)*RecordScale, sc.recordScore(st5), 0.0001)
	})

	t.Run("loss streak adjustment floors at five losses", func(t *testing.T) {
		base := stats.FighterStatistics{Wins: 5, Losses: 5}

		st5 := base
		st5.CurrentStreak = stats.Streak{Kind: stats.StreakLosing, Length: 5}
		st8 := base
		st8.CurrentStreak = stats.Streak{Kind: stats.StreakLosing, Length: 8}

		assert.Equal(t, sc.recordScore(st5), sc.recordScore(st8), "the streak penalty is floored")
		assert.InDelta(t, (0.5-0.15)*RecordScale, sc.recordScore(st5), 0.0001)
	})

	t.Run("finish rate feeds the record score", func(t *testing.T) {
		st := stats.FighterStatistics{Wins: 4, Losses: 0, FinishRate: 75.0, CurrentStreak: stats.Streak{Kind: stats.StreakNone}}
		assert.InDelta(t, (1.0+0.075)*RecordScale, sc.recordScore(st), 0.0001)
	})
}

func TestOpponentQualityScore(t *testing.T) {
	t.Run("ranked opponents average with result modifiers", func(t *testing.T) {
		history := &stubHistory{ranks: map[string]int{"champ": 1, "gatekeeper": 10}}
		sc := NewScorer(history)

		fights := []fight.Fight{
			winAgainst("b1", "champ", 2),
			winAgainst("b2", "gatekeeper", 6),
		}
		fights[1].Result = fight.ResultLoss

		// win over #1: (16-1)*10*1.0 = 150; loss to #10: (16-10)*10*0.7 = 42.
		got := sc.opponentQualityScore(fights, asOf)
		assert.InDelta(t, (150.0+42.0)/2, got, 0.0001)
	})

	t.Run("deep opponents floor at quality one", func(t *testing.T) {
		history := &stubHistory{ranks: map[string]int{"fringe": 20}}
		sc := NewScorer(history)

		got := sc.opponentQualityScore([]fight.Fight{winAgainst("b1", "fringe", 1)}, asOf)
		assert.InDelta(t, 10.0, got, 0.0001, "q = max(16-20, 1) * 10")
	})

	t.Run("unresolvable opponents fall back to neutral", func(t *testing.T) {
		sc := NewScorer(&stubHistory{})
		got := sc.opponentQualityScore([]fight.Fight{winAgainst("b1", "unknown", 1)}, asOf)
		assert.Equal(t, QualityNeutral, got)
	})

	t.Run("no contests carry no signal", func(t *testing.T) {
		history := &stubHistory{ranks: map[string]int{"champ": 1}}
		sc := NewScorer(history)

		nc := winAgainst("b1", "champ", 1)
		nc.Result = fight.ResultNoContest
		got := sc.opponentQualityScore([]fight.Fight{nc}, asOf)
		assert.Equal(t, QualityNeutral, got)
	})

	t.Run("only the ten most recent bouts in the window count", func(t *testing.T) {
		ranks := map[string]int{"old": 1}
		var fights []fight.Fight
		// Ten recent bouts against unranked-but-resolvable #15 opponents.
		for i := 0; i < 10; i++ {
			opp := "recent"
			ranks[opp] = 15
			f := winAgainst(string(rune('a'+i)), opp, i+1)
			fights = append(fights, f)
		}
		// An older bout against the #1 that must be displaced.
		fights = append(fights, winAgainst("z-old", "old", 20))

		sc := NewScorer(&stubHistory{ranks: ranks})
		got := sc.opponentQualityScore(fights, asOf)
		assert.InDelta(t, 10.0, got, 0.0001, "the win over the #1 lies outside the ten most recent")
	})

	t.Run("bouts outside the three-year window are ignored", func(t *testing.T) {
		history := &stubHistory{ranks: map[string]int{"champ": 1}}
		sc := NewScorer(history)

		stale := winAgainst("b1", "champ", 40)
		got := sc.opponentQualityScore([]fight.Fight{stale}, asOf)
		assert.Equal(t, QualityNeutral, got)
	})
}

func TestActivityScore(t *testing.T) {
	sc := NewScorer(nil)

	lastFight := func(daysAgo int) time.Time {
		return asOf.AddDate(0, 0, -daysAgo)
	}

	t.Run("fight count contribution caps at four", func(t *testing.T) {
		st := stats.FighterStatistics{FightsLast24Months: 4, LastFightDate: lastFight(30)}
		st6 := stats.FighterStatistics{FightsLast24Months: 6, LastFightDate: lastFight(30)}
		assert.Equal(t, sc.activityScore(st, asOf), sc.activityScore(st6, asOf))
		assert.InDelta(t, 200.0, sc.activityScore(st, asOf), 0.0001)
	})

	t.Run("multiplier decays monotonically with layoff", func(t *testing.T) {
		mk := func(daysAgo int) float64 {
			st := stats.FighterStatistics{FightsLast24Months: 2, LastFightDate: lastFight(daysAgo)}
			return sc.activityScore(st, asOf)
		}

		fresh := mk(365)
		stale := mk(366)
		dormant := mk(731)
		assert.Greater(t, fresh, stale)
		assert.Greater(t, stale, dormant)
		assert.InDelta(t, 150.0*1.0, fresh, 0.0001)
		assert.InDelta(t, 150.0*0.8, stale, 0.0001)
		assert.InDelta(t, 150.0*0.3, dormant, 0.0001)
	})

	t.Run("no fights at all uses the inactive multiplier", func(t *testing.T) {
		st := stats.FighterStatistics{}
		assert.InDelta(t, ActivityBase*MultiplierInactive, sc.activityScore(st, asOf), 0.0001)
	})
}

func TestPerformanceBonusScore(t *testing.T) {
	sc := NewScorer(nil)

	t.Run("components add up", func(t *testing.T) {
		st := stats.FighterStatistics{
			TitleDefenses: 2,
			Top5Wins:      1,
			Top10Wins:     3,
			FinishRate:    65.0,
		}
		// 2*20 + 1*15 + 3*10 + 25 = 110.
		assert.Equal(t, 110.0, sc.performanceBonusScore(st))
	})

	t.Run("finish rate cutoffs are exclusive", func(t *testing.T) {
		at60 := stats.FighterStatistics{FinishRate: 60.0}
		at40 := stats.FighterStatistics{FinishRate: 40.0}
		assert.Equal(t, 15.0, sc.performanceBonusScore(at60), "exactly 60 earns the mid bonus only")
		assert.Equal(t, 0.0, sc.performanceBonusScore(at40), "exactly 40 earns nothing")
	})

	t.Run("bonus caps at 200", func(t *testing.T) {
		st := stats.FighterStatistics{
			TitleDefenses: 10,
			Top5Wins:      10,
			Top10Wins:     10,
			FinishRate:    90.0,
		}
		assert.Equal(t, PerformanceBonusCap, sc.performanceBonusScore(st))
	})
}

func TestComputeScore_ChampionCaliberCareer(t *testing.T) {
	history := &stubHistory{ranks: map[string]int{"contender": 2}}
	sc := NewScorer(history)

	st := stats.FighterStatistics{
		FighterID:          "f1",
		Wins:               15,
		Losses:             1,
		FinishRate:         70.0,
		CurrentStreak:      stats.Streak{Kind: stats.StreakWinning, Length: 6},
		FightsLast24Months: 3,
		LastFightDate:      asOf.AddDate(0, -4, 0),
		TitleDefenses:      3,
		Top5Wins:           2,
		Top10Wins:          4,
	}
	fights := []fight.Fight{winAgainst("b1", "contender", 4)}

	score, sub := sc.ComputeScore(st, fights, asOf)

	require.Greater(t, sub.PerformanceBonus, 75.0)
	// record: (15/16 + 0.25 + 0.07) * 1000 = 1257.5
	assert.InDelta(t, 1257.5, sub.Record, 0.0001)
	// quality: (16-2)*10*1.0 = 140
	assert.InDelta(t, 140.0, sub.OpponentQuality, 0.0001)
	// activity: (100 + 75) * 1.0 = 175
	assert.InDelta(t, 175.0, sub.Activity, 0.0001)
	// bonus: 3*20 + 2*15 + 4*10 + 25 = 155
	assert.InDelta(t, 155.0, sub.PerformanceBonus, 0.0001)

	expected := 0.40*1257.5 + 0.25*140.0 + 0.20*175.0 + 0.15*155.0
	assert.InDelta(t, expected, score, 0.0001)
}

func TestComputeScore_StreakAndRankedWinsSeparateContenders(t *testing.T) {
	sc := NewScorer(nil)

	hot := stats.FighterStatistics{
		FighterID:          "hot",
		Wins:               15,
		Losses:             1,
		FinishRate:         73.3,
		CurrentStreak:      stats.Streak{Kind: stats.StreakWinning, Length: 5},
		FightsLast24Months: 3,
		LastFightDate:      asOf.AddDate(0, 0, -60),
		TitleDefenses:      1,
		Top5Wins:           2,
		Top10Wins:          2,
	}

	score, sub := sc.ComputeScore(hot, nil, asOf)
	assert.Greater(t, sub.Record, 0.0)
	// Last fight 60 days ago keeps the full activity multiplier.
	assert.InDelta(t, (ActivityBase+3*ActivityPerFight)*MultiplierFresh, sub.Activity, 0.0001)
	// 2*15 for top-5 wins, 20 for the defense, 25 since 73.3 > 60.
	assert.GreaterOrEqual(t, sub.PerformanceBonus, 75.0)

	cold := hot
	cold.FighterID = "cold"
	cold.CurrentStreak = stats.Streak{Kind: stats.StreakNone}
	cold.Top5Wins = 0
	cold.Top10Wins = 0

	coldScore, _ := sc.ComputeScore(cold, nil, asOf)
	assert.Greater(t, score, coldScore, "momentum and ranked wins must separate otherwise identical records")
}

func TestComputeScore_Determinism(t *testing.T) {
	history := &stubHistory{ranks: map[string]int{"contender": 2}}
	sc := NewScorer(history)

	st := stats.FighterStatistics{Wins: 5, Losses: 2, CurrentStreak: stats.Streak{Kind: stats.StreakWinning, Length: 2}}
	fights := []fight.Fight{winAgainst("b1", "contender", 3)}

	firstScore, firstSub := sc.ComputeScore(st, fights, asOf)
	for i := 0; i < 10; i++ {
		score, sub := sc.ComputeScore(st, fights, asOf)
		assert.Equal(t, firstScore, score)
		assert.Equal(t, firstSub, sub)
	}
}
