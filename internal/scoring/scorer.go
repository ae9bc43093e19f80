package scoring

import (
	"math"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/fight"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/stats"
)

// Scorer computes composite ranking scores. It only reads bout records,
// statistics and the historical snapshot log, so scoring different
// fighters may run concurrently.
type Scorer struct {
	history RankHistory
}

// NewScorer creates a Scorer backed by the given rank history.
func NewScorer(history RankHistory) *Scorer {
	return &Scorer{history: history}
}

// ComputeScore produces the composite score and its sub-scores. Every
// sub-score is defined for a fighter with zero bouts; missing data is
// resolved via neutral defaults, never an error.
func (sc *Scorer) ComputeScore(st stats.FighterStatistics, fights []fight.Fight, asOf time.Time) (float64, SubScores) {
	sub := SubScores{
		Record:           sc.recordScore(st),
		OpponentQuality:  sc.opponentQualityScore(fights, asOf),
		Activity:         sc.activityScore(st, asOf),
		PerformanceBonus: sc.performanceBonusScore(st),
	}

	composite := WeightRecord*sub.Record +
		WeightOpponentQuality*sub.OpponentQuality +
		WeightActivity*sub.Activity +
		WeightPerformanceBonus*sub.PerformanceBonus

	return round4(composite), sub
}

// recordScore rewards win rate, momentum and finishing ability.
func (sc *Scorer) recordScore(st stats.FighterStatistics) float64 {
	var winRate float64
	if st.Wins+st.Losses > 0 {
		winRate = float64(st.Wins) / float64(st.Wins+st.Losses)
	}

	var streakAdj float64
	switch st.CurrentStreak.Kind {
	case stats.StreakWinning:
		streakAdj = math.Min(float64(st.CurrentStreak.Length)*WinStreakStep, WinStreakCap)
	case stats.StreakLosing:
		streakAdj = math.Max(float64(st.CurrentStreak.Length)*LossStreakStep, LossStreakFloor)
	}

	finishBonus := st.FinishRate * FinishBonusPerPoint

	return (winRate + streakAdj + finishBonus) * RecordScale
}

// opponentQualityScore is the strength-of-schedule component: up to the
// ten most recent bouts inside the trailing three-year window, each
// scored against the opponent's rank as of that bout's date.
func (sc *Scorer) opponentQualityScore(fights []fight.Fight, asOf time.Time) float64 {
	windowStart := asOf.AddDate(0, 0, -QualityWindowDays)

	recent := make([]fight.Fight, 0, len(fights))
	for _, f := range fights {
		if !f.Date.Before(windowStart) && !f.Date.After(asOf) {
			recent = append(recent, f)
		}
	}
	// Newest first; ties broken by id for reproducibility.
	sort.SliceStable(recent, func(i, j int) bool {
		if recent[i].Date.Equal(recent[j].Date) {
			return recent[i].ID > recent[j].ID
		}
		return recent[i].Date.After(recent[j].Date)
	})
	if len(recent) > QualityMaxFights {
		recent = recent[:QualityMaxFights]
	}

	var total float64
	var resolved int
	for _, f := range recent {
		g := fight.Group{
			WeightClass:  f.WeightClass,
			Organization: f.Organization,
			RankingType:  fight.RankingDivisional,
		}
		rank, ok, err := sc.resolveRank(f.OpponentID, g, f.Date)
		if err != nil {
			log.Error("Failed to resolve opponent rank for quality score", "error", err, "opponentID", f.OpponentID, "fightID", f.ID)
			continue
		}
		if !ok {
			continue
		}

		quality := math.Max(float64(QualityRankCeiling-rank), QualityRankFloor) * QualityScale
		switch f.Result {
		case fight.ResultWin:
			quality *= QualityModifierWin
		case fight.ResultLoss:
			quality *= QualityModifierLoss
		case fight.ResultDraw:
			quality *= QualityModifierDraw
		default:
			// No contests carry no quality signal.
			continue
		}
		total += quality
		resolved++
	}

	if resolved == 0 {
		return QualityNeutral
	}
	return total / float64(resolved)
}

func (sc *Scorer) resolveRank(fighterID string, g fight.Group, date time.Time) (int, bool, error) {
	if sc.history == nil {
		return 0, false, nil
	}
	return sc.history.RankAt(fighterID, g, date)
}

// activityScore rewards a busy recent schedule and decays the longer a
// fighter stays out of the cage.
func (sc *Scorer) activityScore(st stats.FighterStatistics, asOf time.Time) float64 {
	base := ActivityBase + math.Min(float64(st.FightsLast24Months)*ActivityPerFight, ActivityFightsCap)

	multiplier := MultiplierInactive
	if !st.LastFightDate.IsZero() {
		days := int(asOf.Sub(st.LastFightDate).Hours() / 24)
		switch {
		case days <= ActivityFreshDays:
			multiplier = MultiplierFresh
		case days <= ActivityStaleDays:
			multiplier = MultiplierStale
		case days <= ActivityDormantDays:
			multiplier = MultiplierDormant
		}
	}

	return base * multiplier
}

// performanceBonusScore rewards title defenses, ranked wins and a high
// finish rate, capped overall.
func (sc *Scorer) performanceBonusScore(st stats.FighterStatistics) float64 {
	bonus := float64(st.TitleDefenses)*BonusPerDefense +
		float64(st.Top5Wins)*BonusPerTop5Win +
		float64(st.Top10Wins)*BonusPerTop10Win

	if st.FinishRate > FinishRateHighCutoff {
		bonus += FinishRateBonusHigh
	} else if st.FinishRate > FinishRateMidCutoff {
		bonus += FinishRateBonusMid
	}

	return math.Min(bonus, PerformanceBonusCap)
}

// round4 rounds half-up to 4 decimal places.
func round4(v float64) float64 {
	return math.Floor(v*1e4+0.5) / 1e4
}
