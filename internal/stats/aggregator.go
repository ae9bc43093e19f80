package stats

import (
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/fight"
)

// Aggregator computes career statistics from a fighter's bout records.
type Aggregator struct {
	history RankHistory
}

// NewAggregator creates an Aggregator. The rank history is used for the
// wins-over-ranked-opponent counters; it may be a snapshot store or a
// test double.
func NewAggregator(history RankHistory) *Aggregator {
	return &Aggregator{history: history}
}

// Compute builds the full statistics aggregate for one fighter as of the
// given date. Recomputing from the same bout set and asOf date always
// yields identical output. An empty bout set yields a zero-valued
// aggregate flagged incomplete, never an error.
func (a *Aggregator) Compute(fighterID string, fights []fight.Fight, asOf time.Time) FighterStatistics {
	s := FighterStatistics{
		FighterID:     fighterID,
		CurrentStreak: Streak{Kind: StreakNone},
		AsOf:          asOf,
	}
	if len(fights) == 0 {
		return s
	}

	sorted := make([]fight.Fight, len(fights))
	copy(sorted, fights)
	fight.SortChronological(sorted)

	cutoff12 := asOf.AddDate(-1, 0, 0)
	cutoff24 := asOf.AddDate(-2, 0, 0)

	rankedResolved := true
	inTitleReign := false
	for _, f := range sorted {
		switch f.Result {
		case fight.ResultWin:
			s.Wins++
			switch f.Method {
			case fight.MethodKO:
				s.KOWins++
			case fight.MethodTKO:
				s.TKOWins++
			case fight.MethodSubmission:
				s.SubmissionWins++
			case fight.MethodDecision:
				s.DecisionWins++
			default:
				s.OtherWins++
			}
			if f.TitleFight {
				s.TitleWins++
				// A defense is a title win while already holding the belt;
				// the win that starts the reign is not a defense.
				if inTitleReign {
					s.TitleDefenses++
				}
				inTitleReign = true
			}
			s.advanceStreak(fight.ResultWin)
			a.countRankedWin(&s, f, &rankedResolved)
		case fight.ResultLoss:
			s.Losses++
			if f.TitleFight {
				s.TitleLosses++
				inTitleReign = false
			}
			s.advanceStreak(fight.ResultLoss)
		case fight.ResultDraw:
			s.Draws++
			s.advanceStreak(fight.ResultDraw)
		case fight.ResultNoContest:
			s.NoContests++
			s.advanceStreak(fight.ResultNoContest)
		}

		// Boundary dates count toward the trailing windows.
		if !f.Date.Before(cutoff24) {
			s.FightsLast24Months++
		}
		if !f.Date.Before(cutoff12) {
			s.FightsLast12Months++
		}
		if f.Date.After(s.LastFightDate) {
			s.LastFightDate = f.Date
		}
	}

	if s.Wins > 0 {
		finishes := s.KOWins + s.TKOWins + s.SubmissionWins
		s.FinishRate = roundHalfUp(float64(finishes)/float64(s.Wins)*100, 2)
	}

	s.DataComplete = rankedResolved
	return s
}

// advanceStreak runs the three-state streak machine. A draw or no
// contest breaks the streak without starting a losing one.
func (s *FighterStatistics) advanceStreak(r fight.Result) {
	switch r {
	case fight.ResultWin:
		if s.CurrentStreak.Kind == StreakWinning {
			s.CurrentStreak.Length++
		} else {
			s.CurrentStreak = Streak{Kind: StreakWinning, Length: 1}
		}
		if s.CurrentStreak.Length > s.LongestWinStreak {
			s.LongestWinStreak = s.CurrentStreak.Length
		}
	case fight.ResultLoss:
		if s.CurrentStreak.Kind == StreakLosing {
			s.CurrentStreak.Length++
		} else {
			s.CurrentStreak = Streak{Kind: StreakLosing, Length: 1}
		}
	default:
		s.CurrentStreak = Streak{Kind: StreakNone, Length: 0}
	}
}

// countRankedWin resolves the opponent's rank as of the bout date and
// bumps the top-5/top-10 counters. The opponent's historical rank, not
// their current one, decides whether the win counts.
func (a *Aggregator) countRankedWin(s *FighterStatistics, f fight.Fight, resolved *bool) {
	if a.history == nil {
		return
	}
	g := fight.Group{
		WeightClass:  f.WeightClass,
		Organization: f.Organization,
		RankingType:  fight.RankingDivisional,
	}
	rank, ok, err := a.history.RankAt(f.OpponentID, g, f.Date)
	if err != nil {
		log.Error("Failed to resolve historical opponent rank", "error", err, "opponentID", f.OpponentID, "fightID", f.ID)
		*resolved = false
		return
	}
	if !ok {
		return
	}
	if rank <= 5 {
		s.Top5Wins++
	}
	if rank <= 10 {
		s.Top10Wins++
	}
}

// roundHalfUp rounds to the given number of decimal places with ties
// going away from zero toward positive infinity.
func roundHalfUp(v float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Floor(v*shift+0.5) / shift
}
