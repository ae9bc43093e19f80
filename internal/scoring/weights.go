// Package scoring computes the weighted composite ranking score.
// This file defines every constant of the formula so the weighting is
// auditable in one place.
package scoring

// Composite weights. Must sum to 1.0.
const (
	WeightRecord           = 0.40
	WeightOpponentQuality  = 0.25
	WeightActivity         = 0.20
	WeightPerformanceBonus = 0.15
)

// Record sub-score.
const (
	RecordScale         = 1000.0
	WinStreakStep       = 0.05  // per consecutive win
	WinStreakCap        = 0.25  // adjustment ceiling
	LossStreakStep      = -0.03 // per consecutive loss
	LossStreakFloor     = -0.15 // adjustment floor
	FinishBonusPerPoint = 0.001 // per finish-rate percentage point
)

// Opponent quality sub-score.
const (
	QualityWindowDays   = 1095 // trailing 3 years
	QualityMaxFights    = 10
	QualityRankCeiling  = 16 // q = max(16 - rank, 1) * 10
	QualityRankFloor    = 1
	QualityScale        = 10.0
	QualityNeutral      = 50.0 // baseline when no opponent rank resolves
	QualityModifierWin  = 1.0
	QualityModifierLoss = 0.7
	QualityModifierDraw = 0.85
)

// Activity sub-score. The multiplier decays in steps of days since the
// last fight; a fighter with no fights is treated as maximally inactive.
const (
	ActivityBase        = 100.0
	ActivityPerFight    = 25.0
	ActivityFightsCap   = 100.0
	ActivityFreshDays   = 365
	ActivityStaleDays   = 540
	ActivityDormantDays = 730
	MultiplierFresh     = 1.0
	MultiplierStale     = 0.8
	MultiplierDormant   = 0.6
	MultiplierInactive  = 0.3
)

// Performance bonus sub-score.
const (
	BonusPerDefense      = 20.0
	BonusPerTop5Win      = 15.0
	BonusPerTop10Win     = 10.0
	FinishRateBonusHigh  = 25.0 // finish rate above 60
	FinishRateBonusMid   = 15.0 // finish rate above 40
	FinishRateHighCutoff = 60.0
	FinishRateMidCutoff  = 40.0
	PerformanceBonusCap  = 200.0
)
