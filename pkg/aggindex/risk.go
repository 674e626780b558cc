package aggindex

import (
	"math"

	"github.com/hrpulse/hrpulse/pkg/monthkey"
	"github.com/hrpulse/hrpulse/pkg/records"
)

// Tier is an award bucket derived from tenure thresholds.
type Tier string

// Award tiers, highest first.
const (
	TierPlatinum Tier = "platinum"
	TierGold     Tier = "gold"
	TierSilver   Tier = "silver"
	TierBronze   Tier = "bronze"
	TierNone     Tier = "none"
)

// Tiers lists the award tiers from highest to lowest, excluding none.
func Tiers() []Tier {
	return []Tier{TierPlatinum, TierGold, TierSilver, TierBronze}
}

// Risk score bounds.
const (
	riskScoreMax = 100
	riskScoreMin = 0
)

// TenureAwardTier buckets an employee by tenure days as of the target
// month's snapshot date. Thresholds come from policy configuration, not
// call-site literals. Employees absent from the month map to none.
func (ix *Index) TenureAwardTier(id string, target monthkey.Key) Tier {
	tl, ok := ix.timelines[id]
	if !ok {
		return TierNone
	}

	entry := tl.Entry(target)
	if !entry.Employed {
		return TierNone
	}

	switch {
	case entry.TenureDays >= ix.tiers.PlatinumDays:
		return TierPlatinum
	case entry.TenureDays >= ix.tiers.GoldDays:
		return TierGold
	case entry.TenureDays >= ix.tiers.SilverDays:
		return TierSilver
	case entry.TenureDays >= ix.tiers.BronzeDays:
		return TierBronze
	default:
		return TierNone
	}
}

// TierCounts tallies active employees per tier for the target month.
func (ix *Index) TierCounts(target monthkey.Key) map[Tier]int {
	counts := make(map[Tier]int)

	store := ix.store(target)
	if store == nil {
		return counts
	}

	for _, emp := range store.Employees() {
		if emp.ActiveIn(target) {
			counts[ix.TenureAwardTier(emp.ID, target)]++
		}
	}

	return counts
}

// RiskScore computes the heuristic early-attrition indicator for one
// employee in one month, in [0, 100]. It is a weighted sum, not ground
// truth: attendance and training shortfalls below their floors
// contribute proportionally up to their weights, negative or neutral
// mentor feedback contributes a fixed amount, and every unauthorized
// absence adds a per-absence weight. The total is clamped to 100, which
// keeps the score monotonically non-decreasing in unauthorized absences.
func (ix *Index) RiskScore(id string, target monthkey.Key) int {
	tl, ok := ix.timelines[id]
	if !ok {
		return riskScoreMin
	}

	entry := tl.Entry(target)
	if !entry.Employed {
		return riskScoreMin
	}

	score := shortfallContribution(entry.AttendanceRate, ix.risk.AttendanceFloor, ix.risk.AttendanceWeight)

	if entry.TrainingRate != nil {
		score += shortfallContribution(*entry.TrainingRate, ix.risk.TrainingFloor, ix.risk.TrainingWeight)
	}

	switch entry.MentorFeedback {
	case records.FeedbackNegative:
		score += ix.risk.NegativeFeedback
	case records.FeedbackNeutral:
		score += ix.risk.NeutralFeedback
	case records.FeedbackPositive, records.FeedbackNone:
	}

	score += float64(entry.UnauthorizedAbsences) * ix.risk.PerUnauthorized

	return clampScore(score)
}

// shortfallContribution scales weight by how far value falls below
// floor: at the floor (or above) it contributes nothing, at zero it
// contributes the full weight.
func shortfallContribution(value, floor, weight float64) float64 {
	if floor <= 0 || value >= floor {
		return 0
	}

	if value < 0 {
		value = 0
	}

	return (floor - value) / floor * weight
}

func clampScore(score float64) int {
	rounded := int(math.Round(score))

	if rounded > riskScoreMax {
		return riskScoreMax
	}

	if rounded < riskScoreMin {
		return riskScoreMin
	}

	return rounded
}

// RiskBand buckets a score for filtering and display.
type RiskBand string

// Risk bands.
const (
	RiskBandHigh   RiskBand = "high"
	RiskBandMedium RiskBand = "medium"
	RiskBandLow    RiskBand = "low"
)

// Band thresholds.
const (
	riskBandHighMin   = 60
	riskBandMediumMin = 30
)

// BandForScore maps a risk score to its band.
func BandForScore(score int) RiskBand {
	switch {
	case score >= riskBandHighMin:
		return RiskBandHigh
	case score >= riskBandMediumMin:
		return RiskBandMedium
	default:
		return RiskBandLow
	}
}
