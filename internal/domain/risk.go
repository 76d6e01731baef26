package domain

// RiskTier is the user-facing bucket for a rain probability.
type RiskTier string

const (
	RiskLow      RiskTier = "Low Risk"
	RiskModerate RiskTier = "Moderate Risk"
	RiskHigh     RiskTier = "High Risk"
)

// Lower bounds (inclusive) of the moderate and high tiers, in percent.
const (
	moderateRiskThreshold = 40.0
	highRiskThreshold     = 75.0
)

// ClassifyRisk maps a probability percentage (0-100) to a tier. Each tier
// includes its lower bound: 75 is High, 40 is Moderate.
func ClassifyRisk(probability float64) RiskTier {
	switch {
	case probability >= highRiskThreshold:
		return RiskHigh
	case probability >= moderateRiskThreshold:
		return RiskModerate
	default:
		return RiskLow
	}
}
