package domain

import "strconv"

const (
	messageRain   = "Rain Expected 🌧"
	messageNoRain = "No Rain Today ☀️"
)

// PredictionResult is the outcome of one forecast.
type PredictionResult struct {
	Prediction  int      `json:"prediction" yaml:"prediction"`
	Probability float64  `json:"probability" yaml:"probability"`
	RiskLevel   RiskTier `json:"risk_level" yaml:"risk_level"`
	Message     string   `json:"message" yaml:"message"`
}

// BuildResult assembles a result from a label and a probability percentage.
// The tier is taken from the unrounded probability.
func BuildResult(label int, probability float64) PredictionResult {
	msg := messageNoRain
	if label == 1 {
		msg = messageRain
	}
	return PredictionResult{
		Prediction:  label,
		Probability: RoundProbability(probability),
		RiskLevel:   ClassifyRisk(probability),
		Message:     msg,
	}
}

// RoundProbability rounds p to two decimal places. Rounding is done on the
// exact binary value with ties to even, so 66.666 becomes 66.67, 0.125 becomes
// 0.12, and 2.675 (stored as 2.67499...) becomes 2.67.
func RoundProbability(p float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(p, 'f', 2, 64), 64)
	if err != nil {
		return p
	}
	return r
}
