// internal/domain/optimization/prediction.go

package optimization

import "resonance/internal/domain/content"

// RiskLevel summarizes how many risk factors a prediction carries
type RiskLevel string

const (
	RiskLow     RiskLevel = "low"
	RiskMedium  RiskLevel = "medium"
	RiskHigh    RiskLevel = "high"
	RiskExtreme RiskLevel = "extreme"
)

// RiskFactor is a structural problem likely to hurt performance
type RiskFactor string

const (
	RiskTooShort          RiskFactor = "content is too short for the platform"
	RiskTooLong           RiskFactor = "content is longer than the platform's preferred range"
	RiskExceedsLimit      RiskFactor = "content exceeds the platform length limit"
	RiskMissingCTA        RiskFactor = "no call to action"
	RiskMissingHashtags   RiskFactor = "no hashtags on a platform that rewards them"
	RiskOffHours          RiskFactor = "scheduled outside the audience's active hours"
	RiskControversyMarker RiskFactor = "contains controversy markers"
)

// Interval is a (lower, upper) confidence interval
type Interval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Prediction forecasts how a submission will perform on one platform
type Prediction struct {
	Platform    content.Platform    `json:"platform"`
	Metrics     map[Metric]float64  `json:"metrics"`
	Intervals   map[Metric]Interval `json:"confidence_intervals"`
	RiskFactors []RiskFactor        `json:"risk_factors"`
	RiskLevel   RiskLevel           `json:"risk_level"`
	Mitigations []string            `json:"mitigations"`
	Confidence  float64             `json:"confidence"`
}
