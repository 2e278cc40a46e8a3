// internal/service/prediction/predictor.go

package prediction

import (
	"context"
	"errors"
	"fmt"
	"math"

	"resonance/internal/domain/audience"
	"resonance/internal/domain/content"
	"resonance/internal/domain/optimization"
	"resonance/internal/domain/resonance"
	"resonance/internal/logger"
	"resonance/internal/service/scoring"
)

// Common errors
var (
	ErrMissingAnalysis = errors.New("analysis is required for prediction")
	ErrUnknownPlatform = errors.New("unknown platform")
)

// Config holds prediction tunables
type Config struct {
	BaseRates          map[content.Platform]map[optimization.Metric]float64
	Uncertainty        map[optimization.Metric]float64
	ControversyMarkers []string
	OffHoursThreshold  float64
	CTALift            float64
	NoCTAPenalty       float64
}

// DefaultConfig returns the standard prediction configuration
func DefaultConfig() Config {
	return Config{
		BaseRates: map[content.Platform]map[optimization.Metric]float64{
			content.PlatformLinkedIn:  {optimization.MetricEngagement: 0.06, optimization.MetricReach: 0.30, optimization.MetricConversion: 0.020, optimization.MetricViral: 0.05},
			content.PlatformTwitter:   {optimization.MetricEngagement: 0.04, optimization.MetricReach: 0.35, optimization.MetricConversion: 0.010, optimization.MetricViral: 0.08},
			content.PlatformFacebook:  {optimization.MetricEngagement: 0.05, optimization.MetricReach: 0.25, optimization.MetricConversion: 0.015, optimization.MetricViral: 0.06},
			content.PlatformInstagram: {optimization.MetricEngagement: 0.08, optimization.MetricReach: 0.30, optimization.MetricConversion: 0.012, optimization.MetricViral: 0.07},
			content.PlatformGeneral:   {optimization.MetricEngagement: 0.05, optimization.MetricReach: 0.25, optimization.MetricConversion: 0.015, optimization.MetricViral: 0.05},
		},
		Uncertainty: map[optimization.Metric]float64{
			optimization.MetricEngagement: 0.25,
			optimization.MetricReach:      0.30,
			optimization.MetricConversion: 0.45,
			optimization.MetricViral:      0.50,
		},
		ControversyMarkers: []string{
			"controversial", "unpopular opinion", "hot take", "outrage", "scandal",
			"fight me", "nobody wants to hear", "politics", "boycott", "cancel",
		},
		OffHoursThreshold: 0.5,
		CTALift:           1.2,
		NoCTAPenalty:      0.8,
	}
}

// mitigations is keyed by risk factor
var mitigations = map[optimization.RiskFactor]string{
	optimization.RiskTooShort:          "Add context or a concrete example to reach the platform's preferred length",
	optimization.RiskTooLong:           "Trim to the platform's preferred length or split into a thread",
	optimization.RiskExceedsLimit:      "Cut the content below the platform's hard limit before publishing",
	optimization.RiskMissingCTA:        "End with a clear call to action",
	optimization.RiskMissingHashtags:   "Add a few relevant hashtags",
	optimization.RiskOffHours:          "Reschedule to the audience's peak activity hours",
	optimization.RiskControversyMarker: "Review contentious phrasing and prepare moderation for replies",
}

// Predictor forecasts performance metrics with confidence intervals
type Predictor struct {
	config Config
	logger *logger.Logger
}

// NewPredictor creates a new predictor
func NewPredictor(config Config, log *logger.Logger) *Predictor {
	return &Predictor{
		config: config,
		logger: log.With("service", "prediction"),
	}
}

// Predict forecasts metrics for the submission on the given platform (the submission's own when empty)
func (p *Predictor) Predict(ctx context.Context, sub content.Submission, segment *audience.Segment, analysis *resonance.Analysis, platform content.Platform) (*optimization.Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if analysis == nil {
		return nil, ErrMissingAnalysis
	}
	if platform == "" {
		platform = sub.Platform
	}
	rates, ok := p.config.BaseRates[platform]
	if !ok || !platform.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlatform, platform)
	}

	f := scoring.ExtractFeatures(sub)
	rules := platform.Rules()

	behavioral := componentScore(analysis, resonance.ComponentBehavioral)
	fit := lengthFit(f.CharCount, rules)

	cta := p.config.NoCTAPenalty
	if f.HasCTA {
		cta = p.config.CTALift
	}

	// A signal of 0.5 reproduces the platform base rate
	signals := map[optimization.Metric]float64{
		optimization.MetricEngagement: analysis.EngagementPrediction,
		optimization.MetricReach:      0.5*analysis.OverallScore + 0.5*fit,
		optimization.MetricConversion: (0.6*behavioral + 0.4*analysis.OverallScore) * cta,
		optimization.MetricViral:      analysis.ViralPotential,
	}

	prediction := &optimization.Prediction{
		Platform:    platform,
		Metrics:     make(map[optimization.Metric]float64, len(optimization.Metrics)),
		Intervals:   make(map[optimization.Metric]optimization.Interval, len(optimization.Metrics)),
		RiskFactors: p.riskFactors(f, rules, analysis),
		Mitigations: []string{},
	}

	for _, m := range optimization.Metrics {
		point := clamp(rates[m] * 2 * signals[m])
		u := p.config.Uncertainty[m]
		prediction.Metrics[m] = round(point)
		prediction.Intervals[m] = optimization.Interval{
			Lower: round(math.Max(0, point-point*u)),
			Upper: round(math.Min(1, point+point*u)),
		}
	}

	prediction.RiskLevel = RiskLevelFor(len(prediction.RiskFactors))
	for _, r := range prediction.RiskFactors {
		if m, ok := mitigations[r]; ok {
			prediction.Mitigations = append(prediction.Mitigations, m)
		}
	}

	prediction.Confidence = round(math.Max(0.1, math.Min(0.9,
		0.3+0.5*analysis.ConfidenceScore-0.05*float64(len(prediction.RiskFactors)))))

	p.logger.Debug("Predicted performance",
		"platform", platform,
		"engagement", prediction.Metrics[optimization.MetricEngagement],
		"risk_level", prediction.RiskLevel)

	return prediction, nil
}

// RiskLevelFor maps a risk factor count to a risk level
func RiskLevelFor(count int) optimization.RiskLevel {
	switch {
	case count == 0:
		return optimization.RiskLow
	case count <= 2:
		return optimization.RiskMedium
	case count <= 4:
		return optimization.RiskHigh
	default:
		return optimization.RiskExtreme
	}
}

func (p *Predictor) riskFactors(f *scoring.Features, rules content.PlatformRules, analysis *resonance.Analysis) []optimization.RiskFactor {
	risks := []optimization.RiskFactor{}

	switch {
	case f.CharCount < rules.MinChars:
		risks = append(risks, optimization.RiskTooShort)
	case f.CharCount > rules.HardLimit:
		risks = append(risks, optimization.RiskExceedsLimit)
	case f.CharCount > rules.MaxChars:
		risks = append(risks, optimization.RiskTooLong)
	}

	if !f.HasCTA {
		risks = append(risks, optimization.RiskMissingCTA)
	}

	if rules.RewardsHashtags && len(f.Hashtags) == 0 {
		risks = append(risks, optimization.RiskMissingHashtags)
	}

	if cs, ok := analysis.Score(resonance.ComponentTemporal); ok && !cs.Degraded && cs.Confidence > 0 {
		if hour, ok := cs.Factor("posting_hour"); ok && hour.Value < p.config.OffHoursThreshold {
			risks = append(risks, optimization.RiskOffHours)
		}
	}

	if f.CountTerms(p.config.ControversyMarkers) > 0 {
		risks = append(risks, optimization.RiskControversyMarker)
	}

	return risks
}

// lengthFit scores a character count against a platform's preferred range
func lengthFit(chars int, rules content.PlatformRules) float64 {
	switch {
	case chars > rules.HardLimit:
		return 0
	case chars >= rules.MinChars && chars <= rules.MaxChars:
		return 1
	case chars < rules.MinChars:
		return clamp(float64(chars) / float64(rules.MinChars))
	default:
		over := float64(chars-rules.MaxChars) / float64(rules.HardLimit-rules.MaxChars)
		return clamp(1 - 0.7*over)
	}
}

func componentScore(a *resonance.Analysis, c resonance.Component) float64 {
	if cs, ok := a.Score(c); ok {
		return cs.Score
	}
	return 0.5
}

func clamp(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}

func round(v float64) float64 {
	return math.Round(v*10000) / 10000
}
