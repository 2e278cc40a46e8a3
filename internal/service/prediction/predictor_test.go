package prediction

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resonance/internal/domain/content"
	"resonance/internal/domain/optimization"
	"resonance/internal/domain/resonance"
	"resonance/internal/logger"
)

func neutralAnalysis() *resonance.Analysis {
	return &resonance.Analysis{
		OverallScore:         0.5,
		ConfidenceScore:      0.6,
		EngagementPrediction: 0.5,
		ViralPotential:       0.5,
		Components: map[resonance.Component]resonance.ComponentScore{
			resonance.ComponentBehavioral: {Component: resonance.ComponentBehavioral, Score: 0.5, Confidence: 1},
		},
	}
}

func TestRiskLevelFor(t *testing.T) {
	cases := map[int]optimization.RiskLevel{
		0: optimization.RiskLow,
		1: optimization.RiskMedium,
		2: optimization.RiskMedium,
		3: optimization.RiskHigh,
		4: optimization.RiskHigh,
		5: optimization.RiskExtreme,
		7: optimization.RiskExtreme,
	}
	for n, want := range cases {
		assert.Equal(t, want, RiskLevelFor(n), "count %d", n)
	}
}

func TestPredictIntervals(t *testing.T) {
	p := NewPredictor(DefaultConfig(), logger.NewNop())
	sub := content.Submission{
		Text:     strings.Repeat("Teams that ship small changes recover faster. ", 5) + "What do you think? #devops #sre #platform",
		Platform: content.PlatformLinkedIn,
	}

	pred, err := p.Predict(context.Background(), sub, nil, neutralAnalysis(), "")
	require.NoError(t, err)

	assert.Equal(t, content.PlatformLinkedIn, pred.Platform)
	assert.InDelta(t, 0.06, pred.Metrics[optimization.MetricEngagement], 1e-9, "a neutral signal reproduces the base rate")

	for _, m := range optimization.Metrics {
		point := pred.Metrics[m]
		iv := pred.Intervals[m]
		u := DefaultConfig().Uncertainty[m]
		assert.LessOrEqual(t, iv.Lower, point, m)
		assert.GreaterOrEqual(t, iv.Upper, point, m)
		assert.InDelta(t, point*(1-u), iv.Lower, 1e-3, m)
		assert.InDelta(t, point*(1+u), iv.Upper, 1e-3, m)
	}

	assert.Empty(t, pred.RiskFactors)
	assert.Equal(t, optimization.RiskLow, pred.RiskLevel)
	assert.Empty(t, pred.Mitigations)
}

func TestPredictRiskFactors(t *testing.T) {
	p := NewPredictor(DefaultConfig(), logger.NewNop())
	analysis := neutralAnalysis()
	analysis.Components[resonance.ComponentTemporal] = resonance.ComponentScore{
		Component:  resonance.ComponentTemporal,
		Confidence: 1,
		Factors:    []resonance.Factor{{Name: "posting_hour", Value: 0.1}},
	}
	sub := content.Submission{
		Text:     "Hot take: " + strings.Repeat("long form thoughts about tooling ", 12),
		Platform: content.PlatformTwitter,
	}

	pred, err := p.Predict(context.Background(), sub, nil, analysis, content.PlatformTwitter)
	require.NoError(t, err)

	assert.Equal(t, []optimization.RiskFactor{
		optimization.RiskExceedsLimit,
		optimization.RiskMissingCTA,
		optimization.RiskMissingHashtags,
		optimization.RiskOffHours,
		optimization.RiskControversyMarker,
	}, pred.RiskFactors)
	assert.Equal(t, optimization.RiskExtreme, pred.RiskLevel)
	assert.Len(t, pred.Mitigations, 5)
	assert.InDelta(t, 0.35*2*0.25, pred.Metrics[optimization.MetricReach], 1e-9, "over the hard limit the length fit is zero")
}

func TestPredictOtherPlatform(t *testing.T) {
	p := NewPredictor(DefaultConfig(), logger.NewNop())
	sub := content.Submission{Text: "Quick update for the team.", Platform: content.PlatformTwitter}

	pred, err := p.Predict(context.Background(), sub, nil, neutralAnalysis(), content.PlatformLinkedIn)
	require.NoError(t, err)
	assert.Equal(t, content.PlatformLinkedIn, pred.Platform)
	assert.Contains(t, pred.RiskFactors, optimization.RiskTooShort)
}

func TestPredictErrors(t *testing.T) {
	p := NewPredictor(DefaultConfig(), logger.NewNop())
	sub := content.Submission{Text: "hello", Platform: content.PlatformTwitter}

	_, err := p.Predict(context.Background(), sub, nil, nil, "")
	assert.ErrorIs(t, err, ErrMissingAnalysis)

	_, err = p.Predict(context.Background(), sub, nil, neutralAnalysis(), "myspace")
	assert.ErrorIs(t, err, ErrUnknownPlatform)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Predict(ctx, sub, nil, neutralAnalysis(), "")
	assert.ErrorIs(t, err, context.Canceled)
}
