package suggestion

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resonance/internal/domain/resonance"
	"resonance/internal/logger"
)

func analysisWith(factors map[resonance.Component][]resonance.Factor) *resonance.Analysis {
	a := &resonance.Analysis{
		ID:         "a-1",
		Components: make(map[resonance.Component]resonance.ComponentScore),
	}
	for c, fs := range factors {
		a.Components[c] = resonance.ComponentScore{Component: c, Score: 0.5, Confidence: 0.8, Factors: fs}
	}
	return a
}

func TestGenerateFromFactors(t *testing.T) {
	g := NewGenerator(DefaultConfig(), logger.NewNop())
	a := analysisWith(map[resonance.Component][]resonance.Factor{
		resonance.ComponentComplexity: {
			{Name: "readability", Value: 0.9},
			{Name: "sentence_length", Value: 0.1, Detail: "31.0 words per sentence"},
			{Name: "vocabulary", Value: 0.55},
			{Name: "structure", Value: 0.9},
		},
	})

	got, err := g.Generate(context.Background(), a, []resonance.OptimizationType{resonance.OptimizeReadability})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Reduce sentence length", got[0].Title)
	assert.Equal(t, resonance.PriorityHigh, got[0].Priority)
	assert.Contains(t, got[0].Description, "31.0 words per sentence")
	assert.Equal(t, resonance.ComponentComplexity, got[0].Source)
	assert.Equal(t, resonance.OptimizeReadability, got[0].OptimizationFor)
	assert.Equal(t, "Replace complex words", got[1].Title)
	assert.Equal(t, resonance.PriorityLow, got[1].Priority)
}

func TestGenerateSkipsDegradedComponents(t *testing.T) {
	g := NewGenerator(DefaultConfig(), logger.NewNop())
	a := &resonance.Analysis{Components: map[resonance.Component]resonance.ComponentScore{
		resonance.ComponentTemporal: {
			Component: resonance.ComponentTemporal,
			Degraded:  true,
			Factors:   []resonance.Factor{{Name: "posting_hour", Value: 0}},
		},
	}}

	got, err := g.Generate(context.Background(), a, []resonance.OptimizationType{resonance.OptimizeTiming})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGeneratePlatformOverLengthIsCritical(t *testing.T) {
	g := NewGenerator(DefaultConfig(), logger.NewNop())
	a := analysisWith(map[resonance.Component][]resonance.Factor{
		resonance.ComponentPlatform: {{Name: "length", Value: 0}},
	})

	got, err := g.Generate(context.Background(), a, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, resonance.PriorityCritical, got[0].Priority)
	assert.Equal(t, 1.0, got[0].ImpactScore)
}

func TestGenerateCompliance(t *testing.T) {
	g := NewGenerator(DefaultConfig(), logger.NewNop())
	a := &resonance.Analysis{Compliance: resonance.Compliance{
		BrandChecked:       true,
		BannedTermsFound:   []string{"guaranteed"},
		MissingDisclaimer:  true,
		MissingKeywords:    []string{"acme", "cloud"},
		BrandKeywordsTotal: 3,
	}}

	got, err := g.Generate(context.Background(), a, []resonance.OptimizationType{resonance.OptimizeCompliance})
	require.NoError(t, err)

	titles := make([]string, 0, len(got))
	for _, s := range got {
		titles = append(titles, s.Title)
	}
	assert.Equal(t, []string{"Remove banned terms", "Add the required disclaimer", "Include brand keywords"}, titles)
}

func TestRankOrder(t *testing.T) {
	s := []resonance.Suggestion{
		{Title: "d", Priority: resonance.PriorityLow, ImpactScore: 0.9, EffortEstimate: 1},
		{Title: "c", Priority: resonance.PriorityHigh, ImpactScore: 0.5, EffortEstimate: 3},
		{Title: "b", Priority: resonance.PriorityHigh, ImpactScore: 0.5, EffortEstimate: 1},
		{Title: "a", Priority: resonance.PriorityHigh, ImpactScore: 0.5, EffortEstimate: 1},
		{Title: "e", Priority: resonance.PriorityHigh, ImpactScore: 0.8, EffortEstimate: 5},
		{Title: "f", Priority: resonance.PriorityCritical, ImpactScore: 0.1, EffortEstimate: 5},
	}

	Rank(s)

	var order []string
	for _, x := range s {
		order = append(order, x.Title)
	}
	assert.Equal(t, []string{"f", "e", "a", "b", "c", "d"}, order)
}

func TestGenerateTruncatesToTopN(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxSuggestions = 3
	g := NewGenerator(cfg, logger.NewNop())

	var factors []resonance.Factor
	for _, name := range []string{"readability", "sentence_length", "vocabulary", "structure"} {
		factors = append(factors, resonance.Factor{Name: name, Value: 0})
	}
	a := analysisWith(map[resonance.Component][]resonance.Factor{resonance.ComponentComplexity: factors})

	got, err := g.Generate(context.Background(), a, nil)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestGenerateCancelled(t *testing.T) {
	g := NewGenerator(DefaultConfig(), logger.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Generate(ctx, &resonance.Analysis{}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFormatAndQuickWins(t *testing.T) {
	g := NewGenerator(DefaultConfig(), logger.NewNop())
	s := []resonance.Suggestion{
		{Title: "a", Priority: resonance.PriorityCritical, Category: resonance.CategoryCompliance, ImpactScore: 0.9, EffortEstimate: 1},
		{Title: "b", Priority: resonance.PriorityHigh, Category: resonance.CategoryStructure, ImpactScore: 0.7, EffortEstimate: 3},
		{Title: "c", Priority: resonance.PriorityLow, Category: resonance.CategoryStructure, ImpactScore: 0.61, EffortEstimate: 2},
		{Title: "d", Priority: resonance.PriorityLow, Category: resonance.CategoryTiming, ImpactScore: 0.6, EffortEstimate: 1},
	}

	view := g.Format(s)

	assert.Equal(t, 4, view.Total)
	assert.Len(t, view.ByPriority[resonance.PriorityLow], 2)
	assert.Len(t, view.ByCategory[resonance.CategoryStructure], 2)
	require.Len(t, view.QuickWins, 2)
	assert.Equal(t, "a", view.QuickWins[0].Title)
	assert.Equal(t, "c", view.QuickWins[1].Title)
	require.Len(t, view.HighImpact, 2)
	assert.Equal(t, "b", view.HighImpact[1].Title)
}
