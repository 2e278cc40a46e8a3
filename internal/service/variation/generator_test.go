package variation

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resonance/internal/domain/audience"
	"resonance/internal/domain/content"
	"resonance/internal/domain/optimization"
	"resonance/internal/logger"
)

const post = `Our team cut deploy time in half this quarter
We stopped batching releases. We automated every manual check. Reviews now happen within 4 hours. Incidents dropped by 30 percent.`

func generate(t *testing.T, sub content.Submission, segment *audience.Segment, types ...optimization.VariationType) []optimization.Variation {
	t.Helper()
	g := NewGenerator(logger.NewNop())
	out, err := g.Generate(context.Background(), sub, segment, types)
	require.NoError(t, err)
	return out
}

func TestGenerateHashesAreUnique(t *testing.T) {
	sub := content.Submission{Text: post, Platform: content.PlatformLinkedIn}
	seg := &audience.Segment{Demographic: audience.DemographicProfile{Title: "Engineering Manager"}}

	variations := generate(t, sub, seg)
	require.NotEmpty(t, variations)

	seen := map[string]bool{content.Hash(strings.TrimSpace(post)): true}
	for _, v := range variations {
		assert.False(t, seen[v.ContentHash], "duplicate output from %s", v.Strategy)
		seen[v.ContentHash] = true
		assert.NotEqual(t, strings.TrimSpace(post), strings.TrimSpace(v.Modified), v.Strategy)
		assert.Equal(t, content.Hash(strings.TrimSpace(v.Modified)), v.ContentHash)
		assert.Equal(t, post, v.Original)
		assert.NotEmpty(t, v.Changes, v.Strategy)
		assert.NotEmpty(t, v.ID)
	}
}

func TestProfessionalToneSubstitution(t *testing.T) {
	sub := content.Submission{Text: "Hey guys, we're gonna ship awesome stuff. Gonna be cool.", Platform: content.PlatformTwitter}

	variations := generate(t, sub, nil, optimization.VariationTone)

	require.Len(t, variations, 1)
	v := variations[0]
	assert.Equal(t, "professional_tone", v.Strategy)
	assert.Equal(t, "Hey everyone, we're going to ship excellent material. Going to be impressive.", v.Modified)
	assert.Contains(t, v.Changes, `replaced "gonna" with "going to"`)
}

func TestEnthusiasticToneKeepsComparisons(t *testing.T) {
	sub := content.Submission{Text: "This looks like a good release. We like it.", Platform: content.PlatformTwitter}

	variations := generate(t, sub, nil, optimization.VariationTone)

	require.Len(t, variations, 1)
	v := variations[0]
	assert.Equal(t, "enthusiastic_tone", v.Strategy)
	assert.Equal(t, "This looks like a great release! We like it.", v.Modified)
}

func TestCallToActionSkippedWhenPresent(t *testing.T) {
	withCTA := content.Submission{Text: "New guide is out. Share it with your team.", Platform: content.PlatformLinkedIn}
	assert.Empty(t, generate(t, withCTA, nil, optimization.VariationCallToAction))

	without := content.Submission{Text: "New guide is out.", Platform: content.PlatformLinkedIn}
	variations := generate(t, without, nil, optimization.VariationCallToAction)
	require.Len(t, variations, 1)
	assert.True(t, strings.HasSuffix(variations[0].Modified, content.PlatformLinkedIn.Rules().CTA))
}

func TestPlatformAdaptationTrimsToLimit(t *testing.T) {
	text := strings.Repeat("Shipping smaller changes keeps every release boring. ", 8)
	sub := content.Submission{Text: text, Platform: content.PlatformTwitter}

	variations := generate(t, sub, nil, optimization.VariationPlatformAdaptation)

	require.Len(t, variations, 1)
	assert.LessOrEqual(t, utf8.RuneCountInString(variations[0].Modified), content.PlatformTwitter.Rules().MaxChars)
}

func TestPlatformAdaptationAddsHashtags(t *testing.T) {
	sub := content.Submission{Text: "Platform engineering teams should measure platform adoption.", Platform: content.PlatformLinkedIn}

	variations := generate(t, sub, nil, optimization.VariationPlatformAdaptation)

	require.Len(t, variations, 1)
	assert.Contains(t, variations[0].Modified, "#platform")
	assert.Len(t, hashtagPattern.FindAllString(variations[0].Modified, -1), 3)
}

func TestAudienceTargetingNeedsProfile(t *testing.T) {
	sub := content.Submission{Text: post, Platform: content.PlatformLinkedIn}
	assert.Empty(t, generate(t, sub, nil, optimization.VariationAudienceTargeting))

	seg := &audience.Segment{Demographic: audience.DemographicProfile{Industry: "fintech"}}
	variations := generate(t, sub, seg, optimization.VariationAudienceTargeting)
	require.Len(t, variations, 1)
	assert.True(t, strings.HasPrefix(variations[0].Modified, "For fintech professionals: "))
}

func TestGenerateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGenerator(logger.NewNop()).Generate(ctx, content.Submission{Text: post, Platform: content.PlatformLinkedIn}, nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSelectABTest(t *testing.T) {
	variations := []optimization.Variation{
		{ID: "1", Type: optimization.VariationTone, Strategy: "casual_tone", ExpectedImprovement: 0.10, Original: "orig"},
		{ID: "2", Type: optimization.VariationHook, Strategy: "question_hook", ExpectedImprovement: 0.18, Original: "orig"},
		{ID: "3", Type: optimization.VariationLength, Strategy: "shorten", ExpectedImprovement: 0.30, Original: "orig"},
		{ID: "4", Type: optimization.VariationCallToAction, Strategy: "platform_cta", ExpectedImprovement: 0.20, Original: "orig"},
		{ID: "5", Type: optimization.VariationHeadline, Strategy: "number_headline", ExpectedImprovement: 0.12, Original: "orig"},
	}

	plan, err := SelectABTest(variations, optimization.MetricEngagement, 0)
	require.NoError(t, err)
	assert.Equal(t, "orig", plan.Control)
	assert.Equal(t, optimization.MetricEngagement, plan.Metric)

	var ids []string
	for _, v := range plan.Variants {
		ids = append(ids, v.ID)
	}
	assert.Equal(t, []string{"4", "2", "5"}, ids, "length variations do not move engagement")

	reach, err := SelectABTest(variations, optimization.MetricReach, 1)
	require.NoError(t, err)
	require.Len(t, reach.Variants, 1)
	assert.Equal(t, "3", reach.Variants[0].ID)

	_, err = SelectABTest(variations, "retention", 3)
	assert.ErrorIs(t, err, ErrUnknownMetric)

	empty, err := SelectABTest(nil, "", 3)
	require.NoError(t, err)
	assert.Empty(t, empty.Variants)
}

func TestSplitSentences(t *testing.T) {
	assert.Equal(t, []string{"One.", "Two!", "Three?", "Version 1.2 ships"},
		splitSentences("One. Two! Three? Version 1.2 ships"))
}
