// internal/domain/optimization/variation.go

package optimization

import "resonance/internal/domain/content"

// VariationType identifies the kind of alternative rendering
type VariationType string

const (
	VariationHeadline           VariationType = "headline"
	VariationHook               VariationType = "hook"
	VariationTone               VariationType = "tone"
	VariationLength             VariationType = "length"
	VariationStructure          VariationType = "structure"
	VariationCallToAction       VariationType = "call_to_action"
	VariationPlatformAdaptation VariationType = "platform_adaptation"
	VariationAudienceTargeting  VariationType = "audience_targeting"
)

// VariationTypes lists every variation type
var VariationTypes = []VariationType{
	VariationHeadline,
	VariationHook,
	VariationTone,
	VariationLength,
	VariationStructure,
	VariationCallToAction,
	VariationPlatformAdaptation,
	VariationAudienceTargeting,
}

// Variation is an alternative rendering of a submission
type Variation struct {
	ID                  string           `json:"id"`
	Type                VariationType    `json:"variation_type"`
	Strategy            string           `json:"strategy"`
	Original            string           `json:"original_content"`
	Modified            string           `json:"modified_content"`
	Changes             []string         `json:"changes_made"`
	ExpectedImprovement float64          `json:"expected_improvement"`
	Confidence          float64          `json:"confidence"`
	Platform            content.Platform `json:"target_platform"`
	ContentHash         string           `json:"content_hash"`
}

// Metric is a predicted performance metric
type Metric string

const (
	MetricEngagement Metric = "engagement"
	MetricReach      Metric = "reach"
	MetricConversion Metric = "conversion"
	MetricViral      Metric = "viral"
)

// Metrics lists every predicted metric
var Metrics = []Metric{MetricEngagement, MetricReach, MetricConversion, MetricViral}

// ABTestPlan is a subset of variations chosen to test one metric
type ABTestPlan struct {
	Metric   Metric      `json:"metric"`
	Control  string      `json:"control"`
	Variants []Variation `json:"variants"`
}
