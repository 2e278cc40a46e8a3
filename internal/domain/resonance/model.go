// internal/domain/resonance/model.go

package resonance

import (
	"time"

	"resonance/internal/domain/content"
)

// Component identifies one of the six scoring dimensions
type Component string

const (
	ComponentDemographic   Component = "demographic"
	ComponentBehavioral    Component = "behavioral"
	ComponentPsychographic Component = "psychographic"
	ComponentComplexity    Component = "content_complexity"
	ComponentPlatform      Component = "platform_optimization"
	ComponentTemporal      Component = "temporal_relevance"
)

// Components lists every component in canonical order
var Components = []Component{
	ComponentDemographic,
	ComponentBehavioral,
	ComponentPsychographic,
	ComponentComplexity,
	ComponentPlatform,
	ComponentTemporal,
}

// Factor is one named sub-factor contributing to a component score
type Factor struct {
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Detail string  `json:"detail,omitempty"`
}

// ComponentScore is the output of a single analyzer
type ComponentScore struct {
	Component  Component `json:"component"`
	Score      float64   `json:"score"`
	Confidence float64   `json:"confidence"`
	Weight     float64   `json:"weight"`
	Factors    []Factor  `json:"factors"`
	Notes      []string  `json:"notes,omitempty"`
	Degraded   bool      `json:"degraded,omitempty"`
}

// Factor returns the named factor, if present
func (c ComponentScore) Factor(name string) (Factor, bool) {
	for _, f := range c.Factors {
		if f.Name == name {
			return f, true
		}
	}
	return Factor{}, false
}

// Level is the discrete resonance bucket of an overall score
type Level string

const (
	LevelPoor      Level = "poor"
	LevelWeak      Level = "weak"
	LevelModerate  Level = "moderate"
	LevelStrong    Level = "strong"
	LevelExcellent Level = "excellent"
)

// Compliance holds brand-profile diagnostics for a submission
type Compliance struct {
	BrandChecked       bool     `json:"brand_checked"`
	BannedTermsFound   []string `json:"banned_terms_found,omitempty"`
	MissingDisclaimer  bool     `json:"missing_disclaimer,omitempty"`
	MissingKeywords    []string `json:"missing_keywords,omitempty"`
	BrandKeywordsTotal int      `json:"brand_keywords_total,omitempty"`
}

// Analysis is the aggregated resonance judgment for one (content, audience) pair
type Analysis struct {
	ID                   string                       `json:"id"`
	ContentHash          string                       `json:"content_hash"`
	SegmentID            string                       `json:"segment_id,omitempty"`
	Platform             content.Platform             `json:"platform"`
	Components           map[Component]ComponentScore `json:"components"`
	OverallScore         float64                      `json:"overall_score"`
	Level                Level                        `json:"resonance_level"`
	ConfidenceScore      float64                      `json:"confidence_score"`
	EngagementPrediction float64                      `json:"engagement_prediction"`
	ViralPotential       float64                      `json:"viral_potential_prediction"`
	Strengths            []string                     `json:"strengths"`
	Gaps                 []string                     `json:"gaps"`
	QuickWins            []string                     `json:"quick_wins"`
	Suggestions          []Suggestion                 `json:"suggestions"`
	Compliance           Compliance                   `json:"compliance"`
	AnalyzedAt           time.Time                    `json:"analyzed_at"`
}

// Score returns the component score for c, if it was produced
func (a *Analysis) Score(c Component) (ComponentScore, bool) {
	cs, ok := a.Components[c]
	return cs, ok
}
