// internal/domain/optimization/workflow.go

package optimization

import (
	"time"

	"resonance/internal/domain/audience"
	"resonance/internal/domain/content"
	"resonance/internal/domain/resonance"
)

// Status is the current stage of an optimization workflow
type Status string

const (
	StatusInitialized           Status = "initialized"
	StatusAnalyzing             Status = "analyzing"
	StatusGeneratingSuggestions Status = "generating_suggestions"
	StatusCreatingVariations    Status = "creating_variations"
	StatusPredictingPerformance Status = "predicting_performance"
	StatusCompleted             Status = "completed"
	StatusFailed                Status = "failed"
)

// statusOrder gives the position of each non-failed status in the pipeline
var statusOrder = map[Status]int{
	StatusInitialized:           0,
	StatusAnalyzing:             1,
	StatusGeneratingSuggestions: 2,
	StatusCreatingVariations:    3,
	StatusPredictingPerformance: 4,
	StatusCompleted:             5,
}

// Terminal reports whether no further transitions are allowed
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransition reports whether moving from s to next is allowed.
// Statuses only move forward; failed is reachable from any non-terminal status.
func (s Status) CanTransition(next Status) bool {
	if s.Terminal() {
		return false
	}
	if next == StatusFailed {
		return true
	}
	from, ok := statusOrder[s]
	if !ok {
		return false
	}
	to, ok := statusOrder[next]
	if !ok {
		return false
	}
	return to > from
}

// StepTiming records when a stage ran and how long it took
type StepTiming struct {
	Step       Status        `json:"step"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Elapsed    time.Duration `json:"elapsed"`
	Skipped    bool          `json:"skipped,omitempty"`
}

// Workflow tracks one end-to-end optimization run
type Workflow struct {
	ID              string       `json:"id"`
	Status          Status       `json:"status"`
	CurrentStep     string       `json:"current_step"`
	Progress        int          `json:"progress"`
	StepTimings     []StepTiming `json:"step_timings"`
	Errors          []string     `json:"errors"`
	Warnings        []string     `json:"warnings"`
	SuggestionCount int          `json:"suggestion_count"`
	VariationCount  int          `json:"variation_count"`
	PredictionCount int          `json:"prediction_count"`
	StartedAt       time.Time    `json:"started_at"`
	CompletedAt     *time.Time   `json:"completed_at,omitempty"`
}

// Clone returns a deep copy safe to hand to readers
func (w Workflow) Clone() Workflow {
	c := w
	c.StepTimings = append([]StepTiming(nil), w.StepTimings...)
	c.Errors = append([]string(nil), w.Errors...)
	c.Warnings = append([]string(nil), w.Warnings...)
	if w.CompletedAt != nil {
		t := *w.CompletedAt
		c.CompletedAt = &t
	}
	return c
}

// Options selects which optional stages and outputs a workflow produces
type Options struct {
	OptimizationTypes  []resonance.OptimizationType `json:"optimization_types,omitempty"`
	GenerateVariations bool                         `json:"generate_variations"`
	VariationTypes     []VariationType              `json:"variation_types,omitempty"`
	PredictPerformance bool                         `json:"predict_performance"`
	PredictPlatforms   []content.Platform           `json:"predict_platforms,omitempty"`
	ABTestMetric       Metric                       `json:"ab_test_metric,omitempty"`
}

// Request starts a workflow. Segment takes precedence over SegmentID.
type Request struct {
	Submission content.Submission `json:"submission"`
	SegmentID  string             `json:"segment_id,omitempty"`
	Segment    *audience.Segment  `json:"segment,omitempty"`
	Options    Options            `json:"options"`
}

// FormattedRecommendations is the pre-grouped view of a suggestion list
type FormattedRecommendations struct {
	ByPriority map[resonance.Priority][]resonance.Suggestion `json:"by_priority"`
	ByCategory map[resonance.Category][]resonance.Suggestion `json:"by_category"`
	QuickWins  []resonance.Suggestion                        `json:"quick_wins"`
	HighImpact []resonance.Suggestion                        `json:"high_impact"`
	Total      int                                           `json:"total"`
}

// Result holds everything a workflow produced
type Result struct {
	Workflow        Workflow                 `json:"workflow"`
	Analysis        *resonance.Analysis      `json:"analysis,omitempty"`
	Suggestions     []resonance.Suggestion   `json:"suggestions"`
	Recommendations FormattedRecommendations `json:"recommendations"`
	Variations      []Variation              `json:"variations"`
	ABTest          *ABTestPlan              `json:"ab_test,omitempty"`
	Predictions     []Prediction             `json:"predictions"`
}

// Summary is the terminal summary of a workflow
type Summary struct {
	WorkflowID      string          `json:"workflow_id"`
	Status          Status          `json:"status"`
	OverallScore    float64         `json:"overall_score"`
	Level           resonance.Level `json:"resonance_level,omitempty"`
	SuggestionCount int             `json:"suggestion_count"`
	VariationCount  int             `json:"variation_count"`
	PredictionCount int             `json:"prediction_count"`
	TopSuggestions  []string        `json:"top_suggestions"`
	BestVariation   string          `json:"best_variation,omitempty"`
	Errors          []string        `json:"errors"`
	Warnings        []string        `json:"warnings"`
	Duration        time.Duration   `json:"duration"`
	CompletedAt     time.Time       `json:"completed_at"`
}
