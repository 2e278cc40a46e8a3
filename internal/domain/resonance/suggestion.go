// internal/domain/resonance/suggestion.go

package resonance

// Category groups suggestions by the kind of change they ask for
type Category string

const (
	CategoryStructure  Category = "structure"
	CategoryLanguage   Category = "language"
	CategoryEngagement Category = "engagement"
	CategoryCompliance Category = "compliance"
	CategoryTargeting  Category = "targeting"
	CategoryTiming     Category = "timing"
	CategoryPlatform   Category = "platform"
)

// Priority ranks how urgently a suggestion should be applied
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

var priorityWeights = map[Priority]int{
	PriorityCritical: 4,
	PriorityHigh:     3,
	PriorityMedium:   2,
	PriorityLow:      1,
}

// Weight returns the ranking weight of the priority (0 for unknown values)
func (p Priority) Weight() int {
	return priorityWeights[p]
}

// OptimizationType selects which family of suggestions to generate
type OptimizationType string

const (
	OptimizeEngagement  OptimizationType = "engagement"
	OptimizeReadability OptimizationType = "readability"
	OptimizePlatform    OptimizationType = "platform"
	OptimizeTargeting   OptimizationType = "targeting"
	OptimizeTiming      OptimizationType = "timing"
	OptimizeCompliance  OptimizationType = "compliance"
)

// OptimizationTypes lists every optimization type
var OptimizationTypes = []OptimizationType{
	OptimizeEngagement,
	OptimizeReadability,
	OptimizePlatform,
	OptimizeTargeting,
	OptimizeTiming,
	OptimizeCompliance,
}

// Suggestion is a single ranked improvement recommendation
type Suggestion struct {
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Category        Category         `json:"category"`
	Priority        Priority         `json:"priority"`
	ImpactScore     float64          `json:"impact_score"`
	EffortEstimate  int              `json:"effort_estimate"`
	Confidence      float64          `json:"confidence"`
	Actions         []string         `json:"actions"`
	Source          Component        `json:"source,omitempty"`
	OptimizationFor OptimizationType `json:"optimization_type"`
}

// IsEasy reports whether the suggestion is low effort
func (s Suggestion) IsEasy() bool {
	return s.EffortEstimate <= 2
}
