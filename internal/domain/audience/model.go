// internal/domain/audience/model.go

package audience

// DemographicProfile describes who the audience is
type DemographicProfile struct {
	AgeGroup        string `json:"age_group,omitempty"`
	Industry        string `json:"industry,omitempty"`
	ExperienceLevel string `json:"experience_level,omitempty"`
	Location        string `json:"location,omitempty"`
	Title           string `json:"title,omitempty"`
}

// BehavioralProfile describes how the audience consumes and interacts with content
type BehavioralProfile struct {
	// EngagementPropensities maps an engagement type (like, comment, share, click) to a [0,1] propensity
	EngagementPropensities map[string]float64 `json:"engagement_propensities,omitempty"`
	ContentPreferences     []string           `json:"content_preferences,omitempty"`
	// PlatformUsage maps a platform name to a [0,1] usage share
	PlatformUsage       map[string]float64 `json:"platform_usage,omitempty"`
	InteractionStyle    string             `json:"interaction_style,omitempty"`
	LengthPreference    string             `json:"length_preference,omitempty"`
	OptimalPostingHours []int              `json:"optimal_posting_hours,omitempty"`
}

// PsychographicProfile describes what the audience values and how it communicates
type PsychographicProfile struct {
	// Traits maps a personality trait (openness, conscientiousness, ...) to a [0,1] weight
	Traits             map[string]float64 `json:"traits,omitempty"`
	Values             []string           `json:"values,omitempty"`
	Interests          []string           `json:"interests,omitempty"`
	Motivations        []string           `json:"motivations,omitempty"`
	CommunicationStyle string             `json:"communication_style,omitempty"`
}

// Segment is an audience segment maintained by the audience-intelligence store.
// It is read-only to the scoring core.
type Segment struct {
	ID                 string               `json:"id"`
	Name               string               `json:"name"`
	Demographic        DemographicProfile   `json:"demographic"`
	Behavioral         BehavioralProfile    `json:"behavioral"`
	Psychographic      PsychographicProfile `json:"psychographic"`
	PeakActivityHours  []int                `json:"peak_activity_hours,omitempty"`
	PreferredPlatforms []string             `json:"preferred_platforms,omitempty"`
}
