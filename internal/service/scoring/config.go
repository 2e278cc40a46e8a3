// internal/service/scoring/config.go

package scoring

import (
	"time"

	"resonance/internal/domain/resonance"
)

// Weights are the fixed per-component weights of the overall score
type Weights struct {
	Demographic   float64
	Behavioral    float64
	Psychographic float64
	Complexity    float64
	Platform      float64
	Temporal      float64
}

// For returns the weight of a component
func (w Weights) For(c resonance.Component) float64 {
	return w.table()[c]
}

// Sum returns the total of all weights
func (w Weights) Sum() float64 {
	total := 0.0
	for _, v := range w.table() {
		total += v
	}
	return total
}

func (w Weights) table() map[resonance.Component]float64 {
	return map[resonance.Component]float64{
		resonance.ComponentDemographic:   w.Demographic,
		resonance.ComponentBehavioral:    w.Behavioral,
		resonance.ComponentPsychographic: w.Psychographic,
		resonance.ComponentComplexity:    w.Complexity,
		resonance.ComponentPlatform:      w.Platform,
		resonance.ComponentTemporal:      w.Temporal,
	}
}

// LevelBounds are the exclusive upper bounds of each level below excellent
type LevelBounds struct {
	Poor     float64
	Weak     float64
	Moderate float64
	Strong   float64
}

// EngagementWeights combine component scores into the engagement prediction
type EngagementWeights struct {
	Behavioral    float64
	Psychographic float64
	Viral         float64
}

// ViralConfig tunes the viral potential estimate
type ViralConfig struct {
	OverallWeight    float64
	SignalWeight     float64
	TagBonus         float64
	MaxTagBonus      float64
	HighViralityTags []string
}

// Config holds every scoring tunable. Treat it as a value: the engine copies it on construction.
type Config struct {
	Weights           Weights
	Levels            LevelBounds
	Engagement        EngagementWeights
	Viral             ViralConfig
	StrengthThreshold float64
	GapThreshold      float64
	QuickWinImpact    float64
	DefaultScore      float64
	AnalyzerTimeout   time.Duration
	CacheSize         int
}

// DefaultConfig returns the standard scoring configuration
func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			Demographic:   0.20,
			Behavioral:    0.25,
			Psychographic: 0.25,
			Complexity:    0.15,
			Platform:      0.10,
			Temporal:      0.05,
		},
		Levels: LevelBounds{
			Poor:     0.2,
			Weak:     0.4,
			Moderate: 0.6,
			Strong:   0.8,
		},
		Engagement: EngagementWeights{
			Behavioral:    0.6,
			Psychographic: 0.3,
			Viral:         0.1,
		},
		Viral: ViralConfig{
			OverallWeight: 0.5,
			SignalWeight:  0.4,
			TagBonus:      0.05,
			MaxTagBonus:   0.15,
			HighViralityTags: []string{
				"controversy", "humor", "breaking", "surprise", "inspiration",
				"nostalgia", "challenge", "trend", "meme", "outrage",
			},
		},
		StrengthThreshold: 0.7,
		GapThreshold:      0.4,
		QuickWinImpact:    0.3,
		DefaultScore:      0.5,
		AnalyzerTimeout:   2 * time.Second,
		CacheSize:         512,
	}
}
