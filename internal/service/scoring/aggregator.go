// internal/service/scoring/aggregator.go

package scoring

import (
	"math"
	"sort"

	"resonance/internal/domain/content"
	"resonance/internal/domain/resonance"
)

// Aggregate is the combined judgment over the available component scores
type Aggregate struct {
	Overall    float64
	Confidence float64
	Level      resonance.Level
	Engagement float64
	Viral      float64
	Strengths  []string
	Gaps       []string
}

// Aggregator folds component scores into an overall resonance judgment
type Aggregator struct {
	config Config
}

// NewAggregator creates a new aggregator
func NewAggregator(config Config) *Aggregator {
	return &Aggregator{config: config}
}

// Combine aggregates the component scores. Missing components are left out and the
// overall score is renormalized over the weights that remain; confidence is not.
func (a *Aggregator) Combine(scores map[resonance.Component]resonance.ComponentScore, sub content.Submission) Aggregate {
	var weighted, weights, confidence float64
	for _, c := range resonance.Components {
		cs, ok := scores[c]
		if !ok {
			continue
		}
		w := a.config.Weights.For(c)
		weighted += clamp(cs.Score) * w
		confidence += clamp(cs.Confidence) * w
		weights += w
	}

	overall := 0.0
	if weights > 0 {
		overall = clamp(weighted / weights)
	}

	signal := 0.0
	if sub.ViralSignal != nil {
		signal = clamp(*sub.ViralSignal)
	}

	agg := Aggregate{
		Overall:    overall,
		Confidence: clamp(confidence),
		Level:      a.Level(overall),
		Engagement: a.engagement(scores, signal),
		Viral:      a.viral(overall, signal, sub.ConceptTags),
	}
	agg.Strengths, agg.Gaps = a.strengthsAndGaps(scores)

	return agg
}

// Level buckets an overall score
func (a *Aggregator) Level(score float64) resonance.Level {
	b := a.config.Levels
	switch {
	case score < b.Poor:
		return resonance.LevelPoor
	case score < b.Weak:
		return resonance.LevelWeak
	case score < b.Moderate:
		return resonance.LevelModerate
	case score < b.Strong:
		return resonance.LevelStrong
	default:
		return resonance.LevelExcellent
	}
}

func (a *Aggregator) engagement(scores map[resonance.Component]resonance.ComponentScore, signal float64) float64 {
	w := a.config.Engagement
	behavioral := a.scoreOrDefault(scores, resonance.ComponentBehavioral)
	psychographic := a.scoreOrDefault(scores, resonance.ComponentPsychographic)
	return clamp(w.Behavioral*behavioral + w.Psychographic*psychographic + w.Viral*signal)
}

func (a *Aggregator) viral(overall, signal float64, tags []string) float64 {
	v := a.config.Viral
	matched := 0
	for _, tag := range tags {
		if containsString(v.HighViralityTags, norm(tag)) {
			matched++
		}
	}
	bonus := math.Min(v.MaxTagBonus, v.TagBonus*float64(matched))
	return clamp(v.OverallWeight*overall + v.SignalWeight*signal + bonus)
}

func (a *Aggregator) scoreOrDefault(scores map[resonance.Component]resonance.ComponentScore, c resonance.Component) float64 {
	if cs, ok := scores[c]; ok {
		return clamp(cs.Score)
	}
	return a.config.DefaultScore
}

// strengthsAndGaps returns components above the strength threshold by score descending,
// and components below the gap threshold by score ascending
func (a *Aggregator) strengthsAndGaps(scores map[resonance.Component]resonance.ComponentScore) ([]string, []string) {
	var strong, weak []resonance.ComponentScore
	for _, c := range resonance.Components {
		cs, ok := scores[c]
		if !ok || cs.Degraded {
			continue
		}
		switch {
		case cs.Score > a.config.StrengthThreshold:
			strong = append(strong, cs)
		case cs.Score < a.config.GapThreshold:
			weak = append(weak, cs)
		}
	}

	sort.SliceStable(strong, func(i, j int) bool { return strong[i].Score > strong[j].Score })
	sort.SliceStable(weak, func(i, j int) bool { return weak[i].Score < weak[j].Score })

	strengths := make([]string, 0, len(strong))
	for _, cs := range strong {
		strengths = append(strengths, string(cs.Component))
	}
	gaps := make([]string, 0, len(weak))
	for _, cs := range weak {
		gaps = append(gaps, string(cs.Component))
	}
	return strengths, gaps
}
