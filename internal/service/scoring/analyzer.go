// internal/service/scoring/analyzer.go

package scoring

import (
	"context"
	"math"
	"strings"
	"time"

	"resonance/internal/domain/audience"
	"resonance/internal/domain/content"
	"resonance/internal/domain/resonance"
)

// neutral is the sub-factor value used when the profile has nothing to compare against
const neutral = 0.5

// Input is everything an analyzer may read
type Input struct {
	Submission content.Submission
	Features   *Features
	Segment    *audience.Segment
	Now        time.Time
}

// Analyzer computes one component score
type Analyzer interface {
	Component() resonance.Component
	Analyze(ctx context.Context, in Input) (resonance.ComponentScore, error)
}

// DefaultAnalyzers returns the six component analyzers in canonical order
func DefaultAnalyzers() []Analyzer {
	return []Analyzer{
		DemographicAnalyzer{},
		BehavioralAnalyzer{},
		PsychographicAnalyzer{},
		ComplexityAnalyzer{},
		PlatformAnalyzer{},
		TemporalAnalyzer{},
	}
}

// DefaultScore is the placeholder used when an analyzer cannot produce a score
func DefaultScore(component resonance.Component, weight float64, reason string) resonance.ComponentScore {
	return resonance.ComponentScore{
		Component:  component,
		Score:      neutral,
		Confidence: 0,
		Weight:     weight,
		Factors:    []resonance.Factor{},
		Notes:      []string{"analysis unavailable, default score used: " + reason},
		Degraded:   true,
	}
}

// weighted is a sub-factor paired with its sub-weight
type weighted struct {
	factor resonance.Factor
	weight float64
}

func sub(name string, value, weight float64, detail string) weighted {
	return weighted{
		factor: resonance.Factor{Name: name, Value: clamp(value), Detail: detail},
		weight: weight,
	}
}

// combine folds weighted sub-factors into a component score
func combine(component resonance.Component, parts []weighted, confidence float64, notes []string) resonance.ComponentScore {
	var total, weights float64
	factors := make([]resonance.Factor, 0, len(parts))
	for _, p := range parts {
		total += p.factor.Value * p.weight
		weights += p.weight
		factors = append(factors, p.factor)
	}

	score := neutral
	if weights > 0 {
		score = total / weights
	}

	return resonance.ComponentScore{
		Component:  component,
		Score:      clamp(score),
		Confidence: clamp(confidence),
		Factors:    factors,
		Notes:      notes,
	}
}

// completeness returns the share of populated profile fields
func completeness(populated ...bool) float64 {
	if len(populated) == 0 {
		return 0
	}
	n := 0
	for _, p := range populated {
		if p {
			n++
		}
	}
	return float64(n) / float64(len(populated))
}

// clamp bounds v to [0,1], mapping NaN to 0
func clamp(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}

// rangeFit scores v by closeness to [lo,hi], decaying linearly to 0 at lo-spread and hi+spread
func rangeFit(v, lo, hi, spread float64) float64 {
	switch {
	case v >= lo && v <= hi:
		return 1
	case spread <= 0:
		return 0
	case v < lo:
		return clamp(1 - (lo-v)/spread)
	default:
		return clamp(1 - (v-hi)/spread)
	}
}

// overlap scores how many of the wanted terms the text mentions, saturating at target
func overlap(f *Features, wanted []string, target int) float64 {
	if len(wanted) == 0 {
		return neutral
	}
	if target <= 0 {
		target = 1
	}
	hits := f.CountTerms(expandTerms(wanted))
	if hits == 0 {
		return 0.2
	}
	return clamp(0.4 + 0.6*float64(hits)/float64(target))
}

// expandTerms lowercases profile terms and splits snake or kebab case into phrases
func expandTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		out = append(out, strings.ReplaceAll(t, "_", " "))
	}
	return out
}

func norm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func containsHour(hours []int, h int) bool {
	for _, x := range hours {
		if x == h {
			return true
		}
	}
	return false
}

// validHours drops entries outside 0-23
func validHours(hours []int) []int {
	out := make([]int, 0, len(hours))
	for _, h := range hours {
		if h >= 0 && h <= 23 {
			out = append(out, h)
		}
	}
	return out
}

// hourDistance returns the circular distance in hours to the nearest listed hour.
// Hours outside 0-23 are ignored; with none left the distance is 12.
func hourDistance(hours []int, h int) int {
	best := 12
	for _, x := range hours {
		if x < 0 || x > 23 {
			continue
		}
		d := x - h
		if d < 0 {
			d = -d
		}
		if d > 12 {
			d = 24 - d
		}
		if d < best {
			best = d
		}
	}
	return best
}
