// internal/service/suggestion/generator.go

package suggestion

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"resonance/internal/domain/resonance"
	"resonance/internal/logger"
)

// Config holds suggestion ranking tunables
type Config struct {
	MaxSuggestions  int
	QuickWinImpact  float64
	QuickWinEffort  int
	HighImpact      float64
	MinConfidence   float64
	KeywordCoverage float64
}

// DefaultConfig returns the standard suggestion configuration
func DefaultConfig() Config {
	return Config{
		MaxSuggestions:  10,
		QuickWinImpact:  0.6,
		QuickWinEffort:  2,
		HighImpact:      0.7,
		MinConfidence:   0.3,
		KeywordCoverage: 0.5,
	}
}

// Generator translates component diagnostics into ranked suggestions
type Generator struct {
	config Config
	logger *logger.Logger
}

// NewGenerator creates a new suggestion generator
func NewGenerator(config Config, log *logger.Logger) *Generator {
	if config.MaxSuggestions <= 0 {
		config.MaxSuggestions = DefaultConfig().MaxSuggestions
	}
	return &Generator{
		config: config,
		logger: log.With("service", "suggestion"),
	}
}

// Generate produces ranked suggestions for the requested optimization types (all when empty)
func (g *Generator) Generate(ctx context.Context, analysis *resonance.Analysis, types []resonance.OptimizationType) ([]resonance.Suggestion, error) {
	if analysis == nil {
		return nil, fmt.Errorf("analysis is required")
	}
	if len(types) == 0 {
		types = resonance.OptimizationTypes
	}

	byTitle := make(map[string]resonance.Suggestion)
	for _, t := range types {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var produced []resonance.Suggestion
		if t == resonance.OptimizeCompliance {
			produced = g.compliance(analysis.Compliance)
		} else {
			produced = g.fromTemplates(analysis, t)
		}

		// Dedup by title, keeping the higher impact
		for _, s := range produced {
			if existing, ok := byTitle[s.Title]; ok && existing.ImpactScore >= s.ImpactScore {
				continue
			}
			byTitle[s.Title] = s
		}
	}

	suggestions := make([]resonance.Suggestion, 0, len(byTitle))
	for _, s := range byTitle {
		suggestions = append(suggestions, s)
	}
	Rank(suggestions)

	if len(suggestions) > g.config.MaxSuggestions {
		suggestions = suggestions[:g.config.MaxSuggestions]
	}

	g.logger.Debug("Generated suggestions", "analysis_id", analysis.ID, "count", len(suggestions))
	return suggestions, nil
}

// Rank orders suggestions by priority, impact and effort, with title as the final tie break
func Rank(suggestions []resonance.Suggestion) {
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if a.Priority.Weight() != b.Priority.Weight() {
			return a.Priority.Weight() > b.Priority.Weight()
		}
		if a.ImpactScore != b.ImpactScore {
			return a.ImpactScore > b.ImpactScore
		}
		if a.EffortEstimate != b.EffortEstimate {
			return a.EffortEstimate < b.EffortEstimate
		}
		return a.Title < b.Title
	})
}

// QuickWins returns the easy, high-impact subset in rank order
func (g *Generator) QuickWins(suggestions []resonance.Suggestion) []resonance.Suggestion {
	wins := []resonance.Suggestion{}
	for _, s := range suggestions {
		if s.ImpactScore > g.config.QuickWinImpact && s.EffortEstimate <= g.config.QuickWinEffort {
			wins = append(wins, s)
		}
	}
	return wins
}

func (g *Generator) fromTemplates(analysis *resonance.Analysis, t resonance.OptimizationType) []resonance.Suggestion {
	var out []resonance.Suggestion
	for _, tpl := range templates[t] {
		cs, ok := analysis.Score(tpl.component)
		if !ok || cs.Degraded {
			continue
		}
		f, ok := cs.Factor(tpl.factor)
		if !ok || f.Value >= tpl.threshold {
			continue
		}

		gap := (tpl.threshold - f.Value) / tpl.threshold
		impact := round(clamp(0.3 + 0.7*gap))

		priority := priorityForGap(tpl.threshold - f.Value)
		if tpl.criticalAtZero && f.Value == 0 {
			priority = resonance.PriorityCritical
			impact = 1
		}

		description := tpl.summary
		if f.Detail != "" {
			description = fmt.Sprintf("%s (%s)", tpl.summary, f.Detail)
		}

		out = append(out, resonance.Suggestion{
			Title:           tpl.title,
			Description:     description,
			Category:        tpl.category,
			Priority:        priority,
			ImpactScore:     impact,
			EffortEstimate:  tpl.effort,
			Confidence:      round(math.Max(g.config.MinConfidence, cs.Confidence)),
			Actions:         append([]string(nil), tpl.actions...),
			Source:          tpl.component,
			OptimizationFor: t,
		})
	}
	return out
}

func (g *Generator) compliance(c resonance.Compliance) []resonance.Suggestion {
	if !c.BrandChecked {
		return nil
	}

	var out []resonance.Suggestion
	if len(c.BannedTermsFound) > 0 {
		out = append(out, resonance.Suggestion{
			Title:           "Remove banned terms",
			Description:     fmt.Sprintf("The brand profile prohibits: %s", strings.Join(c.BannedTermsFound, ", ")),
			Category:        resonance.CategoryCompliance,
			Priority:        resonance.PriorityCritical,
			ImpactScore:     0.9,
			EffortEstimate:  1,
			Confidence:      1,
			Actions:         []string{"Delete or rephrase each banned term"},
			OptimizationFor: resonance.OptimizeCompliance,
		})
	}
	if c.MissingDisclaimer {
		out = append(out, resonance.Suggestion{
			Title:           "Add the required disclaimer",
			Description:     "The brand profile requires a disclaimer that the content does not include.",
			Category:        resonance.CategoryCompliance,
			Priority:        resonance.PriorityCritical,
			ImpactScore:     0.8,
			EffortEstimate:  1,
			Confidence:      1,
			Actions:         []string{"Append the disclaimer text verbatim"},
			OptimizationFor: resonance.OptimizeCompliance,
		})
	}
	if c.BrandKeywordsTotal > 0 {
		covered := 1 - float64(len(c.MissingKeywords))/float64(c.BrandKeywordsTotal)
		if covered < g.config.KeywordCoverage {
			out = append(out, resonance.Suggestion{
				Title:           "Include brand keywords",
				Description:     fmt.Sprintf("Missing brand keywords: %s", strings.Join(c.MissingKeywords, ", ")),
				Category:        resonance.CategoryCompliance,
				Priority:        resonance.PriorityMedium,
				ImpactScore:     0.5,
				EffortEstimate:  2,
				Confidence:      0.8,
				Actions:         []string{"Work one or two brand keywords into the copy"},
				OptimizationFor: resonance.OptimizeCompliance,
			})
		}
	}
	return out
}

// priorityForGap grades how far a factor falls below its threshold
func priorityForGap(gap float64) resonance.Priority {
	switch {
	case gap >= 0.4:
		return resonance.PriorityHigh
	case gap >= 0.2:
		return resonance.PriorityMedium
	default:
		return resonance.PriorityLow
	}
}

func clamp(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}

func round(v float64) float64 {
	return math.Round(v*1000) / 1000
}
