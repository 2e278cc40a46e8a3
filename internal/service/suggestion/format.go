// internal/service/suggestion/format.go

package suggestion

import (
	"resonance/internal/domain/optimization"
	"resonance/internal/domain/resonance"
)

// Format groups a ranked suggestion list into the recommendations view.
// Every group preserves the input order.
func (g *Generator) Format(suggestions []resonance.Suggestion) optimization.FormattedRecommendations {
	view := optimization.FormattedRecommendations{
		ByPriority: make(map[resonance.Priority][]resonance.Suggestion),
		ByCategory: make(map[resonance.Category][]resonance.Suggestion),
		QuickWins:  g.QuickWins(suggestions),
		HighImpact: []resonance.Suggestion{},
		Total:      len(suggestions),
	}

	for _, s := range suggestions {
		view.ByPriority[s.Priority] = append(view.ByPriority[s.Priority], s)
		view.ByCategory[s.Category] = append(view.ByCategory[s.Category], s)
		if s.ImpactScore >= g.config.HighImpact {
			view.HighImpact = append(view.HighImpact, s)
		}
	}

	return view
}
