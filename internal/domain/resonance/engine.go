// internal/domain/resonance/engine.go

package resonance

import (
	"context"

	"resonance/internal/domain/audience"
	"resonance/internal/domain/content"
)

// Engine scores content against an audience segment
type Engine interface {
	// Analyze produces the resonance analysis for a submission and segment
	Analyze(ctx context.Context, sub content.Submission, segment *audience.Segment) (*Analysis, error)

	// Lookup returns a previously computed analysis for a (content, audience) pair
	Lookup(sub content.Submission, segmentID string) (*Analysis, bool)
}

// SuggestionSource produces suggestions from an analysis
type SuggestionSource interface {
	// Generate translates component diagnostics into ranked suggestions
	Generate(ctx context.Context, analysis *Analysis, types []OptimizationType) ([]Suggestion, error)
}
