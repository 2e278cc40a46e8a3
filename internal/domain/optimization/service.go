// internal/domain/optimization/service.go

package optimization

import (
	"context"
	"errors"

	"resonance/internal/domain/audience"
	"resonance/internal/domain/content"
	"resonance/internal/domain/resonance"
)

// Common errors
var (
	ErrWorkflowNotFound = errors.New("workflow not found")
	ErrNotTerminal      = errors.New("workflow has not finished")
)

// VariationGenerator produces alternative renderings of a submission
type VariationGenerator interface {
	// Generate applies the strategies for each requested type
	Generate(ctx context.Context, sub content.Submission, segment *audience.Segment, types []VariationType) ([]Variation, error)
}

// Predictor forecasts performance of a submission on a platform
type Predictor interface {
	// Predict forecasts metrics for the submission on the given platform
	Predict(ctx context.Context, sub content.Submission, segment *audience.Segment, analysis *resonance.Analysis, platform content.Platform) (*Prediction, error)
}

// Orchestrator runs optimization workflows
type Orchestrator interface {
	// Start begins a workflow in the background and returns its initial record
	Start(ctx context.Context, req Request) (Workflow, error)

	// Run executes a workflow synchronously and returns its result
	Run(ctx context.Context, req Request) *Result

	// Status returns the current workflow record
	Status(ctx context.Context, id string) (Workflow, error)

	// Result returns everything a workflow has produced so far
	Result(ctx context.Context, id string) (*Result, error)

	// Summary returns the terminal summary of a finished workflow
	Summary(ctx context.Context, id string) (*Summary, error)
}
