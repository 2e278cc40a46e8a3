// internal/service/variation/generator.go

package variation

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"resonance/internal/domain/audience"
	"resonance/internal/domain/content"
	"resonance/internal/domain/optimization"
	"resonance/internal/logger"
)

// Generator produces alternative renderings of a submission
type Generator struct {
	logger *logger.Logger
}

// NewGenerator creates a new variation generator
func NewGenerator(log *logger.Logger) *Generator {
	return &Generator{
		logger: log.With("service", "variation"),
	}
}

// Generate applies every strategy of each requested type (all types when empty).
// Outputs identical to the original or to an earlier output in the batch are dropped.
func (g *Generator) Generate(ctx context.Context, sub content.Submission, segment *audience.Segment, types []optimization.VariationType) ([]optimization.Variation, error) {
	if len(types) == 0 {
		types = optimization.VariationTypes
	}

	original := sub.Text
	seen := map[string]struct{}{
		content.Hash(strings.TrimSpace(original)): {},
	}
	in := Input{Text: original, Platform: sub.Platform, Segment: segment}

	variations := []optimization.Variation{}
	for _, t := range types {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		lib := Strategies(t)
		if len(lib) == 0 {
			g.logger.Warn("Unknown variation type", "type", t)
			continue
		}

		for _, s := range lib {
			modified, changes := s.Apply(in)
			hash := content.Hash(strings.TrimSpace(modified))
			if _, dup := seen[hash]; dup {
				continue
			}
			seen[hash] = struct{}{}

			variations = append(variations, optimization.Variation{
				ID:                  uuid.New().String(),
				Type:                t,
				Strategy:            s.Name,
				Original:            original,
				Modified:            modified,
				Changes:             changes,
				ExpectedImprovement: s.ExpectedImprovement,
				Confidence:          s.Confidence,
				Platform:            sub.Platform,
				ContentHash:         hash,
			})
		}
	}

	g.logger.Debug("Generated variations", "count", len(variations), "types", fmt.Sprint(types))
	return variations, nil
}
