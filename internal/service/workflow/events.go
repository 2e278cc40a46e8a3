// internal/service/workflow/events.go

package workflow

import (
	"encoding/json"
	"fmt"
	"sort"

	"resonance/internal/domain/optimization"
)

// StatusEvent is published on every workflow status or progress change
type StatusEvent struct {
	WorkflowID  string              `json:"workflow_id"`
	Status      optimization.Status `json:"status"`
	CurrentStep string              `json:"current_step"`
	Progress    int                 `json:"progress"`
	Warnings    int                 `json:"warnings"`
}

// publishStatus publishes to <topic>.<id>.status
func (o *Orchestrator) publishStatus(wf optimization.Workflow) {
	if o.publisher == nil {
		return
	}
	event := StatusEvent{
		WorkflowID:  wf.ID,
		Status:      wf.Status,
		CurrentStep: wf.CurrentStep,
		Progress:    wf.Progress,
		Warnings:    len(wf.Warnings),
	}
	o.publish(fmt.Sprintf("%s.%s.status", o.config.EventsTopic, wf.ID), event)
}

// publishTerminal publishes the summary to <topic>.completed or <topic>.failed
func (o *Orchestrator) publishTerminal(summary optimization.Summary) {
	if o.publisher == nil {
		return
	}
	o.publish(fmt.Sprintf("%s.%s", o.config.EventsTopic, summary.Status), summary)
}

func (o *Orchestrator) publish(subject string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		o.logger.Warn("Error encoding workflow event", "subject", subject, "error", err)
		return
	}
	if err := o.publisher.Publish(subject, data); err != nil {
		// Log error but continue
		o.logger.Warn("Error publishing workflow event", "subject", subject, "error", err)
	}
}

// Summarize builds the terminal summary of a workflow result
func Summarize(result optimization.Result, top int) optimization.Summary {
	wf := result.Workflow
	summary := optimization.Summary{
		WorkflowID:      wf.ID,
		Status:          wf.Status,
		SuggestionCount: wf.SuggestionCount,
		VariationCount:  wf.VariationCount,
		PredictionCount: wf.PredictionCount,
		TopSuggestions:  []string{},
		Errors:          cloneSlice(wf.Errors),
		Warnings:        cloneSlice(wf.Warnings),
	}

	if result.Analysis != nil {
		summary.OverallScore = result.Analysis.OverallScore
		summary.Level = result.Analysis.Level
	}

	// Suggestions are stored in rank order
	for i, s := range result.Suggestions {
		if i == top {
			break
		}
		summary.TopSuggestions = append(summary.TopSuggestions, s.Title)
	}

	if len(result.Variations) > 0 {
		best := make([]optimization.Variation, len(result.Variations))
		copy(best, result.Variations)
		sort.SliceStable(best, func(i, j int) bool {
			return best[i].ExpectedImprovement > best[j].ExpectedImprovement
		})
		summary.BestVariation = best[0].Strategy
	}

	if wf.CompletedAt != nil {
		summary.CompletedAt = *wf.CompletedAt
		summary.Duration = wf.CompletedAt.Sub(wf.StartedAt)
	}

	return summary
}
