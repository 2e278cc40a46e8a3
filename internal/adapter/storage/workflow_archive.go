// internal/adapter/storage/workflow_archive.go

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"resonance/internal/domain/optimization"
	"resonance/internal/domain/resonance"
)

// WorkflowArchive keeps terminal workflow summaries in Postgres
type WorkflowArchive struct {
	db *pgxpool.Pool
}

// NewWorkflowArchive creates a new workflow archive
func NewWorkflowArchive(db *pgxpool.Pool) *WorkflowArchive {
	return &WorkflowArchive{
		db: db,
	}
}

// ArchiveSummary saves a workflow summary, replacing any earlier copy
func (a *WorkflowArchive) ArchiveSummary(ctx context.Context, s optimization.Summary) error {
	query := `
		INSERT INTO workflow_summaries (
			workflow_id, status, overall_score, resonance_level,
			suggestion_count, variation_count, prediction_count,
			top_suggestions, best_variation, errors, warnings,
			duration_ms, completed_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7,
			$8, $9, $10, $11,
			$12, $13
		)
		ON CONFLICT (workflow_id) DO UPDATE
		SET
			status = $2,
			overall_score = $3,
			resonance_level = $4,
			suggestion_count = $5,
			variation_count = $6,
			prediction_count = $7,
			top_suggestions = $8,
			best_variation = $9,
			errors = $10,
			warnings = $11,
			duration_ms = $12,
			completed_at = $13
	`

	// Convert JSON fields
	errorsJSON, err := json.Marshal(s.Errors)
	if err != nil {
		return fmt.Errorf("error marshaling errors: %w", err)
	}

	warningsJSON, err := json.Marshal(s.Warnings)
	if err != nil {
		return fmt.Errorf("error marshaling warnings: %w", err)
	}

	_, err = a.db.Exec(
		ctx,
		query,
		s.WorkflowID,
		string(s.Status),
		s.OverallScore,
		string(s.Level),
		s.SuggestionCount,
		s.VariationCount,
		s.PredictionCount,
		s.TopSuggestions,
		s.BestVariation,
		errorsJSON,
		warningsJSON,
		s.Duration.Milliseconds(),
		s.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	return nil
}

// LoadSummary retrieves an archived summary by workflow ID
func (a *WorkflowArchive) LoadSummary(ctx context.Context, id string) (*optimization.Summary, error) {
	query := `
		SELECT
			workflow_id, status, overall_score, resonance_level,
			suggestion_count, variation_count, prediction_count,
			top_suggestions, best_variation, errors, warnings,
			duration_ms, completed_at
		FROM workflow_summaries
		WHERE workflow_id = $1
	`

	var s optimization.Summary
	var status, level string
	var errorsJSON, warningsJSON []byte
	var durationMs int64

	err := a.db.QueryRow(ctx, query, id).Scan(
		&s.WorkflowID,
		&status,
		&s.OverallScore,
		&level,
		&s.SuggestionCount,
		&s.VariationCount,
		&s.PredictionCount,
		&s.TopSuggestions,
		&s.BestVariation,
		&errorsJSON,
		&warningsJSON,
		&durationMs,
		&s.CompletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, optimization.ErrWorkflowNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying workflow summary: %w", err)
	}

	// Parse JSON fields
	if err := unmarshalOptional(errorsJSON, &s.Errors); err != nil {
		return nil, fmt.Errorf("error unmarshaling errors: %w", err)
	}
	if err := unmarshalOptional(warningsJSON, &s.Warnings); err != nil {
		return nil, fmt.Errorf("error unmarshaling warnings: %w", err)
	}

	// Set enum types
	s.Status = optimization.Status(status)
	s.Level = resonance.Level(level)
	s.Duration = time.Duration(durationMs) * time.Millisecond

	return &s, nil
}
