// internal/adapter/storage/audience_store.go

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"resonance/internal/domain/audience"
)

// AudienceStore reads audience segments maintained by the audience-intelligence service
type AudienceStore struct {
	db *pgxpool.Pool
}

// NewAudienceStore creates a new audience store
func NewAudienceStore(db *pgxpool.Pool) *AudienceStore {
	return &AudienceStore{
		db: db,
	}
}

// GetSegment retrieves a segment by ID
func (s *AudienceStore) GetSegment(ctx context.Context, id string) (*audience.Segment, error) {
	query := `
		SELECT
			id, name, demographic, behavioral, psychographic,
			peak_activity_hours, preferred_platforms
		FROM audience_segments
		WHERE id = $1
	`

	var seg audience.Segment
	var demographicJSON, behavioralJSON, psychographicJSON []byte
	var peakHours []int32

	err := s.db.QueryRow(ctx, query, id).Scan(
		&seg.ID,
		&seg.Name,
		&demographicJSON,
		&behavioralJSON,
		&psychographicJSON,
		&peakHours,
		&seg.PreferredPlatforms,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", audience.ErrSegmentNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("error querying segment: %w", err)
	}

	// Parse JSON fields
	if err := unmarshalOptional(demographicJSON, &seg.Demographic); err != nil {
		return nil, fmt.Errorf("error unmarshaling demographic profile: %w", err)
	}
	if err := unmarshalOptional(behavioralJSON, &seg.Behavioral); err != nil {
		return nil, fmt.Errorf("error unmarshaling behavioral profile: %w", err)
	}
	if err := unmarshalOptional(psychographicJSON, &seg.Psychographic); err != nil {
		return nil, fmt.Errorf("error unmarshaling psychographic profile: %w", err)
	}

	for _, h := range peakHours {
		seg.PeakActivityHours = append(seg.PeakActivityHours, int(h))
	}

	return &seg, nil
}

// unmarshalOptional leaves v untouched for NULL columns
func unmarshalOptional(data []byte, v interface{}) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}
