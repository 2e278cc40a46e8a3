// internal/domain/audience/store.go

package audience

import (
	"context"
	"errors"
)

// ErrSegmentNotFound is returned when a segment does not exist
var ErrSegmentNotFound = errors.New("audience segment not found")

// Store provides read access to audience segments
type Store interface {
	// GetSegment returns a segment by ID
	GetSegment(ctx context.Context, id string) (*Segment, error)
}
