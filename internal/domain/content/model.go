// internal/domain/content/model.go

package content

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Platform identifies the publishing platform a submission targets
type Platform string

const (
	PlatformLinkedIn  Platform = "linkedin"
	PlatformTwitter   Platform = "twitter"
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
	PlatformGeneral   Platform = "general"
)

// Platforms lists every supported platform
var Platforms = []Platform{
	PlatformLinkedIn,
	PlatformTwitter,
	PlatformFacebook,
	PlatformInstagram,
	PlatformGeneral,
}

// Valid reports whether p is a supported platform
func (p Platform) Valid() bool {
	for _, known := range Platforms {
		if p == known {
			return true
		}
	}
	return false
}

// Format describes how the submission text is encoded
type Format string

const (
	FormatPlain    Format = "plain"
	FormatMarkdown Format = "markdown"
)

// BrandProfile carries optional brand voice and compliance constraints
type BrandProfile struct {
	Name               string   `json:"name"`
	Voice              string   `json:"voice,omitempty"`
	Keywords           []string `json:"keywords,omitempty"`
	BannedTerms        []string `json:"banned_terms,omitempty"`
	RequiredDisclaimer string   `json:"required_disclaimer,omitempty"`
}

// Submission is a piece of content submitted for resonance analysis
type Submission struct {
	Text           string            `json:"text"`
	Platform       Platform          `json:"platform"`
	Format         Format            `json:"format,omitempty"`
	Brand          *BrandProfile     `json:"brand,omitempty"`
	TargetAudience string            `json:"target_audience,omitempty"`
	Context        map[string]string `json:"context,omitempty"`
	ScheduledAt    *time.Time        `json:"scheduled_at,omitempty"`
	ViralSignal    *float64          `json:"viral_signal,omitempty"`
	ConceptTags    []string          `json:"concept_tags,omitempty"`
}

// ErrInvalidSubmission is returned when a submission cannot be analyzed
var ErrInvalidSubmission = errors.New("invalid submission")

// Validate checks the submission is analyzable
func (s Submission) Validate() error {
	if strings.TrimSpace(s.Text) == "" {
		return fmt.Errorf("%w: text is empty", ErrInvalidSubmission)
	}

	if !s.Platform.Valid() {
		return fmt.Errorf("%w: unsupported platform %q", ErrInvalidSubmission, s.Platform)
	}

	switch s.Format {
	case "", FormatPlain, FormatMarkdown:
	default:
		return fmt.Errorf("%w: unsupported format %q", ErrInvalidSubmission, s.Format)
	}

	if s.ViralSignal != nil && (*s.ViralSignal < 0 || *s.ViralSignal > 1) {
		return fmt.Errorf("%w: viral signal must be within [0,1]", ErrInvalidSubmission)
	}

	return nil
}

// Hash returns the hex SHA-256 of a piece of text
func Hash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Key identifies the analyzable content of a submission
func (s Submission) Key() string {
	format := s.Format
	if format == "" {
		format = FormatPlain
	}
	return Hash(string(s.Platform) + "\x00" + string(format) + "\x00" + s.Text)
}

// Fingerprint identifies every scoring input of a submission, not just its text.
// ScheduledAt keeps its zone since posting hours are read in local time.
func (s Submission) Fingerprint() string {
	n := s
	if n.Format == "" {
		n.Format = FormatPlain
	}

	data, err := json.Marshal(n)
	if err != nil {
		return s.Key()
	}
	return Hash(string(data))
}
