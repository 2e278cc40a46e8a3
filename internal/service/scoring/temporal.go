// internal/service/scoring/temporal.go

package scoring

import (
	"context"
	"fmt"
	"strconv"

	"resonance/internal/domain/resonance"
)

// TemporalAnalyzer scores posting time and topical freshness
type TemporalAnalyzer struct{}

// Component implements Analyzer
func (TemporalAnalyzer) Component() resonance.Component {
	return resonance.ComponentTemporal
}

// Analyze implements Analyzer
func (TemporalAnalyzer) Analyze(ctx context.Context, in Input) (resonance.ComponentScore, error) {
	if err := ctx.Err(); err != nil {
		return resonance.ComponentScore{}, err
	}

	f := in.Features
	seg := in.Segment
	var notes []string

	at := in.Now
	if in.Submission.ScheduledAt != nil {
		at = *in.Submission.ScheduledAt
	}

	// Posting hour against the union of peak and optimal hours
	hours := validHours(append(append([]int(nil), seg.PeakActivityHours...), seg.Behavioral.OptimalPostingHours...))
	hour, hourDetail := neutral, "no activity hours on profile"
	if len(hours) > 0 {
		d := hourDistance(hours, at.Hour())
		hour = clamp(1 - float64(d)/6)
		hourDetail = fmt.Sprintf("%02d:00, %dh from nearest active hour", at.Hour(), d)
		if !containsHour(hours, at.Hour()) && d >= 3 {
			notes = append(notes, fmt.Sprintf("posting at %02d:00 misses the audience's active hours", at.Hour()))
		}
	}

	days, ok := dayFit[string(in.Submission.Platform)]
	if !ok {
		days = dayFit["general"]
	}
	day := days[at.Weekday()]

	// Freshness
	timely := f.CountTerms(timelyMarkers)
	if f.Contains(strconv.Itoa(at.Year())) {
		timely++
	}
	freshness := 0.4
	switch {
	case timely >= 2:
		freshness = 0.9
	case timely == 1:
		freshness = 0.7
	}
	if f.CountTerms(staleMarkers) > 0 {
		freshness -= 0.2
	}

	parts := []weighted{
		sub("posting_hour", hour, 0.50, hourDetail),
		sub("posting_day", day, 0.20, at.Weekday().String()),
		sub("freshness", freshness, 0.30, fmt.Sprintf("%d timely cues", timely)),
	}

	confidence := completeness(
		len(validHours(seg.PeakActivityHours)) > 0,
		len(validHours(seg.Behavioral.OptimalPostingHours)) > 0,
	)

	return combine(resonance.ComponentTemporal, parts, confidence, notes), nil
}
