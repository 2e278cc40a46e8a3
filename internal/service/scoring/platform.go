// internal/service/scoring/platform.go

package scoring

import (
	"context"
	"fmt"
	"strings"

	"resonance/internal/domain/resonance"
)

// PlatformAnalyzer scores how well content follows the target platform's conventions
type PlatformAnalyzer struct{}

// Component implements Analyzer
func (PlatformAnalyzer) Component() resonance.Component {
	return resonance.ComponentPlatform
}

// Analyze implements Analyzer
func (PlatformAnalyzer) Analyze(ctx context.Context, in Input) (resonance.ComponentScore, error) {
	if err := ctx.Err(); err != nil {
		return resonance.ComponentScore{}, err
	}

	f := in.Features
	platform := in.Submission.Platform
	rules := platform.Rules()
	seg := in.Segment
	var notes []string

	// Length
	chars := float64(f.CharCount)
	length := 0.0
	if f.CharCount > rules.HardLimit {
		notes = append(notes, fmt.Sprintf("%d characters exceeds the %s limit of %d", f.CharCount, platform, rules.HardLimit))
	} else {
		spread := float64(rules.MaxChars-rules.MinChars) / 2
		length = rangeFit(chars, float64(rules.MinChars), float64(rules.MaxChars), spread)
		if length < 0.1 {
			length = 0.1
		}
		if f.CharCount < rules.MinChars {
			notes = append(notes, fmt.Sprintf("shorter than the %d-%d characters that perform on %s", rules.MinChars, rules.MaxChars, platform))
		} else if f.CharCount > rules.MaxChars {
			notes = append(notes, fmt.Sprintf("longer than the %d-%d characters that perform on %s", rules.MinChars, rules.MaxChars, platform))
		}
	}

	// Hashtags
	tags := float64(len(f.Hashtags))
	var hashtags float64
	if rules.RewardsHashtags {
		hashtags = rangeFit(tags, float64(rules.MinHashtags), float64(rules.MaxHashtags), float64(rules.MaxHashtags))
		if len(f.Hashtags) == 0 {
			notes = append(notes, fmt.Sprintf("%s rewards %d-%d hashtags", platform, rules.MinHashtags, rules.MaxHashtags))
		}
	} else {
		hashtags = rangeFit(tags, 0, float64(rules.MaxHashtags), 3)
	}

	// Format
	breaks := 0.9
	if rules.PrefersLineBreaks && f.CharCount > 200 && f.ParagraphCount < 2 {
		breaks = 0.3
		notes = append(notes, fmt.Sprintf("%s readers expect short paragraphs with line breaks", platform))
	}
	emoji := 0.9
	switch {
	case rules.PrefersEmoji && f.Emojis == 0:
		emoji = 0.5
	case !rules.PrefersEmoji && f.Emojis > 3:
		emoji = 0.5
	}
	format := (breaks + emoji) / 2

	// Hook
	hook := hookStrength(f.FirstLine, rules.HookChars)
	if hook < 0.5 {
		notes = append(notes, "opening line is unlikely to stop the scroll")
	}

	// Audience presence on the platform
	audience, audienceDetail := neutral, "no platform data on profile"
	switch {
	case len(seg.PreferredPlatforms) > 0:
		audience, audienceDetail = 0.3, "not a preferred platform"
		for _, p := range seg.PreferredPlatforms {
			if strings.EqualFold(p, string(platform)) {
				audience, audienceDetail = 1, "preferred platform"
				break
			}
		}
	case len(seg.Behavioral.PlatformUsage) > 0:
		usage := seg.Behavioral.PlatformUsage[string(platform)]
		audience = 0.2 + 0.8*clamp(usage)
		audienceDetail = fmt.Sprintf("%.0f%% usage", clamp(usage)*100)
	}

	parts := []weighted{
		sub("length", length, 0.30, fmt.Sprintf("%d characters", f.CharCount)),
		sub("hashtags", hashtags, 0.20, fmt.Sprintf("%d hashtags", len(f.Hashtags))),
		sub("format", format, 0.20, fmt.Sprintf("%d paragraphs, %d emoji", f.ParagraphCount, f.Emojis)),
		sub("hook", hook, 0.20, truncate(f.FirstLine, 60)),
		sub("audience_platform", audience, 0.10, audienceDetail),
	}

	confidence := completeness(
		len(seg.PreferredPlatforms) > 0,
		len(seg.Behavioral.PlatformUsage) > 0,
	)

	return combine(resonance.ComponentPlatform, parts, confidence, notes), nil
}

// hookStrength scores an opening line
func hookStrength(line string, maxChars int) float64 {
	if line == "" {
		return 0
	}
	score := 0.4
	if strings.Contains(line, "?") {
		score += 0.2
	}
	if strings.IndexAny(line, "0123456789") >= 0 {
		score += 0.15
	}
	if len([]rune(line)) <= maxChars {
		score += 0.15
	} else {
		score -= 0.1
	}
	words := tokenize(line)
	for _, w := range words {
		if containsString(hookPowerWords, w) {
			score += 0.1
			break
		}
	}
	return clamp(score)
}

func containsString(items []string, s string) bool {
	for _, it := range items {
		if it == s {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
