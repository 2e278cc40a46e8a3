// internal/service/scoring/behavioral.go

package scoring

import (
	"context"
	"fmt"
	"sort"

	"resonance/internal/domain/resonance"
)

// lengthRanges are preferred word counts per length preference
var lengthRanges = map[string][2]float64{
	"short":  {0, 80},
	"medium": {60, 250},
	"long":   {200, 2000},
}

// engagementTriggers detects whether the content invites each engagement type
var engagementTriggers = map[string]func(f *Features) bool{
	"comment": func(f *Features) bool {
		return f.Questions > 0 || f.CountTerms([]string{"comment", "what do you think", "thoughts", "let me know"}) > 0
	},
	"share": func(f *Features) bool {
		return f.HasList() || f.Numbers > 0 || f.CountTerms([]string{"share", "repost", "retweet", "tag someone"}) > 0
	},
	"click": func(f *Features) bool {
		return len(f.URLs) > 0 || f.CountTerms([]string{"link", "click", "read more", "learn more", "download"}) > 0
	},
	"like": func(f *Features) bool {
		return f.Emojis > 0 || f.Exclamations > 0 || f.HasCTA
	},
	"save": func(f *Features) bool {
		return f.HasList() || f.CountTerms([]string{"save", "bookmark", "checklist", "cheat sheet"}) > 0
	},
}

// BehavioralAnalyzer scores how well content matches how the audience engages
type BehavioralAnalyzer struct{}

// Component implements Analyzer
func (BehavioralAnalyzer) Component() resonance.Component {
	return resonance.ComponentBehavioral
}

// Analyze implements Analyzer
func (BehavioralAnalyzer) Analyze(ctx context.Context, in Input) (resonance.ComponentScore, error) {
	if err := ctx.Err(); err != nil {
		return resonance.ComponentScore{}, err
	}

	f := in.Features
	b := in.Segment.Behavioral
	var notes []string

	// Engagement triggers weighted by propensity
	triggers, triggerDetail := neutral, "no engagement propensities on profile"
	if len(b.EngagementPropensities) > 0 {
		var total, hit float64
		var missing []string
		for _, kind := range sortedKeys(b.EngagementPropensities) {
			p := clamp(b.EngagementPropensities[kind])
			total += p
			detect, known := engagementTriggers[norm(kind)]
			if !known {
				hit += p * neutral
				continue
			}
			if detect(f) {
				hit += p
			} else if p >= 0.5 {
				missing = append(missing, kind)
			}
		}
		if total > 0 {
			triggers = hit / total
		}
		triggerDetail = fmt.Sprintf("%.0f%% of propensity covered", triggers*100)
		if len(missing) > 0 {
			notes = append(notes, fmt.Sprintf("no trigger for high-propensity engagement: %v", missing))
		}
	}

	// Content preferences
	preference, preferenceDetail := neutral, "no content preferences on profile"
	if len(b.ContentPreferences) > 0 {
		matched, known := 0, 0
		for _, pref := range b.ContentPreferences {
			kind, ok := contentTypeAliases[norm(pref)]
			if !ok {
				continue
			}
			known++
			if contentTypeSignals[kind](f) {
				matched++
			}
		}
		switch {
		case known == 0:
			preferenceDetail = "no recognized content preferences"
		case matched == 0:
			preference = 0.25
			preferenceDetail = fmt.Sprintf("0 of %d preferred formats", known)
			notes = append(notes, "content format does not match audience preferences")
		default:
			preference = 0.5 + 0.5*float64(matched)/float64(known)
			preferenceDetail = fmt.Sprintf("%d of %d preferred formats", matched, known)
		}
	}

	// Length
	length, lengthDetail := neutral, "no length preference on profile"
	if r, ok := lengthRanges[norm(b.LengthPreference)]; ok {
		length = rangeFit(float64(f.WordCount), r[0], r[1], (r[1]-r[0])/2+20)
		lengthDetail = fmt.Sprintf("%d words for %s preference", f.WordCount, norm(b.LengthPreference))
		if length < 0.5 {
			notes = append(notes, fmt.Sprintf("length does not suit a %s-form audience", norm(b.LengthPreference)))
		}
	}

	// Interaction style
	interaction, interactionDetail := neutral, "no interaction style on profile"
	if style := norm(b.InteractionStyle); style != "" {
		interaction = interactionFit(style, f)
		interactionDetail = style
	}

	// Platform affinity
	affinity, affinityDetail := neutral, "no platform usage on profile"
	if len(b.PlatformUsage) > 0 {
		usage, ok := b.PlatformUsage[string(in.Submission.Platform)]
		if ok {
			affinity = 0.3 + 0.7*clamp(usage)
			affinityDetail = fmt.Sprintf("%.0f%% usage", clamp(usage)*100)
		} else {
			affinity = 0.2
			affinityDetail = "audience not active on platform"
		}
	}

	parts := []weighted{
		sub("engagement_triggers", triggers, 0.30, triggerDetail),
		sub("content_preference", preference, 0.25, preferenceDetail),
		sub("length_fit", length, 0.20, lengthDetail),
		sub("interaction_fit", interaction, 0.15, interactionDetail),
		sub("platform_affinity", affinity, 0.10, affinityDetail),
	}

	confidence := completeness(
		len(b.EngagementPropensities) > 0,
		len(b.ContentPreferences) > 0,
		len(b.PlatformUsage) > 0,
		b.InteractionStyle != "",
		b.LengthPreference != "",
		len(b.OptimalPostingHours) > 0,
	)

	return combine(resonance.ComponentBehavioral, parts, confidence, notes), nil
}

// interactionFit scores content against an interaction style
func interactionFit(style string, f *Features) float64 {
	switch style {
	case "active", "commenter", "conversational", "engaged":
		switch {
		case f.Questions > 0 && f.HasCTA:
			return 1
		case f.Questions > 0 || f.HasCTA:
			return 0.75
		default:
			return 0.3
		}
	case "sharer", "amplifier":
		score := 0.4
		if f.HasList() || f.Numbers > 0 {
			score += 0.3
		}
		if len(f.Hashtags) > 0 {
			score += 0.2
		}
		return score
	case "passive", "lurker", "reader", "observer":
		// Informational content suits readers; heavy prompting does not
		score := 0.7
		if f.Exclamations > 2 {
			score -= 0.2
		}
		if f.Numbers > 0 || f.HasList() {
			score += 0.2
		}
		return score
	default:
		return neutral
	}
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
