// internal/service/scoring/psychographic.go

package scoring

import (
	"context"
	"fmt"

	"resonance/internal/domain/resonance"
)

// PsychographicAnalyzer scores alignment with what the audience values and how it communicates
type PsychographicAnalyzer struct{}

// Component implements Analyzer
func (PsychographicAnalyzer) Component() resonance.Component {
	return resonance.ComponentPsychographic
}

// Analyze implements Analyzer
func (PsychographicAnalyzer) Analyze(ctx context.Context, in Input) (resonance.ComponentScore, error) {
	if err := ctx.Err(); err != nil {
		return resonance.ComponentScore{}, err
	}

	f := in.Features
	p := in.Segment.Psychographic
	var notes []string

	values, valuesDetail := neutral, "no values on profile"
	if len(p.Values) > 0 {
		terms := expandWith(p.Values, valueTerms)
		values = overlap(f, terms, 3)
		valuesDetail = fmt.Sprintf("%d value cues", f.CountTerms(terms))
		if values < 0.4 {
			notes = append(notes, "content does not reflect the audience's values")
		}
	}

	interests, interestsDetail := neutral, "no interests on profile"
	if len(p.Interests) > 0 {
		terms := expandTerms(p.Interests)
		interests = overlap(f, terms, 2)
		interestsDetail = fmt.Sprintf("%d of %d interests", f.CountTerms(terms), len(terms))
	}

	motivation, motivationDetail := neutral, "no motivations on profile"
	if len(p.Motivations) > 0 {
		terms := expandWith(p.Motivations, motivationTerms)
		motivation = overlap(f, terms, 3)
		motivationDetail = fmt.Sprintf("%d motivation cues", f.CountTerms(terms))
	}

	traits, traitsDetail := neutral, "no traits on profile"
	if len(p.Traits) > 0 {
		var total, fit float64
		for _, trait := range sortedKeys(p.Traits) {
			w := clamp(p.Traits[trait])
			signals, ok := traitSignals[norm(trait)]
			if !ok || w == 0 {
				continue
			}
			total += w
			fit += w * clamp(float64(f.CountTerms(signals))/3)
		}
		if total > 0 {
			traits = 0.3 + 0.7*fit/total
			traitsDetail = fmt.Sprintf("%.0f%% trait appeal", fit/total*100)
		} else {
			traitsDetail = "no recognized traits"
		}
	}

	style, styleDetail := neutral, "no communication style on profile"
	if s := norm(p.CommunicationStyle); s != "" {
		style = styleFit(s, f)
		styleDetail = s
		if style < 0.4 {
			notes = append(notes, fmt.Sprintf("tone does not match a %s communication style", s))
		}
	}

	parts := []weighted{
		sub("value_alignment", values, 0.25, valuesDetail),
		sub("interest_overlap", interests, 0.25, interestsDetail),
		sub("motivation_appeal", motivation, 0.20, motivationDetail),
		sub("trait_fit", traits, 0.15, traitsDetail),
		sub("style_fit", style, 0.15, styleDetail),
	}

	confidence := completeness(
		len(p.Traits) > 0,
		len(p.Values) > 0,
		len(p.Interests) > 0,
		len(p.Motivations) > 0,
		p.CommunicationStyle != "",
	)

	return combine(resonance.ComponentPsychographic, parts, confidence, notes), nil
}

// expandWith returns the terms plus their lexicon expansions
func expandWith(terms []string, lexicon map[string][]string) []string {
	out := expandTerms(terms)
	for _, t := range terms {
		out = append(out, lexicon[norm(t)]...)
	}
	return out
}

// casualness estimates how informal the text reads, in [0,1]
func casualness(f *Features) float64 {
	casual := float64(f.CountTerms(casualMarkers)) + 0.5*float64(f.Emojis) + 0.5*float64(f.Exclamations)
	formal := float64(f.CountTerms(formalMarkers)) + 10*f.LongWordRatio
	if casual+formal == 0 {
		return neutral
	}
	return clamp(casual / (casual + formal))
}

// styleFit scores the text against a communication style
func styleFit(style string, f *Features) float64 {
	switch style {
	case "formal", "professional":
		return 1 - casualness(f)
	case "casual", "friendly", "informal", "conversational":
		return casualness(f)
	case "analytical", "data-driven":
		return clamp(0.3 + 0.2*float64(f.Numbers))
	case "direct", "concise":
		return rangeFit(f.AvgSentenceLength, 0, 15, 15)
	case "storytelling", "narrative":
		return clamp(0.2 + 0.15*float64(f.CountTerms(storytellingMarkers)))
	case "inspirational", "motivational":
		return clamp(0.3 + 0.2*float64(f.CountTerms(inspirationalMarkers)))
	default:
		return neutral
	}
}
