// internal/service/scoring/complexity.go

package scoring

import (
	"context"
	"fmt"

	"resonance/internal/domain/resonance"
)

// ComplexityAnalyzer scores whether readability suits the audience
type ComplexityAnalyzer struct{}

// Component implements Analyzer
func (ComplexityAnalyzer) Component() resonance.Component {
	return resonance.ComponentComplexity
}

// Analyze implements Analyzer
func (ComplexityAnalyzer) Analyze(ctx context.Context, in Input) (resonance.ComponentScore, error) {
	if err := ctx.Err(); err != nil {
		return resonance.ComponentScore{}, err
	}

	f := in.Features
	seg := in.Segment
	var notes []string

	// Targets default to a general professional audience
	target := experienceProfiles["mid"]
	if level, ok := experienceAliases[norm(seg.Demographic.ExperienceLevel)]; ok {
		target = experienceProfiles[level]
	}

	sentenceLo, sentenceHi := 10.0, 20.0
	switch norm(seg.Psychographic.CommunicationStyle) {
	case "direct", "concise", "casual", "friendly", "informal", "conversational":
		sentenceLo, sentenceHi = 8, 16
	case "formal", "analytical", "professional":
		sentenceLo, sentenceHi = 12, 24
	}

	readability := rangeFit(f.ReadingEase, target.ease[0], target.ease[1], 25)
	if readability < 0.5 {
		notes = append(notes, fmt.Sprintf("reading ease %.0f is outside the %.0f-%.0f target", f.ReadingEase, target.ease[0], target.ease[1]))
	}

	sentences := rangeFit(f.AvgSentenceLength, sentenceLo, sentenceHi, 10)
	if f.AvgSentenceLength > sentenceHi {
		notes = append(notes, fmt.Sprintf("average sentence is %.0f words", f.AvgSentenceLength))
	}

	vocabulary := rangeFit(f.LongWordRatio, 0, target.maxLongWord, 0.15)

	structure := structureFit(f, norm(seg.Behavioral.LengthPreference))
	if structure < 0.5 {
		notes = append(notes, "long text with few paragraph breaks")
	}

	parts := []weighted{
		sub("readability", readability, 0.35, fmt.Sprintf("reading ease %.0f", f.ReadingEase)),
		sub("sentence_length", sentences, 0.25, fmt.Sprintf("%.1f words per sentence", f.AvgSentenceLength)),
		sub("vocabulary", vocabulary, 0.20, fmt.Sprintf("%.0f%% long words", f.LongWordRatio*100)),
		sub("structure", structure, 0.20, fmt.Sprintf("%d paragraphs, %d list items", f.ParagraphCount, f.ListItems)),
	}

	confidence := completeness(
		seg.Demographic.ExperienceLevel != "",
		seg.Psychographic.CommunicationStyle != "",
		seg.Behavioral.LengthPreference != "",
	)

	return combine(resonance.ComponentComplexity, parts, confidence, notes), nil
}

// structureFit scores paragraph density, tolerating denser text for long-form readers
func structureFit(f *Features, lengthPreference string) float64 {
	if f.WordCount <= 60 {
		return 0.8
	}
	maxPerParagraph := 80.0
	if lengthPreference == "long" {
		maxPerParagraph = 120
	}
	perParagraph := float64(f.WordCount) / float64(maxInt(f.ParagraphCount, 1))
	score := rangeFit(perParagraph, 10, maxPerParagraph, maxPerParagraph)
	if f.HasList() {
		score += 0.1
	}
	return clamp(score)
}
