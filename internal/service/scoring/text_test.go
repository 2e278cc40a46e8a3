package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"resonance/internal/domain/content"
)

func TestExtractFeaturesPlain(t *testing.T) {
	f := ExtractFeatures(content.Submission{
		Text:     "Big news today! We shipped v2.\n\nRead more at https://example.com #launch #DevTools @acme\n- faster builds\n- 40% smaller images\n\nWhat do you think?",
		Platform: content.PlatformLinkedIn,
	})

	assert.Equal(t, []string{"#launch", "#devtools"}, f.Hashtags)
	assert.Equal(t, []string{"@acme"}, f.Mentions)
	assert.Equal(t, []string{"https://example.com"}, f.URLs)
	assert.Equal(t, 2, f.ListItems)
	assert.Equal(t, 3, f.ParagraphCount)
	assert.Equal(t, 1, f.Questions)
	assert.Equal(t, 1, f.Exclamations)
	assert.True(t, f.HasCTA)
	assert.Equal(t, "Big news today! We shipped v2.", f.FirstLine)
	assert.True(t, f.Contains("today"))
	assert.True(t, f.Contains("launch"), "hashtag words are searchable")
	assert.True(t, f.Contains("what do you think"))
	assert.False(t, f.Contains("example"), "URLs are not words")
	assert.Greater(t, f.Numbers, 0)
}

func TestExtractFeaturesMarkdown(t *testing.T) {
	f := ExtractFeatures(content.Submission{
		Text:     "# Release notes\n\nThis is **bold** and `code`.\n\n* one item\n* two item",
		Platform: content.PlatformGeneral,
		Format:   content.FormatMarkdown,
	})

	assert.NotContains(t, f.Plain, "**")
	assert.NotContains(t, f.Plain, "# ")
	assert.Contains(t, f.Plain, "Release notes")
	assert.Contains(t, f.Plain, "bold")
	assert.True(t, f.Contains("code"))
	assert.Empty(t, f.Hashtags)
}

func TestExtractFeaturesEmpty(t *testing.T) {
	f := ExtractFeatures(content.Submission{Text: "...", Platform: content.PlatformGeneral})

	assert.Equal(t, 0, f.WordCount)
	assert.Equal(t, 0.0, f.AvgSentenceLength)
	assert.Equal(t, 0.0, f.ReadingEase)
}

func TestCountSyllables(t *testing.T) {
	assert.Equal(t, 1, countSyllables("make"))
	assert.Equal(t, 2, countSyllables("table"))
	assert.Equal(t, 4, countSyllables("velocity"))
	assert.Equal(t, 1, countSyllables("rhythm"))
}

func TestRangeFit(t *testing.T) {
	assert.Equal(t, 1.0, rangeFit(5, 0, 10, 5))
	assert.InDelta(t, 0.5, rangeFit(12.5, 0, 10, 5), 1e-9)
	assert.Equal(t, 0.0, rangeFit(20, 0, 10, 5))
	assert.Equal(t, 0.0, rangeFit(-1, 0, 10, 0))
}
