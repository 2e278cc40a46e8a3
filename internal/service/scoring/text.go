// internal/service/scoring/text.go

package scoring

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"resonance/internal/domain/content"
)

var (
	hashtagPattern   = regexp.MustCompile(`#[\p{L}\p{N}_]+`)
	mentionPattern   = regexp.MustCompile(`@[\p{L}\p{N}_]+`)
	urlPattern       = regexp.MustCompile(`https?://\S+`)
	sentenceBreak    = regexp.MustCompile(`[.!?]+|\n+`)
	paragraphBreak   = regexp.MustCompile(`\n\s*\n`)
	orderedListItem  = regexp.MustCompile(`^\d+[.)]\s`)
	bulletListPrefix = []string{"- ", "* ", "• ", "→ ", "✅ "}
)

// ctaPhrases signal an explicit call to action
var ctaPhrases = []string{
	"comment", "share", "click", "sign up", "signup", "learn more", "download",
	"register", "subscribe", "follow", "let me know", "what do you think",
	"join", "book a", "get started", "try it", "read more", "dm me", "reach out",
	"link in bio", "tell me", "drop a", "repost", "retweet", "check out",
}

// Features are the text statistics every analyzer reads
type Features struct {
	Raw   string
	Plain string
	Lower string

	Words     []string
	wordSet   map[string]struct{}
	WordCount int
	CharCount int

	SentenceCount     int
	ParagraphCount    int
	ListItems         int
	AvgSentenceLength float64
	AvgWordLength     float64
	SyllablesPerWord  float64
	LongWordRatio     float64
	ReadingEase       float64
	GradeLevel        float64

	Hashtags     []string
	Mentions     []string
	URLs         []string
	Questions    int
	Exclamations int
	Emojis       int
	Numbers      int
	HasCTA       bool
	FirstLine    string
}

// HasList reports whether the text contains list formatting
func (f *Features) HasList() bool {
	return f.ListItems > 0
}

// Contains reports whether a term or phrase appears in the text
func (f *Features) Contains(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return false
	}
	if !strings.ContainsAny(term, " -'") {
		_, ok := f.wordSet[term]
		return ok
	}
	return strings.Contains(f.Lower, term)
}

// CountTerms returns how many of the given terms appear at least once
func (f *Features) CountTerms(terms []string) int {
	n := 0
	for _, t := range terms {
		if f.Contains(t) {
			n++
		}
	}
	return n
}

// MatchedTerms returns the subset of terms present, preserving input order
func (f *Features) MatchedTerms(terms []string) []string {
	var out []string
	for _, t := range terms {
		if f.Contains(t) {
			out = append(out, t)
		}
	}
	return out
}

// ExtractFeatures computes text statistics for a submission
func ExtractFeatures(sub content.Submission) *Features {
	raw := strings.ReplaceAll(sub.Text, "\r\n", "\n")
	plain := raw
	if sub.Format == content.FormatMarkdown {
		plain = markdownToPlain(raw)
	}

	f := &Features{
		Raw:       raw,
		Plain:     plain,
		Lower:     strings.ToLower(plain),
		wordSet:   map[string]struct{}{},
		CharCount: len([]rune(strings.TrimSpace(raw))),
	}

	f.URLs = urlPattern.FindAllString(plain, -1)
	f.Hashtags = uniqueLower(hashtagPattern.FindAllString(plain, -1))
	f.Mentions = uniqueLower(mentionPattern.FindAllString(plain, -1))

	// Words exclude URLs, hashtags and mentions
	stripped := urlPattern.ReplaceAllString(plain, " ")
	stripped = hashtagPattern.ReplaceAllString(stripped, " ")
	stripped = mentionPattern.ReplaceAllString(stripped, " ")

	f.Words = tokenize(stripped)
	f.WordCount = len(f.Words)
	for _, w := range f.Words {
		f.wordSet[w] = struct{}{}
	}
	for _, h := range f.Hashtags {
		f.wordSet[strings.TrimPrefix(h, "#")] = struct{}{}
	}

	f.SentenceCount = countSentences(stripped)
	f.ParagraphCount = countParagraphs(raw)
	f.ListItems = countListItems(raw)
	f.Questions = strings.Count(plain, "?")
	f.Exclamations = strings.Count(plain, "!")
	f.Emojis = countEmojis(raw)
	f.FirstLine = firstLine(plain)

	for _, phrase := range ctaPhrases {
		if strings.Contains(f.Lower, phrase) {
			f.HasCTA = true
			break
		}
	}

	var letters, syllables, longWords int
	for _, w := range f.Words {
		if strings.IndexFunc(w, unicode.IsDigit) >= 0 {
			f.Numbers++
		}
		letters += len([]rune(w))
		s := countSyllables(w)
		syllables += s
		if s >= 3 {
			longWords++
		}
	}
	f.Numbers += strings.Count(plain, "%")

	if f.WordCount > 0 {
		words := float64(f.WordCount)
		sentences := float64(maxInt(f.SentenceCount, 1))
		f.AvgSentenceLength = words / sentences
		f.AvgWordLength = float64(letters) / words
		f.SyllablesPerWord = float64(syllables) / words
		f.LongWordRatio = float64(longWords) / words
		f.ReadingEase = 206.835 - 1.015*f.AvgSentenceLength - 84.6*f.SyllablesPerWord
		f.GradeLevel = 0.39*f.AvgSentenceLength + 11.8*f.SyllablesPerWord - 15.59
	}

	return f
}

// markdownToPlain renders markdown to plain text, keeping block boundaries as blank lines
func markdownToPlain(src string) string {
	source := []byte(src)
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	var b strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Text:
			if entering {
				b.Write(node.Segment.Value(source))
				if node.SoftLineBreak() || node.HardLineBreak() {
					b.WriteByte('\n')
				}
			}
		case *ast.String:
			if entering {
				b.Write(node.Value)
			}
		case *ast.AutoLink:
			if entering {
				b.Write(node.URL(source))
			}
		default:
			if !entering && n.Type() == ast.TypeBlock && n.Kind() != ast.KindDocument {
				b.WriteString("\n\n")
			}
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(b.String())
}

func tokenize(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'')
	})
	words := make([]string, 0, len(fields))
	for _, w := range fields {
		w = strings.Trim(strings.ToLower(w), "'")
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}

func countSentences(s string) int {
	n := 0
	for _, part := range sentenceBreak.Split(s, -1) {
		if len(tokenize(part)) > 0 {
			n++
		}
	}
	return n
}

func countParagraphs(s string) int {
	n := 0
	for _, p := range paragraphBreak.Split(strings.TrimSpace(s), -1) {
		if strings.TrimSpace(p) != "" {
			n++
		}
	}
	return n
}

func countListItems(s string) int {
	n := 0
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if orderedListItem.MatchString(line) {
			n++
			continue
		}
		for _, prefix := range bulletListPrefix {
			if strings.HasPrefix(line, prefix) {
				n++
				break
			}
		}
	}
	return n
}

func countEmojis(s string) int {
	n := 0
	for _, r := range s {
		if (r >= 0x1F300 && r <= 0x1FAFF) || (r >= 0x2600 && r <= 0x27BF) {
			n++
		}
	}
	return n
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

// countSyllables estimates syllables by counting vowel groups
func countSyllables(word string) int {
	word = strings.ToLower(word)
	count := 0
	prevVowel := false
	for _, r := range word {
		vowel := strings.ContainsRune("aeiouy", r)
		if vowel && !prevVowel {
			count++
		}
		prevVowel = vowel
	}
	if strings.HasSuffix(word, "e") && !strings.HasSuffix(word, "le") && count > 1 {
		count--
	}
	if count == 0 {
		count = 1
	}
	return count
}

func uniqueLower(items []string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, it := range items {
		it = strings.ToLower(it)
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
