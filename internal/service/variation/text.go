// internal/service/variation/text.go

package variation

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	hashtagPattern = regexp.MustCompile(`#[\p{L}\p{N}_]+`)
	listPrefix     = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s+`)
)

var stopwords = map[string]struct{}{
	"about": {}, "after": {}, "again": {}, "their": {}, "there": {}, "these": {}, "those": {},
	"which": {}, "while": {}, "would": {}, "could": {}, "should": {}, "being": {}, "every": {},
	"where": {}, "other": {}, "thing": {}, "things": {}, "really": {}, "first": {}, "still": {},
}

// splitSentences splits text at terminal punctuation followed by whitespace
func splitSentences(text string) []string {
	var out []string
	var b strings.Builder
	runes := []rune(text)
	for i, r := range runes {
		b.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') && (i+1 == len(runes) || unicode.IsSpace(runes[i+1])) {
			if s := strings.TrimSpace(b.String()); s != "" {
				out = append(out, s)
			}
			b.Reset()
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		out = append(out, s)
	}
	return out
}

// firstLine splits text into its first non-empty line and the remainder
func firstLine(text string) (string, string) {
	text = strings.TrimLeft(text, "\n ")
	idx := strings.Index(text, "\n")
	if idx < 0 {
		return strings.TrimSpace(text), ""
	}
	return strings.TrimSpace(text[:idx]), text[idx+1:]
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || isAcronym(s) {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func isAcronym(s string) bool {
	word := strings.Fields(s)
	if len(word) == 0 {
		return false
	}
	w := []rune(word[0])
	return len(w) > 1 && unicode.IsUpper(w[0]) && unicode.IsUpper(w[1])
}

// replaceWord substitutes whole-word, case-insensitive occurrences of from with to,
// preserving a leading capital
func replaceWord(text, from, to string) (string, int) {
	pattern := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(from) + `\b`)
	count := 0
	out := pattern.ReplaceAllStringFunc(text, func(match string) string {
		count++
		r, _ := utf8.DecodeRuneInString(match)
		if unicode.IsUpper(r) {
			return upperFirst(to)
		}
		return to
	})
	return out, count
}

// keywords returns the most frequent content words, most frequent first
func keywords(text string, n int) []string {
	stripped := hashtagPattern.ReplaceAllString(text, " ")
	counts := map[string]int{}
	for _, w := range strings.FieldsFunc(strings.ToLower(stripped), func(r rune) bool {
		return !unicode.IsLetter(r)
	}) {
		if utf8.RuneCountInString(w) < 5 {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		counts[w]++
	}

	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})
	if len(words) > n {
		words = words[:n]
	}
	return words
}

// truncateSentences keeps whole sentences until the rune budget is reached
func truncateSentences(sentences []string, budget int) string {
	var b strings.Builder
	for _, s := range sentences {
		next := utf8.RuneCountInString(s)
		if b.Len() > 0 {
			next++
		}
		if utf8.RuneCountInString(b.String())+next > budget {
			break
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s)
	}
	if b.Len() == 0 && len(sentences) > 0 {
		r := []rune(sentences[0])
		if budget > 1 && len(r) > budget {
			return string(r[:budget-1]) + "…"
		}
		return sentences[0]
	}
	return b.String()
}
