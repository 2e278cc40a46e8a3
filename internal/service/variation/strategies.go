// internal/service/variation/strategies.go

package variation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"resonance/internal/domain/audience"
	"resonance/internal/domain/content"
	"resonance/internal/domain/optimization"
)

// Input is what a strategy rewrites
type Input struct {
	Text     string
	Platform content.Platform
	Segment  *audience.Segment
}

// Strategy is one named rewrite with a fixed expected improvement
type Strategy struct {
	Name                string
	ExpectedImprovement float64
	Confidence          float64
	// Apply returns the rewritten text and a description of each edit.
	// Returning the input unchanged means the strategy does not apply.
	Apply func(in Input) (string, []string)
}

// strategies is the strategy library for each variation type
var strategies = map[optimization.VariationType][]Strategy{
	optimization.VariationHeadline: {
		{Name: "question_headline", ExpectedImprovement: 0.15, Confidence: 0.6, Apply: questionHeadline},
		{Name: "number_headline", ExpectedImprovement: 0.12, Confidence: 0.55, Apply: numberHeadline},
	},
	optimization.VariationHook: {
		{Name: "question_hook", ExpectedImprovement: 0.18, Confidence: 0.6, Apply: prependHook("Have you ever run into this?")},
		{Name: "statistic_hook", ExpectedImprovement: 0.16, Confidence: 0.55, Apply: statisticHook},
		{Name: "story_hook", ExpectedImprovement: 0.14, Confidence: 0.5, Apply: prependHook("Here's something I learned the hard way.")},
	},
	optimization.VariationTone: {
		{Name: "professional_tone", ExpectedImprovement: 0.08, Confidence: 0.5, Apply: substitute(professionalTone, "")},
		{Name: "casual_tone", ExpectedImprovement: 0.10, Confidence: 0.5, Apply: substitute(casualTone, "")},
		{Name: "enthusiastic_tone", ExpectedImprovement: 0.09, Confidence: 0.45, Apply: substitute(enthusiasticTone, "!")},
	},
	optimization.VariationLength: {
		{Name: "shorten", ExpectedImprovement: 0.10, Confidence: 0.55, Apply: shorten},
		{Name: "expand", ExpectedImprovement: 0.06, Confidence: 0.4, Apply: expand},
	},
	optimization.VariationStructure: {
		{Name: "listify", ExpectedImprovement: 0.12, Confidence: 0.55, Apply: listify},
		{Name: "paragraphs", ExpectedImprovement: 0.08, Confidence: 0.5, Apply: paragraphs},
	},
	optimization.VariationCallToAction: {
		{Name: "platform_cta", ExpectedImprovement: 0.20, Confidence: 0.65, Apply: appendCTA},
	},
	optimization.VariationPlatformAdaptation: {
		{Name: "platform_fit", ExpectedImprovement: 0.14, Confidence: 0.6, Apply: adaptToPlatform},
	},
	optimization.VariationAudienceTargeting: {
		{Name: "audience_prefix", ExpectedImprovement: 0.11, Confidence: 0.5, Apply: audiencePrefix},
	},
}

// Strategies returns the strategy library for a variation type
func Strategies(t optimization.VariationType) []Strategy {
	return strategies[t]
}

// Tone substitution tables, applied in order
var (
	professionalTone = [][2]string{
		{"gonna", "going to"},
		{"wanna", "want to"},
		{"awesome", "excellent"},
		{"super", "very"},
		{"stuff", "material"},
		{"kinda", "somewhat"},
		{"guys", "everyone"},
		{"can't", "cannot"},
		{"don't", "do not"},
		{"won't", "will not"},
		{"it's", "it is"},
		{"yeah", "yes"},
		{"cool", "impressive"},
	}
	casualTone = [][2]string{
		{"utilize", "use"},
		{"therefore", "so"},
		{"however", "but"},
		{"purchase", "buy"},
		{"assist", "help"},
		{"commence", "start"},
		{"approximately", "about"},
		{"furthermore", "plus"},
		{"cannot", "can't"},
		{"do not", "don't"},
		{"it is", "it's"},
		{"regarding", "about"},
	}
	enthusiasticTone = [][2]string{
		{"good", "great"},
		{"interesting", "fascinating"},
		{"nice", "amazing"},
		{"important", "crucial"},
		{"happy", "thrilled"},
	}
)

func questionHeadline(in Input) (string, []string) {
	head, rest := firstLine(in.Text)
	if head == "" || strings.HasSuffix(head, "?") {
		return in.Text, nil
	}
	trimmed := strings.TrimRight(head, ".!:; ")
	question := fmt.Sprintf("What if %s?", lowerFirst(trimmed))
	return joinHead(question, rest), []string{"rewrote the first line as a question"}
}

func numberHeadline(in Input) (string, []string) {
	head, rest := firstLine(in.Text)
	if head == "" || strings.IndexAny(head, "0123456789") >= 0 {
		return in.Text, nil
	}
	n := len(splitSentences(rest))
	if n < 3 {
		n = 3
	}
	if n > 7 {
		n = 7
	}
	headline := fmt.Sprintf("%d takeaways: %s", n, head)
	return joinHead(headline, rest), []string{fmt.Sprintf("added a %d-item number to the headline", n)}
}

func prependHook(hook string) func(Input) (string, []string) {
	return func(in Input) (string, []string) {
		if strings.HasPrefix(strings.TrimSpace(in.Text), hook) {
			return in.Text, nil
		}
		return hook + "\n\n" + strings.TrimSpace(in.Text), []string{fmt.Sprintf("opened with %q", hook)}
	}
}

func statisticHook(in Input) (string, []string) {
	sentences := splitSentences(in.Text)
	for i, s := range sentences {
		if strings.IndexAny(s, "0123456789") < 0 {
			continue
		}
		if i == 0 {
			return in.Text, nil
		}
		rest := append(append([]string(nil), sentences[:i]...), sentences[i+1:]...)
		return s + "\n\n" + strings.Join(rest, " "), []string{"moved the statistic to the opening line"}
	}
	return in.Text, nil
}

func substitute(table [][2]string, firstSentencePunct string) func(Input) (string, []string) {
	return func(in Input) (string, []string) {
		text := in.Text
		var changes []string
		for _, pair := range table {
			var n int
			text, n = replaceWord(text, pair[0], pair[1])
			if n > 0 {
				changes = append(changes, fmt.Sprintf("replaced %q with %q", pair[0], pair[1]))
			}
		}
		if firstSentencePunct != "" && len(changes) > 0 {
			idx := strings.Index(text, ". ")
			if idx < 0 && strings.HasSuffix(text, ".") {
				idx = len(text) - 1
			}
			if idx > 0 {
				text = text[:idx] + firstSentencePunct + text[idx+1:]
				changes = append(changes, "ended the first sentence with "+firstSentencePunct)
			}
		}
		return text, changes
	}
}

func shorten(in Input) (string, []string) {
	sentences := splitSentences(in.Text)
	if len(sentences) < 3 {
		return in.Text, nil
	}
	keep := (len(sentences)*6 + 9) / 10
	budget := in.Platform.Rules().MaxChars
	out := truncateSentences(sentences[:keep], budget)
	return out, []string{fmt.Sprintf("kept %d of %d sentences", len(splitSentences(out)), len(sentences))}
}

func expand(in Input) (string, []string) {
	rules := in.Platform.Rules()
	if utf8.RuneCountInString(in.Text) >= rules.MaxChars {
		return in.Text, nil
	}
	sentences := splitSentences(in.Text)
	if len(sentences) == 0 {
		return in.Text, nil
	}
	addition := "Why it matters: " + lowerFirst(strings.TrimRight(sentences[0], ".!? ")) + " changes how we work."
	if utf8.RuneCountInString(in.Text)+len(addition)+2 > rules.HardLimit {
		return in.Text, nil
	}
	return strings.TrimSpace(in.Text) + "\n\n" + addition, []string{"added a why-it-matters line"}
}

func listify(in Input) (string, []string) {
	for _, line := range strings.Split(in.Text, "\n") {
		if listPrefix.MatchString(line) {
			return in.Text, nil
		}
	}
	sentences := splitSentences(in.Text)
	if len(sentences) < 3 {
		return in.Text, nil
	}
	var b strings.Builder
	b.WriteString(sentences[0])
	b.WriteString("\n")
	for _, s := range sentences[1:] {
		b.WriteString("\n- ")
		b.WriteString(s)
	}
	return b.String(), []string{fmt.Sprintf("turned %d sentences into a list", len(sentences)-1)}
}

func paragraphs(in Input) (string, []string) {
	var items, prose []string
	for _, line := range strings.Split(in.Text, "\n") {
		if listPrefix.MatchString(line) {
			items = append(items, strings.TrimSpace(listPrefix.ReplaceAllString(line, "")))
		} else if strings.TrimSpace(line) != "" {
			prose = append(prose, strings.TrimSpace(line))
		}
	}

	if len(items) > 0 {
		for i, item := range items {
			if !strings.HasSuffix(item, ".") && !strings.HasSuffix(item, "!") && !strings.HasSuffix(item, "?") {
				items[i] = item + "."
			}
		}
		return strings.Join(prose, "\n\n") + "\n\n" + strings.Join(items, " "), []string{fmt.Sprintf("merged %d list items into prose", len(items))}
	}

	sentences := splitSentences(in.Text)
	if len(sentences) < 4 {
		return in.Text, nil
	}
	var blocks []string
	for i := 0; i < len(sentences); i += 2 {
		end := i + 2
		if end > len(sentences) {
			end = len(sentences)
		}
		blocks = append(blocks, strings.Join(sentences[i:end], " "))
	}
	return strings.Join(blocks, "\n\n"), []string{fmt.Sprintf("split into %d short paragraphs", len(blocks))}
}

func appendCTA(in Input) (string, []string) {
	lower := strings.ToLower(in.Text)
	for _, marker := range []string{"comment", "share", "let me know", "what do you think", "reply", "dm me", "link in bio"} {
		if strings.Contains(lower, marker) {
			return in.Text, nil
		}
	}
	cta := in.Platform.Rules().CTA
	return strings.TrimSpace(in.Text) + "\n\n" + cta, []string{fmt.Sprintf("added %s call to action", in.Platform)}
}

func adaptToPlatform(in Input) (string, []string) {
	rules := in.Platform.Rules()
	text := strings.TrimSpace(in.Text)
	var changes []string

	existing := hashtagPattern.FindAllString(text, -1)
	if rules.RewardsHashtags && len(existing) < rules.MinHashtags {
		need := rules.MinHashtags - len(existing)
		have := map[string]bool{}
		for _, h := range existing {
			have[strings.ToLower(strings.TrimPrefix(h, "#"))] = true
		}
		var tags []string
		for _, kw := range keywords(text, need+len(existing)) {
			if have[kw] || len(tags) == need {
				continue
			}
			tags = append(tags, "#"+kw)
		}
		if len(tags) > 0 {
			text += "\n\n" + strings.Join(tags, " ")
			changes = append(changes, fmt.Sprintf("added hashtags %s", strings.Join(tags, " ")))
		}
	}

	if utf8.RuneCountInString(text) > rules.HardLimit {
		text = truncateSentences(splitSentences(text), rules.MaxChars)
		changes = append(changes, fmt.Sprintf("trimmed to fit the %d character %s limit", rules.HardLimit, in.Platform))
	}

	if len(changes) == 0 {
		return in.Text, nil
	}
	return text, changes
}

func audiencePrefix(in Input) (string, []string) {
	seg := in.Segment
	if seg == nil {
		return in.Text, nil
	}

	var who string
	switch {
	case seg.Demographic.Title != "":
		who = seg.Demographic.Title + "s"
	case seg.Demographic.Industry != "":
		who = seg.Demographic.Industry + " professionals"
	case seg.Name != "":
		who = seg.Name
	default:
		return in.Text, nil
	}

	prefix := fmt.Sprintf("For %s:", who)
	if strings.HasPrefix(in.Text, prefix) {
		return in.Text, nil
	}
	return prefix + " " + strings.TrimSpace(in.Text), []string{fmt.Sprintf("addressed %s directly", who)}
}

func joinHead(head, rest string) string {
	if strings.TrimSpace(rest) == "" {
		return head
	}
	return head + "\n" + rest
}
