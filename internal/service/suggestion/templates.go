// internal/service/suggestion/templates.go

package suggestion

import (
	"resonance/internal/domain/resonance"
)

// template binds a component sub-factor threshold to a recommendation
type template struct {
	component resonance.Component
	factor    string
	threshold float64
	title     string
	summary   string
	category  resonance.Category
	effort    int
	actions   []string
	// critical marks the suggestion critical when the factor bottoms out
	criticalAtZero bool
}

// templates is the recommendation library for each optimization type
var templates = map[resonance.OptimizationType][]template{
	resonance.OptimizeEngagement: {
		{
			component: resonance.ComponentBehavioral, factor: "engagement_triggers", threshold: 0.6,
			title:   "Add an engagement prompt",
			summary: "The audience is inclined to interact but the content gives them nothing to respond to.",
			category: resonance.CategoryEngagement, effort: 1,
			actions: []string{"End with a direct question", "Invite readers to share their experience"},
		},
		{
			component: resonance.ComponentPlatform, factor: "hook", threshold: 0.6,
			title:   "Strengthen the opening hook",
			summary: "The first line decides whether readers expand the post.",
			category: resonance.CategoryEngagement, effort: 2,
			actions: []string{"Open with a question or a surprising number", "Keep the first line short"},
		},
		{
			component: resonance.ComponentBehavioral, factor: "content_preference", threshold: 0.5,
			title:   "Match the audience's preferred formats",
			summary: "The content format differs from what this audience usually engages with.",
			category: resonance.CategoryStructure, effort: 3,
			actions: []string{"Restructure as a how-to or list", "Back claims with concrete data"},
		},
		{
			component: resonance.ComponentPsychographic, factor: "value_alignment", threshold: 0.5,
			title:   "Reflect the audience's values",
			summary: "Nothing in the text connects to what this audience cares about.",
			category: resonance.CategoryLanguage, effort: 2,
			actions: []string{"Name the value the message serves", "Use the audience's own vocabulary"},
		},
		{
			component: resonance.ComponentPsychographic, factor: "motivation_appeal", threshold: 0.5,
			title:   "Appeal to audience motivations",
			summary: "The content does not speak to why this audience would act.",
			category: resonance.CategoryLanguage, effort: 2,
			actions: []string{"State the concrete benefit for the reader"},
		},
		{
			component: resonance.ComponentPsychographic, factor: "style_fit", threshold: 0.5,
			title:   "Adjust tone to the audience's style",
			summary: "The tone does not match how this audience communicates.",
			category: resonance.CategoryLanguage, effort: 2,
			actions: []string{"Rewrite in the audience's register", "Remove phrasing that clashes with it"},
		},
	},
	resonance.OptimizeReadability: {
		{
			component: resonance.ComponentComplexity, factor: "readability", threshold: 0.6,
			title:   "Simplify the language",
			summary: "Reading ease is outside the range that suits this audience.",
			category: resonance.CategoryLanguage, effort: 3,
			actions: []string{"Prefer short common words", "Cut qualifiers and filler"},
		},
		{
			component: resonance.ComponentComplexity, factor: "sentence_length", threshold: 0.6,
			title:   "Reduce sentence length",
			summary: "Long sentences slow readers down on social feeds.",
			category: resonance.CategoryStructure, effort: 2,
			actions: []string{"Split sentences longer than 20 words", "One idea per sentence"},
		},
		{
			component: resonance.ComponentComplexity, factor: "vocabulary", threshold: 0.6,
			title:   "Replace complex words",
			summary: "A high share of long words makes the text feel dense.",
			category: resonance.CategoryLanguage, effort: 2,
			actions: []string{"Swap jargon for plain alternatives"},
		},
		{
			component: resonance.ComponentComplexity, factor: "structure", threshold: 0.6,
			title:   "Break up long paragraphs",
			summary: "Dense blocks of text are skipped.",
			category: resonance.CategoryStructure, effort: 1,
			actions: []string{"Add line breaks every two or three sentences", "Use a short list for key points"},
		},
	},
	resonance.OptimizePlatform: {
		{
			component: resonance.ComponentPlatform, factor: "length", threshold: 0.5,
			title:   "Adjust length for the platform",
			summary: "The content length is outside what performs on the target platform.",
			category: resonance.CategoryPlatform, effort: 2,
			actions:        []string{"Trim or expand to the platform's preferred range"},
			criticalAtZero: true,
		},
		{
			component: resonance.ComponentPlatform, factor: "hashtags", threshold: 0.6,
			title:   "Use the right number of hashtags",
			summary: "Hashtag usage does not match platform conventions.",
			category: resonance.CategoryPlatform, effort: 1,
			actions: []string{"Add or remove hashtags to reach the platform's sweet spot"},
		},
		{
			component: resonance.ComponentPlatform, factor: "format", threshold: 0.6,
			title:   "Format for the platform",
			summary: "Line breaks and emoji usage do not match platform norms.",
			category: resonance.CategoryPlatform, effort: 1,
			actions: []string{"Use short paragraphs", "Match emoji usage to the platform"},
		},
		{
			component: resonance.ComponentPlatform, factor: "audience_platform", threshold: 0.5,
			title:   "Reconsider the target platform",
			summary: "This audience is not very active on the chosen platform.",
			category: resonance.CategoryTargeting, effort: 4,
			actions: []string{"Publish where the audience spends time"},
		},
	},
	resonance.OptimizeTargeting: {
		{
			component: resonance.ComponentDemographic, factor: "industry_relevance", threshold: 0.5,
			title:   "Reference the audience's industry",
			summary: "The content does not signal relevance to the audience's industry.",
			category: resonance.CategoryTargeting, effort: 2,
			actions: []string{"Add an industry-specific example", "Use industry terminology"},
		},
		{
			component: resonance.ComponentDemographic, factor: "experience_fit", threshold: 0.5,
			title:   "Pitch for the audience's experience level",
			summary: "Depth and vocabulary do not suit the audience's seniority.",
			category: resonance.CategoryTargeting, effort: 3,
			actions: []string{"Adjust depth to the audience's seniority"},
		},
		{
			component: resonance.ComponentDemographic, factor: "title_relevance", threshold: 0.5,
			title:   "Speak to the audience's role",
			summary: "Readers cannot see how this applies to their job.",
			category: resonance.CategoryTargeting, effort: 2,
			actions: []string{"Address the role directly", "Mention a problem the role owns"},
		},
		{
			component: resonance.ComponentPsychographic, factor: "interest_overlap", threshold: 0.5,
			title:   "Connect to audience interests",
			summary: "The topic does not touch the audience's stated interests.",
			category: resonance.CategoryTargeting, effort: 2,
			actions: []string{"Tie the message to a topic the audience follows"},
		},
		{
			component: resonance.ComponentBehavioral, factor: "length_fit", threshold: 0.5,
			title:   "Match the preferred content length",
			summary: "The audience prefers a different length of content.",
			category: resonance.CategoryStructure, effort: 3,
			actions: []string{"Shorten or expand toward the preferred length"},
		},
	},
	resonance.OptimizeTiming: {
		{
			component: resonance.ComponentTemporal, factor: "posting_hour", threshold: 0.6,
			title:   "Schedule for peak activity hours",
			summary: "The planned posting time misses when the audience is active.",
			category: resonance.CategoryTiming, effort: 1,
			actions: []string{"Reschedule to the audience's peak hours"},
		},
		{
			component: resonance.ComponentTemporal, factor: "posting_day", threshold: 0.6,
			title:   "Post on a stronger day",
			summary: "Engagement on this platform is weaker on the chosen day.",
			category: resonance.CategoryTiming, effort: 1,
			actions: []string{"Move the post to midweek"},
		},
		{
			component: resonance.ComponentTemporal, factor: "freshness", threshold: 0.5,
			title:   "Add a timely angle",
			summary: "Nothing anchors the content to the current moment.",
			category: resonance.CategoryTiming, effort: 2,
			actions: []string{"Reference a recent event or this week's news"},
		},
	},
}
