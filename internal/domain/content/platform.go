// internal/domain/content/platform.go

package content

// PlatformRules describes the formatting conventions of a platform
type PlatformRules struct {
	MinChars          int
	MaxChars          int
	HardLimit         int
	MinHashtags       int
	MaxHashtags       int
	RewardsHashtags   bool
	PrefersLineBreaks bool
	PrefersEmoji      bool
	HookChars         int
	CTA               string
}

var platformRules = map[Platform]PlatformRules{
	PlatformLinkedIn: {
		MinChars: 150, MaxChars: 1300, HardLimit: 3000,
		MinHashtags: 3, MaxHashtags: 5, RewardsHashtags: true,
		PrefersLineBreaks: true, HookChars: 150,
		CTA: "What's your experience with this? Share your thoughts in the comments.",
	},
	PlatformTwitter: {
		MinChars: 70, MaxChars: 240, HardLimit: 280,
		MinHashtags: 1, MaxHashtags: 2, RewardsHashtags: true,
		HookChars: 100,
		CTA: "Thoughts? Reply below.",
	},
	PlatformFacebook: {
		MinChars: 40, MaxChars: 400, HardLimit: 63206,
		MinHashtags: 0, MaxHashtags: 2,
		PrefersEmoji: true, HookChars: 120,
		CTA: "Let us know what you think in the comments!",
	},
	PlatformInstagram: {
		MinChars: 138, MaxChars: 1500, HardLimit: 2200,
		MinHashtags: 5, MaxHashtags: 15, RewardsHashtags: true,
		PrefersLineBreaks: true, PrefersEmoji: true, HookChars: 125,
		CTA: "Double tap if you agree and tag someone who needs to see this.",
	},
	PlatformGeneral: {
		MinChars: 100, MaxChars: 2000, HardLimit: 10000,
		MinHashtags: 0, MaxHashtags: 3,
		HookChars: 150,
		CTA: "Let me know what you think.",
	},
}

// Rules returns the formatting rules for the platform, falling back to general
func (p Platform) Rules() PlatformRules {
	if r, ok := platformRules[p]; ok {
		return r
	}
	return platformRules[PlatformGeneral]
}
