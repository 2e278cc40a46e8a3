// internal/service/scoring/compliance.go

package scoring

import (
	"strings"

	"resonance/internal/domain/content"
	"resonance/internal/domain/resonance"
)

// CheckCompliance compares the text against the submission's brand profile
func CheckCompliance(sub content.Submission, f *Features) resonance.Compliance {
	brand := sub.Brand
	if brand == nil {
		return resonance.Compliance{}
	}

	c := resonance.Compliance{
		BrandChecked:       true,
		BrandKeywordsTotal: len(brand.Keywords),
	}

	for _, term := range brand.BannedTerms {
		if f.Contains(term) {
			c.BannedTermsFound = append(c.BannedTermsFound, term)
		}
	}

	for _, kw := range brand.Keywords {
		if !f.Contains(kw) {
			c.MissingKeywords = append(c.MissingKeywords, kw)
		}
	}

	if d := strings.TrimSpace(brand.RequiredDisclaimer); d != "" {
		c.MissingDisclaimer = !strings.Contains(strings.ToLower(f.Raw), strings.ToLower(d))
	}

	return c
}
