// internal/service/scoring/demographic.go

package scoring

import (
	"context"
	"fmt"
	"strings"

	"resonance/internal/domain/resonance"
)

// DemographicAnalyzer scores how well content speaks to who the audience is
type DemographicAnalyzer struct{}

// Component implements Analyzer
func (DemographicAnalyzer) Component() resonance.Component {
	return resonance.ComponentDemographic
}

// Analyze implements Analyzer
func (DemographicAnalyzer) Analyze(ctx context.Context, in Input) (resonance.ComponentScore, error) {
	if err := ctx.Err(); err != nil {
		return resonance.ComponentScore{}, err
	}

	f := in.Features
	d := in.Segment.Demographic
	var notes []string

	// Industry
	industry, industryDetail := neutral, "no industry on profile"
	if key := norm(d.Industry); key != "" {
		terms := append([]string{key}, industryTerms[key]...)
		matched := f.MatchedTerms(terms)
		industry = overlap(f, terms, 3)
		industryDetail = fmt.Sprintf("%d %s terms", len(matched), key)
		if len(matched) == 0 {
			notes = append(notes, fmt.Sprintf("content does not reference the %s industry", key))
		}
	}

	// Experience
	experience, experienceDetail := neutral, "no experience level on profile"
	if level, ok := experienceAliases[norm(d.ExperienceLevel)]; ok {
		p := experienceProfiles[level]
		vocab := overlap(f, p.terms, 2)
		grade := rangeFit(f.GradeLevel, 0, p.maxGrade, 4)
		experience = 0.6*vocab + 0.4*grade
		experienceDetail = fmt.Sprintf("%s level, grade %.1f", level, f.GradeLevel)
		if grade < 0.5 {
			notes = append(notes, fmt.Sprintf("reading level is high for a %s audience", level))
		}
	} else if d.ExperienceLevel != "" {
		experienceDetail = "unrecognized experience level"
	}

	// Age
	age, ageDetail := neutral, "no age group on profile"
	if group, ok := ageAliases[norm(d.AgeGroup)]; ok {
		hits := f.CountTerms(ageTerms[group])
		age = clamp(0.5 + 0.15*float64(hits))
		ageDetail = fmt.Sprintf("%d %s cues", hits, group)
	}

	// Title
	title, titleDetail := neutral, "no title on profile"
	if d.Title != "" {
		terms := titleTerms(d.Title)
		title = overlap(f, terms, 2)
		titleDetail = fmt.Sprintf("%d of %d role terms", f.CountTerms(terms), len(terms))
	}

	// Location
	location, locationDetail := neutral, "no location on profile"
	if loc := norm(d.Location); loc != "" {
		location = 0.55
		locationDetail = "location not mentioned"
		if f.Contains(loc) {
			location = 0.9
			locationDetail = "location mentioned"
		}
	}

	parts := []weighted{
		sub("industry_relevance", industry, 0.35, industryDetail),
		sub("experience_fit", experience, 0.25, experienceDetail),
		sub("age_fit", age, 0.15, ageDetail),
		sub("title_relevance", title, 0.15, titleDetail),
		sub("location_relevance", location, 0.10, locationDetail),
	}

	confidence := completeness(
		d.AgeGroup != "",
		d.Industry != "",
		d.ExperienceLevel != "",
		d.Location != "",
		d.Title != "",
	)

	return combine(resonance.ComponentDemographic, parts, confidence, notes), nil
}

// titleTerms derives vocabulary from a job title: its words plus role lexicon entries
func titleTerms(title string) []string {
	var terms []string
	for _, w := range tokenize(title) {
		if len(w) >= 4 || roleTerms[w] != nil {
			terms = append(terms, w)
		}
		terms = append(terms, roleTerms[w]...)
	}
	if len(terms) == 0 {
		terms = []string{strings.ToLower(title)}
	}
	return terms
}
