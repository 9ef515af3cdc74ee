package region

import (
	"strings"

	"github.com/glefebvre/cinescout/internal/models"
)

// Label represents a cinema-of-origin classification
type Label string

const (
	Bollywood     Label = "Bollywood"
	Hollywood     Label = "Hollywood"
	British       Label = "British"
	Korean        Label = "Korean"
	Japanese      Label = "Japanese"
	French        Label = "French"
	German        Label = "German"
	Spanish       Label = "Spanish"
	Italian       Label = "Italian"
	Chinese       Label = "Chinese"
	Australian    Label = "Australian"
	Canadian      Label = "Canadian"
	Brazilian     Label = "Brazilian"
	Russian       Label = "Russian"
	International Label = "International"
	Unknown       Label = "Unknown"
)

// rule is one classification entry; the first matching rule wins
type rule struct {
	label     Label
	countries []string
	languages []string
	titles    []string
	// countryExcludes suppresses the language match when the country
	// contains one of these; Hollywood uses it so British
	// English-language films fall through to the British rule
	countryExcludes []string
}

// rules are evaluated in fixed priority order
var rules = []rule{
	{
		label:     Bollywood,
		countries: []string{"india"},
		languages: []string{"hindi", "tamil", "telugu", "malayalam", "kannada", "bengali"},
		titles:    []string{"bollywood"},
	},
	{
		label:           Hollywood,
		countries:       []string{"usa", "united states"},
		languages:       []string{"english"},
		countryExcludes: []string{"uk", "britain"},
	},
	{
		label:     British,
		countries: []string{"uk", "britain", "england"},
	},
	{
		label:     Korean,
		countries: []string{"korea", "south korea"},
		languages: []string{"korean"},
	},
	{
		label:     Japanese,
		countries: []string{"japan"},
		languages: []string{"japanese"},
	},
	{
		label:     French,
		countries: []string{"france"},
		languages: []string{"french"},
	},
	{
		label:     German,
		countries: []string{"germany"},
		languages: []string{"german"},
	},
	{
		label:     Spanish,
		countries: []string{"spain", "mexico"},
		languages: []string{"spanish"},
	},
	{
		label:     Italian,
		countries: []string{"italy"},
		languages: []string{"italian"},
	},
	{
		label:     Chinese,
		countries: []string{"china", "hong kong", "taiwan"},
		languages: []string{"chinese", "mandarin", "cantonese"},
	},
	{
		label:     Australian,
		countries: []string{"australia", "australian"},
	},
	{
		label:     Canadian,
		countries: []string{"canada", "canadian"},
	},
	{
		label:     Brazilian,
		countries: []string{"brazil"},
		languages: []string{"portuguese"},
	},
	{
		label:     Russian,
		countries: []string{"russia", "soviet"},
		languages: []string{"russian"},
	},
}

// Classify maps a movie's country, language and title strings to a
// region label. Case-insensitive substring matching, total: a nil movie
// yields Unknown, a movie with no classifiable fields yields
// International. It never fails.
func Classify(m *models.MovieSummary) Label {
	if m == nil {
		return Unknown
	}

	country := strings.ToLower(m.Country)
	language := strings.ToLower(m.Language)
	title := strings.ToLower(m.Title)

	for _, r := range rules {
		if r.matches(country, language, title) {
			return r.label
		}
	}
	return International
}

// ClassifyEnriched classifies an enriched movie through its summary fields
func ClassifyEnriched(m *models.EnrichedMovie) Label {
	if m == nil {
		return Unknown
	}
	return Classify(&m.MovieSummary)
}

func (r rule) matches(country, language, title string) bool {
	for _, c := range r.countries {
		if strings.Contains(country, c) {
			return true
		}
	}
	for _, l := range r.languages {
		if strings.Contains(language, l) {
			if r.excludedBy(country) {
				continue
			}
			return true
		}
	}
	for _, t := range r.titles {
		if strings.Contains(title, t) {
			return true
		}
	}
	return false
}

func (r rule) excludedBy(country string) bool {
	for _, e := range r.countryExcludes {
		if strings.Contains(country, e) {
			return true
		}
	}
	return false
}

// Parse returns the label matching s, or false when s names no known label
func Parse(s string) (Label, bool) {
	for _, r := range rules {
		if string(r.label) == s {
			return r.label, true
		}
	}
	switch Label(s) {
	case International, Unknown:
		return Label(s), true
	}
	return "", false
}
