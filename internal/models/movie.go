package models

import "strconv"

// MediaType is the closed set of media types the catalog understands
type MediaType string

const (
	MediaTypeMovie   MediaType = "movie"
	MediaTypeSeries  MediaType = "series"
	MediaTypeEpisode MediaType = "episode"
)

// NotAvailable is the catalog's sentinel for missing field values
// (ratings, posters, plots all use it)
const NotAvailable = "N/A"

// MovieSummary is the partial record returned by a search-by-term call.
// Country and Language are only populated once a detail fetch has been
// merged in; the catalog's search endpoint does not return them.
type MovieSummary struct {
	ImdbID   string    `json:"imdbID"`
	Title    string    `json:"title"`
	Year     string    `json:"year"`
	Type     MediaType `json:"type"`
	Poster   string    `json:"poster"`
	Country  string    `json:"country,omitempty"`
	Language string    `json:"language,omitempty"`
}

// MovieDetail is the full record returned by a fetch-by-id call
type MovieDetail struct {
	ImdbID   string    `json:"imdbID"`
	Title    string    `json:"title"`
	Year     string    `json:"year"`
	Type     MediaType `json:"type"`
	Poster   string    `json:"poster"`
	Country  string    `json:"country"`
	Language string    `json:"language"`
	Rating   string    `json:"rating"` // "N/A" when the catalog has none
	Genre    string    `json:"genre"`  // comma-joined multi-value
	Plot     string    `json:"plot"`
	Released string    `json:"released"`
}

// HasRating reports whether the catalog supplied a usable rating
func (d *MovieDetail) HasRating() bool {
	return d.Rating != "" && d.Rating != NotAvailable
}

// EnrichedMovie is a summary merged with the rating/genre/plot and
// country/language fields of its corresponding detail record. This is
// the unit the pipeline ranks and publishes.
type EnrichedMovie struct {
	MovieSummary
	Rating string `json:"rating"`
	Genre  string `json:"genre"`
	Plot   string `json:"plot"`
}

// RatingValue parses the rating as a float, treating missing or
// unparsable values as 0 so they sort last
func (m *EnrichedMovie) RatingValue() float64 {
	v, err := strconv.ParseFloat(m.Rating, 64)
	if err != nil {
		return 0
	}
	return v
}

// Enrich merges detail fields into a summary. Summary fields win where
// both sides carry a value; the detail only fills what the search
// endpoint never returns.
func Enrich(summary MovieSummary, detail *MovieDetail) EnrichedMovie {
	enriched := EnrichedMovie{MovieSummary: summary}
	if detail == nil {
		return enriched
	}
	enriched.Rating = detail.Rating
	enriched.Genre = detail.Genre
	enriched.Plot = detail.Plot
	enriched.Country = detail.Country
	enriched.Language = detail.Language
	return enriched
}
