package models

// RegionAll is the sentinel meaning "no regional filter"
const RegionAll = "All"

// FilterState holds the active search filters for a session. Region and
// genre/mood exclusivity is enforced by the session controller's mode
// transition, not here.
type FilterState struct {
	Genre     string    `json:"genre"`
	Year      string    `json:"year"`
	Type      MediaType `json:"type"`
	MinRating string    `json:"min_rating"`
	Mood      string    `json:"mood"`
	Region    string    `json:"region"`
}

// DefaultFilterState returns the filters a fresh session starts with
func DefaultFilterState() FilterState {
	return FilterState{
		Type:   MediaTypeMovie,
		Region: RegionAll,
	}
}

// HasRegion reports whether a regional filter is active
func (f FilterState) HasRegion() bool {
	return f.Region != "" && f.Region != RegionAll
}

// FilterPatch is a partial FilterState update; nil fields are left untouched
type FilterPatch struct {
	Genre     *string    `json:"genre,omitempty"`
	Year      *string    `json:"year,omitempty"`
	Type      *MediaType `json:"type,omitempty"`
	MinRating *string    `json:"min_rating,omitempty"`
	Mood      *string    `json:"mood,omitempty"`
	Region    *string    `json:"region,omitempty"`
}

// Apply returns a copy of f with the patch's non-nil fields applied
func (p FilterPatch) Apply(f FilterState) FilterState {
	if p.Genre != nil {
		f.Genre = *p.Genre
	}
	if p.Year != nil {
		f.Year = *p.Year
	}
	if p.Type != nil {
		f.Type = *p.Type
	}
	if p.MinRating != nil {
		f.MinRating = *p.MinRating
	}
	if p.Mood != nil {
		f.Mood = *p.Mood
	}
	if p.Region != nil {
		f.Region = *p.Region
	}
	return f
}
