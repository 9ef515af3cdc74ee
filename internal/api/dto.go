package api

import (
	"time"

	"github.com/glefebvre/cinescout/internal/models"
	"github.com/glefebvre/cinescout/internal/session"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// MovieResponse represents one entry in a session's result set
type MovieResponse struct {
	ImdbID   string `json:"imdb_id"`
	Title    string `json:"title"`
	Year     string `json:"year"`
	Type     string `json:"type"`
	Poster   string `json:"poster,omitempty"`
	Rating   string `json:"rating,omitempty"`
	Genre    string `json:"genre,omitempty"`
	Plot     string `json:"plot,omitempty"`
	Country  string `json:"country,omitempty"`
	Language string `json:"language,omitempty"`
}

// FiltersResponse mirrors the session filter state
type FiltersResponse struct {
	Genre     string `json:"genre"`
	Year      string `json:"year"`
	Type      string `json:"type"`
	MinRating string `json:"min_rating"`
	Mood      string `json:"mood"`
	Region    string `json:"region"`
}

// SessionResponse is the published state of a session
type SessionResponse struct {
	ID        string          `json:"id"`
	Query     string          `json:"query"`
	Filters   FiltersResponse `json:"filters"`
	Strategy  string          `json:"strategy,omitempty"`
	Movies    []MovieResponse `json:"movies"`
	IsLoading bool            `json:"is_loading"`
	Error     string          `json:"error,omitempty"`
}

// MovieDetailResponse is the full record for a single title
type MovieDetailResponse struct {
	MovieResponse
	Released string `json:"released,omitempty"`
}

// RegionResponse describes one curated region
type RegionResponse struct {
	Label       string `json:"label"`
	Emoji       string `json:"emoji"`
	Description string `json:"description"`
	FullName    string `json:"full_name"`
}

// MoodResponse describes one mood and its genre candidates
type MoodResponse struct {
	Name   string   `json:"name"`
	Genres []string `json:"genres"`
}

// HistoryEntryResponse is one recorded search run
type HistoryEntryResponse struct {
	SessionID   string `json:"session_id"`
	Query       string `json:"query"`
	Strategy    string `json:"strategy"`
	ResultCount int    `json:"result_count"`
	DurationMs  int64  `json:"duration_ms"`
	Error       string `json:"error,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// UpdateQueryRequest replaces a session's free-text query
type UpdateQueryRequest struct {
	Query *string `json:"query" binding:"required"`
}

// UpdateFiltersRequest is a partial filter update; absent fields keep
// their current value
type UpdateFiltersRequest struct {
	Genre     *string `json:"genre,omitempty"`
	Year      *string `json:"year,omitempty"`
	Type      *string `json:"type,omitempty"`
	MinRating *string `json:"min_rating,omitempty"`
	Mood      *string `json:"mood,omitempty"`
	Region    *string `json:"region,omitempty"`
}

// SelectModeRequest triggers one of the named filter transitions
type SelectModeRequest struct {
	Mode  string `json:"mode" binding:"required"`
	Value string `json:"value"`
}

func toMovieResponse(m models.EnrichedMovie) MovieResponse {
	return MovieResponse{
		ImdbID:   m.ImdbID,
		Title:    m.Title,
		Year:     m.Year,
		Type:     string(m.Type),
		Poster:   m.Poster,
		Rating:   m.Rating,
		Genre:    m.Genre,
		Plot:     m.Plot,
		Country:  m.Country,
		Language: m.Language,
	}
}

func toSessionResponse(id string, snap session.Snapshot) SessionResponse {
	movies := make([]MovieResponse, 0, len(snap.Movies))
	for _, m := range snap.Movies {
		movies = append(movies, toMovieResponse(m))
	}

	resp := SessionResponse{
		ID:    id,
		Query: snap.Query,
		Filters: FiltersResponse{
			Genre:     snap.Filters.Genre,
			Year:      snap.Filters.Year,
			Type:      string(snap.Filters.Type),
			MinRating: snap.Filters.MinRating,
			Mood:      snap.Filters.Mood,
			Region:    snap.Filters.Region,
		},
		Strategy:  string(snap.Strategy),
		Movies:    movies,
		IsLoading: snap.IsLoading,
	}
	if snap.Err != nil {
		resp.Error = snap.Err.Error()
	}
	return resp
}

func toDetailResponse(d *models.MovieDetail) MovieDetailResponse {
	return MovieDetailResponse{
		MovieResponse: MovieResponse{
			ImdbID:   d.ImdbID,
			Title:    d.Title,
			Year:     d.Year,
			Type:     string(d.Type),
			Poster:   d.Poster,
			Rating:   d.Rating,
			Genre:    d.Genre,
			Plot:     d.Plot,
			Country:  d.Country,
			Language: d.Language,
		},
		Released: d.Released,
	}
}

func toHistoryResponse(records []models.SearchRecord) []HistoryEntryResponse {
	out := make([]HistoryEntryResponse, 0, len(records))
	for _, rec := range records {
		entry := HistoryEntryResponse{
			SessionID:   rec.SessionID,
			Query:       rec.Query,
			Strategy:    rec.Strategy,
			ResultCount: rec.ResultCount,
			DurationMs:  rec.DurationMs,
			CreatedAt:   rec.CreatedAt.Format(time.RFC3339),
		}
		if rec.ErrorText != nil {
			entry.Error = *rec.ErrorText
		}
		out = append(out, entry)
	}
	return out
}
