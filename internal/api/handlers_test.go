package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/glefebvre/cinescout/internal/models"
	"github.com/glefebvre/cinescout/internal/search"
	"github.com/glefebvre/cinescout/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubRunner struct {
	outcome search.Outcome
}

func (r *stubRunner) Run(ctx context.Context, query string, filters models.FilterState) search.Outcome {
	return r.outcome
}

type stubDetailSource struct {
	details map[string]*models.MovieDetail
}

func (s *stubDetailSource) FetchByID(ctx context.Context, imdbID string) *models.MovieDetail {
	return s.details[imdbID]
}

type stubHistory struct {
	records []models.SearchRecord
	err     error
}

func (h *stubHistory) Recent(limit int) ([]models.SearchRecord, error) {
	if h.err != nil {
		return nil, h.err
	}
	if limit < len(h.records) {
		return h.records[:limit], nil
	}
	return h.records, nil
}

func (h *stubHistory) BySession(sessionID string, limit int) ([]models.SearchRecord, error) {
	if h.err != nil {
		return nil, h.err
	}
	var out []models.SearchRecord
	for _, rec := range h.records {
		if rec.SessionID == sessionID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func testServer(t *testing.T, opts ...Option) (*Server, *session.Manager) {
	t.Helper()
	runner := &stubRunner{outcome: search.Outcome{
		Strategy: search.StrategyPlain,
		Movies: []models.EnrichedMovie{
			{MovieSummary: models.MovieSummary{ImdbID: "tt1", Title: "High"}, Rating: "8.5"},
			{MovieSummary: models.MovieSummary{ImdbID: "tt2", Title: "Low"}, Rating: "5.5"},
		},
	}}
	manager := session.NewManager(runner, time.Millisecond, 0)
	t.Cleanup(func() { manager.Close() })

	source := &stubDetailSource{details: map[string]*models.MovieDetail{
		"tt0113243": {
			ImdbID:   "tt0113243",
			Title:    "Hackers",
			Year:     "1995",
			Type:     models.MediaTypeMovie,
			Rating:   "6.3",
			Released: "15 Sep 1995",
		},
	}}

	return NewServer(manager, source, opts...), manager
}

func doRequest(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func createTestSession(t *testing.T, s *Server) SessionResponse {
	t.Helper()
	w := doRequest(s, http.MethodPost, "/api/v1/sessions", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var resp SessionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

// waitForResults polls the session until its first run has applied.
func waitForResults(t *testing.T, s *Server, id string) SessionResponse {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		w := doRequest(s, http.MethodGet, "/api/v1/sessions/"+id, "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var resp SessionResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if !resp.IsLoading {
			return resp
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("session never finished loading")
	return SessionResponse{}
}

func TestCreateSession(t *testing.T) {
	s, _ := testServer(t)

	resp := createTestSession(t, s)
	if resp.ID == "" {
		t.Error("expected non-empty session id")
	}
	if resp.Query != session.DefaultQuery {
		t.Errorf("expected default query, got '%s'", resp.Query)
	}
	if resp.Filters.Type != "movie" || resp.Filters.Region != models.RegionAll {
		t.Errorf("expected default filters, got %+v", resp.Filters)
	}
	if !resp.IsLoading {
		t.Error("expected a fresh session to be loading")
	}
}

func TestGetSessionResults(t *testing.T) {
	s, _ := testServer(t)

	created := createTestSession(t, s)
	resp := waitForResults(t, s, created.ID)

	if len(resp.Movies) != 2 {
		t.Fatalf("expected 2 movies, got %d", len(resp.Movies))
	}
	if resp.Movies[0].ImdbID != "tt1" {
		t.Errorf("expected tt1 first, got %s", resp.Movies[0].ImdbID)
	}
	if resp.Strategy != "plain" {
		t.Errorf("expected plain strategy, got '%s'", resp.Strategy)
	}
}

func TestGetSessionMinRating(t *testing.T) {
	s, _ := testServer(t)

	created := createTestSession(t, s)
	waitForResults(t, s, created.ID)

	w := doRequest(s, http.MethodGet, "/api/v1/sessions/"+created.ID+"?min_rating=7", "")
	var resp SessionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Movies) != 1 || resp.Movies[0].ImdbID != "tt1" {
		t.Fatalf("expected only the highly rated movie, got %v", resp.Movies)
	}

	// The session itself keeps the full set.
	full := waitForResults(t, s, created.ID)
	if len(full.Movies) != 2 {
		t.Errorf("expected full result set without the param, got %d", len(full.Movies))
	}
}

func TestGetSessionMinRatingInvalid(t *testing.T) {
	s, _ := testServer(t)
	created := createTestSession(t, s)

	w := doRequest(s, http.MethodGet, "/api/v1/sessions/"+created.ID+"?min_rating=high", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestGetSessionNotFound(t *testing.T) {
	s, _ := testServer(t)

	w := doRequest(s, http.MethodGet, "/api/v1/sessions/unknown", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestUpdateQuery(t *testing.T) {
	s, _ := testServer(t)
	created := createTestSession(t, s)

	w := doRequest(s, http.MethodPut, "/api/v1/sessions/"+created.ID+"/query", `{"query":"matrix"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp SessionResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Query != "matrix" {
		t.Errorf("expected query 'matrix', got '%s'", resp.Query)
	}
	if !resp.IsLoading {
		t.Error("expected mutation to flip the session back to loading")
	}
}

func TestUpdateQueryMissingBody(t *testing.T) {
	s, _ := testServer(t)
	created := createTestSession(t, s)

	w := doRequest(s, http.MethodPut, "/api/v1/sessions/"+created.ID+"/query", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestUpdateFilters(t *testing.T) {
	s, _ := testServer(t)
	created := createTestSession(t, s)

	w := doRequest(s, http.MethodPut, "/api/v1/sessions/"+created.ID+"/filters", `{"year":"1999","type":"series"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp SessionResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Filters.Year != "1999" {
		t.Errorf("expected year '1999', got '%s'", resp.Filters.Year)
	}
	if resp.Filters.Type != "series" {
		t.Errorf("expected type 'series', got '%s'", resp.Filters.Type)
	}
	if resp.Filters.Region != models.RegionAll {
		t.Errorf("expected untouched region, got '%s'", resp.Filters.Region)
	}
}

func TestUpdateFiltersInvalidType(t *testing.T) {
	s, _ := testServer(t)
	created := createTestSession(t, s)

	w := doRequest(s, http.MethodPut, "/api/v1/sessions/"+created.ID+"/filters", `{"type":"documentary"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestSelectModeGenre(t *testing.T) {
	s, _ := testServer(t)
	created := createTestSession(t, s)

	w := doRequest(s, http.MethodPut, "/api/v1/sessions/"+created.ID+"/mode", `{"mode":"genre","value":"Horror"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp SessionResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Filters.Genre != "Horror" {
		t.Errorf("expected genre 'Horror', got '%s'", resp.Filters.Genre)
	}
	if resp.Query != "Horror" {
		t.Errorf("expected query 'Horror', got '%s'", resp.Query)
	}
}

func TestSelectModeInvalid(t *testing.T) {
	s, _ := testServer(t)
	created := createTestSession(t, s)

	w := doRequest(s, http.MethodPut, "/api/v1/sessions/"+created.ID+"/mode", `{"mode":"mood","value":"🤷 Unknown"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestDeleteSession(t *testing.T) {
	s, _ := testServer(t)
	created := createTestSession(t, s)

	w := doRequest(s, http.MethodDelete, "/api/v1/sessions/"+created.ID, "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	w = doRequest(s, http.MethodDelete, "/api/v1/sessions/"+created.ID, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 on second delete, got %d", w.Code)
	}
}

func TestGetMovie(t *testing.T) {
	s, _ := testServer(t)

	w := doRequest(s, http.MethodGet, "/api/v1/movies/tt0113243", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp MovieDetailResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Title != "Hackers" {
		t.Errorf("expected title 'Hackers', got '%s'", resp.Title)
	}
	if resp.Released != "15 Sep 1995" {
		t.Errorf("expected release date, got '%s'", resp.Released)
	}
}

func TestGetMovieNotFound(t *testing.T) {
	s, _ := testServer(t)

	w := doRequest(s, http.MethodGet, "/api/v1/movies/tt9999999", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestListRegions(t *testing.T) {
	s, _ := testServer(t)

	w := doRequest(s, http.MethodGet, "/api/v1/regions", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Regions []RegionResponse `json:"regions"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Regions) != 10 {
		t.Fatalf("expected 10 regions, got %d", len(resp.Regions))
	}
	if resp.Regions[0].Label != "Bollywood" {
		t.Errorf("expected 'Bollywood' first, got '%s'", resp.Regions[0].Label)
	}
	if resp.Regions[3].FullName != "🇰🇷 Korean" {
		t.Errorf("expected Korean full name, got '%s'", resp.Regions[3].FullName)
	}
}

func TestListMoods(t *testing.T) {
	s, _ := testServer(t)

	w := doRequest(s, http.MethodGet, "/api/v1/moods", "")
	var resp struct {
		Moods []MoodResponse `json:"moods"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Moods) != 10 {
		t.Fatalf("expected 10 moods, got %d", len(resp.Moods))
	}
	if resp.Moods[0].Name != "😄 Funny" {
		t.Errorf("expected '😄 Funny' first, got '%s'", resp.Moods[0].Name)
	}
}

func TestListGenres(t *testing.T) {
	s, _ := testServer(t)

	w := doRequest(s, http.MethodGet, "/api/v1/genres", "")
	var resp struct {
		Genres []string `json:"genres"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Genres) != 22 {
		t.Fatalf("expected 22 genres, got %d", len(resp.Genres))
	}
}

func TestListHistory(t *testing.T) {
	errText := "no movies"
	history := &stubHistory{records: []models.SearchRecord{
		{SessionID: "s1", Query: "hacker", Strategy: "plain", ResultCount: 10, DurationMs: 120, CreatedAt: time.Now()},
		{SessionID: "s2", Query: "Horror", Strategy: "genre", ErrorText: &errText, CreatedAt: time.Now()},
	}}
	s, _ := testServer(t, WithHistory(history))

	w := doRequest(s, http.MethodGet, "/api/v1/history", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		History []HistoryEntryResponse `json:"history"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.History) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(resp.History))
	}
	if resp.History[1].Error != "no movies" {
		t.Errorf("expected error text, got '%s'", resp.History[1].Error)
	}

	w = doRequest(s, http.MethodGet, "/api/v1/history?session_id=s1", "")
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.History) != 1 || resp.History[0].SessionID != "s1" {
		t.Errorf("expected only s1 records, got %v", resp.History)
	}
}

func TestListHistoryDisabled(t *testing.T) {
	s, _ := testServer(t)

	w := doRequest(s, http.MethodGet, "/api/v1/history", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 when history is disabled, got %d", w.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	s, _ := testServer(t, WithHealthChecker("database", func() error { return nil }))

	w := doRequest(s, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestHealthCheckUnhealthy(t *testing.T) {
	s, _ := testServer(t, WithHealthChecker("database", func() error { return errPing }))

	w := doRequest(s, http.MethodGet, "/health", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", w.Code)
	}
}

func TestRequestIDHeader(t *testing.T) {
	s, _ := testServer(t)

	w := doRequest(s, http.MethodGet, "/health", "")
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header on response")
	}
}

var errPing = &pingError{}

type pingError struct{}

func (*pingError) Error() string { return "ping failed" }
