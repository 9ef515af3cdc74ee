package search

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glefebvre/cinescout/internal/catalog"
	"github.com/glefebvre/cinescout/internal/models"
	apptesting "github.com/glefebvre/cinescout/internal/testing"
)

type fakeCatalog struct {
	searches    map[string][]models.MovieSummary
	details     map[string]*models.MovieDetail
	searchCalls []string
	detailCalls []string
	lastOpts    catalog.SearchOptions
}

func (f *fakeCatalog) SearchByTerm(ctx context.Context, term string, opts catalog.SearchOptions) []models.MovieSummary {
	f.searchCalls = append(f.searchCalls, term)
	f.lastOpts = opts
	return f.searches[term]
}

func (f *fakeCatalog) FetchByID(ctx context.Context, imdbID string) *models.MovieDetail {
	f.detailCalls = append(f.detailCalls, imdbID)
	return f.details[imdbID]
}

func summary(id, title string) models.MovieSummary {
	return apptesting.MovieSummary(id, title)
}

func detail(id, title, rating, country, language string) *models.MovieDetail {
	return apptesting.MovieDetail(id, title, rating, apptesting.WithOrigin(country, language))
}

// testOptions disables pacing so runs complete instantly.
func testOptions() Options {
	return Options{
		SearchInterval: 0,
		DetailInterval: 0,
		MaxCandidates:  20,
		TopN:           10,
		ProxyTermCount: 3,
	}
}

func newTestPipeline(cat Catalog) *Pipeline {
	return NewPipeline(cat, NewDetailFetcher(cat, 0), testOptions())
}

func TestRunPlain(t *testing.T) {
	cat := &fakeCatalog{
		searches: map[string][]models.MovieSummary{
			"hacker": {summary("tt1", "Hackers"), summary("tt2", "Blackhat")},
		},
	}
	p := newTestPipeline(cat)

	outcome := p.Run(context.Background(), "hacker", models.DefaultFilterState())

	if outcome.Strategy != StrategyPlain {
		t.Errorf("expected plain strategy, got %s", outcome.Strategy)
	}
	if outcome.Err != nil {
		t.Fatalf("expected no error, got %v", outcome.Err)
	}
	if len(outcome.Movies) != 2 {
		t.Fatalf("expected 2 movies, got %d", len(outcome.Movies))
	}
	if outcome.Movies[0].Title != "Hackers" {
		t.Errorf("expected native order preserved, got '%s' first", outcome.Movies[0].Title)
	}
	if len(cat.detailCalls) != 0 {
		t.Errorf("plain search must not fetch details, fetched %d", len(cat.detailCalls))
	}
	if cat.lastOpts.Type != models.MediaTypeMovie {
		t.Errorf("expected type filter passed through, got '%s'", cat.lastOpts.Type)
	}
}

func TestRunPlainYearFilter(t *testing.T) {
	cat := &fakeCatalog{searches: map[string][]models.MovieSummary{
		"matrix": {summary("tt1", "The Matrix")},
	}}
	p := newTestPipeline(cat)

	filters := models.DefaultFilterState()
	filters.Year = "1999"
	p.Run(context.Background(), "matrix", filters)

	if cat.lastOpts.Year != "1999" {
		t.Errorf("expected year filter passed through, got '%s'", cat.lastOpts.Year)
	}
}

func TestRunEmptyOutcome(t *testing.T) {
	cat := &fakeCatalog{searches: map[string][]models.MovieSummary{}}
	p := newTestPipeline(cat)

	outcome := p.Run(context.Background(), "zzzzzzzz", models.DefaultFilterState())

	if outcome.Err == nil {
		t.Fatal("expected error for empty outcome")
	}
	if len(outcome.Movies) != 0 {
		t.Errorf("expected no movies, got %d", len(outcome.Movies))
	}
	want := `No movies found for "zzzzzzzz". Try a different search term.`
	if !strings.Contains(outcome.Err.Error(), want) {
		t.Errorf("expected error to contain %q, got %q", want, outcome.Err.Error())
	}
}

type panickingCatalog struct{}

func (panickingCatalog) SearchByTerm(ctx context.Context, term string, opts catalog.SearchOptions) []models.MovieSummary {
	panic("catalog blew up")
}

func (panickingCatalog) FetchByID(ctx context.Context, imdbID string) *models.MovieDetail {
	return nil
}

func TestRunRecoversPanic(t *testing.T) {
	cat := panickingCatalog{}
	p := NewPipeline(cat, NewDetailFetcher(cat, 0), testOptions())

	outcome := p.Run(context.Background(), "hacker", models.DefaultFilterState())

	if outcome.Err == nil {
		t.Fatal("expected an error outcome when a run panics")
	}
	if len(outcome.Movies) != 0 {
		t.Errorf("expected no movies, got %d", len(outcome.Movies))
	}
	if !strings.Contains(outcome.Err.Error(), `"hacker"`) {
		t.Errorf("expected the query in the error, got %q", outcome.Err.Error())
	}
}

func TestRunGenre(t *testing.T) {
	// Every sampled term returns the same overlapping set, so dedupe and
	// ranking are what shape the outcome.
	hits := []models.MovieSummary{
		summary("tt1", "Low"),
		summary("tt2", "High"),
		summary("tt3", "NoDetail"),
		summary("tt4", "Unrated"),
		summary("tt1", "Low"),
	}
	searches := make(map[string][]models.MovieSummary)
	for _, term := range popularSearchTerms["Horror"] {
		searches[term] = hits
	}
	cat := &fakeCatalog{
		searches: searches,
		details: map[string]*models.MovieDetail{
			"tt1": detail("tt1", "Low", "6.1", "United States", "English"),
			"tt2": detail("tt2", "High", "8.9", "United States", "English"),
			"tt4": detail("tt4", "Unrated", "N/A", "United States", "English"),
		},
	}
	p := newTestPipeline(cat)

	filters := models.DefaultFilterState()
	filters.Genre = "Horror"
	outcome := p.Run(context.Background(), "Horror", filters)

	if outcome.Strategy != StrategyGenre {
		t.Fatalf("expected genre strategy, got %s", outcome.Strategy)
	}
	if outcome.Err != nil {
		t.Fatalf("expected no error, got %v", outcome.Err)
	}
	if len(cat.searchCalls) != 3 {
		t.Errorf("expected 3 term searches, got %d", len(cat.searchCalls))
	}
	// tt3 has no detail record and is dropped; tt4's missing rating is
	// tolerated and ranks last.
	if len(outcome.Movies) != 3 {
		t.Fatalf("expected 3 movies, got %d", len(outcome.Movies))
	}
	if outcome.Movies[0].ImdbID != "tt2" || outcome.Movies[1].ImdbID != "tt1" || outcome.Movies[2].ImdbID != "tt4" {
		t.Errorf("unexpected ranking: %s, %s, %s",
			outcome.Movies[0].ImdbID, outcome.Movies[1].ImdbID, outcome.Movies[2].ImdbID)
	}
	if outcome.Movies[0].Genre != "Drama" {
		t.Errorf("expected enrichment to carry genre, got '%s'", outcome.Movies[0].Genre)
	}
}

func TestRunGenreDeduplicatesDetailFetches(t *testing.T) {
	searches := make(map[string][]models.MovieSummary)
	for _, term := range popularSearchTerms["Action"] {
		searches[term] = []models.MovieSummary{summary("tt1", "Same")}
	}
	cat := &fakeCatalog{
		searches: searches,
		details:  map[string]*models.MovieDetail{"tt1": detail("tt1", "Same", "7.0", "USA", "English")},
	}
	p := newTestPipeline(cat)

	filters := models.DefaultFilterState()
	filters.Genre = "Action"
	p.Run(context.Background(), "Action", filters)

	if len(cat.detailCalls) != 1 {
		t.Errorf("expected 1 detail fetch after dedupe, got %d", len(cat.detailCalls))
	}
}

func TestRunRegion(t *testing.T) {
	hits := []models.MovieSummary{
		summary("tt1", "Oldboy"),
		summary("tt2", "Seoul Station"),
		summary("tt3", "American Import"),
		summary("tt4", "Unrated Korean"),
		summary("tt5", "NoDetail"),
	}
	searches := make(map[string][]models.MovieSummary)
	for _, term := range []string{"Korea", "Seoul", "Korean"} {
		searches[term] = hits
	}
	cat := &fakeCatalog{
		searches: searches,
		details: map[string]*models.MovieDetail{
			"tt1": detail("tt1", "Oldboy", "8.4", "South Korea", "Korean"),
			"tt2": detail("tt2", "Seoul Station", "6.2", "South Korea", "Korean"),
			"tt3": detail("tt3", "American Import", "7.5", "United States", "English"),
			"tt4": detail("tt4", "Unrated Korean", "N/A", "South Korea", "Korean"),
		},
	}
	p := newTestPipeline(cat)

	filters := models.DefaultFilterState()
	filters.Region = "Korean"
	outcome := p.Run(context.Background(), "Korean Cinema", filters)

	if outcome.Strategy != StrategyRegion {
		t.Fatalf("expected region strategy, got %s", outcome.Strategy)
	}
	if outcome.Err != nil {
		t.Fatalf("expected no error, got %v", outcome.Err)
	}
	// tt3 classifies as Hollywood, tt4 has no rating, tt5 has no detail.
	if len(outcome.Movies) != 2 {
		t.Fatalf("expected 2 movies, got %d", len(outcome.Movies))
	}
	if outcome.Movies[0].ImdbID != "tt1" {
		t.Errorf("expected highest-rated Korean title first, got %s", outcome.Movies[0].ImdbID)
	}
	if len(cat.searchCalls) != 3 {
		t.Errorf("expected 3 proxy-term searches, got %d", len(cat.searchCalls))
	}
	if cat.searchCalls[0] != "Korea" {
		t.Errorf("expected first proxy term 'Korea', got '%s'", cat.searchCalls[0])
	}
}

func TestRunRegionCapsCandidates(t *testing.T) {
	var hits []models.MovieSummary
	details := make(map[string]*models.MovieDetail)
	for i := 0; i < 30; i++ {
		id := fmt.Sprintf("tt%04d", i)
		hits = append(hits, summary(id, "Movie"))
		details[id] = detail(id, "Movie", "7.0", "France", "French")
	}
	searches := map[string][]models.MovieSummary{
		"France": hits, "Paris": nil, "French": nil,
	}
	cat := &fakeCatalog{searches: searches, details: details}
	p := newTestPipeline(cat)

	filters := models.DefaultFilterState()
	filters.Region = "French"
	outcome := p.Run(context.Background(), "French Cinema", filters)

	if len(cat.detailCalls) != 20 {
		t.Errorf("expected detail fetches capped at 20, got %d", len(cat.detailCalls))
	}
	if len(outcome.Movies) != 10 {
		t.Errorf("expected top 10, got %d", len(outcome.Movies))
	}
}

func TestRunCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cat := &fakeCatalog{searches: map[string][]models.MovieSummary{}}
	p := NewPipeline(cat, NewDetailFetcher(cat, 0), Options{
		SearchInterval: 100 * time.Millisecond,
		DetailInterval: 100 * time.Millisecond,
		MaxCandidates:  20,
		TopN:           10,
		ProxyTermCount: 3,
	})

	filters := models.DefaultFilterState()
	filters.Genre = "Drama"
	outcome := p.Run(ctx, "Drama", filters)

	if outcome.Err == nil {
		t.Fatal("expected error for canceled context")
	}
	if len(outcome.Movies) != 0 {
		t.Errorf("expected no movies, got %d", len(outcome.Movies))
	}
}

func TestDetailFetcherCachesAcrossRuns(t *testing.T) {
	cat := &fakeCatalog{
		searches: map[string][]models.MovieSummary{
			"hacker": {summary("tt1", "Hackers")},
		},
		details: map[string]*models.MovieDetail{
			"tt1": detail("tt1", "Hackers", "6.3", "USA", "English"),
		},
	}
	fetcher := NewDetailFetcher(cat, 0)

	for i := 0; i < 3; i++ {
		if d := fetcher.Fetch(context.Background(), "tt1"); d == nil {
			t.Fatal("expected detail, got nil")
		}
	}
	if len(cat.detailCalls) != 1 {
		t.Errorf("expected 1 upstream fetch, got %d", len(cat.detailCalls))
	}
}

func TestDetailFetcherCachesAbsence(t *testing.T) {
	cat := &fakeCatalog{details: map[string]*models.MovieDetail{}}
	fetcher := NewDetailFetcher(cat, 0)

	for i := 0; i < 3; i++ {
		if d := fetcher.Fetch(context.Background(), "tt404"); d != nil {
			t.Fatal("expected nil detail")
		}
	}
	if len(cat.detailCalls) != 1 {
		t.Errorf("expected 1 upstream fetch for a dead id, got %d", len(cat.detailCalls))
	}
}
