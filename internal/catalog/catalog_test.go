package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glefebvre/cinescout/internal/models"
)

func TestNewClientDefaults(t *testing.T) {
	client := NewClient(Config{APIKey: "test-key"})

	if client == nil {
		t.Fatal("expected client to be created")
	}
	if client.baseURL != defaultBaseURL {
		t.Errorf("expected base URL '%s', got '%s'", defaultBaseURL, client.baseURL)
	}
	if client.httpClient.Timeout != defaultTimeout {
		t.Errorf("expected default timeout %v, got %v", defaultTimeout, client.httpClient.Timeout)
	}
	if client.retryCfg.MaxAttempts != 3 {
		t.Errorf("expected 3 retry attempts, got %d", client.retryCfg.MaxAttempts)
	}
}

func TestSearchByTerm(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if query.Get("s") != "hacker" {
			t.Errorf("expected search term 'hacker', got '%s'", query.Get("s"))
		}
		if query.Get("type") != "movie" {
			t.Errorf("expected type 'movie', got '%s'", query.Get("type"))
		}
		if query.Get("apikey") != "test-key" {
			t.Errorf("expected apikey 'test-key', got '%s'", query.Get("apikey"))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"Response": "True",
			"totalResults": "2",
			"Search": [
				{"imdbID": "tt0113243", "Title": "Hackers", "Year": "1995", "Type": "movie", "Poster": "https://example.com/hackers.jpg"},
				{"imdbID": "tt0133093", "Title": "The Matrix", "Year": "1999", "Type": "movie", "Poster": "https://example.com/matrix.jpg"}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})

	results := client.SearchByTerm(context.Background(), "hacker", SearchOptions{Type: models.MediaTypeMovie})
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].ImdbID != "tt0113243" {
		t.Errorf("expected imdbID 'tt0113243', got '%s'", results[0].ImdbID)
	}
	if results[0].Title != "Hackers" {
		t.Errorf("expected title 'Hackers', got '%s'", results[0].Title)
	}
	if results[1].Type != models.MediaTypeMovie {
		t.Errorf("expected type 'movie', got '%s'", results[1].Type)
	}
}

func TestSearchByTermYearFilter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("y") != "1999" {
			t.Errorf("expected year '1999', got '%s'", r.URL.Query().Get("y"))
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"Response": "True", "Search": [{"imdbID": "tt0133093", "Title": "The Matrix", "Year": "1999", "Type": "movie"}]}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})

	results := client.SearchByTerm(context.Background(), "matrix", SearchOptions{Year: "1999"})
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
}

func TestSearchByTermNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"Response": "False", "Error": "Movie not found!"}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})

	results := client.SearchByTerm(context.Background(), "zzzzzzzz", SearchOptions{})
	if results != nil {
		t.Errorf("expected nil results for not found, got %v", results)
	}
}

func TestSearchByTermServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`boom`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL, RetryAttempts: 1})

	results := client.SearchByTerm(context.Background(), "hacker", SearchOptions{})
	if results != nil {
		t.Errorf("expected nil results on server error, got %v", results)
	}
}

func TestSearchByTermUnreachable(t *testing.T) {
	client := NewClient(Config{
		APIKey:        "test-key",
		BaseURL:       "http://127.0.0.1:1",
		Timeout:       500 * time.Millisecond,
		RetryAttempts: 1,
	})

	results := client.SearchByTerm(context.Background(), "hacker", SearchOptions{})
	if results != nil {
		t.Errorf("expected nil results when catalog is unreachable, got %v", results)
	}
}

func TestFetchByID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("i") != "tt0113243" {
			t.Errorf("expected id 'tt0113243', got '%s'", r.URL.Query().Get("i"))
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"Response": "True",
			"imdbID": "tt0113243",
			"Title": "Hackers",
			"Year": "1995",
			"Type": "movie",
			"Country": "United States",
			"Language": "English, Italian, Japanese, Russian",
			"imdbRating": "6.3",
			"Genre": "Comedy, Crime, Drama",
			"Plot": "Teenage hackers discover a criminal conspiracy.",
			"Released": "15 Sep 1995"
		}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})

	detail := client.FetchByID(context.Background(), "tt0113243")
	if detail == nil {
		t.Fatal("expected detail, got nil")
	}
	if detail.Title != "Hackers" {
		t.Errorf("expected title 'Hackers', got '%s'", detail.Title)
	}
	if detail.Rating != "6.3" {
		t.Errorf("expected rating '6.3', got '%s'", detail.Rating)
	}
	if detail.Country != "United States" {
		t.Errorf("expected country 'United States', got '%s'", detail.Country)
	}
	if !detail.HasRating() {
		t.Error("expected detail to have a usable rating")
	}
}

func TestFetchByIDNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"Response": "False", "Error": "Incorrect IMDb ID."}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})

	detail := client.FetchByID(context.Background(), "tt9999999")
	if detail != nil {
		t.Errorf("expected nil detail for unknown id, got %v", detail)
	}
}

func TestFetchByIDRetriesThenSucceeds(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`temporary timeout`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"Response": "True", "imdbID": "tt0133093", "Title": "The Matrix", "imdbRating": "8.7"}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL, RetryAttempts: 3})
	client.retryCfg.InitialBackoff = time.Millisecond

	detail := client.FetchByID(context.Background(), "tt0133093")
	if detail == nil {
		t.Fatal("expected detail after retry, got nil")
	}
	if attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts)
	}
}
