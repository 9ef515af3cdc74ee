package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/glefebvre/cinescout/internal/circuitbreaker"
	"github.com/glefebvre/cinescout/internal/errors"
	"github.com/glefebvre/cinescout/internal/logger"
	"github.com/glefebvre/cinescout/internal/metrics"
	"github.com/glefebvre/cinescout/internal/models"
	"github.com/glefebvre/cinescout/internal/retry"
)

const (
	defaultBaseURL = "https://www.omdbapi.com/"
	defaultTimeout = 10 * time.Second
)

// Client handles OMDb API interactions
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
	circuitBrk *circuitbreaker.CircuitBreaker
	retryCfg   retry.Config
}

// Config holds OMDb client configuration
type Config struct {
	APIKey        string
	BaseURL       string
	Timeout       time.Duration
	RetryAttempts int
}

// SearchOptions narrows a catalog search beyond the bare term.
type SearchOptions struct {
	Type models.MediaType
	Year string
}

// searchResponse represents the OMDb search API response
type searchResponse struct {
	Response     string        `json:"Response"`
	Error        string        `json:"Error"`
	TotalResults string        `json:"totalResults"`
	Search       []searchEntry `json:"Search"`
}

type searchEntry struct {
	ImdbID string `json:"imdbID"`
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	Type   string `json:"Type"`
	Poster string `json:"Poster"`
}

// detailResponse represents the OMDb title lookup response
type detailResponse struct {
	Response   string `json:"Response"`
	Error      string `json:"Error"`
	ImdbID     string `json:"imdbID"`
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Type       string `json:"Type"`
	Poster     string `json:"Poster"`
	Country    string `json:"Country"`
	Language   string `json:"Language"`
	ImdbRating string `json:"imdbRating"`
	Genre      string `json:"Genre"`
	Plot       string `json:"Plot"`
	Released   string `json:"Released"`
}

// NewClient creates a new OMDb API client
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = 3
	}

	cb := circuitbreaker.New(circuitbreaker.Config{
		MaxFailures: 5,
		Cooldown:    60 * time.Second,
	})

	retryCfg := retry.DefaultConfig()
	retryCfg.MaxAttempts = cfg.RetryAttempts

	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/") + "/",
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger:     logger.Default(),
		circuitBrk: cb,
		retryCfg:   retryCfg,
	}
}

// SearchByTerm queries the catalog for titles matching term. Remote failures
// and "not found" responses both come back as a nil slice; the caller only
// ever sees candidates or nothing.
func (c *Client) SearchByTerm(ctx context.Context, term string, opts SearchOptions) []models.MovieSummary {
	params := url.Values{}
	params.Set("s", term)
	if opts.Type != "" {
		params.Set("type", string(opts.Type))
	}
	if opts.Year != "" {
		params.Set("y", opts.Year)
	}

	var response searchResponse
	if err := c.makeRequest(ctx, "search", params, &response); err != nil {
		c.logger.WithFields(map[string]interface{}{
			"term":  term,
			"error": err.Error(),
		}).Warn("Catalog search failed")
		return nil
	}

	if response.Response != "True" || len(response.Search) == 0 {
		return nil
	}

	summaries := make([]models.MovieSummary, 0, len(response.Search))
	for _, entry := range response.Search {
		summaries = append(summaries, models.MovieSummary{
			ImdbID: entry.ImdbID,
			Title:  entry.Title,
			Year:   entry.Year,
			Type:   models.MediaType(entry.Type),
			Poster: entry.Poster,
		})
	}
	return summaries
}

// FetchByID retrieves the full record for an IMDb id. Failures of any kind
// return nil so that one broken lookup never sinks a whole search run.
func (c *Client) FetchByID(ctx context.Context, imdbID string) *models.MovieDetail {
	params := url.Values{}
	params.Set("i", imdbID)

	var response detailResponse
	if err := c.makeRequest(ctx, "detail", params, &response); err != nil {
		c.logger.WithFields(map[string]interface{}{
			"imdb_id": imdbID,
			"error":   err.Error(),
		}).Warn("Catalog detail fetch failed")
		return nil
	}

	if response.Response != "True" {
		return nil
	}

	return &models.MovieDetail{
		ImdbID:   response.ImdbID,
		Title:    response.Title,
		Year:     response.Year,
		Type:     models.MediaType(response.Type),
		Poster:   response.Poster,
		Country:  response.Country,
		Language: response.Language,
		Rating:   response.ImdbRating,
		Genre:    response.Genre,
		Plot:     response.Plot,
		Released: response.Released,
	}
}

// makeRequest performs an HTTP request to the OMDb API with circuit breaker and retry
func (c *Client) makeRequest(ctx context.Context, operation string, params url.Values, result interface{}) error {
	params.Set("apikey", c.apiKey)
	requestURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	timer := prometheus.NewTimer(metrics.CatalogRequestDuration.WithLabelValues(operation))
	defer timer.ObserveDuration()

	fn := func() error {
		return c.circuitBrk.Execute(func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
			if err != nil {
				return err
			}
			req.Header.Set("Accept", "application/json")

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode == http.StatusTooManyRequests {
				return errors.New(errors.CodeRateLimited, "catalog rate limit exceeded")
			}

			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				body, _ := io.ReadAll(resp.Body)
				return errors.New(errors.CodeCatalogFailure,
					fmt.Sprintf("catalog error (status %d): %s", resp.StatusCode, string(body)))
			}

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return err
			}

			if err := json.Unmarshal(body, result); err != nil {
				return errors.Wrap(err, errors.CodeCatalogFailure, "failed to unmarshal catalog response")
			}

			return nil
		})
	}

	isRetryable := func(err error) bool {
		if err == nil {
			return false
		}
		if err == circuitbreaker.ErrOpenState {
			return false
		}
		return errors.IsRetryable(err) ||
			strings.Contains(err.Error(), "timeout") ||
			strings.Contains(err.Error(), "connection refused")
	}

	err := retry.Do(ctx, c.retryCfg, fn, isRetryable)
	if err != nil {
		metrics.CatalogRequestsTotal.WithLabelValues(operation, "error").Inc()
		return err
	}

	metrics.CatalogRequestsTotal.WithLabelValues(operation, "success").Inc()
	return nil
}
