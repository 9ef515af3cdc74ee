package search

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/glefebvre/cinescout/internal/catalog"
	"github.com/glefebvre/cinescout/internal/errors"
	"github.com/glefebvre/cinescout/internal/logger"
	"github.com/glefebvre/cinescout/internal/metrics"
	"github.com/glefebvre/cinescout/internal/models"
	"github.com/glefebvre/cinescout/internal/region"
)

// Options tunes pipeline fan-out and pacing.
type Options struct {
	// SearchInterval is the minimum gap between catalog searches in a run.
	SearchInterval time.Duration
	// DetailInterval is the minimum gap between detail fetches in a run.
	DetailInterval time.Duration
	// MaxCandidates caps how many deduped candidates get detail fetches.
	MaxCandidates int
	// TopN is the size of the final ranked result set.
	TopN int
	// ProxyTermCount is how many seed terms a fan-out strategy uses.
	ProxyTermCount int
}

// DefaultOptions mirror the pacing the catalog's rate limits tolerate.
func DefaultOptions() Options {
	return Options{
		SearchInterval: 200 * time.Millisecond,
		DetailInterval: 100 * time.Millisecond,
		MaxCandidates:  20,
		TopN:           10,
		ProxyTermCount: 3,
	}
}

// Outcome is the result of a single pipeline run. Either Movies is
// non-empty or Err explains why nothing came back.
type Outcome struct {
	Strategy Strategy
	Movies   []models.EnrichedMovie
	Err      error
}

// Pipeline aggregates catalog searches into a ranked result set.
type Pipeline struct {
	catalog Catalog
	details *DetailFetcher
	opts    Options
	logger  *logger.Logger
}

// NewPipeline builds a pipeline over a catalog and a shared detail cache.
func NewPipeline(cat Catalog, details *DetailFetcher, opts Options) *Pipeline {
	if opts.MaxCandidates <= 0 {
		opts.MaxCandidates = 20
	}
	if opts.TopN <= 0 {
		opts.TopN = 10
	}
	if opts.ProxyTermCount <= 0 {
		opts.ProxyTermCount = 3
	}
	return &Pipeline{
		catalog: cat,
		details: details,
		opts:    opts,
		logger:  logger.Default(),
	}
}

// Run executes the search strategy the filter state calls for. It never
// panics outward; a panic inside a run is logged and reported as the
// empty outcome for the query.
func (p *Pipeline) Run(ctx context.Context, query string, filters models.FilterState) (outcome Outcome) {
	strategy := SelectStrategy(filters)
	outcome.Strategy = strategy

	timer := prometheus.NewTimer(metrics.SearchRunDuration.WithLabelValues(string(strategy)))
	defer timer.ObserveDuration()

	defer func() {
		if r := recover(); r != nil {
			p.logger.WithFields(map[string]interface{}{
				"strategy": string(strategy),
				"query":    query,
			}).Error("Search run panicked", fmt.Errorf("%v", r))
			outcome.Movies = nil
			outcome.Err = errors.EmptyOutcomeError(query)
			metrics.SearchRunsTotal.WithLabelValues(string(strategy), "panic").Inc()
		}
	}()

	var movies []models.EnrichedMovie
	var err error

	switch strategy {
	case StrategyRegion:
		movies, err = p.runRegion(ctx, filters)
	case StrategyGenre:
		movies, err = p.runGenre(ctx, filters.Genre)
	default:
		movies, err = p.runPlain(ctx, query, filters)
	}

	if err != nil {
		outcome.Err = err
		metrics.SearchRunsTotal.WithLabelValues(string(strategy), "canceled").Inc()
		return outcome
	}

	if len(movies) == 0 {
		outcome.Err = errors.EmptyOutcomeError(query)
		metrics.SearchRunsTotal.WithLabelValues(string(strategy), "empty").Inc()
		return outcome
	}

	outcome.Movies = movies
	metrics.SearchRunsTotal.WithLabelValues(string(strategy), "success").Inc()
	return outcome
}

// runPlain is a single catalog search for the raw query, returned in the
// catalog's native order without enrichment.
func (p *Pipeline) runPlain(ctx context.Context, query string, filters models.FilterState) ([]models.EnrichedMovie, error) {
	opts := catalog.SearchOptions{
		Type: filters.Type,
		Year: filters.Year,
	}
	summaries := p.catalog.SearchByTerm(ctx, query, opts)
	if len(summaries) == 0 {
		return nil, nil
	}
	movies := make([]models.EnrichedMovie, 0, len(summaries))
	for _, s := range summaries {
		movies = append(movies, models.EnrichedMovie{MovieSummary: s})
	}
	return movies, nil
}

// runGenre fans out over sampled popular titles, enriches whatever has a
// detail record, and returns the top of the ranking. A missing rating is
// tolerated here; it just ranks last.
func (p *Pipeline) runGenre(ctx context.Context, genre string) ([]models.EnrichedMovie, error) {
	terms := SampleTerms(genre, p.opts.ProxyTermCount)

	candidates, err := p.collect(ctx, terms, p.opts.SearchInterval)
	if err != nil {
		return nil, err
	}

	detailLim := newLimiter(p.opts.DetailInterval)
	enriched := make([]models.EnrichedMovie, 0, len(candidates))
	for _, summary := range candidates {
		if err := detailLim.Wait(ctx); err != nil {
			return nil, err
		}
		detail := p.details.Fetch(ctx, summary.ImdbID)
		if detail == nil {
			continue
		}
		enriched = append(enriched, models.Enrich(summary, detail))
	}

	return TopN(RankByRating(enriched), p.opts.TopN), nil
}

// runRegion fans out over the region's proxy terms and keeps only titles
// the classifier places in the requested region. The proxy terms are
// bait, not a guarantee; the detail record decides membership. Fan-out
// runs at half the usual pacing since the term list is fixed and short.
func (p *Pipeline) runRegion(ctx context.Context, filters models.FilterState) ([]models.EnrichedMovie, error) {
	label, ok := region.Parse(filters.Region)
	if !ok {
		return nil, nil
	}

	terms := region.ProxyTerms(label)
	if len(terms) > p.opts.ProxyTermCount {
		terms = terms[:p.opts.ProxyTermCount]
	}

	candidates, err := p.collect(ctx, terms, p.opts.SearchInterval/2)
	if err != nil {
		return nil, err
	}

	detailLim := newLimiter(p.opts.DetailInterval / 2)
	matched := make([]models.EnrichedMovie, 0, len(candidates))
	for _, summary := range candidates {
		if err := detailLim.Wait(ctx); err != nil {
			return nil, err
		}
		detail := p.details.Fetch(ctx, summary.ImdbID)
		if detail == nil || !detail.HasRating() {
			continue
		}
		enriched := models.Enrich(summary, detail)
		if region.ClassifyEnriched(&enriched) == label {
			matched = append(matched, enriched)
		}
	}

	return TopN(RankByRating(matched), p.opts.TopN), nil
}

// collect searches each term in sequence, merges the hits, dedupes them
// and caps the candidate list.
func (p *Pipeline) collect(ctx context.Context, terms []string, interval time.Duration) ([]models.MovieSummary, error) {
	searchLim := newLimiter(interval)

	var all []models.MovieSummary
	for _, term := range terms {
		if err := searchLim.Wait(ctx); err != nil {
			return nil, err
		}
		all = append(all, p.catalog.SearchByTerm(ctx, term, catalog.SearchOptions{})...)
	}

	unique := Dedupe(all)
	if len(unique) > p.opts.MaxCandidates {
		unique = unique[:p.opts.MaxCandidates]
	}
	return unique, nil
}

func newLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}
