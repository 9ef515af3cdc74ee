package session

import (
	"context"
	"sync"
	"time"

	"github.com/glefebvre/cinescout/internal/errors"
	"github.com/glefebvre/cinescout/internal/logger"
	"github.com/glefebvre/cinescout/internal/metrics"
	"github.com/glefebvre/cinescout/internal/models"
	"github.com/glefebvre/cinescout/internal/region"
	"github.com/glefebvre/cinescout/internal/search"
)

// DefaultQuery seeds a fresh session so it has something to show.
const DefaultQuery = "hacker"

// Mode names the one-shot filter transitions a session supports.
type Mode string

const (
	ModeGenre  Mode = "genre"
	ModeRegion Mode = "region"
	ModeMood   Mode = "mood"
	ModeClear  Mode = "clear"
)

// Runner executes one search run. Satisfied by *search.Pipeline.
type Runner interface {
	Run(ctx context.Context, query string, filters models.FilterState) search.Outcome
}

// Recorder receives one record per applied search run. Satisfied by
// *database.HistoryStore.
type Recorder interface {
	RecordSearch(rec *models.SearchRecord)
}

// Snapshot is the published state of a session at a point in time.
type Snapshot struct {
	Query     string
	Filters   models.FilterState
	Strategy  search.Strategy
	Movies    []models.EnrichedMovie
	IsLoading bool
	Err       error
}

// Controller owns one user's query and filter state. Every mutation
// restarts a debounce window; when the window closes a search run is
// launched carrying a generation token, and its outcome is applied only
// if no newer mutation has arrived since. Stale runs finish but their
// results are discarded.
type Controller struct {
	mu         sync.Mutex
	query      string
	filters    models.FilterState
	strategy   search.Strategy
	movies     []models.EnrichedMovie
	loading    bool
	err        error
	generation uint64
	lastActive time.Time

	runner   Runner
	recorder Recorder
	id       string
	debounce time.Duration
	timer    *time.Timer
	ctx      context.Context
	cancel   context.CancelFunc
	closed   bool
	logger   *logger.Logger
}

// NewController creates a session seeded with the default query and
// filters and schedules its first run.
func NewController(runner Runner, debounce time.Duration) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		query:      DefaultQuery,
		filters:    models.DefaultFilterState(),
		loading:    true,
		lastActive: time.Now(),
		runner:     runner,
		debounce:   debounce,
		ctx:        ctx,
		cancel:     cancel,
		logger:     logger.Default(),
	}
	c.mu.Lock()
	c.restartDebounce()
	c.mu.Unlock()
	return c
}

// WithRecorder attaches a history recorder and the session id runs are
// recorded under.
func (c *Controller) WithRecorder(sessionID string, recorder Recorder) *Controller {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.id = sessionID
	c.recorder = recorder
	return c
}

// SetQuery replaces the free-text query.
func (c *Controller) SetQuery(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = query
	c.mutated()
}

// SetFilters applies a partial filter update. Field-level changes do not
// touch the mode exclusivity; use SelectMode for that.
func (c *Controller) SetFilters(patch models.FilterPatch) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters = patch.Apply(c.filters)
	c.mutated()
}

// SelectMode performs one of the named filter transitions. Genre, mood
// and region are mutually exclusive; picking one clears the others.
func (c *Controller) SelectMode(mode Mode, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch mode {
	case ModeGenre:
		c.filters.Genre = value
		c.filters.Mood = ""
		c.filters.Region = models.RegionAll
		c.query = value

	case ModeRegion:
		if value == models.RegionAll {
			c.filters.Region = models.RegionAll
			c.filters.Genre = ""
			c.filters.Mood = ""
			break
		}
		label, ok := region.Parse(value)
		if !ok {
			return errors.New(errors.CodeInvalidInput, "unknown region: "+value)
		}
		c.filters.Region = string(label)
		c.filters.Genre = ""
		c.filters.Mood = ""
		c.query = region.Display(label).FullName

	case ModeMood:
		genres, ok := MoodGenres(value)
		if !ok {
			return errors.New(errors.CodeInvalidInput, "unknown mood: "+value)
		}
		primary := genres[0]
		c.filters.Mood = value
		c.filters.Genre = primary
		c.filters.Region = models.RegionAll
		c.query = primary

	case ModeClear:
		c.filters = models.DefaultFilterState()
		c.query = ""

	default:
		return errors.New(errors.CodeInvalidInput, "unknown mode: "+string(mode))
	}

	c.mutated()
	return nil
}

// Snapshot returns a copy of the published state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastActive = time.Now()

	movies := make([]models.EnrichedMovie, len(c.movies))
	copy(movies, c.movies)

	return Snapshot{
		Query:     c.query,
		Filters:   c.filters,
		Strategy:  c.strategy,
		Movies:    movies,
		IsLoading: c.loading,
		Err:       c.err,
	}
}

// LastActive reports when the session was last read or mutated.
func (c *Controller) LastActive() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastActive
}

// Close stops the debounce timer and cancels any in-flight run.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
	}
	c.cancel()
}

// mutated bumps the generation and restarts the debounce window.
// Caller holds the lock.
func (c *Controller) mutated() {
	c.generation++
	c.loading = true
	c.lastActive = time.Now()
	c.restartDebounce()
}

// restartDebounce arms the timer for the current generation. Caller
// holds the lock.
func (c *Controller) restartDebounce() {
	if c.closed {
		return
	}
	if c.timer != nil {
		c.timer.Stop()
	}
	gen := c.generation
	c.timer = time.AfterFunc(c.debounce, func() {
		c.launch(gen)
	})
}

// launch runs the pipeline for a generation and applies the outcome
// only if that generation is still the latest.
func (c *Controller) launch(gen uint64) {
	c.mu.Lock()
	if c.closed || gen != c.generation {
		c.mu.Unlock()
		return
	}
	query := c.query
	filters := c.filters
	ctx := c.ctx
	c.mu.Unlock()

	started := time.Now()
	outcome := c.runner.Run(ctx, query, filters)
	elapsed := time.Since(started)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || gen != c.generation {
		metrics.SearchRunsSuperseded.Inc()
		return
	}

	c.record(query, outcome, elapsed)
	c.strategy = outcome.Strategy
	c.loading = false
	if outcome.Err != nil {
		c.movies = nil
		c.err = outcome.Err
		c.logger.WithFields(map[string]interface{}{
			"query":    query,
			"strategy": string(outcome.Strategy),
			"error":    outcome.Err.Error(),
		}).Info("Search run ended without results")
		return
	}
	c.movies = outcome.Movies
	c.err = nil
}

// record hands the run off to the history recorder, if one is attached.
// Caller holds the lock.
func (c *Controller) record(query string, outcome search.Outcome, elapsed time.Duration) {
	if c.recorder == nil {
		return
	}
	rec := &models.SearchRecord{
		SessionID:   c.id,
		Query:       query,
		Strategy:    string(outcome.Strategy),
		ResultCount: len(outcome.Movies),
		DurationMs:  elapsed.Milliseconds(),
	}
	if outcome.Err != nil {
		msg := outcome.Err.Error()
		rec.ErrorText = &msg
	}
	go c.recorder.RecordSearch(rec)
}
