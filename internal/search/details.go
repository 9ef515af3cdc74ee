package search

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/glefebvre/cinescout/internal/catalog"
	"github.com/glefebvre/cinescout/internal/metrics"
	"github.com/glefebvre/cinescout/internal/models"
)

// Catalog is the remote movie source the pipeline draws from. Both
// operations absorb failures: a broken call yields nil, never an error.
type Catalog interface {
	SearchByTerm(ctx context.Context, term string, opts catalog.SearchOptions) []models.MovieSummary
	FetchByID(ctx context.Context, imdbID string) *models.MovieDetail
}

// DetailFetcher caches detail lookups for the process lifetime and
// collapses concurrent fetches for the same id into one upstream call.
type DetailFetcher struct {
	catalog Catalog
	cache   *gocache.Cache
	group   singleflight.Group
}

// NewDetailFetcher wraps a catalog with a TTL detail cache.
func NewDetailFetcher(catalog Catalog, ttl time.Duration) *DetailFetcher {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &DetailFetcher{
		catalog: catalog,
		cache:   gocache.New(ttl, ttl*2),
	}
}

// Fetch returns the detail record for an id, consulting the cache first.
// Absent details are cached too so a dead id is not re-fetched per run.
func (f *DetailFetcher) Fetch(ctx context.Context, imdbID string) *models.MovieDetail {
	if cached, ok := f.cache.Get(imdbID); ok {
		metrics.DetailCacheHitsTotal.Inc()
		if cached == nil {
			return nil
		}
		return cached.(*models.MovieDetail)
	}
	metrics.DetailCacheMissesTotal.Inc()

	result, _, _ := f.group.Do(imdbID, func() (interface{}, error) {
		detail := f.catalog.FetchByID(ctx, imdbID)
		if detail == nil {
			f.cache.Set(imdbID, nil, gocache.DefaultExpiration)
			return nil, nil
		}
		f.cache.Set(imdbID, detail, gocache.DefaultExpiration)
		return detail, nil
	})

	if result == nil {
		return nil
	}
	return result.(*models.MovieDetail)
}
