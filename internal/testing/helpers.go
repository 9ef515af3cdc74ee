package testing

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/glefebvre/cinescout/internal/models"
)

// TestDB creates an in-memory SQLite database for testing
func TestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := db.AutoMigrate(&models.SearchRecord{}); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

// CreateSearchRecord creates a test search record
func CreateSearchRecord(db *gorm.DB, overrides ...func(*models.SearchRecord)) *models.SearchRecord {
	rec := &models.SearchRecord{
		SessionID:   "test-session",
		Query:       "hacker",
		Strategy:    "plain",
		ResultCount: 10,
		DurationMs:  250,
		CreatedAt:   time.Now(),
	}

	for _, override := range overrides {
		override(rec)
	}

	db.Create(rec)
	return rec
}

// WithSession sets the session id for a search record
func WithSession(id string) func(*models.SearchRecord) {
	return func(rec *models.SearchRecord) {
		rec.SessionID = id
	}
}

// WithQuery sets the query for a search record
func WithQuery(query string) func(*models.SearchRecord) {
	return func(rec *models.SearchRecord) {
		rec.Query = query
	}
}

// WithStrategy sets the strategy for a search record
func WithStrategy(strategy string) func(*models.SearchRecord) {
	return func(rec *models.SearchRecord) {
		rec.Strategy = strategy
	}
}

// WithCreatedAt sets the creation time for a search record
func WithCreatedAt(at time.Time) func(*models.SearchRecord) {
	return func(rec *models.SearchRecord) {
		rec.CreatedAt = at
	}
}

// MovieSummary builds a catalog summary for tests
func MovieSummary(id, title string, overrides ...func(*models.MovieSummary)) models.MovieSummary {
	s := models.MovieSummary{
		ImdbID: id,
		Title:  title,
		Year:   "2000",
		Type:   models.MediaTypeMovie,
		Poster: fmt.Sprintf("https://example.com/%s.jpg", id),
	}
	for _, override := range overrides {
		override(&s)
	}
	return s
}

// MovieDetail builds a full catalog record for tests
func MovieDetail(id, title, rating string, overrides ...func(*models.MovieDetail)) *models.MovieDetail {
	d := &models.MovieDetail{
		ImdbID: id,
		Title:  title,
		Year:   "2000",
		Type:   models.MediaTypeMovie,
		Poster: fmt.Sprintf("https://example.com/%s.jpg", id),
		Rating: rating,
		Genre:  "Drama",
		Plot:   "A test plot.",
	}
	for _, override := range overrides {
		override(d)
	}
	return d
}

// WithOrigin sets country and language on a detail record
func WithOrigin(country, language string) func(*models.MovieDetail) {
	return func(d *models.MovieDetail) {
		d.Country = country
		d.Language = language
	}
}
