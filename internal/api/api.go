package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/glefebvre/cinescout/internal/models"
	"github.com/glefebvre/cinescout/internal/session"
)

// DetailSource resolves single titles outside the search pipeline.
// Satisfied by *catalog.Client.
type DetailSource interface {
	FetchByID(ctx context.Context, imdbID string) *models.MovieDetail
}

// History serves recent search records. Satisfied by
// *database.HistoryStore.
type History interface {
	Recent(limit int) ([]models.SearchRecord, error)
	BySession(sessionID string, limit int) ([]models.SearchRecord, error)
}

// HealthChecker reports backend liveness, e.g. the database ping.
type HealthChecker func() error

// Server represents the API server
type Server struct {
	router         *gin.Engine
	sessions       *session.Manager
	catalog        DetailSource
	history        History
	healthCheckers map[string]HealthChecker
	allowedOrigins []string
}

// Option configures optional server collaborators.
type Option func(*Server)

// WithHistory enables the search history endpoint.
func WithHistory(history History) Option {
	return func(s *Server) { s.history = history }
}

// WithHealthChecker adds a named backend check to /health.
func WithHealthChecker(name string, check HealthChecker) Option {
	return func(s *Server) { s.healthCheckers[name] = check }
}

// WithAllowedOrigins sets the CORS allow-list.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) { s.allowedOrigins = origins }
}

// NewServer creates a new API server instance
func NewServer(sessions *session.Manager, catalog DetailSource, opts ...Option) *Server {
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		router:         router,
		sessions:       sessions,
		catalog:        catalog,
		healthCheckers: make(map[string]HealthChecker),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the API server on the specified port
func (s *Server) Run(port int) error {
	return s.router.Run(fmt.Sprintf(":%d", port))
}

// Handler exposes the router, used by tests and by the http.Server in
// the serve command.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(requestIDMiddleware())
	s.router.Use(metricsMiddleware())
	s.router.Use(errorHandlerMiddleware())
	s.router.Use(corsMiddleware(s.allowedOrigins))
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := s.router.Group("/api/v1")
	{
		// Search session endpoints
		v1.POST("/sessions", s.createSession)
		v1.GET("/sessions/:id", s.getSession)
		v1.PUT("/sessions/:id/query", s.updateQuery)
		v1.PUT("/sessions/:id/filters", s.updateFilters)
		v1.PUT("/sessions/:id/mode", s.selectMode)
		v1.DELETE("/sessions/:id", s.deleteSession)

		// Catalog detail view
		v1.GET("/movies/:id", s.getMovie)

		// Discovery taxonomies
		v1.GET("/regions", s.listRegions)
		v1.GET("/moods", s.listMoods)
		v1.GET("/genres", s.listGenres)

		// Search history
		v1.GET("/history", s.listHistory)
	}
}

// NewHTTPServer wraps the gin router in an http.Server with sane
// timeouts, ready for graceful shutdown.
func (s *Server) NewHTTPServer(port int) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}
