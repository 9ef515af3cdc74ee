package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/glefebvre/cinescout/internal/logger"
)

// Handler coordinates graceful teardown: the HTTP server, session
// manager and database register closers and are stopped in reverse
// registration order on SIGINT/SIGTERM
type Handler struct {
	mu       sync.Mutex
	closers  []func(context.Context) error
	timeout  time.Duration
	signals  chan os.Signal
	done     chan struct{}
	stopping bool
}

// New creates a new shutdown handler
func New(timeout time.Duration) *Handler {
	return &Handler{
		timeout: timeout,
		signals: make(chan os.Signal, 1),
		done:    make(chan struct{}),
	}
}

// Register adds a closer; closers run LIFO during shutdown
func (h *Handler) Register(fn func(context.Context) error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closers = append(h.closers, fn)
}

// Wait blocks until a termination signal arrives, then shuts down
func (h *Handler) Wait() {
	signal.Notify(h.signals, syscall.SIGINT, syscall.SIGTERM)
	<-h.signals
	h.Shutdown()
}

// Shutdown runs all registered closers with the configured timeout.
// Safe to call more than once; later calls wait for the first to finish.
func (h *Handler) Shutdown() {
	h.mu.Lock()
	if h.stopping {
		h.mu.Unlock()
		<-h.done
		return
	}
	h.stopping = true
	closers := h.closers
	h.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	log := logger.Default()
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](ctx); err != nil {
			log.Error("shutdown step failed", err)
		}
	}

	close(h.done)
}

// Done returns a channel closed once shutdown has completed
func (h *Handler) Done() <-chan struct{} {
	return h.done
}
