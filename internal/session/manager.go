package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/glefebvre/cinescout/internal/errors"
	"github.com/glefebvre/cinescout/internal/logger"
	"github.com/glefebvre/cinescout/internal/metrics"
)

// Manager owns the live session controllers, keyed by id. Sessions idle
// past the TTL are evicted by a background sweep.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Controller

	runner   Runner
	recorder Recorder
	debounce time.Duration
	idleTTL  time.Duration
	stop     chan struct{}
	stopOnce sync.Once
	logger   *logger.Logger
}

// NewManager creates a session registry. A zero idleTTL disables
// eviction.
func NewManager(runner Runner, debounce, idleTTL time.Duration) *Manager {
	m := &Manager{
		sessions: make(map[string]*Controller),
		runner:   runner,
		debounce: debounce,
		idleTTL:  idleTTL,
		stop:     make(chan struct{}),
		logger:   logger.Default(),
	}
	if idleTTL > 0 {
		go m.sweep()
	}
	return m
}

// WithRecorder makes new sessions record their runs to a history store.
func (m *Manager) WithRecorder(recorder Recorder) *Manager {
	m.recorder = recorder
	return m
}

// Create starts a new session and returns its id.
func (m *Manager) Create() (string, *Controller) {
	id := uuid.New().String()
	ctrl := NewController(m.runner, m.debounce)
	if m.recorder != nil {
		ctrl.WithRecorder(id, m.recorder)
	}

	m.mu.Lock()
	m.sessions[id] = ctrl
	count := len(m.sessions)
	m.mu.Unlock()

	metrics.ActiveSessions.Set(float64(count))
	m.logger.WithFields(map[string]interface{}{
		"session_id": id,
		"sessions":   count,
	}).Info("Session created")
	return id, ctrl
}

// Get looks up a live session.
func (m *Manager) Get(id string) (*Controller, error) {
	m.mu.Lock()
	ctrl, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return nil, errors.SessionNotFoundError(id)
	}
	return ctrl, nil
}

// Delete closes and removes a session.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	ctrl, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	count := len(m.sessions)
	m.mu.Unlock()

	if !ok {
		return errors.SessionNotFoundError(id)
	}
	ctrl.Close()
	metrics.ActiveSessions.Set(float64(count))
	return nil
}

// Close shuts down the sweep loop and every live session.
func (m *Manager) Close() error {
	m.stopOnce.Do(func() { close(m.stop) })

	m.mu.Lock()
	for id, ctrl := range m.sessions {
		ctrl.Close()
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	metrics.ActiveSessions.Set(0)
	return nil
}

// sweep evicts sessions idle past the TTL.
func (m *Manager) sweep() {
	interval := m.idleTTL / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.evictIdle()
		}
	}
}

func (m *Manager) evictIdle() {
	cutoff := time.Now().Add(-m.idleTTL)

	m.mu.Lock()
	var evicted []string
	for id, ctrl := range m.sessions {
		if ctrl.LastActive().Before(cutoff) {
			ctrl.Close()
			delete(m.sessions, id)
			evicted = append(evicted, id)
		}
	}
	count := len(m.sessions)
	m.mu.Unlock()

	if len(evicted) > 0 {
		metrics.ActiveSessions.Set(float64(count))
		m.logger.WithFields(map[string]interface{}{
			"evicted":  len(evicted),
			"sessions": count,
		}).Info("Evicted idle sessions")
	}
}
