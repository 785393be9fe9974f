package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/docview/internal/router"
)

// RouterFactory builds a router for a new viewer arriving with fragment.
type RouterFactory func(fragment string) *router.Router

// Manager creates sessions and evicts idle ones in the background.
type Manager struct {
	store     *Store
	newRouter RouterFactory
	log       *slog.Logger
	interval  time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures a Manager.
type Option func(*Manager)

// WithCleanupInterval sets how often idle sessions are evicted.
func WithCleanupInterval(d time.Duration) Option {
	return func(m *Manager) { m.interval = d }
}

func NewManager(store *Store, newRouter RouterFactory, log *slog.Logger, opts ...Option) *Manager {
	m := &Manager{
		store:     store,
		newRouter: newRouter,
		log:       log,
		interval:  5 * time.Minute,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start launches the cleanup loop. It stops when ctx is cancelled or
// Stop is called.
func (m *Manager) Start(ctx context.Context) {
	loopCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.C:
				if n := m.store.Cleanup(); n > 0 {
					m.log.Info("sessions evicted", "count", n, "remaining", m.store.Len())
				}
			}
		}
	}()
}

// Stop ends the cleanup loop and waits for it.
func (m *Manager) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
}

// Create registers a new session and resolves its initial route. A load
// failure is shown on the session's page and does not fail creation.
func (m *Manager) Create(ctx context.Context, fragment string) *Session {
	now := time.Now()
	sess := &Session{
		ID:        uuid.NewString(),
		Router:    m.newRouter(fragment),
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.store.Put(sess)

	if err := sess.Router.ResolveInitialRoute(ctx); err != nil {
		m.log.Warn("initial route failed", "session_id", sess.ID, "fragment", fragment, "error", err)
	}
	m.log.Info("session created", "session_id", sess.ID, "fragment", fragment)
	return sess
}

// Get returns a live session and records activity on it.
func (m *Manager) Get(id string) (*Session, bool) {
	sess := m.store.Get(id)
	if sess == nil {
		return nil, false
	}
	sess.Touch()
	return sess, true
}

// Delete ends a session.
func (m *Manager) Delete(id string) bool {
	return m.store.Delete(id)
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	return m.store.Len()
}
