package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/openrentals/listingdesk/internal/wizard"
)

// SessionMode describes how a wizard session was opened.
type SessionMode string

const (
	ModeCreate       SessionMode = "create"
	ModePropertyEdit SessionMode = "property"
	ModeListingEdit  SessionMode = "listing"
)

// Session binds one draft store to one client. Wizard handlers are
// single-threaded per session; the mutex serialises HTTP and websocket
// access to the same store.
type Session struct {
	ID           string
	Mode         SessionMode
	CreatedAt    time.Time
	LastActiveAt time.Time

	mu    sync.Mutex
	store *wizard.Store
}

func newSession(mode SessionMode, store *wizard.Store) *Session {
	now := time.Now()
	return &Session{
		ID:           uuid.New().String(),
		Mode:         mode,
		CreatedAt:    now,
		LastActiveAt: now,
		store:        store,
	}
}

// Do runs fn with exclusive access to the session's store and refreshes
// the activity timestamp.
func (s *Session) Do(fn func(store *wizard.Store)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastActiveAt = time.Now()
	fn(s.store)
}

// State snapshots the current form state.
func (s *Session) State() wizard.FormState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.State()
}

// IsExpired reports whether the session exceeded the given max age.
func (s *Session) IsExpired(maxAge time.Duration) bool {
	return time.Since(s.CreatedAt) > maxAge
}

// IsIdle reports whether the session has been inactive past the timeout.
func (s *Session) IsIdle(timeout time.Duration) bool {
	return time.Since(s.LastActiveAt) > timeout
}

// SessionManager handles session creation, lookup, and cleanup.
type SessionManager struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	maxAge      time.Duration
	idleTimeout time.Duration
}

// NewSessionManager creates a manager with the given timeouts.
func NewSessionManager(maxAge, idleTimeout time.Duration) *SessionManager {
	return &SessionManager{
		sessions:    make(map[string]*Session),
		maxAge:      maxAge,
		idleTimeout: idleTimeout,
	}
}

// Create registers a new session around the given store.
func (m *SessionManager) Create(mode SessionMode, store *wizard.Store) *Session {
	s := newSession(mode, store)
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get retrieves a session by ID. Returns nil if unknown or expired.
func (m *SessionManager) Get(id string) *Session {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil
	}
	if s.IsExpired(m.maxAge) || s.IsIdle(m.idleTimeout) {
		m.Remove(id)
		return nil
	}
	return s
}

// Remove deletes a session; the draft store is discarded with it.
func (m *SessionManager) Remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Cleanup removes all expired and idle sessions. Called periodically.
func (m *SessionManager) Cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if s.IsExpired(m.maxAge) || s.IsIdle(m.idleTimeout) {
			delete(m.sessions, id)
		}
	}
}
