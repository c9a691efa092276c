package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oakpoint-health/intake-scheduler/internal/directory"
	"github.com/oakpoint-health/intake-scheduler/internal/observability/metrics"
	"github.com/oakpoint-health/intake-scheduler/internal/schedule"
	"github.com/oakpoint-health/intake-scheduler/pkg/logging"
)

// ManagerConfig wires the collaborators shared by every session.
type ManagerConfig struct {
	Directory *directory.Directory
	Scheduler *schedule.Scheduler
	Notifier  Notifier
	Metrics   *metrics.BookingMetrics
	Logger    *logging.Logger
	Location  *time.Location
	Now       func() time.Time
}

// Manager owns the registry of live booking sessions. Sessions are
// process-local and die with the interaction; nothing here is persisted.
type Manager struct {
	cfg ManagerConfig

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager constructs a session manager.
func NewManager(cfg ManagerConfig) *Manager {
	if cfg.Directory == nil {
		panic("session: directory required")
	}
	if cfg.Scheduler == nil {
		panic("session: scheduler required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Manager{
		cfg:      cfg,
		sessions: make(map[string]*Session),
	}
}

// Create opens a new booking session for a caller interaction.
func (m *Manager) Create() *Session {
	s := &Session{
		id:       uuid.NewString(),
		dir:      m.cfg.Directory,
		sched:    m.cfg.Scheduler,
		notifier: m.cfg.Notifier,
		metrics:  m.cfg.Metrics,
		logger:   m.cfg.Logger,
		loc:      m.cfg.Location,
		now:      m.cfg.Now,
		state:    StateCollecting,
		patient:  schedule.Patient{ID: uuid.NewString()},
	}

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()

	m.cfg.Logger.Info("session created", "session_id", s.id)
	return s
}

// Get looks up a live session.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// End terminates a session and releases it from the registry.
func (m *Manager) End(id string) (State, error) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	if !ok {
		return "", ErrSessionNotFound
	}
	return s.End(), nil
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
