package pomodoro

import (
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Manager hands out one engine per user, creating it lazily with the
// configured default settings.
type Manager struct {
	mu       sync.Mutex
	engines  map[primitive.ObjectID]*Engine
	defaults Settings
	recorder Recorder
}

// NewManager creates a Manager.
func NewManager(defaults Settings, recorder Recorder) *Manager {
	return &Manager{
		engines:  make(map[primitive.ObjectID]*Engine),
		defaults: defaults,
		recorder: recorder,
	}
}

// Engine returns the user's engine, creating an idle one on first use.
func (m *Manager) Engine(userID primitive.ObjectID) *Engine {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.engines[userID]; ok {
		return e
	}
	e := NewEngine(userID, m.defaults, m.recorder)
	m.engines[userID] = e
	return e
}
