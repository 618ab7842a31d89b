package session

import (
	"context"
	"sync"
	"time"

	"github.com/brunorochagarcia/reservademesa/internal/notify"
)

// Factory builds a session (and its notice buffer) for a client id. The
// collaborators bound to the client, like the remembrance key and the
// rate-limit key, are the factory's business.
type Factory func(ctx context.Context, clientID string) (*Session, *notify.Buffer, error)

type entry struct {
	session  *Session
	notices  *notify.Buffer
	lastSeen time.Time
}

// Manager keeps one live session per client id and evicts sessions idle
// longer than idleTTL. Dropping an entry loses only view state; the
// remembrance list is durable and reloaded when the client comes back.
type Manager struct {
	factory Factory
	idleTTL time.Duration

	mu      sync.Mutex
	entries map[string]*entry
}

func NewManager(factory Factory, idleTTL time.Duration) *Manager {
	if idleTTL <= 0 {
		idleTTL = 30 * time.Minute
	}

	return &Manager{
		factory: factory,
		idleTTL: idleTTL,
		entries: make(map[string]*entry),
	}
}

// Get returns the client's session, creating it on first sight.
func (m *Manager) Get(ctx context.Context, clientID string) (*Session, *notify.Buffer, error) {
	m.mu.Lock()
	if e, ok := m.entries[clientID]; ok {
		e.lastSeen = time.Now()
		m.mu.Unlock()
		return e.session, e.notices, nil
	}
	m.mu.Unlock()

	// build outside the lock: the factory loads remembrance and fetches a day
	s, buf, err := m.factory(ctx, clientID)
	if err != nil {
		return nil, nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.entries[clientID]; ok {
		// lost the race; keep the first one
		e.lastSeen = time.Now()
		return e.session, e.notices, nil
	}

	m.entries[clientID] = &entry{session: s, notices: buf, lastSeen: time.Now()}

	return s, buf, nil
}

// Sweep evicts idle sessions and reports how many were dropped.
func (m *Manager) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	dropped := 0
	for id, e := range m.entries {
		if now.Sub(e.lastSeen) > m.idleTTL {
			delete(m.entries, id)
			dropped++
		}
	}

	return dropped
}

// Run sweeps periodically until the context is done.
func (m *Manager) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.idleTTL / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			m.Sweep(now)
		}
	}
}
