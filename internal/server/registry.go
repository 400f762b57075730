package server

import (
	"context"
	"net"
	"sync"

	"github.com/google/uuid"
)

// Registry holds every live match and starts each one's tick and broadcast
// loops. A match that runs to completion removes itself.
type Registry struct {
	mu      sync.RWMutex
	matches map[uuid.UUID]*Match
	conn    *net.UDPConn
	cfg     MatchConfig
}

// NewRegistry wires a registry to the shared UDP socket. conn may be nil in
// tests, in which case matches simulate without broadcasting.
func NewRegistry(conn *net.UDPConn, cfg MatchConfig) *Registry {
	return &Registry{
		matches: make(map[uuid.UUID]*Match),
		conn:    conn,
		cfg:     cfg,
	}
}

// Create starts a new match under ctx and returns it.
func (r *Registry) Create(ctx context.Context) *Match {
	m := newMatch(r.cfg)

	r.mu.Lock()
	r.matches[m.ID] = m
	r.mu.Unlock()

	mctx, cancel := context.WithCancel(ctx)
	go func() {
		defer cancel()
		defer r.remove(m.ID)
		m.Run(mctx)
	}()
	if r.conn != nil {
		go m.broadcast(mctx, r.conn)
	}
	return m
}

func (r *Registry) Get(id uuid.UUID) (*Match, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.matches[id]
	return m, ok
}

// List returns the live matches in no particular order.
func (r *Registry) List() []*Match {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Match, 0, len(r.matches))
	for _, m := range r.matches {
		out = append(out, m)
	}
	return out
}

func (r *Registry) remove(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.matches, id)
}
