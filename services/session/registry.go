package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry tracks live consultation sessions by ID and evicts sessions that
// have been idle past their TTL.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*registryEntry
	ttl      time.Duration
	factory  func() *Controller
}

type registryEntry struct {
	ctrl     *Controller
	lastSeen time.Time
}

func NewRegistry(ttl time.Duration, factory func() *Controller) *Registry {
	return &Registry{
		sessions: make(map[string]*registryEntry),
		ttl:      ttl,
		factory:  factory,
	}
}

// Create builds a fresh session and returns its ID.
func (r *Registry) Create() (string, *Controller) {
	ctrl := r.factory()
	id := uuid.New().String()
	r.mu.Lock()
	r.sessions[id] = &registryEntry{ctrl: ctrl, lastSeen: time.Now()}
	r.mu.Unlock()
	return id, ctrl
}

// Get returns the session for id and refreshes its TTL.
func (r *Registry) Get(id string) (*Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	entry.lastSeen = time.Now()
	return entry.ctrl, true
}

// Delete removes a session.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep evicts sessions idle past the TTL and reports how many were removed.
func (r *Registry) Sweep() int {
	cutoff := time.Now().Add(-r.ttl)
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, entry := range r.sessions {
		if entry.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// StartJanitor sweeps on the given interval until stop is closed.
func (r *Registry) StartJanitor(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.Sweep()
			case <-stop:
				return
			}
		}
	}()
}
