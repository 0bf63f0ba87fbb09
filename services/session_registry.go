package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/vnkhanh/sloka-backend/models"
)

// SessionRegistry tracks issued session ids in memory. It is advisory:
// tokens stay valid whether or not their session is still registered, and
// the registry is lost on restart.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]time.Time
	now      func() time.Time
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]time.Time), now: time.Now}
}

func NewSessionID(kind models.PrincipalKind, email string, at time.Time) string {
	return fmt.Sprintf("%s_%s_%.6f", kind, email, float64(at.UnixNano())/1e9)
}

func (r *SessionRegistry) Add(id string) {
	r.mu.Lock()
	r.sessions[id] = r.now()
	r.mu.Unlock()
}

func (r *SessionRegistry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	return true
}

func (r *SessionRegistry) Contains(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sessions[id]
	return ok
}

// Clear drops every session and returns how many there were.
func (r *SessionRegistry) Clear() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.sessions)
	r.sessions = make(map[string]time.Time)
	return n
}

func (r *SessionRegistry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Prune removes sessions added more than maxAge ago.
func (r *SessionRegistry) Prune(maxAge time.Duration) int {
	cutoff := r.now().Add(-maxAge)
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, added := range r.sessions {
		if added.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// Snapshot returns the registered ids in no particular order.
func (r *SessionRegistry) Snapshot() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	return ids
}
