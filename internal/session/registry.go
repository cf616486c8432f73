package session

import "sync"

// Registry tracks the active sessions per user so the push channel can
// fan each change out to every open session of the affected user.
type Registry struct {
	mu       sync.RWMutex
	sessions map[int64][]*Session
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[int64][]*Session)}
}

// Attach registers a session for push delivery.
func (r *Registry) Attach(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.UserID()] = append(r.sessions[s.UserID()], s)
}

// Detach removes a session, e.g. on logout or disconnect.
func (r *Registry) Detach(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.sessions[s.UserID()]
	for i, candidate := range list {
		if candidate == s {
			r.sessions[s.UserID()] = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(r.sessions[s.UserID()]) == 0 {
		delete(r.sessions, s.UserID())
	}
}

// ForUser returns a snapshot of the user's active sessions.
func (r *Registry) ForUser(userID int64) []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := r.sessions[userID]
	out := make([]*Session, len(list))
	copy(out, list)
	return out
}

// Count returns the number of active sessions across all users.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, list := range r.sessions {
		n += len(list)
	}
	return n
}
