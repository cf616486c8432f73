// Package session holds the per-session cached view of a user's
// economy state. A user can have several sessions open at once; each
// one keeps its own snapshot, refreshed by the push channel. Pushed
// state is authoritative: it overwrites the local snapshot and is
// never merged arithmetically with local optimistic deltas.
package session

import (
	"sync"

	"kroner-engine/internal/model"
)

// Session is one client session's local state cache.
type Session struct {
	mu sync.RWMutex

	userID       int64
	balance      model.Balance
	unlocked     map[string]bool
	certificates map[string]bool
}

// New creates a session for a user, seeded with an initial balance
// snapshot (typically the result of the first query on login).
func New(userID int64, initial model.Balance) *Session {
	return &Session{
		userID:       userID,
		balance:      initial,
		unlocked:     make(map[string]bool),
		certificates: make(map[string]bool),
	}
}

// UserID returns the owning user.
func (s *Session) UserID() int64 {
	return s.userID
}

// Balance returns the session's current balance snapshot.
func (s *Session) Balance() model.Balance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balance
}

// ApplyBalance installs an authoritative balance snapshot, replacing
// whatever the session held - including any optimistic local state.
// Last authoritative write wins.
func (s *Session) ApplyBalance(b model.Balance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balance = b
}

// OptimisticSpend locally debits the snapshot so the UI can react
// before the push round-trip. The next ApplyBalance discards it.
func (s *Session) OptimisticSpend(amount int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.balance.Spendable >= amount {
		s.balance.Spendable -= amount
	}
}

// ApplyUnlock records a pushed achievement unlock.
func (s *Session) ApplyUnlock(achievementID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unlocked[achievementID] = true
}

// HasUnlock reports whether the session has seen the unlock.
func (s *Session) HasUnlock(achievementID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unlocked[achievementID]
}

// ApplyCertificate records a pushed certificate.
func (s *Session) ApplyCertificate(certType, certID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.certificates[certType+"/"+certID] = true
}

// HasCertificate reports whether the session has seen the certificate.
func (s *Session) HasCertificate(certType, certID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.certificates[certType+"/"+certID]
}
