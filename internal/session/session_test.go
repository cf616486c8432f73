package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"kroner-engine/internal/model"
)

func TestSession_ApplyBalanceOverwrites(t *testing.T) {
	s := New(1, model.Balance{UserID: 1, Lifetime: 100, Spendable: 100})

	// Optimistic local debit
	s.OptimisticSpend(60)
	assert.Equal(t, int64(40), s.Balance().Spendable)

	// The authoritative push replaces the snapshot wholesale; the
	// optimistic delta is not merged into it.
	s.ApplyBalance(model.Balance{UserID: 1, Lifetime: 100, Spendable: 40})
	assert.Equal(t, int64(40), s.Balance().Spendable)
	assert.Equal(t, int64(100), s.Balance().Lifetime)

	// Even a push that disagrees with local state wins outright
	s.OptimisticSpend(10)
	s.ApplyBalance(model.Balance{UserID: 1, Lifetime: 150, Spendable: 90})
	assert.Equal(t, int64(90), s.Balance().Spendable)
	assert.Equal(t, int64(150), s.Balance().Lifetime)
}

func TestSession_OptimisticSpendFloorsAtZero(t *testing.T) {
	s := New(1, model.Balance{UserID: 1, Lifetime: 50, Spendable: 50})

	// A local debit the snapshot cannot afford is skipped
	s.OptimisticSpend(80)
	assert.Equal(t, int64(50), s.Balance().Spendable)

	s.OptimisticSpend(50)
	assert.Equal(t, int64(0), s.Balance().Spendable)
}

func TestSession_UnlocksAndCertificates(t *testing.T) {
	s := New(1, model.Balance{UserID: 1})

	assert.False(t, s.HasUnlock("first_login"))
	s.ApplyUnlock("first_login")
	assert.True(t, s.HasUnlock("first_login"))

	assert.False(t, s.HasCertificate(model.CertTypeBattlePass, "season-1_completion"))
	s.ApplyCertificate(model.CertTypeBattlePass, "season-1_completion")
	assert.True(t, s.HasCertificate(model.CertTypeBattlePass, "season-1_completion"))

	// Certificate identity is scoped by type
	assert.False(t, s.HasCertificate(model.CertTypeAchievement, "season-1_completion"))
}

func TestRegistry_AttachDetach(t *testing.T) {
	r := NewRegistry()

	s1 := New(1, model.Balance{UserID: 1})
	s2 := New(1, model.Balance{UserID: 1})
	s3 := New(2, model.Balance{UserID: 2})

	r.Attach(s1)
	r.Attach(s2)
	r.Attach(s3)
	assert.Equal(t, 3, r.Count())
	assert.Len(t, r.ForUser(1), 2)
	assert.Len(t, r.ForUser(2), 1)

	r.Detach(s1)
	assert.Equal(t, 2, r.Count())
	assert.Len(t, r.ForUser(1), 1)

	// Detaching twice is harmless
	r.Detach(s1)
	assert.Equal(t, 2, r.Count())

	r.Detach(s2)
	assert.Empty(t, r.ForUser(1))
}

func TestRegistry_FanOut(t *testing.T) {
	r := NewRegistry()

	s1 := New(1, model.Balance{UserID: 1, Spendable: 10})
	s2 := New(1, model.Balance{UserID: 1, Spendable: 10})
	other := New(2, model.Balance{UserID: 2, Spendable: 99})

	r.Attach(s1)
	r.Attach(s2)
	r.Attach(other)

	// Every session of the affected user receives the push
	update := model.Balance{UserID: 1, Lifetime: 200, Spendable: 150}
	for _, s := range r.ForUser(1) {
		s.ApplyBalance(update)
	}

	assert.Equal(t, int64(150), s1.Balance().Spendable)
	assert.Equal(t, int64(150), s2.Balance().Spendable)
	assert.Equal(t, int64(99), other.Balance().Spendable)
}

func TestRegistry_ConcurrentAttachDetach(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			s := New(userID, model.Balance{UserID: userID})
			r.Attach(s)
			for _, sess := range r.ForUser(userID) {
				sess.ApplyBalance(model.Balance{UserID: userID, Spendable: 1})
			}
			r.Detach(s)
		}(int64(i % 5))
	}
	wg.Wait()

	assert.Equal(t, 0, r.Count())
}
