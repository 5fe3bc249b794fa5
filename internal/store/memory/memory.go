// Package memory keeps transactions and users in process memory. Everything
// is lost on restart.
package memory

import (
	"context"
	"sync"
	"time"

	"tracker/internal/core"
)

// Transactions is a mutex guarded ledger.
type Transactions struct {
	mu     sync.Mutex
	items  []core.Transaction
	lastID int64
	now    func() time.Time
}

// NewTransactions returns a ledger preloaded with seed, stored as given.
func NewTransactions(seed ...core.Transaction) *Transactions {
	s := &Transactions{now: time.Now}
	for _, tx := range seed {
		s.items = append(s.items, tx)
		if tx.ID > s.lastID {
			s.lastID = tx.ID
		}
	}
	return s
}

func (s *Transactions) List(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction{}, s.items...), nil
}

func (s *Transactions) Insert(_ context.Context, in core.TransactionInput) (core.Transaction, error) {
	if err := in.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := in.Transaction(s.nextID())
	s.items = append(s.items, tx)
	return tx, nil
}

func (s *Transactions) DeleteByID(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.items[:0]
	removed := false
	for _, tx := range s.items {
		if tx.ID == id {
			removed = true
			continue
		}
		kept = append(kept, tx)
	}
	s.items = kept
	return removed, nil
}

func (s *Transactions) Ping(context.Context) error { return nil }

// nextID is millisecond based like a timestamp id but never repeats or goes
// backwards. Callers hold mu.
func (s *Transactions) nextID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

// Users is a mutex guarded user registry.
type Users struct {
	mu     sync.Mutex
	users  []core.User
	lastID int64
	now    func() time.Time
}

func NewUsers() *Users {
	return &Users{now: time.Now}
}

func (s *Users) FindByEmail(_ context.Context, email string) (core.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, true, nil
		}
	}
	return core.User{}, false, nil
}

func (s *Users) InsertIfAbsent(_ context.Context, name, email, passwordHash string) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return core.User{}, core.ErrUserExists
		}
	}
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	u := core.User{ID: id, Name: name, Email: email, PasswordHash: passwordHash}
	s.users = append(s.users, u)
	return u, nil
}

func (s *Users) Ping(context.Context) error { return nil }
