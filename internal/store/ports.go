// Package store declares the persistence ports used by the HTTP layer and services.
package store

import (
	"context"

	"tracker/internal/core"
)

type (
	// TransactionStore holds the ledger in insertion order.
	TransactionStore interface {
		List(ctx context.Context) ([]core.Transaction, error)
		// Insert assigns a fresh id and returns the stored record.
		Insert(ctx context.Context, in core.TransactionInput) (core.Transaction, error)
		// DeleteByID removes the record with id, if any. removed is false when
		// nothing matched; that is not an error.
		DeleteByID(ctx context.Context, id int64) (removed bool, err error)
	}

	// UserStore holds registered users keyed by exact email.
	UserStore interface {
		FindByEmail(ctx context.Context, email string) (core.User, bool, error)
		// InsertIfAbsent returns core.ErrUserExists when the email is taken.
		InsertIfAbsent(ctx context.Context, name, email, passwordHash string) (core.User, error)
	}

	// Pinger is implemented by stores that can report readiness.
	Pinger interface {
		Ping(ctx context.Context) error
	}
)
