package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tracker/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository implements store.TransactionStore and store.UserStore.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

// NewSQLiteRepository opens dbPath (":memory:" for a throwaway database) and migrates it.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if !isMemoryPath(dbPath) {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One connection: serializes writers and keeps an in-memory database alive.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func isMemoryPath(p string) bool {
	return p == ":memory:" || strings.HasPrefix(p, "file::memory:")
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) List(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	out := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, core.Transaction{
			ID:       row.ID,
			Type:     core.TxType(row.Type),
			Amount:   core.Amount(row.Amount),
			Category: row.Category,
			Note:     row.Note,
			Date:     row.Date,
		})
	}
	return out, nil
}

func (r *SQLiteRepository) Insert(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	if err := in.Validate(); err != nil {
		return core.Transaction{}, err
	}
	id, err := r.queries.CreateTransaction(ctx, createTransactionParams{
		Type:     string(in.Type),
		Amount:   in.Amount.Float(),
		Category: in.Category,
		Note:     in.Note,
		Date:     in.Date,
	})
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	return in.Transaction(id), nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id int64) (bool, error) {
	n, err := r.queries.DeleteTransaction(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete transaction %d: %w", id, err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) FindByEmail(ctx context.Context, email string) (core.User, bool, error) {
	row, err := r.queries.GetUserByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, false, nil
	}
	if err != nil {
		return core.User{}, false, fmt.Errorf("get user: %w", err)
	}
	return core.User{ID: row.ID, Name: row.Name, Email: row.Email, PasswordHash: row.PasswordHash}, true, nil
}

func (r *SQLiteRepository) InsertIfAbsent(ctx context.Context, name, email, passwordHash string) (core.User, error) {
	id, err := r.queries.CreateUserIfAbsent(ctx, name, email, passwordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.ErrUserExists
	}
	if err != nil {
		return core.User{}, fmt.Errorf("create user: %w", err)
	}
	return core.User{ID: id, Name: name, Email: email, PasswordHash: passwordHash}, nil
}
