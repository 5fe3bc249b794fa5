package storage

import (
	"context"
	"database/sql"
)

// Queries holds the statements used by SQLiteRepository.
type Queries struct {
	db *sql.DB
}

func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

type transactionRow struct {
	ID       int64
	Type     string
	Amount   float64
	Category string
	Note     string
	Date     string
}

const listTransactions = `SELECT id, type, amount, category, note, date FROM transactions ORDER BY id`

func (q *Queries) ListTransactions(ctx context.Context) ([]transactionRow, error) {
	rows, err := q.db.QueryContext(ctx, listTransactions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []transactionRow
	for rows.Next() {
		var i transactionRow
		if err := rows.Scan(&i.ID, &i.Type, &i.Amount, &i.Category, &i.Note, &i.Date); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const createTransaction = `INSERT INTO transactions (type, amount, category, note, date)
VALUES (?, ?, ?, ?, ?)
RETURNING id`

type createTransactionParams struct {
	Type     string
	Amount   float64
	Category string
	Note     string
	Date     string
}

func (q *Queries) CreateTransaction(ctx context.Context, arg createTransactionParams) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, createTransaction, arg.Type, arg.Amount, arg.Category, arg.Note, arg.Date).Scan(&id)
	return id, err
}

const deleteTransaction = `DELETE FROM transactions WHERE id = ?`

func (q *Queries) DeleteTransaction(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteTransaction, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const getUserByEmail = `SELECT id, name, email, password_hash FROM users WHERE email = ?`

type userRow struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
}

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (userRow, error) {
	var u userRow
	err := q.db.QueryRowContext(ctx, getUserByEmail, email).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash)
	return u, err
}

const createUserIfAbsent = `INSERT INTO users (name, email, password_hash)
VALUES (?, ?, ?)
ON CONFLICT(email) DO NOTHING
RETURNING id`

// CreateUserIfAbsent returns sql.ErrNoRows when the email is already taken.
func (q *Queries) CreateUserIfAbsent(ctx context.Context, name, email, passwordHash string) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, createUserIfAbsent, name, email, passwordHash).Scan(&id)
	return id, err
}
