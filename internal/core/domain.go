package core

import (
	"errors"
	"math"
	"strings"
	"unicode/utf8"
)

const (
	Income  TxType = "income"
	Expense TxType = "expense"
)

const (
	maxCategoryLen = 100
	maxNoteLen     = 500
	maxDateLen     = 32
	maxNameLen     = 100
	maxEmailLen    = 254
)

type (
	// TxType is the kind of a transaction. Stored records are always
	// income or expense; aggregation treats anything but income as expense.
	TxType string

	Transaction struct {
		ID       int64  `json:"id"`
		Type     TxType `json:"type"`
		Amount   Amount `json:"amount"`
		Category string `json:"category"`
		Note     string `json:"note,omitempty"`
		Date     string `json:"date,omitempty"`
	}

	// TransactionInput is a transaction as submitted by a client, before an id is assigned.
	TransactionInput struct {
		Type     TxType `json:"type"`
		Amount   Amount `json:"amount"`
		Category string `json:"category"`
		Note     string `json:"note,omitempty"`
		Date     string `json:"date,omitempty"`
	}

	User struct {
		ID           int64
		Name         string
		Email        string
		PasswordHash string
	}

	// PublicUser is the part of a user that may leave the server.
	PublicUser struct {
		ID    int64  `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
)

var (
	ErrInvalidType     = errors.New("type must be income or expense")
	ErrInvalidAmount   = errors.New("amount must be a non-negative number")
	ErrMissingAmount   = errors.New("amount is required")
	ErrEmptyCategory   = errors.New("category is required")
	ErrCategoryTooLong = errors.New("category too long (max 100 characters)")
	ErrNoteTooLong     = errors.New("note too long (max 500 characters)")
	ErrDateTooLong     = errors.New("date too long (max 32 characters)")
)

// Valid reports whether t is one of the storable types.
func (t TxType) Valid() bool {
	return t == Income || t == Expense
}

// Validate checks the input before it reaches a store. A failure is a *ValidationError.
func (in TransactionInput) Validate() error {
	if !in.Type.Valid() {
		return &ValidationError{Field: "type", Err: ErrInvalidType}
	}
	f := float64(in.Amount)
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return &ValidationError{Field: "amount", Err: ErrInvalidAmount}
	}
	if strings.TrimSpace(in.Category) == "" {
		return &ValidationError{Field: "category", Err: ErrEmptyCategory}
	}
	if utf8.RuneCountInString(in.Category) > maxCategoryLen {
		return &ValidationError{Field: "category", Err: ErrCategoryTooLong}
	}
	if utf8.RuneCountInString(in.Note) > maxNoteLen {
		return &ValidationError{Field: "note", Err: ErrNoteTooLong}
	}
	if utf8.RuneCountInString(in.Date) > maxDateLen {
		return &ValidationError{Field: "date", Err: ErrDateTooLong}
	}
	return nil
}

// Transaction returns the stored form of the input under id.
func (in TransactionInput) Transaction(id int64) Transaction {
	return Transaction{
		ID:       id,
		Type:     in.Type,
		Amount:   in.Amount,
		Category: in.Category,
		Note:     in.Note,
		Date:     in.Date,
	}
}

func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email}
}

// Signup is the data needed to register a user.
type Signup struct {
	Name     string
	Email    string
	Password string
}

// Validate only checks presence and size; emails are compared verbatim.
func (s Signup) Validate() error {
	if s.Name == "" || s.Email == "" || s.Password == "" {
		return &ValidationError{Field: "signup", Err: ErrFieldsRequired}
	}
	if utf8.RuneCountInString(s.Name) > maxNameLen || len(s.Email) > maxEmailLen {
		return &ValidationError{Field: "signup", Err: errors.New("name or email too long")}
	}
	return nil
}
