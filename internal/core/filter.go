package core

import (
	"fmt"
	"strings"
)

const (
	FilterAll     FilterType = "all"
	FilterIncome  FilterType = "income"
	FilterExpense FilterType = "expense"
)

// FilterType selects which transaction types are shown.
type FilterType string

// Filter is the client's current view selection. It is never persisted.
type Filter struct {
	Type   FilterType
	Search string
}

// DefaultFilter shows everything.
func DefaultFilter() Filter {
	return Filter{Type: FilterAll}
}

// ParseFilterType accepts "", all, income and expense. Empty means all.
func ParseFilterType(s string) (FilterType, error) {
	switch FilterType(strings.ToLower(strings.TrimSpace(s))) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterIncome:
		return FilterIncome, nil
	case FilterExpense:
		return FilterExpense, nil
	}
	return "", &ValidationError{Field: "type", Err: fmt.Errorf("unknown filter %q", s)}
}

// Matches reports whether tx passes the type selection.
func (t FilterType) Matches(tx TxType) bool {
	return t == FilterAll || t == "" || string(t) == string(tx)
}
