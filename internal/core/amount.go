package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencySymbol prefixes every displayed amount.
const CurrencySymbol = "₹"

// Amount is a transaction amount. NaN marks a value that could not be read as a number.
type Amount float64

// ParseAmount coerces a textual amount. Blank input is zero and anything
// non-numeric is NaN, so bad values surface in totals instead of disappearing.
func ParseAmount(s string) Amount {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Amount(math.NaN())
	}
	return Amount(f)
}

func (a Amount) IsNaN() bool { return math.IsNaN(float64(a)) }

// Float returns the amount as a float64.
func (a Amount) Float() float64 { return float64(a) }

// UnmarshalJSON accepts numbers, numeric strings, booleans and null.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*a = 0
	case bytes.Equal(data, []byte("true")):
		*a = 1
	case bytes.Equal(data, []byte("false")):
		*a = 0
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode amount: %w", err)
		}
		*a = ParseAmount(s)
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("decode amount: %w", err)
		}
		*a = Amount(f)
	}
	return nil
}

// MarshalJSON writes non-finite amounts as null.
func (a Amount) MarshalJSON() ([]byte, error) {
	f := float64(a)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

// FormatAmount renders an amount for display, e.g. "₹1500" or "₹-60.5".
func FormatAmount(a Amount) string {
	f := float64(a)
	switch {
	case math.IsNaN(f):
		return CurrencySymbol + "NaN"
	case math.IsInf(f, 1):
		return CurrencySymbol + "Infinity"
	case math.IsInf(f, -1):
		return CurrencySymbol + "-Infinity"
	}
	return CurrencySymbol + decimal.NewFromFloat(f).String()
}
