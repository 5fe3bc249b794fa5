package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"tracker/internal/core"
)

const maxBodyBytes = 1 << 20

// RequestBodyParser reads a request body once and exposes its fields whether
// it arrived as JSON or as a form.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser reads at most 1 MiB of the request body.
func NewRequestBodyParser(w http.ResponseWriter, r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	p.body, p.err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	trimmed := strings.TrimSpace(string(p.body))
	if trimmed == "" {
		p.formData = url.Values{}
		return nil
	}

	if trimmed[0] == '{' || strings.HasPrefix(p.contentType, "application/json") {
		p.jsonData = make(map[string]any)
		if err := json.Unmarshal([]byte(trimmed), &p.jsonData); err != nil {
			p.err = err
			return err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(trimmed)
	return p.err
}

// Get returns a trimmed string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// Raw returns a value without trimming. Used for passwords.
func (p *RequestBodyParser) Raw(key string) string {
	if p.jsonData != nil {
		return stringValue(p.jsonData[key])
	}
	if p.formData != nil {
		return p.formData.Get(key)
	}
	return ""
}

// Has reports whether key was sent with a non-null value.
func (p *RequestBodyParser) Has(key string) bool {
	if p.jsonData != nil {
		v, ok := p.jsonData[key]
		return ok && v != nil
	}
	if p.formData != nil {
		_, ok := p.formData[key]
		return ok
	}
	return false
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// sanitizeInput drops control characters other than tab and newlines, then trims.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// parseTransactionInput builds and validates a transaction from a parsed body.
// Booleans are rejected as amounts; strings are parsed as numbers. Text fields
// are stored as submitted.
func parseTransactionInput(p *RequestBodyParser) (core.TransactionInput, error) {
	if !p.Has("amount") || p.Get("amount") == "" {
		return core.TransactionInput{}, &core.ValidationError{Field: "amount", Err: core.ErrMissingAmount}
	}
	amount := core.ParseAmount(p.Get("amount"))
	if p.IsJSON() {
		if _, isBool := p.jsonData["amount"].(bool); isBool {
			return core.TransactionInput{}, &core.ValidationError{Field: "amount", Err: core.ErrInvalidAmount}
		}
	}
	in := core.TransactionInput{
		Type:     core.TxType(p.Get("type")),
		Amount:   amount,
		Category: p.Raw("category"),
		Note:     p.Raw("note"),
		Date:     p.Raw("date"),
	}
	if err := in.Validate(); err != nil {
		return core.TransactionInput{}, err
	}
	return in, nil
}

func parseSignup(p *RequestBodyParser) core.Signup {
	return core.Signup{
		Name:     p.Get("name"),
		Email:    p.Get("email"),
		Password: p.Raw("password"),
	}
}

var errBadBody = errors.New("request body must be JSON or form encoded")
