package aggregate

import (
	"bytes"
	"encoding/json"
	"fmt"

	"tracker/internal/core"
)

// CategoryTotals maps category to summed expense, remembering the order in
// which categories were first seen.
type CategoryTotals struct {
	order []string
	sums  map[string]core.Amount
}

func NewCategoryTotals() *CategoryTotals {
	return &CategoryTotals{sums: make(map[string]core.Amount)}
}

// Add accumulates amount under category.
func (c *CategoryTotals) Add(category string, amount core.Amount) {
	if _, ok := c.sums[category]; !ok {
		c.order = append(c.order, category)
	}
	c.sums[category] += amount
}

func (c *CategoryTotals) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// Keys returns categories in first-occurrence order.
func (c *CategoryTotals) Keys() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.order...)
}

func (c *CategoryTotals) Get(category string) (core.Amount, bool) {
	if c == nil {
		return 0, false
	}
	v, ok := c.sums[category]
	return v, ok
}

// Values returns the sums in Keys order.
func (c *CategoryTotals) Values() []core.Amount {
	if c == nil {
		return nil
	}
	out := make([]core.Amount, len(c.order))
	for i, k := range c.order {
		out[i] = c.sums[k]
	}
	return out
}

// Sum adds every category total.
func (c *CategoryTotals) Sum() core.Amount {
	var total core.Amount
	for _, v := range c.Values() {
		total += v
	}
	return total
}

// MarshalJSON writes an object whose keys keep first-occurrence order.
func (c *CategoryTotals) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range c.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := c.sums[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object, keeping its key order.
func (c *CategoryTotals) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("category totals: expected object, got %v", tok)
	}
	*c = CategoryTotals{sums: make(map[string]core.Amount)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var v core.Amount
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("category totals %q: %w", key, err)
		}
		c.Add(key, v)
	}
	_, err = dec.Token()
	return err
}
