package memory

import (
	"context"
	"fmt"
	"sync"

	"tracker/internal/core"
)

// Exporter keeps exported rows in process. Used when no Sheets credentials are configured.
type Exporter struct {
	mu      sync.Mutex
	rows    []core.Transaction
	appends int
}

func New() *Exporter {
	return &Exporter{}
}

// AppendTransaction stores the row and returns a synthetic row reference.
// Re-exporting an id replaces its row so redelivered events stay idempotent.
func (e *Exporter) AppendTransaction(_ context.Context, tx core.Transaction) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.appends++
	for i := range e.rows {
		if e.rows[i].ID == tx.ID {
			e.rows[i] = tx
			return fmt.Sprintf("mem:%d", i+1), nil
		}
	}
	e.rows = append(e.rows, tx)
	return fmt.Sprintf("mem:%d", len(e.rows)), nil
}

func (e *Exporter) DeleteTransaction(_ context.Context, id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.rows {
		if e.rows[i].ID == id {
			e.rows = append(e.rows[:i], e.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

// Rows returns a copy of the exported rows in sheet order.
func (e *Exporter) Rows() []core.Transaction {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]core.Transaction(nil), e.rows...)
}
