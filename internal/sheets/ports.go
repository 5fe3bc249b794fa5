package sheets

import (
	"context"

	"tracker/internal/core"
)

// Ports for outbound adapters.
type (
	// Exporter mirrors the ledger into an external sheet, one row per transaction.
	Exporter interface {
		AppendTransaction(ctx context.Context, tx core.Transaction) (rowRef string, err error)
		// DeleteTransaction removes the row for id. A missing row is not an error.
		DeleteTransaction(ctx context.Context, id int64) error
	}
)

// Header is the first row of an exported sheet.
var Header = []string{"id", "type", "amount", "category", "note", "date"}
