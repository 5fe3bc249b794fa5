package worker

import (
	"context"
	"fmt"
	"sync/atomic"

	"tracker/internal/amqp"
	"tracker/internal/log"
	"tracker/internal/sheets"
)

// ExportWorker mirrors transaction events into a sheet.
type ExportWorker struct {
	exporter sheets.Exporter
	logger   *log.Logger

	exported atomic.Int64
	deleted  atomic.Int64
}

func NewExportWorker(exporter sheets.Exporter, logger *log.Logger) *ExportWorker {
	if logger == nil {
		logger = log.Discard()
	}
	return &ExportWorker{exporter: exporter, logger: logger.WithComponent(log.ComponentWorker)}
}

// Handle processes a single event. It satisfies amqp.EventHandler; a returned
// error requeues the delivery.
func (w *ExportWorker) Handle(ctx context.Context, ev *amqp.TransactionEvent) error {
	switch ev.Kind {
	case amqp.EventCreated:
		ref, err := w.exporter.AppendTransaction(ctx, *ev.Transaction)
		if err != nil {
			w.logger.ErrorContext(ctx, "Failed to export transaction",
				log.FieldTransactionID, ev.ID,
				log.FieldError, err)
			return fmt.Errorf("export transaction %d: %w", ev.ID, err)
		}
		w.exported.Add(1)
		w.logger.InfoContext(ctx, "Exported transaction",
			log.FieldTransactionID, ev.ID,
			"row", ref)
	case amqp.EventDeleted:
		if err := w.exporter.DeleteTransaction(ctx, ev.ID); err != nil {
			w.logger.ErrorContext(ctx, "Failed to delete exported transaction",
				log.FieldTransactionID, ev.ID,
				log.FieldError, err)
			return fmt.Errorf("delete exported transaction %d: %w", ev.ID, err)
		}
		w.deleted.Add(1)
		w.logger.InfoContext(ctx, "Deleted exported transaction", log.FieldTransactionID, ev.ID)
	default:
		w.logger.WarnContext(ctx, "Ignoring unknown event", "kind", ev.Kind, log.FieldTransactionID, ev.ID)
	}
	return nil
}

// Stats reports how many rows were exported and deleted since start.
func (w *ExportWorker) Stats() (exported, deleted int64) {
	return w.exported.Load(), w.deleted.Load()
}
