package services

import (
	"context"
	"fmt"

	"tracker/internal/amqp"
	"tracker/internal/core"
	"tracker/internal/log"
	"tracker/internal/store"
)

// EventPublisher is the outbound side of the transaction event stream.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, ev *amqp.TransactionEvent) error
}

// TransactionService stores transactions and announces changes. It satisfies
// store.TransactionStore so the HTTP layer can use it in place of a bare store.
type TransactionService struct {
	store     store.TransactionStore
	publisher EventPublisher
	logger    *log.Logger
}

// NewTransactionService wraps s. publisher may be nil when events are disabled.
func NewTransactionService(s store.TransactionStore, publisher EventPublisher, logger *log.Logger) *TransactionService {
	if logger == nil {
		logger = log.Discard()
	}
	return &TransactionService{
		store:     s,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentTransaction),
	}
}

func (s *TransactionService) List(ctx context.Context) ([]core.Transaction, error) {
	txs, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

// Insert saves first, then publishes. A publish failure is logged only.
func (s *TransactionService) Insert(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	tx, err := s.store.Insert(ctx, in)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	s.logger.InfoContext(ctx, "Transaction created", log.NewFields().WithOperation(log.OpCreate).WithTransaction(tx)...)
	s.publish(ctx, amqp.NewCreatedEvent(tx))
	return tx, nil
}

// DeleteByID removes id and publishes a deleted event when something was removed.
func (s *TransactionService) DeleteByID(ctx context.Context, id int64) (bool, error) {
	removed, err := s.store.DeleteByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete transaction: %w", err)
	}
	s.logger.InfoContext(ctx, "Transaction delete", log.FieldOperation, log.OpDelete, log.FieldTransactionID, id, "removed", removed)
	if removed {
		s.publish(ctx, amqp.NewDeletedEvent(id))
	}
	return removed, nil
}

// Ping forwards to the store when it supports readiness checks.
func (s *TransactionService) Ping(ctx context.Context) error {
	if p, ok := s.store.(store.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (s *TransactionService) publish(ctx context.Context, ev *amqp.TransactionEvent) {
	if s.publisher == nil {
		s.logger.DebugContext(ctx, "Events disabled, skipping publish", log.FieldEventKind, ev.Kind)
		return
	}
	if err := s.publisher.PublishTransactionEvent(ctx, ev); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish transaction event",
			log.FieldEventKind, ev.Kind,
			log.FieldTransactionID, ev.ID,
			log.FieldError, err)
	}
}
