package amqp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tracker/internal/core"
)

// EventKind names what happened to a transaction.
type EventKind string

const (
	EventCreated EventKind = "created"
	EventDeleted EventKind = "deleted"
)

// TransactionEvent is published after a ledger mutation. Created events carry
// the full record; deleted events carry only the id.
type TransactionEvent struct {
	Kind        EventKind         `json:"kind"`
	ID          int64             `json:"id"`
	Transaction *core.Transaction `json:"transaction,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
}

func NewCreatedEvent(tx core.Transaction) *TransactionEvent {
	return &TransactionEvent{Kind: EventCreated, ID: tx.ID, Transaction: &tx, Timestamp: time.Now().UTC()}
}

func NewDeletedEvent(id int64) *TransactionEvent {
	return &TransactionEvent{Kind: EventDeleted, ID: id, Timestamp: time.Now().UTC()}
}

// ToJSON converts the event to JSON bytes
func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// TransactionEventFromJSON decodes and checks an event.
func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var ev TransactionEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	switch ev.Kind {
	case EventCreated:
		if ev.Transaction == nil {
			return nil, errors.New("created event without transaction")
		}
	case EventDeleted:
	default:
		return nil, fmt.Errorf("unknown event kind %q", ev.Kind)
	}
	return &ev, nil
}
