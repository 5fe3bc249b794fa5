package amqp

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"tracker/internal/core"
	"tracker/internal/log"
)

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},
		{15, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt_%d", tt.attempt), func(t *testing.T) {
			if got := exponentialBackoff(tt.attempt); got != tt.expected {
				t.Errorf("exponentialBackoff(%d) = %v, want %v", tt.attempt, got, tt.expected)
			}
		})
	}
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"connection refused", errors.New("dial tcp: connection refused"), true},
		{"unexpected EOF", errors.New("unexpected EOF"), true},
		{"amqp closed", amqp091.ErrClosed, true},
		{"wrapped closed", fmt.Errorf("publish: %w", amqp091.ErrClosed), true},
		{"access refused", errors.New("Exception (403) Reason: \"ACCESS_REFUSED\""), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isConnectionError(tt.err); got != tt.expected {
				t.Errorf("isConnectionError(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestDialWithRetryStopsOnPermanentError(t *testing.T) {
	calls := 0
	err := dialWithRetry(context.Background(), 5, func() error {
		calls++
		return errors.New("ACCESS_REFUSED")
	})
	if err == nil || calls != 1 {
		t.Fatalf("calls=%d err=%v", calls, err)
	}
}

func TestDialWithRetryHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := dialWithRetry(ctx, 5, func() error { return errors.New("connection refused") })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestTransactionEventFromJSON(t *testing.T) {
	created := NewCreatedEvent(core.Transaction{ID: 7, Type: core.Expense, Amount: 40, Category: "Food"})
	body, err := created.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	ev, err := TransactionEventFromJSON(body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev.Kind != EventCreated || ev.ID != 7 || ev.Transaction.Category != "Food" {
		t.Fatalf("unexpected event %+v", ev)
	}

	for _, bad := range []string{`{"kind":"created","id":1}`, `{"kind":"updated","id":1}`, `not json`} {
		if _, err := TransactionEventFromJSON([]byte(bad)); err == nil {
			t.Errorf("expected error for %s", bad)
		}
	}
}

type fakeAck struct {
	acked, nacked, requeued int
}

func (f *fakeAck) Ack(tag uint64, multiple bool) error { f.acked++; return nil }

func (f *fakeAck) Nack(tag uint64, multiple, requeue bool) error {
	f.nacked++
	if requeue {
		f.requeued++
	}
	return nil
}

func (f *fakeAck) Reject(tag uint64, requeue bool) error { return f.Nack(tag, false, requeue) }

func TestHandleDelivery(t *testing.T) {
	body, _ := NewDeletedEvent(3).ToJSON()
	ok := func(context.Context, *TransactionEvent) error { return nil }
	fail := func(context.Context, *TransactionEvent) error { return errors.New("sheets down") }

	tests := []struct {
		name     string
		body     []byte
		handler  EventHandler
		acked    int
		nacked   int
		requeued int
	}{
		{"success acks", body, ok, 1, 0, 0},
		{"handler error requeues", body, fail, 0, 1, 1},
		{"bad payload dropped", []byte("{"), ok, 0, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ack := &fakeAck{}
			handleDelivery(context.Background(), log.Discard(), amqp091.Delivery{Acknowledger: ack, Body: tt.body}, tt.handler)
			if ack.acked != tt.acked || ack.nacked != tt.nacked || ack.requeued != tt.requeued {
				t.Fatalf("got ack=%d nack=%d requeue=%d", ack.acked, ack.nacked, ack.requeued)
			}
		})
	}
}
