package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tracker/internal/core"
	"tracker/internal/store"
)

var (
	_ store.TransactionStore = (*Transactions)(nil)
	_ store.UserStore        = (*Users)(nil)
)

func TestTransactionsInsertAndList(t *testing.T) {
	s := NewTransactions()
	ctx := context.Background()

	a, err := s.Insert(ctx, core.TransactionInput{Type: core.Income, Amount: 1000, Category: "Salary"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	b, err := s.Insert(ctx, core.TransactionInput{Type: core.Expense, Amount: 40, Category: "Food", Note: "lunch"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if b.ID <= a.ID {
		t.Fatalf("ids not increasing: %d then %d", a.ID, b.ID)
	}
	if b.Note != "lunch" || b.Amount != 40 {
		t.Fatalf("fields not kept: %+v", b)
	}

	got, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].ID != a.ID || got[1].ID != b.ID {
		t.Fatalf("unexpected list %+v", got)
	}

	got[0].Category = "mutated"
	again, _ := s.List(ctx)
	if again[0].Category != "Salary" {
		t.Fatal("List must return a copy")
	}
}

func TestTransactionsInsertRejectsInvalid(t *testing.T) {
	s := NewTransactions()
	_, err := s.Insert(context.Background(), core.TransactionInput{Type: "gift", Amount: 1, Category: "x"})
	if !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	list, _ := s.List(context.Background())
	if len(list) != 0 {
		t.Fatal("invalid record stored")
	}
}

func TestTransactionsIDsUniqueWithinSameMillisecond(t *testing.T) {
	s := NewTransactions()
	fixed := time.UnixMilli(1_700_000_000_000)
	s.now = func() time.Time { return fixed }

	seen := map[int64]bool{}
	for i := 0; i < 5; i++ {
		tx, err := s.Insert(context.Background(), core.TransactionInput{Type: core.Expense, Amount: 1, Category: "c"})
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
		if seen[tx.ID] {
			t.Fatalf("duplicate id %d", tx.ID)
		}
		seen[tx.ID] = true
	}
}

func TestTransactionsDeleteByID(t *testing.T) {
	s := NewTransactions(
		core.Transaction{ID: 1, Type: core.Expense, Amount: 1, Category: "a"},
		core.Transaction{ID: 2, Type: core.Expense, Amount: 2, Category: "b"},
	)
	ctx := context.Background()

	removed, err := s.DeleteByID(ctx, 1)
	if err != nil || !removed {
		t.Fatalf("delete existing: removed=%v err=%v", removed, err)
	}
	removed, err = s.DeleteByID(ctx, 1)
	if err != nil || removed {
		t.Fatalf("delete again: removed=%v err=%v", removed, err)
	}
	list, _ := s.List(ctx)
	if len(list) != 1 || list[0].ID != 2 {
		t.Fatalf("unexpected list %+v", list)
	}

	tx, _ := s.Insert(ctx, core.TransactionInput{Type: core.Income, Amount: 1, Category: "c"})
	if tx.ID <= 2 {
		t.Fatalf("new id %d should exceed seeded ids", tx.ID)
	}
}

func TestTransactionsConcurrentInserts(t *testing.T) {
	s := NewTransactions()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Insert(context.Background(), core.TransactionInput{Type: core.Expense, Amount: 1, Category: "c"})
		}()
	}
	wg.Wait()
	list, _ := s.List(context.Background())
	if len(list) != 50 {
		t.Fatalf("got %d records", len(list))
	}
	seen := map[int64]bool{}
	for _, tx := range list {
		if seen[tx.ID] {
			t.Fatalf("duplicate id %d", tx.ID)
		}
		seen[tx.ID] = true
	}
}

func TestUsersInsertIfAbsent(t *testing.T) {
	s := NewUsers()
	ctx := context.Background()

	u, err := s.InsertIfAbsent(ctx, "A", "a@x", "hash")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := s.InsertIfAbsent(ctx, "B", "a@x", "other"); !errors.Is(err, core.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	found, ok, err := s.FindByEmail(ctx, "a@x")
	if err != nil || !ok || found.ID != u.ID || found.Name != "A" {
		t.Fatalf("find: %+v %v %v", found, ok, err)
	}
	if _, ok, _ := s.FindByEmail(ctx, "A@X"); ok {
		t.Fatal("email matching should be exact")
	}
}
