package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/core"
)

func newAccount(id, username, email string) *core.Account {
	return &core.Account{ID: id, Username: username, Email: email, PasswordHash: "x"}
}

func TestCreateAccountUniqueness(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.CreateAccount(ctx, newAccount("1", "alice", "a@x.com")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.CreateAccount(ctx, newAccount("2", "alice", "other@x.com")); !errors.Is(err, core.ErrDuplicateAccount) {
		t.Fatalf("duplicate username: got %v", err)
	}
	if err := s.CreateAccount(ctx, newAccount("3", "bob", "A@X.com")); !errors.Is(err, core.ErrDuplicateAccount) {
		t.Fatalf("duplicate email (case-insensitive): got %v", err)
	}
}

func TestLookupsReturnCopies(t *testing.T) {
	s := New()
	ctx := context.Background()
	if err := s.CreateAccount(ctx, newAccount("1", "alice", "a@x.com")); err != nil {
		t.Fatalf("create: %v", err)
	}

	a, err := s.AccountByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("by username: %v", err)
	}
	a.Username = "mallory"

	again, _ := s.AccountByUsername(ctx, "alice")
	if again == nil || again.Username != "alice" {
		t.Fatalf("store state leaked through returned copy")
	}

	if _, err := s.AccountByUsername(ctx, "nobody"); !errors.Is(err, core.ErrAccountNotFound) {
		t.Fatalf("unknown username: got %v", err)
	}
	if _, err := s.AccountByEmail(ctx, "nobody@x.com"); !errors.Is(err, core.ErrAccountNotFound) {
		t.Fatalf("unknown email: got %v", err)
	}
	if _, err := s.AccountByID(ctx, "zz"); !errors.Is(err, core.ErrAccountNotFound) {
		t.Fatalf("unknown id: got %v", err)
	}
}

func TestExpenseLifecycle(t *testing.T) {
	s := New()
	ctx := context.Background()
	if err := s.CreateAccount(ctx, newAccount("1", "alice", "a@x.com")); err != nil {
		t.Fatalf("create: %v", err)
	}

	rec := core.ExpenseRecord{
		ID:          "r1",
		Description: "coffee",
		Amount:      5,
		Date:        time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
	}
	if err := s.AppendExpense(ctx, "1", rec); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.AppendExpense(ctx, "missing", rec); !errors.Is(err, core.ErrAccountNotFound) {
		t.Fatalf("append to missing account: got %v", err)
	}

	rec.Description = "tea"
	rec.Amount = 3
	if err := s.UpdateExpense(ctx, "1", rec); err != nil {
		t.Fatalf("update: %v", err)
	}
	a, _ := s.AccountByID(ctx, "1")
	if got := a.FindExpense("r1"); got == nil || got.Description != "tea" || got.Amount != 3 {
		t.Fatalf("update not applied: %+v", got)
	}

	if err := s.UpdateExpense(ctx, "1", core.ExpenseRecord{ID: "nope"}); !errors.Is(err, core.ErrExpenseNotFound) {
		t.Fatalf("update unknown record: got %v", err)
	}

	if err := s.DeleteExpense(ctx, "1", "r1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	// Second delete of the same id is a silent success.
	if err := s.DeleteExpense(ctx, "1", "r1"); err != nil {
		t.Fatalf("repeat delete: %v", err)
	}
	a, _ = s.AccountByID(ctx, "1")
	if len(a.Expenses) != 0 {
		t.Fatalf("expected empty ledger, got %+v", a.Expenses)
	}

	if err := s.DeleteExpense(ctx, "missing", "r1"); !errors.Is(err, core.ErrAccountNotFound) {
		t.Fatalf("delete on missing account: got %v", err)
	}
}
