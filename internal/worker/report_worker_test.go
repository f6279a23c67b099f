package worker

import (
	"context"
	"testing"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/report"
	"fintrack/internal/store/memory"
)

func seedStore(t *testing.T) *memory.Store {
	t.Helper()
	st := memory.New()
	err := st.CreateAccount(context.Background(), &core.Account{
		ID: "acct-1", Username: "alice", Email: "a@x.com",
		Expenses: []core.ExpenseRecord{
			{ID: "r1", Amount: 5, Saving: 1, Date: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
			{ID: "r2", Amount: 7, Saving: 0, Date: time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)},
			{ID: "r3", Amount: 99, Saving: 0, Date: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)},
		},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return st
}

func TestHandleLedgerEvent(t *testing.T) {
	st := seedStore(t)
	writer := report.NewMemoryWriter()
	w := NewReportWorker(st, writer)

	msg := amqp.NewLedgerEventMessage("acct-1", "r1", "add", 2024, 3)
	if err := w.HandleLedgerEvent(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}

	s, ok := writer.Summary("alice", 2024, 3)
	if !ok {
		t.Fatalf("no summary written")
	}
	if s.Spent != 12 || s.Saved != 1 || s.Records != 2 {
		t.Fatalf("summary = %+v", s)
	}
}

func TestHandleLedgerEventMissingAccount(t *testing.T) {
	st := seedStore(t)
	writer := report.NewMemoryWriter()
	w := NewReportWorker(st, writer)

	// The event refers to an account that no longer exists; the message
	// must be consumed without error so it is not requeued forever.
	msg := amqp.NewLedgerEventMessage("gone", "r1", "remove", 2024, 3)
	if err := w.HandleLedgerEvent(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if _, ok := writer.Summary("", 2024, 3); ok {
		t.Fatalf("summary written for missing account")
	}
}

func TestResyncCurrentMonth(t *testing.T) {
	st := memory.New()
	now := time.Now()
	err := st.CreateAccount(context.Background(), &core.Account{
		ID: "acct-1", Username: "alice", Email: "a@x.com",
		Expenses: []core.ExpenseRecord{
			{ID: "r1", Amount: 3, Date: now},
		},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	writer := report.NewMemoryWriter()
	w := NewReportWorker(st, writer)

	if err := w.ResyncCurrentMonth(context.Background()); err != nil {
		t.Fatalf("resync: %v", err)
	}
	s, ok := writer.Summary("alice", now.Year(), int(now.Month()))
	if !ok || s.Spent != 3 || s.Records != 1 {
		t.Fatalf("summary = %+v ok=%v", s, ok)
	}
}
