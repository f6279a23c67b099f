// Package ledger implements the operation set over an account's expense
// collection: add, edit, remove, month-scoped query, and the full account
// projection.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

// EventPublisher receives a notification after every successful ledger
// mutation. A nil publisher disables eventing.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, accountID, expenseID, op string, year, month int) error
}

// Event operation names carried on the wire.
const (
	OpAdd    = "add"
	OpEdit   = "edit"
	OpRemove = "remove"
)

// RecordInput carries the caller-supplied fields of an expense record.
// Values are stored as-is; no range or emptiness checks are applied.
type RecordInput struct {
	Description string
	Amount      float64
	Saving      float64
	Date        time.Time
}

type Service struct {
	store  store.AccountStore
	events EventPublisher
}

func NewService(st store.AccountStore, events EventPublisher) *Service {
	return &Service{store: st, events: events}
}

// Add appends a new record with a fresh identifier to the account's ledger.
func (s *Service) Add(ctx context.Context, username string, in RecordInput) (string, error) {
	account, err := s.store.AccountByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("look up account: %w", err)
	}

	rec := core.ExpenseRecord{
		ID:          uuid.NewString(),
		Description: in.Description,
		Amount:      in.Amount,
		Saving:      in.Saving,
		Date:        in.Date,
	}
	if err := s.store.AppendExpense(ctx, account.ID, rec); err != nil {
		return "", fmt.Errorf("append expense: %w", err)
	}

	s.publish(ctx, account.ID, rec.ID, OpAdd, rec.Date)
	return rec.ID, nil
}

// Edit overwrites description, amount, saving and date of the record in a
// single logical update. There is no partial-field patch.
func (s *Service) Edit(ctx context.Context, username, expenseID string, in RecordInput) error {
	account, err := s.store.AccountByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("look up account: %w", err)
	}
	if account.FindExpense(expenseID) == nil {
		return core.ErrExpenseNotFound
	}

	rec := core.ExpenseRecord{
		ID:          expenseID,
		Description: in.Description,
		Amount:      in.Amount,
		Saving:      in.Saving,
		Date:        in.Date,
	}
	if err := s.store.UpdateExpense(ctx, account.ID, rec); err != nil {
		return fmt.Errorf("update expense: %w", err)
	}

	s.publish(ctx, account.ID, expenseID, OpEdit, rec.Date)
	return nil
}

// Remove deletes the record with the given id. Removing an id that does not
// exist succeeds silently; only a missing account is an error. The asymmetry
// is deliberate and matches the pull semantics clients rely on.
func (s *Service) Remove(ctx context.Context, username, expenseID string) error {
	account, err := s.store.AccountByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("look up account: %w", err)
	}

	removed := account.FindExpense(expenseID)
	if err := s.store.DeleteExpense(ctx, account.ID, expenseID); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	if removed != nil {
		s.publish(ctx, account.ID, expenseID, OpRemove, removed.Date)
	}
	return nil
}

// QueryMonth returns every record of the account whose date falls in the
// given calendar year and month (1-12).
func (s *Service) QueryMonth(ctx context.Context, username string, year, month int) ([]core.ExpenseRecord, error) {
	account, err := s.store.AccountByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("look up account: %w", err)
	}
	return account.ExpensesIn(year, month), nil
}

// Get returns the full account projection, records included.
func (s *Service) Get(ctx context.Context, username string) (*core.Account, error) {
	account, err := s.store.AccountByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("look up account: %w", err)
	}
	return account, nil
}

// publish emits a ledger-change event. Failures are logged and swallowed:
// the mutation already committed and the worker catches up on resync.
func (s *Service) publish(ctx context.Context, accountID, expenseID, op string, date time.Time) {
	if s.events == nil {
		return
	}
	err := s.events.PublishLedgerEvent(ctx, accountID, expenseID, op, date.Year(), int(date.Month()))
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"account_id", accountID, "expense_id", expenseID, "op", op, "error", err)
	}
}
