package store

import (
	"context"

	"fintrack/internal/core"
)

// AccountStore is the port for account and ledger persistence. It is
// constructed once at process start and injected into the services; there
// is no package-level connection state.
//
// Lookups return core.ErrAccountNotFound when no account matches, and
// CreateAccount returns core.ErrDuplicateAccount when username or email is
// already taken. DeleteExpense is idempotent: deleting an id that does not
// exist is not an error.
type AccountStore interface {
	CreateAccount(ctx context.Context, a *core.Account) error
	AccountByID(ctx context.Context, id string) (*core.Account, error)
	AccountByEmail(ctx context.Context, email string) (*core.Account, error)
	// AccountByUsername returns the full projection, records included.
	AccountByUsername(ctx context.Context, username string) (*core.Account, error)
	Accounts(ctx context.Context) ([]core.Account, error)

	AppendExpense(ctx context.Context, accountID string, rec core.ExpenseRecord) error
	// UpdateExpense overwrites all mutable fields of the record in one
	// logical write; it returns core.ErrExpenseNotFound on an unknown id.
	UpdateExpense(ctx context.Context, accountID string, rec core.ExpenseRecord) error
	DeleteExpense(ctx context.Context, accountID, expenseID string) error

	Ping(ctx context.Context) error
	Close() error
}
