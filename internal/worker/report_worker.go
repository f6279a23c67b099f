// Package worker keeps month summaries in sync with ledger changes.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/report"
	"fintrack/internal/store"
)

// ReportWorker consumes ledger events and upserts the affected month
// summary. A periodic resync of the current month covers events lost while
// the worker was down.
type ReportWorker struct {
	store  store.AccountStore
	writer report.Writer
}

func NewReportWorker(st store.AccountStore, writer report.Writer) *ReportWorker {
	return &ReportWorker{store: st, writer: writer}
}

// HandleLedgerEvent recomputes the summary of the month named in the
// event. An account deleted between event and handling is not an error:
// there is nothing left to report on.
func (w *ReportWorker) HandleLedgerEvent(ctx context.Context, msg *amqp.LedgerEventMessage) error {
	slog.InfoContext(ctx, "Processing ledger event",
		"account_id", msg.AccountID,
		"expense_id", msg.ExpenseID,
		"op", msg.Op,
		"year", msg.Year,
		"month", msg.Month)

	account, err := w.store.AccountByID(ctx, msg.AccountID)
	if err != nil {
		slog.WarnContext(ctx, "Account gone, skipping summary",
			"account_id", msg.AccountID, "error", err)
		return nil
	}

	summary := report.Build(account, msg.Year, msg.Month)
	if err := w.writer.UpsertMonthSummary(ctx, summary); err != nil {
		return fmt.Errorf("write month summary: %w", err)
	}
	return nil
}

// ResyncCurrentMonth rewrites the current month's summary for every
// account. Used at startup and on a timer as a catch-up path.
func (w *ReportWorker) ResyncCurrentMonth(ctx context.Context) error {
	now := time.Now()
	year, month := now.Year(), int(now.Month())

	accounts, err := w.store.Accounts(ctx)
	if err != nil {
		return fmt.Errorf("list accounts: %w", err)
	}

	for _, account := range accounts {
		summary := report.Build(&account, year, month)
		if err := w.writer.UpsertMonthSummary(ctx, summary); err != nil {
			return fmt.Errorf("resync summary for %s: %w", account.Username, err)
		}
	}

	slog.InfoContext(ctx, "Resynced current month summaries",
		"accounts", len(accounts), "year", year, "month", month)
	return nil
}
