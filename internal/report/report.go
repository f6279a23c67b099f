// Package report aggregates an account's ledger into per-month summaries
// and defines the port for writing them out.
package report

import (
	"context"

	"fintrack/internal/core"
)

// MonthSummary is the aggregated view of one account's month: what was
// spent, what was saved, and how many records contributed.
type MonthSummary struct {
	Username string
	Year     int
	Month    int // 1-12
	Spent    float64
	Saved    float64
	Records  int
}

// Writer persists month summaries somewhere a human looks at them.
// Upserts are keyed by (username, year, month).
type Writer interface {
	UpsertMonthSummary(ctx context.Context, s MonthSummary) error
}

// Build computes the summary of one calendar month from the account's
// ledger. An empty month yields a zero summary, which the writer still
// records so a cleared month overwrites its old row.
func Build(account *core.Account, year, month int) MonthSummary {
	s := MonthSummary{Username: account.Username, Year: year, Month: month}
	for _, rec := range account.ExpensesIn(year, month) {
		s.Spent += rec.Amount
		s.Saved += rec.Saving
		s.Records++
	}
	return s
}
