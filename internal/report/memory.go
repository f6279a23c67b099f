package report

import (
	"context"
	"fmt"
	"sync"
)

// MemoryWriter keeps summaries in a map. It backs tests and runs where no
// spreadsheet is configured.
type MemoryWriter struct {
	mu        sync.Mutex
	summaries map[string]MonthSummary
}

func NewMemoryWriter() *MemoryWriter {
	return &MemoryWriter{summaries: make(map[string]MonthSummary)}
}

func (w *MemoryWriter) UpsertMonthSummary(_ context.Context, s MonthSummary) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.summaries[summaryKey(s.Username, s.Year, s.Month)] = s
	return nil
}

// Summary returns the stored summary for the given key, if any.
func (w *MemoryWriter) Summary(username string, year, month int) (MonthSummary, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	s, ok := w.summaries[summaryKey(username, year, month)]
	return s, ok
}

func summaryKey(username string, year, month int) string {
	return fmt.Sprintf("%s/%04d-%02d", username, year, month)
}
