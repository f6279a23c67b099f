// Package backend selects and constructs the account store from
// configuration.
package backend

import (
	"fmt"
	"log/slog"

	"fintrack/internal/storage"
	"fintrack/internal/store"
	"fintrack/internal/store/memory"
)

// CleanupFunc releases resources held by a store.
type CleanupFunc func() error

// Result contains the constructed store and its optional cleanup.
type Result struct {
	Store   store.AccountStore
	Cleanup CleanupFunc
}

// Config holds store selection settings.
type Config struct {
	Type         Type
	SQLiteDBPath string
}

// Type names a storage backend.
type Type string

const (
	SQLiteType Type = "sqlite"
	MemoryType Type = "memory"
)

func (t Type) String() string { return string(t) }

// IsValid reports whether the backend type is known.
func (t Type) IsValid() bool {
	switch t {
	case SQLiteType, MemoryType:
		return true
	default:
		return false
	}
}

// Open constructs the configured store, running migrations when the
// backend is SQLite.
func Open(cfg Config, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.Type)
	}

	switch cfg.Type {
	case SQLiteType:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
		return &Result{Store: repo, Cleanup: repo.Close}, nil

	case MemoryType:
		logger.Info("Initialized memory backend")
		return &Result{Store: memory.New(), Cleanup: nil}, nil

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}
