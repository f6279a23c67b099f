package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/store"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the durable AccountStore. Dates are stored as
// RFC 3339 text with their submitted offset so the calendar year/month of a
// record survives round-trips unchanged.
type SQLiteRepository struct {
	db *sql.DB
}

var _ store.AccountStore = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Cascade from accounts to expense_records requires foreign keys on.
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) CreateAccount(ctx context.Context, a *core.Account) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (id, username, email, password_hash, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.Username, strings.ToLower(strings.TrimSpace(a.Email)),
		a.PasswordHash, formatTime(a.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return core.ErrDuplicateAccount
		}
		return fmt.Errorf("insert account: %w", err)
	}

	slog.InfoContext(ctx, "Account created", "account_id", a.ID, "username", a.Username)
	return nil
}

func (r *SQLiteRepository) AccountByID(ctx context.Context, id string) (*core.Account, error) {
	return r.account(ctx, "id = ?", id)
}

func (r *SQLiteRepository) AccountByEmail(ctx context.Context, email string) (*core.Account, error) {
	return r.account(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (r *SQLiteRepository) AccountByUsername(ctx context.Context, username string) (*core.Account, error) {
	return r.account(ctx, "username = ?", username)
}

func (r *SQLiteRepository) Accounts(ctx context.Context) ([]core.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, username, email, password_hash, created_at
		 FROM accounts ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("select accounts: %w", err)
	}
	defer rows.Close()

	var out []core.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}

	for i := range out {
		expenses, err := r.expensesFor(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Expenses = expenses
	}
	return out, nil
}

func (r *SQLiteRepository) AppendExpense(ctx context.Context, accountID string, rec core.ExpenseRecord) error {
	if err := r.accountExists(ctx, accountID); err != nil {
		return err
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expense_records (id, account_id, description, amount, saving, spent_on, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, accountID, rec.Description, rec.Amount, rec.Saving,
		formatTime(rec.Date), formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("insert expense record: %w", err)
	}

	slog.InfoContext(ctx, "Expense record saved",
		"account_id", accountID, "expense_id", rec.ID, "amount", rec.Amount)
	return nil
}

func (r *SQLiteRepository) UpdateExpense(ctx context.Context, accountID string, rec core.ExpenseRecord) error {
	if err := r.accountExists(ctx, accountID); err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE expense_records
		 SET description = ?, amount = ?, saving = ?, spent_on = ?
		 WHERE account_id = ? AND id = ?`,
		rec.Description, rec.Amount, rec.Saving, formatTime(rec.Date),
		accountID, rec.ID)
	if err != nil {
		return fmt.Errorf("update expense record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrExpenseNotFound
	}
	return nil
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, accountID, expenseID string) error {
	if err := r.accountExists(ctx, accountID); err != nil {
		return err
	}

	// No rows matched is fine: delete is idempotent.
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM expense_records WHERE account_id = ? AND id = ?`,
		accountID, expenseID)
	if err != nil {
		return fmt.Errorf("delete expense record: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) account(ctx context.Context, where string, arg any) (*core.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, created_at
		 FROM accounts WHERE `+where, arg)

	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrAccountNotFound
		}
		return nil, err
	}

	expenses, err := r.expensesFor(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	a.Expenses = expenses
	return a, nil
}

func (r *SQLiteRepository) expensesFor(ctx context.Context, accountID string) ([]core.ExpenseRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, description, amount, saving, spent_on
		 FROM expense_records WHERE account_id = ? ORDER BY created_at, id`,
		accountID)
	if err != nil {
		return nil, fmt.Errorf("select expense records: %w", err)
	}
	defer rows.Close()

	records := make([]core.ExpenseRecord, 0)
	for rows.Next() {
		var rec core.ExpenseRecord
		var spentOn string
		if err := rows.Scan(&rec.ID, &rec.Description, &rec.Amount, &rec.Saving, &spentOn); err != nil {
			return nil, fmt.Errorf("scan expense record: %w", err)
		}
		rec.Date, err = parseTime(spentOn)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expense records: %w", err)
	}
	return records, nil
}

func (r *SQLiteRepository) accountExists(ctx context.Context, id string) error {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM accounts WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ErrAccountNotFound
	}
	if err != nil {
		return fmt.Errorf("check account: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*core.Account, error) {
	var a core.Account
	var createdAt string
	if err := row.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}
	var err error
	a.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	// Keep the submitted offset: converting to UTC could shift a
	// midnight-adjacent date into the neighboring calendar month.
	return t.Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored time %q: %w", s, err)
	}
	return t, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
