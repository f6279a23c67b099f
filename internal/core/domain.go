package core

import (
	"errors"
	"net/mail"
	"strings"
	"time"
)

type (
	// Account is a registered user and the owner of a ledger of expense
	// records. Records are embedded: they do not outlive the account.
	Account struct {
		ID           string          `json:"id"`
		Username     string          `json:"username"`
		Email        string          `json:"email"`
		PasswordHash string          `json:"-"`
		Expenses     []ExpenseRecord `json:"expenses"`
		CreatedAt    time.Time       `json:"created_at"`
	}

	// ExpenseRecord is a single dated ledger entry. Amount is the value
	// spent in the period, Saving the value put aside. Only year and month
	// of Date are significant for grouping.
	//
	// Negative amounts and empty descriptions are accepted as-is; the
	// stored record mirrors exactly what the caller submitted.
	ExpenseRecord struct {
		ID          string    `json:"id"`
		Description string    `json:"description"`
		Amount      float64   `json:"amount"`
		Saving      float64   `json:"saving"`
		Date        time.Time `json:"date"`
	}
)

var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrExpenseNotFound    = errors.New("expense not found")
	ErrDuplicateAccount   = errors.New("account already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrEmptyUsername = errors.New("empty username")
	ErrEmptyPassword = errors.New("empty password")
	ErrInvalidEmail  = errors.New("invalid email address")
)

// ValidateSignup checks the schema-level constraints on a new account.
// It mirrors the required-field contract of the account store.
func ValidateSignup(username, email, password string) error {
	if strings.TrimSpace(username) == "" {
		return ErrEmptyUsername
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmail
	}
	if password == "" {
		return ErrEmptyPassword
	}
	return nil
}

// FindExpense returns a pointer to the record with the given id, or nil.
// Lookup is by identifier, not position; callers mutate through the pointer.
func (a *Account) FindExpense(id string) *ExpenseRecord {
	for i := range a.Expenses {
		if a.Expenses[i].ID == id {
			return &a.Expenses[i]
		}
	}
	return nil
}

// ExpensesIn returns every record whose date falls in the given calendar
// year and month (1-12). Order follows the underlying collection.
func (a *Account) ExpensesIn(year, month int) []ExpenseRecord {
	out := make([]ExpenseRecord, 0)
	for _, e := range a.Expenses {
		if e.InMonth(year, month) {
			out = append(out, e)
		}
	}
	return out
}

// InMonth reports whether the record's date falls in the calendar
// year/month pair. Month is 1-12; the comparison uses the calendar value
// of the stored date, never a string or epoch comparison.
func (e ExpenseRecord) InMonth(year, month int) bool {
	return e.Date.Year() == year && int(e.Date.Month()) == month
}
