// Package memory provides an in-memory AccountStore used by tests and as
// the default development backend.
package memory

import (
	"context"
	"strings"
	"sync"

	"fintrack/internal/core"
)

type Store struct {
	mu       sync.Mutex
	byID     map[string]*core.Account
	byName   map[string]string // username -> account id
	byEmail  map[string]string // lowercased email -> account id
	ordering []string          // account ids in creation order
}

func New() *Store {
	return &Store{
		byID:    make(map[string]*core.Account),
		byName:  make(map[string]string),
		byEmail: make(map[string]string),
	}
}

func (s *Store) CreateAccount(_ context.Context, a *core.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := normalizeEmail(a.Email)
	if _, taken := s.byName[a.Username]; taken {
		return core.ErrDuplicateAccount
	}
	if _, taken := s.byEmail[email]; taken {
		return core.ErrDuplicateAccount
	}

	cp := cloneAccount(a)
	s.byID[cp.ID] = cp
	s.byName[cp.Username] = cp.ID
	s.byEmail[email] = cp.ID
	s.ordering = append(s.ordering, cp.ID)
	return nil
}

func (s *Store) AccountByID(_ context.Context, id string) (*core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byID[id]
	if !ok {
		return nil, core.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func (s *Store) AccountByEmail(ctx context.Context, email string) (*core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, core.ErrAccountNotFound
	}
	return cloneAccount(s.byID[id]), nil
}

func (s *Store) AccountByUsername(_ context.Context, username string) (*core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byName[username]
	if !ok {
		return nil, core.ErrAccountNotFound
	}
	return cloneAccount(s.byID[id]), nil
}

func (s *Store) Accounts(_ context.Context) ([]core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Account, 0, len(s.ordering))
	for _, id := range s.ordering {
		out = append(out, *cloneAccount(s.byID[id]))
	}
	return out, nil
}

func (s *Store) AppendExpense(_ context.Context, accountID string, rec core.ExpenseRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byID[accountID]
	if !ok {
		return core.ErrAccountNotFound
	}
	a.Expenses = append(a.Expenses, rec)
	return nil
}

func (s *Store) UpdateExpense(_ context.Context, accountID string, rec core.ExpenseRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byID[accountID]
	if !ok {
		return core.ErrAccountNotFound
	}
	existing := a.FindExpense(rec.ID)
	if existing == nil {
		return core.ErrExpenseNotFound
	}
	*existing = rec
	return nil
}

func (s *Store) DeleteExpense(_ context.Context, accountID, expenseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byID[accountID]
	if !ok {
		return core.ErrAccountNotFound
	}
	for i := range a.Expenses {
		if a.Expenses[i].ID == expenseID {
			a.Expenses = append(a.Expenses[:i], a.Expenses[i+1:]...)
			return nil
		}
	}
	// Pull semantics: removing a record that is already gone succeeds.
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func cloneAccount(a *core.Account) *core.Account {
	cp := *a
	// Non-nil even when empty so the projection serializes as an array.
	cp.Expenses = make([]core.ExpenseRecord, len(a.Expenses))
	copy(cp.Expenses, a.Expenses)
	return &cp
}
