// Package auth implements the credential store and session issuer: bcrypt
// password hashing, account registration and login, and JWT session tokens.
package auth

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

// Service mediates signup and login against the account store. The ledger
// service never sees raw passwords or tokens; they stop here.
type Service struct {
	store  store.AccountStore
	issuer *TokenIssuer
	cost   int
}

func NewService(st store.AccountStore, issuer *TokenIssuer, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = DefaultBcryptCost
	}
	return &Service{store: st, issuer: issuer, cost: bcryptCost}
}

// Register creates a new account and issues its first session token.
// A taken email or username yields core.ErrDuplicateAccount and leaves the
// existing account untouched.
func (s *Service) Register(ctx context.Context, username, email, password string) (*core.Account, string, error) {
	if err := core.ValidateSignup(username, email, password); err != nil {
		return nil, "", err
	}

	// Lookup first so the duplicate case gets its own error; the store's
	// unique constraints remain the backstop against races.
	if _, err := s.store.AccountByEmail(ctx, email); err == nil {
		return nil, "", core.ErrDuplicateAccount
	} else if !errors.Is(err, core.ErrAccountNotFound) {
		return nil, "", fmt.Errorf("check existing account: %w", err)
	}

	digest, err := HashPassword(password, s.cost)
	if err != nil {
		return nil, "", err
	}

	account := &core.Account{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: digest,
		Expenses:     []core.ExpenseRecord{},
		CreatedAt:    time.Now(),
	}
	if err := s.store.CreateAccount(ctx, account); err != nil {
		return nil, "", err
	}

	token, err := s.issuer.Issue(account.ID)
	if err != nil {
		return nil, "", err
	}

	slog.InfoContext(ctx, "Account registered", "account_id", account.ID, "username", username)
	return account, token, nil
}

// Login verifies credentials and issues a session token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*core.Account, string, error) {
	account, err := s.store.AccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrAccountNotFound) {
			return nil, "", core.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("look up account: %w", err)
	}

	if !CheckPassword(password, account.PasswordHash) {
		return nil, "", core.ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(account.ID)
	if err != nil {
		return nil, "", err
	}

	slog.InfoContext(ctx, "Login succeeded", "account_id", account.ID, "username", account.Username)
	return account, token, nil
}

// Verify resolves a bearer token to the account id it was issued for.
func (s *Service) Verify(token string) (string, error) {
	return s.issuer.Verify(token)
}
