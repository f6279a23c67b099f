package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/store/memory"
)

// Low cost keeps the bcrypt rounds cheap in tests.
const testCost = 4

func newService() (*Service, *memory.Store) {
	st := memory.New()
	return NewService(st, NewTokenIssuer("test-secret", time.Hour), testCost), st
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	account, token, err := svc.Register(ctx, "alice", "a@x.com", "pw")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if account.ID == "" || token == "" {
		t.Fatalf("expected id and token, got %+v / %q", account, token)
	}
	if account.PasswordHash == "pw" || account.PasswordHash == "" {
		t.Fatalf("password stored without hashing")
	}

	got, loginToken, err := svc.Login(ctx, "a@x.com", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.Username != "alice" || loginToken == "" {
		t.Fatalf("login result: %+v / %q", got, loginToken)
	}

	if _, _, err := svc.Login(ctx, "a@x.com", "wrong"); !errors.Is(err, core.ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@x.com", "pw"); !errors.Is(err, core.ErrInvalidCredentials) {
		t.Fatalf("unknown email: got %v", err)
	}
}

func TestRegisterDuplicateLeavesAccountUntouched(t *testing.T) {
	svc, st := newService()
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "alice", "a@x.com", "pw"); err != nil {
		t.Fatalf("register: %v", err)
	}
	before, _ := st.AccountByEmail(ctx, "a@x.com")

	if _, _, err := svc.Register(ctx, "other", "a@x.com", "newpw"); !errors.Is(err, core.ErrDuplicateAccount) {
		t.Fatalf("duplicate email: got %v", err)
	}

	after, _ := st.AccountByEmail(ctx, "a@x.com")
	if after.Username != before.Username || after.PasswordHash != before.PasswordHash {
		t.Fatalf("existing account was altered by failed signup")
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	cases := []struct {
		name     string
		username string
		email    string
		password string
		wantErr  error
	}{
		{"no username", "", "a@x.com", "pw", core.ErrEmptyUsername},
		{"bad email", "alice", "nope", "pw", core.ErrInvalidEmail},
		{"no password", "alice", "a@x.com", "", core.ErrEmptyPassword},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := svc.Register(ctx, tc.username, tc.email, tc.password); !errors.Is(err, tc.wantErr) {
				t.Fatalf("got %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)

	token, err := issuer.Issue("acct-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	id, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id != "acct-1" {
		t.Fatalf("verify returned %q", id)
	}

	if _, err := issuer.Verify("garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("garbage token: got %v", err)
	}

	// Token signed with another secret must not verify.
	other := NewTokenIssuer("other-secret", time.Hour)
	foreign, _ := other.Issue("acct-1")
	if _, err := issuer.Verify(foreign); err == nil {
		t.Fatalf("token from foreign secret verified")
	}
}

func TestTokenExpiry(t *testing.T) {
	issuer := &TokenIssuer{secret: []byte("secret"), ttl: -time.Minute}
	token, err := issuer.Issue("acct-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := issuer.Verify(token); err == nil {
		t.Fatalf("expired token verified")
	}
}

func TestHashPassword(t *testing.T) {
	digest, err := HashPassword("pw", testCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword("pw", digest) {
		t.Fatalf("digest does not verify")
	}
	if CheckPassword("other", digest) {
		t.Fatalf("wrong password verified")
	}
}
