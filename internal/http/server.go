// Package http exposes the account and ledger operations as a JSON API
// mounted under /api/users, wire-compatible with the SPA frontend.
package http

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/store"
	appweb "fintrack/web"
)

// AuthService is the slice of the auth layer the transport needs.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*core.Account, string, error)
	Login(ctx context.Context, email, password string) (*core.Account, string, error)
	Verify(token string) (string, error)
}

// LedgerService is the slice of the ledger layer the transport needs.
type LedgerService interface {
	Add(ctx context.Context, username string, in ledger.RecordInput) (string, error)
	Edit(ctx context.Context, username, expenseID string, in ledger.RecordInput) error
	Remove(ctx context.Context, username, expenseID string) error
	QueryMonth(ctx context.Context, username string, year, month int) ([]core.ExpenseRecord, error)
	Get(ctx context.Context, username string) (*core.Account, error)
}

// Config holds transport settings.
type Config struct {
	Addr        string
	CORSOrigins []string

	// RequireAuth turns on bearer-token enforcement for the /user/ routes.
	// Off by default: the SPA sends no Authorization header on expense
	// calls.
	RequireAuth bool
}

type Server struct {
	http.Server

	auth   AuthService
	ledger LedgerService
	store  store.AccountStore

	corsOrigins []string
	requireAuth bool
	limiter     *ratelimit.Limiter

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(cfg Config, as AuthService, ls LedgerService, st store.AccountStore) *Server {
	mux := http.NewServeMux()

	s := &Server{
		auth:        as,
		ledger:      ls,
		store:       st,
		corsOrigins: cfg.CORSOrigins,
		requireAuth: cfg.RequireAuth,
		limiter:     ratelimit.NewLimiter(ratelimit.DefaultConfig()),
	}

	mux.HandleFunc("POST /api/users/signup", s.handleSignup)
	mux.HandleFunc("POST /api/users/login", s.handleLogin)
	mux.HandleFunc("GET /api/users/user/{username}", s.protected(s.handleGetUser))
	mux.HandleFunc("POST /api/users/user/{username}/expense", s.protected(s.handleAddExpense))
	mux.HandleFunc("PUT /api/users/user/{username}/expense/{expenseId}", s.protected(s.handleEditExpense))
	mux.HandleFunc("DELETE /api/users/user/{username}/expense/{expenseId}", s.protected(s.handleRemoveExpense))
	mux.HandleFunc("GET /api/users/user/{username}/expenses/{year}/{month}", s.protected(s.handleMonthExpenses))

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	// Embedded landing page and static assets.
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := security.StaticAssetMiddleware(3600)(http.FileServerFS(sub))
		mux.Handle("GET /{$}", static)
		mux.Handle("GET /static/", http.StripPrefix("/static/", static))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(clientIP)

	var handler http.Handler = mux
	handler = s.rateLimitMutations(handler)
	handler = s.corsMiddleware(handler)
	handler = headers.Middleware(handler)
	handler = tracer.Middleware(handler)

	s.Server = http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// Handler returns the fully wrapped handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.Server.Handler
}

// Shutdown stops the server and its background goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// rateLimitMutations applies the per-client limiter to mutating requests
// only; reads stay unmetered.
func (s *Server) rateLimitMutations(next http.Handler) http.Handler {
	limited := s.limiter.Middleware(clientIP, func(w http.ResponseWriter, r *http.Request) {
		slog.WarnContext(r.Context(), "Rate limit exceeded",
			"client_ip", clientIP(r), "method", r.Method, "path", r.URL.Path)
		w.Header().Set("Retry-After", "60")
		writeMessage(w, http.StatusTooManyRequests, "Too many requests")
	})(next)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete:
			limited.ServeHTTP(w, r)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

// corsMiddleware reflects allowed SPA origins and answers preflights.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.originAllowed(origin) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Vary", "Origin")
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			h.Set("Access-Control-Max-Age", "600")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) originAllowed(origin string) bool {
	for _, allowed := range s.corsOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// protected enforces a bearer token when RequireAuth is on. The token only
// proves a prior login; it does not bind the caller to the path's username.
func (s *Server) protected(next http.HandlerFunc) http.HandlerFunc {
	if !s.requireAuth {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeMessage(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if _, err := s.auth.Verify(token); err != nil {
			slog.WarnContext(r.Context(), "Rejected bearer token", "error", err)
			writeMessage(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next(w, r)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady pings the store so orchestrators see storage trouble.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		slog.ErrorContext(r.Context(), "Readiness check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("store unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
