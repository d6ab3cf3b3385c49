// Package http is the JSON API surface. Every route under /api/v1 except
// auth and health requires a bearer token; handlers never see another
// owner's rows because the owner ID always comes from the verified token.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"financas/internal/middleware/ratelimit"
	"financas/internal/middleware/security"
	"financas/internal/middleware/trace"
	"financas/internal/services"
)

// Pinger reports storage liveness for the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	http.Server

	auth         *services.AuthService
	ledger       *services.LedgerService
	recurrences  *services.RecurrenceService
	account      *services.AccountService
	goals        *services.GoalService
	snapshots    *services.SnapshotService
	chat         *services.ChatService
	storagePing  Pinger
	rateLimiter  *ratelimit.Limiter
	shutdownOnce sync.Once
}

// Deps bundles everything the server routes to.
type Deps struct {
	Auth        *services.AuthService
	Ledger      *services.LedgerService
	Recurrences *services.RecurrenceService
	Account     *services.AccountService
	Goals       *services.GoalService
	Snapshots   *services.SnapshotService
	Chat        *services.ChatService
	StoragePing Pinger
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, deps Deps) *Server {
	mux := http.NewServeMux()

	s := &Server{
		auth:        deps.Auth,
		ledger:      deps.Ledger,
		recurrences: deps.Recurrences,
		account:     deps.Account,
		goals:       deps.Goals,
		snapshots:   deps.Snapshots,
		chat:        deps.Chat,
		storagePing: deps.StoragePing,
		rateLimiter: ratelimit.NewLimiter(ratelimit.DefaultConfig()),
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /api/v1/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/v1/auth/login", s.handleLogin)

	mux.HandleFunc("GET /api/v1/ledger", s.requireAuth(s.handleLedgerMonth))

	mux.HandleFunc("POST /api/v1/transactions", s.requireAuth(s.handleCreateTransaction))
	mux.HandleFunc("GET /api/v1/transactions/{id}", s.requireAuth(s.handleGetTransaction))
	mux.HandleFunc("PUT /api/v1/transactions/{id}", s.requireAuth(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /api/v1/transactions/{id}", s.requireAuth(s.handleDeleteTransaction))

	mux.HandleFunc("GET /api/v1/recurrences", s.requireAuth(s.handleListRecurrences))
	mux.HandleFunc("POST /api/v1/recurrences", s.requireAuth(s.handleCreateRecurrence))
	mux.HandleFunc("PUT /api/v1/recurrences/{id}", s.requireAuth(s.handleUpdateRecurrence))
	mux.HandleFunc("POST /api/v1/recurrences/{id}/toggle", s.requireAuth(s.handleToggleRecurrence))
	mux.HandleFunc("DELETE /api/v1/recurrences/{id}", s.requireAuth(s.handleDeleteRecurrence))

	mux.HandleFunc("GET /api/v1/account", s.requireAuth(s.handleGetAccount))
	mux.HandleFunc("PUT /api/v1/account", s.requireAuth(s.handleSetAccountBalance))

	mux.HandleFunc("GET /api/v1/goals", s.requireAuth(s.handleListGoals))
	mux.HandleFunc("POST /api/v1/goals", s.requireAuth(s.handleCreateGoal))
	mux.HandleFunc("PUT /api/v1/goals/{id}", s.requireAuth(s.handleUpdateGoal))
	mux.HandleFunc("DELETE /api/v1/goals/{id}", s.requireAuth(s.handleDeleteGoal))

	mux.HandleFunc("POST /api/v1/crypto/refresh", s.requireAuth(s.handleCryptoRefresh))
	mux.HandleFunc("GET /api/v1/crypto/snapshots", s.requireAuth(s.handleCryptoSnapshots))

	mux.HandleFunc("POST /api/v1/chat", s.requireAuth(s.handleChat))
	mux.HandleFunc("GET /api/v1/chat/history", s.requireAuth(s.handleChatHistory))

	extractor := security.NewIPExtractor()
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(extractor.ExtractClientIP)

	var handler http.Handler = mux
	handler = s.rateLimiter.Middleware(extractor.ExtractClientIP, nil)(handler)
	handler = headers.Middleware(handler)
	handler = tracer.Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Shutdown stops the middleware goroutines along with the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.storagePing != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.storagePing.Ping(ctx); err != nil {
			http.Error(w, "storage not ready", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
