package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"ledger/internal/auth"
	"ledger/internal/cache"
	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/middleware/ratelimit"
	"ledger/internal/middleware/security"
	"ledger/internal/middleware/trace"
	"ledger/internal/reports"
	"ledger/internal/services"
	"ledger/internal/sheets"
)

// Store is the part of the repository the handlers read and write directly.
// Transaction writes go through services.TransactionService instead.
type Store interface {
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, username, email, passwordHash, role string) (core.User, error)
	GetUserByID(ctx context.Context, id int64) (core.User, error)
	GetUserByUsername(ctx context.Context, username string) (core.User, error)

	CreateAccount(ctx context.Context, userID int64, name string, opening core.Money) (core.Account, error)
	ListAccounts(ctx context.Context, userID int64) ([]core.Account, error)
	GetAccount(ctx context.Context, userID, accountID int64) (core.Account, error)
	RenameAccount(ctx context.Context, userID, accountID int64, name string) (core.Account, error)
	DeleteAccount(ctx context.Context, userID, accountID int64) error

	CreateCategory(ctx context.Context, userID int64, name string, typ core.CategoryType) (core.Category, error)
	ListCategories(ctx context.Context, userID int64, typ *core.CategoryType) ([]core.Category, error)
	GetCategory(ctx context.Context, userID, categoryID int64) (core.Category, error)
	UpdateCategory(ctx context.Context, userID, categoryID int64, name *string, typ *core.CategoryType) (core.Category, error)
	DeleteCategory(ctx context.Context, userID, categoryID int64) error

	GetTransaction(ctx context.Context, userID, txID int64) (core.Transaction, error)
	ListTransactions(ctx context.Context, userID int64, f core.TransactionFilter) ([]core.Transaction, error)

	UpsertBudget(ctx context.Context, userID, categoryID int64, month core.Month, amount core.Money) (core.Budget, error)
	ListBudgets(ctx context.Context, userID int64, month *core.Month) ([]core.Budget, error)
	DeleteBudget(ctx context.Context, userID, budgetID int64) error
}

// Options wires the server's collaborators.
type Options struct {
	Addr         string
	Store        Store
	Transactions *services.TransactionService
	Reports      *reports.Engine
	// Exporter may be nil; the export endpoint then answers 501.
	Exporter           sheets.SummaryExporter
	Tokens             *auth.Tokens
	Logger             *log.Logger
	RateLimitPerMinute int
	Version            string
}

// Authenticated users are cached briefly.
const (
	userCacheSize = 1024
	userCacheTTL  = 30 * time.Second
)

type Server struct {
	http.Server
	store        Store
	transactions *services.TransactionService
	reports      *reports.Engine
	exporter     sheets.SummaryExporter
	tokens       *auth.Tokens
	version      string

	limiter      *ratelimit.Limiter
	users        *cache.LRUCache[int64, core.User]
	caches       *cache.Manager
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run http.Server.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	s := &Server{
		store:        opts.Store,
		transactions: opts.Transactions,
		reports:      opts.Reports,
		exporter:     opts.Exporter,
		tokens:       opts.Tokens,
		version:      opts.Version,
		limiter:      ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		users:        cache.NewLRUCache[int64, core.User](userCacheSize, userCacheTTL),
		caches:       cache.NewManager(),
	}
	s.caches.Register(s.users)
	s.caches.StartCleanup(time.Minute)

	mux := http.NewServeMux()
	s.routes(mux)

	detector := security.NewDetector()
	tracer := trace.NewMiddleware(log.NewStructuredLogger(logger), detector.ExtractClientIP)
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())

	// Outermost first: the access log sees the final status of every request.
	var handler http.Handler = mux
	handler = s.limiter.Middleware(detector.ExtractClientIP, rateLimited)(handler)
	handler = detector.Middleware(handler)
	handler = headers.Middleware(handler)
	handler = recoverer(handler)
	handler = log.Middleware(logger, trace.GetRequestID)(handler)
	handler = tracer.Middleware(handler)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("GET /users/me", s.requireUser(s.handleMe))

	mux.HandleFunc("POST /accounts", s.requireUser(s.handleCreateAccount))
	mux.HandleFunc("GET /accounts", s.requireUser(s.handleListAccounts))
	mux.HandleFunc("GET /accounts/{id}", s.requireUser(s.handleGetAccount))
	mux.HandleFunc("PATCH /accounts/{id}", s.requireUser(s.handleUpdateAccount))
	mux.HandleFunc("DELETE /accounts/{id}", s.requireUser(s.handleDeleteAccount))

	mux.HandleFunc("POST /categories", s.requireUser(s.handleCreateCategory))
	mux.HandleFunc("GET /categories", s.requireUser(s.handleListCategories))
	mux.HandleFunc("GET /categories/{id}", s.requireUser(s.handleGetCategory))
	mux.HandleFunc("PATCH /categories/{id}", s.requireUser(s.handleUpdateCategory))
	mux.HandleFunc("DELETE /categories/{id}", s.requireUser(s.handleDeleteCategory))

	mux.HandleFunc("POST /transactions", s.requireUser(s.handleCreateTransaction))
	mux.HandleFunc("GET /transactions", s.requireUser(s.handleListTransactions))
	mux.HandleFunc("GET /transactions/{id}", s.requireUser(s.handleGetTransaction))
	mux.HandleFunc("PATCH /transactions/{id}", s.requireUser(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /transactions/{id}", s.requireUser(s.handleDeleteTransaction))

	mux.HandleFunc("POST /budgets", s.requireUser(s.handleUpsertBudget))
	mux.HandleFunc("GET /budgets", s.requireUser(s.handleListBudgets))
	mux.HandleFunc("GET /budgets/summary", s.requireUser(s.handleBudgetSummary))
	mux.HandleFunc("DELETE /budgets/{id}", s.requireUser(s.handleDeleteBudget))

	mux.HandleFunc("GET /reports/summary", s.requireUser(s.handleSummary))
	mux.HandleFunc("GET /reports/summary.csv", s.requireUser(s.handleSummaryCSV))
	mux.HandleFunc("GET /reports/budget-status", s.requireUser(s.handleBudgetStatus))
	mux.HandleFunc("POST /reports/summary/export", s.requireUser(s.handleExportSummary))
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		s.caches.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func rateLimited(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldMethod, r.Method,
		log.FieldPath, r.URL.Path)
	ErrorResponse(http.StatusTooManyRequests, log.ErrorTypeRateLimit, "Rate limit exceeded. Please try again later.").Write(w)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"service": "ledger",
		"version": s.version,
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady reports ready once the database answers.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.store.Ping(ctx); err != nil {
		log.FromContext(ctx).WarnContext(ctx, "Readiness check failed", log.FieldError, err.Error())
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
