// Package http exposes the JSON API the frontend consumes. Handlers stay
// thin: parse, call the service, map the error. Aggregated month views are
// cached per user with TTL and invalidated on any mutation.
package http

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Glivan2903/minhagrana/internal/access"
	"github.com/Glivan2903/minhagrana/internal/cache"
	"github.com/Glivan2903/minhagrana/internal/charts"
	"github.com/Glivan2903/minhagrana/internal/core"
	"github.com/Glivan2903/minhagrana/internal/log"
	"github.com/Glivan2903/minhagrana/internal/middleware/ratelimit"
	"github.com/Glivan2903/minhagrana/internal/middleware/security"
	"github.com/Glivan2903/minhagrana/internal/middleware/trace"
	"github.com/Glivan2903/minhagrana/internal/services"
	"github.com/Glivan2903/minhagrana/internal/storage"
)

// FinanceAPI is the slice of the service layer the handlers need. Tests swap
// in a fake.
type FinanceAPI interface {
	SignUp(ctx context.Context, in services.SignupInput) (core.Account, storage.Session, error)
	SignIn(ctx context.Context, email, password string) (core.Account, storage.Session, error)
	SignOut(ctx context.Context, accessToken string) error
	AccountForToken(ctx context.Context, accessToken string) (core.Account, error)
	AccessState(acct core.Account) access.State

	CreateTransaction(ctx context.Context, acct core.Account, tx *core.Transaction) error
	ListTransactions(ctx context.Context, acct core.Account, f storage.TransactionFilter) ([]core.Transaction, error)
	UpdateTransaction(ctx context.Context, acct core.Account, tx *core.Transaction) error
	DeleteTransaction(ctx context.Context, acct core.Account, id int64) error

	CreateFutureEntry(ctx context.Context, acct core.Account, e *core.FutureEntry) error
	ListFutureEntries(ctx context.Context, acct core.Account, f storage.FutureEntryFilter) ([]core.FutureEntry, error)
	UpdateFutureEntry(ctx context.Context, acct core.Account, e *core.FutureEntry) error
	DeleteFutureEntry(ctx context.Context, acct core.Account, id int64) error
	SettleFutureEntry(ctx context.Context, acct core.Account, id int64, settledOn core.Date) (core.Transaction, error)

	CreateCategory(ctx context.Context, acct core.Account, c *core.Category) error
	ListCategories(ctx context.Context, acct core.Account) ([]core.Category, error)
	UpdateCategory(ctx context.Context, acct core.Account, c *core.Category) error
	DeleteCategory(ctx context.Context, acct core.Account, id int64) error

	CreateGoal(ctx context.Context, acct core.Account, g *core.Goal) error
	ListGoals(ctx context.Context, acct core.Account) ([]core.Goal, error)
	UpdateGoal(ctx context.Context, acct core.Account, g *core.Goal) error
	DeleteGoal(ctx context.Context, acct core.Account, id int64) error

	Dashboard(ctx context.Context, acct core.Account, month core.MonthRef) (services.Dashboard, error)
	DetailedReport(ctx context.Context, acct core.Account, start, end core.Date) (services.DetailedReport, error)
	UpcomingOccurrences(ctx context.Context, acct core.Account, after time.Time, horizon time.Duration) ([]services.Occurrence, error)
	ExportTransactionsCSV(ctx context.Context, acct core.Account, f storage.TransactionFilter) (string, error)
}

// Options tunes the server's middleware and caches.
type Options struct {
	RateLimitPerMinute int
	CacheTTL           time.Duration
	CacheSize          int

	// TrustedProxies are extra CIDRs whose forwarding headers are honored,
	// on top of the private ranges trusted by default.
	TrustedProxies []string
}

func (o Options) withDefaults() Options {
	if o.RateLimitPerMinute <= 0 {
		o.RateLimitPerMinute = 60
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = 5 * time.Minute
	}
	if o.CacheSize <= 0 {
		o.CacheSize = 256
	}
	return o
}

type Server struct {
	http.Server

	svc      FinanceAPI
	renderer *charts.Renderer

	limiter      *ratelimit.Limiter
	detector     *security.Detector
	tracer       *trace.Middleware
	cacheManager *cache.Manager

	dashboardCache *cache.LRUCache[services.Dashboard]
	chartCache     *cache.LRUCache[[]byte]

	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(addr string, svc FinanceAPI, renderer *charts.Renderer, opts Options) *Server {
	opts = opts.withDefaults()
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           nil, // set below, after the middleware chain
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		svc:            svc,
		renderer:       renderer,
		limiter:        ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		detector:       security.NewDetector(),
		cacheManager:   cache.NewManager(),
		dashboardCache: cache.NewLRUCache[services.Dashboard](opts.CacheSize, opts.CacheTTL),
		chartCache:     cache.NewLRUCache[[]byte](opts.CacheSize, opts.CacheTTL),
	}
	s.cacheManager.Register(s.dashboardCache)
	s.cacheManager.Register(s.chartCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	for _, cidr := range opts.TrustedProxies {
		if err := s.detector.AddTrustedProxy(cidr); err != nil {
			log.FromContext(context.Background()).Warn("trusted proxy ignored",
				log.FieldError, err.Error())
		}
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /api/auth/signup", s.handleSignUp)
	mux.HandleFunc("POST /api/auth/login", s.handleSignIn)
	mux.HandleFunc("POST /api/auth/logout", s.requireAccount(s.handleSignOut))
	mux.HandleFunc("GET /api/session", s.requireAccount(s.handleSession))

	mux.HandleFunc("GET /api/transactions", s.requireAccount(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions", s.requireAccount(s.handleCreateTransaction))
	mux.HandleFunc("PUT /api/transactions/{id}", s.requireAccount(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.requireAccount(s.handleDeleteTransaction))
	mux.HandleFunc("GET /api/transactions/export.csv", s.requireAccount(s.handleExportCSV))

	mux.HandleFunc("GET /api/future-entries", s.requireAccount(s.handleListFutureEntries))
	mux.HandleFunc("POST /api/future-entries", s.requireAccount(s.handleCreateFutureEntry))
	mux.HandleFunc("PUT /api/future-entries/{id}", s.requireAccount(s.handleUpdateFutureEntry))
	mux.HandleFunc("DELETE /api/future-entries/{id}", s.requireAccount(s.handleDeleteFutureEntry))
	mux.HandleFunc("POST /api/future-entries/{id}/settle", s.requireAccount(s.handleSettleFutureEntry))
	mux.HandleFunc("GET /api/future-entries/upcoming", s.requireAccount(s.handleUpcoming))

	mux.HandleFunc("GET /api/categories", s.requireAccount(s.handleListCategories))
	mux.HandleFunc("POST /api/categories", s.requireAccount(s.handleCreateCategory))
	mux.HandleFunc("PUT /api/categories/{id}", s.requireAccount(s.handleUpdateCategory))
	mux.HandleFunc("DELETE /api/categories/{id}", s.requireAccount(s.handleDeleteCategory))

	mux.HandleFunc("GET /api/goals", s.requireAccount(s.handleListGoals))
	mux.HandleFunc("POST /api/goals", s.requireAccount(s.handleCreateGoal))
	mux.HandleFunc("PUT /api/goals/{id}", s.requireAccount(s.handleUpdateGoal))
	mux.HandleFunc("DELETE /api/goals/{id}", s.requireAccount(s.handleDeleteGoal))

	mux.HandleFunc("GET /api/dashboard", s.requireAccount(s.handleDashboard))
	mux.HandleFunc("GET /api/reports", s.requireAccount(s.handleReportSummary))
	mux.HandleFunc("GET /api/reports/detailed", s.requireAccount(s.handleDetailedReport))
	mux.HandleFunc("GET /api/charts/summary.png", s.requireAccount(s.handleSummaryDonut))
	mux.HandleFunc("GET /api/charts/expenses.png", s.requireAccount(s.handleExpensePie))
	mux.HandleFunc("GET /api/charts/income.png", s.requireAccount(s.handleIncomePie))
	mux.HandleFunc("GET /api/charts/balance.png", s.requireAccount(s.handleBalanceChart))

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	s.tracer = trace.NewMiddleware(s.detector.ExtractClientIP)
	requestIDs := log.RequestIDMiddleware(func(r *http.Request) string {
		return trace.GetRequestID(r.Context())
	})
	limited := s.limiter.Middleware(s.detector.ExtractClientIP, s.handleRateLimited)

	s.Handler = s.tracer.Middleware(requestIDs(headers.Middleware(s.flagSuspicious(s.limitMutations(limited, mux)))))

	return s
}

// handleRateLimited answers throttled writes in the same JSON error shape as
// the rest of the API.
func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Retry-After", "60")
	respondJSON(w, http.StatusTooManyRequests, errorBody{Error: "too many requests", Code: "rate_limited"})
}

// flagSuspicious logs requests matching known probe patterns. They are not
// blocked; legitimate clients occasionally trip the heuristics.
func (s *Server) flagSuspicious(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.DetectSuspiciousRequest(r) {
			log.FromContext(r.Context()).WarnContext(r.Context(), "suspicious request",
				log.FieldMethod, r.Method, log.FieldPath, r.URL.Path,
				log.FieldClientIP, s.detector.ExtractClientIP(r))
		}
		next.ServeHTTP(w, r)
	})
}

// limitMutations applies the rate limiter to writes only; reads are cheap
// and cached.
func (s *Server) limitMutations(limited func(http.Handler) http.Handler, next http.Handler) http.Handler {
	guarded := limited(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete:
			guarded.ServeHTTP(w, r)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

// Shutdown stops background routines and then the HTTP server, reporting
// the traffic counters accumulated over the process lifetime.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		s.cacheManager.Stop()

		tm := s.tracer.GetMetrics()
		lm := s.limiter.GetMetrics()
		dm := s.detector.GetMetrics()
		log.FromContext(ctx).InfoContext(ctx, "server stopping",
			"requests_total", tm.TotalRequests,
			"last_response_us", tm.AverageResponseTime,
			"rate_limited_total", lm.TotalHits,
			"tracked_clients", lm.ClientCount,
			"suspicious_requests", dm.SuspiciousRequests)

		err = s.Server.Shutdown(ctx)
	})
	return err
}

// invalidateUser drops every cached view belonging to the account. Called
// after each successful mutation.
func (s *Server) invalidateUser(userID int64) {
	prefix := cacheKeyPrefix(userID)
	s.dashboardCache.DeletePrefix(prefix)
	s.chartCache.DeletePrefix(prefix)
}

func cacheKeyPrefix(userID int64) string {
	return "u" + strconv.FormatInt(userID, 10) + "|"
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
