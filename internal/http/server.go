// Package http serves the tracker JSON API and its HTML dashboard.
package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"tracker/internal/aggregate"
	"tracker/internal/cache"
	"tracker/internal/core"
	"tracker/internal/log"
	"tracker/internal/middleware/ratelimit"
	"tracker/internal/middleware/security"
	"tracker/internal/middleware/trace"
	"tracker/internal/store"
	appweb "tracker/web"
)

// Accounts registers and verifies users.
type Accounts interface {
	Signup(ctx context.Context, su core.Signup) (core.PublicUser, error)
	Verify(ctx context.Context, email, password string) (core.PublicUser, error)
}

// Options wires the server's collaborators.
type Options struct {
	Transactions       store.TransactionStore
	Accounts           Accounts
	Logger             *log.Logger
	RateLimitPerMinute int
	SummaryCacheTTL    time.Duration
	// Checks are pinged by /readyz in addition to the transaction store.
	Checks map[string]store.Pinger
}

type Server struct {
	http.Server
	txs       store.TransactionStore
	accounts  Accounts
	checks    map[string]store.Pinger
	logger    *log.Logger
	templates *template.Template

	rateLimiter     *ratelimit.Limiter
	traceMiddleware *trace.Middleware
	summaries       *cache.LRUCache[aggregate.Result]
	caches          *cache.Manager

	// revision changes on every ledger mutation; summary cache keys include it.
	revision atomic.Uint64
	created  atomic.Int64
	deleted  atomic.Int64
	started  time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes, middleware and templates.
func NewServer(addr string, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard()
	}
	ttl := opts.SummaryCacheTTL
	if ttl <= 0 {
		ttl = time.Minute
	}

	s := &Server{
		txs:         opts.Transactions,
		accounts:    opts.Accounts,
		checks:      opts.Checks,
		logger:      logger.WithComponent(log.ComponentHTTP),
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		summaries:   cache.NewLRUCache[aggregate.Result](64, ttl),
		caches:      cache.NewManager(logger),
		started:     time.Now(),
	}
	s.traceMiddleware = trace.NewMiddleware(logger, security.ClientIP)
	s.caches.Register(s.summaries)
	s.caches.StartCleanup(ttl)

	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		s.logger.Warn("Failed parsing templates", log.FieldError, err)
	}
	s.templates = t

	mux := http.NewServeMux()
	s.routes(mux)

	var handler http.Handler = mux
	handler = s.rateLimiter.Middleware(security.ClientIP, s.handleRateLimited, http.MethodPost, http.MethodDelete)(handler)
	handler = security.CORS()(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = s.traceMiddleware.Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Patterns carry no method so that a wrong method falls through to the
// JSON not-found response instead of the mux's 405.
func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("/", s.handleRoot)

	mux.HandleFunc("/api/health", s.handleAPIHealth)
	mux.HandleFunc("/api/debug", s.handleDebug)
	mux.HandleFunc("/api/signup", s.handleSignup)
	mux.HandleFunc("/api/login", s.handleLogin)
	mux.HandleFunc("/api/transactions", s.handleTransactions)
	mux.HandleFunc("/api/transactions/{id}", s.handleTransactionByID)
	mux.HandleFunc("/api/summary", s.handleSummary)

	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/metrics", s.handleMetrics)

	mux.HandleFunc("/dashboard", s.handleDashboard)
	mux.HandleFunc("/dashboard/transactions", s.handleDashboardCreate)
	mux.HandleFunc("/dashboard/transactions/{id}/delete", s.handleDashboardDelete)

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServerFS(sub))
		mux.Handle("/static/", security.StaticAssetMiddleware(3600)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			name := strings.TrimPrefix(r.URL.Path, "/static/")
			if _, err := fs.Stat(sub, name); name == "" || err != nil || !isRead(r) {
				writeNotFound(w, r)
				return
			}
			static.ServeHTTP(w, r)
		})))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", log.FieldError, err)
	}
}

// Shutdown stops background goroutines and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.caches.Stop()
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, security.ClientIP(r),
		log.FieldMethod, r.Method,
		log.FieldPath, r.URL.Path)
	writeMessage(w, http.StatusTooManyRequests, "Too many requests, please try again later")
}

// mutated invalidates cached summaries.
func (s *Server) mutated() {
	s.revision.Add(1)
}

// summarize aggregates the current ledger, reusing a cached result while the
// ledger is unchanged.
func (s *Server) summarize(ctx context.Context, f core.Filter) (aggregate.Result, error) {
	key := fmt.Sprintf("v%d|%s|%s", s.revision.Load(), f.Type, f.Search)
	if res, ok := s.summaries.Get(key); ok {
		return res, nil
	}
	txs, err := s.txs.List(ctx)
	if err != nil {
		return aggregate.Result{}, fmt.Errorf("list transactions: %w", err)
	}
	res, err := aggregate.Aggregate(txs, f)
	if err != nil {
		return aggregate.Result{}, err
	}
	s.summaries.Set(key, res)
	return res, nil
}

func isRead(r *http.Request) bool {
	return r.Method == http.MethodGet || r.Method == http.MethodHead
}

func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	return id, err == nil
}
