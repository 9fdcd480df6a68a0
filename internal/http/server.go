// Package http serves the dashboard as a JSON API: auth, record reads and
// appends, and the aggregate views the front end renders.
package http

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"endurowallet/internal/cache"
	"endurowallet/internal/dashboard"
	"endurowallet/internal/identity"
	"endurowallet/internal/middleware/ratelimit"
	"endurowallet/internal/middleware/trace"
)

// Server wires the dashboard controller and identity manager behind an HTTP
// mux with tracing, rate limiting and security headers.
type Server struct {
	http.Server

	users      *identity.Manager
	controller *dashboard.Controller
	tokens     *TokenIssuer

	limiter       *ratelimit.Limiter
	overviewCache *cache.LRUCache[overviewResponse]
	// mutations invalidates cached overviews: every successful append bumps
	// it, so stale aggregates never outlive a write.
	mutations atomic.Uint64

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// server.
func NewServer(addr string, users *identity.Manager, controller *dashboard.Controller, tokens *TokenIssuer) *Server {
	mux := http.NewServeMux()

	s := &Server{
		users:            users,
		controller:       controller,
		tokens:           tokens,
		limiter:          ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		overviewCache:    cache.NewLRUCache[overviewResponse](100, 5*time.Minute),
		stopCacheCleanup: make(chan struct{}),
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	mux.HandleFunc("/api/auth/signup", s.handleSignUp)
	mux.HandleFunc("/api/auth/signin", s.handleSignIn)
	mux.HandleFunc("/api/auth/signout", s.requireUser(s.handleSignOut))

	mux.HandleFunc("/api/income", s.requireUser(s.handleIncome))
	mux.HandleFunc("/api/transactions", s.requireUser(s.handleTransactions))
	mux.HandleFunc("/api/savers", s.requireUser(s.handleSavers))

	mux.HandleFunc("/api/overview", s.requireUser(s.handleOverview))
	mux.HandleFunc("/api/savers/breakdown", s.requireUser(s.handleSaverBreakdown))

	handler := trace.Middleware(extractIP)(
		s.limiter.Middleware(extractIP)(
			securityHeaders(mux)))

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go s.startCacheCleanup()

	return s
}

func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if cleaned := s.overviewCache.CleanExpired(); cleaned > 0 {
				slog.Debug("Cache cleanup completed", "entries_removed", cleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown stops the cleanup routines and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		close(s.stopCacheCleanup)
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// requireUser rejects requests without a valid bearer token for the
// currently signed-in user. A token issued before a sign-out stops working
// the moment the session changes.
func (s *Server) requireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		userID, err := s.tokens.Verify(tokenString)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		current, signedIn := s.users.CurrentUserID()
		if !signedIn || current != userID {
			writeError(w, http.StatusUnauthorized, "session no longer active")
			return
		}

		next(w, r)
	}
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		next.ServeHTTP(w, r)
	})
}

// extractIP prefers the first X-Forwarded-For hop, falling back to the
// connection's remote address.
func extractIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// handleReady reports ready once the identity gate has resolved the initial
// session state.
func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	if !s.users.Ready() {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("starting"))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready"))
}
