// Package http exposes the REST API: auth endpoints, resource handlers and
// the access-control guard in front of them.
package http

import (
	"context"
	"net/http"
	"time"

	"holidays/internal/log"
	"holidays/internal/services"
	"holidays/internal/session"
	"holidays/internal/storage"
)

type contextKey string

// userIDKey carries the authenticated user id once the guard has resolved
// the session cookie.
const userIDKey contextKey = "user_id"

const sessionCookieName = "session_token"

type Server struct {
	http.Server
	repo          *storage.SQLiteRepository
	sessions      *session.Store
	expenses      *services.ExpenseService
	secureCookies bool
	reqLogger     *log.StructuredLogger
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, repo *storage.SQLiteRepository, sessions *session.Store, expenses *services.ExpenseService, secureCookies bool, logger *log.Logger) *Server {
	s := &Server{
		repo:          repo,
		sessions:      sessions,
		expenses:      expenses,
		secureCookies: secureCookies,
		reqLogger:     log.NewStructuredLogger(logger.WithComponent(log.ComponentHTTP)),
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /signup", s.handleSignup)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("DELETE /logout", s.handleLogout)
	mux.HandleFunc("GET /check_session", s.handleCheckSession)

	mux.HandleFunc("GET /holidays", s.handleListHolidays)
	mux.HandleFunc("POST /holidays", s.handleCreateHoliday)
	mux.HandleFunc("GET /categories", s.handleListCategories)
	mux.HandleFunc("POST /categories", s.handleCreateCategory)

	mux.HandleFunc("POST /expenses", s.handleCreateExpense)
	// PATCH and DELETE accept the id in the path or, for older clients,
	// in the request body.
	mux.HandleFunc("PATCH /expenses/{id}", s.handleUpdateExpense)
	mux.HandleFunc("PATCH /expenses", s.handleUpdateExpense)
	mux.HandleFunc("DELETE /expenses/{id}", s.handleDeleteExpense)
	mux.HandleFunc("DELETE /expenses", s.handleDeleteExpense)

	chain := s.withRequestLogging(s.guard(mux))
	chain = log.RequestIDMiddleware(extractRequestID)(chain)
	chain = log.Middleware(logger)(chain)

	s.Server = http.Server{
		Addr:    addr,
		Handler: chain,
	}

	return s
}

// publicRoutes lists method+path pairs reachable without a session. Every
// other route requires a valid session cookie.
var publicRoutes = map[string]bool{
	"POST /signup":       true,
	"POST /login":        true,
	"GET /check_session": true,
	"GET /holidays":      true,
	"GET /categories":    true,
	"GET /":              true,
	"GET /healthz":       true,
	"GET /readyz":        true,
}

// guard rejects unauthenticated requests to protected routes and stashes the
// resolved user id in the request context for the handlers.
func (s *Server) guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if publicRoutes[r.Method+" "+r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}

		cookie, err := r.Cookie(sessionCookieName)
		if err != nil {
			errorJSON(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		userID, err := s.sessions.UserID(r.Context(), cookie.Value)
		if err != nil {
			errorJSON(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// currentUserID returns the user id the guard resolved for this request.
func currentUserID(r *http.Request) (int64, bool) {
	id, ok := r.Context().Value(userIDKey).(int64)
	return id, ok
}

// withRequestLogging logs request start/end with status and duration.
func (s *Server) withRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ip := clientIP(r)

		s.reqLogger.LogHTTPStart(r.Context(), r, ip)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		s.reqLogger.LogHTTPEnd(r.Context(), r, rw.statusCode, time.Since(start).Milliseconds(), ip)
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte("<h1>Holiday Expenses Manager - Server</h1>"))
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.DB().PingContext(r.Context()); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Readiness check failed", log.FieldError, err.Error())
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("database unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
