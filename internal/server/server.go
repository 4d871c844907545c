package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kipcodes/tweet-manager/internal/auth"
	"github.com/kipcodes/tweet-manager/internal/database"
	"github.com/kipcodes/tweet-manager/internal/handler"
	"github.com/kipcodes/tweet-manager/internal/logger"
	"github.com/kipcodes/tweet-manager/internal/metrics"
	"github.com/kipcodes/tweet-manager/internal/session"
	"github.com/kipcodes/tweet-manager/internal/tweet"
	"github.com/kipcodes/tweet-manager/internal/user"
)

type Server struct {
	httpServer   *http.Server
	store        database.Store
	sessions     *session.Manager
	userService  user.Service
	tweetService tweet.Service
}

// NewServer wires the router: public pages, the OAuth handshake, and the
// session-guarded tweet management routes.
func NewServer(port int, store database.Store, sessions *session.Manager, broker *auth.Broker, userService user.Service, tweetService tweet.Service) *Server {
	r := chi.NewRouter()

	// Middleware stack
	// Chi middleware executes in order defined (outermost to innermost)
	r.Use(SecurityHeadersMiddleware())
	r.Use(RequestSizeLimitMiddleware(1 << 20)) // 1MB limit
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(store))

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// Browser routes, all session-aware
	r.Group(func(r chi.Router) {
		r.Use(handler.SessionMiddleware(sessions))

		r.Get("/", handler.HandleHome(sessions, userService))
		r.Get("/login", handler.HandleLogin(sessions, broker))
		r.Get("/callback", handler.HandleCallback(sessions, broker, userService))
		r.Get("/logout", handler.HandleLogout(sessions))

		// Tweet management requires a bound account
		r.Group(func(r chi.Router) {
			r.Use(handler.RequireAuth(sessions))

			r.Get("/dashboard", handler.HandleDashboard(sessions, userService, tweetService))
			r.Get("/create-tweet", handler.HandleCreateTweetForm(sessions, userService))
			r.Post("/create-tweet", handler.HandleCreateTweet(sessions, userService, tweetService))
			r.Post("/delete-tweet/{id}", handler.HandleDeleteTweet(sessions, userService, tweetService))
			r.Get("/edit-tweet/{id}", handler.HandleEditTweetForm(sessions, userService, tweetService))
			r.Post("/edit-tweet/{id}", handler.HandleEditTweet(sessions, userService, tweetService))
			r.Post("/batch-delete", handler.HandleBatchDelete(sessions, userService, tweetService))
		})
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		store:        store,
		sessions:     sessions,
		userService:  userService,
		tweetService: tweetService,
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK, // default status
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// clientIP resolves the caller's address, honoring the first hop recorded by
// a proxy in X-Forwarded-For.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get(HeaderForwardedFor); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	return r.RemoteAddr
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Skip logging for health check endpoints and metrics
		// Use HasPrefix to catch potential variations (e.g. /healthz/)
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		// Generate unique request ID
		requestID := logger.GenerateRequestID()

		// Add request ID to context
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		// Get scoped logger
		log := logger.FromContext(ctx)

		// Log request start with details
		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", clientIP(r),
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		// Sanitize headers for logging
		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, "Cookie") || strings.EqualFold(k, "Authorization") {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		// Wrap response writer to capture status code
		rw := newResponseWriter(w)

		// Process request
		next.ServeHTTP(rw, r)

		// Log request completion with metrics
		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"duration", duration)
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
