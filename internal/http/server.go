// Package http serves the lunch-orders dashboard: the HTML views, the
// JSON API used by the mobile client, and the manual refresh control.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	applog "obed/internal/log"
	"obed/internal/middleware/ratelimit"
	"obed/internal/middleware/security"
	"obed/internal/middleware/trace"
	"obed/internal/services"
	appweb "obed/web"
)

// Server hosts the dashboard on top of the shared cached data service.
type Server struct {
	http.Server
	templates *template.Template
	dash      *services.Dashboard

	spreadsheetID  string
	spreadsheetURL string

	headers     *security.HeadersMiddleware
	rateLimiter *ratelimit.Limiter
	log         *applog.StructuredLogger

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(addr string, dash *services.Dashboard, spreadsheetID, spreadsheetURL string) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		dash:           dash,
		spreadsheetID:  spreadsheetID,
		spreadsheetURL: spreadsheetURL,
		headers:        security.NewHeadersMiddleware(security.DefaultHeadersConfig()),
		rateLimiter:    ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		log:            applog.NewStructuredLogger(applog.New(applog.Config{Component: applog.ComponentHTTP})),
	}

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/", s.withMiddleware(s.handleIndex))
	mux.HandleFunc("/ui/orders", s.withMiddleware(s.handleOrdersPartial))
	mux.HandleFunc("/refresh", s.withMiddleware(s.handleRefresh))
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)
	mux.HandleFunc("/api/orders", s.withMiddleware(s.handleAPIOrders))
	mux.HandleFunc("/api/last-modified", s.withMiddleware(s.handleAPILastModified))
	mux.HandleFunc("/api/health", s.handleAPIHealth)

	return s
}

// withMiddleware adds security headers, rate limiting on mutating requests,
// and request logging.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := extractClientIP(r)
		requestID := trace.GenerateRequestID()

		ctx := trace.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		s.log.LogHTTPStart(ctx, r, requestID, clientIP)

		// The refresh control forces a remote reload for everyone; keep a
		// misbehaving client from hammering the spreadsheet API with it.
		if r.Method == http.MethodPost && !s.rateLimiter.Allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", applog.FieldClientIP, clientIP, applog.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		s.headers.Apply(w, r)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.log.LogHTTPEnd(ctx, r, requestID, rw.statusCode, time.Since(start).Milliseconds(), clientIP)
	}
}

// extractClientIP considers proxy headers before the socket address.
func extractClientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
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

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// Shutdown gracefully shuts down the server and its helpers.
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
