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

	"github.com/osse101/zombie-showcase-server/internal/handler"
	"github.com/osse101/zombie-showcase-server/internal/item"
	"github.com/osse101/zombie-showcase-server/internal/logger"
	"github.com/osse101/zombie-showcase-server/internal/metrics"
	"github.com/osse101/zombie-showcase-server/internal/rates"
	"github.com/osse101/zombie-showcase-server/internal/zombie"
	"github.com/osse101/zombie-showcase-server/internal/zombieitem"
)

// Server owns the HTTP surface of the service.
type Server struct {
	httpServer *http.Server
}

// NewServer wires the router. Route layout mirrors the resource split:
// zombies, per-zombie item assignments, and the externally cached
// collections under /external.
func NewServer(
	port int,
	db handler.Pinger,
	zombieService zombie.Service,
	itemService item.Service,
	rateService rates.Service,
	assignmentService zombieitem.Service,
) *Server {
	r := chi.NewRouter()

	// Middleware stack
	// Chi middleware executes in order defined (outermost to innermost)
	r.Use(RequestSizeLimitMiddleware(1 << 20)) // 1MB limit
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(db))

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/zombies", func(r chi.Router) {
		r.Get("/", handler.HandleListZombies(zombieService))
		r.Post("/", handler.HandleCreateZombie(zombieService))
		r.Delete("/", handler.HandleDeleteAllZombies(zombieService))
		r.Get("/{id}", handler.HandleGetZombie(zombieService))
		r.Patch("/{id}", handler.HandleUpdateZombie(zombieService))
		r.Delete("/{id}", handler.HandleDeleteZombie(zombieService))

		r.Route("/{userId}/items", func(r chi.Router) {
			r.Get("/", handler.HandleListZombieItems(assignmentService))
			r.Post("/", handler.HandleCreateZombieItem(assignmentService))
			r.Get("/price-sum", handler.HandlePriceSum(assignmentService))
			r.Get("/{id}", handler.HandleGetZombieItem(assignmentService))
			r.Delete("/{id}", handler.HandleDeleteZombieItem(assignmentService))
		})
	})

	r.Route("/external", func(r chi.Router) {
		r.Post("/", handler.HandleRefreshAll(itemService, rateService))
		r.Get("/items", handler.HandleListItems(itemService))
		r.Post("/items", handler.HandleCreateItem(itemService))
		r.Get("/rates", handler.HandleListRates(rateService))
		r.Post("/rates", handler.HandleCreateRate(rateService))
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// RequestSizeLimitMiddleware caps request body size.
func RequestSizeLimitMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
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

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Skip logging for health check endpoints and metrics
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		requestID := logger.GenerateRequestID()
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		log := logger.FromContext(ctx)
		log.Info("Request started",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info("Server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
