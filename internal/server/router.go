package server

import (
	"encoding/json"
	"net/http"
	"net/netip"
	"os"
	"path/filepath"
	"time"

	"angelina/internal/dto"
	"angelina/internal/infrastructure/ratelimit"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type AppointmentHandlers interface {
	Submit(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type ContactHandlers interface {
	SubmitContact(w http.ResponseWriter, r *http.Request)
	Subscribe(w http.ResponseWriter, r *http.Request)
}

type MetricsHandler interface {
	HTTPObserver
	Handler() http.Handler
}

type RouterConfig struct {
	StaticDir          string
	CORSAllowedOrigins []string
	TrustedProxies     []netip.Prefix
}

func NewRouter(
	cfg RouterConfig,
	appointments AppointmentHandlers,
	contact ContactHandlers,
	m MetricsHandler,
	limiter ratelimit.Limiter,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(TrustedRealIP(cfg.TrustedProxies))
	r.Use(AccessLog(logger))
	r.Use(Metrics(m))
	r.Use(Recoverer(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         300,
	}))
	r.Use(middleware.RequestSize(maxBodyBytes))

	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	r.Get("/", landingPage(cfg.StaticDir))
	r.Handle("/metrics", m.Handler())

	limited := RateLimit(limiter, logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", health)

		r.Route("/appointments", func(r chi.Router) {
			r.With(limited).Post("/", appointments.Submit)
			r.Get("/", appointments.List)
			r.Get("/{id}", appointments.Get)
			r.Patch("/{id}/status", appointments.UpdateStatus)
			r.Delete("/{id}", appointments.Delete)
		})

		r.With(limited).Post("/contact", contact.SubmitContact)
		r.With(limited).Post("/newsletter", contact.Subscribe)
	})

	return r
}

func health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, dto.HealthResponse{
		Status:    "OK",
		Message:   "Server is running",
		Timestamp: time.Now().UTC(),
	})
}

func landingPage(staticDir string) http.HandlerFunc {
	index := filepath.Join(staticDir, "index.html")
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := os.Stat(index); err != nil {
			notFound(w, r)
			return
		}
		http.ServeFile(w, r, index)
	}
}

// Unknown paths and known paths with the wrong method both answer 404.
func notFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, "Endpoint not found")
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, dto.ErrorResponse{Success: false, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
