package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"staybook/internal/config"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const requestTimeout = 15 * time.Second

// HTTPServer exposes calendar, quote, selection and booking endpoints.
type HTTPServer struct {
	server *http.Server
	logger *zerolog.Logger
}

func NewHTTPServer(cfg config.APIConfig, h *Handlers, logger *zerolog.Logger) *HTTPServer {
	return &HTTPServer{
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
			Handler:           NewRouter(cfg, h, logger),
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      requestTimeout + 5*time.Second,
		},
		logger: logger,
	}
}

// NewRouter wires middleware and routes.
func NewRouter(cfg config.APIConfig, h *Handlers, logger *zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(requestTimeout))
	r.Use(observeMiddleware(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", h.ready)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(newRateLimiter(cfg.RateLimit).middleware)

		r.Get("/properties", h.listProperties)
		r.Route("/properties/{id}", func(r chi.Router) {
			r.Get("/", h.getProperty)
			r.Get("/calendar", h.calendar)
			r.Get("/quote", h.quote)
			r.Post("/bookings", h.createBooking)

			r.Get("/selection", h.getSelection)
			r.Post("/selection", h.pickDate)
			r.Delete("/selection", h.clearSelection)
			r.Post("/selection/submit", h.submitSelection)
		})
	})

	return r
}

func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}
