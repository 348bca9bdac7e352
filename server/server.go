package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"raffle/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// Server is the raffle HTTP API
type Server struct {
	httpServer *http.Server
}

// NewRouter builds the route tree
func NewRouter(h *Handlers, adminAPIKey string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(RequestSizeLimitMiddleware(1 << 20))
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", h.HandleHealthz)
	r.Get("/readyz", h.HandleReadyz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/tickets/purchase", h.HandlePurchaseTickets)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/account", h.HandleGetAccount)
			r.Get("/balance-history", h.HandleGetBalanceHistory)
			r.Get("/tickets", h.HandleGetUserTickets)
			r.Get("/notifications", h.HandleGetNotifications)
			r.Post("/notifications/read", h.HandleMarkAllNotificationsRead)
			r.Post("/notifications/{notificationID}/read", h.HandleMarkNotificationRead)
		})

		r.Route("/draws", func(r chi.Router) {
			r.Get("/upcoming", h.HandleGetUpcomingDraws)
			r.Get("/available", h.HandleGetAvailableDraws)
			r.Get("/winners", h.HandleGetRecentWinners)
			r.Get("/stats", h.HandleGetStats)
			r.Get("/{drawID}", h.HandleGetDraw)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(AdminAuthMiddleware(adminAPIKey))
			r.Get("/draws", h.HandleListDraws)
			r.Post("/draws", h.HandleCreateDraw)
			r.Post("/draws/resolve-due", h.HandleResolveDueDraws)
			r.Post("/draws/{drawID}/resolve", h.HandleResolveDraw)
		})
	})

	return r
}

// NewServer creates a server listening on addr
func NewServer(addr string, h *Handlers, adminAPIKey string) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(h, adminAPIKey),
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	log.WithField("addr", s.httpServer.Addr).Info("HTTP server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
