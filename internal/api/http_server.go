package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"shareit/internal/config"
	"shareit/internal/domain"
	"shareit/internal/logging"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Pinger reports storage readiness.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Services bundles what the transports call into.
type Services struct {
	Bookings domain.BookingService
	Users    domain.UserService
	Items    domain.ItemService
	Comments domain.CommentService
	Requests domain.ItemRequestService
	Limits   domain.RateLimitStore
	Health   Pinger
}

// HTTPServer exposes the REST API.
type HTTPServer struct {
	cfg      *config.APIConfig
	svc      Services
	server   *http.Server
	auth     *HTTPAuth
	users    *userLimiter
	validate *validator.Validate
	logger   *zerolog.Logger
}

func NewHTTPServer(cfg *config.APIConfig, svc Services, logger *zerolog.Logger) *HTTPServer {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	l := logging.Component(logger, "http")

	srv := &HTTPServer{
		cfg:      cfg,
		svc:      svc,
		auth:     NewHTTPAuth(cfg),
		users:    newUserLimiter(cfg.UserRateLimit, svc.Limits, l),
		validate: newValidator(),
		logger:   l,
	}

	mux := http.NewServeMux()
	srv.routes(mux)

	handler := requestIDMiddleware(srv.loggingMiddleware(srv.auth.Wrap(srv.userRateLimitMiddleware(mux))))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

func (s *HTTPServer) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleReadyz)

	mux.HandleFunc("POST /bookings", s.handleCreateBooking)
	mux.HandleFunc("PATCH /bookings/{bookingId}", s.handleApproveBooking)
	mux.HandleFunc("GET /bookings/{bookingId}", s.handleGetBooking)
	mux.HandleFunc("GET /bookings", s.handleListBookings)
	mux.HandleFunc("GET /bookings/owner", s.handleListOwnerBookings)

	mux.HandleFunc("POST /users", s.handleCreateUser)
	mux.HandleFunc("GET /users", s.handleListUsers)
	mux.HandleFunc("GET /users/{userId}", s.handleGetUser)
	mux.HandleFunc("PATCH /users/{userId}", s.handleUpdateUser)
	mux.HandleFunc("DELETE /users/{userId}", s.handleDeleteUser)

	mux.HandleFunc("POST /items", s.handleCreateItem)
	mux.HandleFunc("PATCH /items/{itemId}", s.handleUpdateItem)
	mux.HandleFunc("GET /items/{itemId}", s.handleGetItem)
	mux.HandleFunc("GET /items", s.handleListOwnerItems)
	mux.HandleFunc("GET /items/search", s.handleSearchItems)
	mux.HandleFunc("POST /items/{itemId}/comment", s.handleAddComment)

	mux.HandleFunc("POST /requests", s.handleCreateItemRequest)
	mux.HandleFunc("GET /requests", s.handleListOwnItemRequests)
	mux.HandleFunc("GET /requests/all", s.handleListOtherItemRequests)
	mux.HandleFunc("GET /requests/{requestId}", s.handleGetItemRequest)
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

func (s *HTTPServer) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if s.svc.Health != nil {
		if err := s.svc.Health.PingContext(r.Context()); err != nil {
			s.logger.Error().Err(err).Msg("readiness check failed")
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
