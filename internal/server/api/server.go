// Package api serves the remote reading contract over HTTP/JSON.
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/glucosync/internal/logging"
	"github.com/dmitrijs2005/glucosync/internal/server/models"
	"github.com/dmitrijs2005/glucosync/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Authenticator is the token side of the API.
type Authenticator interface {
	ValidatePassword(ctx context.Context, password string) (*services.Token, error)
	Authorize(token string) error
	VerifyToken(token string) bool
}

// ReadingStore is the reading side of the API.
type ReadingStore interface {
	Add(ctx context.Context, in services.AddReadingInput) (*models.Reading, error)
	List(ctx context.Context, name string) ([]models.Reading, error)
}

type Server struct {
	address         string
	apiKey          string
	shutdownTimeout time.Duration
	auth            Authenticator
	readings        ReadingStore
	logger          logging.Logger
}

func NewServer(addr, apiKey string, shutdownTimeout time.Duration, l logging.Logger, a Authenticator, rs ReadingStore) *Server {
	return &Server{
		address:         addr,
		apiKey:          apiKey,
		shutdownTimeout: shutdownTimeout,
		auth:            a,
		readings:        rs,
		logger:          l.With("module", "http_server"),
	}
}

// Routes builds the router. Every route requires the API key; readings
// routes also require a bearer token.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(s.requireAPIKey)

	r.Get("/", s.handleRoot)
	r.Post("/validatePassword", s.handleValidatePassword)
	r.Post("/verifyToken", s.handleVerifyToken)

	r.Group(func(r chi.Router) {
		r.Use(s.requireBearer)
		r.Get("/readings", s.handleReadings)
		r.Get("/addReadingFromUrl", s.handleAddReading)
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Routes(),
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
		defer cancel()
		stopped <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return <-stopped
}
