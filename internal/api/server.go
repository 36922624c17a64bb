// Package api provides the HTTP REST API for SoundGrid Core.
//
// It exposes speaker registry, zone, audio source, and playback session
// operations to dashboards and automations.
//
// The server follows the same lifecycle pattern as other infrastructure
// components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/harlandw/soundgrid-core/internal/bridges/axis"
	"github.com/harlandw/soundgrid-core/internal/infrastructure/config"
	"github.com/harlandw/soundgrid-core/internal/infrastructure/logging"
	"github.com/harlandw/soundgrid-core/internal/session"
	"github.com/harlandw/soundgrid-core/internal/source"
	"github.com/harlandw/soundgrid-core/internal/speaker"
	"github.com/harlandw/soundgrid-core/internal/zone"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Discoverer queries the vendor for audio targets. Satisfied by *axis.Client.
type Discoverer interface {
	Discover(ctx context.Context) axis.DiscoverResult
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config   config.APIConfig
	Logger   *logging.Logger
	Speakers *speaker.Registry
	Zones    *zone.Aggregator
	Sources  *source.Catalog
	Sessions *session.Manager
	Remote   Discoverer
	Version  string
}

// Server is the HTTP API server for SoundGrid Core.
//
// It manages the HTTP listener, routes, and middleware. The server is
// created with New() and started with Start().
type Server struct {
	cfg      config.APIConfig
	logger   *logging.Logger
	speakers *speaker.Registry
	zones    *zone.Aggregator
	sources  *source.Catalog
	sessions *session.Manager
	remote   Discoverer
	version  string
	server   *http.Server
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Speakers == nil {
		return nil, fmt.Errorf("speaker registry is required")
	}
	if deps.Zones == nil {
		return nil, fmt.Errorf("zone aggregator is required")
	}
	if deps.Sources == nil {
		return nil, fmt.Errorf("source catalog is required")
	}
	if deps.Sessions == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if deps.Remote == nil {
		return nil, fmt.Errorf("vendor client is required")
	}

	return &Server{
		cfg:      deps.Config,
		logger:   deps.Logger,
		speakers: deps.Speakers,
		zones:    deps.Zones,
		sources:  deps.Sources,
		sessions: deps.Sessions,
		remote:   deps.Remote,
		version:  deps.Version,
	}, nil
}

// Start begins listening for HTTP connections.
//
// It sets up the router and launches the HTTP listener in a background
// goroutine. The server can be stopped with Close().
func (s *Server) Start(_ context.Context) error {
	router := s.buildRouter()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           router,
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running and responsive.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}
