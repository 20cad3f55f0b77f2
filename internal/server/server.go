// Package server wires the relay's HTTP surface and owns its lifecycle.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/tokenbridge/discord-relay/internal/auth"
	"github.com/tokenbridge/discord-relay/internal/config"
	"github.com/tokenbridge/discord-relay/internal/logger"
	"github.com/tokenbridge/discord-relay/internal/server/handler"
	"github.com/tokenbridge/discord-relay/internal/server/middleware"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	// shutdownTimeout is the maximum time to wait for server shutdown
	shutdownTimeout = 5 * time.Second
)

// Server serves the relay endpoints over HTTP.
type Server struct {
	config  *config.Config
	handler *handler.Handler
}

// NewServer creates a new relay server with the provided configuration.
func NewServer(cfg *config.Config, h *handler.Handler) *Server {
	if cfg == nil {
		logger.Fatal("Config cannot be nil")
	}
	if h == nil {
		logger.Fatal("Handler cannot be nil")
	}

	return &Server{
		config:  cfg,
		handler: h,
	}
}

// routes builds the mux and wraps it with the middleware stack.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handler.HandleHealth)
	mux.HandleFunc("/api/auth/discord/login", s.handler.HandleLogin)
	mux.HandleFunc("/api/auth/discord/callback", s.handler.HandleCallback)

	cors := middleware.CORSWithOrigin(s.config.CORS.AllowOrigin)
	return middleware.RequestLogger(cors(mux))
}

// Start runs the HTTP server until the context is cancelled, then shuts it
// down gracefully. It returns an error if the server fails to start or
// encounters an error during operation.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: s.routes(),
	}

	// Channel for server errors
	errChan := make(chan error, 1)

	go func() {
		logger.Info("Starting server",
			zap.String("name", s.config.Server.Name),
			zap.String("address", addr),
			zap.String("allow_origin", s.config.CORS.AllowOrigin),
		)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down server",
			zap.Duration("timeout", shutdownTimeout),
		)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		return nil

	case err := <-errChan:
		return err
	}
}

// Register ties the server to the fx lifecycle.
func Register(lc fx.Lifecycle, s *Server, shutdowner fx.Shutdowner) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				err := s.Start(ctx)
				done <- err
				if err != nil {
					logger.Error("Server stopped", zap.Error(err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case err := <-done:
				return err
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}

// Module provides the relay server dependencies
var Module = fx.Module("server",
	fx.Provide(
		func(cfg *config.Config, svc *auth.Service) *handler.Handler {
			return handler.NewHandler(svc, cfg.Server.Name)
		},
		NewServer,
	),
)
