// Package httpapi exposes the account lifecycle over HTTP with typed JSON
// request and response bodies.
package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/antonvlsk/verimail/internal/logging"
	"github.com/antonvlsk/verimail/internal/server/services"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

type Server struct {
	address  string
	accounts *services.AccountService
	logger   logging.Logger
}

func NewServer(address string, l logging.Logger, as *services.AccountService) *Server {
	return &Server{
		address:  address,
		logger:   l.With("module", "http_server"),
		accounts: as,
	}
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())

	s.registerRoutes(e)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		if err := e.Shutdown(context.Background()); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := e.Start(s.address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) registerRoutes(e *echo.Echo) {
	api := e.Group("/api")

	api.POST("/send-verification-email", s.sendVerificationEmail)
	api.GET("/verify-email", s.verifyEmail)
	api.POST("/register", s.register)
	api.POST("/login", s.login)

	api.GET("/me", s.me, s.sessionAuth)
}
