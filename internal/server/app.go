// Package server initializes and runs the main application server.
// It opens the database, runs migrations, wires the account service and its
// collaborators, and starts the HTTP endpoint with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/antonvlsk/verimail/internal/logging"
	"github.com/antonvlsk/verimail/internal/server/config"
	"github.com/antonvlsk/verimail/internal/server/httpapi"
	"github.com/antonvlsk/verimail/internal/server/mail"
	"github.com/antonvlsk/verimail/internal/server/password"
	"github.com/antonvlsk/verimail/internal/server/repositories/repomanager"
	"github.com/antonvlsk/verimail/internal/server/services"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	accountService *services.AccountService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewDefault()

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	dispatcher, err := mail.NewResendDispatcher(cfg.ResendAPIKey, cfg.ResendFrom)
	if err != nil {
		return nil, fmt.Errorf("mail dispatcher init error: %w", err)
	}

	hasher := password.NewHasher(0)

	as, err := services.NewAccountService(db, rm, hasher, dispatcher, logger, cfg)
	if err != nil {
		return nil, fmt.Errorf("account service init error: %w", err)
	}

	return &App{config: cfg, logger: logger, db: db, accountService: as}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewServer(app.config.EndpointAddrHTTP, app.logger, app.accountService)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
}
