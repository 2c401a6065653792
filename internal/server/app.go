// Package server wires configuration, storage and services together and
// runs the REST API until the process is signalled.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/moneytracker/internal/dbx"
	"github.com/dmitrijs2005/moneytracker/internal/logging"
	"github.com/dmitrijs2005/moneytracker/internal/server/config"
	"github.com/dmitrijs2005/moneytracker/internal/server/repositories/memory"
	"github.com/dmitrijs2005/moneytracker/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/moneytracker/internal/server/services"

	hs "github.com/dmitrijs2005/moneytracker/internal/server/http"
)

type App struct {
	config        *config.Config
	logger        logging.Logger
	db            *sql.DB
	userService   *services.UserService
	personService *services.PersonService
	ledgerService *services.LedgerService
	exportService *services.ExportService
}

// openStorage returns the transactor and repositories for the configured
// backend. db is nil for the memory backend.
func openStorage(ctx context.Context, c *config.Config) (dbx.Transactor, repomanager.RepositoryManager, *sql.DB, error) {
	switch c.StorageBackend {
	case config.StorageMemory:
		store := memory.NewStore()
		return store, store, nil, nil
	case config.StoragePostgres:
		db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("db init error: %w", err)
		}
		rm := repomanager.NewPostgresRepositoryManager()
		if err := rm.RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, nil, fmt.Errorf("migrations error: %w", err)
		}
		return dbx.NewSQLTransactor(db, nil), rm, db, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	tr, rm, db, err := openStorage(ctx, c)
	if err != nil {
		return nil, err
	}

	app := &App{
		config:        c,
		logger:        logger,
		db:            db,
		userService:   services.NewUserService(tr, rm, c, logger),
		personService: services.NewPersonService(tr, rm, logger),
		ledgerService: services.NewLedgerService(tr, rm, logger),
		exportService: services.NewExportService(tr, rm, c, logger),
	}

	if c.SeedDemoUsers {
		if err := services.SeedDemoUsers(ctx, app.userService); err != nil {
			app.close()
			return nil, fmt.Errorf("seed error: %w", err)
		}
		logger.Info(ctx, "demo users ready")
	}

	return app, nil
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
	s := hs.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger,
		app.userService, app.personService, app.ledgerService, app.exportService)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) close() {
	if app.db != nil {
		_ = app.db.Close()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "storage", app.config.StorageBackend)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
	app.close()
	app.logger.Info(ctx, "App stopped")
}
