// Package server initializes and runs the hub: it opens the database and
// runs migrations, picks the product-cache and snapshot backends from
// config, and starts the HTTP API alongside the auto-update runner.
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

	"github.com/dmitrijs2005/scalehub/internal/logging"
	"github.com/dmitrijs2005/scalehub/internal/server/config"
	"github.com/dmitrijs2005/scalehub/internal/server/httpapi"
	"github.com/dmitrijs2005/scalehub/internal/server/productcache"
	"github.com/dmitrijs2005/scalehub/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/scalehub/internal/server/scalelink"
	"github.com/dmitrijs2005/scalehub/internal/server/services"
	"github.com/dmitrijs2005/scalehub/internal/server/snapshots"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	cache   productcache.Store
	httpSrv *httpapi.Server
	runner  *services.AutoUpdateRunner
}

func NewApp(cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	var cache productcache.Store
	if cfg.RedisAddr == "" {
		cache = productcache.NewMemoryStore()
	} else {
		cache, err = productcache.NewRedisStore(cfg.RedisAddr)
		if err != nil {
			return nil, fmt.Errorf("cache init error: %w", err)
		}
	}

	var archiver snapshots.Archiver = snapshots.Disabled{}
	if cfg.S3BaseEndpoint != "" {
		archiver = snapshots.NewS3Archiver(cfg)
	}

	link := scalelink.NewNetLink(cfg.ScaleDialTimeout)

	us := services.NewUserService(db, rm, cfg)
	ds := services.NewDeviceService(db, rm, cache)
	ps := services.NewProductService(db, rm, cache, link, archiver)

	return &App{
		config:  cfg,
		logger:  logger,
		db:      db,
		cache:   cache,
		httpSrv: httpapi.NewServer(cfg, logger, us, ds, ps),
		runner:  services.NewAutoUpdateRunner(db, rm, cache, cfg.AutoUpdateCheckInterval, logger),
	}, nil
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
	if err := app.httpSrv.Run(ctx); err != nil {
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

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.runner.Run(ctx)
	}()

	wg.Wait()

	if err := app.cache.Close(); err != nil {
		app.logger.Error(ctx, "error closing cache", "error", err.Error())
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "error closing db", "error", err.Error())
	}

	app.logger.Info(ctx, "App stopped")
}
