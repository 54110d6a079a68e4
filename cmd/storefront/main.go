package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/angelmondragon/grocerfront/api/routes"
	"github.com/angelmondragon/grocerfront/internal/app"
	"github.com/angelmondragon/grocerfront/pkg/config"
	"github.com/angelmondragon/grocerfront/pkg/docstore"
	"github.com/angelmondragon/grocerfront/pkg/docstore/gormstore"
	"github.com/angelmondragon/grocerfront/pkg/docstore/memstore"
	"github.com/angelmondragon/grocerfront/pkg/docstore/redistore"
	"github.com/angelmondragon/grocerfront/pkg/identity"
	"github.com/angelmondragon/grocerfront/pkg/logger"
	"github.com/angelmondragon/grocerfront/pkg/metrics"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := buildStore(ctx, cfg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap document store", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	engineMetrics := metrics.NewEngineMetrics(registry)

	engine, err := app.New(app.Params{
		Store:              store,
		Provider:           identity.NewLocalProvider(cfg.Identity),
		Logger:             logg,
		Metrics:            engineMetrics,
		ProductsCollection: cfg.App.ProductsCollection(),
		OrdersCollection:   cfg.App.OrdersCollection(),
		IdentityToken:      cfg.Identity.Token,
	})
	if err != nil {
		logg.Error(ctx, "failed to build engine", err)
		os.Exit(1)
	}
	engine.Start(ctx)

	addr := ":" + cfg.App.Port
	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, engine, registry),
	}

	startCtx := logg.WithFields(ctx, map[string]any{
		"env":     cfg.App.Env,
		"addr":    addr,
		"backend": cfg.Docstore.Backend,
		"app_id":  cfg.App.AppID,
	})
	logg.Info(startCtx, "starting storefront server")

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "storefront server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var closeErr error
	closeErr = multierr.Append(closeErr, server.Shutdown(shutdownCtx))
	engine.Stop()
	if closeStore != nil {
		closeErr = multierr.Append(closeErr, closeStore())
	}
	if closeErr != nil {
		logg.Error(context.Background(), "shutdown finished with errors", closeErr)
		os.Exit(1)
	}
	logg.Info(context.Background(), "shutdown complete")
}

func buildStore(ctx context.Context, cfg *config.Config) (docstore.Store, func() error, error) {
	switch cfg.Docstore.Backend {
	case config.DocstoreBackendRedis:
		store, err := redistore.New(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case config.DocstoreBackendSQLite:
		store, err := gormstore.New(cfg.Docstore.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return memstore.New(), nil, nil
	}
}
