package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/retail-admin-backend/api"
	"github.com/angelmondragon/retail-admin-backend/api/routes"
	"github.com/angelmondragon/retail-admin-backend/pkg/config"
	"github.com/angelmondragon/retail-admin-backend/pkg/db"
	"github.com/angelmondragon/retail-admin-backend/pkg/instance"
	"github.com/angelmondragon/retail-admin-backend/pkg/logger"
	"github.com/angelmondragon/retail-admin-backend/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "retail-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "retail-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.AutoRun(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run migrations", err)
		os.Exit(1)
	}

	svcs, err := routes.NewRetailServices(dbClient)
	if err != nil {
		logg.Error(ctx, "failed to wire retail services", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	addr := cfg.App.Addr()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.ID(),
	})
	logg.Info(ctx, "starting retail api server")

	server := api.NewServer(addr, routes.NewRouter(cfg, logg, dbClient, registry, svcs))
	if err := api.Serve(ctx, logg, server, api.DefaultShutdownTimeout); err != nil {
		logg.Error(ctx, "retail api server stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "retail api server stopped")
}
