// Package main is the asset catalog server entry point.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/excelra/asset-scout/pkg/asset"
	"github.com/excelra/asset-scout/pkg/audit"
	"github.com/excelra/asset-scout/pkg/config"
	"github.com/excelra/asset-scout/pkg/database"
	"github.com/excelra/asset-scout/pkg/logging"
	"github.com/excelra/asset-scout/pkg/seed"
	"github.com/excelra/asset-scout/pkg/server"
)

func main() {
	// glog is only used for fatal boot errors.
	_ = flag.Set("logtostderr", "true")

	cmd := &cobra.Command{
		Use:           "scout-server",
		Short:         "Serve the internal asset catalog over HTTP",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}
	config.RegisterFlags(cmd.Flags())

	if err := cmd.Execute(); err != nil {
		glog.Fatalf("scout-server: %v", err)
	}
}

func run(cfg *config.Config) error {
	logger, err := logging.New(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	slog.SetDefault(logger)

	logger.Info("starting asset catalog",
		"listen", cfg.Server.Listen,
		"db", cfg.Database.Type,
		"seed", cfg.Seed.Path,
		"audit", cfg.Audit.Enabled,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.Database.Type, cfg.Database.DSN, logger)
	if err != nil {
		glog.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Error("database close error", "error", err)
		}
	}()

	store := asset.NewStore(db)
	var auditStore *audit.Store
	if cfg.Audit.Enabled {
		auditStore = audit.NewStore(db)
	}
	svc := asset.NewService(store, asset.NewValidator(cfg.Vocabulary),
		asset.WithSeedSource(seed.NewFileSource(cfg.Seed.Path, logger)),
		asset.WithLogger(logger),
	)

	// Replicas sharing a database migrate and seed one at a time.
	err = database.NewBootLock(db, logger).Do(ctx, func(ctx context.Context) error {
		if err := store.AutoMigrate(); err != nil {
			return fmt.Errorf("migrate asset store: %w", err)
		}
		if auditStore != nil {
			if err := auditStore.AutoMigrate(); err != nil {
				return fmt.Errorf("migrate audit store: %w", err)
			}
		}
		if _, err := svc.SeedIfEmpty(ctx); err != nil {
			logger.Warn("seeding failed, starting with an empty catalog", "error", err, "path", cfg.Seed.Path)
		}
		return nil
	})
	if err != nil {
		glog.Fatalf("Failed to prepare database: %v", err)
	}

	metrics := server.NewMetrics()
	metrics.RegisterAssetCount(svc.Count)

	opts := []server.Option{
		server.WithDB(db),
		server.WithMetrics(metrics),
		server.WithCORSOrigins(cfg.Server.CORSOrigins),
		server.WithLogger(logger),
	}
	if auditStore != nil {
		opts = append(opts, server.WithAuditStore(auditStore))
	}

	httpServer := &http.Server{
		Addr:    cfg.Server.Listen,
		Handler: server.New(svc, opts...).Router(),
	}

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			glog.Fatalf("HTTP server error: %v", err)
		}
	}()
	logger.Info("asset catalog ready", "listen", cfg.Server.Listen)

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("asset catalog stopped")
	return nil
}
