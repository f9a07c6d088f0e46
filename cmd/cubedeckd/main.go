// Command cubedeckd runs the cube engine as a long-lived process: it opens
// the warehouse, registers declarative cube definitions, and keeps scheduled
// refreshes running. The query-serving surface lives elsewhere and consumes
// the engine as a library.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"cubedeck/internal/catalog"
	"cubedeck/internal/config"
	"cubedeck/internal/cubedef"
	"cubedeck/internal/service/cube"
	"cubedeck/internal/warehouse"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	db, err := warehouse.OpenDuckDB(cfg.WarehousePath, cfg.WarehousePool)
	if err != nil {
		return fmt.Errorf("open warehouse: %w", err)
	}
	defer db.Close()

	cat := catalog.New()
	if cfg.CubeConfigDir != "" {
		if err := cubedef.RegisterDirectory(cfg.CubeConfigDir, cat); err != nil {
			return fmt.Errorf("load cube definitions: %w", err)
		}
	}

	exec := warehouse.NewExecutor(db, cfg.QueryTimeout, logger)
	svc := cube.NewService(cat, exec, logger)
	logger.Info("cube engine ready", "cubes", len(svc.ListCubes()), "warehouse", cfg.WarehousePath)

	if cfg.RefreshCron != "" {
		sched := cube.NewRefreshScheduler(svc, logger)
		if err := sched.Start(cfg.RefreshCron); err != nil {
			return fmt.Errorf("start refresh scheduler: %w", err)
		}
		defer sched.Stop()
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down")
	return nil
}
