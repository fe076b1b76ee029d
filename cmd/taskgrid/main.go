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

	"taskgrid/internal/config"
	"taskgrid/internal/logging"
	"taskgrid/internal/metrics"
	"taskgrid/internal/seed"
	"taskgrid/internal/server"
	"taskgrid/internal/storage/sqlite"
	"taskgrid/internal/tasklist"
)

func main() {
	configFlag := flag.String("config", "", "Path to YAML config file")
	addrFlag := flag.String("addr", "", "HTTP listen address (overrides config)")
	dbFlag := flag.String("db", "", "Path to sqlite database file or :memory: (overrides config)")
	staticFlag := flag.String("static", "", "Directory with built frontend (overrides config)")
	seedFlag := flag.String("seed", "", "YAML file with initial task types and tasks (overrides config)")
	helpEnv := flag.Bool("help-env", false, "Print supported environment variables and exit")
	flag.Parse()

	if *helpEnv {
		fmt.Println(config.Usage())
		return
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *addrFlag != "" {
		cfg.HTTP.Addr = *addrFlag
	}
	if *dbFlag != "" {
		cfg.Storage.DBPath = *dbFlag
	}
	if *staticFlag != "" {
		cfg.HTTP.StaticDir = *staticFlag
	}
	if *seedFlag != "" {
		cfg.Storage.SeedFile = *seedFlag
	}

	logger, closer := logging.New(cfg.Log)
	defer closer.Close()
	logger.Info("task grid starting", slog.String("db", cfg.Storage.DBPath))

	if err := run(cfg, logger); err != nil {
		logger.Error("server failed", slog.String("error", err.Error()))
		closer.Close()
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func run(cfg config.Config, logger *slog.Logger) error {
	store, err := sqlite.Open(cfg.Storage.DBPath, logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer store.Close()

	ctx := context.Background()

	data := seed.Defaults
	if cfg.Storage.SeedFile != "" {
		if data, err = seed.LoadFile(cfg.Storage.SeedFile); err != nil {
			return err
		}
	}
	if err := seed.Apply(ctx, store, data, logger); err != nil {
		return err
	}

	view := tasklist.NewView(store)
	if err := view.Load(ctx); err != nil {
		return err
	}

	opts := server.Options{StaticDir: cfg.HTTP.StaticDir}
	if cfg.Metrics.Enabled {
		opts.Metrics = metrics.New(cfg.Metrics.Namespace)
		opts.MetricsPath = cfg.Metrics.Path
	}
	srv := server.New(store, view, logger, opts)

	httpServer := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      srv.Engine(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-quit:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
