// Command intrayd is the intray server daemon.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rlacksdl104/intray/config"
	"github.com/rlacksdl104/intray/internal/version"
	"github.com/rlacksdl104/intray/server"
	"github.com/rlacksdl104/intray/task"
)

var configPath = flag.String("config", "intray.yaml", "path to config file")

func main() {
	flag.Parse()

	cfg := config.DefaultConfig()
	if _, err := os.Stat(*configPath); err == nil {
		loaded, err := config.Load(*configPath)
		if err != nil {
			slog.Error("load config", slog.Any("err", err))
			os.Exit(1)
		}
		cfg = loaded
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))

	store := task.NewStore()
	if cfg.DataFile != "" {
		if data, err := os.ReadFile(cfg.DataFile); err == nil {
			if store.Import(data) {
				logger.Info("snapshot loaded", slog.String("file", cfg.DataFile), slog.Int("tasks", store.Len()))
			} else {
				logger.Warn("snapshot rejected, starting empty", slog.String("file", cfg.DataFile))
			}
		}
	}

	srv := server.New(*cfg, version.Version, logger)
	srv.SetTaskStore(store)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Error("server error", slog.Any("err", err))
		os.Exit(1)
	case sig := <-sigCh:
		logger.Info("shutting down", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		logger.Error("shutdown", slog.Any("err", err))
	}

	if cfg.DataFile != "" {
		data, err := store.Export()
		if err == nil {
			err = os.WriteFile(cfg.DataFile, data, 0o644)
		}
		if err != nil {
			logger.Error("snapshot save", slog.Any("err", err))
			os.Exit(1)
		}
		logger.Info("snapshot saved", slog.String("file", cfg.DataFile), slog.Int("tasks", store.Len()))
	}
}
