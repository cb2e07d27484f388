package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"plando/internal/config"
	"plando/internal/daemon"
	"plando/internal/logging"
)

func main() {
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		slog.Error("failed to create data directory", "error", err)
		os.Exit(1)
	}

	if err := logging.Init(cfg.DataDir); err != nil {
		slog.Error("failed to initialize logging", "error", err)
		os.Exit(1)
	}

	server, err := daemon.NewServer(cfg.SocketPath())
	if err != nil {
		slog.Error("failed to create daemon", "error", err)
		os.Exit(1)
	}

	slog.Info("plando daemon starting", "socket_path", cfg.SocketPath(), "pid", os.Getpid())

	if err := server.Start(ctx); err != nil {
		slog.Error("daemon error", "error", err)
		os.Exit(1)
	}

	slog.Info("plando daemon shutting down gracefully")
}
