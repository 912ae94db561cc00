package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/kirillkom/nlp-text-server/internal/bootstrap"
	"github.com/kirillkom/nlp-text-server/internal/config"
	"github.com/kirillkom/nlp-text-server/internal/observability/logging"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger(cfg.ServiceName, cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		slog.Error("bootstrap_failed", "error", err.Error())
		os.Exit(1)
	}
	defer app.Close()

	slog.Info("server_started",
		"tcp_addr", app.TCPAddr().String(),
		"admin_socket", cfg.AdminSocketPath,
		"queue_capacity", cfg.QueueCapacity,
	)
	if err := app.Run(ctx); err != nil {
		slog.Error("server_failed", "error", err.Error())
		app.Close()
		os.Exit(1)
	}
	slog.Info("server_stopped")
}
