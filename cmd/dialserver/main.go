package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/sebas/dialserver/internal/dial/app"
	"github.com/sebas/dialserver/internal/dial/config"
	"github.com/sebas/dialserver/internal/logger"
)

func main() {
	cfg := config.Load()
	logger.Init(os.Stdout)
	logger.SetLevel(cfg.LogLevel)

	launcher := noopLauncher{}
	server := app.NewServer(cfg, launcher)

	registerBuiltinApps(server)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.StateWaitTimeout)
	defer cancel()
	if err := server.Close(shutdownCtx); err != nil {
		slog.Error("error during shutdown", "error", err)
	}
}

// registerBuiltinApps seeds the registry this core ships with. A real
// deployment would load this list from the same source that configures
// the platform launcher; no such config format is specified, so the
// handful of apps named in spec.md's scenarios are registered directly.
func registerBuiltinApps(s *app.Server) {
	s.RegisterApp("Netflix", nil, true, []string{"netflix.com"}, "Netflix")
	s.RegisterApp("YouTube", nil, false, []string{"youtube.com"}, "YouTube")
}
