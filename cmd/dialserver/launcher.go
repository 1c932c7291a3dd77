package main

import (
	"context"
	"log/slog"

	"github.com/sebas/dialserver/internal/dial/platform"
)

// noopLauncher stands in for the platform-specific launcher this core
// consumes but never implements (spec.md §6). It reports NOT_IMPLEMENTED
// for every lifecycle command so this binary boots and serves GET_app
// and OPTIONS correctly on its own; a real deployment replaces it with
// an adapter onto whatever actually launches applications on the host.
type noopLauncher struct{}

func (noopLauncher) Start(ctx context.Context, req platform.StartRequest) platform.Result {
	slog.Warn("no platform launcher configured, cannot start app", "app", req.AppName)
	return platform.NotImplemented
}

func (noopLauncher) Hide(ctx context.Context, appName string) platform.Result {
	slog.Warn("no platform launcher configured, cannot hide app", "app", appName)
	return platform.NotImplemented
}

func (noopLauncher) Stop(ctx context.Context, appName string) platform.Result {
	slog.Warn("no platform launcher configured, cannot stop app", "app", appName)
	return platform.NotImplemented
}

func (noopLauncher) ForceShutdown(ctx context.Context, appName string) platform.Result {
	return platform.NotImplemented
}

func (noopLauncher) System(ctx context.Context, query map[string]string) platform.Result {
	return platform.NotImplemented
}
