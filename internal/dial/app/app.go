// Package app wires every DIAL component into the two HTTP servers the
// core exposes (spec.md §5 "one I/O worker per HTTP server... two HTTP
// servers run concurrently"). Grounded on the teacher's SwitchBoard
// (services/signaling/app/app.go): a single struct built once in
// NewServer, holding every collaborator, with Run/Close lifecycle
// methods.
package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/sebas/dialserver/internal/dial/api"
	"github.com/sebas/dialserver/internal/dial/config"
	"github.com/sebas/dialserver/internal/dial/events"
	"github.com/sebas/dialserver/internal/dial/instance"
	"github.com/sebas/dialserver/internal/dial/platform"
	"github.com/sebas/dialserver/internal/dial/registry"
	"github.com/sebas/dialserver/internal/dial/state"
	"github.com/sebas/dialserver/internal/dial/worker"
	"github.com/sebas/dialserver/internal/logger"
)

// Server is the DIAL core: registry, state cache, worker pool, and the
// two HTTP listeners built on top of them.
type Server struct {
	cfg *config.Config

	Registry  *registry.Registry
	Cache     *state.Cache
	Pool      *worker.Pool
	Instances *instance.Store
	Publisher events.Publisher
	Notifier  *platform.Notifier

	public *api.Server
	local  *api.Server
}

// NewServer constructs every collaborator and the two api.Server
// instances, but does not start listening — call Run for that.
func NewServer(cfg *config.Config, launcher platform.Launcher) *Server {
	reg := registry.New()
	cache := state.NewCache()
	pool := worker.New(cfg.WorkerConcurrency)
	instances := instance.NewStore()
	publisher := events.NewLoggingPublisher(nil)

	deps := api.Deps{
		Registry:  reg,
		Cache:     cache,
		Pool:      pool,
		Instances: instances,
		Launcher:  launcher,
		Publisher: publisher,
		Config:    cfg,
	}

	return &Server{
		cfg:       cfg,
		Registry:  reg,
		Cache:     cache,
		Pool:      pool,
		Instances: instances,
		Publisher: publisher,
		Notifier:  platform.NewNotifier(cache),
		public:    api.NewServer(cfg.PublicBindAddr, cfg.PublicPort, deps, false),
		local:     api.NewServer(cfg.LocalBindAddr, cfg.LocalPort, deps, true),
	}
}

// RegisterApp exposes AppRegistry.register to whatever start-up
// configuration loads the app list (spec.md §5: "AppRegistry is
// written only at startup/shutdown, read freely afterwards").
func (s *Server) RegisterApp(name string, prefixes []string, useAdditionalData bool, allowedOrigins []string, displayName string) bool {
	ok := s.Registry.Register(name, prefixes, true, useAdditionalData, allowedOrigins)
	if ok {
		if reg, found := s.Registry.Lookup(name); found {
			reg.DisplayName = displayName
		}
	}
	return ok
}

// Run starts both HTTP servers and blocks until ctx is canceled or one
// of them fails to start. Grounded on the teacher's drain.Coordinator
// bounded-concurrency pattern, here used for exactly two fixed
// goroutines instead of a variable worker count.
func (s *Server) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := s.public.Start(); err != nil {
			return fmt.Errorf("public server: %w", err)
		}
		logger.Info("public DIAL server listening", "port", s.public.Port())
		<-gCtx.Done()
		return nil
	})

	g.Go(func() error {
		if err := s.local.Start(); err != nil {
			return fmt.Errorf("local DIAL server: %w", err)
		}
		logger.Info("local dial_data server listening", "port", s.local.Port())
		<-gCtx.Done()
		return nil
	})

	err := g.Wait()
	s.Publisher.Publish(ctx, events.RestEnable, "off")
	return err
}

// Close shuts down both HTTP servers.
func (s *Server) Close(ctx context.Context) error {
	errPublic := s.public.Stop(ctx)
	errLocal := s.local.Stop(ctx)
	if errPublic != nil {
		return errPublic
	}
	return errLocal
}
