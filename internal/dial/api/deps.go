// Package api implements the DIAL REST surface: request routing,
// method/shape dispatch, and the six lifecycle handlers (spec.md §4.4,
// §4.7). Grounded on the teacher's api.Server (mux built in the
// constructor, one handleX method per resource) adapted from a
// resource-per-route API to a grammar-driven one, since DIAL addresses
// are structured paths rather than a fixed resource tree.
package api

import (
	"github.com/sebas/dialserver/internal/dial/config"
	"github.com/sebas/dialserver/internal/dial/events"
	"github.com/sebas/dialserver/internal/dial/instance"
	"github.com/sebas/dialserver/internal/dial/platform"
	"github.com/sebas/dialserver/internal/dial/registry"
	"github.com/sebas/dialserver/internal/dial/state"
	"github.com/sebas/dialserver/internal/dial/worker"
)

// Deps is everything a Server needs to dispatch requests. Built once in
// the app package and shared between the public and local servers.
type Deps struct {
	Registry  *registry.Registry
	Cache     *state.Cache
	Pool      *worker.Pool
	Instances *instance.Store
	Launcher  platform.Launcher
	Publisher events.Publisher
	Config    *config.Config
}
