// Package platform defines the two external collaborators this core
// consumes but does not implement (spec.md §1 "Deliberately out of
// scope", §6 "External interfaces"): the platform-specific launcher that
// actually starts/stops applications, and the notification channel that
// reports state transitions back. Nothing in this repository provides a
// concrete Launcher — it is wired in by the surrounding process.
package platform

import (
	"context"

	"github.com/sebas/dialserver/internal/dial/state"
)

// Result is the outcome of a Launcher command (spec.md §6).
type Result int

const (
	OK Result = iota
	NotImplemented
	Forbidden
	Unauth
	Internal
)

// StartRequest carries everything the launcher needs to start an app
// instance (spec.md §4.7 step 5).
type StartRequest struct {
	AppName           string
	Payload           string
	QueryString       string
	AdditionalDataURL string
}

// Launcher is the platform-specific component that actually starts,
// hides, and stops applications. LifecycleHandlers calls it and then
// waits on state.Cache for confirmation — it never trusts Launcher's own
// return code as proof a transition happened (spec.md §3 invariant 2).
type Launcher interface {
	Start(ctx context.Context, req StartRequest) Result
	Hide(ctx context.Context, appName string) Result
	Stop(ctx context.Context, appName string) Result
	ForceShutdown(ctx context.Context, appName string) Result
	System(ctx context.Context, query map[string]string) Result
}

// Notification is one state-transition record delivered by the
// out-of-scope remote object protocol (spec.md §6).
type Notification struct {
	ApplicationName string
	ApplicationID   string
	State           state.AppState
	Err             error
}

// Notifier feeds Notifications into an AppStateCache. It is the one
// piece of the "remote object protocol" boundary this core owns on its
// side: the transport that calls Notify is out of scope (spec.md §1),
// but something has to turn a delivered record into a cache Update.
// Grounded in the teacher's dialogMgr.SetOnTerminated callback-hook
// pattern (app/app.go) — a core component exposing a narrow callback
// surface that an external layer drives.
type Notifier struct {
	cache *state.Cache
}

// NewNotifier binds a Notifier to the cache it updates.
func NewNotifier(cache *state.Cache) *Notifier {
	return &Notifier{cache: cache}
}

// Notify applies one delivered record to the state cache.
func (n *Notifier) Notify(rec Notification) {
	n.cache.Update(state.Status{
		ApplicationName: rec.ApplicationName,
		ApplicationID:   rec.ApplicationID,
		State:           rec.State,
		Err:             rec.Err,
	})
}
