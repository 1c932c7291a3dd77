package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sebas/dialserver/internal/dial/config"
	"github.com/sebas/dialserver/internal/dial/events"
	"github.com/sebas/dialserver/internal/dial/instance"
	"github.com/sebas/dialserver/internal/dial/platform"
	"github.com/sebas/dialserver/internal/dial/registry"
	"github.com/sebas/dialserver/internal/dial/state"
	"github.com/sebas/dialserver/internal/dial/worker"
)

// fakeLauncher drives the state cache the way the real platform would
// (asynchronously, from a separate notification stream) but does so
// synchronously within each call so tests stay deterministic.
type fakeLauncher struct {
	cache     *state.Cache
	onStart   func(req platform.StartRequest) platform.Result
	onHide    func() platform.Result
	onStop    func() platform.Result
	onSystem  func(query map[string]string) platform.Result
	appName   string
	startDone chan platform.StartRequest
}

func (f *fakeLauncher) Start(ctx context.Context, req platform.StartRequest) platform.Result {
	if f.startDone != nil {
		f.startDone <- req
	}
	result := platform.OK
	if f.onStart != nil {
		result = f.onStart(req)
	}
	if result == platform.OK {
		f.cache.Update(state.Status{ApplicationName: req.AppName, ApplicationID: "1", State: state.Running})
	}
	return result
}

func (f *fakeLauncher) Hide(ctx context.Context, appName string) platform.Result {
	result := platform.OK
	if f.onHide != nil {
		result = f.onHide()
	}
	if result == platform.OK {
		f.cache.Update(state.Status{ApplicationName: appName, State: state.Hide})
	}
	return result
}

func (f *fakeLauncher) Stop(ctx context.Context, appName string) platform.Result {
	result := platform.OK
	if f.onStop != nil {
		result = f.onStop()
	}
	if result == platform.OK {
		f.cache.Update(state.Status{ApplicationName: appName, State: state.Stopped})
	}
	return result
}

func (f *fakeLauncher) ForceShutdown(ctx context.Context, appName string) platform.Result {
	f.cache.Update(state.Status{ApplicationName: appName, State: state.Stopped})
	return platform.OK
}

func (f *fakeLauncher) System(ctx context.Context, query map[string]string) platform.Result {
	if f.onSystem != nil {
		return f.onSystem(query)
	}
	return platform.OK
}

func newTestServer(t *testing.T, localOnly bool) (*Server, *fakeLauncher) {
	t.Helper()
	reg := registry.New()
	reg.Register("Netflix", nil, true, true, []string{"example.com"})
	reg.Register("YouTube", nil, true, false, nil)

	cache := state.NewCache()
	launcher := &fakeLauncher{cache: cache}

	deps := Deps{
		Registry:  reg,
		Cache:     cache,
		Pool:      worker.New(1),
		Instances: instance.NewStore(),
		Launcher:  launcher,
		Publisher: events.NewNoopPublisher(),
		Config: &config.Config{
			MaxPayloadBytes:         4096,
			MaxDialDataBytes:        4096,
			StateWaitTimeout:        2 * time.Second,
			YouTubeUnencodedPayload: true,
		},
	}

	s := NewServer("127.0.0.1", 0, deps, localOnly)
	s.port = 8080 // fixed for assertions without binding a real socket
	return s, launcher
}

func doRequest(s *Server, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Host = "tv.local"
	req.RemoteAddr = "127.0.0.1:54321"
	rec := httptest.NewRecorder()
	s.route(rec, req)
	return rec
}

func TestLaunchFreshSucceeds(t *testing.T) {
	s, _ := newTestServer(t, false)

	rec := doRequest(s, http.MethodPost, "/apps/Netflix", "v=abc")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "http://tv.local:8080/apps/Netflix/run" {
		t.Fatalf("unexpected Location: %s", loc)
	}
}

func TestLaunchReuseSamePayloadDoesNotRelaunch(t *testing.T) {
	s, launcher := newTestServer(t, false)

	doRequest(s, http.MethodPost, "/apps/Netflix", "v=abc")

	starts := 0
	launcher.onStart = func(req platform.StartRequest) platform.Result {
		starts++
		return platform.OK
	}

	rec := doRequest(s, http.MethodPost, "/apps/Netflix", "v=abc")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 on reuse, got %d", rec.Code)
	}
	if starts != 0 {
		t.Fatalf("expected no relaunch for identical payload, got %d starts", starts)
	}
}

func TestLaunchDifferentPayloadRelaunches(t *testing.T) {
	s, launcher := newTestServer(t, false)
	doRequest(s, http.MethodPost, "/apps/Netflix", "v=abc")

	starts := 0
	launcher.onStart = func(req platform.StartRequest) platform.Result {
		starts++
		return platform.OK
	}

	rec := doRequest(s, http.MethodPost, "/apps/Netflix", "v=xyz")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if starts != 1 {
		t.Fatalf("expected exactly one relaunch, got %d", starts)
	}
}

func TestDeleteSystemRunForbidden(t *testing.T) {
	s, _ := newTestServer(t, false)
	rec := doRequest(s, http.MethodDelete, "/apps/system/run", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestDialDataRejectedOnPublicServer(t *testing.T) {
	s, _ := newTestServer(t, false)
	rec := doRequest(s, http.MethodPost, "/apps/YouTube/dial_data", "k=v")
	if rec.Code != http.StatusNotImplemented {
		t.Fatalf("expected 501 on public server, got %d", rec.Code)
	}
}

func TestDialDataAcceptedOnLocalServer(t *testing.T) {
	s, _ := newTestServer(t, true)
	rec := doRequest(s, http.MethodPost, "/apps/YouTube/dial_data", "k=v")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on local server, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHideRunningAppSucceeds(t *testing.T) {
	s, _ := newTestServer(t, false)
	doRequest(s, http.MethodPost, "/apps/Netflix", "v=abc")

	rec := doRequest(s, http.MethodPost, "/apps/Netflix/run/hide", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHideStoppedAppNotFound(t *testing.T) {
	s, _ := newTestServer(t, false)
	rec := doRequest(s, http.MethodPost, "/apps/Netflix/run/hide", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestUnregisteredAppReturnsNotFound(t *testing.T) {
	s, _ := newTestServer(t, false)
	rec := doRequest(s, http.MethodGet, "/apps/Hulu", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGetAppRendersXML(t *testing.T) {
	s, _ := newTestServer(t, false)
	doRequest(s, http.MethodPost, "/apps/Netflix", "v=abc")

	rec := doRequest(s, http.MethodGet, "/apps/Netflix", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/xml; charset=utf-8" {
		t.Fatalf("unexpected content type: %s", ct)
	}
}

func TestOptionsOnAppShapeListsAllowedMethods(t *testing.T) {
	s, _ := newTestServer(t, false)
	rec := doRequest(s, http.MethodOptions, "/apps/Netflix", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rec.Header().Get("Allow") != "GET, POST, OPTIONS" {
		t.Fatalf("unexpected Allow header: %s", rec.Header().Get("Allow"))
	}
	if rec.Header().Get("Access-Control-Max-Age") != "86400" {
		t.Fatal("expected Access-Control-Max-Age: 86400")
	}
}

func TestQueueSaturationRejectsPushesBeyondCap(t *testing.T) {
	s, _ := newTestServer(t, false)
	release := make(chan struct{})
	blocker := &worker.Task{
		Run: func(ctx context.Context) { <-release },
		Done: func() {},
	}
	s.deps.Pool.Push(blocker)
	time.Sleep(10 * time.Millisecond) // let the single worker pick it up

	accepted := 0
	for i := 0; i < worker.PendingQueueCap+3; i++ {
		if s.deps.Pool.Push(&worker.Task{Run: func(context.Context) {}, Done: func() {}}) {
			accepted++
		}
	}
	close(release)

	if accepted > worker.PendingQueueCap {
		t.Fatalf("expected at most %d accepted, got %d", worker.PendingQueueCap, accepted)
	}
}
