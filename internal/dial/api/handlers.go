package api

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sebas/dialserver/internal/dial/instance"
	"github.com/sebas/dialserver/internal/dial/origin"
	"github.com/sebas/dialserver/internal/dial/pathparser"
	"github.com/sebas/dialserver/internal/dial/platform"
	"github.com/sebas/dialserver/internal/dial/registry"
	"github.com/sebas/dialserver/internal/dial/state"
	"github.com/sebas/dialserver/internal/dial/worker"
	"github.com/sebas/dialserver/internal/dial/xmlresp"
)

// handleAppRow dispatches the /apps/<name> shape (spec.md §4.4 row 1).
func (s *Server) handleAppRow(w http.ResponseWriter, r *http.Request, p pathparser.Path, reg *registry.Registration, admittedOrigin string) {
	switch r.Method {
	case http.MethodGet:
		s.handleGetApp(w, r, p, reg, admittedOrigin)
	case http.MethodPost:
		s.handleLaunch(w, r, p, reg, admittedOrigin)
	case http.MethodOptions:
		writeOptions(w, "GET, POST, OPTIONS", admittedOrigin)
	default:
		writeError(w, http.StatusNotImplemented)
	}
}

// handleInstanceRow dispatches /apps/<name>/<instance> (row 2). POST is
// an explicit 404 in the matrix, distinct from the unmatched-shape 501.
func (s *Server) handleInstanceRow(w http.ResponseWriter, r *http.Request, p pathparser.Path, reg *registry.Registration, admittedOrigin string) {
	switch r.Method {
	case http.MethodDelete:
		s.handleStop(w, r, p, reg, admittedOrigin)
	case http.MethodPost:
		writeError(w, http.StatusNotFound)
	case http.MethodOptions:
		writeOptions(w, "DELETE, OPTIONS", admittedOrigin)
	default:
		writeError(w, http.StatusNotImplemented)
	}
}

// handleHideRow dispatches /apps/<name>/<instance>/hide (row 3).
func (s *Server) handleHideRow(w http.ResponseWriter, r *http.Request, p pathparser.Path, reg *registry.Registration, admittedOrigin string) {
	switch r.Method {
	case http.MethodPost:
		s.handleHide(w, r, p, reg, admittedOrigin)
	case http.MethodOptions:
		writeOptions(w, "POST, OPTIONS", admittedOrigin)
	default:
		writeError(w, http.StatusNotImplemented)
	}
}

// handleDialDataRow dispatches /apps/<name>/dial_data (row 4, local
// server only — the caller already rejected this shape on the public
// server).
func (s *Server) handleDialDataRow(w http.ResponseWriter, r *http.Request, p pathparser.Path, reg *registry.Registration, admittedOrigin string) {
	switch r.Method {
	case http.MethodPost:
		s.handleSetData(w, r, p, reg, admittedOrigin)
	case http.MethodOptions:
		writeOptions(w, "POST, OPTIONS", admittedOrigin)
	default:
		writeError(w, http.StatusNotImplemented)
	}
}

// handleSystemRow dispatches /apps/system (row 5); it bypasses the
// registry lookup entirely since "system" is never a registered app.
func (s *Server) handleSystemRow(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleSystem(w, r)
	case http.MethodDelete:
		writeError(w, http.StatusForbidden)
	default:
		writeError(w, http.StatusNotImplemented)
	}
}

// launchResult is what the worker goroutine hands back to the blocked
// request goroutine. Realizing spec.md §9's "paused response" note: Go's
// http.Server already runs one goroutine per request, so "pausing" the
// response is simply the request goroutine blocking on this channel
// while the single-worker pool runs the state change — no separate
// pause/unpause primitive is needed.
type launchResult struct {
	status   int
	location string
}

func (s *Server) handleLaunch(w http.ResponseWriter, r *http.Request, p pathparser.Path, reg *registry.Registration, admittedOrigin string) {
	cfg := s.deps.Config

	var payload string
	if r.ContentLength > 0 || r.Method == http.MethodPost {
		body, err := io.ReadAll(io.LimitReader(r.Body, int64(cfg.MaxPayloadBytes)+1))
		if err != nil {
			writeError(w, http.StatusInternalServerError)
			return
		}
		if len(body) > cfg.MaxPayloadBytes {
			writeError(w, http.StatusRequestEntityTooLarge)
			return
		}
		if !isASCIIPrintable(body) {
			writeError(w, http.StatusBadRequest)
			return
		}
		payload = string(body)
	}

	resultCh := make(chan launchResult, 1)
	queryString := r.URL.RawQuery
	host := hostOnly(r.Host)

	task := &worker.Task{
		Run: func(ctx context.Context) {
			resultCh <- s.doLaunch(ctx, p.AppName, reg, payload, queryString, host)
		},
		Done: func() {},
	}

	if !s.deps.Pool.Push(task) {
		writeError(w, http.StatusForbidden)
		return
	}

	res := <-resultCh
	if res.status == http.StatusCreated {
		w.Header().Set("Location", res.location)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		setCORSHeader(w, admittedOrigin)
		w.WriteHeader(http.StatusCreated)
		return
	}
	writeError(w, res.status)
}

// doLaunch runs entirely on the worker goroutine: it is where a launch
// replaces the instance.Store entry and invokes the platform launcher,
// per spec.md §4.5's "executes exactly one of {LAUNCH, HIDE, STOP}".
func (s *Server) doLaunch(ctx context.Context, appName string, reg *registry.Registration, payload, queryString, host string) launchResult {
	cur, _ := s.deps.Instances.Get(appName)
	curStatus, _ := s.deps.Cache.Get(appName)

	if instance.ShouldRelaunch(cur, curStatus.State, payload) {
		encodedPayload := payload
		if !(appName == "YouTube" && s.deps.Config.YouTubeUnencodedPayload) {
			encodedPayload = url.QueryEscape(payload)
		}

		var additionalDataURL string
		if reg.UseAdditionalData {
			raw := "http://localhost:" + strconv.Itoa(s.port) + "/apps/" + appName + "/dial_data"
			additionalDataURL = url.QueryEscape(raw)
		}

		result := s.deps.Launcher.Start(ctx, platform.StartRequest{
			AppName:           appName,
			Payload:           encodedPayload,
			QueryString:       queryString,
			AdditionalDataURL: additionalDataURL,
		})

		switch result {
		case platform.OK:
			// fall through to the state wait below
		case platform.Forbidden:
			return launchResult{status: http.StatusForbidden}
		case platform.Unauth:
			return launchResult{status: http.StatusUnauthorized}
		default:
			return launchResult{status: http.StatusServiceUnavailable}
		}

		if !s.deps.Cache.WaitForState(appName, state.Running, s.deps.Config.StateWaitTimeout) {
			return launchResult{status: http.StatusInternalServerError}
		}

		updated, _ := s.deps.Cache.Get(appName)
		payloadCopy := payload
		s.deps.Instances.Set(appName, &instance.Instance{
			ApplicationID: updated.ApplicationID,
			CachedPayload: &payloadCopy,
		})
	}

	return launchResult{
		status:   http.StatusCreated,
		location: "http://" + host + ":" + strconv.Itoa(s.port) + "/apps/" + appName + "/run",
	}
}

type simpleResult struct {
	status int
}

func (s *Server) handleHide(w http.ResponseWriter, r *http.Request, p pathparser.Path, reg *registry.Registration, admittedOrigin string) {
	st, ok := s.deps.Cache.Get(p.AppName)
	if !ok || !st.State.IsActive() {
		writeError(w, http.StatusNotFound)
		return
	}

	resultCh := make(chan simpleResult, 1)
	task := &worker.Task{
		Run: func(ctx context.Context) {
			result := s.deps.Launcher.Hide(ctx, p.AppName)
			switch result {
			case platform.NotImplemented:
				resultCh <- simpleResult{status: http.StatusNotImplemented}
				return
			case platform.OK:
				// continue to state wait
			default:
				resultCh <- simpleResult{status: http.StatusInternalServerError}
				return
			}
			if !s.deps.Cache.WaitForState(p.AppName, state.Hide, s.deps.Config.StateWaitTimeout) {
				resultCh <- simpleResult{status: http.StatusInternalServerError}
				return
			}
			resultCh <- simpleResult{status: http.StatusOK}
		},
		Done: func() {},
	}

	if !s.deps.Pool.Push(task) {
		writeError(w, http.StatusForbidden)
		return
	}

	res := <-resultCh
	if res.status == http.StatusOK {
		setCORSHeader(w, admittedOrigin)
		w.WriteHeader(http.StatusOK)
		return
	}
	writeError(w, res.status)
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request, p pathparser.Path, reg *registry.Registration, admittedOrigin string) {
	if p.AppName == "system" {
		writeError(w, http.StatusForbidden)
		return
	}

	st, ok := s.deps.Cache.Get(p.AppName)
	if !ok || !st.State.IsActive() {
		writeError(w, http.StatusNotFound)
		return
	}

	resultCh := make(chan simpleResult, 1)
	task := &worker.Task{
		Run: func(ctx context.Context) {
			if result := s.deps.Launcher.Stop(ctx, p.AppName); result != platform.OK {
				s.deps.Launcher.ForceShutdown(ctx, p.AppName)
			}
			if !s.deps.Cache.WaitForState(p.AppName, state.Stopped, s.deps.Config.StateWaitTimeout) {
				resultCh <- simpleResult{status: http.StatusInternalServerError}
				return
			}
			s.deps.Instances.Delete(p.AppName)
			resultCh <- simpleResult{status: http.StatusOK}
		},
		Done: func() {},
	}

	if !s.deps.Pool.Push(task) {
		writeError(w, http.StatusForbidden)
		return
	}

	res := <-resultCh
	if res.status == http.StatusOK {
		setCORSHeader(w, admittedOrigin)
		w.WriteHeader(http.StatusOK)
		return
	}
	writeError(w, res.status)
}

func (s *Server) handleGetApp(w http.ResponseWriter, r *http.Request, p pathparser.Path, reg *registry.Registration, admittedOrigin string) {
	st, ok := s.deps.Cache.Get(p.AppName)
	appState := state.Stopped
	if ok {
		appState = st.State
	}

	inst, _ := s.deps.Instances.Get(p.AppName)

	var options map[string]string
	if reg.DisplayName != "" {
		options = map[string]string{"friendlyName": reg.DisplayName}
	}

	var additionalData string
	if inst != nil && len(inst.AuxData) > 0 {
		additionalData = encodeFormValues(inst.AuxData)
	}

	writeXML(w, http.StatusOK, admittedOrigin, xmlresp.Service{
		AppName:        p.AppName,
		State:          appState,
		RunLinkHref:    "run",
		Options:        options,
		AdditionalData: additionalData,
	})
}

func (s *Server) handleSetData(w http.ResponseWriter, r *http.Request, p pathparser.Path, reg *registry.Registration, admittedOrigin string) {
	// dial_data enforces its own loopback check independent of Origin
	// admission (spec.md §4.3); a failure here is preserved as 500, not
	// 403, matching the source's documented (if surprising) behavior —
	// see SPEC_FULL.md §5.
	if !origin.IsLoopback(r.RemoteAddr) {
		writeError(w, http.StatusInternalServerError)
		return
	}

	cfg := s.deps.Config

	body, err := io.ReadAll(io.LimitReader(r.Body, int64(cfg.MaxDialDataBytes)+1))
	if err != nil {
		writeError(w, http.StatusInternalServerError)
		return
	}
	if len(body) >= cfg.MaxDialDataBytes {
		writeError(w, http.StatusRequestEntityTooLarge)
		return
	}
	if !isASCIIPrintable(body) {
		writeError(w, http.StatusBadRequest)
		return
	}

	if len(body) == 0 {
		s.deps.Instances.SetAuxData(p.AppName, nil)
		setCORSHeader(w, admittedOrigin)
		w.WriteHeader(http.StatusOK)
		return
	}

	values, err := url.ParseQuery(string(body))
	if err != nil {
		writeError(w, http.StatusBadRequest)
		return
	}

	data := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			data[k] = v[0]
		}
	}

	s.deps.Instances.SetAuxData(p.AppName, data)
	setCORSHeader(w, admittedOrigin)
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleSystem(w http.ResponseWriter, r *http.Request) {
	query := make(map[string]string)
	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			query[k] = v[0]
		}
	}

	if s.deps.Launcher.System(r.Context(), query) == platform.OK {
		w.WriteHeader(http.StatusOK)
		return
	}
	writeError(w, http.StatusInternalServerError)
}

func isASCIIPrintable(body []byte) bool {
	for _, b := range body {
		if b < 0x20 || b > 0x7e {
			if b == '\t' || b == '\n' || b == '\r' {
				continue
			}
			return false
		}
	}
	return true
}

func hostOnly(host string) string {
	h, _, err := net.SplitHostPort(host)
	if err != nil {
		return host
	}
	return h
}

func encodeFormValues(values map[string]string) string {
	v := url.Values{}
	for k, val := range values {
		v.Set(k, val)
	}
	return v.Encode()
}
