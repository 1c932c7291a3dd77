package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/sebas/dialserver/internal/dial/events"
	"github.com/sebas/dialserver/internal/dial/origin"
	"github.com/sebas/dialserver/internal/dial/pathparser"
)

// Server is one of the two DIAL HTTP listeners: the public server
// (every row in spec.md §4.4) or the local, loopback-only server
// (dial_data alone; every other shape answers 501).
type Server struct {
	deps      Deps
	localOnly bool

	httpServer *http.Server
	listener   net.Listener
	port       int
}

// NewServer builds the Server and its request mux. Grounded on the
// teacher's api.NewServer, which also builds its mux once in the
// constructor and dispatches to one handleX method per resource.
func NewServer(bindAddr string, port int, deps Deps, localOnly bool) *Server {
	s := &Server{deps: deps, localOnly: localOnly}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.route)

	s.httpServer = &http.Server{
		Addr:    net.JoinHostPort(bindAddr, strconv.Itoa(port)),
		Handler: mux,
	}
	return s
}

// Start binds the listener (capturing the OS-assigned port when Port
// was 0) and begins serving in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	s.listener = ln
	if tcpAddr, ok := ln.Addr().(*net.TCPAddr); ok {
		s.port = tcpAddr.Port
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			slog.Error("dial server exited", "addr", s.httpServer.Addr, "error", err)
		}
	}()
	return nil
}

// Port returns the bound listening port, valid after Start.
func (s *Server) Port() int { return s.port }

func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// route implements spec.md §4.4's pre-dispatch checks and then hands
// off to the per-shape handler.
func (s *Server) route(w http.ResponseWriter, r *http.Request) {
	// A non-IPv4 peer maps to 501, not 403: gdial-rest.c's equivalent
	// g_socket_address_get_family(...) == G_SOCKET_FAMILY_IPV4 check
	// rejects with SOUP_STATUS_NOT_IMPLEMENTED.
	if !isIPv4Remote(r.RemoteAddr) {
		writeError(w, http.StatusNotImplemented)
		return
	}

	p, err := pathparser.Parse(r.URL.Path)
	if err != nil {
		writeError(w, http.StatusNotImplemented)
		return
	}

	if s.localOnly && !p.IsDialData() {
		writeError(w, http.StatusNotImplemented)
		return
	}

	// dial_data is served only by the local server (spec.md §3 invariant 4).
	if !s.localOnly && p.IsDialData() {
		writeError(w, http.StatusNotImplemented)
		return
	}

	if r.Host == "" {
		writeError(w, http.StatusForbidden)
		return
	}

	if p.AppName == "system" {
		if p.IsApp() {
			s.handleSystemRow(w, r)
			return
		}
		if p.IsInstance() && r.Method == http.MethodDelete {
			writeError(w, http.StatusForbidden)
			return
		}
	}

	reg, ok := s.deps.Registry.Lookup(p.AppName)
	if !ok {
		s.deps.Publisher.Publish(r.Context(), events.InvalidURI, "no such app: "+p.AppName)
		writeError(w, http.StatusNotFound)
		return
	}

	// Origin admission is checked once, for every shape and method alike
	// (including OPTIONS), before any row handler runs — gdial-rest.c
	// rejects here with SOUP_STATUS_FORBIDDEN ahead of its element_num
	// dispatch, and the per-shape origin re-checks further down in the
	// source are redundant with this one. A disallowed Origin never
	// reaches a handler; rawOrigin passed on is therefore always either
	// empty or already admitted, and handlers echo it verbatim in
	// Access-Control-Allow-Origin (spec.md §4.4, §7).
	rawOrigin := r.Header.Get("Origin")
	if !origin.Admit(rawOrigin, reg.AllowedOrigins) {
		writeError(w, http.StatusForbidden)
		return
	}

	switch {
	case p.IsApp():
		s.handleAppRow(w, r, p, reg, rawOrigin)
	case p.IsInstance():
		s.handleInstanceRow(w, r, p, reg, rawOrigin)
	case p.IsHide():
		s.handleHideRow(w, r, p, reg, rawOrigin)
	case p.IsDialData():
		s.handleDialDataRow(w, r, p, reg, rawOrigin)
	default:
		writeError(w, http.StatusNotImplemented)
	}
}

func isIPv4Remote(remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	return ip.To4() != nil
}

func writeOptions(w http.ResponseWriter, allow string, admittedOrigin string) {
	w.Header().Set("Allow", allow)
	w.Header().Set("Access-Control-Max-Age", "86400")
	setCORSHeader(w, admittedOrigin)
	w.WriteHeader(http.StatusNoContent)
}
