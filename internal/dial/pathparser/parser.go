// Package pathparser decomposes and strictly validates DIAL request
// paths per the grammar in spec.md §4.1.
package pathparser

import (
	"errors"
	"strings"
)

// MaxPathLength is the implementation cap on total request path length
// (spec.md §4.1, §6).
const MaxPathLength = 256

// ErrNotImplemented is returned for any path that does not parse to a
// recognized DIAL shape; callers map this to HTTP 501.
var ErrNotImplemented = errors.New("path does not match a recognized DIAL shape")

// Path is the decomposed, canonical form of a DIAL request path.
type Path struct {
	Base     string // always "apps"
	AppName  string
	Instance string // "", an instance id, "dial_data", or "run"
	Tail     string // "", or "hide"
}

// Parse splits and strictly validates a DIAL request path.
//
// Algorithm (spec.md §4.1): split on '/', discard empty segments, take
// the first four non-empty segments as base/appName/instance/tail,
// reconstruct the canonical path from those segments, and reject
// (ErrNotImplemented, -> HTTP 501) unless the canonical reconstruction
// equals the input minus its leading '/'. This single equality check is
// what rejects embedded empty segments ("//"), trailing slashes, and
// paths deeper than four segments — it is deliberately stricter than
// "skip empty segments and keep going" would be; see SPEC_FULL.md §5 for
// why consecutive slashes are rejected rather than collapsed.
func Parse(requestPath string) (Path, error) {
	if len(requestPath) >= MaxPathLength {
		return Path{}, ErrNotImplemented
	}

	trimmed := strings.TrimPrefix(requestPath, "/")

	var segments []string
	for _, seg := range strings.Split(requestPath, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}

	if len(segments) < 2 || len(segments) > 4 {
		return Path{}, ErrNotImplemented
	}

	p := Path{Base: segments[0], AppName: segments[1]}
	if len(segments) >= 3 {
		p.Instance = segments[2]
	}
	if len(segments) == 4 {
		p.Tail = segments[3]
	}

	if p.Base != "apps" || p.AppName == "" {
		return Path{}, ErrNotImplemented
	}

	if p.canonical() != trimmed {
		return Path{}, ErrNotImplemented
	}

	return p, nil
}

func (p Path) canonical() string {
	parts := []string{p.Base, p.AppName}
	if p.Instance != "" {
		parts = append(parts, p.Instance)
	}
	if p.Tail != "" {
		parts = append(parts, p.Tail)
	}
	return strings.Join(parts, "/")
}

// IsDialData reports whether this path addresses the local-only
// auxiliary-data endpoint: /apps/<name>/dial_data.
func (p Path) IsDialData() bool {
	return p.Instance == "dial_data" && p.Tail == ""
}

// IsHide reports whether this path addresses .../<instance>/hide.
func (p Path) IsHide() bool {
	return p.Instance != "" && p.Tail == "hide"
}

// IsApp reports whether this path is the bare /apps/<name> shape.
func (p Path) IsApp() bool {
	return p.Instance == "" && p.Tail == ""
}

// IsInstance reports whether this path is /apps/<name>/<instance> with
// no trailing segment and the instance is not the dial_data sentinel.
func (p Path) IsInstance() bool {
	return p.Instance != "" && p.Tail == "" && p.Instance != "dial_data"
}
