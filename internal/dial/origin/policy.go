// Package origin implements CORS admission for DIAL requests: per-app
// suffix matching against the Origin header, and the loopback-only rule
// for dial_data posts (spec.md §4.3).
package origin

import (
	"net"
	"net/url"
	"strings"
)

// Admit decides whether a request Origin header is allowed for an app
// whose registration lists allowedOrigins suffixes.
//
//   - missing/empty Origin -> allow (non-browser client)
//   - Origin parses with scheme http/https/file -> allow iff some
//     allowedOrigins entry is a suffix of the raw Origin string
//   - Origin parses with any other scheme -> allow (opaque non-web
//     context, spec.md §4.3)
func Admit(rawOrigin string, allowedOrigins []string) bool {
	if rawOrigin == "" {
		return true
	}

	u, err := url.Parse(rawOrigin)
	if err != nil {
		// Unparseable origin: treated the same as an opaque
		// non-web context per spec.md §4.3's "otherwise allow" rule.
		return true
	}

	switch u.Scheme {
	case "http", "https", "file":
		for _, suffix := range allowedOrigins {
			if suffix != "" && strings.HasSuffix(rawOrigin, suffix) {
				return true
			}
		}
		return false
	default:
		return true
	}
}

// IsLoopback reports whether remoteAddr (a "host:port" or bare host, as
// returned by http.Request.RemoteAddr) is an IPv4 loopback address. This
// is the separate rule dial_data enforces regardless of Origin admission
// (spec.md §4.3, invariant 4): the local server only ever accepts
// dial_data, but the handler still re-checks the peer address is
// loopback in case the local listener's binding is ever misconfigured.
func IsLoopback(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}

	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	ip4 := ip.To4()
	return ip4 != nil && ip4.IsLoopback()
}
