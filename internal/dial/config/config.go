// Package config loads DIAL server configuration from flags and
// environment variables, following the teacher's config.Load() shape
// (flags first, environment overrides second, validated fallback third).
package config

import (
	"flag"
	"os"
	"strconv"
	"time"
)

// Config holds the DIAL server's runtime configuration.
type Config struct {
	// PublicBindAddr is where the public (non-loopback) HTTP server
	// listens; Port 0 means "let the OS choose" (spec.md §6).
	PublicBindAddr string
	PublicPort     int

	// LocalBindAddr defaults to loopback; only dial_data is served here
	// (spec.md §3 invariant 4, §6).
	LocalBindAddr string
	LocalPort     int

	LogLevel string

	// WorkerConcurrency is how many mutating operations the WorkerPool
	// runs at once. The source default is 1 (spec.md §4.5); this is
	// kept configurable for operators who want more throughput at the
	// cost of per-app FIFO-only ordering guarantees.
	WorkerConcurrency int64

	// MaxPayloadBytes bounds a LAUNCH request body (spec.md §6).
	MaxPayloadBytes int
	// MaxDialDataBytes bounds a SET_DATA request body (spec.md §6).
	MaxDialDataBytes int

	// StateWaitTimeout is applied to LAUNCH/HIDE/STOP waits on
	// AppStateCache (spec.md §4.5: 35000ms in source).
	StateWaitTimeout time.Duration

	// MergeURLAndBodyQuery is the configuration slot for the
	// GDIAL_MERGE_URL_AND_BODY_QUERY flag (spec.md §9), default off. No
	// code reads it: a launch always passes the URL query string verbatim
	// and the body payload separately to the platform launcher, whatever
	// its value, and no merging of the two is done.
	MergeURLAndBodyQuery bool

	// YouTubeUnencodedPayload keeps the documented legacy YouTube
	// payload-encoding exemption behind a named, retireable flag
	// (spec.md §9).
	YouTubeUnencodedPayload bool
}

// Load parses flags, then applies environment variable overrides.
func Load() *Config {
	cfg := &Config{
		MaxPayloadBytes:         4096,
		MaxDialDataBytes:        4096,
		StateWaitTimeout:        35 * time.Second,
		WorkerConcurrency:       1,
		YouTubeUnencodedPayload: true,
	}

	flag.StringVar(&cfg.PublicBindAddr, "bind", "0.0.0.0", "public server bind address")
	flag.IntVar(&cfg.PublicPort, "port", 8080, "public server port")
	flag.StringVar(&cfg.LocalBindAddr, "local-bind", "127.0.0.1", "local (dial_data) server bind address")
	flag.IntVar(&cfg.LocalPort, "local-port", 8081, "local (dial_data) server port")
	flag.StringVar(&cfg.LogLevel, "loglevel", "info", "log level (debug, info, warn, error)")
	flag.Int64Var(&cfg.WorkerConcurrency, "worker-concurrency", cfg.WorkerConcurrency, "concurrent state-changing operations")
	flag.IntVar(&cfg.MaxPayloadBytes, "max-payload", cfg.MaxPayloadBytes, "maximum LAUNCH request body size")
	flag.IntVar(&cfg.MaxDialDataBytes, "max-dial-data", cfg.MaxDialDataBytes, "maximum dial_data request body size")
	flag.BoolVar(&cfg.MergeURLAndBodyQuery, "merge-url-body-query", false, "merge URL and body query parameters (accepted but has no effect)")
	flag.BoolVar(&cfg.YouTubeUnencodedPayload, "youtube-unencoded-payload", cfg.YouTubeUnencodedPayload, "keep the legacy unencoded-payload exemption for YouTube")

	flag.Parse()

	if v := os.Getenv("DIAL_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.PublicPort = p
		}
	}
	if v := os.Getenv("DIAL_LOCAL_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.LocalPort = p
		}
	}
	if v := os.Getenv("DIAL_BIND"); v != "" {
		cfg.PublicBindAddr = v
	}
	if v := os.Getenv("DIAL_LOGLEVEL"); v != "" {
		cfg.LogLevel = v
	}

	return cfg
}
