// Package events re-expresses the source implementation's signal
// emissions (spec.md §9 "Object model, inheritance, signals") as a small
// observer registration: components publish through a Publisher
// interface instead of a global signal bus. Adapted from the teacher's
// events package (Publisher/NoopPublisher/LoggingPublisher/
// ChannelPublisher), renamed to this domain's three event kinds instead
// of call-lifecycle events.
package events

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind identifies one of the three events this core emits (spec.md §6).
type Kind string

const (
	// InvalidURI fires whenever the router rejects a request because
	// the resolved app name is not registered (spec.md §4.4, §8
	// property 4).
	InvalidURI Kind = "invalid-uri"

	// RestEnable reports the public HTTP handler's on/off state; the only
	// emission is "off", published by app.Server.Run when it stops serving.
	RestEnable Kind = "rest-enable"

	// GMainLoopQuit is test-build-only per spec.md §6 and must never be
	// emitted from a production code path.
	GMainLoopQuit Kind = "gmainloop-quit"
)

// Event is one emitted occurrence.
type Event struct {
	ID      string
	Kind    Kind
	Message string
	Time    time.Time
}

// Publisher is the interface every component that emits events depends
// on. Implementations may discard, log, or fan out to subscribers.
type Publisher interface {
	Publish(ctx context.Context, kind Kind, message string)
}

// NoopPublisher discards every event.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher { return &NoopPublisher{} }

func (*NoopPublisher) Publish(context.Context, Kind, string) {}

// LoggingPublisher logs events through the process logger. This is the
// default used in production — spec.md's "surrounding process" consumes
// these events by reading the log, since no broader pub/sub requirement
// is specified.
type LoggingPublisher struct {
	logger *slog.Logger
}

func NewLoggingPublisher(logger *slog.Logger) *LoggingPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingPublisher{logger: logger}
}

func (p *LoggingPublisher) Publish(_ context.Context, kind Kind, message string) {
	p.logger.Info("event", "kind", string(kind), "message", message, "event_id", uuid.New().String())
}

// ChannelPublisher fans events out over an in-memory channel, for tests
// and for any in-process subscriber (e.g. an admin/diagnostics surface).
// Events are dropped, with a counted metric, if the channel is full —
// mirrors the teacher's ChannelPublisher backpressure policy.
type ChannelPublisher struct {
	mu      sync.Mutex
	ch      chan Event
	dropped int64
}

func NewChannelPublisher(bufferSize int) *ChannelPublisher {
	if bufferSize <= 0 {
		bufferSize = 64
	}
	return &ChannelPublisher{ch: make(chan Event, bufferSize)}
}

func (p *ChannelPublisher) Publish(_ context.Context, kind Kind, message string) {
	ev := Event{ID: uuid.New().String(), Kind: kind, Message: message, Time: time.Now()}
	select {
	case p.ch <- ev:
	default:
		p.mu.Lock()
		p.dropped++
		p.mu.Unlock()
	}
}

// Events returns the channel subscribers read from.
func (p *ChannelPublisher) Events() <-chan Event {
	return p.ch
}

// Dropped returns how many events were discarded due to a full buffer.
func (p *ChannelPublisher) Dropped() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dropped
}
