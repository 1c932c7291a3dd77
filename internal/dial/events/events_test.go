package events

import (
	"context"
	"testing"
)

func TestNoopPublisherDiscardsSilently(t *testing.T) {
	p := NewNoopPublisher()
	p.Publish(context.Background(), InvalidURI, "no such app: Hulu")
}

func TestChannelPublisherDeliversEvent(t *testing.T) {
	p := NewChannelPublisher(1)
	p.Publish(context.Background(), InvalidURI, "no such app: Hulu")

	select {
	case ev := <-p.Events():
		if ev.Kind != InvalidURI {
			t.Fatalf("expected InvalidURI, got %v", ev.Kind)
		}
		if ev.ID == "" {
			t.Fatal("expected a non-empty event id")
		}
	default:
		t.Fatal("expected an event on the channel")
	}
}

func TestChannelPublisherDropsWhenFull(t *testing.T) {
	p := NewChannelPublisher(1)
	p.Publish(context.Background(), InvalidURI, "first")
	p.Publish(context.Background(), InvalidURI, "second")

	if p.Dropped() != 1 {
		t.Fatalf("expected 1 dropped event, got %d", p.Dropped())
	}
}
