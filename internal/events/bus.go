package events

import (
	"context"
	"fmt"
	"sync"
)

// Wildcard subscribes a handler to every dispatched event, after the
// event's own handlers have run.
const Wildcard = "*"

// Meta carries per-dispatch metadata. It is passed by value: handlers
// receive a fresh copy per invocation and must not treat it as shared state.
type Meta struct {
	// Event is the dispatched event name. Dispatch overwrites any
	// caller-supplied value so handlers always see a consistent name.
	Event string

	// Timestamp is the sender's timestamp header, verbatim.
	Timestamp string

	// Signature is the verified signature header, if any.
	Signature string

	// DeliveryID correlates handler logs with the originating request.
	DeliveryID string
}

// Handler processes a dispatched event payload.
type Handler func(ctx context.Context, payload any, meta Meta) error

// Bus is an in-process pub/sub registry mapping event names to ordered
// handler lists. Registration normally completes before the first dispatch;
// the lock makes late subscribes safe regardless.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[string][]Handler),
	}
}

// Subscribe registers a handler for an event name or Wildcard.
// Registration order is preserved and is the invocation order.
func (b *Bus) Subscribe(event string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[event] = append(b.handlers[event], h)
}

// Subscribers returns the number of handlers that would run for an event,
// counting wildcard subscribers.
func (b *Bus) Subscribers(event string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := len(b.handlers[event])
	if event != Wildcard {
		n += len(b.handlers[Wildcard])
	}
	return n
}

// Dispatch delivers an event to every handler registered under its exact
// name, in registration order, then to every wildcard handler. Each handler
// runs to completion before the next starts. The first handler error aborts
// the sequence and is returned to the caller.
func (b *Bus) Dispatch(ctx context.Context, event string, payload any, meta Meta) error {
	meta.Event = event

	b.mu.RLock()
	exact := b.handlers[event]
	wild := b.handlers[Wildcard]
	b.mu.RUnlock()

	for i, h := range exact {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("dispatch %q cancelled: %w", event, err)
		}
		if err := h(ctx, payload, meta); err != nil {
			return fmt.Errorf("handler %d for event %q: %w", i, event, err)
		}
	}

	if event == Wildcard {
		return nil
	}

	for i, h := range wild {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("dispatch %q cancelled: %w", event, err)
		}
		if err := h(ctx, payload, meta); err != nil {
			return fmt.Errorf("wildcard handler %d for event %q: %w", i, event, err)
		}
	}

	return nil
}
