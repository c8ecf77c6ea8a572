// Package events provides in-process domain event dispatch. Subscribers are
// registered at startup; events are published after the enclosing save has
// committed, so side effects never run for writes that failed.
package events

import (
	"context"

	"github.com/akarpov/incident-desk/internal/domain"
	"github.com/akarpov/incident-desk/internal/pkg/ctxlog"
	"github.com/akarpov/incident-desk/internal/pkg/metrics"
)

// Subscriber handles a single domain event. A returned error is logged and
// swallowed; the write that produced the event has already committed.
type Subscriber interface {
	Handle(ctx context.Context, event domain.Event) error
}

// SubscriberFunc adapts a function to the Subscriber interface.
type SubscriberFunc func(ctx context.Context, event domain.Event) error

// Handle implements Subscriber.
func (f SubscriberFunc) Handle(ctx context.Context, event domain.Event) error {
	return f(ctx, event)
}

// Dispatcher routes domain events to subscribers registered per event kind.
// Delivery is best-effort fan-out in registration order: a failing or
// panicking subscriber does not stop delivery to the remaining ones and never
// surfaces to the caller.
type Dispatcher struct {
	subscribers map[domain.EventKind][]Subscriber
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		subscribers: make(map[domain.EventKind][]Subscriber),
	}
}

// Register adds a subscriber for an event kind. Registration order is
// delivery order. Not safe for concurrent use; call during startup wiring.
func (d *Dispatcher) Register(kind domain.EventKind, sub Subscriber) {
	d.subscribers[kind] = append(d.subscribers[kind], sub)
}

// Dispatch delivers each event to every subscriber registered for its kind.
func (d *Dispatcher) Dispatch(ctx context.Context, events []domain.Event) {
	for _, event := range events {
		for _, sub := range d.subscribers[event.Kind()] {
			d.deliver(ctx, sub, event)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, sub Subscriber, event domain.Event) {
	defer func() {
		if r := recover(); r != nil {
			metrics.EventsDispatched.WithLabelValues(string(event.Kind()), "panic").Inc()
			ctxlog.FromContext(ctx).Error("event subscriber panicked",
				"kind", event.Kind(),
				"panic", r,
			)
		}
	}()

	if err := sub.Handle(ctx, event); err != nil {
		metrics.EventsDispatched.WithLabelValues(string(event.Kind()), "error").Inc()
		ctxlog.FromContext(ctx).Error("event subscriber failed",
			"kind", event.Kind(),
			"error", err,
		)
		return
	}

	metrics.EventsDispatched.WithLabelValues(string(event.Kind()), "ok").Inc()
}
