package events

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/notifykit/pkg/logger"
)

// Event names the channels application code can subscribe to.
type Event string

const (
	// EventNotification carries a notification pushed over the stream.
	EventNotification Event = "notification"
	// EventConnected fires when the stream connection opens, and when the
	// server confirms the session with a connected message.
	EventConnected Event = "connected"
	// EventDisconnected fires when the stream connection is lost or closed.
	EventDisconnected Event = "disconnected"
	// EventError carries transport-level failures.
	EventError Event = "error"
	// EventUnreadCount carries the unread counter pushed by the server.
	EventUnreadCount Event = "unreadCount"
)

// Handler receives the payload published for an event.
type Handler func(payload any)

// Subscription identifies a single handler registration.
// It is the token required to unsubscribe that registration.
type Subscription struct {
	id    string
	event Event
}

// Event returns the event this subscription is registered for.
func (s *Subscription) Event() Event {
	return s.event
}

type registration struct {
	id      string
	handler Handler
}

// Bus is a synchronous publish/subscribe registry.
// All methods are safe for concurrent use.
type Bus struct {
	mu       sync.Mutex
	handlers map[Event][]registration
	logger   *slog.Logger
}

// Option configures a Bus.
type Option func(*Bus)

// WithLogger sets the logger used to report recovered handler panics.
func WithLogger(log *slog.Logger) Option {
	return func(b *Bus) {
		if log != nil {
			b.logger = log
		}
	}
}

// NewBus creates an empty event bus.
func NewBus(opts ...Option) *Bus {
	b := &Bus{
		handlers: make(map[Event][]registration),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe appends the handler to the event's ordered list and returns the
// handle removing it. Duplicate handlers are allowed; each registration is
// invoked once per publish.
func (b *Bus) Subscribe(event Event, handler Handler) *Subscription {
	if handler == nil {
		return &Subscription{event: event}
	}

	sub := &Subscription{
		id:    uuid.New().String(),
		event: event,
	}

	b.mu.Lock()
	b.handlers[event] = append(b.handlers[event], registration{id: sub.id, handler: handler})
	b.mu.Unlock()

	return sub
}

// Unsubscribe removes the registration identified by the subscription.
// It is a no-op if the subscription is nil, unknown, or already removed.
func (b *Bus) Unsubscribe(sub *Subscription) {
	if sub == nil || sub.id == "" {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	regs, ok := b.handlers[sub.event]
	if !ok {
		return
	}
	for i, reg := range regs {
		if reg.id == sub.id {
			b.handlers[sub.event] = append(regs[:i:i], regs[i+1:]...)
			return
		}
	}
}

// Publish invokes every handler currently registered for the event, in
// registration order, passing the payload. The handler list is snapshotted
// under the lock and invoked outside it, so handlers may subscribe or
// unsubscribe without affecting the in-flight publish. A handler panic is
// recovered and logged; remaining handlers still run.
func (b *Bus) Publish(event Event, payload any) {
	b.mu.Lock()
	regs := b.handlers[event]
	snapshot := make([]registration, len(regs))
	copy(snapshot, regs)
	b.mu.Unlock()

	for _, reg := range snapshot {
		b.invoke(event, reg, payload)
	}
}

// SubscriberCount returns the number of registrations for an event.
func (b *Bus) SubscriberCount(event Event) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers[event])
}

func (b *Bus) invoke(event Event, reg registration, payload any) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.LogAttrs(context.Background(), slog.LevelError, "Event handler panicked",
				logger.Event(string(event)),
				slog.Any("panic", r),
			)
		}
	}()
	reg.handler(payload)
}
