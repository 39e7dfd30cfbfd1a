// Package events provides a small synchronous publish/subscribe bus that
// decouples producers of SDK events from application callbacks.
//
// The bus maps a fixed set of event names to ordered handler lists.
// Publishing is synchronous: every handler registered for an event at the
// moment Publish is called runs in registration order before Publish returns.
// A handler that panics is recovered and logged without affecting the
// remaining handlers or the publisher.
//
// Handlers are removable by identity. Because Go functions are not
// comparable, Subscribe returns a *Subscription handle that carries the
// identity; the same function may be registered any number of times and each
// registration is invoked once per publish.
//
// The subscriber list is snapshotted before iteration, so a handler may
// subscribe or unsubscribe (itself included) without corrupting the
// in-flight publish.
//
// # Usage
//
//	bus := events.NewBus()
//	sub := bus.Subscribe(events.EventNotification, func(payload any) {
//	    fmt.Println("got notification:", payload)
//	})
//	defer bus.Unsubscribe(sub)
//
//	bus.Publish(events.EventNotification, notif)
package events
