// Package stream owns the real-time server-push connection: its lifecycle
// state, reconnect policy, and the translation of incoming stream messages
// into event-bus publications.
//
// # Architecture
//
// The package separates two concerns:
//
//   - Transport: an abstraction over "open a persistent server-push
//     connection to a URL" producing opened/message/errored signals.
//     SSETransport is the production implementation over HTTP server-sent
//     events; tests inject fakes.
//   - Manager: the connection state machine. It owns at most one transport
//     handle at a time, moves between Disconnected, Connecting and Connected,
//     and drives the bounded fixed-delay reconnect policy from transport
//     error signals.
//
// State changes and data surface exclusively through the events bus:
// `connected`, `disconnected`, `error`, `notification` and `unreadCount`.
// Transport failures never propagate as returned errors from Connect; they
// are published asynchronously, as the application observes the connection
// only through events and Status.
//
// A monotonically increasing connection generation invalidates scheduled
// reconnects and late callbacks from superseded connections: a manual
// Disconnect or a newer Connect bumps the generation, and every delayed
// action re-checks it before acting.
//
// # Usage
//
//	bus := events.NewBus()
//	manager := stream.NewManager(stream.Config{
//	    Endpoint:             "https://api.example.com",
//	    Token:                "prof_xxx",
//	    UserID:               "user-1",
//	    ReconnectDelay:       3 * time.Second,
//	    MaxReconnectAttempts: 5,
//	}, stream.NewSSETransport(), bus)
//
//	bus.Subscribe(events.EventNotification, func(payload any) { ... })
//	if err := manager.Connect(ctx, ""); err != nil {
//	    // configuration error: missing user id or credential
//	}
package stream
