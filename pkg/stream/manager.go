package stream

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrymomot/notifykit/pkg/events"
	"github.com/dmitrymomot/notifykit/pkg/logger"
)

// State represents the connection lifecycle state.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
)

// Disconnect reasons published with the disconnected event.
const (
	ReasonError  = "error"
	ReasonManual = "manual"
)

// Status is a point-in-time read of the connection.
type Status struct {
	Connected         bool
	ReconnectAttempts int
	HasHandle         bool
}

// Config carries the stream settings captured at construction.
type Config struct {
	// Endpoint is the API root the stream path is resolved against.
	Endpoint string
	// Token is the receive credential embedded in the stream URL.
	Token string
	// UserID is the default user identifier when Connect gets none.
	UserID string
	// ReconnectDelay is the fixed delay between reconnect attempts.
	ReconnectDelay time.Duration
	// MaxReconnectAttempts bounds consecutive attempts; 0 disables auto-reconnect.
	MaxReconnectAttempts int
}

// Manager owns a single logical server-push connection.
// At most one transport handle is open per Manager at any time.
// All methods are safe for concurrent use.
type Manager struct {
	cfg       Config
	transport Transport
	bus       *events.Bus
	logger    *slog.Logger

	mu         sync.Mutex
	state      State
	handle     Handle
	generation uint64
	attempts   int
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger for the Manager.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.logger = log
		}
	}
}

// NewManager creates a disconnected stream manager.
func NewManager(cfg Config, transport Transport, bus *events.Bus, opts ...Option) *Manager {
	m := &Manager{
		cfg:       cfg,
		transport: transport,
		bus:       bus,
		logger:    slog.Default(),
		state:     StateDisconnected,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Connect opens the server-push connection for the user. An empty userID
// falls back to the configured default. Missing identifier, credential or
// endpoint fail synchronously before the transport is touched.
//
// Calling Connect while a connection is open cleanly replaces it: the old
// handle is closed first and its late callbacks are ignored. Transport
// failures after this point are asynchronous and surface only through the
// error and disconnected events, never as a returned error.
func (m *Manager) Connect(ctx context.Context, userID string) error {
	uid := userID
	if uid == "" {
		uid = m.cfg.UserID
	}
	if uid == "" {
		return ErrMissingUserID
	}
	if m.cfg.Token == "" {
		return ErrMissingCredential
	}
	if m.cfg.Endpoint == "" {
		return ErrMissingEndpoint
	}

	m.mu.Lock()
	m.generation++
	gen := m.generation
	if m.handle != nil {
		_ = m.handle.Close()
		m.handle = nil
	}
	m.state = StateConnecting
	m.mu.Unlock()

	m.logger.LogAttrs(ctx, slog.LevelDebug, "Opening stream connection",
		logger.Component("stream"),
		logger.UserID(uid),
	)

	handle, err := m.transport.Open(ctx, m.streamURL(uid), Callbacks{
		OnOpen:    func() { m.handleOpen(gen, uid) },
		OnMessage: func(data []byte) { m.handleMessage(gen, data) },
		OnError:   func(err error) { m.handleError(gen, uid, err) },
	})
	if err != nil {
		// A synchronous open failure follows the same path as an
		// asynchronous transport error.
		m.handleError(gen, uid, err)
		return nil
	}

	m.mu.Lock()
	// Superseded by a newer Connect, or already failed before the handle
	// could be stored: either way this handle must not be kept.
	if gen != m.generation || m.state == StateDisconnected {
		m.mu.Unlock()
		_ = handle.Close()
		return nil
	}
	m.handle = handle
	m.mu.Unlock()

	return nil
}

// Disconnect closes the connection and prevents any scheduled reconnect from
// taking effect. It is a no-op when nothing is open or pending.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	m.generation++
	active := m.handle != nil || m.state != StateDisconnected
	if m.handle != nil {
		_ = m.handle.Close()
		m.handle = nil
	}
	m.state = StateDisconnected
	m.mu.Unlock()

	if !active {
		return
	}

	m.logger.LogAttrs(context.Background(), slog.LevelDebug, "Stream disconnected manually",
		logger.Component("stream"),
	)
	m.bus.Publish(events.EventDisconnected, ReasonManual)
}

// Status returns the current connection state. Pure read, no side effects.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Status{
		Connected:         m.state == StateConnected,
		ReconnectAttempts: m.attempts,
		HasHandle:         m.handle != nil,
	}
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manager) streamURL(uid string) string {
	return fmt.Sprintf("%s/stream/%s/?token=%s",
		strings.TrimRight(m.cfg.Endpoint, "/"),
		url.PathEscape(uid),
		url.QueryEscape(m.cfg.Token),
	)
}

func (m *Manager) handleOpen(gen uint64, uid string) {
	m.mu.Lock()
	if gen != m.generation {
		m.mu.Unlock()
		return
	}
	m.state = StateConnected
	m.attempts = 0
	m.mu.Unlock()

	m.logger.LogAttrs(context.Background(), slog.LevelDebug, "Stream connected",
		logger.Component("stream"),
		logger.UserID(uid),
	)
	m.bus.Publish(events.EventConnected, uid)
}

func (m *Manager) handleMessage(gen uint64, data []byte) {
	m.mu.Lock()
	current := gen == m.generation
	m.mu.Unlock()
	if !current {
		return
	}

	event, payload, ok := classifyMessage(data)
	if !ok {
		// Malformed or unrecognized payloads are discarded; they never
		// surface as an error event or touch connection state.
		m.logger.LogAttrs(context.Background(), slog.LevelDebug, "Discarded unparseable stream message",
			logger.Component("stream"),
		)
		return
	}

	m.bus.Publish(event, payload)
}

func (m *Manager) handleError(gen uint64, uid string, err error) {
	m.mu.Lock()
	if gen != m.generation {
		m.mu.Unlock()
		return
	}
	m.state = StateDisconnected
	if m.handle != nil {
		_ = m.handle.Close()
		m.handle = nil
	}

	scheduled := m.attempts < m.cfg.MaxReconnectAttempts
	if scheduled {
		m.attempts++
	}
	attempt := m.attempts
	m.mu.Unlock()

	m.logger.LogAttrs(context.Background(), slog.LevelWarn, "Stream connection lost",
		logger.Component("stream"),
		logger.UserID(uid),
		logger.Error(err),
	)

	m.bus.Publish(events.EventError, err)
	m.bus.Publish(events.EventDisconnected, ReasonError)

	if !scheduled {
		return
	}

	m.logger.LogAttrs(context.Background(), slog.LevelInfo, "Scheduling stream reconnect",
		logger.Component("stream"),
		logger.Attempt(attempt),
		slog.Duration("delay", m.cfg.ReconnectDelay),
	)

	// Fire-and-forget: the timer re-checks the generation so a manual
	// Disconnect or a newer Connect invalidates it before it acts.
	time.AfterFunc(m.cfg.ReconnectDelay, func() {
		m.mu.Lock()
		stale := gen != m.generation
		m.mu.Unlock()
		if stale {
			return
		}
		_ = m.Connect(context.Background(), uid)
	})
}
