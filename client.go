package notifykit

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/notifykit/pkg/events"
	"github.com/dmitrymomot/notifykit/pkg/logger"
	"github.com/dmitrymomot/notifykit/pkg/notifications"
	"github.com/dmitrymomot/notifykit/pkg/stream"
)

// Client is the SDK entry point tying together the API client, the stream
// manager and the event bus. Use New to create instances.
type Client struct {
	cfg     Config
	logger  *slog.Logger
	bus     *events.Bus
	api     *notifications.Client
	manager *stream.Manager
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	logger     *slog.Logger
	transport  stream.Transport
	httpClient *http.Client
}

// WithLogger replaces the logger built from the Debug flag.
func WithLogger(log *slog.Logger) Option {
	return func(o *clientOptions) {
		if log != nil {
			o.logger = log
		}
	}
}

// WithStreamTransport replaces the SSE transport; intended for tests.
func WithStreamTransport(t stream.Transport) Option {
	return func(o *clientOptions) {
		if t != nil {
			o.transport = t
		}
	}
}

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		if client != nil {
			o.httpClient = client
		}
	}
}

// New validates the configuration and assembles the SDK.
func New(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := &clientOptions{}
	for _, opt := range opts {
		opt(options)
	}

	log := options.logger
	if log == nil {
		log = logger.New(
			logger.WithDebug(cfg.Debug),
			logger.WithAttr(logger.Component("notifykit")),
		)
	}

	bus := events.NewBus(events.WithLogger(log))

	apiOpts := []notifications.ClientOption{
		notifications.WithAppToken(cfg.AppToken),
		notifications.WithProfileToken(cfg.ProfileToken),
		notifications.WithClientLogger(log),
	}
	if options.httpClient != nil {
		apiOpts = append(apiOpts, notifications.WithHTTPClient(options.httpClient))
	}
	api := notifications.NewClient(cfg.BaseURL, apiOpts...)

	transport := options.transport
	if transport == nil {
		transport = stream.NewSSETransport(stream.WithTransportLogger(log))
	}

	manager := stream.NewManager(stream.Config{
		Endpoint:             cfg.BaseURL,
		Token:                cfg.ProfileToken,
		UserID:               cfg.UserID,
		ReconnectDelay:       cfg.ReconnectDelay,
		MaxReconnectAttempts: cfg.MaxReconnectAttempts,
	}, transport, bus, stream.WithLogger(log))

	return &Client{
		cfg:     cfg,
		logger:  log,
		bus:     bus,
		api:     api,
		manager: manager,
	}, nil
}

// On subscribes the handler to an event and returns the handle removing it.
func (c *Client) On(event events.Event, handler events.Handler) *events.Subscription {
	return c.bus.Subscribe(event, handler)
}

// Off removes a previously registered handler.
func (c *Client) Off(sub *events.Subscription) {
	c.bus.Unsubscribe(sub)
}

// ConnectStream opens the real-time stream for the user. An empty userID
// falls back to the configured default. A connection already open is cleanly
// replaced.
func (c *Client) ConnectStream(ctx context.Context, userID string) error {
	return c.manager.Connect(ctx, userID)
}

// DisconnectStream closes the real-time stream and cancels any pending
// reconnect.
func (c *Client) DisconnectStream() {
	c.manager.Disconnect()
}

// Status returns a point-in-time read of the stream connection.
func (c *Client) Status() stream.Status {
	return c.manager.Status()
}

// Send creates a notification through the request/response API.
func (c *Client) Send(ctx context.Context, req notifications.SendRequest) (*notifications.Notification, error) {
	if req.UserID == "" {
		req.UserID = c.cfg.UserID
	}
	return c.api.Send(ctx, req)
}

// List returns the user's notifications. An empty userID falls back to the
// configured default.
func (c *Client) List(ctx context.Context, userID string, opts notifications.ListOptions) ([]notifications.Notification, error) {
	return c.api.List(ctx, c.resolveUser(userID), opts)
}

// UnreadCount returns the user's unread notification count.
func (c *Client) UnreadCount(ctx context.Context, userID string) (int, error) {
	return c.api.UnreadCount(ctx, c.resolveUser(userID))
}

// MarkRead marks the identified notifications as read.
func (c *Client) MarkRead(ctx context.Context, userID string, notifIDs ...string) error {
	return c.api.MarkRead(ctx, c.resolveUser(userID), notifIDs...)
}

// MarkAllRead marks every notification as read for the user.
func (c *Client) MarkAllRead(ctx context.Context, userID string) error {
	return c.api.MarkAllRead(ctx, c.resolveUser(userID))
}

// Events returns the underlying event bus.
func (c *Client) Events() *events.Bus {
	return c.bus
}

// Notifications returns the underlying API client.
func (c *Client) Notifications() *notifications.Client {
	return c.api
}

// Stream returns the underlying stream manager.
func (c *Client) Stream() *stream.Manager {
	return c.manager
}

func (c *Client) resolveUser(userID string) string {
	if userID != "" {
		return userID
	}
	return c.cfg.UserID
}
