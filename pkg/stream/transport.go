package stream

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dmitrymomot/notifykit/pkg/logger"
)

// Callbacks receive the three signals a transport connection produces.
// OnOpen fires once when the connection is established, OnMessage once per
// server-pushed payload, OnError once when the connection is lost.
type Callbacks struct {
	OnOpen    func()
	OnMessage func(data []byte)
	OnError   func(err error)
}

// Handle is an open transport connection. Close ceases all further signals
// from this handle and is safe to call multiple times.
type Handle interface {
	Close() error
}

// Transport opens persistent receive-only connections. The production
// implementation is SSETransport; tests supply fakes.
type Transport interface {
	// Open starts a connection to the URL and wires the callbacks.
	// Connection establishment is asynchronous: failures after Open returns
	// are delivered through OnError. The returned error covers only request
	// construction.
	Open(ctx context.Context, url string, cb Callbacks) (Handle, error)
}

// SSETransport implements Transport over HTTP server-sent events.
type SSETransport struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// SSETransportOption configures an SSETransport.
type SSETransportOption func(*SSETransport)

// WithTransportHTTPClient replaces the default HTTP client.
// The client must not set an overall timeout: the stream is long-lived.
func WithTransportHTTPClient(client *http.Client) SSETransportOption {
	return func(t *SSETransport) {
		if client != nil {
			t.httpClient = client
		}
	}
}

// WithTransportLogger sets the logger for the SSETransport.
func WithTransportLogger(log *slog.Logger) SSETransportOption {
	return func(t *SSETransport) {
		if log != nil {
			t.logger = log
		}
	}
}

// NewSSETransport creates the production SSE transport.
// No overall client timeout is set because the response body streams for the
// lifetime of the connection; dial and TLS handshakes are still bounded.
func NewSSETransport(opts ...SSETransportOption) *SSETransport {
	t := &SSETransport{
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:          10,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: 30 * time.Second,
			},
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

func (t *SSETransport) Open(ctx context.Context, streamURL string, cb Callbacks) (Handle, error) {
	reqCtx, cancel := context.WithCancel(ctx)

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, streamURL, nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("stream: create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	h := &sseHandle{cancel: cancel}
	go t.run(h, req, cb)

	return h, nil
}

func (t *SSETransport) run(h *sseHandle, req *http.Request, cb Callbacks) {
	resp, err := t.httpClient.Do(req)
	if err != nil {
		h.signalError(cb, fmt.Errorf("stream: connect: %w", err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		h.signalError(cb, &HandshakeError{StatusCode: resp.StatusCode})
		return
	}

	h.signalOpen(cb)

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64<<10), 1<<20)

	for scanner.Scan() {
		line := scanner.Text()

		// Blank lines separate SSE events; comment lines carry heartbeats.
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}

		data, ok := strings.CutPrefix(line, "data:")
		if !ok {
			t.logger.Debug("Ignoring unrecognized stream line", logger.Component("sse"))
			continue
		}
		h.signalMessage(cb, []byte(strings.TrimPrefix(data, " ")))
	}

	if err := scanner.Err(); err != nil {
		h.signalError(cb, fmt.Errorf("stream: read: %w", err))
		return
	}
	h.signalError(cb, fmt.Errorf("stream: connection closed by server"))
}

// sseHandle guards callback delivery so that Close ceases all further
// signals even while the read goroutine is still winding down.
type sseHandle struct {
	cancel context.CancelFunc
	mu     sync.Mutex
	closed bool
}

func (h *sseHandle) Close() error {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()
	h.cancel()
	return nil
}

func (h *sseHandle) active() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return !h.closed
}

func (h *sseHandle) signalOpen(cb Callbacks) {
	if h.active() && cb.OnOpen != nil {
		cb.OnOpen()
	}
}

func (h *sseHandle) signalMessage(cb Callbacks, data []byte) {
	if h.active() && cb.OnMessage != nil {
		cb.OnMessage(data)
	}
}

func (h *sseHandle) signalError(cb Callbacks, err error) {
	if h.active() && cb.OnError != nil {
		cb.OnError(err)
	}
}
