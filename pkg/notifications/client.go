package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/notifykit/pkg/logger"
)

// Client issues request/response calls against the notification API.
// Zero value is not usable; use NewClient to create instances.
type Client struct {
	baseURL      string
	appToken     string
	profileToken string
	// httpClient is reused across requests for connection pooling
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAppToken sets the send credential.
func WithAppToken(token string) ClientOption {
	return func(c *Client) { c.appToken = token }
}

// WithProfileToken sets the receive credential.
func WithProfileToken(token string) ClientOption {
	return func(c *Client) { c.profileToken = token }
}

// WithHTTPClient replaces the default HTTP client.
// Nil clients are ignored to keep the default pooled client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithClientLogger sets the logger for the Client.
func WithClientLogger(log *slog.Logger) ClientOption {
	return func(c *Client) {
		if log != nil {
			c.logger = log
		}
	}
}

// NewClient creates an API client for the given endpoint root.
// Connection pooling is configured for moderate request volume; timeouts
// balance responsiveness with allowing slow endpoints.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Send creates a notification for the request's user.
// Requires the app token; fails before any network call when it is missing.
func (c *Client) Send(ctx context.Context, req SendRequest) (*Notification, error) {
	if c.appToken == "" {
		return nil, ErrMissingAppToken
	}
	if req.UserID == "" {
		return nil, ErrMissingUserID
	}

	var notif Notification
	if err := c.do(ctx, http.MethodPost, "/notifications/", c.appToken, req, &notif); err != nil {
		return nil, err
	}

	c.logger.LogAttrs(ctx, slog.LevelDebug, "Notification sent",
		logger.NotificationID(notif.ID),
		logger.UserID(req.UserID),
	)

	return &notif, nil
}

// List returns the user's notifications, newest first, applying the filter
// and pagination options.
func (c *Client) List(ctx context.Context, userID string, opts ListOptions) ([]Notification, error) {
	token, err := c.readToken()
	if err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, ErrMissingUserID
	}

	query := url.Values{}
	if opts.OnlyUnread {
		query.Set("unread_only", "true")
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		query.Set("offset", strconv.Itoa(opts.Offset))
	}

	path := fmt.Sprintf("/notifications/%s/", url.PathEscape(userID))
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var result struct {
		Notifications []Notification `json:"notifications"`
	}
	if err := c.do(ctx, http.MethodGet, path, token, nil, &result); err != nil {
		return nil, err
	}
	return result.Notifications, nil
}

// UnreadCount returns the number of unread notifications for the user.
func (c *Client) UnreadCount(ctx context.Context, userID string) (int, error) {
	token, err := c.readToken()
	if err != nil {
		return 0, err
	}
	if userID == "" {
		return 0, ErrMissingUserID
	}

	var result struct {
		Count int `json:"count"`
	}
	path := fmt.Sprintf("/notifications/%s/unread-count/", url.PathEscape(userID))
	if err := c.do(ctx, http.MethodGet, path, token, nil, &result); err != nil {
		return 0, err
	}
	return result.Count, nil
}

// MarkRead marks the identified notifications as read for the user.
func (c *Client) MarkRead(ctx context.Context, userID string, notifIDs ...string) error {
	token, err := c.readToken()
	if err != nil {
		return err
	}
	if userID == "" {
		return ErrMissingUserID
	}
	if len(notifIDs) == 0 {
		return nil
	}

	body := struct {
		IDs []string `json:"ids"`
	}{IDs: notifIDs}

	path := fmt.Sprintf("/notifications/%s/read/", url.PathEscape(userID))
	return c.do(ctx, http.MethodPost, path, token, body, nil)
}

// MarkAllRead marks every notification as read for the user.
func (c *Client) MarkAllRead(ctx context.Context, userID string) error {
	token, err := c.readToken()
	if err != nil {
		return err
	}
	if userID == "" {
		return ErrMissingUserID
	}

	path := fmt.Sprintf("/notifications/%s/read-all/", url.PathEscape(userID))
	return c.do(ctx, http.MethodPost, path, token, nil, nil)
}

// readToken resolves the credential for read operations: the profile token
// when configured, the app token otherwise.
func (c *Client) readToken() (string, error) {
	if c.profileToken != "" {
		return c.profileToken, nil
	}
	if c.appToken != "" {
		return c.appToken, nil
	}
	return "", ErrMissingCredential
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	if c.baseURL == "" {
		return ErrMissingBaseURL
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("notifications: marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("notifications: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notifications: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.remoteError(resp)
	}

	if out == nil {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("notifications: decode response: %w", err)
	}
	return nil
}

// remoteError builds a RemoteError from a non-success response, picking up
// the server-supplied message when the body carries one.
func (c *Client) remoteError(resp *http.Response) error {
	re := &RemoteError{StatusCode: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err == nil && len(data) > 0 {
		var body struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &body) == nil {
			if body.Error != "" {
				re.Message = body.Error
			} else {
				re.Message = body.Message
			}
		}
	}

	return re
}
