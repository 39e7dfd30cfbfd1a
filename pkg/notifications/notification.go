package notifications

import "time"

// Priority represents the notification priority level.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// Notification is the core domain model. The SDK passes these fields through
// between the API and application code without validating or mutating them.
type Notification struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Title     string         `json:"title"`
	Body      string         `json:"body"`
	Priority  Priority       `json:"priority,omitempty"`
	Channels  []string       `json:"channels,omitempty"`
	Read      bool           `json:"read"`
	CreatedAt time.Time      `json:"created_at"`
	Data      map[string]any `json:"data,omitempty"` // Free-form metadata
}

// SendRequest describes a notification to create.
type SendRequest struct {
	UserID   string         `json:"user_id"`
	Title    string         `json:"title"`
	Body     string         `json:"body"`
	Priority Priority       `json:"priority,omitempty"`
	Channels []string       `json:"channels,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// ListOptions provides filtering and pagination for listing notifications.
type ListOptions struct {
	OnlyUnread bool // When true, only return unread notifications
	Limit      int  // Maximum number of notifications to return (0 = server default)
	Offset     int  // Number of notifications to skip for pagination
}
