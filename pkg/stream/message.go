package stream

import (
	"encoding/json"

	"github.com/tidwall/gjson"

	"github.com/dmitrymomot/notifykit/pkg/events"
	"github.com/dmitrymomot/notifykit/pkg/notifications"
)

// Wire discriminants for stream messages.
const (
	messageTypeNotification = "notification"
	messageTypeUnreadCount  = "unread_count"
	messageTypeConnected    = "connected"
)

// classifyMessage translates a raw stream payload into the event to publish
// and its payload. It returns ok=false for payloads that must be discarded:
// unparseable data, unknown discriminants, or a recognized discriminant with
// a malformed body. Discarding never affects connection state.
func classifyMessage(data []byte) (events.Event, any, bool) {
	if !gjson.ValidBytes(data) {
		return "", nil, false
	}

	switch gjson.GetBytes(data, "type").String() {
	case messageTypeNotification:
		var notif notifications.Notification
		if err := json.Unmarshal(data, &notif); err != nil {
			return "", nil, false
		}
		return events.EventNotification, notif, true

	case messageTypeUnreadCount:
		count := gjson.GetBytes(data, "count")
		if !count.Exists() {
			return "", nil, false
		}
		return events.EventUnreadCount, int(count.Int()), true

	case messageTypeConnected:
		// Session-confirmation fields pass through verbatim.
		var payload map[string]any
		if err := json.Unmarshal(data, &payload); err != nil {
			return "", nil, false
		}
		return events.EventConnected, payload, true
	}

	return "", nil, false
}
