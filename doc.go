// Package notifykit is a client-side SDK for a notification service.
//
// It sends notifications through a request/response API and receives them in
// real time over a long-lived server-push stream, exposing both through a
// small event-subscription surface.
//
// The SDK is assembled from three parts:
//
//   - pkg/notifications: the stateless request/response API client
//     (send, list, unread count, mark read)
//   - pkg/stream: the real-time connection manager with automatic,
//     bounded reconnection
//   - pkg/events: the synchronous event bus decoupling stream and API
//     outcomes from application callbacks
//
// Basic Usage:
//
//	client, err := notifykit.New(notifykit.Config{
//	    BaseURL:              "https://api.example.com",
//	    AppToken:             "app_xxx",
//	    ProfileToken:         "prof_yyy",
//	    UserID:               "user-1",
//	    ReconnectDelay:       3 * time.Second,
//	    MaxReconnectAttempts: 5,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	client.On(events.EventNotification, func(payload any) {
//	    notif := payload.(notifications.Notification)
//	    fmt.Println("new notification:", notif.Title)
//	})
//
//	if err := client.ConnectStream(ctx, ""); err != nil {
//	    log.Fatal(err)
//	}
//	defer client.DisconnectStream()
//
// Configuration can also come from the environment through LoadConfig,
// which reads NOTIFYKIT_* variables and the local .env file.
package notifykit
