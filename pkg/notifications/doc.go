// Package notifications provides the notification domain model and the
// request/response HTTP client for the notification API.
//
// The client covers the stateless operations of the API: sending a
// notification, listing a user's notifications, reading the unread counter,
// and marking notifications read. Real-time delivery is not handled here;
// see the stream package for the server-push connection.
//
// Credential rules:
//
//   - Send requires the app token (send credential).
//   - Read operations accept either the profile token (receive credential)
//     or the app token.
//
// Missing credentials and parameters fail before any network call. A
// non-success HTTP response is returned as *RemoteError carrying the status
// code and the server-supplied message.
//
// # Usage
//
//	client := notifications.NewClient("https://api.example.com",
//	    notifications.WithAppToken("app_xxx"),
//	    notifications.WithProfileToken("prof_yyy"),
//	)
//
//	notif, err := client.Send(ctx, notifications.SendRequest{
//	    UserID: "user-1",
//	    Title:  "Welcome!",
//	    Body:   "Thanks for joining",
//	})
package notifications
