package stream_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/stream"
)

func collectCallbacks() (stream.Callbacks, chan struct{}, chan []byte, chan error) {
	opened := make(chan struct{}, 1)
	messages := make(chan []byte, 16)
	failures := make(chan error, 1)
	return stream.Callbacks{
		OnOpen:    func() { opened <- struct{}{} },
		OnMessage: func(data []byte) { messages <- data },
		OnError:   func(err error) { failures <- err },
	}, opened, messages, failures
}

func waitSignal[T any](t *testing.T, ch chan T, what string) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
		panic("unreachable")
	}
}

func TestSSETransport(t *testing.T) {
	t.Parallel()

	t.Run("delivers open and data lines, skips heartbeats", func(t *testing.T) {
		t.Parallel()

		done := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "text/event-stream", r.Header.Get("Accept"))

			flusher, ok := w.(http.Flusher)
			require.True(t, ok)
			w.Header().Set("Content-Type", "text/event-stream")
			w.WriteHeader(http.StatusOK)
			flusher.Flush()

			fmt.Fprint(w, ": heartbeat\n\n")
			fmt.Fprint(w, "data: {\"type\":\"unread_count\",\"count\":1}\n\n")
			fmt.Fprint(w, "data:{\"type\":\"connected\"}\n\n")
			flusher.Flush()

			<-r.Context().Done()
			close(done)
		}))
		defer srv.Close()

		cb, opened, messages, _ := collectCallbacks()
		transport := stream.NewSSETransport()
		handle, err := transport.Open(context.Background(), srv.URL, cb)
		require.NoError(t, err)
		defer handle.Close()

		waitSignal(t, opened, "open signal")
		assert.JSONEq(t, `{"type":"unread_count","count":1}`, string(waitSignal(t, messages, "first message")))
		assert.JSONEq(t, `{"type":"connected"}`, string(waitSignal(t, messages, "second message")))

		require.NoError(t, handle.Close())
		waitSignal(t, done, "server request cancellation")
	})

	t.Run("non-success handshake surfaces as error", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusUnauthorized)
		}))
		defer srv.Close()

		cb, opened, _, failures := collectCallbacks()
		transport := stream.NewSSETransport()
		handle, err := transport.Open(context.Background(), srv.URL, cb)
		require.NoError(t, err)
		defer handle.Close()

		failure := waitSignal(t, failures, "handshake error")
		var handshake *stream.HandshakeError
		require.ErrorAs(t, failure, &handshake)
		assert.Equal(t, http.StatusUnauthorized, handshake.StatusCode)
		assert.Empty(t, opened)
	})

	t.Run("server closing the stream surfaces as error", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			flusher := w.(http.Flusher)
			w.Header().Set("Content-Type", "text/event-stream")
			w.WriteHeader(http.StatusOK)
			flusher.Flush()
			// Handler returns: the connection is closed by the server.
		}))
		defer srv.Close()

		cb, opened, _, failures := collectCallbacks()
		transport := stream.NewSSETransport()
		handle, err := transport.Open(context.Background(), srv.URL, cb)
		require.NoError(t, err)
		defer handle.Close()

		waitSignal(t, opened, "open signal")
		require.Error(t, waitSignal(t, failures, "close error"))
	})

	t.Run("close ceases all further signals", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			flusher := w.(http.Flusher)
			w.Header().Set("Content-Type", "text/event-stream")
			w.WriteHeader(http.StatusOK)
			flusher.Flush()

			fmt.Fprint(w, "data: {\"type\":\"connected\"}\n\n")
			flusher.Flush()

			<-release
			fmt.Fprint(w, "data: {\"type\":\"unread_count\",\"count\":9}\n\n")
			flusher.Flush()
		}))
		defer srv.Close()

		cb, opened, messages, failures := collectCallbacks()
		transport := stream.NewSSETransport()
		handle, err := transport.Open(context.Background(), srv.URL, cb)
		require.NoError(t, err)

		waitSignal(t, opened, "open signal")
		waitSignal(t, messages, "first message")

		require.NoError(t, handle.Close())
		close(release)

		select {
		case data := <-messages:
			t.Fatalf("received message after close: %s", data)
		case err := <-failures:
			t.Fatalf("received error after close: %v", err)
		case <-time.After(100 * time.Millisecond):
		}
	})

	t.Run("invalid url fails synchronously", func(t *testing.T) {
		t.Parallel()

		transport := stream.NewSSETransport()
		_, err := transport.Open(context.Background(), "http://host\x7f/", stream.Callbacks{
			OnError: func(error) {},
		})
		require.Error(t, err)
		assert.False(t, errors.Is(err, context.Canceled))
	})
}
