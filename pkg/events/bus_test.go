package events_test

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/events"
)

func TestSubscribe(t *testing.T) {
	t.Parallel()

	t.Run("handlers invoked in registration order", func(t *testing.T) {
		t.Parallel()

		bus := events.NewBus()
		var order []int
		bus.Subscribe(events.EventNotification, func(any) { order = append(order, 1) })
		bus.Subscribe(events.EventNotification, func(any) { order = append(order, 2) })
		bus.Subscribe(events.EventNotification, func(any) { order = append(order, 3) })

		bus.Publish(events.EventNotification, nil)

		assert.Equal(t, []int{1, 2, 3}, order)
	})

	t.Run("duplicate handler invoked once per registration", func(t *testing.T) {
		t.Parallel()

		bus := events.NewBus()
		calls := 0
		handler := func(any) { calls++ }
		bus.Subscribe(events.EventConnected, handler)
		bus.Subscribe(events.EventConnected, handler)

		bus.Publish(events.EventConnected, nil)

		assert.Equal(t, 2, calls)
	})

	t.Run("nil handler is ignored", func(t *testing.T) {
		t.Parallel()

		bus := events.NewBus()
		sub := bus.Subscribe(events.EventError, nil)
		require.NotNil(t, sub)
		assert.Equal(t, 0, bus.SubscriberCount(events.EventError))

		bus.Publish(events.EventError, nil)
		bus.Unsubscribe(sub)
	})
}

func TestUnsubscribe(t *testing.T) {
	t.Parallel()

	t.Run("removes only the identified registration", func(t *testing.T) {
		t.Parallel()

		bus := events.NewBus()
		calls := 0
		handler := func(any) { calls++ }
		first := bus.Subscribe(events.EventNotification, handler)
		bus.Subscribe(events.EventNotification, handler)

		bus.Unsubscribe(first)
		bus.Publish(events.EventNotification, nil)

		assert.Equal(t, 1, calls)
	})

	t.Run("unknown subscription is a no-op", func(t *testing.T) {
		t.Parallel()

		bus := events.NewBus()
		sub := bus.Subscribe(events.EventUnreadCount, func(any) {})
		bus.Unsubscribe(sub)
		bus.Unsubscribe(sub) // already removed
		bus.Unsubscribe(nil)

		assert.Equal(t, 0, bus.SubscriberCount(events.EventUnreadCount))
	})
}

func TestPublish(t *testing.T) {
	t.Parallel()

	t.Run("payload delivered to subscribers", func(t *testing.T) {
		t.Parallel()

		bus := events.NewBus()
		var got any
		bus.Subscribe(events.EventUnreadCount, func(payload any) { got = payload })

		bus.Publish(events.EventUnreadCount, 5)

		assert.Equal(t, 5, got)
	})

	t.Run("no subscribers is a no-op", func(t *testing.T) {
		t.Parallel()

		bus := events.NewBus()
		assert.NotPanics(t, func() {
			bus.Publish(events.EventDisconnected, "manual")
		})
	})

	t.Run("no cross-talk between events", func(t *testing.T) {
		t.Parallel()

		bus := events.NewBus()
		notifications := 0
		errors := 0
		bus.Subscribe(events.EventNotification, func(any) { notifications++ })
		bus.Subscribe(events.EventError, func(any) { errors++ })

		bus.Publish(events.EventNotification, nil)

		assert.Equal(t, 1, notifications)
		assert.Equal(t, 0, errors)
	})

	t.Run("panicking handler does not stop later handlers", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := slog.New(slog.NewTextHandler(&buf, nil))
		bus := events.NewBus(events.WithLogger(log))

		laterRan := false
		bus.Subscribe(events.EventNotification, func(any) { panic("boom") })
		bus.Subscribe(events.EventNotification, func(any) { laterRan = true })

		assert.NotPanics(t, func() {
			bus.Publish(events.EventNotification, nil)
		})
		assert.True(t, laterRan)
		assert.Contains(t, buf.String(), "boom")
	})

	t.Run("unsubscribe during publish does not affect snapshot", func(t *testing.T) {
		t.Parallel()

		bus := events.NewBus()
		var order []string

		var second *events.Subscription
		bus.Subscribe(events.EventNotification, func(any) {
			order = append(order, "first")
			bus.Unsubscribe(second)
		})
		second = bus.Subscribe(events.EventNotification, func(any) {
			order = append(order, "second")
		})

		// The first publish still runs both: the snapshot was taken before
		// the first handler removed the second registration.
		bus.Publish(events.EventNotification, nil)
		assert.Equal(t, []string{"first", "second"}, order)

		// The removal takes effect on the next publish.
		order = nil
		bus.Publish(events.EventNotification, nil)
		assert.Equal(t, []string{"first"}, order)
	})

	t.Run("subscribe during publish takes effect next publish", func(t *testing.T) {
		t.Parallel()

		bus := events.NewBus()
		lateCalls := 0
		bus.Subscribe(events.EventConnected, func(any) {
			if lateCalls == 0 {
				bus.Subscribe(events.EventConnected, func(any) { lateCalls++ })
			}
		})

		bus.Publish(events.EventConnected, nil)
		assert.Equal(t, 0, lateCalls)

		bus.Publish(events.EventConnected, nil)
		assert.Equal(t, 1, lateCalls)
	})

	t.Run("concurrent publish and subscribe", func(t *testing.T) {
		t.Parallel()

		bus := events.NewBus()
		var mu sync.Mutex
		total := 0
		bus.Subscribe(events.EventNotification, func(any) {
			mu.Lock()
			total++
			mu.Unlock()
		})

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				bus.Publish(events.EventNotification, nil)
			}()
			go func() {
				defer wg.Done()
				sub := bus.Subscribe(events.EventNotification, func(any) {})
				bus.Unsubscribe(sub)
			}()
		}
		wg.Wait()

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, 10, total)
	})
}
