package eventbus_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/treeline/internal/core/eventbus"
	"github.com/hay-kot/treeline/internal/core/eventbus/testbus"
)

func TestEventBus_PublishSubscribe(t *testing.T) {
	bus := testbus.New(t)

	bus.PublishNodeExpanded(eventbus.NodeExpandedPayload{
		ID:           "n1",
		Title:        "Q1",
		RowsInserted: 3,
	})

	bus.AssertPublished(t, eventbus.EventNodeExpanded)

	events := bus.Events()
	require.NotEmpty(t, events)
	payload, ok := events[0].Payload.(eventbus.NodeExpandedPayload)
	require.True(t, ok)
	assert.Equal(t, "n1", payload.ID)
	assert.Equal(t, 3, payload.RowsInserted)
}

func TestEventBus_TypedSubscribersOnlyReceiveTheirEvent(t *testing.T) {
	bus := testbus.New(t)

	var collapsed atomic.Int32
	bus.SubscribeNodeCollapsed(func(eventbus.NodeCollapsedPayload) {
		collapsed.Add(1)
	})

	bus.PublishNodeExpanded(eventbus.NodeExpandedPayload{ID: "n1"})
	bus.AssertPublished(t, eventbus.EventNodeExpanded)
	bus.AssertNotPublished(t, eventbus.EventNodeCollapsed, 50*time.Millisecond)

	assert.Zero(t, collapsed.Load())
}

func TestEventBus_DropsWhenBufferFull(t *testing.T) {
	// No Start loop: the single-slot buffer fills immediately.
	bus := eventbus.New(1)

	var dropped atomic.Int32
	bus.OnDrop(func(eventbus.Event, any) {
		dropped.Add(1)
	})

	bus.PublishRowsChanged(eventbus.RowsChangedPayload{Rows: 1})
	bus.PublishRowsChanged(eventbus.RowsChangedPayload{Rows: 2})

	assert.Equal(t, int32(1), dropped.Load())
}

func TestEventBus_PanicInSubscriberIsRecovered(t *testing.T) {
	bus := testbus.New(t)

	var (
		mu        sync.Mutex
		panicked  []eventbus.Event
		panicOnce = make(chan struct{})
	)
	bus.OnPanic(func(event eventbus.Event, _ any, _ any) {
		mu.Lock()
		panicked = append(panicked, event)
		mu.Unlock()
		close(panicOnce)
	})
	bus.SubscribeTuiStarted(func(eventbus.TUIStartedPayload) {
		panic("boom")
	})

	bus.PublishTuiStarted(eventbus.TUIStartedPayload{})

	select {
	case <-panicOnce:
	case <-time.After(time.Second):
		t.Fatal("panic hook never fired")
	}

	// The recorder subscriber still ran despite the panicking one.
	bus.AssertPublished(t, eventbus.EventTuiStarted)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []eventbus.Event{eventbus.EventTuiStarted}, panicked)
}

func TestEventBus_OnPublishHook(t *testing.T) {
	bus := testbus.New(t)

	var published atomic.Int32
	bus.OnPublish(func(eventbus.Event, any) {
		published.Add(1)
	})

	bus.PublishDocumentLoaded(eventbus.DocumentLoadedPayload{Path: "a.yaml"})
	bus.PublishTuiStopped(eventbus.TUIStoppedPayload{})

	bus.AssertPublished(t, eventbus.EventTuiStopped)
	assert.Equal(t, int32(2), published.Load())
}
