// Package eventbus provides a typed publish/subscribe event bus for
// cross-component communication within treeline.
package eventbus

import (
	"context"
	"sync"
)

// Event identifies an event type on the bus.
type Event string

// All event types.
const (
	EventDocumentLoaded Event = "document.loaded"
	EventNodeExpanded   Event = "node.expanded"
	EventNodeCollapsed  Event = "node.collapsed"
	EventRowsChanged    Event = "rows.changed"
	EventTuiStarted     Event = "tui.started"
	EventTuiStopped     Event = "tui.stopped"
)

type envelope struct {
	event   Event
	payload any
}

// EventBus dispatches typed events to subscribers on a single
// background goroutine. Publishing never blocks: when the buffer is
// full the event is dropped (and the OnDrop hooks fire).
type EventBus struct {
	ch    chan envelope
	hooks hooks

	mu   sync.RWMutex
	subs map[Event][]func(any)
}

// New creates a bus with the given buffer size.
func New(buffer int) *EventBus {
	return &EventBus{
		ch:   make(chan envelope, buffer),
		subs: make(map[Event][]func(any)),
	}
}

// Start runs the dispatch loop until ctx is canceled. Subscriber
// panics are recovered and reported via the OnPanic hooks.
func (bus *EventBus) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case env := <-bus.ch:
			bus.dispatch(env)
		}
	}
}

func (bus *EventBus) dispatch(env envelope) {
	bus.mu.RLock()
	subs := make([]func(any), len(bus.subs[env.event]))
	copy(subs, bus.subs[env.event])
	bus.mu.RUnlock()

	for _, fn := range subs {
		bus.invoke(env, fn)
	}
}

func (bus *EventBus) invoke(env envelope, fn func(any)) {
	defer func() {
		if recovered := recover(); recovered != nil {
			bus.runOnPanic(env.event, env.payload, recovered)
		}
	}()
	fn(env.payload)
}

func (bus *EventBus) subscribe(event Event, fn func(any)) {
	bus.mu.Lock()
	bus.subs[event] = append(bus.subs[event], fn)
	bus.mu.Unlock()
	bus.runOnSubscribe(event)
}
