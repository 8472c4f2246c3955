package eventbus

// DocumentLoadedPayload is emitted when an outline document is opened.
type DocumentLoadedPayload struct {
	Path  string
	Title string
	Nodes int
}

// NodeExpandedPayload is emitted when a node's children become visible.
type NodeExpandedPayload struct {
	ID           string
	Title        string
	RowsInserted int
}

// NodeCollapsedPayload is emitted when a node's children are hidden.
type NodeCollapsedPayload struct {
	ID          string
	Title       string
	RowsRemoved int
}

// RowsChangedPayload is emitted after any structural change to the row
// index, with the new totals.
type RowsChangedPayload struct {
	Rows   int
	Extent int
}

// TUIStartedPayload is emitted when the TUI starts.
type TUIStartedPayload struct{}

// TUIStoppedPayload is emitted when the TUI stops.
type TUIStoppedPayload struct{}

// PublishDocumentLoaded publishes a document.loaded event.
func (bus *EventBus) PublishDocumentLoaded(p DocumentLoadedPayload) { bus.send(EventDocumentLoaded, p) }

// SubscribeDocumentLoaded registers a handler for document.loaded events.
func (bus *EventBus) SubscribeDocumentLoaded(fn func(DocumentLoadedPayload)) {
	bus.subscribe(EventDocumentLoaded, func(p any) {
		if v, ok := p.(DocumentLoadedPayload); ok {
			fn(v)
		}
	})
}

// PublishNodeExpanded publishes a node.expanded event.
func (bus *EventBus) PublishNodeExpanded(p NodeExpandedPayload) { bus.send(EventNodeExpanded, p) }

// SubscribeNodeExpanded registers a handler for node.expanded events.
func (bus *EventBus) SubscribeNodeExpanded(fn func(NodeExpandedPayload)) {
	bus.subscribe(EventNodeExpanded, func(p any) {
		if v, ok := p.(NodeExpandedPayload); ok {
			fn(v)
		}
	})
}

// PublishNodeCollapsed publishes a node.collapsed event.
func (bus *EventBus) PublishNodeCollapsed(p NodeCollapsedPayload) { bus.send(EventNodeCollapsed, p) }

// SubscribeNodeCollapsed registers a handler for node.collapsed events.
func (bus *EventBus) SubscribeNodeCollapsed(fn func(NodeCollapsedPayload)) {
	bus.subscribe(EventNodeCollapsed, func(p any) {
		if v, ok := p.(NodeCollapsedPayload); ok {
			fn(v)
		}
	})
}

// PublishRowsChanged publishes a rows.changed event.
func (bus *EventBus) PublishRowsChanged(p RowsChangedPayload) { bus.send(EventRowsChanged, p) }

// SubscribeRowsChanged registers a handler for rows.changed events.
func (bus *EventBus) SubscribeRowsChanged(fn func(RowsChangedPayload)) {
	bus.subscribe(EventRowsChanged, func(p any) {
		if v, ok := p.(RowsChangedPayload); ok {
			fn(v)
		}
	})
}

// PublishTuiStarted publishes a tui.started event.
func (bus *EventBus) PublishTuiStarted(p TUIStartedPayload) { bus.send(EventTuiStarted, p) }

// SubscribeTuiStarted registers a handler for tui.started events.
func (bus *EventBus) SubscribeTuiStarted(fn func(TUIStartedPayload)) {
	bus.subscribe(EventTuiStarted, func(p any) {
		if v, ok := p.(TUIStartedPayload); ok {
			fn(v)
		}
	})
}

// PublishTuiStopped publishes a tui.stopped event.
func (bus *EventBus) PublishTuiStopped(p TUIStoppedPayload) { bus.send(EventTuiStopped, p) }

// SubscribeTuiStopped registers a handler for tui.stopped events.
func (bus *EventBus) SubscribeTuiStopped(fn func(TUIStoppedPayload)) {
	bus.subscribe(EventTuiStopped, func(p any) {
		if v, ok := p.(TUIStoppedPayload); ok {
			fn(v)
		}
	})
}
