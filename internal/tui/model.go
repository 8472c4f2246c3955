// Package tui implements the virtualized outline viewer. Only the rows
// intersecting the viewport are ever rendered; the row index answers
// which ones those are.
package tui

import (
	"slices"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog"

	"github.com/hay-kot/treeline/internal/core/config"
	"github.com/hay-kot/treeline/internal/core/eventbus"
	"github.com/hay-kot/treeline/internal/core/logging"
	"github.com/hay-kot/treeline/internal/core/outline"
	"github.com/hay-kot/treeline/internal/core/rowmap"
	"github.com/hay-kot/treeline/internal/core/styles"
)

// chromeLines is the vertical space taken by the title and status bars.
const chromeLines = 2

// Deps carries everything the viewer needs from the command layer.
type Deps struct {
	Config *config.Config
	Doc    *outline.Document
	Bus    *eventbus.EventBus
	Path   string
}

// Model is the main Bubble Tea model for the viewer.
type Model struct {
	cfg  *config.Config
	doc  *outline.Document
	bus  *eventbus.EventBus
	path string

	index *rowmap.Map
	cache *renderCache
	keys  KeyMap
	log   zerolog.Logger

	markdown *glamour.TermRenderer

	width    int
	height   int
	scrollY  int
	selected int
	quitting bool
}

// New constructs the viewer model. The row index is populated from the
// document's initial visible nodes.
func New(deps Deps) Model {
	cache := newRenderCache()
	m := Model{
		cfg:      deps.Config,
		doc:      deps.Doc,
		bus:      deps.Bus,
		path:     deps.Path,
		index:    rowmap.New(cache),
		cache:    cache,
		keys:     NewKeyMap(deps.Config),
		log:      logging.Component("tui"),
		markdown: newMarkdownRenderer(deps.Config.Render.Width),
	}

	m.doc.ExpandToDepth(deps.Config.Outline.ExpandDepth)
	if _, err := m.index.Insert(slices.Values(m.visibleItems()), ""); err != nil {
		// Unreachable for an empty anchor; log and continue with an
		// empty index rather than failing the TUI.
		m.log.Error().Err(err).Msg("populate row index")
	}

	return m
}

func newMarkdownRenderer(width int) *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	return r
}

// measure reports a node's current row height: one line for the title,
// plus the rendered body when it is shown.
func (m *Model) measure(n *outline.Node) int {
	h := 1
	if bodyShown(n) {
		h += len(m.bodyLines(n))
	}
	return h
}

// bodyShown reports whether the node's markdown body is currently
// part of its row. Leaves use the expanded flag to toggle their body.
func bodyShown(n *outline.Node) bool {
	return n.Expanded && n.Body != ""
}

func (m *Model) visibleItems() []rowmap.Item {
	return outline.Items(m.doc.Visible(), m.measure)
}

func (m *Model) items(nodes ...*outline.Node) []rowmap.Item {
	return outline.Items(nodes, m.measure)
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.bus != nil {
		m.bus.PublishTuiStarted(eventbus.TUIStartedPayload{})
		m.bus.PublishDocumentLoaded(eventbus.DocumentLoadedPayload{
			Path:  m.path,
			Title: m.doc.Title,
			Nodes: m.doc.Len(),
		})
	}
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	// Body wrap width follows the terminal but never exceeds the
	// configured maximum.
	width := min(m.cfg.Render.Width, max(20, msg.Width-4))
	m.markdown = newMarkdownRenderer(width)
	m.cache.clear()

	// Every shown body may have re-wrapped; re-measure all rows.
	m.index.RefreshSet(m.visibleItems())
	m.clampScroll()
	m.ensureSelectedVisible()
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveSelection(1)
	case key.Matches(msg, m.keys.PageUp):
		m.page(-1)
	case key.Matches(msg, m.keys.PageDown):
		m.page(1)
	case key.Matches(msg, m.keys.Top):
		m.selected = 0
		m.scrollY = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selected = m.index.Len() - 1
		m.scrollY = m.maxScroll()
	case key.Matches(msg, m.keys.Toggle):
		m.toggleSelected()
	case key.Matches(msg, m.keys.ExpandAll):
		m.rebuildExpanded(m.maxDepth())
	case key.Matches(msg, m.keys.CollapseAll):
		m.rebuildExpanded(0)
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.bus != nil {
		m.bus.PublishTuiStopped(eventbus.TUIStoppedPayload{})
	}
	m.quitting = true
	return m, tea.Quit
}

func (m *Model) contentHeight() int {
	return max(1, m.height-chromeLines)
}

func (m *Model) maxScroll() int {
	return max(0, m.index.TotalExtent()-m.contentHeight())
}

func (m *Model) clampScroll() {
	m.scrollY = max(0, min(m.scrollY, m.maxScroll()))
	m.selected = max(0, min(m.selected, m.index.Len()-1))
}

func (m *Model) moveSelection(delta int) {
	if m.index.Len() == 0 {
		return
	}
	m.selected = max(0, min(m.selected+delta, m.index.Len()-1))
	m.ensureSelectedVisible()
}

func (m *Model) page(direction int) {
	m.scrollY += direction * m.contentHeight()
	m.clampScroll()
	// Selection follows the viewport.
	if slot := m.index.IndexAt(m.scrollY); slot < m.index.Len() {
		m.selected = slot
	}
}

// ensureSelectedVisible scrolls the minimum amount needed to bring the
// selected row into view.
func (m *Model) ensureSelectedVisible() {
	row, ok := m.index.RowAt(m.selected)
	if !ok {
		return
	}
	switch {
	case row.Offset < m.scrollY:
		m.scrollY = row.Offset
	case row.Bottom() > m.scrollY+m.contentHeight():
		m.scrollY = row.Bottom() - m.contentHeight()
		// Tall rows pin to their top edge.
		if m.scrollY > row.Offset {
			m.scrollY = row.Offset
		}
	}
	m.clampScroll()
}

// toggleSelected expands or collapses the selected node. Branch nodes
// splice their visible run in or out of the index; leaves with a body
// just change their own height.
func (m *Model) toggleSelected() {
	id, ok := m.index.IDAt(m.selected)
	if !ok {
		return
	}
	node, ok := m.doc.Node(id)
	if !ok {
		m.log.Error().Str("id", id).Msg("selected row has no model node")
		return
	}

	switch {
	case node.HasChildren() && node.Expanded:
		run := node.VisibleRun()
		ids := make([]string, len(run))
		for i, n := range run {
			ids[i] = n.ID
		}
		node.Expanded = false
		if err := m.index.Remove(ids); err != nil {
			m.log.Error().Err(err).Str("id", id).Msg("collapse node")
			return
		}
		if m.bus != nil {
			m.bus.PublishNodeCollapsed(eventbus.NodeCollapsedPayload{
				ID: node.ID, Title: node.Title, RowsRemoved: len(ids),
			})
		}
	case node.HasChildren():
		node.Expanded = true
		inserted, err := m.index.Insert(slices.Values(m.items(node.VisibleRun()...)), node.ID)
		if err != nil {
			m.log.Error().Err(err).Str("id", id).Msg("expand node")
			return
		}
		if m.bus != nil {
			m.bus.PublishNodeExpanded(eventbus.NodeExpandedPayload{
				ID: node.ID, Title: node.Title, RowsInserted: inserted,
			})
		}
	case node.Body != "":
		node.Expanded = !node.Expanded
	default:
		return
	}

	// The toggled node's own height may have changed (its body follows
	// the expanded flag).
	m.index.RefreshSet(m.items(node))
	m.publishRowsChanged()
	m.clampScroll()
	m.ensureSelectedVisible()
}

// rebuildExpanded resets the whole document to the given depth and
// rebuilds the index through its own remove/insert operations.
func (m *Model) rebuildExpanded(depth int) {
	selectedID, _ := m.index.IDAt(m.selected)

	var ids []string
	for slot := 0; slot < m.index.Len(); slot++ {
		id, _ := m.index.IDAt(slot)
		ids = append(ids, id)
	}
	if err := m.index.Remove(ids); err != nil {
		m.log.Error().Err(err).Msg("rebuild: clear index")
		return
	}

	m.doc.ExpandToDepth(depth)
	if _, err := m.index.Insert(slices.Values(m.visibleItems()), ""); err != nil {
		m.log.Error().Err(err).Msg("rebuild: repopulate index")
		return
	}

	// Keep the selection on the same node when it is still visible.
	m.selected = 0
	if slot, ok := m.index.Slot(selectedID); ok {
		m.selected = slot
	}
	m.publishRowsChanged()
	m.clampScroll()
	m.ensureSelectedVisible()
}

func (m *Model) maxDepth() int {
	depth := 0
	var walk func(nodes []*outline.Node, d int)
	walk = func(nodes []*outline.Node, d int) {
		for _, n := range nodes {
			if d > depth {
				depth = d
			}
			walk(n.Children, d+1)
		}
	}
	walk(m.doc.Nodes, 1)
	return depth
}

func (m *Model) publishRowsChanged() {
	if m.bus == nil {
		return
	}
	m.bus.PublishRowsChanged(eventbus.RowsChangedPayload{
		Rows:   m.index.Len(),
		Extent: m.index.TotalExtent(),
	})
}
