package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/hay-kot/treeline/internal/core/outline"
	"github.com/hay-kot/treeline/internal/core/rowmap"
	"github.com/hay-kot/treeline/internal/core/styles"
)

// View implements tea.Model. Only rows intersecting the viewport are
// rendered; each row contributes exactly its extent in lines so the
// output stays aligned with the index's coordinate space.
func (m Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}

	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

func (m Model) render() string {
	if m.width == 0 || m.height == 0 {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")
	b.WriteString(m.contentView())
	b.WriteString("\n")
	b.WriteString(m.statusView())
	return b.String()
}

func (m Model) headerView() string {
	title := styles.DocTitleStyle.Render(m.doc.Title)
	return clipLine(title, m.width)
}

// contentView renders the viewport window. Rows partially above the
// window are clipped from the top; the window is padded to the full
// content height so the status bar stays pinned.
func (m Model) contentView() string {
	contentH := m.contentHeight()
	top := m.scrollY
	bottom := top + contentH - 1

	lines := make([]string, 0, contentH)
	m.index.EachInRange(top, bottom, func(row rowmap.Row) bool {
		rowLines := m.rowLines(row)
		for i, line := range rowLines {
			pos := row.Offset + i
			if pos < top {
				continue
			}
			if pos > bottom {
				return false
			}
			lines = append(lines, clipLine(line, m.width))
		}
		return true
	})

	for len(lines) < contentH {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// rowLines produces exactly row.Extent lines for the row: the title
// line followed by the rendered body when shown. Rendered bodies are
// trimmed or padded so the visual height always matches the measured
// extent.
func (m Model) rowLines(row rowmap.Row) []string {
	node, ok := m.doc.Node(row.ID)
	if !ok {
		return padLines(nil, row.Extent)
	}

	selected := false
	if slot, found := m.index.Slot(row.ID); found {
		selected = slot == m.selected
	}

	lines := []string{m.titleLine(node, selected)}
	if bodyShown(node) {
		lines = append(lines, m.bodyLines(node)...)
	}
	return padLines(lines, row.Extent)
}

func (m Model) titleLine(n *outline.Node, selected bool) string {
	glyph := styles.GlyphLeaf
	switch {
	case n.HasChildren() && n.Expanded:
		glyph = styles.GlyphExpanded
	case n.HasChildren():
		glyph = styles.GlyphCollapsed
	case n.Body != "":
		if n.Expanded {
			glyph = styles.GlyphExpanded
		} else {
			glyph = styles.GlyphCollapsed
		}
	}

	indent := strings.Repeat("  ", n.Depth())
	title := n.Title

	style := styles.NodeTitleStyle
	switch {
	case selected:
		style = styles.NodeSelectedStyle
	case n.HasChildren() && !n.Expanded:
		style = styles.NodeCollapsedStyle
	case n.HasChildren():
		style = styles.NodeBranchStyle
	}

	return indent + glyph + " " + style.Render(title)
}

// bodyLines renders the node's markdown body, caching the result by
// node identity. The cache is evicted through the row observer.
func (m Model) bodyLines(n *outline.Node) []string {
	rendered, ok := m.cache.get(n.ID)
	if !ok {
		rendered = m.renderBody(n)
		m.cache.put(n.ID, rendered)
	}
	if rendered == "" {
		return nil
	}
	return strings.Split(rendered, "\n")
}

func (m Model) renderBody(n *outline.Node) string {
	indent := strings.Repeat("  ", n.Depth()+1)

	if m.markdown == nil {
		return indentBlock(styles.BodyStyle.Render(n.Body), indent)
	}
	out, err := m.markdown.Render(n.Body)
	if err != nil {
		m.log.Error().Err(err).Str("id", n.ID).Msg("render body")
		return indentBlock(styles.BodyStyle.Render(n.Body), indent)
	}
	return indentBlock(strings.Trim(out, "\n"), indent)
}

func (m Model) statusView() string {
	total := m.index.TotalExtent()
	pos := "top"
	switch {
	case total <= m.contentHeight():
		pos = "all"
	case m.scrollY >= m.maxScroll():
		pos = "bot"
	case m.scrollY > 0:
		pos = fmt.Sprintf("%d%%", m.scrollY*100/m.maxScroll())
	}

	left := styles.StatusInfoStyle.Render(
		fmt.Sprintf(" %d/%d rows ", m.selected+1, m.index.Len()),
	)
	keys := styles.StatusKeyStyle.Render(
		m.keys.Toggle.Help().Key + " toggle " +
			m.keys.ExpandAll.Help().Key + " expand " +
			m.keys.CollapseAll.Help().Key + " collapse " +
			m.keys.Quit.Help().Key + " quit",
	)
	right := styles.ScrollPosStyle.Render(" " + pos + " ")

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(keys) - lipgloss.Width(right)
	if gap < 1 {
		return clipLine(styles.StatusBarStyle.Render(left+" "+right), m.width)
	}
	return styles.StatusBarStyle.Render(left + keys + strings.Repeat(" ", gap) + right)
}

func indentBlock(s, indent string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = indent + line
	}
	return strings.Join(lines, "\n")
}

func padLines(lines []string, extent int) []string {
	if len(lines) > extent {
		return lines[:extent]
	}
	for len(lines) < extent {
		lines = append(lines, "")
	}
	return lines
}

func clipLine(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(s)
}
