package tui

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/treeline/internal/core/config"
	"github.com/hay-kot/treeline/internal/core/outline"
	"github.com/hay-kot/treeline/pkg/tuitest"
)

const sampleDoc = `
title: Planning
nodes:
  - id: q1
    title: Q1 Goals
    children:
      - id: q1-a
        title: Ship onboarding
      - id: q1-b
        title: Cut latency
  - id: q2
    title: Q2 Goals
    body: |
      Focus on retention.
  - id: q3
    title: Notes
`

func newTestModel(t *testing.T) Model {
	t.Helper()

	doc, err := outline.Parse([]byte(sampleDoc))
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	m := New(Deps{
		Config: &cfg,
		Doc:    doc,
		Path:   "planning.yaml",
	})

	return apply(t, m, tuitest.WindowSize(80, 12))
}

func apply(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

// assertContiguous checks that row offsets tile the total extent with
// no gaps or overlaps.
func assertContiguous(t *testing.T, m Model) {
	t.Helper()
	offset := 0
	for slot := 0; slot < m.index.Len(); slot++ {
		row, ok := m.index.RowAt(slot)
		require.True(t, ok)
		assert.Equal(t, offset, row.Offset, "slot %d", slot)
		offset += row.Extent
	}
	assert.Equal(t, offset, m.index.TotalExtent())
}

func TestModel_InitialIndex(t *testing.T) {
	m := newTestModel(t)

	// Default depth 1: q1 is expanded showing its two children.
	assert.Equal(t, 5, m.index.Len())
	assertContiguous(t, m)

	id, ok := m.index.IDAt(0)
	require.True(t, ok)
	assert.Equal(t, "q1", id)
}

func TestModel_ToggleCollapsesBranch(t *testing.T) {
	m := newTestModel(t)
	require.Equal(t, 5, m.index.Len())

	// q1 is selected at startup; enter collapses it.
	m = apply(t, m, tuitest.KeyEnter())
	assert.Equal(t, 3, m.index.Len())
	assertContiguous(t, m)

	_, ok := m.index.Slot("q1-a")
	assert.False(t, ok, "collapsed child should leave the index")

	// Toggling again restores the children after the anchor.
	m = apply(t, m, tuitest.KeyEnter())
	assert.Equal(t, 5, m.index.Len())
	assertContiguous(t, m)

	slot, ok := m.index.Slot("q1-a")
	require.True(t, ok)
	assert.Equal(t, 1, slot)
}

func TestModel_ToggleLeafBody(t *testing.T) {
	m := newTestModel(t)

	// Select q2, the leaf with a body.
	slot, ok := m.index.Slot("q2")
	require.True(t, ok)
	m.selected = slot

	before := m.index.TotalExtent()
	m = apply(t, m, tuitest.KeyEnter())

	assert.Equal(t, 5, m.index.Len(), "leaf toggle changes no row count")
	assert.Greater(t, m.index.TotalExtent(), before, "shown body grows the row")
	assertContiguous(t, m)

	m = apply(t, m, tuitest.KeyEnter())
	assert.Equal(t, before, m.index.TotalExtent())
	assertContiguous(t, m)
}

func TestModel_ToggleLeafWithoutBodyIsNoop(t *testing.T) {
	m := newTestModel(t)

	slot, ok := m.index.Slot("q3")
	require.True(t, ok)
	m.selected = slot

	before := m.index.TotalExtent()
	m = apply(t, m, tuitest.KeyEnter())

	assert.Equal(t, before, m.index.TotalExtent())
	assert.Equal(t, 5, m.index.Len())
}

func TestModel_Navigation(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, 0, m.selected)

	m = apply(t, m, tuitest.KeyDown())
	assert.Equal(t, 1, m.selected)

	m = apply(t, m, tuitest.KeyUp())
	assert.Equal(t, 0, m.selected)

	// Up at the top clamps.
	m = apply(t, m, tuitest.KeyUp())
	assert.Equal(t, 0, m.selected)

	m = apply(t, m, tuitest.KeyPress('G'))
	assert.Equal(t, m.index.Len()-1, m.selected)

	m = apply(t, m, tuitest.KeyPress('g'))
	assert.Equal(t, 0, m.selected)
	assert.Equal(t, 0, m.scrollY)
}

func TestModel_ExpandAndCollapseAll(t *testing.T) {
	m := newTestModel(t)

	m = apply(t, m, tuitest.KeyPress('C'))
	assert.Equal(t, 3, m.index.Len(), "collapse all leaves only roots")
	assertContiguous(t, m)

	m = apply(t, m, tuitest.KeyPress('E'))
	assert.Equal(t, 5, m.index.Len())
	assertContiguous(t, m)
}

func TestModel_CollapseAllKeepsSelectionOnVisibleAncestorOrTop(t *testing.T) {
	m := newTestModel(t)

	slot, ok := m.index.Slot("q1-b")
	require.True(t, ok)
	m.selected = slot

	m = apply(t, m, tuitest.KeyPress('C'))

	// q1-b is gone; selection falls back to the first row.
	assert.Equal(t, 0, m.selected)
}

func TestModel_ViewRendersViewportOnly(t *testing.T) {
	m := newTestModel(t)

	out := tuitest.StripANSI(m.render())
	lines := strings.Split(out, "\n")

	assert.LessOrEqual(t, len(lines), 12)
	assert.Contains(t, out, "Planning")
	assert.Contains(t, out, "Q1 Goals")
	assert.Contains(t, out, "Ship onboarding")
}

func TestModel_ViewBeforeFirstResize(t *testing.T) {
	doc, err := outline.Parse([]byte(sampleDoc))
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	m := New(Deps{Config: &cfg, Doc: doc, Path: "planning.yaml"})

	assert.Equal(t, "loading...", tuitest.StripANSI(m.render()))
}

func TestModel_ResizeRemeasuresRows(t *testing.T) {
	m := newTestModel(t)

	// Show q2's body, then shrink the terminal; the index must stay
	// consistent after the re-measure sweep.
	slot, ok := m.index.Slot("q2")
	require.True(t, ok)
	m.selected = slot
	m = apply(t, m, tuitest.KeyEnter())

	m = apply(t, m, tuitest.WindowSize(40, 8))
	assertContiguous(t, m)
	assert.Equal(t, 40, m.width)
}
