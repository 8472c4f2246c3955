// Package rowmap maintains the position index behind the virtualized
// outline viewer: an ordered sequence of variable-height rows with
// contiguous cumulative offsets, plus an identity-to-slot index, so the
// renderer can answer "which rows sit between these screen offsets" in
// O(log n) without re-measuring anything.
package rowmap

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/rs/zerolog"

	"github.com/hay-kot/treeline/internal/core/logging"
)

// ErrItemNotFound is returned when an operation references an identity
// that is not present in the index. It signals a desync between the
// caller's model and the index; no retry is meaningful.
var ErrItemNotFound = errors.New("item not found")

// Item is the model-layer record the index consumes. The index never
// inspects anything beyond the stable identity and the current height.
type Item interface {
	ID() string
	Height() int
}

// Row pairs an item identity with its current vertical geometry.
// Offset is the cumulative extent of all preceding rows; Extent is the
// row's own height. Observers always receive copies.
type Row struct {
	ID     string
	Offset int
	Extent int
}

// Bottom returns the first offset past this row.
func (r Row) Bottom() int {
	return r.Offset + r.Extent
}

// Observer receives row lifecycle notifications. Callbacks fire
// synchronously during mutations; an observer must not call back into
// the mutating operations of the Map that notified it.
//
// RowRefreshed's rerender flag distinguishes "the row's content height
// changed, re-render it" (true) from "the row only moved" (false).
type Observer interface {
	RowCreated(row Row)
	RowRemoved(row Row)
	RowRefreshed(row Row, rerender bool)
}

// NopObserver ignores all notifications.
type NopObserver struct{}

func (NopObserver) RowCreated(Row)         {}
func (NopObserver) RowRemoved(Row)         {}
func (NopObserver) RowRefreshed(Row, bool) {}

// Map is the position index. It owns the row sequence and the
// identity index exclusively; all access goes through its methods.
//
// Two invariants hold after every completed operation:
//   - adjacent rows satisfy rows[k+1].Offset == rows[k].Bottom()
//   - slots[id] equals the actual slot of the row with that identity,
//     for exactly the identities present in the sequence
type Map struct {
	rows  []Row
	slots map[string]int
	obs   Observer
	log   zerolog.Logger
}

// New returns an empty index notifying obs. A nil obs is replaced with
// NopObserver.
func New(obs Observer) *Map {
	if obs == nil {
		obs = NopObserver{}
	}
	return &Map{
		slots: make(map[string]int),
		obs:   obs,
		log:   logging.Component("rowmap"),
	}
}

// Len returns the number of indexed rows.
func (m *Map) Len() int {
	return len(m.rows)
}

// TotalExtent returns the offset one past the last row, or 0 when empty.
func (m *Map) TotalExtent() int {
	if len(m.rows) == 0 {
		return 0
	}
	return m.rows[len(m.rows)-1].Bottom()
}

// Insert splices one row per item into the sequence directly after the
// row identified by afterID, or at the very start when afterID is empty.
// The items sequence is consumed in a single forward pass.
//
// Returns the total extent inserted. If afterID is non-empty and not
// indexed, nothing is mutated and ErrItemNotFound is returned.
//
// Notification order: RowCreated per new row during the scan (offsets of
// rows after the insertion point are not yet shifted at that moment),
// then RowRefreshed for every shifted existing row in slot order.
func (m *Map) Insert(items iter.Seq[Item], afterID string) (int, error) {
	at, base := 0, 0
	if afterID != "" {
		slot, ok := m.slots[afterID]
		if !ok {
			m.log.Error().Str("id", afterID).Msg("insert anchor not indexed")
			return 0, fmt.Errorf("insert after %q: %w", afterID, ErrItemNotFound)
		}
		at = slot + 1
		base = m.rows[slot].Bottom()
	}

	var added []Row
	sizeDiff := 0
	for it := range items {
		row := Row{ID: it.ID(), Offset: base + sizeDiff, Extent: it.Height()}
		m.slots[row.ID] = at + len(added)
		added = append(added, row)
		sizeDiff += row.Extent
		m.obs.RowCreated(row)
	}
	if len(added) == 0 {
		return 0, nil
	}

	m.rows = slices.Insert(m.rows, at, added...)

	// Minimal affected suffix: everything that sat at or after the
	// insertion point moved, both in slot and in offset.
	for s := at + len(added); s < len(m.rows); s++ {
		m.rows[s].Offset += sizeDiff
		m.slots[m.rows[s].ID] = s
		m.obs.RowRefreshed(m.rows[s], false)
	}
	return sizeDiff, nil
}

// Remove evicts the rows with the given identities. The identities must
// occupy a contiguous slot run in ascending order; the index relies on
// this caller contract and does not re-check it.
//
// The whole batch is validated before anything is touched: if any
// identity is missing, nothing is mutated and ErrItemNotFound is
// returned. An empty input is a no-op.
func (m *Map) Remove(ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	start := len(m.rows)
	sizeDiff := 0
	for _, id := range ids {
		slot, ok := m.slots[id]
		if !ok {
			m.log.Error().Str("id", id).Msg("remove target not indexed")
			return fmt.Errorf("remove %q: %w", id, ErrItemNotFound)
		}
		if slot < start {
			start = slot
		}
		sizeDiff -= m.rows[slot].Extent
	}

	for _, id := range ids {
		slot := m.slots[id]
		delete(m.slots, id)
		m.obs.RowRemoved(m.rows[slot])
	}
	m.rows = slices.Delete(m.rows, start, start+len(ids))

	for s := start; s < len(m.rows); s++ {
		m.rows[s].Offset += sizeDiff
		m.slots[m.rows[s].ID] = s
		m.obs.RowRefreshed(m.rows[s], false)
	}
	return nil
}

// RefreshSet re-measures the given items in whatever order they arrive,
// sorting them into slot order before delegating to RefreshOrdered.
// Items that are not indexed are dropped.
func (m *Map) RefreshSet(items []Item) {
	ordered := make([]Item, 0, len(items))
	for _, it := range items {
		if _, ok := m.slots[it.ID()]; ok {
			ordered = append(ordered, it)
		}
	}
	slices.SortFunc(ordered, func(a, b Item) int {
		return m.slots[a.ID()] - m.slots[b.ID()]
	})
	m.RefreshOrdered(ordered)
}

// RefreshOrdered re-measures items already sorted by ascending slot,
// carrying a cumulative offset delta so each row is touched at most
// once: rows between two refreshed items are caught up in one pass, and
// the suffix past the last refreshed item is flushed at the end.
//
// Refreshed items get RowRefreshed with rerender=true; rows that only
// shifted get rerender=false.
func (m *Map) RefreshOrdered(items []Item) {
	cumm := 0
	next := 0 // first slot not yet caught up
	for _, it := range items {
		slot, ok := m.slots[it.ID()]
		if !ok {
			m.log.Warn().Str("id", it.ID()).Msg("refresh target not indexed, skipping")
			continue
		}

		if cumm != 0 {
			for s := next; s < slot; s++ {
				m.rows[s].Offset += cumm
				m.obs.RowRefreshed(m.rows[s], false)
			}
		}

		row := &m.rows[slot]
		old := row.Extent
		row.Offset += cumm
		row.Extent = it.Height()
		cumm += row.Extent - old
		m.obs.RowRefreshed(*row, true)
		next = slot + 1
	}

	if cumm != 0 {
		for s := next; s < len(m.rows); s++ {
			m.rows[s].Offset += cumm
			m.obs.RowRefreshed(m.rows[s], false)
		}
	}
}

// IndexAt returns the slot whose half-open window [Offset, Bottom())
// contains pos. When no row contains pos (past the end, inside nothing,
// or the index is empty) it returns Len(), the one-past-the-end
// sentinel. Querying exactly at a row's Offset returns that row.
func (m *Map) IndexAt(pos int) int {
	lo, hi := 0, len(m.rows)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		row := m.rows[mid]
		switch {
		case pos < row.Offset:
			hi = mid
		case pos >= row.Bottom():
			lo = mid + 1
		default:
			return mid
		}
	}
	return len(m.rows)
}

// IndexAfter returns the slot after the one containing pos, clamped to
// Len().
func (m *Map) IndexAfter(pos int) int {
	return min(m.IndexAt(pos)+1, len(m.rows))
}

// RowAt returns the row at the given slot.
func (m *Map) RowAt(slot int) (Row, bool) {
	if slot < 0 || slot >= len(m.rows) {
		return Row{}, false
	}
	return m.rows[slot], true
}

// IDAt returns the identity at the given slot.
func (m *Map) IDAt(slot int) (string, bool) {
	row, ok := m.RowAt(slot)
	return row.ID, ok
}

// Slot returns the current slot of the given identity.
func (m *Map) Slot(id string) (int, bool) {
	slot, ok := m.slots[id]
	return slot, ok
}

// EachInRange invokes fn for every row in the inclusive slot range
// [IndexAt(startPos), IndexAt(endPos)], in ascending slot order. A
// range past the end of the last row is clamped; fn returning false
// stops the iteration.
func (m *Map) EachInRange(startPos, endPos int, fn func(Row) bool) {
	first := m.IndexAt(startPos)
	if first >= len(m.rows) {
		return
	}
	last := m.IndexAt(endPos)
	if last >= len(m.rows) {
		last = len(m.rows) - 1
	}
	for s := first; s <= last; s++ {
		if !fn(m.rows[s]) {
			return
		}
	}
}

// Dispose releases the sequence and the index. The Map is unusable
// afterwards; any further call is undefined behavior.
func (m *Map) Dispose() {
	m.rows = nil
	m.slots = nil
	m.obs = nil
}
