package tui

import "github.com/hay-kot/treeline/internal/core/rowmap"

// renderCache keeps rendered node bodies keyed by row identity. It
// implements rowmap.Observer so entries are evicted exactly when the
// index reports a row gone or re-measured; offset-only moves keep the
// cached rendering warm.
type renderCache struct {
	bodies map[string]string
}

func newRenderCache() *renderCache {
	return &renderCache{bodies: make(map[string]string)}
}

func (c *renderCache) get(id string) (string, bool) {
	body, ok := c.bodies[id]
	return body, ok
}

func (c *renderCache) put(id, body string) {
	c.bodies[id] = body
}

func (c *renderCache) clear() {
	c.bodies = make(map[string]string)
}

// RowCreated implements rowmap.Observer. Rendering is lazy; nothing to
// warm here.
func (c *renderCache) RowCreated(rowmap.Row) {}

// RowRemoved implements rowmap.Observer.
func (c *renderCache) RowRemoved(row rowmap.Row) {
	delete(c.bodies, row.ID)
}

// RowRefreshed implements rowmap.Observer.
func (c *renderCache) RowRefreshed(row rowmap.Row, rerender bool) {
	if rerender {
		delete(c.bodies, row.ID)
	}
}
