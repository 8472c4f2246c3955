package outline

import "github.com/hay-kot/treeline/internal/core/rowmap"

// Measurer reports a node's current row height in terminal lines. The
// model stays render-agnostic: the viewer supplies a measurer built on
// its markdown renderer and width.
type Measurer func(*Node) int

// RowItem adapts a node to the position index's item contract.
type RowItem struct {
	Node    *Node
	Measure Measurer
}

// ID returns the node's stable identity.
func (it RowItem) ID() string { return it.Node.ID }

// Height returns the node's current rendered height.
func (it RowItem) Height() int { return it.Measure(it.Node) }

// Items wraps nodes as index items sharing one measurer.
func Items(nodes []*Node, measure Measurer) []rowmap.Item {
	out := make([]rowmap.Item, len(nodes))
	for i, n := range nodes {
		out[i] = RowItem{Node: n, Measure: measure}
	}
	return out
}
