// Package outline owns the hierarchical document model behind the
// viewer: a tree of titled nodes with optional markdown bodies. It
// decides which nodes are visible (expand/collapse state) and hands the
// viewer contiguous runs of nodes to index, but it never positions or
// paints anything itself.
package outline

import (
	"fmt"

	"github.com/google/uuid"
)

// Node is a single outline entry. IDs are stable for the lifetime of
// the document; when the source doesn't supply one, normalization
// assigns a random UUID.
type Node struct {
	ID       string  `yaml:"id,omitempty"`
	Title    string  `yaml:"title"`
	Body     string  `yaml:"body,omitempty"`
	Children []*Node `yaml:"children,omitempty"`

	// Expanded controls whether the node's children are visible.
	Expanded bool `yaml:"-"`

	depth  int
	parent *Node
}

// Depth returns the node's nesting level, 0 for roots.
func (n *Node) Depth() int { return n.depth }

// Parent returns the node's parent, nil for roots.
func (n *Node) Parent() *Node { return n.parent }

// HasChildren reports whether the node can be expanded.
func (n *Node) HasChildren() bool { return len(n.Children) > 0 }

// VisibleRun returns the node's currently visible descendants in
// document order: its children when expanded, recursing into expanded
// children. This is exactly the contiguous run of rows that appears
// (or disappears) directly below the node when it is toggled.
func (n *Node) VisibleRun() []*Node {
	if !n.Expanded {
		return nil
	}
	var run []*Node
	for _, child := range n.Children {
		run = append(run, child)
		run = append(run, child.VisibleRun()...)
	}
	return run
}

// Document is a loaded outline: root nodes plus an identity lookup.
type Document struct {
	Title string  `yaml:"title,omitempty"`
	Nodes []*Node `yaml:"nodes"`

	byID map[string]*Node
}

// Node returns the node with the given identity.
func (d *Document) Node(id string) (*Node, bool) {
	n, ok := d.byID[id]
	return n, ok
}

// Len returns the total number of nodes in the document.
func (d *Document) Len() int { return len(d.byID) }

// Visible returns every currently visible node in document order:
// roots plus the visible runs beneath expanded nodes.
func (d *Document) Visible() []*Node {
	var out []*Node
	for _, n := range d.Nodes {
		out = append(out, n)
		out = append(out, n.VisibleRun()...)
	}
	return out
}

// ExpandToDepth marks every node shallower than depth as expanded and
// collapses everything at or below it. ExpandToDepth(0) collapses the
// whole document.
func (d *Document) ExpandToDepth(depth int) {
	var walk func(nodes []*Node)
	walk = func(nodes []*Node) {
		for _, n := range nodes {
			n.Expanded = n.depth < depth && n.HasChildren()
			walk(n.Children)
		}
	}
	walk(d.Nodes)
}

// normalize assigns missing IDs, wires depth and parent pointers, and
// builds the identity lookup. Duplicate explicit IDs are an error.
func (d *Document) normalize() error {
	d.byID = make(map[string]*Node)

	var walk func(nodes []*Node, parent *Node, depth int) error
	walk = func(nodes []*Node, parent *Node, depth int) error {
		for _, n := range nodes {
			if n.ID == "" {
				n.ID = uuid.NewString()
			}
			if _, exists := d.byID[n.ID]; exists {
				return fmt.Errorf("duplicate node id %q", n.ID)
			}
			d.byID[n.ID] = n
			n.parent = parent
			n.depth = depth
			if err := walk(n.Children, n, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(d.Nodes, nil, 0)
}
