// Package syntaxtree defines the concrete syntax tree consumed by the AST
// converter: an immutable tree of kind-tagged nodes with half-open byte
// ranges into the source text. Trees are either decoded from JSON (sent by
// an external incremental parser) or built locally with the goldmark-backed
// Builder.
package syntaxtree

import (
	"encoding/json"
	"fmt"
)

// Node is a single node of a concrete syntax tree. A Node is immutable once
// built; navigation methods never allocate.
type Node struct {
	kind     string
	from, to int
	children []*Node
	parent   *Node
	index    int // position within parent.children
}

// New builds a node from its kind, byte range and children. Child parent
// links are set here, so a child must not be reused under two parents.
func New(kind string, from, to int, children ...*Node) *Node {
	n := &Node{kind: kind, from: from, to: to, children: children}
	for i, c := range children {
		c.parent = n
		c.index = i
	}
	return n
}

// Kind returns the grammar's name for this node.
func (n *Node) Kind() string { return n.kind }

// From returns the inclusive start byte offset.
func (n *Node) From() int { return n.from }

// To returns the exclusive end byte offset.
func (n *Node) To() int { return n.to }

// Parent returns the parent node, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// FirstChild returns the first child, or nil.
func (n *Node) FirstChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

// NextSibling returns the following sibling under the same parent, or nil.
func (n *Node) NextSibling() *Node {
	if n.parent == nil || n.index+1 >= len(n.parent.children) {
		return nil
	}
	return n.parent.children[n.index+1]
}

// Children returns the direct children in document order. The returned
// slice is shared; callers must not modify it.
func (n *Node) Children() []*Node { return n.children }

// Child returns the first direct child with the given kind, or nil.
func (n *Node) Child(kind string) *Node {
	for _, c := range n.children {
		if c.kind == kind {
			return c
		}
	}
	return nil
}

// ChildrenOfKind returns all direct children with the given kind.
func (n *Node) ChildrenOfKind(kind string) []*Node {
	var out []*Node
	for _, c := range n.children {
		if c.kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// Text returns the verbatim source substring covered by the node.
func (n *Node) Text(source string) string {
	return source[n.from:n.to]
}

// Validate checks that the node's range fits within a source of the given
// length and that every descendant lies inside its parent's range with
// ordered, non-decreasing offsets.
func (n *Node) Validate(sourceLen int) error {
	if n.from < 0 || n.from > n.to || n.to > sourceLen {
		return fmt.Errorf("node %s has range [%d,%d) outside source of %d bytes", n.kind, n.from, n.to, sourceLen)
	}
	last := n.from
	for _, c := range n.children {
		if c.from < last || c.to > n.to {
			return fmt.Errorf("child %s [%d,%d) escapes parent %s [%d,%d)", c.kind, c.from, c.to, n.kind, n.from, n.to)
		}
		if err := c.Validate(sourceLen); err != nil {
			return err
		}
		last = c.to
	}
	return nil
}

type nodeJSON struct {
	Kind     string  `json:"kind"`
	From     int     `json:"from"`
	To       int     `json:"to"`
	Children []*Node `json:"children,omitempty"`
}

// MarshalJSON encodes the node as {kind, from, to, children}.
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(nodeJSON{Kind: n.kind, From: n.from, To: n.to, Children: n.children})
}

// UnmarshalJSON decodes a tree produced by an external parser. Parent links
// are restored after decoding.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw nodeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Kind == "" {
		return fmt.Errorf("syntax node is missing a kind")
	}
	n.kind = raw.Kind
	n.from = raw.From
	n.to = raw.To
	n.children = raw.Children
	for i, c := range n.children {
		c.parent = n
		c.index = i
	}
	return nil
}
