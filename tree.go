package itemex

import (
	"errors"
	"fmt"
)

// ErrInvalidTree is returned by NewPageTree when the node list is not a
// preorder linearization of a tree.
var ErrInvalidTree = errors.New("itemex: invalid tree")

// Fragment is a half-open byte range [Start, End) in the source document.
type Fragment struct {
	Start int
	End   int
}

// NoFragment marks an absent table cell.
var NoFragment = Fragment{Start: -1, End: -1}

// Valid reports whether f refers to a source range.
func (f Fragment) Valid() bool { return f.Start >= 0 && f.End >= f.Start }

// Tree is a linearized document tree. Nodes are indexed 0..Len()-1 in
// document order and the subtree of node i occupies [i, Match(i)).
// Leaves may report Match(i) == i or Match(i) == i+1; use SpanEnd to read
// spans in a convention-independent way.
type Tree interface {
	Len() int
	Match(i int) int
	Children(i int) []int
	IsTag(i int) bool
	Fragment(i int) Fragment
}

// SpanEnd returns one past the last descendant of node i.
func SpanEnd(t Tree, i int) int {
	return max(i+1, t.Match(i))
}

// SpanSize returns the number of nodes in the subtree rooted at i.
func SpanSize(t Tree, i int) int {
	return SpanEnd(t, i) - i
}

// PathsAt returns, for every leaf in the subtree rooted at root, the chain
// of ancestors from that leaf up to root (leaf first, root last). Paths are
// returned in document order of their leaves. A leaf root yields the single
// path [root].
func PathsAt(t Tree, root int) [][]int {
	end := SpanEnd(t, root)
	var paths [][]int
	stack := make([]int, 0, 8)
	for i := root; i < end; i++ {
		for len(stack) > 0 && SpanEnd(t, stack[len(stack)-1]) <= i {
			stack = stack[:len(stack)-1]
		}
		stack = append(stack, i)
		if SpanEnd(t, i) > i+1 {
			continue
		}
		path := make([]int, len(stack))
		for k := range stack {
			path[k] = stack[len(stack)-1-k]
		}
		paths = append(paths, path)
	}
	return paths
}

// Node describes one node of a PageTree in preorder.
// Parent is -1 for the root.
type Node struct {
	Parent int
	Tag    bool
	Start  int
	End    int
}

// PageTree is a slice-backed Tree.
type PageTree struct {
	match    []int
	children [][]int
	tag      []bool
	frags    []Fragment
}

// NewPageTree builds a PageTree from nodes listed in preorder. Every node's
// parent must be an open ancestor of the previous node (or -1 for node 0),
// which guarantees properly nested spans.
func NewPageTree(nodes []Node) (*PageTree, error) {
	n := len(nodes)
	t := &PageTree{
		match:    make([]int, n),
		children: make([][]int, n),
		tag:      make([]bool, n),
		frags:    make([]Fragment, n),
	}

	var stack []int
	for i, nd := range nodes {
		if nd.Parent >= i || nd.Parent < -1 {
			return nil, fmt.Errorf("%w: node %d has parent %d", ErrInvalidTree, i, nd.Parent)
		}
		for len(stack) > 0 && stack[len(stack)-1] != nd.Parent {
			top := stack[len(stack)-1]
			t.match[top] = i
			stack = stack[:len(stack)-1]
		}
		if nd.Parent == -1 {
			if i != 0 {
				return nil, fmt.Errorf("%w: node %d is a second root", ErrInvalidTree, i)
			}
		} else {
			if len(stack) == 0 {
				return nil, fmt.Errorf("%w: parent %d of node %d is already closed", ErrInvalidTree, nd.Parent, i)
			}
			t.children[nd.Parent] = append(t.children[nd.Parent], i)
		}
		stack = append(stack, i)
		t.tag[i] = nd.Tag
		t.frags[i] = Fragment{Start: nd.Start, End: nd.End}
	}
	for _, open := range stack {
		t.match[open] = n
	}
	return t, nil
}

var _ Tree = (*PageTree)(nil)

// Len returns the number of nodes.
func (t *PageTree) Len() int { return len(t.match) }

// Match returns one past the last descendant of node i.
func (t *PageTree) Match(i int) int { return t.match[i] }

// Children returns the immediate children of node i in document order.
func (t *PageTree) Children(i int) []int { return t.children[i] }

// IsTag reports whether node i is an element rather than text.
func (t *PageTree) IsTag(i int) bool { return t.tag[i] }

// Fragment returns the source range of node i.
func (t *PageTree) Fragment(i int) Fragment { return t.frags[i] }
