// Package quadtree provides a complete quadtree stored as a flat arena.
//
// A tree of depth d has d levels (the root is level 0) and exactly
// FullSize(d) nodes. Nodes live in a slice in the order they were given to
// Build; the children of the node at flat position i are at 4i+1 .. 4i+4
// (nw, ne, se, sw). Level l therefore occupies [FullSize(l), FullSize(l+1)).
package quadtree

import (
	"errors"
	"fmt"
)

// Tree errors.
var (
	ErrInvalidDepth    = errors.New("quadtree depth must be at least 1")
	ErrElementCount    = errors.New("element count does not match a complete quadtree")
	ErrLevelOutOfRange = errors.New("level out of range")
)

// Quadrant identifies one of the four children of a node.
type Quadrant int

// Child order used by Children and the tree layout.
const (
	NW Quadrant = iota
	NE
	SE
	SW
)

// String returns the compass name of the quadrant.
func (q Quadrant) String() string {
	switch q {
	case NW:
		return "nw"
	case NE:
		return "ne"
	case SE:
		return "se"
	case SW:
		return "sw"
	default:
		return fmt.Sprintf("Quadrant(%d)", int(q))
	}
}

// FullSize returns the node count of a complete quadtree with depth levels:
// (4^depth - 1) / 3.
func FullSize(depth int) int {
	if depth <= 0 {
		return 0
	}
	return ((1 << (2 * uint(depth))) - 1) / 3
}

// NodeIndex returns the canonical flat index of the node at (level, row, col).
// row and col must be in [0, 2^level).
func NodeIndex(level, row, col int) int {
	return FullSize(level) + (row << uint(level)) + col
}

// GridPosition is the inverse of NodeIndex.
func GridPosition(index int) (level, row, col int) {
	level = LevelOf(index)
	offset := index - FullSize(level)
	return level, offset >> uint(level), offset & ((1 << uint(level)) - 1)
}

// LevelOf returns the level of the node at flat position index.
func LevelOf(index int) int {
	level := 0
	for FullSize(level+1) <= index {
		level++
	}
	return level
}

// Tree is a complete quadtree holding one T per node.
// Its shape is fixed at Build; values may be changed in place.
type Tree[T any] struct {
	nodes []T
	depth int
}

// Build creates a complete tree of the given depth from a flat element list.
// len(elements) must equal FullSize(depth). The tree takes ownership of the slice.
func Build[T any](elements []T, depth int) (*Tree[T], error) {
	if depth < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDepth, depth)
	}
	if want := FullSize(depth); len(elements) != want {
		return nil, fmt.Errorf("%w: depth %d needs %d, got %d", ErrElementCount, depth, want, len(elements))
	}
	return &Tree[T]{nodes: elements, depth: depth}, nil
}

// Depth returns the number of levels in the tree.
func (t *Tree[T]) Depth() int {
	return t.depth
}

// Len returns the number of nodes.
func (t *Tree[T]) Len() int {
	return len(t.nodes)
}

// At returns a pointer to the value at flat position index, or nil if out of range.
func (t *Tree[T]) At(index int) *T {
	if index < 0 || index >= len(t.nodes) {
		return nil
	}
	return &t.nodes[index]
}

// Root returns the root value.
func (t *Tree[T]) Root() *T {
	return &t.nodes[0]
}

// IsLeaf reports whether the node at index is on the last level.
func (t *Tree[T]) IsLeaf(index int) bool {
	return index >= FullSize(t.depth-1)
}

// Children returns the flat positions of the four children of index in
// nw, ne, se, sw order. ok is false for leaves.
func (t *Tree[T]) Children(index int) (children [4]int, ok bool) {
	if t.IsLeaf(index) {
		return children, false
	}
	base := index << 2
	for q := range children {
		children[q] = base + q + 1
	}
	return children, true
}

// Parent returns the flat position of the parent of index; ok is false for the root.
func (t *Tree[T]) Parent(index int) (int, bool) {
	if index <= 0 {
		return 0, false
	}
	return (index - 1) >> 2, true
}

// ItemsAtLevel returns every value on the given level in depth-first
// nw, ne, se, sw order. The returned slice aliases the tree storage.
func (t *Tree[T]) ItemsAtLevel(level int) ([]T, error) {
	if level < 0 || level >= t.depth {
		return nil, fmt.Errorf("%w: level %d, depth %d", ErrLevelOutOfRange, level, t.depth)
	}
	return t.nodes[FullSize(level):FullSize(level+1):FullSize(level+1)], nil
}

// MutView returns a pointer to every value in the tree, pre-order
// (a node before its children). The pointers are meant for one mutation
// pass and must not be retained.
func (t *Tree[T]) MutView() []*T {
	view := make([]*T, 0, len(t.nodes))
	t.Walk(func(index int, v *T) bool {
		view = append(view, v)
		return true
	})
	return view
}

// Walk visits every node pre-order. Returning false from fn skips the
// node's children.
func (t *Tree[T]) Walk(fn func(index int, v *T) bool) {
	t.walk(0, fn)
}

func (t *Tree[T]) walk(index int, fn func(int, *T) bool) {
	if !fn(index, &t.nodes[index]) {
		return
	}
	children, ok := t.Children(index)
	if !ok {
		return
	}
	for _, c := range children {
		t.walk(c, fn)
	}
}
