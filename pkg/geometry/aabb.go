// Package geometry provides the double precision world-space geometry used
// for tile placement and view-frustum culling.
package geometry

import (
	"fmt"

	vec3d "github.com/flywave/go3d/float64/vec3"
)

// AABB is an axis-aligned bounding box. Min <= Max component-wise holds
// for every box built with New or grown from Empty with AddPoint.
type AABB struct {
	Min vec3d.T
	Max vec3d.T
}

// New returns the box spanned by two opposite corners, in any order.
func New(a, b vec3d.T) AABB {
	return AABB{Min: vec3d.Min(&a, &b), Max: vec3d.Max(&a, &b)}
}

// Empty returns an inverted box that is the identity for Merge and AddPoint.
func Empty() AABB {
	return AABB{Min: vec3d.MaxVal, Max: vec3d.MinVal}
}

// IsEmpty reports whether the box contains no point.
func (b AABB) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// AddPoint grows the box to cover pt.
func (b *AABB) AddPoint(pt vec3d.T) {
	b.Min = vec3d.Min(&b.Min, &pt)
	b.Max = vec3d.Max(&b.Max, &pt)
}

// Merge grows the box to cover other.
func (b *AABB) Merge(other AABB) {
	b.Min = vec3d.Min(&b.Min, &other.Min)
	b.Max = vec3d.Max(&b.Max, &other.Max)
}

// Union returns the smallest box covering both a and b.
func Union(a, b AABB) AABB {
	a.Merge(b)
	return a
}

// Center returns Min + 0.5*(Max-Min).
func (b AABB) Center() vec3d.T {
	size := b.Size()
	half := size.Scaled(0.5)
	return vec3d.Add(&b.Min, &half)
}

// Size returns the extent along each axis.
func (b AABB) Size() vec3d.T {
	return vec3d.Sub(&b.Max, &b.Min)
}

// Contains reports whether pt lies inside or on the box.
func (b AABB) Contains(pt vec3d.T) bool {
	for i := 0; i < 3; i++ {
		if pt[i] < b.Min[i] || pt[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// Translated returns the box moved by offset.
func (b AABB) Translated(offset vec3d.T) AABB {
	return AABB{Min: vec3d.Add(&b.Min, &offset), Max: vec3d.Add(&b.Max, &offset)}
}

// VertexP returns the corner furthest along normal: per axis, Max when the
// normal component is non-negative, Min otherwise.
func (b AABB) VertexP(normal vec3d.T) vec3d.T {
	p := b.Min
	for i := 0; i < 3; i++ {
		if normal[i] >= 0 {
			p[i] = b.Max[i]
		}
	}
	return p
}

// VertexN returns the corner furthest against normal, the opposite of VertexP.
func (b AABB) VertexN(normal vec3d.T) vec3d.T {
	n := b.Max
	for i := 0; i < 3; i++ {
		if normal[i] >= 0 {
			n[i] = b.Min[i]
		}
	}
	return n
}

// DistanceToPoint returns the Euclidean distance from pt to the box,
// 0 if pt is inside.
func (b AABB) DistanceToPoint(pt vec3d.T) float64 {
	var d vec3d.T
	for i := 0; i < 3; i++ {
		switch {
		case pt[i] < b.Min[i]:
			d[i] = b.Min[i] - pt[i]
		case pt[i] > b.Max[i]:
			d[i] = pt[i] - b.Max[i]
		}
	}
	return d.Length()
}

// Corners returns the eight corners, bottom face (min Y) first.
func (b AABB) Corners() [8]vec3d.T {
	return [8]vec3d.T{
		{b.Min[0], b.Min[1], b.Min[2]},
		{b.Max[0], b.Min[1], b.Min[2]},
		{b.Max[0], b.Min[1], b.Max[2]},
		{b.Min[0], b.Min[1], b.Max[2]},
		{b.Min[0], b.Max[1], b.Min[2]},
		{b.Max[0], b.Max[1], b.Min[2]},
		{b.Max[0], b.Max[1], b.Max[2]},
		{b.Min[0], b.Max[1], b.Max[2]},
	}
}

// String formats the box as "[min] - [max]".
func (b AABB) String() string {
	return fmt.Sprintf("[%.3f %.3f %.3f] - [%.3f %.3f %.3f]",
		b.Min[0], b.Min[1], b.Min[2], b.Max[0], b.Max[1], b.Max[2])
}
