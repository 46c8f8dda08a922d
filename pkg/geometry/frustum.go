package geometry

import (
	"fmt"
	gomath "math"

	vec3d "github.com/flywave/go3d/float64/vec3"
)

// Intersection classifies a box against a frustum.
type Intersection int

// Intersection results.
const (
	Outside Intersection = iota
	Intersecting
	Inside
)

// String returns the classification name.
func (i Intersection) String() string {
	switch i {
	case Outside:
		return "outside"
	case Intersecting:
		return "intersecting"
	case Inside:
		return "inside"
	default:
		return fmt.Sprintf("Intersection(%d)", int(i))
	}
}

// FrustumParams are the camera values a frustum is derived from.
// FOV is the vertical field of view in degrees.
type FrustumParams struct {
	Position    vec3d.T
	Target      vec3d.T
	Up          vec3d.T
	NearZ       float64
	FarZ        float64
	FOV         float64
	AspectRatio float64
}

// Frustum is a six-plane view volume. Every plane normal points inward, so
// a point is inside when its distance to all planes is non-negative.
type Frustum struct {
	Near   Plane
	Far    Plane
	Left   Plane
	Right  Plane
	Top    Plane
	Bottom Plane
}

// NewFrustum builds the view volume for the given camera parameters.
func NewFrustum(p FrustumParams) Frustum {
	front := vec3d.Sub(&p.Target, &p.Position)
	front = front.Normalized()
	up := p.Up.Normalized()
	right := vec3d.Cross(&front, &up)
	right = right.Normalized()

	halfV := p.FarZ * gomath.Tan(p.FOV*0.5*gomath.Pi/180)
	halfH := halfV * p.AspectRatio
	frontFar := front.Scaled(p.FarZ)

	rightH := right.Scaled(halfH)
	upV := up.Scaled(halfV)

	nearOffset := front.Scaled(p.NearZ)
	back := front.Scaled(-1)

	rightEdge := vec3d.Add(&frontFar, &rightH)
	leftEdge := vec3d.Sub(&frontFar, &rightH)
	topEdge := vec3d.Add(&frontFar, &upV)
	bottomEdge := vec3d.Sub(&frontFar, &upV)

	return Frustum{
		Near: Plane{Normal: front, Point: vec3d.Add(&p.Position, &nearOffset)},
		Far:  Plane{Normal: back, Point: vec3d.Add(&p.Position, &frontFar)},

		Right:  Plane{Normal: unitCross(up, rightEdge), Point: p.Position},
		Left:   Plane{Normal: unitCross(leftEdge, up), Point: p.Position},
		Top:    Plane{Normal: unitCross(topEdge, right), Point: p.Position},
		Bottom: Plane{Normal: unitCross(right, bottomEdge), Point: p.Position},
	}
}

func unitCross(a, b vec3d.T) vec3d.T {
	c := vec3d.Cross(&a, &b)
	return c.Normalized()
}

// Planes returns the six planes, far first as the likeliest early reject
// for terrain seen from above.
func (f Frustum) Planes() [6]Plane {
	return [6]Plane{f.Far, f.Near, f.Top, f.Bottom, f.Right, f.Left}
}

// Intersect classifies box against the frustum. For each plane the corner
// furthest along the normal decides Outside; the corner furthest against it
// decides whether the box crosses the plane. Outside is exact, Inside is
// conservative.
func (f Frustum) Intersect(box AABB) Intersection {
	result := Inside
	for _, plane := range f.Planes() {
		if plane.Distance(box.VertexP(plane.Normal)) < 0 {
			return Outside
		}
		if plane.Distance(box.VertexN(plane.Normal)) < 0 {
			result = Intersecting
		}
	}
	return result
}

// ContainsPoint reports whether pt is inside or on the frustum.
func (f Frustum) ContainsPoint(pt vec3d.T) bool {
	for _, plane := range f.Planes() {
		if plane.Distance(pt) < 0 {
			return false
		}
	}
	return true
}
