package geometry

import vec3d "github.com/flywave/go3d/float64/vec3"

// Plane is defined by a normal and a point on it.
type Plane struct {
	Normal vec3d.T
	Point  vec3d.T
}

// Distance returns the signed distance of pt: Normal . (pt - Point).
// Positive values are on the side the normal points to.
func (p Plane) Distance(pt vec3d.T) float64 {
	d := vec3d.Sub(&pt, &p.Point)
	return vec3d.Dot(&p.Normal, &d)
}
