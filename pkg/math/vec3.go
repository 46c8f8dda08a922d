// Package math provides the float32 vector and matrix types handed to the
// renderer. World-space geometry is kept in float64 in pkg/geometry.
package math

import "math"

// Vec3 is a single precision 3D vector.
type Vec3 struct {
	X, Y, Z float32
}

// FromFloat64 narrows a double precision vector.
func FromFloat64(v [3]float64) Vec3 {
	return Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Dot returns v·o.
func (v Vec3) Dot(o Vec3) float32 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns v×o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Length returns |v|.
func (v Vec3) Length() float32 {
	return float32(math.Sqrt(float64(v.Dot(v))))
}

// Normalize returns v scaled to unit length, or zero for the zero vector.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return Vec3{v.X / l, v.Y / l, v.Z / l}
}
