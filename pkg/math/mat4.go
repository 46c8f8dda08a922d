package math

import "math"

// Mat4 is a column-major 4x4 matrix, the layout GL uniforms expect.
// Element (row, col) lives at index col*4+row.
type Mat4 [16]float32

// Vec4 is a homogeneous coordinate.
type Vec4 [4]float32

// Perspective returns a right-handed projection mapping the view volume to
// clip space. fovY is in radians.
func Perspective(fovY, aspect, near, far float32) Mat4 {
	var m Mat4
	f := float32(1 / math.Tan(float64(fovY)/2))
	depth := near - far

	m[0] = f / aspect
	m[5] = f
	m[10] = (far + near) / depth
	m[11] = -1
	m[14] = 2 * far * near / depth
	return m
}

// LookAt returns the view matrix of an eye at eye looking at center.
func LookAt(eye, center, up Vec3) Mat4 {
	back := eye.Sub(center).Normalize()
	side := up.Cross(back).Normalize()
	top := back.Cross(side)

	var m Mat4
	for i, axis := range [3]Vec3{side, top, back} {
		m[i] = axis.X
		m[4+i] = axis.Y
		m[8+i] = axis.Z
		m[12+i] = -axis.Dot(eye)
	}
	m[15] = 1
	return m
}

// Mul returns m·n, so n is applied first.
func (m Mat4) Mul(n Mat4) Mat4 {
	var out Mat4
	for col := range 4 {
		c := m.MulVec4(Vec4{n[col*4], n[col*4+1], n[col*4+2], n[col*4+3]})
		copy(out[col*4:col*4+4], c[:])
	}
	return out
}

// MulVec4 returns m·v.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	var out Vec4
	for row := range 4 {
		out[row] = m[row]*v[0] + m[4+row]*v[1] + m[8+row]*v[2] + m[12+row]*v[3]
	}
	return out
}

// Project maps p through m and divides by w. ok is false for points at or
// behind the eye plane, which have no screen position.
func (m Mat4) Project(p [3]float32) (ndc [3]float32, ok bool) {
	clip := m.MulVec4(Vec4{p[0], p[1], p[2], 1})
	if clip[3] <= 0 {
		return ndc, false
	}
	return [3]float32{clip[0] / clip[3], clip[1] / clip[3], clip[2] / clip[3]}, true
}
