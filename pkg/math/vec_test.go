package math

import (
	"testing"
)

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := Vec3{3, 0, 4}
	if v.Length() != 5 {
		t.Errorf("Vec3.Length() = %v, want 5", v.Length())
	}
	l := v.Normalize().Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}
	if (Vec3{}).Normalize() != (Vec3{}) {
		t.Error("normalizing the zero vector should return zero")
	}
}

func TestFromFloat64(t *testing.T) {
	got := FromFloat64([3]float64{1.5, -2, 1e3})
	want := Vec3{1.5, -2, 1000}
	if got != want {
		t.Errorf("FromFloat64() = %v, want %v", got, want)
	}
	if d := got.Sub(want); d != (Vec3{}) {
		t.Errorf("Sub() = %v, want zero", d)
	}
}
