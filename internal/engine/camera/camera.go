// Package camera provides the perspective camera used to cull and refine terrain.
package camera

import (
	"errors"
	"fmt"
	gomath "math"

	vec3d "github.com/flywave/go3d/float64/vec3"

	"github.com/Faultbox/terrain-lod/pkg/geometry"
	"github.com/Faultbox/terrain-lod/pkg/math"
)

// ErrInvalidConfig is returned when camera parameters cannot describe a view volume.
var ErrInvalidConfig = errors.New("invalid camera config")

// Config holds the camera parameters. FOV is the vertical field of view in degrees.
type Config struct {
	Position      [3]float64 `yaml:"position"`
	Target        [3]float64 `yaml:"target"`
	Up            [3]float64 `yaml:"up"`
	NearZ         float64    `yaml:"near"`
	FarZ          float64    `yaml:"far"`
	FOV           float64    `yaml:"fov"`
	AspectRatio   float64    `yaml:"aspect_ratio"`
	ViewportWidth int        `yaml:"viewport_width"`
}

// DefaultConfig returns a camera hovering above the origin looking north-east
// across the map.
func DefaultConfig() Config {
	return Config{
		Position:      [3]float64{0, 2000, 0},
		Target:        [3]float64{1000, 0, 1000},
		Up:            [3]float64{0, 1, 0},
		NearZ:         1,
		FarZ:          100000,
		FOV:           60,
		AspectRatio:   16.0 / 9.0,
		ViewportWidth: 1280,
	}
}

// Validate checks that the parameters describe a usable view volume.
func (c Config) Validate() error {
	for _, f := range []float64{
		c.NearZ, c.FarZ, c.FOV, c.AspectRatio,
		c.Position[0], c.Position[1], c.Position[2],
		c.Target[0], c.Target[1], c.Target[2],
		c.Up[0], c.Up[1], c.Up[2],
	} {
		if gomath.IsNaN(f) || gomath.IsInf(f, 0) {
			return fmt.Errorf("%w: non-finite parameter %v", ErrInvalidConfig, f)
		}
	}

	switch {
	case c.NearZ <= 0:
		return fmt.Errorf("%w: near plane %v must be positive", ErrInvalidConfig, c.NearZ)
	case c.FarZ <= c.NearZ:
		return fmt.Errorf("%w: far plane %v must be beyond near plane %v", ErrInvalidConfig, c.FarZ, c.NearZ)
	case c.FOV <= 0 || c.FOV >= 180:
		return fmt.Errorf("%w: fov %v must be in (0, 180)", ErrInvalidConfig, c.FOV)
	case c.AspectRatio <= 0:
		return fmt.Errorf("%w: aspect ratio %v must be positive", ErrInvalidConfig, c.AspectRatio)
	case c.ViewportWidth <= 0:
		return fmt.Errorf("%w: viewport width %d must be positive", ErrInvalidConfig, c.ViewportWidth)
	case c.Position == c.Target:
		return fmt.Errorf("%w: target equals position", ErrInvalidConfig)
	case c.Up == [3]float64{}:
		return fmt.Errorf("%w: up vector is zero", ErrInvalidConfig)
	}
	front := vec3d.Sub(toVec(c.Target), toVec(c.Position))
	up := vec3d.T(c.Up)
	cross := vec3d.Cross(&front, &up)
	if cross.Length() == 0 {
		return fmt.Errorf("%w: up vector is parallel to the view direction", ErrInvalidConfig)
	}
	return nil
}

// Camera is a perspective camera. The zero value is not usable; call New.
type Camera struct {
	initial Config
	cfg     Config
}

// New creates a camera from an explicit config.
func New(cfg Config) (*Camera, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Camera{initial: cfg, cfg: cfg}, nil
}

// Config returns the current camera parameters.
func (c *Camera) Config() Config {
	return c.cfg
}

// Position returns the eye position.
func (c *Camera) Position() vec3d.T {
	return vec3d.T(c.cfg.Position)
}

// Target returns the point the camera looks at.
func (c *Camera) Target() vec3d.T {
	return vec3d.T(c.cfg.Target)
}

// Front returns the unit view direction.
func (c *Camera) Front() vec3d.T {
	front := vec3d.Sub(toVec(c.cfg.Target), toVec(c.cfg.Position))
	return front.Normalized()
}

// Right returns the unit vector to the right of the view direction.
func (c *Camera) Right() vec3d.T {
	front := c.Front()
	up := vec3d.T(c.cfg.Up)
	up = up.Normalized()
	right := vec3d.Cross(&front, &up)
	return right.Normalized()
}

// Up returns the unit up vector orthogonal to Front and Right.
func (c *Camera) Up() vec3d.T {
	right := c.Right()
	front := c.Front()
	up := vec3d.Cross(&right, &front)
	return up.Normalized()
}

// Frustum returns the current view volume.
func (c *Camera) Frustum() geometry.Frustum {
	return geometry.NewFrustum(geometry.FrustumParams{
		Position:    vec3d.T(c.cfg.Position),
		Target:      vec3d.T(c.cfg.Target),
		Up:          vec3d.T(c.cfg.Up),
		NearZ:       c.cfg.NearZ,
		FarZ:        c.cfg.FarZ,
		FOV:         c.cfg.FOV,
		AspectRatio: c.cfg.AspectRatio,
	})
}

// ViewMatrix returns the view matrix for the renderer.
func (c *Camera) ViewMatrix() math.Mat4 {
	return math.LookAt(
		math.FromFloat64(c.cfg.Position),
		math.FromFloat64(c.cfg.Target),
		math.FromFloat64(c.cfg.Up),
	)
}

// ProjectionMatrix returns the perspective projection for the renderer.
func (c *Camera) ProjectionMatrix() math.Mat4 {
	return math.Perspective(
		float32(radians(c.cfg.FOV)),
		float32(c.cfg.AspectRatio),
		float32(c.cfg.NearZ),
		float32(c.cfg.FarZ),
	)
}

// ViewProjection returns projection·view, mapping world points to clip space.
func (c *Camera) ViewProjection() math.Mat4 {
	return c.ProjectionMatrix().Mul(c.ViewMatrix())
}

// Project returns the normalized device coordinates of a world point. ok is
// false when the point is at or behind the eye.
func (c *Camera) Project(p vec3d.T) (ndc [3]float32, ok bool) {
	v := math.FromFloat64(p)
	return c.ViewProjection().Project([3]float32{v.X, v.Y, v.Z})
}

// ErrorFactor converts a world-space error at distance 1 into pixels.
func (c *Camera) ErrorFactor() float64 {
	return float64(c.cfg.ViewportWidth) / (2 * gomath.Tan(radians(c.cfg.FOV)/2))
}

// ScreenError projects a world-space geometric error seen at dist onto the
// screen, in pixels. A zero distance yields +Inf so the caller always refines.
func (c *Camera) ScreenError(dist, worldError float64) float64 {
	if dist <= 0 {
		return gomath.Inf(1)
	}
	return worldError * c.ErrorFactor() / dist
}

// SetViewport updates the viewport width and the aspect ratio.
func (c *Camera) SetViewport(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: viewport %dx%d", ErrInvalidConfig, width, height)
	}
	c.cfg.ViewportWidth = width
	c.cfg.AspectRatio = float64(width) / float64(height)
	return nil
}

// SetFOV sets the vertical field of view in degrees.
func (c *Camera) SetFOV(fov float64) error {
	next := c.cfg
	next.FOV = fov
	return c.apply(next)
}

// SetNearFar sets the clipping distances.
func (c *Camera) SetNearFar(near, far float64) error {
	next := c.cfg
	next.NearZ = near
	next.FarZ = far
	return c.apply(next)
}

// MoveTo places the eye at pos, keeping the view direction.
func (c *Camera) MoveTo(pos vec3d.T) {
	delta := vec3d.Sub(&pos, toVec(c.cfg.Position))
	c.MoveBy(delta)
}

// MoveBy translates the eye and the target by delta.
func (c *Camera) MoveBy(delta vec3d.T) {
	pos := vec3d.Add(toVec(c.cfg.Position), &delta)
	target := vec3d.Add(toVec(c.cfg.Target), &delta)
	c.cfg.Position = pos
	c.cfg.Target = target
}

// ShiftBy moves the camera along its own axes.
func (c *Camera) ShiftBy(forward, right, up float64) {
	f := c.Front()
	r := c.Right()
	u := c.Up()
	f = f.Scaled(forward)
	r = r.Scaled(right)
	u = u.Scaled(up)
	delta := vec3d.Add(&f, &r)
	delta = vec3d.Add(&delta, &u)
	c.MoveBy(delta)
}

// LookAt points the camera at target.
func (c *Camera) LookAt(target vec3d.T) error {
	next := c.cfg
	next.Target = target
	return c.apply(next)
}

// Reset restores the config the camera was created with.
func (c *Camera) Reset() {
	c.cfg = c.initial
}

func (c *Camera) apply(next Config) error {
	if err := next.Validate(); err != nil {
		return err
	}
	c.cfg = next
	return nil
}

func toVec(a [3]float64) *vec3d.T {
	v := vec3d.T(a)
	return &v
}

func radians(deg float64) float64 {
	return deg * gomath.Pi / 180
}
