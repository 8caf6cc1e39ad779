package render

import (
	"github.com/chewxy/math32"
	"github.com/taigrr/orrery/pkg/math3d"
)

// Orbit limits and defaults.
const (
	MinOrbitDistance     = 1.5
	MaxOrbitDistance     = 10
	DefaultOrbitDistance = 3.5
	DefaultOrbitHeight   = 1
	OrbitAngleStep       = 0.02
	OrbitZoomStep        = 0.05
)

// Camera is an orbit camera circling a target on the XZ plane at a fixed
// height, with a perspective projection.
type Camera struct {
	// Orbit parameters
	Angle    float32 // Radians around the Y axis
	Distance float32 // Horizontal distance from the target
	Height   float32 // Eye height above the target
	Target   math3d.Vec3

	// Projection parameters
	FOV         float32 // Vertical field of view in radians
	AspectRatio float32 // Width / Height
	Near        float32
	Far         float32

	// Cached matrices (computed on demand)
	viewMatrix math3d.Mat4
	projMatrix math3d.Mat4
	viewDirty  bool
	projDirty  bool
}

// NewCamera creates an orbit camera with default settings.
func NewCamera() *Camera {
	return &Camera{
		Distance:    DefaultOrbitDistance,
		Height:      DefaultOrbitHeight,
		FOV:         math32.Pi / 3, // 60 degrees
		AspectRatio: 1,
		Near:        0.1,
		Far:         100,
		viewDirty:   true,
		projDirty:   true,
	}
}

// Position returns the eye position.
func (c *Camera) Position() math3d.Vec3 {
	return c.Target.Add(math3d.V3(
		c.Distance*math32.Sin(c.Angle),
		c.Height,
		c.Distance*math32.Cos(c.Angle),
	))
}

// SetOrbit sets angle and distance, clamping distance to the orbit limits.
func (c *Camera) SetOrbit(angle, distance float32) {
	c.Angle = angle
	c.Distance = ClampOrbitDistance(distance)
	c.viewDirty = true
}

// ClampOrbitDistance limits d to [MinOrbitDistance, MaxOrbitDistance].
func ClampOrbitDistance(d float32) float32 {
	return math32.Max(MinOrbitDistance, math32.Min(MaxOrbitDistance, d))
}

// SetAspectRatio sets the aspect ratio.
func (c *Camera) SetAspectRatio(aspect float32) {
	c.AspectRatio = aspect
	c.projDirty = true
}

// ViewMatrix returns the view matrix.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		c.viewMatrix = math3d.LookAt(c.Position(), c.Target, math3d.Up())
		c.viewDirty = false
	}
	return c.viewMatrix
}

// ProjectionMatrix returns the projection matrix.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	if c.projDirty {
		c.projMatrix = math3d.Perspective(c.FOV, c.AspectRatio, c.Near, c.Far)
		c.projDirty = false
	}
	return c.projMatrix
}

// ViewProjectionMatrix returns projection * view.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	return c.ProjectionMatrix().Mul(c.ViewMatrix())
}

// MVP returns projection * view * model.
func (c *Camera) MVP(model math3d.Mat4) math3d.Mat4 {
	return c.ViewProjectionMatrix().Mul(model)
}

// WorldToScreen projects a point through m into a width x height viewport.
// visible is false for points behind the eye.
func WorldToScreen(m math3d.Mat4, p math3d.Vec3, width, height int) (x, y, depth float32, visible bool) {
	clip := m.MulPoint(p)
	if clip.W <= 0 {
		return 0, 0, 0, false
	}
	ndc := clip.PerspectiveDivide()
	x = (ndc.X + 1) * 0.5 * float32(width)
	y = (1 - ndc.Y) * 0.5 * float32(height) // Y is flipped
	return x, y, ndc.Z, true
}
