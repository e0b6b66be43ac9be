package render

import (
	"math"

	"github.com/taigrr/spheremesh/pkg/math3d"
)

// MoveKeys is a bitmask of held movement keys.
type MoveKeys uint8

// Movement keys.
const (
	KeyForward  MoveKeys = 1 << iota // W
	KeyBackward                      // S
	KeyLeft                          // A
	KeyRight                         // D
	KeyUp                            // Q
	KeyDown                          // E
)

// Camera defaults.
const (
	DefaultFOV       = 0.7
	DefaultNear      = 0.1
	DefaultFar       = 1000
	DefaultMoveSpeed = 10.0  // world units per second
	DragSensitivity  = 0.002 // radians per pointer unit
)

// Camera is a free-flying camera oriented by a polar (pitch) and an
// azimuth (yaw) angle. Positive polar tilts the view down.
type Camera struct {
	// Position in world space
	Position math3d.Vec3

	Polar   float64 // Rotation around X axis, clamped to ±π/2
	Azimuth float64 // Rotation around Y axis

	// Projection parameters
	FOV         float64 // Vertical field of view in radians
	AspectRatio float64 // Width / Height
	Near        float64 // Near clipping plane
	Far         float64 // Far clipping plane

	MoveSpeed float64
	Keys      MoveKeys

	// Cached matrices (computed on demand)
	viewMatrix     math3d.Mat4
	projMatrix     math3d.Mat4
	viewProjMatrix math3d.Mat4
	viewDirty      bool
	projDirty      bool
}

// NewCamera creates a camera above and behind the origin, tilted down.
func NewCamera() *Camera {
	return &Camera{
		Position:    math3d.V3(0, 10, 50),
		Polar:       0.2,
		FOV:         DefaultFOV,
		AspectRatio: 16.0 / 9.0,
		Near:        DefaultNear,
		Far:         DefaultFar,
		MoveSpeed:   DefaultMoveSpeed,
		viewDirty:   true,
		projDirty:   true,
	}
}

// SetPosition sets the camera position.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
	c.viewDirty = true
}

// SetRotation sets the polar and azimuth angles.
func (c *Camera) SetRotation(polar, azimuth float64) {
	c.Polar = clampPolar(polar)
	c.Azimuth = azimuth
	c.viewDirty = true
}

// SetFOV sets the field of view (in radians).
func (c *Camera) SetFOV(fov float64) {
	c.FOV = fov
	c.projDirty = true
}

// SetAspectRatio sets the aspect ratio.
func (c *Camera) SetAspectRatio(aspect float64) {
	c.AspectRatio = aspect
	c.projDirty = true
}

// SetClipPlanes sets the near and far clipping planes.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.Near = near
	c.Far = far
	c.projDirty = true
}

// Drag rotates the camera by a pointer movement of (dx, dy).
func (c *Camera) Drag(dx, dy float64) {
	c.SetRotation(c.Polar+dy*DragSensitivity, c.Azimuth+dx*DragSensitivity)
}

// Press marks movement keys as held.
func (c *Camera) Press(k MoveKeys) { c.Keys |= k }

// Release marks movement keys as released.
func (c *Camera) Release(k MoveKeys) { c.Keys &^= k }

// Update moves the camera along its own axes for dt seconds according to
// the held keys.
func (c *Camera) Update(dt float64) {
	var d math3d.Vec3
	if c.Keys&KeyForward != 0 {
		d.Z--
	}
	if c.Keys&KeyBackward != 0 {
		d.Z++
	}
	if c.Keys&KeyLeft != 0 {
		d.X--
	}
	if c.Keys&KeyRight != 0 {
		d.X++
	}
	if c.Keys&KeyUp != 0 {
		d.Y++
	}
	if c.Keys&KeyDown != 0 {
		d.Y--
	}
	if d == (math3d.Vec3{}) {
		return
	}
	c.Move(d.Scale(c.MoveSpeed * dt))
}

// Move translates the camera by d expressed in camera space.
func (c *Camera) Move(d math3d.Vec3) {
	c.SetPosition(c.Position.Add(c.rotation().Transpose().MulVec3Dir(d)))
}

// Forward returns the world-space viewing direction.
func (c *Camera) Forward() math3d.Vec3 {
	return c.rotation().Transpose().MulVec3Dir(math3d.V3(0, 0, -1))
}

// Right returns the world-space right direction.
func (c *Camera) Right() math3d.Vec3 {
	return c.rotation().Transpose().MulVec3Dir(math3d.V3(1, 0, 0))
}

// LookAt turns the camera toward target without moving it.
func (c *Camera) LookAt(target math3d.Vec3) {
	dir := target.Sub(c.Position).Normalize()
	if dir == (math3d.Vec3{}) {
		return
	}
	c.SetRotation(math.Asin(-dir.Y), math.Atan2(dir.X, -dir.Z))
}

// Frame places the camera on its current viewing ray so that a sphere of
// radius around center fills the vertical field of view.
func (c *Camera) Frame(center math3d.Vec3, radius float64) {
	dist := radius / math.Sin(c.FOV/2)
	c.SetPosition(center.Sub(c.Forward().Scale(dist)))
}

// ViewMatrix returns the view matrix.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		c.viewMatrix = c.rotation().Mul(math3d.Translate(c.Position.Negate()))
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

// ViewProjectionMatrix returns the combined view-projection matrix.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	if c.viewDirty || c.projDirty {
		c.viewProjMatrix = c.ProjectionMatrix().Mul(c.ViewMatrix())
	}
	return c.viewProjMatrix
}

func (c *Camera) rotation() math3d.Mat4 {
	return math3d.RotateX(c.Polar).Mul(math3d.RotateY(c.Azimuth))
}

func clampPolar(p float64) float64 {
	return math.Max(-math.Pi/2, math.Min(math.Pi/2, p))
}

// WorldToScreen transforms a world point to screen coordinates.
// Returns (screenX, screenY, depth, visible).
func (c *Camera) WorldToScreen(worldPos math3d.Vec3, screenWidth, screenHeight int) (x, y, depth float64, visible bool) {
	clipPos := c.ViewProjectionMatrix().MulVec4(math3d.V4FromV3(worldPos, 1))

	// Behind camera
	if clipPos.W <= 0 {
		return 0, 0, 0, false
	}

	ndc := clipPos.PerspectiveDivide()

	if ndc.X < -1 || ndc.X > 1 || ndc.Y < -1 || ndc.Y > 1 || ndc.Z < -1 || ndc.Z > 1 {
		return 0, 0, 0, false
	}

	x = (ndc.X + 1) * 0.5 * float64(screenWidth)
	y = (1 - ndc.Y) * 0.5 * float64(screenHeight) // Y is flipped
	depth = ndc.Z

	return x, y, depth, true
}
