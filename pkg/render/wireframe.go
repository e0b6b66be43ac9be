package render

import (
	"math"

	"github.com/taigrr/spheremesh/pkg/math3d"
)

// Wireframe renders 3D wireframe objects.
type Wireframe struct {
	camera *Camera
	fb     *Framebuffer
}

// NewWireframe creates a new wireframe renderer.
func NewWireframe(camera *Camera, fb *Framebuffer) *Wireframe {
	return &Wireframe{
		camera: camera,
		fb:     fb,
	}
}

// DrawLine3D draws a line in 3D space, clipped against the near plane.
func (w *Wireframe) DrawLine3D(p1, p2 math3d.Vec3, color Color) {
	viewProj := w.camera.ViewProjectionMatrix()
	a := viewProj.MulVec4(math3d.V4FromV3(p1, 1))
	b := viewProj.MulVec4(math3d.V4FromV3(p2, 1))

	// For a perspective projection w is the view depth, so clip at the near plane.
	minW := math.Max(w.camera.Near, 1e-5)
	if a.W < minW && b.W < minW {
		return
	}
	if a.W < minW {
		a = lerp4(a, b, (minW-a.W)/(b.W-a.W))
	} else if b.W < minW {
		b = lerp4(b, a, (minW-b.W)/(a.W-b.W))
	}

	x0, y0 := w.ndcToScreen(a.PerspectiveDivide())
	x1, y1 := w.ndcToScreen(b.PerspectiveDivide())

	// Lines far off screen would make Bresenham walk forever.
	const limit = 1 << 15
	if math.Abs(x0) > limit || math.Abs(y0) > limit || math.Abs(x1) > limit || math.Abs(y1) > limit {
		return
	}

	w.fb.DrawLine(int(x0), int(y0), int(x1), int(y1), color)
}

func (w *Wireframe) ndcToScreen(ndc math3d.Vec3) (float64, float64) {
	return (ndc.X + 1) * 0.5 * float64(w.fb.Width), (1 - ndc.Y) * 0.5 * float64(w.fb.Height)
}

func lerp4(a, b math3d.Vec4, t float64) math3d.Vec4 {
	return math3d.Vec4{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
		Z: a.Z + (b.Z-a.Z)*t,
		W: a.W + (b.W-a.W)*t,
	}
}

// DrawAxes draws the coordinate axes at the origin.
func (w *Wireframe) DrawAxes(length float64) {
	origin := math3d.Zero3()
	w.DrawLine3D(origin, math3d.V3(length, 0, 0), ColorRed)   // X axis
	w.DrawLine3D(origin, math3d.V3(0, length, 0), ColorGreen) // Y axis
	w.DrawLine3D(origin, math3d.V3(0, 0, length), ColorBlue)  // Z axis
}

// DrawGrid draws a grid on the XZ plane at height y.
func (w *Wireframe) DrawGrid(size, step, y float64, color Color) {
	half := size / 2
	lines := int(math.Round(size / step))
	for i := 0; i <= lines; i++ {
		c := -half + float64(i)*step
		w.DrawLine3D(math3d.V3(c, y, -half), math3d.V3(c, y, half), color)
		w.DrawLine3D(math3d.V3(-half, y, c), math3d.V3(half, y, c), color)
	}
}

// DrawCircle draws a circle of radius around center in the plane
// perpendicular to axis.
func (w *Wireframe) DrawCircle(center, axis math3d.Vec3, radius float64, segments int, color Color) {
	axis = axis.Normalize()
	ref := math3d.V3(1, 0, 0)
	if math.Abs(axis.X) > 0.9 {
		ref = math3d.V3(0, 1, 0)
	}
	u := axis.Cross(ref).Normalize().Scale(radius)
	v := axis.Cross(u)

	prev := center.Add(u)
	for i := 1; i <= segments; i++ {
		sin, cos := math.Sincos(2 * math.Pi * float64(i) / float64(segments))
		next := center.Add(u.Scale(cos)).Add(v.Scale(sin))
		w.DrawLine3D(prev, next, color)
		prev = next
	}
}
