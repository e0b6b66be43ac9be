package render

import (
	"math"

	"github.com/taigrr/spheremesh/pkg/math3d"
)

// Vertex represents a vertex with all attributes needed for rasterization.
type Vertex struct {
	Position math3d.Vec3 // World position
	Color    Color       // Lit vertex color
}

// Triangle represents a triangle to be rasterized.
type Triangle struct {
	V [3]Vertex
}

// Stats counts the work done since the last ResetStats.
type Stats struct {
	TrianglesSubmitted int
	TrianglesCulled    int // back-facing or behind the camera
	PixelsWritten      int
}

// Rasterizer handles software triangle rasterization.
type Rasterizer struct {
	camera                 *Camera
	fb                     *Framebuffer
	zbuffer                []float64 // Depth buffer (1D array, row-major)
	Stats                  Stats
	DisableBackfaceCulling bool // If true, render both sides of triangles
}

// NewRasterizer creates a new rasterizer.
func NewRasterizer(camera *Camera, fb *Framebuffer) *Rasterizer {
	r := &Rasterizer{
		camera: camera,
		fb:     fb,
	}
	r.Resize()
	return r
}

// Resize resizes the rasterizer's buffer to match the framebuffer.
func (r *Rasterizer) Resize() {
	if r.fb == nil {
		r.zbuffer = nil
		return
	}
	r.zbuffer = make([]float64, r.fb.Width*r.fb.Height)
}

// Width returns the framebuffer width.
func (r *Rasterizer) Width() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Width
}

// Height returns the framebuffer height.
func (r *Rasterizer) Height() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Height
}

// ClearDepth clears the Z-buffer (call before each frame).
func (r *Rasterizer) ClearDepth() {
	// Use copy-doubling for faster clearing
	n := len(r.zbuffer)
	if n == 0 {
		return
	}
	r.zbuffer[0] = math.MaxFloat64
	for i := 1; i < n; i *= 2 {
		copy(r.zbuffer[i:], r.zbuffer[:i])
	}
}

// ResetStats zeroes the per-frame counters.
func (r *Rasterizer) ResetStats() {
	r.Stats = Stats{}
}

// screenVertex holds a vertex transformed to screen space.
type screenVertex struct {
	X, Y  float64 // Screen coordinates
	Z     float64 // Depth (for Z-buffer)
	W     float64
	Color Color
}

func (r *Rasterizer) toScreen(viewProj math3d.Mat4, p math3d.Vec3) screenVertex {
	clipPos := viewProj.MulVec4(math3d.V4FromV3(p, 1))

	var sv screenVertex
	if clipPos.W != 0 {
		sv.X = clipPos.X / clipPos.W
		sv.Y = clipPos.Y / clipPos.W
		sv.Z = clipPos.Z / clipPos.W
	}
	sv.W = clipPos.W

	// NDC to screen coordinates
	sv.X = (sv.X + 1) * 0.5 * float64(r.Width())
	sv.Y = (1 - sv.Y) * 0.5 * float64(r.Height()) // Y flipped
	return sv
}

// DrawTriangle rasterizes a triangle, interpolating vertex colors.
// Triangles are front-facing when wound clockwise on screen.
func (r *Rasterizer) DrawTriangle(tri Triangle) {
	r.Stats.TrianglesSubmitted++
	viewProj := r.camera.ViewProjectionMatrix()

	var sv [3]screenVertex
	for i := range 3 {
		sv[i] = r.toScreen(viewProj, tri.V[i].Position)
		sv[i].Color = tri.V[i].Color

		// No near-plane clipping: drop any triangle crossing it.
		if sv[i].W <= 0 {
			r.Stats.TrianglesCulled++
			return
		}
	}

	// Backface culling (using screen-space winding)
	cross := (sv[1].X-sv[0].X)*(sv[2].Y-sv[0].Y) - (sv[1].Y-sv[0].Y)*(sv[2].X-sv[0].X)
	if cross == 0 || (cross < 0 && !r.DisableBackfaceCulling) {
		r.Stats.TrianglesCulled++
		return
	}

	// Find bounding box
	minX := int(math.Max(0, math.Floor(min3(sv[0].X, sv[1].X, sv[2].X))))
	maxX := int(math.Min(float64(r.Width()-1), math.Ceil(max3(sv[0].X, sv[1].X, sv[2].X))))
	minY := int(math.Max(0, math.Floor(min3(sv[0].Y, sv[1].Y, sv[2].Y))))
	maxY := int(math.Min(float64(r.Height()-1), math.Ceil(max3(sv[0].Y, sv[1].Y, sv[2].Y))))

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5

			bc := barycentric(
				sv[0].X, sv[0].Y,
				sv[1].X, sv[1].Y,
				sv[2].X, sv[2].Y,
				px, py,
			)

			// Check if inside triangle
			if bc.X < 0 || bc.Y < 0 || bc.Z < 0 {
				continue
			}

			z := bc.X*sv[0].Z + bc.Y*sv[1].Z + bc.Z*sv[2].Z
			idx := y*r.Width() + x
			if z >= r.zbuffer[idx] {
				continue
			}

			r.zbuffer[idx] = z
			r.fb.Pixels[idx] = interpolateColor3(sv[0].Color, sv[1].Color, sv[2].Color, bc)
			r.Stats.PixelsWritten++
		}
	}
}

// barycentric calculates barycentric coordinates for point (px, py) in triangle.
func barycentric(x0, y0, x1, y1, x2, y2, px, py float64) math3d.Vec3 {
	v0x, v0y := x2-x0, y2-y0
	v1x, v1y := x1-x0, y1-y0
	v2x, v2y := px-x0, py-y0

	dot00 := v0x*v0x + v0y*v0y
	dot01 := v0x*v1x + v0y*v1y
	dot02 := v0x*v2x + v0y*v2y
	dot11 := v1x*v1x + v1y*v1y
	dot12 := v1x*v2x + v1y*v2y

	invDenom := 1.0 / (dot00*dot11 - dot01*dot01)
	u := (dot11*dot02 - dot01*dot12) * invDenom
	v := (dot00*dot12 - dot01*dot02) * invDenom

	return math3d.V3(1-u-v, v, u)
}

// interpolateColor3 interpolates between 3 colors using barycentric coords.
func interpolateColor3(c0, c1, c2 Color, bc math3d.Vec3) Color {
	ch := func(a, b, c uint8) uint8 {
		v := float64(a)*bc.X + float64(b)*bc.Y + float64(c)*bc.Z
		return uint8(math.Round(math.Max(0, math.Min(255, v))))
	}
	return RGB(ch(c0.R, c1.R, c2.R), ch(c0.G, c1.G, c2.G), ch(c0.B, c1.B, c2.B))
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}

// lambert returns ambient plus diffuse intensity for a unit normal.
func lambert(normal, lightDir math3d.Vec3) float64 {
	return 0.3 + 0.7*math.Max(0, normal.Dot(lightDir))
}

// MeshRenderer is the read-only view of a mesh the rasterizer draws.
// Implemented by models.Mesh; declared here to avoid an import cycle.
type MeshRenderer interface {
	VertexCount() int
	TriangleCount() int
	GetVertex(i int) (pos, normal math3d.Vec3)
	GetFace(i int) [3]int
	GetFaceMaterial(i int) int
}

// DrawMesh renders a mesh with Gouraud shading. Each face takes its color
// from palette by material index, falling back to ColorGray.
func (r *Rasterizer) DrawMesh(mesh MeshRenderer, transform math3d.Mat4, palette []Color, lightDir math3d.Vec3) {
	light := lightDir.Normalize()

	// Vertices are transformed and lit once, not once per face.
	intensity := make([]float64, mesh.VertexCount())
	pos := make([]math3d.Vec3, mesh.VertexCount())
	for i := range pos {
		p, n := mesh.GetVertex(i)
		pos[i] = transform.MulVec3(p)
		intensity[i] = lambert(transform.MulVec3Dir(n).Normalize(), light)
	}

	for i := range mesh.TriangleCount() {
		face := mesh.GetFace(i)
		base := ColorGray
		if m := mesh.GetFaceMaterial(i); m >= 0 && m < len(palette) {
			base = palette[m]
		}

		var tri Triangle
		for k, vi := range face {
			tri.V[k] = Vertex{Position: pos[vi], Color: Shade(base, intensity[vi])}
		}
		r.DrawTriangle(tri)
	}
}

// DrawMeshWireframe renders a mesh as wireframe.
func (r *Rasterizer) DrawMeshWireframe(mesh MeshRenderer, transform math3d.Mat4, color Color) {
	w := NewWireframe(r.camera, r.fb)
	for i := range mesh.TriangleCount() {
		face := mesh.GetFace(i)

		p0, _ := mesh.GetVertex(face[0])
		p1, _ := mesh.GetVertex(face[1])
		p2, _ := mesh.GetVertex(face[2])

		v0 := transform.MulVec3(p0)
		v1 := transform.MulVec3(p1)
		v2 := transform.MulVec3(p2)

		w.DrawLine3D(v0, v1, color)
		w.DrawLine3D(v1, v2, color)
		w.DrawLine3D(v2, v0, color)
	}
}
