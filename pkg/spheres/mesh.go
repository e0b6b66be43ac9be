package spheres

import (
	"encoding/binary"
	"math"

	"github.com/taigrr/spheremesh/pkg/math3d"
)

// Surface is the contiguous range of a Mesh contributed by one sphere.
type Surface struct {
	Sphere      Sphere
	BackFacing  bool
	FirstVertex int
	VertexCount int
	FirstIndex  int
	IndexCount  int
}

// Mesh is the combined triangle mesh of a sphere pair. Vertices are
// interleaved position/normal float32 triples, VertexStride values each.
// Indices address Vertices directly and are wound counter-clockwise when
// viewed from the side the normal points to.
type Mesh struct {
	Pair     SpherePair
	Vertices []float32
	Indices  IndexBuffer
	Surfaces [2]Surface
}

// BuildMesh validates opts and generates the mesh. A resolution below
// MinResolution is clamped, not rejected; use ClampResolution to detect it.
func BuildMesh(opts Options) (*Mesh, error) {
	s1, s2, err := opts.Spheres()
	if err != nil {
		return nil, err
	}
	return Assemble(Solve(s1, s2, opts.Resolution)), nil
}

// Assemble tessellates both caps of p into freshly allocated buffers.
func Assemble(p SpherePair) *Mesh {
	vertexCount := p.VertexCount()
	m := &Mesh{
		Pair:     p,
		Vertices: make([]float32, vertexCount*VertexStride),
		Indices:  NewIndexBuffer(IndexWidthFor(vertexCount), p.IndexCount()),
	}

	iv, ii := 0, 0
	for i, c := range p.Caps() {
		nextV, nextI := Tessellate(c, m.Vertices, m.Indices, iv, ii)
		m.Surfaces[i] = Surface{
			Sphere:      c.Sphere,
			BackFacing:  c.BackFacing,
			FirstVertex: iv / VertexStride,
			VertexCount: (nextV - iv) / VertexStride,
			FirstIndex:  ii,
			IndexCount:  nextI - ii,
		}
		iv, ii = nextV, nextI
	}
	return m
}

// VertexCount is the number of vertices in the mesh.
func (m *Mesh) VertexCount() int { return len(m.Vertices) / VertexStride }

// IndexCount is the number of indices in the mesh.
func (m *Mesh) IndexCount() int { return m.Indices.Len() }

// TriangleCount is the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int { return m.Indices.Len() / 3 }

// Position returns the position of vertex i.
func (m *Mesh) Position(i int) math3d.Vec3 {
	v := m.Vertices[i*VertexStride:]
	return math3d.V3(float64(v[0]), float64(v[1]), float64(v[2]))
}

// Normal returns the normal of vertex i.
func (m *Mesh) Normal(i int) math3d.Vec3 {
	v := m.Vertices[i*VertexStride:]
	return math3d.V3(float64(v[3]), float64(v[4]), float64(v[5]))
}

// Triangle returns the three vertex indices of triangle t.
func (m *Mesh) Triangle(t int) (uint32, uint32, uint32) {
	i := t * 3
	return m.Indices.At(i), m.Indices.At(i + 1), m.Indices.At(i + 2)
}

// VertexBytes returns the vertex buffer in little-endian order.
func (m *Mesh) VertexBytes() []byte {
	out := make([]byte, 0, len(m.Vertices)*4)
	for _, f := range m.Vertices {
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(f))
	}
	return out
}

// Bounds returns the axis-aligned bounding box of all vertex positions.
func (m *Mesh) Bounds() (lo, hi math3d.Vec3) {
	if m.VertexCount() == 0 {
		return
	}
	lo, hi = m.Position(0), m.Position(0)
	for i := 1; i < m.VertexCount(); i++ {
		p := m.Position(i)
		lo = lo.Min(p)
		hi = hi.Max(p)
	}
	return lo, hi
}
