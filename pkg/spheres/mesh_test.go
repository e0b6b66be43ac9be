package spheres

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/spheremesh/pkg/math3d"
)

// float32 storage limits how closely positions match their analytic values.
const posTol = 1e-4

func buildMesh(t *testing.T, opts Options) *Mesh {
	t.Helper()
	m, err := BuildMesh(opts)
	require.NoError(t, err)
	return m
}

func TestBuildMeshCounts(t *testing.T) {
	tests := []struct {
		name         string
		opts         Options
		wantVertices int
		wantIndices  int
		wantWidth    IndexWidth
	}{
		{
			name:         "intersecting",
			opts:         Options{Sphere1: []float64{0, 0, 0, 2}, Sphere2: []float64{3, 0, 0, 2}, Resolution: 32},
			wantVertices: 32 * (25 + 8 + 2),
			wantIndices:  32 * (25 + 8) * 6,
			wantWidth:    IndexUint16,
		},
		{
			name:         "disjoint",
			opts:         Options{Sphere1: []float64{0, 0, 0, 1}, Sphere2: []float64{5, 0, 0, 1}, Resolution: 10},
			wantVertices: 10 * 12,
			wantIndices:  10 * 10 * 6,
			wantWidth:    IndexUint8,
		},
		{
			name:         "clamped resolution",
			opts:         Options{Sphere1: []float64{0, 0, 0, 1}, Sphere2: []float64{5, 0, 0, 1}, Resolution: 1},
			wantVertices: 4 * 6,
			wantIndices:  4 * 4 * 6,
			wantWidth:    IndexUint8,
		},
		{
			name:         "wide indices",
			opts:         Options{Sphere1: []float64{0, 0, 0, 1}, Sphere2: []float64{5, 0, 0, 1}, Resolution: 256},
			wantVertices: 256 * 258,
			wantIndices:  256 * 256 * 6,
			wantWidth:    IndexUint32,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := buildMesh(t, tc.opts)
			assert.Equal(t, tc.wantVertices, m.VertexCount())
			assert.Equal(t, tc.wantIndices, m.IndexCount())
			assert.Equal(t, tc.wantIndices/3, m.TriangleCount())
			assert.Equal(t, tc.wantWidth, m.Indices.Width())
			assert.Len(t, m.Vertices, tc.wantVertices*VertexStride)

			s0, s1 := m.Surfaces[0], m.Surfaces[1]
			assert.Equal(t, 0, s0.FirstVertex)
			assert.Equal(t, s0.VertexCount, s1.FirstVertex)
			assert.Equal(t, m.VertexCount(), s0.VertexCount+s1.VertexCount)
			assert.Equal(t, 0, s0.FirstIndex)
			assert.Equal(t, s0.IndexCount, s1.FirstIndex)
			assert.Equal(t, m.IndexCount(), s0.IndexCount+s1.IndexCount)
		})
	}
}

func TestBuildMeshIndicesStayInSurface(t *testing.T) {
	m := buildMesh(t, Options{Sphere1: []float64{1, -2, 0.5, 3}, Sphere2: []float64{2, 0, 1, 1.5}, Resolution: 20})

	for _, s := range m.Surfaces {
		lo, hi := uint32(s.FirstVertex), uint32(s.FirstVertex+s.VertexCount)
		for i := s.FirstIndex; i < s.FirstIndex+s.IndexCount; i++ {
			idx := m.Indices.At(i)
			require.True(t, idx >= lo && idx < hi, "index %d = %d outside [%d, %d)", i, idx, lo, hi)
		}
	}
}

func TestBuildMeshVerticesOnSpheres(t *testing.T) {
	s1, s2 := NewSphere(1, -2, 0.5, 3), NewSphere(2, 0, 1, 1.5)
	m := buildMesh(t, Options{Sphere1: []float64{1, -2, 0.5, 3}, Sphere2: []float64{2, 0, 1, 1.5}, Resolution: 24})
	require.True(t, m.Pair.Intersecting)

	outer, inner := m.Surfaces[0], m.Surfaces[1]
	assert.False(t, outer.BackFacing)
	assert.True(t, inner.BackFacing)

	for i := outer.FirstVertex; i < outer.FirstVertex+outer.VertexCount; i++ {
		p, n := m.Position(i), m.Normal(i)
		assert.InDelta(t, s1.Radius, p.Distance(s1.Center), posTol)
		// The kept part of the first sphere lies outside the second.
		assert.GreaterOrEqual(t, p.Distance(s2.Center), s2.Radius-posTol)

		want := p.Sub(s1.Center).Scale(1 / s1.Radius)
		assert.InDelta(t, 1.0, n.Len(), posTol)
		assert.InDelta(t, 1.0, n.Dot(want), posTol)
	}

	for i := inner.FirstVertex; i < inner.FirstVertex+inner.VertexCount; i++ {
		p, n := m.Position(i), m.Normal(i)
		assert.InDelta(t, s2.Radius, p.Distance(s2.Center), posTol)
		// The carved part of the second sphere lies inside the first.
		assert.LessOrEqual(t, p.Distance(s1.Center), s1.Radius+posTol)

		// Normals point toward the second sphere's center.
		want := s2.Center.Sub(p).Scale(1 / s2.Radius)
		assert.InDelta(t, 1.0, n.Len(), posTol)
		assert.InDelta(t, 1.0, n.Dot(want), posTol)
	}
}

func TestBuildMeshCapsShareRim(t *testing.T) {
	m := buildMesh(t, Options{Sphere1: []float64{0, 0, 0, 2}, Sphere2: []float64{3, 1, -1, 1.5}, Resolution: 16})
	require.True(t, m.Pair.Intersecting)

	radial := m.Pair.RadialSegments
	outer, inner := m.Surfaces[0], m.Surfaces[1]
	for col := range radial {
		a := m.Position(outer.FirstVertex + col)
		b := m.Position(inner.FirstVertex + col)
		assert.InDelta(t, 0, a.Distance(b), posTol, "rim vertex %d", col)
	}
}

func TestBuildMeshWindingMatchesNormals(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"intersecting", Options{Sphere1: []float64{1, -2, 0.5, 3}, Sphere2: []float64{2, 0, 1, 1.5}, Resolution: 12}},
		{"disjoint", Options{Sphere1: []float64{0, 0, 0, 1}, Sphere2: []float64{5, 0, 0, 2}, Resolution: 7}},
		{"aligned with y", Options{Sphere1: []float64{0, 0, 0, 2}, Sphere2: []float64{0, 3, 0, 2}, Resolution: 8}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := buildMesh(t, tc.opts)
			checked := 0
			for tri := range m.TriangleCount() {
				i0, i1, i2 := m.Triangle(tri)
				p0, p1, p2 := m.Position(int(i0)), m.Position(int(i1)), m.Position(int(i2))
				face := p1.Sub(p0).Cross(p2.Sub(p0))
				if face.Len() < 1e-6 {
					// Pole triangles collapse to a line.
					continue
				}
				avg := m.Normal(int(i0)).Add(m.Normal(int(i1))).Add(m.Normal(int(i2)))
				require.Greater(t, face.Dot(avg), 0.0, "triangle %d faces away from its normals", tri)
				checked++
			}
			assert.Greater(t, checked, m.TriangleCount()/2)
		})
	}
}

func TestBuildMeshDeterministic(t *testing.T) {
	opts := Options{Sphere1: []float64{0.3, 0.1, -2, 2.2}, Sphere2: []float64{1, 1, -1, 1.7}, Resolution: 33.5}
	a := buildMesh(t, opts)
	b := buildMesh(t, opts)

	assert.Equal(t, a.VertexBytes(), b.VertexBytes())
	assert.Equal(t, a.Indices.Bytes(), b.Indices.Bytes())
}

func TestBuildMeshInvalidOptions(t *testing.T) {
	good := []float64{0, 0, 0, 1}
	tests := []struct {
		name    string
		opts    Options
		wantErr error
	}{
		{"short sphere1", Options{Sphere1: []float64{0, 0, 1}, Sphere2: good, Resolution: 8}, ErrInvalidOptions},
		{"missing sphere2", Options{Sphere1: good, Resolution: 8}, ErrInvalidOptions},
		{"zero radius", Options{Sphere1: []float64{0, 0, 0, 0}, Sphere2: good, Resolution: 8}, ErrInvalidRadius},
		{"negative radius", Options{Sphere1: good, Sphere2: []float64{0, 0, 0, -1}, Resolution: 8}, ErrInvalidRadius},
		{"nan radius", Options{Sphere1: []float64{0, 0, 0, math.NaN()}, Sphere2: good, Resolution: 8}, ErrInvalidRadius},
		{"infinite center", Options{Sphere1: []float64{math.Inf(1), 0, 0, 1}, Sphere2: good, Resolution: 8}, ErrInvalidOptions},
		{"nan resolution", Options{Sphere1: good, Sphere2: good, Resolution: math.NaN()}, ErrInvalidOptions},
		{"huge resolution", Options{Sphere1: good, Sphere2: good, Resolution: 1e19}, ErrInvalidOptions},
		{"resolution past index range", Options{Sphere1: good, Sphere2: good, Resolution: MaxResolution + 0.5}, ErrInvalidOptions},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, err := BuildMesh(tc.opts)
			assert.Nil(t, m)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestMeshBounds(t *testing.T) {
	m := buildMesh(t, Options{Sphere1: []float64{0, 0, 0, 1}, Sphere2: []float64{5, 0, 0, 2}, Resolution: 16})
	lo, hi := m.Bounds()

	assert.InDelta(t, -1, lo.X, posTol)
	assert.InDelta(t, 7, hi.X, posTol)
	assert.InDelta(t, -2, lo.Y, posTol)
	assert.InDelta(t, 2, hi.Y, posTol)
}

func TestTessellateSingleRing(t *testing.T) {
	c := Cap{
		Sphere:         NewSphere(0, 0, 0, 1),
		StartAngle:     math.Pi / 2,
		RadialSegments: 6,
		Alignment:      math3d.Identity3(),
	}
	vertices := make([]float32, c.VertexCount()*VertexStride)
	indices := NewIndexBuffer(IndexUint8, c.IndexCount())

	iv, ii := Tessellate(c, vertices, indices, 0, 0)
	assert.Equal(t, 6*VertexStride, iv)
	assert.Equal(t, 0, ii)
	for i := range 6 {
		assert.InDelta(t, 0, vertices[i*VertexStride+1], posTol, "equator vertex %d", i)
	}
}

func TestTessellateOffsetsIndices(t *testing.T) {
	c := Cap{
		Sphere:         NewSphere(0, 0, 0, 1),
		RadialSegments: 4,
		HeightSegments: 2,
		Alignment:      math3d.Identity3(),
	}
	const skip = 5
	vertices := make([]float32, (skip+c.VertexCount())*VertexStride)
	indices := NewIndexBuffer(IndexUint8, 3+c.IndexCount())

	iv, ii := Tessellate(c, vertices, indices, skip*VertexStride, 3)
	assert.Equal(t, len(vertices), iv)
	assert.Equal(t, indices.Len(), ii)

	// a, c, d of the first quad
	assert.Equal(t, uint32(skip), indices.At(3))
	assert.Equal(t, uint32(skip+4), indices.At(4))
	assert.Equal(t, uint32(skip+5), indices.At(5))
	for i := 3; i < indices.Len(); i++ {
		assert.GreaterOrEqual(t, indices.At(i), uint32(skip))
	}
}

func TestTessellatePanicsOnShortBuffer(t *testing.T) {
	c := Cap{
		Sphere:         NewSphere(0, 0, 0, 1),
		RadialSegments: 4,
		HeightSegments: 2,
		Alignment:      math3d.Identity3(),
	}
	assert.Panics(t, func() {
		Tessellate(c, make([]float32, VertexStride), NewIndexBuffer(IndexUint8, c.IndexCount()), 0, 0)
	})
}

func TestIndexWidthFor(t *testing.T) {
	tests := []struct {
		vertices int
		want     IndexWidth
	}{
		{0, IndexUint8},
		{255, IndexUint8},
		{256, IndexUint16},
		{65535, IndexUint16},
		{65536, IndexUint32},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, IndexWidthFor(tc.vertices), "IndexWidthFor(%d)", tc.vertices)
	}
	assert.Equal(t, "uint16", IndexUint16.String())
}

func TestIndexBufferBytes(t *testing.T) {
	tests := []struct {
		width IndexWidth
		want  []byte
	}{
		{IndexUint8, []byte{0x01, 0x02}},
		{IndexUint16, []byte{0x01, 0x00, 0x02, 0x01}},
		{IndexUint32, []byte{0x01, 0x00, 0x00, 0x00, 0x02, 0x01, 0x00, 0x00}},
	}
	for _, tc := range tests {
		t.Run(tc.width.String(), func(t *testing.T) {
			b := NewIndexBuffer(tc.width, 2)
			b.Set(0, 1)
			if tc.width == IndexUint8 {
				b.Set(1, 2)
			} else {
				b.Set(1, 0x102)
			}
			assert.Equal(t, tc.width, b.Width())
			assert.Equal(t, tc.want, b.Bytes())
		})
	}
}
