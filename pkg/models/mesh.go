// Package models provides the renderable and exportable form of a sphere mesh.
package models

import (
	"github.com/taigrr/spheremesh/pkg/math3d"
	"github.com/taigrr/spheremesh/pkg/spheres"
)

// Mesh represents a 3D mesh with vertices, faces, and materials.
type Mesh struct {
	Name      string
	Vertices  []MeshVertex
	Faces     []Face
	Materials []Material

	// Bounding box
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// MeshVertex holds all vertex attributes.
type MeshVertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
}

// Face represents a triangle face with vertex indices and material reference.
// Faces are wound clockwise in the renderer's convention.
type Face struct {
	V        [3]int // Indices into Mesh.Vertices
	Material int    // Index into Mesh.Materials (-1 for no material)
}

// Material is a flat PBR material.
type Material struct {
	Name      string
	BaseColor [4]float64 // RGBA in 0-1 range
	Metallic  float64    // 0 = dielectric, 1 = metal
	Roughness float64    // 0 = smooth, 1 = rough
}

// DefaultMaterials returns the materials used for the outer and carved
// surfaces when none are configured.
func DefaultMaterials() [2]Material {
	return [2]Material{
		{Name: "outer", BaseColor: [4]float64{0.85, 0.55, 0.25, 1}, Roughness: 0.6},
		{Name: "carved", BaseColor: [4]float64{0.25, 0.55, 0.85, 1}, Roughness: 0.6},
	}
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: make([]MeshVertex, 0),
		Faces:    make([]Face, 0),
	}
}

// FromSpheres converts a generated sphere mesh. Outward surfaces use
// mats[0] and the carved surface uses mats[1], so two separate spheres
// share the outer material. Winding is reversed from counter-clockwise to
// the renderer's clockwise convention.
func FromSpheres(name string, sm *spheres.Mesh, mats [2]Material) *Mesh {
	m := &Mesh{
		Name:      name,
		Vertices:  make([]MeshVertex, sm.VertexCount()),
		Faces:     make([]Face, 0, sm.TriangleCount()),
		Materials: mats[:],
	}

	for i := range m.Vertices {
		m.Vertices[i] = MeshVertex{Position: sm.Position(i), Normal: sm.Normal(i)}
	}

	for _, s := range sm.Surfaces {
		mat := SurfaceMaterial(s)
		first := s.FirstIndex / 3
		for t := first; t < first+s.IndexCount/3; t++ {
			a, b, c := sm.Triangle(t)
			m.Faces = append(m.Faces, Face{
				V:        [3]int{int(a), int(c), int(b)}, // swapped
				Material: mat,
			})
		}
	}

	m.CalculateBounds()
	return m
}

// SurfaceMaterial returns the material slot for s: 1 for the carved,
// back-facing surface and 0 otherwise.
func SurfaceMaterial(s spheres.Surface) int {
	if s.BackFacing {
		return 1
	}
	return 0
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// CalculateSmoothNormals computes averaged normals for smooth shading.
// Faces are clockwise, so each face normal is edge2 x edge1.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Zero3()
	}

	for _, f := range m.Faces {
		v0 := m.Vertices[f.V[0]].Position
		v1 := m.Vertices[f.V[1]].Position
		v2 := m.Vertices[f.V[2]].Position

		normal := v2.Sub(v0).Cross(v1.Sub(v0)) // area weighted

		for _, vi := range f.V {
			m.Vertices[vi].Normal = m.Vertices[vi].Normal.Add(normal)
		}
	}

	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
	}
}

// GetVertex returns the position and normal for vertex i.
// Implements render.MeshRenderer interface.
func (m *Mesh) GetVertex(i int) (pos, normal math3d.Vec3) {
	v := m.Vertices[i]
	return v.Position, v.Normal
}

// GetFace returns the vertex indices for face i.
// Implements render.MeshRenderer interface.
func (m *Mesh) GetFace(i int) [3]int {
	return m.Faces[i].V
}

// GetFaceMaterial returns the material index for face i.
// Returns -1 if no material assigned.
func (m *Mesh) GetFaceMaterial(i int) int {
	return m.Faces[i].Material
}

// GetMaterial returns the material at index i.
// Returns nil if index is out of bounds or -1.
func (m *Mesh) GetMaterial(i int) *Material {
	if i < 0 || i >= len(m.Materials) {
		return nil
	}
	return &m.Materials[i]
}

// MaterialCount returns the number of materials.
func (m *Mesh) MaterialCount() int {
	return len(m.Materials)
}

// GetBounds returns the axis-aligned bounding box.
func (m *Mesh) GetBounds() (min, max math3d.Vec3) {
	return m.BoundsMin, m.BoundsMax
}
