package models

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/taigrr/spheremesh/pkg/spheres"
)

// BuildDocument lays out a sphere mesh as a glTF document: one node, one
// mesh, and one primitive per surface, each with the material
// SurfaceMaterial picks for it. Primitive
// indices are local to that primitive's vertex range and keep the
// generator's counter-clockwise winding, which is glTF's front face.
func BuildDocument(name string, sm *spheres.Mesh, mats [2]Material) *gltf.Document {
	doc := gltf.NewDocument()

	for _, mat := range mats {
		doc.Materials = append(doc.Materials, materialToGLTF(mat))
	}

	mesh := &gltf.Mesh{Name: name}
	for _, s := range sm.Surfaces {
		if s.VertexCount == 0 {
			continue
		}
		positions, normals := surfaceAttributes(sm, s)
		mesh.Primitives = append(mesh.Primitives, &gltf.Primitive{
			Indices: gltf.Index(modeler.WriteIndices(doc, surfaceIndices(sm, s))),
			Attributes: map[string]int{
				gltf.POSITION: modeler.WritePosition(doc, positions),
				gltf.NORMAL:   modeler.WriteNormal(doc, normals),
			},
			Material: gltf.Index(SurfaceMaterial(s)),
		})
	}

	doc.Meshes = append(doc.Meshes, mesh)
	doc.Nodes = append(doc.Nodes, &gltf.Node{Name: name, Mesh: gltf.Index(len(doc.Meshes) - 1)})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)
	return doc
}

// EncodeGLB writes the mesh as a binary glTF stream.
func EncodeGLB(w io.Writer, name string, sm *spheres.Mesh, mats [2]Material) error {
	enc := gltf.NewEncoder(w)
	enc.AsBinary = true
	if err := enc.Encode(BuildDocument(name, sm, mats)); err != nil {
		return fmt.Errorf("encode glb: %w", err)
	}
	return nil
}

// WriteFile exports the mesh to path. A .gltf extension writes JSON with
// the buffer embedded as a data URI; anything else writes GLB.
func WriteFile(path string, sm *spheres.Mesh, mats [2]Material) error {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	doc := BuildDocument(name, sm, mats)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	enc := gltf.NewEncoder(f)
	if strings.EqualFold(filepath.Ext(path), ".gltf") {
		for _, b := range doc.Buffers {
			b.EmbeddedResource()
		}
		enc.SetJSONIndent("", "  ")
	} else {
		enc.AsBinary = true
	}

	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

func materialToGLTF(mat Material) *gltf.Material {
	color := mat.BaseColor
	return &gltf.Material{
		Name: mat.Name,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &color,
			MetallicFactor:  gltf.Float(mat.Metallic),
			RoughnessFactor: gltf.Float(mat.Roughness),
		},
	}
}

func surfaceAttributes(sm *spheres.Mesh, s spheres.Surface) (positions, normals [][3]float32) {
	positions = make([][3]float32, s.VertexCount)
	normals = make([][3]float32, s.VertexCount)
	for i := range s.VertexCount {
		v := sm.Vertices[(s.FirstVertex+i)*spheres.VertexStride:]
		positions[i] = [3]float32{v[0], v[1], v[2]}
		normals[i] = [3]float32{v[3], v[4], v[5]}
	}
	return positions, normals
}

// surfaceIndices rebases a surface's indices to its first vertex, keeping
// the mesh's index width.
func surfaceIndices(sm *spheres.Mesh, s spheres.Surface) any {
	base := uint32(s.FirstVertex)
	switch sm.Indices.Width() {
	case spheres.IndexUint8:
		return rebase[uint8](sm.Indices, s, base)
	case spheres.IndexUint16:
		return rebase[uint16](sm.Indices, s, base)
	default:
		return rebase[uint32](sm.Indices, s, base)
	}
}

func rebase[T uint8 | uint16 | uint32](ib spheres.IndexBuffer, s spheres.Surface, base uint32) []T {
	out := make([]T, s.IndexCount)
	for i := range out {
		out[i] = T(ib.At(s.FirstIndex+i) - base)
	}
	return out
}
