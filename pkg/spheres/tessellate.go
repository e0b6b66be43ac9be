package spheres

import (
	"math"

	"github.com/taigrr/spheremesh/pkg/math3d"
)

// VertexStride is the number of float32 values per vertex:
// position (3) then normal (3).
const VertexStride = 6

// Cap describes one latitude/longitude grid running from StartAngle to the
// south pole of an aligned sphere.
type Cap struct {
	Sphere         Sphere
	StartAngle     float64
	RadialSegments int
	HeightSegments int
	Alignment      math3d.Mat3

	// BackFacing flips normals and winding so the surface faces the
	// sphere's center.
	BackFacing bool
}

// VertexCount is the number of vertices the cap emits.
func (c Cap) VertexCount() int {
	return c.RadialSegments * (c.HeightSegments + 1)
}

// IndexCount is the number of indices the cap emits.
func (c Cap) IndexCount() int {
	return c.RadialSegments * c.HeightSegments * 6
}

// Tessellate writes the cap into vertices starting at float offset
// vertexOffset (a multiple of VertexStride) and into indices starting at
// indexOffset. Indices are absolute: they are biased by vertexOffset /
// VertexStride so several caps can share one buffer pair. It returns the
// offsets just past what was written.
//
// The buffers must have room for c.VertexCount() and c.IndexCount() more
// elements; writing past them panics.
func Tessellate(c Cap, vertices []float32, indices IndexBuffer, vertexOffset, indexOffset int) (int, int) {
	radial := c.RadialSegments
	base := uint32(vertexOffset / VertexStride)

	var deltaPolar float64
	if c.HeightSegments > 0 {
		deltaPolar = (math.Pi - c.StartAngle) / float64(c.HeightSegments)
	}
	deltaAzimuth := 2 * math.Pi / float64(radial)

	iv, ii := vertexOffset, indexOffset
	for ring := 0; ring <= c.HeightSegments; ring++ {
		sinP, cosP := math.Sincos(c.StartAngle + float64(ring)*deltaPolar)

		for col := range radial {
			// Azimuth runs clockwise seen from +Y; this fixes which
			// triangle order faces outward.
			sinA, cosA := math.Sincos(float64(col) * deltaAzimuth)
			dir := c.Alignment.MulVec3(math3d.V3(sinP*cosA, cosP, -sinP*sinA))

			normal := dir
			if c.BackFacing {
				normal = dir.Negate()
			}
			putVertex(vertices[iv:iv+VertexStride], c.Sphere.Center.Add(dir.Scale(c.Sphere.Radius)), normal)
			iv += VertexStride

			if ring == c.HeightSegments {
				continue
			}

			// a-b on this ring, c-d on the next one
			a := base + uint32(ring*radial+col)
			b := base + uint32(ring*radial+(col+1)%radial)
			cc := a + uint32(radial)
			d := b + uint32(radial)

			if c.BackFacing {
				ii = putTriangle(indices, ii, a, d, cc)
				ii = putTriangle(indices, ii, a, b, d)
			} else {
				ii = putTriangle(indices, ii, a, cc, d)
				ii = putTriangle(indices, ii, a, d, b)
			}
		}
	}

	return iv, ii
}

func putVertex(dst []float32, pos, normal math3d.Vec3) {
	dst[0] = float32(pos.X)
	dst[1] = float32(pos.Y)
	dst[2] = float32(pos.Z)
	dst[3] = float32(normal.X)
	dst[4] = float32(normal.Y)
	dst[5] = float32(normal.Z)
}

func putTriangle(indices IndexBuffer, at int, i0, i1, i2 uint32) int {
	indices.Set(at, i0)
	indices.Set(at+1, i1)
	indices.Set(at+2, i2)
	return at + 3
}
