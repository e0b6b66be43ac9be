package spheres

import (
	"math"

	"github.com/taigrr/spheremesh/pkg/math3d"
)

// SpherePair is the classified pair of input spheres together with the
// parameters each sphere is tessellated with.
type SpherePair struct {
	First, Second Sphere

	// RadialSegments is the clamped resolution, shared by both spheres so
	// their rings meet vertex for vertex on the intersection circle.
	RadialSegments int

	CenterDistance float64
	Intersecting   bool

	// Polar angles, measured from the pole set by Alignment, at which each
	// sphere's tessellation begins. Both are 0 when not intersecting.
	StartAngle1, StartAngle2 float64

	HeightSegments1, HeightSegments2 int

	// Alignment rotates the canonical +Y pole onto the unit vector from the
	// first center toward the second. Identity when not intersecting.
	Alignment math3d.Mat3
}

// Solve classifies two spheres and derives their cap parameters.
// It never fails: coincident centers and nested spheres fall through to
// the non-intersecting branch.
func Solve(s1, s2 Sphere, resolution float64) SpherePair {
	segments, _ := ClampResolution(resolution)

	chord := s1.Center.Sub(s2.Center)
	d := chord.Len()

	p := SpherePair{
		First:          s1,
		Second:         s2,
		RadialSegments: segments,
		CenterDistance: d,
		Alignment:      math3d.Identity3(),
	}

	r1, r2 := s1.Radius, s2.Radius
	if !Intersects(r1, r2, d) {
		half := (segments + 1) / 2
		p.HeightSegments1 = half
		p.HeightSegments2 = half
		return p
	}

	p.Intersecting = true
	p.StartAngle1 = math.Acos(clampUnit((d*d + r1*r1 - r2*r2) / (2 * r1 * d)))
	p.StartAngle2 = math.Pi - math.Acos(clampUnit((d*d+r2*r2-r1*r1)/(2*r2*d)))
	p.HeightSegments1 = capHeightSegments(segments, p.StartAngle1)
	p.HeightSegments2 = capHeightSegments(segments, p.StartAngle2)
	p.Alignment = alignment(chord, d)
	return p
}

// Intersects reports whether spheres of radius r1 and r2 whose centers are
// d apart cut each other. Touching, disjoint, nested and concentric spheres
// do not.
func Intersects(r1, r2, d float64) bool {
	if d == 0 {
		return false
	}
	return d < r1+r2 && d+math.Min(r1, r2) > math.Max(r1, r2)
}

// capHeightSegments scales the ring count with the angular span left to
// tessellate, keeping ring spacing close to that of a full sphere.
func capHeightSegments(resolution int, startAngle float64) int {
	return int(math.Ceil(float64(resolution) * (math.Pi - startAngle) / math.Pi))
}

// alignment builds the rotation whose +Y column is -chord/d, that is the
// direction from the first sphere toward the second.
func alignment(chord math3d.Vec3, d float64) math3d.Mat3 {
	polar := math.Acos(clampUnit(chord.Y / d))
	azimuth := math.Atan2(chord.X, chord.Z)

	sinA, cosA := math.Sincos(azimuth)
	sinP, cosP := math.Sincos(polar)

	return math3d.Mat3FromCols(
		math3d.V3(cosA, 0, -sinA),
		math3d.V3(-sinA*sinP, -cosP, -cosA*sinP),
		math3d.V3(-sinA*cosP, sinP, -cosA*cosP),
	)
}

func clampUnit(x float64) float64 {
	return math.Min(math.Max(x, -1), 1)
}

// Caps returns the tessellation parameters for both spheres, in emission order.
func (p SpherePair) Caps() [2]Cap {
	return [2]Cap{
		{
			Sphere:         p.First,
			StartAngle:     p.StartAngle1,
			RadialSegments: p.RadialSegments,
			HeightSegments: p.HeightSegments1,
			Alignment:      p.Alignment,
		},
		{
			Sphere:         p.Second,
			StartAngle:     p.StartAngle2,
			RadialSegments: p.RadialSegments,
			HeightSegments: p.HeightSegments2,
			Alignment:      p.Alignment,
			BackFacing:     p.Intersecting,
		},
	}
}

// VertexCount is the number of vertices both caps emit.
func (p SpherePair) VertexCount() int {
	return p.RadialSegments * (p.HeightSegments1 + p.HeightSegments2 + 2)
}

// IndexCount is the number of indices both caps emit.
func (p SpherePair) IndexCount() int {
	return p.RadialSegments * (p.HeightSegments1 + p.HeightSegments2) * 6
}

// IntersectionCircle returns the center, unit axis and radius of the circle
// where the spheres meet. ok is false when they do not intersect.
func (p SpherePair) IntersectionCircle() (center, axis math3d.Vec3, radius float64, ok bool) {
	if !p.Intersecting {
		return math3d.Vec3{}, math3d.Vec3{}, 0, false
	}
	axis = p.Alignment.Col(1)
	r1 := p.First.Radius
	center = p.First.Center.Add(axis.Scale(r1 * math.Cos(p.StartAngle1)))
	return center, axis, r1 * math.Sin(p.StartAngle1), true
}
