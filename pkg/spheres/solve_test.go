package spheres

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/spheremesh/pkg/math3d"
)

func TestClampResolution(t *testing.T) {
	tests := []struct {
		in          float64
		want        int
		wantClamped bool
	}{
		{32, 32, false},
		{4, 4, false},
		{4.1, 5, false},
		{3.2, 4, true},
		{0, 4, true},
		{-10, 4, true},
		{math.NaN(), 4, true},
		{MaxResolution, MaxResolution, false},
		{1e19, MaxResolution, false},
		{1e300, MaxResolution, false},
		{math.Inf(1), MaxResolution, false},
	}
	for _, tc := range tests {
		got, clamped := ClampResolution(tc.in)
		assert.Equal(t, tc.want, got, "ClampResolution(%v)", tc.in)
		assert.Equal(t, tc.wantClamped, clamped, "ClampResolution(%v) clamped", tc.in)
	}
}

func TestMaxResolutionFitsUint32Indices(t *testing.T) {
	// Disjoint pairs are the worst case: both spheres get ceil(n/2) rings.
	for _, n := range []int{MaxResolution - 1, MaxResolution} {
		p := Solve(NewSphere(0, 0, 0, 1), NewSphere(5, 0, 0, 1), float64(n))
		assert.LessOrEqual(t, p.VertexCount(), 1<<32, "resolution %d", n)
		assert.Equal(t, IndexUint32, IndexWidthFor(p.VertexCount()))
	}

	// Intersecting caps never have more rings than segments.
	p := Solve(NewSphere(0, 0, 0, 2), NewSphere(3, 0, 0, 2), MaxResolution)
	assert.LessOrEqual(t, p.VertexCount(), 1<<32)
	assert.Positive(t, p.RadialSegments)
}

func TestIntersects(t *testing.T) {
	tests := []struct {
		name      string
		r1, r2, d float64
		want      bool
	}{
		{"overlapping", 2, 2, 3, true},
		{"unequal radii", 3, 1, 3, true},
		{"touching outside", 1, 1, 2, false},
		{"disjoint", 1, 1, 5, false},
		{"nested", 5, 1, 1, false},
		{"touching inside", 5, 1, 4, false},
		{"concentric", 2, 2, 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Intersects(tc.r1, tc.r2, tc.d))
		})
	}
}

func TestSolveIntersecting(t *testing.T) {
	p := Solve(NewSphere(0, 0, 0, 2), NewSphere(3, 0, 0, 2), 32)

	require.True(t, p.Intersecting)
	assert.Equal(t, 32, p.RadialSegments)
	assert.InDelta(t, 3.0, p.CenterDistance, 1e-12)
	assert.InDelta(t, math.Acos(0.75), p.StartAngle1, 1e-12)
	assert.InDelta(t, math.Pi-math.Acos(0.75), p.StartAngle2, 1e-12)
	assert.Equal(t, 25, p.HeightSegments1)
	assert.Equal(t, 8, p.HeightSegments2)
	assert.Equal(t, 32*(25+8+2), p.VertexCount())
	assert.Equal(t, 32*(25+8)*6, p.IndexCount())
}

func TestSolveStartAnglesMeetOnCircle(t *testing.T) {
	pairs := [][2]Sphere{
		{NewSphere(0, 0, 0, 2), NewSphere(3, 0, 0, 2)},
		{NewSphere(1, -2, 0.5, 3), NewSphere(2, 0, 1, 1.5)},
		{NewSphere(0, 0, 0, 1), NewSphere(0, 0, -1.2, 0.9)},
		{NewSphere(-4, 4, 4, 10), NewSphere(2, -1, 3, 4)},
	}
	for _, pair := range pairs {
		p := Solve(pair[0], pair[1], 16)
		require.True(t, p.Intersecting, "%v", pair)

		r1, r2 := pair[0].Radius, pair[1].Radius
		a1, a2 := p.StartAngle1, p.StartAngle2

		// Both caps start on the same circle: same radius, same offset
		// along the axis.
		assert.InDelta(t, r1*math.Sin(a1), r2*math.Sin(a2), 1e-9)
		assert.InDelta(t, p.CenterDistance, r1*math.Cos(a1)-r2*math.Cos(a2), 1e-9)
	}
}

func TestSolveSymmetry(t *testing.T) {
	a := NewSphere(1, 2, 3, 2.5)
	b := NewSphere(2, 1, 2, 1.5)

	ab := Solve(a, b, 24)
	ba := Solve(b, a, 24)
	require.True(t, ab.Intersecting)
	require.True(t, ba.Intersecting)

	assert.InDelta(t, math.Pi-ab.StartAngle2, ba.StartAngle1, 1e-12)
	assert.InDelta(t, math.Pi-ba.StartAngle2, ab.StartAngle1, 1e-12)
}

func TestSolveNonIntersecting(t *testing.T) {
	tests := []struct {
		name   string
		s1, s2 Sphere
	}{
		{"disjoint", NewSphere(0, 0, 0, 1), NewSphere(5, 0, 0, 1)},
		{"nested", NewSphere(0, 0, 0, 5), NewSphere(1, 0, 0, 1)},
		{"concentric", NewSphere(1, 1, 1, 2), NewSphere(1, 1, 1, 2)},
		{"touching", NewSphere(0, 0, 0, 1), NewSphere(0, 2, 0, 1)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := Solve(tc.s1, tc.s2, 9)
			assert.False(t, p.Intersecting)
			assert.Zero(t, p.StartAngle1)
			assert.Zero(t, p.StartAngle2)
			assert.Equal(t, 5, p.HeightSegments1)
			assert.Equal(t, 5, p.HeightSegments2)
			assert.Equal(t, math3d.Identity3(), p.Alignment)

			caps := p.Caps()
			assert.False(t, caps[0].BackFacing)
			assert.False(t, caps[1].BackFacing)

			_, _, _, ok := p.IntersectionCircle()
			assert.False(t, ok)
		})
	}
}

func TestAlignmentPointsAtSecondSphere(t *testing.T) {
	pairs := [][2]Sphere{
		{NewSphere(0, 0, 0, 2), NewSphere(3, 0, 0, 2)},
		{NewSphere(0, 0, 0, 2), NewSphere(0, 3, 0, 2)},
		{NewSphere(0, 0, 0, 2), NewSphere(0, -3, 0, 2)},
		{NewSphere(0, 0, 0, 2), NewSphere(0, 0, 3, 2)},
		{NewSphere(1, -2, 0.5, 3), NewSphere(2, 0, 1, 1.5)},
		{NewSphere(-4, 4, 4, 10), NewSphere(2, -1, 3, 4)},
	}
	for _, pair := range pairs {
		p := Solve(pair[0], pair[1], 8)
		require.True(t, p.Intersecting)

		want := pair[1].Center.Sub(pair[0].Center).Normalize()
		got := p.Alignment.MulVec3(math3d.Up())
		assert.InDelta(t, want.X, got.X, 1e-12, "%v", pair)
		assert.InDelta(t, want.Y, got.Y, 1e-12, "%v", pair)
		assert.InDelta(t, want.Z, got.Z, 1e-12, "%v", pair)

		// Proper rotation: orthonormal and right-handed.
		assert.InDelta(t, 1.0, p.Alignment.Determinant(), 1e-12)
		rtr := p.Alignment.Transpose().Mul(p.Alignment)
		id := math3d.Identity3()
		for i := range rtr {
			assert.InDelta(t, id[i], rtr[i], 1e-12)
		}
	}
}

func TestIntersectionCircle(t *testing.T) {
	s1, s2 := NewSphere(1, -2, 0.5, 3), NewSphere(2, 0, 1, 1.5)
	p := Solve(s1, s2, 16)

	center, axis, radius, ok := p.IntersectionCircle()
	require.True(t, ok)
	assert.InDelta(t, 1.0, axis.Len(), 1e-12)

	// Any point on the circle lies on both spheres.
	perp := axis.Cross(math3d.V3(1, 0, 0))
	if perp.Len() < 1e-6 {
		perp = axis.Cross(math3d.V3(0, 0, 1))
	}
	onCircle := center.Add(perp.Normalize().Scale(radius))
	assert.InDelta(t, s1.Radius, onCircle.Distance(s1.Center), 1e-9)
	assert.InDelta(t, s2.Radius, onCircle.Distance(s2.Center), 1e-9)
}
