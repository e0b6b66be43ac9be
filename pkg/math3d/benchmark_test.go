package math3d

import (
	"testing"
)

func BenchmarkMat3MulVec3(b *testing.B) {
	m := Mat3FromCols(V3(0, 0, -1), V3(0, 1, 0), V3(1, 0, 0))
	v := V3(1, 2, 3)

	for b.Loop() {
		_ = m.MulVec3(v)
	}
}

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Translate(V3(1, 2, 3))
	m2 := RotateY(0.5)

	for b.Loop() {
		_ = m1.Mul(m2)
	}
}

func BenchmarkMat4MulVec4(b *testing.B) {
	m := Translate(V3(1, 2, 3)).Mul(RotateY(0.5))
	v := V4FromV3(V3(1, 2, 3), 1)

	for b.Loop() {
		_ = m.MulVec4(v)
	}
}

func BenchmarkVec3Normalize(b *testing.B) {
	v := V3(1, 2, 3)

	for b.Loop() {
		_ = v.Normalize()
	}
}

func BenchmarkViewProjection(b *testing.B) {
	// Orbit view as the camera builds it
	view := RotateX(0.2).Mul(RotateY(0.4)).Mul(Translate(V3(0, -10, -50)))
	proj := Perspective(0.7, 1.333, 0.1, 1000.0)

	for b.Loop() {
		_ = proj.Mul(view)
	}
}
