package math3d

import (
	"testing"
)

// framing mirrors the model transform applied before tracing.
func framing() Mat4 {
	return Translate(V3(0, 0, -3)).Mul(ScaleUniform(0.5)).Mul(Translate(V3(-1, -2, -3)))
}

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Translate(V3(1, 2, 3))
	m2 := RotateY(0.5)

	for b.Loop() {
		_ = m1.Mul(m2)
	}
}

func BenchmarkMat4MulVec3(b *testing.B) {
	m := framing()
	v := V3(1, 2, 3)

	for b.Loop() {
		_ = m.MulVec3(v)
	}
}

func BenchmarkMat4MulVec3Dir(b *testing.B) {
	m := framing().Inverse()
	v := V3(0.1, -0.2, -1)

	for b.Loop() {
		_ = m.MulVec3Dir(v)
	}
}

func BenchmarkMat4Inverse(b *testing.B) {
	m := framing().Mul(RotateY(0.5))

	for b.Loop() {
		_ = m.Inverse()
	}
}

func BenchmarkMat4IsIdentity(b *testing.B) {
	m := Identity()

	for b.Loop() {
		_ = m.IsIdentity()
	}
}

func BenchmarkVec3Normalize(b *testing.B) {
	v := V3(1, 2, 3)

	for b.Loop() {
		_ = v.Normalize()
	}
}

func BenchmarkVec3Cross(b *testing.B) {
	v1 := V3(1, 2, 3)
	v2 := V3(4, 5, 6)

	for b.Loop() {
		_ = v1.Cross(v2)
	}
}

func BenchmarkVec3Component(b *testing.B) {
	v := V3(1, 2, 3)
	axis := AxisX

	for b.Loop() {
		_ = v.Component(axis)
		axis = axis.Next()
	}
}

func BenchmarkLookAt(b *testing.B) {
	eye := V3(0, 0, 5)
	target := V3(0, 0, 0)
	up := V3(0, 1, 0)

	for b.Loop() {
		_ = LookAt(eye, target, up)
	}
}
