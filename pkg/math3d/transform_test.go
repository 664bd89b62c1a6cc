package math3d

import (
	"math"
	"testing"
)

func TestTransformApply(t *testing.T) {
	tr := NewTransform(V3(5, -5, -5), QuatFromAxisAngle(Up(), math.Pi/2), V3(2, 1, 1))

	// (1,0,0) scaled to (2,0,0), rotated to (0,0,-2), translated
	got := tr.Apply(V3(1, 0, 0))
	if want := V3(5, -5, -7); !got.ApproxEqual(want, eps) {
		t.Errorf("Apply = %v, want %v", got, want)
	}
}

func TestTransformMatrixMatchesApply(t *testing.T) {
	tr := NewTransform(V3(1, 2, 3), QuatFromEuler(0.4, -1.2, 0.9), V3(2, 0.5, 3))
	m := tr.Matrix()

	points := []Vec3{V3(0, 0, 0), V3(1, -1, 1), V3(-3, 2, 0.5)}
	for _, p := range points {
		if got, want := m.MulVec3(p), tr.Apply(p); !got.ApproxEqual(want, 1e-9) {
			t.Errorf("Matrix().MulVec3(%v) = %v, want %v", p, got, want)
		}
	}
}

func TestTransformRotateRenormalizes(t *testing.T) {
	tr := IdentityTransform()
	// Deliberately non-unit step so drift is visible without renormalization
	step := QuatFromAxisAngle(V3(0.3, 1, -0.2), 0.01).Scale(1.001)

	for range renormalizeEvery {
		tr.Rotate(step)
	}
	if n := tr.Rotation.Norm(); math.Abs(n-1) > 1e-12 {
		t.Errorf("norm after %d rotations = %v, want 1", renormalizeEvery, n)
	}
}

func TestTransformTranslate(t *testing.T) {
	tr := IdentityTransform()
	tr.Translate(V3(1, 2, 3))
	tr.Translate(V3(-1, 0, 1))
	if want := V3(0, 2, 4); tr.Position != want {
		t.Errorf("Position = %v, want %v", tr.Position, want)
	}
}
