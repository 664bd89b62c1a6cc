package scene

import (
	"math"
	"testing"

	"github.com/taigrr/asciithree/pkg/math3d"
)

func TestOscillate(t *testing.T) {
	sh := NewShape("s", nil, math3d.NewTransform(math3d.V3(1, 2, 3), math3d.IdentityQuat(), math3d.One3()))
	sh.AddBehavior(&Oscillate{Amount: 2})

	tests := []struct {
		tick int
		want math3d.Vec3
	}{
		{0, math3d.V3(1, 2, 3)},
		{1, math3d.V3(1, 2, 3).Add(math3d.One3().Scale(2 * math.Sin(1)))},
		{4, math3d.V3(1, 2, 3).Add(math3d.One3().Scale(2 * math.Sin(4)))},
	}
	for _, tc := range tests {
		sh.Tick(tc.tick)
		if !sh.Transform.Position.ApproxEqual(tc.want, 1e-12) {
			t.Errorf("tick %d: position = %v, want %v", tc.tick, sh.Transform.Position, tc.want)
		}
	}
}

func TestSpinFullTurn(t *testing.T) {
	sh := NewShape("s", nil, math3d.IdentityTransform())
	sh.AddBehavior(&Spin{Axis: math3d.Up(), Rate: math.Pi / 50})

	for i := range 100 {
		sh.Tick(i)
	}

	if got := sh.Transform.Rotation; !got.SameRotation(math3d.IdentityQuat(), 1e-9) {
		t.Errorf("after a full turn rotation = %v, want identity", got)
	}
	if n := sh.Transform.Rotation.Norm(); math.Abs(n-1) > 1e-12 {
		t.Errorf("rotation norm = %v, want 1", n)
	}
}

func TestOrbitKeepsDistance(t *testing.T) {
	target := math3d.V3(0, 0, 0)
	l := NewLight("l", math3d.V3(0, 3, 10), 1)
	l.AddBehavior(&Orbit{Target: target, Rate: 0.1})

	for i := range 40 {
		l.Tick(i)
		if d := l.Transform.Position.Distance(target); math.Abs(d-math.Sqrt(109)) > 1e-9 {
			t.Fatalf("tick %d: distance = %v, want %v", i, d, math.Sqrt(109))
		}
		if y := l.Transform.Position.Y; math.Abs(y-3) > 1e-9 {
			t.Fatalf("tick %d: height = %v, want 3", i, y)
		}
	}
}

func TestSpringSettles(t *testing.T) {
	target := math3d.V3(4, -2, 1)
	sh := NewShape("s", nil, math3d.IdentityTransform())
	sp := NewSpring(target, 60, 6, 1)
	sh.AddBehavior(sp)

	for i := range 600 {
		sh.Tick(i)
	}

	if !sp.Settled(&sh.Transform, 1e-3) {
		t.Errorf("position = %v, want settled at %v", sh.Transform.Position, target)
	}
}

func TestCameraBehavior(t *testing.T) {
	s := createTestScene(t)
	cam := s.MainCamera()
	cam.AddBehavior(UpdateFunc(func(_ int, tr *math3d.Transform) {
		tr.Translate(math3d.V3(0, 1, 0))
	}))

	s.Step()
	s.Step()

	if y := cam.Transform.Position.Y; y != 2 {
		t.Errorf("camera y = %v, want 2", y)
	}
	if cam.Pose() != &cam.Camera.Transform {
		t.Error("Pose does not point at the camera transform")
	}
}
