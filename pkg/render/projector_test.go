package render

import (
	"math"
	"testing"

	"github.com/taigrr/asciithree/pkg/math3d"
)

// identityView returns a view from an unrotated camera at the origin,
// looking down +Z.
func identityView(t *testing.T, perspective bool) View {
	t.Helper()
	cfg := DefaultCameraConfig()
	cfg.Width, cfg.Height = 100, 100
	cfg.Perspective = perspective
	cfg.FocalDepth = 10
	cam, err := NewCamera(cfg, math3d.IdentityTransform())
	if err != nil {
		t.Fatalf("NewCamera: %v", err)
	}
	return cam.View()
}

func TestProjectOrthographicOrigin(t *testing.T) {
	view := createTestCamera(t, 100, 100, false, 1).View()

	pt, ok := view.Project(math3d.Zero3())
	if !ok {
		t.Fatal("Project(origin) not ok")
	}
	if want := (Point{50, 50}); pt != want {
		t.Errorf("Project(origin) = %v, want %v", pt, want)
	}
}

func TestProjectOrthographicIgnoresDepth(t *testing.T) {
	view := createTestCamera(t, 100, 100, false, 1).View()

	a, _ := view.Project(math3d.V3(7, -3, 0))
	b, _ := view.Project(math3d.V3(7, -3, -40))
	if a != b {
		t.Errorf("orthographic projection depends on depth: %v vs %v", a, b)
	}
	// Camera looks down -Z, so +X is screen right and +Y is screen up
	if want := (Point{57, 53}); a != want {
		t.Errorf("Project = %v, want %v", a, want)
	}
}

func TestProjectPerspective(t *testing.T) {
	view := identityView(t, true)

	tests := []struct {
		name string
		p    math3d.Vec3
		want Point
	}{
		{"on focal plane", math3d.V3(1, 2, 10), Point{49, 48}},
		{"twice as far", math3d.V3(2, 4, 20), Point{49, 48}},
		{"on axis", math3d.V3(0, 0, 33), Point{50, 50}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pt, ok := view.Project(tc.p)
			if !ok {
				t.Fatalf("Project(%v) not ok", tc.p)
			}
			if pt != tc.want {
				t.Errorf("Project(%v) = %v, want %v", tc.p, pt, tc.want)
			}
		})
	}
}

func TestProjectPerspectiveDegenerate(t *testing.T) {
	view := identityView(t, true)

	// Point in the camera's side plane
	pt, ok := view.Project(math3d.V3(3, 0, 0))
	if ok {
		t.Errorf("Project of side-plane point = %v, want not ok", pt)
	}
}

func TestProjectZoomAndAntialias(t *testing.T) {
	cam := createTestCamera(t, 100, 100, false, 3)
	cam.Zoom = 2
	view := cam.View()

	if view.Width != 300 || view.Height != 300 {
		t.Fatalf("supersampled size = %dx%d, want 300x300", view.Width, view.Height)
	}
	pt, _ := view.Project(math3d.V3(1, 1, 0))
	if want := (Point{156, 144}); pt != want {
		t.Errorf("Project = %v, want %v", pt, want)
	}
}

func TestInBounds(t *testing.T) {
	view := createTestCamera(t, 10, 5, false, 2).View()

	tests := []struct {
		pt   Point
		want bool
	}{
		{Point{0, 0}, true},
		{Point{19, 9}, true},
		{Point{20, 9}, false},
		{Point{19, 10}, false},
		{Point{-1, 0}, false},
	}
	for _, tc := range tests {
		if got := view.InBounds(tc.pt); got != tc.want {
			t.Errorf("InBounds(%v) = %v, want %v", tc.pt, got, tc.want)
		}
	}
}

func TestUnprojectInvertsProject(t *testing.T) {
	view := identityView(t, true)

	// Cell (49, 48) came from the focal-plane point (1, 2, 10)
	ray := view.Unproject(49, 48)
	if want := math3d.V3(1, 2, 10); !ray.ApproxEqual(want, 1e-12) {
		t.Errorf("Unproject = %v, want %v", ray, want)
	}
}

func TestBasisSolvesTiltedCamera(t *testing.T) {
	cam := createTestCamera(t, 100, 100, false, 1)
	cam.SetRotation(math3d.QuatFromEuler(0.4, 2.2, -0.3))
	view := cam.View()

	offset := view.Horizontal.Scale(3).Add(view.Vertical.Scale(-7))
	u, w := view.Basis(offset)
	if math.Abs(u-3) > 1e-9 || math.Abs(w+7) > 1e-9 {
		t.Errorf("Basis = (%v, %v), want (3, -7)", u, w)
	}
}
