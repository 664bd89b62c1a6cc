package scene

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/taigrr/asciithree/pkg/math3d"
)

func TestDecodeKeepsCameraDefaults(t *testing.T) {
	f, err := Decode(strings.NewReader(`{"camera": {"width": 30}, "shapes": [{"mesh": "cube"}]}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	want := DefaultCameraSpec()
	want.Width = 30
	if f.Camera.Width != 30 || f.Camera.Height != want.Height || f.Camera.Levels != want.Levels || !f.Camera.Perspective {
		t.Errorf("camera = %+v, want %+v", f.Camera, want)
	}
	if f.FPS != DefaultFPS {
		t.Errorf("FPS = %d, want %d", f.FPS, DefaultFPS)
	}
}

func TestDecodeInvalid(t *testing.T) {
	if _, err := Decode(strings.NewReader(`{"shapes": 3}`)); err == nil {
		t.Error("expected decode error")
	}
}

func TestBuildDemo(t *testing.T) {
	s, err := Demo().Build("")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(s.Shapes()) != 3 {
		t.Fatalf("shapes = %d, want 3", len(s.Shapes()))
	}
	if s.Shape("slab").Mesh != s.Shape("cube").Mesh {
		t.Error("cube mesh loaded twice")
	}
	if !s.Shape("tetrahedron").Hide || s.Shape("cube").Hide {
		t.Error("hidden flags not applied")
	}
	if got := s.Shape("slab").Transform.Scale; got != math3d.V3(5, 2.5, 5) {
		t.Errorf("slab scale = %v", got)
	}

	cam := s.MainCamera()
	if cam == nil || cam.Name != "main" {
		t.Fatal("no main camera")
	}
	if want := math3d.V3(0, -0.5, -math.Sqrt(3)/2); !cam.ViewingNormal().ApproxEqual(want, 1e-12) {
		t.Errorf("ViewingNormal = %v, want %v", cam.ViewingNormal(), want)
	}

	f, err := s.Frame()
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if f.Width != 70 || f.Height != 50 || f.Lit() == 0 {
		t.Errorf("frame %dx%d with %d lit cells", f.Width, f.Height, f.Lit())
	}
}

func TestBuildBehaviorsAndLights(t *testing.T) {
	f := Demo()
	f.Shapes[0].Behaviors = []BehaviorSpec{{Type: "spin", Rate: 0.1}, {Type: "Oscillate", Amount: 1}}
	f.Camera.Behaviors = []BehaviorSpec{{Type: "orbit", Rate: 0.05}}
	f.Lights = []LightSpec{{Position: [3]float64{0, 10, 0}, Intensity: 1}}
	look := [3]float64{0, 0, 0}
	f.Camera.LookAt = &look

	s, err := f.Build("")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(s.Lights()) != 1 || s.Lights()[0].Name != "light0" {
		t.Errorf("lights = %v", s.Lights())
	}
	want := math3d.V3(0, -25, -30).Normalize()
	if got := s.MainCamera().ViewingNormal(); !got.ApproxEqual(want, 1e-12) {
		t.Errorf("look_at normal = %v, want %v", got, want)
	}

	s.Step()
	if s.Shape("cube").Transform.Rotation == math3d.IdentityQuat() {
		t.Error("spin behavior did not run")
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*File)
		wantErr error
	}{
		{"unknown mesh", func(f *File) { f.Shapes[0].Mesh = "teapot.stl" }, ErrUnknownMesh},
		{"unknown behavior", func(f *File) {
			f.Shapes[0].Behaviors = []BehaviorSpec{{Type: "teleport"}}
		}, ErrUnknownBehavior},
		{"bad camera", func(f *File) { f.Camera.Antialias = 0 }, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := Demo()
			tc.mutate(f)
			_, err := f.Build("")
			if err == nil {
				t.Fatal("expected error")
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Errorf("error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestSaveLoadRelativeModel(t *testing.T) {
	dir := t.TempDir()
	obj := "v 0 0 0\nv 4 0 0\nv 0 2 0\nf 1 2 3\n"
	if err := os.WriteFile(filepath.Join(dir, "tri.obj"), []byte(obj), 0o644); err != nil {
		t.Fatal(err)
	}

	f := Demo()
	f.Shapes = append(f.Shapes, ShapeSpec{Name: "tri", Mesh: "tri.obj", Fit: 2})
	path := filepath.Join(dir, "scene.json")
	if err := Save(path, f); err != nil {
		t.Fatalf("Save: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	tri := s.Shape("tri")
	if tri == nil {
		t.Fatal("tri shape missing")
	}
	if got := tri.Mesh.Size(); !got.ApproxEqual(math3d.V3(2, 1, 0), 1e-12) {
		t.Errorf("fitted size = %v, want (2, 1, 0)", got)
	}
	if len(s.Shapes()) != 4 {
		t.Errorf("shapes = %d, want 4", len(s.Shapes()))
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing scene file")
	}
}
