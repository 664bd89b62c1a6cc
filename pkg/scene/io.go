package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/taigrr/asciithree/pkg/math3d"
	"github.com/taigrr/asciithree/pkg/models"
	"github.com/taigrr/asciithree/pkg/render"
)

var (
	// ErrUnknownMesh is returned for a mesh reference that is neither a
	// built-in primitive nor an .obj, .glb or .gltf file.
	ErrUnknownMesh = errors.New("scene: unknown mesh")

	// ErrUnknownBehavior is returned for an unrecognized behavior type.
	ErrUnknownBehavior = errors.New("scene: unknown behavior")
)

// DefaultFPS is the step rate of scene files that do not set one.
const DefaultFPS = 10

// File is the JSON description of a scene. Vectors are [x, y, z] arrays
// and rotations are Euler angles in radians.
type File struct {
	FPS    int         `json:"fps,omitempty"`
	Camera CameraSpec  `json:"camera"`
	Shapes []ShapeSpec `json:"shapes"`
	Lights []LightSpec `json:"lights,omitempty"`
}

// CameraSpec describes the main camera.
type CameraSpec struct {
	Width       int            `json:"width"`
	Height      int            `json:"height"`
	Zoom        float64        `json:"zoom"`
	Perspective bool           `json:"perspective"`
	FocalDepth  float64        `json:"focal_depth"`
	Levels      string         `json:"levels"`
	Antialias   int            `json:"antialias"`
	Position    [3]float64     `json:"position"`
	Rotation    [3]float64     `json:"rotation"`
	LookAt      *[3]float64    `json:"look_at,omitempty"`
	Behaviors   []BehaviorSpec `json:"behaviors,omitempty"`
}

// ShapeSpec describes one shape. Mesh is a primitive name ("cube",
// "tetrahedron") or a model path relative to the scene file.
type ShapeSpec struct {
	Name      string         `json:"name,omitempty"`
	Mesh      string         `json:"mesh"`
	Fit       float64        `json:"fit,omitempty"`
	Position  [3]float64     `json:"position"`
	Rotation  [3]float64     `json:"rotation"`
	Scale     *[3]float64    `json:"scale,omitempty"`
	Hidden    bool           `json:"hidden,omitempty"`
	Behaviors []BehaviorSpec `json:"behaviors,omitempty"`
}

// LightSpec describes one light.
type LightSpec struct {
	Name      string     `json:"name,omitempty"`
	Position  [3]float64 `json:"position"`
	Intensity float64    `json:"intensity"`
}

// BehaviorSpec describes a behavior. Type is one of oscillate, spin,
// orbit or spring; the other fields are read as that type needs them.
type BehaviorSpec struct {
	Type      string     `json:"type"`
	Amount    float64    `json:"amount,omitempty"`
	Axis      [3]float64 `json:"axis"`
	Rate      float64    `json:"rate,omitempty"`
	Target    [3]float64 `json:"target"`
	Frequency float64    `json:"frequency,omitempty"`
	Damping   float64    `json:"damping,omitempty"`
}

// DefaultCameraSpec returns the stock camera: 70×50 perspective, above and
// behind the origin, pitched down by 30 degrees.
func DefaultCameraSpec() CameraSpec {
	cfg := render.DefaultCameraConfig()
	return CameraSpec{
		Width:       cfg.Width,
		Height:      cfg.Height,
		Zoom:        cfg.Zoom,
		Perspective: cfg.Perspective,
		FocalDepth:  cfg.FocalDepth,
		Levels:      cfg.Levels,
		Antialias:   cfg.Antialias,
		Position:    [3]float64{0, 25, 30},
		Rotation:    [3]float64{math.Pi / 6, math.Pi, 0},
	}
}

// Demo returns the built-in scene: a cube at the origin with a flattened
// cube and a tetrahedron registered but hidden.
func Demo() *File {
	return &File{
		FPS:    DefaultFPS,
		Camera: DefaultCameraSpec(),
		Shapes: []ShapeSpec{
			{Name: "cube", Mesh: "cube", Scale: &[3]float64{5, 5, 5}},
			{Name: "slab", Mesh: "cube", Position: [3]float64{5, -5, -5}, Scale: &[3]float64{5, 2.5, 5}, Hidden: true},
			{Name: "tetrahedron", Mesh: "tetrahedron", Position: [3]float64{5, 5, 5}, Scale: &[3]float64{5, 5, 5}, Hidden: true},
		},
	}
}

// Decode reads a scene file from r. Camera fields that are absent keep
// their DefaultCameraSpec values.
func Decode(r io.Reader) (*File, error) {
	f := &File{FPS: DefaultFPS, Camera: DefaultCameraSpec()}
	if err := json.NewDecoder(r).Decode(f); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return f, nil
}

// ReadFile reads a scene file from disk.
func ReadFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene: %w", err)
	}
	defer fh.Close()
	return Decode(fh)
}

// Load reads a scene file and builds it, resolving model paths relative
// to the file.
func Load(path string) (*Scene, error) {
	f, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return f.Build(filepath.Dir(path))
}

// Save writes a scene file as indented JSON.
func Save(path string, f *File) error {
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create scene: %w", err)
	}
	defer fh.Close()

	enc := json.NewEncoder(fh)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	return nil
}

// Build creates a scene from the description. Model paths are resolved
// against dir; each distinct model is loaded once and shared.
func (f *File) Build(dir string) (*Scene, error) {
	s := New()
	fps := f.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}

	cam, err := render.NewCamera(f.Camera.Config(), f.Camera.Transform())
	if err != nil {
		return nil, err
	}
	if f.Camera.LookAt != nil {
		cam.LookAt(vec(*f.Camera.LookAt))
	}
	main := s.AddCamera("main", cam)
	for _, bs := range f.Camera.Behaviors {
		b, err := bs.Build(fps)
		if err != nil {
			return nil, fmt.Errorf("camera: %w", err)
		}
		main.AddBehavior(b)
	}

	meshes := make(map[string]*models.Mesh)
	for i, spec := range f.Shapes {
		ref := resolveMesh(dir, spec.Mesh)
		key := fmt.Sprintf("%s@%g", ref, spec.Fit)

		mesh, ok := meshes[key]
		if !ok {
			mesh, err = loadFitted(ref, spec.Fit)
			if err != nil {
				return nil, fmt.Errorf("shape %d: %w", i, err)
			}
			meshes[key] = mesh
		}

		name := spec.Name
		if name == "" {
			name = fmt.Sprintf("shape%d", i)
		}
		sh := s.NewShape(name, mesh, spec.Transform())
		sh.Hide = spec.Hidden
		for _, bs := range spec.Behaviors {
			b, err := bs.Build(fps)
			if err != nil {
				return nil, fmt.Errorf("shape %q: %w", name, err)
			}
			sh.AddBehavior(b)
		}
	}

	for i, spec := range f.Lights {
		name := spec.Name
		if name == "" {
			name = fmt.Sprintf("light%d", i)
		}
		s.AddLight(NewLight(name, vec(spec.Position), spec.Intensity))
	}
	return s, nil
}

// Config returns the render configuration of the camera.
func (c CameraSpec) Config() render.CameraConfig {
	return render.CameraConfig{
		Width:       c.Width,
		Height:      c.Height,
		Zoom:        c.Zoom,
		Perspective: c.Perspective,
		FocalDepth:  c.FocalDepth,
		Levels:      c.Levels,
		Antialias:   c.Antialias,
	}
}

// Transform returns the camera's starting pose.
func (c CameraSpec) Transform() math3d.Transform {
	return math3d.NewTransform(vec(c.Position), euler(c.Rotation), math3d.One3())
}

// Transform returns the shape's pose. A missing scale means unit scale.
func (s ShapeSpec) Transform() math3d.Transform {
	scale := math3d.One3()
	if s.Scale != nil {
		scale = vec(*s.Scale)
	}
	return math3d.NewTransform(vec(s.Position), euler(s.Rotation), scale)
}

// Build creates the described behavior. fps is the scene step rate, used
// by springs.
func (b BehaviorSpec) Build(fps int) (Behavior, error) {
	switch strings.ToLower(b.Type) {
	case "oscillate":
		return &Oscillate{Amount: b.Amount}, nil
	case "spin":
		axis := vec(b.Axis)
		if axis == math3d.Zero3() {
			axis = math3d.Up()
		}
		return &Spin{Axis: axis, Rate: b.Rate}, nil
	case "orbit":
		return &Orbit{Target: vec(b.Target), Rate: b.Rate}, nil
	case "spring":
		freq, damp := b.Frequency, b.Damping
		if freq <= 0 {
			freq = 4
		}
		if damp <= 0 {
			damp = 1
		}
		return NewSpring(vec(b.Target), fps, freq, damp), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBehavior, b.Type)
}

// LoadMesh returns a built-in primitive by name, or loads an .obj, .glb or
// .gltf file.
func LoadMesh(ref string) (*models.Mesh, error) {
	if m := models.Primitive(ref); m != nil {
		return m, nil
	}
	switch strings.ToLower(filepath.Ext(ref)) {
	case ".obj":
		return models.LoadOBJ(ref)
	case ".glb", ".gltf":
		return models.LoadGLTF(ref)
	}
	return nil, fmt.Errorf("%w: %q (use cube, tetrahedron, .obj, .glb or .gltf)", ErrUnknownMesh, ref)
}

// resolveMesh joins model paths onto dir, leaving primitive names and
// absolute paths alone.
func resolveMesh(dir, ref string) string {
	if models.Primitive(ref) != nil || filepath.IsAbs(ref) {
		return ref
	}
	return filepath.Join(dir, ref)
}

func loadFitted(ref string, fit float64) (*models.Mesh, error) {
	mesh, err := LoadMesh(ref)
	if err != nil {
		return nil, err
	}
	if fit > 0 {
		mesh.Fit(fit)
	}
	return mesh, nil
}

func vec(a [3]float64) math3d.Vec3 {
	return math3d.V3(a[0], a[1], a[2])
}

func euler(a [3]float64) math3d.Quat {
	return math3d.QuatFromEuler(a[0], a[1], a[2])
}
