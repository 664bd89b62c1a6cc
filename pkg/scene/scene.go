// Package scene holds the objects a frame is rendered from: shapes,
// cameras and lights, the behaviors that animate them, and a queue of
// updates that input goroutines post between frames.
package scene

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/taigrr/asciithree/pkg/math3d"
	"github.com/taigrr/asciithree/pkg/models"
	"github.com/taigrr/asciithree/pkg/render"
)

var (
	// ErrNoCamera is returned when rendering a scene with no camera.
	ErrNoCamera = errors.New("scene: no camera")

	// ErrUnknownCamera is returned when selecting a camera that is not
	// registered in the scene.
	ErrUnknownCamera = errors.New("scene: camera not in scene")
)

// Update is a change to the scene, applied between frames.
type Update func(s *Scene)

// Scene is an explicitly owned registry of shapes, cameras and lights.
// Registry methods are not safe for concurrent use; other goroutines
// change the scene by posting Updates.
type Scene struct {
	shapes  []*Shape
	cameras []*Camera
	lights  []*Light
	main    *Camera
	tick    int

	mu      sync.Mutex
	pending []Update
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{}
}

// AddShape registers a shape and returns it.
func (s *Scene) AddShape(sh *Shape) *Shape {
	s.shapes = append(s.shapes, sh)
	return sh
}

// NewShape creates a shape from mesh and registers it.
func (s *Scene) NewShape(name string, mesh *models.Mesh, transform math3d.Transform) *Shape {
	return s.AddShape(NewShape(name, mesh, transform))
}

// RemoveShape unregisters sh, reporting whether it was present.
func (s *Scene) RemoveShape(sh *Shape) bool {
	i := slices.Index(s.shapes, sh)
	if i < 0 {
		return false
	}
	s.shapes = slices.Delete(s.shapes, i, i+1)
	return true
}

// Shapes returns the registered shapes in submission order.
func (s *Scene) Shapes() []*Shape {
	return s.shapes
}

// Shape returns the first shape called name, or nil.
func (s *Scene) Shape(name string) *Shape {
	for _, sh := range s.shapes {
		if sh.Name == name {
			return sh
		}
	}
	return nil
}

// AddCamera registers a camera. The first camera added becomes the main
// camera.
func (s *Scene) AddCamera(name string, cam *render.Camera) *Camera {
	c := &Camera{Camera: cam, Name: name}
	s.cameras = append(s.cameras, c)
	if s.main == nil {
		s.main = c
	}
	return c
}

// Cameras returns the registered cameras.
func (s *Scene) Cameras() []*Camera {
	return s.cameras
}

// MainCamera returns the camera frames are rendered from, or nil.
func (s *Scene) MainCamera() *Camera {
	return s.main
}

// SetMainCamera selects a registered camera for rendering.
func (s *Scene) SetMainCamera(c *Camera) error {
	if !slices.Contains(s.cameras, c) {
		return ErrUnknownCamera
	}
	s.main = c
	return nil
}

// AddLight registers a light and returns it.
func (s *Scene) AddLight(l *Light) *Light {
	s.lights = append(s.lights, l)
	return l
}

// Lights returns the registered lights.
func (s *Scene) Lights() []*Light {
	return s.lights
}

// Objects returns every registered object: shapes, then lights, then
// cameras.
func (s *Scene) Objects() []Object {
	objs := make([]Object, 0, len(s.shapes)+len(s.lights)+len(s.cameras))
	for _, sh := range s.shapes {
		objs = append(objs, sh)
	}
	for _, l := range s.lights {
		objs = append(objs, l)
	}
	for _, c := range s.cameras {
		objs = append(objs, c)
	}
	return objs
}

// Post queues u to run at the start of the next Apply. It is safe to call
// from any goroutine.
func (s *Scene) Post(u Update) {
	s.mu.Lock()
	s.pending = append(s.pending, u)
	s.mu.Unlock()
}

// Apply runs every queued update in posting order. Updates posted while
// Apply runs wait for the next call.
func (s *Scene) Apply() int {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, u := range pending {
		u(s)
	}
	return len(pending)
}

// Step advances every object's behaviors by one tick.
func (s *Scene) Step() {
	for _, o := range s.Objects() {
		o.Tick(s.tick)
	}
	s.tick++
}

// Ticks returns the number of completed steps.
func (s *Scene) Ticks() int {
	return s.tick
}

// Drawables returns the shapes as render drawables, in submission order.
func (s *Scene) Drawables() []render.Drawable {
	ds := make([]render.Drawable, len(s.shapes))
	for i, sh := range s.shapes {
		ds[i] = sh
	}
	return ds
}

// Render applies pending updates and renders one frame from the main
// camera.
func (s *Scene) Render() (*render.Frame, error) {
	s.Apply()
	if s.main == nil {
		return nil, ErrNoCamera
	}
	return s.main.Render(s.Drawables()), nil
}

// Frame steps the scene and renders it, matching one iteration of a
// render loop.
func (s *Scene) Frame() (*render.Frame, error) {
	s.Apply()
	s.Step()
	f, err := s.Render()
	if err != nil {
		return nil, fmt.Errorf("frame %d: %w", s.tick, err)
	}
	return f, nil
}
