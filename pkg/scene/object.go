package scene

import (
	"github.com/taigrr/asciithree/pkg/math3d"
	"github.com/taigrr/asciithree/pkg/models"
	"github.com/taigrr/asciithree/pkg/render"
)

// Object is anything registered in a scene that has a pose and can carry
// behaviors.
type Object interface {
	Label() string
	Pose() *math3d.Transform
	AddBehavior(b Behavior)
	Tick(tick int)
}

// behaviors is the behavior list shared by every object kind.
type behaviors []Behavior

func (bs *behaviors) add(b Behavior, t *math3d.Transform) {
	*bs = append(*bs, b)
	b.Start(t)
}

func (bs behaviors) tick(tick int, t *math3d.Transform) {
	for _, b := range bs {
		b.Update(tick, t)
	}
}

// Shape is a mesh placed in the world. It implements render.Drawable.
type Shape struct {
	Name      string
	Mesh      *models.Mesh
	Transform math3d.Transform
	Hide      bool

	behaviors behaviors
	tris      []render.Triangle
}

// NewShape creates a visible shape. mesh is shared, not copied.
func NewShape(name string, mesh *models.Mesh, transform math3d.Transform) *Shape {
	return &Shape{Name: name, Mesh: mesh, Transform: transform}
}

// Label implements Object.
func (s *Shape) Label() string { return s.Name }

// Pose implements Object.
func (s *Shape) Pose() *math3d.Transform { return &s.Transform }

// AddBehavior attaches b and starts it against the current transform.
func (s *Shape) AddBehavior(b Behavior) { s.behaviors.add(b, &s.Transform) }

// Tick runs every behavior once.
func (s *Shape) Tick(tick int) { s.behaviors.tick(tick, &s.Transform) }

// Hidden implements render.Drawable.
func (s *Shape) Hidden() bool { return s.Hide || s.Mesh == nil }

// Triangles returns the shape's world-space triangles. Normals are taken
// from the transformed corners, so mirroring scales flip them with the
// winding. The returned slice is reused by the next call.
func (s *Shape) Triangles() []render.Triangle {
	s.tris = s.tris[:0]
	if s.Mesh == nil {
		return s.tris
	}
	m := s.Transform.Matrix()
	for i := range s.Mesh.Faces {
		a, b, c := s.Mesh.Triangle(i)
		s.tris = append(s.tris, render.NewTriangle(m.MulVec3(a), m.MulVec3(b), m.MulVec3(c)))
	}
	return s.tris
}

// Rasterize implements render.Drawable.
func (s *Shape) Rasterize(r *render.Rasterizer) {
	r.DrawTriangles(s.Triangles())
}

// Light is a registered light source. Shading uses the camera direction
// only, so lights carry a pose and behaviors but do not affect frames.
type Light struct {
	Name      string
	Transform math3d.Transform
	Intensity float64

	behaviors behaviors
}

// NewLight creates a light at position.
func NewLight(name string, position math3d.Vec3, intensity float64) *Light {
	l := &Light{Name: name, Transform: math3d.IdentityTransform(), Intensity: intensity}
	l.Transform.Position = position
	return l
}

// Label implements Object.
func (l *Light) Label() string { return l.Name }

// Pose implements Object.
func (l *Light) Pose() *math3d.Transform { return &l.Transform }

// AddBehavior attaches b and starts it against the current transform.
func (l *Light) AddBehavior(b Behavior) { l.behaviors.add(b, &l.Transform) }

// Tick runs every behavior once.
func (l *Light) Tick(tick int) { l.behaviors.tick(tick, &l.Transform) }

// Camera is a render.Camera registered in a scene.
type Camera struct {
	*render.Camera
	Name string

	behaviors behaviors
}

// Label implements Object.
func (c *Camera) Label() string { return c.Name }

// Pose implements Object.
func (c *Camera) Pose() *math3d.Transform { return &c.Camera.Transform }

// AddBehavior attaches b and starts it against the current transform.
func (c *Camera) AddBehavior(b Behavior) { c.behaviors.add(b, &c.Camera.Transform) }

// Tick runs every behavior once.
func (c *Camera) Tick(tick int) { c.behaviors.tick(tick, &c.Camera.Transform) }
