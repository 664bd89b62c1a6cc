package scene

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/asciithree/pkg/math3d"
)

// Behavior animates a transform. Start runs once when the behavior is
// attached; Update runs once per scene step with the step counter.
type Behavior interface {
	Start(t *math3d.Transform)
	Update(tick int, t *math3d.Transform)
}

// UpdateFunc adapts a function to a Behavior with no start hook.
type UpdateFunc func(tick int, t *math3d.Transform)

// Start implements Behavior.
func (UpdateFunc) Start(*math3d.Transform) {}

// Update implements Behavior.
func (f UpdateFunc) Update(tick int, t *math3d.Transform) { f(tick, t) }

// Oscillate moves an object back and forth along (1, 1, 1) around the
// position it had when attached: start + sin(tick)·Amount·(1, 1, 1).
type Oscillate struct {
	Amount float64

	start math3d.Vec3
}

// Start implements Behavior.
func (o *Oscillate) Start(t *math3d.Transform) {
	o.start = t.Position
}

// Update implements Behavior.
func (o *Oscillate) Update(tick int, t *math3d.Transform) {
	t.Position = o.start.Add(math3d.One3().Scale(math.Sin(float64(tick)) * o.Amount))
}

// Spin rotates an object about Axis by Rate radians per step.
type Spin struct {
	Axis math3d.Vec3
	Rate float64

	step math3d.Quat
}

// Start implements Behavior.
func (s *Spin) Start(*math3d.Transform) {
	s.step = math3d.QuatFromAxisAngle(s.Axis, s.Rate)
}

// Update implements Behavior.
func (s *Spin) Update(_ int, t *math3d.Transform) {
	t.Rotate(s.step)
}

// Orbit circles an object around Target about the world up axis by Rate
// radians per step, turning it with the motion. A camera aimed at Target
// stays aimed at it.
type Orbit struct {
	Target math3d.Vec3
	Rate   float64

	step math3d.Quat
}

// Start implements Behavior.
func (o *Orbit) Start(*math3d.Transform) {
	o.step = math3d.QuatFromAxisAngle(math3d.Up(), o.Rate)
}

// Update implements Behavior.
func (o *Orbit) Update(_ int, t *math3d.Transform) {
	t.Position = o.Target.Add(t.Position.Sub(o.Target).Rotate(o.step))
	t.Rotate(o.step)
}

// Spring eases an object's position towards Target with a damped
// harmonic spring.
type Spring struct {
	Target math3d.Vec3

	spring   harmonica.Spring
	velocity math3d.Vec3
}

// NewSpring creates a spring stepped fps times per second. frequency sets
// the speed and damping the bounciness; damping 1 is critically damped.
func NewSpring(target math3d.Vec3, fps int, frequency, damping float64) *Spring {
	return &Spring{
		Target: target,
		spring: harmonica.NewSpring(harmonica.FPS(max(fps, 1)), frequency, damping),
	}
}

// Start implements Behavior.
func (s *Spring) Start(*math3d.Transform) {
	s.velocity = math3d.Zero3()
}

// Update implements Behavior.
func (s *Spring) Update(_ int, t *math3d.Transform) {
	p := t.Position
	p.X, s.velocity.X = s.spring.Update(p.X, s.velocity.X, s.Target.X)
	p.Y, s.velocity.Y = s.spring.Update(p.Y, s.velocity.Y, s.Target.Y)
	p.Z, s.velocity.Z = s.spring.Update(p.Z, s.velocity.Z, s.Target.Z)
	t.Position = p
}

// Settled reports whether the spring is within eps of its target and
// nearly at rest.
func (s *Spring) Settled(t *math3d.Transform, eps float64) bool {
	return t.Position.Distance(s.Target) < eps && s.velocity.Len() < eps
}
