package scene

import "github.com/taigrr/asciithree/pkg/math3d"

// OrbitCamera orbits the main camera around target.
func OrbitCamera(target math3d.Vec3, yaw, pitch float64) Update {
	return func(s *Scene) {
		if c := s.MainCamera(); c != nil {
			c.Orbit(target, yaw, pitch)
		}
	}
}

// ZoomCamera multiplies the main camera's zoom by factor.
func ZoomCamera(factor float64) Update {
	return func(s *Scene) {
		if c := s.MainCamera(); c != nil {
			c.ZoomBy(factor)
		}
	}
}

// MoveCamera moves the main camera along its own axes: right, up and
// forward.
func MoveCamera(d math3d.Vec3) Update {
	return func(s *Scene) {
		if c := s.MainCamera(); c != nil {
			c.MoveRight(d.X)
			c.MoveUp(d.Y)
			c.MoveForward(d.Z)
		}
	}
}

// SetCameraTransform replaces the main camera's transform.
func SetCameraTransform(t math3d.Transform) Update {
	return func(s *Scene) {
		if c := s.MainCamera(); c != nil {
			c.Camera.Transform = t
		}
	}
}

// RotateShape composes q onto the rotation of the shape called name.
func RotateShape(name string, q math3d.Quat) Update {
	return func(s *Scene) {
		if sh := s.Shape(name); sh != nil {
			sh.Transform.Rotate(q)
		}
	}
}

// SetShapeRotation replaces the rotation of the shape called name.
func SetShapeRotation(name string, q math3d.Quat) Update {
	return func(s *Scene) {
		if sh := s.Shape(name); sh != nil {
			sh.Transform.Rotation = q
		}
	}
}

// SetHidden shows or hides the shape called name.
func SetHidden(name string, hidden bool) Update {
	return func(s *Scene) {
		if sh := s.Shape(name); sh != nil {
			sh.Hide = hidden
		}
	}
}

// ToggleHidden flips the visibility of every shape.
func ToggleHidden() Update {
	return func(s *Scene) {
		for _, sh := range s.Shapes() {
			sh.Hide = !sh.Hide
		}
	}
}
