package math3d

// renormalizeEvery is how many incremental rotations a Transform composes
// before renormalizing its quaternion.
const renormalizeEvery = 32

// Transform is the position, rotation and scale of a shape or camera.
type Transform struct {
	Position Vec3
	Rotation Quat
	Scale    Vec3

	composed int
}

// NewTransform creates a transform from its parts.
func NewTransform(position Vec3, rotation Quat, scale Vec3) Transform {
	return Transform{Position: position, Rotation: rotation, Scale: scale}
}

// IdentityTransform returns a transform at the origin with no rotation and
// unit scale.
func IdentityTransform() Transform {
	return Transform{Rotation: IdentityQuat(), Scale: One3()}
}

// Apply maps a local-space point to world space: scale, then rotate, then
// translate.
func (t Transform) Apply(p Vec3) Vec3 {
	return p.Mul(t.Scale).Rotate(t.Rotation).Add(t.Position)
}

// Matrix returns the affine matrix equivalent to Apply.
func (t Transform) Matrix() Mat4 {
	return Translate(t.Position).Mul(RotateQuat(t.Rotation)).Mul(Scale(t.Scale))
}

// Translate moves the transform by d in world space.
func (t *Transform) Translate(d Vec3) {
	t.Position = t.Position.Add(d)
}

// Rotate applies q after the current rotation. Accumulated rotations are
// renormalized periodically to keep floating-point drift in check.
func (t *Transform) Rotate(q Quat) {
	t.Rotation = q.Mul(t.Rotation)
	t.composed++
	if t.composed >= renormalizeEvery {
		t.Renormalize()
	}
}

// Renormalize rescales the rotation to unit norm.
func (t *Transform) Renormalize() {
	t.Rotation = t.Rotation.Normalize()
	t.composed = 0
}
