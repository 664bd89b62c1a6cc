package math3d

import (
	"fmt"
	"math"
)

// Quat is a quaternion with a real part and a vector part. Rotations use
// the half-angle encoding: a rotation of θ about axis a is
// (cos θ/2, sin θ/2 · â).
type Quat struct {
	Real float64
	Vec  Vec3
}

// IdentityQuat returns the identity rotation (1, 0, 0, 0).
func IdentityQuat() Quat {
	return Quat{Real: 1}
}

// QuatFromAxisAngle returns the rotation of angle radians about axis,
// following the right hand rule.
func QuatFromAxisAngle(axis Vec3, angle float64) Quat {
	s, c := math.Sincos(angle / 2)
	return Quat{Real: c, Vec: axis.Normalize().Scale(s)}
}

// QuatFromEuler returns the rotation built from angles (radians) about the
// Left, Up and Forward axes, combined as Ry·Rx·Rz: a vector is rotated
// about Z first, then X, then Y.
func QuatFromEuler(rx, ry, rz float64) Quat {
	qx := QuatFromAxisAngle(Left(), rx)
	qy := QuatFromAxisAngle(Up(), ry)
	qz := QuatFromAxisAngle(Forward(), rz)
	return qy.Mul(qx).Mul(qz)
}

// Mul returns the Hamilton product q·o. Applying o then q to a vector is
// q.Mul(o).
func (q Quat) Mul(o Quat) Quat {
	return Quat{
		Real: q.Real*o.Real - q.Vec.Dot(o.Vec),
		Vec: o.Vec.Scale(q.Real).
			Add(q.Vec.Scale(o.Real)).
			Add(q.Vec.Cross(o.Vec)),
	}
}

// Add returns the component-wise sum.
func (q Quat) Add(o Quat) Quat {
	return Quat{q.Real + o.Real, q.Vec.Add(o.Vec)}
}

// Sub returns the component-wise difference.
func (q Quat) Sub(o Quat) Quat {
	return q.Add(o.Negate())
}

// Negate returns -q.
func (q Quat) Negate() Quat {
	return Quat{-q.Real, q.Vec.Negate()}
}

// Scale returns q with every component multiplied by s.
func (q Quat) Scale(s float64) Quat {
	return Quat{q.Real * s, q.Vec.Scale(s)}
}

// DivScalar returns q with every component divided by s.
func (q Quat) DivScalar(s float64) (Quat, error) {
	if s == 0 {
		return Quat{}, ErrDivisionByZero
	}
	return q.Scale(1 / s), nil
}

// Conjugate returns (real, -vec).
func (q Quat) Conjugate() Quat {
	return Quat{q.Real, q.Vec.Negate()}
}

// NormSq returns the squared norm.
func (q Quat) NormSq() float64 {
	return q.Real*q.Real + q.Vec.LenSq()
}

// Norm returns the norm.
func (q Quat) Norm() float64 {
	return math.Sqrt(q.NormSq())
}

// Inverse returns q⁻¹ = conjugate / normSq, so that q·q⁻¹ = 1.
func (q Quat) Inverse() (Quat, error) {
	n := q.NormSq()
	if n == 0 {
		return Quat{}, fmt.Errorf("invert zero quaternion: %w", ErrDivisionByZero)
	}
	return q.Conjugate().DivScalar(n)
}

// Div returns q·o⁻¹.
func (q Quat) Div(o Quat) (Quat, error) {
	inv, err := o.Inverse()
	if err != nil {
		return Quat{}, err
	}
	return q.Mul(inv), nil
}

// Normalize returns q scaled to unit norm. The zero quaternion
// normalizes to the identity.
func (q Quat) Normalize() Quat {
	n := q.Norm()
	if n == 0 {
		return IdentityQuat()
	}
	return q.Scale(1 / n)
}

// ApproxEqual reports whether q and o differ by at most eps per component.
func (q Quat) ApproxEqual(o Quat, eps float64) bool {
	return math.Abs(q.Real-o.Real) <= eps && q.Vec.ApproxEqual(o.Vec, eps)
}

// SameRotation reports whether q and o encode the same rotation, treating
// q and -q as equal.
func (q Quat) SameRotation(o Quat, eps float64) bool {
	return q.ApproxEqual(o, eps) || q.ApproxEqual(o.Negate(), eps)
}

func (q Quat) String() string {
	return fmt.Sprintf("Quat(%g, %g, %g, %g)", q.Real, q.Vec.X, q.Vec.Y, q.Vec.Z)
}
