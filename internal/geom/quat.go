package geom

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// zeroLength is the length below which a vector has no direction.
const zeroLength = 0.001

// collinearTolerance is the cross-product length below which two unit
// vectors are treated as collinear.
const collinearTolerance = 1e-12

// IdentityQuat is the rotation that leaves every vector unchanged.
func IdentityQuat() quat.Number { return quat.Number{Real: 1} }

// AxisAngleQuat returns the rotation by phi radians about axis. A zero axis
// yields the identity.
func AxisAngleQuat(axis r3.Vec, phi float64) quat.Number {
	n := r3.Norm(axis)
	if n == 0 {
		return IdentityQuat()
	}
	sin, cos := math.Sincos(0.5 * phi)
	u := r3.Scale(sin/n, axis)
	return quat.Number{Real: cos, Imag: u.X, Jmag: u.Y, Kmag: u.Z}
}

// QuatVector returns the vector part of q.
func QuatVector(q quat.Number) r3.Vec {
	return r3.Vec{X: q.Imag, Y: q.Jmag, Z: q.Kmag}
}

// QuatAngle returns the rotation angle of the unit quaternion q about its
// vector part, in [-pi, pi). The angle is negative only when the real part
// is.
func QuatAngle(q quat.Number) float64 {
	return StandardisedRadians(2 * math.Atan2(r3.Norm(QuatVector(q)), q.Real))
}

// RotateVec applies the near-unit rotation q to v.
func RotateVec(q quat.Number, v r3.Vec) r3.Vec {
	return r3.Rotation(q).Rotate(v)
}

// AlignVectorsQuat returns the rotation that takes the direction of v onto
// the direction of ref. Zero-length inputs yield the identity. Antiparallel
// inputs yield a half turn about an arbitrary perpendicular axis.
func AlignVectorsQuat(v, ref r3.Vec) quat.Number {
	return alignVectors(v, ref, r3.Vec{})
}

func alignVectors(v, ref, fallback r3.Vec) quat.Number {
	lv, lr := r3.Norm(v), r3.Norm(ref)
	if lv < zeroLength || lr < zeroLength {
		return IdentityQuat()
	}
	vu := r3.Scale(1/lv, v)
	ru := r3.Scale(1/lr, ref)
	cosPhi := r3.Dot(vu, ru)
	axis := r3.Cross(vu, ru)
	if sinPhi := r3.Norm(axis); sinPhi > collinearTolerance {
		return AxisAngleQuat(axis, math.Atan2(sinPhi, cosPhi))
	}
	if cosPhi > 0 {
		return IdentityQuat()
	}
	if r3.Norm(r3.Cross(fallback, vu)) < zeroLength {
		fallback = perpendicular(vu)
	}
	return AxisAngleQuat(fallback, math.Pi)
}

func perpendicular(u r3.Vec) r3.Vec {
	trial := r3.Vec{X: 1}
	if math.Abs(u.X) > 0.9 {
		trial = r3.Vec{Y: 1}
	}
	return UnitOrZero(r3.Cross(u, trial))
}

// AlignAxesQuat returns the rotation that takes the axes of from onto the
// axes of to: axis1 is aligned first, then axis2 is aligned by a rotation
// about the reference axis1.
func AlignAxesQuat(from, to PrincipalAxes) quat.Number {
	q1 := alignVectors(from.Axis[0], to.Axis[0], r3.Vec{})
	axis2 := RotateVec(q1, from.Axis[1])
	q2 := alignVectors(axis2, to.Axis[1], to.Axis[0])
	return quat.Mul(q2, q1)
}
