package geom

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// gimbalLimit is the |sin(attitude)| above which heading and bank are no
// longer independent.
const gimbalLimit = 0.999999

// Euler is an orientation given as heading (about z), attitude (about y) and
// bank (about x), applied in that order. All angles are radians.
type Euler struct {
	Heading  float64
	Attitude float64
	Bank     float64
}

// EulerFromQuat converts a unit quaternion to Euler angles in standard range.
func EulerFromQuat(q quat.Number) Euler {
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag
	sinAtt := 2 * (w*y - z*x)
	if math.Abs(sinAtt) > gimbalLimit {
		att := math.Copysign(math.Pi/2, sinAtt)
		return Euler{
			Heading:  StandardisedRadians(2 * math.Atan2(z, w)),
			Attitude: att,
		}
	}
	return Euler{
		Heading:  math.Atan2(2*(w*z+x*y), 1-2*(y*y+z*z)),
		Attitude: math.Asin(Clamp(sinAtt, -1, 1)),
		Bank:     math.Atan2(2*(w*x+y*z), 1-2*(x*x+y*y)),
	}
}

// ToQuat returns the unit quaternion for e.
func (e Euler) ToQuat() quat.Number {
	s1, c1 := math.Sincos(0.5 * e.Heading)
	s2, c2 := math.Sincos(0.5 * e.Attitude)
	s3, c3 := math.Sincos(0.5 * e.Bank)
	return quat.Number{
		Real: c1*c2*c3 + s1*s2*s3,
		Imag: c1*c2*s3 - s1*s2*c3,
		Jmag: c1*s2*c3 + s1*c2*s3,
		Kmag: s1*c2*c3 - c1*s2*s3,
	}
}

// Rotate returns the orientation obtained by rotating e by theta radians
// about axis.
func (e Euler) Rotate(axis r3.Vec, theta float64) Euler {
	return EulerFromQuat(quat.Mul(AxisAngleQuat(axis, theta), e.ToQuat()))
}

// Standard reports whether heading and bank lie in [-pi, pi) and attitude in
// [-pi/2, pi/2].
func (e Euler) Standard() bool {
	return e.Heading >= -math.Pi && e.Heading < math.Pi &&
		e.Bank >= -math.Pi && e.Bank < math.Pi &&
		e.Attitude >= -math.Pi/2 && e.Attitude <= math.Pi/2
}

// Standardise returns an equivalent orientation with every angle in standard
// range. Already standard values are returned unchanged.
func (e Euler) Standardise() Euler {
	if e.Standard() {
		return e
	}
	h := StandardisedRadians(e.Heading)
	a := StandardisedRadians(e.Attitude)
	b := StandardisedRadians(e.Bank)
	switch {
	case a > math.Pi/2:
		a = math.Pi - a
		h += math.Pi
		b += math.Pi
	case a < -math.Pi/2:
		a = -math.Pi - a
		h += math.Pi
		b += math.Pi
	}
	return Euler{
		Heading:  StandardisedRadians(h),
		Attitude: a,
		Bank:     StandardisedRadians(b),
	}
}

// Vector returns (heading, attitude, bank).
func (e Euler) Vector() [3]float64 {
	return [3]float64{e.Heading, e.Attitude, e.Bank}
}
