// Package geom provides the coordinate, quaternion, Euler-angle and
// principal-axes primitives used to map chromosome values onto molecular
// coordinates. Points and vectors are gonum r3.Vec values and rotations are
// gonum quat.Number values in (Real, Imag, Jmag, Kmag) = (s, vx, vy, vz) form.
package geom

import (
	"math"

	"golang.org/x/exp/constraints"
)

const (
	degPerRad = 180 / math.Pi
	radPerDeg = math.Pi / 180
)

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 { return deg * radPerDeg }

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 { return rad * degPerRad }

// Clamp limits v to [lo, hi].
func Clamp[T constraints.Float](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// StandardisedDegrees wraps an angle into [-180, 180).
func StandardisedDegrees(angle float64) float64 {
	return wrap(angle, 180)
}

// StandardisedRadians wraps an angle into [-pi, pi).
func StandardisedRadians(angle float64) float64 {
	return wrap(angle, math.Pi)
}

func wrap(angle, half float64) float64 {
	if angle >= -half && angle < half {
		return angle
	}
	full := 2 * half
	angle = math.Mod(angle+half, full)
	if angle < 0 {
		angle += full
	}
	return angle - half
}
