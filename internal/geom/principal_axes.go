package geom

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// PrincipalAxes is the intrinsic frame of a point set: its centre of mass,
// three orthonormal axes sorted by ascending moment of inertia, and the
// moments themselves. The axes always form a right-handed set.
type PrincipalAxes struct {
	COM    r3.Vec
	Axis   [3]r3.Vec
	Moment [3]float64
}

// CartesianAxes is the canonical frame: origin with x, y and z axes.
func CartesianAxes() PrincipalAxes {
	return PrincipalAxes{
		Axis: [3]r3.Vec{{X: 1}, {Y: 1}, {Z: 1}},
	}
}

// CenterOfMass returns the mass-weighted centre of the points. A nil masses
// slice weights every point equally.
func CenterOfMass(points []r3.Vec, masses []float64) r3.Vec {
	if masses == nil {
		return Centroid(points)
	}
	var sum r3.Vec
	var total float64
	for i, p := range points {
		sum = r3.Add(sum, r3.Scale(masses[i], p))
		total += masses[i]
	}
	if total == 0 {
		return Centroid(points)
	}
	return r3.Scale(1/total, sum)
}

// NewPrincipalAxes computes the principal axes of the points. A nil masses
// slice weights every point equally; otherwise masses must match points in
// length.
//
// The sign of each eigenvector is arbitrary, so the axes are oriented to put
// the first point in the positive quadrant of axis 1 and axis 2, and axis 3
// is their cross product. This keeps the frame consistent for a given
// conformation, which crossover of orientation values relies on. The check is
// ill-defined when the first point lies exactly on axis 1 or axis 2.
func NewPrincipalAxes(points []r3.Vec, masses []float64) PrincipalAxes {
	pa := CartesianAxes()
	if len(points) == 0 {
		return pa
	}
	pa.COM = CenterOfMass(points, masses)

	var ixx, iyy, izz, ixy, ixz, iyz float64
	for i, p := range points {
		m := 1.0
		if masses != nil {
			m = masses[i]
		}
		r := r3.Sub(p, pa.COM)
		ixx += m * (r.Y*r.Y + r.Z*r.Z)
		iyy += m * (r.X*r.X + r.Z*r.Z)
		izz += m * (r.X*r.X + r.Y*r.Y)
		ixy -= m * r.X * r.Y
		ixz -= m * r.X * r.Z
		iyz -= m * r.Y * r.Z
	}
	tensor := mat.NewSymDense(3, []float64{
		ixx, ixy, ixz,
		ixy, iyy, iyz,
		ixz, iyz, izz,
	})

	var es mat.EigenSym
	if !es.Factorize(tensor, true) {
		return pa
	}
	values := es.Values(nil)
	var vectors mat.Dense
	es.VectorsTo(&vectors)

	for k := 0; k < 3; k++ {
		pa.Axis[k] = r3.Vec{X: vectors.At(0, k), Y: vectors.At(1, k), Z: vectors.At(2, k)}
		pa.Moment[k] = values[k]
	}

	c0 := r3.Sub(points[0], pa.COM)
	if r3.Dot(c0, pa.Axis[0]) < 0 {
		pa.Axis[0] = r3.Scale(-1, pa.Axis[0])
	}
	if r3.Dot(c0, pa.Axis[1]) < 0 {
		pa.Axis[1] = r3.Scale(-1, pa.Axis[1])
	}
	pa.Axis[2] = r3.Cross(pa.Axis[0], pa.Axis[1])
	return pa
}

// SolventPrincipalAxes returns the frame of a water molecule. The origin is
// the oxygen, axis 1 bisects the two O-H bonds, axis 3 is normal to the
// H-O-H plane and axis 2 lies in the plane with h1 on its positive side.
// Moments are left zero.
func SolventPrincipalAxes(o, h1, h2 r3.Vec) PrincipalAxes {
	v1 := r3.Sub(h1, o)
	v2 := r3.Sub(h2, o)
	pa := PrincipalAxes{COM: o}
	pa.Axis[0] = UnitOrZero(r3.Scale(0.5, r3.Add(v1, v2)))
	pa.Axis[2] = UnitOrZero(r3.Cross(v1, v2))
	pa.Axis[1] = r3.Cross(pa.Axis[0], pa.Axis[2])
	if r3.Dot(v1, pa.Axis[1]) < 0 {
		pa.Axis[1] = r3.Scale(-1, pa.Axis[1])
	}
	pa.Axis[2] = r3.Cross(pa.Axis[0], pa.Axis[1])
	return pa
}
