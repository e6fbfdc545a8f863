package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Distance returns the Euclidean distance between two points.
func Distance(a, b r3.Vec) float64 {
	return r3.Norm(r3.Sub(a, b))
}

// UnitOrZero returns the unit vector of v, or the zero vector when v has no
// length.
func UnitOrZero(v r3.Vec) r3.Vec {
	n := r3.Norm(v)
	if n == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/n, v)
}

// Centroid returns the unweighted mean of the points.
func Centroid(points []r3.Vec) r3.Vec {
	if len(points) == 0 {
		return r3.Vec{}
	}
	var sum r3.Vec
	for _, p := range points {
		sum = r3.Add(sum, p)
	}
	return r3.Scale(1/float64(len(points)), sum)
}

// DihedralAngle returns the torsion angle in degrees defined by four points.
// The sign follows the IUPAC convention: a clockwise rotation of the far bond
// when viewed down c2->c3 is positive.
func DihedralAngle(c1, c2, c3, c4 r3.Vec) float64 {
	v1 := r3.Sub(c1, c2)
	v2 := r3.Sub(c2, c3)
	v3 := r3.Sub(c3, c4)
	a := r3.Cross(v1, v2)
	b := r3.Cross(v2, v3)
	c := r3.Cross(v2, a)
	normA, normB, normC := r3.Norm(a), r3.Norm(b), r3.Norm(c)
	if normA == 0 || normB == 0 || normC == 0 {
		return 0
	}
	sinPhi := r3.Dot(c, b) / (normC * normB)
	cosPhi := r3.Dot(a, b) / (normA * normB)
	return -RadToDeg(math.Atan2(sinPhi, cosPhi))
}

// RMSD returns the root mean square deviation between two equally sized
// coordinate lists. It returns +Inf when the lengths differ.
func RMSD(a, b []r3.Vec) float64 {
	if len(a) != len(b) {
		return math.Inf(1)
	}
	if len(a) == 0 {
		return 0
	}
	var sum float64
	for i := range a {
		sum += r3.Norm2(r3.Sub(a[i], b[i]))
	}
	return math.Sqrt(sum / float64(len(a)))
}
