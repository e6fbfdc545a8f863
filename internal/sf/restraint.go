package sf

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"gadock/internal/geom"
	"gadock/internal/molecule"
)

// DihedralTerm restrains one torsion towards a target angle in degrees.
type DihedralTerm struct {
	Atoms  [4]*molecule.Atom
	Target float64
	Weight float64
}

// DihedralRestraint scores sum(w * (1 - cos(phi - target))) over its terms.
// Each term is 0 at the target and 2w at the opposite angle.
type DihedralRestraint struct {
	terms []DihedralTerm
}

// NewDihedralRestraint returns a restraint over terms.
func NewDihedralRestraint(terms ...DihedralTerm) *DihedralRestraint {
	return &DihedralRestraint{terms: append([]DihedralTerm(nil), terms...)}
}

// Add appends a term.
func (d *DihedralRestraint) Add(term DihedralTerm) { d.terms = append(d.terms, term) }

// Len returns the number of terms.
func (d *DihedralRestraint) Len() int { return len(d.terms) }

func (d *DihedralRestraint) Score() float64 {
	total := 0.0
	for _, t := range d.terms {
		phi := molecule.Dihedral(t.Atoms[0], t.Atoms[1], t.Atoms[2], t.Atoms[3])
		total += t.Weight * (1 - math.Cos(geom.DegToRad(phi-t.Target)))
	}
	return total
}

// Tether restrains a group of atoms towards a reference centre of mass and
// orientation. It scores the squared COM displacement plus the rotation
// angle in radians, each with its own weight.
type Tether struct {
	atoms       []*molecule.Atom
	center      r3.Vec
	axes        geom.PrincipalAxes
	transWeight float64
	rotWeight   float64
}

// NewTether captures the current position of atoms as the reference.
func NewTether(atoms []*molecule.Atom, transWeight, rotWeight float64) *Tether {
	pa := molecule.PrincipalAxesOfAtoms(atoms)
	return &Tether{atoms: atoms, center: pa.COM, axes: pa, transWeight: transWeight, rotWeight: rotWeight}
}

// NewTetherTo uses center as the reference COM and the current orientation
// of atoms as the reference orientation.
func NewTetherTo(atoms []*molecule.Atom, center r3.Vec, transWeight, rotWeight float64) *Tether {
	t := NewTether(atoms, transWeight, rotWeight)
	t.center = center
	return t
}

func (t *Tether) Score() float64 {
	pa := molecule.PrincipalAxesOfAtoms(t.atoms)
	d2 := r3.Norm2(r3.Sub(pa.COM, t.center))
	q := geom.AlignAxesQuat(t.axes, pa)
	return t.transWeight*d2 + t.rotWeight*math.Abs(geom.QuatAngle(q))
}
