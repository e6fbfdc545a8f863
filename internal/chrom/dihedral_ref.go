package chrom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"gadock/internal/errs"
	"gadock/internal/geom"
	"gadock/internal/molecule"
)

// dihedralTolerance is the smallest change in degrees applied to the model.
const dihedralTolerance = 0.001

// DihedralRef is the shared description of one rotatable bond.
type DihedralRef struct {
	atoms    [4]*molecule.Atom
	rotAtoms []*molecule.Atom
	step     float64
	mode     Mode
	max      float64
	initial  float64
}

// NewDihedralRef prepares a rotatable bond for use as a degree of freedom.
// The side of the bond that moves is the one with fewer atoms, counted over
// the tethered atoms when there are any so tethered atoms move as little as
// possible.
func NewDihedralRef(m *molecule.Model, bond *molecule.Bond, tethered []*molecule.Atom, step float64, mode Mode, maxDihedral float64) (*DihedralRef, error) {
	a2, a3 := m.Atom(bond.Atom1), m.Atom(bond.Atom2)
	if a2 == nil || a3 == nil {
		return nil, fmt.Errorf("bond %d: missing atoms: %w", bond.ID, errs.ErrAssertion)
	}
	bonded2 := excluding(m.BondedAtoms(a2.ID), a3.ID)
	bonded3 := excluding(m.BondedAtoms(a3.ID), a2.ID)
	if len(bonded2) == 0 || len(bonded3) == 0 {
		return nil, fmt.Errorf("bond %d (%s-%s) has a terminal atom and no dihedral: %w", bond.ID, a2.Name, a3.Name, errs.ErrAssertion)
	}

	spin, cyclic := m.ToSpin(a2.ID, a3.ID)
	if cyclic {
		return nil, fmt.Errorf("bond %d (%s-%s) is in a ring: %w", bond.ID, a2.Name, a3.Name, errs.ErrAssertion)
	}
	delete(spin, a2.ID)
	delete(spin, a3.ID)

	population := m.Atoms()
	if len(tethered) > 0 {
		population = tethered
	}
	nSelected := 0
	for _, a := range population {
		if spin[a.ID] {
			nSelected++
		}
	}
	nHalf := (len(population) - 2) / 2

	ref := &DihedralRef{step: step, mode: mode, max: maxDihedral}
	if nSelected > nHalf {
		for _, a := range m.Atoms() {
			if !spin[a.ID] && a.ID != a2.ID && a.ID != a3.ID {
				ref.rotAtoms = append(ref.rotAtoms, a)
			}
		}
		ref.atoms = [4]*molecule.Atom{bonded3[0], a3, a2, bonded2[0]}
	} else {
		for _, a := range m.Atoms() {
			if spin[a.ID] {
				ref.rotAtoms = append(ref.rotAtoms, a)
			}
		}
		ref.atoms = [4]*molecule.Atom{bonded2[0], a2, a3, bonded3[0]}
	}
	ref.initial = ref.ModelValue()
	return ref, nil
}

func excluding(atoms []*molecule.Atom, id int) []*molecule.Atom {
	out := atoms[:0:0]
	for _, a := range atoms {
		if a.ID != id {
			out = append(out, a)
		}
	}
	return out
}

// Atoms returns the four atoms defining the angle.
func (d *DihedralRef) Atoms() [4]*molecule.Atom { return d.atoms }

// RotatingAtoms returns the atoms moved when the angle changes.
func (d *DihedralRef) RotatingAtoms() []*molecule.Atom { return d.rotAtoms }

func (d *DihedralRef) Step() float64        { return d.step }
func (d *DihedralRef) Mode() Mode           { return d.mode }
func (d *DihedralRef) MaxDihedral() float64 { return d.max }
func (d *DihedralRef) Initial() float64     { return d.initial }

// ModelValue measures the current angle in degrees.
func (d *DihedralRef) ModelValue() float64 {
	return molecule.Dihedral(d.atoms[0], d.atoms[1], d.atoms[2], d.atoms[3])
}

// SetModelValue rotates the moving side of the bond so the angle becomes
// value degrees.
func (d *DihedralRef) SetModelValue(value float64) {
	delta := value - d.ModelValue()
	if math.Abs(delta) <= dihedralTolerance {
		return
	}
	origin := d.atoms[1].Coords
	axis := r3.Sub(d.atoms[2].Coords, origin)
	q := geom.AxisAngleQuat(axis, geom.DegToRad(delta))
	molecule.TranslateAtoms(d.rotAtoms, r3.Scale(-1, origin))
	molecule.RotateAtoms(d.rotAtoms, q)
	molecule.TranslateAtoms(d.rotAtoms, origin)
}
