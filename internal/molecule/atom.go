// Package molecule is the typed geometric model the docking core drives:
// atoms with coordinates, the bond graph, tethered atoms, occupancy and the
// docking site. Chromosome elements hold pointers to a model's atoms and
// move them in place.
package molecule

import (
	"strings"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"gadock/internal/geom"
)

type elementInfo struct {
	atomicNo int
	mass     float64
}

var elements = map[string]elementInfo{
	"H":  {1, 1.008},
	"C":  {6, 12.011},
	"N":  {7, 14.007},
	"O":  {8, 15.999},
	"F":  {9, 18.998},
	"P":  {15, 30.974},
	"S":  {16, 32.06},
	"CL": {17, 35.45},
	"BR": {35, 79.904},
	"I":  {53, 126.904},
}

// Atom is a single atom. IDs are 1-based and contiguous within a model.
type Atom struct {
	ID       int
	Name     string
	Element  string
	AtomicNo int
	Mass     float64
	Coords   r3.Vec
}

// NewAtom builds an atom, filling atomic number and mass from the element
// symbol. Unknown elements get atomic number 0 and unit mass.
func NewAtom(id int, name, element string, coords r3.Vec) *Atom {
	element = strings.TrimSpace(element)
	info, ok := elements[strings.ToUpper(element)]
	if !ok {
		info = elementInfo{atomicNo: 0, mass: 1}
	}
	return &Atom{
		ID:       id,
		Name:     name,
		Element:  element,
		AtomicNo: info.atomicNo,
		Mass:     info.mass,
		Coords:   coords,
	}
}

// IsHydrogen reports whether the atom is a hydrogen.
func (a *Atom) IsHydrogen() bool { return a.AtomicNo == 1 }

// Coords returns the coordinates of the atoms in list order.
func Coords(atoms []*Atom) []r3.Vec {
	out := make([]r3.Vec, len(atoms))
	for i, a := range atoms {
		out[i] = a.Coords
	}
	return out
}

// SetCoords overwrites atom coordinates from a list of equal length.
func SetCoords(atoms []*Atom, coords []r3.Vec) {
	for i, a := range atoms {
		a.Coords = coords[i]
	}
}

// TranslateAtoms moves every atom by v.
func TranslateAtoms(atoms []*Atom, v r3.Vec) {
	for _, a := range atoms {
		a.Coords = r3.Add(a.Coords, v)
	}
}

// RotateAtoms rotates every atom about the origin by q.
func RotateAtoms(atoms []*Atom, q quat.Number) {
	rot := r3.Rotation(q)
	for _, a := range atoms {
		a.Coords = rot.Rotate(a.Coords)
	}
}

// PrincipalAxesOfAtoms returns the mass-weighted principal axes of the atoms.
// A three-atom list ordered O, H, H is treated as water.
func PrincipalAxesOfAtoms(atoms []*Atom) geom.PrincipalAxes {
	if len(atoms) == 3 && atoms[0].AtomicNo == 8 && atoms[1].IsHydrogen() && atoms[2].IsHydrogen() {
		return geom.SolventPrincipalAxes(atoms[0].Coords, atoms[1].Coords, atoms[2].Coords)
	}
	masses := make([]float64, len(atoms))
	for i, a := range atoms {
		masses[i] = a.Mass
	}
	return geom.NewPrincipalAxes(Coords(atoms), masses)
}

// Dihedral returns the torsion angle in degrees over four atoms.
func Dihedral(a1, a2, a3, a4 *Atom) float64 {
	return geom.DihedralAngle(a1.Coords, a2.Coords, a3.Coords, a4.Coords)
}
