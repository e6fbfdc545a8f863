package sf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"gadock/internal/geom"
	"gadock/internal/molecule"
)

func butane(t *testing.T) *molecule.Model {
	t.Helper()
	m, err := molecule.NewModel("butane", []*molecule.Atom{
		molecule.NewAtom(1, "C1", "C", r3.Vec{X: 0, Y: 1, Z: 0}),
		molecule.NewAtom(2, "C2", "C", r3.Vec{X: 0, Y: 0, Z: 0}),
		molecule.NewAtom(3, "C3", "C", r3.Vec{X: 1.5, Y: 0, Z: 0}),
		molecule.NewAtom(4, "C4", "C", r3.Vec{X: 1.5, Y: 1, Z: 0}),
	}, []*molecule.Bond{
		{ID: 1, Atom1: 1, Atom2: 2},
		{ID: 2, Atom1: 2, Atom2: 3, Rotatable: true},
		{ID: 3, Atom1: 3, Atom2: 4},
	})
	require.NoError(t, err)
	return m
}

func TestDihedralRestraint(t *testing.T) {
	m := butane(t)
	atoms := [4]*molecule.Atom{m.Atom(1), m.Atom(2), m.Atom(3), m.Atom(4)}

	// the four atoms are eclipsed: phi is 0
	r := NewDihedralRestraint(DihedralTerm{Atoms: atoms, Target: 0, Weight: 2})
	assert.InDelta(t, 0, r.Score(), 1e-12)

	r = NewDihedralRestraint(DihedralTerm{Atoms: atoms, Target: 180, Weight: 2})
	assert.InDelta(t, 4, r.Score(), 1e-12)

	r.Add(DihedralTerm{Atoms: atoms, Target: 90, Weight: 1})
	assert.Equal(t, 2, r.Len())
	assert.InDelta(t, 5, r.Score(), 1e-12)
}

func TestTether(t *testing.T) {
	m := butane(t)
	tether := NewTether(m.Atoms(), 1, 10)
	assert.InDelta(t, 0, tether.Score(), 1e-9)

	molecule.TranslateAtoms(m.Atoms(), r3.Vec{X: 2})
	assert.InDelta(t, 4, tether.Score(), 1e-9)

	molecule.TranslateAtoms(m.Atoms(), r3.Vec{X: -2})
	pa := molecule.PrincipalAxesOfAtoms(m.Atoms())
	molecule.TranslateAtoms(m.Atoms(), r3.Scale(-1, pa.COM))
	molecule.RotateAtoms(m.Atoms(), geom.AxisAngleQuat(r3.Vec{Z: 1}, 0.3))
	molecule.TranslateAtoms(m.Atoms(), pa.COM)
	assert.InDelta(t, 3, tether.Score(), 1e-6)

	to := NewTetherTo(m.Atoms(), r3.Vec{}, 1, 0)
	assert.InDelta(t, r3.Norm2(pa.COM), to.Score(), 1e-9)
}

func TestCavity(t *testing.T) {
	m := butane(t)
	site := molecule.NewDockingSite([]r3.Vec{{X: 0.75, Y: 0.5}})
	dist := math.Hypot(0.75, 0.5)
	assert.InDelta(t, 0, NewCavity(m, site, 1).Score(), 1e-12)
	assert.InDelta(t, 4*dist*dist, NewCavity(m, site, 0).Score(), 1e-12)
	assert.InDelta(t, 4*(dist-0.5)*(dist-0.5), NewCavity(m, site, 0.5).Score(), 1e-12)
}

func TestStericIgnoresDisabledPartners(t *testing.T) {
	lig := butane(t)
	water, err := molecule.NewModel("w", []*molecule.Atom{
		molecule.NewAtom(1, "O", "O", r3.Vec{X: 0, Y: 0, Z: 1}),
	}, nil)
	require.NoError(t, err)

	s := NewSteric(lig, 1.7, water)
	// C1 is 1.414 and C2 is 1.0 from the oxygen; C3 and C4 are out of range
	want := math.Pow(1.7-math.Sqrt2, 2) + 0.49
	assert.InDelta(t, want, s.Score(), 1e-12)

	water.SetOccupancy(0, 0.5)
	assert.Zero(t, s.Score())
}

func TestWeighted(t *testing.T) {
	w := NewWeighted(Term{Name: "a", Weight: 2, Function: Func(func() float64 { return 1.5 })})
	w.Add("b", -1, Func(func() float64 { return 4 }))
	assert.InDelta(t, -1, w.Score(), 1e-12)
	assert.Equal(t, map[string]float64{"a": 3, "b": -4}, w.Breakdown())
	assert.Len(t, w.Terms(), 2)
}
