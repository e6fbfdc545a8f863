package molecule

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"gadock/internal/errs"
)

func TestNewModelRejectsBadIDs(t *testing.T) {
	_, err := NewModel("bad", []*Atom{NewAtom(2, "C", "C", r3.Vec{})}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrBadArgument))

	_, err = NewModel("bad-bond", []*Atom{NewAtom(1, "C", "C", r3.Vec{})}, []*Bond{{ID: 1, Atom1: 1, Atom2: 4}})
	assert.True(t, errors.Is(err, errs.ErrBadArgument))
}

func TestNewAtomElementData(t *testing.T) {
	o := NewAtom(1, "O1", "o", r3.Vec{})
	assert.Equal(t, 8, o.AtomicNo)
	assert.InDelta(t, 15.999, o.Mass, 1e-9)

	x := NewAtom(2, "X", "Xx", r3.Vec{})
	assert.Equal(t, 0, x.AtomicNo)
	assert.Equal(t, 1.0, x.Mass)
}

func TestBondedAtomsKeepsBondOrder(t *testing.T) {
	lig := DemoSystem().Ligand
	got := lig.BondedAtoms(3)
	require.Len(t, got, 3)
	assert.Equal(t, []int{2, 4, 7}, []int{got[0].ID, got[1].ID, got[2].ID})
}

func TestToSpinPartitionsAcyclicBond(t *testing.T) {
	lig := DemoSystem().Ligand
	ids, cyclic := lig.ToSpin(2, 3)
	assert.False(t, cyclic)
	assert.Equal(t, map[int]bool{3: true, 4: true, 5: true, 6: true, 7: true}, ids)

	ids, cyclic = lig.ToSpin(3, 2)
	assert.False(t, cyclic)
	assert.Equal(t, map[int]bool{1: true, 2: true}, ids)
}

func TestToSpinDetectsRing(t *testing.T) {
	ring, err := NewModel("ring", []*Atom{
		NewAtom(1, "C1", "C", r3.Vec{X: 0}),
		NewAtom(2, "C2", "C", r3.Vec{X: 1.5}),
		NewAtom(3, "C3", "C", r3.Vec{X: 0.75, Y: 1.3}),
		NewAtom(4, "C4", "C", r3.Vec{X: -1.2, Y: -0.5}),
	}, []*Bond{
		{ID: 1, Atom1: 1, Atom2: 2, Rotatable: true},
		{ID: 2, Atom1: 2, Atom2: 3},
		{ID: 3, Atom1: 3, Atom2: 1},
		{ID: 4, Atom1: 1, Atom2: 4, Rotatable: true},
	})
	require.NoError(t, err)

	_, cyclic := ring.ToSpin(1, 2)
	assert.True(t, cyclic)

	rot := ring.RotatableBonds()
	require.Len(t, rot, 1)
	assert.Equal(t, 4, rot[0].ID)
}

func TestRotatableBondsOfDemoLigand(t *testing.T) {
	assert.Len(t, DemoSystem().Ligand.RotatableBonds(), 3)
}

func TestTetheredAtoms(t *testing.T) {
	lig := DemoSystem().Ligand
	require.NoError(t, lig.SetTetheredAtoms([]int{1, 2}))
	assert.Len(t, lig.TetheredAtoms(), 2)
	assert.True(t, errors.Is(lig.SetTetheredAtoms([]int{99}), errs.ErrBadArgument))
}

func TestOccupancy(t *testing.T) {
	w := DemoSystem().Solvent[0]
	assert.True(t, w.Enabled())
	w.SetOccupancy(0.3, 0.5)
	assert.False(t, w.Enabled())
	assert.Equal(t, 0.3, w.Occupancy())
	w.SetOccupancy(0.5, 0.5)
	assert.True(t, w.Enabled())
}

func TestWaterUsesSolventAxes(t *testing.T) {
	w := DemoSystem().Solvent[0]
	pa := PrincipalAxesOfAtoms(w.Atoms())
	assert.Equal(t, w.Atom(1).Coords, pa.COM)
}

func TestSphereSite(t *testing.T) {
	site := NewSphereSite(r3.Vec{X: 1}, 1, 1)
	assert.Len(t, site.CoordList(), 7)
	assert.Equal(t, r3.Vec{X: 1}, site.Center())
	assert.InDelta(t, 1, site.DistanceTo(r3.Vec{X: 1, Z: 2}), 1e-12)
}

func TestLoadSystem(t *testing.T) {
	path := filepath.Join(t.TempDir(), "system.yaml")
	doc := `
name: ethanol
ligand:
  name: etoh
  atoms:
    - {name: C1, element: C, xyz: [0, 0, 0]}
    - {name: C2, element: C, xyz: [1.5, 0, 0]}
    - {name: O3, element: O, xyz: [2.1, 1.3, 0]}
    - {name: H4, element: H, xyz: [3.0, 1.3, 0.3]}
  bonds:
    - {atoms: [1, 2]}
    - {atoms: [2, 3], rotatable: true}
    - {atoms: [3, 4]}
  tethered_atoms: [1, 2, 3]
site:
  center: [1, 0.5, 0]
  radius: 2
  spacing: 1
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	sys, err := LoadSystem(path)
	require.NoError(t, err)
	assert.Equal(t, "ethanol", sys.Name)
	assert.Nil(t, sys.Receptor)
	require.NotNil(t, sys.Ligand)
	assert.Len(t, sys.Ligand.Atoms(), 4)
	assert.Len(t, sys.Ligand.TetheredAtoms(), 3)
	assert.Equal(t, 1, sys.Ligand.Bonds()[0].Order)
	assert.NotEmpty(t, sys.Site.CoordList())
}

func TestParseSystemRequiresLigand(t *testing.T) {
	_, err := ParseSystem([]byte("name: empty\n"))
	assert.True(t, errors.Is(err, errs.ErrBadArgument))
}
