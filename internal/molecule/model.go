package molecule

import (
	"fmt"

	"gonum.org/v1/gonum/graph/simple"

	"gadock/internal/errs"
)

// Bond joins two atoms by ID. Rotatable marks a bond the flexibility setup
// may turn into a dihedral degree of freedom.
type Bond struct {
	ID        int
	Atom1     int
	Atom2     int
	Order     int
	Rotatable bool
}

// Model is a molecule: an ordered atom list, its bonds, an optional tethered
// atom subset and an occupancy state.
type Model struct {
	Name string

	atoms     []*Atom
	bonds     []*Bond
	neighbors map[int][]int
	graph     *simple.UndirectedGraph
	tethered  []*Atom

	occupancy float64
	enabled   bool
}

// NewModel builds a model. Atom IDs must run 1..len(atoms) in order and
// every bond must reference existing atoms.
func NewModel(name string, atoms []*Atom, bonds []*Bond) (*Model, error) {
	m := &Model{
		Name:      name,
		atoms:     atoms,
		bonds:     bonds,
		neighbors: make(map[int][]int, len(atoms)),
		graph:     simple.NewUndirectedGraph(),
		occupancy: 1,
		enabled:   true,
	}
	for i, a := range atoms {
		if a == nil || a.ID != i+1 {
			return nil, fmt.Errorf("model %s: atom ids must be contiguous from 1 (index %d): %w", name, i, errs.ErrBadArgument)
		}
		m.graph.AddNode(simple.Node(a.ID))
	}
	for _, b := range bonds {
		if b.Atom1 == b.Atom2 || m.Atom(b.Atom1) == nil || m.Atom(b.Atom2) == nil {
			return nil, fmt.Errorf("model %s: bond %d references invalid atoms %d-%d: %w", name, b.ID, b.Atom1, b.Atom2, errs.ErrBadArgument)
		}
		m.neighbors[b.Atom1] = append(m.neighbors[b.Atom1], b.Atom2)
		m.neighbors[b.Atom2] = append(m.neighbors[b.Atom2], b.Atom1)
		m.graph.SetEdge(simple.Edge{F: simple.Node(b.Atom1), T: simple.Node(b.Atom2)})
	}
	return m, nil
}

// Atoms returns the model's atom list. The atoms are shared, not copied.
func (m *Model) Atoms() []*Atom { return m.atoms }

// Bonds returns the model's bonds.
func (m *Model) Bonds() []*Bond { return m.bonds }

// Atom returns the atom with the given ID, or nil.
func (m *Model) Atom(id int) *Atom {
	if id < 1 || id > len(m.atoms) {
		return nil
	}
	return m.atoms[id-1]
}

// BondedAtoms returns the atoms bonded to id in bond order.
func (m *Model) BondedAtoms(id int) []*Atom {
	ids := m.neighbors[id]
	out := make([]*Atom, 0, len(ids))
	for _, n := range ids {
		out = append(out, m.atoms[n-1])
	}
	return out
}

// TetheredAtoms returns the tethered atom subset, which may be empty.
func (m *Model) TetheredAtoms() []*Atom { return m.tethered }

// SetTetheredAtoms marks the atoms with the given IDs as tethered.
func (m *Model) SetTetheredAtoms(ids []int) error {
	tethered := make([]*Atom, 0, len(ids))
	for _, id := range ids {
		a := m.Atom(id)
		if a == nil {
			return fmt.Errorf("model %s: tethered atom %d not found: %w", m.Name, id, errs.ErrBadArgument)
		}
		tethered = append(tethered, a)
	}
	m.tethered = tethered
	return nil
}

// SetOccupancy stores the occupancy value and enables the model when the
// value reaches threshold.
func (m *Model) SetOccupancy(value, threshold float64) {
	m.occupancy = value
	m.enabled = value >= threshold
}

// Occupancy returns the last occupancy value set.
func (m *Model) Occupancy() float64 { return m.occupancy }

// Enabled reports whether the model currently takes part in scoring.
func (m *Model) Enabled() bool { return m.enabled }

// RotatableBonds returns the bonds flagged rotatable that are not part of a
// ring.
func (m *Model) RotatableBonds() []*Bond {
	var out []*Bond
	for _, b := range m.bonds {
		if !b.Rotatable {
			continue
		}
		if _, cyclic := m.ToSpin(b.Atom1, b.Atom2); cyclic {
			continue
		}
		out = append(out, b)
	}
	return out
}
