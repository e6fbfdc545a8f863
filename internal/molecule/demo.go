package molecule

import "gonum.org/v1/gonum/spatial/r3"

// DemoSystem returns a small built-in system: a branched alcohol ligand with
// three rotatable bonds, a serine-like receptor fragment with a terminal
// hydroxyl, one water and a spherical site around the ligand.
func DemoSystem() *System {
	ligand, err := NewModel("demo-ligand", []*Atom{
		NewAtom(1, "C1", "C", r3.Vec{X: 0, Y: 0, Z: 0}),
		NewAtom(2, "C2", "C", r3.Vec{X: 1.25, Y: 0.85, Z: 0.1}),
		NewAtom(3, "C3", "C", r3.Vec{X: 2.55, Y: 0.05, Z: -0.2}),
		NewAtom(4, "C4", "C", r3.Vec{X: 3.8, Y: 0.9, Z: 0.3}),
		NewAtom(5, "O5", "O", r3.Vec{X: 5.05, Y: 0.1, Z: 0}),
		NewAtom(6, "H6", "H", r3.Vec{X: 5.8, Y: 0.7, Z: 0.2}),
		NewAtom(7, "C7", "C", r3.Vec{X: 2.6, Y: -0.9, Z: 1.0}),
	}, []*Bond{
		{ID: 1, Atom1: 1, Atom2: 2, Order: 1},
		{ID: 2, Atom1: 2, Atom2: 3, Order: 1, Rotatable: true},
		{ID: 3, Atom1: 3, Atom2: 4, Order: 1, Rotatable: true},
		{ID: 4, Atom1: 4, Atom2: 5, Order: 1, Rotatable: true},
		{ID: 5, Atom1: 5, Atom2: 6, Order: 1},
		{ID: 6, Atom1: 3, Atom2: 7, Order: 1},
	})
	if err != nil {
		panic(err)
	}

	receptor, err := NewModel("demo-receptor", []*Atom{
		NewAtom(1, "N", "N", r3.Vec{X: -1.2, Y: 5.7, Z: -0.3}),
		NewAtom(2, "CA", "C", r3.Vec{X: 0, Y: 5, Z: 0}),
		NewAtom(3, "CB", "C", r3.Vec{X: 1.2, Y: 5.6, Z: 0.4}),
		NewAtom(4, "OG", "O", r3.Vec{X: 2.3, Y: 4.9, Z: 0.1}),
		NewAtom(5, "HG", "H", r3.Vec{X: 3.0, Y: 5.4, Z: 0.5}),
	}, []*Bond{
		{ID: 1, Atom1: 1, Atom2: 2, Order: 1},
		{ID: 2, Atom1: 2, Atom2: 3, Order: 1, Rotatable: true},
		{ID: 3, Atom1: 3, Atom2: 4, Order: 1, Rotatable: true},
		{ID: 4, Atom1: 4, Atom2: 5, Order: 1},
	})
	if err != nil {
		panic(err)
	}

	water, err := NewModel("demo-water", []*Atom{
		NewAtom(1, "O", "O", r3.Vec{X: 2.0, Y: -3.0, Z: 0}),
		NewAtom(2, "H1", "H", r3.Vec{X: 2.96, Y: -3.0, Z: 0}),
		NewAtom(3, "H2", "H", r3.Vec{X: 1.76, Y: -2.07, Z: 0}),
	}, []*Bond{
		{ID: 1, Atom1: 1, Atom2: 2, Order: 1},
		{ID: 2, Atom1: 1, Atom2: 3, Order: 1},
	})
	if err != nil {
		panic(err)
	}

	return &System{
		Name:     "demo",
		Receptor: receptor,
		Ligand:   ligand,
		Solvent:  []*Model{water},
		Site:     NewSphereSite(r3.Vec{X: 2.6, Y: 0.3, Z: 0.2}, 3, 1),
	}
}
