package molecule

import (
	"fmt"
	"os"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"gadock/internal/errs"
)

// System is everything a docking run operates on.
type System struct {
	Name     string
	Receptor *Model
	Ligand   *Model
	Solvent  []*Model
	Site     *DockingSite
}

type systemFile struct {
	Name     string      `yaml:"name"`
	Receptor *modelFile  `yaml:"receptor"`
	Ligand   *modelFile  `yaml:"ligand"`
	Solvent  []modelFile `yaml:"solvent"`
	Site     siteFile    `yaml:"site"`
}

type modelFile struct {
	Name     string     `yaml:"name"`
	Atoms    []atomFile `yaml:"atoms"`
	Bonds    []bondFile `yaml:"bonds"`
	Tethered []int      `yaml:"tethered_atoms"`
}

type atomFile struct {
	Name    string     `yaml:"name"`
	Element string     `yaml:"element"`
	XYZ     [3]float64 `yaml:"xyz"`
}

type bondFile struct {
	Atoms     [2]int `yaml:"atoms"`
	Order     int    `yaml:"order"`
	Rotatable bool   `yaml:"rotatable"`
}

type siteFile struct {
	Center  *[3]float64  `yaml:"center"`
	Radius  float64      `yaml:"radius"`
	Spacing float64      `yaml:"spacing"`
	Coords  [][3]float64 `yaml:"coords"`
}

// LoadSystem reads a YAML system description from path.
func LoadSystem(path string) (*System, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read system %s: %w", path, err)
	}
	sys, err := ParseSystem(data)
	if err != nil {
		return nil, fmt.Errorf("parse system %s: %w", path, err)
	}
	return sys, nil
}

// ParseSystem decodes a YAML system description. A ligand is required; the
// receptor and solvent are optional.
func ParseSystem(data []byte) (*System, error) {
	var raw systemFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw.Ligand == nil {
		return nil, fmt.Errorf("system %q has no ligand: %w", raw.Name, errs.ErrBadArgument)
	}

	sys := &System{Name: raw.Name}
	var err error
	if sys.Ligand, err = raw.Ligand.build("ligand"); err != nil {
		return nil, err
	}
	if raw.Receptor != nil {
		if sys.Receptor, err = raw.Receptor.build("receptor"); err != nil {
			return nil, err
		}
	}
	for i := range raw.Solvent {
		solvent, err := raw.Solvent[i].build(fmt.Sprintf("solvent%d", i+1))
		if err != nil {
			return nil, err
		}
		sys.Solvent = append(sys.Solvent, solvent)
	}
	sys.Site = raw.Site.build()
	return sys, nil
}

func (f *modelFile) build(fallbackName string) (*Model, error) {
	name := f.Name
	if name == "" {
		name = fallbackName
	}
	atoms := make([]*Atom, len(f.Atoms))
	for i, a := range f.Atoms {
		atoms[i] = NewAtom(i+1, a.Name, a.Element, vec(a.XYZ))
	}
	bonds := make([]*Bond, len(f.Bonds))
	for i, b := range f.Bonds {
		order := b.Order
		if order == 0 {
			order = 1
		}
		bonds[i] = &Bond{ID: i + 1, Atom1: b.Atoms[0], Atom2: b.Atoms[1], Order: order, Rotatable: b.Rotatable}
	}
	m, err := NewModel(name, atoms, bonds)
	if err != nil {
		return nil, err
	}
	if len(f.Tethered) > 0 {
		if err := m.SetTetheredAtoms(f.Tethered); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (f siteFile) build() *DockingSite {
	if len(f.Coords) > 0 {
		coords := make([]r3.Vec, len(f.Coords))
		for i, c := range f.Coords {
			coords[i] = vec(c)
		}
		return NewDockingSite(coords)
	}
	if f.Center != nil {
		return NewSphereSite(vec(*f.Center), f.Radius, f.Spacing)
	}
	return NewDockingSite(nil)
}

func vec(xyz [3]float64) r3.Vec {
	return r3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]}
}
