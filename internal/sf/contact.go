package sf

import (
	"gonum.org/v1/gonum/spatial/r3"

	"gadock/internal/molecule"
)

// Cavity penalises atoms that leave the docking site. Each atom contributes
// its squared distance to the nearest site coordinate beyond a tolerance.
type Cavity struct {
	model     *molecule.Model
	site      *molecule.DockingSite
	tolerance float64
}

// NewCavity returns a cavity term for the heavy atoms of m.
func NewCavity(m *molecule.Model, site *molecule.DockingSite, tolerance float64) *Cavity {
	return &Cavity{model: m, site: site, tolerance: tolerance}
}

func (c *Cavity) Score() float64 {
	total := 0.0
	for _, a := range c.model.Atoms() {
		if a.IsHydrogen() {
			continue
		}
		if d := c.site.DistanceTo(a.Coords) - c.tolerance; d > 0 {
			total += d * d
		}
	}
	return total
}

// Steric is a soft clash penalty between the heavy atoms of one model and
// those of a set of partner models. A pair closer than radius contributes
// (radius - d)^2. Disabled partners are ignored.
type Steric struct {
	model    *molecule.Model
	partners []*molecule.Model
	radius   float64
}

// NewSteric returns a clash term between m and partners.
func NewSteric(m *molecule.Model, radius float64, partners ...*molecule.Model) *Steric {
	return &Steric{model: m, partners: partners, radius: radius}
}

func (s *Steric) Score() float64 {
	if !s.model.Enabled() {
		return 0
	}
	r2 := s.radius * s.radius
	total := 0.0
	for _, p := range s.partners {
		if p == nil || !p.Enabled() {
			continue
		}
		for _, a := range s.model.Atoms() {
			if a.IsHydrogen() {
				continue
			}
			for _, b := range p.Atoms() {
				if b.IsHydrogen() {
					continue
				}
				d2 := r3.Norm2(r3.Sub(a.Coords, b.Coords))
				if d2 >= r2 {
					continue
				}
				d := s.radius - r3.Norm(r3.Sub(a.Coords, b.Coords))
				total += d * d
			}
		}
	}
	return total
}
