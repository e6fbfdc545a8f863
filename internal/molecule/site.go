package molecule

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// DockingSite is the cavity the ligand is docked into, represented by the
// candidate coordinates a free ligand centre may be placed at.
type DockingSite struct {
	coords []r3.Vec
	min    r3.Vec
	max    r3.Vec
}

// NewDockingSite builds a site from its candidate coordinates.
func NewDockingSite(coords []r3.Vec) *DockingSite {
	s := &DockingSite{coords: coords}
	if len(coords) == 0 {
		return s
	}
	s.min, s.max = coords[0], coords[0]
	for _, c := range coords[1:] {
		s.min = r3.Vec{X: math.Min(s.min.X, c.X), Y: math.Min(s.min.Y, c.Y), Z: math.Min(s.min.Z, c.Z)}
		s.max = r3.Vec{X: math.Max(s.max.X, c.X), Y: math.Max(s.max.Y, c.Y), Z: math.Max(s.max.Z, c.Z)}
	}
	return s
}

// NewSphereSite fills a sphere of the given radius with a cubic grid of the
// given spacing.
func NewSphereSite(center r3.Vec, radius, spacing float64) *DockingSite {
	if spacing <= 0 || radius < 0 {
		return NewDockingSite([]r3.Vec{center})
	}
	n := int(math.Floor(radius / spacing))
	var coords []r3.Vec
	r2 := radius * radius
	for i := -n; i <= n; i++ {
		for j := -n; j <= n; j++ {
			for k := -n; k <= n; k++ {
				d := r3.Vec{X: float64(i) * spacing, Y: float64(j) * spacing, Z: float64(k) * spacing}
				if r3.Norm2(d) <= r2 {
					coords = append(coords, r3.Add(center, d))
				}
			}
		}
	}
	return NewDockingSite(coords)
}

// CoordList returns the candidate coordinates.
func (s *DockingSite) CoordList() []r3.Vec { return s.coords }

// Min returns the lower corner of the bounding box.
func (s *DockingSite) Min() r3.Vec { return s.min }

// Max returns the upper corner of the bounding box.
func (s *DockingSite) Max() r3.Vec { return s.max }

// Center returns the middle of the bounding box.
func (s *DockingSite) Center() r3.Vec {
	return r3.Scale(0.5, r3.Add(s.min, s.max))
}

// DistanceTo returns the distance from p to the nearest site coordinate, or
// +Inf for an empty site.
func (s *DockingSite) DistanceTo(p r3.Vec) float64 {
	best := math.Inf(1)
	for _, c := range s.coords {
		if d := r3.Norm2(r3.Sub(p, c)); d < best {
			best = d
		}
	}
	return math.Sqrt(best)
}
