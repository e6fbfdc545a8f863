package chrom

import (
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"gadock/internal/geom"
	"gadock/internal/molecule"
)

// PositionRef is the shared description of a rigid-body position. The
// measured position comes from the reference atoms (the tethered atoms when
// there are any, else all atoms) while every atom moves.
type PositionRef struct {
	atoms       []*molecule.Atom
	refAtoms    []*molecule.Atom
	startCoords []r3.Vec

	transStep float64
	rotStep   float64
	transMode Mode
	rotMode   Mode
	maxTrans  float64
	maxRot    float64

	initialCOM         r3.Vec
	initialOrientation geom.Euler
	initialQuat        quat.Number
}

// NewPositionRef prepares a model's position and orientation as degrees of
// freedom. Rotation step and bound are radians. A tethered component with a
// non-positive bound is treated as fixed.
func NewPositionRef(m *molecule.Model, site *molecule.DockingSite, transStep, rotStep float64, transMode, rotMode Mode, maxTrans, maxRot float64) *PositionRef {
	ref := &PositionRef{
		atoms:     m.Atoms(),
		refAtoms:  m.TetheredAtoms(),
		transStep: transStep,
		rotStep:   rotStep,
		transMode: transMode,
		rotMode:   rotMode,
		maxTrans:  maxTrans,
		maxRot:    maxRot,
	}
	if len(ref.refAtoms) == 0 {
		ref.refAtoms = ref.atoms
	}
	if site != nil {
		ref.startCoords = site.CoordList()
	}
	if ref.transMode == Tethered && ref.maxTrans <= 0 {
		ref.transMode, ref.maxTrans = Fixed, 0
	}
	if ref.rotMode == Tethered && ref.maxRot <= 0 {
		ref.rotMode, ref.maxRot = Fixed, 0
	}
	ref.initialCOM, ref.initialOrientation = ref.ModelValue()
	ref.initialQuat = ref.initialOrientation.ToQuat()
	return ref
}

func (p *PositionRef) TransStep() float64 { return p.transStep }
func (p *PositionRef) RotStep() float64   { return p.rotStep }
func (p *PositionRef) TransMode() Mode    { return p.transMode }
func (p *PositionRef) RotMode() Mode      { return p.rotMode }
func (p *PositionRef) MaxTrans() float64  { return p.maxTrans }
func (p *PositionRef) MaxRot() float64    { return p.maxRot }

// InitialCOM returns the centre of mass measured at construction.
func (p *PositionRef) InitialCOM() r3.Vec { return p.initialCOM }

// InitialOrientation returns the orientation measured at construction.
func (p *PositionRef) InitialOrientation() geom.Euler { return p.initialOrientation }

// StartCoords returns the candidate centres for free translation.
func (p *PositionRef) StartCoords() []r3.Vec { return p.startCoords }

// Length is 3 per non-fixed component.
func (p *PositionRef) Length() int { return 3 * p.XOverLength() }

// XOverLength is 1 per non-fixed component.
func (p *PositionRef) XOverLength() int {
	n := 0
	if p.transMode != Fixed {
		n++
	}
	if p.rotMode != Fixed {
		n++
	}
	return n
}

// ModelValue measures the centre of mass and orientation of the reference
// atoms. Orientation is the rotation from the Cartesian frame to the
// principal axes.
func (p *PositionRef) ModelValue() (r3.Vec, geom.Euler) {
	pa := molecule.PrincipalAxesOfAtoms(p.refAtoms)
	q := geom.AlignAxesQuat(geom.CartesianAxes(), pa)
	return pa.COM, geom.EulerFromQuat(q)
}

// SetModelValue moves all atoms rigidly so the reference atoms have the
// given centre of mass and orientation.
func (p *PositionRef) SetModelValue(com r3.Vec, orientation geom.Euler) {
	pa := molecule.PrincipalAxesOfAtoms(p.refAtoms)
	qBack := geom.AlignAxesQuat(pa, geom.CartesianAxes())
	q := quat.Mul(orientation.ToQuat(), qBack)
	molecule.TranslateAtoms(p.atoms, r3.Scale(-1, pa.COM))
	molecule.RotateAtoms(p.atoms, q)
	molecule.TranslateAtoms(p.atoms, com)
}
