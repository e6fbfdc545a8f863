package chrom

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"gadock/internal/geom"
	"gadock/internal/rng"
)

// tetherMargin pulls corrected values just inside the tether boundary.
const tetherMargin = 0.999

// PositionElement holds a rigid-body centre of mass and orientation.
type PositionElement struct {
	ref         *PositionRef
	com         r3.Vec
	orientation geom.Euler
}

// NewPositionElement returns an element at the reference's initial pose.
func NewPositionElement(ref *PositionRef) *PositionElement {
	return &PositionElement{ref: ref, com: ref.initialCOM, orientation: ref.initialOrientation}
}

// COM returns the live centre of mass.
func (e *PositionElement) COM() r3.Vec { return e.com }

// Orientation returns the live orientation.
func (e *PositionElement) Orientation() geom.Euler { return e.orientation }

// Ref returns the shared reference data.
func (e *PositionElement) Ref() *PositionRef { return e.ref }

func (e *PositionElement) Reset() {
	e.com = e.ref.initialCOM
	e.orientation = e.ref.initialOrientation
}

func (e *PositionElement) Randomise(r *rng.Rand) {
	switch e.ref.transMode {
	case Tethered:
		dist := r.Uniform(0, e.ref.maxTrans)
		e.com = r3.Add(e.ref.initialCOM, r3.Scale(dist, r.UnitVector()))
	case Free:
		if n := len(e.ref.startCoords); n > 0 {
			e.com = e.ref.startCoords[r.IntN(n)]
		}
	}
	switch e.ref.rotMode {
	case Tethered:
		theta := r.Uniform(0, e.ref.maxRot)
		e.orientation = e.ref.initialOrientation.Rotate(r.UnitVector(), theta)
	case Free:
		e.orientation = geom.Euler{
			Heading:  r.Uniform(-math.Pi, math.Pi),
			Attitude: r.Uniform(-math.Pi/2, math.Pi/2),
			Bank:     r.Uniform(-math.Pi, math.Pi),
		}
	}
}

func (e *PositionElement) Mutate(r *rng.Rand, relStepSize float64) {
	if e.ref.transMode != Fixed {
		if abs := relStepSize * e.ref.transStep; abs > 0 {
			dist := abs * r.Float64()
			e.com = r3.Add(e.com, r3.Scale(dist, r.UnitVector()))
			if e.ref.transMode == Tethered {
				e.correctTetheredCOM()
			}
		}
	}
	if e.ref.rotMode != Fixed {
		if abs := relStepSize * e.ref.rotStep; abs > 0 {
			theta := abs * r.Float64()
			e.orientation = e.orientation.Rotate(r.UnitVector(), theta)
			if e.ref.rotMode == Tethered {
				e.correctTetheredOrientation()
			}
		}
	}
}

func (e *PositionElement) correctTetheredCOM() {
	d := r3.Sub(e.com, e.ref.initialCOM)
	if r3.Norm2(d) > e.ref.maxTrans*e.ref.maxTrans {
		e.com = r3.Add(e.ref.initialCOM, r3.Scale(tetherMargin*e.ref.maxTrans, geom.UnitOrZero(d)))
	}
}

// correctTetheredOrientation rotates the orientation back towards the
// initial one, about the axis joining them, until it is inside the bound.
func (e *PositionElement) correctTetheredOrientation() {
	qAlign := quat.Mul(e.ref.initialQuat, quat.Conj(e.orientation.ToQuat()))
	theta := geom.QuatAngle(qAlign)
	axis := geom.UnitOrZero(geom.QuatVector(qAlign))
	switch {
	case theta > e.ref.maxRot:
		e.orientation = e.orientation.Rotate(axis, theta-tetherMargin*e.ref.maxRot)
	case theta < -e.ref.maxRot:
		e.orientation = e.orientation.Rotate(axis, theta+tetherMargin*e.ref.maxRot)
	}
}

func (e *PositionElement) SyncFromModel() { e.com, e.orientation = e.ref.ModelValue() }
func (e *PositionElement) SyncToModel()   { e.ref.SetModelValue(e.com, e.orientation) }

func (e *PositionElement) Clone() Element {
	return &PositionElement{ref: e.ref, com: e.com, orientation: e.orientation}
}

func (e *PositionElement) Length() int      { return e.ref.Length() }
func (e *PositionElement) XOverLength() int { return e.ref.XOverLength() }

func (e *PositionElement) Vector(v []float64) []float64 {
	if e.ref.transMode != Fixed {
		v = append(v, e.com.X, e.com.Y, e.com.Z)
	}
	if e.ref.rotMode != Fixed {
		v = append(v, e.orientation.Heading, e.orientation.Attitude, e.orientation.Bank)
	}
	return v
}

func (e *PositionElement) XOverVector(v []XOverBlock) []XOverBlock {
	if e.ref.transMode != Fixed {
		v = append(v, XOverBlock{e.com.X, e.com.Y, e.com.Z})
	}
	if e.ref.rotMode != Fixed {
		v = append(v, XOverBlock{e.orientation.Heading, e.orientation.Attitude, e.orientation.Bank})
	}
	return v
}

func (e *PositionElement) SetVector(v []float64, i *int) error {
	n := e.Length()
	if !vectorOK(n, len(v), *i) {
		return indexError("position", n, len(v), *i)
	}
	if e.ref.transMode != Fixed {
		e.com = r3.Vec{X: v[*i], Y: v[*i+1], Z: v[*i+2]}
		*i += 3
	}
	if e.ref.rotMode != Fixed {
		e.orientation = geom.Euler{Heading: v[*i], Attitude: v[*i+1], Bank: v[*i+2]}.Standardise()
		*i += 3
	}
	return nil
}

func (e *PositionElement) SetXOverVector(v []XOverBlock, i *int) error {
	n := e.XOverLength()
	if !vectorOK(n, len(v), *i) {
		return indexError("position crossover", n, len(v), *i)
	}
	for k := *i; k < *i+n; k++ {
		if len(v[k]) != 3 {
			return indexError("position crossover", n, len(v), *i)
		}
	}
	if e.ref.transMode != Fixed {
		b := v[*i]
		e.com = r3.Vec{X: b[0], Y: b[1], Z: b[2]}
		*i++
	}
	if e.ref.rotMode != Fixed {
		b := v[*i]
		e.orientation = geom.Euler{Heading: b[0], Attitude: b[1], Bank: b[2]}.Standardise()
		*i++
	}
	return nil
}

// CompareVector returns the larger of the translation distance over the
// translation step and the rotation angle over the rotation step.
func (e *PositionElement) CompareVector(v []float64, i *int) float64 {
	n := e.Length()
	if !vectorOK(n, len(v), *i) {
		return -1
	}
	var comDiff, rotDiff float64
	if e.ref.transMode != Fixed {
		other := r3.Vec{X: v[*i], Y: v[*i+1], Z: v[*i+2]}
		*i += 3
		comDiff = relDiff(geom.Distance(e.com, other), e.ref.transStep)
	}
	if e.ref.rotMode != Fixed {
		other := geom.Euler{Heading: v[*i], Attitude: v[*i+1], Bank: v[*i+2]}
		*i += 3
		qAlign := quat.Mul(other.ToQuat(), quat.Conj(e.orientation.ToQuat()))
		rotDiff = relDiff(math.Abs(geom.QuatAngle(qAlign)), e.ref.rotStep)
	}
	return math.Max(comDiff, rotDiff)
}
