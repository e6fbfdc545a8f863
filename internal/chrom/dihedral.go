package chrom

import (
	"math"

	"gadock/internal/geom"
	"gadock/internal/rng"
)

// DihedralElement holds one torsion angle in degrees.
type DihedralElement struct {
	ref   *DihedralRef
	value float64
}

// NewDihedralElement returns an element at the reference's initial angle.
func NewDihedralElement(ref *DihedralRef) *DihedralElement {
	return &DihedralElement{ref: ref, value: ref.initial}
}

// Value returns the live angle.
func (e *DihedralElement) Value() float64 { return e.value }

// Ref returns the shared reference data.
func (e *DihedralElement) Ref() *DihedralRef { return e.ref }

func (e *DihedralElement) Reset() { e.value = e.ref.initial }

func (e *DihedralElement) Randomise(r *rng.Rand) {
	switch e.ref.mode {
	case Tethered:
		e.value = geom.StandardisedDegrees(e.ref.initial + r.Uniform(-e.ref.max, e.ref.max))
	case Free:
		e.value = r.Uniform(-180, 180)
	}
}

func (e *DihedralElement) Mutate(r *rng.Rand, relStepSize float64) {
	if e.ref.mode == Fixed {
		return
	}
	abs := relStepSize * e.ref.step
	if abs <= 0 {
		return
	}
	e.value = geom.StandardisedDegrees(e.value + r.Uniform(-abs, abs))
	if e.ref.mode == Tethered {
		e.correctTether()
	}
}

func (e *DihedralElement) correctTether() {
	diff := geom.StandardisedDegrees(e.value - e.ref.initial)
	switch {
	case diff > e.ref.max:
		e.value = geom.StandardisedDegrees(e.ref.initial + e.ref.max)
	case diff < -e.ref.max:
		e.value = geom.StandardisedDegrees(e.ref.initial - e.ref.max)
	}
}

func (e *DihedralElement) SyncFromModel() { e.value = e.ref.ModelValue() }
func (e *DihedralElement) SyncToModel()   { e.ref.SetModelValue(e.value) }

func (e *DihedralElement) Clone() Element {
	return &DihedralElement{ref: e.ref, value: e.value}
}

func (e *DihedralElement) Length() int {
	if e.ref.mode == Fixed {
		return 0
	}
	return 1
}

func (e *DihedralElement) XOverLength() int { return e.Length() }

func (e *DihedralElement) Vector(v []float64) []float64 {
	if e.Length() == 0 {
		return v
	}
	return append(v, e.value)
}

func (e *DihedralElement) XOverVector(v []XOverBlock) []XOverBlock {
	if e.Length() == 0 {
		return v
	}
	return append(v, XOverBlock{e.value})
}

func (e *DihedralElement) SetVector(v []float64, i *int) error {
	n := e.Length()
	if !vectorOK(n, len(v), *i) {
		return indexError("dihedral", n, len(v), *i)
	}
	if n == 0 {
		return nil
	}
	e.value = geom.StandardisedDegrees(v[*i])
	*i++
	return nil
}

func (e *DihedralElement) SetXOverVector(v []XOverBlock, i *int) error {
	n := e.XOverLength()
	if !vectorOK(n, len(v), *i) || (n > 0 && len(v[*i]) != 1) {
		return indexError("dihedral crossover", n, len(v), *i)
	}
	if n == 0 {
		return nil
	}
	e.value = geom.StandardisedDegrees(v[*i][0])
	*i++
	return nil
}

func (e *DihedralElement) CompareVector(v []float64, i *int) float64 {
	n := e.Length()
	if !vectorOK(n, len(v), *i) {
		return -1
	}
	if n == 0 {
		return 0
	}
	other := v[*i]
	*i++
	return relDiff(math.Abs(geom.StandardisedDegrees(e.value-other)), e.ref.step)
}
