package chrom

import (
	"math"

	"gadock/internal/geom"
	"gadock/internal/rng"
)

// OccupancyElement holds a solvent occupancy in [0, 1].
type OccupancyElement struct {
	ref   *OccupancyRef
	value float64
}

// NewOccupancyElement returns an element at the reference's initial
// occupancy.
func NewOccupancyElement(ref *OccupancyRef) *OccupancyElement {
	return &OccupancyElement{ref: ref, value: ref.initial}
}

func (e *OccupancyElement) Value() float64     { return e.value }
func (e *OccupancyElement) Ref() *OccupancyRef { return e.ref }

func (e *OccupancyElement) Reset()                { e.value = e.ref.initial }
func (e *OccupancyElement) Randomise(r *rng.Rand) { e.value = r.Float64() }

func (e *OccupancyElement) Mutate(r *rng.Rand, relStepSize float64) {
	abs := relStepSize * e.ref.step
	if abs <= 0 {
		return
	}
	e.value = geom.Clamp(e.value+r.Uniform(-abs, abs), 0, 1)
}

func (e *OccupancyElement) SyncFromModel() { e.value = e.ref.ModelValue() }
func (e *OccupancyElement) SyncToModel()   { e.ref.SetModelValue(e.value) }

func (e *OccupancyElement) Clone() Element {
	return &OccupancyElement{ref: e.ref, value: e.value}
}

func (e *OccupancyElement) Length() int      { return 1 }
func (e *OccupancyElement) XOverLength() int { return 1 }

func (e *OccupancyElement) Vector(v []float64) []float64 { return append(v, e.value) }

func (e *OccupancyElement) XOverVector(v []XOverBlock) []XOverBlock {
	return append(v, XOverBlock{e.value})
}

func (e *OccupancyElement) SetVector(v []float64, i *int) error {
	if !vectorOK(1, len(v), *i) {
		return indexError("occupancy", 1, len(v), *i)
	}
	e.value = geom.Clamp(v[*i], 0, 1)
	*i++
	return nil
}

func (e *OccupancyElement) SetXOverVector(v []XOverBlock, i *int) error {
	if !vectorOK(1, len(v), *i) || len(v[*i]) != 1 {
		return indexError("occupancy crossover", 1, len(v), *i)
	}
	e.value = geom.Clamp(v[*i][0], 0, 1)
	*i++
	return nil
}

func (e *OccupancyElement) CompareVector(v []float64, i *int) float64 {
	if !vectorOK(1, len(v), *i) {
		return -1
	}
	diff := math.Abs(e.value - v[*i])
	*i++
	return relDiff(diff, e.ref.step)
}
