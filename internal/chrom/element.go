// Package chrom implements the genetic representation of a docking pose:
// chromosome elements for rigid-body position, dihedral angles and
// occupancy, the composite Chrom that strings them together, crossover, and
// the factory that derives elements from flexibility settings.
//
// Each element pairs a live value with a reference record that is built
// once per degree of freedom and shared, read-only, by every clone.
package chrom

import (
	"fmt"
	"math"

	"gadock/internal/errs"
	"gadock/internal/rng"
)

// DefaultEqualityThreshold is the relative distance below which two
// chromosomes compare equal.
const DefaultEqualityThreshold = 1e-4

// XOverBlock is a group of values that crossover moves as a unit.
type XOverBlock []float64

// Element is a unit of genetic representation.
type Element interface {
	// Reset restores the initial value.
	Reset()
	// Randomise draws a new value according to the mode.
	Randomise(r *rng.Rand)
	// Mutate perturbs the value by at most relStepSize times the step size.
	Mutate(r *rng.Rand, relStepSize float64)
	// SyncFromModel reads the value from the model coordinates.
	SyncFromModel()
	// SyncToModel writes the value onto the model coordinates.
	SyncToModel()
	// Clone returns an independent copy sharing reference data.
	Clone() Element

	Length() int
	XOverLength() int
	// Vector appends the plain values to v.
	Vector(v []float64) []float64
	// XOverVector appends the crossover blocks to v.
	XOverVector(v []XOverBlock) []XOverBlock
	// SetVector consumes Length values from v starting at *i.
	SetVector(v []float64, i *int) error
	// SetXOverVector consumes XOverLength blocks from v starting at *i.
	SetXOverVector(v []XOverBlock, i *int) error
	// CompareVector returns the largest distance, relative to step size,
	// between the live value and the values at *i, or -1 if v is too short.
	CompareVector(v []float64, i *int) float64
}

// vectorOK reports whether v has room for length values at i.
func vectorOK(length, vlen, i int) bool {
	if length == 0 {
		return true
	}
	return i >= 0 && i < vlen && length <= vlen-i
}

func indexError(kind string, length, vlen, i int) error {
	return fmt.Errorf("%s element needs %d values at index %d of %d: %w", kind, length, i, vlen, errs.ErrIndex)
}

// Compare returns the relative distance between two elements, or -1 when
// their lengths differ.
func Compare(a, b Element) float64 {
	if a.Length() != b.Length() {
		return -1
	}
	v := b.Vector(nil)
	i := 0
	return a.CompareVector(v, &i)
}

// Equal reports whether two elements are within threshold of each other.
func Equal(a, b Element, threshold float64) bool {
	cmp := Compare(a, b)
	return cmp >= 0 && cmp < threshold
}

// SetFromVector replaces the element's values with v, which must hold at
// least Length values.
func SetFromVector(e Element, v []float64) error {
	i := 0
	return e.SetVector(v, &i)
}

// CauchyMutate draws a relative step from a Cauchy distribution and mutates
// e by its magnitude.
func CauchyMutate(e Element, r *rng.Rand, mean, variance float64) {
	relStepSize := math.Abs(r.Cauchy(mean, variance))
	e.Mutate(r, relStepSize)
}

func relDiff(absDiff, step float64) float64 {
	if step > 0 {
		return absDiff / step
	}
	return 0
}
