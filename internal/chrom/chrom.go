package chrom

import (
	"math"

	"gadock/internal/rng"
)

// Chrom is an ordered composite of elements, possibly nested. Every
// operation visits the children in insertion order.
type Chrom struct {
	elements []Element
}

// NewChrom returns a composite holding elements.
func NewChrom(elements ...Element) *Chrom {
	return &Chrom{elements: append([]Element(nil), elements...)}
}

// Add appends an element.
func (c *Chrom) Add(e Element) { c.elements = append(c.elements, e) }

// Elements returns the children.
func (c *Chrom) Elements() []Element { return c.elements }

// Equals reports whether c and other are within threshold of each other.
func (c *Chrom) Equals(other Element, threshold float64) bool {
	return Equal(c, other, threshold)
}

func (c *Chrom) Reset() {
	for _, e := range c.elements {
		e.Reset()
	}
}

func (c *Chrom) Randomise(r *rng.Rand) {
	for _, e := range c.elements {
		e.Randomise(r)
	}
}

func (c *Chrom) Mutate(r *rng.Rand, relStepSize float64) {
	for _, e := range c.elements {
		e.Mutate(r, relStepSize)
	}
}

func (c *Chrom) SyncFromModel() {
	for _, e := range c.elements {
		e.SyncFromModel()
	}
}

func (c *Chrom) SyncToModel() {
	for _, e := range c.elements {
		e.SyncToModel()
	}
}

func (c *Chrom) Clone() Element {
	clone := &Chrom{elements: make([]Element, len(c.elements))}
	for i, e := range c.elements {
		clone.elements[i] = e.Clone()
	}
	return clone
}

func (c *Chrom) Length() int {
	n := 0
	for _, e := range c.elements {
		n += e.Length()
	}
	return n
}

func (c *Chrom) XOverLength() int {
	n := 0
	for _, e := range c.elements {
		n += e.XOverLength()
	}
	return n
}

func (c *Chrom) Vector(v []float64) []float64 {
	for _, e := range c.elements {
		v = e.Vector(v)
	}
	return v
}

func (c *Chrom) XOverVector(v []XOverBlock) []XOverBlock {
	for _, e := range c.elements {
		v = e.XOverVector(v)
	}
	return v
}

func (c *Chrom) SetVector(v []float64, i *int) error {
	n := c.Length()
	if !vectorOK(n, len(v), *i) {
		return indexError("chrom", n, len(v), *i)
	}
	for _, e := range c.elements {
		if err := e.SetVector(v, i); err != nil {
			return err
		}
	}
	return nil
}

func (c *Chrom) SetXOverVector(v []XOverBlock, i *int) error {
	n := c.XOverLength()
	if !vectorOK(n, len(v), *i) {
		return indexError("chrom crossover", n, len(v), *i)
	}
	for _, e := range c.elements {
		if err := e.SetXOverVector(v, i); err != nil {
			return err
		}
	}
	return nil
}

// CompareVector returns the largest child distance, so the worst degree of
// freedom decides similarity.
func (c *Chrom) CompareVector(v []float64, i *int) float64 {
	n := c.Length()
	if !vectorOK(n, len(v), *i) {
		return -1
	}
	worst := 0.0
	for _, e := range c.elements {
		d := e.CompareVector(v, i)
		if d < 0 {
			return d
		}
		worst = math.Max(worst, d)
	}
	return worst
}
