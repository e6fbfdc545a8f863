// Package rng carries the random number state used by randomisation,
// mutation and selection. A Rand is passed explicitly to every operation
// that draws numbers so a seeded run is reproducible.
package rng

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat/distuv"
)

// Rand is a seeded pseudo-random source. It is not safe for concurrent use.
type Rand struct {
	seed uint64
	src  *rand.Rand
}

// New returns a Rand seeded with seed.
func New(seed uint64) *Rand {
	return &Rand{
		seed: seed,
		src:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Seed returns the seed the generator was created with.
func (r *Rand) Seed() uint64 { return r.seed }

// Uint64 implements rand.Source so a Rand can drive gonum distributions.
func (r *Rand) Uint64() uint64 { return r.src.Uint64() }

// Float64 returns a uniform value in [0, 1).
func (r *Rand) Float64() float64 { return r.src.Float64() }

// Uniform returns a uniform value in [lo, hi).
func (r *Rand) Uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*r.src.Float64()
}

// IntN returns a uniform integer in [0, n). It returns 0 when n <= 0.
func (r *Rand) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return r.src.IntN(n)
}

// UnitVector returns a direction drawn uniformly from the unit sphere.
func (r *Rand) UnitVector() r3.Vec {
	z := 2*r.src.Float64() - 1
	t := 2 * math.Pi * r.src.Float64()
	w := math.Sqrt(1 - z*z)
	return r3.Vec{X: w * math.Cos(t), Y: w * math.Sin(t), Z: z}
}

// Cauchy returns a sample from the Cauchy distribution with the given
// location and scale.
func (r *Rand) Cauchy(mean, scale float64) float64 {
	return distuv.StudentsT{Mu: mean, Sigma: scale, Nu: 1, Src: r}.Rand()
}
