package ga

import (
	"gadock/internal/chrom"
	"gadock/internal/rng"
)

// MutationStrategy perturbs a chromosome in place.
type MutationStrategy func(c chrom.Element, r *rng.Rand, relStepSize float64)

// UniformMutation moves every degree of freedom by at most relStepSize
// steps.
func UniformMutation(c chrom.Element, r *rng.Rand, relStepSize float64) {
	c.Mutate(r, relStepSize)
}

// CauchyMutation draws the relative step from a Cauchy distribution centred
// on zero with scale relStepSize, so most moves are small and a few are
// large.
func CauchyMutation(c chrom.Element, r *rng.Rand, relStepSize float64) {
	chrom.CauchyMutate(c, r, 0, relStepSize)
}
