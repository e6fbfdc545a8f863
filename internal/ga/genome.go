// Package ga implements the genetic algorithm that searches docking poses:
// scored genomes, a population evolved by roulette-wheel selection,
// crossover and mutation, and a runner that drives it to convergence.
package ga

import (
	"math"

	"gadock/internal/chrom"
	"gadock/internal/rng"
	"gadock/internal/sf"
)

// Genome pairs a chromosome with its score. Higher scores are better; the
// score is the negated scoring function value.
type Genome struct {
	chrom     chrom.Element
	score     float64
	rwFitness float64
}

// NewGenome clones template and randomises the clone.
func NewGenome(template chrom.Element, r *rng.Rand) *Genome {
	g := &Genome{chrom: template.Clone()}
	g.chrom.Randomise(r)
	return g
}

// Clone copies the genome with an independent chromosome.
func (g *Genome) Clone() *Genome {
	return &Genome{chrom: g.chrom.Clone(), score: g.score, rwFitness: g.rwFitness}
}

func (g *Genome) Chrom() chrom.Element { return g.chrom }
func (g *Genome) Score() float64       { return g.score }
func (g *Genome) RWFitness() float64   { return g.rwFitness }

// SetScore syncs the chromosome onto its models and scores them with f.
// A nil f scores zero.
func (g *Genome) SetScore(f sf.Function) float64 {
	g.score = 0
	if f != nil {
		g.chrom.SyncToModel()
		g.score = -f.Score()
	}
	return g.score
}

// SetRWFitness stores the running total of sigma-truncated fitness and
// returns it.
func (g *Genome) SetRWFitness(offset, partialSum float64) float64 {
	g.rwFitness = partialSum + math.Max(0, g.score-offset)
	return g.rwFitness
}

// NormaliseRWFitness divides the running total by the population total.
func (g *Genome) NormaliseRWFitness(total float64) {
	g.rwFitness /= total
}

// Equals compares chromosomes within threshold.
func (g *Genome) Equals(other *Genome, threshold float64) bool {
	return chrom.Equal(g.chrom, other.chrom, threshold)
}
