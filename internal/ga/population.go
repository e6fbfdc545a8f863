package ga

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"gonum.org/v1/gonum/stat"

	"gadock/internal/chrom"
	"gadock/internal/errs"
	"gadock/internal/rng"
	"gadock/internal/sf"
)

const (
	// DefaultSigmaTruncation is the number of standard deviations below the
	// mean score at which selection fitness reaches zero.
	DefaultSigmaTruncation = 2.0
	// DefaultMaxSelectionRetries bounds the search for a second parent.
	DefaultMaxSelectionRetries = 100
)

// PopulationOption configures a Population.
type PopulationOption func(*Population)

// WithSigmaTruncation sets the sigma truncation constant.
func WithSigmaTruncation(c float64) PopulationOption {
	return func(p *Population) { p.c = c }
}

// WithMaxSelectionRetries sets how often a colliding second parent is
// redrawn before the population is declared collapsed.
func WithMaxSelectionRetries(n int) PopulationOption {
	return func(p *Population) { p.maxRetries = n }
}

// StepParams controls one generation.
type StepParams struct {
	// NReplicates is the number of offspring.
	NReplicates int
	// RelStepSize scales every mutation.
	RelStepSize float64
	// EqualityThreshold is the distance below which neighbouring genomes
	// are duplicates.
	EqualityThreshold float64
	// PCrossover is the probability that a pair is produced by crossover.
	PCrossover float64
	// XOverMutate applies a Cauchy mutation after crossover.
	XOverMutate bool
	// CauchyMutate selects Cauchy over uniform mutation for pairs that do
	// not cross over. Mutation, when set, overrides both.
	CauchyMutate bool
	Mutation     MutationStrategy
}

// Population is a fixed-size set of genomes kept sorted by descending
// score, with cumulative roulette-wheel fitness over that order.
type Population struct {
	genomes []*Genome
	size    int
	sf      sf.Function
	rand    *rng.Rand

	c          float64
	maxRetries int

	mean        float64
	variance    float64
	evaluations int
}

// NewPopulation creates size randomised clones of template and scores
// them with f.
func NewPopulation(template chrom.Element, size int, f sf.Function, r *rng.Rand, opts ...PopulationOption) (*Population, error) {
	if template == nil {
		return nil, fmt.Errorf("population template chromosome is required: %w", errs.ErrBadArgument)
	}
	if size <= 0 {
		return nil, fmt.Errorf("population size must be > 0, got %d: %w", size, errs.ErrBadArgument)
	}
	if f == nil {
		return nil, fmt.Errorf("population scoring function is required: %w", errs.ErrBadArgument)
	}
	if r == nil {
		return nil, fmt.Errorf("population random source is required: %w", errs.ErrBadArgument)
	}
	p := &Population{
		size:       size,
		rand:       r,
		c:          DefaultSigmaTruncation,
		maxRetries: DefaultMaxSelectionRetries,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.maxRetries < 0 {
		return nil, fmt.Errorf("selection retries must be >= 0, got %d: %w", p.maxRetries, errs.ErrBadArgument)
	}
	p.genomes = make([]*Genome, size)
	for i := range p.genomes {
		p.genomes[i] = NewGenome(template, r)
	}
	if err := p.SetSF(f); err != nil {
		return nil, err
	}
	return p, nil
}

// SetSF rescores every genome with f.
func (p *Population) SetSF(f sf.Function) error {
	if f == nil {
		return fmt.Errorf("population scoring function is required: %w", errs.ErrBadArgument)
	}
	p.sf = f
	for _, g := range p.genomes {
		g.SetScore(f)
	}
	p.evaluations += len(p.genomes)
	sortByScore(p.genomes)
	p.EvaluateRWFitness()
	return nil
}

func (p *Population) Size() int              { return len(p.genomes) }
func (p *Population) MaxSize() int           { return p.size }
func (p *Population) Genomes() []*Genome     { return p.genomes }
func (p *Population) ScoreMean() float64     { return p.mean }
func (p *Population) ScoreVariance() float64 { return p.variance }

// Evaluations returns how many times a genome has been scored.
func (p *Population) Evaluations() int { return p.evaluations }

// Best returns the highest scoring genome.
func (p *Population) Best() *Genome {
	if len(p.genomes) == 0 {
		return nil
	}
	return p.genomes[0]
}

// EvaluateRWFitness recomputes selection fitness by sigma truncation: a
// genome's fitness is how far its score lies above mean - c*sigma, and the
// stored values are cumulative and normalised so the last is 1. When no
// genome scores above the offset every genome gets an equal share.
func (p *Population) EvaluateRWFitness() {
	if len(p.genomes) == 0 {
		return
	}
	scores := make([]float64, len(p.genomes))
	for i, g := range p.genomes {
		scores[i] = g.score
	}
	p.mean, p.variance = stat.PopMeanVariance(scores, nil)
	p.variance = math.Max(0, p.variance)
	offset := p.mean - p.c*math.Sqrt(p.variance)

	partial := 0.0
	for _, g := range p.genomes {
		partial = g.SetRWFitness(offset, partial)
	}
	if partial > 0 {
		for _, g := range p.genomes {
			g.NormaliseRWFitness(partial)
		}
		return
	}
	n := float64(len(p.genomes))
	for i, g := range p.genomes {
		g.rwFitness = float64(i+1) / n
	}
}

// RWSelect picks a genome with probability proportional to its share of
// the cumulative fitness.
func (p *Population) RWSelect() *Genome {
	cutoff := p.rand.Float64()
	i := sort.Search(len(p.genomes), func(i int) bool {
		return p.genomes[i].rwFitness > cutoff
	})
	i = min(i, len(p.genomes)-1)
	return p.genomes[max(i, 0)]
}

// GAStep breeds NReplicates offspring, merges them into the population,
// drops neighbouring duplicates and keeps the best MaxSize genomes.
func (p *Population) GAStep(params StepParams) error {
	if params.NReplicates <= 0 {
		return fmt.Errorf("replicates must be > 0, got %d: %w", params.NReplicates, errs.ErrBadArgument)
	}
	var mutate MutationStrategy = UniformMutation
	if params.CauchyMutate {
		mutate = CauchyMutation
	}
	if params.Mutation != nil {
		mutate = params.Mutation
	}

	offspring := make([]*Genome, 0, params.NReplicates)
	for i := 0; i < params.NReplicates/2; i++ {
		mother := p.RWSelect()
		father := p.RWSelect()
		for j := 0; father == mother; j++ {
			if j >= p.maxRetries {
				return fmt.Errorf("population collapse after %d selection retries, not enough diversity: %w", j, errs.ErrDocking)
			}
			father = p.RWSelect()
		}
		child1 := mother.Clone()
		child2 := father.Clone()
		if p.rand.Float64() < params.PCrossover {
			if err := chrom.Crossover(p.rand, father.chrom, mother.chrom, child1.chrom, child2.chrom); err != nil {
				return err
			}
			if params.XOverMutate {
				CauchyMutation(child1.chrom, p.rand, params.RelStepSize)
				CauchyMutation(child2.chrom, p.rand, params.RelStepSize)
			}
		} else {
			mutate(child1.chrom, p.rand, params.RelStepSize)
			mutate(child2.chrom, p.rand, params.RelStepSize)
		}
		offspring = append(offspring, child1, child2)
	}
	if params.NReplicates%2 == 1 {
		child := p.RWSelect().Clone()
		CauchyMutation(child.chrom, p.rand, params.RelStepSize)
		offspring = append(offspring, child)
	}

	p.mergeNewPop(offspring, params.EqualityThreshold)
	p.EvaluateRWFitness()
	return nil
}

// mergeNewPop scores offspring, merges them with the population by score
// and removes neighbours that compare equal. If removing duplicates leaves
// fewer than MaxSize genomes, the best of the removed ones fill the gap.
func (p *Population) mergeNewPop(offspring []*Genome, threshold float64) {
	for _, g := range offspring {
		g.SetScore(p.sf)
	}
	p.evaluations += len(offspring)
	sortByScore(offspring)

	merged := make([]*Genome, 0, len(p.genomes)+len(offspring))
	i, j := 0, 0
	for i < len(p.genomes) && j < len(offspring) {
		if offspring[j].score > p.genomes[i].score {
			merged = append(merged, offspring[j])
			j++
		} else {
			merged = append(merged, p.genomes[i])
			i++
		}
	}
	merged = append(merged, p.genomes[i:]...)
	merged = append(merged, offspring[j:]...)

	unique := make([]*Genome, 0, len(merged))
	var dups []*Genome
	for _, g := range merged {
		if len(unique) > 0 && g.Equals(unique[len(unique)-1], threshold) {
			dups = append(dups, g)
			continue
		}
		unique = append(unique, g)
	}
	if len(unique) > p.size {
		unique = unique[:p.size]
	}
	if short := p.size - len(unique); short > 0 {
		unique = append(unique, dups[:min(short, len(dups))]...)
		sortByScore(unique)
	}
	p.genomes = unique
}

func sortByScore(genomes []*Genome) {
	slices.SortStableFunc(genomes, func(a, b *Genome) int {
		switch {
		case a.score > b.score:
			return -1
		case a.score < b.score:
			return 1
		}
		return 0
	})
}
