package chrom

import (
	"fmt"

	"gadock/internal/errs"
	"gadock/internal/rng"
)

// Crossover performs two-point crossover of parent1 and parent2, writing
// the results into child1 and child2. A random contiguous run of crossover
// blocks is swapped between the parents; all four chromosomes must share
// the same crossover length.
func Crossover(r *rng.Rand, parent1, parent2, child1, child2 Element) error {
	n := parent1.XOverLength()
	if parent2.XOverLength() != n || child1.XOverLength() != n || child2.XOverLength() != n {
		return fmt.Errorf("crossover lengths differ (%d, %d, %d, %d): %w",
			n, parent2.XOverLength(), child1.XOverLength(), child2.XOverLength(), errs.ErrBadArgument)
	}
	if n == 0 {
		return nil
	}
	v1 := parent1.XOverVector(nil)
	v2 := parent2.XOverVector(nil)

	begin := r.IntN(n)
	var end int
	if begin == 0 {
		end = r.IntN(n-1) + 1
	} else {
		end = r.IntN(n-begin) + begin + 1
	}
	for k := begin; k < end; k++ {
		v1[k], v2[k] = v2[k], v1[k]
	}

	i := 0
	if err := child1.SetXOverVector(v1, &i); err != nil {
		return err
	}
	i = 0
	return child2.SetXOverVector(v2, &i)
}
