// Package sf holds scoring functions. A scoring function reads the current
// coordinates of the models it was built over and returns an energy-like
// score: lower is better. Callers sync a chromosome onto the models before
// asking for a score.
package sf

// Function scores the current model state.
type Function interface {
	Score() float64
}

// Func adapts a plain function to Function.
type Func func() float64

// Score calls f.
func (f Func) Score() float64 { return f() }

// Term is one weighted component of a Weighted function.
type Term struct {
	Name     string
	Weight   float64
	Function Function
}

// Weighted sums weighted component scores.
type Weighted struct {
	terms []Term
}

// NewWeighted returns the weighted sum of terms.
func NewWeighted(terms ...Term) *Weighted {
	return &Weighted{terms: append([]Term(nil), terms...)}
}

// Add appends a term.
func (w *Weighted) Add(name string, weight float64, f Function) {
	w.terms = append(w.terms, Term{Name: name, Weight: weight, Function: f})
}

// Terms returns the components.
func (w *Weighted) Terms() []Term { return w.terms }

func (w *Weighted) Score() float64 {
	total := 0.0
	for _, t := range w.terms {
		total += t.Weight * t.Function.Score()
	}
	return total
}

// Breakdown returns the weighted score of each named term.
func (w *Weighted) Breakdown() map[string]float64 {
	out := make(map[string]float64, len(w.terms))
	for _, t := range w.terms {
		out[t.Name] += t.Weight * t.Function.Score()
	}
	return out
}
