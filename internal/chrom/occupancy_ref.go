package chrom

import "gadock/internal/molecule"

// OccupancyRef is the shared description of a solvent model's occupancy.
type OccupancyRef struct {
	model     *molecule.Model
	step      float64
	threshold float64
	initial   float64
}

// NewOccupancyRef binds the model's occupancy. The model is enabled when
// the occupancy reaches threshold.
func NewOccupancyRef(m *molecule.Model, step, threshold float64) *OccupancyRef {
	return &OccupancyRef{model: m, step: step, threshold: threshold, initial: m.Occupancy()}
}

func (o *OccupancyRef) Step() float64      { return o.step }
func (o *OccupancyRef) Threshold() float64 { return o.threshold }
func (o *OccupancyRef) Initial() float64   { return o.initial }

// ModelValue returns the model's current occupancy.
func (o *OccupancyRef) ModelValue() float64 { return o.model.Occupancy() }

// SetModelValue applies occupancy to the model.
func (o *OccupancyRef) SetModelValue(occupancy float64) {
	o.model.SetOccupancy(occupancy, o.threshold)
}
