package chrom

import (
	"fmt"

	"gadock/internal/errs"
	"gadock/internal/geom"
	"gadock/internal/logging"
	"gadock/internal/molecule"
)

// LigandFlex describes the degrees of freedom of a flexible ligand.
// Rotation values are degrees.
type LigandFlex struct {
	TransMode    Mode
	TransStep    float64
	MaxTrans     float64
	RotMode      Mode
	RotStep      float64
	MaxRot       float64
	DihedralMode Mode
	DihedralStep float64
	MaxDihedral  float64
}

// DefaultLigandFlex returns fully free docking with the usual step sizes.
func DefaultLigandFlex() LigandFlex {
	return LigandFlex{
		TransMode:    Free,
		TransStep:    2.0,
		MaxTrans:     1.0,
		RotMode:      Free,
		RotStep:      30,
		MaxRot:       30,
		DihedralMode: Free,
		DihedralStep: 30,
		MaxDihedral:  30,
	}
}

// ReceptorFlex enables terminal OH and NH3 rotors near the docking site.
type ReceptorFlex struct {
	FlexDistance float64
	DihedralStep float64
}

// SolventFlex extends ligand flexibility with a variable occupancy.
type SolventFlex struct {
	LigandFlex
	OccupancyProb float64
	OccupancyStep float64
}

// SystemFlex holds the flexibility of every model in a system. Nil
// receptor or solvent settings leave those models rigid.
type SystemFlex struct {
	Ligand   LigandFlex
	Receptor *ReceptorFlex
	Solvent  *SolventFlex
}

// Factory builds chromosomes from flexibility settings.
type Factory struct {
	log logging.Logger
}

// NewFactory returns a factory logging to log, or to the process default
// when log is nil.
func NewFactory(log logging.Logger) *Factory {
	return &Factory{log: logging.OrDefault(log).Named("chrom")}
}

// LigandChrom adds a dihedral element per rotatable bond unless dihedrals
// are fixed, and a position element unless translation and rotation are
// both fixed. In tethered mode each step is capped at its bound.
func (f *Factory) LigandChrom(m *molecule.Model, site *molecule.DockingSite, flex LigandFlex) (*Chrom, error) {
	if m == nil {
		return nil, fmt.Errorf("ligand chrom: nil model: %w", errs.ErrBadArgument)
	}
	if flex.TransMode == Tethered && flex.TransStep > flex.MaxTrans {
		flex.TransStep = flex.MaxTrans
	}
	if flex.RotMode == Tethered && flex.RotStep > flex.MaxRot {
		flex.RotStep = flex.MaxRot
	}
	if flex.DihedralMode == Tethered && flex.DihedralStep > flex.MaxDihedral {
		flex.DihedralStep = flex.MaxDihedral
	}

	c := NewChrom()
	if flex.DihedralMode != Fixed {
		tethered := m.TetheredAtoms()
		for _, b := range m.RotatableBonds() {
			ref, err := NewDihedralRef(m, b, tethered, flex.DihedralStep, flex.DihedralMode, flex.MaxDihedral)
			if err != nil {
				return nil, fmt.Errorf("model %s: %w", m.Name, err)
			}
			c.Add(NewDihedralElement(ref))
			f.log.Debug("dihedral element",
				logging.String("model", m.Name),
				logging.Int("bond", b.ID),
				logging.String("mode", flex.DihedralMode.String()),
				logging.Float64("initial", ref.Initial()))
		}
	}
	if flex.TransMode != Fixed || flex.RotMode != Fixed {
		ref := NewPositionRef(m, site, flex.TransStep, geom.DegToRad(flex.RotStep),
			flex.TransMode, flex.RotMode, flex.MaxTrans, geom.DegToRad(flex.MaxRot))
		c.Add(NewPositionElement(ref))
		f.log.Debug("position element",
			logging.String("model", m.Name),
			logging.String("trans_mode", ref.TransMode().String()),
			logging.String("rot_mode", ref.RotMode().String()))
	}
	return c, nil
}

// ReceptorChrom adds a free dihedral for every rotatable bond to a terminal
// OH or NH3 group whose two atoms both lie within FlexDistance of the site.
func (f *Factory) ReceptorChrom(m *molecule.Model, site *molecule.DockingSite, flex ReceptorFlex) (*Chrom, error) {
	if m == nil || site == nil {
		return nil, fmt.Errorf("receptor chrom: model and site are required: %w", errs.ErrBadArgument)
	}
	c := NewChrom()
	for _, b := range m.RotatableBonds() {
		if !isTerminalRotor(m, b) {
			continue
		}
		a1, a2 := m.Atom(b.Atom1), m.Atom(b.Atom2)
		if site.DistanceTo(a1.Coords) > flex.FlexDistance || site.DistanceTo(a2.Coords) > flex.FlexDistance {
			continue
		}
		ref, err := NewDihedralRef(m, b, nil, flex.DihedralStep, Free, 0)
		if err != nil {
			return nil, fmt.Errorf("model %s: %w", m.Name, err)
		}
		c.Add(NewDihedralElement(ref))
		f.log.Debug("receptor rotor",
			logging.String("model", m.Name),
			logging.String("bond", a1.Name+"-"+a2.Name))
	}
	return c, nil
}

// SolventChrom builds ligand-style elements and, for an occupancy
// probability strictly between 0 and 1, an occupancy element enabling the
// model above 1-prob. Other probabilities pin the occupancy.
func (f *Factory) SolventChrom(m *molecule.Model, site *molecule.DockingSite, flex SolventFlex) (*Chrom, error) {
	c, err := f.LigandChrom(m, site, flex.LigandFlex)
	if err != nil {
		return nil, err
	}
	switch p := flex.OccupancyProb; {
	case p > 0 && p < 1:
		threshold := 1 - p
		c.Add(NewOccupancyElement(NewOccupancyRef(m, flex.OccupancyStep, threshold)))
		f.log.Info("solvent has variable occupancy", logging.String("model", m.Name), logging.Float64("threshold", threshold))
	case p <= 0:
		m.SetOccupancy(0, 0.5)
		f.log.Warn("solvent permanently disabled", logging.String("model", m.Name))
	default:
		m.SetOccupancy(1, 0.5)
		f.log.Info("solvent permanently enabled", logging.String("model", m.Name))
	}
	return c, nil
}

// SystemChrom nests one chromosome per model in the order receptor, ligand,
// solvents.
func (f *Factory) SystemChrom(sys *molecule.System, flex SystemFlex) (*Chrom, error) {
	if sys == nil || sys.Ligand == nil {
		return nil, fmt.Errorf("system chrom: ligand is required: %w", errs.ErrBadArgument)
	}
	c := NewChrom()
	if flex.Receptor != nil && sys.Receptor != nil {
		rc, err := f.ReceptorChrom(sys.Receptor, sys.Site, *flex.Receptor)
		if err != nil {
			return nil, err
		}
		c.Add(rc)
	}
	lc, err := f.LigandChrom(sys.Ligand, sys.Site, flex.Ligand)
	if err != nil {
		return nil, err
	}
	c.Add(lc)
	if flex.Solvent != nil {
		for _, s := range sys.Solvent {
			sc, err := f.SolventChrom(s, sys.Site, *flex.Solvent)
			if err != nil {
				return nil, err
			}
			c.Add(sc)
		}
	}
	f.log.Debug("system chrom", logging.Int("length", c.Length()), logging.Int("xover_length", c.XOverLength()))
	return c, nil
}

func isTerminalRotor(m *molecule.Model, b *molecule.Bond) bool {
	a1, a2 := m.Atom(b.Atom1), m.Atom(b.Atom2)
	if a1.IsHydrogen() || a2.IsHydrogen() {
		return false
	}
	return isTerminalGroup(m, a1) || isTerminalGroup(m, a2)
}

// isTerminalGroup reports a hydroxyl oxygen or an NH3 nitrogen.
func isTerminalGroup(m *molecule.Model, a *molecule.Atom) bool {
	hydrogens := 0
	for _, n := range m.BondedAtoms(a.ID) {
		if n.IsHydrogen() {
			hydrogens++
		}
	}
	switch a.AtomicNo {
	case 8:
		return hydrogens == 1
	case 7:
		return hydrogens == 3
	}
	return false
}
