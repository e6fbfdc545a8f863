package platform

import (
	"gadock/internal/chrom"
	"gadock/internal/molecule"
	"gadock/internal/sf"
)

// ScoringWeights selects and weights the docking score terms. A zero
// weight drops its term.
type ScoringWeights struct {
	CavityWeight      float64
	CavityTolerance   float64
	StericWeight      float64
	StericRadius      float64
	DihedralWeight    float64
	TetherTransWeight float64
	TetherRotWeight   float64
	// TetherToSite holds the ligand COM at the docking site centre instead
	// of its input position.
	TetherToSite bool
}

// Score term names reported by Breakdown.
const (
	TermCavity        = "cavity"
	TermSteric        = "steric"
	TermSolventSteric = "solvent_steric"
	TermDihedral      = "dihedral"
	TermTether        = "tether"
)

// BuildScoringFunction assembles the docking score for sys. The dihedral
// restraint pulls every ligand dihedral in c back towards its input value
// and the tether holds the ligand near its input pose or the site centre.
func BuildScoringFunction(sys *molecule.System, c chrom.Element, w ScoringWeights) *sf.Weighted {
	f := sf.NewWeighted()
	lig := sys.Ligand

	if w.CavityWeight > 0 && sys.Site != nil && len(sys.Site.CoordList()) > 0 {
		f.Add(TermCavity, w.CavityWeight, sf.NewCavity(lig, sys.Site, w.CavityTolerance))
	}

	var partners []*molecule.Model
	if sys.Receptor != nil {
		partners = append(partners, sys.Receptor)
	}
	partners = append(partners, sys.Solvent...)
	if w.StericWeight > 0 && len(partners) > 0 {
		f.Add(TermSteric, w.StericWeight, sf.NewSteric(lig, w.StericRadius, partners...))
		if sys.Receptor != nil {
			for _, s := range sys.Solvent {
				f.Add(TermSolventSteric, w.StericWeight, sf.NewSteric(s, w.StericRadius, sys.Receptor))
			}
		}
	}

	if w.DihedralWeight > 0 {
		restraint := sf.NewDihedralRestraint()
		for _, ref := range ligandDihedrals(lig, c) {
			restraint.Add(sf.DihedralTerm{Atoms: ref.Atoms(), Target: ref.Initial(), Weight: 1})
		}
		if restraint.Len() > 0 {
			f.Add(TermDihedral, w.DihedralWeight, restraint)
		}
	}

	if w.TetherTransWeight > 0 || w.TetherRotWeight > 0 {
		tether := sf.NewTether(lig.Atoms(), w.TetherTransWeight, w.TetherRotWeight)
		if w.TetherToSite && sys.Site != nil && len(sys.Site.CoordList()) > 0 {
			tether = sf.NewTetherTo(lig.Atoms(), sys.Site.Center(), w.TetherTransWeight, w.TetherRotWeight)
		}
		f.Add(TermTether, 1, tether)
	}
	return f
}

// ligandDihedrals collects the dihedral references in c that turn a bond
// of lig.
func ligandDihedrals(lig *molecule.Model, c chrom.Element) []*chrom.DihedralRef {
	atoms := make(map[*molecule.Atom]bool, len(lig.Atoms()))
	for _, a := range lig.Atoms() {
		atoms[a] = true
	}
	var refs []*chrom.DihedralRef
	var walk func(e chrom.Element)
	walk = func(e chrom.Element) {
		switch v := e.(type) {
		case *chrom.Chrom:
			for _, child := range v.Elements() {
				walk(child)
			}
		case *chrom.DihedralElement:
			if atoms[v.Ref().Atoms()[1]] {
				refs = append(refs, v.Ref())
			}
		}
	}
	walk(c)
	return refs
}
