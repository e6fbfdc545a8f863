// Package config loads docking settings from YAML files and GADOCK_*
// environment variables.
package config

import (
	"fmt"

	"gadock/internal/chrom"
	"gadock/internal/errs"
	"gadock/internal/ga"
	"gadock/internal/logging"
	"gadock/internal/storage"
)

// Config is the complete docking configuration.
type Config struct {
	Log     logging.LogConfig `mapstructure:"log"`
	Store   StoreConfig       `mapstructure:"store"`
	GA      GAConfig          `mapstructure:"ga"`
	Flex    FlexConfig        `mapstructure:"flex"`
	Scoring ScoringConfig     `mapstructure:"scoring"`
	Batch   BatchConfig       `mapstructure:"batch"`
	Metrics MetricsConfig     `mapstructure:"metrics"`
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Kind   string `mapstructure:"kind"`
	DBPath string `mapstructure:"db_path"`
}

// GAConfig holds the genetic algorithm parameters. A zero Seed draws one
// per run.
type GAConfig struct {
	PopulationSize      int     `mapstructure:"population_size"`
	NewFraction         float64 `mapstructure:"new_fraction"`
	PCrossover          float64 `mapstructure:"pcrossover"`
	XOverMut            bool    `mapstructure:"xovermut"`
	CMutate             bool    `mapstructure:"cmutate"`
	StepSize            float64 `mapstructure:"step_size"`
	EqualityThreshold   float64 `mapstructure:"equality_threshold"`
	NCycles             int     `mapstructure:"ncycles"`
	NConvergence        int     `mapstructure:"nconvergence"`
	HistoryFreq         int     `mapstructure:"history_freq"`
	MaxSelectionRetries int     `mapstructure:"max_selection_retries"`
	SigmaTruncation     float64 `mapstructure:"sigma_truncation"`
	Seed                uint64  `mapstructure:"seed"`
	NPoses              int     `mapstructure:"nposes"`
}

// FlexConfig holds ligand, solvent and receptor flexibility. Rotation
// values are degrees. Modes are FIXED, TETHERED or FREE.
type FlexConfig struct {
	TransMode     string  `mapstructure:"trans_mode"`
	TransStep     float64 `mapstructure:"trans_step"`
	MaxTrans      float64 `mapstructure:"max_trans"`
	RotMode       string  `mapstructure:"rot_mode"`
	RotStep       float64 `mapstructure:"rot_step"`
	MaxRot        float64 `mapstructure:"max_rot"`
	DihedralMode  string  `mapstructure:"dihedral_mode"`
	DihedralStep  float64 `mapstructure:"dihedral_step"`
	MaxDihedral   float64 `mapstructure:"max_dihedral"`
	OccupancyProb float64 `mapstructure:"occupancy_prob"`
	OccupancyStep float64 `mapstructure:"occupancy_step"`
	// FlexDistance enables receptor OH and NH3 rotors within this many
	// angstroms of the docking site. Zero keeps the receptor rigid.
	FlexDistance float64 `mapstructure:"flex_distance"`
}

// ScoringConfig weights the terms of the docking score.
type ScoringConfig struct {
	CavityWeight      float64 `mapstructure:"cavity_weight"`
	CavityTolerance   float64 `mapstructure:"cavity_tolerance"`
	StericWeight      float64 `mapstructure:"steric_weight"`
	StericRadius      float64 `mapstructure:"steric_radius"`
	DihedralWeight    float64 `mapstructure:"dihedral_weight"`
	TetherTransWeight float64 `mapstructure:"tether_trans_weight"`
	TetherRotWeight   float64 `mapstructure:"tether_rot_weight"`
	TetherToSite      bool    `mapstructure:"tether_to_site"`
}

// BatchConfig bounds concurrent docking of independent ligands.
type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Validate checks every section and wraps failures with errs.ErrBadArgument.
func (c *Config) Validate() error {
	switch c.Store.Kind {
	case storage.KindMemory:
	case storage.KindSQLite:
		if c.Store.DBPath == "" {
			return fmt.Errorf("store.db_path is required for sqlite: %w", errs.ErrBadArgument)
		}
	default:
		return fmt.Errorf("store.kind %q is not supported: %w", c.Store.Kind, errs.ErrBadArgument)
	}
	if err := c.GA.Runner().Validate(); err != nil {
		return fmt.Errorf("ga: %w", err)
	}
	if c.GA.NPoses <= 0 {
		return fmt.Errorf("ga.nposes must be > 0: %w", errs.ErrBadArgument)
	}
	if _, err := c.Flex.Ligand(); err != nil {
		return fmt.Errorf("flex: %w", err)
	}
	if c.Flex.OccupancyStep < 0 || c.Flex.FlexDistance < 0 {
		return fmt.Errorf("flex: occupancy step and flex distance must be >= 0: %w", errs.ErrBadArgument)
	}
	s := c.Scoring
	if s.CavityWeight < 0 || s.StericWeight < 0 || s.DihedralWeight < 0 || s.TetherTransWeight < 0 || s.TetherRotWeight < 0 {
		return fmt.Errorf("scoring weights must be >= 0: %w", errs.ErrBadArgument)
	}
	if s.StericRadius <= 0 {
		return fmt.Errorf("scoring.steric_radius must be > 0: %w", errs.ErrBadArgument)
	}
	if c.Batch.Concurrency <= 0 {
		return fmt.Errorf("batch.concurrency must be > 0: %w", errs.ErrBadArgument)
	}
	return nil
}

// Runner converts the GA section to runner parameters.
func (g GAConfig) Runner() ga.RunnerConfig {
	return ga.RunnerConfig{
		PopulationSize:      g.PopulationSize,
		NewFraction:         g.NewFraction,
		PCrossover:          g.PCrossover,
		XOverMutate:         g.XOverMut,
		CauchyMutate:        g.CMutate,
		StepSize:            g.StepSize,
		EqualityThreshold:   g.EqualityThreshold,
		NCycles:             g.NCycles,
		NConvergence:        g.NConvergence,
		HistoryFreq:         g.HistoryFreq,
		SigmaTruncation:     g.SigmaTruncation,
		MaxSelectionRetries: g.MaxSelectionRetries,
	}
}

// Ligand parses the ligand degrees of freedom.
func (f FlexConfig) Ligand() (chrom.LigandFlex, error) {
	trans, err := chrom.ParseMode(f.TransMode)
	if err != nil {
		return chrom.LigandFlex{}, fmt.Errorf("trans_mode: %w", err)
	}
	rot, err := chrom.ParseMode(f.RotMode)
	if err != nil {
		return chrom.LigandFlex{}, fmt.Errorf("rot_mode: %w", err)
	}
	dihedral, err := chrom.ParseMode(f.DihedralMode)
	if err != nil {
		return chrom.LigandFlex{}, fmt.Errorf("dihedral_mode: %w", err)
	}
	return chrom.LigandFlex{
		TransMode:    trans,
		TransStep:    f.TransStep,
		MaxTrans:     f.MaxTrans,
		RotMode:      rot,
		RotStep:      f.RotStep,
		MaxRot:       f.MaxRot,
		DihedralMode: dihedral,
		DihedralStep: f.DihedralStep,
		MaxDihedral:  f.MaxDihedral,
	}, nil
}

// System builds the flexibility of a whole system. Solvent models share the
// ligand settings plus occupancy; the receptor is flexible only when
// FlexDistance is set.
func (f FlexConfig) System() (chrom.SystemFlex, error) {
	lig, err := f.Ligand()
	if err != nil {
		return chrom.SystemFlex{}, err
	}
	sys := chrom.SystemFlex{
		Ligand: lig,
		Solvent: &chrom.SolventFlex{
			LigandFlex:    lig,
			OccupancyProb: f.OccupancyProb,
			OccupancyStep: f.OccupancyStep,
		},
	}
	if f.FlexDistance > 0 {
		sys.Receptor = &chrom.ReceptorFlex{FlexDistance: f.FlexDistance, DihedralStep: f.DihedralStep}
	}
	return sys, nil
}
