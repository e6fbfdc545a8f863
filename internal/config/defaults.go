package config

import (
	"github.com/spf13/viper"

	"gadock/internal/storage"
)

const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultStoreKind = storage.KindMemory

	DefaultPopulationSize      = 50
	DefaultNewFraction         = 0.5
	DefaultPCrossover          = 0.4
	DefaultXOverMut            = true
	DefaultCMutate             = false
	DefaultStepSize            = 1.0
	DefaultEqualityThreshold   = 0.1
	DefaultNCycles             = 100
	DefaultNConvergence        = 6
	DefaultHistoryFreq         = 0
	DefaultMaxSelectionRetries = 100
	DefaultSigmaTruncation     = 2.0
	DefaultNPoses              = 10

	DefaultMode          = "FREE"
	DefaultTransStep     = 2.0
	DefaultMaxTrans      = 1.0
	DefaultRotStep       = 30.0
	DefaultMaxRot        = 30.0
	DefaultDihedralStep  = 30.0
	DefaultMaxDihedral   = 30.0
	DefaultOccupancyProb = 0.5
	DefaultOccupancyStep = 1.0

	DefaultCavityWeight      = 1.0
	DefaultCavityTolerance   = 1.0
	DefaultStericWeight      = 1.0
	DefaultStericRadius      = 3.0
	DefaultDihedralWeight    = 0.0
	DefaultTetherTransWeight = 0.0
	DefaultTetherRotWeight   = 0.0

	DefaultBatchConcurrency = 4
)

// Default returns a Config with every default applied.
func Default() *Config {
	cfg := &Config{
		GA:   GAConfig{XOverMut: DefaultXOverMut, CMutate: DefaultCMutate},
		Flex: FlexConfig{OccupancyProb: DefaultOccupancyProb},
		Scoring: ScoringConfig{
			CavityWeight:   DefaultCavityWeight,
			StericWeight:   DefaultStericWeight,
			DihedralWeight: DefaultDihedralWeight,
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-value fields in cfg. Fields whose zero value is
// meaningful (booleans, weights, the occupancy probability) are left alone;
// file and env loading registers their defaults with viper instead.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	if cfg.Store.Kind == "" {
		cfg.Store.Kind = DefaultStoreKind
	}

	g := &cfg.GA
	if g.PopulationSize == 0 {
		g.PopulationSize = DefaultPopulationSize
	}
	if g.NewFraction == 0 {
		g.NewFraction = DefaultNewFraction
	}
	if g.PCrossover == 0 {
		g.PCrossover = DefaultPCrossover
	}
	if g.StepSize == 0 {
		g.StepSize = DefaultStepSize
	}
	if g.EqualityThreshold == 0 {
		g.EqualityThreshold = DefaultEqualityThreshold
	}
	if g.NCycles == 0 {
		g.NCycles = DefaultNCycles
	}
	if g.NConvergence == 0 {
		g.NConvergence = DefaultNConvergence
	}
	if g.MaxSelectionRetries == 0 {
		g.MaxSelectionRetries = DefaultMaxSelectionRetries
	}
	if g.SigmaTruncation == 0 {
		g.SigmaTruncation = DefaultSigmaTruncation
	}
	if g.NPoses == 0 {
		g.NPoses = DefaultNPoses
	}

	f := &cfg.Flex
	if f.TransMode == "" {
		f.TransMode = DefaultMode
	}
	if f.TransStep == 0 {
		f.TransStep = DefaultTransStep
	}
	if f.MaxTrans == 0 {
		f.MaxTrans = DefaultMaxTrans
	}
	if f.RotMode == "" {
		f.RotMode = DefaultMode
	}
	if f.RotStep == 0 {
		f.RotStep = DefaultRotStep
	}
	if f.MaxRot == 0 {
		f.MaxRot = DefaultMaxRot
	}
	if f.DihedralMode == "" {
		f.DihedralMode = DefaultMode
	}
	if f.DihedralStep == 0 {
		f.DihedralStep = DefaultDihedralStep
	}
	if f.MaxDihedral == 0 {
		f.MaxDihedral = DefaultMaxDihedral
	}
	if f.OccupancyStep == 0 {
		f.OccupancyStep = DefaultOccupancyStep
	}

	s := &cfg.Scoring
	if s.CavityTolerance == 0 {
		s.CavityTolerance = DefaultCavityTolerance
	}
	if s.StericRadius == 0 {
		s.StericRadius = DefaultStericRadius
	}

	if cfg.Batch.Concurrency == 0 {
		cfg.Batch.Concurrency = DefaultBatchConcurrency
	}
}

// setDefaults registers every key with v so that GADOCK_* variables are
// seen by Unmarshal and booleans, weights and probabilities keep their
// defaults when unset.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
	v.SetDefault("log.output_paths", []string{"stderr"})

	v.SetDefault("store.kind", DefaultStoreKind)
	v.SetDefault("store.db_path", "")

	v.SetDefault("ga.population_size", DefaultPopulationSize)
	v.SetDefault("ga.new_fraction", DefaultNewFraction)
	v.SetDefault("ga.pcrossover", DefaultPCrossover)
	v.SetDefault("ga.xovermut", DefaultXOverMut)
	v.SetDefault("ga.cmutate", DefaultCMutate)
	v.SetDefault("ga.step_size", DefaultStepSize)
	v.SetDefault("ga.equality_threshold", DefaultEqualityThreshold)
	v.SetDefault("ga.ncycles", DefaultNCycles)
	v.SetDefault("ga.nconvergence", DefaultNConvergence)
	v.SetDefault("ga.history_freq", DefaultHistoryFreq)
	v.SetDefault("ga.max_selection_retries", DefaultMaxSelectionRetries)
	v.SetDefault("ga.sigma_truncation", DefaultSigmaTruncation)
	v.SetDefault("ga.seed", 0)
	v.SetDefault("ga.nposes", DefaultNPoses)

	v.SetDefault("flex.trans_mode", DefaultMode)
	v.SetDefault("flex.trans_step", DefaultTransStep)
	v.SetDefault("flex.max_trans", DefaultMaxTrans)
	v.SetDefault("flex.rot_mode", DefaultMode)
	v.SetDefault("flex.rot_step", DefaultRotStep)
	v.SetDefault("flex.max_rot", DefaultMaxRot)
	v.SetDefault("flex.dihedral_mode", DefaultMode)
	v.SetDefault("flex.dihedral_step", DefaultDihedralStep)
	v.SetDefault("flex.max_dihedral", DefaultMaxDihedral)
	v.SetDefault("flex.occupancy_prob", DefaultOccupancyProb)
	v.SetDefault("flex.occupancy_step", DefaultOccupancyStep)
	v.SetDefault("flex.flex_distance", 0.0)

	v.SetDefault("scoring.cavity_weight", DefaultCavityWeight)
	v.SetDefault("scoring.cavity_tolerance", DefaultCavityTolerance)
	v.SetDefault("scoring.steric_weight", DefaultStericWeight)
	v.SetDefault("scoring.steric_radius", DefaultStericRadius)
	v.SetDefault("scoring.dihedral_weight", DefaultDihedralWeight)
	v.SetDefault("scoring.tether_trans_weight", DefaultTetherTransWeight)
	v.SetDefault("scoring.tether_rot_weight", DefaultTetherRotWeight)
	v.SetDefault("scoring.tether_to_site", false)

	v.SetDefault("batch.concurrency", DefaultBatchConcurrency)
	v.SetDefault("metrics.enabled", false)
}
