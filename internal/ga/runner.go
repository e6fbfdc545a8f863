package ga

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gadock/internal/chrom"
	"gadock/internal/errs"
	"gadock/internal/logging"
	"gadock/internal/rng"
	"gadock/internal/sf"
)

// RunnerConfig holds the GA parameters.
type RunnerConfig struct {
	PopulationSize      int     `json:"population_size"`
	NewFraction         float64 `json:"new_fraction"`
	PCrossover          float64 `json:"pcrossover"`
	XOverMutate         bool    `json:"xovermut"`
	CauchyMutate        bool    `json:"cmutate"`
	StepSize            float64 `json:"step_size"`
	EqualityThreshold   float64 `json:"equality_threshold"`
	NCycles             int     `json:"ncycles"`
	NConvergence        int     `json:"nconvergence"`
	HistoryFreq         int     `json:"history_freq"`
	SigmaTruncation     float64 `json:"sigma_truncation"`
	MaxSelectionRetries int     `json:"max_selection_retries"`
}

// DefaultRunnerConfig returns the standard docking GA settings.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		PopulationSize:      50,
		NewFraction:         0.5,
		PCrossover:          0.4,
		XOverMutate:         true,
		CauchyMutate:        false,
		StepSize:            1.0,
		EqualityThreshold:   0.1,
		NCycles:             100,
		NConvergence:        6,
		HistoryFreq:         0,
		SigmaTruncation:     DefaultSigmaTruncation,
		MaxSelectionRetries: DefaultMaxSelectionRetries,
	}
}

// Replicates returns the number of offspring bred per cycle.
func (c RunnerConfig) Replicates() int {
	return int(c.NewFraction * float64(c.PopulationSize))
}

// Validate checks the parameters.
func (c RunnerConfig) Validate() error {
	switch {
	case c.PopulationSize <= 0:
		return fmt.Errorf("population size must be > 0: %w", errs.ErrBadArgument)
	case c.Replicates() <= 0:
		return fmt.Errorf("new fraction %g yields no offspring for population %d: %w", c.NewFraction, c.PopulationSize, errs.ErrBadArgument)
	case c.PCrossover < 0 || c.PCrossover > 1:
		return fmt.Errorf("crossover probability must be in [0, 1]: %w", errs.ErrBadArgument)
	case c.StepSize <= 0:
		return fmt.Errorf("step size must be > 0: %w", errs.ErrBadArgument)
	case c.EqualityThreshold < 0:
		return fmt.Errorf("equality threshold must be >= 0: %w", errs.ErrBadArgument)
	case c.NCycles < 0:
		return fmt.Errorf("cycles must be >= 0: %w", errs.ErrBadArgument)
	case c.NConvergence <= 0:
		return fmt.Errorf("convergence cycles must be > 0: %w", errs.ErrBadArgument)
	case c.HistoryFreq < 0:
		return fmt.Errorf("history frequency must be >= 0: %w", errs.ErrBadArgument)
	case c.SigmaTruncation < 0:
		return fmt.Errorf("sigma truncation must be >= 0: %w", errs.ErrBadArgument)
	case c.MaxSelectionRetries < 0:
		return fmt.Errorf("selection retries must be >= 0: %w", errs.ErrBadArgument)
	}
	return nil
}

// CycleDiagnostics summarises the population after one cycle. Cycle 0 is
// the initial population.
type CycleDiagnostics struct {
	Cycle       int     `json:"cycle"`
	Convergence int     `json:"convergence"`
	BestScore   float64 `json:"best_score"`
	MeanScore   float64 `json:"mean_score"`
	Variance    float64 `json:"variance"`
	Size        int     `json:"size"`
}

// Snapshot is the best genome at a history point.
type Snapshot struct {
	Cycle  int       `json:"cycle"`
	Score  float64   `json:"score"`
	Vector []float64 `json:"vector"`
}

// Result is the outcome of a run.
type Result struct {
	Population  *Population
	Best        *Genome
	Cycles      int
	Converged   bool
	Evaluations int
	Elapsed     time.Duration
	Diagnostics []CycleDiagnostics
	History     []Snapshot
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the logger.
func WithLogger(log logging.Logger) RunnerOption {
	return func(r *Runner) { r.log = logging.OrDefault(log) }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m Metrics) RunnerOption {
	return func(r *Runner) {
		if m != nil {
			r.metrics = m
		}
	}
}

// WithLabel names the run in logs and metrics.
func WithLabel(label string) RunnerOption {
	return func(r *Runner) { r.label = label }
}

// Runner evolves a population until the best score stops improving for
// NConvergence cycles or NCycles have run.
type Runner struct {
	cfg     RunnerConfig
	log     logging.Logger
	metrics Metrics
	label   string
}

// NewRunner validates cfg and returns a runner.
func NewRunner(cfg RunnerConfig, opts ...RunnerOption) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &Runner{
		cfg:     cfg,
		log:     logging.Default(),
		metrics: NewNopMetrics(),
		label:   "default",
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.Named("ga").With(logging.String("label", r.label))
	return r, nil
}

// Config returns the runner's parameters.
func (r *Runner) Config() RunnerConfig { return r.cfg }

// Run builds a random population from template and evolves it.
func (r *Runner) Run(ctx context.Context, template chrom.Element, f sf.Function, rnd *rng.Rand) (Result, error) {
	pop, err := NewPopulation(template, r.cfg.PopulationSize, f, rnd,
		WithSigmaTruncation(r.cfg.SigmaTruncation),
		WithMaxSelectionRetries(r.cfg.MaxSelectionRetries))
	if err != nil {
		return Result{}, err
	}
	return r.Evolve(ctx, pop)
}

// Evolve runs GA cycles on pop. On return the best genome has been synced
// onto the models, including when the run stops early with an error.
func (r *Runner) Evolve(ctx context.Context, pop *Population) (Result, error) {
	start := time.Now()
	params := StepParams{
		NReplicates:       r.cfg.Replicates(),
		RelStepSize:       r.cfg.StepSize,
		EqualityThreshold: r.cfg.EqualityThreshold,
		PCrossover:        r.cfg.PCrossover,
		XOverMutate:       r.cfg.XOverMutate,
		CauchyMutate:      r.cfg.CauchyMutate,
	}
	res := Result{
		Population:  pop,
		Diagnostics: make([]CycleDiagnostics, 0, r.cfg.NCycles+1),
	}
	evaluations := pop.Evaluations()
	r.metrics.AddEvaluations(r.label, evaluations)

	bestScore := pop.Best().Score()
	convergence := 0
	res.Diagnostics = append(res.Diagnostics, r.diagnose(pop, 0, convergence))

	var runErr error
	for cycle := 0; cycle < r.cfg.NCycles && convergence < r.cfg.NConvergence; cycle++ {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		if r.cfg.HistoryFreq > 0 && cycle%r.cfg.HistoryFreq == 0 {
			best := pop.Best()
			best.Chrom().SyncToModel()
			res.History = append(res.History, Snapshot{Cycle: cycle, Score: best.Score(), Vector: best.Chrom().Vector(nil)})
		}
		if err := pop.GAStep(params); err != nil {
			if errors.Is(err, errs.ErrDocking) {
				r.metrics.IncCollapse(r.label)
			}
			runErr = fmt.Errorf("cycle %d: %w", cycle, err)
			break
		}
		res.Cycles++
		r.metrics.AddEvaluations(r.label, pop.Evaluations()-evaluations)
		evaluations = pop.Evaluations()

		if score := pop.Best().Score(); score > bestScore {
			bestScore = score
			convergence = 0
		} else {
			convergence++
		}
		d := r.diagnose(pop, cycle+1, convergence)
		res.Diagnostics = append(res.Diagnostics, d)
		r.metrics.ObserveCycle(r.label, d.BestScore, d.MeanScore, d.Variance)
		r.log.Debug("ga cycle",
			logging.Int("cycle", cycle),
			logging.Int("convergence", convergence),
			logging.Float64("best", d.BestScore),
			logging.Float64("mean", d.MeanScore),
			logging.Float64("variance", d.Variance))
	}

	res.Best = pop.Best()
	res.Best.Chrom().SyncToModel()
	res.Converged = convergence >= r.cfg.NConvergence
	res.Evaluations = pop.Evaluations()
	res.Elapsed = time.Since(start)
	r.metrics.ObserveRun(r.label, res.Cycles, res.Elapsed)

	if runErr != nil {
		r.log.Warn("ga run stopped", logging.Int("cycles", res.Cycles), logging.Err(runErr))
		return res, runErr
	}
	r.log.Info("ga run finished",
		logging.Int("cycles", res.Cycles),
		logging.Bool("converged", res.Converged),
		logging.Float64("best", res.Best.Score()),
		logging.Int("evaluations", res.Evaluations),
		logging.Duration("elapsed", res.Elapsed))
	return res, nil
}

func (r *Runner) diagnose(pop *Population, cycle, convergence int) CycleDiagnostics {
	return CycleDiagnostics{
		Cycle:       cycle,
		Convergence: convergence,
		BestScore:   pop.Best().Score(),
		MeanScore:   pop.ScoreMean(),
		Variance:    pop.ScoreVariance(),
		Size:        pop.Size(),
	}
}
