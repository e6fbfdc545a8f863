// Package platform runs docking jobs: it builds the chromosome and score
// for a system, evolves poses with the GA runner and persists the run.
package platform

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"

	"gadock/internal/chrom"
	"gadock/internal/errs"
	"gadock/internal/ga"
	"gadock/internal/logging"
	"gadock/internal/model"
	"gadock/internal/molecule"
	"gadock/internal/rng"
	"gadock/internal/storage"
)

type Config struct {
	Store   storage.Store
	Logger  logging.Logger
	Metrics ga.Metrics
	// Now stamps run records. Defaults to time.Now.
	Now func() time.Time
}

// DockRequest is one ligand docking job. An empty RunID gets a UUID.
type DockRequest struct {
	RunID   string
	System  *molecule.System
	Flex    chrom.SystemFlex
	GA      ga.RunnerConfig
	Scoring ScoringWeights
	// Seed 0 means unset: a fresh nonzero seed is drawn from a random UUID
	// and recorded with the run, so seed 0 itself is never used.
	Seed   uint64
	NPoses int
}

type DockResult struct {
	Run         model.RunRecord
	Poses       []model.PoseRecord
	Diagnostics []model.GenerationDiagnostics
	History     []model.HistoryRecord
	// Breakdown is the weighted value of each score term for the best pose.
	Breakdown map[string]float64
}

// BatchItem is the outcome of one request of a batch.
type BatchItem struct {
	Index  int
	Result DockResult
	Err    error
}

type Engine struct {
	store   storage.Store
	log     logging.Logger
	metrics ga.Metrics
	factory *chrom.Factory
	now     func() time.Time

	mu      sync.RWMutex
	started bool
}

func NewEngine(cfg Config) *Engine {
	log := logging.OrDefault(cfg.Logger)
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = ga.NewNopMetrics()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		store:   cfg.Store,
		log:     log.Named("platform"),
		metrics: metrics,
		factory: chrom.NewFactory(log),
		now:     now,
	}
}

func (e *Engine) Init(ctx context.Context) error {
	if e.store == nil {
		return fmt.Errorf("store is required")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return nil
	}
	if err := e.store.Init(ctx); err != nil {
		return err
	}
	e.started = true
	return nil
}

func (e *Engine) Started() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.started
}

func (e *Engine) Store() storage.Store { return e.store }

// Close releases the store if it holds resources.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.started = false
	return storage.CloseIfSupported(e.store)
}

// Dock docks the ligand of req.System and persists the run, its best
// poses, per-cycle diagnostics and sampled history. A run that fails
// part-way is persisted with status failed and its error is returned
// alongside the partial result. On return the models hold the best pose.
func (e *Engine) Dock(ctx context.Context, req DockRequest) (DockResult, error) {
	if !e.Started() {
		return DockResult{}, fmt.Errorf("dock: engine: %w", errs.ErrNotInitialized)
	}
	if req.System == nil || req.System.Ligand == nil {
		return DockResult{}, fmt.Errorf("dock request needs a system with a ligand: %w", errs.ErrBadArgument)
	}
	if req.NPoses <= 0 {
		req.NPoses = 1
	}
	sys := req.System

	runID := req.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	seed := req.Seed
	if seed == 0 {
		seed = seedFromUUID(uuid.New())
	}
	log := e.log.With(logging.String("run_id", runID), logging.String("ligand", sys.Ligand.Name))

	runner, err := ga.NewRunner(req.GA,
		ga.WithLogger(log),
		ga.WithMetrics(e.metrics),
		ga.WithLabel(sys.Ligand.Name))
	if err != nil {
		return DockResult{}, err
	}
	c, err := e.factory.SystemChrom(sys, req.Flex)
	if err != nil {
		return DockResult{}, fmt.Errorf("build chromosome for %s: %w", sys.Ligand.Name, err)
	}
	f := BuildScoringFunction(sys, c, req.Scoring)
	gaJSON, err := json.Marshal(req.GA)
	if err != nil {
		return DockResult{}, err
	}

	run := model.RunRecord{
		VersionedRecord: storage.CurrentVersion(),
		ID:              runID,
		System:          sys.Name,
		Ligand:          sys.Ligand.Name,
		Seed:            seed,
		Config:          gaJSON,
		CreatedAt:       e.now().UTC(),
	}
	log.Info("dock started",
		logging.Int("chrom_length", c.Length()),
		logging.Int("score_terms", len(f.Terms())),
		logging.Any("seed", seed))

	res, runErr := runner.Run(ctx, c, f, rng.New(seed))

	out := DockResult{}
	run.Status = model.RunCompleted
	if runErr != nil {
		run.Status = model.RunFailed
		run.Error = runErr.Error()
	}
	if res.Population != nil {
		run.BestScore = res.Best.Score()
		run.Cycles = res.Cycles
		run.Converged = res.Converged
		run.Evaluations = res.Evaluations
		run.Elapsed = res.Elapsed
		out.Poses = posesFrom(runID, sys, res.Population, req.NPoses)
		out.Diagnostics = toModelDiagnostics(res.Diagnostics)
		out.History = toModelHistory(res.History)
		out.Breakdown = f.Breakdown()
	}
	out.Run = run

	persistErr := e.persist(ctx, out)
	if err := errors.Join(runErr, persistErr); err != nil {
		log.Error("dock failed", logging.Err(err))
		return out, err
	}
	log.Info("dock finished",
		logging.Float64("best", run.BestScore),
		logging.Int("cycles", run.Cycles),
		logging.Bool("converged", run.Converged))
	return out, nil
}

// DockBatch docks independent requests on at most concurrency goroutines.
// A failing request does not stop the others; items come back in request
// order. Requests must not share a System since docking moves its atoms.
func (e *Engine) DockBatch(ctx context.Context, reqs []DockRequest, concurrency int) []BatchItem {
	if concurrency <= 0 {
		concurrency = 1
	}
	seen := make(map[*molecule.System]int, len(reqs))
	p := pool.NewWithResults[BatchItem]().WithMaxGoroutines(concurrency)
	for i, req := range reqs {
		if first, dup := seen[req.System]; dup && req.System != nil {
			err := fmt.Errorf("request %d shares its system with request %d: %w", i, first, errs.ErrBadArgument)
			p.Go(func() BatchItem { return BatchItem{Index: i, Err: err} })
			continue
		}
		seen[req.System] = i
		p.Go(func() BatchItem {
			res, err := e.Dock(ctx, req)
			if err != nil {
				e.log.Error("batch item failed", logging.Int("index", i), logging.Err(err))
			}
			return BatchItem{Index: i, Result: res, Err: err}
		})
	}
	items := p.Wait()
	slices.SortFunc(items, func(a, b BatchItem) int { return a.Index - b.Index })
	return items
}

func (e *Engine) persist(ctx context.Context, res DockResult) error {
	runID := res.Run.ID
	if err := e.store.SaveRun(ctx, res.Run); err != nil {
		return fmt.Errorf("save run %s: %w", runID, err)
	}
	if err := e.store.SavePoses(ctx, runID, res.Poses); err != nil {
		return fmt.Errorf("save poses %s: %w", runID, err)
	}
	if err := e.store.SaveGenerationDiagnostics(ctx, runID, res.Diagnostics); err != nil {
		return fmt.Errorf("save diagnostics %s: %w", runID, err)
	}
	if err := e.store.SaveHistory(ctx, runID, res.History); err != nil {
		return fmt.Errorf("save history %s: %w", runID, err)
	}
	return nil
}

// posesFrom records the n best genomes and leaves the best one synced.
func posesFrom(runID string, sys *molecule.System, pop *ga.Population, n int) []model.PoseRecord {
	genomes := pop.Genomes()
	n = min(n, len(genomes))
	poses := make([]model.PoseRecord, 0, n)
	for i, g := range genomes[:n] {
		g.Chrom().SyncToModel()
		poses = append(poses, model.PoseRecord{
			VersionedRecord: storage.CurrentVersion(),
			RunID:           runID,
			Rank:            i + 1,
			Score:           g.Score(),
			Vector:          chrom.EncodeVector(g.Chrom().Vector(nil)),
			Coords:          poseCoords(sys),
		})
	}
	if len(genomes) > 0 {
		genomes[0].Chrom().SyncToModel()
	}
	return poses
}

// poseCoords captures the ligand and every enabled solvent model.
func poseCoords(sys *molecule.System) []model.AtomCoord {
	models := []*molecule.Model{sys.Ligand}
	for _, s := range sys.Solvent {
		if s.Enabled() {
			models = append(models, s)
		}
	}
	var coords []model.AtomCoord
	for _, m := range models {
		for _, a := range m.Atoms() {
			coords = append(coords, model.AtomCoord{
				Model:  m.Name,
				AtomID: a.ID,
				Name:   a.Name,
				X:      a.Coords.X,
				Y:      a.Coords.Y,
				Z:      a.Coords.Z,
			})
		}
	}
	return coords
}

func toModelDiagnostics(diags []ga.CycleDiagnostics) []model.GenerationDiagnostics {
	out := make([]model.GenerationDiagnostics, 0, len(diags))
	for _, d := range diags {
		out = append(out, model.GenerationDiagnostics{
			Cycle:       d.Cycle,
			Convergence: d.Convergence,
			BestScore:   d.BestScore,
			MeanScore:   d.MeanScore,
			Variance:    d.Variance,
			Size:        d.Size,
		})
	}
	return out
}

func toModelHistory(history []ga.Snapshot) []model.HistoryRecord {
	out := make([]model.HistoryRecord, 0, len(history))
	for _, s := range history {
		out = append(out, model.HistoryRecord{
			Cycle:  s.Cycle,
			Score:  s.Score,
			Vector: chrom.EncodeVector(s.Vector),
		})
	}
	return out
}

func seedFromUUID(id uuid.UUID) uint64 {
	seed := binary.BigEndian.Uint64(id[:8])
	if seed == 0 {
		seed = 1
	}
	return seed
}
