// Package gadock is the public entry point for docking ligands with the
// genetic algorithm and reading back persisted runs.
package gadock

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"gadock/internal/config"
	"gadock/internal/ga"
	"gadock/internal/logging"
	"gadock/internal/model"
	"gadock/internal/molecule"
	"gadock/internal/platform"
	"gadock/internal/stats"
	"gadock/internal/storage"
)

type Options struct {
	// Config defaults to config.Default().
	Config *config.Config
	Logger logging.Logger
	// MetricsRegisterer receives the GA collectors when metrics are
	// enabled. Nil means the prometheus default registerer.
	MetricsRegisterer prometheus.Registerer
}

type Client struct {
	cfg    *config.Config
	store  storage.Store
	engine *platform.Engine
	log    logging.Logger
}

// DockRequest names the system to dock. Exactly one of SystemPath,
// SystemYAML or Demo must be set. A zero Seed falls back to the configured
// seed, and a zero configured seed draws a fresh one.
type DockRequest struct {
	SystemPath string
	SystemYAML []byte
	Demo       bool
	RunID      string
	Seed       uint64
}

type DockSummary struct {
	RunID       string
	System      string
	Ligand      string
	Seed        uint64
	BestScore   float64
	Cycles      int
	Converged   bool
	Evaluations int
	Elapsed     time.Duration
	Poses       int
	Breakdown   map[string]float64
}

type BatchSummary struct {
	DockSummary
	Err error
}

type RunsRequest struct {
	Limit int
}

// RunDataRequest selects a run by id or the most recent run.
type RunDataRequest struct {
	RunID  string
	Latest bool
	Limit  int
}

func New(opts Options) (*Client, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := logging.OrDefault(opts.Logger)

	store, err := storage.NewStore(cfg.Store.Kind, cfg.Store.DBPath)
	if err != nil {
		return nil, err
	}
	var metrics ga.Metrics
	if cfg.Metrics.Enabled {
		pm, err := ga.NewPrometheusMetrics(opts.MetricsRegisterer)
		if err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
		metrics = pm
	}

	return &Client{
		cfg:    cfg,
		store:  store,
		engine: platform.NewEngine(platform.Config{Store: store, Logger: log, Metrics: metrics}),
		log:    log,
	}, nil
}

func (c *Client) Config() *config.Config { return c.cfg }

func (c *Client) Init(ctx context.Context) error {
	return c.engine.Init(ctx)
}

func (c *Client) Close() error {
	return c.engine.Close()
}

func (c *Client) Dock(ctx context.Context, req DockRequest) (DockSummary, error) {
	dreq, err := c.dockRequest(req)
	if err != nil {
		return DockSummary{}, err
	}
	if err := c.Init(ctx); err != nil {
		return DockSummary{}, err
	}
	res, err := c.engine.Dock(ctx, dreq)
	return summarize(res), err
}

// DockBatch docks every request with the configured concurrency. It fails
// only when a request cannot be prepared; docking failures are reported
// per item.
func (c *Client) DockBatch(ctx context.Context, reqs []DockRequest) ([]BatchSummary, error) {
	dreqs := make([]platform.DockRequest, 0, len(reqs))
	for i, req := range reqs {
		dreq, err := c.dockRequest(req)
		if err != nil {
			return nil, fmt.Errorf("batch request %d: %w", i, err)
		}
		dreqs = append(dreqs, dreq)
	}
	if err := c.Init(ctx); err != nil {
		return nil, err
	}
	items := c.engine.DockBatch(ctx, dreqs, c.cfg.Batch.Concurrency)
	out := make([]BatchSummary, 0, len(items))
	for _, item := range items {
		out = append(out, BatchSummary{DockSummary: summarize(item.Result), Err: item.Err})
	}
	return out, nil
}

// Runs lists persisted runs, newest first.
func (c *Client) Runs(ctx context.Context, req RunsRequest) ([]model.RunRecord, error) {
	if req.Limit < 0 {
		return nil, errors.New("limit must be >= 0")
	}
	if err := c.Init(ctx); err != nil {
		return nil, err
	}
	runs, err := c.store.ListRuns(ctx)
	if err != nil {
		return nil, err
	}
	slices.Reverse(runs)
	if req.Limit > 0 && len(runs) > req.Limit {
		runs = runs[:req.Limit]
	}
	return runs, nil
}

func (c *Client) Poses(ctx context.Context, req RunDataRequest) ([]model.PoseRecord, error) {
	runID, err := c.resolveRunID(ctx, req)
	if err != nil {
		return nil, err
	}
	poses, ok, err := c.store.GetPoses(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("poses not found for run id: %s", runID)
	}
	return limit(poses, req.Limit), nil
}

func (c *Client) Diagnostics(ctx context.Context, req RunDataRequest) ([]model.GenerationDiagnostics, error) {
	runID, err := c.resolveRunID(ctx, req)
	if err != nil {
		return nil, err
	}
	diagnostics, ok, err := c.store.GetGenerationDiagnostics(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("diagnostics not found for run id: %s", runID)
	}
	return limit(diagnostics, req.Limit), nil
}

func (c *Client) History(ctx context.Context, req RunDataRequest) ([]model.HistoryRecord, error) {
	runID, err := c.resolveRunID(ctx, req)
	if err != nil {
		return nil, err
	}
	history, ok, err := c.store.GetHistory(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("history not found for run id: %s", runID)
	}
	return limit(history, req.Limit), nil
}

// Export writes the run's record, poses, diagnostics and history under
// outDir/<run id> and returns that directory.
func (c *Client) Export(ctx context.Context, req RunDataRequest, outDir string) (string, error) {
	if outDir == "" {
		return "", errors.New("output directory is required")
	}
	runID, err := c.resolveRunID(ctx, req)
	if err != nil {
		return "", err
	}
	run, ok, err := c.store.GetRun(ctx, runID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("run not found: %s", runID)
	}
	artifacts := stats.RunArtifacts{Run: run}
	if artifacts.Poses, _, err = c.store.GetPoses(ctx, runID); err != nil {
		return "", err
	}
	if artifacts.Diagnostics, _, err = c.store.GetGenerationDiagnostics(ctx, runID); err != nil {
		return "", err
	}
	if artifacts.History, _, err = c.store.GetHistory(ctx, runID); err != nil {
		return "", err
	}
	return stats.WriteRunArtifacts(outDir, artifacts)
}

func (c *Client) resolveRunID(ctx context.Context, req RunDataRequest) (string, error) {
	if req.RunID != "" && req.Latest {
		return "", errors.New("use either run id or latest")
	}
	if req.Limit < 0 {
		return "", errors.New("limit must be >= 0")
	}
	if err := c.Init(ctx); err != nil {
		return "", err
	}
	if !req.Latest {
		if req.RunID == "" {
			return "", errors.New("run id or latest is required")
		}
		return req.RunID, nil
	}
	runs, err := c.store.ListRuns(ctx)
	if err != nil {
		return "", err
	}
	if len(runs) == 0 {
		return "", errors.New("no runs available")
	}
	return runs[len(runs)-1].ID, nil
}

func (c *Client) dockRequest(req DockRequest) (platform.DockRequest, error) {
	sys, err := loadSystem(req)
	if err != nil {
		return platform.DockRequest{}, err
	}
	flex, err := c.cfg.Flex.System()
	if err != nil {
		return platform.DockRequest{}, err
	}
	seed := req.Seed
	if seed == 0 {
		seed = c.cfg.GA.Seed
	}
	s := c.cfg.Scoring
	return platform.DockRequest{
		RunID:  req.RunID,
		System: sys,
		Flex:   flex,
		GA:     c.cfg.GA.Runner(),
		Scoring: platform.ScoringWeights{
			CavityWeight:      s.CavityWeight,
			CavityTolerance:   s.CavityTolerance,
			StericWeight:      s.StericWeight,
			StericRadius:      s.StericRadius,
			DihedralWeight:    s.DihedralWeight,
			TetherTransWeight: s.TetherTransWeight,
			TetherRotWeight:   s.TetherRotWeight,
			TetherToSite:      s.TetherToSite,
		},
		Seed:   seed,
		NPoses: c.cfg.GA.NPoses,
	}, nil
}

func loadSystem(req DockRequest) (*molecule.System, error) {
	set := 0
	for _, ok := range []bool{req.SystemPath != "", len(req.SystemYAML) > 0, req.Demo} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return nil, errors.New("exactly one of system path, system yaml or demo is required")
	}
	switch {
	case req.Demo:
		return molecule.DemoSystem(), nil
	case req.SystemPath != "":
		return molecule.LoadSystem(req.SystemPath)
	default:
		return molecule.ParseSystem(req.SystemYAML)
	}
}

func summarize(res platform.DockResult) DockSummary {
	run := res.Run
	return DockSummary{
		RunID:       run.ID,
		System:      run.System,
		Ligand:      run.Ligand,
		Seed:        run.Seed,
		BestScore:   run.BestScore,
		Cycles:      run.Cycles,
		Converged:   run.Converged,
		Evaluations: run.Evaluations,
		Elapsed:     run.Elapsed,
		Poses:       len(res.Poses),
		Breakdown:   res.Breakdown,
	}
}

func limit[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		items = items[:n]
	}
	return append([]T(nil), items...)
}
