package platform

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gonum.org/v1/gonum/spatial/r3"

	"gadock/internal/chrom"
	"gadock/internal/errs"
	"gadock/internal/ga"
	"gadock/internal/logging"
	"gadock/internal/model"
	"gadock/internal/molecule"
	"gadock/internal/storage"
)

func newTestEngine(t *testing.T, log logging.Logger) *Engine {
	t.Helper()
	e := NewEngine(Config{
		Store:  storage.NewMemoryStore(),
		Logger: log,
		Now:    func() time.Time { return time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, e.Init(context.Background()))
	return e
}

func quickGA() ga.RunnerConfig {
	cfg := ga.DefaultRunnerConfig()
	cfg.PopulationSize = 30
	cfg.NCycles = 15
	cfg.HistoryFreq = 5
	return cfg
}

func demoRequest() DockRequest {
	return DockRequest{
		System: molecule.DemoSystem(),
		Flex:   chrom.SystemFlex{Ligand: chrom.DefaultLigandFlex()},
		GA:     quickGA(),
		Scoring: ScoringWeights{
			CavityWeight:    1,
			CavityTolerance: 1,
			StericWeight:    1,
			StericRadius:    3,
		},
		Seed:   99,
		NPoses: 5,
	}
}

func TestDockPersistsRun(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zapcore.InfoLevel)
	e := newTestEngine(t, logging.NewLoggerFromCore(core))

	req := demoRequest()
	res, err := e.Dock(ctx, req)
	require.NoError(t, err)

	run := res.Run
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunCompleted, run.Status)
	assert.Equal(t, "demo", run.System)
	assert.Equal(t, "demo-ligand", run.Ligand)
	assert.Equal(t, uint64(99), run.Seed)
	assert.Equal(t, storage.CurrentVersion(), run.VersionedRecord)
	assert.JSONEq(t, string(mustJSON(t, req.GA)), string(run.Config))

	require.Len(t, res.Poses, 5)
	for i, pose := range res.Poses {
		assert.Equal(t, i+1, pose.Rank)
		if i > 0 {
			assert.LessOrEqual(t, pose.Score, res.Poses[i-1].Score)
		}
		v, err := chrom.DecodeVector(pose.Vector)
		require.NoError(t, err)
		assert.Len(t, v, 9)
		assert.Len(t, pose.Coords, 7+3)
	}
	assert.Equal(t, run.BestScore, res.Poses[0].Score)
	assert.Len(t, res.Diagnostics, run.Cycles+1)
	assert.NotEmpty(t, res.History)

	total := 0.0
	for _, v := range res.Breakdown {
		total += v
	}
	assert.InDelta(t, -run.BestScore, total, 1e-9, "models should hold the best pose")

	stored, ok, err := e.Store().GetRun(ctx, run.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, run.BestScore, stored.BestScore)
	poses, ok, err := e.Store().GetPoses(ctx, run.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, poses, 5)
	diags, ok, err := e.Store().GetGenerationDiagnostics(ctx, run.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, diags, run.Cycles+1)

	assert.Equal(t, 1, logs.FilterMessage("dock started").Len())
	assert.Equal(t, 1, logs.FilterMessage("dock finished").Len())
}

func TestDockIsReproducibleForASeed(t *testing.T) {
	e := newTestEngine(t, logging.NewNopLogger())
	first, err := e.Dock(context.Background(), demoRequest())
	require.NoError(t, err)
	second, err := e.Dock(context.Background(), demoRequest())
	require.NoError(t, err)

	assert.NotEqual(t, first.Run.ID, second.Run.ID)
	assert.Equal(t, first.Run.BestScore, second.Run.BestScore)
	assert.Equal(t, first.Poses[0].Vector, second.Poses[0].Vector)
}

func TestDockDrawsSeedWhenUnset(t *testing.T) {
	e := newTestEngine(t, logging.NewNopLogger())
	req := demoRequest()
	req.Seed = 0
	req.RunID = "fixed-id"
	res, err := e.Dock(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", res.Run.ID)
	assert.NotZero(t, res.Run.Seed)

	// the recorded seed replays the run
	replay := demoRequest()
	replay.Seed = res.Run.Seed
	again, err := e.Dock(context.Background(), replay)
	require.NoError(t, err)
	assert.Equal(t, res.Run.Seed, again.Run.Seed)
	assert.Equal(t, res.Run.BestScore, again.Run.BestScore)
}

func TestDockPersistsFailedRun(t *testing.T) {
	e := newTestEngine(t, logging.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := e.Dock(ctx, demoRequest())
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, model.RunFailed, res.Run.Status)
	assert.NotEmpty(t, res.Run.Error)
	assert.Zero(t, res.Run.Cycles)

	stored, ok, err := e.Store().GetRun(context.Background(), res.Run.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, model.RunFailed, stored.Status)
}

func TestDockValidation(t *testing.T) {
	uninitialized := NewEngine(Config{Store: storage.NewMemoryStore()})
	_, err := uninitialized.Dock(context.Background(), demoRequest())
	assert.True(t, errors.Is(err, errs.ErrNotInitialized))

	closed := newTestEngine(t, logging.NewNopLogger())
	require.NoError(t, closed.Close())
	_, err = closed.Dock(context.Background(), demoRequest())
	assert.True(t, errors.Is(err, errs.ErrNotInitialized))

	e := newTestEngine(t, logging.NewNopLogger())
	_, err = e.Dock(context.Background(), DockRequest{GA: quickGA()})
	assert.True(t, errors.Is(err, errs.ErrBadArgument))

	req := demoRequest()
	req.GA.PopulationSize = 0
	_, err = e.Dock(context.Background(), req)
	assert.True(t, errors.Is(err, errs.ErrBadArgument))

	assert.Error(t, NewEngine(Config{}).Init(context.Background()))
}

func TestDockBatchToleratesFailures(t *testing.T) {
	e := newTestEngine(t, logging.NewNopLogger())
	shared := demoRequest()
	broken := demoRequest()
	broken.GA.NConvergence = 0

	items := e.DockBatch(context.Background(), []DockRequest{demoRequest(), broken, shared, shared}, 2)
	require.Len(t, items, 4)
	for i, item := range items {
		assert.Equal(t, i, item.Index)
	}
	assert.NoError(t, items[0].Err)
	assert.True(t, errors.Is(items[1].Err, errs.ErrBadArgument))
	assert.NoError(t, items[2].Err)
	assert.True(t, errors.Is(items[3].Err, errs.ErrBadArgument))

	runs, err := e.Store().ListRuns(context.Background())
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestBuildScoringFunctionTerms(t *testing.T) {
	sys := molecule.DemoSystem()
	flex := chrom.SystemFlex{
		Ligand:   chrom.DefaultLigandFlex(),
		Receptor: &chrom.ReceptorFlex{FlexDistance: 4, DihedralStep: 30},
	}
	c, err := chrom.NewFactory(logging.NewNopLogger()).SystemChrom(sys, flex)
	require.NoError(t, err)
	assert.Len(t, ligandDihedrals(sys.Ligand, c), 3)

	f := BuildScoringFunction(sys, c, ScoringWeights{
		CavityWeight:      1,
		CavityTolerance:   1,
		StericWeight:      1,
		StericRadius:      3,
		DihedralWeight:    2,
		TetherTransWeight: 1,
		TetherRotWeight:   1,
	})
	names := make([]string, 0, len(f.Terms()))
	for _, term := range f.Terms() {
		names = append(names, term.Name)
	}
	assert.Equal(t, []string{TermCavity, TermSteric, TermSolventSteric, TermDihedral, TermTether}, names)

	// the input pose satisfies both restraints
	breakdown := f.Breakdown()
	assert.InDelta(t, 0, breakdown[TermDihedral], 1e-9)
	assert.InDelta(t, 0, breakdown[TermTether], 1e-9)

	empty := BuildScoringFunction(sys, c, ScoringWeights{})
	assert.Empty(t, empty.Terms())
}

func TestTetherToSiteCentre(t *testing.T) {
	sys := molecule.DemoSystem()
	c, err := chrom.NewFactory(logging.NewNopLogger()).SystemChrom(sys, chrom.SystemFlex{Ligand: chrom.DefaultLigandFlex()})
	require.NoError(t, err)

	weights := ScoringWeights{TetherTransWeight: 1}
	atInput := BuildScoringFunction(sys, c, weights)
	assert.InDelta(t, 0, atInput.Breakdown()[TermTether], 1e-9)

	weights.TetherToSite = true
	atSite := BuildScoringFunction(sys, c, weights)
	com := molecule.PrincipalAxesOfAtoms(sys.Ligand.Atoms()).COM
	want := r3.Norm2(r3.Sub(com, sys.Site.Center()))
	assert.InDelta(t, want, atSite.Breakdown()[TermTether], 1e-9)

	// moving the ligand onto the site centre satisfies the site tether
	molecule.TranslateAtoms(sys.Ligand.Atoms(), r3.Sub(sys.Site.Center(), com))
	assert.InDelta(t, 0, atSite.Breakdown()[TermTether], 1e-9)
}
