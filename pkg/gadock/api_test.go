package gadock

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gadock/internal/config"
	"gadock/internal/logging"
	"gadock/internal/stats"
)

const ligandYAML = `
name: butane-only
ligand:
  name: butane
  atoms:
    - {name: C1, element: C, xyz: [0, 1.2, 0.3]}
    - {name: C2, element: C, xyz: [0, 0, 0]}
    - {name: C3, element: C, xyz: [1.5, 0, 0]}
    - {name: C4, element: C, xyz: [1.6, -1.1, 0.8]}
  bonds:
    - {atoms: [1, 2]}
    - {atoms: [2, 3], rotatable: true}
    - {atoms: [3, 4]}
site:
  center: [0.75, 0, 0.3]
  radius: 2
  spacing: 1
`

func smallConfig() *config.Config {
	cfg := config.Default()
	cfg.GA.PopulationSize = 20
	cfg.GA.NCycles = 8
	cfg.GA.HistoryFreq = 4
	cfg.GA.NPoses = 3
	cfg.GA.Seed = 5
	return cfg
}

func newClient(t *testing.T, cfg *config.Config) *Client {
	t.Helper()
	c, err := New(Options{Config: cfg, Logger: logging.NewNopLogger(), MetricsRegisterer: prometheus.NewRegistry()})
	require.NoError(t, err)
	require.NoError(t, c.Init(context.Background()))
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestClientDockAndReadBack(t *testing.T) {
	ctx := context.Background()
	c := newClient(t, smallConfig())

	summary, err := c.Dock(ctx, DockRequest{Demo: true})
	require.NoError(t, err)
	assert.Equal(t, "demo", summary.System)
	assert.Equal(t, uint64(5), summary.Seed)
	assert.Equal(t, 3, summary.Poses)
	assert.NotEmpty(t, summary.Breakdown)

	runs, err := c.Runs(ctx, RunsRequest{})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, summary.RunID, runs[0].ID)

	poses, err := c.Poses(ctx, RunDataRequest{Latest: true, Limit: 2})
	require.NoError(t, err)
	require.Len(t, poses, 2)
	assert.Equal(t, summary.BestScore, poses[0].Score)

	diagnostics, err := c.Diagnostics(ctx, RunDataRequest{RunID: summary.RunID})
	require.NoError(t, err)
	assert.Len(t, diagnostics, summary.Cycles+1)

	history, err := c.History(ctx, RunDataRequest{RunID: summary.RunID})
	require.NoError(t, err)
	assert.NotEmpty(t, history)
}

func TestClientExport(t *testing.T) {
	ctx := context.Background()
	c := newClient(t, smallConfig())

	summary, err := c.Dock(ctx, DockRequest{Demo: true, RunID: "export-me"})
	require.NoError(t, err)

	out := t.TempDir()
	dir, err := c.Export(ctx, RunDataRequest{Latest: true}, out)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "export-me"), dir)

	run, ok, err := stats.ReadRun(dir)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, summary.BestScore, run.BestScore)

	series, ok, err := stats.ReadScoreSeries(dir)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, series, summary.Cycles+1)
	assert.FileExists(t, filepath.Join(dir, "poses.xyz"))

	_, err = c.Export(ctx, RunDataRequest{Latest: true}, "")
	assert.Error(t, err)
	_, err = c.Export(ctx, RunDataRequest{RunID: "missing"}, out)
	assert.Error(t, err)
}

func TestClientDockFromFileAndYAML(t *testing.T) {
	ctx := context.Background()
	c := newClient(t, smallConfig())

	path := filepath.Join(t.TempDir(), "system.yaml")
	require.NoError(t, os.WriteFile(path, []byte(ligandYAML), 0o600))

	fromFile, err := c.Dock(ctx, DockRequest{SystemPath: path, Seed: 11})
	require.NoError(t, err)
	assert.Equal(t, "butane", fromFile.Ligand)
	assert.Equal(t, uint64(11), fromFile.Seed)

	fromYAML, err := c.Dock(ctx, DockRequest{SystemYAML: []byte(ligandYAML), Seed: 11})
	require.NoError(t, err)
	assert.Equal(t, fromFile.BestScore, fromYAML.BestScore)

	runs, err := c.Runs(ctx, RunsRequest{Limit: 1})
	require.NoError(t, err)
	require.Len(t, runs, 1)
}

func TestClientBatch(t *testing.T) {
	cfg := smallConfig()
	cfg.Batch.Concurrency = 2
	c := newClient(t, cfg)

	items, err := c.DockBatch(context.Background(), []DockRequest{{Demo: true}, {SystemYAML: []byte(ligandYAML)}})
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.NoError(t, item.Err)
		assert.NotEmpty(t, item.RunID)
	}

	_, err = c.DockBatch(context.Background(), []DockRequest{{Demo: true}, {}})
	assert.Error(t, err)
}

func TestClientRequestValidation(t *testing.T) {
	ctx := context.Background()
	c := newClient(t, smallConfig())

	_, err := c.Dock(ctx, DockRequest{})
	assert.Error(t, err)
	_, err = c.Dock(ctx, DockRequest{Demo: true, SystemYAML: []byte(ligandYAML)})
	assert.Error(t, err)

	_, err = c.Poses(ctx, RunDataRequest{Latest: true})
	assert.EqualError(t, err, "no runs available")
	_, err = c.Poses(ctx, RunDataRequest{RunID: "x", Latest: true})
	assert.Error(t, err)
	_, err = c.Diagnostics(ctx, RunDataRequest{})
	assert.Error(t, err)
	_, err = c.Diagnostics(ctx, RunDataRequest{RunID: "missing"})
	assert.Error(t, err)
	_, err = c.Runs(ctx, RunsRequest{Limit: -1})
	assert.Error(t, err)

	bad := smallConfig()
	bad.Store.Kind = "cassandra"
	_, err = New(Options{Config: bad})
	assert.Error(t, err)
}

func TestClientExportsMetrics(t *testing.T) {
	cfg := smallConfig()
	cfg.Metrics.Enabled = true
	reg := prometheus.NewRegistry()
	c, err := New(Options{Config: cfg, Logger: logging.NewNopLogger(), MetricsRegisterer: reg})
	require.NoError(t, err)

	_, err = c.Dock(context.Background(), DockRequest{Demo: true})
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make(map[string]bool, len(families))
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	assert.True(t, names["gadock_ga_evaluations_total"])
	assert.True(t, names["gadock_ga_best_score"])
}
