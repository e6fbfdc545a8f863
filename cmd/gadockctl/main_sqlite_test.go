//go:build sqlite

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSQLiteWorkflow(t *testing.T) {
	cfgPath := writeFile(t, "config.yaml", testConfig)
	dbPath := filepath.Join(t.TempDir(), "gadock.db")
	base := []string{"--config", cfgPath, "--store", "sqlite", "--db-path", dbPath}

	run := func(args ...string) string {
		t.Helper()
		out, err := execute(t, append(append([]string{}, base...), args...)...)
		if err != nil {
			t.Fatalf("%v: %v\n%s", args, err, out)
		}
		return out
	}

	run("init")
	run("dock", "--demo", "--run-id", "persisted")

	if out := run("runs"); !strings.Contains(out, "persisted demo/") {
		t.Fatalf("expected persisted run in listing:\n%s", out)
	}
	if out := run("poses", "--latest"); strings.Count(out, "rank=") != 2 {
		t.Fatalf("expected 2 poses:\n%s", out)
	}
	if out := run("diagnostics", "--run-id", "persisted", "--limit", "3"); strings.Count(out, "cycle=") != 3 {
		t.Fatalf("expected 3 diagnostics rows:\n%s", out)
	}

	outDir := t.TempDir()
	run("export", "--run-id", "persisted", "--out", outDir)
	if _, err := os.Stat(filepath.Join(outDir, "persisted", "score_series.csv")); err != nil {
		t.Fatalf("expected exported series: %v", err)
	}
}
