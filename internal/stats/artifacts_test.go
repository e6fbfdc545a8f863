package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"gadock/internal/model"
)

func sampleArtifacts() RunArtifacts {
	return RunArtifacts{
		Run: model.RunRecord{
			ID:          "run-1",
			System:      "demo",
			Ligand:      "demo-ligand",
			Status:      model.RunCompleted,
			BestScore:   -4.5,
			Cycles:      3,
			Evaluations: 120,
			CreatedAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		},
		Poses: []model.PoseRecord{
			{RunID: "run-1", Rank: 1, Score: -4.5, Vector: "0 0 0", Coords: []model.AtomCoord{
				{Model: "demo-ligand", AtomID: 1, Name: "C1", X: 1, Y: 2, Z: 3},
				{Model: "demo-ligand", AtomID: 2, Name: "O12", X: -1, Y: 0.5, Z: 0},
			}},
			{RunID: "run-1", Rank: 2, Score: -4.1, Vector: "1 0 0", Coords: []model.AtomCoord{
				{Model: "demo-ligand", AtomID: 1, Name: "C1", X: 1.1, Y: 2, Z: 3},
				{Model: "demo-ligand", AtomID: 2, Name: "O12", X: -0.9, Y: 0.5, Z: 0},
			}},
		},
		Diagnostics: []model.GenerationDiagnostics{
			{Cycle: 1, BestScore: -3, MeanScore: -1, Variance: 0.5, Size: 10},
			{Cycle: 2, BestScore: -4, MeanScore: -2, Variance: 0.4, Size: 10},
			{Cycle: 3, BestScore: -4.5, MeanScore: -2.5, Variance: 0.2, Size: 10},
		},
		History: []model.HistoryRecord{{Cycle: 0, Score: -3, Vector: "0 0 0"}},
	}
}

func TestWriteRunArtifactsRoundTrip(t *testing.T) {
	base := t.TempDir()
	runDir, err := WriteRunArtifacts(base, sampleArtifacts())
	if err != nil {
		t.Fatalf("write run artifacts: %v", err)
	}

	run, ok, err := ReadRun(runDir)
	if err != nil || !ok {
		t.Fatalf("read run: ok=%t err=%v", ok, err)
	}
	if run.ID != "run-1" || run.BestScore != -4.5 || run.Evaluations != 120 {
		t.Fatalf("unexpected run: %+v", run)
	}

	series, ok, err := ReadScoreSeries(runDir)
	if err != nil || !ok {
		t.Fatalf("read series: ok=%t err=%v", ok, err)
	}
	want := []float64{-3, -4, -4.5}
	if len(series) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(series))
	}
	for i := range want {
		if series[i] != want[i] {
			t.Fatalf("series[%d]: expected %f, got %f", i, want[i], series[i])
		}
	}
}

func TestWriteRunArtifactsRequiresRunID(t *testing.T) {
	a := sampleArtifacts()
	a.Run.ID = ""
	if _, err := WriteRunArtifacts(t.TempDir(), a); err == nil {
		t.Fatal("expected error without run id")
	}
}

func TestReadMissingArtifacts(t *testing.T) {
	dir := t.TempDir()
	if _, ok, err := ReadRun(dir); err != nil || ok {
		t.Fatalf("expected missing run, ok=%t err=%v", ok, err)
	}
	if _, ok, err := ReadScoreSeries(dir); err != nil || ok {
		t.Fatalf("expected missing series, ok=%t err=%v", ok, err)
	}
}

func TestWritePosesXYZ(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePosesXYZ(&buf, sampleArtifacts().Poses); err != nil {
		t.Fatalf("write xyz: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 8 {
		t.Fatalf("expected 8 lines, got %d:\n%s", len(lines), buf.String())
	}
	if lines[0] != "2" || !strings.HasPrefix(lines[1], "run=run-1 rank=1 score=-4.500000") {
		t.Fatalf("unexpected frame header: %q %q", lines[0], lines[1])
	}
	if fields := strings.Fields(lines[3]); fields[0] != "O" {
		t.Fatalf("expected element O, got %q", fields[0])
	}
}

func TestElementLabel(t *testing.T) {
	cases := map[string]string{"C1": "C", "Cl23": "Cl", "N": "N", "42": "X", "": "X"}
	for in, want := range cases {
		if got := elementLabel(in); got != want {
			t.Fatalf("elementLabel(%q): expected %q, got %q", in, want, got)
		}
	}
}
