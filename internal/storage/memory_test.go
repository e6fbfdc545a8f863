package storage

import (
	"context"
	"testing"
	"time"

	"gadock/internal/model"
)

func TestMemoryStoreRunRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	later := model.RunRecord{VersionedRecord: CurrentVersion(), ID: "run-b", Ligand: "lig", Status: model.RunCompleted, CreatedAt: base.Add(time.Minute)}
	earlier := model.RunRecord{VersionedRecord: CurrentVersion(), ID: "run-a", Ligand: "lig", Status: model.RunFailed, Error: "collapse", CreatedAt: base}
	for _, run := range []model.RunRecord{later, earlier} {
		if err := store.SaveRun(ctx, run); err != nil {
			t.Fatalf("save run: %v", err)
		}
	}

	got, ok, err := store.GetRun(ctx, "run-a")
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if !ok || got.Error != "collapse" {
		t.Fatalf("unexpected run: %+v", got)
	}
	if _, ok, _ := store.GetRun(ctx, "missing"); ok {
		t.Fatal("expected missing run")
	}

	runs, err := store.ListRuns(ctx)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "run-a" || runs[1].ID != "run-b" {
		t.Fatalf("unexpected run order: %+v", runs)
	}
}

func TestMemoryStorePosesAreCopied(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	input := []model.PoseRecord{{
		VersionedRecord: CurrentVersion(),
		RunID:           "run-1",
		Rank:            1,
		Score:           -3.5,
		Vector:          "1,2,3",
		Coords:          []model.AtomCoord{{Model: "lig", AtomID: 1, Name: "C1", X: 1}},
	}}
	if err := store.SavePoses(ctx, "run-1", input); err != nil {
		t.Fatalf("save poses: %v", err)
	}
	input[0].Coords[0].X = 99

	output, ok, err := store.GetPoses(ctx, "run-1")
	if err != nil {
		t.Fatalf("get poses: %v", err)
	}
	if !ok {
		t.Fatal("expected persisted poses")
	}
	if len(output) != 1 || output[0].Coords[0].X != 1 {
		t.Fatalf("unexpected poses: %+v", output)
	}
}

func TestMemoryStoreGenerationDiagnosticsRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	input := []model.GenerationDiagnostics{
		{Cycle: 0, BestScore: -4, MeanScore: -6, Variance: 2, Size: 50},
		{Cycle: 1, Convergence: 1, BestScore: -4, MeanScore: -5, Variance: 1, Size: 50},
	}
	if err := store.SaveGenerationDiagnostics(ctx, "run-1", input); err != nil {
		t.Fatalf("save diagnostics: %v", err)
	}
	output, ok, err := store.GetGenerationDiagnostics(ctx, "run-1")
	if err != nil {
		t.Fatalf("get diagnostics: %v", err)
	}
	if !ok {
		t.Fatal("expected persisted diagnostics")
	}
	if len(output) != len(input) || output[1].Convergence != 1 {
		t.Fatalf("unexpected diagnostics: %+v", output)
	}
}

func TestMemoryStoreHistoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	input := []model.HistoryRecord{{Cycle: 0, Score: -2, Vector: "0.5"}, {Cycle: 10, Score: -1, Vector: "0.25"}}
	if err := store.SaveHistory(ctx, "run-1", input); err != nil {
		t.Fatalf("save history: %v", err)
	}
	output, ok, err := store.GetHistory(ctx, "run-1")
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	if !ok || len(output) != 2 || output[1].Vector != "0.25" {
		t.Fatalf("unexpected history: %+v", output)
	}
	if _, ok, _ := store.GetHistory(ctx, "run-2"); ok {
		t.Fatal("expected no history for unknown run")
	}
}
