package storage

import (
	"context"

	"gadock/internal/model"
)

// Store defines transaction-like persistence operations for docking runs.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run model.RunRecord) error
	GetRun(ctx context.Context, id string) (model.RunRecord, bool, error)
	ListRuns(ctx context.Context) ([]model.RunRecord, error)
	SavePoses(ctx context.Context, runID string, poses []model.PoseRecord) error
	GetPoses(ctx context.Context, runID string) ([]model.PoseRecord, bool, error)
	SaveGenerationDiagnostics(ctx context.Context, runID string, diagnostics []model.GenerationDiagnostics) error
	GetGenerationDiagnostics(ctx context.Context, runID string) ([]model.GenerationDiagnostics, bool, error)
	SaveHistory(ctx context.Context, runID string, history []model.HistoryRecord) error
	GetHistory(ctx context.Context, runID string) ([]model.HistoryRecord, bool, error)
}
