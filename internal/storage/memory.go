package storage

import (
	"context"
	"slices"
	"sync"

	"gadock/internal/model"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string]model.RunRecord
	poses       map[string][]model.PoseRecord
	diagnostics map[string][]model.GenerationDiagnostics
	history     map[string][]model.HistoryRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.runs = make(map[string]model.RunRecord)
	s.poses = make(map[string][]model.PoseRecord)
	s.diagnostics = make(map[string][]model.GenerationDiagnostics)
	s.history = make(map[string][]model.HistoryRecord)
	return nil
}

func (s *MemoryStore) SaveRun(_ context.Context, run model.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	run.Config = append([]byte(nil), run.Config...)
	s.runs[run.ID] = run
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (model.RunRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	return run, ok, nil
}

// ListRuns returns every run, oldest first.
func (s *MemoryStore) ListRuns(_ context.Context) ([]model.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]model.RunRecord, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, run)
	}
	sortRuns(runs)
	return runs, nil
}

func (s *MemoryStore) SavePoses(_ context.Context, runID string, poses []model.PoseRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.poses[runID] = clonePoses(poses)
	return nil
}

func (s *MemoryStore) GetPoses(_ context.Context, runID string) ([]model.PoseRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	poses, ok := s.poses[runID]
	if !ok {
		return nil, false, nil
	}
	return clonePoses(poses), true, nil
}

func (s *MemoryStore) SaveGenerationDiagnostics(_ context.Context, runID string, diagnostics []model.GenerationDiagnostics) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]model.GenerationDiagnostics, len(diagnostics))
	copy(copied, diagnostics)
	s.diagnostics[runID] = copied
	return nil
}

func (s *MemoryStore) GetGenerationDiagnostics(_ context.Context, runID string) ([]model.GenerationDiagnostics, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	diagnostics, ok := s.diagnostics[runID]
	if !ok {
		return nil, false, nil
	}
	copied := make([]model.GenerationDiagnostics, len(diagnostics))
	copy(copied, diagnostics)
	return copied, true, nil
}

func (s *MemoryStore) SaveHistory(_ context.Context, runID string, history []model.HistoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]model.HistoryRecord, len(history))
	copy(copied, history)
	s.history[runID] = copied
	return nil
}

func (s *MemoryStore) GetHistory(_ context.Context, runID string) ([]model.HistoryRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.history[runID]
	if !ok {
		return nil, false, nil
	}
	copied := make([]model.HistoryRecord, len(history))
	copy(copied, history)
	return copied, true, nil
}

func clonePoses(poses []model.PoseRecord) []model.PoseRecord {
	copied := make([]model.PoseRecord, 0, len(poses))
	for _, pose := range poses {
		pose.Coords = append([]model.AtomCoord(nil), pose.Coords...)
		copied = append(copied, pose)
	}
	return copied
}

func sortRuns(runs []model.RunRecord) {
	slices.SortFunc(runs, func(a, b model.RunRecord) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
}
