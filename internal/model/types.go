package model

import (
	"encoding/json"
	"time"
)

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// Run status values.
const (
	RunCompleted = "completed"
	RunFailed    = "failed"
)

// RunRecord describes one docking run of a ligand against a system.
type RunRecord struct {
	VersionedRecord
	ID          string          `json:"id"`
	System      string          `json:"system"`
	Ligand      string          `json:"ligand"`
	Seed        uint64          `json:"seed"`
	Config      json.RawMessage `json:"config,omitempty"`
	Status      string          `json:"status"`
	Error       string          `json:"error,omitempty"`
	BestScore   float64         `json:"best_score"`
	Cycles      int             `json:"cycles"`
	Converged   bool            `json:"converged"`
	Evaluations int             `json:"evaluations"`
	Elapsed     time.Duration   `json:"elapsed_ns"`
	CreatedAt   time.Time       `json:"created_at"`
}

// AtomCoord is the position of one atom of a docked pose.
type AtomCoord struct {
	Model  string  `json:"model"`
	AtomID int     `json:"atom_id"`
	Name   string  `json:"name"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Z      float64 `json:"z"`
}

// PoseRecord is a ranked genome from the final population.
type PoseRecord struct {
	VersionedRecord
	RunID  string      `json:"run_id"`
	Rank   int         `json:"rank"`
	Score  float64     `json:"score"`
	Vector string      `json:"vector"`
	Coords []AtomCoord `json:"coords,omitempty"`
}

// GenerationDiagnostics summarises the population after one GA cycle.
type GenerationDiagnostics struct {
	Cycle       int     `json:"cycle"`
	Convergence int     `json:"convergence"`
	BestScore   float64 `json:"best_score"`
	MeanScore   float64 `json:"mean_score"`
	Variance    float64 `json:"variance"`
	Size        int     `json:"size"`
}

// HistoryRecord is the best genome at a sampled cycle.
type HistoryRecord struct {
	Cycle  int     `json:"cycle"`
	Score  float64 `json:"score"`
	Vector string  `json:"vector"`
}
