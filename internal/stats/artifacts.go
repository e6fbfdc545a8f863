package stats

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"gadock/internal/model"
)

const (
	runFile         = "run.json"
	posesFile       = "poses.json"
	posesXYZFile    = "poses.xyz"
	diagnosticsFile = "generation_diagnostics.json"
	historyFile     = "history.json"
	seriesFile      = "score_series.csv"
)

// RunArtifacts is everything persisted for one docking run.
type RunArtifacts struct {
	Run         model.RunRecord
	Poses       []model.PoseRecord
	Diagnostics []model.GenerationDiagnostics
	History     []model.HistoryRecord
}

// WriteRunArtifacts writes the run under baseDir/<run id> and returns that
// directory. Existing files are overwritten.
func WriteRunArtifacts(baseDir string, artifacts RunArtifacts) (string, error) {
	if artifacts.Run.ID == "" {
		return "", fmt.Errorf("run id is required")
	}

	runDir := filepath.Join(baseDir, artifacts.Run.ID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, runFile), artifacts.Run); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, posesFile), artifacts.Poses); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, diagnosticsFile), artifacts.Diagnostics); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, historyFile), artifacts.History); err != nil {
		return "", err
	}
	if err := WriteScoreSeries(runDir, artifacts.Diagnostics); err != nil {
		return "", err
	}
	if err := writeFile(filepath.Join(runDir, posesXYZFile), func(w io.Writer) error {
		return WritePosesXYZ(w, artifacts.Poses)
	}); err != nil {
		return "", err
	}
	return runDir, nil
}

// ReadRun loads run.json from a run directory.
func ReadRun(runDir string) (model.RunRecord, bool, error) {
	data, err := os.ReadFile(filepath.Join(runDir, runFile))
	if err != nil {
		if os.IsNotExist(err) {
			return model.RunRecord{}, false, nil
		}
		return model.RunRecord{}, false, err
	}
	var run model.RunRecord
	if err := json.Unmarshal(data, &run); err != nil {
		return model.RunRecord{}, false, err
	}
	return run, true, nil
}

// WriteScoreSeries writes one CSV row per cycle.
func WriteScoreSeries(runDir string, diagnostics []model.GenerationDiagnostics) error {
	return writeFile(filepath.Join(runDir, seriesFile), func(w io.Writer) error {
		writer := csv.NewWriter(w)
		if err := writer.Write([]string{"cycle", "best_score", "mean_score", "variance"}); err != nil {
			return err
		}
		for _, d := range diagnostics {
			if err := writer.Write([]string{
				strconv.Itoa(d.Cycle),
				strconv.FormatFloat(d.BestScore, 'f', -1, 64),
				strconv.FormatFloat(d.MeanScore, 'f', -1, 64),
				strconv.FormatFloat(d.Variance, 'f', -1, 64),
			}); err != nil {
				return err
			}
		}
		writer.Flush()
		return writer.Error()
	})
}

// ReadScoreSeries returns the best score column of score_series.csv.
func ReadScoreSeries(runDir string) ([]float64, bool, error) {
	file, err := os.Open(filepath.Join(runDir, seriesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return []float64{}, true, nil
		}
		return nil, false, err
	}
	if len(header) < 2 {
		return nil, false, fmt.Errorf("score series header must have at least 2 columns")
	}

	series := make([]float64, 0, 128)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, false, err
		}
		if len(record) < 2 {
			return nil, false, fmt.Errorf("score series row must have at least 2 columns")
		}
		value, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, false, err
		}
		series = append(series, value)
	}
	return series, true, nil
}

// WritePosesXYZ writes the poses as consecutive XYZ frames, best first.
// The comment line carries the rank and score.
func WritePosesXYZ(w io.Writer, poses []model.PoseRecord) error {
	bw := bufio.NewWriter(w)
	for _, pose := range poses {
		fmt.Fprintf(bw, "%d\n", len(pose.Coords))
		fmt.Fprintf(bw, "run=%s rank=%d score=%.6f\n", pose.RunID, pose.Rank, pose.Score)
		for _, c := range pose.Coords {
			fmt.Fprintf(bw, "%-4s %12.6f %12.6f %12.6f\n", elementLabel(c.Name), c.X, c.Y, c.Z)
		}
	}
	return bw.Flush()
}

// elementLabel strips trailing digits from an atom name: "C12" -> "C".
func elementLabel(name string) string {
	end := len(name)
	for end > 0 && name[end-1] >= '0' && name[end-1] <= '9' {
		end--
	}
	if end == 0 {
		return "X"
	}
	return name[:end]
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

func writeFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
