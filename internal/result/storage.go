// Package result persists sweep measurements as timestamped run
// directories so finished sweeps can be re-rendered later.
package result

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

func CreateRunDir(baseDir string) (string, error) {
	runsDir := filepath.Join(baseDir, "runs")
	stamp := time.Now().UTC().Format("2006-01-02T15-04-05")
	runDir := filepath.Join(runsDir, stamp)
	runDir, err := filepath.Abs(runDir)
	if err != nil {
		return "", fmt.Errorf("resolving run dir: %w", err)
	}
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", fmt.Errorf("creating run dir: %w", err)
	}
	latest := filepath.Join(baseDir, "latest")
	os.Remove(latest)
	if err := os.Symlink(runDir, latest); err != nil {
		return "", fmt.Errorf("creating latest symlink: %w", err)
	}
	return runDir, nil
}

func RowPath(runDir string, distance int) string {
	return filepath.Join(runDir, fmt.Sprintf("point-d%d.json", distance))
}

func WriteRow(runDir string, row *SweepRow) error {
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return fmt.Errorf("creating run dir: %w", err)
	}
	data, err := json.MarshalIndent(row, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling row: %w", err)
	}
	return os.WriteFile(RowPath(runDir, row.Distance), data, 0o644)
}

func ReadRow(path string) (*SweepRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading row: %w", err)
	}
	var row SweepRow
	if err := json.Unmarshal(data, &row); err != nil {
		return nil, fmt.Errorf("parsing row %s: %w", path, err)
	}
	return &row, nil
}
