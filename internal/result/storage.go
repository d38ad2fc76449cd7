package result

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

const (
	MetaFile    = "meta.json"
	SummaryFile = "summary.json"
)

func CreateRunDir(baseDir string) (string, error) {
	runsDir := filepath.Join(baseDir, "runs")
	stamp := time.Now().UTC().Format("2006-01-02T15-04-05")
	runDir := filepath.Join(runsDir, stamp)
	runDir, err := filepath.Abs(runDir)
	if err != nil {
		return "", fmt.Errorf("resolving run dir: %w", err)
	}
	// two runs inside the same second get distinct directories
	if _, err := os.Stat(runDir); err == nil {
		runDir += "-" + uuid.NewString()[:8]
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

// NewRunMeta stamps a fresh run ID and creation time.
func NewRunMeta(input string) *RunMeta {
	return &RunMeta{
		ID:        uuid.NewString(),
		Input:     input,
		CreatedAt: time.Now().UTC(),
	}
}

func WriteRunMeta(runDir string, meta *RunMeta) error {
	return writeJSON(runDir, MetaFile, meta)
}

func ReadRunMeta(path string) (*RunMeta, error) {
	var meta RunMeta
	if err := readJSON(path, &meta); err != nil {
		return nil, fmt.Errorf("meta: %w", err)
	}
	return &meta, nil
}

func WriteSummary(runDir string, s *Summary) error {
	return writeJSON(runDir, SummaryFile, s)
}

func ReadSummary(path string) (*Summary, error) {
	var s Summary
	if err := readJSON(path, &s); err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	return &s, nil
}

func writeJSON(dir, name string, v any) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating run dir: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", name, err)
	}
	return os.WriteFile(filepath.Join(dir, name), data, 0o644)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}
