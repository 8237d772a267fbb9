package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ReadRuns reads a JSON array of runs from path.
func ReadRuns(path string) ([]Run, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return []Run{}, nil
	}

	var runs []Run
	if err := json.Unmarshal(data, &runs); err != nil {
		return nil, err
	}
	if runs == nil {
		return []Run{}, nil
	}
	return runs, nil
}

// ReadRunsAllowMissing reads runs and treats a missing file as empty history.
func ReadRunsAllowMissing(path string) ([]Run, error) {
	runs, err := ReadRuns(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Run{}, nil
		}
		return nil, err
	}
	return runs, nil
}

// WriteRuns writes runs as pretty JSON, creating the parent directory.
func WriteRuns(path string, runs []Run) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("path is required")
	}
	if runs == nil {
		runs = []Run{}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := json.MarshalIndent(runs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
