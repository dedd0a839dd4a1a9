// Package results reads and writes the persisted results file.
//
// The file holds one JSON array with an entry per executed check. A missing
// or empty file reads as no results, so the UI can start before the first run.
package results

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/leapstack-labs/leapcheck/pkg/core"
)

// Load reads the results file at path.
func Load(path string) ([]core.PersistedResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []core.PersistedResult{}, nil
		}
		return nil, fmt.Errorf("read results: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return []core.PersistedResult{}, nil
	}

	var entries []core.PersistedResult
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse results %s: %w", path, err)
	}
	if entries == nil {
		entries = []core.PersistedResult{}
	}
	return entries, nil
}

// Save replaces the results file at path with entries.
// The write goes through a temporary file so readers never see a partial array.
func Save(path string, entries []core.PersistedResult) error {
	if entries == nil {
		entries = []core.PersistedResult{}
	}

	data, err := encode(entries)
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure results directory: %w", err)
		}
	}

	tmpPath := fmt.Sprintf("%s.%d.tmp", path, time.Now().UnixNano())
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp results: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace results file: %w", err)
	}
	return nil
}

func encode(entries []core.PersistedResult) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
