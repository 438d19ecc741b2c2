//go:build cucumber

package cucumber

import (
	"fmt"
	"os"
	"path/filepath"

	"uclevr/internal/testutil"
)

// aSyntheticDataset writes the one-scene fixture and enters its directory.
func (s *featureState) aSyntheticDataset() error {
	return s.writeDataset(testutil.DatasetOptions{})
}

// aSyntheticDatasetWith writes the fixture with extra config YAML.
func (s *featureState) aSyntheticDatasetWith(extra string) error {
	return s.writeDataset(testutil.DatasetOptions{Extra: extra})
}

func (s *featureState) writeDataset(opts testutil.DatasetOptions) error {
	dir, err := os.MkdirTemp("", "uclevr-feature-*")
	if err != nil {
		return fmt.Errorf("create temp dataset: %w", err)
	}
	s.dataset = testutil.WriteDataset(s.t, dir, opts)
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working dir: %w", err)
	}
	s.previousWD = wd
	if err := os.Chdir(dir); err != nil {
		return fmt.Errorf("chdir: %w", err)
	}
	return nil
}

// theConfigSets appends a key to the dataset config.
func (s *featureState) theConfigSets(line string) error {
	f, err := os.OpenFile(s.dataset.ConfigPath, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	if _, err := fmt.Fprintln(f, line); err != nil {
		return fmt.Errorf("append config: %w", err)
	}
	return nil
}

// thePredictionsFileIsMissing removes the predictions file.
func (s *featureState) thePredictionsFileIsMissing() error {
	return os.Remove(filepath.Join(s.dataset.Root, "predictions.json"))
}
