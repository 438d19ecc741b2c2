package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const defaultConfig = `version: 1

# Inputs, relative to the directory above .uclevr/.
pred_file: "predictions.json"
question_file: "questions/CLEVR_val_questions.json"
scenes_path: "scenes/"
masks_path: "masks/"
heatmap_path: "heatmaps/"

# A .npy/.npz path is one archive; anything else is a directory of masks.
ground_truth_path: "ground_truth.npz"

heatmap_shape: [224, 224]
background_color: [64, 64, 64]

filters:
  - first_nonempty
target_all: false
normalize_answers: false
workers: 1
`

// Scaffold writes a starter config to path, refusing to overwrite one.
func Scaffold(path string) error {
	if path == "" {
		return fmt.Errorf("config path is required")
	}
	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			return fmt.Errorf("config path %q is a directory", path)
		}
		return fmt.Errorf("config file already exists at %q", path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
