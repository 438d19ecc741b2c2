package config

import (
	"fmt"
	"strings"

	"uclevr/internal/spec"
	"uclevr/internal/target"
)

// Issue captures a validation problem with a config field.
type Issue struct {
	Field   string
	Message string
}

// ValidationError aggregates config validation issues.
type ValidationError struct {
	Issues []Issue
}

// Error renders validation errors as a multi-line string.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "config validation failed"
	}
	lines := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		lines = append(lines, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return strings.Join(lines, "\n")
}

// MissingConfigError names required keys absent from a config.
type MissingConfigError struct {
	Keys []string
}

func (err *MissingConfigError) Error() string {
	if err == nil || len(err.Keys) == 0 {
		return "missing config"
	}
	return "missing config: " + strings.Join(err.Keys, ", ")
}

// Validate checks a normalized config. Missing required keys are reported
// first and alone as a *MissingConfigError; everything else is aggregated
// into a *ValidationError.
func Validate(cfg *spec.Config) error {
	if cfg == nil {
		return &ValidationError{Issues: []Issue{{Field: "config", Message: "is required"}}}
	}

	required := []struct {
		key   string
		value bool
	}{
		{"pred_file", cfg.PredFile != ""},
		{"question_file", cfg.QuestionFile != ""},
		{"scenes_path", cfg.ScenesPath != ""},
		{"masks_path", cfg.MasksPath != ""},
		{"heatmap_path", cfg.HeatmapPath != ""},
		{"ground_truth_path", cfg.GroundTruthPath != ""},
		{"background_color", cfg.BackgroundColor != nil},
	}
	var missing []string
	for _, r := range required {
		if !r.value {
			missing = append(missing, r.key)
		}
	}
	if len(missing) > 0 {
		return &MissingConfigError{Keys: missing}
	}

	var issues []Issue
	add := func(field, message string) {
		issues = append(issues, Issue{Field: field, Message: message})
	}

	if cfg.Version != 0 && cfg.Version != 1 {
		add("version", fmt.Sprintf("unsupported version %d", cfg.Version))
	}

	if len(cfg.BackgroundColor) != 3 {
		add("background_color", fmt.Sprintf("expected 3 components, got %d", len(cfg.BackgroundColor)))
	}
	for i, v := range cfg.BackgroundColor {
		if v < 0 || v > 255 {
			add(fmt.Sprintf("background_color[%d]", i), fmt.Sprintf("must be within [0, 255], got %d", v))
		}
	}

	if cfg.HeatmapShape != nil {
		if len(cfg.HeatmapShape) != 2 {
			add("heatmap_shape", fmt.Sprintf("expected [height, width], got %d values", len(cfg.HeatmapShape)))
		}
		for i, v := range cfg.HeatmapShape {
			if v <= 0 {
				add(fmt.Sprintf("heatmap_shape[%d]", i), "must be > 0")
			}
		}
	}

	seen := map[string]struct{}{}
	for i, name := range cfg.Filters {
		if _, err := target.ParseFilter(name); err != nil {
			add(fmt.Sprintf("filters[%d]", i), fmt.Sprintf("unknown filter %q", name))
			continue
		}
		if _, dup := seen[name]; dup {
			add(fmt.Sprintf("filters[%d]", i), fmt.Sprintf("duplicate filter %q", name))
		}
		seen[name] = struct{}{}
	}
	if len(cfg.Filters) == 0 && !cfg.TargetAll {
		add("filters", "at least one filter is required unless target_all is set")
	}

	if cfg.Workers < 1 {
		add("workers", "must be >= 1")
	}

	if cfg.StatsPath != "" && cfg.StatsPath == cfg.GroundTruthPath {
		add("stats_path", "must differ from ground_truth_path")
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}
