package config

import (
	"strings"

	"uclevr/internal/spec"
	"uclevr/internal/target"
)

// Normalize applies defaults and trims user-provided values.
func Normalize(cfg *spec.Config) {
	if cfg == nil {
		return
	}
	cfg.PredFile = strings.TrimSpace(cfg.PredFile)
	cfg.QuestionFile = strings.TrimSpace(cfg.QuestionFile)
	cfg.ScenesPath = strings.TrimSpace(cfg.ScenesPath)
	cfg.MasksPath = strings.TrimSpace(cfg.MasksPath)
	cfg.HeatmapPath = strings.TrimSpace(cfg.HeatmapPath)
	cfg.GroundTruthPath = strings.TrimSpace(cfg.GroundTruthPath)
	cfg.StatsPath = strings.TrimSpace(cfg.StatsPath)
	cfg.ResultsDB = strings.TrimSpace(cfg.ResultsDB)

	for i, name := range cfg.Filters {
		cfg.Filters[i] = strings.ToLower(strings.TrimSpace(name))
	}
	if len(cfg.Filters) == 0 && !cfg.TargetAll {
		cfg.Filters = []string{string(target.FilterFirstNonempty)}
	}
	if cfg.Workers == 0 {
		cfg.Workers = 1
	}
}
