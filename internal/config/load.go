package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"uclevr/internal/spec"
	"uclevr/internal/target"
)

// ErrConfigNotFound is returned when the config file does not exist.
var ErrConfigNotFound = errors.New("config: file not found")

// Load reads, parses, normalizes, and validates a config file. Relative
// paths in the file resolve against the directory holding it.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	raw, err := spec.ParseConfig(data)
	if err != nil {
		return Config{}, err
	}
	Normalize(&raw)
	if err := Validate(&raw); err != nil {
		return Config{}, err
	}
	cfg := Resolve(raw, DatasetRootFromConfigPath(path))
	cfg.Path = path
	return cfg, nil
}

// Resolve converts a validated raw config into a Config, joining relative
// paths onto baseDir.
func Resolve(raw spec.Config, baseDir string) Config {
	cfg := Config{
		PredFile:         resolvePath(baseDir, raw.PredFile),
		QuestionFile:     resolvePath(baseDir, raw.QuestionFile),
		GroundTruthPath:  resolvePath(baseDir, raw.GroundTruthPath),
		StatsPath:        resolvePath(baseDir, raw.StatsPath),
		ResultsDB:        resolvePath(baseDir, raw.ResultsDB),
		TargetAll:        raw.TargetAll,
		NormalizeAnswers: raw.NormalizeAnswers,
		Workers:          raw.Workers,
	}
	cfg.Layout.ScenesPath = resolvePath(baseDir, raw.ScenesPath)
	cfg.Layout.MasksPath = resolvePath(baseDir, raw.MasksPath)
	cfg.Layout.HeatmapsPath = resolvePath(baseDir, raw.HeatmapPath)
	if len(raw.HeatmapShape) == 2 {
		cfg.HeatmapShape = [2]int{raw.HeatmapShape[0], raw.HeatmapShape[1]}
	}
	for i := 0; i < 3 && i < len(raw.BackgroundColor); i++ {
		cfg.Background[i] = uint8(raw.BackgroundColor[i])
	}
	// Validate has already rejected unknown names.
	cfg.Filters, _ = target.ParseFilters(raw.Filters)
	return cfg
}

// resolvePath joins a relative path onto baseDir while keeping a trailing
// separator, since layout paths are prefixes rather than directories.
func resolvePath(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) || baseDir == "" || baseDir == "." {
		return path
	}
	joined := filepath.Join(baseDir, path)
	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		joined += string(filepath.Separator)
	}
	return joined
}
