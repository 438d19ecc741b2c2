package config

import (
	"slices"

	"uclevr/internal/dataset"
	"uclevr/internal/groundtruth"
	"uclevr/internal/target"
)

// Config is the resolved evaluation configuration. It is built once by Load
// and shared read-only by every component.
type Config struct {
	// Path is the config file this was loaded from, empty when built in code.
	Path string

	PredFile        string
	QuestionFile    string
	Layout          dataset.Layout
	GroundTruthPath string
	StatsPath       string

	// HeatmapShape is the [height, width] masks are resized to. A zero value
	// means "use each heatmap's own shape".
	HeatmapShape [2]int
	Background   [3]uint8

	TargetAll        bool
	Filters          []target.Filter
	NormalizeAnswers bool
	Workers          int
	ResultsDB        string
}

// HasHeatmapShape reports whether a fixed heatmap shape was configured.
func (c Config) HasHeatmapShape() bool {
	return c.HeatmapShape[0] > 0 && c.HeatmapShape[1] > 0
}

// Resolver returns the target resolver described by the config.
func (c Config) Resolver() target.Resolver {
	return target.Resolver{Filters: slices.Clone(c.Filters), TargetAll: c.TargetAll}
}

// Store returns the ground truth store described by the config.
func (c Config) Store() groundtruth.Store {
	store := groundtruth.NewStore(c.GroundTruthPath)
	store.StatsPath = c.StatsPath
	return store
}
