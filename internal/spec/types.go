package spec

// Config is the raw evaluation config as written in YAML. Paths are used as
// given; see package config for the resolved, validated form.
type Config struct {
	Version          int      `yaml:"version"`
	PredFile         string   `yaml:"pred_file"`
	QuestionFile     string   `yaml:"question_file"`
	ScenesPath       string   `yaml:"scenes_path"`
	MasksPath        string   `yaml:"masks_path"`
	HeatmapPath      string   `yaml:"heatmap_path"`
	GroundTruthPath  string   `yaml:"ground_truth_path"`
	StatsPath        string   `yaml:"stats_path"`
	HeatmapShape     []int    `yaml:"heatmap_shape"`
	BackgroundColor  []int    `yaml:"background_color"`
	TargetAll        bool     `yaml:"target_all"`
	Filters          []string `yaml:"filters"`
	NormalizeAnswers bool     `yaml:"normalize_answers"`
	Workers          int      `yaml:"workers"`
	ResultsDB        string   `yaml:"results_db"`
}
