// Command generate_fixture fills a results database with synthetic runs for
// exercising reports and queries at volume.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"uclevr/internal/evaluator"
	"uclevr/internal/groundtruth"
	"uclevr/internal/results"
	"uclevr/internal/target"
)

// fixtureConfig defines the JSON config for generating a DuckDB fixture.
type fixtureConfig struct {
	Name      string `json:"name"`
	Runs      int    `json:"runs"`
	Questions int    `json:"questions"`
	// SkipEvery marks every n-th question as skipped for lack of targets.
	SkipEvery int `json:"skip_every"`
}

func main() {
	configPath := flag.String("config", "", "path to fixture config JSON")
	outPath := flag.String("out", "", "output duckdb file path")
	flag.Parse()
	if *configPath == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "usage: generate_fixture --config <path> --out <duckdb file>")
		os.Exit(2)
	}
	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "mkdir output dir: %v\n", err)
		os.Exit(1)
	}
	if err := removeIfExists(*outPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	if err := generateFixture(ctx, *outPath, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "generate fixture: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (fixtureConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fixtureConfig{}, err
	}
	var cfg fixtureConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return fixtureConfig{}, err
	}
	return cfg, nil
}

func generateFixture(ctx context.Context, path string, cfg fixtureConfig) error {
	store, err := results.Open(ctx, path)
	if err != nil {
		return err
	}
	defer store.Close()

	for run := 0; run < cfg.Runs; run++ {
		summary := syntheticSummary(run, cfg)
		if _, err := store.RecordRun(ctx, results.Run{
			ConfigPath: fmt.Sprintf("fixture-%s/%d/config.yml", cfg.Name, run),
			Filters:    []target.Filter{target.FilterFirstNonempty},
			Summary:    summary,
		}); err != nil {
			return fmt.Errorf("record run %d: %w", run, err)
		}
	}
	return nil
}

// syntheticSummary scores question i of run r deterministically in [0, 1].
func syntheticSummary(run int, cfg fixtureConfig) evaluator.Summary {
	summary := evaluator.Summary{
		Phase:   evaluator.PhaseEvaluate,
		Total:   cfg.Questions,
		Skipped: map[evaluator.Reason]int{},
	}
	var sum float64
	for i := 0; i < cfg.Questions; i++ {
		res := evaluator.QuestionResult{
			QuestionIndex: i,
			Image:         fmt.Sprintf("CLEVR_%06d", i/10),
			Score:         math.NaN(),
		}
		if cfg.SkipEvery > 0 && i%cfg.SkipEvery == 0 {
			res.Reason = evaluator.ReasonNoTarget
			summary.Skipped[res.Reason]++
		} else {
			res.Reason = evaluator.ReasonScored
			res.Score = math.Abs(math.Sin(float64(run*cfg.Questions + i)))
			res.HasStats = true
			res.Stats = groundtruth.Stats{TargetObjects: 1 + i%3, TotalObjects: 3 + i%7, MaskFraction: 0.01 * float64(1+i%20)}
			sum += res.Score
			summary.Completed++
		}
		summary.Results = append(summary.Results, res)
	}
	if summary.Completed > 0 {
		summary.Accuracy = sum / float64(summary.Completed)
		summary.Computed = true
	} else {
		summary.Accuracy = math.NaN()
	}
	return summary
}

// removeIfExists deletes an existing fixture file so we always start fresh.
func removeIfExists(path string) error {
	_, err := os.Stat(path)
	if err == nil {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove existing fixture: %w", err)
		}
		return nil
	}
	if os.IsNotExist(err) {
		return nil
	}
	return fmt.Errorf("stat fixture: %w", err)
}
