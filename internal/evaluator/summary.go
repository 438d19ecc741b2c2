package evaluator

import (
	"math"

	"uclevr/internal/groundtruth"
	"uclevr/internal/scoring"
)

// Reason classifies the outcome of one question.
type Reason string

const (
	// ReasonScored marks a question whose heatmap was scored.
	ReasonScored Reason = "scored"
	// ReasonBuilt marks a question whose ground truth was built.
	ReasonBuilt Reason = "built"

	ReasonUnknownQuestion  Reason = "unknown_question"
	ReasonWrongAnswer      Reason = "wrong_answer"
	ReasonNoTarget         Reason = "no_target"
	ReasonMissingInput     Reason = "missing_input"
	ReasonMissingHeatmap   Reason = "missing_heatmap"
	ReasonUndefinedOverlap Reason = "undefined_overlap"
)

// Skipped reports whether the question was excluded.
func (r Reason) Skipped() bool {
	return r != ReasonScored && r != ReasonBuilt
}

// QuestionResult is the outcome of one question in a phase.
type QuestionResult struct {
	QuestionIndex int
	Image         string
	Reason        Reason
	// Score is the overlap ratio when Reason is ReasonScored, NaN otherwise.
	Score    float64
	Stats    groundtruth.Stats
	HasStats bool
	// Targets describes the target objects when the ground truth was built
	// in this phase; it is empty for cached ground truth.
	Targets string
}

// Summary aggregates the results of a phase.
type Summary struct {
	Phase Phase
	// Accuracy is the mean overlap; only meaningful when Computed is true.
	Accuracy float64
	Computed bool

	Total     int
	Completed int
	Skipped   map[Reason]int

	// MeanTargetObjects and MeanMaskFraction average every result carrying stats.
	MeanTargetObjects float64
	MeanMaskFraction  float64

	Results []QuestionResult
}

// SkippedTotal returns the number of excluded questions.
func (s Summary) SkippedTotal() int {
	n := 0
	for _, count := range s.Skipped {
		n += count
	}
	return n
}

func summarize(phase Phase, results []QuestionResult) Summary {
	summary := Summary{
		Phase:   phase,
		Total:   len(results),
		Skipped: map[Reason]int{},
		Results: results,
	}
	var scores []float64
	var targets, fractions float64
	withStats := 0
	for _, r := range results {
		if r.Reason.Skipped() {
			summary.Skipped[r.Reason]++
		} else {
			summary.Completed++
		}
		if r.Reason == ReasonScored {
			scores = append(scores, r.Score)
		}
		if r.HasStats {
			withStats++
			targets += float64(r.Stats.TargetObjects)
			fractions += r.Stats.MaskFraction
		}
	}
	if phase == PhaseEvaluate {
		summary.Accuracy, summary.Computed = scoring.Mean(scores)
	}
	if !summary.Computed {
		summary.Accuracy = math.NaN()
	}
	if withStats > 0 {
		summary.MeanTargetObjects = targets / float64(withStats)
		summary.MeanMaskFraction = fractions / float64(withStats)
	}
	return summary
}
