package report

import (
	"fmt"
	"math"

	"uclevr/internal/evaluator"
)

// formatAccuracy returns the overall accuracy for report output.
func formatAccuracy(summary evaluator.Summary) string {
	if !summary.Computed {
		return "not computed"
	}
	return fmt.Sprintf("%.4f", summary.Accuracy)
}

func formatScore(r evaluator.QuestionResult) string {
	if r.Reason != evaluator.ReasonScored || math.IsNaN(r.Score) {
		return "-"
	}
	return fmt.Sprintf("%.4f", r.Score)
}

func formatPercent(fraction float64) string {
	return fmt.Sprintf("%.2f%%", fraction*100)
}
