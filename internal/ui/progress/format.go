package progress

import (
	"fmt"
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"uclevr/internal/evaluator"
)

// phaseLabel maps phases to display labels.
func phaseLabel(phase evaluator.Phase) string {
	switch phase {
	case evaluator.PhaseEvaluate:
		return "evaluation"
	case evaluator.PhaseGroundTruth:
		return "ground truth"
	case evaluator.PhaseStats:
		return "ground truth stats"
	default:
		return string(phase)
	}
}

// reasonLabel maps outcomes to display labels.
func reasonLabel(reason evaluator.Reason) string {
	switch reason {
	case evaluator.ReasonScored:
		return "scored"
	case evaluator.ReasonBuilt:
		return "built"
	case evaluator.ReasonWrongAnswer:
		return "wrong answer"
	case evaluator.ReasonNoTarget:
		return "no target"
	case evaluator.ReasonMissingHeatmap:
		return "missing heatmap"
	case evaluator.ReasonMissingInput:
		return "missing scene"
	case evaluator.ReasonUndefinedOverlap:
		return "undefined overlap"
	case evaluator.ReasonUnknownQuestion:
		return "unknown question"
	default:
		return string(reason)
	}
}

// formatScore formats an overlap score for display.
func formatScore(row QuestionRow) string {
	if row.Reason != evaluator.ReasonScored || math.IsNaN(row.Score) {
		return ""
	}
	return fmt.Sprintf("%.4f", row.Score)
}

// formatTargets names the target objects, falling back to their count when
// the ground truth was loaded rather than built.
func formatTargets(row QuestionRow) string {
	if !row.HasStats {
		return ""
	}
	if row.Targets != "" {
		return row.Targets
	}
	return strconv.Itoa(row.TargetObjects)
}

// formatPhaseEnd formats a phase completion message.
func formatPhaseEnd(summary evaluator.Summary) string {
	line := "Finished " + phaseLabel(summary.Phase)
	if summary.Phase == evaluator.PhaseEvaluate {
		if summary.Computed {
			line += fmt.Sprintf(", accuracy %.4f", summary.Accuracy)
		} else {
			line += ", accuracy not computed"
		}
	}
	return line
}

// stylizeReason applies outcome coloring when enabled.
func stylizeReason(text string, reason evaluator.Reason, noColor bool) string {
	if noColor {
		return text
	}
	return reasonStyle(reason).Render(text)
}

// reasonStyle selects a style for an outcome.
func reasonStyle(reason evaluator.Reason) lipgloss.Style {
	color := lipgloss.Color("244")
	switch reason {
	case evaluator.ReasonScored, evaluator.ReasonBuilt:
		color = lipgloss.Color("42")
	case evaluator.ReasonWrongAnswer:
		color = lipgloss.Color("220")
	case evaluator.ReasonMissingHeatmap, evaluator.ReasonMissingInput, evaluator.ReasonUndefinedOverlap:
		color = lipgloss.Color("196")
	case evaluator.ReasonNoTarget, evaluator.ReasonUnknownQuestion:
		color = lipgloss.Color("246")
	}
	return lipgloss.NewStyle().Foreground(color)
}
