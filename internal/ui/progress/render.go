package progress

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"uclevr/internal/evaluator"
)

// renderHeader renders the phase header line.
func renderHeader(state State, now time.Time, noColor bool) string {
	if state.Phase == "" {
		return stylize("Waiting for evaluator...", noColor, lipgloss.Color("244"))
	}
	line := "Phase: " + phaseLabel(state.Phase) + fmt.Sprintf(" | %d/%d", state.Done, state.Total)
	if !state.StartedAt.IsZero() {
		line += " | Elapsed: " + now.Sub(state.StartedAt).Round(100*time.Millisecond).String()
	}
	return stylize(line, noColor, lipgloss.Color("33"))
}

// renderSummary renders the outcome counts line.
func renderSummary(state State, noColor bool) string {
	label := "Completed"
	if state.Phase == evaluator.PhaseEvaluate {
		label = "Scored"
	}
	line := fmt.Sprintf("%s: %d Skipped: %d", label, state.Counts.Completed, skippedTotal(state.Counts))
	if mean, ok := state.RunningMean(); ok {
		line += fmt.Sprintf(" Mean overlap: %.4f", mean)
	}
	if details := formatSkipped(state.Counts.Skipped); details != "" {
		line += " (" + details + ")"
	}
	return stylize(line, noColor, lipgloss.Color("242"))
}

// formatSkipped lists skip reasons in a stable order.
func formatSkipped(skipped map[evaluator.Reason]int) string {
	reasons := make([]string, 0, len(skipped))
	for reason, n := range skipped {
		if n > 0 {
			reasons = append(reasons, fmt.Sprintf("%s: %d", reasonLabel(reason), n))
		}
	}
	sort.Strings(reasons)
	return strings.Join(reasons, ", ")
}

// renderFooter renders the last event line.
func renderFooter(state State, noColor bool) string {
	if state.LastEvent == "" {
		return ""
	}
	return stylize("Last event: "+state.LastEvent, noColor, lipgloss.Color("244"))
}

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}
