package cli

import (
	"fmt"
	"io"
	"sort"

	"uclevr/internal/evaluator"
)

// plainObserver prints one line when a phase starts and a short tally when
// it ends. Per-question detail goes to the logger.
type plainObserver struct {
	w io.Writer
}

func newPlainObserver(w io.Writer) *plainObserver {
	return &plainObserver{w: w}
}

func (o *plainObserver) OnStart(phase evaluator.Phase, total int) {
	fmt.Fprintf(o.w, "%s: %d questions\n", phaseTitle(phase), total)
}

func (o *plainObserver) OnItem(evaluator.QuestionResult) {}

func (o *plainObserver) OnFinish(summary evaluator.Summary) {
	fmt.Fprintf(o.w, "%s: %d completed, %d skipped\n", phaseTitle(summary.Phase), summary.Completed, summary.SkippedTotal())
	reasons := make([]string, 0, len(summary.Skipped))
	for reason := range summary.Skipped {
		reasons = append(reasons, string(reason))
	}
	sort.Strings(reasons)
	for _, reason := range reasons {
		if n := summary.Skipped[evaluator.Reason(reason)]; n > 0 {
			fmt.Fprintf(o.w, "  %s: %d\n", reason, n)
		}
	}
}

func phaseTitle(phase evaluator.Phase) string {
	switch phase {
	case evaluator.PhaseEvaluate:
		return "Evaluating"
	case evaluator.PhaseGroundTruth:
		return "Building ground truth"
	case evaluator.PhaseStats:
		return "Computing stats"
	default:
		return string(phase)
	}
}
