package progress

import (
	"fmt"
	"time"

	"uclevr/internal/evaluator"
)

// Reduce applies an event to the UI state.
func Reduce(state State, event Event, now time.Time) State {
	switch event.Kind {
	case EventPhaseStart:
		return State{
			Phase:     event.Phase,
			Total:     event.Total,
			StartedAt: now,
			Counts:    Counts{Skipped: map[evaluator.Reason]int{}},
			LastEvent: "Started " + phaseLabel(event.Phase),
		}
	case EventItem:
		return applyResult(state, event.Result)
	case EventPhaseEnd:
		state.Finished = true
		state.LastEvent = formatPhaseEnd(event.Summary)
	}
	return state
}

// applyResult records a finished question.
func applyResult(state State, result evaluator.QuestionResult) State {
	state.Done++
	if result.Reason.Skipped() {
		skipped := make(map[evaluator.Reason]int, len(state.Counts.Skipped)+1)
		for reason, n := range state.Counts.Skipped {
			skipped[reason] = n
		}
		skipped[result.Reason]++
		state.Counts.Skipped = skipped
	} else {
		state.Counts.Completed++
	}
	if result.Reason == evaluator.ReasonScored {
		state.ScoreSum += result.Score
	}
	row := QuestionRow{
		QuestionIndex: result.QuestionIndex,
		Image:         result.Image,
		Reason:        result.Reason,
		Score:         result.Score,
		TargetObjects: result.Stats.TargetObjects,
		Targets:       result.Targets,
		HasStats:      result.HasStats,
	}
	rows := append([]QuestionRow{row}, state.Rows...)
	if len(rows) > recentLimit {
		rows = rows[:recentLimit]
	}
	state.Rows = rows
	state.LastEvent = fmt.Sprintf("Question %d %s", result.QuestionIndex, reasonLabel(result.Reason))
	return state
}

// skippedTotal sums every skip reason.
func skippedTotal(counts Counts) int {
	n := 0
	for _, v := range counts.Skipped {
		n += v
	}
	return n
}
