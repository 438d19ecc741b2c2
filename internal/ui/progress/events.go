package progress

import "uclevr/internal/evaluator"

// EventKind identifies the type of progress event.
type EventKind int

const (
	// EventPhaseStart signals the start of an evaluator phase.
	EventPhaseStart EventKind = iota
	// EventItem delivers one question result.
	EventItem
	// EventPhaseEnd signals phase completion.
	EventPhaseEnd
)

// Event carries a UI update payload.
type Event struct {
	Kind    EventKind
	Phase   evaluator.Phase
	Total   int
	Result  evaluator.QuestionResult
	Summary evaluator.Summary
}
