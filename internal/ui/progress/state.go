package progress

import (
	"time"

	"uclevr/internal/evaluator"
)

// recentLimit bounds the rows kept for the results table.
const recentLimit = 200

// QuestionRow holds UI state for a single finished question.
type QuestionRow struct {
	QuestionIndex int
	Image         string
	Reason        evaluator.Reason
	Score         float64
	TargetObjects int
	Targets       string
	HasStats      bool
}

// Counts aggregates finished questions by outcome.
type Counts struct {
	Completed int
	Skipped   map[evaluator.Reason]int
}

// State captures the progress UI state for one phase.
type State struct {
	Phase     evaluator.Phase
	Total     int
	Done      int
	StartedAt time.Time
	Counts    Counts
	ScoreSum  float64
	Rows      []QuestionRow
	LastEvent string
	Finished  bool
}

// Percent returns the completed share of the phase in [0, 1].
func (s State) Percent() float64 {
	if s.Total <= 0 {
		if s.Finished {
			return 1
		}
		return 0
	}
	return min(float64(s.Done)/float64(s.Total), 1)
}

// RunningMean returns the mean of the scores seen so far.
func (s State) RunningMean() (float64, bool) {
	if s.Phase != evaluator.PhaseEvaluate || s.Counts.Completed == 0 {
		return 0, false
	}
	return s.ScoreSum / float64(s.Counts.Completed), true
}
