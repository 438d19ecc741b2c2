package evaluator

// Phase names a unit of work reported to an Observer.
type Phase string

const (
	PhaseEvaluate    Phase = "evaluate"
	PhaseGroundTruth Phase = "ground_truth"
	PhaseStats       Phase = "stats"
)

// Observer receives progress events. Calls are serialized, even when ground
// truth is built by several workers.
type Observer interface {
	OnStart(phase Phase, total int)
	OnItem(result QuestionResult)
	OnFinish(summary Summary)
}

type nopObserver struct{}

func (nopObserver) OnStart(Phase, int) {}

func (nopObserver) OnItem(QuestionResult) {}

func (nopObserver) OnFinish(Summary) {}

func (e *Evaluator) notifyStart(phase Phase, total int) {
	e.notifyMu.Lock()
	defer e.notifyMu.Unlock()
	e.observer.OnStart(phase, total)
}

func (e *Evaluator) notifyItem(result QuestionResult) {
	e.notifyMu.Lock()
	defer e.notifyMu.Unlock()
	e.observer.OnItem(result)
}

func (e *Evaluator) finish(summary Summary) {
	e.notifyMu.Lock()
	defer e.notifyMu.Unlock()
	e.last = summary
	e.observer.OnFinish(summary)
}
