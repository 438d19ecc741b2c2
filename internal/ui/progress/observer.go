package progress

import (
	"io"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"uclevr/internal/evaluator"
)

// Controller runs the progress UI and implements evaluator.Observer.
type Controller struct {
	events    chan Event
	program   *tea.Program
	done      chan struct{}
	closeOnce sync.Once
}

// Start launches a progress UI controller that writes to stdout.
func Start(stdout io.Writer, opts Options) *Controller {
	if stdout == nil {
		stdout = os.Stdout
	}
	events := make(chan Event, 256)
	model := NewModel(events, opts)
	program := tea.NewProgram(model, tea.WithOutput(stdout), tea.WithInput(nil), tea.WithAltScreen())
	controller := &Controller{
		events:  events,
		program: program,
		done:    make(chan struct{}),
	}
	go func() {
		_, _ = program.Run()
		close(controller.done)
	}()
	return controller
}

// Close signals the UI to stop.
func (c *Controller) Close() {
	if c == nil {
		return
	}
	c.closeOnce.Do(func() {
		close(c.events)
	})
}

// Wait blocks until the UI has exited.
func (c *Controller) Wait() {
	if c == nil {
		return
	}
	<-c.done
}

// OnStart forwards phase start events to the UI.
func (c *Controller) OnStart(phase evaluator.Phase, total int) {
	c.send(Event{Kind: EventPhaseStart, Phase: phase, Total: total})
}

// OnItem forwards question results to the UI.
func (c *Controller) OnItem(result evaluator.QuestionResult) {
	c.send(Event{Kind: EventItem, Result: result})
}

// OnFinish forwards phase completion to the UI.
func (c *Controller) OnFinish(summary evaluator.Summary) {
	c.send(Event{Kind: EventPhaseEnd, Phase: summary.Phase, Summary: summary})
}

// send enqueues an event without blocking the caller.
func (c *Controller) send(event Event) {
	if c == nil {
		return
	}
	select {
	case c.events <- event:
	default:
	}
}
