// Package evaluator drives a Unique CLEVR relevance evaluation: it pairs
// predictions with questions, builds or loads ground truth masks and
// aggregates heatmap overlap scores.
package evaluator

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"uclevr/internal/config"
	"uclevr/internal/dataset"
	"uclevr/internal/groundtruth"
)

// ErrAlreadyComputed guards persisted ground truth against recomputation.
var ErrAlreadyComputed = errors.New("evaluator: ground truth already computed")

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLogger sets the logger. The default discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Evaluator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithObserver registers progress hooks.
func WithObserver(observer Observer) Option {
	return func(e *Evaluator) {
		if observer != nil {
			e.observer = observer
		}
	}
}

// Evaluator holds the inputs and ground truth cache of one evaluation run.
type Evaluator struct {
	cfg      config.Config
	store    groundtruth.Store
	logger   *slog.Logger
	observer Observer

	predictions []dataset.Prediction
	questions   []dataset.Question
	byIndex     map[int]int

	precomputed bool

	mu    sync.Mutex
	masks map[int]groundtruth.Mask
	stats map[int]groundtruth.Stats

	notifyMu sync.Mutex
	last     Summary
}

// New loads predictions, questions and any persisted ground truth. Missing
// prediction or question files are logged and treated as empty.
func New(cfg config.Config, opts ...Option) (*Evaluator, error) {
	e := &Evaluator{
		cfg:      cfg,
		store:    cfg.Store(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		observer: nopObserver{},
		byIndex:  map[int]int{},
		masks:    map[int]groundtruth.Mask{},
		stats:    map[int]groundtruth.Stats{},
	}
	for _, opt := range opts {
		opt(e)
	}

	predictions, err := dataset.LoadPredictions(cfg.PredFile)
	switch {
	case errors.Is(err, dataset.ErrMissingFile):
		e.logger.Warn("predictions not found", "path", cfg.PredFile)
	case err != nil:
		return nil, fmt.Errorf("load predictions: %w", err)
	}
	e.predictions = predictions

	questions, err := dataset.LoadQuestions(cfg.QuestionFile)
	switch {
	case errors.Is(err, dataset.ErrMissingFile):
		e.logger.Warn("questions not found", "path", cfg.QuestionFile)
	case err != nil:
		return nil, fmt.Errorf("load questions: %w", err)
	}
	e.questions = questions
	for i, q := range questions {
		e.byIndex[q.QuestionIndex] = i
	}

	masks, found, err := e.store.Load()
	if err != nil {
		return nil, err
	}
	if found {
		e.precomputed = true
		e.masks = masks
		e.logger.Info("loaded ground truth", "path", e.store.Path, "questions", len(masks))
		if stats, ok, err := e.store.LoadStats(); err != nil {
			e.logger.Warn("ignoring unreadable ground truth stats", "path", e.store.DefaultStatsPath(), "error", err)
		} else if ok {
			e.stats = stats
		}
	}
	return e, nil
}

// Precomputed reports whether ground truth was loaded from disk.
func (e *Evaluator) Precomputed() bool {
	return e.precomputed
}

// GroundTruthPath returns where ground truth is persisted.
func (e *Evaluator) GroundTruthPath() string {
	return e.store.Path
}

// Predictions returns the number of loaded predictions.
func (e *Evaluator) Predictions() int {
	return len(e.predictions)
}

// Questions returns the number of loaded questions.
func (e *Evaluator) Questions() int {
	return len(e.questions)
}

// Mask returns the cached ground truth of a question.
func (e *Evaluator) Mask(questionIndex int) (groundtruth.Mask, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	m, ok := e.masks[questionIndex]
	return m, ok
}

// Summary returns the result of the last completed phase.
func (e *Evaluator) Summary() Summary {
	e.notifyMu.Lock()
	defer e.notifyMu.Unlock()
	return e.last
}

// Save persists freshly computed ground truth and stats. Loaded ground truth
// is authoritative and never rewritten.
func (e *Evaluator) Save() error {
	if e.precomputed {
		e.logger.Debug("ground truth was precomputed, not saving", "path", e.store.Path)
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.masks) > 0 {
		if err := e.store.Save(e.masks); err != nil {
			return err
		}
		e.logger.Info("saved ground truth", "path", e.store.Path, "questions", len(e.masks))
	}
	if len(e.stats) > 0 {
		if err := e.store.SaveStats(e.stats); err != nil {
			return err
		}
		e.logger.Info("saved ground truth stats", "path", e.store.DefaultStatsPath(), "questions", len(e.stats))
	}
	return nil
}

func (e *Evaluator) cache(questionIndex int, m groundtruth.Mask, stats groundtruth.Stats, keepMask bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if keepMask {
		e.masks[questionIndex] = m
	}
	e.stats[questionIndex] = stats
}
