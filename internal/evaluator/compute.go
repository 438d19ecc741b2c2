package evaluator

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"uclevr/internal/dataset"
	"uclevr/internal/groundtruth"
)

// ComputeAll builds the ground truth of every question, resized to the
// configured heatmap shape when one is set. It refuses with
// ErrAlreadyComputed when ground truth was loaded from disk.
func (e *Evaluator) ComputeAll(ctx context.Context) (Summary, error) {
	if e.precomputed {
		return Summary{}, fmt.Errorf("%w at %s", ErrAlreadyComputed, e.store.Path)
	}
	e.logger.Info("calculating all ground truths", "questions", len(e.questions), "workers", e.workers())
	return e.each(ctx, PhaseGroundTruth, func(q dataset.Question) (QuestionResult, error) {
		return e.computeOne(q, true)
	})
}

// ComputeStats computes the ground truth stats of every question without
// retaining masks.
func (e *Evaluator) ComputeStats(ctx context.Context) (Summary, error) {
	e.logger.Info("calculating ground truth stats", "questions", len(e.questions), "workers", e.workers())
	return e.each(ctx, PhaseStats, func(q dataset.Question) (QuestionResult, error) {
		return e.computeOne(q, false)
	})
}

func (e *Evaluator) computeOne(q dataset.Question, keepMask bool) (QuestionResult, error) {
	res := QuestionResult{QuestionIndex: q.QuestionIndex, Image: q.Image, Score: math.NaN()}
	b, reason, err := e.build(q)
	if err != nil {
		return res, err
	}
	if reason != "" {
		res.Reason = reason
		return res, nil
	}
	m := b.mask
	if keepMask && e.cfg.HasHeatmapShape() {
		m = groundtruth.Resize(m, e.cfg.HeatmapShape[0], e.cfg.HeatmapShape[1])
	}
	e.cache(q.QuestionIndex, m, b.stats, keepMask)
	res.Reason = ReasonBuilt
	res.Stats = b.stats
	res.HasStats = true
	res.Targets = b.targets
	return res, nil
}

// each runs fn over every question with at most workers goroutines. Results
// keep question order regardless of completion order.
func (e *Evaluator) each(ctx context.Context, phase Phase, fn func(dataset.Question) (QuestionResult, error)) (Summary, error) {
	e.notifyStart(phase, len(e.questions))
	results := make([]QuestionResult, len(e.questions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers())
	for i, q := range e.questions {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := fn(q)
			if err != nil {
				return err
			}
			results[i] = res
			e.notifyItem(res)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}

	summary := summarize(phase, results)
	e.finish(summary)
	e.logger.Info("ground truth phase finished", "phase", string(phase), "built", summary.Completed, "skipped", summary.SkippedTotal())
	return summary, nil
}

func (e *Evaluator) workers() int {
	return max(1, e.cfg.Workers)
}
