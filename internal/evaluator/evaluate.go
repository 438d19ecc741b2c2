package evaluator

import (
	"context"
	"errors"
	"fmt"
	"math"

	"uclevr/internal/dataset"
	"uclevr/internal/groundtruth"
	"uclevr/internal/maskcolor"
	"uclevr/internal/scoring"
	"uclevr/internal/target"
)

// Evaluate scores the heatmap of every correctly answered prediction against
// its ground truth. Questions that cannot be scored are excluded and counted
// by reason. Integrity and shape errors abort the run.
func (e *Evaluator) Evaluate(ctx context.Context) (Summary, error) {
	if len(e.predictions) == 0 {
		e.logger.Warn("no predictions loaded, nothing to evaluate")
	}
	e.notifyStart(PhaseEvaluate, len(e.predictions))
	results := make([]QuestionResult, 0, len(e.predictions))
	for _, pred := range e.predictions {
		if err := ctx.Err(); err != nil {
			return Summary{}, err
		}
		res, err := e.evaluateOne(pred)
		if err != nil {
			return Summary{}, err
		}
		results = append(results, res)
		e.notifyItem(res)
	}
	summary := summarize(PhaseEvaluate, results)
	e.finish(summary)
	e.logger.Info("evaluation finished", "scored", summary.Completed, "skipped", summary.SkippedTotal())
	return summary, nil
}

func (e *Evaluator) evaluateOne(pred dataset.Prediction) (QuestionResult, error) {
	res := QuestionResult{QuestionIndex: pred.QuestionIndex, Score: math.NaN()}
	pos, ok := e.byIndex[pred.QuestionIndex]
	if !ok {
		e.logger.Warn("prediction for unknown question", "question_index", pred.QuestionIndex)
		res.Reason = ReasonUnknownQuestion
		return res, nil
	}
	q := e.questions[pos]
	res.Image = q.Image
	if !pred.Answer.Equal(q.Answer, e.cfg.NormalizeAnswers) {
		e.logger.Debug("answer mismatch", "question_index", q.QuestionIndex, "predicted", pred.Answer.String(), "expected", q.Answer.String())
		res.Reason = ReasonWrongAnswer
		return res, nil
	}

	mask, cached := e.Mask(q.QuestionIndex)
	var stats groundtruth.Stats
	if cached {
		e.mu.Lock()
		stats, res.HasStats = e.stats[q.QuestionIndex]
		e.mu.Unlock()
	} else {
		b, reason, err := e.build(q)
		if err != nil {
			return res, err
		}
		if reason != "" {
			res.Reason = reason
			return res, nil
		}
		mask, stats, res.HasStats = b.mask, b.stats, true
		res.Targets = b.targets
	}
	res.Stats = stats

	heatmap, err := e.cfg.Layout.LoadHeatmap(q.QuestionIndex)
	switch {
	case errors.Is(err, dataset.ErrMissingFile):
		e.logger.Warn("heatmap not found, skipping question", "question_index", q.QuestionIndex, "path", e.cfg.Layout.HeatmapPath(q.QuestionIndex))
		res.Reason = ReasonMissingHeatmap
		return res, nil
	case err != nil:
		return res, fmt.Errorf("question %d: %w", q.QuestionIndex, err)
	}

	height, width := heatmap.Dims()
	if e.cfg.HasHeatmapShape() {
		height, width = e.cfg.HeatmapShape[0], e.cfg.HeatmapShape[1]
	}
	mask = groundtruth.Resize(mask, height, width)
	if !cached {
		e.cache(q.QuestionIndex, mask, stats, true)
	}

	score, err := scoring.Overlap(mask, heatmap)
	switch {
	case errors.Is(err, scoring.ErrUndefinedOverlap):
		e.logger.Warn("heatmap has no relevance mass, skipping question", "question_index", q.QuestionIndex)
		res.Reason = ReasonUndefinedOverlap
		return res, nil
	case err != nil:
		return res, fmt.Errorf("question %d: %w", q.QuestionIndex, err)
	}
	res.Reason = ReasonScored
	res.Score = score
	e.logger.Debug("scored question", "question_index", q.QuestionIndex, "score", score)
	return res, nil
}

// built is the native-resolution ground truth of one question.
type built struct {
	mask  groundtruth.Mask
	stats groundtruth.Stats
	// targets names the target objects from their scene attributes.
	targets string
}

// build renders the native-resolution ground truth of q. Targets are resolved
// before the mask image is read. A non-empty reason means the question is
// skipped.
func (e *Evaluator) build(q dataset.Question) (built, Reason, error) {
	scene, err := e.cfg.Layout.LoadScene(q.Image)
	if err != nil {
		reason, err := e.missing(q, err)
		return built{}, reason, err
	}
	m, stats, err := groundtruth.Build(groundtruth.Input{
		Scene:   scene,
		Program: q.Program,
		LoadImage: func() (maskcolor.Image, error) {
			return e.cfg.Layout.LoadMask(q.Image)
		},
		Background: e.cfg.Background,
		Resolver:   e.cfg.Resolver(),
	})
	switch {
	case errors.Is(err, target.ErrNoTargetObjects):
		e.logger.Info("no target objects found, skipping question", "question_index", q.QuestionIndex, "image", q.Image)
		return built{stats: stats}, ReasonNoTarget, nil
	case err != nil:
		reason, err := e.missing(q, err)
		return built{stats: stats}, reason, err
	}
	b := built{mask: m, stats: stats, targets: scene.Describe(stats.Targets)}
	e.logger.Debug("built ground truth", "question_index", q.QuestionIndex, "targets", b.targets, "mask_fraction", stats.MaskFraction)
	return b, "", nil
}

func (e *Evaluator) missing(q dataset.Question, err error) (Reason, error) {
	if errors.Is(err, dataset.ErrMissingFile) {
		e.logger.Warn("scene input not found, skipping question", "question_index", q.QuestionIndex, "image", q.Image, "error", err)
		return ReasonMissingInput, nil
	}
	return "", fmt.Errorf("question %d (%s): %w", q.QuestionIndex, q.Image, err)
}
