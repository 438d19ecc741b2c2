package evaluator

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"uclevr/internal/config"
	"uclevr/internal/dataset"
	"uclevr/internal/groundtruth"
	"uclevr/internal/maskcolor"
	"uclevr/internal/scoring"
	"uclevr/internal/testutil"
)

func newEvaluator(t *testing.T, opts testutil.DatasetOptions) (*Evaluator, testutil.Dataset) {
	t.Helper()
	ds := testutil.WriteDataset(t, t.TempDir(), opts)
	cfg, err := config.Load(ds.ConfigPath)
	require.NoError(t, err)
	e, err := New(cfg)
	require.NoError(t, err)
	return e, ds
}

func redMask(height, width int) groundtruth.Mask {
	m := groundtruth.NewMask(height, width)
	for _, p := range testutil.RedFootprint() {
		m.Set(p[0], p[1], true)
	}
	return m
}

func TestEvaluateSyntheticDataset(t *testing.T) {
	e, _ := newEvaluator(t, testutil.DatasetOptions{})
	require.False(t, e.Precomputed())
	require.Equal(t, 4, e.Predictions())
	require.Equal(t, 4, e.Questions())

	summary, err := e.Evaluate(testutil.Context(t, 0))
	require.NoError(t, err)
	require.True(t, summary.Computed)
	assert.InDelta(t, testutil.ExpectedAccuracy, summary.Accuracy, 1e-12)
	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 2, summary.Completed)
	assert.Equal(t, map[Reason]int{ReasonNoTarget: 1, ReasonWrongAnswer: 1}, summary.Skipped)

	byIndex := map[int]QuestionResult{}
	for _, r := range summary.Results {
		byIndex[r.QuestionIndex] = r
	}
	assert.InDelta(t, 1.0, byIndex[testutil.QuestionCountRed].Score, 1e-12)
	assert.InDelta(t, 0.5, byIndex[testutil.QuestionShapeRed].Score, 1e-12)
	assert.Equal(t, 1, byIndex[testutil.QuestionCountRed].Stats.TargetObjects)
	assert.Equal(t, 3, byIndex[testutil.QuestionCountRed].Stats.TotalObjects)
	assert.Equal(t, []int{1}, byIndex[testutil.QuestionCountRed].Stats.Targets)
	assert.Equal(t, "red cube", byIndex[testutil.QuestionCountRed].Targets)

	m, ok := e.Mask(testutil.QuestionCountRed)
	require.True(t, ok)
	assert.True(t, m.Equal(redMask(4, 5)), "mask: %v", m)
	_, ok = e.Mask(testutil.QuestionWrongAnswer)
	assert.False(t, ok, "wrong answers are never built")

	assert.Equal(t, summary.Accuracy, e.Summary().Accuracy)
}

func TestEvaluateReusesPersistedGroundTruth(t *testing.T) {
	e, ds := newEvaluator(t, testutil.DatasetOptions{})
	ctx := testutil.Context(t, 0)
	first, err := e.Evaluate(ctx)
	require.NoError(t, err)
	require.NoError(t, e.Save())
	require.FileExists(t, ds.GroundTruthPath)
	require.FileExists(t, filepath.Join(ds.Root, "gt_stats.json"))

	cfg, err := config.Load(ds.ConfigPath)
	require.NoError(t, err)
	reloaded, err := New(cfg)
	require.NoError(t, err)
	require.True(t, reloaded.Precomputed())

	second, err := reloaded.Evaluate(ctx)
	require.NoError(t, err)
	assert.InDelta(t, first.Accuracy, second.Accuracy, 1e-12)

	_, err = reloaded.ComputeAll(ctx)
	require.ErrorIs(t, err, ErrAlreadyComputed)
	require.NoError(t, reloaded.Save())
}

func TestComputeAllBuildsEveryQuestion(t *testing.T) {
	e, ds := newEvaluator(t, testutil.DatasetOptions{GroundTruthPath: "gt"})
	summary, err := e.ComputeAll(testutil.Context(t, 0))
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Completed)
	assert.Equal(t, map[Reason]int{ReasonNoTarget: 1}, summary.Skipped)
	assert.False(t, summary.Computed)

	require.NoError(t, e.Save())
	masks, found, err := groundtruth.NewStore(ds.GroundTruthPath).Load()
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, masks, 3)
	assert.True(t, masks[testutil.QuestionCountRed].Equal(redMask(4, 5)))
	assert.Equal(t, 1, masks[testutil.QuestionWrongAnswer].Count(), "blue pixel")
}

func TestComputeAllParallelMatchesSerial(t *testing.T) {
	serial, _ := newEvaluator(t, testutil.DatasetOptions{})
	parallel, _ := newEvaluator(t, testutil.DatasetOptions{Extra: "workers: 4"})
	ctx := testutil.Context(t, 0)

	want, err := serial.ComputeAll(ctx)
	require.NoError(t, err)
	got, err := parallel.ComputeAll(ctx)
	require.NoError(t, err)

	require.Len(t, got.Results, len(want.Results))
	for i := range want.Results {
		assert.Equal(t, want.Results[i].QuestionIndex, got.Results[i].QuestionIndex)
		assert.Equal(t, want.Results[i].Reason, got.Results[i].Reason)
		assert.Equal(t, want.Results[i].Stats, got.Results[i].Stats)
		a, okA := serial.Mask(want.Results[i].QuestionIndex)
		b, okB := parallel.Mask(want.Results[i].QuestionIndex)
		assert.Equal(t, okA, okB)
		assert.True(t, a.Equal(b))
	}
}

func TestComputeAllResizesToHeatmapShape(t *testing.T) {
	e, _ := newEvaluator(t, testutil.DatasetOptions{Extra: "heatmap_shape: [8, 10]"})
	_, err := e.ComputeAll(testutil.Context(t, 0))
	require.NoError(t, err)
	m, ok := e.Mask(testutil.QuestionCountRed)
	require.True(t, ok)
	assert.Equal(t, 8, m.Height)
	assert.Equal(t, 10, m.Width)
	assert.GreaterOrEqual(t, m.Count(), 16, "upscaling keeps the whole footprint")
}

// upscaleHeatmaps rewrites every heatmap at twice its resolution, repeating
// each value over a 2x2 block.
func upscaleHeatmaps(t *testing.T, root string) {
	t.Helper()
	paths, err := filepath.Glob(filepath.Join(root, "heatmaps", "*.npy"))
	require.NoError(t, err)
	for _, path := range paths {
		src, err := dataset.ReadMatrixFile(path)
		require.NoError(t, err)
		rows, cols := src.Dims()
		dst := mat.NewDense(rows*2, cols*2, nil)
		for y := 0; y < rows*2; y++ {
			for x := 0; x < cols*2; x++ {
				dst.Set(y, x, src.At(y/2, x/2))
			}
		}
		require.NoError(t, dataset.WriteMatrixFile(path, dst))
	}
}

func TestEvaluateResizesPersistedGroundTruth(t *testing.T) {
	pre, ds := newEvaluator(t, testutil.DatasetOptions{})
	ctx := testutil.Context(t, 0)
	_, err := pre.ComputeAll(ctx)
	require.NoError(t, err)
	require.NoError(t, pre.Save())

	upscaleHeatmaps(t, ds.Root)

	cfg, err := config.Load(ds.ConfigPath)
	require.NoError(t, err)
	e, err := New(cfg)
	require.NoError(t, err)
	require.True(t, e.Precomputed())
	summary, err := e.Evaluate(ctx)
	require.NoError(t, err)
	assert.InDelta(t, testutil.ExpectedAccuracy, summary.Accuracy, 1e-12)

	require.NoError(t, os.Remove(ds.GroundTruthPath))
	fresh, err := New(cfg)
	require.NoError(t, err)
	require.False(t, fresh.Precomputed())
	want, err := fresh.Evaluate(ctx)
	require.NoError(t, err)
	assert.InDelta(t, want.Accuracy, summary.Accuracy, 1e-12)
}

func TestEvaluateReportsNoTargetBeforeReadingMask(t *testing.T) {
	e, ds := newEvaluator(t, testutil.DatasetOptions{})
	require.NoError(t, os.Remove(filepath.Join(ds.Root, "masks", "CLEVR_0.png")))

	summary, err := e.Evaluate(testutil.Context(t, 0))
	require.NoError(t, err)
	assert.Equal(t, map[Reason]int{
		ReasonMissingInput: 2,
		ReasonNoTarget:     1,
		ReasonWrongAnswer:  1,
	}, summary.Skipped)
	assert.False(t, summary.Computed)
}

func TestComputeStatsKeepsNoMasks(t *testing.T) {
	e, ds := newEvaluator(t, testutil.DatasetOptions{})
	summary, err := e.ComputeStats(testutil.Context(t, 0))
	require.NoError(t, err)
	assert.Equal(t, PhaseStats, summary.Phase)
	assert.Equal(t, 3, summary.Completed)
	assert.InDelta(t, 1.0, summary.MeanTargetObjects, 1e-12)
	assert.InDelta(t, (0.2+0.2+0.05)/3, summary.MeanMaskFraction, 1e-12)

	_, ok := e.Mask(testutil.QuestionCountRed)
	assert.False(t, ok)

	require.NoError(t, e.Save())
	assert.NoFileExists(t, ds.GroundTruthPath)
	stats, found, err := groundtruth.NewStore(ds.GroundTruthPath).LoadStats()
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 4, stats[testutil.QuestionCountRed].MaskPixels)
}

func TestEvaluateSkipsMissingHeatmap(t *testing.T) {
	e, ds := newEvaluator(t, testutil.DatasetOptions{})
	require.NoError(t, os.Remove(filepath.Join(ds.Root, "heatmaps", "2.npy")))

	summary, err := e.Evaluate(testutil.Context(t, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Skipped[ReasonMissingHeatmap])
	assert.InDelta(t, 1.0, summary.Accuracy, 1e-12)
}

func TestEvaluateSkipsUndefinedOverlap(t *testing.T) {
	e, ds := newEvaluator(t, testutil.DatasetOptions{})
	require.NoError(t, dataset.WriteMatrixFile(filepath.Join(ds.Root, "heatmaps", "0.npy"), mat.NewDense(4, 5, nil)))

	summary, err := e.Evaluate(testutil.Context(t, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Skipped[ReasonUndefinedOverlap])
	assert.InDelta(t, 0.5, summary.Accuracy, 1e-12)
}

func TestEvaluateWithoutPredictionsIsNotComputed(t *testing.T) {
	ds := testutil.WriteDataset(t, t.TempDir(), testutil.DatasetOptions{})
	require.NoError(t, os.Remove(filepath.Join(ds.Root, "predictions.json")))
	cfg, err := config.Load(ds.ConfigPath)
	require.NoError(t, err)
	e, err := New(cfg)
	require.NoError(t, err)

	summary, err := e.Evaluate(testutil.Context(t, 0))
	require.NoError(t, err)
	assert.False(t, summary.Computed)
	assert.Zero(t, summary.Total)
}

func TestEvaluateIntegrityErrorIsFatal(t *testing.T) {
	e, ds := newEvaluator(t, testutil.DatasetOptions{})
	scene := `{"objects": [
  {"mask_color": [0.4, 0.01, 0.01]},
  {"mask_color": [0.41, 0.01, 0.01]},
  {"mask_color": [0.01, 0.07, 0.7]}
]}`
	require.NoError(t, os.WriteFile(filepath.Join(ds.Root, "scenes", "CLEVR_0.json"), []byte(scene), 0o644))

	_, err := e.Evaluate(testutil.Context(t, 0))
	require.ErrorIs(t, err, maskcolor.ErrIntegrity)
}

func TestEvaluateShapeMismatchIsFatal(t *testing.T) {
	e, _ := newEvaluator(t, testutil.DatasetOptions{Extra: "heatmap_shape: [2, 2]"})
	_, err := e.Evaluate(testutil.Context(t, 0))
	require.ErrorIs(t, err, scoring.ErrShapeMismatch)
}

func TestEvaluateHonorsCancellation(t *testing.T) {
	e, _ := newEvaluator(t, testutil.DatasetOptions{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.Evaluate(ctx)
	require.ErrorIs(t, err, context.Canceled)
	_, err = e.ComputeAll(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

type recordingObserver struct {
	mu      sync.Mutex
	phases  []Phase
	total   int
	items   int
	summary Summary
}

func (o *recordingObserver) OnStart(phase Phase, total int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.phases = append(o.phases, phase)
	o.total = total
}

func (o *recordingObserver) OnItem(QuestionResult) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.items++
}

func (o *recordingObserver) OnFinish(summary Summary) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.summary = summary
}

func TestObserverReceivesProgress(t *testing.T) {
	ds := testutil.WriteDataset(t, t.TempDir(), testutil.DatasetOptions{Extra: "workers: 2"})
	cfg, err := config.Load(ds.ConfigPath)
	require.NoError(t, err)
	observer := &recordingObserver{}
	e, err := New(cfg, WithObserver(observer))
	require.NoError(t, err)

	_, err = e.ComputeAll(testutil.Context(t, 0))
	require.NoError(t, err)
	assert.Equal(t, []Phase{PhaseGroundTruth}, observer.phases)
	assert.Equal(t, 4, observer.total)
	assert.Equal(t, 4, observer.items)
	assert.Equal(t, 3, observer.summary.Completed)
}
