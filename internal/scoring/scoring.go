// Package scoring measures how much of a relevance heatmap lies on the
// ground-truth region.
package scoring

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"uclevr/internal/groundtruth"
)

var (
	// ErrShapeMismatch indicates the heatmap and mask dimensions disagree.
	ErrShapeMismatch = errors.New("scoring: heatmap and ground truth shapes differ")

	// ErrUndefinedOverlap indicates a heatmap without any relevance mass.
	ErrUndefinedOverlap = errors.New("scoring: heatmap has no relevance mass")
)

// Overlap returns the share of the heatmap's absolute mass that falls inside
// the mask. Signed heatmaps count negative relevance by magnitude. An all-zero
// heatmap yields NaN together with ErrUndefinedOverlap.
func Overlap(mask groundtruth.Mask, heatmap mat.Matrix) (float64, error) {
	rows, cols := heatmap.Dims()
	if rows != mask.Height || cols != mask.Width {
		return math.NaN(), fmt.Errorf("%w: heatmap %dx%d, ground truth %dx%d", ErrShapeMismatch, rows, cols, mask.Height, mask.Width)
	}
	var inside, total float64
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			v := math.Abs(heatmap.At(y, x))
			total += v
			if mask.At(y, x) {
				inside += v
			}
		}
	}
	if total == 0 {
		return math.NaN(), ErrUndefinedOverlap
	}
	return inside / total, nil
}

// Mean returns the arithmetic mean of scores. The boolean is false when there
// are no scores, meaning the accuracy was not computed.
func Mean(scores []float64) (float64, bool) {
	if len(scores) == 0 {
		return 0, false
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores)), true
}
