package groundtruth

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Resize resamples m to height x width. The mask is treated as a 0/1 float
// image, filtered bilinearly and every positive sample is kept, so a pixel
// touched by any part of the region stays inside. Equal shapes return m.
func Resize(m Mask, height, width int) Mask {
	if m.Height == height && m.Width == width {
		return m
	}
	return FromMatrix(Resample(m.Dense(), height, width), Positive)
}

// Resample scales src to rows x cols with a separable triangle filter whose
// support widens when shrinking, matching PIL's BILINEAR resize.
func Resample(src *mat.Dense, rows, cols int) *mat.Dense {
	inRows, inCols := src.Dims()

	horizontal := mat.NewDense(inRows, cols, nil)
	hk := coefficients(inCols, cols)
	for y := 0; y < inRows; y++ {
		for x, k := range hk {
			var sum float64
			for i, w := range k.weights {
				sum += w * src.At(y, k.start+i)
			}
			horizontal.Set(y, x, sum)
		}
	}

	out := mat.NewDense(rows, cols, nil)
	vk := coefficients(inRows, rows)
	for y, k := range vk {
		for x := 0; x < cols; x++ {
			var sum float64
			for i, w := range k.weights {
				sum += w * horizontal.At(k.start+i, x)
			}
			out.Set(y, x, sum)
		}
	}
	return out
}

type kernel struct {
	start   int
	weights []float64
}

func coefficients(inSize, outSize int) []kernel {
	scale := float64(inSize) / float64(outSize)
	filterScale := math.Max(scale, 1)
	support := filterScale

	out := make([]kernel, outSize)
	for xx := range out {
		center := (float64(xx) + 0.5) * scale
		lo := max(int(center-support+0.5), 0)
		hi := min(int(center+support+0.5), inSize)
		weights := make([]float64, hi-lo)
		var total float64
		for i := range weights {
			w := triangle((float64(i+lo) - center + 0.5) / filterScale)
			weights[i] = w
			total += w
		}
		if total != 0 {
			for i := range weights {
				weights[i] /= total
			}
		}
		out[xx] = kernel{start: lo, weights: weights}
	}
	return out
}

func triangle(x float64) float64 {
	x = math.Abs(x)
	if x < 1 {
		return 1 - x
	}
	return 0
}
