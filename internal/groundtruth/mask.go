package groundtruth

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Mask is an H x W boolean grid stored row-major.
type Mask struct {
	Height int
	Width  int
	Pix    []bool
}

// NewMask returns an all-false mask.
func NewMask(height, width int) Mask {
	return Mask{Height: height, Width: width, Pix: make([]bool, height*width)}
}

// At reports whether the pixel at row y, column x is inside the mask.
func (m Mask) At(y, x int) bool {
	return m.Pix[y*m.Width+x]
}

// Set marks or clears the pixel at row y, column x.
func (m Mask) Set(y, x int, v bool) {
	m.Pix[y*m.Width+x] = v
}

// Count returns the number of pixels inside the mask.
func (m Mask) Count() int {
	n := 0
	for _, v := range m.Pix {
		if v {
			n++
		}
	}
	return n
}

// Equal reports whether two masks have the same shape and pixels.
func (m Mask) Equal(other Mask) bool {
	if m.Height != other.Height || m.Width != other.Width || len(m.Pix) != len(other.Pix) {
		return false
	}
	for i, v := range m.Pix {
		if other.Pix[i] != v {
			return false
		}
	}
	return true
}

// String summarizes the mask shape and coverage.
func (m Mask) String() string {
	return fmt.Sprintf("mask %dx%d (%d inside)", m.Height, m.Width, m.Count())
}

// Dense converts the mask into a 0/1 matrix.
func (m Mask) Dense() *mat.Dense {
	data := make([]float64, len(m.Pix))
	for i, v := range m.Pix {
		if v {
			data[i] = 1
		}
	}
	return mat.NewDense(m.Height, m.Width, data)
}

// FromMatrix builds a mask marking every entry for which inside returns true.
func FromMatrix(src mat.Matrix, inside func(float64) bool) Mask {
	rows, cols := src.Dims()
	m := NewMask(rows, cols)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			m.Pix[y*cols+x] = inside(src.At(y, x))
		}
	}
	return m
}

// NonZero reports whether v is not zero.
func NonZero(v float64) bool { return v != 0 }

// Positive reports whether v is greater than zero.
func Positive(v float64) bool { return v > 0 }
