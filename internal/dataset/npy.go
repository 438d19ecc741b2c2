package dataset

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sbinet/npyio/npy"
	"gonum.org/v1/gonum/mat"
)

// ReadMatrix decodes a two-dimensional NumPy array of any numeric or boolean
// dtype into a dense float64 matrix. Singleton dimensions are dropped, so
// (1, H, W) and (H, W, 1) arrays read as H x W.
func ReadMatrix(r io.Reader) (*mat.Dense, error) {
	reader, err := npy.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("read npy header: %w", err)
	}
	rows, cols, err := matrixShape(reader.Header.Descr.Shape)
	if err != nil {
		return nil, err
	}
	data, err := readFloat64s(reader)
	if err != nil {
		return nil, err
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("read npy data: %d values for shape %v", len(data), reader.Header.Descr.Shape)
	}
	if reader.Header.Descr.Fortran {
		return mat.DenseCopyOf(mat.NewDense(cols, rows, data).T()), nil
	}
	return mat.NewDense(rows, cols, data), nil
}

// ReadMatrixFile reads a .npy file with ReadMatrix.
func ReadMatrixFile(path string) (*mat.Dense, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := ReadMatrix(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// WriteMatrixFile writes m as a little-endian float64 .npy file.
func WriteMatrixFile(path string, m *mat.Dense) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := npy.Write(f, m); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func matrixShape(shape []int) (int, int, error) {
	dims := make([]int, 0, 2)
	for _, d := range shape {
		if d != 1 {
			dims = append(dims, d)
		}
	}
	switch {
	case len(shape) < 2:
		return 0, 0, fmt.Errorf("%w: shape %v", ErrNotMatrix, shape)
	case len(dims) > 2:
		return 0, 0, fmt.Errorf("%w: shape %v", ErrNotMatrix, shape)
	case len(dims) == 2:
		return dims[0], dims[1], nil
	case len(dims) == 1:
		// A single non-singleton axis keeps its position in the last two dims.
		if shape[len(shape)-1] == 1 {
			return dims[0], 1, nil
		}
		return 1, dims[0], nil
	default:
		return 1, 1, nil
	}
}

func readFloat64s(reader *npy.Reader) ([]float64, error) {
	dtype := strings.TrimLeft(reader.Header.Descr.Type, "<>|=")
	switch dtype {
	case "f8":
		var data []float64
		if err := reader.Read(&data); err != nil {
			return nil, fmt.Errorf("read npy data: %w", err)
		}
		return data, nil
	case "f4":
		var data []float32
		if err := reader.Read(&data); err != nil {
			return nil, fmt.Errorf("read npy data: %w", err)
		}
		return convert(data, func(v float32) float64 { return float64(v) }), nil
	case "b1":
		var data []bool
		if err := reader.Read(&data); err != nil {
			return nil, fmt.Errorf("read npy data: %w", err)
		}
		return convert(data, func(v bool) float64 {
			if v {
				return 1
			}
			return 0
		}), nil
	case "u1":
		var data []uint8
		if err := reader.Read(&data); err != nil {
			return nil, fmt.Errorf("read npy data: %w", err)
		}
		return convert(data, func(v uint8) float64 { return float64(v) }), nil
	case "i4":
		var data []int32
		if err := reader.Read(&data); err != nil {
			return nil, fmt.Errorf("read npy data: %w", err)
		}
		return convert(data, func(v int32) float64 { return float64(v) }), nil
	case "i8":
		var data []int64
		if err := reader.Read(&data); err != nil {
			return nil, fmt.Errorf("read npy data: %w", err)
		}
		return convert(data, func(v int64) float64 { return float64(v) }), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnsupportedDType, reader.Header.Descr.Type)
	}
}

func convert[T any](in []T, fn func(T) float64) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = fn(v)
	}
	return out
}
