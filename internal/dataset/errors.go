package dataset

import "errors"

var (
	// ErrMissingFile indicates an input file does not exist.
	ErrMissingFile = errors.New("dataset: file not found")

	// ErrNotMatrix indicates a NumPy array that is not two-dimensional after
	// dropping singleton dimensions.
	ErrNotMatrix = errors.New("dataset: array is not two-dimensional")

	// ErrUnsupportedDType indicates a NumPy dtype that cannot be read.
	ErrUnsupportedDType = errors.New("dataset: unsupported array dtype")
)
