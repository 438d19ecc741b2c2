package maskcolor

import "errors"

var (
	// ErrShape indicates the mask image is not a 3-dimensional RGB or RGBA array.
	ErrShape = errors.New("maskcolor: mask image must be H x W x 3 or H x W x 4")

	// ErrIntegrity indicates a corrupt render: the background is not uniquely
	// present or two objects resolved to the same rendered color.
	ErrIntegrity = errors.New("maskcolor: mask integrity violated")
)
