package program

import "errors"

var (
	// ErrForwardInput indicates a node references itself or a later node.
	ErrForwardInput = errors.New("program: input must reference an earlier node")

	// ErrMissingType indicates a node without a type tag.
	ErrMissingType = errors.New("program: node type is required")

	// ErrBadOutput indicates an _output value that does not fit the node class.
	ErrBadOutput = errors.New("program: malformed node output")
)
