package target

import "errors"

var (
	// ErrNoTargetObjects reports that a question has no target objects, for
	// example a count question answered with zero. Callers skip the question.
	ErrNoTargetObjects = errors.New("target: no target objects")

	// ErrUnknownFilter indicates an unsupported filter name.
	ErrUnknownFilter = errors.New("target: unknown filter")

	// ErrBranchFork indicates a node with several inputs inside a branch that
	// is being followed back toward the root.
	ErrBranchFork = errors.New("target: branch node has more than one input")

	// ErrObjectOutOfRange indicates a program output naming a missing object.
	ErrObjectOutOfRange = errors.New("target: object index out of range")
)
