package target

import (
	"fmt"
	"sort"

	"uclevr/internal/program"
)

// Resolver computes target object indices for a program.
type Resolver struct {
	// Filters are applied in order and their results unioned.
	Filters []Filter
	// TargetAll selects every object without looking at the program.
	TargetAll bool
}

// Resolve returns the sorted target object indices of prog over a scene with
// objectCount objects, or ErrNoTargetObjects when nothing is selected.
func (r Resolver) Resolve(prog program.Program, objectCount int) ([]int, error) {
	set := map[int]struct{}{}
	if r.TargetAll {
		addAll(set, objectCount)
	} else {
		for _, f := range r.Filters {
			if err := apply(f, prog, objectCount, set); err != nil {
				return nil, err
			}
		}
	}
	if len(set) == 0 {
		return nil, ErrNoTargetObjects
	}
	out := make([]int, 0, len(set))
	for idx := range set {
		if idx < 0 || idx >= objectCount {
			return nil, fmt.Errorf("%w: %d of %d", ErrObjectOutOfRange, idx, objectCount)
		}
		out = append(out, idx)
	}
	sort.Ints(out)
	return out, nil
}

func apply(f Filter, prog program.Program, objectCount int, set map[int]struct{}) error {
	switch f {
	case FilterAll:
		addAll(set, objectCount)
	case FilterUnion:
		for i := 1; i < prog.Len(); i++ {
			node := prog.Node(i)
			if node.Class.Has(program.ClassObjectSet) {
				add(set, node.Objects...)
			}
		}
	case FilterUnique:
		for i := 1; i < prog.Len(); i++ {
			node := prog.Node(i)
			if node.Class.Has(program.ClassObject) && node.HasObject {
				add(set, node.Object)
			}
		}
	case FilterFirstNonempty:
		objects, err := FirstNonempty(prog)
		if err != nil {
			return err
		}
		add(set, objects...)
	case FilterLastFilter:
		add(set, LastFilter(prog)...)
	default:
		return fmt.Errorf("%w %q", ErrUnknownFilter, f)
	}
	return nil
}

// FirstNonempty walks prog from its last node toward the root and returns the
// output of the first non-empty object-set node.
//
// If a branching node is reached before any such node, each of its inputs is
// followed back along single-input chains and the first non-empty object set
// of every branch is merged. The walk ends after that one fork, whether or
// not the branches produced anything.
func FirstNonempty(prog program.Program) ([]int, error) {
	for i := prog.Len() - 1; i >= 0; i-- {
		node := prog.Node(i)
		if node.Class.Has(program.ClassObjectSet) && len(node.Objects) > 0 {
			return node.Objects, nil
		}
		if !node.Class.Has(program.ClassBranch) {
			continue
		}
		var merged []int
		for _, endpoint := range node.Inputs {
			objects, err := walkBranch(prog, endpoint)
			if err != nil {
				return nil, err
			}
			merged = append(merged, objects...)
		}
		return merged, nil
	}
	return nil, nil
}

// walkBranch follows a single-input chain from endpoint toward the root.
func walkBranch(prog program.Program, endpoint int) ([]int, error) {
	for j := endpoint; ; {
		node := prog.Node(j)
		if node.Class.Has(program.ClassObjectSet) && len(node.Objects) > 0 {
			return node.Objects, nil
		}
		switch len(node.Inputs) {
		case 0:
			return nil, nil
		case 1:
			j = node.Inputs[0]
		default:
			return nil, fmt.Errorf("%w: node %d (%s)", ErrBranchFork, node.Index, node.Type)
		}
	}
}

// LastFilter returns the output of the last filter_* node of prog.
func LastFilter(prog program.Program) []int {
	for i := prog.Len() - 1; i >= 0; i-- {
		node := prog.Node(i)
		if program.IsFilter(node.Type) {
			return node.Objects
		}
	}
	return nil
}

func add(set map[int]struct{}, objects ...int) {
	for _, idx := range objects {
		set[idx] = struct{}{}
	}
}

func addAll(set map[int]struct{}, objectCount int) {
	for i := 0; i < objectCount; i++ {
		set[i] = struct{}{}
	}
}
