package target

import (
	"fmt"
	"strings"
)

// Filter names a target selection strategy.
type Filter string

const (
	// FilterAll selects every object of the scene.
	FilterAll Filter = "all"
	// FilterUnion selects the union of every object-set node output.
	FilterUnion Filter = "union"
	// FilterUnique selects the output of every unique node.
	FilterUnique Filter = "unique"
	// FilterFirstNonempty selects the most downstream non-empty object set,
	// merging both sides of a fork.
	FilterFirstNonempty Filter = "first_nonempty"
	// FilterLastFilter selects the output of the last filter_* node, empty or not.
	FilterLastFilter Filter = "last_filter"
)

// Filters lists every supported filter in documentation order.
var Filters = []Filter{FilterAll, FilterUnion, FilterUnique, FilterFirstNonempty, FilterLastFilter}

// ParseFilter validates a filter name.
func ParseFilter(name string) (Filter, error) {
	normalized := Filter(strings.ToLower(strings.TrimSpace(name)))
	for _, f := range Filters {
		if f == normalized {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownFilter, name)
}

// ParseFilters validates a list of filter names, preserving order.
func ParseFilters(names []string) ([]Filter, error) {
	out := make([]Filter, 0, len(names))
	for _, name := range names {
		f, err := ParseFilter(name)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}
