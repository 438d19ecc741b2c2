package program

import "strings"

// Class is a bit set describing what a node produces and whether it joins
// two branches of the program.
type Class uint8

const (
	// ClassScene marks the root node that yields every object.
	ClassScene Class = 1 << iota
	// ClassObjectSet marks nodes whose output is a set of object indices.
	ClassObjectSet
	// ClassObject marks nodes whose output is a single object index.
	ClassObject
	// ClassBranch marks nodes that join two input branches.
	ClassBranch
	// ClassValue marks nodes producing a boolean, count or attribute value.
	ClassValue
)

// Has reports whether c contains every bit of other.
func (c Class) Has(other Class) bool {
	return c&other == other
}

var (
	objectSetPrefixes = []string{"filter_", "relate", "intersect", "union", "same_"}
	branchPrefixes    = []string{"union", "intersect", "equal_", "less_than", "greater_than"}
)

// Classify derives the Class of a node type tag.
func Classify(nodeType string) Class {
	var class Class
	switch {
	case nodeType == "scene":
		class |= ClassScene
	case nodeType == "unique":
		class |= ClassObject
	case hasAnyPrefix(nodeType, objectSetPrefixes):
		class |= ClassObjectSet
	}
	if hasAnyPrefix(nodeType, branchPrefixes) {
		class |= ClassBranch
	}
	if class&(ClassScene|ClassObjectSet|ClassObject) == 0 {
		class |= ClassValue
	}
	return class
}

// IsFilter reports whether a type tag is one of the filter_* family.
func IsFilter(nodeType string) bool {
	return strings.HasPrefix(nodeType, "filter_")
}

func hasAnyPrefix(value string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return false
}
