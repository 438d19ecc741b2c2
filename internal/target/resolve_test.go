package target

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uclevr/internal/program"
)

// build assembles a program from compact node literals.
func build(t *testing.T, nodes ...program.Node) program.Program {
	t.Helper()
	p, err := program.New(nodes)
	require.NoError(t, err)
	return p
}

func scene(objects ...int) program.Node {
	return program.Node{Type: "scene", Objects: objects}
}

func objects(nodeType string, inputs []int, out ...int) program.Node {
	if out == nil {
		out = []int{}
	}
	return program.Node{Type: nodeType, Inputs: inputs, Objects: out}
}

func value(nodeType string, inputs ...int) program.Node {
	return program.Node{Type: nodeType, Inputs: inputs}
}

func unique(input, object int) program.Node {
	return program.Node{Type: "unique", Inputs: []int{input}, Object: object, HasObject: true}
}

func TestFirstNonemptyLinear(t *testing.T) {
	prog := build(t,
		scene(0, 1, 2),
		objects("filter_color", []int{0}, 1),
		value("count", 1),
	)
	got, err := Resolver{Filters: []Filter{FilterFirstNonempty}}.Resolve(prog, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, got)
}

func TestFirstNonemptyPrefersMostDownstream(t *testing.T) {
	prog := build(t,
		scene(0, 1, 2),
		objects("filter_color", []int{0}, 0, 1),
		objects("filter_shape", []int{1}, 1),
		value("exist", 2),
	)
	got, err := FirstNonempty(prog)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, got)
}

func TestFirstNonemptyUnionOfBranches(t *testing.T) {
	prog := build(t,
		scene(0, 1, 2),
		objects("filter_color", []int{0}, 0),
		scene(0, 1, 2),
		objects("filter_shape", []int{2}, 2),
		objects("union", []int{1, 3}, 0, 2),
		value("count", 4),
	)
	got, err := Resolver{Filters: []Filter{FilterFirstNonempty}}.Resolve(prog, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, got)
}

// TestFirstNonemptyEmptyUnionForks checks that an empty union is treated as a
// fork whose branches are resolved separately.
func TestFirstNonemptyEmptyUnionForks(t *testing.T) {
	prog := build(t,
		scene(0, 1, 2),
		objects("filter_color", []int{0}, 0),
		scene(0, 1, 2),
		objects("filter_shape", []int{2}, 2),
		objects("intersect", []int{1, 3}),
		value("exist", 4),
	)
	got, err := Resolver{Filters: []Filter{FilterFirstNonempty}}.Resolve(prog, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, got)
}

func TestFirstNonemptyComparisonFollowsBothBranches(t *testing.T) {
	prog := build(t,
		scene(0, 1, 2),
		objects("filter_color", []int{0}, 0),
		unique(1, 0),
		value("query_size", 2),
		scene(0, 1, 2),
		objects("filter_shape", []int{4}, 2),
		unique(5, 2),
		value("query_size", 6),
		value("equal_size", 3, 7),
	)
	got, err := Resolver{Filters: []Filter{FilterFirstNonempty}}.Resolve(prog, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, got)
}

func TestFirstNonemptyRejectsNestedFork(t *testing.T) {
	prog := build(t,
		scene(0, 1),
		objects("filter_color", []int{0}),
		objects("filter_shape", []int{0}),
		objects("intersect", []int{1, 2}),
		value("count", 3),
		scene(0, 1),
		objects("filter_size", []int{5}),
		value("count", 6),
		value("greater_than", 4, 7),
	)
	_, err := FirstNonempty(prog)
	assert.ErrorIs(t, err, ErrBranchFork)
}

// TestFirstNonemptyStopsAfterSingleFork documents a known limitation: once a
// fork is resolved the walk ends, even when no branch produced objects and an
// unrelated earlier node did.
func TestFirstNonemptyStopsAfterSingleFork(t *testing.T) {
	prog := build(t,
		scene(0, 1, 2),
		objects("filter_color", []int{0}, 1),
		scene(0, 1, 2),
		objects("filter_shape", []int{2}),
		value("count", 3),
		objects("filter_size", []int{2}),
		value("count", 5),
		value("equal_integer", 4, 6),
	)
	_, err := Resolver{Filters: []Filter{FilterFirstNonempty}}.Resolve(prog, 3)
	assert.ErrorIs(t, err, ErrNoTargetObjects)
}

func TestNoTargetForEmptyFilter(t *testing.T) {
	prog := build(t,
		scene(0, 1),
		objects("filter_color", []int{0}),
		value("exist", 1),
	)
	_, err := Resolver{Filters: []Filter{FilterFirstNonempty}}.Resolve(prog, 2)
	assert.ErrorIs(t, err, ErrNoTargetObjects)
}

func TestTargetAllBypassesProgram(t *testing.T) {
	got, err := Resolver{TargetAll: true, Filters: []Filter{FilterUnique}}.Resolve(program.Program{}, 4)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, got)
}

func TestUnionAndUniqueFiltersCombine(t *testing.T) {
	prog := build(t,
		scene(0, 1, 2, 3),
		objects("filter_color", []int{0}, 0, 1),
		unique(1, 3),
		objects("relate", []int{2}, 2),
		value("count", 3),
	)
	union, err := Resolver{Filters: []Filter{FilterUnion}}.Resolve(prog, 4)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, union)

	uniq, err := Resolver{Filters: []Filter{FilterUnique}}.Resolve(prog, 4)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, uniq)

	both, err := Resolver{Filters: []Filter{FilterUnique, FilterUnion}}.Resolve(prog, 4)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, both)
}

func TestUniqueFilterOnlyReadsObjectNodes(t *testing.T) {
	shape := value("query_shape", 2)
	shape.Object, shape.HasObject = 0, true
	prog := build(t,
		scene(0, 1, 2, 3),
		objects("filter_color", []int{0}, 1, 2),
		unique(1, 2),
		shape,
		program.Node{Type: "unique", Inputs: []int{1}},
	)
	got, err := Resolver{Filters: []Filter{FilterUnique}}.Resolve(prog, 4)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, got)
}

func TestLastFilterTakesLastFilterEvenIfEmpty(t *testing.T) {
	prog := build(t,
		scene(0, 1),
		objects("filter_color", []int{0}, 0),
		objects("relate", []int{1}, 1),
		objects("filter_shape", []int{2}),
		value("exist", 3),
	)
	assert.Empty(t, LastFilter(prog))
	_, err := Resolver{Filters: []Filter{FilterLastFilter}}.Resolve(prog, 2)
	assert.ErrorIs(t, err, ErrNoTargetObjects)
}

func TestResolveRejectsOutOfRange(t *testing.T) {
	prog := build(t, scene(0), objects("filter_color", []int{0}, 5))
	_, err := Resolver{Filters: []Filter{FilterFirstNonempty}}.Resolve(prog, 1)
	assert.ErrorIs(t, err, ErrObjectOutOfRange)
}

func TestParseFilters(t *testing.T) {
	got, err := ParseFilters([]string{" First_Nonempty", "unique"})
	require.NoError(t, err)
	assert.Equal(t, []Filter{FilterFirstNonempty, FilterUnique}, got)

	_, err = ParseFilters([]string{"nearest"})
	assert.ErrorIs(t, err, ErrUnknownFilter)
}
