package program

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const equalSizeProgram = `[
  {"type": "scene", "inputs": [], "_output": [0, 1, 2]},
  {"type": "filter_color", "inputs": [0], "value_inputs": ["red"], "_output": [0]},
  {"type": "unique", "inputs": [1], "_output": 0},
  {"type": "query_size", "inputs": [2], "_output": "large"},
  {"type": "scene", "inputs": [], "_output": [0, 1, 2]},
  {"type": "filter_shape", "inputs": [4], "value_inputs": ["cube"], "_output": [2]},
  {"type": "unique", "inputs": [5], "_output": 2},
  {"type": "query_size", "inputs": [6], "_output": "small"},
  {"type": "equal_size", "inputs": [3, 7], "_output": false}
]`

func TestUnmarshalProgram(t *testing.T) {
	var p Program
	require.NoError(t, json.Unmarshal([]byte(equalSizeProgram), &p))
	require.Equal(t, 9, p.Len())

	root := p.Node(0)
	assert.True(t, root.Class.Has(ClassScene))
	assert.Equal(t, []int{0, 1, 2}, root.Objects)

	filter := p.Node(1)
	assert.True(t, filter.Class.Has(ClassObjectSet))
	assert.Equal(t, []int{0}, filter.Objects)

	unique := p.Node(2)
	assert.True(t, unique.Class.Has(ClassObject))
	assert.True(t, unique.HasObject)
	assert.Equal(t, 0, unique.Object)

	query := p.Node(3)
	assert.True(t, query.Class.Has(ClassValue))
	assert.JSONEq(t, `"large"`, string(query.Value))

	equal := p.Node(8)
	assert.True(t, equal.Class.Has(ClassBranch))
	assert.Equal(t, []int{3, 7}, equal.Inputs)
}

func TestUnmarshalFunctionKey(t *testing.T) {
	var p Program
	require.NoError(t, json.Unmarshal([]byte(`[{"function": "scene", "inputs": []}, {"function": "count", "inputs": [0], "_output": 3}]`), &p))
	assert.Equal(t, "count", p.Node(1).Type)
	assert.True(t, p.Node(1).Class.Has(ClassValue))
}

func TestUnmarshalRejectsForwardInputs(t *testing.T) {
	var p Program
	err := json.Unmarshal([]byte(`[{"type": "scene", "inputs": []}, {"type": "filter_color", "inputs": [1]}]`), &p)
	assert.ErrorIs(t, err, ErrForwardInput)
}

func TestUnmarshalRejectsBadObjectOutput(t *testing.T) {
	var p Program
	err := json.Unmarshal([]byte(`[{"type": "scene", "inputs": []}, {"type": "filter_color", "inputs": [0], "_output": true}]`), &p)
	assert.ErrorIs(t, err, ErrBadOutput)
}

func TestNewRejectsMissingType(t *testing.T) {
	_, err := New([]Node{{Type: "scene"}, {Inputs: []int{0}}})
	assert.ErrorIs(t, err, ErrMissingType)
}

func TestClassify(t *testing.T) {
	cases := []struct {
		nodeType string
		want     Class
	}{
		{"scene", ClassScene},
		{"filter_color", ClassObjectSet},
		{"relate", ClassObjectSet},
		{"same_shape", ClassObjectSet},
		{"union", ClassObjectSet | ClassBranch},
		{"intersect", ClassObjectSet | ClassBranch},
		{"unique", ClassObject},
		{"equal_color", ClassBranch | ClassValue},
		{"equal_integer", ClassBranch | ClassValue},
		{"less_than", ClassBranch | ClassValue},
		{"greater_than", ClassBranch | ClassValue},
		{"count", ClassValue},
		{"exist", ClassValue},
		{"query_material", ClassValue},
	}
	for _, tc := range cases {
		t.Run(tc.nodeType, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.nodeType))
		})
	}
}
