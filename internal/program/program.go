package program

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// Node is one step of a functional program.
type Node struct {
	Index  int
	Type   string
	Inputs []int
	// ValueInputs carries literal arguments such as the color of filter_color.
	ValueInputs []string
	Class       Class
	// Objects is the output set of scene and object-set nodes.
	Objects []int
	// Object is the output of a unique node; HasObject reports whether it was set.
	Object    int
	HasObject bool
	// Value holds the raw _output of value nodes.
	Value json.RawMessage
}

// Program is an immutable, topologically ordered list of nodes.
type Program struct {
	nodes []Node
}

// Len returns the number of nodes.
func (p Program) Len() int {
	return len(p.nodes)
}

// Node returns node i.
func (p Program) Node(i int) Node {
	return p.nodes[i]
}

// New validates nodes and builds a Program. Node indices are reassigned from
// slice positions and classes are derived from type tags.
func New(nodes []Node) (Program, error) {
	out := make([]Node, len(nodes))
	for i, node := range nodes {
		if node.Type == "" {
			return Program{}, fmt.Errorf("node %d: %w", i, ErrMissingType)
		}
		for _, in := range node.Inputs {
			if in < 0 || in >= i {
				return Program{}, fmt.Errorf("node %d (%s) input %d: %w", i, node.Type, in, ErrForwardInput)
			}
		}
		node.Index = i
		node.Class = Classify(node.Type)
		node.Inputs = slices.Clone(node.Inputs)
		node.Objects = slices.Clone(node.Objects)
		out[i] = node
	}
	return Program{nodes: out}, nil
}

// rawNode mirrors the JSON layout of a CLEVR program step. Older files name
// the type tag "function".
type rawNode struct {
	Type        string          `json:"type"`
	Function    string          `json:"function"`
	Inputs      []int           `json:"inputs"`
	ValueInputs []string        `json:"value_inputs,omitempty"`
	Output      json.RawMessage `json:"_output,omitempty"`
}

// UnmarshalJSON decodes a JSON program array.
func (p *Program) UnmarshalJSON(data []byte) error {
	var raw []rawNode
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse program: %w", err)
	}
	nodes := make([]Node, len(raw))
	for i, r := range raw {
		node := Node{Type: r.Type, Inputs: r.Inputs, ValueInputs: r.ValueInputs}
		if node.Type == "" {
			node.Type = r.Function
		}
		if err := decodeOutput(&node, Classify(node.Type), r.Output); err != nil {
			return fmt.Errorf("node %d (%s): %w", i, node.Type, err)
		}
		nodes[i] = node
	}
	parsed, err := New(nodes)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func decodeOutput(node *Node, class Class, output json.RawMessage) error {
	trimmed := bytes.TrimSpace(output)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	switch {
	case class&(ClassScene|ClassObjectSet) != 0:
		var objects []int
		if err := json.Unmarshal(trimmed, &objects); err != nil {
			return fmt.Errorf("%w: expected object index list: %v", ErrBadOutput, err)
		}
		node.Objects = objects
	case class.Has(ClassObject):
		var object int
		if err := json.Unmarshal(trimmed, &object); err != nil {
			return fmt.Errorf("%w: expected object index: %v", ErrBadOutput, err)
		}
		node.Object = object
		node.HasObject = true
	default:
		node.Value = append(json.RawMessage(nil), trimmed...)
	}
	return nil
}
