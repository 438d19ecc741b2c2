package dataset

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Color is a declared mask color in linear RGB, each component in [0,1].
type Color [3]float64

// UnmarshalJSON accepts float components in [0,1] or integer components in
// [0,255]; the latter are scaled down.
func (c *Color) UnmarshalJSON(data []byte) error {
	var values []float64
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("parse mask color: %w", err)
	}
	if len(values) < 3 || len(values) > 4 {
		return fmt.Errorf("parse mask color: expected 3 components, got %d", len(values))
	}
	scale := 1.0
	for _, v := range values[:3] {
		if v < 0 {
			return fmt.Errorf("parse mask color: negative component %v", v)
		}
		if v > 1 {
			scale = 255
		}
	}
	for i := range c {
		c[i] = values[i] / scale
	}
	return nil
}

// Object is one scene object. Attributes other than the mask color, such as
// size, shape or material, are kept as raw JSON values.
type Object struct {
	MaskColor  Color
	Attributes map[string]json.RawMessage
}

// UnmarshalJSON splits the mask color from the remaining attributes.
func (o *Object) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("parse object: %w", err)
	}
	raw, ok := fields["mask_color"]
	if !ok {
		return fmt.Errorf("parse object: mask_color is required")
	}
	if err := o.MaskColor.UnmarshalJSON(raw); err != nil {
		return err
	}
	delete(fields, "mask_color")
	o.Attributes = fields
	return nil
}

// Attribute returns the string form of a scalar attribute, or "".
func (o Object) Attribute(name string) string {
	raw, ok := o.Attributes[name]
	if !ok {
		return ""
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}
	return string(raw)
}

// Scene is the symbolic description of one rendered image.
type Scene struct {
	Image   string   `json:"image_filename,omitempty"`
	Objects []Object `json:"objects"`
}

// MaskColors returns the declared mask color of every object, in order.
func (s Scene) MaskColors() [][3]float64 {
	out := make([][3]float64, len(s.Objects))
	for i, obj := range s.Objects {
		out[i] = obj.MaskColor
	}
	return out
}

// describedAttributes are joined, in order, to name an object.
var describedAttributes = []string{"size", "color", "material", "shape"}

// Describe names the objects at indices, e.g. "large red rubber cube".
// Out of range indices are skipped.
func (s Scene) Describe(indices []int) string {
	names := make([]string, 0, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= len(s.Objects) {
			continue
		}
		words := make([]string, 0, len(describedAttributes))
		for _, attr := range describedAttributes {
			if v := s.Objects[idx].Attribute(attr); v != "" {
				words = append(words, v)
			}
		}
		if len(words) == 0 {
			words = append(words, fmt.Sprintf("object %d", idx))
		}
		names = append(names, strings.Join(words, " "))
	}
	return strings.Join(names, ", ")
}

// LoadScene reads a scene file.
func LoadScene(path string) (Scene, error) {
	var scene Scene
	if err := readJSON(path, &scene); err != nil {
		return Scene{}, err
	}
	return scene, nil
}
