package groundtruth

import (
	"fmt"

	"uclevr/internal/dataset"
	"uclevr/internal/maskcolor"
	"uclevr/internal/program"
	"uclevr/internal/target"
)

// Stats describes the size of a question's target region.
type Stats struct {
	TargetObjects int     `json:"target_object_count"`
	TotalObjects  int     `json:"total_object_count"`
	MaskPixels    int     `json:"mask_pixels,omitempty"`
	MaskFraction  float64 `json:"mask_fraction,omitempty"`
	// Targets lists the target object indices in ascending order.
	Targets []int `json:"targets,omitempty"`
}

// withMask fills the pixel statistics of s from m.
func (s Stats) withMask(m Mask) Stats {
	s.MaskPixels = m.Count()
	if total := m.Height * m.Width; total > 0 {
		s.MaskFraction = float64(s.MaskPixels) / float64(total)
	}
	return s
}

// Input gathers everything needed to build one question's mask. LoadImage is
// only called once the question is known to have targets.
type Input struct {
	Scene      dataset.Scene
	Program    program.Program
	LoadImage  func() (maskcolor.Image, error)
	Background [3]uint8
	Resolver   target.Resolver
}

// Targets resolves the target objects of a question and their stats.
// It returns target.ErrNoTargetObjects when the question has none.
func Targets(scene dataset.Scene, prog program.Program, resolver target.Resolver) ([]int, Stats, error) {
	stats := Stats{TotalObjects: len(scene.Objects)}
	targets, err := resolver.Resolve(prog, len(scene.Objects))
	if err != nil {
		return nil, stats, err
	}
	stats.TargetObjects = len(targets)
	stats.Targets = targets
	return targets, stats, nil
}

// Render marks every pixel of img whose color is exactly the rendered color
// of one of the target objects.
func Render(img maskcolor.Image, declared [][3]float64, targets []int, background [3]uint8) (Mask, error) {
	palette, err := maskcolor.Resolve(img, declared, background)
	if err != nil {
		return Mask{}, err
	}
	colors := make(map[[3]uint8]struct{}, len(targets))
	for _, idx := range targets {
		if idx < 0 || idx >= len(palette.Mapping) {
			return Mask{}, fmt.Errorf("%w: %d of %d", target.ErrObjectOutOfRange, idx, len(palette.Mapping))
		}
		colors[palette.ColorOf(idx)] = struct{}{}
	}
	m := NewMask(img.Height, img.Width)
	for i := range m.Pix {
		c := [3]uint8{img.Pix[i*3], img.Pix[i*3+1], img.Pix[i*3+2]}
		if _, ok := colors[c]; ok {
			m.Pix[i] = true
		}
	}
	return m, nil
}

// Build resolves targets and renders the mask of a single question.
func Build(in Input) (Mask, Stats, error) {
	targets, stats, err := Targets(in.Scene, in.Program, in.Resolver)
	if err != nil {
		return Mask{}, stats, err
	}
	img, err := in.LoadImage()
	if err != nil {
		return Mask{}, stats, err
	}
	m, err := Render(img, in.Scene.MaskColors(), targets, in.Background)
	if err != nil {
		return Mask{}, stats, err
	}
	return m, stats.withMask(m), nil
}
