package maskcolor

import (
	"fmt"
	"math"
	"sort"

	"uclevr/internal/colorspace"
)

// Palette is the result of aligning declared object colors with an image.
type Palette struct {
	// Raw holds the unique non-background colors of the image, sorted.
	Raw [][3]uint8
	// Linear holds Raw decoded into linear RGB, index aligned with Raw.
	Linear [][3]float64
	// Mapping holds, per object, its index into Raw and Linear.
	Mapping []int
}

// ColorOf returns the rendered color of object i.
func (p Palette) ColorOf(i int) [3]uint8 {
	return p.Raw[p.Mapping[i]]
}

// UniqueColors returns the distinct pixel colors of img in lexicographic order.
func UniqueColors(img Image) [][3]uint8 {
	seen := make(map[[3]uint8]struct{})
	for i := 0; i+2 < len(img.Pix); i += 3 {
		seen[[3]uint8{img.Pix[i], img.Pix[i+1], img.Pix[i+2]}] = struct{}{}
	}
	colors := make([][3]uint8, 0, len(seen))
	for c := range seen {
		colors = append(colors, c)
	}
	sort.Slice(colors, func(a, b int) bool {
		for k := 0; k < 3; k++ {
			if colors[a][k] != colors[b][k] {
				return colors[a][k] < colors[b][k]
			}
		}
		return false
	})
	return colors
}

// Resolve maps every declared object color onto the nearest rendered color.
//
// The background must appear exactly once among the unique image colors and
// the resulting mapping must be injective; both failures wrap ErrIntegrity.
func Resolve(img Image, declared [][3]float64, background [3]uint8) (Palette, error) {
	unique := UniqueColors(img)
	// unique holds each color once, so the background matches at most one entry.
	bgIndex := -1
	for i, c := range unique {
		if c == background {
			bgIndex = i
			break
		}
	}
	if bgIndex < 0 {
		return Palette{}, fmt.Errorf("%w: background %v not found", ErrIntegrity, background)
	}
	raw := make([][3]uint8, 0, len(unique)-1)
	raw = append(raw, unique[:bgIndex]...)
	raw = append(raw, unique[bgIndex+1:]...)
	linear := colorspace.SliceToLinear(raw)

	mapping := make([]int, len(declared))
	if len(declared) > 0 && len(linear) == 0 {
		return Palette{}, fmt.Errorf("%w: no object colors rendered for %d objects", ErrIntegrity, len(declared))
	}
	owner := make(map[int]int, len(declared))
	for i, want := range declared {
		idx := nearest(linear, want)
		if prev, taken := owner[idx]; taken {
			return Palette{}, fmt.Errorf("%w: objects %d and %d both resolve to rendered color %v", ErrIntegrity, prev, i, raw[idx])
		}
		owner[idx] = i
		mapping[i] = idx
	}
	return Palette{Raw: raw, Linear: linear, Mapping: mapping}, nil
}

// nearest returns the index of the color closest to want by Euclidean
// distance; ties go to the lowest index.
func nearest(colors [][3]float64, want [3]float64) int {
	best := -1
	bestDist := math.Inf(1)
	for i, c := range colors {
		dr, dg, db := c[0]-want[0], c[1]-want[1], c[2]-want[2]
		d := math.Sqrt(dr*dr + dg*dg + db*db)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
