package colorspace

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Cutoff is the normalized value at which the sRGB decoding curve switches
// from its linear segment to its power segment.
const Cutoff = 0.0404482362771082

// decode maps a normalized sRGB component in [0,1] onto linear RGB.
func decode(v float64) float64 {
	if v >= Cutoff {
		return math.Pow((v+0.055)/1.055, 2.4)
	}
	return v / 12.92
}

// ToLinear decodes a single 8-bit sRGB component.
func ToLinear(v uint8) float64 {
	r, _, _ := colorful.Color{R: float64(v) / 255, G: 0, B: 0}.LinearRgb()
	return r
}

// RGBToLinear decodes an 8-bit sRGB triple.
func RGBToLinear(c [3]uint8) [3]float64 {
	r, g, b := colorful.Color{
		R: float64(c[0]) / 255,
		G: float64(c[1]) / 255,
		B: float64(c[2]) / 255,
	}.LinearRgb()
	return [3]float64{r, g, b}
}

// SliceToLinear decodes every triple in colors. The input is left untouched.
func SliceToLinear(colors [][3]uint8) [][3]float64 {
	out := make([][3]float64, len(colors))
	for i, c := range colors {
		out[i] = RGBToLinear(c)
	}
	return out
}
