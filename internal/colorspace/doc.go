// Package colorspace decodes sRGB encoded pixel values into linear RGB.
//
// Renderers store mask colors gamma encoded while scene descriptions declare
// them in linear space, so every rendered color must be decoded before it can
// be compared against a declared one.
package colorspace
