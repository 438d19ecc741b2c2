// Package maskcolor aligns the symbolic mask colors declared in a scene with
// the flat colors actually present in a rendered instance-mask image.
//
// A rendered mask holds exactly one background color and one flat color per
// object. Declared colors are linear RGB while the image is sRGB encoded, so
// the rendered palette is decoded through package colorspace before the
// nearest-color match.
package maskcolor
