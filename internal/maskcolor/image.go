package maskcolor

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
)

// Image is an H x W RGB pixel grid stored row-major, three bytes per pixel.
type Image struct {
	Height int
	Width  int
	Pix    []uint8
}

// New builds an Image from interleaved pixel data with 3 or 4 channels.
// A fourth (alpha) channel is dropped.
func New(height, width, channels int, data []uint8) (Image, error) {
	if height <= 0 || width <= 0 {
		return Image{}, fmt.Errorf("%w: got %dx%d", ErrShape, height, width)
	}
	if channels != 3 && channels != 4 {
		return Image{}, fmt.Errorf("%w: got %d channels", ErrShape, channels)
	}
	if len(data) != height*width*channels {
		return Image{}, fmt.Errorf("%w: %d bytes for %dx%dx%d", ErrShape, len(data), height, width, channels)
	}
	pix := make([]uint8, height*width*3)
	for i := 0; i < height*width; i++ {
		copy(pix[i*3:i*3+3], data[i*channels:i*channels+3])
	}
	return Image{Height: height, Width: width, Pix: pix}, nil
}

// FromImage converts a decoded image into an RGB Image, dropping alpha.
// Single channel images are rejected the same way a 2-D array would be.
func FromImage(src image.Image) (Image, error) {
	switch src.(type) {
	case *image.Gray, *image.Gray16, *image.Alpha, *image.Alpha16:
		return Image{}, fmt.Errorf("%w: single channel image", ErrShape)
	}
	bounds := src.Bounds()
	height, width := bounds.Dy(), bounds.Dx()
	if height <= 0 || width <= 0 {
		return Image{}, fmt.Errorf("%w: empty image", ErrShape)
	}
	pix := make([]uint8, 0, height*width*3)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			pix = append(pix, c.R, c.G, c.B)
		}
	}
	return Image{Height: height, Width: width, Pix: pix}, nil
}

// Decode reads a PNG mask image.
func Decode(r io.Reader) (Image, error) {
	src, err := png.Decode(r)
	if err != nil {
		return Image{}, fmt.Errorf("decode mask png: %w", err)
	}
	return FromImage(src)
}

// At returns the color of the pixel at row y, column x.
func (img Image) At(y, x int) [3]uint8 {
	off := (y*img.Width + x) * 3
	return [3]uint8{img.Pix[off], img.Pix[off+1], img.Pix[off+2]}
}

// Set overwrites the pixel at row y, column x.
func (img Image) Set(y, x int, c [3]uint8) {
	off := (y*img.Width + x) * 3
	img.Pix[off], img.Pix[off+1], img.Pix[off+2] = c[0], c[1], c[2]
}
