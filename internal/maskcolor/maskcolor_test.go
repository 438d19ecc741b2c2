package maskcolor

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uclevr/internal/colorspace"
)

var (
	background = [3]uint8{64, 64, 64}
	red        = [3]uint8{173, 35, 35}
	green      = [3]uint8{29, 105, 20}
	blue       = [3]uint8{42, 75, 215}
)

// stripes paints one column band per color over a background canvas.
func stripes(t *testing.T, colors ...[3]uint8) Image {
	t.Helper()
	width := len(colors) + 1
	img, err := New(2, width, 3, make([]uint8, 2*width*3))
	require.NoError(t, err)
	for y := 0; y < 2; y++ {
		img.Set(y, 0, background)
		for x, c := range colors {
			img.Set(y, x+1, c)
		}
	}
	return img
}

func TestResolveMapsDeclaredColors(t *testing.T) {
	img := stripes(t, red, green, blue)
	declared := [][3]float64{
		colorspace.RGBToLinear(blue),
		colorspace.RGBToLinear(red),
		colorspace.RGBToLinear(green),
	}
	// Declared colors drift slightly from what the renderer wrote.
	declared[0][2] += 0.01
	declared[1][0] -= 0.01

	palette, err := Resolve(img, declared, background)
	require.NoError(t, err)
	require.Len(t, palette.Raw, 3)
	assert.Equal(t, blue, palette.ColorOf(0))
	assert.Equal(t, red, palette.ColorOf(1))
	assert.Equal(t, green, palette.ColorOf(2))
	assert.NotContains(t, palette.Raw, background)
}

func TestResolveInjectiveForSeparatedColors(t *testing.T) {
	colors := [][3]uint8{{255, 0, 0}, {0, 255, 0}, {0, 0, 255}, {255, 255, 0}, {0, 255, 255}}
	img := stripes(t, colors...)
	declared := colorspace.SliceToLinear(colors)
	palette, err := Resolve(img, declared, background)
	require.NoError(t, err)
	seen := map[int]bool{}
	for _, idx := range palette.Mapping {
		assert.False(t, seen[idx], "index %d mapped twice", idx)
		seen[idx] = true
	}
	assert.Len(t, seen, len(colors))
}

func TestResolveMissingBackground(t *testing.T) {
	img := stripes(t, red)
	_, err := Resolve(img, [][3]float64{colorspace.RGBToLinear(red)}, [3]uint8{1, 2, 3})
	assert.True(t, errors.Is(err, ErrIntegrity), "got %v", err)
}

func TestResolveCollidingObjects(t *testing.T) {
	img := stripes(t, red, blue)
	declared := [][3]float64{colorspace.RGBToLinear(red), colorspace.RGBToLinear(red)}
	_, err := Resolve(img, declared, background)
	assert.True(t, errors.Is(err, ErrIntegrity), "got %v", err)
}

func TestResolveTiesPickLowestIndex(t *testing.T) {
	a := [3]uint8{0, 0, 0}
	b := [3]uint8{255, 255, 255}
	img := stripes(t, a, b)
	mid := [3]float64{0.5, 0.5, 0.5}
	palette, err := Resolve(img, [][3]float64{mid}, background)
	require.NoError(t, err)
	assert.Equal(t, 0, palette.Mapping[0])
}

func TestNewStripsAlpha(t *testing.T) {
	img, err := New(1, 2, 4, []uint8{1, 2, 3, 255, 4, 5, 6, 0})
	require.NoError(t, err)
	assert.Equal(t, []uint8{1, 2, 3, 4, 5, 6}, img.Pix)
}

func TestNewRejectsBadShapes(t *testing.T) {
	cases := []struct {
		name                    string
		height, width, channels int
		data                    []uint8
	}{
		{"TwoChannels", 1, 1, 2, []uint8{1, 2}},
		{"FiveChannels", 1, 1, 5, []uint8{1, 2, 3, 4, 5}},
		{"ShortData", 2, 2, 3, []uint8{1, 2, 3}},
		{"ZeroHeight", 0, 2, 3, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.height, tc.width, tc.channels, tc.data)
			assert.ErrorIs(t, err, ErrShape)
		})
	}
}

func TestDecodePNG(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.Set(0, 0, color.NRGBA{R: 64, G: 64, B: 64, A: 255})
	src.Set(1, 0, color.NRGBA{R: 173, G: 35, B: 35, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	img, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 1, img.Height)
	assert.Equal(t, 2, img.Width)
	assert.Equal(t, background, img.At(0, 0))
	assert.Equal(t, red, img.At(0, 1))
}

func TestFromImageRejectsGray(t *testing.T) {
	_, err := FromImage(image.NewGray(image.Rect(0, 0, 2, 2)))
	assert.ErrorIs(t, err, ErrShape)
}
