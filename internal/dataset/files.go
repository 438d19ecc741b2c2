package dataset

import (
	"fmt"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"uclevr/internal/maskcolor"
)

// Layout locates per-image and per-question files. Each path is a prefix that
// the key is appended to, so both "dir/" and "dir/prefix_" layouts work.
type Layout struct {
	ScenesPath   string
	MasksPath    string
	HeatmapsPath string
}

// ScenePath returns the scene file of an image key.
func (l Layout) ScenePath(image string) string {
	return l.ScenesPath + image + ".json"
}

// MaskPath returns the rendered mask image of an image key.
func (l Layout) MaskPath(image string) string {
	return l.MasksPath + image + ".png"
}

// HeatmapPath returns the heatmap file of a question.
func (l Layout) HeatmapPath(questionIndex int) string {
	return l.HeatmapsPath + strconv.Itoa(questionIndex) + ".npy"
}

// LoadScene reads the scene of an image key.
func (l Layout) LoadScene(image string) (Scene, error) {
	return LoadScene(l.ScenePath(image))
}

// LoadMask reads the rendered mask image of an image key.
func (l Layout) LoadMask(image string) (maskcolor.Image, error) {
	path := l.MaskPath(image)
	f, err := openFile(path)
	if err != nil {
		return maskcolor.Image{}, err
	}
	defer f.Close()
	img, err := maskcolor.Decode(f)
	if err != nil {
		return maskcolor.Image{}, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// LoadHeatmap reads the heatmap of a question.
func (l Layout) LoadHeatmap(questionIndex int) (*mat.Dense, error) {
	return ReadMatrixFile(l.HeatmapPath(questionIndex))
}
