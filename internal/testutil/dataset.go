package testutil

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"

	"uclevr/internal/colorspace"
	"uclevr/internal/dataset"
)

// Rendered colors of the synthetic dataset.
var (
	Background = [3]uint8{64, 64, 64}
	Red        = [3]uint8{173, 35, 35}
	Green      = [3]uint8{29, 105, 20}
	Blue       = [3]uint8{42, 75, 215}
)

// Question indices of the synthetic dataset.
const (
	// QuestionCountRed asks how many red things there are; its heatmap lies
	// fully on the red object.
	QuestionCountRed = 0
	// QuestionExistPurple has no target objects.
	QuestionExistPurple = 1
	// QuestionShapeRed puts half of its absolute mass on the red object.
	QuestionShapeRed = 2
	// QuestionWrongAnswer is answered incorrectly.
	QuestionWrongAnswer = 3
)

// ExpectedAccuracy is the mean overlap of the synthetic dataset.
const ExpectedAccuracy = 0.75

// DatasetOptions adjusts the generated config.
type DatasetOptions struct {
	// GroundTruthPath defaults to gt.npz.
	GroundTruthPath string
	// Extra is appended verbatim to the config YAML.
	Extra string
}

// Dataset describes a generated dataset on disk.
type Dataset struct {
	Root            string
	ConfigPath      string
	GroundTruthPath string
}

// WriteDataset writes a one-scene Unique CLEVR dataset under root: a 4x5
// mask with a 2x2 red block, a green column and a blue pixel on a grey
// background, four questions, predictions, and heatmaps.
func WriteDataset(t testing.TB, root string, opts DatasetOptions) Dataset {
	t.Helper()
	for _, dir := range []string{"scenes", "masks", "heatmaps"} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			t.Fatalf("create %s: %v", dir, err)
		}
	}

	objects := []map[string]any{
		{"color": "green", "shape": "cylinder", "mask_color": colorspace.RGBToLinear(Green)},
		{"color": "red", "shape": "cube", "mask_color": colorspace.RGBToLinear(Red)},
		{"color": "blue", "shape": "sphere", "mask_color": colorspace.RGBToLinear(Blue)},
	}
	writeJSON(t, filepath.Join(root, "scenes", "CLEVR_0.json"), map[string]any{
		"image_filename": "CLEVR_0.png",
		"objects":        objects,
	})
	writeMaskPNG(t, filepath.Join(root, "masks", "CLEVR_0.png"))

	questions := `{"questions": [
  {"question_index": 0, "image": "CLEVR_0", "answer": 1, "program": [
    {"type": "scene", "inputs": [], "_output": [0, 1, 2]},
    {"type": "filter_color", "inputs": [0], "value_inputs": ["red"], "_output": [1]},
    {"type": "count", "inputs": [1], "_output": 1}]},
  {"question_index": 1, "image": "CLEVR_0", "answer": false, "program": [
    {"type": "scene", "inputs": [], "_output": [0, 1, 2]},
    {"type": "filter_color", "inputs": [0], "value_inputs": ["purple"], "_output": []},
    {"type": "exist", "inputs": [1], "_output": false}]},
  {"question_index": 2, "image": "CLEVR_0", "answer": "cube", "program": [
    {"type": "scene", "inputs": [], "_output": [0, 1, 2]},
    {"type": "filter_color", "inputs": [0], "value_inputs": ["red"], "_output": [1]},
    {"type": "unique", "inputs": [1], "_output": 1},
    {"type": "query_shape", "inputs": [2], "_output": "cube"}]},
  {"question_index": 3, "image": "CLEVR_0", "answer": 1, "program": [
    {"type": "scene", "inputs": [], "_output": [0, 1, 2]},
    {"type": "filter_color", "inputs": [0], "value_inputs": ["blue"], "_output": [2]},
    {"type": "count", "inputs": [1], "_output": 1}]}
]}`
	writeFile(t, filepath.Join(root, "questions.json"), questions)
	writeFile(t, filepath.Join(root, "predictions.json"), `[
  {"question_index": 0, "answer": 1},
  {"question_index": 1, "answer": false},
  {"question_index": 2, "answer": "cube"},
  {"question_index": 3, "answer": 2}
]`)

	onRed := mat.NewDense(4, 5, nil)
	onRed.Set(0, 0, 0.25)
	onRed.Set(1, 1, 0.75)
	writeHeatmap(t, filepath.Join(root, "heatmaps", "0.npy"), onRed)
	half := mat.NewDense(4, 5, nil)
	half.Set(0, 1, -1)
	half.Set(3, 3, 1)
	writeHeatmap(t, filepath.Join(root, "heatmaps", "2.npy"), half)
	writeHeatmap(t, filepath.Join(root, "heatmaps", "3.npy"), onRed)

	gtPath := opts.GroundTruthPath
	if gtPath == "" {
		gtPath = "gt.npz"
	}
	cfg := fmt.Sprintf(`version: 1
pred_file: predictions.json
question_file: questions.json
scenes_path: scenes/
masks_path: masks/
heatmap_path: heatmaps/
ground_truth_path: %s
background_color: [%d, %d, %d]
`, gtPath, Background[0], Background[1], Background[2])
	if opts.Extra != "" {
		cfg += strings.TrimSpace(opts.Extra) + "\n"
	}
	configPath := filepath.Join(root, "config.yml")
	writeFile(t, configPath, cfg)

	return Dataset{
		Root:            root,
		ConfigPath:      configPath,
		GroundTruthPath: filepath.Join(root, gtPath),
	}
}

// RedFootprint returns the pixels of the red object in the synthetic mask.
func RedFootprint() [][2]int {
	return [][2]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
}

func writeMaskPNG(t testing.TB, path string) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 5, 4))
	set := func(x, y int, c [3]uint8) {
		img.SetNRGBA(x, y, color.NRGBA{R: c[0], G: c[1], B: c[2], A: 255})
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 5; x++ {
			set(x, y, Background)
		}
	}
	for _, p := range RedFootprint() {
		set(p[1], p[0], Red)
	}
	for y := 0; y < 4; y++ {
		set(3, y, Green)
	}
	set(4, 3, Blue)

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create mask: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode mask: %v", err)
	}
}

func writeHeatmap(t testing.TB, path string, m *mat.Dense) {
	t.Helper()
	if err := dataset.WriteMatrixFile(path, m); err != nil {
		t.Fatalf("write heatmap: %v", err)
	}
}

func writeJSON(t testing.TB, path string, v any) {
	t.Helper()
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		t.Fatalf("marshal %s: %v", filepath.Base(path), err)
	}
	writeFile(t, path, string(data))
}

func writeFile(t testing.TB, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", filepath.Base(path), err)
	}
}
