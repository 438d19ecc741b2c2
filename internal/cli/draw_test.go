package cli

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"uclevr/internal/testutil"
)

func decodePNG(t *testing.T, path string) (width, height int, white func(x, y int) bool) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open png: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	bounds := img.Bounds()
	return bounds.Dx(), bounds.Dy(), func(x, y int) bool {
		r, _, _, _ := img.At(x, y).RGBA()
		return r == 0xffff
	}
}

func TestDrawStoredMaskFile(t *testing.T) {
	ds := testutil.WriteDataset(t, t.TempDir(), testutil.DatasetOptions{GroundTruthPath: "gt"})
	if code, _, errOut := runCLI(t, "eval", "--config", ds.ConfigPath, "--no-evaluate"); code != ExitOK {
		t.Fatalf("build ground truth: exit %d (%q)", code, errOut)
	}

	output := filepath.Join(ds.Root, "gt.png")
	input := filepath.Join(ds.GroundTruthPath, "0.npy")
	code, out, errOut := runCLI(t, "draw", "--input", input, "--output", output)
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d (stderr %q)", ExitOK, code, errOut)
	}
	if !strings.Contains(out, "Wrote "+output) {
		t.Fatalf("expected output line, got %q", out)
	}

	width, height, white := decodePNG(t, output)
	if width != 5 || height != 4 {
		t.Fatalf("expected 5x4 image, got %dx%d", width, height)
	}
	inside := map[[2]int]bool{}
	for _, p := range testutil.RedFootprint() {
		inside[p] = true
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if got, want := white(x, y), inside[[2]int{y, x}]; got != want {
				t.Fatalf("pixel (%d,%d): got white=%v want %v", x, y, got, want)
			}
		}
	}
}

func TestDrawFromArchiveWithScale(t *testing.T) {
	ds := testutil.WriteDataset(t, t.TempDir(), testutil.DatasetOptions{})
	if code, _, errOut := runCLI(t, "eval", "--config", ds.ConfigPath, "--no-evaluate"); code != ExitOK {
		t.Fatalf("build ground truth: exit %d (%q)", code, errOut)
	}

	output := filepath.Join(ds.Root, "blue.png")
	code, _, errOut := runCLI(t, "draw", "--input", ds.GroundTruthPath, "--question", "3", "--output", output, "--scale", "2")
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d (stderr %q)", ExitOK, code, errOut)
	}
	width, height, white := decodePNG(t, output)
	if width != 10 || height != 8 {
		t.Fatalf("expected 10x8 image, got %dx%d", width, height)
	}
	if !white(9, 7) || !white(8, 6) || white(7, 7) {
		t.Fatalf("expected only the upscaled blue pixel to be white")
	}
}

func TestDrawUnknownQuestion(t *testing.T) {
	ds := testutil.WriteDataset(t, t.TempDir(), testutil.DatasetOptions{})
	if code, _, errOut := runCLI(t, "eval", "--config", ds.ConfigPath, "--no-evaluate"); code != ExitOK {
		t.Fatalf("build ground truth: exit %d (%q)", code, errOut)
	}
	code, _, errOut := runCLI(t, "draw", "--input", ds.GroundTruthPath, "--question", "1",
		"--output", filepath.Join(ds.Root, "x.png"))
	if code != ExitError {
		t.Fatalf("expected exit %d, got %d", ExitError, code)
	}
	if !strings.Contains(errOut, "question 1 not in") {
		t.Fatalf("expected missing question error, got %q", errOut)
	}
}

func TestDrawRequiresInput(t *testing.T) {
	code, _, errOut := runCLI(t, "draw")
	if code != ExitUsage {
		t.Fatalf("expected exit %d, got %d", ExitUsage, code)
	}
	if !strings.Contains(errOut, "Missing --input") {
		t.Fatalf("expected missing input error, got %q", errOut)
	}
}
