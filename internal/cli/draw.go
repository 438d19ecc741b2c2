package cli

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"uclevr/internal/dataset"
	"uclevr/internal/groundtruth"
)

// runDraw builds the handler for the draw command.
func runDraw(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		input := fs.String("input", "", "Mask .npy file, or a ground truth store when --question is set")
		question := fs.Int("question", -1, "Question index to read from a ground truth store")
		output := fs.String("output", "gt.png", "Output PNG path")
		scale := fs.Int("scale", 1, "Pixel upscaling factor")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}
		if fs.NArg() > 0 {
			fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
		if strings.TrimSpace(*input) == "" {
			fmt.Fprintln(stderr, "Missing --input")
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
		if *scale < 1 {
			fmt.Fprintln(stderr, "--scale must be at least 1")
			return ExitUsage
		}

		mask, err := loadDrawMask(*input, *question)
		if err != nil {
			fmt.Fprintf(stderr, "Draw failed: %v\n", err)
			return ExitError
		}
		if err := writeMaskPNG(*output, mask, *scale); err != nil {
			fmt.Fprintf(stderr, "Draw failed: %v\n", err)
			return ExitError
		}
		fmt.Fprintf(stdout, "Wrote %s (%s)\n", *output, mask)
		return ExitOK
	}
}

func loadDrawMask(input string, question int) (groundtruth.Mask, error) {
	if question < 0 {
		m, err := dataset.ReadMatrixFile(input)
		if err != nil {
			return groundtruth.Mask{}, err
		}
		return groundtruth.FromMatrix(m, groundtruth.NonZero), nil
	}
	masks, found, err := groundtruth.NewStore(input).Load()
	if err != nil {
		return groundtruth.Mask{}, err
	}
	if !found {
		return groundtruth.Mask{}, fmt.Errorf("no ground truth at %s", input)
	}
	m, ok := masks[question]
	if !ok {
		return groundtruth.Mask{}, fmt.Errorf("question %d not in %s", question, input)
	}
	return m, nil
}

// writeMaskPNG renders inside pixels white and outside pixels black.
func writeMaskPNG(path string, m groundtruth.Mask, scale int) error {
	img := image.NewGray(image.Rect(0, 0, m.Width*scale, m.Height*scale))
	for y := 0; y < m.Height*scale; y++ {
		for x := 0; x < m.Width*scale; x++ {
			if m.At(y/scale, x/scale) {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(file, img); err != nil {
		_ = file.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return file.Close()
}
