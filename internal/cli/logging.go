package cli

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// openLogSink picks where structured logs go. An explicit --log path always
// wins; the live UI owns the terminal so logs are otherwise discarded there.
func openLogSink(path string, live bool, stderr io.Writer) (io.Writer, func(), error) {
	if strings.TrimSpace(path) == "" {
		if live {
			return io.Discard, func() {}, nil
		}
		return stderr, func() {}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return file, func() { _ = file.Close() }, nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
