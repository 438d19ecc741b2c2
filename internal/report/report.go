// Package report renders a standalone HTML summary of an evaluation run.
package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"uclevr/internal/evaluator"
)

// Data is everything shown in a report.
type Data struct {
	Title      string
	ConfigPath string
	RunID      string
	Summary    evaluator.Summary
}

// BuildReportHTML renders a report, returning an empty string on failure.
func BuildReportHTML(data Data) string {
	html, err := RenderReportHTML(context.Background(), data)
	if err != nil {
		return ""
	}
	return html
}

// RenderReportHTML renders the report template into a string.
func RenderReportHTML(ctx context.Context, data Data) (string, error) {
	var builder strings.Builder
	if err := ReportPage(data).Render(ctx, &builder); err != nil {
		return "", err
	}
	return builder.String(), nil
}

// WriteFile renders the report to path.
func WriteFile(ctx context.Context, path string, data Data) error {
	html, err := RenderReportHTML(ctx, data)
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
