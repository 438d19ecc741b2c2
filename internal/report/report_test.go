package report

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"uclevr/internal/evaluator"
	"uclevr/internal/groundtruth"
	"uclevr/internal/testutil"
)

func sampleData() Data {
	return Data{
		ConfigPath: "config.yml",
		RunID:      "run-1",
		Summary: evaluator.Summary{
			Phase:     evaluator.PhaseEvaluate,
			Accuracy:  0.75,
			Computed:  true,
			Total:     2,
			Completed: 1,
			Skipped:   map[evaluator.Reason]int{evaluator.ReasonNoTarget: 1},
			Results: []evaluator.QuestionResult{
				{QuestionIndex: 7, Image: "CLEVR_<0>", Reason: evaluator.ReasonScored, Score: 0.75, HasStats: true,
					Stats: groundtruth.Stats{TargetObjects: 1, TotalObjects: 3, MaskFraction: 0.2}},
				{QuestionIndex: 8, Image: "CLEVR_1", Reason: evaluator.ReasonNoTarget, Score: math.NaN()},
			},
		},
	}
}

// TestBuildReportHTML verifies report HTML includes run metadata.
func TestBuildReportHTML(t *testing.T) {
	html := BuildReportHTML(sampleData())
	for _, token := range []string{"0.7500", "run-1", "config.yml", "no_target", "1 / 3", "20.00%", "<table"} {
		if !strings.Contains(html, token) {
			t.Fatalf("expected report to include %q", token)
		}
	}
	if !strings.Contains(html, "CLEVR_&lt;0&gt;") {
		t.Fatalf("expected image key to be escaped")
	}
}

// TestBuildReportHTMLNotComputed verifies a run without scores says so.
func TestBuildReportHTMLNotComputed(t *testing.T) {
	html := BuildReportHTML(Data{Summary: evaluator.Summary{Phase: evaluator.PhaseGroundTruth}})
	if !strings.Contains(html, "not computed") {
		t.Fatalf("expected not computed marker")
	}
	if !strings.Contains(html, "No questions.") {
		t.Fatalf("expected empty question notice")
	}
}

// TestWriteFile verifies the report is written to disk.
func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.html")
	if err := WriteFile(testutil.Context(t, 0), path, sampleData()); err != nil {
		t.Fatalf("write report: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.HasPrefix(string(data), "<!doctype html>") {
		t.Fatalf("unexpected report prefix: %.40s", data)
	}
}
