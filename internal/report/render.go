package report

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/a-h/templ"

	"uclevr/internal/evaluator"
)

const pageStyle = `body{font-family:sans-serif;margin:2em;color:#222}
table{border-collapse:collapse;margin-bottom:2em}
th,td{border:1px solid #ccc;padding:4px 10px;text-align:left}
th{background:#f3f3f3}
.skipped{color:#888}`

// ReportPage renders the full report document.
func ReportPage(data Data) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title := data.Title
		if title == "" {
			title = "Unique CLEVR evaluation"
		}
		if _, err := fmt.Fprintf(w, "<!doctype html><html><head><meta charset=\"utf-8\"><title>%s</title><style>%s</style></head><body><h1>%s</h1>",
			templ.EscapeString(title), pageStyle, templ.EscapeString(title)); err != nil {
			return err
		}
		if err := summaryTable(data).Render(ctx, w); err != nil {
			return err
		}
		if err := skippedTable(data.Summary).Render(ctx, w); err != nil {
			return err
		}
		if err := questionTable(data.Summary.Results).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</body></html>")
		return err
	})
}

func summaryTable(data Data) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		s := data.Summary
		rows := [][2]string{
			{"Phase", string(s.Phase)},
			{"Overall accuracy", formatAccuracy(s)},
			{"Questions", strconv.Itoa(s.Total)},
			{"Completed", strconv.Itoa(s.Completed)},
			{"Skipped", strconv.Itoa(s.SkippedTotal())},
		}
		if s.MeanTargetObjects > 0 {
			rows = append(rows,
				[2]string{"Mean target objects", fmt.Sprintf("%.2f", s.MeanTargetObjects)},
				[2]string{"Mean mask fraction", formatPercent(s.MeanMaskFraction)},
			)
		}
		if data.ConfigPath != "" {
			rows = append(rows, [2]string{"Config", data.ConfigPath})
		}
		if data.RunID != "" {
			rows = append(rows, [2]string{"Run", data.RunID})
		}
		if _, err := io.WriteString(w, "<h2>Summary</h2><table class=\"summary\">"); err != nil {
			return err
		}
		for _, row := range rows {
			if _, err := fmt.Fprintf(w, "<tr><th>%s</th><td>%s</td></tr>", templ.EscapeString(row[0]), templ.EscapeString(row[1])); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</table>")
		return err
	})
}

func skippedTable(s evaluator.Summary) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(s.Skipped) == 0 {
			return nil
		}
		reasons := make([]string, 0, len(s.Skipped))
		for reason := range s.Skipped {
			reasons = append(reasons, string(reason))
		}
		sort.Strings(reasons)
		if _, err := io.WriteString(w, "<h2>Skipped questions</h2><table class=\"skipped-reasons\"><tr><th>Reason</th><th>Questions</th></tr>"); err != nil {
			return err
		}
		for _, reason := range reasons {
			count := s.Skipped[evaluator.Reason(reason)]
			if _, err := fmt.Fprintf(w, "<tr><td>%s</td><td>%d</td></tr>", templ.EscapeString(reason), count); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</table>")
		return err
	})
}

func questionTable(results []evaluator.QuestionResult) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(results) == 0 {
			_, err := io.WriteString(w, "<p>No questions.</p>")
			return err
		}
		if _, err := io.WriteString(w, "<h2>Questions</h2><table class=\"questions\"><tr><th>Question</th><th>Image</th><th>Outcome</th><th>Overlap</th><th>Targets</th><th>Mask</th></tr>"); err != nil {
			return err
		}
		for _, r := range results {
			class := ""
			if r.Reason.Skipped() {
				class = " class=\"skipped\""
			}
			targets, fraction := "-", "-"
			if r.HasStats {
				targets = fmt.Sprintf("%d / %d", r.Stats.TargetObjects, r.Stats.TotalObjects)
				fraction = formatPercent(r.Stats.MaskFraction)
			}
			if _, err := fmt.Fprintf(w, "<tr%s><td>%d</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>",
				class, r.QuestionIndex, templ.EscapeString(r.Image), templ.EscapeString(string(r.Reason)),
				formatScore(r), templ.EscapeString(targets), fraction); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</table>")
		return err
	})
}
