package progress

import (
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// defaultColumns returns the results table columns.
func defaultColumns() []table.Column {
	return columnsForWidth(80)
}

// columnsForWidth sizes the image column to the terminal width.
func columnsForWidth(width int) []table.Column {
	imageWidth := max(width-10-18-10-24-8, 12)
	return []table.Column{
		{Title: "Question", Width: 10},
		{Title: "Image", Width: imageWidth},
		{Title: "Outcome", Width: 18},
		{Title: "Overlap", Width: 10},
		{Title: "Targets", Width: 24},
	}
}

// tableStyles returns table styles for the UI.
func tableStyles(noColor bool) table.Styles {
	if noColor {
		return table.DefaultStyles()
	}
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(lipgloss.Color("252"))
	return styles
}

// rowsForState converts UI state into table rows.
func rowsForState(state State, noColor bool) []table.Row {
	rows := make([]table.Row, 0, len(state.Rows))
	for _, row := range state.Rows {
		rows = append(rows, table.Row{
			strconv.Itoa(row.QuestionIndex),
			row.Image,
			stylizeReason(reasonLabel(row.Reason), row.Reason, noColor),
			formatScore(row),
			formatTargets(row),
		})
	}
	return rows
}
