package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ldi/taskboard/internal/workload"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)

	rowStyle = lipgloss.NewStyle().
			Padding(0, 1)

	cursorRowStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("12")).
			Padding(0, 1)

	placeholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Italic(true).
				Padding(0, 1)
)

// WorkloadTable renders ranked workload rows with a movable cursor.
type WorkloadTable struct {
	Rows   []*workload.Row
	Cursor int
	Width  int
	Title  string
}

func NewWorkloadTable(width int) *WorkloadTable {
	return &WorkloadTable{
		Width: width,
		Title: "Workload",
	}
}

// SetRows swaps in a freshly computed row set and clamps the cursor.
func (w *WorkloadTable) SetRows(rows []*workload.Row) {
	w.Rows = rows
	if w.Cursor >= len(rows) {
		w.Cursor = len(rows) - 1
	}
	if w.Cursor < 0 {
		w.Cursor = 0
	}
}

func (w *WorkloadTable) MoveUp() {
	if w.Cursor > 0 {
		w.Cursor--
	}
}

func (w *WorkloadTable) MoveDown() {
	if w.Cursor < len(w.Rows)-1 {
		w.Cursor++
	}
}

// Selected returns the row under the cursor, or nil when there are no rows.
func (w *WorkloadTable) Selected() *workload.Row {
	if len(w.Rows) == 0 {
		return nil
	}
	return w.Rows[w.Cursor]
}

func (w *WorkloadTable) View() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render(w.Title))
	s.WriteString("\n")
	s.WriteString(headerStyle.Render(fmt.Sprintf("%-20s %5s %5s %5s %5s %5s %7s %7s",
		"Assignee", "Todo", "Prog", "Test", "Done", "Over", "Mins", "Score")))
	s.WriteString("\n")

	if len(w.Rows) == 0 {
		s.WriteString(placeholderStyle.Render("No tasks in this period"))
		s.WriteString("\n")
		return s.String()
	}

	for i, row := range w.Rows {
		line := fmt.Sprintf("%-20s %5d %5d %5d %5d %5d %7d %7.1f",
			truncate(row.Name, 20), row.Todo, row.InProgress, row.InTest, row.Done,
			row.Overdue, row.TotalMinutes, row.Score)

		if i == w.Cursor {
			s.WriteString(cursorRowStyle.Render("> " + line))
		} else {
			s.WriteString(rowStyle.Foreground(lipgloss.Color(row.Color)).Render("  " + line))
		}
		s.WriteString("\n")
	}

	return s.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
