package components

import (
	"strings"
	"testing"

	"github.com/ldi/taskboard/internal/workload"
)

func strPtr(s string) *string { return &s }

func sampleRows() []*workload.Row {
	return []*workload.Row{
		{AssigneeID: strPtr("a1"), Name: "Alice", Color: "12", Todo: 2, Overdue: 1, Total: 3, Score: 5},
		{AssigneeID: strPtr("a2"), Name: "Bob", Color: "42", Todo: 1, Total: 1, Score: 1},
		{Name: "Unassigned", Color: "240", Todo: 1, Total: 1, Score: 1},
	}
}

func TestWorkloadTableView(t *testing.T) {
	w := NewWorkloadTable(80)
	w.SetRows(sampleRows())

	view := w.View()

	if !strings.Contains(view, "Workload") {
		t.Errorf("expected view to contain title")
	}
	if !strings.Contains(view, "Alice") || !strings.Contains(view, "Bob") {
		t.Errorf("expected view to contain assignee names")
	}
	if !strings.Contains(view, "Unassigned") {
		t.Errorf("expected view to contain the unassigned row")
	}

	aliceIdx := strings.Index(view, "Alice")
	bobIdx := strings.Index(view, "Bob")
	if aliceIdx > bobIdx {
		t.Errorf("expected rows rendered in given order")
	}
}

func TestWorkloadTableEmpty(t *testing.T) {
	w := NewWorkloadTable(80)
	w.SetRows(nil)

	view := w.View()
	if !strings.Contains(view, "No tasks in this period") {
		t.Errorf("expected placeholder for empty row set")
	}
}

func TestWorkloadTableCursor(t *testing.T) {
	w := NewWorkloadTable(80)
	w.SetRows(sampleRows())

	if w.Selected().Name != "Alice" {
		t.Errorf("expected cursor to start on first row")
	}

	w.MoveDown()
	w.MoveDown()
	if w.Selected().Name != "Unassigned" {
		t.Errorf("expected cursor on last row, got %s", w.Selected().Name)
	}

	// Cursor must not run past the end.
	w.MoveDown()
	if w.Selected().Name != "Unassigned" {
		t.Errorf("expected cursor clamped at last row")
	}

	w.MoveUp()
	if w.Selected().Name != "Bob" {
		t.Errorf("expected cursor on Bob, got %s", w.Selected().Name)
	}

	// Shrinking the row set clamps the cursor.
	w.SetRows(sampleRows()[:1])
	if w.Selected().Name != "Alice" {
		t.Errorf("expected cursor clamped after shrink, got %s", w.Selected().Name)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 20); got != "short" {
		t.Errorf("expected no truncation, got %s", got)
	}
	if got := truncate("a very long assignee name", 10); len([]rune(got)) != 10 {
		t.Errorf("expected truncation to 10 runes, got %q", got)
	}
}
