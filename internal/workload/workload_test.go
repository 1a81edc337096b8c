package workload

import (
	"testing"
	"time"

	"github.com/ldi/taskboard/pkg/models"
)

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func TestComputeAliceScenario(t *testing.T) {
	assignees := []*models.Assignee{{ID: "1", Name: "Alice", Color: "12"}}
	tasks := []*models.Task{
		{Status: models.TaskStatusTodo, AssigneeID: strPtr("1")},
		{Status: models.TaskStatusTodo, AssigneeID: strPtr("1")},
		{Status: models.TaskStatusInProgress, AssigneeID: strPtr("1"), DueDate: dueOn(2024, 3, 20)},
		{Status: models.TaskStatusInProgress, AssigneeID: strPtr("1"), DueDate: dueOn(2024, 3, 10)}, // overdue
		{Status: models.TaskStatusDone, AssigneeID: strPtr("1")},
	}

	rows := Compute(tasks, assignees, Selection{Mode: PeriodAllTime}, testNow)
	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}

	r := rows[0]
	if r.Name != "Alice" {
		t.Errorf("Expected name Alice, got %s", r.Name)
	}
	if r.Total != 5 || r.Todo != 2 || r.InProgress != 2 || r.InTest != 0 || r.Done != 1 {
		t.Errorf("Unexpected counts: %+v", r)
	}
	if r.Overdue != 1 {
		t.Errorf("Expected 1 overdue, got %d", r.Overdue)
	}
	// 2*1 + 2*2 + 0*1.5 + 1*3
	if r.Score != 9 {
		t.Errorf("Expected score 9, got %v", r.Score)
	}
	if r.Total != r.Todo+r.InProgress+r.InTest+r.Done {
		t.Errorf("Total must equal the sum of status counts: %+v", r)
	}
}

func TestComputeMultiAssigneeFanOut(t *testing.T) {
	tasks := []*models.Task{
		{Status: models.TaskStatusTodo, AssigneeIDs: []string{"a", "b"}},
	}

	rows := Compute(tasks, nil, Selection{Mode: PeriodAllTime}, testNow)
	if len(rows) != 2 {
		t.Fatalf("Expected exactly 2 rows, got %d", len(rows))
	}
	for _, r := range rows {
		if r.Total != 1 {
			t.Errorf("Expected total 1 in row %v, got %d", r.AssigneeID, r.Total)
		}
	}
}

func TestComputeFanOutConservation(t *testing.T) {
	tasks := []*models.Task{
		{Status: models.TaskStatusTodo, AssigneeIDs: []string{"a", "b", "c"}},
		{Status: models.TaskStatusInProgress, AssigneeID: strPtr("a")},
		{Status: models.TaskStatusDone},
		{Status: "mystery", AssigneeID: strPtr("b")},
	}

	wantContributions := 0
	for _, task := range tasks {
		wantContributions += len(assigneeKeys(task))
	}

	rows := Compute(tasks, nil, Selection{Mode: PeriodAllTime}, testNow)
	got := 0
	for _, r := range rows {
		got += r.Total
	}
	if got != wantContributions {
		t.Errorf("Expected total contributions %d, got %d", wantContributions, got)
	}
}

func TestComputeUnassignedSelection(t *testing.T) {
	tasks := []*models.Task{{Status: models.TaskStatusTodo}}

	rows := Compute(tasks, nil, Selection{Mode: PeriodAllTime}, testNow)
	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}
	if rows[0].AssigneeID != nil {
		t.Errorf("Expected nil assignee id for unassigned row")
	}
	if id, ok := rows[0].SelectionID(); ok || id != "" {
		t.Errorf("Expected empty selection for unassigned row, got %q/%v", id, ok)
	}
}

func TestComputeScoreMonotonicity(t *testing.T) {
	base := []*models.Task{
		{Status: models.TaskStatusTodo, AssigneeID: strPtr("a")},
		{Status: models.TaskStatusInProgress, AssigneeID: strPtr("a")},
	}
	withOverdue := append([]*models.Task{
		{Status: models.TaskStatusInProgress, AssigneeID: strPtr("a"), DueDate: dueOn(2024, 3, 1)},
	}, base...)
	withoutOverdue := append([]*models.Task{
		{Status: models.TaskStatusInProgress, AssigneeID: strPtr("a"), DueDate: dueOn(2024, 3, 20)},
	}, base...)

	before := Compute(withoutOverdue, nil, Selection{Mode: PeriodAllTime}, testNow)[0].Score
	after := Compute(withOverdue, nil, Selection{Mode: PeriodAllTime}, testNow)[0].Score
	if after-before != 3 {
		t.Errorf("Expected one extra overdue to add exactly 3, got %v -> %v", before, after)
	}
}

func TestComputeSortOrder(t *testing.T) {
	tasks := []*models.Task{
		// c: 1 todo -> score 1
		{Status: models.TaskStatusTodo, AssigneeID: strPtr("c")},
		// a: 1 in-progress, overdue -> score 2 + 3 = 5, overdue 1
		{Status: models.TaskStatusInProgress, AssigneeID: strPtr("a"), DueDate: dueOn(2024, 3, 1)},
		// b: 1 todo + 2 in-progress + 1 done -> score 1 + 4 = 5, overdue 0
		{Status: models.TaskStatusTodo, AssigneeID: strPtr("b")},
		{Status: models.TaskStatusInProgress, AssigneeID: strPtr("b"), DueDate: dueOn(2024, 3, 20)},
		{Status: models.TaskStatusInProgress, AssigneeID: strPtr("b"), DueDate: dueOn(2024, 3, 21)},
		{Status: models.TaskStatusDone, AssigneeID: strPtr("b")},
	}

	rows := Compute(tasks, nil, Selection{Mode: PeriodAllTime}, testNow)
	for i := 0; i < len(rows)-1; i++ {
		r1, r2 := rows[i], rows[i+1]
		ordered := r1.Score > r2.Score ||
			(r1.Score == r2.Score && r1.Overdue > r2.Overdue) ||
			(r1.Score == r2.Score && r1.Overdue == r2.Overdue && r1.Total >= r2.Total)
		if !ordered {
			t.Errorf("Rows %d and %d out of order: %+v before %+v", i, i+1, r1, r2)
		}
	}

	// a and b both score 5; a wins on overdue count.
	if *rows[0].AssigneeID != "a" {
		t.Errorf("Expected a to lead on the overdue tie-break, got %v", *rows[0].AssigneeID)
	}
	var aIdx, bIdx int
	for i, r := range rows {
		if r.AssigneeID != nil && *r.AssigneeID == "a" {
			aIdx = i
		}
		if r.AssigneeID != nil && *r.AssigneeID == "b" {
			bIdx = i
		}
	}
	if aIdx > bIdx {
		t.Errorf("Equal scores must rank the higher overdue count first (a=%d, b=%d)", aIdx, bIdx)
	}
}

func TestComputeStableAcrossRuns(t *testing.T) {
	tasks := []*models.Task{
		{Status: models.TaskStatusTodo, AssigneeID: strPtr("a")},
		{Status: models.TaskStatusTodo, AssigneeID: strPtr("b")},
		{Status: models.TaskStatusTodo, AssigneeID: strPtr("c")},
	}

	first := Compute(tasks, nil, Selection{Mode: PeriodAllTime}, testNow)
	for i := 0; i < 10; i++ {
		again := Compute(tasks, nil, Selection{Mode: PeriodAllTime}, testNow)
		for j := range first {
			if *first[j].AssigneeID != *again[j].AssigneeID {
				t.Fatalf("Run %d: order changed at %d (%s vs %s)",
					i, j, *first[j].AssigneeID, *again[j].AssigneeID)
			}
		}
	}
}

func TestComputeUnboundedIncludesNoDueDate(t *testing.T) {
	tasks := []*models.Task{{Status: models.TaskStatusTodo}}

	rows := Compute(tasks, nil, Selection{Mode: PeriodAllTime}, testNow)
	if len(rows) != 1 || rows[0].Total != 1 {
		t.Errorf("Expected the due-date-less task to survive all-time, got %+v", rows)
	}
}

func TestComputeWindowedExclusion(t *testing.T) {
	tasks := []*models.Task{
		{ID: "excluded", Status: models.TaskStatusTodo, AssigneeID: strPtr("a"), DueDate: dueOn(2024, 3, 7)},  // D-8
		{ID: "included", Status: models.TaskStatusTodo, AssigneeID: strPtr("a"), DueDate: dueOn(2024, 3, 9)},  // D-6
	}

	rows := Compute(tasks, nil, Selection{Mode: PeriodLast7Days}, testNow)
	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}
	if rows[0].Total != 1 {
		t.Errorf("Expected only the D-6 task to survive, got total %d", rows[0].Total)
	}
}

func TestComputeEmptyInputs(t *testing.T) {
	rows := Compute(nil, nil, Selection{Mode: PeriodAllTime}, testNow)
	if len(rows) != 0 {
		t.Errorf("Expected empty row list, got %d rows", len(rows))
	}
}

func TestComputeDoesNotMutateInputs(t *testing.T) {
	task := &models.Task{Status: models.TaskStatusTodo, AssigneeIDs: []string{"a", "b"}}
	tasks := []*models.Task{task}

	Compute(tasks, nil, Selection{Mode: PeriodAllTime}, testNow)

	if task.Status != models.TaskStatusTodo || len(task.AssigneeIDs) != 2 {
		t.Errorf("Compute mutated its input: %+v", task)
	}
}
