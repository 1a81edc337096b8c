package workload

import (
	"time"

	"github.com/ldi/taskboard/pkg/models"
)

// FilterTasks returns the tasks whose due date falls inside r, preserving
// input order. An unbounded range passes every task, due date or not. A
// bounded range excludes tasks without a due date.
func FilterTasks(tasks []*models.Task, r Range) []*models.Task {
	if r.Unbounded {
		return tasks
	}

	var filtered []*models.Task
	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}
		if inRange(*t.DueDate, r) {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

func inRange(d time.Time, r Range) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}
