package workload

import (
	"time"

	"github.com/ldi/taskboard/pkg/models"
)

const (
	// UnassignedName labels buckets with no resolvable assignee record.
	UnassignedName = "Unassigned"
	// defaultColor is the neutral tag used when the directory has no color.
	defaultColor = "240"
)

// bucketKey distinguishes "no assignee at all" from a real (possibly
// unknown) assignee id, instead of leaning on a nullable map key.
type bucketKey struct {
	assigned bool
	id       string
}

var unassignedKey = bucketKey{}

// assigneeKeys returns the bucket keys a task fans out to. The result is
// never empty: the multi-assignee set wins when populated, then the legacy
// single field, then the unassigned key.
func assigneeKeys(t *models.Task) []bucketKey {
	if len(t.AssigneeIDs) > 0 {
		keys := make([]bucketKey, 0, len(t.AssigneeIDs))
		for _, id := range t.AssigneeIDs {
			keys = append(keys, bucketKey{assigned: true, id: id})
		}
		return keys
	}
	if t.AssigneeID != nil {
		return []bucketKey{{assigned: true, id: *t.AssigneeID}}
	}
	return []bucketKey{unassignedKey}
}

// groupTasks accumulates the filtered tasks into per-assignee buckets.
// Buckets are returned in first-encounter order so that ranking starts from
// a deterministic base order.
func groupTasks(tasks []*models.Task, directory map[string]*models.Assignee, now time.Time) []*Row {
	buckets := make(map[bucketKey]*Row)
	var order []*Row

	for _, t := range tasks {
		for _, key := range assigneeKeys(t) {
			row, ok := buckets[key]
			if !ok {
				row = newRow(key, directory)
				buckets[key] = row
				order = append(order, row)
			}

			row.Total++
			switch t.Status {
			case models.TaskStatusTodo:
				row.Todo++
			case models.TaskStatusInProgress:
				row.InProgress++
			case models.TaskStatusInTest:
				row.InTest++
			case models.TaskStatusDone:
				row.Done++
			}
			// Unknown statuses count toward Total only.
			row.TotalMinutes += t.DurationMinutes
			if isOverdue(t, now) {
				row.Overdue++
			}
		}
	}

	return order
}

func newRow(key bucketKey, directory map[string]*models.Assignee) *Row {
	row := &Row{Name: UnassignedName, Color: defaultColor}
	if !key.assigned {
		return row
	}

	// An id missing from the directory keeps its key (it never merges with
	// the true unassigned bucket) but falls back to the unassigned label.
	id := key.id
	row.AssigneeID = &id
	if a, ok := directory[key.id]; ok {
		row.Name = a.Name
		if a.Color != "" {
			row.Color = a.Color
		}
	}
	return row
}

// isOverdue reports whether the task's due date, taken at midnight, is
// strictly before now's midnight. Done tasks and tasks without a due date
// are never overdue.
func isOverdue(t *models.Task, now time.Time) bool {
	if t.DueDate == nil || t.Status == models.TaskStatusDone {
		return false
	}
	return startOfDay(*t.DueDate).Before(startOfDay(now))
}
