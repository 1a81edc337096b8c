// Package workload derives a ranked per-assignee workload summary from a
// flat task collection and a period selection. The whole package is a pure
// transform: no clock reads, no I/O, no mutation of its inputs, so callers
// may recompute (or memoize) freely on every input change.
package workload

import (
	"time"

	"github.com/ldi/taskboard/pkg/models"
)

// Row is one assignee's accumulated workload. It is derived on demand and
// never persisted. AssigneeID is nil for the unassigned bucket.
type Row struct {
	AssigneeID   *string `json:"assignee_id"`
	Name         string  `json:"name"`
	Color        string  `json:"color"`
	Todo         int     `json:"todo"`
	InProgress   int     `json:"in_progress"`
	InTest       int     `json:"in_test"`
	Done         int     `json:"done"`
	Overdue      int     `json:"overdue"`
	Total        int     `json:"total"`
	TotalMinutes int     `json:"total_minutes"`
	Score        float64 `json:"score"`
}

// SelectionID returns the id a row click should carry back to the host:
// the assignee id and true, or "" and false for the unassigned bucket.
func (r *Row) SelectionID() (string, bool) {
	if r.AssigneeID == nil {
		return "", false
	}
	return *r.AssigneeID, true
}

// Compute runs the full pipeline: resolve the period, filter tasks by due
// date, fan tasks out to per-assignee buckets, score and rank them. now is
// injected so results are deterministic and testable.
func Compute(tasks []*models.Task, assignees []*models.Assignee, sel Selection, now time.Time) []*Row {
	directory := make(map[string]*models.Assignee, len(assignees))
	for _, a := range assignees {
		directory[a.ID] = a
	}

	filtered := FilterTasks(tasks, ResolvePeriod(sel, now))
	rows := groupTasks(filtered, directory, now)

	weights := DefaultLoadWeights()
	for _, row := range rows {
		row.Score = weights.Score(row)
	}

	rankRows(rows)
	return rows
}
