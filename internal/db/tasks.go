package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ldi/taskboard/pkg/models"
)

// CreateTask inserts a new task. If t.ID is empty, a new UUID is generated.
// When t.AssigneeIDs is populated the multi-assignee representation is
// stored and the legacy column stays NULL; otherwise the legacy t.AssigneeID
// (possibly nil) is stored.
func (db *DB) CreateTask(ctx context.Context, t *models.Task) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Status == "" {
		t.Status = models.TaskStatusTodo
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	var legacyID *string
	if len(t.AssigneeIDs) == 0 {
		legacyID = t.AssigneeID
	}

	query := `
		INSERT INTO tasks (id, title, project, due_date, status, duration_minutes, assignee_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := db.ExecContext(ctx, query,
		t.ID, t.Title, t.Project, t.DueDate, t.Status, t.DurationMinutes, legacyID, t.CreatedAt, t.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	for _, id := range t.AssigneeIDs {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO task_assignees (task_id, assignee_id) VALUES (?, ?)`, t.ID, id,
		); err != nil {
			return fmt.Errorf("failed to attach assignee %s: %w", id, err)
		}
	}

	db.triggerChange(ctx)
	return nil
}

// GetTask retrieves a task by its ID.
func (db *DB) GetTask(ctx context.Context, id string) (*models.Task, error) {
	query := `
		SELECT id, title, project, due_date, status, duration_minutes, assignee_id, created_at, updated_at
		FROM tasks
		WHERE id = ?
	`
	t := &models.Task{}
	err := db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.Title, &t.Project, &t.DueDate, &t.Status, &t.DurationMinutes, &t.AssigneeID, &t.CreatedAt, &t.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	if err := db.attachAssigneeSets(ctx, []*models.Task{t}); err != nil {
		return nil, err
	}
	return t, nil
}

// GetTaskByTitle retrieves a task by its title.
func (db *DB) GetTaskByTitle(ctx context.Context, title string) (*models.Task, error) {
	query := `
		SELECT id, title, project, due_date, status, duration_minutes, assignee_id, created_at, updated_at
		FROM tasks
		WHERE title = ?
	`
	t := &models.Task{}
	err := db.QueryRowContext(ctx, query, title).Scan(
		&t.ID, &t.Title, &t.Project, &t.DueDate, &t.Status, &t.DurationMinutes, &t.AssigneeID, &t.CreatedAt, &t.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task by title: %w", err)
	}

	if err := db.attachAssigneeSets(ctx, []*models.Task{t}); err != nil {
		return nil, err
	}
	return t, nil
}

// ListTasks returns tasks, optionally filtered by status and/or project.
func (db *DB) ListTasks(ctx context.Context, status *models.TaskStatus, project *string) ([]*models.Task, error) {
	query := `
		SELECT id, title, project, due_date, status, duration_minutes, assignee_id, created_at, updated_at
		FROM tasks
		WHERE 1=1
	`
	args := []interface{}{}

	if status != nil {
		query += " AND status = ?"
		args = append(args, *status)
	}

	if project != nil {
		query += " AND project = ?"
		args = append(args, *project)
	}

	query += " ORDER BY created_at ASC"

	return db.queryTasks(ctx, query, args...)
}

// ListTasksForAssignee returns the tasks a workload row click selects:
// tasks carrying the id in either assignee representation, or, when
// assigneeID is nil, tasks with no assignee at all.
func (db *DB) ListTasksForAssignee(ctx context.Context, assigneeID *string) ([]*models.Task, error) {
	if assigneeID == nil {
		query := `
			SELECT t.id, t.title, t.project, t.due_date, t.status, t.duration_minutes, t.assignee_id, t.created_at, t.updated_at
			FROM tasks t
			WHERE t.assignee_id IS NULL
			  AND NOT EXISTS (SELECT 1 FROM task_assignees ta WHERE ta.task_id = t.id)
			ORDER BY t.created_at ASC
		`
		return db.queryTasks(ctx, query)
	}

	query := `
		SELECT t.id, t.title, t.project, t.due_date, t.status, t.duration_minutes, t.assignee_id, t.created_at, t.updated_at
		FROM tasks t
		WHERE t.assignee_id = ?
		   OR EXISTS (SELECT 1 FROM task_assignees ta WHERE ta.task_id = t.id AND ta.assignee_id = ?)
		ORDER BY t.created_at ASC
	`
	return db.queryTasks(ctx, query, *assigneeID, *assigneeID)
}

// UpdateTask updates a task's editable fields.
func (db *DB) UpdateTask(ctx context.Context, t *models.Task) error {
	t.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE tasks
		SET title = ?, project = ?, due_date = ?, status = ?, duration_minutes = ?, updated_at = ?
		WHERE id = ?
	`
	if _, err := db.ExecContext(ctx, query,
		t.Title, t.Project, t.DueDate, t.Status, t.DurationMinutes, t.UpdatedAt, t.ID,
	); err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	db.triggerChange(ctx)
	return nil
}

// UpdateTaskStatus updates only a task's status.
func (db *DB) UpdateTaskStatus(ctx context.Context, id string, status models.TaskStatus) error {
	query := `UPDATE tasks SET status = ?, updated_at = ? WHERE id = ?`
	if _, err := db.ExecContext(ctx, query, status, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}

	db.triggerChange(ctx)
	return nil
}

// SetTaskAssignees replaces a task's assignee set. The legacy single-assignee
// column is cleared so only one representation stays populated.
func (db *DB) SetTaskAssignees(ctx context.Context, taskID string, assigneeIDs []string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM task_assignees WHERE task_id = ?`, taskID); err != nil {
		return fmt.Errorf("failed to clear assignees: %w", err)
	}
	for _, id := range assigneeIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO task_assignees (task_id, assignee_id) VALUES (?, ?)`, taskID, id,
		); err != nil {
			return fmt.Errorf("failed to attach assignee %s: %w", id, err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE tasks SET assignee_id = NULL, updated_at = ? WHERE id = ?`, time.Now().UTC(), taskID,
	); err != nil {
		return fmt.Errorf("failed to clear legacy assignee: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit assignee change: %w", err)
	}

	db.triggerChange(ctx)
	return nil
}

// DeleteTask deletes a task (cascades to its assignee set).
func (db *DB) DeleteTask(ctx context.Context, id string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	db.triggerChange(ctx)
	return nil
}

// queryTasks is a helper to execute a query that returns a list of tasks.
func (db *DB) queryTasks(ctx context.Context, query string, args ...interface{}) ([]*models.Task, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		t := &models.Task{}
		err := rows.Scan(
			&t.ID, &t.Title, &t.Project, &t.DueDate, &t.Status, &t.DurationMinutes, &t.AssigneeID, &t.CreatedAt, &t.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := db.attachAssigneeSets(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// attachAssigneeSets loads multi-assignee sets and keeps at most one
// representation populated per task: a non-empty set clears the legacy field.
func (db *DB) attachAssigneeSets(ctx context.Context, tasks []*models.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	byID := make(map[string]*models.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	rows, err := db.QueryContext(ctx,
		`SELECT task_id, assignee_id FROM task_assignees ORDER BY task_id, assignee_id`)
	if err != nil {
		return fmt.Errorf("failed to load assignee sets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var taskID, assigneeID string
		if err := rows.Scan(&taskID, &assigneeID); err != nil {
			return fmt.Errorf("failed to scan assignee set: %w", err)
		}
		if t, ok := byID[taskID]; ok {
			t.AssigneeIDs = append(t.AssigneeIDs, assigneeID)
			t.AssigneeID = nil
		}
	}
	return rows.Err()
}
