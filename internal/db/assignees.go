package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ldi/taskboard/pkg/models"
)

// CreateAssignee inserts a new assignee. If a.ID is empty, a new UUID is
// generated.
func (db *DB) CreateAssignee(ctx context.Context, a *models.Assignee) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	a.CreatedAt = time.Now().UTC()

	query := `INSERT INTO assignees (id, name, color, created_at) VALUES (?, ?, ?, ?)`
	if _, err := db.ExecContext(ctx, query, a.ID, a.Name, a.Color, a.CreatedAt); err != nil {
		return fmt.Errorf("failed to create assignee: %w", err)
	}

	db.triggerChange(ctx)
	return nil
}

// GetAssignee retrieves an assignee by its ID.
func (db *DB) GetAssignee(ctx context.Context, id string) (*models.Assignee, error) {
	query := `SELECT id, name, color, created_at FROM assignees WHERE id = ?`
	a := &models.Assignee{}
	err := db.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.Name, &a.Color, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assignee: %w", err)
	}
	return a, nil
}

// GetAssigneeByName retrieves an assignee by its display name.
func (db *DB) GetAssigneeByName(ctx context.Context, name string) (*models.Assignee, error) {
	query := `SELECT id, name, color, created_at FROM assignees WHERE name = ?`
	a := &models.Assignee{}
	err := db.QueryRowContext(ctx, query, name).Scan(&a.ID, &a.Name, &a.Color, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assignee by name: %w", err)
	}
	return a, nil
}

// ListAssignees returns all assignees.
func (db *DB) ListAssignees(ctx context.Context) ([]*models.Assignee, error) {
	query := `SELECT id, name, color, created_at FROM assignees ORDER BY created_at ASC`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignees: %w", err)
	}
	defer rows.Close()

	var assignees []*models.Assignee
	for rows.Next() {
		a := &models.Assignee{}
		if err := rows.Scan(&a.ID, &a.Name, &a.Color, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan assignee: %w", err)
		}
		assignees = append(assignees, a)
	}
	return assignees, rows.Err()
}

// DeleteAssignee deletes an assignee. Tasks referencing it through the
// legacy column fall back to NULL; set memberships are removed.
func (db *DB) DeleteAssignee(ctx context.Context, id string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM assignees WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete assignee: %w", err)
	}

	db.triggerChange(ctx)
	return nil
}
