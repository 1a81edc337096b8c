package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ldi/taskboard/internal/db"
	"github.com/ldi/taskboard/internal/workload"
	"github.com/ldi/taskboard/pkg/models"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const dueDateLayout = "2006-01-02"

// NewServer creates a new MCP server.
func NewServer(database *db.DB) *server.MCPServer {
	s := server.NewMCPServer("Taskboard", "0.1.0")

	// Task Management
	s.AddTool(mcp.NewTool("create_task",
		mcp.WithDescription("Create a new task."),
		mcp.WithString("title", mcp.Description("Task title (unique)"), mcp.Required()),
		mcp.WithString("project", mcp.Description("Project the task belongs to")),
		mcp.WithString("due_date", mcp.Description("Due date (YYYY-MM-DD)")),
		mcp.WithString("status", mcp.Description("Status (todo|in_progress|in_test|done), defaults to todo")),
		mcp.WithNumber("duration_minutes", mcp.Description("Estimated duration in minutes")),
		mcp.WithString("assignee", mcp.Description("Assignee name")),
	), createTaskHandler(database))

	s.AddTool(mcp.NewTool("update_task",
		mcp.WithDescription("Update an existing task."),
		mcp.WithString("title", mcp.Description("Task title"), mcp.Required()),
		mcp.WithString("new_title", mcp.Description("New title")),
		mcp.WithString("project", mcp.Description("New project")),
		mcp.WithString("due_date", mcp.Description("New due date (YYYY-MM-DD), empty string clears it")),
		mcp.WithNumber("duration_minutes", mcp.Description("New duration in minutes")),
	), updateTaskHandler(database))

	s.AddTool(mcp.NewTool("update_task_status",
		mcp.WithDescription("Update task status."),
		mcp.WithString("title", mcp.Description("Task title"), mcp.Required()),
		mcp.WithString("status", mcp.Description("New status (todo|in_progress|in_test|done)"), mcp.Required()),
	), updateTaskStatusHandler(database))

	s.AddTool(mcp.NewTool("delete_task",
		mcp.WithDescription("Delete a task."),
		mcp.WithString("title", mcp.Description("Task title"), mcp.Required()),
	), deleteTaskHandler(database))

	s.AddTool(mcp.NewTool("list_tasks",
		mcp.WithDescription("List tasks, optionally filtered by status and/or project."),
		mcp.WithString("status", mcp.Description("Filter by status")),
		mcp.WithString("project", mcp.Description("Filter by project")),
	), listTasksHandler(database))

	s.AddTool(mcp.NewTool("assign_task",
		mcp.WithDescription("Replace a task's assignee set. An empty list leaves the task unassigned."),
		mcp.WithString("title", mcp.Description("Task title"), mcp.Required()),
		mcp.WithString("assignees", mcp.Description("Comma-separated assignee names")),
	), assignTaskHandler(database))

	// Assignee Management
	s.AddTool(mcp.NewTool("create_assignee",
		mcp.WithDescription("Create a new assignee."),
		mcp.WithString("name", mcp.Description("Display name (unique)"), mcp.Required()),
		mcp.WithString("color", mcp.Description("Color tag")),
	), createAssigneeHandler(database))

	s.AddTool(mcp.NewTool("list_assignees",
		mcp.WithDescription("List all assignees."),
	), listAssigneesHandler(database))

	s.AddTool(mcp.NewTool("delete_assignee",
		mcp.WithDescription("Delete an assignee."),
		mcp.WithString("name", mcp.Description("Display name"), mcp.Required()),
	), deleteAssigneeHandler(database))

	// Reporting
	s.AddTool(mcp.NewTool("workload_report",
		mcp.WithDescription("Rank assignees by load score for a period (last-7-days|last-1-month|last-3-months|last-1-year|all-time|custom)."),
		mcp.WithString("period", mcp.Description("Period mode, defaults to all-time")),
		mcp.WithString("start", mcp.Description("Custom period start (YYYY-MM-DD)")),
		mcp.WithString("end", mcp.Description("Custom period end (YYYY-MM-DD)")),
	), workloadReportHandler(database))

	return s
}

// Serve starts the MCP server on stdio.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func createTaskHandler(database *db.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		title := mcp.ParseString(request, "title", "")
		project := mcp.ParseString(request, "project", "")
		status := mcp.ParseString(request, "status", string(models.TaskStatusTodo))
		duration := mcp.ParseInt(request, "duration_minutes", 0)

		t := &models.Task{
			Title:           title,
			Project:         project,
			Status:          models.TaskStatus(status),
			DurationMinutes: duration,
		}

		if d := mcp.ParseString(request, "due_date", ""); d != "" {
			due, err := time.Parse(dueDateLayout, d)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Invalid due date '%s', expected YYYY-MM-DD", d)), nil
			}
			t.DueDate = &due
		}

		if name := mcp.ParseString(request, "assignee", ""); name != "" {
			a, err := database.GetAssigneeByName(ctx, name)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			if a == nil {
				return mcp.NewToolResultError(fmt.Sprintf("Assignee with name '%s' not found", name)), nil
			}
			t.AssigneeID = &a.ID
		}

		if err := database.CreateTask(ctx, t); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf("Task '%s' created with id %s", title, t.ID)), nil
	}
}

func updateTaskHandler(database *db.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		title := mcp.ParseString(request, "title", "")

		t, err := database.GetTaskByTitle(ctx, title)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if t == nil {
			return mcp.NewToolResultError(fmt.Sprintf("Task with title '%s' not found", title)), nil
		}

		args, _ := request.Params.Arguments.(map[string]any)
		if newTitle, ok := args["new_title"].(string); ok {
			t.Title = newTitle
		}
		if project, ok := args["project"].(string); ok {
			t.Project = project
		}
		if d, ok := args["due_date"].(string); ok {
			if d == "" {
				t.DueDate = nil
			} else {
				due, err := time.Parse(dueDateLayout, d)
				if err != nil {
					return mcp.NewToolResultError(fmt.Sprintf("Invalid due date '%s', expected YYYY-MM-DD", d)), nil
				}
				t.DueDate = &due
			}
		}
		if minutes, ok := args["duration_minutes"].(float64); ok {
			t.DurationMinutes = int(minutes)
		}

		if err := database.UpdateTask(ctx, t); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText("Task updated successfully"), nil
	}
}

func updateTaskStatusHandler(database *db.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		title := mcp.ParseString(request, "title", "")
		status := mcp.ParseString(request, "status", "")

		t, err := database.GetTaskByTitle(ctx, title)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if t == nil {
			return mcp.NewToolResultError(fmt.Sprintf("Task with title '%s' not found", title)), nil
		}

		if err := database.UpdateTaskStatus(ctx, t.ID, models.TaskStatus(status)); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText("Task status updated successfully"), nil
	}
}

func deleteTaskHandler(database *db.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		title := mcp.ParseString(request, "title", "")

		t, err := database.GetTaskByTitle(ctx, title)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if t == nil {
			return mcp.NewToolResultError(fmt.Sprintf("Task with title '%s' not found", title)), nil
		}

		if err := database.DeleteTask(ctx, t.ID); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText("Task deleted successfully"), nil
	}
}

func listTasksHandler(database *db.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]any)
		var status *models.TaskStatus
		if s, ok := args["status"].(string); ok && s != "" {
			ts := models.TaskStatus(s)
			status = &ts
		}

		var project *string
		if p, ok := args["project"].(string); ok && p != "" {
			project = &p
		}

		tasks, err := database.ListTasks(ctx, status, project)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		data, err := json.Marshal(map[string]interface{}{"tasks": tasks})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(string(data)), nil
	}
}

func assignTaskHandler(database *db.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		title := mcp.ParseString(request, "title", "")

		t, err := database.GetTaskByTitle(ctx, title)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if t == nil {
			return mcp.NewToolResultError(fmt.Sprintf("Task with title '%s' not found", title)), nil
		}

		var ids []string
		for _, name := range strings.Split(mcp.ParseString(request, "assignees", ""), ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			a, err := database.GetAssigneeByName(ctx, name)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			if a == nil {
				return mcp.NewToolResultError(fmt.Sprintf("Assignee with name '%s' not found", name)), nil
			}
			ids = append(ids, a.ID)
		}

		if err := database.SetTaskAssignees(ctx, t.ID, ids); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf("Task '%s' now has %d assignee(s)", title, len(ids))), nil
	}
}

func createAssigneeHandler(database *db.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		a := &models.Assignee{
			Name:  mcp.ParseString(request, "name", ""),
			Color: mcp.ParseString(request, "color", ""),
		}

		if err := database.CreateAssignee(ctx, a); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf("Assignee '%s' created with id %s", a.Name, a.ID)), nil
	}
}

func listAssigneesHandler(database *db.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		assignees, err := database.ListAssignees(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		data, err := json.Marshal(map[string]interface{}{"assignees": assignees})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(string(data)), nil
	}
}

func deleteAssigneeHandler(database *db.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := mcp.ParseString(request, "name", "")

		a, err := database.GetAssigneeByName(ctx, name)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if a == nil {
			return mcp.NewToolResultError(fmt.Sprintf("Assignee with name '%s' not found", name)), nil
		}

		if err := database.DeleteAssignee(ctx, a.ID); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText("Assignee deleted successfully"), nil
	}
}

func workloadReportHandler(database *db.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sel := workload.Selection{
			Mode:        workload.PeriodMode(mcp.ParseString(request, "period", string(workload.PeriodAllTime))),
			CustomStart: mcp.ParseString(request, "start", ""),
			CustomEnd:   mcp.ParseString(request, "end", ""),
		}

		tasks, err := database.ListTasks(ctx, nil, nil)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		assignees, err := database.ListAssignees(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		rows := workload.Compute(tasks, assignees, sel, time.Now())

		data, err := json.Marshal(map[string]interface{}{"rows": rows})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(string(data)), nil
	}
}
