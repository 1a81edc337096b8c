package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ldi/taskboard/internal/db"
	"github.com/ldi/taskboard/internal/mcp"
	"github.com/ldi/taskboard/internal/server"
	"github.com/ldi/taskboard/internal/ui"
	"github.com/ldi/taskboard/internal/workload"
	"github.com/ldi/taskboard/pkg/models"
)

var dbPath string

func main() {
	flag.StringVar(&dbPath, "db-path", ".taskboard/taskboard.db", "Path to database file")
	flag.Parse()

	var command string
	var args []string

	if flag.NArg() == 0 {
		selected, err := ui.RunMenu()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running menu: %v\n", err)
			os.Exit(1)
		}
		if selected == "" {
			os.Exit(0)
		}
		command = selected
		args = []string{}
	} else {
		command = flag.Arg(0)
		args = flag.Args()[1:]
	}

	var err error
	switch command {
	case "init":
		err = runInit(args)
	case "mcp":
		err = runMCP(args)
	case "web":
		err = runWeb(args)
	case "board":
		err = runBoard(args)
	case "workload":
		err = runWorkload(args)
	case "add-task":
		err = runAddTask(args)
	case "add-assignee":
		err = runAddAssignee(args)
	case "assign":
		err = runAssign(args)
	case "done":
		err = runDone(args)
	case "list-tasks":
		err = runListTasks(args)
	case "status":
		err = runStatus(args)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func openDatabase() (*db.DB, context.Context, error) {
	database, err := db.Open(dbPath)
	if err != nil {
		return nil, nil, err
	}

	ctx := context.Background()
	if err := database.Init(ctx); err != nil {
		database.Close()
		return nil, nil, err
	}
	return database, ctx, nil
}

func runInit(args []string) error {
	targetDir := "."
	if len(args) > 0 {
		targetDir = args[0]
	}

	boardDir := filepath.Join(targetDir, ".taskboard")
	if err := os.MkdirAll(boardDir, 0755); err != nil {
		return fmt.Errorf("failed to create .taskboard directory: %w", err)
	}
	fmt.Println("✓ Created .taskboard/ directory")

	gitignorePath := filepath.Join(boardDir, ".gitignore")
	if err := os.WriteFile(gitignorePath, []byte("taskboard.db*\n"), 0644); err != nil {
		return fmt.Errorf("failed to create .gitignore: %w", err)
	}
	fmt.Println("✓ Created .taskboard/.gitignore")

	finalDBPath := dbPath
	if dbPath == ".taskboard/taskboard.db" {
		finalDBPath = filepath.Join(boardDir, "taskboard.db")
	}

	database, err := db.Open(finalDBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.Init(context.Background()); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	fmt.Printf("✓ Initialized database at %s\n", finalDBPath)

	fmt.Println("✓ Taskboard initialized successfully")
	return nil
}

func runMCP(args []string) error {
	database, _, err := openDatabase()
	if err != nil {
		return err
	}
	defer database.Close()

	s := mcp.NewServer(database)
	return mcp.Serve(s)
}

func runWeb(args []string) error {
	webFlags := flag.NewFlagSet("web", flag.ContinueOnError)
	port := webFlags.String("port", "8000", "Port to listen on")
	if err := webFlags.Parse(args); err != nil {
		return err
	}

	database, _, err := openDatabase()
	if err != nil {
		return err
	}
	defer database.Close()

	srv := server.NewServer(database)
	return srv.Start(fmt.Sprintf(":%s", *port))
}

func runBoard(args []string) error {
	database, ctx, err := openDatabase()
	if err != nil {
		return err
	}
	defer database.Close()

	tasks, err := database.ListTasks(ctx, nil, nil)
	if err != nil {
		return err
	}
	assignees, err := database.ListAssignees(ctx)
	if err != nil {
		return err
	}

	selected, picked, err := ui.RunBoard(tasks, assignees, time.Now())
	if err != nil {
		return err
	}
	if !picked {
		return nil
	}

	// Cross-filter: show the selected row's tasks.
	filtered, err := database.ListTasksForAssignee(ctx, selected)
	if err != nil {
		return err
	}

	label := "Unassigned"
	if selected != nil {
		if a, err := database.GetAssignee(ctx, *selected); err == nil && a != nil {
			label = a.Name
		} else {
			label = *selected
		}
	}
	fmt.Printf("Tasks for %s:\n", label)
	printTaskTable(filtered)
	return nil
}

func runWorkload(args []string) error {
	wlFlags := flag.NewFlagSet("workload", flag.ContinueOnError)
	period := wlFlags.String("period", "all-time", "Period (last-7-days, last-1-month, last-3-months, last-1-year, all-time, custom)")
	start := wlFlags.String("start", "", "Custom period start (YYYY-MM-DD)")
	end := wlFlags.String("end", "", "Custom period end (YYYY-MM-DD)")
	if err := wlFlags.Parse(args); err != nil {
		return err
	}

	database, ctx, err := openDatabase()
	if err != nil {
		return err
	}
	defer database.Close()

	tasks, err := database.ListTasks(ctx, nil, nil)
	if err != nil {
		return err
	}
	assignees, err := database.ListAssignees(ctx)
	if err != nil {
		return err
	}

	sel := workload.Selection{
		Mode:        workload.PeriodMode(*period),
		CustomStart: *start,
		CustomEnd:   *end,
	}
	rows := workload.Compute(tasks, assignees, sel, time.Now())

	fmt.Printf("%-20s %5s %5s %5s %5s %5s %7s %7s\n",
		"ASSIGNEE", "TODO", "PROG", "TEST", "DONE", "OVER", "MINS", "SCORE")
	fmt.Println("----------------------------------------------------------------------")
	for _, r := range rows {
		fmt.Printf("%-20s %5d %5d %5d %5d %5d %7d %7.1f\n",
			r.Name, r.Todo, r.InProgress, r.InTest, r.Done, r.Overdue, r.TotalMinutes, r.Score)
	}
	return nil
}

func runAddTask(args []string) error {
	taskFlags := flag.NewFlagSet("add-task", flag.ContinueOnError)
	title := taskFlags.String("title", "", "Task title (required)")
	project := taskFlags.String("project", "", "Project name")
	due := taskFlags.String("due", "", "Due date (YYYY-MM-DD)")
	duration := taskFlags.Int("duration", 0, "Estimated duration in minutes")
	assignee := taskFlags.String("assignee", "", "Assignee name")
	status := taskFlags.String("status", "todo", "Status (todo, in_progress, in_test, done)")
	if err := taskFlags.Parse(args); err != nil {
		return err
	}
	if *title == "" {
		return fmt.Errorf("-title is required")
	}

	database, ctx, err := openDatabase()
	if err != nil {
		return err
	}
	defer database.Close()

	t := &models.Task{
		Title:           *title,
		Project:         *project,
		Status:          models.TaskStatus(*status),
		DurationMinutes: *duration,
	}

	if *due != "" {
		d, err := time.Parse("2006-01-02", *due)
		if err != nil {
			return fmt.Errorf("invalid due date %q, expected YYYY-MM-DD", *due)
		}
		t.DueDate = &d
	}

	if *assignee != "" {
		a, err := database.GetAssigneeByName(ctx, *assignee)
		if err != nil {
			return err
		}
		if a == nil {
			return fmt.Errorf("assignee %q not found", *assignee)
		}
		t.AssigneeID = &a.ID
	}

	if err := database.CreateTask(ctx, t); err != nil {
		return err
	}
	fmt.Printf("✓ Created task %q (%s)\n", t.Title, t.ID)
	return nil
}

func runAddAssignee(args []string) error {
	aFlags := flag.NewFlagSet("add-assignee", flag.ContinueOnError)
	name := aFlags.String("name", "", "Display name (required)")
	color := aFlags.String("color", "", "Color tag")
	if err := aFlags.Parse(args); err != nil {
		return err
	}
	if *name == "" {
		return fmt.Errorf("-name is required")
	}

	database, ctx, err := openDatabase()
	if err != nil {
		return err
	}
	defer database.Close()

	a := &models.Assignee{Name: *name, Color: *color}
	if err := database.CreateAssignee(ctx, a); err != nil {
		return err
	}
	fmt.Printf("✓ Created assignee %q (%s)\n", a.Name, a.ID)
	return nil
}

func runAssign(args []string) error {
	aFlags := flag.NewFlagSet("assign", flag.ContinueOnError)
	title := aFlags.String("title", "", "Task title (required)")
	names := aFlags.String("assignees", "", "Comma-separated assignee names (empty unassigns)")
	if err := aFlags.Parse(args); err != nil {
		return err
	}
	if *title == "" {
		return fmt.Errorf("-title is required")
	}

	database, ctx, err := openDatabase()
	if err != nil {
		return err
	}
	defer database.Close()

	t, err := database.GetTaskByTitle(ctx, *title)
	if err != nil {
		return err
	}
	if t == nil {
		return fmt.Errorf("task %q not found", *title)
	}

	var ids []string
	for _, name := range splitNames(*names) {
		a, err := database.GetAssigneeByName(ctx, name)
		if err != nil {
			return err
		}
		if a == nil {
			return fmt.Errorf("assignee %q not found", name)
		}
		ids = append(ids, a.ID)
	}

	if err := database.SetTaskAssignees(ctx, t.ID, ids); err != nil {
		return err
	}
	fmt.Printf("✓ Task %q now has %d assignee(s)\n", *title, len(ids))
	return nil
}

func splitNames(s string) []string {
	var names []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			names = append(names, p)
		}
	}
	return names
}

func runDone(args []string) error {
	dFlags := flag.NewFlagSet("done", flag.ContinueOnError)
	title := dFlags.String("title", "", "Task title (required)")
	if err := dFlags.Parse(args); err != nil {
		return err
	}
	if *title == "" {
		return fmt.Errorf("-title is required")
	}

	database, ctx, err := openDatabase()
	if err != nil {
		return err
	}
	defer database.Close()

	t, err := database.GetTaskByTitle(ctx, *title)
	if err != nil {
		return err
	}
	if t == nil {
		return fmt.Errorf("task %q not found", *title)
	}

	if err := database.UpdateTaskStatus(ctx, t.ID, models.TaskStatusDone); err != nil {
		return err
	}
	fmt.Printf("✓ Task %q marked done\n", *title)
	return nil
}

func runListTasks(args []string) error {
	taskFlags := flag.NewFlagSet("list-tasks", flag.ContinueOnError)
	statusFilter := taskFlags.String("status", "", "Filter by status (todo, in_progress, in_test, done)")
	projectFilter := taskFlags.String("project", "", "Filter by project")
	assigneeFilter := taskFlags.String("assignee", "", "Filter by assignee name, or 'unassigned'")
	if err := taskFlags.Parse(args); err != nil {
		return err
	}

	database, ctx, err := openDatabase()
	if err != nil {
		return err
	}
	defer database.Close()

	var tasks []*models.Task
	if *assigneeFilter != "" {
		var assigneeID *string
		if *assigneeFilter != "unassigned" {
			a, err := database.GetAssigneeByName(ctx, *assigneeFilter)
			if err != nil {
				return err
			}
			if a == nil {
				return fmt.Errorf("assignee %q not found", *assigneeFilter)
			}
			assigneeID = &a.ID
		}
		tasks, err = database.ListTasksForAssignee(ctx, assigneeID)
		if err != nil {
			return err
		}
	} else {
		var status *models.TaskStatus
		if *statusFilter != "" {
			s := models.TaskStatus(*statusFilter)
			status = &s
		}
		var project *string
		if *projectFilter != "" {
			project = projectFilter
		}
		tasks, err = database.ListTasks(ctx, status, project)
		if err != nil {
			return err
		}
	}

	printTaskTable(tasks)
	return nil
}

func printTaskTable(tasks []*models.Task) {
	fmt.Printf("%-30s %-15s %-12s %-12s\n", "TITLE", "PROJECT", "STATUS", "DUE")
	fmt.Println("----------------------------------------------------------------------")
	for _, t := range tasks {
		due := "-"
		if t.DueDate != nil {
			due = t.DueDate.Format("2006-01-02")
		}
		fmt.Printf("%-30s %-15s %-12s %-12s\n", t.Title, t.Project, t.Status, due)
	}
}

func runStatus(args []string) error {
	database, ctx, err := openDatabase()
	if err != nil {
		return err
	}
	defer database.Close()

	tasks, err := database.ListTasks(ctx, nil, nil)
	if err != nil {
		return err
	}
	assignees, err := database.ListAssignees(ctx)
	if err != nil {
		return err
	}

	fmt.Println("Taskboard Status")
	fmt.Println("================")
	fmt.Printf("Assignees:   %d\n", len(assignees))
	fmt.Printf("Total Tasks: %d\n", len(tasks))

	statusCounts := make(map[models.TaskStatus]int)
	for _, t := range tasks {
		statusCounts[t.Status]++
	}

	fmt.Println("\nTask Breakdown:")
	fmt.Printf("  Todo:        %d\n", statusCounts[models.TaskStatusTodo])
	fmt.Printf("  In Progress: %d\n", statusCounts[models.TaskStatusInProgress])
	fmt.Printf("  In Test:     %d\n", statusCounts[models.TaskStatusInTest])
	fmt.Printf("  Done:        %d\n", statusCounts[models.TaskStatusDone])

	rows := workload.Compute(tasks, assignees, workload.Selection{Mode: workload.PeriodAllTime}, time.Now())
	if len(rows) > 0 {
		fmt.Println("\nMost Loaded:")
		for i, r := range rows {
			if i >= 5 {
				break
			}
			fmt.Printf("  - %s (score: %.1f, overdue: %d)\n", r.Name, r.Score, r.Overdue)
		}
	}

	return nil
}
