package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ldi/taskboard/internal/db"
	"github.com/ldi/taskboard/internal/workload"
)

type Server struct {
	db     *db.DB
	server *http.Server

	// now is injectable for deterministic workload responses in tests.
	now func() time.Time
}

func NewServer(database *db.DB) *Server {
	return &Server{db: database, now: time.Now}
}

func (s *Server) Start(addr string) error {
	mux := http.NewServeMux()

	// API endpoints
	mux.HandleFunc("/api/tasks", s.handleTasks)
	mux.HandleFunc("/api/assignees", s.handleAssignees)
	mux.HandleFunc("/api/workload", s.handleWorkload)

	s.server = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// handleTasks lists tasks. An `assignee` query cross-filters by a workload
// row selection: an assignee id, or "unassigned" for the null bucket.
func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	if sel := r.URL.Query().Get("assignee"); sel != "" {
		var assigneeID *string
		if sel != "unassigned" {
			assigneeID = &sel
		}
		tasks, err := s.db.ListTasksForAssignee(r.Context(), assigneeID)
		s.respond(w, tasks, err)
		return
	}

	tasks, err := s.db.ListTasks(r.Context(), nil, nil)
	s.respond(w, tasks, err)
}

func (s *Server) handleAssignees(w http.ResponseWriter, r *http.Request) {
	assignees, err := s.db.ListAssignees(r.Context())
	s.respond(w, assignees, err)
}

// handleWorkload computes the ranked workload rows for the requested period.
// Unknown period modes resolve to all-time, mirroring the engine's
// degrade-don't-fail contract.
func (s *Server) handleWorkload(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sel := workload.Selection{
		Mode:        workload.PeriodMode(q.Get("period")),
		CustomStart: q.Get("start"),
		CustomEnd:   q.Get("end"),
	}
	if sel.Mode == "" {
		sel.Mode = workload.PeriodAllTime
	}

	tasks, err := s.db.ListTasks(r.Context(), nil, nil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	assignees, err := s.db.ListAssignees(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	rows := workload.Compute(tasks, assignees, sel, s.now())
	if rows == nil {
		rows = []*workload.Row{}
	}
	s.respond(w, rows, nil)
}

func (s *Server) respond(w http.ResponseWriter, data any, err error) {
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}
