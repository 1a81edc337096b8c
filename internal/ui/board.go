package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ldi/taskboard/internal/ui/components"
	"github.com/ldi/taskboard/internal/workload"
	"github.com/ldi/taskboard/pkg/models"
)

var periodStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)

// periodCycle is the order the board steps through with the "p" key.
var periodCycle = []workload.PeriodMode{
	workload.PeriodLast7Days,
	workload.PeriodLast1Month,
	workload.PeriodLast3Months,
	workload.PeriodLast1Year,
	workload.PeriodAllTime,
}

// BoardModel is the interactive workload board. It owns the period
// selection and recomputes the ranked rows through the engine on every
// period change; the engine itself stays a pure function.
type BoardModel struct {
	tasks     []*models.Task
	assignees []*models.Assignee
	now       time.Time

	periodIdx int
	table     *components.WorkloadTable

	picked     bool
	selectedID *string
	quitting   bool
}

func NewBoardModel(tasks []*models.Task, assignees []*models.Assignee, now time.Time) BoardModel {
	m := BoardModel{
		tasks:     tasks,
		assignees: assignees,
		now:       now,
		periodIdx: len(periodCycle) - 1, // start at all-time
		table:     components.NewWorkloadTable(80),
	}
	m.recompute()
	return m
}

func (m *BoardModel) recompute() {
	sel := workload.Selection{Mode: periodCycle[m.periodIdx]}
	m.table.SetRows(workload.Compute(m.tasks, m.assignees, sel, m.now))
}

func (m BoardModel) Init() tea.Cmd {
	return nil
}

func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit

		case "up", "k":
			m.table.MoveUp()

		case "down", "j":
			m.table.MoveDown()

		case "p":
			m.periodIdx = (m.periodIdx + 1) % len(periodCycle)
			m.recompute()

		case "enter":
			if row := m.table.Selected(); row != nil {
				if id, ok := row.SelectionID(); ok {
					m.selectedID = &id
				}
				m.picked = true
			}
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m BoardModel) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder
	s.WriteString(periodStyle.Render(fmt.Sprintf("Period: %s", periodCycle[m.periodIdx])))
	s.WriteString("\n\n")
	s.WriteString(m.table.View())
	s.WriteString("\n(j/k to move, p to cycle period, enter to select, q to quit)\n")
	return s.String()
}

// Selection returns the assignee id picked with enter. The id is nil for
// the unassigned row; the second value is false when nothing was picked.
func (m BoardModel) Selection() (*string, bool) {
	return m.selectedID, m.picked
}

// RunBoard shows the workload board and returns the picked assignee id,
// if any, for the caller to cross-filter with.
func RunBoard(tasks []*models.Task, assignees []*models.Assignee, now time.Time) (*string, bool, error) {
	m := NewBoardModel(tasks, assignees, now)
	p := tea.NewProgram(m)
	finalModel, err := p.Run()
	if err != nil {
		return nil, false, err
	}
	id, picked := finalModel.(BoardModel).Selection()
	return id, picked, nil
}
