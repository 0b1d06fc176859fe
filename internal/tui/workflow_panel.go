package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/soyeahso/dugout/internal/domain"
	"github.com/soyeahso/dugout/internal/workflow"
)

const (
	flowMatch = iota
	flowPlayer
	flowTasks
	flowFocusCount
)

// workflowPanel is the open team workflow panel.
type workflowPanel struct {
	session *workflow.Session
	match   textinput.Model
	player  textinput.Model
	focus   int
	cursor  int // highlighted task when focus is on the task list
}

func (p *workflowPanel) setFocus(i int) tea.Cmd {
	p.focus = (i + flowFocusCount) % flowFocusCount
	p.match.Blur()
	p.player.Blur()
	switch p.focus {
	case flowMatch:
		return p.match.Focus()
	case flowPlayer:
		return p.player.Focus()
	}
	return nil
}

func (p *workflowPanel) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch p.focus {
	case flowMatch:
		p.match, cmd = p.match.Update(msg)
	case flowPlayer:
		p.player, cmd = p.player.Update(msg)
	}
	return cmd
}

func (m Model) openWorkflow() (tea.Model, tea.Cmd) {
	match := textinput.New()
	match.Placeholder = "e.g., Upcoming match against Mumbai Indians"
	match.CharLimit = 500
	player := textinput.New()
	player.Placeholder = "e.g., Virat Kohli"
	player.CharLimit = 200

	m.flow = workflowPanel{
		session: m.deps.Workflow.Open(),
		match:   match,
		player:  player,
	}
	m.screen = screenWorkflow
	return m, m.flow.setFocus(flowMatch)
}

func (m Model) closeWorkflow() Model {
	if m.flow.session != nil {
		m.deps.Workflow.Close(m.flow.session)
	}
	m.flow = workflowPanel{}
	m.screen = screenCatalog
	return m
}

func (m Model) updateWorkflow(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := &m.flow
	snap := p.session.Snapshot()

	switch msg.String() {
	case "esc":
		return m.closeWorkflow(), nil
	case "tab":
		return m, p.setFocus(p.focus + 1)
	case "shift+tab":
		return m, p.setFocus(p.focus - 1)
	case "ctrl+r":
		m.deps.Workflow.Reset(p.session)
		p.match.Reset()
		p.player.Reset()
		p.cursor = 0
		return m, p.setFocus(flowMatch)
	}

	if p.focus == flowTasks {
		switch msg.String() {
		case "up", "k":
			if p.cursor > 0 {
				p.cursor--
			}
		case "down", "j":
			if p.cursor < len(snap.Tasks)-1 {
				p.cursor++
			}
		case "enter", " ":
			if p.cursor < len(snap.Tasks) {
				m.deps.Workflow.ToggleExpand(p.session, snap.Tasks[p.cursor].ID)
			}
		}
		return m, nil
	}

	if msg.String() == "enter" {
		if p.focus == flowMatch {
			return m, p.setFocus(flowPlayer)
		}
		return m.runWorkflow()
	}
	return m, p.updateFocused(msg)
}

func (m Model) runWorkflow() (tea.Model, tea.Cmd) {
	p := &m.flow
	if p.session.Snapshot().Status == workflow.StatusRunning {
		return m, nil
	}
	match, player := p.match.Value(), p.player.Value()
	if strings.TrimSpace(match) == "" || strings.TrimSpace(player) == "" {
		return m, nil
	}
	p.cursor = 0

	ctrl, sess, ctx := m.deps.Workflow, p.session, m.ctx
	return m.dispatch(func() tea.Msg {
		return workflowDoneMsg{session: sess, err: ctrl.Execute(ctx, sess, match, player)}
	})
}

func (m Model) viewWorkflow() string {
	p := m.flow
	snap := p.session.Snapshot()

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Team Workflow") + "\n")
	sb.WriteString(subtitleStyle.Render("Execute the complete team preparation workflow") + "\n\n")

	sb.WriteString(labelStyle.Render("Match Information") + "\n" + p.match.View() + "\n")
	sb.WriteString(labelStyle.Render("Player Name") + "\n" + p.player.View() + "\n\n")

	switch snap.Status {
	case workflow.StatusRunning:
		sb.WriteString(m.spinner.View() + " Executing Workflow...\n")
	case workflow.StatusFailed:
		sb.WriteString(errorStyle.Render("Workflow failed: "+snap.Error) + "\n")
	case workflow.StatusCompleted:
		sb.WriteString(taskStyle(domain.TaskCompleted).Render("Workflow Completed") + "  ")
		sb.WriteString(dimStyle.Render(workflow.Summary(snap.Tasks)) + "\n\n")
		for i, t := range snap.Tasks {
			sb.WriteString(renderTask(t, p.focus == flowTasks && i == p.cursor, snap.Expanded == t.ID, m.cardWidth()))
		}
	default:
		sb.WriteString(dimStyle.Render("Fill in both fields and press enter to execute the complete workflow.") + "\n")
	}

	sb.WriteString("\n" + helpStyle.Render("tab switch focus • enter run/expand • ctrl+r clear • esc close"))
	return panelStyle.Render(sb.String())
}

func renderTask(t domain.Task, highlighted, expanded bool, width int) string {
	marker := "  "
	if highlighted {
		marker = cursorStyle.Render("▸ ")
	}
	fold := "▸"
	if expanded {
		fold = "▾"
	}

	line := fmt.Sprintf("%s%s %s %s  %s",
		marker, fold, domain.AgentIcon(t.AgentType),
		labelStyle.Render(domain.AgentLabel(t.AgentType)),
		dimStyle.Render(t.Method))
	if ind := t.Status.Indicator(); ind != "" {
		line += "  " + taskStyle(t.Status).Render(ind)
	}
	line += "\n"

	if expanded {
		line += resultStyle.Width(max(width-10, 20)).Render("Agent Response:\n"+t.Display()) + "\n"
	}
	return line
}
