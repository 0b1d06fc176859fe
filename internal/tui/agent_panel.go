package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/soyeahso/dugout/internal/domain"
	"github.com/soyeahso/dugout/internal/execution"
)

// agentPanel is the open panel for one agent.
type agentPanel struct {
	session *execution.Session
	input   textinput.Model
}

func (m Model) openAgent(a domain.Agent) (tea.Model, tea.Cmd) {
	in := textinput.New()
	in.Placeholder = execution.Placeholder(a.ID)
	in.CharLimit = 4096
	in.Width = max(m.cardWidth()-8, 20)

	m.agent = agentPanel{
		session: m.deps.Execution.Open(a),
		input:   in,
	}
	m.screen = screenAgent
	return m, m.agent.input.Focus()
}

func (m Model) closeAgent() Model {
	if m.agent.session != nil {
		m.deps.Execution.Close(m.agent.session)
	}
	m.agent = agentPanel{}
	m.screen = screenCatalog
	return m
}

func (m Model) updateAgent(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.closeAgent(), nil
	case "ctrl+r":
		m.deps.Execution.Reset(m.agent.session)
		m.agent.input.Reset()
		return m, nil
	case "enter":
		snap := m.agent.session.Snapshot()
		if snap.Status == execution.StatusSubmitting {
			return m, nil
		}
		text := m.agent.input.Value()
		if strings.TrimSpace(text) == "" {
			return m, nil
		}
		ctrl, sess, ctx := m.deps.Execution, m.agent.session, m.ctx
		return m.dispatch(func() tea.Msg {
			return execDoneMsg{session: sess, err: ctrl.Submit(ctx, sess, text)}
		})
	}

	var cmd tea.Cmd
	m.agent.input, cmd = m.agent.input.Update(msg)
	return m, cmd
}

func (m Model) viewAgent() string {
	snap := m.agent.session.Snapshot()
	a := snap.Agent
	name := lipgloss.NewStyle().Bold(true).Foreground(accent(a.Color)).Render(a.Name)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n", a.Icon, name)
	sb.WriteString(subtitleStyle.Render(a.Role) + "\n")
	sb.WriteString(a.Description + "\n\n")

	sb.WriteString(labelStyle.Render("Capabilities") + "\n")
	for _, c := range a.Capabilities {
		sb.WriteString("  • " + c + "\n")
	}
	sb.WriteString("\n")

	sb.WriteString(labelStyle.Render("Input") + "\n")
	sb.WriteString(m.agent.input.View() + "\n\n")

	switch snap.Status {
	case execution.StatusSubmitting:
		sb.WriteString(m.spinner.View() + " Processing...\n")
	case execution.StatusSucceeded:
		sb.WriteString(labelStyle.Render("Result") + "\n")
		sb.WriteString(resultStyle.Width(max(m.cardWidth()-6, 20)).Render(snap.Result) + "\n")
	case execution.StatusFailed:
		sb.WriteString(errorStyle.Render("Error: "+snap.Error) + "\n")
	}

	sb.WriteString("\n" + helpStyle.Render("enter execute • ctrl+r clear • esc close"))
	return panelStyle.BorderForeground(accent(a.Color)).Render(sb.String())
}
