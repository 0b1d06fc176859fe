package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/soyeahso/dugout/internal/domain"
)

func (m *Model) clampCursor() {
	n := m.deps.Catalog.Len()
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) selected() (domain.Agent, bool) {
	agents := m.deps.Catalog.List()
	if m.cursor < 0 || m.cursor >= len(agents) {
		return domain.Agent{}, false
	}
	return agents[m.cursor], true
}

func (m Model) updateCatalog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.confirm != "" {
		id := m.confirm
		m.confirm = ""
		if key != "y" && key != "Y" {
			return m, nil
		}
		store, ctx := m.deps.Catalog, m.ctx
		return m.dispatch(func() tea.Msg {
			return agentRemovedMsg{id: id, err: store.Remove(ctx, id)}
		})
	}

	switch key {
	case "q":
		m.closeSessions()
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < m.deps.Catalog.Len()-1 {
			m.cursor++
		}
	case "enter":
		if a, ok := m.selected(); ok {
			return m.openAgent(a)
		}
	case "a":
		return m.openAdd()
	case "w":
		return m.openWorkflow()
	case "d", "delete":
		if a, ok := m.selected(); ok && a.IsCustom() {
			m.confirm = a.ID
		}
	case "r":
		if !m.loading {
			m.loading = true
			return m, tea.Batch(m.loadCatalog(), m.spinner.Tick)
		}
	}
	return m, nil
}

func (m Model) viewCatalog() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Cricket Team AI"))
	sb.WriteString("  ")
	sb.WriteString(subtitleStyle.Render("Multi-Agent Orchestration"))
	sb.WriteString("\n")

	if m.loading {
		sb.WriteString("\n" + m.spinner.View() + " Initializing AI agents...\n")
		return sb.String()
	}

	agents := m.deps.Catalog.List()
	sb.WriteString(dimStyle.Render(fmt.Sprintf("● %d Agents Active", len(agents))))
	sb.WriteString("\n\n")

	if len(agents) == 0 {
		sb.WriteString(dimStyle.Render("No agents available. Press r to reload or a to add one."))
		sb.WriteString("\n")
	}

	for i, a := range agents {
		sb.WriteString(renderCard(a, i == m.cursor, m.cardWidth()))
		sb.WriteString("\n")
	}

	if m.confirm != "" {
		a, _ := m.deps.Catalog.Get(m.confirm)
		sb.WriteString(errorStyle.Render(fmt.Sprintf("Delete %q? (y/n)", a.Name)))
		sb.WriteString("\n")
	}
	if m.inflight > 0 {
		sb.WriteString(m.spinner.View() + " working...\n")
	}

	sb.WriteString(helpStyle.Render("↑/↓ select • enter open • a add agent • d delete custom • w workflow • r reload • ctrl+n dismiss • q quit"))
	return sb.String()
}

func (m Model) cardWidth() int {
	if m.width <= 0 {
		return 72
	}
	return max(m.width-4, 30)
}

func renderCard(a domain.Agent, selected bool, width int) string {
	head := fmt.Sprintf("%s %s", a.Icon, lipgloss.NewStyle().Bold(true).Foreground(accent(a.Color)).Render(a.Name))
	if a.IsCustom() {
		head += " " + dimStyle.Render("[custom]")
	}
	lines := []string{
		head,
		subtitleStyle.Render(a.Role),
		a.Description,
	}
	if len(a.Capabilities) > 0 {
		lines = append(lines, dimStyle.Render(strings.Join(a.Capabilities, " · ")))
	}

	prefix := "  "
	if selected {
		prefix = cursorStyle.Render("▸ ")
	}
	card := cardStyle(a.Color, selected).Width(width - 4).Render(strings.Join(lines, "\n"))
	return lipgloss.JoinHorizontal(lipgloss.Center, prefix, card)
}
