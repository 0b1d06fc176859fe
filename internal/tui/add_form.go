package tui

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/soyeahso/dugout/internal/domain"
)

const (
	fieldName = iota
	fieldRole
	fieldDescription
	fieldCapabilities
	fieldIcon
	fieldColor
	fieldCount
)

// addForm collects a custom agent draft.
type addForm struct {
	inputs  []textinput.Model // name, role, description, capabilities
	focus   int
	icon    int
	color   int
	err     string
	pending bool
}

func newAddForm(width int) addForm {
	specs := []struct {
		placeholder string
		limit       int
	}{
		{"e.g., Fielding Coach", 80},
		{"e.g., Fielding Excellence", 120},
		{"What does this agent do?", 500},
		{"Comma separated, e.g., Catching Drills, Ground Fielding", 500},
	}
	f := addForm{}
	for _, s := range specs {
		in := textinput.New()
		in.Placeholder = s.placeholder
		in.CharLimit = s.limit
		in.Width = width
		f.inputs = append(f.inputs, in)
	}
	return f
}

// draft builds the user's candidate from the current field values.
func (f addForm) draft() domain.AgentDraft {
	return domain.AgentDraft{
		Name:         f.inputs[fieldName].Value(),
		Role:         f.inputs[fieldRole].Value(),
		Description:  f.inputs[fieldDescription].Value(),
		Icon:         domain.IconOptions[f.icon],
		Color:        domain.Palette[f.color],
		Capabilities: strings.Split(f.inputs[fieldCapabilities].Value(), ","),
	}
}

func (f *addForm) setFocus(i int) tea.Cmd {
	f.focus = (i + fieldCount) % fieldCount
	var cmd tea.Cmd
	for j := range f.inputs {
		if j == f.focus {
			cmd = f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
	return cmd
}

func (f *addForm) updateFocused(msg tea.Msg) tea.Cmd {
	if f.focus >= len(f.inputs) {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (m Model) openAdd() (tea.Model, tea.Cmd) {
	m.add = newAddForm(max(m.cardWidth()-24, 20))
	m.screen = screenAdd
	return m, m.add.setFocus(fieldName)
}

func (m Model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &m.add
	switch msg.String() {
	case "esc":
		m.screen = screenCatalog
		m.add = addForm{}
		return m, nil
	case "tab", "down":
		return m, f.setFocus(f.focus + 1)
	case "shift+tab", "up":
		return m, f.setFocus(f.focus - 1)
	case "left", "right":
		step := 1
		if msg.String() == "left" {
			step = -1
		}
		switch f.focus {
		case fieldIcon:
			f.icon = (f.icon + step + len(domain.IconOptions)) % len(domain.IconOptions)
			return m, nil
		case fieldColor:
			f.color = (f.color + step + len(domain.Palette)) % len(domain.Palette)
			return m, nil
		}
	case "enter":
		if f.focus < fieldColor {
			return m, f.setFocus(f.focus + 1)
		}
		return m.submitAdd()
	case "ctrl+s":
		return m.submitAdd()
	}
	return m, f.updateFocused(msg)
}

func (m Model) submitAdd() (tea.Model, tea.Cmd) {
	if m.add.pending {
		return m, nil
	}
	draft := m.add.draft()
	if err := draft.Normalize().Validate(); err != nil {
		m.add.err = validationText(err)
		return m, nil
	}
	m.add.err = ""
	m.add.pending = true

	store, ctx := m.deps.Catalog, m.ctx
	return m.dispatch(func() tea.Msg {
		a, err := store.Add(ctx, draft)
		return agentAddedMsg{agent: a, err: err}
	})
}

func (m Model) addFinished(msg agentAddedMsg) (tea.Model, tea.Cmd) {
	m.add.pending = false
	if msg.err != nil {
		var verr *domain.ValidationError
		if errors.As(msg.err, &verr) {
			m.add.err = validationText(verr)
		}
		return m, nil
	}
	if m.screen == screenAdd {
		m.screen = screenCatalog
		m.add = addForm{}
	}
	if i := slices.IndexFunc(m.deps.Catalog.List(), func(a domain.Agent) bool { return a.ID == msg.agent.ID }); i >= 0 {
		m.cursor = i
	}
	return m, nil
}

func validationText(err error) string {
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		return err.Error()
	}
	if verr.Field == "capabilities" {
		return "Please add at least one capability"
	}
	return "Please fill in " + verr.Field
}

func (m Model) viewAdd() string {
	f := m.add
	labels := []string{"Name", "Role", "Description", "Capabilities", "Icon", "Color"}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Create Custom Agent") + "\n\n")

	for i, label := range labels {
		marker := "  "
		if f.focus == i {
			marker = cursorStyle.Render("▸ ")
		}
		sb.WriteString(marker + labelStyle.Render(fmt.Sprintf("%-13s", label)))
		switch i {
		case fieldIcon:
			sb.WriteString(renderChoices(domain.IconOptions, f.icon, func(s string) string { return s }))
		case fieldColor:
			names := make([]string, len(domain.Palette))
			for j, c := range domain.Palette {
				names[j] = string(c)
			}
			sb.WriteString(renderChoices(names, f.color, func(s string) string {
				return lipgloss.NewStyle().Foreground(accent(domain.Color(s))).Render(s)
			}))
		default:
			sb.WriteString(f.inputs[i].View())
		}
		sb.WriteString("\n")
	}

	preview := f.draft().Normalize()
	if preview.Name != "" {
		sb.WriteString("\n" + dimStyle.Render("Preview") + "\n")
		sb.WriteString(renderCard(preview.Agent(domain.CustomIDPrefix+"preview"), true, m.cardWidth()) + "\n")
	}

	if f.err != "" {
		sb.WriteString("\n" + errorStyle.Render(f.err) + "\n")
	}
	if f.pending {
		sb.WriteString("\n" + m.spinner.View() + " Saving...\n")
	}

	sb.WriteString("\n" + helpStyle.Render("tab/↑/↓ move • ←/→ choose icon or color • enter next/create • ctrl+s create • esc cancel"))
	return panelStyle.Render(sb.String())
}

func renderChoices(options []string, selected int, render func(string) string) string {
	parts := make([]string, len(options))
	for i, o := range options {
		if i == selected {
			parts[i] = "[" + render(o) + "]"
		} else {
			parts[i] = " " + dimStyle.Render(o) + " "
		}
	}
	return strings.Join(parts, "")
}
