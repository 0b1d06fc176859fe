package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/soyeahso/dugout/internal/domain"
)

// accents maps palette keys onto terminal colors.
var accents = map[domain.Color]lipgloss.Color{
	domain.ColorBlue:   lipgloss.Color("33"),
	domain.ColorCyan:   lipgloss.Color("44"),
	domain.ColorIndigo: lipgloss.Color("63"),
	domain.ColorPurple: lipgloss.Color("135"),
	domain.ColorGreen:  lipgloss.Color("42"),
	domain.ColorRed:    lipgloss.Color("196"),
	domain.ColorOrange: lipgloss.Color("208"),
}

func accent(c domain.Color) lipgloss.Color {
	if col, ok := accents[c]; ok {
		return col
	}
	return accents[domain.DefaultColor]
}

var kindColors = map[domain.NotificationKind]lipgloss.Color{
	domain.NotifySuccess: lipgloss.Color("42"),
	domain.NotifyError:   lipgloss.Color("196"),
	domain.NotifyWarning: lipgloss.Color("214"),
	domain.NotifyInfo:    lipgloss.Color("33"),
}

var taskColors = map[domain.TaskStatus]lipgloss.Color{
	domain.TaskCompleted:  lipgloss.Color("42"),
	domain.TaskInProgress: lipgloss.Color("214"),
	domain.TaskFailed:     lipgloss.Color("196"),
	domain.TaskPending:    lipgloss.Color("245"),
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213"))
	subtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	labelStyle    = lipgloss.NewStyle().Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	resultStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

func cardStyle(c domain.Color, selected bool) lipgloss.Style {
	st := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	if selected {
		st = st.BorderForeground(accent(c))
	}
	return st
}

func noteStyle(kind domain.NotificationKind) lipgloss.Style {
	col, ok := kindColors[kind]
	if !ok {
		col = kindColors[domain.NotifyInfo]
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(col).
		Foreground(col).
		Padding(0, 1)
}

func taskStyle(s domain.TaskStatus) lipgloss.Style {
	col, ok := taskColors[s]
	if !ok {
		col = lipgloss.Color("250")
	}
	return lipgloss.NewStyle().Foreground(col)
}
