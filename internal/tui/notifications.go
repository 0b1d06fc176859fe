package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/soyeahso/dugout/internal/domain"
)

var kindGlyphs = map[domain.NotificationKind]string{
	domain.NotifySuccess: "✓",
	domain.NotifyError:   "✗",
	domain.NotifyWarning: "!",
	domain.NotifyInfo:    "i",
}

// viewNotifications renders the visible stack, oldest first.
func (m Model) viewNotifications() string {
	visible := m.deps.Notes.Visible()
	if len(visible) == 0 {
		return ""
	}
	boxes := make([]string, 0, len(visible))
	for _, n := range visible {
		boxes = append(boxes, noteStyle(n.Kind).Render(kindGlyphs[n.Kind]+" "+n.Message))
	}
	stack := lipgloss.JoinVertical(lipgloss.Right, boxes...)
	if m.width > 0 {
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Right, stack)
	}
	return strings.TrimRight(stack, "\n")
}
