package domain

import "strings"

// TaskStatus is the lifecycle state of one workflow step.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskFailed     TaskStatus = "failed"
)

// NoResponse is shown for a task that carries neither result field.
const NoResponse = "No response available"

// Known reports whether s is one of the four lifecycle states.
func (s TaskStatus) Known() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted, TaskFailed:
		return true
	}
	return false
}

// Indicator returns the status glyph, or "" for an unrecognized status.
func (s TaskStatus) Indicator() string {
	switch s {
	case TaskCompleted:
		return "✓"
	case TaskInProgress:
		return "◐"
	case TaskFailed:
		return "✗"
	case TaskPending:
		return "○"
	default:
		return ""
	}
}

// Task is one step of a workflow outcome as reported by the service.
type Task struct {
	ID         string     `json:"id"`
	AgentType  string     `json:"agent"`
	Method     string     `json:"method"`
	Status     TaskStatus `json:"status"`
	Result     *string    `json:"result"`
	FullResult *string    `json:"full_result"`
}

// Display returns the long-form result, the summary, or NoResponse.
func (t Task) Display() string {
	if t.FullResult != nil && *t.FullResult != "" {
		return *t.FullResult
	}
	if t.Result != nil && *t.Result != "" {
		return *t.Result
	}
	return NoResponse
}

// Summary returns the short result text, or "" when absent.
func (t Task) Summary() string {
	if t.Result == nil {
		return ""
	}
	return *t.Result
}

var builtinIcons = map[string]string{
	"head_coach":    "🎯",
	"batting_coach": "🏏",
	"bowling_coach": "⚡",
	"head_physio":   "💪",
	"player":        "👤",
}

// AgentIcon returns the glyph for a built-in agent type, or DefaultIcon.
func AgentIcon(agentType string) string {
	if icon, ok := builtinIcons[agentType]; ok {
		return icon
	}
	return DefaultIcon
}

// AgentLabel turns an agent type slug into a display label.
func AgentLabel(agentType string) string {
	return strings.ReplaceAll(agentType, "_", " ")
}

// StringPtr returns a pointer to s. Handy for building tasks.
func StringPtr(s string) *string { return &s }
