package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// CustomIDPrefix marks agents created by the user at runtime. An agent is
// custom if and only if its ID carries this prefix.
const CustomIDPrefix = "agent-"

// DefaultIcon is used for drafts that do not pick an icon.
const DefaultIcon = "🤖"

// IconOptions lists the glyphs offered when creating a custom agent.
var IconOptions = []string{"🤖", "⚡", "🎯", "📊", "🔥", "💡", "🚀", "⭐"}

// Agent is a named capability bundle that the service can invoke.
type Agent struct {
	ID           string   `json:"id"`
	Type         string   `json:"type,omitempty"`
	Name         string   `json:"name"`
	Role         string   `json:"role"`
	Description  string   `json:"description"`
	Icon         string   `json:"icon"`
	Color        Color    `json:"color"`
	Capabilities []string `json:"capabilities"`
}

// IsCustom reports whether the agent was user-defined.
func (a Agent) IsCustom() bool {
	return IsCustomID(a.ID)
}

// IsCustomID reports whether id carries the reserved custom prefix.
func IsCustomID(id string) bool {
	return strings.HasPrefix(id, CustomIDPrefix)
}

// Normalize returns a copy with blank capabilities dropped, the rest
// trimmed, and the color mapped onto the palette.
func (a Agent) Normalize() Agent {
	out := a
	out.Capabilities = nil
	for _, c := range a.Capabilities {
		if c = strings.TrimSpace(c); c != "" {
			out.Capabilities = append(out.Capabilities, c)
		}
	}
	out.Color = ParseColor(string(a.Color))
	return out
}

// Validate checks the catalog invariants for an agent received from the
// service. Call it on a normalized agent.
func (a Agent) Validate() error {
	switch {
	case strings.TrimSpace(a.ID) == "":
		return &ValidationError{Field: "id", Message: "is required"}
	case strings.TrimSpace(a.Name) == "":
		return &ValidationError{Field: "name", Message: "is required"}
	case strings.TrimSpace(a.Role) == "":
		return &ValidationError{Field: "role", Message: "is required"}
	case strings.TrimSpace(a.Description) == "":
		return &ValidationError{Field: "description", Message: "is required"}
	}
	for _, c := range a.Capabilities {
		if strings.TrimSpace(c) == "" {
			return &ValidationError{Field: "capabilities", Message: "must not contain blank entries"}
		}
	}
	if len(a.Capabilities) == 0 {
		return &ValidationError{Field: "capabilities", Message: "at least one capability is required"}
	}
	return nil
}

// Clone returns a copy that shares no slices with a.
func (a Agent) Clone() Agent {
	a.Capabilities = append([]string(nil), a.Capabilities...)
	return a
}

// AgentDraft is the user-supplied shape of a new custom agent.
type AgentDraft struct {
	Name         string   `json:"name" yaml:"name"`
	Role         string   `json:"role" yaml:"role"`
	Description  string   `json:"description" yaml:"description"`
	Icon         string   `json:"icon,omitempty" yaml:"icon,omitempty"`
	Color        Color    `json:"color,omitempty" yaml:"color,omitempty"`
	Capabilities []string `json:"capabilities" yaml:"capabilities"`
}

// Normalize trims every field, drops blank capabilities and applies the
// icon and color defaults.
func (d AgentDraft) Normalize() AgentDraft {
	out := AgentDraft{
		Name:        strings.TrimSpace(d.Name),
		Role:        strings.TrimSpace(d.Role),
		Description: strings.TrimSpace(d.Description),
		Icon:        strings.TrimSpace(d.Icon),
		Color:       ParseColor(string(d.Color)),
	}
	if out.Icon == "" {
		out.Icon = DefaultIcon
	}
	for _, c := range d.Capabilities {
		if c = strings.TrimSpace(c); c != "" {
			out.Capabilities = append(out.Capabilities, c)
		}
	}
	return out
}

// Validate reports the first missing field of a normalized draft.
func (d AgentDraft) Validate() error {
	switch {
	case d.Name == "":
		return &ValidationError{Field: "name", Message: "is required"}
	case d.Role == "":
		return &ValidationError{Field: "role", Message: "is required"}
	case d.Description == "":
		return &ValidationError{Field: "description", Message: "is required"}
	case len(d.Capabilities) == 0:
		return &ValidationError{Field: "capabilities", Message: "at least one capability is required"}
	}
	return nil
}

// Agent builds a catalog entry from a normalized draft.
func (d AgentDraft) Agent(id string) Agent {
	return Agent{
		ID:           id,
		Type:         Slug(d.Name),
		Name:         d.Name,
		Role:         d.Role,
		Description:  d.Description,
		Icon:         d.Icon,
		Color:        d.Color,
		Capabilities: append([]string(nil), d.Capabilities...),
	}
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Slug lower-cases name and collapses whitespace runs to underscores.
func Slug(name string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "_")
}

// ValidationError describes user input that was rejected locally.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
