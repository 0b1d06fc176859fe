package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Agent tests ---

func TestIsCustomID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"agent-1718000000000", true},
		{"agent-", true},
		{"head_coach", false},
		{"my-agent-1", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCustomID(tt.id))
			assert.Equal(t, tt.want, Agent{ID: tt.id}.IsCustom())
		})
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Data Analyst", "data_analyst"},
		{"Data   Analyst", "data_analyst"},
		{"  Spin\tBowling Guru ", "spin_bowling_guru"},
		{"Scout", "scout"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Slug(tt.input))
		})
	}
}

func TestDraftNormalize(t *testing.T) {
	d := AgentDraft{
		Name:         "  Data Analyst ",
		Role:         "Analysis",
		Description:  "Crunches numbers",
		Color:        "magenta",
		Capabilities: []string{"", "  ", " Stats ", "Charts"},
	}.Normalize()

	assert.Equal(t, "Data Analyst", d.Name)
	assert.Equal(t, DefaultIcon, d.Icon)
	assert.Equal(t, ColorBlue, d.Color)
	assert.Equal(t, []string{"Stats", "Charts"}, d.Capabilities)
	assert.NoError(t, d.Validate())
}

func TestDraftValidate(t *testing.T) {
	valid := AgentDraft{Name: "n", Role: "r", Description: "d", Capabilities: []string{"x"}}

	tests := []struct {
		name  string
		edit  func(*AgentDraft)
		field string
	}{
		{"empty name", func(d *AgentDraft) { d.Name = " " }, "name"},
		{"empty role", func(d *AgentDraft) { d.Role = "" }, "role"},
		{"empty description", func(d *AgentDraft) { d.Description = "\n" }, "description"},
		{"blank capabilities", func(d *AgentDraft) { d.Capabilities = []string{"", "  "} }, "capabilities"},
		{"no capabilities", func(d *AgentDraft) { d.Capabilities = nil }, "capabilities"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid
			tt.edit(&d)
			err := d.Normalize().Validate()
			require.Error(t, err)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestDraftAgent(t *testing.T) {
	d := AgentDraft{Name: "Data Analyst", Role: "Analysis", Description: "...", Capabilities: []string{"X"}}.Normalize()
	a := d.Agent("agent-42")

	assert.Equal(t, "agent-42", a.ID)
	assert.Equal(t, "data_analyst", a.Type)
	assert.True(t, a.IsCustom())
	assert.NoError(t, a.Validate())
}

func validAgent() Agent {
	return Agent{ID: "player", Name: "Player", Role: "Performance", Description: "Plays",
		Capabilities: []string{"Skill Execution"}}
}

func TestAgentValidate(t *testing.T) {
	assert.NoError(t, validAgent().Validate())

	tests := []struct {
		name  string
		edit  func(*Agent)
		field string
	}{
		{"missing id", func(a *Agent) { a.ID = "" }, "id"},
		{"blank name", func(a *Agent) { a.Name = " " }, "name"},
		{"blank role", func(a *Agent) { a.Role = "" }, "role"},
		{"blank description", func(a *Agent) { a.Description = "\t" }, "description"},
		{"no capabilities", func(a *Agent) { a.Capabilities = nil }, "capabilities"},
		{"blank capability", func(a *Agent) { a.Capabilities = []string{" ", "x"} }, "capabilities"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validAgent()
			tt.edit(&a)
			err := a.Validate()
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestAgentNormalize(t *testing.T) {
	a := validAgent()
	a.Color = "gray"
	a.Capabilities = []string{"", " Skill Execution ", "  "}

	n := a.Normalize()
	assert.Equal(t, []string{"Skill Execution"}, n.Capabilities)
	assert.Equal(t, DefaultColor, n.Color)
	assert.NoError(t, n.Validate())
	assert.Len(t, a.Capabilities, 3)

	assert.Error(t, Agent{ID: "ghost", Capabilities: []string{" "}}.Normalize().Validate())
}

func TestAgentClone(t *testing.T) {
	a := Agent{ID: "a", Capabilities: []string{"x"}}
	b := a.Clone()
	b.Capabilities[0] = "changed"
	assert.Equal(t, "x", a.Capabilities[0])
}

// --- Color tests ---

func TestParseColor(t *testing.T) {
	for _, c := range Palette {
		assert.Equal(t, c, ParseColor(string(c)))
	}
	assert.Equal(t, DefaultColor, ParseColor(""))
	assert.Equal(t, DefaultColor, ParseColor("BLUE"))
	assert.Equal(t, DefaultColor, ParseColor("gray"))
}

// --- Task tests ---

func TestTaskStatusIndicator(t *testing.T) {
	seen := map[string]bool{}
	for _, s := range []TaskStatus{TaskCompleted, TaskInProgress, TaskFailed, TaskPending} {
		ind := s.Indicator()
		assert.NotEmpty(t, ind, s)
		assert.False(t, seen[ind], "indicator %q reused", ind)
		seen[ind] = true
		assert.True(t, s.Known())
	}

	assert.Equal(t, "", TaskStatus("skipped").Indicator())
	assert.False(t, TaskStatus("skipped").Known())
}

func TestTaskDisplay(t *testing.T) {
	tests := []struct {
		name string
		task Task
		want string
	}{
		{"full result wins", Task{Result: StringPtr("short"), FullResult: StringPtr("long")}, "long"},
		{"summary fallback", Task{Result: StringPtr("short")}, "short"},
		{"empty full result", Task{Result: StringPtr("short"), FullResult: StringPtr("")}, "short"},
		{"placeholder", Task{}, NoResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.task.Display())
		})
	}
}

func TestTaskJSON(t *testing.T) {
	raw := `{"id":"t1","agent":"head_coach","method":"plan_strategy","status":"exploded","result":null,"full_result":"plan"}`

	var task Task
	require.NoError(t, json.Unmarshal([]byte(raw), &task))
	assert.Equal(t, "head_coach", task.AgentType)
	assert.Equal(t, TaskStatus("exploded"), task.Status)
	assert.Nil(t, task.Result)
	assert.Equal(t, "plan", task.Display())
}

func TestAgentIconAndLabel(t *testing.T) {
	assert.Equal(t, "🏏", AgentIcon("batting_coach"))
	assert.Equal(t, DefaultIcon, AgentIcon("agent-1"))
	assert.Equal(t, "head physio", AgentLabel("head_physio"))
}

// --- Notification kind tests ---

func TestParseNotificationKind(t *testing.T) {
	assert.Equal(t, NotifyError, ParseNotificationKind("error"))
	assert.Equal(t, NotifySuccess, ParseNotificationKind("success"))
	assert.Equal(t, NotifyWarning, ParseNotificationKind("warning"))
	assert.Equal(t, NotifyInfo, ParseNotificationKind("info"))
	assert.Equal(t, NotifyInfo, ParseNotificationKind("fatal"))
}
