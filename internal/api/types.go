package api

import "github.com/soyeahso/dugout/internal/domain"

// AgentList is the body of GET /api/agents.
type AgentList struct {
	Agents []domain.Agent `json:"agents"`
}

// ExecuteRequest is the body of POST /api/agent/execute.
type ExecuteRequest struct {
	AgentType string `json:"agent_type"`
	InputData string `json:"input_data"`
}

// ExecuteResponse is returned by POST /api/agent/execute.
type ExecuteResponse struct {
	Agent  string `json:"agent"`
	Result string `json:"result"`
	Status string `json:"status"`
}

// WorkflowRequest is the body of POST /api/workflow/execute.
type WorkflowRequest struct {
	MatchInfo  string `json:"match_info"`
	PlayerName string `json:"player_name"`
}

// WorkflowResponse is returned by POST /api/workflow/execute.
type WorkflowResponse struct {
	WorkflowID string        `json:"workflow_id"`
	Status     string        `json:"status"`
	Tasks      []domain.Task `json:"tasks"`
	Message    string        `json:"message"`
}

// WorkflowSummary is one entry of GET /api/workflows.
type WorkflowSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	TaskCount int    `json:"task_count"`
}

// WorkflowList is the body of GET /api/workflows.
type WorkflowList struct {
	Workflows []WorkflowSummary `json:"workflows"`
}

// DeleteResponse is returned by DELETE /api/agents/custom/{id}.
type DeleteResponse struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}
