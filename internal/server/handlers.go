package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/soyeahso/dugout/internal/api"
	"github.com/soyeahso/dugout/internal/domain"
	"github.com/soyeahso/dugout/internal/store"
)

// maxBodyBytes bounds every request body.
const maxBodyBytes = 1 << 20

// registerRoutes sets up all HTTP routes on the server mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/agents", s.handleListAgents)
	mux.HandleFunc("POST /api/agent/execute", s.handleExecute)
	mux.HandleFunc("POST /api/workflow/execute", s.handleWorkflow)
	mux.HandleFunc("GET /api/workflows", s.handleListWorkflows)
	mux.HandleFunc("POST /api/agents/custom", s.handleCreateAgent)
	mux.HandleFunc("DELETE /api/agents/custom/{id}", s.handleDeleteAgent)

	// Catch-all for unknown routes
	mux.HandleFunc("/", handleNotFound)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, api.HealthResponse{Status: "ok", Version: s.version})
}

// handleNotFound returns a 404 for unknown routes.
func handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeDetail(w, http.StatusNotFound, "Not Found")
}

func (s *Server) handleListAgents(w http.ResponseWriter, r *http.Request) {
	agents, err := s.orch.Agents(r.Context())
	if err != nil {
		s.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.AgentList{Agents: agents})
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	var req api.ExecuteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if issues := required(map[string]string{"agent_type": req.AgentType, "input_data": req.InputData}); len(issues) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, validationBody{Detail: issues})
		return
	}

	result, err := s.orch.Execute(r.Context(), req.AgentType, req.InputData)
	switch {
	case errors.Is(err, ErrUnknownAgent):
		writeDetail(w, http.StatusNotFound, fmt.Sprintf("Agent %s not found", req.AgentType))
		return
	case err != nil:
		s.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.ExecuteResponse{Agent: req.AgentType, Result: result, Status: "success"})
}

func (s *Server) handleWorkflow(w http.ResponseWriter, r *http.Request) {
	var req api.WorkflowRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if issues := required(map[string]string{"match_info": req.MatchInfo}); len(issues) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, validationBody{Detail: issues})
		return
	}

	run, err := s.orch.RunWorkflow(r.Context(), req.MatchInfo, req.PlayerName)
	if err != nil {
		s.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.WorkflowResponse{
		WorkflowID: run.ID,
		Status:     run.Status,
		Tasks:      run.Tasks,
		Message:    "Workflow executed successfully",
	})
}

func (s *Server) handleListWorkflows(w http.ResponseWriter, r *http.Request) {
	runs, err := s.orch.Workflows(r.Context())
	if err != nil {
		s.internalError(w, err)
		return
	}
	out := api.WorkflowList{Workflows: make([]api.WorkflowSummary, 0, len(runs))}
	for _, run := range runs {
		out.Workflows = append(out.Workflows, api.WorkflowSummary{
			ID: run.ID, Name: run.Name, Status: run.Status, TaskCount: run.TaskCount,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateAgent(w http.ResponseWriter, r *http.Request) {
	var a domain.Agent
	if !decodeBody(w, r, &a) {
		return
	}
	if issues := required(map[string]string{"id": a.ID, "name": a.Name, "role": a.Role, "description": a.Description}); len(issues) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, validationBody{Detail: issues})
		return
	}
	if !domain.IsCustomID(a.ID) {
		writeDetail(w, http.StatusBadRequest, fmt.Sprintf("Custom agent ids must start with %q", domain.CustomIDPrefix))
		return
	}
	a = a.Normalize()
	if err := a.Validate(); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	if a.Type == "" {
		a.Type = domain.Slug(a.Name)
	}

	if err := s.orch.AddAgent(r.Context(), a); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			writeDetail(w, http.StatusConflict, fmt.Sprintf("Agent %s already exists", a.ID))
			return
		}
		s.internalError(w, err)
		return
	}
	s.log.Info().Str("id", a.ID).Str("name", a.Name).Msg("custom agent created")
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleDeleteAgent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := findMember(id); ok {
		writeDetail(w, http.StatusBadRequest, "Built-in agents cannot be deleted")
		return
	}
	if err := s.orch.RemoveAgent(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeDetail(w, http.StatusNotFound, fmt.Sprintf("Agent %s not found", id))
			return
		}
		s.internalError(w, err)
		return
	}
	s.log.Info().Str("id", id).Msg("custom agent deleted")
	writeJSON(w, http.StatusOK, api.DeleteResponse{Status: "deleted", ID: id})
}

func (s *Server) internalError(w http.ResponseWriter, err error) {
	s.log.Error().Err(err).Msg("request failed")
	writeDetail(w, http.StatusInternalServerError, err.Error())
}

// validationIssue mirrors one entry of a list-shaped detail.
type validationIssue struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

type validationBody struct {
	Detail []validationIssue `json:"detail"`
}

// required reports blank fields in a stable order.
func required(fields map[string]string) []validationIssue {
	var issues []validationIssue
	for _, name := range []string{"id", "agent_type", "input_data", "match_info", "name", "role", "description"} {
		v, ok := fields[name]
		if ok && strings.TrimSpace(v) == "" {
			issues = append(issues, validationIssue{
				Loc:  []string{"body", name},
				Msg:  "field required",
				Type: "value_error.missing",
			})
		}
	}
	return issues
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, validationBody{Detail: []validationIssue{{
			Loc:  []string{"body"},
			Msg:  "invalid JSON body",
			Type: "value_error.jsondecode",
		}}})
		return false
	}
	return true
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
