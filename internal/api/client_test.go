package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/soyeahso/dugout/internal/domain"
	"github.com/soyeahso/dugout/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func silentLog() *logging.Logger {
	return logging.New(nil, "silent")
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", silentLog())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestListAgents(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/agents", r.URL.Path)
		assert.Contains(t, r.Header.Get("User-Agent"), "dugout/")
		_, _ = io.WriteString(w, `{"agents":[
			{"id":"head_coach","name":"Head Coach","role":"Strategy","description":"Plans","icon":"🎯","color":"blue","capabilities":["Match Strategy Planning"]},
			{"id":"agent-1700000000000","type":"scout","name":"Scout","role":"Scouting","description":"Finds talent","icon":"🔥","color":"orange","capabilities":["Talent ID"]}
		]}`)
	})

	agents, err := c.ListAgents(context.Background())
	require.NoError(t, err)
	require.Len(t, agents, 2)
	assert.Equal(t, "head_coach", agents[0].ID)
	assert.False(t, agents[0].IsCustom())
	assert.Equal(t, domain.ColorOrange, agents[1].Color)
	assert.True(t, agents[1].IsCustom())
	assert.Equal(t, "scout", agents[1].Type)
}

func TestExecuteAgent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/agent/execute", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req ExecuteRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "head_coach", req.AgentType)
		assert.Equal(t, "Match against Mumbai Indians", req.InputData)

		writeJSON(w, http.StatusOK, ExecuteResponse{Agent: "head_coach", Result: "Bat first.", Status: "success"})
	})

	resp, err := c.ExecuteAgent(context.Background(), "head_coach", "Match against Mumbai Indians")
	require.NoError(t, err)
	assert.Equal(t, "Bat first.", resp.Result)
	assert.Equal(t, "success", resp.Status)
}

func TestExecuteWorkflow(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/workflow/execute", r.URL.Path)

		var req WorkflowRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Final vs CSK", req.MatchInfo)
		assert.Equal(t, "Virat Kohli", req.PlayerName)

		_, _ = io.WriteString(w, `{"workflow_id":"wf-1","status":"completed","message":"done","tasks":[
			{"id":"t1","agent":"head_coach","method":"plan_strategy","status":"completed","result":"short","full_result":"long"},
			{"id":"t2","agent":"player","method":"report_performance","status":"pending","result":null,"full_result":null},
			{"id":"t3","agent":"scout","method":"scan","status":"queued"}
		]}`)
	})

	resp, err := c.ExecuteWorkflow(context.Background(), "Final vs CSK", "Virat Kohli")
	require.NoError(t, err)
	assert.Equal(t, "wf-1", resp.WorkflowID)
	require.Len(t, resp.Tasks, 3)
	assert.Equal(t, "long", resp.Tasks[0].Display())
	assert.Nil(t, resp.Tasks[1].Result)
	assert.Equal(t, domain.NoResponse, resp.Tasks[1].Display())
	assert.Equal(t, domain.TaskStatus("queued"), resp.Tasks[2].Status)
	assert.False(t, resp.Tasks[2].Status.Known())
}

func TestListWorkflows(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/workflows", r.URL.Path)
		writeJSON(w, http.StatusOK, WorkflowList{Workflows: []WorkflowSummary{
			{ID: "wf-1", Name: "Team Preparation", Status: "completed", TaskCount: 5},
		}})
	})

	list, err := c.ListWorkflows(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 5, list[0].TaskCount)
}

func TestCreateCustomAgent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/agents/custom", r.URL.Path)

		var a domain.Agent
		require.NoError(t, json.NewDecoder(r.Body).Decode(&a))
		writeJSON(w, http.StatusOK, a)
	})

	in := domain.Agent{ID: "agent-1", Type: "scout", Name: "Scout", Role: "r", Description: "d", Icon: "🔥", Color: domain.ColorRed, Capabilities: []string{"x"}}
	out, err := c.CreateCustomAgent(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, in, *out)
}

func TestDeleteCustomAgent(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		gotPath = r.URL.Path
		writeJSON(w, http.StatusOK, DeleteResponse{Status: "deleted", ID: "agent-42"})
	})

	require.NoError(t, c.DeleteCustomAgent(context.Background(), "agent-42"))
	assert.Equal(t, "/api/agents/custom/agent-42", gotPath)
}

func TestHealth(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: "dev"})
	})

	h, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", h.Status)
}

func TestErrorDetail(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"string detail", http.StatusNotFound, `{"detail":"Agent not found"}`, "Agent not found"},
		{"list detail", http.StatusUnprocessableEntity, `{"detail":[{"loc":["body","input_data"],"msg":"field required"}]}`, "field required"},
		{"empty list", http.StatusUnprocessableEntity, `{"detail":[]}`, FallbackDetail},
		{"no detail", http.StatusInternalServerError, `{"error":"boom"}`, FallbackDetail},
		{"not json", http.StatusBadGateway, `<html>bad gateway</html>`, FallbackDetail},
		{"empty body", http.StatusServiceUnavailable, ``, FallbackDetail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := c.ExecuteAgent(context.Background(), "player", "x")
			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.want, Detail(err))
		})
	}
}

func TestDetail_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, silentLog())
	_, err := c.ListAgents(context.Background())
	require.Error(t, err)

	var apiErr *Error
	assert.False(t, errors.As(err, &apiErr))
	assert.Equal(t, FallbackDetail, Detail(err))
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	t.Cleanup(func() { close(release) })

	c = New(c.BaseURL(), silentLog(), WithTimeout(50*time.Millisecond))
	_, err := c.ListAgents(context.Background())
	require.Error(t, err)
	assert.Equal(t, FallbackDetail, Detail(err))
}

func TestContextCancel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.ListAgents(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBadJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"agents":`)
	})

	_, err := c.ListAgents(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse response")
}
