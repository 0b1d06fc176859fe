package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/soyeahso/dugout/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failing(name string, err error) *MockClient {
	return &MockClient{
		ProviderName: name,
		CompleteFunc: func(context.Context, CompletionRequest) (*CompletionResponse, error) {
			return nil, err
		},
	}
}

func TestFailoverFallsBackOnRetryable(t *testing.T) {
	primary := failing("ollama", &ProviderError{Provider: "ollama", Message: "dial tcp 127.0.0.1:11434: connect: connection refused"})
	backup := &MockClient{ProviderName: "scripted"}

	f := NewFailover(silentLog(), primary, backup)
	assert.Equal(t, "ollama", f.Name())

	resp, err := f.Complete(context.Background(), userRequest("", "hi"))
	require.NoError(t, err)
	assert.Equal(t, "mock response", resp.Content)
	assert.Len(t, primary.Requests(), 1)
	assert.Len(t, backup.Requests(), 1)
}

func TestFailoverStopsOnPermanentError(t *testing.T) {
	primary := failing("ollama", &ProviderError{Provider: "ollama", Message: "model not found", Code: 404})
	backup := &MockClient{ProviderName: "scripted"}

	_, err := NewFailover(silentLog(), primary, backup).Complete(context.Background(), userRequest("", "hi"))
	require.Error(t, err)
	assert.Empty(t, backup.Requests())
}

func TestFailoverReturnsLastError(t *testing.T) {
	last := &ProviderError{Provider: "b", Message: "overloaded", Code: 503}
	f := NewFailover(silentLog(),
		failing("a", &ProviderError{Provider: "a", Message: "busy", Code: 429}),
		failing("b", last),
	)
	_, err := f.Complete(context.Background(), userRequest("", "hi"))
	assert.ErrorIs(t, err, last)
}

func TestFailoverHonorsCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	backup := &MockClient{ProviderName: "scripted"}
	f := NewFailover(silentLog(), failing("ollama", errors.New("request timeout")), backup)

	_, err := f.Complete(ctx, userRequest("", "hi"))
	require.Error(t, err)
	assert.Empty(t, backup.Requests())
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{&ProviderError{Code: 500}, true},
		{&ProviderError{Code: 400}, false},
		{errors.New("rate limit exceeded"), true},
		{errors.New("lookup x: no such host"), true},
		{errors.New("bad prompt"), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isRetryable(tt.err), "%v", tt.err)
	}
}

func TestNewWithFallback(t *testing.T) {
	c, err := New(config.ServerConfig{
		Responder: "ollama",
		Fallback:  []string{"scripted"},
		Ollama:    config.OllamaConfig{Model: "llama3.2"},
	}, silentLog())
	require.NoError(t, err)
	assert.IsType(t, &Failover{}, c)
	assert.Equal(t, "ollama", c.Name())

	_, err = New(config.ServerConfig{Fallback: []string{"groq"}}, silentLog())
	assert.EqualError(t, err, `fallback: unknown responder "groq"`)
}
