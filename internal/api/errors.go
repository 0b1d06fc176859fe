package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// FallbackDetail is shown when a failure carries no usable message.
const FallbackDetail = "An error occurred"

// Error is a non-2xx response from the orchestration service.
type Error struct {
	StatusCode int
	Detail     string // first usable message from the body, may be empty
	Body       string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("service returned %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("service returned %d", e.StatusCode)
}

// Detail extracts a user-facing message from err. Service errors yield
// their detail; anything else, including transport failures, yields
// FallbackDetail.
func Detail(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return FallbackDetail
}

// parseDetail pulls "detail" out of an error body. It accepts a string or
// a list of {msg} objects.
func parseDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		for _, item := range items {
			if msg := strings.TrimSpace(item.Msg); msg != "" {
				return msg
			}
		}
	}
	return ""
}
