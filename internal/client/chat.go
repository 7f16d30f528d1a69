package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

var ErrMissingAnswer = errors.New("chat response has no answer")

type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type ChatResponse struct {
	Answer  string       `json:"answer"`
	Sources []ChatSource `json:"sources,omitempty"`
}

// ChatSource is a document excerpt the backend used to build the answer.
type ChatSource struct {
	Metadata    map[string]any `json:"metadata"`
	TextSnippet string         `json:"text_snippet"`
}

// Chat asks the backend one question about the document behind
// req.SessionID. Non-2xx replies are returned as *APIError.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	reqBytes, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	body, err := c.post(ctx, chatPath, JSONContentType, reqBytes)
	if err != nil {
		return nil, err
	}

	var raw struct {
		Answer  *string      `json:"answer"`
		Sources []ChatSource `json:"sources"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		slog.Error("Failed to unmarshal chat response body", "error", err)
		return nil, fmt.Errorf("failed to decode chat response: %w", err)
	}
	if raw.Answer == nil {
		return nil, ErrMissingAnswer
	}

	return &ChatResponse{Answer: *raw.Answer, Sources: raw.Sources}, nil
}
