package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"NewsDashboard/internal/config"
	"NewsDashboard/internal/ports"
)

// OpenAIClient implements ports.ChatClient backed by OpenAI-compatible
// chat-completion APIs.
type OpenAIClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ ports.ChatClient = (*OpenAIClient)(nil)

// NewOpenAIClient builds a client from configuration.
func NewOpenAIClient(cfg config.AIConfig) *OpenAIClient {
	return &OpenAIClient{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	ResponseFormat map[string]any `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete posts the conversation and returns the first choice's text.
// structured asks the API for JSON-object output mode; per-provider
// support varies, so callers still strip fencing and parse defensively.
func (c *OpenAIClient) Complete(ctx context.Context, messages []ports.Message, model string, structured bool) (string, error) {
	if c.apiKey == "" || c.baseURL == "" || model == "" {
		return "", fmt.Errorf("openai client misconfigured")
	}

	payload := chatRequest{
		Model:    model,
		Messages: make([]chatMessage, 0, len(messages)),
	}
	for _, m := range messages {
		payload.Messages = append(payload.Messages, chatMessage{Role: m.Role, Content: m.Content})
	}
	if structured {
		payload.ResponseFormat = map[string]any{"type": "json_object"}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal chat payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("chat completion %s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}

	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("chat response has no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}
