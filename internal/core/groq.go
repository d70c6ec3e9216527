package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/stocksage/stocksage/internal/errs"
)

const defaultGroqBaseURL = "https://api.groq.com/openai"

// GroqChat is a chat-completions client against the Groq OpenAI-compatible
// API, with function-tool declarations. It implements ChatModel.
type GroqChat struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

type GroqConfig struct {
	APIKey  string
	Model   string
	BaseURL string // override for tests; defaults to the public API
	Timeout time.Duration
}

func NewGroqChat(cfg GroqConfig) *GroqChat {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultGroqBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 90 * time.Second
	}
	return &GroqChat{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		client:  &http.Client{Timeout: timeout},
	}
}

type groqToolPayload struct {
	Type     string           `json:"type"`
	Function groqFuncDeclared `json:"function"`
}

type groqFuncDeclared struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Complete sends the message sequence (with declared tools, if any) and
// returns the assistant's reply, which carries either text content or
// tool-invocation requests.
func (g *GroqChat) Complete(ctx context.Context, messages []Message, tools []ToolDefinition) (*Message, error) {
	if len(messages) == 0 {
		return nil, fmt.Errorf("message sequence is empty for chat completion")
	}

	payload := map[string]any{
		"model":    g.model,
		"messages": messages,
	}
	if len(tools) > 0 {
		declared := make([]groqToolPayload, 0, len(tools))
		for _, t := range tools {
			declared = append(declared, groqToolPayload{
				Type: "function",
				Function: groqFuncDeclared{
					Name:        t.Name,
					Description: t.Description,
					Parameters:  t.Parameters,
				},
			})
		}
		payload["tools"] = declared
		payload["tool_choice"] = "auto"
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/chat/completions", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, errs.Wrap(err, errs.KindProvider, "groq chat request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, errs.Wrap(err, errs.KindProvider, "failed to read groq response")
	}
	if resp.StatusCode >= 300 {
		return nil, errs.New(errs.KindProvider, "groq chat failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed struct {
		Choices []struct {
			Message Message `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, errs.Wrap(err, errs.KindProvider, "failed to decode groq response")
	}
	if len(parsed.Choices) == 0 {
		return nil, errs.New(errs.KindProvider, "groq returned no choices")
	}

	msg := parsed.Choices[0].Message
	if msg.Role == "" {
		msg.Role = RoleAssistant
	}
	return &msg, nil
}
