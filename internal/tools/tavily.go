package tools

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

const defaultTavilyBaseURL = "https://api.tavily.com"

// TavilyTool searches the web through the Tavily API for current market
// news and real-time information.
type TavilyTool struct {
	baseURL    string
	apiKey     string
	maxResults int
	client     *http.Client
}

type TavilyConfig struct {
	APIKey     string
	MaxResults int
	BaseURL    string // override for tests
	Timeout    time.Duration
}

func NewTavilyTool(cfg TavilyConfig) (*TavilyTool, error) {
	if cfg.APIKey == "" {
		return nil, errs.New(errs.KindEnvironment, "missing environment variables: [TAVILY_API_KEY]")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultTavilyBaseURL
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &TavilyTool{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     cfg.APIKey,
		maxResults: maxResults,
		client:     &http.Client{Timeout: timeout},
	}, nil
}

func (t *TavilyTool) Name() string { return "web_search" }

func (t *TavilyTool) Description() string {
	return "Search the web for current stock market news, prices, and real-time information. " +
		"Use this for up-to-date market data and news."
}

func (t *TavilyTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "The search query.",
			},
		},
		"required": []string{"query"},
	}
}

func (t *TavilyTool) Call(ctx context.Context, args json.RawMessage) (string, error) {
	var input struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal(args, &input); err != nil {
		return "", errs.Wrap(err, errs.KindInput, "invalid web_search arguments")
	}

	payload := map[string]any{
		"query":               input.Query,
		"max_results":         t.maxResults,
		"search_depth":        "advanced",
		"include_answer":      true,
		"include_raw_content": true,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal tavily request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/search", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to build tavily request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+t.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", errs.Wrap(err, errs.KindProvider, "tavily search request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return "", errs.Wrap(err, errs.KindProvider, "failed to read tavily response")
	}
	if resp.StatusCode >= 300 {
		return "", errs.New(errs.KindProvider, "tavily search failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed struct {
		Answer  string `json:"answer"`
		Results []struct {
			Title   string `json:"title"`
			URL     string `json:"url"`
			Content string `json:"content"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", errs.Wrap(err, errs.KindProvider, "failed to decode tavily response")
	}

	var sb strings.Builder
	if parsed.Answer != "" {
		sb.WriteString("Answer: ")
		sb.WriteString(parsed.Answer)
		sb.WriteString("\n\n")
	}
	for i, result := range parsed.Results {
		if i >= t.maxResults {
			break
		}
		fmt.Fprintf(&sb, "%s (%s)\n%s\n\n", result.Title, result.URL, result.Content)
	}
	if sb.Len() == 0 {
		return "No web search results found.", nil
	}
	return strings.TrimSpace(sb.String()), nil
}
