package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewTavilyTool_RequiresAPIKey(t *testing.T) {
	if _, err := NewTavilyTool(TavilyConfig{}); err == nil {
		t.Fatal("expected an error for a missing API key")
	}
}

func TestTavily_FormatsResults(t *testing.T) {
	var gotPayload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			t.Error("missing bearer token")
		}
		json.NewDecoder(r.Body).Decode(&gotPayload)
		json.NewEncoder(w).Encode(map[string]any{
			"answer": "The S&P 500 closed higher today.",
			"results": []map[string]string{
				{"title": "Markets rally", "url": "https://example.com/a", "content": "Stocks rose broadly."},
				{"title": "Fed holds rates", "url": "https://example.com/b", "content": "No change expected."},
			},
		})
	}))
	defer srv.Close()

	tool, err := NewTavilyTool(TavilyConfig{APIKey: "test-key", MaxResults: 2, BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("constructor failed: %v", err)
	}

	result, err := tool.Call(context.Background(), json.RawMessage(`{"query":"market news today"}`))
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if !strings.Contains(result, "The S&P 500 closed higher today.") {
		t.Errorf("result should include the synthesized answer: %q", result)
	}
	if !strings.Contains(result, "Markets rally") || !strings.Contains(result, "https://example.com/b") {
		t.Errorf("result should include the search hits: %q", result)
	}

	if gotPayload["query"] != "market news today" {
		t.Errorf("query not forwarded: %v", gotPayload["query"])
	}
	if gotPayload["search_depth"] != "advanced" || gotPayload["include_answer"] != true {
		t.Errorf("search options not forwarded: %v", gotPayload)
	}
	if gotPayload["max_results"] != float64(2) {
		t.Errorf("max_results not forwarded: %v", gotPayload["max_results"])
	}
}

func TestTavily_EmptyResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"results": []any{}})
	}))
	defer srv.Close()

	tool, err := NewTavilyTool(TavilyConfig{APIKey: "test-key", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("constructor failed: %v", err)
	}
	result, err := tool.Call(context.Background(), json.RawMessage(`{"query":"q"}`))
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if result != "No web search results found." {
		t.Errorf("unexpected result: %q", result)
	}
}

func TestTavily_ProviderErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	tool, err := NewTavilyTool(TavilyConfig{APIKey: "test-key", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("constructor failed: %v", err)
	}
	if _, err := tool.Call(context.Background(), json.RawMessage(`{"query":"q"}`)); err == nil {
		t.Fatal("expected provider error to propagate")
	}
}
