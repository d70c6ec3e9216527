package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing config file")
	}
	if !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_ParsesValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
embedding_model:
  model_name: "models/text-embedding-004"
  dimension: 768
llm:
  model_name: "llama-3.3-70b-versatile"
vector_db:
  index_name: "test-index"
splitter:
  chunk_size: 500
  chunk_overlap: 100
retriever:
  top_k: 7
  score_threshold: 0.65
agent:
  max_turns: 4
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.VectorDB.IndexName != "test-index" {
		t.Errorf("index name: got %q", cfg.VectorDB.IndexName)
	}
	if cfg.Splitter.ChunkSize != 500 || cfg.Splitter.ChunkOverlap != 100 {
		t.Errorf("splitter: got %+v", cfg.Splitter)
	}
	if cfg.Retriever.TopK != 7 || cfg.Retriever.ScoreThreshold != 0.65 {
		t.Errorf("retriever: got %+v", cfg.Retriever)
	}
	if cfg.Agent.MaxTurns != 4 {
		t.Errorf("agent max turns: got %d", cfg.Agent.MaxTurns)
	}
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("{}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Splitter.ChunkSize != 1000 || cfg.Splitter.ChunkOverlap != 200 {
		t.Errorf("splitter defaults: got %+v", cfg.Splitter)
	}
	if cfg.EmbeddingModel.Dimension != 768 {
		t.Errorf("embedding dimension default: got %d", cfg.EmbeddingModel.Dimension)
	}
	if cfg.Retriever.TopK != 3 {
		t.Errorf("retriever top_k default: got %d", cfg.Retriever.TopK)
	}
	if cfg.Agent.MaxTurns != 8 || cfg.Agent.TimeoutSecs != 120 {
		t.Errorf("agent defaults: got %+v", cfg.Agent)
	}
	if cfg.Tools.Tavily.MaxResults != 5 {
		t.Errorf("tavily default: got %d", cfg.Tools.Tavily.MaxResults)
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("splitter: {chunk_size: 10"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected a parse error")
	}
}
