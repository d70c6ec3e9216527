package tools

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/stocksage/stocksage/internal/core"
	"github.com/stocksage/stocksage/internal/errs"
	"github.com/stocksage/stocksage/internal/store"
)

// NothingFoundSentinel is returned for a zero-result search. A search that
// finds nothing is not an error.
const NothingFoundSentinel = "No relevant information found in the knowledge base."

// VectorSearcher is the slice of the vector store the retriever reads from.
type VectorSearcher interface {
	Query(ctx context.Context, vector []float32, topK int) ([]store.QueryMatch, error)
}

// RetrieverTool searches the knowledge base built by the ingestion pipeline:
// it embeds the question, queries the vector index and concatenates the
// texts of matches at or above the score threshold.
type RetrieverTool struct {
	embedder       core.Embedder
	index          VectorSearcher
	topK           int
	scoreThreshold float32
}

func NewRetrieverTool(embedder core.Embedder, index VectorSearcher, topK int, scoreThreshold float32) *RetrieverTool {
	if topK <= 0 {
		topK = 3
	}
	return &RetrieverTool{
		embedder:       embedder,
		index:          index,
		topK:           topK,
		scoreThreshold: scoreThreshold,
	}
}

func (t *RetrieverTool) Name() string { return "retriever_tool" }

func (t *RetrieverTool) Description() string {
	return "Search the stock market knowledge base for relevant information. " +
		"Use this tool when the user asks about concepts, strategies, or information " +
		"that might be covered in uploaded documents about stock trading and investing."
}

func (t *RetrieverTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{
				"type":        "string",
				"description": "The natural-language question to search the knowledge base with.",
			},
		},
		"required": []string{"question"},
	}
}

func (t *RetrieverTool) Call(ctx context.Context, args json.RawMessage) (string, error) {
	var input struct {
		Question string `json:"question"`
	}
	if err := json.Unmarshal(args, &input); err != nil {
		return "", errs.Wrap(err, errs.KindInput, "invalid retriever arguments")
	}

	vector, err := t.embedder.EmbedQuery(ctx, input.Question)
	if err != nil {
		return "", err
	}

	matches, err := t.index.Query(ctx, vector, t.topK)
	if err != nil {
		return "", err
	}

	var texts []string
	for _, match := range matches {
		if match.Score < t.scoreThreshold {
			continue
		}
		if text := match.Metadata["text"]; text != "" {
			texts = append(texts, text)
		}
	}

	if len(texts) == 0 {
		log.Printf("No relevant chunks found for query (score threshold: %.2f)", t.scoreThreshold)
		return NothingFoundSentinel, nil
	}
	return strings.Join(texts, "\n\n"), nil
}
