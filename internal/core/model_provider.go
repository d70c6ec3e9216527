package core

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/stocksage/stocksage/internal/config"
	"github.com/stocksage/stocksage/internal/errs"
)

// ModelProvider resolves credentials and constructs handles to the external
// embedding model (Gemini) and chat model (Groq). Construction validates the
// environment and opens clients but performs no network calls; those happen
// when the handles are used.
type ModelProvider struct {
	cfg      *config.Config
	genai    *genai.Client
	chatable *GroqChat
}

// requireEnv reports every missing variable, not just the first.
func requireEnv(names ...string) error {
	var missing []string
	for _, name := range names {
		if os.Getenv(name) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return errs.New(errs.KindEnvironment, "missing environment variables: [%s]", strings.Join(missing, ", "))
	}
	return nil
}

func NewModelProvider(ctx context.Context, cfg *config.Config) (*ModelProvider, error) {
	if err := requireEnv("GOOGLE_API_KEY", "GROQ_API_KEY"); err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(os.Getenv("GOOGLE_API_KEY")))
	if err != nil {
		return nil, errs.Wrap(err, errs.KindProvider, "failed to create GenAI client")
	}

	chat := NewGroqChat(GroqConfig{
		APIKey: os.Getenv("GROQ_API_KEY"),
		Model:  cfg.LLM.ModelName,
	})

	return &ModelProvider{cfg: cfg, genai: client, chatable: chat}, nil
}

func (p *ModelProvider) Close() {
	if p.genai != nil {
		p.genai.Close()
	}
}

// LoadEmbeddings returns the embedding handle for the configured model.
func (p *ModelProvider) LoadEmbeddings() Embedder {
	return &geminiEmbedder{
		model:     p.genai.EmbeddingModel(p.cfg.EmbeddingModel.ModelName),
		dimension: p.cfg.EmbeddingModel.Dimension,
	}
}

// LoadChatModel returns the chat handle for the configured model.
func (p *ModelProvider) LoadChatModel() ChatModel {
	return p.chatable
}

type geminiEmbedder struct {
	model     *genai.EmbeddingModel
	dimension int
}

func (e *geminiEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	res, err := e.model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, errs.Wrap(err, errs.KindProvider, "gemini embedding request failed")
	}
	if res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, errs.New(errs.KindProvider, "no embedding data received from gemini")
	}
	if err := e.checkDimension(res.Embedding.Values); err != nil {
		return nil, err
	}
	return res.Embedding.Values, nil
}

func (e *geminiEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	batch := e.model.NewBatch()
	for _, text := range texts {
		batch.AddContent(genai.Text(text))
	}
	res, err := e.model.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, errs.Wrap(err, errs.KindProvider, "gemini batch embedding request failed")
	}
	if len(res.Embeddings) != len(texts) {
		return nil, errs.New(errs.KindProvider, "gemini returned %d embeddings for %d inputs", len(res.Embeddings), len(texts))
	}
	out := make([][]float32, len(res.Embeddings))
	for i, emb := range res.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, errs.New(errs.KindProvider, "gemini returned an empty embedding at position %d", i)
		}
		if err := e.checkDimension(emb.Values); err != nil {
			return nil, err
		}
		out[i] = emb.Values
	}
	return out, nil
}

// A dimensionality mismatch with the configured index is unrecoverable, so
// it is detected here, before anything reaches the vector store.
func (e *geminiEmbedder) checkDimension(values []float32) error {
	if e.dimension > 0 && len(values) != e.dimension {
		return fmt.Errorf("embedding dimension %d does not match configured index dimension %d", len(values), e.dimension)
	}
	return nil
}
