package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/stocksage/stocksage/internal/errs"
)

const defaultControlPlaneURL = "https://api.pinecone.io"

// PineconeStore is a minimal REST client to Pinecone: control plane for
// index management, data plane for upsert and query. The index is created
// with a fixed dimensionality and similarity metric; the hosted service is
// the single owner of all persisted state.
type PineconeStore struct {
	apiKey     string
	controlURL string
	indexName  string
	dimension  int
	metric     string
	cloud      string
	region     string
	client     *http.Client

	indexHost string // resolved by EnsureIndex, cached for data-plane calls
}

type PineconeConfig struct {
	APIKey     string
	IndexName  string
	Dimension  int
	Metric     string
	Cloud      string
	Region     string
	ControlURL string // override for tests; defaults to the public control plane
	Timeout    time.Duration
}

func NewPineconeStore(cfg PineconeConfig) (*PineconeStore, error) {
	if cfg.APIKey == "" {
		return nil, errs.New(errs.KindEnvironment, "pinecone API key is empty")
	}
	controlURL := cfg.ControlURL
	if controlURL == "" {
		controlURL = defaultControlPlaneURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &PineconeStore{
		apiKey:     cfg.APIKey,
		controlURL: strings.TrimRight(controlURL, "/"),
		indexName:  cfg.IndexName,
		dimension:  cfg.Dimension,
		metric:     cfg.Metric,
		cloud:      cfg.Cloud,
		region:     cfg.Region,
		client:     &http.Client{Timeout: timeout},
	}, nil
}

// EnsureIndex creates the serverless index if it does not exist and resolves
// the data-plane host. Creating an index that already exists is a no-op: the
// control plane answers 409 for a duplicate name and that is treated as
// success, so concurrent creators cannot fail each other.
func (s *PineconeStore) EnsureIndex(ctx context.Context) error {
	body := map[string]any{
		"name":      s.indexName,
		"dimension": s.dimension,
		"metric":    s.metric,
		"spec": map[string]any{
			"serverless": map[string]any{
				"cloud":  s.cloud,
				"region": s.region,
			},
		},
	}

	status, _, err := s.do(ctx, http.MethodPost, s.controlURL+"/indexes", body, nil)
	if err != nil {
		return err
	}
	switch {
	case status == http.StatusConflict:
		// Index already exists with this name.
	case status >= 300:
		return errs.New(errs.KindProvider, "pinecone create index %s failed with status %d", s.indexName, status)
	default:
		log.Printf("Created Pinecone index %q (dimension=%d, metric=%s)", s.indexName, s.dimension, s.metric)
	}

	return s.resolveHost(ctx)
}

func (s *PineconeStore) resolveHost(ctx context.Context) error {
	if s.indexHost != "" {
		return nil
	}
	var desc struct {
		Host string `json:"host"`
	}
	status, _, err := s.do(ctx, http.MethodGet, s.controlURL+"/indexes/"+s.indexName, nil, &desc)
	if err != nil {
		return err
	}
	if status >= 300 {
		return errs.New(errs.KindProvider, "pinecone describe index %s failed with status %d", s.indexName, status)
	}
	if desc.Host == "" {
		return errs.New(errs.KindProvider, "pinecone describe index %s returned no host", s.indexName)
	}
	if strings.HasPrefix(desc.Host, "http://") || strings.HasPrefix(desc.Host, "https://") {
		s.indexHost = strings.TrimRight(desc.Host, "/")
	} else {
		s.indexHost = "https://" + desc.Host
	}
	return nil
}

// Upsert writes all vectors in one batch. There is no rollback: a failed
// call may leave the batch partially written on the provider side.
func (s *PineconeStore) Upsert(ctx context.Context, vectors []Vector) error {
	if len(vectors) == 0 {
		return nil
	}
	if s.indexHost == "" {
		return errs.New(errs.KindProvider, "pinecone index host not resolved, call EnsureIndex first")
	}
	body := map[string]any{"vectors": vectors}
	status, respBody, err := s.do(ctx, http.MethodPost, s.indexHost+"/vectors/upsert", body, nil)
	if err != nil {
		return err
	}
	if status >= 300 {
		return errs.New(errs.KindProvider, "pinecone upsert failed with status %d: %s", status, strings.TrimSpace(string(respBody)))
	}
	return nil
}

// Query runs a similarity search and returns matches with scores and
// metadata. Callers apply their own score threshold.
func (s *PineconeStore) Query(ctx context.Context, vector []float32, topK int) ([]QueryMatch, error) {
	if topK <= 0 {
		topK = 3
	}
	if s.indexHost == "" {
		if err := s.resolveHost(ctx); err != nil {
			return nil, err
		}
	}
	body := map[string]any{
		"vector":          vector,
		"topK":            topK,
		"includeMetadata": true,
	}
	var out struct {
		Matches []QueryMatch `json:"matches"`
	}
	status, respBody, err := s.do(ctx, http.MethodPost, s.indexHost+"/query", body, &out)
	if err != nil {
		return nil, err
	}
	if status >= 300 {
		return nil, errs.New(errs.KindProvider, "pinecone query failed with status %d: %s", status, strings.TrimSpace(string(respBody)))
	}
	return out.Matches, nil
}

func (s *PineconeStore) do(ctx context.Context, method, url string, body any, out any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal pinecone request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build pinecone request: %w", err)
	}
	req.Header.Set("Api-Key", s.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Pinecone-Api-Version", "2025-01")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, nil, errs.Wrap(err, errs.KindProvider, "pinecone %s %s request failed", method, url)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return resp.StatusCode, nil, errs.Wrap(err, errs.KindProvider, "failed to read pinecone response")
	}
	if out != nil && resp.StatusCode < 300 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return resp.StatusCode, respBody, errs.Wrap(err, errs.KindProvider, "failed to decode pinecone response")
		}
	}
	return resp.StatusCode, respBody, nil
}
