package core

import (
	"context"
	"log"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/stocksage/stocksage/internal/config"
	"github.com/stocksage/stocksage/internal/errs"
	"github.com/stocksage/stocksage/internal/parser"
	"github.com/stocksage/stocksage/internal/store"
)

// UploadedFile is one file received from the HTTP surface.
type UploadedFile struct {
	Filename string
	Data     []byte
}

// Document is parsed text plus its source filename. Documents exist only
// between parsing and chunking; they are never retained.
type Document struct {
	Content string
	Source  string
}

// Chunk is a bounded-length slice of a document's text with a generated
// unique identifier.
type Chunk struct {
	ID     string
	Text   string
	Source string
}

// VectorWriter is the slice of the vector store the pipeline writes to.
type VectorWriter interface {
	EnsureIndex(ctx context.Context) error
	Upsert(ctx context.Context, vectors []store.Vector) error
}

// DataIngestion parses uploaded files, splits them into overlapping chunks
// and upserts the embedded chunks into the vector index.
type DataIngestion struct {
	cfg      *config.Config
	embedder Embedder
	index    VectorWriter
	splitter *Splitter
}

// NewDataIngestion validates the required environment before any file is
// touched, then wires the injected embedding and index handles.
func NewDataIngestion(cfg *config.Config, embedder Embedder, index VectorWriter) (*DataIngestion, error) {
	if err := requireEnv("GOOGLE_API_KEY", "PINECONE_API_KEY"); err != nil {
		return nil, err
	}
	return &DataIngestion{
		cfg:      cfg,
		embedder: embedder,
		index:    index,
		splitter: NewSplitter(cfg.Splitter.ChunkSize, cfg.Splitter.ChunkOverlap),
	}, nil
}

// LoadDocuments parses each uploaded file by extension. Unsupported
// extensions are skipped with a warning; a parser failure fails the batch.
func (d *DataIngestion) LoadDocuments(files []UploadedFile) ([]Document, error) {
	var documents []Document
	for _, file := range files {
		ext := strings.ToLower(filepath.Ext(file.Filename))
		var (
			text string
			err  error
		)
		switch ext {
		case ".pdf":
			text, err = parser.ExtractPDF(file.Data)
		case ".docx":
			text, err = parser.ExtractDOCX(file.Data)
		default:
			log.Printf("Warning: unsupported file type, skipping: %s", file.Filename)
			continue
		}
		if err != nil {
			return nil, errs.Wrap(err, errs.KindInput, "failed to parse %s", file.Filename)
		}
		documents = append(documents, Document{Content: text, Source: file.Filename})
	}
	log.Printf("Loaded %d documents", len(documents))
	return documents, nil
}

// Split partitions every document into chunks, each with a fresh UUID.
func (d *DataIngestion) Split(documents []Document) []Chunk {
	var chunks []Chunk
	for _, doc := range documents {
		for _, text := range d.splitter.Split(doc.Content) {
			chunks = append(chunks, Chunk{
				ID:     uuid.NewString(),
				Text:   text,
				Source: doc.Source,
			})
		}
	}
	return chunks
}

// Store ensures the index exists, embeds every chunk and upserts them in one
// batch. Any failure aborts the call; a partially written batch is left to
// the provider (no rollback).
func (d *DataIngestion) Store(ctx context.Context, chunks []Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	if err := d.index.EnsureIndex(ctx); err != nil {
		return err
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}
	embeddings, err := d.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return err
	}

	vectors := make([]store.Vector, len(chunks))
	for i, chunk := range chunks {
		vectors[i] = store.Vector{
			ID:     chunk.ID,
			Values: embeddings[i],
			Metadata: map[string]string{
				"text":   chunk.Text,
				"source": chunk.Source,
			},
		}
	}
	if err := d.index.Upsert(ctx, vectors); err != nil {
		return err
	}

	log.Printf("Stored %d chunks in vector index", len(chunks))
	return nil
}

// Run composes the pipeline: parse, split, store. Producing no documents is
// not an error; the index is simply left untouched.
func (d *DataIngestion) Run(ctx context.Context, files []UploadedFile) error {
	documents, err := d.LoadDocuments(files)
	if err != nil {
		return err
	}
	if len(documents) == 0 {
		log.Println("Warning: no valid documents found, nothing to ingest")
		return nil
	}

	chunks := d.Split(documents)
	log.Printf("Split %d documents into %d chunks", len(documents), len(chunks))

	if err := d.Store(ctx, chunks); err != nil {
		return err
	}
	log.Println("Ingestion pipeline completed successfully")
	return nil
}
