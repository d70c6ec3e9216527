package api

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/stocksage/stocksage/internal/core"
)

// Ingestor runs the document ingestion pipeline.
type Ingestor interface {
	Run(ctx context.Context, files []core.UploadedFile) error
}

// Agent answers one question. A fresh Agent is constructed per query request
// so conversation state is never shared.
type Agent interface {
	Run(ctx context.Context, question string) (string, error)
}

type APIHandler struct {
	ingestor     Ingestor
	newAgent     func() Agent
	queryTimeout time.Duration
}

func NewAPIHandler(ingestor Ingestor, newAgent func() Agent, queryTimeout time.Duration) *APIHandler {
	if queryTimeout <= 0 {
		queryTimeout = 120 * time.Second
	}
	return &APIHandler{ingestor: ingestor, newAgent: newAgent, queryTimeout: queryTimeout}
}

const maxUploadBytes = 64 << 20

// UploadHandler accepts a multipart list of files and runs the ingestion
// pipeline. Unsupported files inside the batch are skipped by the pipeline,
// not rejected here.
func (h *APIHandler) UploadHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart request: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	var files []core.UploadedFile
	for _, headers := range r.MultipartForm.File {
		for _, header := range headers {
			f, err := header.Open()
			if err != nil {
				writeError(w, http.StatusInternalServerError, "failed to open uploaded file: "+err.Error())
				return
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				writeError(w, http.StatusInternalServerError, "failed to read uploaded file: "+err.Error())
				return
			}
			files = append(files, core.UploadedFile{Filename: header.Filename, Data: data})
		}
	}

	if err := h.ingestor.Run(r.Context(), files); err != nil {
		log.Printf("Error running ingestion pipeline: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Files successfully processed and stored."})
}

type QueryRequest struct {
	Question string `json:"question"`
}

// QueryHandler sends one question through a fresh agent and returns the
// final answer text.
func (h *APIHandler) QueryHandler(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Question == "" {
		writeError(w, http.StatusBadRequest, "question cannot be empty")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.queryTimeout)
	defer cancel()

	answer, err := h.newAgent().Run(ctx, req.Question)
	if err != nil {
		log.Printf("Error answering query: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "StockSage AI"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
