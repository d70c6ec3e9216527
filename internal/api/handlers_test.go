package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stocksage/stocksage/internal/core"
)

type fakeIngestor struct {
	files []core.UploadedFile
	err   error
}

func (f *fakeIngestor) Run(ctx context.Context, files []core.UploadedFile) error {
	f.files = files
	return f.err
}

type fakeAgent struct {
	answer string
	err    error
}

func (f *fakeAgent) Run(ctx context.Context, question string) (string, error) {
	return f.answer, f.err
}

func newTestRouter(ingestor *fakeIngestor, agent *fakeAgent) http.Handler {
	handler := NewAPIHandler(ingestor, func() Agent { return agent }, 5*time.Second)
	return NewRouter(handler)
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v (%s)", err, resp.Body.String())
	}
	return body
}

func TestHealthHandler(t *testing.T) {
	router := newTestRouter(&fakeIngestor{}, &fakeAgent{})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	body := decodeBody(t, resp)
	if body["status"] != "healthy" || body["service"] != "StockSage AI" {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestQueryHandler_ReturnsAnswer(t *testing.T) {
	router := newTestRouter(&fakeIngestor{}, &fakeAgent{answer: "buy low, sell high"})
	req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(`{"question":"advice?"}`))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if body := decodeBody(t, resp); body["answer"] != "buy low, sell high" {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestQueryHandler_AgentFailure(t *testing.T) {
	router := newTestRouter(&fakeIngestor{}, &fakeAgent{err: errors.New("model unavailable")})
	req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(`{"question":"advice?"}`))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	if body := decodeBody(t, resp); body["error"] == "" {
		t.Error("expected an error field in the body")
	}
}

func TestQueryHandler_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"question": `},
		{"empty question", `{"question": ""}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&fakeIngestor{}, &fakeAgent{})
			req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(tt.body))
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)
			if resp.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", resp.Code)
			}
		})
	}
}

func multipartBody(t *testing.T, filenames map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, content := range filenames {
		part, err := writer.CreateFormFile("files", name)
		if err != nil {
			t.Fatal(err)
		}
		part.Write([]byte(content))
	}
	writer.Close()
	return &buf, writer.FormDataContentType()
}

func TestUploadHandler_Success(t *testing.T) {
	ingestor := &fakeIngestor{}
	router := newTestRouter(ingestor, &fakeAgent{})

	body, contentType := multipartBody(t, map[string]string{"notes.txt": "unsupported but accepted"})
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if got := decodeBody(t, resp)["message"]; got != "Files successfully processed and stored." {
		t.Errorf("unexpected message: %q", got)
	}
	if len(ingestor.files) != 1 || ingestor.files[0].Filename != "notes.txt" {
		t.Errorf("uploaded files not forwarded: %+v", ingestor.files)
	}
}

func TestUploadHandler_IngestionFailure(t *testing.T) {
	router := newTestRouter(&fakeIngestor{err: errors.New("embedding quota exceeded")}, &fakeAgent{})

	body, contentType := multipartBody(t, map[string]string{"doc.pdf": "%PDF-1.4"})
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	if body := decodeBody(t, resp); !strings.Contains(body["error"], "quota") {
		t.Errorf("expected the failure message in the body, got %v", body)
	}
}

func TestChatUIHandler_ServesHTML(t *testing.T) {
	router := newTestRouter(&fakeIngestor{}, &fakeAgent{})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("unexpected content type %q", ct)
	}
	if !strings.Contains(resp.Body.String(), "StockSage AI") {
		t.Error("UI page should mention the service name")
	}
}
