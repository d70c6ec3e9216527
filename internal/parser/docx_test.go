package parser

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"
)

func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write([]byte(documentXML)); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestExtractDOCX_Paragraphs(t *testing.T) {
	docXML := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Moving averages smooth out price data.</w:t></w:r></w:p>
    <w:p><w:r><w:t>A golden cross is a bullish signal.</w:t></w:r></w:p>
  </w:body>
</w:document>`

	text, err := ExtractDOCX(buildDOCX(t, docXML))
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d: %q", len(lines), text)
	}
	if lines[0] != "Moving averages smooth out price data." {
		t.Errorf("first paragraph mismatched: %q", lines[0])
	}
}

func TestExtractDOCX_TableCellsBecomeTabs(t *testing.T) {
	docXML := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:tbl><w:tr>
      <w:tc><w:p><w:r><w:t>Ticker</w:t></w:r></w:p></w:tc>
      <w:tc><w:p><w:r><w:t>Price</w:t></w:r></w:p></w:tc>
    </w:tr></w:tbl>
  </w:body>
</w:document>`

	text, err := ExtractDOCX(buildDOCX(t, docXML))
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if !strings.Contains(text, "Ticker") || !strings.Contains(text, "Price") {
		t.Errorf("table text missing: %q", text)
	}
}

func TestExtractDOCX_InvalidArchive(t *testing.T) {
	if _, err := ExtractDOCX([]byte("not a zip file")); err == nil {
		t.Fatal("expected an error for a non-zip payload")
	}
}

func TestExtractDOCX_MissingDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, _ := w.Create("word/other.xml")
	f.Write([]byte("<x/>"))
	w.Close()

	if _, err := ExtractDOCX(buf.Bytes()); err == nil {
		t.Fatal("expected an error when word/document.xml is absent")
	}
}

func TestExtractDOCX_Empty(t *testing.T) {
	if _, err := ExtractDOCX(nil); err == nil {
		t.Fatal("expected an error for empty data")
	}
}
