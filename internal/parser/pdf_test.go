package parser

import (
	"strings"
	"testing"
)

func TestExtractPDF_Empty(t *testing.T) {
	if _, err := ExtractPDF(nil); err == nil {
		t.Fatal("expected an error for empty data")
	}
}

func TestExtractPDF_PrintableFallback(t *testing.T) {
	// Not a parseable PDF; extraction falls back to printable-rune scanning.
	data := []byte("%PDF-1.4\nsupport and resistance levels\x00\x01\x02 matter")
	text, err := ExtractPDF(data)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if !strings.Contains(text, "support and resistance levels") {
		t.Errorf("printable text missing: %q", text)
	}
	if strings.ContainsRune(text, 0x00) {
		t.Error("control bytes must be stripped")
	}
}

func TestExtractPrintableText_KeepsWhitespace(t *testing.T) {
	got := string(extractPrintableText([]byte("line one\nline\ttwo\x07")))
	if got != "line one\nline\ttwo" {
		t.Errorf("unexpected output: %q", got)
	}
}
