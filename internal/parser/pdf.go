// Package parser extracts plain text from uploaded document formats.
// Parsing is done entirely in memory; no temporary files are written.
package parser

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// ExtractPDF returns the plain text of a PDF document. If structured text
// extraction yields nothing, it falls back to scanning for printable runes.
func ExtractPDF(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty PDF data")
	}
	if out := tryPlainText(data); len(out) > 0 {
		return string(out), nil
	}
	text := extractPrintableText(data)
	if len(text) == 0 {
		return "", fmt.Errorf("no extractable text in PDF")
	}
	return string(text), nil
}

// tryPlainText extracts structured text via the pdf reader. The reader
// panics on some malformed inputs, so the call is isolated here.
func tryPlainText(data []byte) (out []byte) {
	defer func() {
		if recover() != nil {
			out = nil
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil
	}
	reader, err := r.GetPlainText()
	if err != nil {
		return nil
	}
	out, err = io.ReadAll(reader)
	if err != nil {
		return nil
	}
	return out
}

func extractPrintableText(in []byte) []byte {
	var out bytes.Buffer
	for len(in) > 0 {
		r, size := utf8.DecodeRune(in)
		if r == utf8.RuneError && size == 1 {
			b := in[0]
			if b == '\n' || b == '\r' || b == '\t' || (b >= 32 && b < 127) {
				out.WriteByte(b)
			}
			in = in[1:]
			continue
		}
		in = in[size:]
		if isPrintableRune(r) {
			out.WriteRune(r)
		}
	}
	return out.Bytes()
}

func isPrintableRune(r rune) bool {
	if r == '\n' || r == '\r' || r == '\t' {
		return true
	}
	return r >= 32 && r <= 0x10FFFF && r != 127
}
