package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/shubham-bhadra-10/Legalyze/pkg/apperr"
)

// zeroPagePDF builds a minimal valid PDF whose page tree is empty. The
// cross-reference offsets are computed from the assembled parts so the
// fixture stays valid if the dictionaries change.
func zeroPagePDF() []byte {
	header := "%PDF-1.4\n"
	catalog := "1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n"
	pages := "2 0 obj\n<< /Type /Pages /Kids [] /Count 0 >>\nendobj\n"

	catalogOff := len(header)
	pagesOff := catalogOff + len(catalog)
	xrefOff := pagesOff + len(pages)

	var b strings.Builder
	b.WriteString(header)
	b.WriteString(catalog)
	b.WriteString(pages)
	fmt.Fprintf(&b, "xref\n0 3\n0000000000 65535 f \n%010d 00000 n \n%010d 00000 n \n", catalogOff, pagesOff)
	fmt.Fprintf(&b, "trailer\n<< /Size 3 /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", xrefOff)
	return []byte(b.String())
}

func TestExtractZeroPagePDF(t *testing.T) {
	text, err := NewPDFExtractor().Extract(context.Background(), zeroPagePDF())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if text != "" {
		t.Errorf("Expected empty text for a zero-page document, got %q", text)
	}
}

func TestExtractRejectsNonPDF(t *testing.T) {
	extractor := NewPDFExtractor()

	inputs := [][]byte{
		[]byte("plain text, not a pdf"),
		[]byte("<html><body>hi</body></html>"),
		{0x50, 0x4b, 0x03, 0x04}, // zip magic
	}

	for _, input := range inputs {
		_, err := extractor.Extract(context.Background(), input)
		if err == nil {
			t.Errorf("Input %q: expected extraction error", input)
			continue
		}
		if apperr.KindOf(err) != apperr.KindExtraction {
			t.Errorf("Input %q: expected KindExtraction, got %d", input, apperr.KindOf(err))
		}
	}
}

func TestExtractRejectsCorruptPDF(t *testing.T) {
	extractor := NewPDFExtractor()

	// Right magic bytes, garbage body
	corrupt := append([]byte("%PDF-1.7\n"), bytes.Repeat([]byte{0xde, 0xad}, 64)...)

	_, err := extractor.Extract(context.Background(), corrupt)
	if err == nil {
		t.Fatal("Expected extraction error for corrupt PDF")
	}
	if apperr.KindOf(err) != apperr.KindExtraction {
		t.Errorf("Expected KindExtraction, got %d", apperr.KindOf(err))
	}
}

func TestExtractRejectsEmptyInput(t *testing.T) {
	extractor := NewPDFExtractor()

	_, err := extractor.Extract(context.Background(), nil)
	if err == nil {
		t.Fatal("Expected extraction error for empty input")
	}
	if apperr.KindOf(err) != apperr.KindExtraction {
		t.Errorf("Expected KindExtraction, got %d", apperr.KindOf(err))
	}
}

func TestNormalizeBlobRawPassthrough(t *testing.T) {
	raw := []byte("%PDF-1.4 raw bytes")

	got := normalizeBlob(raw)
	if !bytes.Equal(got, raw) {
		t.Error("Expected raw bytes to pass through untouched")
	}
}

func TestNormalizeBlobBufferEnvelope(t *testing.T) {
	// A byte buffer that crossed a JSON boundary arrives as
	// {"type":"Buffer","data":[...]}
	want := []byte("%PDF-1.4 hello")
	data := make([]int, len(want))
	for i, b := range want {
		data[i] = int(b)
	}
	envelope, err := json.Marshal(map[string]any{"type": "Buffer", "data": data})
	if err != nil {
		t.Fatalf("Failed to marshal envelope: %v", err)
	}

	got := normalizeBlob(envelope)
	if !bytes.Equal(got, want) {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestNormalizeBlobUnrecognizedJSON(t *testing.T) {
	// JSON that is not a buffer envelope passes through and fails the
	// magic check downstream
	input := []byte(`{"type": "Other", "data": "nope"}`)

	got := normalizeBlob(input)
	if !bytes.Equal(got, input) {
		t.Error("Expected unrecognized JSON to pass through untouched")
	}

	_, err := NewPDFExtractor().Extract(context.Background(), input)
	if apperr.KindOf(err) != apperr.KindExtraction {
		t.Error("Expected extraction failure for unrecognized input shape")
	}
}

func TestExtractEnvelopeWrappedPDFMagic(t *testing.T) {
	// An envelope-wrapped buffer is unwrapped before the magic check, so
	// a wrapped non-PDF reports the same error as a bare non-PDF
	payload := []byte("just text")
	data := make([]int, len(payload))
	for i, b := range payload {
		data[i] = int(b)
	}
	envelope, _ := json.Marshal(map[string]any{"type": "Buffer", "data": data})

	_, err := NewPDFExtractor().Extract(context.Background(), envelope)
	if apperr.KindOf(err) != apperr.KindExtraction {
		t.Errorf("Expected KindExtraction, got %d", apperr.KindOf(err))
	}
}
