package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/shubham-bhadra-10/Legalyze/pkg/apperr"
)

// TextExtractor turns an uploaded document into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

// PDFExtractor extracts text from PDF byte buffers. Pages are walked in
// order; a page's text fragments are joined with a single space and pages
// are joined with a newline. A zero-page document yields "", not an error.
type PDFExtractor struct{}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

var pdfMagic = []byte("%PDF")

func (e *PDFExtractor) Extract(ctx context.Context, data []byte) (text string, err error) {
	raw := normalizeBlob(data)

	if !bytes.HasPrefix(raw, pdfMagic) {
		return "", apperr.New(apperr.KindExtraction, "not a PDF document")
	}

	// The parser panics on some malformed files; surface those as
	// extraction failures like any other parse error.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = apperr.New(apperr.KindExtraction, fmt.Sprintf("parse pdf: %v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", apperr.Wrap(apperr.KindExtraction, "open pdf", err)
	}

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", apperr.Wrap(apperr.KindExtraction, "extraction cancelled", err)
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		content := page.Content()
		fragments := make([]string, 0, len(content.Text))
		for _, t := range content.Text {
			fragments = append(fragments, t.S)
		}
		pages = append(pages, strings.Join(fragments, " "))
	}

	return strings.Join(pages, "\n"), nil
}

// bufferEnvelope is the tagged form byte buffers take after crossing a
// JSON serialization boundary ({"type":"Buffer","data":[...]}).
type bufferEnvelope struct {
	Type string `json:"type"`
	Data []int  `json:"data"`
}

// normalizeBlob resolves the two accepted input shapes into raw binary:
// either the bytes as uploaded, or a serialized buffer envelope picked up
// from the cache. Anything unrecognized passes through untouched and is
// rejected by the magic-byte check.
func normalizeBlob(data []byte) []byte {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return data
	}

	var env bufferEnvelope
	if err := json.Unmarshal(trimmed, &env); err != nil || env.Type != "Buffer" {
		return data
	}

	raw := make([]byte, len(env.Data))
	for i, v := range env.Data {
		raw[i] = byte(v)
	}
	return raw
}
