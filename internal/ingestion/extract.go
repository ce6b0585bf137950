// Package ingestion extracts plain text from downloaded posting documents.
package ingestion

import (
	"context"
	"fmt"

	"github.com/jonathan/internship-checker/internal/fetch"
)

// Extractor produces plain text from a document file on disk.
type Extractor interface {
	Extract(path string) (string, error)
}

// ExtractionError wraps a failure to read a document.
type ExtractionError struct {
	Path   string
	Format fetch.Format
	Cause  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to read %s file %s: %v", e.Format, e.Path, e.Cause)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// ForFormat returns the extractor for a document format.
func ForFormat(format fetch.Format) Extractor {
	if format == fetch.FormatPDF {
		return PDFExtractor{}
	}
	return DocxExtractor{}
}

// Reader dispatches documents to the extractor for their format.
type Reader struct{}

// NewReader creates a Reader.
func NewReader() *Reader {
	return &Reader{}
}

// Extract returns the text of doc. On failure the text is empty and the error
// is an *ExtractionError.
func (r *Reader) Extract(_ context.Context, doc *fetch.Document) (string, error) {
	if doc == nil {
		return "", &ExtractionError{Cause: fmt.Errorf("no document")}
	}
	text, err := ForFormat(doc.Format).Extract(doc.Path)
	if err != nil {
		return "", &ExtractionError{Path: doc.Path, Format: doc.Format, Cause: err}
	}
	return text, nil
}
