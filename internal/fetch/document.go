package fetch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// DefaultBaseURL is the internship portal that hosts posting documents.
const DefaultBaseURL = "https://internship.cse.hcmut.edu.vn"

// Format identifies how a downloaded document must be read.
type Format string

const (
	// FormatDocx is a Word (OOXML) document.
	FormatDocx Format = "docx"
	// FormatPDF is a PDF document.
	FormatPDF Format = "pdf"
)

// Ext returns the file extension, with dot, used for temp files of this format.
func (f Format) Ext() string {
	return "." + string(f)
}

// FormatForPath infers the document format from a source path.
// Anything not ending in .pdf is treated as docx.
func FormatForPath(path string) Format {
	if strings.HasSuffix(strings.ToLower(strings.TrimSpace(path)), ".pdf") {
		return FormatPDF
	}
	return FormatDocx
}

// Document is a downloaded posting document held in a temp file.
// Close removes the file; it is safe to call more than once.
type Document struct {
	Path   string
	Format Format
	Source string
	Size   int
}

// Close removes the temp file backing the document.
func (d *Document) Close() error {
	if d == nil || d.Path == "" {
		return nil
	}
	err := os.Remove(d.Path)
	if errors.Is(err, os.ErrNotExist) {
		err = nil
	}
	d.Path = ""
	return err
}

// Fetcher downloads posting documents into temp files.
type Fetcher struct {
	BaseURL string
	TempDir string
	Options *Options
}

// NewFetcher creates a Fetcher resolving relative paths against baseURL.
func NewFetcher(baseURL string, opts *Options) *Fetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Fetcher{BaseURL: baseURL, Options: opts}
}

// Download retrieves the document at path and writes it to a temp file.
// The caller must Close the returned Document. On error no temp file remains.
func (f *Fetcher) Download(ctx context.Context, path string) (*Document, error) {
	if strings.TrimSpace(path) == "" {
		return nil, &Error{URL: path, Message: "empty document path"}
	}

	fileURL, err := ResolveURL(f.BaseURL, path)
	if err != nil {
		return nil, &Error{URL: path, Message: "cannot resolve document URL", Cause: err}
	}

	result, err := Get(ctx, fileURL, f.Options)
	if err != nil {
		return nil, err
	}
	if result.IsHTML() {
		return nil, &Error{URL: fileURL, Message: fmt.Sprintf("server returned an HTML page instead of a document (%q)", DescribeHTML(result.Body))}
	}

	format := FormatForPath(path)
	tmp, err := os.CreateTemp(f.TempDir, "internship-*"+format.Ext())
	if err != nil {
		return nil, &Error{URL: fileURL, Message: "failed to create temp file", Cause: err}
	}

	doc := &Document{Path: tmp.Name(), Format: format, Source: fileURL, Size: len(result.Body)}
	if _, err := tmp.Write(result.Body); err != nil {
		_ = tmp.Close()
		_ = doc.Close()
		return nil, &Error{URL: fileURL, Message: "failed to write temp file", Cause: err}
	}
	if err := tmp.Close(); err != nil {
		_ = doc.Close()
		return nil, &Error{URL: fileURL, Message: "failed to close temp file", Cause: err}
	}

	return doc, nil
}
