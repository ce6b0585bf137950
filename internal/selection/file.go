// Package selection picks the source document to analyze for a posting.
package selection

import (
	"strings"

	"github.com/jonathan/internship-checker/internal/types"
)

// Document extensions recognized by the selector and the fetcher.
const (
	ExtDocx = ".docx"
	ExtPDF  = ".pdf"
)

// SelectFile returns the path of the document to analyze and whether one was found.
// A .docx attachment is preferred over any .pdf, which is preferred over the
// legacy single-file field.
func SelectFile(detail types.PostingDetail) (string, bool) {
	if path, ok := firstWithExt(detail.Files, ExtDocx); ok {
		return path, true
	}
	if path, ok := firstWithExt(detail.Files, ExtPDF); ok {
		return path, true
	}
	if fallback := strings.TrimSpace(detail.FallbackFile); fallback != "" {
		return fallback, true
	}
	return "", false
}

// HasExt reports whether path ends with ext, ignoring case.
func HasExt(path, ext string) bool {
	return strings.HasSuffix(strings.ToLower(path), ext)
}

func firstWithExt(files []types.FileRef, ext string) (string, bool) {
	for _, f := range files {
		if HasExt(f.Path, ext) {
			return f.Path, true
		}
	}
	return "", false
}
