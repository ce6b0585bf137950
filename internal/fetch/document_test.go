package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDocServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/files/posting.docx", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
		_, _ = w.Write([]byte("docx-bytes"))
	})
	mux.HandleFunc("/files/posting.PDF", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 fake"))
	})
	mux.HandleFunc("/files/legacy", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write([]byte("legacy"))
	})
	mux.HandleFunc("/files/login.pdf", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><head><title>Login</title></head></html>"))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestFetcher(t *testing.T, baseURL string) (*Fetcher, string) {
	t.Helper()
	dir := t.TempDir()
	f := NewFetcher(baseURL, nil)
	f.TempDir = dir
	return f, dir
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, FormatPDF, FormatForPath("/a/b.pdf"))
	assert.Equal(t, FormatPDF, FormatForPath("/a/B.PDF"))
	assert.Equal(t, FormatDocx, FormatForPath("/a/b.docx"))
	assert.Equal(t, FormatDocx, FormatForPath("/a/b"))
	assert.Equal(t, FormatDocx, FormatForPath("/a/b.doc"))
	assert.Equal(t, ".pdf", FormatPDF.Ext())
}

func TestDownload_Docx(t *testing.T) {
	server := newDocServer(t)
	f, dir := newTestFetcher(t, server.URL)

	doc, err := f.Download(context.Background(), "/files/posting.docx")
	require.NoError(t, err)
	defer func() { _ = doc.Close() }()

	assert.Equal(t, FormatDocx, doc.Format)
	assert.True(t, strings.HasSuffix(doc.Path, ".docx"))
	assert.Equal(t, dir, filepath.Dir(doc.Path))
	assert.Equal(t, server.URL+"/files/posting.docx", doc.Source)

	data, err := os.ReadFile(doc.Path)
	require.NoError(t, err)
	assert.Equal(t, "docx-bytes", string(data))
	assert.Equal(t, len(data), doc.Size)
}

func TestDownload_PDFSuffixIgnoresCase(t *testing.T) {
	server := newDocServer(t)
	f, _ := newTestFetcher(t, server.URL)

	doc, err := f.Download(context.Background(), "/files/posting.PDF")
	require.NoError(t, err)
	defer func() { _ = doc.Close() }()

	assert.Equal(t, FormatPDF, doc.Format)
	assert.True(t, strings.HasSuffix(doc.Path, ".pdf"))
}

func TestDownload_UnknownExtensionIsDocx(t *testing.T) {
	server := newDocServer(t)
	f, _ := newTestFetcher(t, server.URL)

	doc, err := f.Download(context.Background(), "/files/legacy")
	require.NoError(t, err)
	defer func() { _ = doc.Close() }()

	assert.Equal(t, FormatDocx, doc.Format)
}

func TestDownload_CloseRemovesFile(t *testing.T) {
	server := newDocServer(t)
	f, dir := newTestFetcher(t, server.URL)

	doc, err := f.Download(context.Background(), "/files/posting.docx")
	require.NoError(t, err)
	require.Len(t, dirEntries(t, dir), 1)

	require.NoError(t, doc.Close())
	assert.Empty(t, dirEntries(t, dir))

	// Second close is a no-op.
	assert.NoError(t, doc.Close())
}

func TestDownload_FailuresLeaveNoTempFile(t *testing.T) {
	server := newDocServer(t)

	tests := []struct {
		name    string
		path    string
		wantMsg string
	}{
		{name: "not found", path: "/files/missing.pdf", wantMsg: "404"},
		{name: "html page", path: "/files/login.pdf", wantMsg: "Login"},
		{name: "empty path", path: "  ", wantMsg: "empty document path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, dir := newTestFetcher(t, server.URL)

			doc, err := f.Download(context.Background(), tt.path)
			require.Error(t, err)
			assert.Nil(t, doc)
			assert.Contains(t, err.Error(), tt.wantMsg)

			var fetchErr *Error
			assert.ErrorAs(t, err, &fetchErr)
			assert.Empty(t, dirEntries(t, dir))
		})
	}
}

func TestDocument_CloseNil(t *testing.T) {
	var d *Document
	assert.NoError(t, d.Close())
}
