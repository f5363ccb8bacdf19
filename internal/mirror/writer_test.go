package mirror

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"webmirror/internal/config"
)

func newTestWriter(t *testing.T, format string, txtExt bool) (*Writer, string) {
	t.Helper()
	dir := t.TempDir()
	w, err := NewWriter(&config.Config{
		OutputDir:            dir,
		Format:               format,
		MarkdownTxtExtension: txtExt,
	})
	require.NoError(t, err)
	return w, dir
}

func TestWriterSavesHTMLVerbatim(t *testing.T) {
	w, dir := newTestWriter(t, config.FormatHTML, false)

	body := []byte(`<html><body><h1>About</h1></body></html>`)
	local, err := w.Save(mustParse(t, "https://example.edu/about"), body, "text/html; charset=utf-8")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "about.html"), local)

	saved, err := os.ReadFile(local)
	require.NoError(t, err)
	require.Equal(t, body, saved)
}

func TestWriterConvertsHTMLToMarkdown(t *testing.T) {
	w, dir := newTestWriter(t, config.FormatMarkdown, false)

	local, err := w.Save(mustParse(t, "https://example.edu/about"),
		[]byte(`<html><body><h1>About</h1></body></html>`), "text/html")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "about.md"), local)

	saved, err := os.ReadFile(local)
	require.NoError(t, err)
	require.Contains(t, string(saved), "# About")
}

func TestWriterMarkdownTxtExtension(t *testing.T) {
	w, dir := newTestWriter(t, config.FormatMarkdown, true)

	local, err := w.Save(mustParse(t, "https://example.edu/about"),
		[]byte(`<html><body><h1>About</h1></body></html>`), "text/html")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "about.txt"), local)
}

func TestWriterSavesBinaryResource(t *testing.T) {
	w, dir := newTestWriter(t, config.FormatHTML, false)

	body := []byte("%PDF-1.4 fake")
	local, err := w.Save(mustParse(t, "https://example.edu/files/handbook.pdf"), body, "application/pdf")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "files", "handbook.pdf"), local)

	saved, err := os.ReadFile(local)
	require.NoError(t, err)
	require.Equal(t, body, saved)
}

func TestWriterMirrorsDirectoryHierarchy(t *testing.T) {
	w, dir := newTestWriter(t, config.FormatHTML, false)

	_, err := w.Save(mustParse(t, "https://example.edu/a/b/c/page"),
		[]byte("<html></html>"), "text/html")
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(dir, "a", "b", "c"))
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestIsHTML(t *testing.T) {
	require.True(t, IsHTML("text/html"))
	require.True(t, IsHTML("text/html; charset=utf-8"))
	require.True(t, IsHTML("TEXT/HTML"))
	require.False(t, IsHTML("application/pdf"))
	require.False(t, IsHTML("text/css"))
	require.False(t, IsHTML(""))
}
