package mirror

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"webmirror/internal/config"
)

// Writer saves fetched content under the output directory, mirroring
// each URL's path hierarchy
type Writer struct {
	outputDir string
	format    string
	txtExt    bool
	converter *Converter
}

// NewWriter creates a Writer, ensuring the output directory exists
func NewWriter(cfg *config.Config) (*Writer, error) {
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	w := &Writer{
		outputDir: cfg.OutputDir,
		format:    cfg.Format,
		txtExt:    cfg.MarkdownTxtExtension,
	}

	if w.format == config.FormatMarkdown {
		w.converter = NewConverter()
	}

	return w, nil
}

// IsHTML reports whether a Content-Type header denotes an HTML page
func IsHTML(contentType string) bool {
	mediaType := strings.TrimSpace(strings.Split(contentType, ";")[0])
	return strings.EqualFold(mediaType, "text/html")
}

// Save writes the body of a fetched URL to disk and returns the local path.
// HTML pages are written verbatim or converted to Markdown depending on the
// configured format; everything else is saved as raw bytes.
func (w *Writer) Save(u *url.URL, body []byte, contentType string) (string, error) {
	local := LocalPath(u, w.outputDir)

	if IsHTML(contentType) {
		if w.format == config.FormatMarkdown {
			return w.savePageMarkdown(local, body)
		}
		return w.savePageHTML(local, body)
	}

	return w.saveBinary(local, body)
}

// savePageHTML writes an HTML page verbatim, forcing a .html extension
func (w *Writer) savePageHTML(local string, body []byte) (string, error) {
	local = ForceHTMLExtension(local)
	if err := w.writeFile(local, body); err != nil {
		return "", err
	}
	logrus.Infof("Saved page: %s", local)
	return local, nil
}

// savePageMarkdown converts an HTML page to Markdown before writing
func (w *Writer) savePageMarkdown(local string, body []byte) (string, error) {
	markdown, err := w.converter.Convert(body)
	if err != nil {
		return "", fmt.Errorf("markdown conversion failed: %w", err)
	}

	local = MarkdownPath(local, w.txtExt)
	if err := w.writeFile(local, markdown); err != nil {
		return "", err
	}
	logrus.Infof("Saved page as markdown: %s", local)
	return local, nil
}

// saveBinary writes any non-HTML resource (pdf, image, stylesheet, ...) as-is
func (w *Writer) saveBinary(local string, body []byte) (string, error) {
	if err := w.writeFile(local, body); err != nil {
		return "", err
	}
	logrus.Infof("Saved resource: %s", local)
	return local, nil
}

// writeFile creates parent directories and writes the file. If the write
// fails, the directory created for it is removed so empty folders don't
// accumulate in the mirror.
func (w *Writer) writeFile(local string, body []byte) error {
	dir := filepath.Dir(local)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to make directory %s: %w", dir, err)
	}

	if err := os.WriteFile(local, body, 0644); err != nil {
		removeDirSafe(dir)
		return fmt.Errorf("failed to write %s: %w", local, err)
	}

	return nil
}

// removeDirSafe removes a directory if it is empty, logging on failure
func removeDirSafe(dir string) {
	if err := os.Remove(dir); err != nil {
		logrus.Debugf("Could not remove directory %s: %v", dir, err)
	}
}
