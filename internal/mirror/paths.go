package mirror

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Characters that cannot appear in file names on common filesystems
var invalidPathChars = regexp.MustCompile(`[\\/:*?"<>|]`)

// SanitizePathPart replaces invalid characters in a path segment with underscores
func SanitizePathPart(part string) string {
	return strings.TrimSpace(invalidPathChars.ReplaceAllString(part, "_"))
}

// LocalPath converts a URL to the local file path that mirrors its hierarchy.
// Directory-style URLs (trailing slash or empty path) map to index.html, and
// a basename without an extension gets ".html". The mapping is deterministic:
// the same URL yields the same path on every run.
func LocalPath(u *url.URL, outputDir string) string {
	path := strings.Trim(u.Path, "/")

	var parts []string
	if path != "" {
		for _, part := range strings.Split(path, "/") {
			parts = append(parts, SanitizePathPart(part))
		}
	}

	if strings.HasSuffix(u.Path, "/") || len(parts) == 0 {
		parts = append(parts, "index.html")
	}

	local := filepath.Join(append([]string{outputDir}, parts...)...)

	if !strings.Contains(filepath.Base(local), ".") {
		local += ".html"
	}

	return local
}

// MarkdownPath swaps the extension of a local page path for .md (or .txt)
func MarkdownPath(localPath string, txtExtension bool) string {
	ext := ".md"
	if txtExtension {
		ext = ".txt"
	}
	return strings.TrimSuffix(localPath, filepath.Ext(localPath)) + ext
}

// ForceHTMLExtension appends .html when the path lacks an html/htm extension.
// Mainly occurs when a path ends in something like ".com" or an email address.
// A numeric suffix avoids clobbering an existing file.
func ForceHTMLExtension(path string) string {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".html") || strings.HasSuffix(lower, ".htm") {
		return path
	}

	newPath := path + ".html"

	counter := 1
	for {
		if _, err := os.Stat(newPath); os.IsNotExist(err) {
			break
		}
		newPath = fmt.Sprintf("%s_%d.html", path, counter)
		counter++
	}

	return newPath
}
