package mirror

import (
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestLocalPath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"root", "https://example.edu/", filepath.Join("out", "index.html")},
		{"empty path", "https://example.edu", filepath.Join("out", "index.html")},
		{"page without extension", "https://example.edu/about", filepath.Join("out", "about.html")},
		{"nested page", "https://example.edu/policies/governance", filepath.Join("out", "policies", "governance.html")},
		{"directory style", "https://example.edu/policies/", filepath.Join("out", "policies", "index.html")},
		{"document", "https://example.edu/files/handbook.pdf", filepath.Join("out", "files", "handbook.pdf")},
		{"image", "https://example.edu/assets/img/logo.png", filepath.Join("out", "assets", "img", "logo.png")},
		{"invalid characters", "https://example.edu/a%3Fb/page", filepath.Join("out", "a_b", "page.html")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LocalPath(mustParse(t, tt.in), "out")
			require.Equal(t, tt.want, got)
		})
	}
}

func TestLocalPathDeterministic(t *testing.T) {
	u := mustParse(t, "https://example.edu/policies/academic/grading.pdf")
	first := LocalPath(u, "out")
	second := LocalPath(u, "out")
	require.Equal(t, first, second)
}

func TestSanitizePathPart(t *testing.T) {
	require.Equal(t, "a_b_c", SanitizePathPart(`a?b*c`))
	require.Equal(t, "plain", SanitizePathPart("plain"))
	require.Equal(t, "x_y", SanitizePathPart(`x|y`))
}

func TestMarkdownPath(t *testing.T) {
	require.Equal(t, filepath.Join("out", "about.md"), MarkdownPath(filepath.Join("out", "about.html"), false))
	require.Equal(t, filepath.Join("out", "about.txt"), MarkdownPath(filepath.Join("out", "about.html"), true))
}

func TestForceHTMLExtension(t *testing.T) {
	dir := t.TempDir()

	// Already html: untouched
	p := filepath.Join(dir, "page.html")
	require.Equal(t, p, ForceHTMLExtension(p))

	// Missing extension: .html appended
	p = filepath.Join(dir, "staff@example.com")
	require.Equal(t, p+".html", ForceHTMLExtension(p))

	// Existing file: counter suffix avoids the collision
	require.NoError(t, os.WriteFile(p+".html", []byte("x"), 0644))
	require.Equal(t, p+"_1.html", ForceHTMLExtension(p))
}
