package mirror

import (
	"net/url"
	"regexp"
	"strings"
)

// Matches url(...) tokens in stylesheet text, quoted or not
var cssURLPattern = regexp.MustCompile(`url\(\s*['"]?([^'")]+)['"]?\s*\)`)

// ExtractCSSURLs scans stylesheet text for url(...) references and resolves
// them against the stylesheet's own URL. Data URIs and fragment-only
// references are skipped.
func ExtractCSSURLs(css string, base *url.URL) []string {
	var refs []string
	seen := make(map[string]bool)

	for _, match := range cssURLPattern.FindAllStringSubmatch(css, -1) {
		ref := strings.TrimSpace(match[1])
		if ref == "" || strings.HasPrefix(ref, "data:") || strings.HasPrefix(ref, "#") {
			continue
		}

		resolved, err := base.Parse(ref)
		if err != nil {
			continue
		}
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			continue
		}

		abs := resolved.String()
		if seen[abs] {
			continue
		}
		seen[abs] = true
		refs = append(refs, abs)
	}

	return refs
}
