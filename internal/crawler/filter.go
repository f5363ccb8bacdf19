package crawler

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Excluded URL patterns (tag-manager noise, CMS asset endpoints, trackers)
var excludedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)google_tag`),
	regexp.MustCompile(`(?i)googletagmanager\.com`),
	regexp.MustCompile(`(?i)google-analytics\.com`),
	regexp.MustCompile(`(?i)doubleclick\.net`),
	regexp.MustCompile(`Drupal`),
}

// NormalizeURL parses a URL, strips its fragment and lowercases the scheme
// and host, returning the canonical form used for visited-set keys.
// Non-http(s) and relative URLs normalize to the empty string.
func NormalizeURL(raw string) (string, error) {
	// Handle protocol-relative URLs
	if strings.HasPrefix(raw, "//") {
		raw = "https:" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("failed to parse URL: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", nil
	}
	if parsed.Host == "" {
		return "", nil
	}

	parsed.Scheme = strings.ToLower(parsed.Scheme)
	parsed.Host = strings.ToLower(parsed.Host)
	parsed.Fragment = ""

	return parsed.String(), nil
}

// ExtractHost returns the lowercased host (including port) of a URL
func ExtractHost(raw string) (string, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	return strings.ToLower(parsed.Host), nil
}

// IsExcluded checks if a URL matches any excluded pattern
func IsExcluded(raw string) bool {
	for _, pattern := range excludedPatterns {
		if pattern.MatchString(raw) {
			return true
		}
	}
	return false
}
