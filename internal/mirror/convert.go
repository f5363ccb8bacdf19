package mirror

import (
	"bytes"
	"fmt"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

// Converter turns fetched HTML documents into Markdown
type Converter struct {
	conv *md.Converter
}

// NewConverter creates a converter with default rules
func NewConverter() *Converter {
	return &Converter{
		conv: md.NewConverter("", true, nil),
	}
}

// Convert parses an HTML document and renders it as Markdown.
// Script, style and noscript elements are dropped before conversion.
func (c *Converter) Convert(html []byte) ([]byte, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript").Remove()

	markdown := c.conv.Convert(doc.Selection)
	return []byte(markdown), nil
}
