// Package ingest converts message files of various formats into plain text
// or Markdown suitable for formatting.
package ingest

import (
	"fmt"
	"path/filepath"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/microcosm-cc/bluemonday"

	"github.com/docformat-toolkit/docformat/pkg/errors"
)

// Format identifies a supported input format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
	FormatHTML     Format = "html"
	FormatPDF      Format = "pdf"
	FormatDOCX     Format = "docx"
)

// maxXMLDepth bounds element nesting in DOCX parts.
const maxXMLDepth = 256

// Detect returns the format implied by path's extension. Unknown
// extensions are treated as plain text.
func Detect(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return FormatMarkdown
	case ".html", ".htm", ".xhtml":
		return FormatHTML
	case ".pdf":
		return FormatPDF
	case ".docx":
		return FormatDOCX
	default:
		return FormatText
	}
}

// SupportedExtensions lists the extensions that get a dedicated converter.
func SupportedExtensions() []string {
	return []string{".md", ".markdown", ".txt", ".html", ".htm", ".xhtml", ".pdf", ".docx"}
}

// Converter turns raw file bytes into text.
type Converter struct {
	policy   *bluemonday.Policy
	markdown *md.Converter
}

// NewConverter creates a Converter with the default HTML policy.
func NewConverter() *Converter {
	return &Converter{
		policy: bluemonday.UGCPolicy(),
		markdown: md.NewConverter(
			md.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

// Convert decodes data according to the format detected from path.
// Markdown and text pass through unchanged.
func (c *Converter) Convert(path string, data []byte) (string, error) {
	var (
		text string
		err  error
	)
	switch Detect(path) {
	case FormatHTML:
		text, err = c.convertHTML(data)
	case FormatPDF:
		text, err = extractPDF(data)
	case FormatDOCX:
		text, err = extractDOCX(data)
	default:
		return string(data), nil
	}
	if err != nil {
		return "", errors.ReadFailed(path, fmt.Errorf("converting %s: %w", Detect(path), err))
	}
	return text, nil
}
