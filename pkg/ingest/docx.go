package ingest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const docxBody = "word/document.xml"

// maxDocxPartSize bounds the decompressed size of document.xml.
const maxDocxPartSize = 64 << 20

// extractDOCX reads word/document.xml and renders paragraphs as Markdown,
// turning heading styles into # headings.
func extractDOCX(data []byte) (string, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open zip: %w", err)
	}

	var docFile *zip.File
	for _, f := range r.File {
		if f.Name == docxBody {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", fmt.Errorf("%s not found in archive", docxBody)
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", docxBody, err)
	}
	defer rc.Close()

	decoder := xml.NewDecoder(io.LimitReader(rc, maxDocxPartSize))
	var (
		paragraphs  []string
		current     strings.Builder
		inParagraph bool
		inText      bool
		style       string
		depth       int
	)

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse %s: %w", docxBody, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth > maxXMLDepth {
				return "", fmt.Errorf("XML nesting depth exceeds %d", maxXMLDepth)
			}
			switch t.Name.Local {
			case "p":
				inParagraph = true
				current.Reset()
				style = ""
			case "pStyle":
				if inParagraph {
					for _, attr := range t.Attr {
						if attr.Name.Local == "val" {
							style = attr.Value
						}
					}
				}
			case "t":
				inText = inParagraph
			case "tab":
				if inParagraph {
					current.WriteByte('\t')
				}
			case "br":
				if inParagraph {
					current.WriteByte('\n')
				}
			}

		case xml.CharData:
			if inText {
				current.Write(t)
			}

		case xml.EndElement:
			depth--
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if !inParagraph {
					continue
				}
				inParagraph = false
				text := strings.TrimSpace(current.String())
				if text == "" {
					continue
				}
				if level := headingLevel(style); level > 0 {
					text = strings.Repeat("#", level) + " " + text
				}
				paragraphs = append(paragraphs, text)
			}
		}
	}

	if len(paragraphs) == 0 {
		return "", fmt.Errorf("no text content found in document")
	}
	return strings.Join(paragraphs, "\n\n"), nil
}

// headingLevel extracts the heading level from a paragraph style name.
// e.g. "Heading1" → 1, "Title" → 1, "Subtitle" → 2.
func headingLevel(style string) int {
	lower := strings.ToLower(style)

	switch lower {
	case "title":
		return 1
	case "subtitle":
		return 2
	}

	for _, prefix := range []string{"heading", "titre", "überschrift"} {
		if rest, ok := strings.CutPrefix(lower, prefix); ok {
			if len(rest) == 1 && rest[0] >= '1' && rest[0] <= '6' {
				return int(rest[0] - '0')
			}
		}
	}
	return 0
}
