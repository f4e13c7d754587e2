package ingest_test

import (
	"archive/zip"
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/docformat-toolkit/docformat/pkg/errors"
	"github.com/docformat-toolkit/docformat/pkg/ingest"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		path string
		want ingest.Format
	}{
		{"data/message.md", ingest.FormatMarkdown},
		{"notes.TXT", ingest.FormatText},
		{"page.HTML", ingest.FormatHTML},
		{"page.htm", ingest.FormatHTML},
		{"report.pdf", ingest.FormatPDF},
		{"letter.docx", ingest.FormatDOCX},
		{"no-extension", ingest.FormatText},
		{"archive.tar.gz", ingest.FormatText},
	}
	for _, tt := range tests {
		if got := ingest.Detect(tt.path); got != tt.want {
			t.Errorf("Detect(%q) = %s, want %s", tt.path, got, tt.want)
		}
	}
}

func TestConvertPassthrough(t *testing.T) {
	c := ingest.NewConverter()
	for _, path := range []string{"a.md", "a.txt", "a"} {
		in := "# Title\n\n<b>kept as is</b>\n"
		got, err := c.Convert(path, []byte(in))
		if err != nil || got != in {
			t.Errorf("Convert(%q) = %q, %v", path, got, err)
		}
	}
}

func TestConvertHTML(t *testing.T) {
	page := `<!DOCTYPE html>
<html><head><title>Ignored title</title><style>body{color:red}</style></head>
<body>
<h1>Quarterly Report</h1>
<p>Revenue grew <strong>twelve</strong> percent.</p>
<script>alert("x")</script>
<p style="display:none">hidden instructions</p>
<div hidden>also hidden</div>
<ul><li>first</li><li>second</li></ul>
</body></html>`

	got, err := ingest.NewConverter().Convert("report.html", []byte(page))
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	for _, want := range []string{"# Quarterly Report", "**twelve**", "- first", "- second"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	for _, unwanted := range []string{"alert", "hidden instructions", "also hidden", "color:red", "Ignored title"} {
		if strings.Contains(got, unwanted) {
			t.Errorf("output contains %q:\n%s", unwanted, got)
		}
	}
}

func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	fw, err := w.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte(documentXML)); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestConvertDOCX(t *testing.T) {
	doc := buildDOCX(t, `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t>Test Title</w:t></w:r></w:p>
<w:p><w:r><w:t xml:space="preserve">This is </w:t></w:r><w:r><w:t>body text.</w:t></w:r></w:p>
<w:p><w:pPr><w:pStyle w:val="Heading2"/></w:pPr><w:r><w:t>Section Two</w:t></w:r></w:p>
<w:p><w:r><w:t>More content here.</w:t></w:r></w:p>
<w:p></w:p>
</w:body>
</w:document>`)

	got, err := ingest.NewConverter().Convert("letter.docx", doc)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	want := "# Test Title\n\nThis is body text.\n\n## Section Two\n\nMore content here."
	if got != want {
		t.Errorf("Convert = %q, want %q", got, want)
	}
}

func TestConvertDOCXErrors(t *testing.T) {
	var deep strings.Builder
	deep.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for i := 0; i < 300; i++ {
		deep.WriteString("<w:p>")
	}
	for i := 0; i < 300; i++ {
		deep.WriteString("</w:p>")
	}
	deep.WriteString("</w:body></w:document>")

	var noBody bytes.Buffer
	w := zip.NewWriter(&noBody)
	_, _ = w.Create("word/styles.xml")
	_ = w.Close()

	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"not a zip", []byte("plain text"), "open zip"},
		{"missing body", noBody.Bytes(), "not found"},
		{"xml bomb", buildDOCX(t, deep.String()), "nesting depth"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ingest.NewConverter().Convert("x.docx", tt.data)
			if !errors.IsKind(err, errors.KindReadFailed) {
				t.Fatalf("error = %v, want read_failed", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

// buildTextPDF writes a single-page PDF with one text-showing operator.
func buildTextPDF(text string) []byte {
	escaped := strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`).Replace(text)
	stream := "BT\n/F1 12 Tf\n72 720 Td\n(" + escaped + ") Tj\nET"

	var b strings.Builder
	offsets := make([]int, 6)
	b.WriteString("%PDF-1.4\n")
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>",
		"<< /Length " + strconv.Itoa(len(stream)) + " >>\nstream\n" + stream + "\nendstream",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
	}
	for i, obj := range objects {
		offsets[i+1] = b.Len()
		b.WriteString(strconv.Itoa(i+1) + " 0 obj\n" + obj + "\nendobj\n")
	}

	xref := b.Len()
	b.WriteString("xref\n0 6\n0000000000 65535 f \n")
	for i := 1; i <= 5; i++ {
		off := strconv.Itoa(offsets[i])
		b.WriteString(strings.Repeat("0", 10-len(off)) + off + " 00000 n \n")
	}
	b.WriteString("trailer\n<< /Size 6 /Root 1 0 R >>\nstartxref\n" + strconv.Itoa(xref) + "\n%%EOF\n")
	return []byte(b.String())
}

func TestConvertPDF(t *testing.T) {
	got, err := ingest.NewConverter().Convert("report.pdf", buildTextPDF("Hello World (draft) from PDF"))
	if err != nil {
		t.Skipf("pdfcpu rejected the minimal PDF: %v", err)
	}
	if !strings.Contains(got, "Hello World (draft) from PDF") {
		t.Errorf("Convert = %q", got)
	}
}

func TestConvertPDFInvalid(t *testing.T) {
	_, err := ingest.NewConverter().Convert("broken.pdf", []byte("%PDF-1.4\nnot really a pdf"))
	if !errors.IsKind(err, errors.KindReadFailed) {
		t.Errorf("error = %v, want read_failed", err)
	}
}
