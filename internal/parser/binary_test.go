package parser

import (
	"strings"
	"testing"
)

func TestStyleHeadingLevel(t *testing.T) {
	tests := map[string]int{
		"Heading1":  1,
		"heading 2": 2,
		"HEADING 6": 6,
		"Heading9":  9,
		"Heading10": 0,
		"Heading":   0,
		"Normal":    0,
		"":          0,
	}
	for style, want := range tests {
		if got := styleHeadingLevel(style); got != want {
			t.Errorf("styleHeadingLevel(%q) = %d, want %d", style, got, want)
		}
	}
}

func TestDOCXParser_RejectsGarbage(t *testing.T) {
	p := &DOCXParser{}
	if _, err := p.Parse(strings.NewReader("not a zip archive"), "bad.docx"); err == nil {
		t.Fatal("expected error for invalid docx")
	}
}

func TestPDFParser_RejectsGarbageWithoutFallback(t *testing.T) {
	p := &PDFParser{FallbackPdftotext: false}
	if _, err := p.Parse(strings.NewReader("not a pdf"), "bad.pdf"); err == nil {
		t.Fatal("expected error for invalid pdf")
	}
}
