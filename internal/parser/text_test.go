package parser

import (
	"strings"
	"testing"
)

func TestTextParser_BasicParagraphSplitting(t *testing.T) {
	input := "Chapter 1: Arrival\nShe steps off the train.\n\nChapter 2: Departure\n\nNotes."
	p := &TextParser{}
	tree, err := p.Parse(strings.NewReader(input), "outline.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tree.Title != "outline" {
		t.Errorf("expected title %q, got %q", "outline", tree.Title)
	}
	if len(tree.Children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(tree.Children))
	}

	want := []struct {
		text string
		line int
	}{
		{"Chapter 1: Arrival\nShe steps off the train.", 1},
		{"Chapter 2: Departure", 4},
		{"Notes.", 6},
	}
	for i, w := range want {
		if tree.Children[i].Text != w.text {
			t.Errorf("child[%d]: expected %q, got %q", i, w.text, tree.Children[i].Text)
		}
		if tree.Children[i].Page != w.line {
			t.Errorf("child[%d]: expected start line %d, got %d", i, w.line, tree.Children[i].Page)
		}
	}
}

func TestTextParser_EmptyInput(t *testing.T) {
	p := &TextParser{}
	tree, err := p.Parse(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Title != "empty" {
		t.Errorf("expected title %q, got %q", "empty", tree.Title)
	}
	if len(tree.Children) != 0 {
		t.Errorf("expected 0 children for empty input, got %d", len(tree.Children))
	}
}

func TestTextParser_CRLF(t *testing.T) {
	p := &TextParser{}
	tree, err := p.Parse(strings.NewReader("1. One\r\n2. Two\r\n"), "dos.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tree.Children) != 1 {
		t.Fatalf("expected 1 child, got %d", len(tree.Children))
	}
	if tree.Children[0].Text != "1. One\n2. Two" {
		t.Errorf("expected carriage returns stripped, got %q", tree.Children[0].Text)
	}
}

func TestTextParser_WhitespaceOnlyLines(t *testing.T) {
	// Lines with only whitespace should be treated as blank.
	input := "Para one.\n   \n\n\nPara two."
	p := &TextParser{}
	tree, err := p.Parse(strings.NewReader(input), "ws.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tree.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(tree.Children))
	}
}

func TestTextParser_VeryLongLine(t *testing.T) {
	long := strings.Repeat("x", 2<<20)
	input := "Chapter 1: One\n" + long + "\nChapter 2: Two\n"
	p := &TextParser{}
	tree, err := p.Parse(strings.NewReader(input), "outline.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := tree.Lines()
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Chapter 1: One" || len(lines[1]) != len(long) || lines[2] != "Chapter 2: Two" {
		t.Errorf("unexpected lines around the long line: %q ... %q", lines[0], lines[2])
	}
}

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		wantErr  bool
	}{
		{"outline.txt", false},
		{"OUTLINE.MD", false},
		{"notes.markdown", false},
		{"page.htm", false},
		{"book.docx", false},
		{"book.pdf", false},
		{"data.csv", true},
		{"outline", true},
	}
	for _, tt := range tests {
		_, err := ForFile(tt.filename, Options{})
		if (err != nil) != tt.wantErr {
			t.Errorf("ForFile(%q): wantErr=%v, got %v", tt.filename, tt.wantErr, err)
		}
	}
}

func TestIsTextFormat(t *testing.T) {
	tests := map[string]bool{
		"outline.txt": true,
		"outline":     true,
		"outline.md":  true,
		"a.html":      true,
		"a.PDF":       false,
		"a.docx":      false,
	}
	for name, want := range tests {
		if got := IsTextFormat(name); got != want {
			t.Errorf("IsTextFormat(%q) = %v, want %v", name, got, want)
		}
	}
}
