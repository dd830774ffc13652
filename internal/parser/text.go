package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/writerkit/internal/doctree"
)

// TextParser handles plain text files. Blank lines separate paragraphs;
// line breaks inside a paragraph are kept. Each paragraph records the line
// it starts on in Page. Lines have no length limit.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}

	tree := &doctree.DocTree{Title: trimExt(filename)}

	var current strings.Builder
	start := 0
	flush := func() {
		if current.Len() == 0 {
			return
		}
		tree.Children = append(tree.Children, &doctree.DocNode{
			Text: current.String(),
			Page: start,
		})
		current.Reset()
	}

	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if current.Len() == 0 {
			start = i + 1
		} else {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	flush()

	return tree, nil
}
