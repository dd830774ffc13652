package parser

import (
	"io"
	"strings"

	"github.com/dgallion1/writerkit/internal/doctree"
	"github.com/dgallion1/writerkit/internal/plaintext"
	"github.com/yuin/goldmark/ast"
)

// MarkdownParser handles Markdown files using goldmark. Headings nest by
// level; body blocks are rendered as plain text so list numbering survives.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	doc := plaintext.Parse(src)

	tree := &doctree.DocTree{Title: trimExt(filename)}

	type stackEntry struct {
		node  *doctree.DocNode
		level int
	}

	// Root is level 0; every heading nests under it.
	root := &doctree.DocNode{Title: tree.Title}
	stack := []stackEntry{{node: root, level: 0}}

	var blocks []string
	flushText := func() {
		t := strings.TrimSpace(strings.Join(blocks, "\n\n"))
		if t != "" {
			top := stack[len(stack)-1].node
			if top.Text != "" {
				top.Text += "\n\n" + t
			} else {
				top.Text = t
			}
		}
		blocks = blocks[:0]
	}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		heading, ok := n.(*ast.Heading)
		if !ok {
			if t := plaintext.RenderBlock(n, src); t != "" {
				blocks = append(blocks, t)
			}
			continue
		}

		flushText()
		newNode := &doctree.DocNode{Title: plaintext.RenderBlock(heading, src)}
		for len(stack) > 1 && stack[len(stack)-1].level >= heading.Level {
			stack = stack[:len(stack)-1]
		}
		parent := stack[len(stack)-1].node
		parent.Children = append(parent.Children, newNode)
		stack = append(stack, stackEntry{node: newNode, level: heading.Level})
	}
	flushText()

	tree.Children = root.Children
	// Text before the first heading becomes a leading untitled node.
	if root.Text != "" {
		tree.Children = append([]*doctree.DocNode{{Text: root.Text}}, root.Children...)
	}

	return tree, nil
}
