// Package plaintext renders Markdown as readable plain text.
package plaintext

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Parse parses Markdown source into a goldmark AST with GFM extensions.
func Parse(src []byte) ast.Node {
	return md.Parser().Parse(text.NewReader(src))
}

// Convert strips Markdown markup from src. Blocks are separated by a blank
// line, list markers are normalized to "- " and "N. ", and tables become one
// "a | b" line per row.
func Convert(src []byte) string {
	doc := Parse(src)
	return strings.TrimSpace(children(doc, src))
}

// RenderBlock renders a single block node of a document parsed from src.
func RenderBlock(n ast.Node, src []byte) string {
	return strings.TrimSpace(block(n, src))
}

func block(n ast.Node, src []byte) string {
	switch node := n.(type) {
	case *ast.Heading, *ast.Paragraph, *ast.TextBlock:
		return strings.TrimSpace(inline(node, src))
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		return strings.TrimRight(rawLines(node, src), "\n")
	case *ast.List:
		return list(node, src)
	case *east.Table:
		return table(node, src)
	case *ast.ThematicBreak, *ast.HTMLBlock:
		return ""
	default:
		return children(node, src)
	}
}

// children renders the block children of n. Inside a tight list item the
// blocks sit on consecutive lines.
func children(n ast.Node, src []byte) string {
	sep := "\n\n"
	if item, ok := n.(*ast.ListItem); ok {
		if l, ok := item.Parent().(*ast.List); ok && l.IsTight {
			sep = "\n"
		}
	}
	var parts []string
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if s := block(c, src); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, sep)
}

func list(l *ast.List, src []byte) string {
	var items []string
	num := l.Start
	for c := l.FirstChild(); c != nil; c = c.NextSibling() {
		marker := "- "
		if l.IsOrdered() {
			marker = fmt.Sprintf("%d. ", num)
			num++
		}
		body := children(c, src)
		pad := strings.Repeat(" ", len(marker))
		lines := strings.Split(body, "\n")
		for i := range lines {
			if i == 0 {
				lines[i] = marker + lines[i]
			} else if lines[i] != "" {
				lines[i] = pad + lines[i]
			}
		}
		items = append(items, strings.Join(lines, "\n"))
	}
	if l.IsTight {
		return strings.Join(items, "\n")
	}
	return strings.Join(items, "\n\n")
}

func table(t *east.Table, src []byte) string {
	var rows []string
	for row := t.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, strings.TrimSpace(inline(cell, src)))
		}
		rows = append(rows, strings.Join(cells, " | "))
	}
	return strings.Join(rows, "\n")
}

func rawLines(n ast.Node, src []byte) string {
	var buf strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(src))
	}
	return buf.String()
}

// inline collects the text of n's inline children.
func inline(n ast.Node, src []byte) string {
	var buf strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			buf.Write(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.String:
			buf.Write(node.Value)
		case *ast.AutoLink:
			buf.Write(node.Label(src))
		case *ast.RawHTML:
			// dropped
		case *east.TaskCheckBox:
			if node.IsChecked {
				buf.WriteString("[x] ")
			} else {
				buf.WriteString("[ ] ")
			}
		default:
			buf.WriteString(inline(node, src))
		}
	}
	return buf.String()
}
