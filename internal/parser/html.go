package parser

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dgallion1/writerkit/internal/doctree"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML files. h1-h6 open sections; paragraphs, list items,
// table cells and block quotes become text. Items of an <ol> are prefixed
// with their number.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	tree := &doctree.DocTree{Title: trimExt(filename)}
	if title := findElement(doc, "title"); title != nil {
		if t := textContent(title); t != "" {
			tree.Title = t
		}
	}

	type stackEntry struct {
		node  *doctree.DocNode
		level int
	}
	root := &doctree.DocNode{Title: tree.Title}
	stack := []stackEntry{{node: root, level: 0}}
	var paragraphs []string

	flushText := func() {
		if len(paragraphs) == 0 {
			return
		}
		t := strings.Join(paragraphs, "\n")
		top := stack[len(stack)-1].node
		if top.Text != "" {
			top.Text += "\n" + t
		} else {
			top.Text = t
		}
		paragraphs = paragraphs[:0]
	}
	addText := func(t string) {
		if t != "" {
			paragraphs = append(paragraphs, t)
		}
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level := headingLevel(n.Data); level > 0 {
				flushText()
				newNode := &doctree.DocNode{Title: textContent(n)}
				for len(stack) > 1 && stack[len(stack)-1].level >= level {
					stack = stack[:len(stack)-1]
				}
				parent := stack[len(stack)-1].node
				parent.Children = append(parent.Children, newNode)
				stack = append(stack, stackEntry{node: newNode, level: level})
				return
			}

			switch n.Data {
			case "script", "style", "nav", "footer", "header":
				return
			case "ol":
				num := orderedStart(n)
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					if c.Type == html.ElementNode && c.Data == "li" {
						addText(fmt.Sprintf("%d. %s", num, textContent(c)))
						num++
					}
				}
				return
			case "p", "li", "td", "blockquote":
				addText(textContent(n))
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if body := findElement(doc, "body"); body != nil {
		walk(body)
	} else {
		walk(doc)
	}
	flushText()

	tree.Children = root.Children
	if root.Text != "" {
		tree.Children = append([]*doctree.DocNode{{Text: root.Text}}, root.Children...)
	}

	return tree, nil
}

func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

// orderedStart returns the first number of an <ol>, honoring start="N".
func orderedStart(n *html.Node) int {
	for _, a := range n.Attr {
		if a.Key == "start" {
			if v, err := strconv.Atoi(strings.TrimSpace(a.Val)); err == nil {
				return v
			}
		}
	}
	return 1
}

// textContent joins the text under n, collapsing runs of whitespace.
func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}
