package doctree

import "strings"

// DocTree is the root of a parsed document.
type DocTree struct {
	Title    string     // Document title (from metadata or filename)
	Children []*DocNode // Top-level sections
}

// DocNode is a recursive section in the document tree.
type DocNode struct {
	Title    string     // Section heading (empty for leaf text)
	Text     string     // Text content of this node (may be empty for container nodes)
	Page     int        // Source page (0 if N/A)
	Children []*DocNode // Subsections
}

// Lines flattens the tree in reading order: each section's heading, then its
// text split on newlines, then its subsections. The document title is not
// included.
func (t *DocTree) Lines() []string {
	var lines []string
	var walk func(nodes []*DocNode)
	walk = func(nodes []*DocNode) {
		for _, n := range nodes {
			if n.Title != "" {
				lines = append(lines, n.Title)
			}
			if n.Text != "" {
				lines = append(lines, strings.Split(n.Text, "\n")...)
			}
			walk(n.Children)
		}
	}
	walk(t.Children)
	return lines
}
