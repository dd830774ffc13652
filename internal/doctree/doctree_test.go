package doctree

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLines_ReadingOrder(t *testing.T) {
	tree := &DocTree{
		Title: "ignored",
		Children: []*DocNode{
			{
				Title: "Part One",
				Text:  "intro line\nsecond line",
				Children: []*DocNode{
					{Title: "Chapter 1: Start", Text: "notes"},
					{Text: "loose text"},
				},
			},
			{Title: "Part Two"},
		},
	}

	want := []string{
		"Part One",
		"intro line",
		"second line",
		"Chapter 1: Start",
		"notes",
		"loose text",
		"Part Two",
	}
	if diff := cmp.Diff(want, tree.Lines()); diff != "" {
		t.Errorf("Lines() mismatch (-want +got):\n%s", diff)
	}
}

func TestLines_Empty(t *testing.T) {
	tree := &DocTree{Title: "empty"}
	if got := tree.Lines(); len(got) != 0 {
		t.Errorf("expected no lines, got %q", got)
	}
}
