package outline

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestParseLine_Formats(t *testing.T) {
	tests := []struct {
		line string
		want Chapter
	}{
		{"Chapter 1: The Start", Chapter{"1", "The Start"}},
		{"chapter 2. A New Day", Chapter{"2", "A New Day"}},
		{"3: Midpoint", Chapter{"3", "Midpoint"}},
		{"4 No Separator", Chapter{"4", "No Separator"}},
		{"CHAPTER 5: Shouting", Chapter{"5", "Shouting"}},
		{"12: The Return", Chapter{"12", "The Return"}},
		{"Chapter 12: The Return", Chapter{"12", "The Return"}},
		{"007.   Licence", Chapter{"007", "Licence"}},
		{"  8.\tTabbed  ", Chapter{"8", "Tabbed"}},
		{"9: Ends with dots...", Chapter{"9", "Ends with dots..."}},
		{"10: Title: with colon", Chapter{"10", "Title: with colon"}},
		{"11\u00a0Non-breaking", Chapter{"11", "Non-breaking"}},
		{"12\x1fUnit separator", Chapter{"12", "Unit separator"}},
		{"Chapter\x1c13:\x1dFile separator", Chapter{"13", "File separator"}},
		{"14\u0085Next line", Chapter{"14", "Next line"}},
		{"\x1e15: Padded\x1f", Chapter{"15", "Padded"}},
		{"99999999999999999999 Huge", Chapter{"99999999999999999999", "Huge"}},
	}
	for _, tt := range tests {
		got, ok := ParseLine(tt.line)
		if !ok {
			t.Errorf("ParseLine(%q): expected match", tt.line)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLine(%q) = %+v, want %+v", tt.line, got, tt.want)
		}
	}
}

func TestParseLine_Rejects(t *testing.T) {
	lines := []string{
		"",
		"   ",
		"Just some notes",
		"Chapter Twelve",
		"Chapter 5",
		"5.",
		"5:",
		"5",
		"Chapter5: Glued",
		"1.5 Decimal",
		"# 1. Markdown heading",
		"Part 1: Not a chapter",
	}
	for _, line := range lines {
		if ch, ok := ParseLine(line); ok {
			t.Errorf("ParseLine(%q): expected no match, got %+v", line, ch)
		}
	}
}

func TestParseLine_QuoteStripping(t *testing.T) {
	tests := []struct {
		line  string
		title string
	}{
		{`1. "The Beginning"`, "The Beginning"},
		{`1. The Beginning`, "The Beginning"},
		{`1. "Leading only`, "Leading only"},
		{`1. Trailing only"`, "Trailing only"},
		{`1. ""Doubled""`, `"Doubled"`},
		{`1. The "Interior" Quote`, `The "Interior" Quote`},
		{`1. "`, ""},
	}
	for _, tt := range tests {
		got, ok := ParseLine(tt.line)
		if !ok {
			t.Errorf("ParseLine(%q): expected match", tt.line)
			continue
		}
		if got.Title != tt.title {
			t.Errorf("ParseLine(%q).Title = %q, want %q", tt.line, got.Title, tt.title)
		}
	}
}

func TestExtract_OrderAndSkipping(t *testing.T) {
	text := `
My Novel Outline

Act One
Chapter 3: "Out of Order"
Some notes about the chapter.
chapter 1. First

2: Second
2: Second Again
Chapter Twelve
5.
`
	want := []Chapter{
		{"3", "Out of Order"},
		{"1", "First"},
		{"2", "Second"},
		{"2", "Second Again"},
	}
	got := Extract(text)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Extract mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_NoMatches(t *testing.T) {
	for _, text := range []string{"", "\n\n", "nothing to see here\nat all"} {
		got := Extract(text)
		if got == nil {
			t.Errorf("Extract(%q): expected empty slice, got nil", text)
		}
		if len(got) != 0 {
			t.Errorf("Extract(%q): expected no chapters, got %+v", text, got)
		}
	}
}

func TestExtract_WindowsLineEndings(t *testing.T) {
	got := Extract("Chapter 1: One\r\nChapter 2: Two\r\n")
	want := []Chapter{{"1", "One"}, {"2", "Two"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Extract mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_Idempotent(t *testing.T) {
	text := "Chapter 1: A\nnoise\n2. B\n3: \"C\"\n"
	first := Extract(text)
	second := Extract(text)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated extraction differs (-first +second):\n%s", diff)
	}
}

func TestChapter_String(t *testing.T) {
	ch := Chapter{Number: "12", Title: "The Return"}
	if got := ch.String(); got != "12. The Return" {
		t.Errorf("String() = %q, want %q", got, "12. The Return")
	}
}
