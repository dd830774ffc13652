// Package tokens estimates prompt sizes and plans the output and thinking
// budget a manuscript leaves within a model's context window.
package tokens

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MaxThinkingBudget caps the thinking budget of a streamed (non-batch) call.
const MaxThinkingBudget = 32000

// EstimateTokens gives a rough token count from the word count, about 1.33
// tokens per English word.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	words := CountWords(text)
	tokens := int(float64(words) * 1.33)
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}

// CountWords counts whitespace-separated words.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// Limits are the model limits a budget is planned against.
type Limits struct {
	ContextWindow  int // total tokens the model accepts
	MaxOutput      int // API ceiling for max_tokens
	ThinkingBudget int // thinking tokens the caller wants
	DesiredOutput  int // visible output tokens the caller wants
}

func DefaultLimits() Limits {
	return Limits{
		ContextWindow:  200000,
		MaxOutput:      128000,
		ThinkingBudget: 32000,
		DesiredOutput:  12000,
	}
}

// Budget is the outcome of Plan.
type Budget struct {
	Words         int
	PromptTokens  int
	Available     int // context window left after the prompt
	MaxTokens     int // max_tokens to request
	Thinking      int // thinking budget left after the desired output
	Capped        bool
	WordsPerToken float64
	Limits        Limits
}

// Plan sizes text against l. Thinking is whatever max_tokens leaves after the
// desired output, capped at MaxThinkingBudget.
func Plan(text string, l Limits) Budget {
	b := Budget{
		Words:        CountWords(text),
		PromptTokens: EstimateTokens(text),
		Limits:       l,
	}
	b.Available = l.ContextWindow - b.PromptTokens
	b.MaxTokens = min(b.Available, l.MaxOutput)
	b.Thinking = b.MaxTokens - l.DesiredOutput
	if b.Thinking > MaxThinkingBudget {
		b.Thinking = MaxThinkingBudget
		b.Capped = true
	}
	if b.PromptTokens > 0 {
		b.WordsPerToken = float64(b.Words) / float64(b.PromptTokens)
	}
	return b
}

// Sufficient reports whether the requested thinking budget fits.
func (b Budget) Sufficient() bool {
	return b.Thinking >= b.Limits.ThinkingBudget
}

// WriteReport writes the plain-text count report for source.
func (b Budget) WriteReport(w io.Writer, source string, now time.Time) error {
	_, err := fmt.Fprintf(w, `Token and Word Count Report
=========================

Analysis of file: %s
Generated on: %s

Word count: %d
Token count: %d
Words per token ratio: %.2f

Context window: %d tokens
Available tokens: %d tokens
Thinking budget: %d tokens
Desired output tokens: %d tokens
`,
		source, now.Format("2006-01-02 15:04:05"),
		b.Words, b.PromptTokens, b.WordsPerToken,
		b.Limits.ContextWindow, b.Available, b.Thinking, b.Limits.DesiredOutput)
	return err
}

// SaveReport writes the report to dir as count_<name>_<timestamp>.txt and
// returns its absolute path.
func (b Budget) SaveReport(dir, source string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	path := filepath.Join(dir, fmt.Sprintf("count_%s_%s.txt", name, now.Format("20060102_150405")))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report: %w", err)
	}
	if err := b.WriteReport(f, source, now); err != nil {
		f.Close()
		return "", fmt.Errorf("write report: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close report: %w", err)
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return path, nil
}
