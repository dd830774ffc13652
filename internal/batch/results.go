package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Result is one line of a batch results stream.
type Result struct {
	CustomID string `json:"custom_id"`
	Result   struct {
		Type    string      `json:"type"` // succeeded, errored, canceled, expired
		Message *Message    `json:"message,omitempty"`
		Error   *ErrorReply `json:"error,omitempty"`
	} `json:"result"`
}

type Message struct {
	ID      string         `json:"id"`
	Content []ContentBlock `json:"content"`
}

type ContentBlock struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	Thinking string `json:"thinking,omitempty"`
}

// ErrorReply is the error envelope of an errored request. The API nests the
// detail one level down: {"type":"error","error":{"type":...,"message":...}}.
type ErrorReply struct {
	Type    string      `json:"type"`
	Message string      `json:"message,omitempty"`
	Error   *ErrorReply `json:"error,omitempty"`
}

// Detail returns the innermost error type and message.
func (e *ErrorReply) Detail() (string, string) {
	if e == nil {
		return "unknown", "Unknown error"
	}
	if e.Error != nil {
		return e.Error.Detail()
	}
	typ, msg := e.Type, e.Message
	if typ == "" {
		typ = "unknown"
	}
	if msg == "" {
		msg = "Unknown error"
	}
	return typ, msg
}

// Status values of a Summary.
const (
	StatusCompleted = "completed"
	StatusPartial   = "partial"
	StatusFailed    = "failed"
	StatusEmpty     = "empty"
)

// ItemError describes one request that did not succeed.
type ItemError struct {
	CustomID string `json:"custom_id"`
	Type     string `json:"type"`
	Message  string `json:"message"`
}

// Summary aggregates a batch's results.
type Summary struct {
	BatchID   string      `json:"batch_id"`
	Status    string      `json:"status"`
	Succeeded int         `json:"succeeded"`
	Errored   int         `json:"errored"`
	Expired   int         `json:"expired"`
	Canceled  int         `json:"canceled"`
	Unknown   int         `json:"unknown"`
	Response  string      `json:"response"`
	Thinking  string      `json:"thinking"`
	Errors    []ItemError `json:"errors"`
}

// Collect streams the results of batchID and folds them into a Summary.
// Each result is logged as it arrives.
func Collect(ctx context.Context, c *Client, batchID string, log *slog.Logger) (*Summary, error) {
	s := &Summary{BatchID: batchID, Errors: []ItemError{}}
	var response, thinking strings.Builder

	err := c.Results(ctx, batchID, func(r Result) error {
		switch r.Result.Type {
		case "succeeded":
			s.Succeeded++
			id := customID(r.CustomID, "#", s.Succeeded)
			if r.Result.Message == nil {
				log.Warn("no message in result", "custom_id", id)
				return nil
			}
			for _, block := range r.Result.Message.Content {
				switch block.Type {
				case "text":
					response.WriteString(block.Text)
				case "thinking":
					thinking.WriteString(block.Thinking)
				}
			}
			log.Info("item succeeded", "custom_id", id)

		case "errored":
			s.Errored++
			id := customID(r.CustomID, "item_", s.Errored)
			typ, msg := r.Result.Error.Detail()
			s.Errors = append(s.Errors, ItemError{CustomID: id, Type: typ, Message: msg})
			if strings.HasPrefix(typ, "invalid_request") {
				// Must be fixed before resending.
				log.Warn("validation error", "custom_id", id, "message", msg)
			} else {
				// Can be retried as is.
				log.Warn("server error", "custom_id", id, "type", typ, "message", msg)
			}

		case "expired":
			s.Expired++
			id := customID(r.CustomID, "item_", s.Expired)
			s.Errors = append(s.Errors, ItemError{
				CustomID: id,
				Type:     "expired",
				Message:  "Request processing time exceeded the limit",
			})
			log.Warn("request expired", "custom_id", id)

		case "canceled":
			s.Canceled++
			id := customID(r.CustomID, "item_", s.Canceled)
			s.Errors = append(s.Errors, ItemError{
				CustomID: id,
				Type:     "canceled",
				Message:  "Request was canceled before processing",
			})
			log.Warn("request canceled", "custom_id", id)

		default:
			s.Unknown++
			log.Warn("unknown result type", "type", r.Result.Type, "custom_id", r.CustomID)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("retrieve results for %s: %w", batchID, err)
	}

	s.Response = response.String()
	s.Thinking = thinking.String()
	s.Status = s.status()
	return s, nil
}

func (s *Summary) status() string {
	failures := s.Errored + s.Expired + s.Canceled
	switch {
	case failures > 0 && s.Succeeded == 0:
		return StatusFailed
	case failures > 0:
		return StatusPartial
	case s.Succeeded > 0:
		return StatusCompleted
	default:
		return StatusEmpty
	}
}

// ExitCode maps the summary status to a process exit code.
func (s *Summary) ExitCode() int {
	switch s.Status {
	case StatusFailed:
		return 1
	case StatusPartial:
		return 2
	case StatusEmpty:
		return 3
	default:
		return 0
	}
}

func customID(id, prefix string, n int) string {
	if id != "" {
		return id
	}
	return fmt.Sprintf("%s%d", prefix, n)
}

// Saved lists the files written by Save. Empty paths were not written.
type Saved struct {
	OutputPath   string
	ThinkingPath string
	ErrorsPath   string
	WordCount    int
}

// Save writes the response, thinking and error report into dir using
// now as the file timestamp.
func (s *Summary) Save(dir string, now time.Time) (Saved, error) {
	var saved Saved
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return saved, fmt.Errorf("create save dir: %w", err)
	}
	ts := now.Format("20060102_150405")

	if s.Response != "" {
		saved.OutputPath = filepath.Join(dir, "output_"+ts+".txt")
		if err := os.WriteFile(saved.OutputPath, []byte(s.Response), 0o644); err != nil {
			return saved, fmt.Errorf("write output: %w", err)
		}
		saved.WordCount = CountWords(s.Response)
	}

	if s.Thinking != "" {
		saved.ThinkingPath = filepath.Join(dir, "thinking_"+ts+".txt")
		body := "=== AI'S THINKING PROCESS ===\n\n" + s.Thinking + "\n\n=== END AI'S THINKING PROCESS ===\n"
		if err := os.WriteFile(saved.ThinkingPath, []byte(body), 0o644); err != nil {
			return saved, fmt.Errorf("write thinking: %w", err)
		}
	}

	if len(s.Errors) > 0 {
		saved.ErrorsPath = filepath.Join(dir, "errors_"+ts+".txt")
		var b strings.Builder
		b.WriteString("=== BATCH PROCESSING ERRORS ===\n\n")
		for i, e := range s.Errors {
			fmt.Fprintf(&b, "Error %d:\n", i+1)
			fmt.Fprintf(&b, "  Custom ID: %s\n", e.CustomID)
			fmt.Fprintf(&b, "  Type: %s\n", e.Type)
			fmt.Fprintf(&b, "  Message: %s\n\n", e.Message)
		}
		if err := os.WriteFile(saved.ErrorsPath, []byte(b.String()), 0o644); err != nil {
			return saved, fmt.Errorf("write errors: %w", err)
		}
	}

	return saved, nil
}

// CountWords counts whitespace-separated words.
func CountWords(text string) int {
	return len(strings.Fields(text))
}
