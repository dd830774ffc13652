package outline

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/writerkit/internal/parser"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
)

// DefaultEncoding is the text encoding outline files are read with unless
// configured otherwise.
const DefaultEncoding = "utf-8"

// Options controls how outline files are read.
type Options struct {
	Encoding             string // WHATWG label, e.g. "utf-8", "windows-1252"
	PDFFallbackPdftotext bool
}

// ReadFile loads an outline file and returns its text, one heading candidate
// per line. Non-text formats (.md, .html, .docx, .pdf) are flattened through
// the matching parser; anything else is read as plain text.
func ReadFile(path string, opts Options) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read outline: %w", err)
	}
	return Decode(data, path, opts)
}

// Decode converts raw outline bytes named by filename into text.
func Decode(data []byte, filename string, opts Options) (string, error) {
	if parser.IsTextFormat(filename) {
		text, err := decodeText(data, opts.Encoding)
		if err != nil {
			return "", err
		}
		data = []byte(text)
	}

	p, err := parser.ForFile(filename, parser.Options{PDFFallbackPdftotext: opts.PDFFallbackPdftotext})
	if err != nil {
		// Unknown extensions are treated as plain text.
		p = &parser.TextParser{}
	}
	tree, err := p.Parse(bytes.NewReader(data), filename)
	if err != nil {
		return "", fmt.Errorf("parse outline: %w", err)
	}
	return strings.Join(tree.Lines(), "\n"), nil
}

func decodeText(data []byte, label string) (string, error) {
	if label == "" {
		label = DefaultEncoding
	}
	enc, name := charset.Lookup(label)
	if enc == nil {
		return "", fmt.Errorf("unknown text encoding %q", label)
	}
	if name == "utf-8" {
		if !utf8.Valid(data) {
			return "", fmt.Errorf("decode outline: invalid utf-8")
		}
		return string(bytes.TrimPrefix(data, []byte("\ufeff"))), nil
	}
	return decodeWith(enc, data)
}

func decodeWith(enc encoding.Encoding, data []byte) (string, error) {
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode outline: %w", err)
	}
	return string(out), nil
}

// ExtractFile reads path and extracts its chapters, surfacing read and decode
// failures to the caller.
func ExtractFile(path string, opts Options) ([]Chapter, error) {
	text, err := ReadFile(path, opts)
	if err != nil {
		return nil, err
	}
	return Extract(text), nil
}

// ExtractFromPath is ExtractFile for callers that only want a best-effort
// result: any failure is logged with its cause and an empty slice is
// returned, so an unreadable file looks like an empty outline.
func ExtractFromPath(path string, opts Options, log *slog.Logger) []Chapter {
	chapters, err := ExtractFile(path, opts)
	if err != nil {
		log.Error("error reading outline file", "path", path, "error", err)
		return []Chapter{}
	}
	return chapters
}

// Write renders chapters in canonical form, one per line.
func Write(w io.Writer, chapters []Chapter) error {
	bw := bufio.NewWriter(w)
	for _, ch := range chapters {
		if _, err := bw.WriteString(ch.String() + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile writes chapters to path, replacing any existing content.
func WriteFile(path string, chapters []Chapter) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chapters file: %w", err)
	}
	if err := Write(f, chapters); err != nil {
		f.Close()
		return fmt.Errorf("write chapters file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close chapters file: %w", err)
	}
	return nil
}
