package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/writerkit/internal/outline"
	"github.com/dgallion1/writerkit/internal/plaintext"
)

// handleChapters extracts chapter headings from an uploaded outline. The
// outline is either the multipart field "file" or the raw request body; a raw
// body is named by the "filename" query parameter and defaults to text.
func (s *Server) handleChapters(w http.ResponseWriter, r *http.Request) {
	data, filename, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	encoding := r.URL.Query().Get("encoding")
	if encoding == "" {
		encoding = s.cfg.OutlineEncoding
	}
	text, err := outline.Decode(data, filename, outline.Options{
		Encoding:             encoding,
		PDFFallbackPdftotext: s.cfg.PDFFallbackPdftotext,
	})
	if err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	chapters := outline.Extract(text)
	s.log.Info("chapters extracted", "filename", filename, "count", len(chapters))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"count":    len(chapters),
		"chapters": chapters,
	})
}

// handlePlaintext converts a Markdown body to plain text.
func (s *Server) handlePlaintext(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	src, err := io.ReadAll(r.Body)
	if err != nil {
		uploadError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, plaintext.Convert(src))
}

// readUpload returns the uploaded bytes and a sanitized filename. It writes
// the error response itself and reports false on failure.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, bool) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
		data, err := io.ReadAll(r.Body)
		if err != nil {
			uploadError(w, err)
			return nil, "", false
		}
		name := r.URL.Query().Get("filename")
		if name == "" {
			name = outline.DefaultInputPath
		}
		return data, sanitizeFilename(name), true
	}

	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		uploadError(w, fmt.Errorf("invalid multipart form: %w", err))
		return nil, "", false
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return nil, "", false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return nil, "", false
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return nil, "", false
	}
	return data, sanitizeFilename(header.Filename), true
}

func uploadError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		jsonError(w, fmt.Sprintf("request exceeds max size (%d bytes)", tooLarge.Limit), http.StatusRequestEntityTooLarge)
		return
	}
	jsonError(w, err.Error(), http.StatusBadRequest)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
