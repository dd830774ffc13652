package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dgallion1/writerkit/internal/toolkit"
	"github.com/go-chi/chi/v5"
)

// store returns the open tools store, or nil when the server has no state or
// the state was never initialized.
func (s *Server) store() *toolkit.Store {
	if s.state == nil {
		return nil
	}
	return s.state.Store()
}

func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	store := s.store()
	if store == nil {
		jsonError(w, "tools store unavailable", http.StatusServiceUnavailable)
		return
	}
	tools, err := store.Tools(r.Context())
	if err != nil {
		jsonError(w, "failed to list tools: "+err.Error(), http.StatusInternalServerError)
		return
	}
	settings, err := store.Settings(r.Context())
	if err != nil {
		jsonError(w, "failed to read settings: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"tools":    tools,
		"settings": settings,
	})
}

func (s *Server) handleGetTool(w http.ResponseWriter, r *http.Request) {
	store := s.store()
	if store == nil {
		jsonError(w, "tools store unavailable", http.StatusServiceUnavailable)
		return
	}
	t, err := store.Tool(r.Context(), chi.URLParam(r, "name"))
	if errors.Is(err, toolkit.ErrToolNotFound) {
		jsonError(w, "tool not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(t)
}

// sessionResponse is the JSON view of the toolkit session.
type sessionResponse struct {
	Selected    string         `json:"selected"`
	Options     map[string]any `json:"options"`
	Project     string         `json:"project"`
	ProjectPath string         `json:"project_path"`
	SaveDir     string         `json:"save_dir"`
}

func (s *Server) writeSession(w http.ResponseWriter) {
	project, path := s.state.Project()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sessionResponse{
		Selected:    s.state.Selected(),
		Options:     s.state.Options(),
		Project:     project,
		ProjectPath: path,
		SaveDir:     s.state.SaveDir(),
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	if s.store() == nil {
		jsonError(w, "tools store unavailable", http.StatusServiceUnavailable)
		return
	}
	s.writeSession(w)
}

func (s *Server) handleResetSession(w http.ResponseWriter, r *http.Request) {
	if s.store() == nil {
		jsonError(w, "tools store unavailable", http.StatusServiceUnavailable)
		return
	}
	s.state.Reset()
	s.writeSession(w)
}

// handleSelectTool selects a configured tool and replaces the option values.
// Body: {"name": "brainstorm", "options": {...}}.
func (s *Server) handleSelectTool(w http.ResponseWriter, r *http.Request) {
	if s.store() == nil {
		jsonError(w, "tools store unavailable", http.StatusServiceUnavailable)
		return
	}
	var req struct {
		Name    string         `json:"name"`
		Options map[string]any `json:"options"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)).Decode(&req); err != nil {
		uploadError(w, err)
		return
	}
	if req.Name == "" {
		jsonError(w, "name is required", http.StatusBadRequest)
		return
	}

	_, err := s.state.SelectTool(r.Context(), req.Name)
	if errors.Is(err, toolkit.ErrToolNotFound) {
		jsonError(w, "tool not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.state.SetOptions(req.Options)
	s.log.Info("tool selected", "tool", req.Name, "options", len(req.Options))
	s.writeSession(w)
}

// handleSetProject records the current project. Body: {"name": ..., "path": ...}.
func (s *Server) handleSetProject(w http.ResponseWriter, r *http.Request) {
	if s.store() == nil {
		jsonError(w, "tools store unavailable", http.StatusServiceUnavailable)
		return
	}
	var req struct {
		Name string `json:"name"`
		Path string `json:"path"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)).Decode(&req); err != nil {
		uploadError(w, err)
		return
	}
	s.state.SetProject(req.Name, req.Path)
	s.writeSession(w)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"requests": s.requests.Snapshot(),
	}
	if s.batches != nil {
		resp["batches_api"] = s.batches.Stats.Snapshot()
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
