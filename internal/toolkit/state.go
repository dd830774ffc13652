package toolkit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"sync"
)

// ErrNotInitialized is returned by State methods that need the store before
// Init has run.
var ErrNotInitialized = errors.New("toolkit state not initialized")

// State is the runtime state of a toolkit session: the open store, the
// selected tool with its option values and the current project. It is safe
// for concurrent use.
type State struct {
	projectsDir string
	dbPath      string
	log         *slog.Logger

	mu          sync.Mutex
	store       *Store
	selected    string
	options     map[string]any
	project     string
	projectPath string
	saveDir     string
}

// NewState returns an uninitialized State. Call Init before use.
func NewState(projectsDir, dbPath string, log *slog.Logger) *State {
	if log == nil {
		log = slog.Default()
	}
	return &State{
		projectsDir: projectsDir,
		dbPath:      dbPath,
		log:         log,
		options:     map[string]any{},
		saveDir:     projectsDir,
	}
}

// Init creates the projects directory and opens the store. Calling it again
// is a no-op.
func (s *State) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store != nil {
		return nil
	}
	if err := os.MkdirAll(s.projectsDir, 0o755); err != nil {
		return fmt.Errorf("create projects dir: %w", err)
	}
	store, err := OpenStore(s.dbPath)
	if err != nil {
		return err
	}
	s.store = store
	s.log.Debug("toolkit state initialized", "projects_dir", s.projectsDir, "db", s.dbPath)
	return nil
}

// Store returns the open store, or nil before Init.
func (s *State) Store() *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store
}

// SelectTool looks the tool up in the store and makes it the selection.
func (s *State) SelectTool(ctx context.Context, name string) (Tool, error) {
	store := s.Store()
	if store == nil {
		return Tool{}, ErrNotInitialized
	}
	t, err := store.Tool(ctx, name)
	if err != nil {
		return Tool{}, err
	}
	s.mu.Lock()
	s.selected = name
	s.mu.Unlock()
	return t, nil
}

func (s *State) Selected() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// SetOptions replaces the option values. The map is copied.
func (s *State) SetOptions(values map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.options = maps.Clone(values)
	if s.options == nil {
		s.options = map[string]any{}
	}
}

// Options returns a copy of the option values.
func (s *State) Options() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.options)
}

// SetProject records the current project. An existing path becomes the save
// directory.
func (s *State) SetProject(name, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.project = name
	s.projectPath = path
	if path == "" {
		return
	}
	if _, err := os.Stat(path); err == nil {
		s.saveDir = path
	}
}

func (s *State) Project() (name, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.project, s.projectPath
}

// SaveDir is where tool output goes: the project path when set, otherwise
// the projects directory.
func (s *State) SaveDir() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveDir
}

// Reset clears the selection and option values. The store and project stay
// as they are.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = ""
	s.options = map[string]any{}
}

// Close closes the store.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		return nil
	}
	err := s.store.Close()
	s.store = nil
	return err
}
