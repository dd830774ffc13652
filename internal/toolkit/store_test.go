package toolkit

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleConfig = `{
  "tokens_counter": {"description": "Count tokens", "options": [{"name": "--manuscript"}]},
  "_global_settings": {"default_save_dir": "~/writing"},
  "brainstorm": {"description": "Brainstorm ideas"},
  "chapter_writer": {"description": "Write chapters"}
}`

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(filepath.Join(t.TempDir(), "toolkit.db"))
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func toolNames(tools []Tool) []string {
	names := make([]string, len(tools))
	for i, tl := range tools {
		names[i] = tl.Name
	}
	return names
}

func TestStore_LoadKeepsFileOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	res, err := s.Load(ctx, strings.NewReader(sampleConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if res != (LoadResult{Tools: 3, Settings: 1}) {
		t.Errorf("unexpected load result %+v", res)
	}

	tools, err := s.Tools(ctx)
	if err != nil {
		t.Fatalf("Tools: %v", err)
	}
	want := []string{"tokens_counter", "brainstorm", "chapter_writer"}
	if diff := cmp.Diff(want, toolNames(tools)); diff != "" {
		t.Errorf("tool order mismatch (-want +got):\n%s", diff)
	}

	settings, err := s.Settings(ctx)
	if err != nil {
		t.Fatalf("Settings: %v", err)
	}
	var got map[string]string
	if err := json.Unmarshal(settings, &got); err != nil {
		t.Fatalf("settings not JSON: %v", err)
	}
	if got["default_save_dir"] != "~/writing" {
		t.Errorf("unexpected settings %v", got)
	}
}

func TestStore_LoadTruncates(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.Load(ctx, strings.NewReader(sampleConfig)); err != nil {
		t.Fatalf("first Load: %v", err)
	}
	if _, err := s.Load(ctx, strings.NewReader(`{"only": {}}`)); err != nil {
		t.Fatalf("second Load: %v", err)
	}

	tools, err := s.Tools(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"only"}, toolNames(tools)); diff != "" {
		t.Errorf("expected previous tools removed (-want +got):\n%s", diff)
	}
	settings, err := s.Settings(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if settings != nil {
		t.Errorf("expected no settings, got %s", settings)
	}
}

func TestStore_LoadRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"array", `[1, 2]`},
		{"scalar value", `{"tool": 3}`},
		{"truncated", `{"tool": {"a": 1}`},
		{"empty", ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := openTestStore(t)
			ctx := context.Background()
			if _, err := s.Load(ctx, strings.NewReader(`{"keep": {}}`)); err != nil {
				t.Fatal(err)
			}
			if _, err := s.Load(ctx, strings.NewReader(tt.input)); err == nil {
				t.Fatal("expected error")
			}
			// A failed load leaves the previous data in place.
			if _, err := s.Tool(ctx, "keep"); err != nil {
				t.Errorf("previous data lost: %v", err)
			}
		})
	}
}

func TestStore_Tool(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	if _, err := s.Load(ctx, strings.NewReader(sampleConfig)); err != nil {
		t.Fatal(err)
	}

	tl, err := s.Tool(ctx, "brainstorm")
	if err != nil {
		t.Fatalf("Tool: %v", err)
	}
	var cfg struct{ Description string }
	if err := json.Unmarshal(tl.Config, &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Description != "Brainstorm ideas" {
		t.Errorf("unexpected config %s", tl.Config)
	}

	if _, err := s.Tool(ctx, "nope"); !errors.Is(err, ErrToolNotFound) {
		t.Errorf("expected ErrToolNotFound, got %v", err)
	}
	if _, err := s.Tool(ctx, GlobalSettingsKey); !errors.Is(err, ErrToolNotFound) {
		t.Errorf("global settings must not be a tool, got %v", err)
	}
}

func TestStore_LoadFile(t *testing.T) {
	s := openTestStore(t)
	path := filepath.Join(t.TempDir(), "tools_config.json")
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := s.LoadFile(context.Background(), path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if res.Tools != 3 {
		t.Errorf("expected 3 tools, got %d", res.Tools)
	}

	if _, err := s.LoadFile(context.Background(), filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestStore_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "toolkit.db")
	s, err := OpenStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Load(context.Background(), strings.NewReader(sampleConfig)); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = OpenStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	tools, err := s.Tools(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(tools) != 3 {
		t.Errorf("expected 3 tools after reopen, got %d", len(tools))
	}
}
