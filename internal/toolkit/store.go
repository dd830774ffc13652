// Package toolkit holds the writing tools configuration and the state of the
// tool runner.
package toolkit

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// GlobalSettingsKey is the top-level config key stored in the settings table
// instead of the tools table.
const GlobalSettingsKey = "_global_settings"

// ErrToolNotFound is returned by Store.Tool for unknown names.
var ErrToolNotFound = errors.New("tool not found")

// Tool is one tool configuration. Config is the JSON object from the
// configuration file.
type Tool struct {
	Name   string          `json:"name"`
	Config json.RawMessage `json:"config"`
}

// LoadResult counts the documents inserted by Load.
type LoadResult struct {
	Tools    int `json:"tools"`
	Settings int `json:"settings"`
}

// Store keeps tool configurations in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// OpenStore opens or creates the database at path.
func OpenStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	// One connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS tools (
		ord  INTEGER NOT NULL,
		name TEXT NOT NULL,
		doc  TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS settings (
		ord INTEGER NOT NULL,
		doc TEXT NOT NULL
	);`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Load replaces the stored configuration with the JSON object read from r.
// Keys are inserted in file order; GlobalSettingsKey goes to the settings
// table and every other key becomes a tool named after it.
func (s *Store) Load(ctx context.Context, r io.Reader) (LoadResult, error) {
	var res LoadResult
	entries, err := decodeObject(r)
	if err != nil {
		return res, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("begin load: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tools`); err != nil {
		return res, fmt.Errorf("truncate tools: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM settings`); err != nil {
		return res, fmt.Errorf("truncate settings: %w", err)
	}

	for i, e := range entries {
		if e.key == GlobalSettingsKey {
			if _, err := tx.ExecContext(ctx, `INSERT INTO settings (ord, doc) VALUES (?, ?)`, i, string(e.value)); err != nil {
				return res, fmt.Errorf("insert settings: %w", err)
			}
			res.Settings++
			continue
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO tools (ord, name, doc) VALUES (?, ?, ?)`, i, e.key, string(e.value)); err != nil {
			return res, fmt.Errorf("insert tool %q: %w", e.key, err)
		}
		res.Tools++
	}

	if err := tx.Commit(); err != nil {
		return res, fmt.Errorf("commit load: %w", err)
	}
	return res, nil
}

// LoadFile is Load for a file on disk.
func (s *Store) LoadFile(ctx context.Context, path string) (LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return LoadResult{}, fmt.Errorf("open tools config: %w", err)
	}
	defer f.Close()
	return s.Load(ctx, f)
}

type entry struct {
	key   string
	value json.RawMessage
}

// decodeObject reads a top-level JSON object whose values are all objects,
// keeping key order.
func decodeObject(r io.Reader) ([]entry, error) {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read tools config: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("tools config must be a JSON object")
	}

	var entries []entry
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("read tools config: %w", err)
		}
		key := tok.(string)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("read %q: %w", key, err)
		}
		if !bytes.HasPrefix(bytes.TrimSpace(value), []byte("{")) {
			return nil, fmt.Errorf("%q must be a JSON object", key)
		}
		entries = append(entries, entry{key: key, value: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("read tools config: %w", err)
	}
	return entries, nil
}

// Tools returns every tool in file order.
func (s *Store) Tools(ctx context.Context) ([]Tool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, doc FROM tools ORDER BY ord`)
	if err != nil {
		return nil, fmt.Errorf("query tools: %w", err)
	}
	defer rows.Close()

	tools := []Tool{}
	for rows.Next() {
		var t Tool
		var doc string
		if err := rows.Scan(&t.Name, &doc); err != nil {
			return nil, fmt.Errorf("scan tool: %w", err)
		}
		t.Config = json.RawMessage(doc)
		tools = append(tools, t)
	}
	return tools, rows.Err()
}

// Tool returns the named tool. A name loaded more than once resolves to its
// first occurrence.
func (s *Store) Tool(ctx context.Context, name string) (Tool, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT doc FROM tools WHERE name = ? ORDER BY ord LIMIT 1`, name).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return Tool{}, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	if err != nil {
		return Tool{}, fmt.Errorf("query tool %q: %w", name, err)
	}
	return Tool{Name: name, Config: json.RawMessage(doc)}, nil
}

// Settings returns the global settings object, or nil when none was loaded.
func (s *Store) Settings(ctx context.Context) (json.RawMessage, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT doc FROM settings ORDER BY ord LIMIT 1`).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query settings: %w", err)
	}
	return json.RawMessage(doc), nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
