// Package jsonfile stores the player roster as one indented JSON object
// keyed by username.
package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	"github.com/totorewa/folderbot/internal/player"
)

// Store reads and writes a player file. It implements player.Store.
type Store struct {
	path string
}

// New returns a Store backed by the file at path. The file need not exist.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// LoadAll decodes every record. Fields absent from a record keep the values
// of a new player, and a record without a username takes its key.
//
// Postcondition: A missing file yields an empty slice and no error.
func (s *Store) LoadAll(_ context.Context) ([]player.Player, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("jsonfile: reading %s: %w", s.path, err)
	}

	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("jsonfile: decoding %s: %w", s.path, err)
	}
	players := make([]player.Player, 0, len(raw))
	for name, rec := range raw {
		if string(rec) == "null" {
			continue
		}
		p := player.New(name)
		if err := json.Unmarshal(rec, p); err != nil {
			return nil, fmt.Errorf("jsonfile: decoding player %q: %w", name, err)
		}
		if p.Username == "" {
			p.Username = name
		}
		players = append(players, *p)
	}
	return players, nil
}

// SaveAll writes players to a temporary file beside the target and renames
// it into place.
func (s *Store) SaveAll(_ context.Context, players []player.Player) error {
	byName := make(map[string]player.Player, len(players))
	for _, p := range players {
		byName[p.Username] = p
	}
	data, err := json.MarshalIndent(byName, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonfile: encoding players: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("jsonfile: creating temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("jsonfile: writing %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("jsonfile: closing %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("jsonfile: replacing %s: %w", s.path, err)
	}
	return nil
}
