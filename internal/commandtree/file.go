package commandtree

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	json "github.com/goccy/go-json"
)

// Defaults for the persisted metadata fields.
const (
	DefaultVersion = "0.0.0"
	DefaultHost    = "irc.chat.twitch.tv"
	DefaultPort    = "6667"
)

// EasterEggCommand is the command seeded by SetupNew.
const EasterEggCommand = "json"

const easterEggText = "The truth is alterable. The truth never has been altered. " +
	"JSON is the best data format. JSON has always been the best data format."

// ErrPathExists is returned by SetupNew when the target file already exists.
var ErrPathExists = errors.New("command tree path already exists")

type treeJSON struct {
	Version   *string          `json:"version"`
	Host      *string          `json:"host"`
	Port      *string          `json:"port"`
	Commands  map[string]*Node `json:"commands"`
	Admins    []string         `json:"admins"`
	Superuser string           `json:"superuser"`
}

// MarshalJSON writes the whole tree; node fields at their defaults are omitted.
func (t *Tree) MarshalJSON() ([]byte, error) {
	admins := t.admins
	if admins == nil {
		admins = []string{}
	}
	commands := t.commands
	if commands == nil {
		commands = map[string]*Node{}
	}
	return json.MarshalNoEscape(treeJSON{
		Version:   &t.Version,
		Host:      &t.Host,
		Port:      &t.Port,
		Commands:  commands,
		Admins:    admins,
		Superuser: t.superuser,
	})
}

// UnmarshalJSON reads a tree, applying defaults for absent fields. It does not
// inject the cancellation hook; FromJSON does.
func (t *Tree) UnmarshalJSON(data []byte) error {
	var in treeJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*t = *New()
	if in.Version != nil {
		t.Version = *in.Version
	}
	if in.Host != nil {
		t.Host = *in.Host
	}
	if in.Port != nil {
		t.Port = *in.Port
	}
	for name, node := range in.Commands {
		if node == nil {
			return fmt.Errorf("command %q must not be null", name)
		}
		t.commands[name] = node
	}
	if len(in.Admins) > 0 {
		t.admins = in.Admins
	}
	t.superuser = in.Superuser
	return nil
}

// FromJSON decodes a tree and (re-)inserts the reserved cancellation command.
//
// Postcondition: On success the tree contains CancelCommand as a private
// Generic(CancelTag) node regardless of the input.
func FromJSON(data []byte) (*Tree, error) {
	t := New()
	if err := json.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("decoding command tree: %w", err)
	}
	t.Insert(CancelCommand, NewPrivateNode(Generic(CancelTag)))
	return t, nil
}

// FromFile reads and decodes the tree stored at path.
//
// Postcondition: Returns the tree, or an error naming path when the file is
// unreadable or malformed. Callers treat the error as fatal at startup.
func FromFile(path string) (*Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading command tree %s: %w", path, err)
	}
	t, err := FromJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// DumpFile writes the tree to path as indented JSON, truncating any previous
// content. Reply text is written as typed; "<", ">" and "&" are not escaped.
func (t *Tree) DumpFile(path string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("encoding command tree: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing command tree %s: %w", path, err)
	}
	return nil
}

// SetupNew writes a fresh tree holding the easter egg command to path.
//
// The existence check is not atomic; SetupNew is meant for first runs only.
//
// Postcondition: Returns ErrPathExists without touching the file if path
// exists, otherwise the written tree.
func SetupNew(path string) (*Tree, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrPathExists, path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("checking %s: %w", path, err)
	}
	t := New()
	t.Insert(EasterEggCommand, NewEasterNode(StringResponse(easterEggText)))
	if err := t.DumpFile(path); err != nil {
		return nil, err
	}
	return t, nil
}
