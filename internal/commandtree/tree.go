// Package commandtree holds the chat command set: a case-insensitive map of
// command names to nodes with alias chasing, subcommand descent and JSON
// persistence.
//
// A Tree is owned by a single dispatch loop and performs no locking.
package commandtree

import (
	"errors"
	"slices"
	"strings"
	"unicode"
)

// Reserved cancellation hook injected on every load.
const (
	CancelCommand = "rb:cancel"
	CancelTag     = "internal:cancel"
)

// EndOfPath stops subcommand descent; the token itself is consumed.
const EndOfPath = "--"

// subcommandCutset is trimmed from both ends of a token before it is matched
// against subcommand names.
const subcommandCutset = "-\n\r"

// ErrNotFound is returned by mutators addressing a missing command.
var ErrNotFound = errors.New("command not found")

// Tree is the aggregate root of the command set.
type Tree struct {
	// Version, Host and Port are persisted but unused by resolution.
	Version string
	Host    string
	Port    string

	commands  map[string]*Node
	admins    []string
	superuser string
}

// New returns an empty tree with default metadata.
func New() *Tree {
	return &Tree{
		Version:  DefaultVersion,
		Host:     DefaultHost,
		Port:     DefaultPort,
		commands: make(map[string]*Node),
	}
}

// Resolve looks up the command named by the first token of *input, chasing
// aliases and descending into subcommands with the following tokens.
//
// On success *input is replaced by the unconsumed tokens joined with single
// spaces. On failure *input is left untouched.
//
// Postcondition: Returns (node, true) where node is never an alias, or
// (nil, false) when the key is unknown or its alias chain is broken or cyclic.
func (t *Tree) Resolve(input *string) (*Node, bool) {
	tokens := strings.Split(*input, " ")
	node, ok := t.commands[strings.ToLower(tokens[0])]
	if !ok {
		return nil, false
	}
	if node.Value.Kind == KindAlias {
		visited := map[string]struct{}{*input: {}}
		node, ok = t.FindRecurse(node.Value.Text, visited)
		if !ok {
			return nil, false
		}
	}
	node, rest := descend(node, tokens[1:])
	*input = strings.Join(rest, " ")
	return node, true
}

func descend(node *Node, rest []string) (*Node, []string) {
	for len(rest) > 0 {
		tok := rest[0]
		if tok == EndOfPath {
			return node, rest[1:]
		}
		sub, ok := node.Subcommands[strings.Trim(tok, subcommandCutset)]
		if !ok {
			break
		}
		node = sub
		rest = rest[1:]
	}
	return node, rest
}

// FindRecurse chases aliases starting at name without consuming any tokens.
// Names already in visited are treated as a cycle. visited is updated in
// place; a nil map is allowed.
//
// Postcondition: Returns the first non-alias node, or (nil, false) on a missing
// target or a revisited alias.
func (t *Tree) FindRecurse(name string, visited map[string]struct{}) (*Node, bool) {
	if visited == nil {
		visited = make(map[string]struct{})
	}
	for {
		node, ok := t.commands[name]
		if !ok {
			return nil, false
		}
		if node.Value.Kind != KindAlias {
			return node, true
		}
		next := node.Value.Text
		if _, seen := visited[next]; seen {
			return nil, false
		}
		visited[next] = struct{}{}
		name = next
	}
}

// Insert stores node under name, overwriting any existing entry.
func (t *Tree) Insert(name string, node *Node) {
	t.commands[name] = node
}

// Contains reports whether name is a top-level key. No case folding is applied.
func (t *Tree) Contains(name string) bool {
	_, ok := t.commands[name]
	return ok
}

// Get returns the top-level node stored under name without chasing aliases.
func (t *Tree) Get(name string) (*Node, bool) {
	n, ok := t.commands[name]
	return n, ok
}

// Remove deletes name and reports whether it existed.
func (t *Tree) Remove(name string) bool {
	if _, ok := t.commands[name]; !ok {
		return false
	}
	delete(t.commands, name)
	return true
}

// SetValue replaces the value of an existing command.
func (t *Tree) SetValue(name string, v Value) error {
	n, ok := t.commands[name]
	if !ok {
		return ErrNotFound
	}
	n.Value = v
	return nil
}

// SetPrefix replaces the prefix of an existing command. An empty prefix leaves
// the current one in place.
func (t *Tree) SetPrefix(name, prefix string) error {
	n, ok := t.commands[name]
	if !ok {
		return ErrNotFound
	}
	n.WithPrefix(prefix)
	return nil
}

// Validate reports whether every top-level key is free of uppercase letters.
func (t *Tree) Validate() bool {
	for key := range t.commands {
		if strings.IndexFunc(key, unicode.IsUpper) >= 0 {
			return false
		}
	}
	return true
}

// Names returns every top-level key in lexical order.
func (t *Tree) Names() []string {
	names := make([]string, 0, len(t.commands))
	for k := range t.commands {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// Visible returns the keys of commands that are neither hidden nor
// admin-only, in lexical order.
func (t *Tree) Visible() []string {
	var names []string
	for k, n := range t.commands {
		if !n.Hidden && !n.AdminOnly {
			names = append(names, k)
		}
	}
	slices.Sort(names)
	return names
}

// Len returns the number of top-level commands.
func (t *Tree) Len() int { return len(t.commands) }

// Superuser returns the highest-privilege identity.
func (t *Tree) Superuser() string { return t.superuser }

// SetSuperuser replaces the superuser.
func (t *Tree) SetSuperuser(user string) { t.superuser = user }

// Admins returns a copy of the admin list.
func (t *Tree) Admins() []string { return slices.Clone(t.admins) }

// IsAdmin reports whether user is listed as an admin.
func (t *Tree) IsAdmin(user string) bool { return slices.Contains(t.admins, user) }

// AddAdmin appends user unless already present and reports whether it was added.
func (t *Tree) AddAdmin(user string) bool {
	if t.IsAdmin(user) {
		return false
	}
	t.admins = append(t.admins, user)
	return true
}

// RemoveAdmin drops user and reports whether it was present.
func (t *Tree) RemoveAdmin(user string) bool {
	i := slices.Index(t.admins, user)
	if i < 0 {
		return false
	}
	t.admins = slices.Delete(t.admins, i, i+1)
	return true
}
