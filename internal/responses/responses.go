// Package responses holds the keyed reply catalogs the bot draws its lines
// from and fills in their {placeholders}.
package responses

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/totorewa/folderbot/internal/game/dice"
)

// Catalog names loaded from the responses directory.
const (
	Default = "responses"
	Deaths  = "deaths"
	Titles  = "titles"
)

// Catalog maps a response key to its candidate lines.
type Catalog map[string][]string

// Keys returns the catalog keys in sorted order.
func (c Catalog) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Vars are placeholder values keyed by name without braces, e.g. "ur".
type Vars map[string]string

// Format replaces every {name} in text with vars[name]. Unknown placeholders
// are left as they are.
func Format(text string, vars Vars) string {
	if len(vars) == 0 {
		return text
	}
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// Library is a set of named catalogs. It is safe for concurrent use.
type Library struct {
	mu       sync.RWMutex
	catalogs map[string]Catalog
	src      dice.Source
}

// NewLibrary returns an empty library drawing lines with src.
//
// Precondition: src must be non-nil.
func NewLibrary(src dice.Source) *Library {
	return &Library{catalogs: map[string]Catalog{}, src: src}
}

// Load reads every *.yaml file in dir as a catalog named after the file.
//
// Postcondition: Returns a library holding one catalog per file, or the
// first decode error.
func Load(dir string, src dice.Source) (*Library, error) {
	lib := NewLibrary(src)
	if err := lib.LoadDir(dir); err != nil {
		return nil, err
	}
	return lib, nil
}

// LoadDir adds or replaces the catalogs found in dir.
func (l *Library) LoadDir(dir string) error {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return fmt.Errorf("listing catalogs in %s: %w", dir, err)
	}
	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), ".yaml")
		if name == "loot" {
			continue
		}
		c, err := LoadCatalog(path)
		if err != nil {
			return err
		}
		l.Add(name, c)
	}
	return nil
}

// LoadCatalog decodes one YAML catalog file.
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	c, err := DecodeCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("decoding catalog %s: %w", path, err)
	}
	return c, nil
}

// DecodeCatalog parses a YAML mapping of key to list of lines. Keys with no
// lines are dropped.
func DecodeCatalog(data []byte) (Catalog, error) {
	c := Catalog{}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	for k, lines := range c {
		if len(lines) == 0 {
			delete(c, k)
		}
	}
	return c, nil
}

// EncodeCatalog renders c as YAML with sorted keys.
func EncodeCatalog(c Catalog) ([]byte, error) {
	if c == nil {
		return nil, errors.New("nil catalog")
	}
	return yaml.Marshal(map[string][]string(c))
}

// Add installs c under name, replacing any catalog already there.
func (l *Library) Add(name string, c Catalog) {
	l.mu.Lock()
	l.catalogs[name] = c
	l.mu.Unlock()
}

// Has reports whether catalog holds at least one line for key.
func (l *Library) Has(catalog, key string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.catalogs[catalog][key]) > 0
}

// Random returns a uniformly chosen line for key, unformatted.
func (l *Library) Random(catalog, key string) (string, bool) {
	l.mu.RLock()
	lines := l.catalogs[catalog][key]
	l.mu.RUnlock()
	if len(lines) == 0 {
		return "", false
	}
	return dice.Pick(l.src, lines), true
}

// Line returns a random formatted line for key, or "" when the key has no
// lines.
func (l *Library) Line(catalog, key string, vars Vars) string {
	s, ok := l.Random(catalog, key)
	if !ok {
		return ""
	}
	return Format(s, vars)
}
