package betting

import (
	"errors"
	"fmt"
	"os"

	json "github.com/goccy/go-json"
)

// LoadFile reads the gambler map stored at path. A missing file yields an
// empty map.
func LoadFile(path string) (map[string]*Gambler, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]*Gambler{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading gamblers %s: %w", path, err)
	}
	players := map[string]*Gambler{}
	if err := json.Unmarshal(data, &players); err != nil {
		return nil, fmt.Errorf("decoding gamblers %s: %w", path, err)
	}
	for name, p := range players {
		if p == nil {
			delete(players, name)
		}
	}
	return players, nil
}

// Save writes every gambler to path as indented JSON.
func (g *Game) Save(path string) error {
	g.mu.Lock()
	data, err := json.MarshalIndent(g.players, "", "  ")
	g.mu.Unlock()
	if err != nil {
		return fmt.Errorf("encoding gamblers: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing gamblers %s: %w", path, err)
	}
	return nil
}

// Reload replaces the gamblers with those stored at path. Open wagers are
// kept.
func (g *Game) Reload(path string) error {
	players, err := LoadFile(path)
	if err != nil {
		return err
	}
	g.mu.Lock()
	g.players = players
	g.mu.Unlock()
	return nil
}

// UnmarshalJSON fills in the starting cash when the record omits it.
func (g *Gambler) UnmarshalJSON(data []byte) error {
	type plain Gambler
	p := plain{Cash: StartingCash}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*g = Gambler(p)
	return nil
}
