package loot

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Gunpowder is the table and item id used by the gunpowder game.
const Gunpowder = "gunpowder"

// Tables maps a table name to its definition.
type Tables map[string]Table

// LoadFile reads and validates every table in the YAML file at path.
//
// Postcondition: Returns the tables, or an error naming the offending table.
func LoadFile(path string) (Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading loot tables %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates YAML loot tables.
func Parse(data []byte) (Tables, error) {
	var doc struct {
		Tables Tables `yaml:"tables"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing loot tables: %w", err)
	}
	for name, t := range doc.Tables {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("table %q: %w", name, err)
		}
	}
	if doc.Tables == nil {
		doc.Tables = Tables{}
	}
	return doc.Tables, nil
}

// DefaultGunpowder is four chests of four rolls, each a 1 in 5 chance of one
// to eight gunpowder.
func DefaultGunpowder() Table {
	return Table{
		Rolls:  16,
		Chance: 0.2,
		Items:  []ItemDrop{{ItemID: Gunpowder, Weight: 1, MinQty: 1, MaxQty: 8}},
	}
}
