// Package loot defines chest loot tables and rolls drops from them.
package loot

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/totorewa/folderbot/internal/game/dice"
	"github.com/totorewa/folderbot/internal/game/weighted"
)

// chanceScale is the resolution used to turn a probability into an integer draw.
const chanceScale = 1_000_000

// ItemDrop defines a single item entry in a loot table.
type ItemDrop struct {
	ItemID string `yaml:"item"`
	Weight int    `yaml:"weight"`
	MinQty int    `yaml:"min_qty"`
	MaxQty int    `yaml:"max_qty"`
}

// Table defines a chest loot pool. Each of Rolls draws succeeds with Chance
// and then picks one item by weight.
type Table struct {
	Rolls  int        `yaml:"rolls"`
	Chance float64    `yaml:"chance"`
	Items  []ItemDrop `yaml:"items"`
}

// Validate checks that the loot table satisfies its invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff the roll count, chance and every item
// constraint hold; a table with no items is valid and never drops anything.
func (t *Table) Validate() error {
	if t.Rolls < 0 {
		return fmt.Errorf("loot table: rolls must be >= 0, got %d", t.Rolls)
	}
	if t.Chance < 0 || t.Chance > 1.0 {
		return fmt.Errorf("loot table: chance must be in [0, 1.0], got %f", t.Chance)
	}
	for i, item := range t.Items {
		if item.ItemID == "" {
			return fmt.Errorf("loot table: item[%d] must have a non-empty item id", i)
		}
		if item.Weight < 1 {
			return fmt.Errorf("loot table: item[%d] weight must be >= 1, got %d", i, item.Weight)
		}
		if item.MinQty < 1 {
			return fmt.Errorf("loot table: item[%d] min_qty must be >= 1, got %d", i, item.MinQty)
		}
		if item.MinQty > item.MaxQty {
			return fmt.Errorf("loot table: item[%d] min_qty (%d) must be <= max_qty (%d)", i, item.MinQty, item.MaxQty)
		}
	}
	return nil
}

// MaxQuantity returns the most of itemID a single generation can yield.
func (t *Table) MaxQuantity(itemID string) int {
	best := 0
	for _, item := range t.Items {
		if item.ItemID == itemID && item.MaxQty > best {
			best = item.MaxQty
		}
	}
	return best * t.Rolls
}

// Result holds the loot generated from one opening of a table.
type Result struct {
	// ID identifies this drop in logs.
	ID string
	// Items maps item id to total quantity; items that never dropped are absent.
	Items map[string]int
}

// Quantity returns how much of itemID dropped.
func (r Result) Quantity(itemID string) int {
	return r.Items[itemID]
}

// ItemIDs returns the dropped item ids in sorted order.
func (r Result) ItemIDs() []string {
	ids := make([]string, 0, len(r.Items))
	for id := range r.Items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Generate rolls loot from t using src.
//
// Precondition: t must have passed Validate().
// Postcondition: Every quantity in Items is in [1, MaxQuantity(id)].
func Generate(t Table, src dice.Source) Result {
	result := Result{ID: uuid.New().String(), Items: map[string]int{}}
	if len(t.Items) == 0 {
		return result
	}

	candidates := make([]weighted.Candidate[ItemDrop], len(t.Items))
	for i, item := range t.Items {
		candidates[i] = weighted.Candidate[ItemDrop]{Value: item, Weight: item.Weight}
	}
	total := weighted.Total(candidates)
	threshold := int(t.Chance * chanceScale)

	for range t.Rolls {
		if src.Intn(chanceScale) >= threshold {
			continue
		}
		// Exclusive draw so a successful roll always yields an item.
		i, ok := weighted.ChooseOffset(candidates, src.Intn(total))
		if !ok {
			continue
		}
		item := candidates[i].Value
		result.Items[item.ItemID] += dice.Range(src, item.MinQty, item.MaxQty)
	}
	return result
}
