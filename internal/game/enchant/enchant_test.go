package enchant_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/totorewa/folderbot/internal/game/dice"
	"github.com/totorewa/folderbot/internal/game/enchant"
)

func TestCost(t *testing.T) {
	assert.Equal(t, 1, enchant.Cost(2, 0))
	assert.Equal(t, 5, enchant.Cost(15, 0))
	assert.Equal(t, 11, enchant.Cost(15, 1))
	assert.Equal(t, 30, enchant.Cost(12, 2))
}

func TestEligible_LowEnchantability(t *testing.T) {
	var names []string
	for _, c := range enchant.Eligible(1) {
		assert.Equal(t, 1, c.Value.Level)
		assert.Equal(t, c.Value.Enchant.Weight, c.Weight)
		names = append(names, c.Value.Enchant.Name)
	}
	assert.Equal(t, []string{
		"Aqua Affinity", "Efficiency", "Impaling", "Piercing", "Power", "Protection", "Sharpness",
	}, names)
}

func TestEligible_PicksHighestLevel(t *testing.T) {
	for _, c := range enchant.Eligible(45) {
		if c.Value.Enchant.Name == "Sharpness" {
			assert.Equal(t, 5, c.Value.Level)
			return
		}
	}
	t.Fatal("sharpness not offered at 45")
}

func TestOffer_Tier(t *testing.T) {
	assert.Equal(t, enchant.TierGreat, enchant.Offer{Bookshelves: 15, Row: 3}.Tier())
	assert.Equal(t, enchant.TierGood, enchant.Offer{Bookshelves: 13, Row: 2}.Tier())
	assert.Equal(t, enchant.TierGood, enchant.Offer{Bookshelves: 10, Row: 3}.Tier())
	assert.Equal(t, enchant.TierTerrible, enchant.Offer{Bookshelves: 1, Row: 3}.Tier())
	assert.Equal(t, enchant.TierBad, enchant.Offer{Bookshelves: 9, Row: 1}.Tier())
}

func TestDescribe_Plain(t *testing.T) {
	offer := enchant.Offer{
		Enchant:     enchant.Table[0],
		Level:       1,
		Cost:        7,
		Bookshelves: 1,
		Row:         1,
	}
	assert.Equal(t, "You rolled Aqua Affinity I for 7 levels with 1 bookshelf!",
		enchant.Describe(dice.NewSeededSource(1), offer, "Folder"))

	offer.Bookshelves = 4
	assert.Equal(t, "You rolled Aqua Affinity I for 7 levels with 4 bookshelves!",
		enchant.Describe(dice.NewSeededSource(1), offer, "Folder"))
}

func TestDescribe_SpecialNamesPlayer(t *testing.T) {
	offer := enchant.Offer{
		Enchant:     enchant.Table[1],
		Level:       2,
		Cost:        3,
		Bookshelves: 0,
		Row:         1,
		Special:     true,
	}
	// Index 1 of the terrible lines mentions the player.
	got := enchant.Describe(&dice.FixedSource{Values: []int{1}}, offer, "Folder")
	assert.Equal(t, "Wow.. a Bane of Arthropods II.. amazing.. I wouldn't spend 3 levels on that, Folder.", got)
}

func TestRoman(t *testing.T) {
	assert.Equal(t, "I", enchant.Roman(1))
	assert.Equal(t, "V", enchant.Roman(5))
	assert.Empty(t, enchant.Roman(0))
	assert.Empty(t, enchant.Roman(6))
}

// Property: a successful roll always describes a real table state.
func TestPropertyRollBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		src := dice.NewSeededSource(rapid.Uint64().Draw(t, "seed"))
		offer, ok := enchant.Roll(src)
		if !ok {
			return
		}
		require.GreaterOrEqual(t, offer.Bookshelves, 0)
		require.LessOrEqual(t, offer.Bookshelves, enchant.MaxBookshelves)
		require.GreaterOrEqual(t, offer.Row, 1)
		require.LessOrEqual(t, offer.Row, enchant.Rows)
		require.GreaterOrEqual(t, offer.Level, 1)
		require.LessOrEqual(t, offer.Level, offer.Enchant.MaxLevel())
		require.NotEmpty(t, enchant.Describe(src, offer, "x"))
	})
}

// Property: enchantability never drops below one.
func TestPropertyEnchantabilityFloor(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		src := dice.NewSeededSource(rapid.Uint64().Draw(t, "seed"))
		cost := rapid.IntRange(0, 40).Draw(t, "cost")
		if e := enchant.Enchantability(src, cost); e < 1 {
			t.Fatalf("enchantability %d for cost %d", e, cost)
		}
	})
}
