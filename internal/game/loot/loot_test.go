package loot_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/totorewa/folderbot/internal/game/dice"
	"github.com/totorewa/folderbot/internal/game/loot"
)

func TestTable_Validate(t *testing.T) {
	gp := loot.DefaultGunpowder()
	assert.NoError(t, gp.Validate())
	assert.NoError(t, (&loot.Table{}).Validate())

	for _, bad := range []loot.Table{
		{Rolls: -1},
		{Rolls: 1, Chance: 1.5},
		{Rolls: 1, Chance: 0.5, Items: []loot.ItemDrop{{Weight: 1, MinQty: 1, MaxQty: 1}}},
		{Rolls: 1, Chance: 0.5, Items: []loot.ItemDrop{{ItemID: "gp", Weight: 0, MinQty: 1, MaxQty: 1}}},
		{Rolls: 1, Chance: 0.5, Items: []loot.ItemDrop{{ItemID: "gp", Weight: 1, MinQty: 0, MaxQty: 1}}},
		{Rolls: 1, Chance: 0.5, Items: []loot.ItemDrop{{ItemID: "gp", Weight: 1, MinQty: 5, MaxQty: 2}}},
	} {
		assert.Error(t, bad.Validate(), "%+v", bad)
	}
}

func TestTable_MaxQuantity(t *testing.T) {
	gp := loot.DefaultGunpowder()
	assert.Equal(t, 128, gp.MaxQuantity(loot.Gunpowder))
	assert.Equal(t, 0, gp.MaxQuantity("string"))
}

func TestGenerate_AlwaysAndNever(t *testing.T) {
	always := loot.Table{Rolls: 4, Chance: 1, Items: []loot.ItemDrop{{ItemID: "gp", Weight: 1, MinQty: 2, MaxQty: 2}}}
	result := loot.Generate(always, dice.NewSeededSource(3))
	assert.Equal(t, 8, result.Quantity("gp"))
	assert.NotEmpty(t, result.ID)
	assert.Equal(t, []string{"gp"}, result.ItemIDs())

	never := always
	never.Chance = 0
	result = loot.Generate(never, dice.NewSeededSource(3))
	assert.Zero(t, result.Quantity("gp"))
	assert.Empty(t, result.ItemIDs())
}

func TestGenerate_UniqueIDs(t *testing.T) {
	src := dice.NewSeededSource(1)
	a := loot.Generate(loot.DefaultGunpowder(), src)
	b := loot.Generate(loot.DefaultGunpowder(), src)
	assert.NotEqual(t, a.ID, b.ID)
}

// Property: gunpowder quantity stays within [0, MaxQuantity].
func TestPropertyGenerateBounds(t *testing.T) {
	table := loot.DefaultGunpowder()
	rapid.Check(t, func(t *rapid.T) {
		src := dice.NewSeededSource(rapid.Uint64().Draw(t, "seed"))
		q := loot.Generate(table, src).Quantity(loot.Gunpowder)
		if q < 0 || q > table.MaxQuantity(loot.Gunpowder) {
			t.Fatalf("quantity %d out of range", q)
		}
	})
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loot.yaml")
	doc := `tables:
  gunpowder:
    rolls: 16
    chance: 0.2
    items:
      - item: gunpowder
        weight: 1
        min_qty: 1
        max_qty: 8
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	tables, err := loot.LoadFile(path)
	require.NoError(t, err)
	require.Contains(t, tables, loot.Gunpowder)
	assert.Equal(t, loot.DefaultGunpowder(), tables[loot.Gunpowder])
}

func TestParse_RejectsInvalidTable(t *testing.T) {
	_, err := loot.Parse([]byte("tables:\n  bad:\n    rolls: -2\n"))
	assert.ErrorContains(t, err, `"bad"`)

	_, err = loot.Parse([]byte("tables: ["))
	assert.Error(t, err)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := loot.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
