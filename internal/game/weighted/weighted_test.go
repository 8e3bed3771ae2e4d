package weighted_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/totorewa/folderbot/internal/game/dice"
	"github.com/totorewa/folderbot/internal/game/weighted"
)

var xy = []weighted.Candidate[string]{{Value: "X", Weight: 1}, {Value: "Y", Weight: 3}}

func TestChooseOffset_WorkedExample(t *testing.T) {
	i, ok := weighted.ChooseOffset(xy, 0)
	assert.True(t, ok)
	assert.Equal(t, "X", xy[i].Value)

	for _, offset := range []int{1, 2, 3} {
		i, ok = weighted.ChooseOffset(xy, offset)
		assert.True(t, ok)
		assert.Equal(t, "Y", xy[i].Value, "offset %d", offset)
	}

	_, ok = weighted.ChooseOffset(xy, 4)
	assert.False(t, ok, "offset equal to the total selects nothing")
}

func TestChoose_InclusiveDraw(t *testing.T) {
	// FixedSource reduces modulo n, so 4 survives only when the draw is
	// taken from [0, 4].
	src := &dice.FixedSource{Values: []int{0, 1, 4}}
	total := weighted.Total(xy)
	assert.Equal(t, 4, total)

	i, ok := weighted.Choose(xy, total, src)
	assert.True(t, ok)
	assert.Equal(t, 0, i)

	i, ok = weighted.Choose(xy, total, src)
	assert.True(t, ok)
	assert.Equal(t, 1, i)

	_, ok = weighted.Choose(xy, total, src)
	assert.False(t, ok, "the inclusive upper bound can select nothing")
}

func TestChoose_Empty(t *testing.T) {
	_, ok := weighted.Choose([]weighted.Candidate[int]{}, 0, dice.NewSeededSource(1))
	assert.False(t, ok)
}

func TestChoose_Distribution(t *testing.T) {
	src := dice.NewSeededSource(99)
	counts := map[string]int{}
	const n = 20000
	for i := 0; i < n; i++ {
		if idx, ok := weighted.Choose(xy, 4, src); ok {
			counts[xy[idx].Value]++
		} else {
			counts["none"]++
		}
	}
	// Expected shares are 1/5, 3/5 and 1/5.
	assert.InDelta(t, 0.2, float64(counts["X"])/n, 0.02)
	assert.InDelta(t, 0.6, float64(counts["Y"])/n, 0.02)
	assert.InDelta(t, 0.2, float64(counts["none"])/n, 0.02)
}

// Property: every offset below the total selects the candidate whose
// cumulative weight range contains it.
func TestPropertyChooseOffsetCumulative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		weights := rapid.SliceOfN(rapid.IntRange(1, 50), 1, 10).Draw(t, "weights")
		items := make([]weighted.Candidate[int], len(weights))
		for i, w := range weights {
			items[i] = weighted.Candidate[int]{Value: i, Weight: w}
		}
		total := weighted.Total(items)
		offset := rapid.IntRange(0, total).Draw(t, "offset")

		idx, ok := weighted.ChooseOffset(items, offset)
		if offset == total {
			if ok {
				t.Fatalf("offset == total selected %d", idx)
			}
			return
		}
		if !ok {
			t.Fatalf("offset %d < total %d selected nothing", offset, total)
		}
		lo := 0
		for i := 0; i < idx; i++ {
			lo += weights[i]
		}
		if offset < lo || offset >= lo+weights[idx] {
			t.Fatalf("offset %d outside [%d, %d)", offset, lo, lo+weights[idx])
		}
	})
}
