package enchant

// Enchant describes one book enchantment.
//
// Invariant: MinCosts is ordered by level; MinCosts[i] is the lowest
// enchantability at which level i+1 can be offered.
type Enchant struct {
	Name     string
	Weight   int
	MinCosts []int
	CostSpan int
}

// MaxLevel is the number of levels the enchant has.
func (e Enchant) MaxLevel() int { return len(e.MinCosts) }

// levelFor returns the highest level whose cost window contains
// enchantability, or 0 when none does.
func (e Enchant) levelFor(enchantability int) int {
	for i := len(e.MinCosts) - 1; i >= 0; i-- {
		lo := e.MinCosts[i]
		if enchantability >= lo && enchantability <= lo+e.CostSpan {
			return i + 1
		}
	}
	return 0
}

// Table lists every enchant a book can receive, in offer order.
var Table = []Enchant{
	{Name: "Aqua Affinity", Weight: 2, MinCosts: []int{1}, CostSpan: 40},
	{Name: "Bane of Arthropods", Weight: 5, MinCosts: []int{5, 13, 21, 29, 37}, CostSpan: 20},
	{Name: "Blast Protection", Weight: 2, MinCosts: []int{5, 13, 21, 29}, CostSpan: 8},
	{Name: "Channeling", Weight: 1, MinCosts: []int{25}, CostSpan: 25},
	{Name: "Depth Strider", Weight: 2, MinCosts: []int{10, 20, 30}, CostSpan: 15},
	{Name: "Efficiency", Weight: 10, MinCosts: []int{1, 11, 21, 31, 41}, CostSpan: 50},
	{Name: "Feather Falling", Weight: 5, MinCosts: []int{5, 11, 17, 23}, CostSpan: 6},
	{Name: "Fire Aspect", Weight: 2, MinCosts: []int{10, 30}, CostSpan: 50},
	{Name: "Fire Protection", Weight: 5, MinCosts: []int{10, 18, 26, 34}, CostSpan: 8},
	{Name: "Flame", Weight: 2, MinCosts: []int{20}, CostSpan: 30},
	{Name: "Fortune", Weight: 2, MinCosts: []int{15, 24, 33}, CostSpan: 50},
	{Name: "Impaling", Weight: 2, MinCosts: []int{1, 9, 17, 25, 33}, CostSpan: 20},
	{Name: "Infinity", Weight: 1, MinCosts: []int{20}, CostSpan: 30},
	{Name: "Knockback", Weight: 5, MinCosts: []int{5, 25}, CostSpan: 50},
	{Name: "Looting", Weight: 2, MinCosts: []int{15, 24, 33}, CostSpan: 50},
	{Name: "Loyalty", Weight: 5, MinCosts: []int{12, 19, 26}, CostSpan: 50},
	{Name: "Luck of the Sea", Weight: 2, MinCosts: []int{15, 24, 33}, CostSpan: 50},
	{Name: "Lure", Weight: 2, MinCosts: []int{15, 24, 33}, CostSpan: 50},
	{Name: "Multishot", Weight: 2, MinCosts: []int{20}, CostSpan: 30},
	{Name: "Piercing", Weight: 10, MinCosts: []int{1, 11, 21, 31, 41}, CostSpan: 50},
	{Name: "Power", Weight: 10, MinCosts: []int{1, 11, 21, 31, 41}, CostSpan: 15},
	{Name: "Projectile Protection", Weight: 5, MinCosts: []int{3, 9, 15, 21}, CostSpan: 6},
	{Name: "Protection", Weight: 10, MinCosts: []int{1, 12, 23, 45}, CostSpan: 11},
	{Name: "Punch", Weight: 2, MinCosts: []int{12, 32}, CostSpan: 25},
	{Name: "Quick Charge", Weight: 5, MinCosts: []int{12, 32, 52}, CostSpan: 50},
	{Name: "Respiration", Weight: 2, MinCosts: []int{10, 20, 30}, CostSpan: 30},
	{Name: "Riptide", Weight: 2, MinCosts: []int{17, 24, 31}, CostSpan: 50},
	{Name: "Sharpness", Weight: 10, MinCosts: []int{1, 12, 23, 34, 45}, CostSpan: 20},
	{Name: "Silk Touch", Weight: 1, MinCosts: []int{15}, CostSpan: 50},
	{Name: "Smite", Weight: 5, MinCosts: []int{5, 13, 21, 29, 37}, CostSpan: 20},
	{Name: "Sweeping Edge", Weight: 2, MinCosts: []int{5, 14, 23}, CostSpan: 15},
	{Name: "Thorns", Weight: 1, MinCosts: []int{10, 30, 50}, CostSpan: 50},
	{Name: "Unbreaking", Weight: 5, MinCosts: []int{5, 13, 21}, CostSpan: 50},
}
