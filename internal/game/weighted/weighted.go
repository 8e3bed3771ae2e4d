// Package weighted selects one of several candidates with probability
// proportional to its integer weight.
package weighted

import "github.com/totorewa/folderbot/internal/game/dice"

// Candidate pairs a value with its positive selection weight.
type Candidate[T any] struct {
	Value  T
	Weight int
}

// Total returns the sum of all candidate weights.
func Total[T any](items []Candidate[T]) int {
	total := 0
	for _, c := range items {
		total += c.Weight
	}
	return total
}

// Choose draws an offset uniformly from the inclusive range [0, total] and
// returns the index of the candidate it lands on.
//
// The upper bound is inclusive. A draw of exactly total walks off the end of
// the list and selects nothing, so every call has a 1/(total+1) chance of
// returning false.
//
// Precondition: total == Total(items) and total >= 0.
// Postcondition: ok is false when items is empty or the walk exhausts the list.
func Choose[T any](items []Candidate[T], total int, src dice.Source) (int, bool) {
	if len(items) == 0 || total < 0 {
		return 0, false
	}
	return ChooseOffset(items, src.Intn(total+1))
}

// ChooseOffset walks items subtracting each weight from offset and returns the
// index of the first candidate that drives it negative.
//
// Postcondition: ok is false when offset >= the sum of the weights.
func ChooseOffset[T any](items []Candidate[T], offset int) (int, bool) {
	for i, c := range items {
		offset -= c.Weight
		if offset < 0 {
			return i, true
		}
	}
	return 0, false
}
