// Package dice provides the randomness abstraction shared by the chat games
// along with the small drawing helpers they are written in terms of.
package dice

import "go.uber.org/zap"

// Source is the randomness provider for every game.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// Range returns a value in the inclusive range [lo, hi].
//
// Precondition: lo <= hi.
// Postcondition: lo <= result <= hi.
func Range(src Source, lo, hi int) int {
	if lo > hi {
		panic("dice: Range called with lo > hi")
	}
	return lo + src.Intn(hi-lo+1)
}

// OneIn reports true with probability 1/n.
//
// Precondition: n > 0.
func OneIn(src Source, n int) bool {
	return src.Intn(n) == 0
}

// Ratio reports true with probability num/den.
//
// Precondition: den > 0.
func Ratio(src Source, num, den int) bool {
	return src.Intn(den) < num
}

// Pick returns a uniformly chosen element of items.
//
// Precondition: len(items) > 0.
func Pick[T any](src Source, items []T) T {
	return items[src.Intn(len(items))]
}

// Roller wraps a Source and logs each named draw at debug level.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller drawing from src and logging to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Intn satisfies Source without logging, so a Roller can stand in for the
// Source it wraps.
func (r *Roller) Intn(n int) int {
	return r.src.Intn(n)
}

// Roll draws an inclusive [lo, hi] value and logs it under label.
//
// Postcondition: lo <= result <= hi; the draw is logged.
func (r *Roller) Roll(label string, lo, hi int) int {
	v := Range(r.src, lo, hi)
	r.logger.Debug("dice roll",
		zap.String("label", label),
		zap.Int("lo", lo),
		zap.Int("hi", hi),
		zap.Int("result", v),
	)
	return v
}
