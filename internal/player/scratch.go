package player

// Scratch is per-process state about a player that is never persisted.
type Scratch struct {
	Greeted bool
	// LastTrident is the previous roll this process saw, or -1.
	LastTrident int
	// TridentTimer is when the last trident reply was allowed.
	TridentTimer int64
	// GPReadyAt is when the next gunpowder loot is allowed.
	GPReadyAt int64
}

// NewScratch returns the initial scratch state.
func NewScratch() *Scratch {
	return &Scratch{LastTrident: -1}
}

// TryDent allows a trident reply when more than a second has passed since
// the last allowed one.
func (s *Scratch) TryDent(now int64) bool {
	if now > s.TridentTimer+1 {
		s.TridentTimer = now
		return true
	}
	return false
}

// TryGreet reports true exactly once.
func (s *Scratch) TryGreet() bool {
	if s.Greeted {
		return false
	}
	s.Greeted = true
	return true
}
