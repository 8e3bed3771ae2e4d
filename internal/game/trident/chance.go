package trident

import (
	"fmt"
	"math"
)

// Chance returns N such that rolling exactly n is a 1 in N event, rounded
// up.
//
// Postcondition: ok is false when n is outside [0, Max].
func Chance(n int) (int, bool) {
	if n < 0 || n > Max {
		return 0, false
	}
	odds := 0.0
	for k := n; k <= Max; k++ {
		odds += 1.0 / (float64(Max+1) * float64(k+1))
	}
	return int(math.Ceil(1 / odds)), true
}

// ChanceText renders the odds reply for a valid roll n.
func ChanceText(n, chance int) string {
	switch {
	case chance == 63001:
		return fmt.Sprintf("You have a 1 in %d chance of rolling %d.. on the up side, if you round it, you have a 1 in 1 chance of not rolling %d monkaLaugh", chance, n, n)
	case chance > 5612:
		return fmt.Sprintf("Rolling %d durability is a 1 in %d chance. Fun fact, you're twice as likely to get this than 250", n, chance)
	case chance > 1107:
		return fmt.Sprintf("You have a 1 in %d chance of rolling %d. You have more of a chance of getting injured by a toilet OMEGALULiguess", chance, n)
	case chance > 488:
		return fmt.Sprintf("You have a 1 in %d chance of %d durability, and yet still better odds than a calico spawning LULW", chance, n)
	case chance > 208:
		return fmt.Sprintf("It's a 1 in %d chance of rolling %d. Did you know you have a higher chance of being born with an extra finger or toe?", chance, n)
	case chance > 109:
		return fmt.Sprintf("You have a higher chance of falling to your death than the 1 in %d chance of rolling a %d", chance, n)
	default:
		return fmt.Sprintf("There's a 1 in %d chance of rolling %d durability. It doesn't really get much better than that tbh. If you can't even roll a %d what's the point?", chance, n, n)
	}
}

// ImpossibleChanceText answers a chance query that is not a valid roll.
func ImpossibleChanceText(arg, name string) string {
	return fmt.Sprintf("You might find it difficult to roll a %s, %s... but feel free to try", arg, name)
}
