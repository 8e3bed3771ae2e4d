// Package trident implements the trident durability roll and decides which
// kind of reply a roll earns.
//
// The package is pure: callers own the player record and the response
// catalog, and feed the relevant facts in through Facts.
package trident

import (
	"fmt"

	"github.com/totorewa/folderbot/internal/game/dice"
)

// Max is the best possible durability.
const Max = 250

// Response catalog keys used by the outcome chain.
const (
	KeyPerfect     = "TRIDENT_VALUE_250"
	KeyPB          = "TRIDENT_PB_GENERIC"
	KeyEarlyHigh   = "EARLY_HIGH_TRIDENT"
	KeyFirst       = "FIRST_TRIDENT_GENERIC"
	KeyDoubleLow   = "TRIDENT_DOUBLE_LOW"
	KeyRateLimited = "TRIDENT_RATELIMIT_RESPONSE"
	KeyMiscRare    = "MISC_RARE_TRIDENTS"
	KeyMiscLow     = "MISC_LOW_TRIDENTS"
	KeyDeathLow    = "DEATH_LOW"
	KeyDeathHigh   = "DEATH_HIGH"
	KeyDrop        = "TRIDENT_DROP"
	KeyFakeRoll    = "FAKE_ROLL_TRIDENT"
)

// RareKey is the catalog key holding lines for one specific roll.
func RareKey(roll int) string {
	return fmt.Sprintf("TRIDENT_VALUE_RARE_%d", roll)
}

// Roll draws a durability: a uniform ceiling in [0, Max] and then a uniform
// value below it, so low rolls are far more common than high ones.
//
// Postcondition: 0 <= result <= Max.
func Roll(src dice.Source) int {
	return dice.Range(src, 0, dice.Range(src, 0, Max))
}

// Kind identifies which reply a roll earns.
type Kind int

const (
	KindPerfect Kind = iota
	KindPB
	KindEarlyHigh
	KindFirst
	KindDoubleLow
	KindRateLimited
	KindDeduct
	KindDeathLow
	KindDeathHigh
	KindRareValue
	KindSpamDeath
	KindTiered
	KindMiscRare
	KindMiscLow
	KindRareBucket
)

var kindNames = [...]string{
	"perfect", "pb", "early_high", "first", "double_low", "rate_limited",
	"deduct", "death_low", "death_high", "rare_value", "spam_death",
	"tiered", "misc_rare", "misc_low", "rare_bucket",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Dies reports whether the outcome kills the player.
func (k Kind) Dies() bool {
	return k == KindDeathLow || k == KindDeathHigh || k == KindSpamDeath
}

// Facts are the player and chat state an outcome depends on.
type Facts struct {
	// Roll is the value just rolled.
	Roll int
	// Rolled counts rolls including this one.
	Rolled uint64
	// PB is true when Roll beats the previous best.
	PB bool
	// PrevRoll is the player's previous roll in this process, or -1.
	PrevRoll int
	// Dent is consulted once the cheap checks pass; it reports false when
	// the player is rolling faster than the reply rate limit. Nil allows.
	Dent func() bool
	// HasRare reports whether the catalog holds lines for RareKey(Roll).
	HasRare bool
	// ChatBusy is true when someone spoke in the last few seconds.
	ChatBusy bool
	// Burst is true when the player's last five rolls span under five
	// seconds.
	Burst bool
}

// Outcome is the classified result of a roll.
type Outcome struct {
	Kind Kind
	Roll int
	// Deduction is the file penalty for KindDeduct.
	Deduction int
	// Seed selects the bucketed line for KindRareBucket.
	Seed int
}

// Classify walks the outcome chain for f; the first matching rule wins.
// Random draws happen only when the rule that needs them is reached.
func Classify(src dice.Source, f Facts) Outcome {
	out := Outcome{Roll: f.Roll}
	switch {
	case f.Roll == Max:
		out.Kind = KindPerfect
	case f.PB && f.Rolled > 5:
		out.Kind = KindPB
	case f.Rolled <= 5 && f.Roll >= 100:
		out.Kind = KindEarlyHigh
	case f.Rolled == 1:
		out.Kind = KindFirst
	case f.Roll < 5 && f.Roll == f.PrevRoll:
		out.Kind = KindDoubleLow
	case f.Dent != nil && !f.Dent():
		out.Kind = KindRateLimited
	case f.Roll < 5 && dice.OneIn(src, 6):
		out.Kind = KindDeduct
		out.Deduction = dice.Range(src, 12, 31)
	case f.Roll < 2 && dice.OneIn(src, 5):
		out.Kind = KindDeathLow
	case f.Roll > 150 && f.Roll < 176 && dice.OneIn(src, 5):
		out.Kind = KindDeathHigh
	case f.HasRare && dice.OneIn(src, 7):
		out.Kind = KindRareValue
	case f.ChatBusy && f.Burst:
		out.Kind = KindSpamDeath
	default:
		selection := dice.Range(src, 0, 100)
		switch {
		case selection < 77:
			out.Kind = KindTiered
		case selection < 82 && f.Roll != Max:
			out.Kind = KindMiscRare
		case selection < 85 && f.Roll < 10:
			out.Kind = KindMiscLow
		default:
			out.Kind = KindRareBucket
			out.Seed = dice.Range(src, 0, 4096)
		}
	}
	return out
}

// DeductionText is the reply for KindDeduct; {t.r} and {ur} are filled by
// the caller.
func DeductionText(amount int) string {
	return fmt.Sprintf("Ew... a {t.r}. What a gross low roll, {ur}. I'm deducting %d files from you, just for that...", amount)
}
