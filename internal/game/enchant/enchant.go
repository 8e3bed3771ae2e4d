// Package enchant simulates an enchanting table offering a book enchantment.
package enchant

import (
	"math"
	"strconv"
	"strings"

	"github.com/totorewa/folderbot/internal/game/dice"
	"github.com/totorewa/folderbot/internal/game/weighted"
)

// Table geometry.
const (
	MaxBookshelves = 15
	Rows           = 3
)

var romanNumerals = []string{"I", "II", "III", "IV", "V"}

// Roman returns the numeral for level, or "" when out of range.
func Roman(level int) string {
	if level < 1 || level > len(romanNumerals) {
		return ""
	}
	return romanNumerals[level-1]
}

// Offer is the enchantment shown on one row of the table.
type Offer struct {
	Enchant     Enchant
	Level       int
	Cost        int
	Bookshelves int
	Row         int
	// Special asks for a tiered flavor line rather than the plain one.
	Special bool
}

// Tier grades an offer by the table it was rolled on.
type Tier int

const (
	TierBad Tier = iota
	TierTerrible
	TierGood
	TierGreat
)

// Tier classifies the offer by bookshelves and row.
func (o Offer) Tier() Tier {
	switch {
	case o.Bookshelves >= 13 && o.Row == Rows:
		return TierGreat
	case o.Bookshelves >= 10 && o.Row > 1:
		return TierGood
	case o.Bookshelves < 2:
		return TierTerrible
	default:
		return TierBad
	}
}

// Cost returns the level cost shown on row (0-based) for a base roll.
func Cost(base, row int) int {
	switch row {
	case 0:
		return max(base/3, 1)
	case 1:
		return base*2/3 + 1
	default:
		return max(base, 30)
	}
}

// Enchantability applies the item bonus and the ±15% variance to cost.
//
// Postcondition: result >= 1.
func Enchantability(src dice.Source, cost int) int {
	e := float64(cost + dice.Range(src, 1, 3))
	variance := float64(dice.Range(src, -150, 150)) / 1000
	return max(int(math.Round(e+e*variance)), 1)
}

// Eligible lists the highest offerable level of each enchant at
// enchantability, in table order.
func Eligible(enchantability int) []weighted.Candidate[Offer] {
	var out []weighted.Candidate[Offer]
	for _, e := range Table {
		if level := e.levelFor(enchantability); level > 0 {
			out = append(out, weighted.Candidate[Offer]{
				Value:  Offer{Enchant: e, Level: level},
				Weight: e.Weight,
			})
		}
	}
	return out
}

// Roll sets up a random table and draws one offer from it.
//
// Postcondition: ok is false when the weighted draw selects nothing or the
// offer level has no numeral.
func Roll(src dice.Source) (Offer, bool) {
	shelves := dice.Range(src, 0, MaxBookshelves)
	row := dice.Range(src, 1, Rows)
	base := dice.Range(src, 1, 8) + shelves/2 + dice.Range(src, 0, shelves)
	cost := Cost(base, row-1)

	candidates := Eligible(Enchantability(src, cost))
	i, ok := weighted.Choose(candidates, weighted.Total(candidates), src)
	if !ok {
		return Offer{}, false
	}
	offer := candidates[i].Value
	if Roman(offer.Level) == "" {
		return Offer{}, false
	}
	offer.Cost = cost
	offer.Bookshelves = shelves
	offer.Row = row
	offer.Special = dice.OneIn(src, 2)
	return offer, true
}

// ImpossibleText is sent when no offer could be drawn.
const ImpossibleText = "Somehow you rolled an impossible enchant... good for you"

const plainText = "You rolled {0} {1} for {2} levels with {3} bookshel{4}!"

var tierTexts = map[Tier][]string{
	TierGreat: {
		"Impressive! You've got yourself a {0} {1} book for {2} levels with {3} bookshel{4}.",
		"A truly magical outcome! {0} {1} awaits you for {2} levels with {3} bookshel{4}.",
		"Your enchantment game is strong! {0} {1} for you for the price of {2} levels. Not bad for {3} bookshel{4}.",
		"Surely you must be RNG-manipulating! I mean, {0} {1} for {2} levels!? I guess it did take {3} bookshel{4} to get.",
	},
	TierGood: {
		"{0} {1} from {3} bookshel{4}? Not too shabby! Yours for {2} levels.",
		"A respectable roll! Can't go wrong with {0} {1} for {2} levels with {3} bookshel{4}.",
		"{0} {1} for {2} levels. Could be worse, lol. I like your {3} bookshel{4}.",
		"Wow, not bad! {0} {1} for {2} levels with {3} bookshel{4}.",
	},
	TierBad: {
		"{0} {1} for {2} levels? Could be worse, I guess... Might need more than {3} bookshel{4}...",
		"You rolled {0} {1} for {2} levels with {3} bookshel{4}. Keep trying!",
		"You rolled {0}! Nice!! Oh wait, its only {0} {1}. Oh well, it's only {2} levels at least. Maybe try using more than {3} bookshel{4} or something.",
	},
	TierTerrible: {
		"{0}.. you know what. I can't be bothered telling you the level, it's too embarrassing. Let's just pretend it's a good level.",
		"Wow.. a {0} {1}.. amazing.. I wouldn't spend {2} levels on that, {5}.",
		"{0} {1}... zzz... something something {2} levels something {3} bookshel{4} idk I can't be bothered anymore",
		"Jackpot! You scored a {0} {1}. What are the odds of being that bad?? {2} levels?? Honestly. Get more bookshelves, {3} isn't enough.",
		"Yeah I'm not saying the response. That's just embarassing, {5}. Almost as embarassing as misspelling embarrassing.",
	},
}

// Describe renders the chat reply for offer rolled by the player called name.
func Describe(src dice.Source, offer Offer, name string) string {
	text := plainText
	if offer.Special {
		text = dice.Pick(src, tierTexts[offer.Tier()])
	}
	suffix := "ves"
	if offer.Bookshelves == 1 {
		suffix = "f"
	}
	return strings.NewReplacer(
		"{0}", offer.Enchant.Name,
		"{1}", Roman(offer.Level),
		"{2}", strconv.Itoa(offer.Cost),
		"{3}", strconv.Itoa(offer.Bookshelves),
		"{4}", suffix,
		"{5}", name,
	).Replace(text)
}
