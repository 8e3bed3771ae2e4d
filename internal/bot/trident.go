package bot

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/totorewa/folderbot/internal/game/trident"
	"github.com/totorewa/folderbot/internal/player"
	"github.com/totorewa/folderbot/internal/responses"
)

// burstWindow is the span, in seconds, five rolls must fit in to count as
// spam.
const burstWindow = 5

func (d *Dispatcher) registerTrident() {
	d.handlers["feature:trident"] = d.rollTrident
	d.handlers["feature:tridentpb"] = func(r *request) bool {
		p := d.roster.Player(r.user)
		r.out.Say(fmt.Sprintf("%s's trident pb is: %d", r.user, p.MaxTrident))
		return false
	}
	d.handlers["feature:tridentlb"] = func(r *request) bool {
		r.out.Say("Trident Leaderboard: " + d.roster.Leaderboard(player.MaxTrident, player.LeaderboardSize))
		return false
	}
	d.handlers["feature:tridentchance"] = d.tridentChance
	d.handlers["feature:droptrident"] = func(r *request) bool {
		r.out.Say(d.lib.Line(responses.Default, trident.KeyDrop, responses.Vars{"ur": d.displayName(r.user)}))
		return false
	}
	d.handlers["feature:faketrident"] = func(r *request) bool {
		r.out.Say(d.lib.Line(responses.Default, trident.KeyFakeRoll, responses.Vars{"ur": d.displayName(r.user)}))
		return false
	}
}

// rollTrident rolls, updates the player's statistics and replies according
// to the classified outcome.
func (d *Dispatcher) rollTrident(r *request) bool {
	now := r.unix()
	busy := d.chatBusy(now)

	var (
		out  trident.Outcome
		name string
		vars responses.Vars
	)
	d.roster.Update(r.user, func(p *player.Player, s *player.Scratch) {
		p.RecordTrident(now)
		p.TridentsRolled++

		roll := trident.Roll(d.src)
		pb := p.MaxTrident < int64(roll)
		if pb {
			p.MaxTrident = int64(roll)
		}
		p.TridentAcc += int64(roll)
		prev := s.LastTrident
		s.LastTrident = roll

		out = trident.Classify(d.src, trident.Facts{
			Roll:     roll,
			Rolled:   uint64(p.TridentsRolled),
			PB:       pb,
			PrevRoll: prev,
			Dent:     func() bool { return s.TryDent(now) },
			HasRare:  d.lib.Has(responses.Default, trident.RareKey(roll)),
			ChatBusy: busy,
			Burst:    p.Bursting(burstWindow),
		})
		switch {
		case out.Kind == trident.KindPerfect:
			p.Rolled250s++
		case out.Kind == trident.KindDeduct:
			p.Files -= int64(out.Deduction)
		case out.Kind.Dies():
			p.Kill(now)
		}

		name = p.Name()
		vars = responses.Vars{
			"ur":       name,
			"t.r":      strconv.Itoa(roll),
			"t.rolled": strconv.FormatInt(p.TridentsRolled, 10),
		}
	})

	d.logger.Debug("trident rolled",
		zap.String("user", r.user),
		zap.Int("roll", out.Roll),
		zap.Stringer("outcome", out.Kind),
	)
	r.out.Say(d.tridentReply(out, name, vars))
	return false
}

// tridentReply renders the chat line for out.
func (d *Dispatcher) tridentReply(out trident.Outcome, name string, vars responses.Vars) string {
	switch out.Kind {
	case trident.KindPerfect:
		return d.lib.Line(responses.Default, trident.KeyPerfect, vars)
	case trident.KindPB:
		return d.lib.Line(responses.Default, trident.KeyPB, vars)
	case trident.KindEarlyHigh:
		return d.lib.Line(responses.Default, trident.KeyEarlyHigh, vars)
	case trident.KindFirst:
		return d.lib.Line(responses.Default, trident.KeyFirst, vars)
	case trident.KindDoubleLow:
		return d.lib.Line(responses.Default, trident.KeyDoubleLow, vars)
	case trident.KindRateLimited:
		return d.lib.Line(responses.Default, trident.KeyRateLimited, vars)
	case trident.KindDeduct:
		return responses.Format(trident.DeductionText(out.Deduction), vars)
	case trident.KindDeathLow, trident.KindSpamDeath:
		return d.lib.Line(responses.Deaths, trident.KeyDeathLow, vars)
	case trident.KindDeathHigh:
		return d.lib.Line(responses.Deaths, trident.KeyDeathHigh, vars)
	case trident.KindRareValue:
		return d.lib.Line(responses.Default, trident.RareKey(out.Roll), vars)
	case trident.KindTiered:
		return trident.TierLine(d.src, out.Roll, name)
	case trident.KindMiscRare:
		return d.lib.Line(responses.Default, trident.KeyMiscRare, vars)
	case trident.KindMiscLow:
		return d.lib.Line(responses.Default, trident.KeyMiscLow, vars)
	default:
		return d.rare.Line(out.Roll, out.Seed, name)
	}
}

func (d *Dispatcher) tridentChance(r *request) bool {
	arg := strings.TrimSpace(r.args)
	if arg == "" {
		return false
	}
	if n, err := strconv.Atoi(arg); err == nil {
		if chance, ok := trident.Chance(n); ok {
			r.out.Say(trident.ChanceText(n, chance))
			return false
		}
	}
	r.out.Say(trident.ImpossibleChanceText(arg, d.displayName(r.user)))
	return false
}
