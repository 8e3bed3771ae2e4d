package bot

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/totorewa/folderbot/internal/game/calc"
	"github.com/totorewa/folderbot/internal/game/dice"
	"github.com/totorewa/folderbot/internal/game/enchant"
	"github.com/totorewa/folderbot/internal/game/loot"
	"github.com/totorewa/folderbot/internal/player"
	"github.com/totorewa/folderbot/internal/responses"
)

// Gunpowder rate limit in seconds. Early attempts push the next allowed loot
// back by gpCooldown while it is less than gpMaxBacklog away.
const (
	gpCooldown   = 2
	gpMaxBacklog = 60
)

// DefaultTitle is the titles catalog key used when the requested one is
// missing.
const DefaultTitle = "aa"

var gpDeathLines = []string{
	"%s looted 0 gunpowder. monkaFlying They leap from the end ship with their new wings but forgot they didn't get gunpowder and hit the ground hard. RIP",
	"%s looted 0 gunpowder. RESETTING They rage quit and die from embarrassment.",
	"%s looted 0 gunpowder. Feeling bad, a creeper approaches you offering gunpowd- oh nevermind. IMDEAD",
}

func (d *Dispatcher) registerFeatures() {
	d.handlers["feature:anylb"] = func(r *request) bool {
		metric, ok := player.MetricByName(r.args)
		if !ok {
			return false
		}
		r.out.Say(d.roster.Leaderboard(metric, player.LeaderboardSize))
		return false
	}
	d.handlers["feature:title"] = func(r *request) bool {
		key := r.args
		if !d.lib.Has(responses.Titles, key) {
			key = DefaultTitle
		}
		r.out.Say(d.lib.Line(responses.Titles, key, nil))
		return false
	}
	d.handlers["feature:nick"] = func(r *request) bool {
		var name string
		d.roster.Update(r.user, func(p *player.Player, _ *player.Scratch) {
			if r.args != "" {
				p.Nick = r.args
			}
			name = p.Name()
		})
		r.out.Say(d.lib.Line(responses.Default, "NICK_SET", responses.Vars{"ur": name}))
		return false
	}
	d.handlers["feature:eval"] = func(r *request) bool {
		r.out.Say(calc.Reply(r.args))
		return false
	}
	d.handlers["feature:enchant"] = d.rollEnchant
	d.handlers["feature:gunpowder"] = d.lootGunpowder
}

func (d *Dispatcher) rollEnchant(r *request) bool {
	offer, ok := enchant.Roll(d.src)
	if !ok {
		r.out.Say(enchant.ImpossibleText)
		return false
	}
	var name string
	d.roster.Update(r.user, func(p *player.Player, _ *player.Scratch) {
		p.EnchantsRolled++
		name = p.Name()
	})
	r.out.Say(enchant.Describe(d.src, offer, name))
	return false
}

// lootGunpowder opens the gunpowder table once per cooldown and reports the
// haul against the player's records.
func (d *Dispatcher) lootGunpowder(r *request) bool {
	now := r.unix()
	maxGP := int64(d.gp.MaxQuantity(loot.Gunpowder))

	var (
		reply string
		drop  loot.Result
	)
	d.roster.Update(r.user, func(p *player.Player, s *player.Scratch) {
		if now < s.GPReadyAt {
			if s.GPReadyAt-now < gpMaxBacklog {
				s.GPReadyAt += gpCooldown
			}
			return
		}

		drop = loot.Generate(d.gp, d.src)
		gp := int64(drop.Quantity(loot.Gunpowder))
		p.GPRolled++
		p.GPAcc += gp
		s.GPReadyAt = now + gpCooldown

		name := p.Name()
		switch {
		case gp == maxGP:
			p.BestGP = gp
			p.MaxGPRolled++
			reply = fmt.Sprintf("%s looted %d gunpowder!! folderWoah That's the maximum gunpowder you can loot! Well done!", name, gp)
		case gp > p.BestGP:
			if p.GPRolled == 1 {
				reply = fmt.Sprintf("%s received %d gunpowder from their first ever loot!", name, gp)
			} else {
				reply = fmt.Sprintf("%s looted %d gunpowder! PAGGING That's your new personal best! Your previous best was %d gunpowder.", name, gp, p.BestGP)
			}
			p.BestGP = gp
		case gp == 0 && dice.OneIn(d.src, 3):
			p.Kill(now)
			reply = fmt.Sprintf(dice.Pick(d.src, gpDeathLines), name)
		case gp == 0:
			reply = fmt.Sprintf("%s looted 0 gunpowder. oof RESETTING", name)
		default:
			reply = fmt.Sprintf("%s looted %d gunpowder.", name, gp)
		}
	})
	if reply == "" {
		return false
	}
	d.logger.Debug("gunpowder looted",
		zap.String("user", r.user),
		zap.String("drop", drop.ID),
		zap.Int("gunpowder", drop.Quantity(loot.Gunpowder)),
	)
	r.out.Say(reply)
	return false
}
