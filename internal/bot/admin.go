package bot

import (
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/totorewa/folderbot/internal/audio"
	"github.com/totorewa/folderbot/internal/commandtree"
	"github.com/totorewa/folderbot/internal/player"
	"github.com/totorewa/folderbot/internal/responses"
)

func (d *Dispatcher) registerAdmin() {
	d.handlers["admin:revive"] = func(r *request) bool {
		d.setDeath(r, "FAKE_RESURRECTION", func(p *player.Player) { p.Revive() })
		return false
	}
	d.handlers["admin:derevive"] = func(r *request) bool {
		now := r.unix()
		d.setDeath(r, "FAKE_DEATH", func(p *player.Player) { p.Death = &now })
		return false
	}
	d.handlers["admin:nick"] = d.adminNick
	d.handlers["admin:mute"] = func(r *request) bool {
		d.sound.Player().SetVolume(audio.VolumeMuted)
		return false
	}
	d.handlers["admin:unmute"] = func(r *request) bool {
		d.sound.Player().SetVolume(audio.VolumeDefault)
		return false
	}
	d.handlers[commandtree.CancelTag] = func(r *request) bool {
		d.sound.Player().Stop()
		return false
	}
}

// setDeath applies fn to the player named by the arguments and announces it
// with a line from the deaths catalog. Unknown players get no reply.
func (d *Dispatcher) setDeath(r *request, key string, fn func(p *player.Player)) {
	name := d.displayName(r.user)
	target, err := d.roster.Apply(strings.ToLower(r.args), fn)
	if err != nil {
		if !errors.Is(err, player.ErrPlayerNotFound) {
			d.logger.Error("updating player", zap.Error(err))
		}
		return
	}
	r.out.Say(d.lib.Line(responses.Deaths, key, responses.Vars{
		"ur":      name,
		"otherur": target.Name(),
	}))
}

// adminNick sets another player's nick from "user|nick".
func (d *Dispatcher) adminNick(r *request) bool {
	user, nick, ok := strings.Cut(r.args, "|")
	if !ok {
		r.out.Say("Not enough arguments.")
		return false
	}
	d.roster.Update(user, func(p *player.Player, _ *player.Scratch) {
		p.Nick = nick
	})
	d.logger.Info("nick set", zap.String("by", r.user), zap.String("user", user), zap.String("nick", nick))
	return false
}
