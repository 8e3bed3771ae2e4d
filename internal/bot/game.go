package bot

import (
	"errors"

	"go.uber.org/zap"

	"github.com/totorewa/folderbot/internal/game/betting"
)

func (d *Dispatcher) registerGame() {
	d.handlers["game:bet_for"] = func(r *request) bool {
		d.replyWager(r, d.betting.BetFor(r.user, r.args))
		return false
	}
	d.handlers["game:bet_against"] = func(r *request) bool {
		d.replyWager(r, d.betting.BetAgainst(r.user, r.args))
		return false
	}
	d.handlers["game:worked"] = func(r *request) bool {
		r.out.Say(d.betting.Worked())
		d.saveBetsIfAuto()
		return false
	}
	d.handlers["game:failed"] = func(r *request) bool {
		r.out.Say(d.betting.Failed())
		d.saveBetsIfAuto()
		return false
	}
	d.handlers["game:status"] = func(r *request) bool {
		who := r.args
		if who == "" {
			who = r.user
		}
		r.out.Say(d.betting.Status(who))
		return false
	}
	d.handlers["game:reload"] = func(r *request) bool {
		if err := d.betting.Reload(d.bettingPath); err != nil {
			d.logger.Error("reloading wagers", zap.String("path", d.bettingPath), zap.Error(err))
		}
		return false
	}
	d.handlers["game:save"] = func(r *request) bool {
		d.saveBets()
		return false
	}
	d.handlers["game:autosave"] = func(r *request) bool {
		d.mu.Lock()
		d.autosaveBets = true
		d.mu.Unlock()
		d.logger.Info("wager autosave enabled")
		return false
	}
}

func (d *Dispatcher) replyWager(r *request, err error) {
	if err == nil {
		return
	}
	var we *betting.WagerError
	if errors.As(err, &we) {
		r.out.Say(we.Text)
		return
	}
	d.logger.Error("placing wager", zap.String("user", r.user), zap.Error(err))
}

func (d *Dispatcher) saveBetsIfAuto() {
	d.mu.Lock()
	auto := d.autosaveBets
	d.mu.Unlock()
	if auto {
		d.saveBets()
	}
}

func (d *Dispatcher) saveBets() {
	if err := d.betting.Save(d.bettingPath); err != nil {
		d.logger.Error("saving wagers", zap.String("path", d.bettingPath), zap.Error(err))
	}
}
