package bot

import (
	"strings"
	"time"

	"github.com/totorewa/folderbot/internal/game/dice"
	"github.com/totorewa/folderbot/internal/irc"
	"github.com/totorewa/folderbot/internal/player"
	"github.com/totorewa/folderbot/internal/responses"
)

// StallmanText answers chat mentioning linux.
const StallmanText = "Did you mean GNU/Linux? - Stallman"

// GenericGreetKey is the catalog key for greeting a user without their own
// greeting lines.
const GenericGreetKey = "USER_GREET_GENERIC"

// GreetKey is the catalog key holding user's own greetings.
func GreetKey(user string) string { return "USER_GREET_" + user }

// chatter handles a message that is not a command: it may greet a user the
// first time this process sees them and reacts to a few keywords.
func (d *Dispatcher) chatter(out irc.Replier, user, text string, now time.Time) {
	d.mu.Lock()
	d.lastChat = now.Unix()
	d.mu.Unlock()

	var (
		greet bool
		name  string
	)
	d.roster.Update(user, func(p *player.Player, s *player.Scratch) {
		greet = s.TryGreet()
		name = p.Name()
	})
	vars := responses.Vars{"ur": name}

	switch {
	case greet:
		if key := GreetKey(user); d.lib.Has(responses.Default, key) && dice.Ratio(d.src, 3, 5) {
			out.Say(d.lib.Line(responses.Default, key, vars))
			return
		}
		if dice.OneIn(d.src, 3) {
			out.Say(d.lib.Line(responses.Default, GenericGreetKey, vars))
		}
	case strings.Contains(text, "linux") && !strings.Contains(text, "kernel") && dice.OneIn(d.src, 3):
		out.Say(StallmanText)
	}
}
