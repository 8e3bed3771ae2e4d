package bot

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/totorewa/folderbot/internal/commandtree"
)

// TestCommandsPath is where meta:save_commands_test writes.
const TestCommandsPath = "commands.test.json"

// Chat replies have to fit a Twitch message.
const (
	whoisLimit   = 256
	listingLimit = 500
)

func (d *Dispatcher) registerMeta() {
	d.handlers["meta:insert"] = d.insertCommand
	d.handlers["meta:edit"] = d.editCommand
	d.handlers["meta:isadmin"] = d.isAdmin
	d.handlers["meta:issuper"] = d.isSuper
	d.handlers["meta:help"] = func(r *request) bool {
		r.out.Say("No help for you, good sir!")
		return false
	}
	d.handlers["meta:stop"] = func(r *request) bool {
		d.logger.Info("stop requested", zap.String("user", r.user))
		return true
	}
	d.handlers["meta:say"] = func(r *request) bool {
		r.out.Say(r.args)
		return false
	}
	d.handlers["meta:say_raw"] = func(r *request) bool {
		r.out.Raw(r.args)
		return false
	}
	d.handlers["meta:reload_commands"] = func(r *request) bool {
		if err := d.ReloadCommands(r.ctx); err != nil {
			d.logger.Error("reloading commands", zap.Error(err))
		}
		return false
	}
	d.handlers["meta:save_commands"] = func(r *request) bool {
		d.saveCommandsLogged(d.commandsPath)
		return false
	}
	d.handlers["meta:save_commands_test"] = func(r *request) bool {
		d.saveCommandsLogged(TestCommandsPath)
		return false
	}
	d.handlers["meta:playerdata"] = d.playerData
	d.handlers["meta:whois"] = d.whois
	d.handlers["meta:commands"] = d.listCommands
}

func (d *Dispatcher) saveCommandsLogged(path string) {
	if err := d.SaveCommands(path); err != nil {
		d.logger.Error("dumping commands", zap.String("path", path), zap.Error(err))
		return
	}
	d.logger.Info("commands saved", zap.String("path", path))
}

func (d *Dispatcher) insertCommand(r *request) bool { return d.upsertCommand(r, false) }

func (d *Dispatcher) editCommand(r *request) bool { return d.upsertCommand(r, true) }

// upsertCommand creates or rewrites a StringResponse command from
// "<prefix?><name> <response>".
func (d *Dispatcher) upsertCommand(r *request, edit bool) bool {
	ea, ok := d.parser.ParseEditArgs(r.args)
	if !ok {
		r.out.Say("Nice try, but you have been thwarted by the command regex! Mwuahaha.")
		return false
	}
	prefix := ea.Prefix
	if prefix == "" {
		prefix = commandtree.DefaultPrefix
	}
	name := strings.ToLower(ea.Name)
	if name != ea.Name {
		r.out.Say("Warning: Converting to case-insensitive.")
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	tree := d.tree

	probe := name
	if existing, ok := tree.Resolve(&probe); ok && !existing.Editable {
		r.out.Say("Command is not editable.")
		return false
	}

	value := commandtree.StringResponse(ea.Response)
	if node, exists := tree.Get(name); exists {
		if !edit {
			r.out.Say("Command already exists. Use !edit instead.")
			return false
		}
		if node.Value.Kind == commandtree.KindGeneric {
			r.out.Say("You cannot edit Generic commands.")
			return false
		}
		// Both mutators only fail on a missing key, which Get just ruled out.
		_ = tree.SetValue(name, value)
		_ = tree.SetPrefix(name, prefix)
	} else {
		tree.Insert(name, commandtree.NewNode(value).WithPrefix(prefix))
	}

	d.logger.Info("command stored",
		zap.String("user", r.user),
		zap.String("name", name),
		zap.String("prefix", prefix),
		zap.Bool("edit", edit),
	)
	if err := tree.DumpFile(d.commandsPath); err != nil {
		d.logger.Error("dumping commands", zap.String("path", d.commandsPath), zap.Error(err))
	}
	return false
}

func (d *Dispatcher) isAdmin(r *request) bool {
	r.out.Say(statusText(r.args, d.Tree().IsAdmin(r.args)))
	return false
}

func (d *Dispatcher) isSuper(r *request) bool {
	su := d.Tree().Superuser()
	r.out.Say(statusText(r.args, su != "" && su == r.args))
	return false
}

func statusText(who string, ok bool) string {
	if ok {
		return "Status of " + who + ": true"
	}
	return "Status of " + who + ": false"
}

func (d *Dispatcher) playerData(r *request) bool {
	p := d.roster.PlayerOr(strings.ToLower(r.args), r.user)
	r.out.Say(p.String())
	return false
}

func (d *Dispatcher) whois(r *request) bool {
	query := strings.ToLower(strings.TrimSpace(r.args))
	if query == "" {
		r.out.Say("Who's who? Where am I?")
		return false
	}
	found := d.roster.Whois(query)
	if len(found) == 0 {
		r.out.Say("There's no one called " + query + " here folderSus")
		return false
	}
	r.out.Say(truncate("Here's what I could find: "+strings.Join(found, ", "), whoisLimit))
	return false
}

func (d *Dispatcher) listCommands(r *request) bool {
	visible := d.Tree().Visible()
	if len(visible) == 0 {
		return false
	}
	r.out.Say(truncate("Commands: "+strings.Join(visible, ", "), listingLimit))
	return false
}

// truncate cuts s to limit bytes, marking the cut with "...".
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
