package bot_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/totorewa/folderbot/internal/audio"
	"github.com/totorewa/folderbot/internal/bot"
	"github.com/totorewa/folderbot/internal/chat"
	"github.com/totorewa/folderbot/internal/commandtree"
	"github.com/totorewa/folderbot/internal/game/betting"
	"github.com/totorewa/folderbot/internal/game/dice"
	"github.com/totorewa/folderbot/internal/game/loot"
	"github.com/totorewa/folderbot/internal/player"
	"github.com/totorewa/folderbot/internal/responses"
	"github.com/totorewa/folderbot/internal/storage/jsonfile"
)

const (
	superuser = "desktopfolder"
	admin     = "pacmanmvc"
	viewer    = "alice"
)

// epoch is far enough from zero that the per-second rate limits start open.
var epoch = time.Unix(1_700_000_000, 0)

// replies records what the dispatcher sends, dropping empty lines the way
// the real outbox does.
type replies struct {
	mu   sync.Mutex
	said []string
	raw  []string
}

func (r *replies) Say(text string) {
	if text == "" {
		return
	}
	r.mu.Lock()
	r.said = append(r.said, text)
	r.mu.Unlock()
}

func (r *replies) Raw(text string) {
	if text == "" {
		return
	}
	r.mu.Lock()
	r.raw = append(r.raw, text)
	r.mu.Unlock()
}

// take returns and clears everything said so far.
func (r *replies) take() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.said
	r.said = nil
	return out
}

type fixture struct {
	d      *bot.Dispatcher
	tree   *commandtree.Tree
	roster *player.Roster
	lib    *responses.Library
	sound  *audio.LogPlayer
	game   *betting.Game
	out    *replies
	logs   *observer.ObservedLogs
	dir    string
	clock  time.Time
}

var publicCommands = map[string]string{
	"trident":       "feature:trident",
	"tridentpb":     "feature:tridentpb",
	"tridentlb":     "feature:tridentlb",
	"tridentchance": "feature:tridentchance",
	"droptrident":   "feature:droptrident",
	"faketrident":   "feature:faketrident",
	"lb":            "feature:anylb",
	"enchant":       "feature:enchant",
	"gunpowder":     "feature:gunpowder",
	"nick":          "feature:nick",
	"eval":          "feature:eval",
	"title":         "feature:title",
	"whois":         "meta:whois",
	"playerdata":    "meta:playerdata",
	"help":          "meta:help",
	"commands":      "meta:commands",
	"isadmin":       "meta:isadmin",
	"issuper":       "meta:issuper",
	"betfor":        "game:bet_for",
	"betagainst":    "game:bet_against",
	"status":        "game:status",
	"mystery":       "feature:nope",
	"raw":           bot.InternalMappingTag,
}

var adminCommands = map[string]string{
	"insert":   "meta:insert",
	"edit":     "meta:edit",
	"revive":   "admin:revive",
	"derevive": "admin:derevive",
	"setnick":  "admin:nick",
	"mute":     "admin:mute",
	"unmute":   "admin:unmute",
	"say":      "meta:say",
	"sayraw":   "meta:say_raw",
	"worked":   "game:worked",
	"failed":   "game:failed",
	"savebets": "game:save",
	"autosave": "game:autosave",
	"reload":   "meta:reload_commands",
	"save":     "meta:save_commands",
}

func testTree() *commandtree.Tree {
	tree := commandtree.New()
	tree.SetSuperuser(superuser)
	tree.AddAdmin(admin)
	for name, tag := range publicCommands {
		tree.Insert(name, commandtree.NewNode(commandtree.Generic(tag)))
	}
	for name, tag := range adminCommands {
		n := commandtree.NewNode(commandtree.Generic(tag))
		n.AdminOnly = true
		n.SuperOnly = false
		n.Hidden = true
		tree.Insert(name, n)
	}
	tree.Insert("stop", commandtree.NewPrivateNode(commandtree.Generic("meta:stop")))
	tree.Insert("hi", commandtree.NewNode(commandtree.StringResponse("Hello!")))
	tree.Insert("tt", commandtree.NewNode(commandtree.Alias("trident")))
	tree.Insert(commandtree.CancelCommand, commandtree.NewPrivateNode(commandtree.Generic(commandtree.CancelTag)))
	locked := commandtree.NewNode(commandtree.StringResponse("fixed"))
	locked.Editable = false
	tree.Insert("locked", locked)
	return tree
}

// newFixture builds a dispatcher whose game randomness replays values. mutate
// may adjust the dependencies before the dispatcher is built.
func newFixture(t *testing.T, values []int, mutate func(*bot.Deps)) *fixture {
	t.Helper()
	if len(values) == 0 {
		values = []int{0}
	}
	dir := t.TempDir()
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)

	f := &fixture{
		tree:   testTree(),
		roster: player.NewRoster(jsonfile.New(filepath.Join(dir, "players.json")), logger),
		lib:    responses.NewLibrary(&dice.FixedSource{Values: []int{0}}),
		sound:  audio.NewLogPlayer(logger),
		game:   betting.New(nil),
		out:    &replies{},
		logs:   logs,
		dir:    dir,
		clock:  epoch,
	}
	deps := bot.Deps{
		Tree:         f.tree,
		Roster:       f.roster,
		Library:      f.lib,
		Audio:        audio.NewGate(f.sound, audio.SoundCooldown),
		Betting:      f.game,
		Gunpowder:    loot.DefaultGunpowder(),
		Source:       &dice.FixedSource{Values: values},
		Parser:       chat.NewParser(),
		CommandsPath: filepath.Join(dir, "commands.json"),
		BettingPath:  filepath.Join(dir, "betting.json"),
	}
	if mutate != nil {
		mutate(&deps)
	}
	f.d = bot.New(deps, logger, bot.WithClock(func() time.Time { return f.clock }))
	return f
}

// cmd sends "!text" from user.
func (f *fixture) cmd(user, text string) bool {
	return f.send(user, "!", text)
}

func (f *fixture) send(user, prefix, text string) bool {
	return f.d.HandleCommand(context.Background(), f.out, user, chat.Command{Prefix: prefix, Text: text})
}

func (f *fixture) advance(d time.Duration) {
	f.clock = f.clock.Add(d)
}
