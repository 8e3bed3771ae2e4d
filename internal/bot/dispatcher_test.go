package bot_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/totorewa/folderbot/internal/bot"
	"github.com/totorewa/folderbot/internal/commandtree"
	"github.com/totorewa/folderbot/internal/player"
	"github.com/totorewa/folderbot/internal/responses"
	"github.com/totorewa/folderbot/internal/storage/jsonfile"
)

func TestHandleCommand_StringResponse(t *testing.T) {
	f := newFixture(t, nil, nil)
	assert.False(t, f.cmd(viewer, "hi"))
	assert.Equal(t, []string{"Hello!"}, f.out.take())

	p := f.roster.Player(viewer)
	assert.EqualValues(t, 1, p.SentMessages)
	assert.EqualValues(t, 1, p.SentCommands)
}

func TestHandleCommand_SoundCooldown(t *testing.T) {
	f := newFixture(t, nil, nil)
	sound := filepath.Join(f.dir, "hi.mp3")
	require.NoError(t, os.WriteFile(sound, []byte("ID3"), 0o644))
	node, ok := f.tree.Get("hi")
	require.True(t, ok)
	node.Sound = sound

	f.cmd(viewer, "hi")
	f.advance(2 * time.Second)
	f.cmd(viewer, "hi")
	assert.Equal(t, []string{sound}, f.sound.Queued(), "second play is inside the cooldown")

	f.advance(5 * time.Second)
	f.cmd(viewer, "hi")
	assert.Len(t, f.sound.Queued(), 2)
	assert.Len(t, f.out.take(), 3, "the reply is sent regardless of the sound")
}

func TestHandleCommand_PrefixNormalizedAndMismatched(t *testing.T) {
	f := newFixture(t, []int{1}, nil)
	f.send(viewer, "bot ", "hi")
	f.send(viewer, "folder ", "hi")
	assert.Equal(t, []string{"Hello!", "Hello!"}, f.out.take())

	f.send(viewer, "?", "hi")
	f.send(viewer, "", "hi")
	assert.Empty(t, f.out.take(), "wrong prefix falls through to chatter")
	assert.EqualValues(t, 2, f.roster.Player(viewer).SentCommands)
	assert.EqualValues(t, 4, f.roster.Player(viewer).SentMessages)
}

func TestHandleCommand_BarePrefix(t *testing.T) {
	f := newFixture(t, nil, nil)
	f.tree.Insert("pog", commandtree.NewNode(commandtree.StringResponse("POGGERS")).WithPrefix(commandtree.BarePrefix))
	f.send(viewer, "", "pog")
	f.send(viewer, "^", "pog")
	f.send(viewer, "!", "pog")
	assert.Equal(t, []string{"POGGERS", "POGGERS"}, f.out.take())
}

func TestHandleCommand_AliasAndMapping(t *testing.T) {
	f := newFixture(t, nil, nil)
	f.lib.Add(responses.Default, responses.Catalog{"FIRST_TRIDENT_GENERIC": {"first for {ur}"}})

	f.cmd(viewer, "tt")
	assert.Equal(t, []string{"first for alice"}, f.out.take())
	assert.EqualValues(t, 1, f.roster.Player(viewer).TridentsRolled)

	f.cmd(viewer, "raw meta:help")
	assert.Equal(t, []string{"No help for you, good sir!"}, f.out.take())
}

func TestHandleCommand_UnknownTagIsLogged(t *testing.T) {
	f := newFixture(t, nil, nil)
	f.cmd(viewer, "mystery")
	assert.Empty(t, f.out.take())
	assert.Equal(t, 1, f.logs.FilterMessage("no handler for tag").Len())
}

func TestHandleCommand_Permissions(t *testing.T) {
	f := newFixture(t, nil, nil)

	assert.False(t, f.cmd(viewer, "stop"))
	assert.False(t, f.cmd(admin, "stop"), "super-only beats admin")
	assert.Equal(t, []string{bot.DeniedText, bot.DeniedText}, f.out.take())
	assert.True(t, f.cmd(superuser, "stop"))

	f.cmd(viewer, "say hello")
	assert.Equal(t, []string{bot.DeniedText}, f.out.take())
	f.cmd(admin, "say hello")
	f.cmd(superuser, "say again")
	assert.Equal(t, []string{"hello", "again"}, f.out.take())

	f.cmd(admin, "sayraw PING")
	assert.Equal(t, []string{"PING"}, f.out.raw)
}

// The superuser passes admin-only checks without being listed as an admin.
func TestHandleCommand_SuperuserNeedsNoAdminEntry(t *testing.T) {
	f := newFixture(t, nil, nil)
	require.False(t, f.tree.IsAdmin(superuser))

	f.cmd(superuser, "say from the top")
	f.cmd(superuser, "worked")
	assert.Equal(t, []string{"from the top", "Nice work, but nobody was playing..."}, f.out.take())
}

func TestHandleCommand_LogsResult(t *testing.T) {
	f := newFixture(t, nil, nil)
	f.cmd(viewer, "hi")
	f.send(viewer, "", "just chatting")
	f.cmd(viewer, "stop")
	f.cmd(viewer, "mystery")
	f.cmd(viewer, "help")

	var results []string
	for _, e := range f.logs.FilterMessage("command handled").All() {
		fields := e.ContextMap()
		assert.Equal(t, viewer, fields["user"])
		assert.NotEmpty(t, fields["command"])
		results = append(results, fields["result"].(string))
	}
	assert.Equal(t, []string{
		bot.ResultReply,
		bot.ResultFallthrough,
		bot.ResultDenied,
		bot.ResultUnknownTag,
		bot.ResultDispatched,
	}, results)
}

func TestHandleCommand_DeathGate(t *testing.T) {
	f := newFixture(t, nil, nil)
	f.lib.Add(responses.Deaths, responses.Catalog{
		"DEAD_TRIDENT_ATTEMPT": {"{ur} is too dead to roll"},
		"DEAD_COMMAND_ATTEMPT": {"{ur} cannot {m.com} while dead"},
		"RESURRECTION":         {"{ur} lives again"},
	})
	died := epoch.Unix()
	f.roster.Update(viewer, func(p *player.Player, _ *player.Scratch) { p.Kill(died) })

	f.advance(10 * time.Second)
	f.cmd(viewer, "trident")
	f.cmd(viewer, "playerdata")
	f.cmd(viewer, "hi")
	assert.Equal(t, []string{
		"alice is too dead to roll",
		"alice cannot playerdata while dead",
		"Hello!",
	}, f.out.take(), "plain responses skip the gate")
	assert.EqualValues(t, 0, f.roster.Player(viewer).TridentsRolled)

	// The revive draw is 0, so anything past the base delay resurrects.
	f.advance(10 * time.Second)
	f.cmd(viewer, "help")
	assert.Equal(t, []string{"alice lives again", "No help for you, good sir!"}, f.out.take())
	p := f.roster.Player(viewer)
	assert.False(t, p.IsDead())
	assert.EqualValues(t, 1, p.Deaths)
}

func TestSave_WritesPlayers(t *testing.T) {
	f := newFixture(t, nil, nil)
	f.cmd(viewer, "hi")
	require.NoError(t, f.d.Save(context.Background()))

	loaded, err := jsonfile.New(filepath.Join(f.dir, "players.json")).LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, viewer, loaded[0].Username)

	_, err = os.Stat(filepath.Join(f.dir, "betting.json"))
	assert.True(t, os.IsNotExist(err), "wagers are saved only after autosave is enabled")

	f.cmd(admin, "autosave")
	require.NoError(t, f.d.Save(context.Background()))
	_, err = os.Stat(filepath.Join(f.dir, "betting.json"))
	assert.NoError(t, err)
}

func TestReloadCommands(t *testing.T) {
	f := newFixture(t, nil, nil)
	path := filepath.Join(f.dir, "commands.json")

	other := commandtree.New()
	other.Insert("bye", commandtree.NewNode(commandtree.StringResponse("Goodbye!")))
	require.NoError(t, other.DumpFile(path))

	require.NoError(t, f.d.ReloadCommands(context.Background()))
	f.cmd(viewer, "bye")
	assert.Equal(t, []string{"Goodbye!"}, f.out.take())
	assert.True(t, f.d.Tree().Contains(commandtree.CancelCommand), "the cancel hook is injected on load")

	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))
	assert.Error(t, f.d.ReloadCommands(context.Background()))
	assert.True(t, f.d.Tree().Contains("bye"), "a failed reload keeps the current tree")
}

// Property: only meta:stop asks for shutdown, and every message counts
// towards the sender's message total.
func TestPropertyOnlyStopStops(t *testing.T) {
	f := newFixture(t, []int{3, 1, 4, 1, 5, 9, 2, 6}, nil)
	users := []string{viewer, admin, superuser, "bob"}
	texts := []string{"hi", "help", "tridentpb", "whois alice", "nothing here", "lb files", "stop", "commands"}
	sent := map[string]int64{}
	rapid.Check(t, func(t *rapid.T) {
		user := rapid.SampledFrom(users).Draw(t, "user")
		text := rapid.SampledFrom(texts).Draw(t, "text")
		f.advance(time.Minute)
		stop := f.cmd(user, text)
		sent[user]++
		if stop != (text == "stop" && user == superuser) {
			t.Fatalf("%s %q stop=%v", user, text, stop)
		}
		if got := f.roster.Player(user).SentMessages; got != sent[user] {
			t.Fatalf("%s sent %d messages, record says %d", user, sent[user], got)
		}
	})
}
