package commandtree_test

import (
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/totorewa/folderbot/internal/commandtree"
)

const sampleTree = `{
  "version": "1.2.3",
  "commands": {
    "hello": {"value": {"StringResponse": "hi {ur}"}},
    "hi": {"value": {"Alias": "hello"}},
    "stop": {"value": {"Generic": "meta:stop"}, "admin_only": true, "hidden": true},
    "say": {"value": {"Generic": "meta:say"}, "admin_only": true, "super_only": false, "prefix": "^", "editable": false, "sound": "boom.mp3",
      "subcommands": {"raw": {"value": {"Generic": "meta:say_raw"}}}}
  },
  "admins": ["desktopfolder", "pacmanmvc"],
  "superuser": "desktopfolder"
}`

func TestFromJSON_AppliesDefaults(t *testing.T) {
	tree, err := commandtree.FromJSON([]byte(sampleTree))
	require.NoError(t, err)

	assert.Equal(t, "1.2.3", tree.Version)
	assert.Equal(t, commandtree.DefaultHost, tree.Host)
	assert.Equal(t, commandtree.DefaultPort, tree.Port)
	assert.Equal(t, "desktopfolder", tree.Superuser())
	assert.Equal(t, []string{"desktopfolder", "pacmanmvc"}, tree.Admins())

	hello, ok := tree.Get("hello")
	require.True(t, ok)
	assert.Equal(t, commandtree.NewNode(commandtree.StringResponse("hi {ur}")), hello)

	say, ok := tree.Get("say")
	require.True(t, ok)
	assert.True(t, say.AdminOnly)
	assert.False(t, say.SuperOnly)
	assert.False(t, say.Editable)
	assert.Equal(t, "^", say.Prefix)
	assert.Equal(t, "boom.mp3", say.Sound)
	require.Contains(t, say.Subcommands, "raw")
	assert.Equal(t, "meta:say_raw", say.Subcommands["raw"].Value.Text)

	stop, _ := tree.Get("stop")
	assert.True(t, stop.SuperOnly, "super_only defaults to true")
}

func TestFromJSON_InjectsCancelHook(t *testing.T) {
	tree, err := commandtree.FromJSON([]byte(`{"commands": {"rb:cancel": {"value": {"StringResponse": "hijacked"}}}}`))
	require.NoError(t, err)

	node, ok := tree.Get(commandtree.CancelCommand)
	require.True(t, ok)
	assert.Equal(t, commandtree.Generic(commandtree.CancelTag), node.Value)
	assert.True(t, node.Hidden)
	assert.True(t, node.AdminOnly)
	assert.True(t, node.SuperOnly)
}

func TestFromJSON_EmptyObject(t *testing.T) {
	tree, err := commandtree.FromJSON([]byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, commandtree.DefaultVersion, tree.Version)
	assert.Equal(t, 1, tree.Len())
	assert.Empty(t, tree.Superuser())
}

func TestFromJSON_Malformed(t *testing.T) {
	for _, doc := range []string{
		`{`,
		`{"commands": {"x": {}}}`,
		`{"commands": {"x": {"value": {"Shout": "hi"}}}}`,
		`{"commands": {"x": {"value": {"Alias": "a", "Generic": "b"}}}}`,
		`{"commands": {"x": null}}`,
		`{"commands": {"x": {"value": {"StringResponse": "a"}, "subcommands": {"y": null}}}}`,
	} {
		_, err := commandtree.FromJSON([]byte(doc))
		assert.Error(t, err, "document %s must fail", doc)
	}
}

func TestFromFile_Missing(t *testing.T) {
	_, err := commandtree.FromFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestDumpFile_OmitsDefaults(t *testing.T) {
	tree := commandtree.New()
	tree.Insert("hello", commandtree.NewNode(commandtree.StringResponse("hi")))
	path := filepath.Join(t.TempDir(), "commands.json")
	require.NoError(t, tree.DumpFile(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	commands := generic["commands"].(map[string]any)
	hello := commands["hello"].(map[string]any)
	assert.Equal(t, map[string]any{"value": map[string]any{"StringResponse": "hi"}}, hello)
	assert.Equal(t, []any{}, generic["admins"])
}

func TestDumpFile_KeepsReplyTextReadable(t *testing.T) {
	tree := commandtree.New()
	tree.Insert("love", commandtree.NewNode(commandtree.StringResponse("a <3 & b > c")))
	path := filepath.Join(t.TempDir(), "commands.json")
	require.NoError(t, tree.DumpFile(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"StringResponse": "a <3 & b > c"`)
	assert.NotContains(t, string(raw), `\u003c`)
	assert.NotContains(t, string(raw), `\u0026`)

	reloaded, err := commandtree.FromFile(path)
	require.NoError(t, err)
	love, ok := reloaded.Get("love")
	require.True(t, ok)
	assert.Equal(t, "a <3 & b > c", love.Value.Text)
}

func TestDumpFile_RoundTrip(t *testing.T) {
	original, err := commandtree.FromJSON([]byte(sampleTree))
	require.NoError(t, err)
	original.Remove(commandtree.CancelCommand)

	path := filepath.Join(t.TempDir(), "commands.json")
	require.NoError(t, original.DumpFile(path))

	reloaded, err := commandtree.FromFile(path)
	require.NoError(t, err)
	require.True(t, reloaded.Remove(commandtree.CancelCommand))

	assert.Equal(t, original, reloaded)
}

// Property: dump then load reproduces the tree apart from the cancel hook.
func TestPropertyRoundTrip(t *testing.T) {
	dir := t.TempDir()
	rapid.Check(t, func(t *rapid.T) {
		tree := commandtree.New()
		n := rapid.IntRange(0, 6).Draw(t, "n")
		for i := 0; i < n; i++ {
			name := rapid.StringMatching(`[a-z]{1,8}`).Draw(t, "name")
			kind := commandtree.Kind(rapid.IntRange(0, 2).Draw(t, "kind"))
			node := commandtree.NewNode(commandtree.Value{Kind: kind, Text: rapid.String().Draw(t, "text")})
			node.AdminOnly = rapid.Bool().Draw(t, "admin")
			node.SuperOnly = rapid.Bool().Draw(t, "super")
			node.Hidden = rapid.Bool().Draw(t, "hidden")
			node.Editable = rapid.Bool().Draw(t, "editable")
			node.Prefix = rapid.SampledFrom([]string{"!", "^", "?", "!!"}).Draw(t, "prefix")
			if rapid.Bool().Draw(t, "sub") {
				node.AddSubcommand(rapid.StringMatching(`[a-z]{1,4}`).Draw(t, "subname"),
					commandtree.NewNode(commandtree.StringResponse("sub")))
			}
			tree.Insert(name, node)
		}
		for _, admin := range rapid.SliceOfN(rapid.StringMatching(`[a-z_]{1,10}`), 0, 3).Draw(t, "admins") {
			tree.AddAdmin(admin)
		}
		tree.SetSuperuser(rapid.StringMatching(`[a-z_]{0,10}`).Draw(t, "superuser"))

		path := filepath.Join(dir, "tree.json")
		if err := tree.DumpFile(path); err != nil {
			t.Fatalf("dump: %v", err)
		}
		reloaded, err := commandtree.FromFile(path)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		reloaded.Remove(commandtree.CancelCommand)
		assert.Equal(t, tree, reloaded)
	})
}

func TestSetupNew(t *testing.T) {
	path := filepath.Join(t.TempDir(), "commands.json")
	tree, err := commandtree.SetupNew(path)
	require.NoError(t, err)

	node, ok := tree.Get(commandtree.EasterEggCommand)
	require.True(t, ok)
	assert.True(t, node.Hidden)
	assert.Equal(t, commandtree.KindStringResponse, node.Value.Kind)
	assert.Contains(t, node.Value.Text, "JSON is the best data format")

	loaded, err := commandtree.FromFile(path)
	require.NoError(t, err)
	assert.True(t, loaded.Contains(commandtree.EasterEggCommand))
}

func TestSetupNew_RefusesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "commands.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"keep": true}`), 0o644))

	_, err := commandtree.SetupNew(path)
	assert.ErrorIs(t, err, commandtree.ErrPathExists)

	raw, _ := os.ReadFile(path)
	assert.Equal(t, `{"keep": true}`, string(raw))
}

func TestValueJSON(t *testing.T) {
	for _, v := range []commandtree.Value{
		commandtree.StringResponse("hi"),
		commandtree.Alias("x"),
		commandtree.Generic("meta:stop"),
	} {
		raw, err := json.Marshal(v)
		require.NoError(t, err)
		var back commandtree.Value
		require.NoError(t, json.Unmarshal(raw, &back))
		assert.Equal(t, v, back)
	}
	raw, _ := json.Marshal(commandtree.Alias("x"))
	assert.JSONEq(t, `{"Alias":"x"}`, string(raw))
}
