// Package bot turns decomposed chat commands into replies: it resolves them
// through the command tree, enforces permissions and the death gate, and
// runs the handler registered for each Generic tag.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/totorewa/folderbot/internal/audio"
	"github.com/totorewa/folderbot/internal/chat"
	"github.com/totorewa/folderbot/internal/commandtree"
	"github.com/totorewa/folderbot/internal/game/betting"
	"github.com/totorewa/folderbot/internal/game/dice"
	"github.com/totorewa/folderbot/internal/game/loot"
	"github.com/totorewa/folderbot/internal/game/trident"
	"github.com/totorewa/folderbot/internal/irc"
	"github.com/totorewa/folderbot/internal/player"
	"github.com/totorewa/folderbot/internal/responses"
)

// InternalMappingTag makes the dispatcher use the command arguments as the
// handler tag.
const InternalMappingTag = "debug:use_internal_mapping"

// DeniedText answers a command the user may not run.
const DeniedText = "Naughty naughty, that's not for you!"

// Values of the result field on the "command handled" log line.
const (
	ResultFallthrough = "fallthrough"
	ResultDenied      = "denied"
	ResultReply       = "reply"
	ResultDead        = "dead"
	ResultUnknownTag  = "unknown_tag"
	ResultDispatched  = "dispatched"
)

// Death gate timing in seconds: a dead player comes back once
// ReviveBase plus a draw in [0, ReviveJitter] has passed.
const (
	ReviveBase   = 15
	ReviveJitter = 270
)

// chatBusyWindow is how recently someone must have chatted, in seconds, for
// the chat to count as busy.
const chatBusyWindow = 10

// Deps are the collaborators a Dispatcher is built from.
type Deps struct {
	Tree    *commandtree.Tree
	Roster  *player.Roster
	Library *responses.Library
	Audio   *audio.Gate
	Betting *betting.Game
	// Gunpowder is the loot table rolled by feature:gunpowder.
	Gunpowder loot.Table
	Source    dice.Source
	Parser    *chat.Parser
	// CommandsPath is where meta:insert and friends persist the tree.
	CommandsPath string
	// BettingPath is the wager game file.
	BettingPath string
}

// Option customizes a Dispatcher.
type Option func(*Dispatcher)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

// request is one command being handled.
type request struct {
	ctx  context.Context
	out  irc.Replier
	user string
	// name is the first token of the command as typed.
	name string
	args string
	now  time.Time
}

func (r *request) unix() int64 { return r.now.Unix() }

type handlerFunc func(r *request) (stop bool)

// Dispatcher implements irc.Handler and irc.Saver.
//
// HandleCommand calls are expected from one read loop at a time; the tree is
// guarded only so that a reload from another goroutine is safe.
type Dispatcher struct {
	mu   sync.Mutex
	tree *commandtree.Tree

	roster  *player.Roster
	lib     *responses.Library
	sound   *audio.Gate
	betting *betting.Game
	gp      loot.Table
	src     dice.Source
	roller  *dice.Roller
	parser  *chat.Parser
	rare    trident.RareLines

	commandsPath string
	bettingPath  string

	// lastChat is the unix time of the last non-command message.
	lastChat     int64
	autosaveBets bool

	handlers map[string]handlerFunc
	now      func() time.Time
	logger   *zap.Logger
}

// New builds a Dispatcher.
//
// Precondition: every pointer in deps and logger must be non-nil.
// Postcondition: Returns a Dispatcher with the full handler table registered.
func New(deps Deps, logger *zap.Logger, opts ...Option) *Dispatcher {
	roller := dice.NewLoggedRoller(deps.Source, logger.Named("dice"))
	d := &Dispatcher{
		tree:         deps.Tree,
		roster:       deps.Roster,
		lib:          deps.Library,
		sound:        deps.Audio,
		betting:      deps.Betting,
		gp:           deps.Gunpowder,
		src:          roller,
		roller:       roller,
		parser:       deps.Parser,
		commandsPath: deps.CommandsPath,
		bettingPath:  deps.BettingPath,
		now:          time.Now,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.handlers = map[string]handlerFunc{}
	d.registerMeta()
	d.registerAdmin()
	d.registerGame()
	d.registerTrident()
	d.registerFeatures()
	return d
}

// Tree returns the current command tree.
func (d *Dispatcher) Tree() *commandtree.Tree {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tree
}

// ReloadCommands replaces the tree with the one stored at the commands path.
//
// Postcondition: On error the current tree is kept.
func (d *Dispatcher) ReloadCommands(ctx context.Context) error {
	t, err := commandtree.FromFile(d.commandsPath)
	if err != nil {
		return fmt.Errorf("reloading commands: %w", err)
	}
	d.mu.Lock()
	d.tree = t
	d.mu.Unlock()
	d.logger.Info("commands reloaded", zap.Int("count", t.Len()))
	return nil
}

// SaveCommands writes the tree to path.
func (d *Dispatcher) SaveCommands(path string) error {
	if err := d.Tree().DumpFile(path); err != nil {
		return fmt.Errorf("saving commands: %w", err)
	}
	return nil
}

// Save persists the players and, when enabled, the wager game.
func (d *Dispatcher) Save(ctx context.Context) error {
	var errs []error
	if err := d.roster.Save(ctx); err != nil {
		errs = append(errs, err)
	}
	d.mu.Lock()
	auto := d.autosaveBets
	d.mu.Unlock()
	if auto {
		if err := d.betting.Save(d.bettingPath); err != nil {
			errs = append(errs, fmt.Errorf("saving wagers: %w", err))
		}
	}
	return errors.Join(errs...)
}

// HandleCommand dispatches one chat message from user.
//
// Postcondition: Returns true only when meta:stop ran.
func (d *Dispatcher) HandleCommand(ctx context.Context, out irc.Replier, user string, cmd chat.Command) bool {
	now := d.now()
	d.roster.Update(user, func(p *player.Player, _ *player.Scratch) {
		p.Touch(now.Unix())
	})

	prefix := chat.NormalizePrefix(cmd.Prefix)
	args := cmd.Text
	tree := d.Tree()
	node, ok := tree.Resolve(&args)
	if !ok || !chat.PrefixMatches(prefix, node.Prefix) {
		d.logger.Debug("command handled",
			zap.String("user", user),
			zap.String("command", cmd.Text),
			zap.String("result", ResultFallthrough),
		)
		d.chatter(out, user, cmd.Text, now)
		return false
	}

	d.roster.Update(user, func(p *player.Player, _ *player.Scratch) {
		p.SentCommands++
	})
	log := d.logger.With(zap.String("user", user), zap.String("command", cmd.Text))

	if !allowed(tree, node, user) {
		log.Info("command handled", zap.String("result", ResultDenied))
		out.Say(DeniedText)
		return false
	}

	var tag string
	switch node.Value.Kind {
	case commandtree.KindStringResponse:
		log.Info("command handled", zap.String("result", ResultReply))
		out.Say(node.Value.Text)
		if node.Sound != "" && d.sound.TryPlay(node.Sound, now) {
			log.Debug("sound played", zap.String("sound", node.Sound))
		}
		return false
	case commandtree.KindGeneric:
		tag = node.Value.Text
		if tag == InternalMappingTag {
			tag = args
		}
	default:
		log.Warn("resolution returned an alias", zap.Stringer("value", node.Value))
		return false
	}

	r := &request{ctx: ctx, out: out, user: user, name: firstToken(cmd.Text), args: args, now: now}
	if !d.deathGate(r, tag) {
		log.Info("command handled", zap.String("result", ResultDead), zap.String("tag", tag))
		return false
	}

	h, ok := d.handlers[tag]
	if !ok {
		log.Warn("no handler for tag", zap.String("tag", tag))
		log.Info("command handled", zap.String("result", ResultUnknownTag), zap.String("tag", tag))
		return false
	}
	log.Debug("dispatching", zap.String("tag", tag), zap.String("args", args))
	stop := h(r)
	log.Info("command handled", zap.String("result", ResultDispatched), zap.String("tag", tag))
	return stop
}

// allowed applies the permission rule: admin-only nodes need the superuser
// when super-only and an admin otherwise. The superuser passes every check,
// even when it is missing from the admin list of the commands file.
func allowed(tree *commandtree.Tree, node *commandtree.Node, user string) bool {
	if !node.AdminOnly || (tree.Superuser() != "" && user == tree.Superuser()) {
		return true
	}
	if node.SuperOnly {
		return false
	}
	return tree.IsAdmin(user)
}

// deathGate resurrects a player whose time has come or refuses the command.
//
// Postcondition: Returns false when the command must not run.
func (d *Dispatcher) deathGate(r *request, tag string) bool {
	var (
		dead    bool
		revived bool
		name    string
	)
	d.roster.Update(r.user, func(p *player.Player, _ *player.Scratch) {
		if !p.IsDead() {
			return
		}
		dead = true
		name = p.Name()
		if *p.Death+ReviveBase+int64(d.roller.Roll("revive", 0, ReviveJitter)) < r.unix() {
			p.Revive()
			revived = true
		}
	})
	switch {
	case !dead:
		return true
	case revived:
		r.out.Say(d.lib.Line(responses.Deaths, "RESURRECTION", responses.Vars{"ur": name}))
		return true
	case tag == "feature:trident":
		r.out.Say(d.lib.Line(responses.Deaths, "DEAD_TRIDENT_ATTEMPT", responses.Vars{"ur": name}))
	default:
		r.out.Say(d.lib.Line(responses.Deaths, "DEAD_COMMAND_ATTEMPT", responses.Vars{"ur": name, "m.com": r.name}))
	}
	return false
}

// chatBusy reports whether someone chatted within the last few seconds of now.
func (d *Dispatcher) chatBusy(now int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return now <= d.lastChat+chatBusyWindow
}

func firstToken(text string) string {
	name, _, _ := strings.Cut(text, " ")
	return name
}

// displayName returns user's display name, creating the record.
func (d *Dispatcher) displayName(user string) string {
	p := d.roster.Player(user)
	return p.Name()
}
