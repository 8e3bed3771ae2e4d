package player

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Store persists the whole roster.
type Store interface {
	// LoadAll returns every stored player. An empty store is not an error.
	LoadAll(ctx context.Context) ([]Player, error)
	// SaveAll replaces the stored players with players.
	SaveAll(ctx context.Context, players []Player) error
}

// Roster owns every player record and the matching scratch state.
//
// Roster is safe for concurrent use. Callbacks run with the roster lock held
// and must not call back into the Roster.
type Roster struct {
	mu      sync.Mutex
	players map[string]*Player
	scratch map[string]*Scratch
	store   Store
	logger  *zap.Logger
}

// NewRoster creates an empty roster backed by store.
//
// Precondition: store and logger must be non-nil.
func NewRoster(store Store, logger *zap.Logger) *Roster {
	return &Roster{
		players: map[string]*Player{},
		scratch: map[string]*Scratch{},
		store:   store,
		logger:  logger,
	}
}

// Load replaces the in-memory players with the stored ones. Scratch state is
// kept.
func (r *Roster) Load(ctx context.Context) error {
	loaded, err := r.store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("loading players: %w", err)
	}
	players := make(map[string]*Player, len(loaded))
	for i := range loaded {
		p := loaded[i]
		players[p.Username] = &p
	}
	r.mu.Lock()
	r.players = players
	r.mu.Unlock()
	r.logger.Info("players loaded", zap.Int("count", len(players)))
	return nil
}

// Save writes a snapshot of every player to the store.
func (r *Roster) Save(ctx context.Context) error {
	snapshot := r.Snapshot()
	if err := r.store.SaveAll(ctx, snapshot); err != nil {
		return fmt.Errorf("saving players: %w", err)
	}
	r.logger.Debug("players saved", zap.Int("count", len(snapshot)))
	return nil
}

// Snapshot returns copies of every player ordered by username.
func (r *Roster) Snapshot() []Player {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Player, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

// Len returns the number of players.
func (r *Roster) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}

// player returns name's record, creating it.
//
// Precondition: r.mu is held.
func (r *Roster) player(name string) *Player {
	p, ok := r.players[name]
	if !ok {
		p = New(name)
		r.players[name] = p
	}
	return p
}

// scratchFor returns name's scratch state, creating it.
//
// Precondition: r.mu is held.
func (r *Roster) scratchFor(name string) *Scratch {
	s, ok := r.scratch[name]
	if !ok {
		s = NewScratch()
		r.scratch[name] = s
	}
	return s
}

// Update runs fn on name's record and scratch state, creating both.
func (r *Roster) Update(name string, fn func(p *Player, s *Scratch)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.player(name), r.scratchFor(name))
}

// Player returns a copy of name's record, creating it.
func (r *Roster) Player(name string) Player {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.player(name).Clone()
}

// Get returns a copy of an existing record.
func (r *Roster) Get(name string) (Player, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[name]
	if !ok {
		return Player{}, false
	}
	return p.Clone(), true
}

// PlayerOr returns name's record when it exists, otherwise fallback's,
// creating the latter.
func (r *Roster) PlayerOr(name, fallback string) Player {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.players[name]; ok {
		return p.Clone()
	}
	return r.player(fallback).Clone()
}

// Apply runs fn on an existing record and returns the updated copy.
//
// Postcondition: Returns ErrPlayerNotFound without calling fn when name is
// unknown.
func (r *Roster) Apply(name string, fn func(p *Player)) (Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[name]
	if !ok {
		return Player{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, name)
	}
	fn(p)
	return p.Clone(), nil
}

// Whois lists "display (username)" for every player whose username or nick
// equals query, case-insensitively, ordered by username.
func (r *Roster) Whois(query string) []string {
	query = strings.ToLower(query)
	r.mu.Lock()
	defer r.mu.Unlock()
	var users []string
	for user, p := range r.players {
		if user == query || (p.Nick != "" && strings.ToLower(p.Nick) == query) {
			users = append(users, user)
		}
	}
	sort.Strings(users)
	out := make([]string, len(users))
	for i, user := range users {
		out[i] = fmt.Sprintf("%s (%s)", r.players[user].Name(), user)
	}
	return out
}

// Leaderboard renders the top n players by metric as "name: value" pairs
// joined by ", ". Ties are broken by username.
func (r *Roster) Leaderboard(metric Metric, n int) string {
	r.mu.Lock()
	type entry struct {
		user, name string
		value      int64
	}
	entries := make([]entry, 0, len(r.players))
	for user, p := range r.players {
		entries = append(entries, entry{user: user, name: p.Name(), value: metric(p)})
	}
	r.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].value != entries[j].value {
			return entries[i].value > entries[j].value
		}
		return entries[i].user < entries[j].user
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = fmt.Sprintf("%s: %d", e.name, e.value)
	}
	return strings.Join(parts, ", ")
}
