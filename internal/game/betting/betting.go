// Package betting runs the stream wager game: viewers bet that an attempt
// works or fails, and the streamer settles every open wager at once.
package betting

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Wager rules.
const (
	StartingCash = 1000
	MinimumWager = 5
)

// Validation failures. Each is returned wrapped in a *WagerError whose text
// is sent back to chat.
var (
	ErrInvalidWager      = errors.New("invalid wager")
	ErrWagerTooSmall     = fmt.Errorf("%w: too small", ErrInvalidWager)
	ErrInsufficientFunds = fmt.Errorf("%w: insufficient funds", ErrInvalidWager)
	ErrAlreadyWagered    = fmt.Errorf("%w: already wagered", ErrInvalidWager)
	ErrNotAnInteger      = fmt.Errorf("%w: not an integer", ErrInvalidWager)
)

// WagerError carries the chat reply for a rejected wager.
type WagerError struct {
	Err  error
	Text string
}

func (e *WagerError) Error() string { return e.Text }
func (e *WagerError) Unwrap() error { return e.Err }

// Gambler is one player's standing in the game.
type Gambler struct {
	Name   string `json:"name"`
	Cash   int64  `json:"cash"`
	Wins   int64  `json:"wins"`
	Losses int64  `json:"losses"`
}

// NewGambler returns a gambler holding the starting cash.
func NewGambler(name string) *Gambler {
	return &Gambler{Name: name, Cash: StartingCash}
}

// Summary renders a gambler's points and win rate.
func (g *Gambler) Summary() string {
	switch {
	case g.Losses == 0 && g.Wins == 0:
		return fmt.Sprintf("Player %s has %d points and has never played </3", g.Name, g.Cash)
	case g.Losses == 0:
		return fmt.Sprintf("Player %s has %d points and a 100%% winrate!", g.Name, g.Cash)
	case g.Wins == 0:
		return fmt.Sprintf("Player %s has %d points and a 0%% winrate :(", g.Name, g.Cash)
	default:
		rate := float64(g.Wins) * 100 / float64(g.Wins+g.Losses)
		return fmt.Sprintf("Player %s has %d points and a %.2f%% winrate.", g.Name, g.Cash, rate)
	}
}

// Game holds every gambler and the open wagers. A positive wager bets that
// the attempt works; a negative one bets that it fails.
//
// Game is safe for concurrent use.
type Game struct {
	mu      sync.Mutex
	players map[string]*Gambler
	wagers  map[string]int64
}

// New returns a game over players, which may be nil.
func New(players map[string]*Gambler) *Game {
	if players == nil {
		players = map[string]*Gambler{}
	}
	return &Game{players: players, wagers: map[string]int64{}}
}

// Status summarizes name, or explains how to join.
func (g *Game) Status(name string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.players[name]
	if !ok {
		return fmt.Sprintf("The player '%s' does not exist; place a wager to join!", name)
	}
	return p.Summary()
}

// Gambler returns a copy of name's standing.
func (g *Game) Gambler(name string) (Gambler, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.players[name]
	if !ok {
		return Gambler{}, false
	}
	return *p, true
}

// Wager returns user's open wager, signed.
func (g *Game) Wager(user string) (int64, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	w, ok := g.wagers[user]
	return w, ok
}

// BetFor places a wager that the attempt works.
func (g *Game) BetFor(user, amount string) error {
	return g.bet(user, amount, 1)
}

// BetAgainst places a wager that the attempt fails.
func (g *Game) BetAgainst(user, amount string) error {
	return g.bet(user, amount, -1)
}

func (g *Game) bet(user, amount string, sign int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	w, err := g.validate(user, amount)
	if err != nil {
		return err
	}
	g.players[user].Cash -= w
	g.wagers[user] = sign * w
	return nil
}

// validate checks amount for user, joining user to the game when the amount
// is large enough to be considered.
//
// Precondition: g.mu is held.
func (g *Game) validate(user, amount string) (int64, error) {
	w, err := strconv.ParseInt(strings.TrimSpace(amount), 10, 64)
	if err != nil {
		return 0, &WagerError{Err: ErrNotAnInteger, Text: "Your wager needs to be a valid integer!"}
	}
	if w < MinimumWager {
		return 0, &WagerError{Err: ErrWagerTooSmall, Text: "Your wager is too small! (Wagers must be 5 or greater!)"}
	}
	p, ok := g.players[user]
	if !ok {
		p = NewGambler(user)
		g.players[user] = p
	}
	if p.Cash < w {
		return 0, &WagerError{
			Err:  ErrInsufficientFunds,
			Text: fmt.Sprintf("The player '%s' has insufficient funds to make that bet! (%d)", user, w),
		}
	}
	if prev, ok := g.wagers[user]; ok {
		return 0, &WagerError{
			Err:  ErrAlreadyWagered,
			Text: fmt.Sprintf("The player '%s' has already wagered %d!", user, prev),
		}
	}
	return w, nil
}

type tally struct {
	wins, losses int
	won, lost    int64
}

// settle pays every wager whose sign matches winner double its stake, counts
// the rest as losses, and clears the book.
//
// Precondition: g.mu is held.
func (g *Game) settle(winner int64) tally {
	var t tally
	for user, w := range g.wagers {
		stake := w
		if stake < 0 {
			stake = -stake
		}
		p := g.players[user]
		switch {
		case w*winner > 0:
			t.wins++
			t.won += 2 * stake
			if p != nil {
				p.Cash += 2 * stake
				p.Wins++
			}
		case w != 0:
			t.losses++
			t.lost += stake
			if p != nil {
				p.Losses++
			}
		}
	}
	clear(g.wagers)
	return t
}

// Worked settles the book for a successful attempt.
func (g *Game) Worked() string {
	g.mu.Lock()
	t := g.settle(1)
	g.mu.Unlock()
	switch {
	case t.wins+t.losses == 0:
		return "Nice work, but nobody was playing..."
	case t.wins == 0:
		return fmt.Sprintf("Ouch, %d player(s) lost %d points... Ye of little faith!", t.losses, t.lost)
	case t.losses == 0:
		return fmt.Sprintf("Wow! %d player(s) won %d points. Making it easy, eh?", t.wins, t.won)
	default:
		return fmt.Sprintf("%d player(s) won %d points, while %d player(s) lost %d points!", t.wins, t.won, t.losses, t.lost)
	}
}

// Failed settles the book for a failed attempt.
func (g *Game) Failed() string {
	g.mu.Lock()
	t := g.settle(-1)
	g.mu.Unlock()
	switch {
	case t.wins+t.losses == 0:
		return "You're only hurting yourself..."
	case t.wins == 0:
		return fmt.Sprintf("Ouch, %d player(s) lost %d points... you've been failed :(", t.losses, t.lost)
	case t.losses == 0:
		return fmt.Sprintf("%d player(s) won %d points. That's ... unfortunate.", t.wins, t.won)
	default:
		return fmt.Sprintf("%d player(s) won %d points, while %d player(s) lost %d points.", t.wins, t.won, t.losses, t.lost)
	}
}
