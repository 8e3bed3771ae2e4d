// Package player holds the per-viewer records every chat game reads and
// writes, and the roster that owns them.
package player

import (
	"errors"
	"fmt"
)

// StartingFiles is the balance of a new player.
const StartingFiles = 1000

// Passive income: a message earns FilesPerInterval once per PayInterval seconds.
const (
	PayInterval      = 15 * 60
	FilesPerInterval = 25
)

// ErrPlayerNotFound is returned when an operation requires an existing player.
var ErrPlayerNotFound = errors.New("player not found")

// Player is one viewer's persisted record. Times are unix seconds.
type Player struct {
	Username    string `json:"username"`
	Nick        string `json:"nick,omitempty"`
	Files       int64  `json:"files"`
	LastMessage int64  `json:"last_message"`

	Death  *int64 `json:"death"`
	Deaths int64  `json:"deaths"`

	SentMessages int64 `json:"sent_messages"`
	SentCommands int64 `json:"sent_commands"`

	TridentAcc     int64 `json:"trident_acc"`
	MaxTrident     int64 `json:"max_trident"`
	TridentsRolled int64 `json:"tridents_rolled"`
	Rolled250s     int64 `json:"rolled_250s"`
	// LastTridents holds the times of the five most recent rolls, oldest first.
	LastTridents [5]int64 `json:"last_tridents"`

	EnchantsRolled int64 `json:"enchants_rolled"`

	GPRolled    int64 `json:"gp_rolled"`
	GPAcc       int64 `json:"gp_acc"`
	BestGP      int64 `json:"best_gp"`
	MaxGPRolled int64 `json:"max_gp_rolled"`
}

// New returns a fresh record for username.
func New(username string) *Player {
	return &Player{Username: username, Files: StartingFiles}
}

// Name is the nick when set, otherwise the username.
func (p Player) Name() string {
	if p.Nick != "" {
		return p.Nick
	}
	return p.Username
}

// AverageTrident is the mean roll, or 0 before the first roll.
func (p Player) AverageTrident() float64 {
	if p.TridentsRolled == 0 {
		return 0
	}
	return float64(p.TridentAcc) / float64(p.TridentsRolled)
}

// ChatMessages counts messages that were not commands.
func (p Player) ChatMessages() int64 {
	return max(p.SentMessages-p.SentCommands, 0)
}

// Touch records a received message at now and pays passive income.
//
// Postcondition: SentMessages is incremented; Files grows by
// FilesPerInterval when more than PayInterval seconds passed since the last
// payment.
func (p *Player) Touch(now int64) {
	p.SentMessages++
	if now > p.LastMessage+PayInterval {
		p.LastMessage = now
		p.Files += FilesPerInterval
	}
}

// IsDead reports whether the player is waiting to be resurrected.
func (p Player) IsDead() bool { return p.Death != nil }

// Kill marks the player dead at now and counts the death.
func (p *Player) Kill(now int64) {
	p.Deaths++
	p.Death = &now
}

// Revive clears the death marker without touching the death count.
func (p *Player) Revive() { p.Death = nil }

// RecordTrident rotates now into LastTridents.
func (p *Player) RecordTrident(now int64) {
	copy(p.LastTridents[:], p.LastTridents[1:])
	p.LastTridents[len(p.LastTridents)-1] = now
}

// Bursting reports whether the last five rolls all happened within window
// seconds.
func (p Player) Bursting(window int64) bool {
	last := p.LastTridents[len(p.LastTridents)-1]
	return last != 0 && last-p.LastTridents[0] < window
}

func plural(n int64, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// String renders the player summary shown by the playerdata command.
func (p Player) String() string {
	chat := p.ChatMessages()
	pct := 0.0
	if p.SentMessages > 0 {
		pct = 100 * float64(chat) / float64(p.SentMessages)
	}
	return fmt.Sprintf("%s (%s): %s, %s. %d messages sent, %d commands sent (%.0f%%). %.2f average trident rolled out of %s.",
		p.Name(), p.Username, plural(p.Files, "file"), plural(p.Deaths, "death"),
		chat, p.SentCommands, pct, p.AverageTrident(), plural(p.TridentsRolled, "roll"))
}

// Clone returns a deep copy.
func (p *Player) Clone() Player {
	c := *p
	if p.Death != nil {
		d := *p.Death
		c.Death = &d
	}
	return c
}
