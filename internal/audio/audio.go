// Package audio is the sound collaborator used by commands that carry a
// sound file.
package audio

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Volume levels applied by the mute and unmute commands.
const (
	VolumeMuted   = 0.0
	VolumeDefault = 0.1
)

// SoundCooldown is the minimum time between two command sounds.
const SoundCooldown = 4 * time.Second

// ErrNoSound is returned by Play for an empty path.
var ErrNoSound = errors.New("no sound file")

// Player plays sound files.
//
// Implementations MUST be safe for concurrent use.
type Player interface {
	// Play queues the file at path.
	Play(path string) error
	// Stop drops everything queued or playing.
	Stop()
	// SetVolume sets the output volume in [0, 1].
	SetVolume(v float64)
}

// LogPlayer is a Player without an output device: it checks the file and
// records what would have played.
type LogPlayer struct {
	mu     sync.Mutex
	volume float64
	queued []string
	logger *zap.Logger
}

// NewLogPlayer returns a LogPlayer at VolumeDefault.
//
// Precondition: logger must be non-nil.
func NewLogPlayer(logger *zap.Logger) *LogPlayer {
	return &LogPlayer{volume: VolumeDefault, logger: logger}
}

// Play logs the file and queues it. Missing files are reported and skipped.
func (p *LogPlayer) Play(path string) error {
	if path == "" {
		return ErrNoSound
	}
	if _, err := os.Stat(path); err != nil {
		p.logger.Warn("sound file unavailable", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("opening sound %s: %w", path, err)
	}
	p.mu.Lock()
	p.queued = append(p.queued, path)
	vol := p.volume
	p.mu.Unlock()
	p.logger.Info("playing sound", zap.String("path", path), zap.Float64("volume", vol))
	return nil
}

// Stop clears the queue.
func (p *LogPlayer) Stop() {
	p.mu.Lock()
	n := len(p.queued)
	p.queued = nil
	p.mu.Unlock()
	p.logger.Info("sound stopped", zap.Int("dropped", n))
}

// SetVolume records the volume, clamped to [0, 1].
func (p *LogPlayer) SetVolume(v float64) {
	v = min(max(v, 0), 1)
	p.mu.Lock()
	p.volume = v
	p.mu.Unlock()
	p.logger.Info("volume set", zap.Float64("volume", v))
}

// Volume returns the current volume.
func (p *LogPlayer) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// Queued returns the files played since the last Stop.
func (p *LogPlayer) Queued() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.queued...)
}

// Gate lets a sound through at most once per cooldown.
type Gate struct {
	mu       sync.Mutex
	player   Player
	cooldown time.Duration
	last     time.Time
}

// NewGate wraps player with a cooldown.
func NewGate(player Player, cooldown time.Duration) *Gate {
	return &Gate{player: player, cooldown: cooldown}
}

// Player returns the wrapped player.
func (g *Gate) Player() Player { return g.player }

// TryPlay plays path when more than the cooldown has passed since the last
// sound let through at now.
//
// Postcondition: Returns true when the sound was handed to the player.
func (g *Gate) TryPlay(path string, now time.Time) bool {
	if path == "" {
		return false
	}
	g.mu.Lock()
	if !g.last.IsZero() && now.Sub(g.last) <= g.cooldown {
		g.mu.Unlock()
		return false
	}
	g.last = now
	g.mu.Unlock()
	return g.player.Play(path) == nil
}
