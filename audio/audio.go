// Package audio plays short tones for game events.
package audio

import (
	"fmt"
	"log/slog"
	"time"

	"central-snake/game"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Cue is a tone played for one kind of event.
type Cue struct {
	Freq     float64
	Duration time.Duration
}

// Cue set, one per event kind.
var (
	CueEat      = Cue{Freq: 880, Duration: 50 * time.Millisecond}
	CueBoost    = Cue{Freq: 1320, Duration: 70 * time.Millisecond}
	CuePowerUp  = Cue{Freq: 660, Duration: 90 * time.Millisecond}
	CueGameOver = Cue{Freq: 220, Duration: 300 * time.Millisecond}
)

// CuesFor lists the cues a step result should trigger, most important first.
func CuesFor(res game.StepResult) []Cue {
	if res.Over() {
		return []Cue{CueGameOver}
	}
	var cues []Cue
	if res.Ate {
		cues = append(cues, CueEat)
	}
	if res.Boosted {
		cues = append(cues, CueBoost)
	}
	if len(res.PoweredUp) > 0 {
		cues = append(cues, CuePowerUp)
	}
	return cues
}

// Player sends cues to the speaker. A nil or disabled Player is silent.
type Player struct {
	enabled bool
	logger  *slog.Logger
}

// NewPlayer opens the speaker. The error is returned alongside a silent
// player so callers can keep running without sound.
func NewPlayer(logger *slog.Logger) (*Player, error) {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Player{logger: logger}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return p, fmt.Errorf("failed to init speaker: %w", err)
	}
	p.enabled = true
	return p, nil
}

// Silent returns a player that never makes a sound.
func Silent() *Player {
	return &Player{logger: slog.Default()}
}

func (p *Player) Enabled() bool {
	return p != nil && p.enabled
}

// Play mixes one tone into the speaker without blocking.
func (p *Player) Play(c Cue) {
	if !p.Enabled() {
		return
	}
	sine, err := generators.SineTone(sampleRate, c.Freq)
	if err != nil {
		p.logger.Debug("could not build tone", "freq", c.Freq, "error", err)
		return
	}
	speaker.Play(beep.Take(sampleRate.N(c.Duration), sine))
}

// PlayResult plays every cue a step result triggers.
func (p *Player) PlayResult(res game.StepResult) {
	for _, c := range CuesFor(res) {
		p.Play(c)
	}
}

func (p *Player) Close() {
	if p.Enabled() {
		speaker.Close()
		p.enabled = false
	}
}
