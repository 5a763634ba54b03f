// Package audio plays the game's sound effects through the system speaker.
package audio

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/xiphiasnonus/Tetris/tetris"
)

const (
	sampleRate = beep.SampleRate(44100)
	bufferSize = 20 * time.Millisecond
)

type wave int

const (
	sine wave = iota
	square
)

type note struct {
	freq     float64
	duration time.Duration
	wave     wave
}

// effects for every tetris.Sound. A zero frequency is a rest.
var sounds = [tetris.SoundCount][]note{
	tetris.SoundMove:   {{freq: 220, duration: 15 * time.Millisecond, wave: square}},
	tetris.SoundRotate: {{freq: 330, duration: 20 * time.Millisecond, wave: square}, {freq: 440, duration: 20 * time.Millisecond, wave: square}},
	tetris.SoundDrop:   {{freq: 110, duration: 40 * time.Millisecond, wave: square}, {freq: 82, duration: 60 * time.Millisecond, wave: square}},
	tetris.SoundLine: {
		{freq: 523, duration: 60 * time.Millisecond},
		{freq: 659, duration: 60 * time.Millisecond},
		{freq: 784, duration: 90 * time.Millisecond},
	},
	tetris.SoundTetris: {
		{freq: 523, duration: 70 * time.Millisecond},
		{freq: 659, duration: 70 * time.Millisecond},
		{freq: 784, duration: 70 * time.Millisecond},
		{freq: 1047, duration: 70 * time.Millisecond},
		{duration: 30 * time.Millisecond},
		{freq: 1047, duration: 160 * time.Millisecond},
	},
	tetris.SoundLevelUp: {
		{freq: 392, duration: 80 * time.Millisecond, wave: square},
		{freq: 523, duration: 80 * time.Millisecond, wave: square},
		{freq: 659, duration: 80 * time.Millisecond, wave: square},
		{freq: 784, duration: 200 * time.Millisecond, wave: square},
	},
}

// Player implements tetris.Speaker. It plays a single channel: a new sound
// cuts the one still playing.
type Player struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	volume *effects.Volume
	ready  bool
	logger *slog.Logger
}

// New returns a silent player. Call Init to open the audio device.
func New(logger *slog.Logger, volume float64) *Player {
	mixer := &beep.Mixer{}
	return &Player{
		mixer:  mixer,
		volume: newVolume(mixer, volume),
		logger: logger,
	}
}

// Init opens the speaker. A player whose Init failed stays silent.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ready {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(bufferSize)); err != nil {
		return fmt.Errorf("unable to open speaker: %w", err)
	}
	speaker.Play(p.volume)
	p.ready = true
	return nil
}

func (p *Player) Play(s tetris.Sound) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.ready {
		return
	}
	st, err := Effect(s)
	if err != nil {
		p.logger.Error("unable to build sound", slog.String("sound", s.String()), slog.String("error", err.Error()))
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	p.mixer.Add(st)
	speaker.Unlock()
}

// Close stops playback and releases the speaker.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.ready {
		return
	}
	speaker.Clear()
	speaker.Close()
	p.ready = false
}

// Effect builds a finite streamer for s.
func Effect(s tetris.Sound) (beep.Streamer, error) {
	if s < 0 || s >= tetris.SoundCount {
		return nil, fmt.Errorf("unknown sound %d", s)
	}
	var seq []beep.Streamer
	for _, n := range sounds[s] {
		st, err := tone(n)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s, err)
		}
		seq = append(seq, st)
	}
	return newVolume(beep.Seq(seq...), 0.3), nil
}

func tone(n note) (beep.Streamer, error) {
	samples := sampleRate.N(n.duration)
	if n.freq == 0 {
		return generators.Silence(samples), nil
	}
	var (
		st  beep.Streamer
		err error
	)
	switch n.wave {
	case square:
		st, err = generators.SquareTone(sampleRate, n.freq)
	default:
		st, err = generators.SineTone(sampleRate, n.freq)
	}
	if err != nil {
		return nil, err
	}
	return beep.Take(samples, st), nil
}

// newVolume scales s linearly. Zero or less is silent.
func newVolume(s beep.Streamer, v float64) *effects.Volume {
	if v <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(v)}
}
