package tetris

import (
	"sync"
	"time"
)

// FrameDuration paces the simulation at roughly 60 frames per second.
const FrameDuration = 16 * time.Millisecond

type Ticker interface {
	C() <-chan time.Time
	Reset(time.Duration)
	Stop()
}

type wrappedTicker struct {
	ticker *time.Ticker
}

func newWrappedTicker(d time.Duration) *wrappedTicker {
	return &wrappedTicker{ticker: time.NewTicker(d)}
}

func (t *wrappedTicker) C() <-chan time.Time   { return t.ticker.C }
func (t *wrappedTicker) Stop()                 { t.ticker.Stop() }
func (t *wrappedTicker) Reset(d time.Duration) { t.ticker.Reset(d) }

// Game runs sessions frame by frame. Key presses are queued with Action and
// applied at the top of the next frame, then the simulation steps once and a
// copy of the state is sent to GetUpdate.
type Game struct {
	updateCh chan *Tetris
	actionCh chan Key
	doneCh   chan bool

	tetris  *Tetris
	ticker  Ticker
	rnd     *Random
	speaker Speaker
	options Options
	mu      sync.RWMutex
}

// NewGame seeds the piece sequence from the wall clock. The seed is kept
// for the life of the process.
func NewGame(s Speaker) *Game {
	return NewConfigurableGame(newWrappedTicker(FrameDuration), NewRandom(time.Now().Unix()), s)
}

func NewConfigurableGame(ticker Ticker, rnd *Random, s Speaker) *Game {
	return &Game{
		updateCh: make(chan *Tetris),
		actionCh: make(chan Key, 64),
		doneCh:   make(chan bool, 1),
		ticker:   ticker,
		rnd:      rnd,
		speaker:  s,
		options:  DefaultOptions(),
	}
}

// SetOptions replaces the toggles used by the next session.
func (g *Game) SetOptions(o Options) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.options = o
}

// Start begins a new session and blocks until its first state is consumed.
func (g *Game) Start() {
	select {
	case <-g.doneCh:
	default:
	}
	// keys pressed after the last frame of the previous session are dropped.
keys:
	for {
		select {
		case <-g.actionCh:
		default:
			break keys
		}
	}
	g.mu.Lock()
	g.options.Paused = false
	g.tetris = newTetris(g.rnd, g.speaker, g.options)
	g.mu.Unlock()
	g.updateCh <- g.Read()
	go g.listen()
}

func (g *Game) Stop() {
	g.ticker.Stop()
	select {
	case g.doneCh <- true:
	default:
	}
}

// Action queues a key press for the next frame.
func (g *Game) Action(k Key) {
	g.actionCh <- k
}

func (g *Game) GetUpdate() <-chan *Tetris {
	return g.updateCh
}

// Read returns a copy of the current session that's safe to read concurrently.
func (g *Game) Read() *Tetris {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.tetris == nil {
		return nil
	}
	c := *g.tetris
	c.rnd = nil
	c.speaker = nil
	return &c
}

func (g *Game) listen() {
	g.ticker.Reset(FrameDuration)
	for {
		select {
		case <-g.ticker.C():
			g.frame()
			u := g.Read()
			select {
			case g.updateCh <- u:
			case <-g.doneCh:
				return
			}
			if u.GameOver {
				g.ticker.Stop()
				return
			}
		case <-g.doneCh:
			return
		}
	}
}

// frame applies the queued keys and steps the simulation unless paused.
func (g *Game) frame() {
	g.mu.Lock()
	defer g.mu.Unlock()
keys:
	for {
		select {
		case k := <-g.actionCh:
			g.tetris.Command(k)
		default:
			break keys
		}
	}
	if !g.tetris.Options.Paused {
		g.tetris.Step()
	}
	g.options = g.tetris.Options
}
