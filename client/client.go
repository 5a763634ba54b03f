package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/eiannone/keyboard"
	"github.com/xiphiasnonus/Tetris/proto"
	"github.com/xiphiasnonus/Tetris/tetris"
)

type clientState int

const (
	lobby clientState = iota
	playing
	watching
)

type state struct {
	current clientState
	mu      sync.Mutex
}

func (s *state) get() clientState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *state) set(c clientState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = c
}

type tetrisGame interface {
	Start()
	Stop()
	Action(tetris.Key)
	GetUpdate() <-chan *tetris.Tetris
	SetOptions(tetris.Options)
}

type renderer interface {
	lobby(msg string)
	local(*tetris.Tetris)
	watch(name string, t *tetris.Tetris)
	message(msg, help string)
	reset()
}

// remote is the hub side of a client, nil when playing offline.
type remote interface {
	Open(context.Context) error
	Publish(*tetris.Tetris)
	End()
	Watch(ctx context.Context, id string, fn func(proto.Frame)) error
}

type Client struct {
	tetris  tetrisGame
	render  renderer
	remote  remote
	options *Options
	logger  *slog.Logger
	kbCh    <-chan keyboard.KeyEvent
	state   *state
}

type Options struct {
	NoGuide bool
	Mute    bool
	Name    string
	// Address of the spectator hub, empty to play offline.
	Address string
	// Watch is a session id, or WatchAny, to spectate instead of playing.
	Watch string
}

// New opens the keyboard and, when an address is set, the hub connection.
// The returned close function releases both.
func New(l *slog.Logger, s tetris.Speaker, o *Options) (*Client, func(), error) {
	r, err := newRender(l, o.Name)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load renderer: %w", err)
	}

	game := tetris.NewGame(s)
	game.SetOptions(tetris.Options{Guide: !o.NoGuide, Sound: !o.Mute})

	c := &Client{
		tetris:  game,
		render:  r,
		options: o,
		logger:  l,
		state:   &state{current: lobby},
	}
	var rc *RemoteClient
	if o.Address != "" {
		rc, err = NewRemoteClient(o.Name, o.Address, l)
		if err != nil {
			return nil, nil, err
		}
		c.remote = rc
	}
	if o.Watch != "" && rc == nil {
		return nil, nil, errors.New("watching needs a hub address")
	}

	kb, err := keyboard.GetKeys(20)
	if err != nil {
		if rc != nil {
			rc.Close()
		}
		return nil, nil, fmt.Errorf("failed to open keyboard: %w", err)
	}
	c.kbCh = kb

	closer := func() {
		c.tetris.Stop()
		if rc != nil {
			rc.Close()
		}
		if err := keyboard.Close(); err != nil {
			l.Error("unable to close keyboard", slog.String("error", err.Error()))
		}
	}
	return c, closer, nil
}

// Start shows the lobby, or the watched session, and returns when the user
// quits.
func (c *Client) Start() {
	c.render.reset()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if c.options.Watch != "" {
		c.state.set(watching)
		go c.listenWatch(ctx)
	} else {
		c.render.lobby("")
	}
	var wg sync.WaitGroup
	wg.Add(1)
	go c.listenKB(&wg)
	wg.Wait()
}

var keyMap = map[keyboard.Key]tetris.Key{
	keyboard.KeySpace:      tetris.KeyRotate,
	keyboard.KeyArrowUp:    tetris.KeyRotate,
	keyboard.KeyArrowDown:  tetris.KeyDrop,
	keyboard.KeyArrowLeft:  tetris.KeyLeft,
	keyboard.KeyArrowRight: tetris.KeyRight,
}

var runeMap = map[rune]tetris.Key{
	'p': tetris.KeyPause,
	'g': tetris.KeyGuide,
	's': tetris.KeySound,
	'q': tetris.KeyQuit,
	'=': tetris.KeyLinesUp,
	'-': tetris.KeyLinesDown,
}

func keyOf(e keyboard.KeyEvent) tetris.Key {
	if e.Key != 0 {
		return keyMap[e.Key]
	}
	return runeMap[e.Rune]
}

func (c *Client) listenKB(wg *sync.WaitGroup) {
	defer wg.Done()
	for {
		event, ok := <-c.kbCh
		if !ok {
			c.logger.Error("Keyboard events channel closed unexpectedly")
			return
		}
		if event.Err != nil {
			c.logger.Error("keysEvents error", slog.String("error", event.Err.Error()))
			return
		}
		if event.Key == keyboard.KeyCtrlC {
			return
		}
		switch c.state.get() {
		case lobby:
			switch event.Rune {
			case 'p':
				c.state.set(playing)
				go c.listenTetris()
			case 'q':
				return
			default:
				continue
			}
		case playing:
			k := keyOf(event)
			switch k {
			case tetris.KeyNone:
				continue
			case tetris.KeyQuit:
				return
			}
			c.tetris.Action(k)
		case watching:
			if event.Rune == 'q' {
				return
			}
		}
	}
}

func (c *Client) listenTetris() {
	if c.remote != nil {
		if err := c.remote.Open(context.Background()); err != nil {
			c.logger.Error("playing without spectators", slog.String("error", err.Error()))
		}
	}
	c.render.reset()
	go c.tetris.Start()
	for u := range c.tetris.GetUpdate() {
		c.render.local(u)
		if c.remote != nil {
			c.remote.Publish(u)
		}
		if u.GameOver {
			if c.remote != nil {
				c.remote.End()
			}
			c.state.set(lobby)
			return
		}
	}
}

func (c *Client) listenWatch(ctx context.Context) {
	c.render.message("connecting to "+c.options.Address, "(q)uit")
	err := c.remote.Watch(ctx, c.options.Watch, func(f proto.Frame) {
		c.render.watch(f.Name, f.State)
	})
	switch {
	case errors.Is(err, ErrNoSessions):
		c.render.message("nobody is playing", "(q)uit")
	case err != nil:
		c.logger.Error("unable to watch", slog.String("error", err.Error()))
		c.render.message("something went wrong :(", "(q)uit")
	case ctx.Err() == nil:
		c.render.message("the session has ended", "(q)uit")
	}
}
