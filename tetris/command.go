package tetris

// Key is a decoded key press.
type Key int

const (
	KeyNone Key = iota
	KeyRotate
	KeyDrop
	KeyLeft
	KeyRight
	KeyPause
	KeyGuide
	KeySound
	KeyQuit
	KeyLinesUp   // debug
	KeyLinesDown // debug
)

var keyNames = map[Key]string{
	KeyNone:      "none",
	KeyRotate:    "rotate",
	KeyDrop:      "drop",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyPause:     "pause",
	KeyGuide:     "guide",
	KeySound:     "sound",
	KeyQuit:      "quit",
	KeyLinesUp:   "lines+",
	KeyLinesDown: "lines-",
}

func (k Key) String() string {
	if n, ok := keyNames[k]; ok {
		return n
	}
	return "unknown"
}

// Command applies a key press. Toggles always apply, everything else is
// ignored while paused. Every movement key advances the generator once,
// whether the move succeeds or not.
func (t *Tetris) Command(k Key) {
	if t.GameOver {
		return
	}
	switch k {
	case KeyPause:
		t.Options.Paused = !t.Options.Paused
	case KeyGuide:
		t.Options.Guide = !t.Options.Guide
	case KeySound:
		t.Options.Sound = !t.Options.Sound
	}

	if t.Options.Paused {
		return
	}

	switch k {
	case KeyRotate, KeyDrop, KeyLeft, KeyRight:
		t.rnd.Next()
	}

	// between a lock and the next spawn there is no piece to move, but a
	// hard drop still scores.
	if t.spawnPending && k != KeyDrop {
		return
	}

	switch k {
	case KeyRotate:
		t.rotate()
	case KeyDrop:
		if !t.spawnPending {
			t.drop()
		}
		t.Score += DropScore
		t.CycleTimer = 0
		t.play(SoundDrop)
	case KeyLeft:
		if t.move(-1, 0) {
			t.play(SoundMove)
		}
	case KeyRight:
		if t.move(1, 0) {
			t.play(SoundMove)
		}
	case KeyLinesUp:
		t.Lines += LinesPerLevel
	case KeyLinesDown:
		t.Lines = max(t.Lines-LinesPerLevel, 0)
	}
}
