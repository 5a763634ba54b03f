// Package tetris contains the simulation of the game: the board, the
// active piece, and the frame-paced clock that makes it fall.
package tetris

const (
	InitialLevel   = 0
	LinesPerLevel  = 10
	InitialCycle   = 60 // frames between falls at level 0
	CycleDecrement = 5  // cycle length lost per level, also its floor
	SlideTime      = 30 // frames granted to slide a grounded piece
	FadePerLine    = 15 // frames a completed row fades before removal
	LineScore      = 25
	DropScore      = 5

	maxStat = 999
)

// Options are the player toggles. They survive restarts.
type Options struct {
	Paused bool
	Guide  bool
	Sound  bool
}

func DefaultOptions() Options {
	return Options{Guide: true, Sound: true}
}

// Tetris is the state of one session. Every field is owned by the frame
// loop; renderers receive copies through Game.Read and Game.GetUpdate.
type Tetris struct {
	Board Board
	Piece Piece
	Next  Kind

	// Completed marks the rows waiting for removal while FadeTimer runs.
	Completed [BoardHeight]bool

	Score int
	Level int
	Lines int
	Stats [KindCount]int

	CycleLength int
	CycleTimer  int
	FadeTimer   int
	Slide       bool

	Options  Options
	GameOver bool

	spawnPending bool
	rnd          *Random
	speaker      Speaker
}

func newTetris(rnd *Random, s Speaker, o Options) *Tetris {
	if s == nil {
		s = muteSpeaker{}
	}
	t := &Tetris{
		Level:        InitialLevel,
		CycleLength:  InitialCycle,
		CycleTimer:   InitialCycle,
		Options:      o,
		spawnPending: true,
		rnd:          rnd,
		speaker:      s,
	}
	t.Next = rnd.NextKind()
	return t
}

func (t *Tetris) play(s Sound) {
	if t.Options.Sound {
		t.speaker.Play(s)
	}
}

// Step advances the simulation by one frame.
func (t *Tetris) Step() {
	if t.GameOver {
		return
	}
	if t.spawnPending {
		t.spawn()
		t.spawnPending = false
		if t.GameOver {
			return
		}
	}

	// nothing moves while completed rows fade.
	if t.FadeTimer > 0 {
		t.FadeTimer--
		return
	}
	t.clearLines()
	t.setLevel()

	if t.CycleTimer > 0 {
		t.CycleTimer--
		return
	}
	t.CycleTimer = t.CycleLength

	// a grounded piece on a fast cycle gets a last chance to slide.
	if t.test(t.Piece.X, t.Piece.Y+1) != CollisionNone && t.CycleTimer < SlideTime && !t.Slide {
		t.Slide = true
		t.CycleTimer = SlideTime
		return
	}
	t.Slide = false

	if !t.move(0, 1) {
		t.lock()
	}
	t.markCompleted()
}

// clearLines removes the rows marked by markCompleted, top to bottom.
func (t *Tetris) clearLines() {
	n := 0
	for y := range BoardHeight {
		if !t.Completed[y] {
			continue
		}
		n++
		t.Score += LineScore
		t.Lines++
		t.Board.RemoveRow(y)
		t.Completed[y] = false
	}
	switch {
	case n == 4:
		t.play(SoundTetris)
	case n > 0:
		t.play(SoundLine)
	}
}

// setLevel moves up at most one level per frame.
func (t *Tetris) setLevel() {
	if t.Lines/LinesPerLevel <= t.Level {
		return
	}
	t.Level++
	t.CycleLength = max(t.CycleLength-CycleDecrement, CycleDecrement)
	t.play(SoundLevelUp)
}

func (t *Tetris) markCompleted() {
	for _, y := range t.Board.CompletedRows() {
		t.Completed[y] = true
		t.FadeTimer += FadePerLine
	}
}
