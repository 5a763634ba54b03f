package tetris

const (
	spawnX = 3
	// O's grid starts one row higher than the others.
	spawnYO = 1
)

// Piece is the player-controlled tetromino. X and Y place the origin of its
// grid on the board.
type Piece struct {
	Kind     Kind
	Rotation Rotation
	X, Y     int
}

// Grid returns the occupancy of the piece's current pose.
func (p Piece) Grid() Grid { return Shape(p.Kind, p.Rotation) }

// Guide returns the drop guide depths of the piece's current pose.
func (p Piece) Guide() [GridSize]int { return Guide(p.Kind, p.Rotation) }

func (t *Tetris) test(x, y int) Collision {
	return t.Board.Test(t.Piece.Kind, t.Piece.Rotation, x, y)
}

// spawn replaces the active piece with the queued kind and draws the next one.
// A spawn pose that collides ends the session.
func (t *Tetris) spawn() {
	t.Piece = Piece{Kind: t.Next, X: spawnX}
	if t.Piece.Kind == O {
		t.Piece.Y = spawnYO
	}
	t.Next = t.rnd.NextKind()
	if t.test(t.Piece.X, t.Piece.Y) != CollisionNone {
		t.GameOver = true
	}
}

// move translates the piece when the new pose is free.
func (t *Tetris) move(dx, dy int) bool {
	if t.test(t.Piece.X+dx, t.Piece.Y+dy) != CollisionNone {
		return false
	}
	t.Piece.X += dx
	t.Piece.Y += dy
	return true
}

// rotate turns the piece clockwise, or leaves it as it was on collision.
func (t *Tetris) rotate() {
	prev := t.Piece.Rotation
	t.Piece.Rotation = prev.Next()
	if t.test(t.Piece.X, t.Piece.Y) != CollisionNone {
		t.Piece.Rotation = prev
		return
	}
	t.play(SoundRotate)
}

// drop moves the piece down until it rests on something.
func (t *Tetris) drop() {
	for t.move(0, 1) {
	}
}

// lock copies the piece into the board and queues the next spawn.
func (t *Tetris) lock() {
	t.Board.Lock(t.Piece.Kind, t.Piece.Rotation, t.Piece.X, t.Piece.Y)
	t.Stats[t.Piece.Kind] = (t.Stats[t.Piece.Kind] + 1) % maxStat
	t.CycleTimer = 0
	t.spawnPending = true
}

// HasPiece reports whether a piece is in play. There is none between a lock
// and the next spawn, nor once the session is over.
func (t *Tetris) HasPiece() bool { return !t.spawnPending && !t.GameOver }
