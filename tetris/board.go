package tetris

const (
	BoardWidth  = 10
	BoardHeight = 21 // row 0 is hidden, rows 1-20 are visible
)

// Cell is a board square. The zero value is empty, otherwise it holds the
// Kind of the locked block plus one.
type Cell uint8

const Empty Cell = 0

func cellOf(k Kind) Cell { return Cell(k) + 1 }

// Kind returns the kind locked in the cell, false when the cell is empty.
func (c Cell) Kind() (Kind, bool) {
	if c == Empty {
		return 0, false
	}
	return Kind(c - 1), true
}

// ParseCell reads a cell written by String.
func ParseCell(b byte) (Cell, bool) {
	if b == '.' {
		return Empty, true
	}
	k, ok := ParseKind(b)
	if !ok {
		return Empty, false
	}
	return cellOf(k), true
}

func (c Cell) String() string {
	if k, ok := c.Kind(); ok {
		return k.String()
	}
	return "."
}

// Collision is the outcome of testing a pose against the board.
type Collision int

const (
	CollisionNone Collision = iota
	CollisionSide
	CollisionBottom
	CollisionBlock
)

// Board is the playfield indexed [row][col], row 0 at the top.
type Board [BoardHeight][BoardWidth]Cell

// Test checks the pose of k at rotation r with its grid origin on (x, y).
//
//	.	0 1 2 3 4 5 6 7 8 9		.	0 1 2 3
//	0	. . . . . . . . . .		0	. . . .
//	1	. . . O O O . . . .		1	O O O .
//	2	. . . . . O . . . .		2	. . O .
//	3	. . . . . . . . . .		3	. . . .
//
// All cells are checked against the sides first and the bottom second, so
// the board is only ever read inside its bounds. Cells above row 0 are free.
func (b *Board) Test(k Kind, r Rotation, x, y int) Collision {
	grid := &shapes[k][r]
	for gy := range GridSize {
		for gx := range GridSize {
			if grid[gy][gx] && (x+gx < 0 || x+gx >= BoardWidth) {
				return CollisionSide
			}
		}
	}
	for gy := range GridSize {
		for gx := range GridSize {
			if grid[gy][gx] && y+gy >= BoardHeight {
				return CollisionBottom
			}
		}
	}
	for gy := range GridSize {
		for gx := range GridSize {
			if grid[gy][gx] && y+gy >= 0 && b[y+gy][x+gx] != Empty {
				return CollisionBlock
			}
		}
	}
	return CollisionNone
}

// Lock writes k into every cell covered by the pose. The pose must be free.
func (b *Board) Lock(k Kind, r Rotation, x, y int) {
	grid := &shapes[k][r]
	for gy := range GridSize {
		for gx := range GridSize {
			if grid[gy][gx] && y+gy >= 0 {
				b[y+gy][x+gx] = cellOf(k)
			}
		}
	}
}

// CompletedRows returns the full rows, top to bottom.
func (b *Board) CompletedRows() []int {
	var rows []int
	for y := range BoardHeight {
		full := true
		for x := range BoardWidth {
			if b[y][x] == Empty {
				full = false
				break
			}
		}
		if full {
			rows = append(rows, y)
		}
	}
	return rows
}

// RemoveRow drops every row above row by one and empties the top row.
func (b *Board) RemoveRow(row int) {
	for y := row; y > 0; y-- {
		b[y] = b[y-1]
	}
	b[0] = [BoardWidth]Cell{}
}

// Count returns the number of occupied cells.
func (b *Board) Count() int {
	n := 0
	for y := range BoardHeight {
		for x := range BoardWidth {
			if b[y][x] != Empty {
				n++
			}
		}
	}
	return n
}

func (b *Board) String() string {
	buf := make([]byte, 0, BoardHeight*(BoardWidth+1))
	for y := range BoardHeight {
		for x := range BoardWidth {
			buf = append(buf, b[y][x].String()[0])
		}
		buf = append(buf, '\n')
	}
	return string(buf)
}
