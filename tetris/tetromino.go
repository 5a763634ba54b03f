package tetris

// Kind is one of the seven tetromino shapes. The order matches the
// sequence generator's "Next() % KindCount" draw.
type Kind uint8

const (
	O Kind = iota
	I
	L
	J
	S
	Z
	T

	KindCount = 7
)

var kindNames = [KindCount]byte{'O', 'I', 'L', 'J', 'S', 'Z', 'T'}

func (k Kind) String() string {
	if k >= KindCount {
		return "?"
	}
	return string(kindNames[k])
}

// ParseKind returns the Kind named by its letter.
func ParseKind(b byte) (Kind, bool) {
	for i, n := range kindNames {
		if n == b {
			return Kind(i), true
		}
	}
	return 0, false
}

// Rotation is one of the four orientations of a Kind, clockwise from 0.
type Rotation uint8

const RotationCount = 4

// Next returns the following rotation clockwise.
func (r Rotation) Next() Rotation { return (r + 1) % RotationCount }

// GridSize is the side of the square occupancy grid of every shape.
const GridSize = 4

// Grid is the occupancy of a shape, indexed [row][col].
type Grid [GridSize][GridSize]bool

var (
	shapes [KindCount][RotationCount]Grid
	guides [KindCount][RotationCount][GridSize]int
)

// shapeData is written top to bottom, X is an occupied cell.
// O sits on rows 0-1 and spawns one row lower than the others,
// every other shape's rotation 0 sits on rows 1-2.
var shapeData = [KindCount][RotationCount][GridSize]string{
	O: {
		{".XX.", ".XX.", "....", "...."},
		{".XX.", ".XX.", "....", "...."},
		{".XX.", ".XX.", "....", "...."},
		{".XX.", ".XX.", "....", "...."},
	},
	I: {
		{"....", "XXXX", "....", "...."},
		{"..X.", "..X.", "..X.", "..X."},
		{"....", "XXXX", "....", "...."},
		{"..X.", "..X.", "..X.", "..X."},
	},
	L: {
		{"....", "XXX.", "X...", "...."},
		{"XX..", ".X..", ".X..", "...."},
		{"..X.", "XXX.", "....", "...."},
		{".X..", ".X..", ".XX.", "...."},
	},
	J: {
		{"....", "XXX.", "..X.", "...."},
		{".X..", ".X..", "XX..", "...."},
		{"X...", "XXX.", "....", "...."},
		{".XX.", ".X..", ".X..", "...."},
	},
	S: {
		{"....", ".XX.", "XX..", "...."},
		{"X...", "XX..", ".X..", "...."},
		{"....", ".XX.", "XX..", "...."},
		{"X...", "XX..", ".X..", "...."},
	},
	Z: {
		{"....", "XX..", ".XX.", "...."},
		{"..X.", ".XX.", ".X..", "...."},
		{"....", "XX..", ".XX.", "...."},
		{"..X.", ".XX.", ".X..", "...."},
	},
	T: {
		{"....", "XXX.", ".X..", "...."},
		{".X..", "XX..", ".X..", "...."},
		{".X..", "XXX.", "....", "...."},
		{".X..", ".XX.", ".X..", "...."},
	},
}

func init() {
	for k := range KindCount {
		for r := range RotationCount {
			for y, row := range shapeData[k][r] {
				for x := range GridSize {
					shapes[k][r][y][x] = row[x] == 'X'
				}
			}
			for x := range GridSize {
				guides[k][r][x] = -1
				for y := range GridSize {
					if shapes[k][r][y][x] {
						guides[k][r][x] = y + 1
					}
				}
			}
		}
	}
}

// Shape returns the occupancy grid of k at rotation r.
func Shape(k Kind, r Rotation) Grid {
	return shapes[k][r]
}

// Guide returns for every grid column the first empty row below the shape,
// or -1 when the column is not used by the shape. Added to the piece's Y it
// gives the board row where the drop guide starts.
func Guide(k Kind, r Rotation) [GridSize]int {
	return guides[k][r]
}
