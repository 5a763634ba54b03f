package client

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xiphiasnonus/Tetris/tetris"
)

func newTestRender(t *testing.T, ms int64) (*render, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	r := &render{
		writer:       &buf,
		logger:       discard(),
		rng:          rand.New(rand.NewSource(1)), //nolint:gosec
		now:          func() time.Time { return time.UnixMilli(ms) },
		templateData: &templateData{Name: "tester"},
	}
	tmp, err := r.loadTemplate()
	require.NoError(t, err)
	r.template = tmp
	return r, &buf
}

func cell(t *testing.T, b byte) tetris.Cell {
	t.Helper()
	c, ok := tetris.ParseCell(b)
	require.True(t, ok)
	return c
}

// The J below spawns on rows 1-2 with its guide starting right under it.
//
//	.	0 1 2 3 4 5 6 7 8 9
//	1	. . . J J J . . . .
//	2	. . . : : J . . . .
//	3	. . . : : : . . . .
//	..
//	20	Z . . : : : . . . .
func TestBoard(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*tetris.Tetris)
		check func(*testing.T, [visibleRows][tetris.BoardWidth]string)
	}{
		{
			name: "piece, locked cells and guide",
			check: func(t *testing.T, b [visibleRows][tetris.BoardWidth]string) {
				for _, x := range []int{3, 4, 5} {
					assert.Equal(t, block(tetris.J), b[0][x])
				}
				assert.Equal(t, block(tetris.J), b[1][5])
				assert.Equal(t, guideCell, b[1][3])
				assert.Equal(t, guideCell, b[1][4])
				assert.Equal(t, guideCell, b[2][5])
				assert.Equal(t, guideCell, b[19][3])
				assert.Equal(t, block(tetris.Z), b[19][0])
				assert.Equal(t, emptyCell, b[5][0])
				assert.Equal(t, emptyCell, b[0][6])
			},
		},
		{
			name:  "guide off",
			setup: func(s *tetris.Tetris) { s.Options.Guide = false },
			check: func(t *testing.T, b [visibleRows][tetris.BoardWidth]string) {
				assert.Equal(t, emptyCell, b[1][3])
				assert.Equal(t, emptyCell, b[19][3])
			},
		},
		{
			name:  "locked cells cover the guide",
			setup: func(s *tetris.Tetris) { s.Board[20][3] = cell(t, 'O') },
			check: func(t *testing.T, b [visibleRows][tetris.BoardWidth]string) {
				assert.Equal(t, block(tetris.O), b[19][3])
				assert.Equal(t, guideCell, b[18][3])
			},
		},
		{
			name:  "nothing in play once over",
			setup: func(s *tetris.Tetris) { s.GameOver = true },
			check: func(t *testing.T, b [visibleRows][tetris.BoardWidth]string) {
				assert.Equal(t, emptyCell, b[0][3])
				assert.Equal(t, emptyCell, b[1][3])
			},
		},
		{
			name: "completed rows flicker while fading",
			setup: func(s *tetris.Tetris) {
				for x := range tetris.BoardWidth {
					s.Board[19][x] = cell(t, 'Z')
				}
				s.Completed[19] = true
				s.FadeTimer = 15
			},
			check: func(t *testing.T, b [visibleRows][tetris.BoardWidth]string) {
				for x := range tetris.BoardWidth {
					assert.True(t, strings.HasPrefix(b[18][x], "\x1b[7m"), "cell %d is %q", x, b[18][x])
				}
			},
		},
		{
			name: "completed rows without fade keep their color",
			setup: func(s *tetris.Tetris) {
				for x := range tetris.BoardWidth {
					s.Board[19][x] = cell(t, 'Z')
				}
				s.Completed[19] = true
			},
			check: func(t *testing.T, b [visibleRows][tetris.BoardWidth]string) {
				for x := range tetris.BoardWidth {
					assert.Equal(t, block(tetris.Z), b[18][x])
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestRender(t, 0)
			s := tetris.NewTestTetris(tetris.J)
			s.Board[20][0] = cell(t, 'Z')
			if tt.setup != nil {
				tt.setup(s)
			}
			tt.check(t, r.board(&templateData{State: s}))
		})
	}
}

func TestPanels(t *testing.T) {
	s := tetris.NewTestTetris(tetris.J)
	s.Next = tetris.I
	s.Level = 3
	s.Score = 1250
	s.Lines = 34
	s.Stats[tetris.T] = 998
	d := &templateData{State: s}

	l := left(d)
	assert.Contains(t, l[0], "NEXT")
	assert.Equal(t, "  "+strings.Repeat(block(tetris.I), 4)+"  ", l[2])
	assert.Equal(t, strings.Repeat(" ", panelWidth), l[3])
	assert.Contains(t, l[6], "3")
	assert.Contains(t, l[9], "1250")

	r := right(d)
	assert.Contains(t, r[1], "34")
	assert.Contains(t, r[5+int(tetris.T)], block(tetris.T)+" 998")
	for i := range visibleRows {
		assert.Equal(t, panelWidth, visible(r[i]), "right row %d", i)
		assert.Equal(t, panelWidth, visible(l[i]), "left row %d", i)
	}
}

// visible counts the printed width of s, skipping escape sequences.
func visible(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\x1b' {
			for i < len(s) && s[i] != 'm' {
				i++
			}
			continue
		}
		n++
	}
	return n
}

func TestPauseBlink(t *testing.T) {
	tests := []struct {
		ms   int64
		want bool
	}{
		{ms: 0, want: true},
		{ms: 299, want: true},
		{ms: 300, want: false},
		{ms: 599, want: false},
		{ms: 600, want: true},
	}
	for _, tt := range tests {
		r, buf := newTestRender(t, tt.ms)
		s := tetris.NewTestTetris(tetris.J)
		s.Options.Paused = true
		r.local(s)
		assert.Equal(t, tt.want, strings.Contains(buf.String(), "PAUSED"), "at %dms", tt.ms)
	}
}

func TestScreens(t *testing.T) {
	r, buf := newTestRender(t, 0)
	r.lobby("")
	assert.Contains(t, buf.String(), "Welcome to Terminal Tetris")
	assert.Contains(t, buf.String(), "(p)lay   (q)uit")
	assert.Contains(t, buf.String(), "Terminal Tetris  -  tester")

	buf.Reset()
	s := tetris.NewTestTetris(tetris.J)
	s.GameOver = true
	r.local(s)
	assert.Contains(t, buf.String(), "Game Over :)")

	buf.Reset()
	r.watch("lucky-otter", tetris.NewTestTetris(tetris.L))
	assert.Contains(t, buf.String(), "watching lucky-otter")
	assert.NotContains(t, buf.String(), "Game Over")

	// every line ends with a carriage return for the raw console.
	assert.NotContains(t, strings.ReplaceAll(buf.String(), "\r\n", ""), "\n")
}
