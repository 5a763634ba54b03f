package client

import (
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"strings"
	"sync"
	"text/template"
	"time"

	"github.com/xiphiasnonus/Tetris/tetris"
)

const (
	// ANSI 256 colors close to the CGA palette.
	BrightWhite = "38;5;15"
	Brown       = "38;5;130"
	Green       = "38;5;34"
	BrightRed   = "38;5;203"
	Magenta     = "38;5;127"
	Gray        = "38;5;248"
	Red         = "38;5;124"

	resetPos    = "\033[H" // Reset cursor position to 0,0
	clearScreen = "\033[2J"
	guideCell   = "\x1b[48;5;235m  \x1b[0m"
	emptyCell   = "  "

	visibleRows = tetris.BoardHeight - 1
	panelWidth  = 12
	blinkPeriod = 600 * time.Millisecond
	blinkOn     = 300 * time.Millisecond
)

//go:embed "layout.tmpl"
var layout string

var colorMap = [tetris.KindCount]string{
	tetris.O: BrightWhite,
	tetris.I: Brown,
	tetris.L: Green,
	tetris.J: BrightRed,
	tetris.S: Magenta,
	tetris.Z: Gray,
	tetris.T: Red,
}

func block(k tetris.Kind) string {
	return fmt.Sprintf("\x1b[7m\x1b[%sm[]\x1b[0m", colorMap[k])
}

type templateData struct {
	State    *tetris.Tetris
	Name     string
	Spectate bool
}

type render struct {
	writer   io.Writer
	logger   *slog.Logger
	template *template.Template
	// rng only picks flicker colors, the piece sequence never sees it.
	rng *rand.Rand
	now func() time.Time
	*templateData

	mu sync.Mutex
}

func newRender(l *slog.Logger, name string) (*render, error) {
	r := &render{
		writer:       os.Stdout,
		logger:       l,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec
		now:          time.Now,
		templateData: &templateData{Name: name},
	}
	tmp, err := r.loadTemplate()
	if err != nil {
		return nil, fmt.Errorf("failed to load template: %w", err)
	}
	r.template = tmp
	return r, nil
}

func (r *render) loadTemplate() (*template.Template, error) {
	funcMap := template.FuncMap{
		"board": r.board,
		"left":  left,
		"right": right,
		"title": title,
	}

	// the console is raw so new lines don't return the carriage on their own.
	l := strings.ReplaceAll(layout, "\n", "\r\n")
	return template.New("layout").Funcs(funcMap).Parse(l)
}

// lobby draws the menu over the last session, or over an empty board.
func (r *render) lobby(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.State == nil {
		// an empty board with nothing in play.
		r.State = &tetris.Tetris{Options: tetris.DefaultOptions(), GameOver: true}
	}
	r.draw()
	if msg == "" {
		msg = "Welcome to Terminal Tetris"
	}
	r.box(msg, "(p)lay   (q)uit")
}

func (r *render) local(t *tetris.Tetris) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.State = t
	r.draw()
	if t.GameOver {
		r.box("Game Over :)", "(p)lay   (q)uit")
	}
}

func (r *render) watch(name string, t *tetris.Tetris) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Name = name
	r.Spectate = true
	r.State = t
	r.draw()
	if t.GameOver {
		r.box(fmt.Sprintf("%s is out", name), "(q)uit")
	}
}

// message draws a box without touching the board.
func (r *render) message(msg, help string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.box(msg, help)
}

func (r *render) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprint(r.writer, clearScreen)
}

func (r *render) draw() {
	fmt.Fprint(r.writer, resetPos)
	if err := r.template.Execute(r.writer, r.templateData); err != nil {
		r.logger.Error("unable to execute template", slog.String("error", err.Error()))
		return
	}
	if r.State.Options.Paused && r.now().UnixMilli()%blinkPeriod.Milliseconds() < blinkOn.Milliseconds() {
		fmt.Fprint(r.writer, "\033[11;19H+--------------+")
		fmt.Fprint(r.writer, "\033[12;19H|    PAUSED    |")
		fmt.Fprint(r.writer, "\033[13;19H+--------------+")
	}
}

func (r *render) box(msg, help string) {
	fmt.Fprint(r.writer, "\033[10;5H+--------------------------------------+")
	fmt.Fprintf(r.writer, "\033[11;5H|%s|", center(msg, 38))
	fmt.Fprint(r.writer, "\033[12;5H|                                      |")
	fmt.Fprintf(r.writer, "\033[13;5H|%s|", center(help, 38))
	fmt.Fprint(r.writer, "\033[14;5H+--------------------------------------+")
}

func center(s string, width int) string {
	if len(s) > width {
		return s[:width]
	}
	pad := width - len(s)
	return strings.Repeat(" ", pad/2) + s + strings.Repeat(" ", pad-pad/2)
}

// board renders the visible rows: locked cells, the active piece, the drop
// guide under it and, while rows fade, a random color on every completed row.
func (r *render) board(d *templateData) [visibleRows][tetris.BoardWidth]string {
	var rendered [visibleRows][tetris.BoardWidth]string
	t := d.State
	if t == nil {
		for y := range rendered {
			for x := range rendered[y] {
				rendered[y][x] = emptyCell
			}
		}
		return rendered
	}

	var guide [tetris.BoardHeight][tetris.BoardWidth]bool
	if t.Options.Guide && t.HasPiece() {
		for gx, depth := range t.Piece.Guide() {
			x := t.Piece.X + gx
			if depth < 0 || x < 0 || x >= tetris.BoardWidth {
				continue
			}
			for y := max(t.Piece.Y+depth, 1); y < tetris.BoardHeight; y++ {
				guide[y][x] = true
			}
		}
	}

	for y := 1; y < tetris.BoardHeight; y++ {
		for x := range tetris.BoardWidth {
			out := emptyCell
			if guide[y][x] {
				out = guideCell
			}
			if k, ok := t.Board[y][x].Kind(); ok {
				out = block(k)
			}
			if t.FadeTimer > 0 && t.Completed[y] {
				out = block(tetris.Kind(r.rng.Intn(tetris.KindCount)))
			}
			rendered[y-1][x] = out
		}
	}

	if t.HasPiece() {
		for gy, row := range t.Piece.Grid() {
			for gx, set := range row {
				y, x := t.Piece.Y+gy, t.Piece.X+gx
				if set && y >= 1 && y < tetris.BoardHeight && x >= 0 && x < tetris.BoardWidth {
					rendered[y-1][x] = block(t.Piece.Kind)
				}
			}
		}
	}
	return rendered
}

func pad(s string, visible int) string {
	if visible >= panelWidth {
		return s
	}
	return s + strings.Repeat(" ", panelWidth-visible)
}

func text(s string) string { return pad(s, len(s)) }

// nextPiece renders the occupied rows of the queued shape, two rows high.
func nextPiece(k tetris.Kind) []string {
	var rows []string
	for _, row := range tetris.Shape(k, 0) {
		var b strings.Builder
		used := false
		for _, set := range row {
			if set {
				b.WriteString(block(k))
				used = true
			} else {
				b.WriteString(emptyCell)
			}
		}
		if used {
			rows = append(rows, pad("  "+b.String(), 2+2*tetris.GridSize))
		}
	}
	return rows
}

func left(d *templateData) [visibleRows]string {
	var p [visibleRows]string
	for i := range p {
		p[i] = text("")
	}
	t := d.State
	if t == nil {
		return p
	}
	p[0] = text(" NEXT")
	for i, row := range nextPiece(t.Next) {
		p[2+i] = row
	}
	p[5] = text(" LEVEL")
	p[6] = text(fmt.Sprintf(" %d", t.Level))
	p[8] = text(" SCORE")
	p[9] = text(fmt.Sprintf(" %d", t.Score))
	if t.Options.Guide {
		p[17] = text(" guide on")
	}
	if !t.Options.Sound {
		p[18] = text(" muted")
	}
	return p
}

func right(d *templateData) [visibleRows]string {
	var p [visibleRows]string
	for i := range p {
		p[i] = text("")
	}
	t := d.State
	if t == nil {
		return p
	}
	p[0] = text(" LINES")
	p[1] = text(fmt.Sprintf(" %d", t.Lines))
	p[3] = text(" STATS")
	for k := range tetris.Kind(tetris.KindCount) {
		count := fmt.Sprintf(" %3d", t.Stats[k])
		p[5+int(k)] = pad(" "+block(k)+count, 3+len(count))
	}
	return p
}

func title(d *templateData) string {
	if d.Spectate {
		return center("watching "+d.Name, 48)
	}
	return center("Terminal Tetris  -  "+d.Name, 48)
}
