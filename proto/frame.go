package proto

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/xiphiasnonus/Tetris/tetris"
	"google.golang.org/protobuf/types/known/structpb"
)

var ErrMalformedFrame = errors.New("malformed frame")

// Frame is one published snapshot of a session.
type Frame struct {
	Session string
	Name    string
	State   *tetris.Tetris
}

// EncodeFrame flattens f into the Struct published on the feed. The board
// travels as one string per row, '.' for empty cells and the kind letter
// for locked ones.
func EncodeFrame(f Frame) (*structpb.Struct, error) {
	t := f.State
	if t == nil {
		return nil, fmt.Errorf("%w: no state", ErrMalformedFrame)
	}

	rows := strings.Split(strings.TrimSuffix(t.Board.String(), "\n"), "\n")
	board := make([]any, len(rows))
	for i, r := range rows {
		board[i] = r
	}
	var completed []any
	for y, c := range t.Completed {
		if c {
			completed = append(completed, y)
		}
	}
	stats := make([]any, len(t.Stats))
	for i, s := range t.Stats {
		stats[i] = s
	}

	return structpb.NewStruct(map[string]any{
		"session": f.Session,
		"name":    f.Name,
		"board":   board,
		"piece": map[string]any{
			"kind":     t.Piece.Kind.String(),
			"rotation": int(t.Piece.Rotation),
			"x":        t.Piece.X,
			"y":        t.Piece.Y,
		},
		"next":      t.Next.String(),
		"completed": completed,
		"score":     t.Score,
		"level":     t.Level,
		"lines":     t.Lines,
		"stats":     stats,
		"fade":      t.FadeTimer,
		"paused":    t.Options.Paused,
		"guide":     t.Options.Guide,
		"over":      t.GameOver,
	})
}

// DecodeFrame rebuilds the renderable part of a session from a Struct made
// by EncodeFrame. Timers other than the fade are not carried.
func DecodeFrame(s *structpb.Struct) (Frame, error) {
	r := &reader{fields: s.GetFields()}
	f := Frame{
		Session: r.str("session"),
		Name:    r.str("name"),
	}
	t := &tetris.Tetris{
		Score:     r.num("score"),
		Level:     r.num("level"),
		Lines:     r.num("lines"),
		FadeTimer: r.num("fade"),
		GameOver:  r.boolean("over"),
		Options: tetris.Options{
			Paused: r.boolean("paused"),
			Guide:  r.boolean("guide"),
		},
	}
	t.Next = r.kind(r.str("next"))

	rows := r.list("board")
	if r.err == nil && len(rows) != tetris.BoardHeight {
		r.fail("board has %d rows", len(rows))
	}
	for y, row := range rows {
		line := r.elemStr(row)
		if r.err == nil && len(line) != tetris.BoardWidth {
			r.fail("board row %d has %d cells", y, len(line))
		}
		if r.err != nil {
			break
		}
		for x := range tetris.BoardWidth {
			c, ok := tetris.ParseCell(line[x])
			if !ok {
				r.fail("bad cell %q", line[x])
				break
			}
			t.Board[y][x] = c
		}
	}

	for _, v := range r.list("completed") {
		y := r.elemNum(v)
		if y < 0 || y >= tetris.BoardHeight {
			r.fail("completed row %d", y)
			break
		}
		t.Completed[y] = true
	}

	stats := r.list("stats")
	if r.err == nil && len(stats) != tetris.KindCount {
		r.fail("%d stats", len(stats))
	}
	for i, v := range stats {
		if r.err != nil {
			break
		}
		t.Stats[i] = r.elemNum(v)
	}

	p := r.object("piece")
	t.Piece.Kind = p.kind(p.str("kind"))
	rot := p.num("rotation")
	if p.err == nil && (rot < 0 || rot >= tetris.RotationCount) {
		p.fail("rotation %d", rot)
	}
	t.Piece.Rotation = tetris.Rotation(rot)
	t.Piece.X = p.num("x")
	t.Piece.Y = p.num("y")

	if err := errors.Join(r.err, p.err); err != nil {
		return Frame{}, err
	}
	f.State = t
	return f, nil
}

// reader keeps the first decoding error and turns every later read into a
// no-op.
type reader struct {
	fields map[string]*structpb.Value
	err    error
}

func (r *reader) fail(format string, args ...any) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: %s", ErrMalformedFrame, fmt.Sprintf(format, args...))
	}
}

func (r *reader) value(key string) *structpb.Value {
	if r.err != nil {
		return nil
	}
	v, ok := r.fields[key]
	if !ok {
		r.fail("missing %q", key)
		return nil
	}
	return v
}

func (r *reader) str(key string) string { return r.elemStr(r.value(key)) }
func (r *reader) num(key string) int    { return r.elemNum(r.value(key)) }

func (r *reader) boolean(key string) bool {
	v := r.value(key)
	if v == nil {
		return false
	}
	b, ok := v.GetKind().(*structpb.Value_BoolValue)
	if !ok {
		r.fail("%q is not a bool", key)
		return false
	}
	return b.BoolValue
}

func (r *reader) list(key string) []*structpb.Value {
	v := r.value(key)
	if v == nil {
		return nil
	}
	switch l := v.GetKind().(type) {
	case *structpb.Value_ListValue:
		return l.ListValue.GetValues()
	case *structpb.Value_NullValue:
		// empty lists are sent as null by some encoders.
		return nil
	}
	r.fail("%q is not a list", key)
	return nil
}

func (r *reader) object(key string) *reader {
	v := r.value(key)
	if v == nil {
		return &reader{err: r.err}
	}
	s, ok := v.GetKind().(*structpb.Value_StructValue)
	if !ok {
		r.fail("%q is not an object", key)
		return &reader{err: r.err}
	}
	return &reader{fields: s.StructValue.GetFields()}
}

func (r *reader) elemStr(v *structpb.Value) string {
	if r.err != nil || v == nil {
		return ""
	}
	s, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		r.fail("%v is not a string", v)
		return ""
	}
	return s.StringValue
}

func (r *reader) elemNum(v *structpb.Value) int {
	if r.err != nil || v == nil {
		return 0
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok || n.NumberValue != math.Trunc(n.NumberValue) {
		r.fail("%v is not an integer", v)
		return 0
	}
	return int(n.NumberValue)
}

func (r *reader) kind(s string) tetris.Kind {
	if r.err != nil {
		return 0
	}
	if len(s) != 1 {
		r.fail("bad kind %q", s)
		return 0
	}
	k, ok := tetris.ParseKind(s[0])
	if !ok {
		r.fail("bad kind %q", s)
	}
	return k
}
