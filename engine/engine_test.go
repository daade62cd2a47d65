// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/danielhkuo/drawroom/shape"
)

const testRoom = "room-1"

// recordingSurface keeps the draw calls of the most recent frame
type recordingSurface struct {
	w, h   float64
	frames int
	ops    []string
}

func (s *recordingSurface) Size() (float64, float64) { return s.w, s.h }
func (s *recordingSurface) Clear(string) {
	s.frames++
	s.ops = s.ops[:0]
}
func (s *recordingSurface) SetTransform(float64, float64, float64) {}
func (s *recordingSurface) ResetTransform()                       {}
func (s *recordingSurface) StrokeRect(_, _, _, _ float64, _ string, _ float64) {
	s.ops = append(s.ops, "rect")
}
func (s *recordingSurface) StrokeCircle(_, _, _ float64, _ string, _ float64) {
	s.ops = append(s.ops, "circle")
}
func (s *recordingSurface) StrokeLine(_, _, _, _ float64, _ string, _ float64) {
	s.ops = append(s.ops, "line")
}
func (s *recordingSurface) StrokePolygon([]shape.Point, string, float64) {
	s.ops = append(s.ops, "polygon")
}
func (s *recordingSurface) StrokePolyline([]shape.Point, string, float64) {
	s.ops = append(s.ops, "polyline")
}
func (s *recordingSurface) FillText(_, _ float64, text, _, _ string) {
	s.ops = append(s.ops, "text:"+text)
}
func (s *recordingSurface) FillDot(_, _, _ float64, _ string) {
	s.ops = append(s.ops, "dot")
}

func (s *recordingSurface) count(op string) int {
	n := 0
	for _, o := range s.ops {
		if o == op {
			n++
		}
	}
	return n
}

type sent struct {
	roomID, message string
}

type fakeTransport struct {
	sent []sent
	err  error
}

func (f *fakeTransport) Send(roomID, message string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sent{roomID, message})
	return nil
}

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *recordingSurface, *fakeTransport) {
	t.Helper()
	surface := &recordingSurface{w: 800, h: 600}
	transport := &fakeTransport{}
	n := 0
	base := []Option{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("shape-%d", n)
		}),
	}
	e := New(testRoom, surface, transport, append(base, opts...)...)
	t.Cleanup(e.Destroy)
	return e, surface, transport
}

func drag(e *Engine, x1, y1, x2, y2 float64) {
	e.Handle(PointerDown{X: x1, Y: y1})
	e.Handle(PointerMove{X: (x1 + x2) / 2, Y: (y1 + y2) / 2})
	e.Handle(PointerMove{X: x2, Y: y2})
	e.Handle(PointerUp{X: x2, Y: y2})
}

func typeText(e *Engine, text string) {
	for _, r := range text {
		e.Handle(Key{Key: string(r)})
	}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestGestureGeometry(t *testing.T) {
	tests := []struct {
		name string
		tool Tool
		want shape.Shape
	}{
		{
			name: "circle centered between anchor and release",
			tool: ToolCircle,
			want: shape.Circle{ID: "shape-1", CenterX: 30, CenterY: 20, Radius: math.Hypot(40, 20) / 2, Color: "#000000", StrokeWidth: 2},
		},
		{
			name: "rect keeps signed extent",
			tool: ToolRect,
			want: shape.Rect{ID: "shape-1", X: 10, Y: 10, Width: 40, Height: 20, Color: "#000000", StrokeWidth: 2},
		},
		{
			name: "line",
			tool: ToolLine,
			want: shape.Line{ID: "shape-1", StartX: 10, StartY: 10, EndX: 50, EndY: 30, Color: "#000000", StrokeWidth: 2},
		},
		{
			name: "triangle mirrors release about anchor x",
			tool: ToolTriangle,
			want: shape.Triangle{ID: "shape-1", X1: 10, Y1: 10, X2: 50, Y2: 30, X3: -30, Y3: 30, Color: "#000000", StrokeWidth: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _, _ := newTestEngine(t)
			e.SetTool(tt.tool)
			drag(e, 10, 10, 50, 30)

			got := e.Shapes()
			if len(got) != 1 {
				t.Fatalf("Shapes() len = %d, want 1", len(got))
			}
			if !reflect.DeepEqual(got[0], tt.want) {
				t.Errorf("shape = %#v, want %#v", got[0], tt.want)
			}
			if e.Mode() != ModeIdle {
				t.Errorf("Mode() = %v, want idle", e.Mode())
			}
		})
	}
}

func TestCircleRadius(t *testing.T) {
	e, _, _ := newTestEngine(t)
	e.SetTool(ToolCircle)
	drag(e, 10, 10, 50, 30)

	c, ok := e.Shapes()[0].(shape.Circle)
	if !ok {
		t.Fatalf("shape = %T, want shape.Circle", e.Shapes()[0])
	}
	if math.Abs(c.Radius-22.36) > 0.01 {
		t.Errorf("Radius = %v, want ~22.36", c.Radius)
	}
}

func TestFreehandStrokes(t *testing.T) {
	t.Run("pencil collects every point", func(t *testing.T) {
		e, _, _ := newTestEngine(t)
		e.Handle(PointerDown{X: 0, Y: 0})
		e.Handle(PointerMove{X: 5, Y: 5})
		e.Handle(PointerMove{X: 10, Y: 0})
		e.Handle(PointerUp{X: 10, Y: 0})

		p, ok := e.Shapes()[0].(shape.Pencil)
		if !ok {
			t.Fatalf("shape = %T, want shape.Pencil", e.Shapes()[0])
		}
		want := []shape.Point{{X: 0, Y: 0}, {X: 5, Y: 5}, {X: 10, Y: 0}}
		if !reflect.DeepEqual(p.Points, want) {
			t.Errorf("Points = %v, want %v", p.Points, want)
		}
		if p.Color != "#000000" || p.StrokeWidth != 2 {
			t.Errorf("style = %s/%v, want #000000/2", p.Color, p.StrokeWidth)
		}
	})

	t.Run("eraser paints background", func(t *testing.T) {
		e, _, _ := newTestEngine(t)
		e.SetTool(ToolEraser)
		drag(e, 0, 0, 30, 30)

		p, ok := e.Shapes()[0].(shape.Pencil)
		if !ok {
			t.Fatalf("shape = %T, want shape.Pencil", e.Shapes()[0])
		}
		if p.Color != "#ffffff" || p.StrokeWidth != 20 {
			t.Errorf("style = %s/%v, want #ffffff/20", p.Color, p.StrokeWidth)
		}
	})
}

func TestDegenerateGesturesAreDiscarded(t *testing.T) {
	tests := []struct {
		name   string
		tool   Tool
		x2, y2 float64
	}{
		{"rect", ToolRect, 10.5, 10.2},
		{"circle", ToolCircle, 10.5, 10.5},
		{"line", ToolLine, 10, 10.9},
		{"triangle", ToolTriangle, 10.2, 10.2},
		{"pencil click", ToolPencil, 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _, transport := newTestEngine(t)
			e.SetTool(tt.tool)
			e.Handle(PointerDown{X: 10, Y: 10})
			e.Handle(PointerUp{X: tt.x2, Y: tt.y2})

			if n := len(e.Shapes()); n != 0 {
				t.Errorf("Shapes() len = %d, want 0", n)
			}
			if len(transport.sent) != 0 {
				t.Errorf("sent %d messages, want 0", len(transport.sent))
			}
			if e.History().Len() != 1 {
				t.Errorf("History().Len() = %d, want 1", e.History().Len())
			}
		})
	}
}

func TestCommitSendsEnvelope(t *testing.T) {
	e, _, transport := newTestEngine(t)
	e.SetTool(ToolRect)
	drag(e, 0, 0, 20, 20)

	if len(transport.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(transport.sent))
	}
	msg := transport.sent[0]
	if msg.roomID != testRoom {
		t.Errorf("roomID = %q, want %q", msg.roomID, testRoom)
	}
	decoded, err := shape.DecodeEnvelope(msg.message)
	if err != nil {
		t.Fatalf("DecodeEnvelope() error = %v", err)
	}
	if !reflect.DeepEqual(decoded, e.Shapes()[0]) {
		t.Errorf("sent %#v, local %#v", decoded, e.Shapes()[0])
	}
}

func TestTransportFailureKeepsLocalShape(t *testing.T) {
	e, _, transport := newTestEngine(t)
	transport.err = errors.New("socket closed")
	e.SetTool(ToolLine)
	drag(e, 0, 0, 100, 0)

	if n := len(e.Shapes()); n != 1 {
		t.Errorf("Shapes() len = %d, want 1", n)
	}
}

func TestAppendOnlyAndUndoRedo(t *testing.T) {
	e, _, transport := newTestEngine(t)
	e.SetTool(ToolRect)

	prev := 0
	for i := range 3 {
		off := float64(i * 50)
		drag(e, off, off, off+30, off+30)
		n := len(e.Shapes())
		if n < prev {
			t.Fatalf("shape list shrank from %d to %d", prev, n)
		}
		prev = n
	}
	if prev != 3 {
		t.Fatalf("Shapes() len = %d, want 3", prev)
	}

	before := e.Shapes()
	if !e.Undo() {
		t.Fatal("Undo() = false, want true")
	}
	if n := len(e.Shapes()); n != 2 {
		t.Errorf("after undo len = %d, want 2", n)
	}
	if !e.Redo() {
		t.Fatal("Redo() = false, want true")
	}
	if !reflect.DeepEqual(e.Shapes(), before) {
		t.Errorf("after undo/redo = %v, want %v", e.Shapes(), before)
	}
	if e.Redo() {
		t.Error("Redo() at tip = true, want false")
	}
	if len(transport.sent) != 3 {
		t.Errorf("sent %d messages, want 3 (undo/redo are local)", len(transport.sent))
	}

	for e.Undo() {
	}
	if n := len(e.Shapes()); n != 0 {
		t.Errorf("after undoing everything len = %d, want 0", n)
	}
}

func TestUndoThenDrawDropsRedoBranch(t *testing.T) {
	e, _, _ := newTestEngine(t)
	e.SetTool(ToolLine)
	drag(e, 0, 0, 10, 0)
	drag(e, 0, 10, 10, 10)
	e.Undo()
	drag(e, 0, 20, 10, 20)

	if e.Redo() {
		t.Error("Redo() after new stroke = true, want false")
	}
	got := e.Shapes()
	if len(got) != 2 {
		t.Fatalf("Shapes() len = %d, want 2", len(got))
	}
	if l := got[1].(shape.Line); l.StartY != 20 {
		t.Errorf("second line StartY = %v, want 20", l.StartY)
	}
}

func TestHistoryLimit(t *testing.T) {
	e, _, _ := newTestEngine(t, WithHistoryLimit(3))
	e.SetTool(ToolLine)
	for i := range 5 {
		y := float64(i * 10)
		drag(e, 0, y, 50, y)
	}

	h := e.History()
	if h.Len() != 3 {
		t.Errorf("History().Len() = %d, want 3", h.Len())
	}
	if h.Cursor() != 2 {
		t.Errorf("History().Cursor() = %d, want 2", h.Cursor())
	}
	e.Undo()
	e.Undo()
	if e.Undo() {
		t.Error("third Undo() = true, want false")
	}
	if n := len(e.Shapes()); n != 3 {
		t.Errorf("Shapes() len = %d, want 3", n)
	}
}

func TestHistorySnapshotsAreIsolated(t *testing.T) {
	list := []shape.Shape{shape.Pencil{Points: []shape.Point{{X: 1, Y: 1}, {X: 2, Y: 2}}}}
	h := NewHistory(10, nil)
	h.Push(list)
	list[0].(shape.Pencil).Points[0].X = 99

	h.Push(nil)
	got, ok := h.Undo()
	if !ok {
		t.Fatal("Undo() = false, want true")
	}
	if x := got[0].(shape.Pencil).Points[0].X; x != 1 {
		t.Errorf("snapshot point X = %v, want 1", x)
	}
}

func TestViewportRoundTrip(t *testing.T) {
	for _, scale := range []float64{0.1, 0.37, 1, 2.5, 5} {
		for _, pan := range [][2]float64{{0, 0}, {120, -40}, {-333.3, 17.5}} {
			v := Viewport{Scale: scale, PanX: pan[0], PanY: pan[1]}
			for _, p := range [][2]float64{{0, 0}, {412.5, 99}, {-20, 1080}} {
				wx, wy := v.ScreenToWorld(p[0], p[1])
				sx, sy := v.WorldToScreen(wx, wy)
				if math.Abs(sx-p[0]) > 1e-9 || math.Abs(sy-p[1]) > 1e-9 {
					t.Errorf("scale=%v pan=%v: %v -> (%v, %v)", scale, pan, p, sx, sy)
				}
			}
		}
	}
}

func TestWheelZoomKeepsCursorFixed(t *testing.T) {
	tests := []struct {
		name      string
		deltaY    float64
		wantScale float64
	}{
		{"zoom in", -500, math.Exp(0.5)},
		{"zoom out", 500, math.Exp(-0.5)},
		{"clamped max", -1e6, MaxScale},
		{"clamped min", 1e6, MinScale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _, _ := newTestEngine(t)
			e.Handle(PointerDown{X: 0, Y: 0, Button: ButtonMiddle})
			e.Handle(PointerMove{X: 35, Y: -12})
			e.Handle(PointerUp{X: 35, Y: -12, Button: ButtonMiddle})

			const px, py = 200.0, 150.0
			bx, by := e.Viewport().ScreenToWorld(px, py)
			e.Handle(Wheel{X: px, Y: py, DeltaY: tt.deltaY})
			ax, ay := e.Viewport().ScreenToWorld(px, py)

			if !approx(e.Zoom(), tt.wantScale) {
				t.Errorf("Zoom() = %v, want %v", e.Zoom(), tt.wantScale)
			}
			if math.Abs(ax-bx) > 1e-9 || math.Abs(ay-by) > 1e-9 {
				t.Errorf("world under cursor moved from (%v, %v) to (%v, %v)", bx, by, ax, ay)
			}
		})
	}
}

func TestWheelScaleIsMultiplicative(t *testing.T) {
	const sens = 0.001
	for _, start := range []float64{0.25, 1, 3} {
		if got, want := WheelScale(start, 100, sens), start*math.Exp(-0.1); !approx(got, want) {
			t.Errorf("WheelScale(%v, 100) = %v, want %v", start, got, want)
		}
		if got := WheelScale(WheelScale(start, -300, sens), 300, sens); !approx(got, start) {
			t.Errorf("WheelScale round trip from %v = %v", start, got)
		}
	}

	// a linear step would cross zero here
	if got := WheelScale(0.2, 2000, sens); got != MinScale {
		t.Errorf("WheelScale(0.2, 2000) = %v, want %v", got, MinScale)
	}
}

func TestZoomButtons(t *testing.T) {
	e, _, _ := newTestEngine(t)

	e.ZoomIn()
	if !approx(e.Zoom(), 1.1) {
		t.Errorf("after ZoomIn Zoom() = %v, want 1.1", e.Zoom())
	}
	wx, wy := e.Viewport().ScreenToWorld(400, 300)
	if !approx(wx, 400) || !approx(wy, 300) {
		t.Errorf("center moved to (%v, %v), want (400, 300)", wx, wy)
	}

	for range 30 {
		e.ZoomOut()
	}
	if e.Zoom() != MinScale {
		t.Errorf("Zoom() = %v, want %v", e.Zoom(), MinScale)
	}
	e.SetZoom(50)
	if e.Zoom() != MaxScale {
		t.Errorf("Zoom() = %v, want %v", e.Zoom(), MaxScale)
	}
}

func TestPanning(t *testing.T) {
	t.Run("hand tool", func(t *testing.T) {
		e, _, _ := newTestEngine(t)
		e.SetTool(ToolHand)
		e.Handle(PointerDown{X: 100, Y: 100})
		if e.Mode() != ModePanning {
			t.Fatalf("Mode() = %v, want panning", e.Mode())
		}
		e.Handle(PointerMove{X: 130, Y: 90})
		e.Handle(PointerUp{X: 130, Y: 90})

		v := e.Viewport()
		if v.PanX != 30 || v.PanY != -10 {
			t.Errorf("pan = (%v, %v), want (30, -10)", v.PanX, v.PanY)
		}
		if len(e.Shapes()) != 0 {
			t.Error("panning committed a shape")
		}
	})

	t.Run("middle button with any tool is unaffected by zoom", func(t *testing.T) {
		e, _, _ := newTestEngine(t)
		e.SetTool(ToolRect)
		e.SetZoom(2)
		v0 := e.Viewport()

		e.Handle(PointerDown{X: 10, Y: 10, Button: ButtonMiddle})
		e.Handle(PointerMove{X: 30, Y: 50})
		e.Handle(PointerUp{X: 30, Y: 50, Button: ButtonMiddle})

		v := e.Viewport()
		if v.PanX-v0.PanX != 20 || v.PanY-v0.PanY != 40 {
			t.Errorf("pan delta = (%v, %v), want (20, 40)", v.PanX-v0.PanX, v.PanY-v0.PanY)
		}
		if len(e.Shapes()) != 0 {
			t.Error("middle-button pan committed a shape")
		}
	})

	t.Run("shapes are stored in world coordinates", func(t *testing.T) {
		e, _, _ := newTestEngine(t)
		e.SetTool(ToolHand)
		e.Handle(PointerDown{X: 0, Y: 0})
		e.Handle(PointerMove{X: 100, Y: 50})
		e.Handle(PointerUp{X: 100, Y: 50})
		e.SetTool(ToolLine)
		drag(e, 100, 50, 140, 50)

		l := e.Shapes()[0].(shape.Line)
		if l.StartX != 0 || l.StartY != 0 || l.EndX != 40 {
			t.Errorf("line = %+v, want start (0,0) end x 40", l)
		}
	})
}

func TestSecondaryButtonIsIgnored(t *testing.T) {
	e, _, _ := newTestEngine(t)
	e.SetTool(ToolRect)
	e.Handle(PointerDown{X: 0, Y: 0, Button: ButtonSecondary})
	if e.Mode() != ModeIdle {
		t.Errorf("Mode() = %v, want idle", e.Mode())
	}
}

func TestTextEditing(t *testing.T) {
	t.Run("enter commits buffer", func(t *testing.T) {
		e, surface, _ := newTestEngine(t)
		e.SetTool(ToolText)
		e.Handle(PointerDown{X: 5, Y: 6})
		if e.Mode() != ModeEditingText {
			t.Fatalf("Mode() = %v, want editing-text", e.Mode())
		}
		typeText(e, "hi!")
		e.Handle(Key{Key: KeyBackspace})
		if surface.count("text:hi|") != 1 {
			t.Errorf("preview ops = %v, want text:hi|", surface.ops)
		}
		e.Handle(Key{Key: KeyEnter})

		want := shape.Text{ID: "shape-1", X: 5, Y: 6, Text: "hi", Color: "#000000", Font: "20px sans-serif"}
		got := e.Shapes()
		if len(got) != 1 || !reflect.DeepEqual(got[0], want) {
			t.Errorf("Shapes() = %#v, want [%#v]", got, want)
		}
		if e.Mode() != ModeIdle {
			t.Errorf("Mode() = %v, want idle", e.Mode())
		}
	})

	t.Run("escape discards", func(t *testing.T) {
		e, _, transport := newTestEngine(t)
		e.SetTool(ToolText)
		e.Handle(PointerDown{X: 5, Y: 6})
		typeText(e, "draft")
		e.Handle(Key{Key: KeyEscape})

		if len(e.Shapes()) != 0 || len(transport.sent) != 0 {
			t.Errorf("escape committed text: %v", e.Shapes())
		}
		if e.Mode() != ModeIdle {
			t.Errorf("Mode() = %v, want idle", e.Mode())
		}
	})

	t.Run("empty buffer is not committed", func(t *testing.T) {
		e, _, _ := newTestEngine(t)
		e.SetTool(ToolText)
		e.Handle(PointerDown{X: 5, Y: 6})
		e.Handle(Key{Key: KeyBackspace})
		e.Handle(Key{Key: KeyEnter})
		if len(e.Shapes()) != 0 {
			t.Errorf("Shapes() = %v, want empty", e.Shapes())
		}
	})

	t.Run("shortcuts type while editing", func(t *testing.T) {
		e, _, _ := newTestEngine(t)
		e.SetTool(ToolText)
		e.Handle(PointerDown{X: 0, Y: 0})
		typeText(e, "rect")
		e.Handle(Key{Key: "z", Ctrl: true})
		e.Handle(Key{Key: "Shift"})
		e.Handle(Key{Key: KeyEnter})

		if e.Tool() != ToolText {
			t.Errorf("Tool() = %v, want text", e.Tool())
		}
		if got := e.Shapes()[0].(shape.Text).Text; got != "rect" {
			t.Errorf("Text = %q, want %q", got, "rect")
		}
	})

	t.Run("pointer down elsewhere commits and starts over", func(t *testing.T) {
		e, _, _ := newTestEngine(t)
		e.SetTool(ToolText)
		e.Handle(PointerDown{X: 0, Y: 0})
		typeText(e, "one")
		e.Handle(PointerDown{X: 100, Y: 100})

		if n := len(e.Shapes()); n != 1 {
			t.Fatalf("Shapes() len = %d, want 1", n)
		}
		if e.Mode() != ModeEditingText {
			t.Errorf("Mode() = %v, want editing-text", e.Mode())
		}
	})
}

func TestToolSwitchCancelsGesture(t *testing.T) {
	t.Run("drag is discarded", func(t *testing.T) {
		e, surface, transport := newTestEngine(t)
		e.SetTool(ToolRect)
		e.Handle(PointerDown{X: 0, Y: 0})
		e.Handle(PointerMove{X: 40, Y: 40})
		if surface.count("rect") != 1 {
			t.Fatalf("preview ops = %v, want one rect", surface.ops)
		}
		if len(e.Shapes()) != 0 {
			t.Fatal("preview mutated the shape list")
		}

		e.SetTool(ToolCircle)
		if e.Mode() != ModeIdle {
			t.Errorf("Mode() = %v, want idle", e.Mode())
		}
		if surface.count("rect") != 0 {
			t.Errorf("stale preview still drawn: %v", surface.ops)
		}
		e.Handle(PointerUp{X: 40, Y: 40})
		if len(e.Shapes()) != 0 || len(transport.sent) != 0 {
			t.Errorf("cancelled drag committed %v", e.Shapes())
		}
	})

	t.Run("pending text is committed", func(t *testing.T) {
		e, _, transport := newTestEngine(t)
		e.SetTool(ToolText)
		e.Handle(PointerDown{X: 0, Y: 0})
		typeText(e, "note")
		e.SetTool(ToolPencil)

		if len(e.Shapes()) != 1 || len(transport.sent) != 1 {
			t.Fatalf("Shapes() = %v, want the note", e.Shapes())
		}
		e.Handle(Key{Key: "a"})
		if e.Shapes()[0].(shape.Text).Text != "note" {
			t.Error("key after tool switch reached the committed text")
		}
	})
}

func TestShortcuts(t *testing.T) {
	e, _, _ := newTestEngine(t)
	for key, want := range map[string]Tool{
		"p": ToolPencil, "r": ToolRect, "c": ToolCircle, "t": ToolTriangle,
		"l": ToolLine, "e": ToolEraser, "x": ToolText, "h": ToolHand, "R": ToolRect,
	} {
		e.Handle(Key{Key: key})
		if e.Tool() != want {
			t.Errorf("key %q: Tool() = %v, want %v", key, e.Tool(), want)
		}
	}

	e.SetTool(ToolLine)
	drag(e, 0, 0, 10, 0)
	drag(e, 0, 5, 10, 5)

	e.Handle(Key{Key: "z", Ctrl: true})
	if n := len(e.Shapes()); n != 1 {
		t.Errorf("ctrl+z: len = %d, want 1", n)
	}
	e.Handle(Key{Key: "Z", Meta: true, Shift: true})
	if n := len(e.Shapes()); n != 2 {
		t.Errorf("meta+shift+z: len = %d, want 2", n)
	}
	e.Handle(Key{Key: "z", Ctrl: true})
	e.Handle(Key{Key: "y", Ctrl: true})
	if n := len(e.Shapes()); n != 2 {
		t.Errorf("ctrl+y: len = %d, want 2", n)
	}
	e.Handle(Key{Key: "r", Ctrl: true})
	if e.Tool() != ToolLine {
		t.Errorf("ctrl+r switched tool to %v", e.Tool())
	}
}

func TestIngest(t *testing.T) {
	envelope := func(t *testing.T, s shape.Shape) string {
		t.Helper()
		msg, err := shape.EncodeEnvelope(s)
		if err != nil {
			t.Fatalf("EncodeEnvelope() error = %v", err)
		}
		return msg
	}

	t.Run("own echo is ignored", func(t *testing.T) {
		e, _, transport := newTestEngine(t)
		e.SetTool(ToolRect)
		drag(e, 0, 0, 20, 20)

		if e.Ingest(testRoom, transport.sent[0].message) {
			t.Error("Ingest(echo) = true, want false")
		}
		if n := len(e.Shapes()); n != 1 {
			t.Errorf("Shapes() len = %d, want 1", n)
		}
	})

	t.Run("remote shape appended once", func(t *testing.T) {
		e, surface, _ := newTestEngine(t)
		msg := envelope(t, shape.Circle{ID: "remote-1", CenterX: 5, CenterY: 5, Radius: 3, Color: "#ff0000", StrokeWidth: 1})
		frames := surface.frames

		if !e.Ingest(testRoom, msg) {
			t.Fatal("Ingest() = false, want true")
		}
		if e.Ingest(testRoom, msg) {
			t.Error("second Ingest() = true, want false")
		}
		if n := len(e.Shapes()); n != 1 {
			t.Errorf("Shapes() len = %d, want 1", n)
		}
		if surface.frames != frames+1 {
			t.Errorf("frames = %d, want %d", surface.frames, frames+1)
		}
		if surface.count("circle") != 1 {
			t.Errorf("ops = %v, want circle drawn", surface.ops)
		}
	})

	t.Run("id-less shapes are always appended", func(t *testing.T) {
		e, _, _ := newTestEngine(t)
		msg := envelope(t, shape.Line{EndX: 10, Color: "#000000", StrokeWidth: 1})
		e.Ingest(testRoom, msg)
		e.Ingest(testRoom, msg)
		if n := len(e.Shapes()); n != 2 {
			t.Errorf("Shapes() len = %d, want 2", n)
		}
	})

	t.Run("other rooms and garbage are dropped", func(t *testing.T) {
		e, _, _ := newTestEngine(t)
		good := envelope(t, shape.Line{ID: "x", EndX: 10, Color: "#000000", StrokeWidth: 1})
		for _, tc := range []struct{ room, msg string }{
			{"other-room", good},
			{testRoom, "not json"},
			{testRoom, `{"shape":{"type":"hexagon"}}`},
			{testRoom, `{"text":"hello"}`},
		} {
			if e.Ingest(tc.room, tc.msg) {
				t.Errorf("Ingest(%q, %q) = true, want false", tc.room, tc.msg)
			}
		}
		if len(e.Shapes()) != 0 {
			t.Errorf("Shapes() = %v, want empty", e.Shapes())
		}
	})

	t.Run("remote shapes do not push history", func(t *testing.T) {
		e, _, _ := newTestEngine(t)
		e.Ingest(testRoom, envelope(t, shape.Line{ID: "r1", EndX: 10, Color: "#000000", StrokeWidth: 1}))
		if e.History().Len() != 1 {
			t.Errorf("History().Len() = %d, want 1", e.History().Len())
		}
	})

	t.Run("undo then redo loses a later remote shape for good", func(t *testing.T) {
		e, _, _ := newTestEngine(t)
		e.SetTool(ToolRect)
		drag(e, 0, 0, 20, 20)
		msg := envelope(t, shape.Line{ID: "r1", EndX: 10, Color: "#000000", StrokeWidth: 1})
		if !e.Ingest(testRoom, msg) {
			t.Fatal("Ingest() = false, want true")
		}

		if !e.Undo() || !e.Redo() {
			t.Fatal("Undo()/Redo() = false, want true")
		}
		got := e.Shapes()
		if len(got) != 1 || got[0].ShapeID() != "shape-1" {
			t.Fatalf("after undo/redo = %v, want only the local rect", got)
		}
		if e.Ingest(testRoom, msg) {
			t.Error("re-delivered Ingest() = true, want false (id already applied)")
		}
		if n := len(e.Shapes()); n != 1 {
			t.Errorf("Shapes() len = %d, want 1", n)
		}
	})

	t.Run("remote shape during a drag keeps the preview", func(t *testing.T) {
		e, surface, _ := newTestEngine(t)
		e.SetTool(ToolRect)
		e.Handle(PointerDown{X: 0, Y: 0})
		e.Handle(PointerMove{X: 30, Y: 30})
		e.Ingest(testRoom, envelope(t, shape.Line{ID: "r1", EndX: 10, Color: "#000000", StrokeWidth: 1}))

		if surface.count("line") != 1 || surface.count("rect") != 1 {
			t.Errorf("ops = %v, want line and rect preview", surface.ops)
		}
		e.Handle(PointerUp{X: 30, Y: 30})
		if n := len(e.Shapes()); n != 2 {
			t.Errorf("Shapes() len = %d, want 2", n)
		}
	})
}

func TestLoad(t *testing.T) {
	e, _, _ := newTestEngine(t)
	e.SetTool(ToolLine)
	drag(e, 0, 0, 10, 0)

	hydrated := []shape.Shape{
		shape.Rect{ID: "a", Width: 10, Height: 10, Color: "#000000", StrokeWidth: 2},
		shape.Text{X: 1, Y: 1, Text: "old", Color: "#000000", Font: "20px sans-serif"},
	}
	e.Load(hydrated)

	if !reflect.DeepEqual(e.Shapes(), hydrated) {
		t.Errorf("Shapes() = %v, want %v", e.Shapes(), hydrated)
	}
	if e.Undo() {
		t.Error("Undo() after Load = true, want false")
	}
	msg, _ := shape.EncodeEnvelope(hydrated[0])
	if e.Ingest(testRoom, msg) {
		t.Error("Ingest of hydrated shape = true, want false")
	}
}

func TestReplayEquivalence(t *testing.T) {
	author, _, transport := newTestEngine(t)
	live, _, _ := newTestEngine(t)

	author.SetTool(ToolRect)
	drag(author, 0, 0, 40, 40)
	author.SetTool(ToolPencil)
	drag(author, 10, 10, 60, 80)
	author.SetTool(ToolText)
	author.Handle(PointerDown{X: 5, Y: 5})
	typeText(author, "hello")
	author.Handle(Key{Key: KeyEnter})
	author.SetTool(ToolEraser)
	drag(author, 0, 0, 15, 15)

	var log []shape.Shape
	for _, m := range transport.sent {
		live.Ingest(m.roomID, m.message)
		s, err := shape.DecodeEnvelope(m.message)
		if err != nil {
			t.Fatalf("DecodeEnvelope() error = %v", err)
		}
		log = append(log, s)
	}

	late, _, _ := newTestEngine(t)
	late.Load(log)

	if !reflect.DeepEqual(live.Shapes(), author.Shapes()) {
		t.Errorf("live = %v, author = %v", live.Shapes(), author.Shapes())
	}
	if !reflect.DeepEqual(late.Shapes(), live.Shapes()) {
		t.Errorf("late = %v, live = %v", late.Shapes(), live.Shapes())
	}
}

func TestRender(t *testing.T) {
	t.Run("shapes paint in list order", func(t *testing.T) {
		e, surface, _ := newTestEngine(t)
		e.SetShowGrid(false)
		e.SetTool(ToolRect)
		drag(e, 0, 0, 20, 20)
		e.SetTool(ToolCircle)
		drag(e, 0, 0, 20, 20)
		e.SetTool(ToolTriangle)
		drag(e, 0, 0, 20, 20)

		want := []string{"rect", "circle", "polygon"}
		if !reflect.DeepEqual(surface.ops, want) {
			t.Errorf("ops = %v, want %v", surface.ops, want)
		}
	})

	t.Run("grid density is constant across zoom", func(t *testing.T) {
		e, surface, _ := newTestEngine(t)
		e.Render()
		atOne := surface.count("dot")
		e.SetZoom(2.5)
		atZoom := surface.count("dot")

		if atOne == 0 {
			t.Fatal("no grid dots drawn")
		}
		// 800x600 at 20px spacing: 41 x 31 dots, give or take an edge row.
		if diff := atOne - atZoom; diff > 72 || diff < -72 {
			t.Errorf("dots at scale 1 = %d, at 2.5 = %d", atOne, atZoom)
		}

		e.SetShowGrid(false)
		if surface.count("dot") != 0 {
			t.Errorf("grid drawn while hidden: %d dots", surface.count("dot"))
		}
	})
}

func TestDestroy(t *testing.T) {
	e, surface, transport := newTestEngine(t)
	e.SetTool(ToolRect)
	e.Handle(PointerDown{X: 0, Y: 0})

	e.Destroy()
	e.Destroy()
	if !e.Destroyed() {
		t.Fatal("Destroyed() = false, want true")
	}
	frames := surface.frames

	e.Handle(PointerMove{X: 40, Y: 40})
	e.Handle(PointerUp{X: 40, Y: 40})
	e.Handle(Wheel{X: 0, Y: 0, DeltaY: -100})
	e.SetTool(ToolText)
	e.SetZoom(3)
	e.Render()
	msg, _ := shape.EncodeEnvelope(shape.Line{ID: "late", EndX: 5, Color: "#000000", StrokeWidth: 1})
	if e.Ingest(testRoom, msg) {
		t.Error("Ingest after Destroy = true, want false")
	}
	if e.Undo() || e.Redo() {
		t.Error("undo/redo after Destroy reported success")
	}

	if surface.frames != frames {
		t.Errorf("rendered %d frames after Destroy", surface.frames-frames)
	}
	if len(transport.sent) != 0 {
		t.Errorf("sent %d messages after Destroy", len(transport.sent))
	}
	if e.Mode() != ModeIdle {
		t.Errorf("Mode() = %v, want idle", e.Mode())
	}
}

func TestParseTool(t *testing.T) {
	for _, tool := range Tools {
		got, err := ParseTool(string(tool))
		if err != nil || got != tool {
			t.Errorf("ParseTool(%q) = %v, %v", tool, got, err)
		}
	}
	if _, err := ParseTool("lasso"); err == nil || !strings.Contains(err.Error(), "lasso") {
		t.Errorf("ParseTool(lasso) error = %v", err)
	}
}
