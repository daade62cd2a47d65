// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/danielhkuo/drawroom/shape"
)

// Settings is the drawing style and canvas configuration.
type Settings struct {
	Color           string
	StrokeWidth     float64
	EraserWidth     float64
	Background      string
	FontSize        float64
	FontFamily      string
	ShowGrid        bool
	GridSpacing     float64
	ZoomSensitivity float64
}

func DefaultSettings() Settings {
	return Settings{
		Color:           "#000000",
		StrokeWidth:     2,
		EraserWidth:     20,
		Background:      "#ffffff",
		FontSize:        20,
		FontFamily:      "sans-serif",
		ShowGrid:        true,
		GridSpacing:     20,
		ZoomSensitivity: 0.001,
	}
}

// Font is the CSS-style font string stored on text shapes
func (s Settings) Font() string {
	return fmt.Sprintf("%gpx %s", s.FontSize, s.FontFamily)
}

// Engine is one participant's drawing engine. It is not safe for
// concurrent use; callers deliver events and remote messages from a
// single goroutine.
type Engine struct {
	roomID    string
	surface   Surface
	transport Transport
	logger    *slog.Logger
	newID     func() string

	settings Settings
	tool     Tool
	view     Viewport
	gesture  gesture

	shapes  []shape.Shape
	applied map[string]struct{}
	history *History

	destroyed bool
}

type Option func(*Engine)

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

func WithSettings(s Settings) Option {
	return func(e *Engine) { e.settings = s }
}

func WithHistoryLimit(n int) Option {
	return func(e *Engine) { e.history = NewHistory(n, nil) }
}

// WithIDGenerator replaces uuid.NewString for shape ids
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) { e.newID = fn }
}

// New builds an engine for roomID with an empty drawing and paints it
// once.
func New(roomID string, surface Surface, transport Transport, opts ...Option) *Engine {
	e := &Engine{
		roomID:    roomID,
		surface:   surface,
		transport: transport,
		logger:    slog.Default(),
		newID:     uuid.NewString,
		settings:  DefaultSettings(),
		tool:      ToolPencil,
		view:      NewViewport(),
		gesture:   idle{},
		shapes:    []shape.Shape{},
		applied:   make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.history == nil {
		e.history = NewHistory(DefaultHistoryLimit, nil)
	}
	e.Render()
	return e
}

func (e *Engine) RoomID() string     { return e.roomID }
func (e *Engine) Tool() Tool         { return e.tool }
func (e *Engine) Mode() Mode         { return e.gesture.mode() }
func (e *Engine) Viewport() Viewport { return e.view }
func (e *Engine) Zoom() float64      { return e.view.Scale }
func (e *Engine) Settings() Settings { return e.settings }
func (e *Engine) Destroyed() bool    { return e.destroyed }
func (e *Engine) History() *History  { return e.history }

// Shapes returns a deep copy of the committed shape list
func (e *Engine) Shapes() []shape.Shape {
	return shape.CloneAll(e.shapes)
}

// Load replaces the drawing with a hydrated log and resets history.
func (e *Engine) Load(shapes []shape.Shape) {
	if e.destroyed {
		return
	}
	e.shapes = shape.CloneAll(shapes)
	e.applied = make(map[string]struct{}, len(shapes))
	for _, s := range shapes {
		if id := s.ShapeID(); id != "" {
			e.applied[id] = struct{}{}
		}
	}
	e.history.Reset(e.shapes)
	e.Render()
}

// SetTool switches tools. A drag in progress is discarded; pending text
// is committed when non-empty.
func (e *Engine) SetTool(t Tool) {
	if e.destroyed {
		return
	}
	e.finishGesture()
	e.tool = t
	e.Render()
}

func (e *Engine) SetColor(color string) {
	e.settings.Color = color
	e.Render()
}

func (e *Engine) SetStrokeWidth(w float64) {
	if w > 0 {
		e.settings.StrokeWidth = w
	}
}

func (e *Engine) SetEraserWidth(w float64) {
	if w > 0 {
		e.settings.EraserWidth = w
	}
}

func (e *Engine) SetShowGrid(show bool) {
	e.settings.ShowGrid = show
	e.Render()
}

// SetZoom zooms about the center of the surface
func (e *Engine) SetZoom(scale float64) {
	if e.destroyed {
		return
	}
	w, h := e.surface.Size()
	e.view.ZoomAt(w/2, h/2, scale)
	e.Render()
}

func (e *Engine) ZoomIn()  { e.SetZoom(e.view.Scale + 0.1) }
func (e *Engine) ZoomOut() { e.SetZoom(e.view.Scale - 0.1) }

// Undo restores the previous snapshot. Peers are not told.
func (e *Engine) Undo() bool {
	if e.destroyed {
		return false
	}
	list, ok := e.history.Undo()
	if !ok {
		return false
	}
	e.shapes = list
	e.Render()
	return true
}

// Redo re-applies the next snapshot. Peers are not told.
func (e *Engine) Redo() bool {
	if e.destroyed {
		return false
	}
	list, ok := e.history.Redo()
	if !ok {
		return false
	}
	e.shapes = list
	e.Render()
	return true
}

// Ingest applies a relay chat message for this engine's room. It reports
// whether a shape was appended. Messages for other rooms, malformed
// envelopes and echoes of already applied shapes are dropped.
func (e *Engine) Ingest(roomID, message string) bool {
	if e.destroyed || roomID != e.roomID {
		return false
	}
	s, err := shape.DecodeEnvelope(message)
	if err != nil {
		e.logger.Warn("dropping remote message", "room_id", roomID, "error", err)
		return false
	}
	if id := s.ShapeID(); id != "" {
		if _, seen := e.applied[id]; seen {
			return false
		}
		e.applied[id] = struct{}{}
	}
	e.shapes = append(e.shapes, s)
	e.Render()
	return true
}

// Destroy releases the surface and transport. It is safe to call more
// than once; afterwards every call is ignored.
func (e *Engine) Destroy() {
	if e.destroyed {
		return
	}
	e.destroyed = true
	e.gesture = idle{}
	e.surface = nil
	e.transport = nil
	e.logger.Debug("engine destroyed", "room_id", e.roomID, "shapes", len(e.shapes))
}

// Handle feeds one input event through the tool state machine.
func (e *Engine) Handle(ev Event) {
	if e.destroyed {
		return
	}
	switch ev := ev.(type) {
	case PointerDown:
		e.pointerDown(ev)
	case PointerMove:
		e.pointerMove(ev)
	case PointerUp:
		e.pointerUp(ev)
	case Wheel:
		e.view.ZoomAt(ev.X, ev.Y, WheelScale(e.view.Scale, ev.DeltaY, e.settings.ZoomSensitivity))
		e.Render()
	case Key:
		e.key(ev)
	}
}

func (e *Engine) world(x, y float64) shape.Point {
	wx, wy := e.view.ScreenToWorld(x, y)
	return shape.Point{X: wx, Y: wy}
}

func (e *Engine) pointerDown(ev PointerDown) {
	_, wasEditing := e.gesture.(*editingText)
	if wasEditing {
		e.finishGesture()
	}
	if _, ok := e.gesture.(idle); !ok {
		return
	}

	switch {
	case ev.Button == ButtonMiddle, ev.Button == ButtonPrimary && e.tool == ToolHand:
		e.gesture = &panning{lastX: ev.X, lastY: ev.Y}
	case ev.Button != ButtonPrimary:
	case e.tool == ToolText:
		e.gesture = &editingText{anchor: e.world(ev.X, ev.Y)}
	case e.tool.drags():
		p := e.world(ev.X, ev.Y)
		d := &dragging{tool: e.tool, anchor: p, current: p}
		if e.tool.freehand() {
			d.points = []shape.Point{p}
		}
		e.gesture = d
	}
	if wasEditing || e.gesture.mode() != ModeIdle {
		e.Render()
	}
}

func (e *Engine) pointerMove(ev PointerMove) {
	switch g := e.gesture.(type) {
	case *panning:
		e.view.PanBy(ev.X-g.lastX, ev.Y-g.lastY)
		g.lastX, g.lastY = ev.X, ev.Y
	case *dragging:
		g.current = e.world(ev.X, ev.Y)
		if g.tool.freehand() {
			g.points = append(g.points, g.current)
		}
	default:
		return
	}
	e.Render()
}

func (e *Engine) pointerUp(ev PointerUp) {
	switch g := e.gesture.(type) {
	case *panning:
		e.gesture = idle{}
	case *dragging:
		g.current = e.world(ev.X, ev.Y)
		e.gesture = idle{}
		e.commit(buildShape(g.tool, g.anchor, g.current, g.points, e.strokeFor(g.tool)))
	default:
		return
	}
	e.Render()
}

func (e *Engine) key(ev Key) {
	if g, ok := e.gesture.(*editingText); ok {
		e.editText(g, ev)
		return
	}

	name := strings.ToLower(ev.Key)
	if ev.command() {
		switch {
		case name == "z" && ev.Shift, name == "y":
			e.Redo()
		case name == "z":
			e.Undo()
		}
		return
	}
	if t, ok := shortcuts[name]; ok {
		e.SetTool(t)
	}
}

func (e *Engine) editText(g *editingText, ev Key) {
	switch ev.Key {
	case KeyEnter:
		e.finishGesture()
	case KeyEscape:
		e.gesture = idle{}
	case KeyBackspace:
		if n := len(g.buffer); n > 0 {
			g.buffer = g.buffer[:n-1]
		}
	default:
		if ev.command() || utf8.RuneCountInString(ev.Key) != 1 {
			return
		}
		r, _ := utf8.DecodeRuneInString(ev.Key)
		if !unicode.IsPrint(r) {
			return
		}
		g.buffer = append(g.buffer, r)
	}
	e.Render()
}

// finishGesture ends the gesture in flight. Text with content is
// committed, everything else is dropped.
func (e *Engine) finishGesture() {
	g := e.gesture
	e.gesture = idle{}
	if t, ok := g.(*editingText); ok && len(t.buffer) > 0 {
		e.commit(shape.Text{
			X:     t.anchor.X,
			Y:     t.anchor.Y,
			Text:  string(t.buffer),
			Color: e.settings.Color,
			Font:  e.settings.Font(),
		})
	}
}

func (e *Engine) strokeFor(t Tool) stroke {
	if t == ToolEraser {
		return stroke{color: e.settings.Background, width: e.settings.EraserWidth}
	}
	return stroke{color: e.settings.Color, width: e.settings.StrokeWidth}
}

// commit appends a locally drawn shape, records a snapshot and sends it.
// A nil shape is a degenerate gesture and is ignored.
func (e *Engine) commit(s shape.Shape) {
	if s == nil {
		return
	}
	id := e.newID()
	s = shape.WithID(s, id)
	e.applied[id] = struct{}{}
	e.shapes = append(e.shapes, s)
	e.history.Push(e.shapes)

	msg, err := shape.EncodeEnvelope(s)
	if err != nil {
		e.logger.Error("failed to encode shape", "shape_id", id, "error", err)
		return
	}
	if e.transport == nil {
		return
	}
	if err := e.transport.Send(e.roomID, msg); err != nil {
		e.logger.Debug("shape not sent", "shape_id", id, "error", err)
	}
}
