// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"math"

	"github.com/danielhkuo/drawroom/shape"
)

const (
	gridColor  = "#d0d0d0"
	gridDot    = 1.0
	caret      = "|"
	maxGridDim = 400
)

// Render repaints the whole surface: background, grid, every committed
// shape in list order, then the preview of the gesture in flight.
func (e *Engine) Render() {
	if e.destroyed || e.surface == nil {
		return
	}
	s := e.surface
	s.ResetTransform()
	s.Clear(e.settings.Background)
	if e.settings.ShowGrid {
		e.drawGrid(s)
	}

	s.SetTransform(e.view.Scale, e.view.PanX, e.view.PanY)
	for _, sh := range e.shapes {
		drawShape(s, sh)
	}
	e.drawPreview(s)
	s.ResetTransform()
}

// drawGrid places dots at world-space multiples of the grid step. The step
// is the screen spacing divided by scale so the on-screen density does
// not change with zoom.
func (e *Engine) drawGrid(s Surface) {
	spacing := e.settings.GridSpacing
	if spacing <= 0 {
		return
	}
	w, h := s.Size()
	step := spacing / e.view.Scale
	left, top := e.view.ScreenToWorld(0, 0)
	right, bottom := e.view.ScreenToWorld(w, h)

	startX := math.Floor(left/step) * step
	startY := math.Floor(top/step) * step
	if (right-startX)/step > maxGridDim || (bottom-startY)/step > maxGridDim {
		return
	}
	for wy := startY; wy <= bottom; wy += step {
		for wx := startX; wx <= right; wx += step {
			sx, sy := e.view.WorldToScreen(wx, wy)
			s.FillDot(sx, sy, gridDot, gridColor)
		}
	}
}

// drawShape paints one committed shape in world coordinates.
func drawShape(s Surface, sh shape.Shape) {
	switch v := sh.(type) {
	case shape.Rect:
		s.StrokeRect(v.X, v.Y, v.Width, v.Height, v.Color, v.StrokeWidth)
	case shape.Circle:
		s.StrokeCircle(v.CenterX, v.CenterY, math.Abs(v.Radius), v.Color, v.StrokeWidth)
	case shape.Line:
		s.StrokeLine(v.StartX, v.StartY, v.EndX, v.EndY, v.Color, v.StrokeWidth)
	case shape.Triangle:
		s.StrokePolygon([]shape.Point{{X: v.X1, Y: v.Y1}, {X: v.X2, Y: v.Y2}, {X: v.X3, Y: v.Y3}}, v.Color, v.StrokeWidth)
	case shape.Pencil:
		if len(v.Points) > 1 {
			s.StrokePolyline(v.Points, v.Color, v.StrokeWidth)
		}
	case shape.Text:
		s.FillText(v.X, v.Y, v.Text, v.Color, v.Font)
	}
}

func (e *Engine) drawPreview(s Surface) {
	switch g := e.gesture.(type) {
	case *dragging:
		if g.tool.freehand() {
			if len(g.points) > 1 {
				st := e.strokeFor(g.tool)
				s.StrokePolyline(g.points, st.color, st.width)
			}
			return
		}
		if sh := buildShape(g.tool, g.anchor, g.current, nil, e.strokeFor(g.tool)); sh != nil {
			drawShape(s, sh)
		}
	case *editingText:
		s.FillText(g.anchor.X, g.anchor.Y, string(g.buffer)+caret, e.settings.Color, e.settings.Font())
	}
}
