// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"math"

	"github.com/danielhkuo/drawroom/shape"
)

// minExtent is the smallest gesture extent, in world units, that still
// produces a shape.
const minExtent = 1.0

// stroke carries the style a finished gesture is painted with
type stroke struct {
	color string
	width float64
}

// buildShape turns a finished drag into a shape. It returns nil for
// degenerate gestures.
func buildShape(tool Tool, anchor, release shape.Point, points []shape.Point, st stroke) shape.Shape {
	switch tool {
	case ToolRect:
		return rectFrom(anchor, release, st)
	case ToolCircle:
		return circleFrom(anchor, release, st)
	case ToolLine:
		return lineFrom(anchor, release, st)
	case ToolTriangle:
		return triangleFrom(anchor, release, st)
	case ToolPencil, ToolEraser:
		return pencilFrom(points, st)
	}
	return nil
}

func rectFrom(a, b shape.Point, st stroke) shape.Shape {
	w, h := b.X-a.X, b.Y-a.Y
	if math.Abs(w) < minExtent && math.Abs(h) < minExtent {
		return nil
	}
	return shape.Rect{X: a.X, Y: a.Y, Width: w, Height: h, Color: st.color, StrokeWidth: st.width}
}

// circleFrom centers the circle between anchor and release so the result
// does not depend on drag direction.
func circleFrom(a, b shape.Point, st stroke) shape.Shape {
	r := math.Hypot(b.X-a.X, b.Y-a.Y) / 2
	if r < minExtent/2 {
		return nil
	}
	return shape.Circle{
		CenterX:     (a.X + b.X) / 2,
		CenterY:     (a.Y + b.Y) / 2,
		Radius:      r,
		Color:       st.color,
		StrokeWidth: st.width,
	}
}

func lineFrom(a, b shape.Point, st stroke) shape.Shape {
	if math.Hypot(b.X-a.X, b.Y-a.Y) < minExtent {
		return nil
	}
	return shape.Line{StartX: a.X, StartY: a.Y, EndX: b.X, EndY: b.Y, Color: st.color, StrokeWidth: st.width}
}

// triangleFrom mirrors the release point about the vertical through the
// anchor to get the third vertex.
func triangleFrom(a, b shape.Point, st stroke) shape.Shape {
	if math.Abs(b.X-a.X) < minExtent && math.Abs(b.Y-a.Y) < minExtent {
		return nil
	}
	return shape.Triangle{
		X1: a.X, Y1: a.Y,
		X2: b.X, Y2: b.Y,
		X3: a.X - (b.X - a.X), Y3: b.Y,
		Color:       st.color,
		StrokeWidth: st.width,
	}
}

func pencilFrom(points []shape.Point, st stroke) shape.Shape {
	if len(points) < 2 {
		return nil
	}
	pts := make([]shape.Point, len(points))
	copy(pts, points)
	return shape.Pencil{Points: pts, Color: st.color, StrokeWidth: st.width}
}
