// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import "github.com/danielhkuo/drawroom/shape"

// Surface is the pixel target the engine paints on. Between
// SetTransform and ResetTransform every coordinate is in world units and
// the surface applies screen = world*scale + pan itself.
type Surface interface {
	// Size reports the drawable area in screen pixels.
	Size() (width, height float64)
	Clear(background string)
	SetTransform(scale, panX, panY float64)
	ResetTransform()

	StrokeRect(x, y, w, h float64, color string, width float64)
	StrokeCircle(cx, cy, r float64, color string, width float64)
	StrokeLine(x1, y1, x2, y2 float64, color string, width float64)
	StrokePolygon(points []shape.Point, color string, width float64)
	StrokePolyline(points []shape.Point, color string, width float64)
	FillText(x, y float64, text, color, font string)
	FillDot(x, y, radius float64, color string)
}

// Transport carries committed shapes to the relay. Send must not block;
// failures are reported and then forgotten.
type Transport interface {
	Send(roomID, message string) error
}
