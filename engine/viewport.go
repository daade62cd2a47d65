// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import "math"

const (
	MinScale = 0.1
	MaxScale = 5.0
)

// Viewport maps world coordinates to screen pixels:
//
//	screen = world*Scale + Pan
//
// Scale always stays within [MinScale, MaxScale].
type Viewport struct {
	Scale float64
	PanX  float64
	PanY  float64
}

// NewViewport returns the identity transform
func NewViewport() Viewport {
	return Viewport{Scale: 1}
}

func (v Viewport) ScreenToWorld(x, y float64) (float64, float64) {
	return (x - v.PanX) / v.Scale, (y - v.PanY) / v.Scale
}

func (v Viewport) WorldToScreen(x, y float64) (float64, float64) {
	return x*v.Scale + v.PanX, y*v.Scale + v.PanY
}

// PanBy moves the view by a screen-space delta. Zoom does not affect it.
func (v *Viewport) PanBy(dx, dy float64) {
	v.PanX += dx
	v.PanY += dy
}

// ZoomAt sets the scale while keeping the world point under (sx, sy)
// fixed on screen.
func (v *Viewport) ZoomAt(sx, sy, scale float64) {
	scale = ClampScale(scale)
	wx, wy := v.ScreenToWorld(sx, sy)
	v.Scale = scale
	v.PanX = sx - wx*scale
	v.PanY = sy - wy*scale
}

// WheelScale is the scale after a wheel delta at the given sensitivity.
// The change is multiplicative, not a fixed linear step per wheel unit,
// so zooming in and back out returns to the same scale.
func WheelScale(scale, deltaY, sensitivity float64) float64 {
	return ClampScale(scale * math.Exp(-deltaY*sensitivity))
}

func ClampScale(s float64) float64 {
	if math.IsNaN(s) {
		return 1
	}
	return math.Min(MaxScale, math.Max(MinScale, s))
}
