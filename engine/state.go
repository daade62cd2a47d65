// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import "github.com/danielhkuo/drawroom/shape"

// Mode names the gesture state the engine is in.
type Mode int

const (
	ModeIdle Mode = iota
	ModeDragging
	ModePanning
	ModeEditingText
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeDragging:
		return "dragging"
	case ModePanning:
		return "panning"
	case ModeEditingText:
		return "editing-text"
	}
	return "unknown"
}

// gesture is the in-flight gesture. Exactly one is held at a time.
type gesture interface {
	mode() Mode
}

type idle struct{}

type dragging struct {
	tool    Tool
	anchor  shape.Point
	current shape.Point
	// points is only filled for pencil and eraser
	points []shape.Point
}

// panning tracks the last pointer position in screen pixels
type panning struct {
	lastX, lastY float64
}

type editingText struct {
	anchor shape.Point
	buffer []rune
}

func (idle) mode() Mode         { return ModeIdle }
func (*dragging) mode() Mode    { return ModeDragging }
func (*panning) mode() Mode     { return ModePanning }
func (*editingText) mode() Mode { return ModeEditingText }
