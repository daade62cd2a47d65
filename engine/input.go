// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

// Button identifies a pointer button.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonMiddle
	ButtonSecondary
)

// Event is one input event. The set is closed: PointerDown, PointerMove,
// PointerUp, Wheel and Key. Pointer coordinates are in screen pixels.
type Event interface {
	isEvent()
}

type PointerDown struct {
	X, Y   float64
	Button Button
}

type PointerMove struct {
	X, Y float64
}

type PointerUp struct {
	X, Y   float64
	Button Button
}

// Wheel zooms about the pointer position. Positive DeltaY zooms out.
type Wheel struct {
	X, Y   float64
	DeltaY float64
}

// Key is a key press. Key holds either a printable character or one of
// the named keys below.
type Key struct {
	Key   string
	Ctrl  bool
	Shift bool
	Meta  bool
}

// Named keys
const (
	KeyBackspace = "Backspace"
	KeyEnter     = "Enter"
	KeyEscape    = "Escape"
)

func (PointerDown) isEvent() {}
func (PointerMove) isEvent() {}
func (PointerUp) isEvent()   {}
func (Wheel) isEvent()       {}
func (Key) isEvent()         {}

// command reports whether a platform command modifier is held
func (k Key) command() bool {
	return k.Ctrl || k.Meta
}
