// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package engine implements the per-participant drawing engine.

The engine turns input events into shapes, keeps the local shape list and
its undo history, owns the pan/zoom viewport and paints everything onto a
Surface. Committed shapes go out through a Transport; shapes from other
participants come back in through Ingest.

# Gestures

Input runs through a small state machine:

	Idle ── primary down (rect, circle, line, triangle, pencil, eraser) ──> Dragging
	Idle ── primary down (hand) or middle down ─────────────────────────> Panning
	Idle ── primary down (text) ────────────────────────────────────────> EditingText

Pointer-up finishes a drag and commits one shape; Enter commits text and
Escape discards it. Changing tools drops a drag and commits pending text.
Gestures below one world unit produce nothing.

# Coordinates

Pointer events are in screen pixels. Shapes are stored in world units:

	world = (screen - pan) / scale

Wheel events zoom about the pointer and keep the world point under it
fixed. Scale is clamped to [0.1, 5]. Each wheel delta multiplies the
scale by exp(-deltaY*sensitivity) rather than adding a fixed step, so
equal and opposite deltas cancel at any zoom level.

# Sync

Every committed shape gets a uuid. The engine remembers the ids it has
applied so the relay's echo of its own shape is ignored. Shapes without an
id are always appended. Undo and redo are local only. Remote shapes push no
history, so undoing past one drops it locally and a re-delivery of the
same id is still ignored.

# Usage

	eng := engine.New(roomID, surface, transport, engine.WithLogger(logger))
	defer eng.Destroy()

	eng.Load(hydrated)
	eng.Handle(engine.PointerDown{X: 10, Y: 10})
	eng.Handle(engine.PointerUp{X: 50, Y: 30})
	eng.Ingest(frame.RoomID, frame.Message)

The engine is not safe for concurrent use.
*/
package engine
