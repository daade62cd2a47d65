// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import "github.com/danielhkuo/drawroom/shape"

// DefaultHistoryLimit is how many snapshots History keeps by default
const DefaultHistoryLimit = 100

// History is a stack of full shape-list snapshots with a cursor. The
// cursor always indexes a valid snapshot; Undo and Redo only move it.
type History struct {
	snapshots [][]shape.Shape
	cursor    int
	limit     int
}

// NewHistory starts a history whose only snapshot is initial
func NewHistory(limit int, initial []shape.Shape) *History {
	if limit < 1 {
		limit = DefaultHistoryLimit
	}
	h := &History{limit: limit}
	h.Reset(initial)
	return h
}

// Reset discards every snapshot and starts over from list
func (h *History) Reset(list []shape.Shape) {
	h.snapshots = [][]shape.Shape{shape.CloneAll(list)}
	h.cursor = 0
}

// Push records list after the cursor, dropping any redo branch. When
// the limit is exceeded the oldest snapshot is dropped.
func (h *History) Push(list []shape.Shape) {
	h.snapshots = append(h.snapshots[:h.cursor+1], shape.CloneAll(list))
	if over := len(h.snapshots) - h.limit; over > 0 {
		h.snapshots = h.snapshots[over:]
	}
	h.cursor = len(h.snapshots) - 1
}

// Undo moves back one snapshot and returns a copy of it
func (h *History) Undo() ([]shape.Shape, bool) {
	if !h.CanUndo() {
		return nil, false
	}
	h.cursor--
	return shape.CloneAll(h.snapshots[h.cursor]), true
}

// Redo moves forward one snapshot and returns a copy of it
func (h *History) Redo() ([]shape.Shape, bool) {
	if !h.CanRedo() {
		return nil, false
	}
	h.cursor++
	return shape.CloneAll(h.snapshots[h.cursor]), true
}

func (h *History) CanUndo() bool { return h.cursor > 0 }
func (h *History) CanRedo() bool { return h.cursor < len(h.snapshots)-1 }

// Len is the number of snapshots held
func (h *History) Len() int { return len(h.snapshots) }

// Cursor is the index of the current snapshot
func (h *History) Cursor() int { return h.cursor }
