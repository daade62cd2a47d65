// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import "fmt"

// Tool is the active drawing tool.
type Tool string

const (
	ToolRect     Tool = "rect"
	ToolCircle   Tool = "circle"
	ToolLine     Tool = "line"
	ToolTriangle Tool = "triangle"
	ToolPencil   Tool = "pencil"
	ToolEraser   Tool = "eraser"
	ToolText     Tool = "text"
	ToolHand     Tool = "hand"
)

// Tools lists every tool in toolbar order
var Tools = []Tool{ToolHand, ToolRect, ToolTriangle, ToolCircle, ToolLine, ToolPencil, ToolText, ToolEraser}

// ParseTool accepts a tool name as used on the wire and in flags
func ParseTool(name string) (Tool, error) {
	for _, t := range Tools {
		if string(t) == name {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown tool %q", name)
}

// drags reports whether the tool draws by dragging from an anchor
func (t Tool) drags() bool {
	switch t {
	case ToolRect, ToolCircle, ToolLine, ToolTriangle, ToolPencil, ToolEraser:
		return true
	}
	return false
}

// freehand reports whether the tool accumulates a point list
func (t Tool) freehand() bool {
	return t == ToolPencil || t == ToolEraser
}

// shortcuts maps single-key shortcuts to tools
var shortcuts = map[string]Tool{
	"p": ToolPencil,
	"r": ToolRect,
	"c": ToolCircle,
	"t": ToolTriangle,
	"l": ToolLine,
	"e": ToolEraser,
	"x": ToolText,
	"h": ToolHand,
}
