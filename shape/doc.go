// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package shape defines the drawable primitives shared by every participant.

# Variants

A Shape is one of six value types:

	Rect{X, Y, Width, Height, Color, StrokeWidth}
	Circle{CenterX, CenterY, Radius, Color, StrokeWidth}
	Line{StartX, StartY, EndX, EndY, Color, StrokeWidth}
	Triangle{X1, Y1, X2, Y2, X3, Y3, Color, StrokeWidth}
	Pencil{Points, Color, StrokeWidth}
	Text{X, Y, Text, Color, Font}

Consumers dispatch with a type switch. Shapes are never mutated after
construction; the drawing only changes by appending new shapes. Erasing is an
ordinary Pencil painted in the background color.

# Wire Format

Each shape is a JSON object tagged with "type":

	{"type":"circle","id":"…","centerX":30,"centerY":20,"radius":22.36,"color":"#000000","strokeWidth":2}

Live messages and persisted rows carry it inside an envelope string:

	msg, err := shape.EncodeEnvelope(s)   // {"shape":{...}}
	s, err := shape.DecodeEnvelope(msg)

Unmarshal validates coordinates; unknown types yield ErrUnknownKind.
*/
package shape
