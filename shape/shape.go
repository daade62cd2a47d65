// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package shape

// Kind is the wire tag of a shape variant.
type Kind string

const (
	KindRect     Kind = "rect"
	KindCircle   Kind = "circle"
	KindLine     Kind = "line"
	KindTriangle Kind = "triangle"
	KindPencil   Kind = "pencil"
	KindText     Kind = "text"
)

// Point is a world-space coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Shape is one immutable drawable primitive. The set of implementations is
// closed: Rect, Circle, Line, Triangle, Pencil and Text.
type Shape interface {
	Kind() Kind
	// ShapeID returns the creator-assigned id, or "" for shapes that
	// predate ids.
	ShapeID() string
	isShape()
}

type Rect struct {
	ID          string  `json:"id,omitempty"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Color       string  `json:"color"`
	StrokeWidth float64 `json:"strokeWidth"`
}

type Circle struct {
	ID          string  `json:"id,omitempty"`
	CenterX     float64 `json:"centerX"`
	CenterY     float64 `json:"centerY"`
	Radius      float64 `json:"radius"`
	Color       string  `json:"color"`
	StrokeWidth float64 `json:"strokeWidth"`
}

type Line struct {
	ID          string  `json:"id,omitempty"`
	StartX      float64 `json:"startX"`
	StartY      float64 `json:"startY"`
	EndX        float64 `json:"endX"`
	EndY        float64 `json:"endY"`
	Color       string  `json:"color"`
	StrokeWidth float64 `json:"strokeWidth"`
}

type Triangle struct {
	ID          string  `json:"id,omitempty"`
	X1          float64 `json:"x1"`
	Y1          float64 `json:"y1"`
	X2          float64 `json:"x2"`
	Y2          float64 `json:"y2"`
	X3          float64 `json:"x3"`
	Y3          float64 `json:"y3"`
	Color       string  `json:"color"`
	StrokeWidth float64 `json:"strokeWidth"`
}

// Pencil is a freehand stroke. Eraser strokes are pencils painted in the
// canvas background color.
type Pencil struct {
	ID          string  `json:"id,omitempty"`
	Points      []Point `json:"points"`
	Color       string  `json:"color"`
	StrokeWidth float64 `json:"strokeWidth"`
}

// Text is a single line of text anchored at its baseline origin.
type Text struct {
	ID    string  `json:"id,omitempty"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Text  string  `json:"text"`
	Color string  `json:"color"`
	Font  string  `json:"font"`
}

func (Rect) Kind() Kind     { return KindRect }
func (Circle) Kind() Kind   { return KindCircle }
func (Line) Kind() Kind     { return KindLine }
func (Triangle) Kind() Kind { return KindTriangle }
func (Pencil) Kind() Kind   { return KindPencil }
func (Text) Kind() Kind     { return KindText }

func (s Rect) ShapeID() string     { return s.ID }
func (s Circle) ShapeID() string   { return s.ID }
func (s Line) ShapeID() string     { return s.ID }
func (s Triangle) ShapeID() string { return s.ID }
func (s Pencil) ShapeID() string   { return s.ID }
func (s Text) ShapeID() string     { return s.ID }

func (Rect) isShape()     {}
func (Circle) isShape()   {}
func (Line) isShape()     {}
func (Triangle) isShape() {}
func (Pencil) isShape()   {}
func (Text) isShape()     {}

// Clone returns a copy of s that shares no memory with it.
func Clone(s Shape) Shape {
	if p, ok := s.(Pencil); ok {
		pts := make([]Point, len(p.Points))
		copy(pts, p.Points)
		p.Points = pts
		return p
	}
	// Every other variant is a plain value.
	return s
}

// CloneAll deep-copies a shape list.
func CloneAll(list []Shape) []Shape {
	out := make([]Shape, len(list))
	for i, s := range list {
		out[i] = Clone(s)
	}
	return out
}

// WithID returns s carrying the given id.
func WithID(s Shape, id string) Shape {
	switch v := s.(type) {
	case Rect:
		v.ID = id
		return v
	case Circle:
		v.ID = id
		return v
	case Line:
		v.ID = id
		return v
	case Triangle:
		v.ID = id
		return v
	case Pencil:
		v.ID = id
		return v
	case Text:
		v.ID = id
		return v
	}
	return s
}
