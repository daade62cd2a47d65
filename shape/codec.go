// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package shape

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

var (
	ErrUnknownKind  = errors.New("unknown shape type")
	ErrInvalidShape = errors.New("invalid shape")
	ErrNoShape      = errors.New("envelope has no shape")
)

// Marshal encodes s as a JSON object tagged with "type".
func Marshal(s Shape) ([]byte, error) {
	switch v := s.(type) {
	case Rect:
		return json.Marshal(struct {
			Type Kind `json:"type"`
			Rect
		}{KindRect, v})
	case Circle:
		return json.Marshal(struct {
			Type Kind `json:"type"`
			Circle
		}{KindCircle, v})
	case Line:
		return json.Marshal(struct {
			Type Kind `json:"type"`
			Line
		}{KindLine, v})
	case Triangle:
		return json.Marshal(struct {
			Type Kind `json:"type"`
			Triangle
		}{KindTriangle, v})
	case Pencil:
		if v.Points == nil {
			v.Points = []Point{}
		}
		return json.Marshal(struct {
			Type Kind `json:"type"`
			Pencil
		}{KindPencil, v})
	case Text:
		return json.Marshal(struct {
			Type Kind `json:"type"`
			Text
		}{KindText, v})
	case nil:
		return nil, ErrInvalidShape
	}
	return nil, fmt.Errorf("%w: %T", ErrUnknownKind, s)
}

// Unmarshal decodes a tagged JSON object and validates the result.
func Unmarshal(data []byte) (Shape, error) {
	var tag struct {
		Type Kind `json:"type"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, fmt.Errorf("decode shape: %w", err)
	}

	var (
		s   Shape
		err error
	)
	switch tag.Type {
	case KindRect:
		var v Rect
		err = json.Unmarshal(data, &v)
		s = v
	case KindCircle:
		var v Circle
		err = json.Unmarshal(data, &v)
		s = v
	case KindLine:
		var v Line
		err = json.Unmarshal(data, &v)
		s = v
	case KindTriangle:
		var v Triangle
		err = json.Unmarshal(data, &v)
		s = v
	case KindPencil:
		var v Pencil
		err = json.Unmarshal(data, &v)
		s = v
	case KindText:
		var v Text
		err = json.Unmarshal(data, &v)
		s = v
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, tag.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", tag.Type, err)
	}
	if err := Validate(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate rejects shapes whose geometry cannot be rendered.
func Validate(s Shape) error {
	var nums []float64
	switch v := s.(type) {
	case Rect:
		nums = []float64{v.X, v.Y, v.Width, v.Height, v.StrokeWidth}
	case Circle:
		nums = []float64{v.CenterX, v.CenterY, v.Radius, v.StrokeWidth}
	case Line:
		nums = []float64{v.StartX, v.StartY, v.EndX, v.EndY, v.StrokeWidth}
	case Triangle:
		nums = []float64{v.X1, v.Y1, v.X2, v.Y2, v.X3, v.Y3, v.StrokeWidth}
	case Pencil:
		if len(v.Points) == 0 {
			return fmt.Errorf("%w: pencil without points", ErrInvalidShape)
		}
		nums = append(nums, v.StrokeWidth)
		for _, p := range v.Points {
			nums = append(nums, p.X, p.Y)
		}
	case Text:
		nums = []float64{v.X, v.Y}
	default:
		return fmt.Errorf("%w: %T", ErrUnknownKind, s)
	}
	for _, n := range nums {
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return fmt.Errorf("%w: non-finite %s coordinate", ErrInvalidShape, s.Kind())
		}
	}
	return nil
}

// EncodeEnvelope produces the opaque chat message string {"shape": ...}.
func EncodeEnvelope(s Shape) (string, error) {
	raw, err := Marshal(s)
	if err != nil {
		return "", err
	}
	out, err := json.Marshal(struct {
		Shape json.RawMessage `json:"shape"`
	}{raw})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// DecodeEnvelope parses a chat message string back into its shape.
func DecodeEnvelope(message string) (Shape, error) {
	var env struct {
		Shape json.RawMessage `json:"shape"`
	}
	if err := json.Unmarshal([]byte(message), &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	if len(env.Shape) == 0 || string(env.Shape) == "null" {
		return nil, ErrNoShape
	}
	return Unmarshal(env.Shape)
}
