// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package canvas

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/danielhkuo/drawroom/shape"
)

const defaultFontSize = 20.0

// Surface rasterizes engine draw calls into an in-memory image.
type Surface struct {
	ctx    *gg.Context
	logger *slog.Logger

	regular *text.FontSource
	mono    *text.FontSource
	faces   map[string]text.Face
}

// New creates a width x height surface. The logger also receives gg's
// own diagnostics.
func New(width, height int, logger *slog.Logger) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid surface size %dx%d", width, height)
	}
	if logger == nil {
		logger = slog.Default()
	}
	gg.SetLogger(logger)

	regular, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("load regular font: %w", err)
	}
	mono, err := text.NewFontSource(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("load mono font: %w", err)
	}

	return &Surface{
		ctx:     gg.NewContext(width, height),
		logger:  logger,
		regular: regular,
		mono:    mono,
		faces:   make(map[string]text.Face),
	}, nil
}

func (s *Surface) Size() (float64, float64) {
	return float64(s.ctx.Width()), float64(s.ctx.Height())
}

func (s *Surface) Clear(background string) {
	s.ctx.ClearWithColor(gg.FromColor(parseColor(background)))
}

func (s *Surface) SetTransform(scale, panX, panY float64) {
	s.ctx.Identity()
	s.ctx.Translate(panX, panY)
	s.ctx.Scale(scale, scale)
}

func (s *Surface) ResetTransform() {
	s.ctx.Identity()
}

func (s *Surface) StrokeRect(x, y, w, h float64, color string, width float64) {
	s.ctx.DrawRectangle(x, y, w, h)
	s.stroke("rect", color, width)
}

func (s *Surface) StrokeCircle(cx, cy, r float64, color string, width float64) {
	s.ctx.DrawCircle(cx, cy, r)
	s.stroke("circle", color, width)
}

func (s *Surface) StrokeLine(x1, y1, x2, y2 float64, color string, width float64) {
	s.ctx.DrawLine(x1, y1, x2, y2)
	s.stroke("line", color, width)
}

func (s *Surface) StrokePolygon(points []shape.Point, color string, width float64) {
	if len(points) < 2 {
		return
	}
	s.path(points)
	s.ctx.ClosePath()
	s.stroke("polygon", color, width)
}

func (s *Surface) StrokePolyline(points []shape.Point, color string, width float64) {
	if len(points) < 2 {
		return
	}
	s.path(points)
	s.stroke("polyline", color, width)
}

func (s *Surface) FillText(x, y float64, txt, color, font string) {
	s.ctx.SetFont(s.face(font))
	s.ctx.SetColor(parseColor(color))
	s.ctx.DrawString(txt, x, y)
}

func (s *Surface) FillDot(x, y, radius float64, color string) {
	s.ctx.DrawCircle(x, y, radius)
	s.ctx.SetColor(parseColor(color))
	if err := s.ctx.Fill(); err != nil {
		s.logger.Debug("fill failed", "op", "dot", "error", err)
	}
}

// Image returns the current pixels
func (s *Surface) Image() image.Image {
	return s.ctx.Image()
}

func (s *Surface) EncodePNG(w io.Writer) error {
	return s.ctx.EncodePNG(w)
}

func (s *Surface) SavePNG(path string) error {
	return s.ctx.SavePNG(path)
}

func (s *Surface) Close() error {
	return s.ctx.Close()
}

func (s *Surface) path(points []shape.Point) {
	s.ctx.MoveTo(points[0].X, points[0].Y)
	for _, p := range points[1:] {
		s.ctx.LineTo(p.X, p.Y)
	}
}

func (s *Surface) stroke(op, color string, width float64) {
	s.ctx.SetColor(parseColor(color))
	s.ctx.SetLineWidth(width)
	s.ctx.SetLineCap(gg.LineCapRound)
	s.ctx.SetLineJoin(gg.LineJoinRound)
	if err := s.ctx.Stroke(); err != nil {
		s.logger.Debug("stroke failed", "op", op, "error", err)
	}
}

// face resolves a CSS-style font string such as "20px sans-serif".
// Monospace families use Go Mono, everything else Go Regular.
func (s *Surface) face(font string) text.Face {
	if f, ok := s.faces[font]; ok {
		return f
	}
	size, family := parseFont(font)
	src := s.regular
	if family == "monospace" {
		src = s.mono
	}
	f := src.Face(size)
	s.faces[font] = f
	return f
}

func parseFont(font string) (float64, string) {
	fields := strings.Fields(font)
	size := defaultFontSize
	family := "sans-serif"
	for _, f := range fields {
		if n, err := strconv.ParseFloat(strings.TrimSuffix(f, "px"), 64); err == nil && strings.HasSuffix(f, "px") {
			if n > 0 {
				size = n
			}
			continue
		}
		family = strings.ToLower(strings.Trim(f, `"',`))
	}
	return size, family
}

// parseColor accepts #rgb, #rrggbb, #rrggbbaa and CSS color names.
// Anything else paints black.
func parseColor(c string) color.Color {
	c = strings.TrimSpace(c)
	if strings.HasPrefix(c, "#") {
		if rgba, err := gg.ParseHex(c); err == nil {
			return rgba
		}
		return color.Black
	}
	if named, ok := colornames.Map[strings.ToLower(c)]; ok {
		return named
	}
	return color.Black
}
