// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package canvas provides a software-rasterized engine.Surface.

Drawing goes through github.com/gogpu/gg on the CPU, so a participant can
render without a window:

	surface, err := canvas.New(1280, 720, logger)
	if err != nil {
		return err
	}
	defer surface.Close()

	eng := engine.New(roomID, surface, transport)
	...
	err = surface.SavePNG("room.png")

Colors accept #rgb, #rrggbb, #rrggbbaa and CSS names. Fonts are CSS-style
strings ("20px sans-serif"); monospace families use Go Mono and all others
Go Regular.
*/
package canvas
