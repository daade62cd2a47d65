// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the drawroom API.

# Handler Types

Each handler is a struct with its dependencies injected:

  - RoomHandler: Room creation, slug lookup and message history
  - LiveHandler: Upgrades to the live relay connection

	roomHandler := handlers.NewRoomHandler(store, cfg)
	liveHandler := handlers.NewLiveHandler(hub)

# Rooms

	POST /rooms                   → CreateRoom (201 {roomId}, 409 duplicate)
	GET  /rooms/by-slug/{slug}    → GetRoomResource → room metadata
	GET  /rooms/{roomId}/messages → GetRoomResource → message log

Room routes expect middleware.RequireAuth in front of them; CreateRoom
records the caller as the room's admin.

# History

The message log is returned oldest first and capped at the configured
history limit (most recent messages win). Clients replay it in order to
rebuild the drawing.
*/
package handlers
