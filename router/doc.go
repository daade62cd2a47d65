// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the drawroom API.

# Route Registration

NewRouter returns the complete handler, wrapped in CORS and per-IP rate
limiting:

	handler := router.NewRouter(store, hub, signer, cfg)

# Endpoints

Health:

	GET /health

Rooms (requires Authorization: Bearer <token>):

	POST /rooms                    - Create room, slug = name
	GET  /rooms/by-slug/{slug}     - Room metadata
	GET  /rooms/{roomId}/messages  - Persisted message log, oldest first

The two GET routes share the pattern /rooms/{roomId}/{resource};
RoomHandler.GetRoomResource tells them apart.

Live connection:

	GET /ws?token=<token>          - Room broadcast relay

# Handler Initialization

The router creates handler instances with dependency injection:

	roomHandler := handlers.NewRoomHandler(store, cfg)
	liveHandler := handlers.NewLiveHandler(hub)
*/
package router
