// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the drawroom relay server.

drawroom is a shared drawing canvas. Clients turn gestures into shapes,
send them to the relay, and the relay persists each one and fans it out
to everyone in the room. Late joiners replay the persisted log.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=file:drawroom.db JWT_SECRET=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." --jwt-secret ...

Values may also come from a .env file (see --env).

# Configuration

Required settings:

  - DATABASE_URL (-d): Database connection string
  - JWT_SECRET (--jwt-secret): Secret for signing bearer tokens

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - TOKEN_TTL, HISTORY_LIMIT, RATE_LIMIT, CORS_ORIGINS, MDNS_ADVERTISE

# Architecture

  - relay: Room broadcast relay (live connections, membership, fan-out)
  - handlers: HTTP request handlers (rooms, history, live upgrade)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, bearer auth, rate limiting, JSON helpers
  - models: Request/response types and live frames
  - shape: Shape model and wire envelope
  - engine: Headless drawing engine
  - canvas: Raster surface for the engine
  - client: Session bootstrap for engine clients
  - discovery: mDNS advertisement and browsing
  - auth: Token signing and validation
  - db: Schema creation and persistence
  - cliparse: Configuration parsing

Tools live under cmd: mktoken issues development tokens and drawbot is a
headless participant.

See package documentation for each component.
*/
package main
