// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package client connects a drawing engine to a relay.

Open resolves the room slug over HTTP, dials the live connection with the
token in the query string, joins the room, hydrates the drawing from the
persisted log and builds the engine:

	s, err := client.Open(ctx, client.Config{
		BaseURL: "http://localhost:3318",
		WSURL:   "ws://localhost:3318/ws",
		Token:   token,
		Slug:    "sketches",
	}, surface)
	if errors.Is(err, client.ErrCouldNotConnect) {
		// bad or expired token
	}

	go s.Run(ctx)
	s.Dispatch(ctx, engine.PointerDown{X: 10, Y: 10})
	s.Do(ctx, func(e *engine.Engine) { e.SetTool(engine.ToolCircle) })

Run is the only goroutine that touches the engine. Whatever ends it (a
cancelled context, Close, or the relay dropping the connection) the engine
is destroyed and the socket closed.

Client is also usable on its own for the HTTP API: CreateRoom,
ResolveSlug and Messages. Non-2xx responses come back as *HTTPError.
*/
package client
