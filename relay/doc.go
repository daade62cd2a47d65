// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package relay is the room broadcast relay.

# Connection Lifecycle

	Connecting → Authenticating → Active → Closed

ServeWS upgrades every request, then verifies the "token" query parameter
and loads the user. Any failure closes the transport without a frame.
An authenticated connection becomes a Participant, is added to the
Registry and served until it closes, at which point it is removed from
the Registry before anything else happens.

# Frames

	{"type":"join_room","roomId":"..."}
	{"type":"leave_room","roomId":"..."}
	{"type":"chat","roomId":"...","message":"{\"shape\":{...}}"}

join_room and leave_room are idempotent and unacknowledged. A chat frame
is persisted through the Store and then published on the Bus as

	{"type":"chat","roomId":"...","message":"...","userId":"...","name":"...","photo":"..."}

to every participant in the room, the sender included. If persisting
fails nothing is published and the sender receives

	{"type":"error","roomId":"...","message":"message could not be saved"}

Malformed frames (bad JSON, unknown type, missing fields) are logged and
dropped; the connection stays open.

# Ordering

Each connection has one reader that handles frames in arrival order and
one writer draining a FIFO queue, so messages from one sender reach every
listener in the order they were sent. There is no ordering guarantee
across senders.

# Back-pressure

A participant whose outbound queue is full is disconnected. Sending to a
closed participant is dropped silently.

# Seams

Registry and Bus are interfaces. MemoryRegistry and LocalBus serve a
single process; a shared pub/sub Bus can be injected with WithBus.
*/
package relay
