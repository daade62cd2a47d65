// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, frame and domain types shared
by the relay, the HTTP API and the client.

# Request Types

  - CreateRoomRequest: name (3-20 characters, doubles as the slug)

# Response Types

  - CreateRoomResponse: roomId
  - RoomResponse: room
  - MessagesResponse: messages, oldest first
  - ErrorResponse: error, message

# Domain Types

  - User: id, name, photo
  - Room: id, slug, adminId
  - Message: one persisted chat row holding a shape envelope

# Live Frames

Participants send ClientFrame values:

	{"type":"join_room","roomId":"..."}
	{"type":"leave_room","roomId":"..."}
	{"type":"chat","roomId":"...","message":"{\"shape\":{...}}"}

The relay answers with ChatBroadcast (type "chat", with the sender's
userId, name and photo) or ErrorFrame (type "error") when a chat message
could not be recorded. Clients decode either into ServerFrame.
*/
package models
