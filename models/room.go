package models

import "time"

// Domain types

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Photo     string    `json:"photo"`
	CreatedAt time.Time `json:"createdAt"`
}

type Room struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	AdminID   string    `json:"adminId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Message is one persisted chat row. Message holds the opaque
// {"shape": ...} envelope exactly as it was broadcast.
type Message struct {
	ID        int64     `json:"id"`
	RoomID    string    `json:"roomId"`
	SenderID  string    `json:"userId"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Request types

type CreateRoomRequest struct {
	Name string `json:"name"`
}

// Response types

type CreateRoomResponse struct {
	RoomID string `json:"roomId"`
}

type RoomResponse struct {
	Room Room `json:"room"`
}

type MessagesResponse struct {
	Messages []Message `json:"messages"`
}
