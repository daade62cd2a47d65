package models

// Live-connection frame types
const (
	FrameJoinRoom  = "join_room"
	FrameLeaveRoom = "leave_room"
	FrameChat      = "chat"
	FrameError     = "error"
)

// ClientFrame is any frame a participant sends to the relay.
// Message is only meaningful for chat frames.
type ClientFrame struct {
	Type    string `json:"type"`
	RoomID  string `json:"roomId"`
	Message string `json:"message,omitempty"`
}

// ChatBroadcast is the relay's fan-out of one persisted chat message.
type ChatBroadcast struct {
	Type    string `json:"type"`
	RoomID  string `json:"roomId"`
	Message string `json:"message"`
	UserID  string `json:"userId"`
	Name    string `json:"name"`
	Photo   string `json:"photo"`
}

// ErrorFrame tells a sender its chat message was not recorded.
type ErrorFrame struct {
	Type    string `json:"type"`
	RoomID  string `json:"roomId,omitempty"`
	Message string `json:"message"`
}

// ServerFrame is the union a client decodes every relay frame into.
type ServerFrame struct {
	Type    string `json:"type"`
	RoomID  string `json:"roomId"`
	Message string `json:"message"`
	UserID  string `json:"userId,omitempty"`
	Name    string `json:"name,omitempty"`
	Photo   string `json:"photo,omitempty"`
}

// Broadcast converts a decoded chat frame back into its broadcast form.
func (f ServerFrame) Broadcast() ChatBroadcast {
	return ChatBroadcast{
		Type:    f.Type,
		RoomID:  f.RoomID,
		Message: f.Message,
		UserID:  f.UserID,
		Name:    f.Name,
		Photo:   f.Photo,
	}
}
