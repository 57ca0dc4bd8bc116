package ws

import "encoding/json"

// Inbound is the envelope for every client -> server frame. Data stays
// raw until the type is known.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type RegisterUserRequest struct {
	UserID string `json:"userId"`
	Name   string `json:"name,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

type JoinRoomRequest struct {
	RoomID string `json:"roomId"`
}

type LeaveRoomRequest struct {
	RoomID string `json:"roomId"`
}

type SendMessageRequest struct {
	RoomID       string   `json:"roomId"`
	Text         string   `json:"text"`
	Attachments  []string `json:"attachments,omitempty"`
	ClientTempID string   `json:"clientTempId,omitempty"`
}

type TypingRequest struct {
	RoomID string `json:"roomId"`
}
