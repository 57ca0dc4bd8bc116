package ws

import (
	"time"

	"community-chat/internal/domain"
)

// Event is the envelope for every server -> client frame.
type Event struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// MessageCreatedPayload carries a persisted message back to the room.
// ClientTempID echoes whatever opaque id the sender attached so it can
// reconcile its optimistic copy; other recipients see it empty.
type MessageCreatedPayload struct {
	ID           string   `json:"id"`
	RoomID       string   `json:"roomId"`
	AuthorID     string   `json:"authorId"`
	Text         string   `json:"text"`
	Attachments  []string `json:"attachments,omitempty"`
	CreatedAt    string   `json:"createdAt"`
	ClientTempID string   `json:"clientTempId,omitempty"`
}

type MessageDeletedPayload struct {
	ID     string `json:"id"`
	RoomID string `json:"roomId"`
}

type MemberRemovedPayload struct {
	RoomID string `json:"roomId"`
	UserID string `json:"userId"`
}

type TypingPayload struct {
	RoomID string `json:"roomId"`
	UserID string `json:"userId"`
	Name   string `json:"name,omitempty"`
}

type PresenceEntry struct {
	UserID string `json:"userId"`
	Name   string `json:"name,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

type OnlinePresencePayload struct {
	Users []PresenceEntry `json:"users"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewMessageCreatedEvent(msg *domain.Message, clientTempID string) *Event {
	return &Event{
		Type:   EventMessageCreated,
		RoomID: msg.RoomID,
		Data: MessageCreatedPayload{
			ID:           msg.ID,
			RoomID:       msg.RoomID,
			AuthorID:     msg.AuthorID,
			Text:         msg.Text,
			Attachments:  msg.Attachments,
			CreatedAt:    msg.CreatedAt.UTC().Format(time.RFC3339Nano),
			ClientTempID: clientTempID,
		},
	}
}

func NewMessageDeletedEvent(roomID, messageID string) *Event {
	return &Event{
		Type:   EventMessageDeleted,
		RoomID: roomID,
		Data:   MessageDeletedPayload{ID: messageID, RoomID: roomID},
	}
}

func NewMemberRemovedEvent(roomID, userID string) *Event {
	return &Event{
		Type:   EventMemberRemoved,
		RoomID: roomID,
		Data:   MemberRemovedPayload{RoomID: roomID, UserID: userID},
	}
}

func NewTypingEvent(roomID, userID, name string) *Event {
	return &Event{
		Type:   EventTyping,
		RoomID: roomID,
		Data:   TypingPayload{RoomID: roomID, UserID: userID, Name: name},
	}
}

func NewOnlinePresenceEvent(roomID string, users []PresenceEntry) *Event {
	return &Event{
		Type:   EventOnlinePresence,
		RoomID: roomID,
		Data:   OnlinePresencePayload{Users: users},
	}
}

func NewErrorEvent(code, message, roomID string) *Event {
	return &Event{
		Type:   EventError,
		RoomID: roomID,
		Data:   ErrorPayload{Code: code, Message: message},
	}
}
