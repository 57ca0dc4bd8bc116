package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message is a single chat utterance. Once persisted its ID and author
// never change; only its existence does. Chat has no edit operation.
type Message struct {
	ID          string    `json:"id" bson:"_id"`
	RoomID      string    `json:"roomId" bson:"room_id"`
	AuthorID    string    `json:"authorId" bson:"author_id"`
	Text        string    `json:"text" bson:"text"`
	Attachments []string  `json:"attachments,omitempty" bson:"attachments,omitempty"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
}

type MessageRepository interface {
	Create(ctx context.Context, message *Message) error
	GetByID(ctx context.Context, roomID, messageID string) (*Message, error)
	// ListRecent returns up to limit messages with CreatedAt < before
	// (unbounded when before is zero), ordered ascending by creation time.
	ListRecent(ctx context.Context, roomID string, limit int, before time.Time) ([]Message, error)
	DeleteByID(ctx context.Context, messageID string) error
	// DeleteByRoomID cascades a room deletion and reports how many
	// messages were removed.
	DeleteByRoomID(ctx context.Context, roomID string) (int64, error)
}

// NewMessage validates the payload and assigns the server id and timestamp.
func NewMessage(roomID, authorID, text string, attachments []string) (*Message, error) {
	if roomID == "" || authorID == "" {
		return nil, ErrInvalidInput
	}
	if strings.TrimSpace(text) == "" && len(attachments) == 0 {
		return nil, ErrEmptyMessage
	}

	return &Message{
		ID:          uuid.NewString(),
		RoomID:      roomID,
		AuthorID:    authorID,
		Text:        text,
		Attachments: attachments,
		CreatedAt:   time.Now().UTC(),
	}, nil
}
