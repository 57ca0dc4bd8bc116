package messages

import (
	"time"

	"community-chat/internal/domain"
)

type messageResponse struct {
	ID          string    `json:"id"`
	RoomID      string    `json:"roomId"`
	AuthorID    string    `json:"authorId"`
	Text        string    `json:"text"`
	Attachments []string  `json:"attachments,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type listMessagesResponse struct {
	Messages []messageResponse `json:"messages"`
}

func toListResponse(messages []domain.Message) listMessagesResponse {
	out := listMessagesResponse{Messages: make([]messageResponse, 0, len(messages))}
	for _, m := range messages {
		out.Messages = append(out.Messages, messageResponse{
			ID:          m.ID,
			RoomID:      m.RoomID,
			AuthorID:    m.AuthorID,
			Text:        m.Text,
			Attachments: m.Attachments,
			CreatedAt:   m.CreatedAt,
		})
	}
	return out
}
