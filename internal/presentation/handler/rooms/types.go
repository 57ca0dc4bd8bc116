package rooms

import (
	"time"

	"community-chat/internal/domain"
)

type createRoomRequest struct {
	Name string `json:"name"`
}

type roomResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
}

func toRoomResponse(room *domain.Room) roomResponse {
	return roomResponse{
		ID:        room.ID,
		Name:      room.Name,
		OwnerID:   room.OwnerID,
		CreatedAt: room.CreatedAt,
	}
}
