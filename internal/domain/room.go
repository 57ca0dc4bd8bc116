package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Room is the chat scope backing a community: one room per community,
// created and destroyed alongside it. A room always has exactly one owner.
type Room struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	OwnerID   string    `json:"ownerId" bson:"owner_id"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

type RoomRepository interface {
	Create(ctx context.Context, room *Room) error
	GetByID(ctx context.Context, id string) (*Room, error)
	// Delete removes the room. Message cascade is the caller's concern.
	Delete(ctx context.Context, id string) error
}

func NewRoom(name, ownerID string) (*Room, error) {
	if strings.TrimSpace(name) == "" || ownerID == "" {
		return nil, ErrInvalidInput
	}

	return &Room{
		ID:        uuid.NewString(),
		Name:      name,
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (r *Room) IsOwner(userID string) bool {
	return userID != "" && r.OwnerID == userID
}
