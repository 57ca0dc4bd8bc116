package domain

import (
	"context"
	"time"
)

// RoomRole is a member's role within one room, distinct from the
// platform-wide Role on Actor.
type RoomRole string

const (
	RoomRoleMember    RoomRole = "member"
	RoomRoleModerator RoomRole = "moderator"
	RoomRoleAdmin     RoomRole = "admin"
	RoomRoleOwner     RoomRole = "owner"
)

// Membership relates a user to a room. Exactly one record exists per
// (user, room) pair.
type Membership struct {
	UserID           string    `json:"userId" bson:"user_id"`
	RoomID           string    `json:"roomId" bson:"room_id"`
	Role             RoomRole  `json:"role" bson:"role"`
	CanRemoveMembers bool      `json:"canRemoveMembers" bson:"can_remove_members"`
	CanPin           bool      `json:"canPin" bson:"can_pin"`
	JoinedAt         time.Time `json:"joinedAt" bson:"joined_at"`
}

type MembershipRepository interface {
	Upsert(ctx context.Context, m *Membership) error
	Get(ctx context.Context, roomID, userID string) (*Membership, error)
	ListByRoom(ctx context.Context, roomID string) ([]Membership, error)
	Delete(ctx context.Context, roomID, userID string) error
}

func NewMembership(roomID, userID string, role RoomRole) *Membership {
	return &Membership{
		UserID:   userID,
		RoomID:   roomID,
		Role:     role,
		JoinedAt: time.Now().UTC(),
	}
}

// EffectiveRole resolves the member's role for the given room. The room
// creator's distinguished status is derived from room.OwnerID, not from the
// stored row: whatever the row says, the creator is never below admin.
func (m *Membership) EffectiveRole(room *Room) RoomRole {
	if room != nil && room.IsOwner(m.UserID) {
		if m.Role == RoomRoleOwner {
			return RoomRoleOwner
		}
		return RoomRoleAdmin
	}
	return m.Role
}

// CanLeave reports whether the member may leave the room on their own.
// The owner must transfer ownership or delete the room first.
func (m *Membership) CanLeave(room *Room) bool {
	return room == nil || !room.IsOwner(m.UserID)
}
