package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type AuditAction string

const (
	ActionDeleteMessage AuditAction = "delete_message"
	ActionDeleteRoom    AuditAction = "delete_room"
	ActionCreateRoom    AuditAction = "create_room"
	ActionChangeRole    AuditAction = "change_role"
	ActionRemoveMember  AuditAction = "remove_member"
)

const (
	TargetMessage = "message"
	TargetRoom    = "room"
	TargetMember  = "member"
)

// AuditRecord is one immutable entry in the moderation trail. Records are
// never updated or deleted once written.
type AuditRecord struct {
	ID         string         `json:"id" bson:"_id"`
	Action     AuditAction    `json:"action" bson:"action"`
	ActorID    string         `json:"actorId" bson:"actor_id"`
	ActorOwner bool           `json:"actorOwner" bson:"actor_owner"`
	TargetType string         `json:"targetType" bson:"target_type"`
	TargetID   string         `json:"targetId" bson:"target_id"`
	Metadata   map[string]any `json:"metadata,omitempty" bson:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"createdAt" bson:"created_at"`
}

type AuditFilter struct {
	Action     AuditAction
	ActorID    string
	TargetType string
	From       time.Time
	To         time.Time
}

type AuditRepository interface {
	Record(ctx context.Context, rec *AuditRecord) error
	// Query is the administrative read path, newest-first.
	Query(ctx context.Context, filter AuditFilter, limit, offset int) ([]AuditRecord, error)
}

func NewAuditRecord(action AuditAction, actor Actor, targetType, targetID string, meta map[string]any) *AuditRecord {
	return &AuditRecord{
		ID:         uuid.NewString(),
		Action:     action,
		ActorID:    actor.UserID,
		ActorOwner: actor.IsSystemOwner,
		TargetType: targetType,
		TargetID:   targetID,
		Metadata:   meta,
		CreatedAt:  time.Now().UTC(),
	}
}

func NewMessageDeletedRecord(actor Actor, message *Message) *AuditRecord {
	return NewAuditRecord(ActionDeleteMessage, actor, TargetMessage, message.ID, map[string]any{
		"room_id":            message.RoomID,
		"original_author_id": message.AuthorID,
	})
}

func NewRoleChangedRecord(actor Actor, roomID, userID string, from, to RoomRole) *AuditRecord {
	return NewAuditRecord(ActionChangeRole, actor, TargetMember, userID, map[string]any{
		"room_id":   roomID,
		"from_role": string(from),
		"to_role":   string(to),
	})
}

func NewMemberRemovedRecord(actor Actor, roomID, userID string) *AuditRecord {
	return NewAuditRecord(ActionRemoveMember, actor, TargetMember, userID, map[string]any{
		"room_id": roomID,
	})
}

func NewRoomDeletedRecord(actor Actor, roomID string, messageCount int) *AuditRecord {
	return NewAuditRecord(ActionDeleteRoom, actor, TargetRoom, roomID, map[string]any{
		"message_count": messageCount,
	})
}
