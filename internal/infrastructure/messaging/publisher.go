package messaging

import (
	"context"
	"encoding/json"

	"community-chat/internal/domain"
)

// Routing keys for downstream consumers (admin dashboard, notifications).
const (
	EventMessageDeleted = "moderation.message_deleted"
	EventRoleChanged    = "moderation.role_changed"
	EventMemberRemoved  = "moderation.member_removed"
	EventRoomDeleted    = "moderation.room_deleted"
)

// ModerationPublisher mirrors every successful moderation action onto the
// broker. Like audit writes, a publish failure never blocks or reverses
// the action it describes; callers log and continue.
type ModerationPublisher struct {
	rabbitmq *RabbitMQ
}

func NewModerationPublisher(rabbitmq *RabbitMQ) *ModerationPublisher {
	return &ModerationPublisher{rabbitmq: rabbitmq}
}

type moderationEvent struct {
	ActorID string         `json:"actorId"`
	Target  string         `json:"target"`
	Meta    map[string]any `json:"meta,omitempty"`
}

func (p *ModerationPublisher) publish(ctx context.Context, routingKey string, rec *domain.AuditRecord) error {
	body, err := json.Marshal(moderationEvent{
		ActorID: rec.ActorID,
		Target:  rec.TargetID,
		Meta:    rec.Metadata,
	})
	if err != nil {
		return err
	}
	return p.rabbitmq.Publish(ctx, routingKey, body)
}

func (p *ModerationPublisher) PublishMessageDeleted(ctx context.Context, rec *domain.AuditRecord) error {
	return p.publish(ctx, EventMessageDeleted, rec)
}

func (p *ModerationPublisher) PublishRoleChanged(ctx context.Context, rec *domain.AuditRecord) error {
	return p.publish(ctx, EventRoleChanged, rec)
}

func (p *ModerationPublisher) PublishMemberRemoved(ctx context.Context, rec *domain.AuditRecord) error {
	return p.publish(ctx, EventMemberRemoved, rec)
}

func (p *ModerationPublisher) PublishRoomDeleted(ctx context.Context, rec *domain.AuditRecord) error {
	return p.publish(ctx, EventRoomDeleted, rec)
}
