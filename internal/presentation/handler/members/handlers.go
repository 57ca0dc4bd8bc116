package members

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"community-chat/internal/domain"
	"community-chat/internal/infrastructure/json"
	"community-chat/internal/infrastructure/logging"
	"community-chat/internal/infrastructure/messaging"
	"community-chat/internal/infrastructure/metrics"
	"community-chat/internal/infrastructure/ws"
	"community-chat/internal/presentation/utils"
)

type Handler struct {
	roomRepository       domain.RoomRepository
	membershipRepository domain.MembershipRepository
	auditRepository      domain.AuditRepository
	publisher            *messaging.ModerationPublisher
	hub                  *ws.Hub
	logger               logging.Logger
	metrics              *metrics.Chat
}

func NewHandler(
	roomRepository domain.RoomRepository,
	membershipRepository domain.MembershipRepository,
	auditRepository domain.AuditRepository,
	publisher *messaging.ModerationPublisher,
	hub *ws.Hub,
	logger logging.Logger,
	m *metrics.Chat,
) *Handler {
	return &Handler{
		roomRepository:       roomRepository,
		membershipRepository: membershipRepository,
		auditRepository:      auditRepository,
		publisher:            publisher,
		hub:                  hub,
		logger:               logger,
		metrics:              m,
	}
}

func (h *Handler) ListMembersHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		json.WriteError(w, http.StatusBadRequest, "room ID is missing")
		return
	}

	memberships, err := h.membershipRepository.ListByRoom(r.Context(), roomID)
	if err != nil {
		json.WriteDomainError(w, err)
		return
	}

	json.Write(w, http.StatusOK, toListResponse(memberships))
}

// ChangeRoleHandler updates a member's room role. Moderation-capable
// actors only; the owner's role is immutable.
func (h *Handler) ChangeRoleHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	userID := chi.URLParam(r, "userId")
	if roomID == "" || userID == "" {
		json.WriteError(w, http.StatusBadRequest, "room ID and user ID are required")
		return
	}

	actor, ok := utils.ActorFromRequest(r)
	if !ok {
		json.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req changeRoleRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	newRole, ok := parseRoomRole(req.Role)
	if !ok {
		json.WriteError(w, http.StatusBadRequest, "role must be one of: member, moderator, admin")
		return
	}

	room, err := h.roomRepository.GetByID(r.Context(), roomID)
	if err != nil {
		json.WriteDomainError(w, err)
		return
	}

	if !h.canModerate(r.Context(), actor, room) {
		json.WriteError(w, http.StatusForbidden, "you may not change roles in this room")
		return
	}

	if room.IsOwner(userID) {
		json.WriteError(w, http.StatusForbidden, domain.ErrOwnerProtected.Error())
		return
	}

	membership, err := h.membershipRepository.Get(r.Context(), roomID, userID)
	if err != nil {
		json.WriteDomainError(w, err)
		return
	}

	previousRole := membership.Role
	membership.Role = newRole
	if err := h.membershipRepository.Upsert(r.Context(), membership); err != nil {
		json.WriteInternalError(w)
		return
	}

	record := domain.NewRoleChangedRecord(actor, roomID, userID, previousRole, newRole)
	h.recordAudit(r.Context(), record)
	h.publish(r.Context(), record, h.publisher.PublishRoleChanged)

	json.Write(w, http.StatusOK, memberResponse{
		UserID:           membership.UserID,
		RoomID:           membership.RoomID,
		Role:             string(membership.Role),
		CanRemoveMembers: membership.CanRemoveMembers,
		CanPin:           membership.CanPin,
		JoinedAt:         membership.JoinedAt,
	})
}

// RemoveMemberHandler kicks a member out of the room. The owner cannot
// be removed while they still own the room.
func (h *Handler) RemoveMemberHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	userID := chi.URLParam(r, "userId")
	if roomID == "" || userID == "" {
		json.WriteError(w, http.StatusBadRequest, "room ID and user ID are required")
		return
	}

	actor, ok := utils.ActorFromRequest(r)
	if !ok {
		json.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	room, err := h.roomRepository.GetByID(r.Context(), roomID)
	if err != nil {
		json.WriteDomainError(w, err)
		return
	}

	if !h.canModerate(r.Context(), actor, room) {
		json.WriteError(w, http.StatusForbidden, "you may not remove members from this room")
		return
	}

	if room.IsOwner(userID) {
		json.WriteError(w, http.StatusForbidden, domain.ErrOwnerProtected.Error())
		return
	}

	if err := h.membershipRepository.Delete(r.Context(), roomID, userID); err != nil {
		json.WriteDomainError(w, err)
		return
	}

	record := domain.NewMemberRemovedRecord(actor, roomID, userID)
	h.recordAudit(r.Context(), record)
	h.publish(r.Context(), record, h.publisher.PublishMemberRemoved)

	// Kill the kicked member's live subscriptions and tell the room.
	h.hub.RemoveUserFromRoom(roomID, userID)
	h.hub.BroadcastRoomEvent(roomID, ws.NewMemberRemovedEvent(roomID, userID))

	w.WriteHeader(http.StatusNoContent)
}

// canModerate allows privileged platform roles, the room owner, and
// members whose room role or CanRemoveMembers grant covers moderation.
func (h *Handler) canModerate(ctx context.Context, actor domain.Actor, room *domain.Room) bool {
	if actor.Privileged() || room.IsOwner(actor.UserID) {
		return true
	}

	membership, err := h.membershipRepository.Get(ctx, room.ID, actor.UserID)
	if err != nil {
		return false
	}

	switch membership.EffectiveRole(room) {
	case domain.RoomRoleAdmin, domain.RoomRoleOwner:
		return true
	}

	return membership.CanRemoveMembers
}

func (h *Handler) recordAudit(ctx context.Context, record *domain.AuditRecord) {
	if err := h.auditRepository.Record(ctx, record); err != nil {
		h.metrics.AuditWriteErrors.Inc()
		h.logger.Error(logging.Moderation, logging.Audit, "audit write failed", map[logging.ExtraKey]any{
			logging.ErrorMessage: err.Error(),
		})
	}
}

func (h *Handler) publish(ctx context.Context, record *domain.AuditRecord, fn func(context.Context, *domain.AuditRecord) error) {
	if h.publisher == nil {
		return
	}

	if err := fn(ctx, record); err != nil {
		h.logger.Error(logging.RabbitMQ, logging.ExternalService, "moderation publish failed", map[logging.ExtraKey]any{
			logging.ErrorMessage: err.Error(),
		})
	}
}
