package rooms

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"community-chat/internal/domain"
	"community-chat/internal/infrastructure/json"
	"community-chat/internal/infrastructure/logging"
	"community-chat/internal/infrastructure/messaging"
	"community-chat/internal/infrastructure/metrics"
	"community-chat/internal/presentation/utils"
)

type Handler struct {
	roomRepository       domain.RoomRepository
	membershipRepository domain.MembershipRepository
	messageRepository    domain.MessageRepository
	auditRepository      domain.AuditRepository
	publisher            *messaging.ModerationPublisher
	logger               logging.Logger
	metrics              *metrics.Chat
}

func NewHandler(
	roomRepository domain.RoomRepository,
	membershipRepository domain.MembershipRepository,
	messageRepository domain.MessageRepository,
	auditRepository domain.AuditRepository,
	publisher *messaging.ModerationPublisher,
	logger logging.Logger,
	m *metrics.Chat,
) *Handler {
	return &Handler{
		roomRepository:       roomRepository,
		membershipRepository: membershipRepository,
		messageRepository:    messageRepository,
		auditRepository:      auditRepository,
		publisher:            publisher,
		logger:               logger,
		metrics:              m,
	}
}

// CreateRoomHandler creates a room owned by the caller, together with
// the owner's membership row.
func (h *Handler) CreateRoomHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := utils.ActorFromRequest(r)
	if !ok {
		json.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req createRoomRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	room, err := domain.NewRoom(req.Name, actor.UserID)
	if err != nil {
		json.WriteDomainError(w, err)
		return
	}

	if err := h.roomRepository.Create(r.Context(), room); err != nil {
		json.WriteInternalError(w)
		return
	}

	if err := h.membershipRepository.Upsert(r.Context(), domain.NewMembership(room.ID, actor.UserID, domain.RoomRoleOwner)); err != nil {
		json.WriteInternalError(w)
		return
	}

	h.recordAudit(r.Context(), domain.NewAuditRecord(domain.ActionCreateRoom, actor, domain.TargetRoom, room.ID, map[string]any{
		"name": room.Name,
	}))

	json.Write(w, http.StatusCreated, toRoomResponse(room))
}

func (h *Handler) GetRoomHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		json.WriteError(w, http.StatusBadRequest, "room ID is missing")
		return
	}

	room, err := h.roomRepository.GetByID(r.Context(), roomID)
	if err != nil {
		json.WriteDomainError(w, err)
		return
	}

	json.Write(w, http.StatusOK, toRoomResponse(room))
}

// DeleteRoomHandler destroys the room and cascades its messages. Only
// the owner of the room or a privileged actor may do this.
func (h *Handler) DeleteRoomHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		json.WriteError(w, http.StatusBadRequest, "room ID is missing")
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

	if !actor.Privileged() && !room.IsOwner(actor.UserID) {
		json.WriteError(w, http.StatusForbidden, "only the room owner may delete the room")
		return
	}

	removed, err := h.messageRepository.DeleteByRoomID(r.Context(), roomID)
	if err != nil {
		json.WriteInternalError(w)
		return
	}

	if err := h.roomRepository.Delete(r.Context(), roomID); err != nil {
		json.WriteDomainError(w, err)
		return
	}

	if memberships, err := h.membershipRepository.ListByRoom(r.Context(), roomID); err == nil {
		for _, m := range memberships {
			_ = h.membershipRepository.Delete(r.Context(), roomID, m.UserID)
		}
	}

	record := domain.NewRoomDeletedRecord(actor, roomID, int(removed))
	h.recordAudit(r.Context(), record)

	if h.publisher != nil {
		if err := h.publisher.PublishRoomDeleted(r.Context(), record); err != nil {
			h.logger.Error(logging.RabbitMQ, logging.ExternalService, "moderation publish failed", map[logging.ExtraKey]any{
				logging.RoomID:       roomID,
				logging.ErrorMessage: err.Error(),
			})
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) recordAudit(ctx context.Context, record *domain.AuditRecord) {
	if err := h.auditRepository.Record(ctx, record); err != nil {
		h.metrics.AuditWriteErrors.Inc()
		h.logger.Error(logging.Moderation, logging.Audit, "audit write failed", map[logging.ExtraKey]any{
			logging.ErrorMessage: err.Error(),
		})
	}
}
