package messages

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"community-chat/internal/domain"
	"community-chat/internal/infrastructure/json"
	"community-chat/internal/infrastructure/ws"
	"community-chat/internal/presentation/utils"
)

type Handler struct {
	messageRepository domain.MessageRepository
	hub               *ws.Hub
	historyLimit      int
}

func NewHandler(messageRepository domain.MessageRepository, hub *ws.Hub, historyLimit int) *Handler {
	if historyLimit <= 0 {
		historyLimit = 50
	}

	return &Handler{
		messageRepository: messageRepository,
		hub:               hub,
		historyLimit:      historyLimit,
	}
}

// ListMessagesHandler returns room history, oldest first. The optional
// before parameter (RFC 3339) pages backwards for load-earlier.
func (h *Handler) ListMessagesHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		json.WriteError(w, http.StatusBadRequest, "room ID is missing")
		return
	}

	limit := h.historyLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			json.WriteError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		if parsed < limit {
			limit = parsed
		}
	}

	var before time.Time
	if raw := r.URL.Query().Get("before"); raw != "" {
		parsed, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			json.WriteError(w, http.StatusBadRequest, "before must be an RFC 3339 timestamp")
			return
		}
		before = parsed
	}

	history, err := h.messageRepository.ListRecent(r.Context(), roomID, limit, before)
	if err != nil {
		json.WriteDomainError(w, err)
		return
	}

	json.Write(w, http.StatusOK, toListResponse(history))
}

// DeleteMessageHandler runs the moderation delete flow: authorize,
// delete, audit, broadcast.
func (h *Handler) DeleteMessageHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	messageID := chi.URLParam(r, "messageId")
	if roomID == "" || messageID == "" {
		json.WriteError(w, http.StatusBadRequest, "room ID and message ID are required")
		return
	}

	actor, ok := utils.ActorFromRequest(r)
	if !ok {
		json.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.hub.DeleteMessage(r.Context(), actor, roomID, messageID); err != nil {
		switch {
		case errors.Is(err, domain.ErrMessageNotFound):
			json.WriteError(w, http.StatusNotFound, "message not found")
		case errors.Is(err, domain.ErrForbidden):
			json.WriteError(w, http.StatusForbidden, "you may not delete this message")
		default:
			json.WriteInternalError(w)
		}
		return
	}

	json.Write(w, http.StatusOK, map[string]string{"id": messageID, "status": "deleted"})
}
