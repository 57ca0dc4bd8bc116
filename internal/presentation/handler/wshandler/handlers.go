// Package wshandler upgrades authenticated HTTP requests into hub
// sessions.
package wshandler

import (
	"errors"
	"net/http"

	"github.com/gorilla/websocket"

	"community-chat/internal/infrastructure/identity"
	"community-chat/internal/infrastructure/json"
	"community-chat/internal/infrastructure/logging"
	"community-chat/internal/infrastructure/ws"
	"community-chat/internal/presentation/utils"
)

type Handler struct {
	hub      *ws.Hub
	provider identity.Provider
	logger   logging.Logger
	upgrader websocket.Upgrader
}

func NewHandler(hub *ws.Hub, provider identity.Provider, logger logging.Logger) *Handler {
	return &Handler{
		hub:      hub,
		provider: provider,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin policy is enforced by the CORS middleware in front.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeWS authenticates the token, upgrades the connection and starts
// the session pumps. The session still has to registerUser before it
// appears in presence.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	resolved, err := h.provider.Resolve(utils.BearerToken(r))
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrAccountDisabled):
			json.WriteError(w, http.StatusForbidden, "account disabled")
		default:
			json.WriteError(w, http.StatusUnauthorized, "invalid credentials")
		}
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn(logging.WebSocket, logging.Delivery, "upgrade failed", map[logging.ExtraKey]any{
			logging.UserID:       resolved.UserID,
			logging.ErrorMessage: err.Error(),
		})
		return
	}

	session := h.hub.Connect(conn, &ws.Auth{
		UserID: resolved.UserID,
		Name:   resolved.Name,
		Avatar: resolved.Avatar,
	})

	go session.WritePump()
	go session.ReadPump(h.hub)
}
