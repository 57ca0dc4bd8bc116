package ws

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"community-chat/internal/domain"
	"community-chat/internal/infrastructure/logging"
	"community-chat/internal/infrastructure/messaging"
	"community-chat/internal/infrastructure/metrics"
	"community-chat/internal/infrastructure/tracing"
)

// HubConfig wires the hub's collaborators. Rooms and Memberships are
// optional: when absent, joins trust the HTTP layer and leaves only
// drop the subscription. Publisher is optional too.
type HubConfig struct {
	Messages    domain.MessageRepository
	Audit       domain.AuditRepository
	Rooms       domain.RoomRepository
	Memberships domain.MembershipRepository
	Publisher   *messaging.ModerationPublisher
	Logger      logging.Logger
	Metrics     *metrics.Chat

	// SessionBuffer sizes each session's outbound channel.
	SessionBuffer int
}

// Hub routes inbound socket events, fans deliveries out per room and
// owns the moderation delete path shared with the HTTP API.
type Hub struct {
	registry *Registry
	presence *Presence

	messages    domain.MessageRepository
	audit       domain.AuditRepository
	rooms       domain.RoomRepository
	memberships domain.MembershipRepository
	publisher   *messaging.ModerationPublisher

	logger  logging.Logger
	metrics *metrics.Chat
	buffer  int
}

func NewHub(cfg HubConfig) *Hub {
	return &Hub{
		registry:    NewRegistry(),
		presence:    NewPresence(),
		messages:    cfg.Messages,
		audit:       cfg.Audit,
		rooms:       cfg.Rooms,
		memberships: cfg.Memberships,
		publisher:   cfg.Publisher,
		logger:      cfg.Logger,
		metrics:     cfg.Metrics,
		buffer:      cfg.SessionBuffer,
	}
}

// Connect admits a new socket. The session starts unidentified; the
// client must send a registerUser event before it shows up in presence.
func (h *Hub) Connect(conn Conn, auth *Auth) *Session {
	session := NewSession(conn, h.buffer, auth)
	h.metrics.SessionsConnected.Inc()

	h.logger.Debug(logging.WebSocket, logging.Delivery, "session connected", map[logging.ExtraKey]any{
		logging.SessionID: session.ID,
	})

	return session
}

// Disconnect tears the session down: every room subscription and
// presence entry goes away and the socket closes. Safe to call twice.
func (h *Hub) Disconnect(session *Session) {
	if !session.Close() {
		return
	}

	rooms := session.Rooms()
	removed := h.registry.Drop(session)
	h.presence.DropSession(session)

	h.metrics.SessionsConnected.Dec()
	h.metrics.RoomSubscriptions.Sub(float64(removed))

	for _, roomID := range rooms {
		h.broadcastPresence(roomID)
	}

	h.logger.Debug(logging.WebSocket, logging.Delivery, "session disconnected", map[logging.ExtraKey]any{
		logging.SessionID: session.ID,
		logging.UserID:    session.UserID(),
	})
}

// Dispatch routes one inbound frame. Protocol errors go back to the
// sender only; they never touch the room.
func (h *Hub) Dispatch(session *Session, raw []byte) {
	var in Inbound
	if err := json.Unmarshal(raw, &in); err != nil {
		session.Send(NewErrorEvent(CodeValidation, "malformed frame", ""))
		return
	}

	switch in.Type {
	case EventRegisterUser:
		h.handleRegister(session, in.Data)
	case EventJoinRoom:
		h.handleJoin(session, in.Data)
	case EventLeaveRoom:
		h.handleLeave(session, in.Data)
	case EventSendMessage:
		h.handleSend(session, in.Data)
	case EventTyping:
		h.handleTyping(session, in.Data)
	default:
		session.Send(NewErrorEvent(CodeValidation, "unknown event type: "+in.Type, ""))
	}
}

func (h *Hub) handleRegister(session *Session, data json.RawMessage) {
	var req RegisterUserRequest
	if err := json.Unmarshal(data, &req); err != nil || req.UserID == "" {
		session.Send(NewErrorEvent(CodeValidation, "registerUser requires a userId", ""))
		return
	}

	// A socket authenticated at upgrade time may only register as that
	// user.
	if authID := session.AuthUserID(); authID != "" && authID != req.UserID {
		session.Send(NewErrorEvent(CodeAuth, "userId does not match the authenticated session", ""))
		return
	}

	// Last registration wins: rebinding moves presence to the new user.
	if prev := session.UserID(); prev != "" && prev != req.UserID {
		h.presence.Unregister(prev, session)
	}

	session.Identify(req.UserID, req.Name, req.Avatar)
	h.presence.Register(req.UserID, session)

	for _, roomID := range session.Rooms() {
		h.broadcastPresence(roomID)
	}

	h.logger.Debug(logging.WebSocket, logging.Presence, "session registered", map[logging.ExtraKey]any{
		logging.SessionID: session.ID,
		logging.UserID:    req.UserID,
	})
}

func (h *Hub) handleJoin(session *Session, data json.RawMessage) {
	var req JoinRoomRequest
	if err := json.Unmarshal(data, &req); err != nil || req.RoomID == "" {
		session.Send(NewErrorEvent(CodeValidation, "joinRoom requires a roomId", ""))
		return
	}

	if !session.Identified() {
		session.Send(NewErrorEvent(CodeValidation, "register before joining a room", req.RoomID))
		return
	}

	// With a membership store wired in, a join claim is re-checked
	// server-side instead of trusted.
	if h.memberships != nil {
		if _, err := h.memberships.Get(context.Background(), req.RoomID, session.UserID()); err != nil {
			session.Send(NewErrorEvent(CodeForbidden, "not a member of this room", req.RoomID))
			return
		}
	}

	if h.registry.Join(session, req.RoomID) {
		h.metrics.RoomSubscriptions.Inc()
	}

	h.broadcastPresence(req.RoomID)
}

func (h *Hub) handleLeave(session *Session, data json.RawMessage) {
	var req LeaveRoomRequest
	if err := json.Unmarshal(data, &req); err != nil || req.RoomID == "" {
		session.Send(NewErrorEvent(CodeValidation, "leaveRoom requires a roomId", ""))
		return
	}

	if h.registry.Leave(session, req.RoomID) {
		h.metrics.RoomSubscriptions.Dec()
	}

	// Leaving also destroys the membership, except for the owner: their
	// membership survives every leave while they still own the room.
	if h.memberships != nil && session.UserID() != "" {
		if !h.isRoomOwner(req.RoomID, session.UserID()) {
			if err := h.memberships.Delete(context.Background(), req.RoomID, session.UserID()); err != nil &&
				!errors.Is(err, domain.ErrMemberNotFound) {
				h.logger.Error(logging.WebSocket, logging.Delivery, "membership delete failed", map[logging.ExtraKey]any{
					logging.RoomID:       req.RoomID,
					logging.UserID:       session.UserID(),
					logging.ErrorMessage: err.Error(),
				})
			}
		}
	}

	h.broadcastPresence(req.RoomID)
}

func (h *Hub) handleSend(session *Session, data json.RawMessage) {
	var req SendMessageRequest
	if err := json.Unmarshal(data, &req); err != nil {
		session.Send(NewErrorEvent(CodeValidation, "malformed sendMessage payload", ""))
		return
	}

	if !session.InRoom(req.RoomID) {
		session.Send(NewErrorEvent(CodeForbidden, "join the room before sending", req.RoomID))
		return
	}

	ctx, span := tracing.GetTracer("ws").Start(context.Background(), "hub.SendMessage")
	defer span.End()

	message, err := domain.NewMessage(req.RoomID, session.UserID(), req.Text, req.Attachments)
	if err != nil {
		session.Send(NewErrorEvent(CodeValidation, err.Error(), req.RoomID))
		return
	}

	if err := h.messages.Create(ctx, message); err != nil {
		h.logger.Error(logging.WebSocket, logging.Delivery, "message persist failed", map[logging.ExtraKey]any{
			logging.RoomID:       req.RoomID,
			logging.UserID:       session.UserID(),
			logging.ErrorMessage: err.Error(),
		})
		session.Send(NewErrorEvent(CodePersistence, "message could not be saved", req.RoomID))
		return
	}

	h.metrics.MessagesSent.Inc()

	// Every subscriber gets the clientTempId, the sender's other
	// sessions included: any client holding the optimistic copy can
	// swap it for the persisted message.
	h.broadcast(req.RoomID, NewMessageCreatedEvent(message, req.ClientTempID), "")
}

func (h *Hub) handleTyping(session *Session, data json.RawMessage) {
	var req TypingRequest
	if err := json.Unmarshal(data, &req); err != nil || req.RoomID == "" {
		return
	}

	if !session.InRoom(req.RoomID) || !session.Identified() {
		return
	}

	// Typing is ephemeral: never persisted, never echoed to the sender.
	h.broadcast(req.RoomID, NewTypingEvent(req.RoomID, session.UserID(), session.Name()), session.ID)
}

// DeleteMessage is the single moderation delete path, shared by the
// HTTP handler. Authorization happens here; the audit write and broker
// publish are log-and-continue so a flaky sink never blocks or
// reverses a legitimate delete.
func (h *Hub) DeleteMessage(ctx context.Context, actor domain.Actor, roomID, messageID string) error {
	ctx, span := tracing.GetTracer("ws").Start(ctx, "hub.DeleteMessage")
	defer span.End()

	message, err := h.messages.GetByID(ctx, roomID, messageID)
	if err != nil {
		return err
	}

	room := h.lookupRoom(ctx, roomID)
	if !domain.CanDelete(actor, message, room, time.Now().UTC()) {
		return domain.ErrForbidden
	}

	if err := h.messages.DeleteByID(ctx, messageID); err != nil {
		return err
	}

	record := domain.NewMessageDeletedRecord(actor, message)
	if err := h.audit.Record(ctx, record); err != nil {
		h.metrics.AuditWriteErrors.Inc()
		h.logger.Error(logging.Moderation, logging.Audit, "audit write failed", map[logging.ExtraKey]any{
			logging.MessageID:    messageID,
			logging.UserID:       actor.UserID,
			logging.ErrorMessage: err.Error(),
		})
	}

	if h.publisher != nil {
		if err := h.publisher.PublishMessageDeleted(ctx, record); err != nil {
			h.logger.Error(logging.RabbitMQ, logging.ExternalService, "moderation publish failed", map[logging.ExtraKey]any{
				logging.MessageID:    messageID,
				logging.ErrorMessage: err.Error(),
			})
		}
	}

	h.metrics.MessagesDeleted.Inc()
	h.broadcast(roomID, NewMessageDeletedEvent(roomID, messageID), "")

	h.logger.Info(logging.Moderation, logging.Audit, "message deleted", map[logging.ExtraKey]any{
		logging.MessageID: messageID,
		logging.RoomID:    roomID,
		logging.UserID:    actor.UserID,
	})

	return nil
}

// BroadcastRoomEvent lets HTTP handlers push room-scoped events (role
// changes, removals) through the same fan-out as socket traffic.
func (h *Hub) BroadcastRoomEvent(roomID string, event *Event) {
	h.broadcast(roomID, event, "")
}

// RemoveUserFromRoom drops every live session the user holds on the
// room. The kick flow calls this after destroying the membership.
func (h *Hub) RemoveUserFromRoom(roomID, userID string) {
	removed := false
	for _, session := range h.presence.Lookup(userID) {
		if h.registry.Leave(session, roomID) {
			h.metrics.RoomSubscriptions.Dec()
			removed = true
		}
	}

	if removed {
		h.broadcastPresence(roomID)
	}
}

// Registry exposes the room registry for handlers that need a
// read-only view, such as the health endpoint.
func (h *Hub) Registry() *Registry {
	return h.registry
}

func (h *Hub) Presence() *Presence {
	return h.presence
}

func (h *Hub) broadcast(roomID string, event *Event, exceptID string) {
	_, stalled := h.registry.Broadcast(roomID, event, exceptID)

	for _, session := range stalled {
		h.metrics.BroadcastsDropped.Inc()
		h.logger.Warn(logging.WebSocket, logging.Broadcast, "outbound buffer full, dropping session", map[logging.ExtraKey]any{
			logging.SessionID: session.ID,
			logging.RoomID:    roomID,
		})
		h.Disconnect(session)
	}
}

func (h *Hub) broadcastPresence(roomID string) {
	sessions := h.registry.Sessions(roomID)

	seen := make(map[string]struct{}, len(sessions))
	users := make([]PresenceEntry, 0, len(sessions))
	for _, session := range sessions {
		userID := session.UserID()
		if userID == "" {
			continue
		}
		if _, ok := seen[userID]; ok {
			continue
		}
		seen[userID] = struct{}{}
		users = append(users, PresenceEntry{
			UserID: userID,
			Name:   session.Name(),
			Avatar: session.Avatar(),
		})
	}

	h.broadcast(roomID, NewOnlinePresenceEvent(roomID, users), "")
}

func (h *Hub) isRoomOwner(roomID, userID string) bool {
	room := h.lookupRoom(context.Background(), roomID)

	return room != nil && room.IsOwner(userID)
}

func (h *Hub) lookupRoom(ctx context.Context, roomID string) *domain.Room {
	if h.rooms == nil {
		return nil
	}

	room, err := h.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil
	}

	return room
}
