package messages

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"community-chat/internal/domain"
	"community-chat/internal/infrastructure/logging"
	"community-chat/internal/infrastructure/metrics"
	"community-chat/internal/infrastructure/repository"
	"community-chat/internal/infrastructure/ws"
	"community-chat/internal/presentation/utils"
)

type fixture struct {
	handler  *Handler
	messages domain.MessageRepository
	audit    domain.AuditRepository
	router   chi.Router
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	messages := repository.NewMessageRepository()
	audit := repository.NewAuditRepository()

	hub := ws.NewHub(ws.HubConfig{
		Messages: messages,
		Audit:    audit,
		Rooms:    repository.NewRoomRepository(),
		Logger:   logging.NewNop(),
		Metrics:  metrics.NewChat(),
	})

	handler := NewHandler(messages, hub, 50)

	router := chi.NewRouter()
	router.Get("/api/rooms/{roomId}/messages", handler.ListMessagesHandler)
	router.Delete("/api/rooms/{roomId}/messages/{messageId}", handler.DeleteMessageHandler)

	return &fixture{
		handler:  handler,
		messages: messages,
		audit:    audit,
		router:   router,
	}
}

func (f *fixture) seedMessage(t *testing.T, roomID, authorID, text string, createdAt time.Time) *domain.Message {
	t.Helper()

	message := &domain.Message{
		ID:        uuid.NewString(),
		RoomID:    roomID,
		AuthorID:  authorID,
		Text:      text,
		CreatedAt: createdAt,
	}
	require.NoError(t, f.messages.Create(context.Background(), message))

	return message
}

func (f *fixture) do(req *http.Request, actor *domain.Actor) *httptest.ResponseRecorder {
	if actor != nil {
		req = req.WithContext(utils.WithActor(req.Context(), *actor))
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	return rec
}

func TestListMessagesAscendingWithLimit(t *testing.T) {
	f := newFixture(t)
	base := time.Now().UTC().Add(-time.Hour)
	for i, text := range []string{"one", "two", "three"} {
		f.seedMessage(t, "room-1", "alice", text, base.Add(time.Duration(i)*time.Minute))
	}

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/rooms/room-1/messages?limit=2", nil), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp listMessagesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Messages, 2)
	assert.Equal(t, "two", resp.Messages[0].Text, "limit keeps the newest, order stays ascending")
	assert.Equal(t, "three", resp.Messages[1].Text)
}

func TestListMessagesBeforeCursor(t *testing.T) {
	f := newFixture(t)
	base := time.Now().UTC().Add(-time.Hour)
	for i, text := range []string{"one", "two", "three"} {
		f.seedMessage(t, "room-1", "alice", text, base.Add(time.Duration(i)*time.Minute))
	}

	cursor := base.Add(2 * time.Minute).Format(time.RFC3339Nano)
	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/rooms/room-1/messages?before="+cursor, nil), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp listMessagesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Messages, 2)
	assert.Equal(t, "one", resp.Messages[0].Text)
	assert.Equal(t, "two", resp.Messages[1].Text)
}

func TestListMessagesRejectsBadParams(t *testing.T) {
	f := newFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/rooms/room-1/messages?limit=zero", nil), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(httptest.NewRequest(http.MethodGet, "/api/rooms/room-1/messages?before=yesterday", nil), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteMessageAsAuthor(t *testing.T) {
	f := newFixture(t)
	message := f.seedMessage(t, "room-1", "bob", "typo", time.Now().UTC())

	actor := &domain.Actor{UserID: "bob", Role: domain.RoleStudent}
	rec := f.do(httptest.NewRequest(http.MethodDelete, "/api/rooms/room-1/messages/"+message.ID, nil), actor)

	assert.Equal(t, http.StatusOK, rec.Code)
	_, err := f.messages.GetByID(context.Background(), "room-1", message.ID)
	assert.ErrorIs(t, err, domain.ErrMessageNotFound)

	records, err := f.audit.Query(context.Background(), domain.AuditFilter{Action: domain.ActionDeleteMessage}, 10, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, message.ID, records[0].TargetID)
}

func TestDeleteMessageAfterGraceWindowForbidden(t *testing.T) {
	f := newFixture(t)
	message := f.seedMessage(t, "room-1", "bob", "old", time.Now().UTC().Add(-16*time.Minute))

	actor := &domain.Actor{UserID: "bob", Role: domain.RoleStudent}
	rec := f.do(httptest.NewRequest(http.MethodDelete, "/api/rooms/room-1/messages/"+message.ID, nil), actor)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	_, err := f.messages.GetByID(context.Background(), "room-1", message.ID)
	assert.NoError(t, err)
}

func TestDeleteMessageUnknownIDNotFound(t *testing.T) {
	f := newFixture(t)

	actor := &domain.Actor{UserID: "admin-1", Role: domain.RoleAdmin}
	rec := f.do(httptest.NewRequest(http.MethodDelete, "/api/rooms/room-1/messages/missing", nil), actor)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteMessageWithoutActorUnauthorized(t *testing.T) {
	f := newFixture(t)
	message := f.seedMessage(t, "room-1", "bob", "text", time.Now().UTC())

	rec := f.do(httptest.NewRequest(http.MethodDelete, "/api/rooms/room-1/messages/"+message.ID, nil), nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
