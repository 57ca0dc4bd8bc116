package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(buffer int) *Session {
	return NewSession(nil, buffer, nil)
}

func TestRegistryJoinIsIdempotent(t *testing.T) {
	registry := NewRegistry()
	session := newTestSession(4)

	require.True(t, registry.Join(session, "room-1"))
	require.False(t, registry.Join(session, "room-1"))

	assert.Equal(t, 1, registry.RoomSize("room-1"))
	assert.True(t, session.InRoom("room-1"))
}

func TestRegistryLeaveUnknownRoomIsNoOp(t *testing.T) {
	registry := NewRegistry()
	session := newTestSession(4)

	assert.False(t, registry.Leave(session, "never-joined"))

	require.True(t, registry.Join(session, "room-1"))
	assert.False(t, registry.Leave(session, "room-2"))
	assert.Equal(t, 1, registry.RoomSize("room-1"))
}

func TestRegistryLeaveRemovesOnlyThatRoom(t *testing.T) {
	registry := NewRegistry()
	session := newTestSession(4)

	registry.Join(session, "room-1")
	registry.Join(session, "room-2")

	require.True(t, registry.Leave(session, "room-1"))

	assert.Equal(t, 0, registry.RoomSize("room-1"))
	assert.Equal(t, 1, registry.RoomSize("room-2"))
	assert.False(t, session.InRoom("room-1"))
	assert.True(t, session.InRoom("room-2"))
}

func TestRegistryDropClearsEveryRoom(t *testing.T) {
	registry := NewRegistry()
	first := newTestSession(4)
	second := newTestSession(4)

	registry.Join(first, "room-1")
	registry.Join(first, "room-2")
	registry.Join(second, "room-1")

	assert.Equal(t, 2, registry.Drop(first))
	assert.Equal(t, 0, registry.Drop(first))

	assert.Equal(t, 1, registry.RoomSize("room-1"))
	assert.Equal(t, 0, registry.RoomSize("room-2"))
	assert.Empty(t, first.Rooms())
}

func TestRegistryBroadcastSkipsSenderAndReportsStalled(t *testing.T) {
	registry := NewRegistry()
	sender := newTestSession(1)
	receiver := newTestSession(2)
	stalled := newTestSession(1)

	registry.Join(sender, "room-1")
	registry.Join(receiver, "room-1")
	registry.Join(stalled, "room-1")

	// Saturate the stalled session's buffer.
	require.True(t, stalled.Send(&Event{Type: EventTyping}))

	delivered, overflow := registry.Broadcast("room-1", NewTypingEvent("room-1", "u1", "Ada"), sender.ID)

	assert.Equal(t, 1, delivered)
	require.Len(t, overflow, 1)
	assert.Equal(t, stalled.ID, overflow[0].ID)
	assert.Empty(t, sender.Outbound())
	assert.Len(t, receiver.Outbound(), 1)
}
