package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPresenceMultipleSessionsPerUser(t *testing.T) {
	presence := NewPresence()
	laptop := newTestSession(4)
	phone := newTestSession(4)

	presence.Register("user-1", laptop)
	presence.Register("user-1", phone)

	assert.True(t, presence.Online("user-1"))
	assert.Len(t, presence.Lookup("user-1"), 2)

	presence.Unregister("user-1", laptop)
	assert.True(t, presence.Online("user-1"), "still online through the other session")

	presence.Unregister("user-1", phone)
	assert.False(t, presence.Online("user-1"))
	assert.Empty(t, presence.Lookup("user-1"))
}

func TestPresenceUnregisterUnknownUserIsNoOp(t *testing.T) {
	presence := NewPresence()
	session := newTestSession(4)

	presence.Unregister("ghost", session)
	assert.False(t, presence.Online("ghost"))
}

func TestPresenceDropSessionUsesBoundUser(t *testing.T) {
	presence := NewPresence()
	session := newTestSession(4)
	session.Identify("user-1", "Ada", "")

	presence.Register("user-1", session)
	presence.DropSession(session)

	assert.False(t, presence.Online("user-1"))
}

func TestPresenceRegisterIgnoresEmptyUserID(t *testing.T) {
	presence := NewPresence()
	presence.Register("", newTestSession(4))

	assert.False(t, presence.Online(""))
}
