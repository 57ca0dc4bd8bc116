package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveRoleCreatorNeverBelowAdmin(t *testing.T) {
	room := &Room{ID: "r1", OwnerID: "creator", CreatedAt: time.Now()}

	// A membership row edited down to plain member still resolves to admin
	// for the creator: the distinguished status comes from room.OwnerID.
	m := NewMembership("r1", "creator", RoomRoleMember)
	assert.Equal(t, RoomRoleAdmin, m.EffectiveRole(room))

	m.Role = RoomRoleOwner
	assert.Equal(t, RoomRoleOwner, m.EffectiveRole(room))
}

func TestEffectiveRoleRegularMember(t *testing.T) {
	room := &Room{ID: "r1", OwnerID: "creator"}

	m := NewMembership("r1", "u2", RoomRoleModerator)
	assert.Equal(t, RoomRoleModerator, m.EffectiveRole(room))
}

func TestOwnerCannotLeave(t *testing.T) {
	room := &Room{ID: "r1", OwnerID: "creator"}

	owner := NewMembership("r1", "creator", RoomRoleOwner)
	assert.False(t, owner.CanLeave(room))

	member := NewMembership("r1", "u2", RoomRoleMember)
	assert.True(t, member.CanLeave(room))
}
