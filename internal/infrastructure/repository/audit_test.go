package repository

import (
	"context"
	"testing"

	"community-chat/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditRecordAndQuery(t *testing.T) {
	repo := NewAuditRepository()
	ctx := context.Background()

	admin := domain.Actor{UserID: "admin1", Role: domain.RoleAdmin}
	owner := domain.Actor{UserID: "boss", IsSystemOwner: true}

	msg := &domain.Message{ID: "m1", RoomID: "r1", AuthorID: "u1"}
	require.NoError(t, repo.Record(ctx, domain.NewMessageDeletedRecord(admin, msg)))
	require.NoError(t, repo.Record(ctx, domain.NewMemberRemovedRecord(owner, "r1", "u2")))
	require.NoError(t, repo.Record(ctx, domain.NewRoleChangedRecord(admin, "r1", "u3", domain.RoomRoleMember, domain.RoomRoleModerator)))

	// Unfiltered query is newest-first.
	all, err := repo.Query(ctx, domain.AuditFilter{}, 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, domain.ActionChangeRole, all[0].Action)
	assert.Equal(t, domain.ActionDeleteMessage, all[2].Action)

	// Filter by action.
	deletes, err := repo.Query(ctx, domain.AuditFilter{Action: domain.ActionDeleteMessage}, 10, 0)
	require.NoError(t, err)
	require.Len(t, deletes, 1)
	assert.Equal(t, "admin1", deletes[0].ActorID)
	assert.Equal(t, "u1", deletes[0].Metadata["original_author_id"])
	assert.False(t, deletes[0].ActorOwner)

	// Filter by actor; the owner flag captured at action time sticks.
	byOwner, err := repo.Query(ctx, domain.AuditFilter{ActorID: "boss"}, 10, 0)
	require.NoError(t, err)
	require.Len(t, byOwner, 1)
	assert.True(t, byOwner[0].ActorOwner)
}

func TestAuditQueryPagination(t *testing.T) {
	repo := NewAuditRepository()
	ctx := context.Background()
	actor := domain.Actor{UserID: "a", Role: domain.RoleAdmin}

	for i := 0; i < 5; i++ {
		msg := &domain.Message{ID: string(rune('a' + i)), RoomID: "r1", AuthorID: "u"}
		require.NoError(t, repo.Record(ctx, domain.NewMessageDeletedRecord(actor, msg)))
	}

	page1, err := repo.Query(ctx, domain.AuditFilter{}, 2, 0)
	require.NoError(t, err)
	require.Len(t, page1, 2)

	page2, err := repo.Query(ctx, domain.AuditFilter{}, 2, 2)
	require.NoError(t, err)
	require.Len(t, page2, 2)
	assert.NotEqual(t, page1[0].ID, page2[0].ID)

	empty, err := repo.Query(ctx, domain.AuditFilter{}, 2, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
