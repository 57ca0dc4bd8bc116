package repository

import (
	"context"
	"testing"
	"time"

	"community-chat/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMessage(t *testing.T, repo domain.MessageRepository, roomID, text string, createdAt time.Time) *domain.Message {
	t.Helper()
	msg, err := domain.NewMessage(roomID, "u1", text, nil)
	require.NoError(t, err)
	msg.CreatedAt = createdAt
	require.NoError(t, repo.Create(context.Background(), msg))
	return msg
}

func TestCreateAndGet(t *testing.T) {
	repo := NewMessageRepository()
	ctx := context.Background()

	msg := seedMessage(t, repo, "r1", "hello", time.Now())

	got, err := repo.GetByID(ctx, "r1", msg.ID)
	require.NoError(t, err)
	assert.Equal(t, msg.Text, got.Text)

	// Room scoping: the same id in another room is not found.
	_, err = repo.GetByID(ctx, "r2", msg.ID)
	assert.ErrorIs(t, err, domain.ErrMessageNotFound)
}

func TestListRecentOrderAndPagination(t *testing.T) {
	repo := NewMessageRepository()
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	for i := 0; i < 5; i++ {
		seedMessage(t, repo, "r1", string(rune('a'+i)), base.Add(time.Duration(i)*time.Minute))
	}

	// Full ascending order.
	all, err := repo.ListRecent(ctx, "r1", 10, time.Time{})
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i := 1; i < len(all); i++ {
		assert.True(t, all[i-1].CreatedAt.Before(all[i].CreatedAt))
	}

	// Limit takes the newest slice, still ascending.
	last2, err := repo.ListRecent(ctx, "r1", 2, time.Time{})
	require.NoError(t, err)
	require.Len(t, last2, 2)
	assert.Equal(t, all[3].ID, last2[0].ID)
	assert.Equal(t, all[4].ID, last2[1].ID)

	// "Load earlier": before the oldest loaded message.
	earlier, err := repo.ListRecent(ctx, "r1", 10, last2[0].CreatedAt)
	require.NoError(t, err)
	require.Len(t, earlier, 3)
	assert.Equal(t, all[0].ID, earlier[0].ID)
	assert.Equal(t, all[2].ID, earlier[2].ID)
}

func TestListRecentEmptyRoom(t *testing.T) {
	repo := NewMessageRepository()

	messages, err := repo.ListRecent(context.Background(), "nowhere", 10, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestDeleteByID(t *testing.T) {
	repo := NewMessageRepository()
	ctx := context.Background()

	msg := seedMessage(t, repo, "r1", "bye", time.Now())

	require.NoError(t, repo.DeleteByID(ctx, msg.ID))

	_, err := repo.GetByID(ctx, "r1", msg.ID)
	assert.ErrorIs(t, err, domain.ErrMessageNotFound)

	// Second delete reports not found.
	assert.ErrorIs(t, repo.DeleteByID(ctx, msg.ID), domain.ErrMessageNotFound)
}

func TestDeleteByRoomIDCascade(t *testing.T) {
	repo := NewMessageRepository()
	ctx := context.Background()

	seedMessage(t, repo, "r1", "m1", time.Now())
	seedMessage(t, repo, "r1", "m2", time.Now())
	keep := seedMessage(t, repo, "r2", "m3", time.Now())

	removed, err := repo.DeleteByRoomID(ctx, "r1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)

	gone, err := repo.ListRecent(ctx, "r1", 10, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, gone)

	_, err = repo.GetByID(ctx, "r2", keep.ID)
	assert.NoError(t, err)
}
