// Package repository holds the in-memory store implementations used in
// standalone mode and as test fixtures. The durable MongoDB implementations
// live under infrastructure/persistence.
package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"community-chat/internal/domain"
)

type messageRepository struct {
	mu       sync.RWMutex
	byID     map[string]*domain.Message
	byRoomID map[string][]string // roomID -> message IDs, insertion order
}

func NewMessageRepository() domain.MessageRepository {
	return &messageRepository{
		byID:     make(map[string]*domain.Message),
		byRoomID: make(map[string][]string),
	}
}

func (r *messageRepository) Create(ctx context.Context, message *domain.Message) error {
	if message == nil || message.ID == "" || message.RoomID == "" {
		return domain.ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *message
	r.byID[message.ID] = &cpy
	r.byRoomID[message.RoomID] = append(r.byRoomID[message.RoomID], message.ID)

	return nil
}

func (r *messageRepository) GetByID(ctx context.Context, roomID, messageID string) (*domain.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	msg, ok := r.byID[messageID]
	if !ok || msg.RoomID != roomID {
		return nil, domain.ErrMessageNotFound
	}

	cpy := *msg
	return &cpy, nil
}

func (r *messageRepository) ListRecent(ctx context.Context, roomID string, limit int, before time.Time) ([]domain.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var messages []domain.Message
	for _, id := range r.byRoomID[roomID] {
		msg := r.byID[id]
		if msg == nil {
			continue
		}
		if !before.IsZero() && !msg.CreatedAt.Before(before) {
			continue
		}
		messages = append(messages, *msg)
	}

	sort.Slice(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})

	if limit > 0 && len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}

	return messages, nil
}

func (r *messageRepository) DeleteByID(ctx context.Context, messageID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg, ok := r.byID[messageID]
	if !ok {
		return domain.ErrMessageNotFound
	}

	delete(r.byID, messageID)
	r.byRoomID[msg.RoomID] = removeID(r.byRoomID[msg.RoomID], messageID)

	return nil
}

func (r *messageRepository) DeleteByRoomID(ctx context.Context, roomID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := int64(len(r.byRoomID[roomID]))
	for _, id := range r.byRoomID[roomID] {
		delete(r.byID, id)
	}
	delete(r.byRoomID, roomID)

	return removed, nil
}

func removeID(ids []string, id string) []string {
	for i, candidate := range ids {
		if candidate == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
