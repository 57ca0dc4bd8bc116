package repository

import (
	"context"
	"sync"

	"community-chat/internal/domain"
)

type roomRepository struct {
	mu    sync.RWMutex
	rooms map[string]*domain.Room
}

func NewRoomRepository() domain.RoomRepository {
	return &roomRepository{rooms: make(map[string]*domain.Room)}
}

func (r *roomRepository) Create(ctx context.Context, room *domain.Room) error {
	if room == nil || room.ID == "" {
		return domain.ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *room
	r.rooms[room.ID] = &cpy
	return nil
}

func (r *roomRepository) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[id]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}

	cpy := *room
	return &cpy, nil
}

func (r *roomRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[id]; !ok {
		return domain.ErrRoomNotFound
	}
	delete(r.rooms, id)
	return nil
}

type membershipKey struct {
	roomID string
	userID string
}

type membershipRepository struct {
	mu      sync.RWMutex
	members map[membershipKey]*domain.Membership
}

func NewMembershipRepository() domain.MembershipRepository {
	return &membershipRepository{members: make(map[membershipKey]*domain.Membership)}
}

func (r *membershipRepository) Upsert(ctx context.Context, m *domain.Membership) error {
	if m == nil || m.RoomID == "" || m.UserID == "" {
		return domain.ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *m
	r.members[membershipKey{m.RoomID, m.UserID}] = &cpy
	return nil
}

func (r *membershipRepository) Get(ctx context.Context, roomID, userID string) (*domain.Membership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.members[membershipKey{roomID, userID}]
	if !ok {
		return nil, domain.ErrMemberNotFound
	}

	cpy := *m
	return &cpy, nil
}

func (r *membershipRepository) ListByRoom(ctx context.Context, roomID string) ([]domain.Membership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var members []domain.Membership
	for key, m := range r.members {
		if key.roomID == roomID {
			members = append(members, *m)
		}
	}
	return members, nil
}

func (r *membershipRepository) Delete(ctx context.Context, roomID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := membershipKey{roomID, userID}
	if _, ok := r.members[key]; !ok {
		return domain.ErrMemberNotFound
	}
	delete(r.members, key)
	return nil
}
