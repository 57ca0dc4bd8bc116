package ws

import "sync"

// Registry tracks which sessions are subscribed to which rooms. Rooms
// exist implicitly: the first join creates the entry, the last leave
// removes it.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]map[string]*Session),
	}
}

// Join subscribes the session to the room. Joining a room the session
// is already in is a no-op; it reports whether the subscription is new.
func (r *Registry) Join(session *Session, roomID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		room = make(map[string]*Session)
		r.rooms[roomID] = room
	}

	if _, ok := room[session.ID]; ok {
		return false
	}

	room[session.ID] = session
	session.trackJoin(roomID)

	return true
}

// Leave unsubscribes the session. Leaving a room the session never
// joined is a no-op; it reports whether a subscription was removed.
func (r *Registry) Leave(session *Session, roomID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.leaveLocked(session, roomID)
}

func (r *Registry) leaveLocked(session *Session, roomID string) bool {
	room, ok := r.rooms[roomID]
	if !ok {
		return false
	}

	if _, ok := room[session.ID]; !ok {
		return false
	}

	delete(room, session.ID)
	session.trackLeave(roomID)

	if len(room) == 0 {
		delete(r.rooms, roomID)
	}

	return true
}

// Drop removes the session from every room it joined and reports how
// many subscriptions were released.
func (r *Registry) Drop(session *Session) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for _, roomID := range session.Rooms() {
		if r.leaveLocked(session, roomID) {
			removed++
		}
	}

	return removed
}

// Sessions returns a snapshot of the room's subscribers.
func (r *Registry) Sessions(roomID string) []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room := r.rooms[roomID]
	sessions := make([]*Session, 0, len(room))
	for _, session := range room {
		sessions = append(sessions, session)
	}

	return sessions
}

func (r *Registry) RoomSize(roomID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.rooms[roomID])
}

// Broadcast queues the event on every subscriber except exceptID.
// Sessions whose buffers are full are returned as stalled so the
// caller can disconnect them instead of blocking everyone else.
func (r *Registry) Broadcast(roomID string, event *Event, exceptID string) (delivered int, stalled []*Session) {
	for _, session := range r.Sessions(roomID) {
		if session.ID == exceptID {
			continue
		}

		if session.Send(event) {
			delivered++
			continue
		}

		stalled = append(stalled, session)
	}

	return delivered, stalled
}
