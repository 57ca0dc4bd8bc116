package ws

import "sync"

// Presence maps user ids to their live sessions. A user with several
// tabs open has several sessions; they stay online until the last one
// unregisters.
type Presence struct {
	mu    sync.RWMutex
	users map[string]map[string]*Session
}

func NewPresence() *Presence {
	return &Presence{
		users: make(map[string]map[string]*Session),
	}
}

func (p *Presence) Register(userID string, session *Session) {
	if userID == "" {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	sessions, ok := p.users[userID]
	if !ok {
		sessions = make(map[string]*Session)
		p.users[userID] = sessions
	}

	sessions[session.ID] = session
}

func (p *Presence) Unregister(userID string, session *Session) {
	p.mu.Lock()
	defer p.mu.Unlock()

	sessions, ok := p.users[userID]
	if !ok {
		return
	}

	delete(sessions, session.ID)
	if len(sessions) == 0 {
		delete(p.users, userID)
	}
}

// DropSession removes the session from whatever user it is bound to.
// Disconnect is an implicit unregister.
func (p *Presence) DropSession(session *Session) {
	if userID := session.UserID(); userID != "" {
		p.Unregister(userID, session)
	}
}

// Online reports whether the user has at least one live session.
func (p *Presence) Online(userID string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return len(p.users[userID]) > 0
}

// Lookup returns a snapshot of the user's sessions.
func (p *Presence) Lookup(userID string) []*Session {
	p.mu.RLock()
	defer p.mu.RUnlock()

	sessions := make([]*Session, 0, len(p.users[userID]))
	for _, session := range p.users[userID] {
		sessions = append(sessions, session)
	}

	return sessions
}
