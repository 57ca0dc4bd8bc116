package ws

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait     = 10 * time.Second
	pongWait      = 60 * time.Second
	pingPeriod    = (pongWait * 9) / 10
	maxFrameSize  = 1 << 20
	defaultBuffer = 64
)

// Conn is the subset of *websocket.Conn the session needs. Tests swap
// in a fake; production always passes the real thing.
type Conn interface {
	ReadMessage() (int, []byte, error)
	WriteJSON(v any) error
	WriteMessage(messageType int, data []byte) error
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	Close() error
}

// Auth carries the identity verified at upgrade time, before the
// session registers itself over the socket.
type Auth struct {
	UserID string
	Name   string
	Avatar string
}

// Session is one websocket connection. Outbound events go through a
// bounded channel; a full channel marks the session as stalled and the
// hub disconnects it rather than block the broadcaster.
type Session struct {
	ID string

	mu     sync.Mutex
	conn   Conn
	out    chan *Event
	closed bool

	userID string
	name   string
	avatar string
	auth   *Auth
	rooms  map[string]struct{}
}

func NewSession(conn Conn, buffer int, auth *Auth) *Session {
	if buffer <= 0 {
		buffer = defaultBuffer
	}

	return &Session{
		ID:    uuid.NewString(),
		conn:  conn,
		out:   make(chan *Event, buffer),
		auth:  auth,
		rooms: make(map[string]struct{}),
	}
}

func (s *Session) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.userID
}

func (s *Session) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.name
}

func (s *Session) Avatar() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.avatar
}

func (s *Session) AuthUserID() string {
	if s.auth == nil {
		return ""
	}

	return s.auth.UserID
}

// Identify binds the session to a user. Re-registering with a
// different user rebinds it; the last registration wins.
func (s *Session) Identify(userID, name, avatar string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.userID = userID
	s.name = name
	s.avatar = avatar
}

func (s *Session) Identified() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.userID != ""
}

func (s *Session) trackJoin(roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rooms[roomID] = struct{}{}
}

func (s *Session) trackLeave(roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.rooms, roomID)
}

func (s *Session) Rooms() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	rooms := make([]string, 0, len(s.rooms))
	for roomID := range s.rooms {
		rooms = append(rooms, roomID)
	}

	return rooms
}

func (s *Session) InRoom(roomID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.rooms[roomID]

	return ok
}

// Send queues an event without blocking. It reports false when the
// session is closed or its buffer is full.
func (s *Session) Send(event *Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}

	select {
	case s.out <- event:
		return true
	default:
		return false
	}
}

// Close is idempotent and reports whether this call performed the
// close.
func (s *Session) Close() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}

	s.closed = true
	close(s.out)

	if s.conn != nil {
		_ = s.conn.Close()
	}

	return true
}

func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closed
}

// Outbound exposes the queued events. Tests drain it directly instead
// of running WritePump.
func (s *Session) Outbound() <-chan *Event {
	return s.out
}

// ReadPump consumes frames from the socket and dispatches them until
// the connection dies, then tears the session down.
func (s *Session) ReadPump(hub *Hub) {
	defer hub.Disconnect(s)

	s.conn.SetReadLimit(maxFrameSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			return
		}

		hub.Dispatch(s, raw)
	}
}

// WritePump drains the outbound channel onto the socket and keeps the
// connection alive with pings.
func (s *Session) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case event, ok := <-s.out:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := s.conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
